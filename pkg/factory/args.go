package factory

import (
	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/registry"
	"github.com/entrhq/pwfactory/pkg/resource"
)

// callArgs is the typed view of the variadic arguments of Create and Close.
// Later arguments win over earlier ones; unrecognized arguments are ignored.
type callArgs struct {
	environment *options.EnvironmentOptions
	launch      *options.LaunchOptions
	session     *options.SessionOptions
	traceStart  *options.TraceStartOptions
	traceStop   *options.TraceStopOptions
	force       map[resource.ForceNew]bool
}

func parseArgs(args []any) callArgs {
	parsed := callArgs{force: make(map[resource.ForceNew]bool)}

	for _, arg := range args {
		switch v := arg.(type) {
		case resource.ForceNew:
			parsed.force[v] = true
		case options.EnvironmentOptions:
			parsed.environment = &v
		case *options.EnvironmentOptions:
			if v != nil {
				parsed.environment = v
			}
		case options.LaunchOptions:
			parsed.launch = &v
		case *options.LaunchOptions:
			if v != nil {
				parsed.launch = v
			}
		case options.SessionOptions:
			parsed.session = &v
		case *options.SessionOptions:
			if v != nil {
				parsed.session = v
			}
		case options.TraceStartOptions:
			parsed.traceStart = &v
		case *options.TraceStartOptions:
			if v != nil {
				parsed.traceStart = v
			}
		case options.TraceStopOptions:
			parsed.traceStop = &v
		case *options.TraceStopOptions:
			if v != nil {
				parsed.traceStop = v
			}
		}
	}
	return parsed
}

// resolve applies the three-tier rule: explicit, else recorded, else default.
func resolve[T options.Option](explicit *T, configs *registry.ConfigRegistry, defaults options.Defaults) T {
	if explicit != nil {
		return *explicit
	}
	if recorded, ok := registry.Lookup[T](configs); ok {
		return recorded
	}

	var zero T
	if d, ok := defaults.For(zero.Key()); ok {
		if typed, ok := d.(T); ok {
			return typed
		}
	}
	return zero
}
