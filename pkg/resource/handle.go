package resource

import "github.com/entrhq/pwfactory/pkg/options"

// Handle is an opaque capability returned by creation.
//
// Environment and Runtime handles are shared with the factory's singleton
// registry; Session handles are owned solely by the caller.
type Handle interface {
	// ID is unique per handle for the life of the process.
	ID() string

	// Kind reports which tier of the hierarchy the handle belongs to.
	Kind() Kind

	// Release frees the underlying resource. Calling it more than once
	// returns the error from the engine, if any.
	Release() error
}

// Bootstrapper starts an environment. It is the entry point into an engine.
type Bootstrapper interface {
	Bootstrap(opts options.EnvironmentOptions) (Environment, error)
}

// BootstrapFunc adapts a function to the Bootstrapper interface.
type BootstrapFunc func(opts options.EnvironmentOptions) (Environment, error)

// Bootstrap calls f(opts).
func (f BootstrapFunc) Bootstrap(opts options.EnvironmentOptions) (Environment, error) {
	return f(opts)
}

// Environment launches runtimes of a given engine family.
type Environment interface {
	Handle
	Launch(family Family, opts options.LaunchOptions) (Runtime, error)
}

// Runtime opens sessions.
type Runtime interface {
	Handle
	Family() Family
	OpenSession(opts options.SessionOptions) (Session, error)
}

// TracingController records a trace of everything a session does.
type TracingController interface {
	StartTrace(opts options.TraceStartOptions) error
	StopTrace(opts options.TraceStopOptions) error
}

// Session is an ephemeral handle that is never reused.
type Session interface {
	Handle
	TracingController
}
