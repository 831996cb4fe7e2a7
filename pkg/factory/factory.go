package factory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/entrhq/pwfactory/pkg/config"
	"github.com/entrhq/pwfactory/pkg/failsafe"
	"github.com/entrhq/pwfactory/pkg/logging"
	"github.com/entrhq/pwfactory/pkg/metrics"
	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/registry"
	"github.com/entrhq/pwfactory/pkg/resource"
)

const instrumentationName = "github.com/entrhq/pwfactory/pkg/factory"

// Factory creates and closes resources for any number of workers.
type Factory struct {
	bootstrapper    resource.Bootstrapper
	store           *registry.Store
	defaults        options.Defaults
	bootstrapPolicy failsafe.Policy
	logger          Logger
	metrics         metrics.Collector
	tracer          trace.Tracer

	bootstrapRetry *failsafe.Executor
	executor       *failsafe.Executor
}

// New creates a factory that starts environments with b.
func New(b resource.Bootstrapper, opts ...Option) *Factory {
	f := &Factory{
		bootstrapper: b,
		store:        registry.NewStore(),
		defaults:     options.BuiltinDefaults(),
		bootstrapPolicy: failsafe.Policy{
			Delay:       config.DefaultBootstrapDelay,
			MaxAttempts: config.DefaultBootstrapMaxAttempts,
		},
		logger:  logging.Discard(),
		metrics: metrics.Noop{},
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.bootstrapRetry = failsafe.NewExecutor(f.logger,
		failsafe.WithRetryHook(func(int, error) {
			f.metrics.RetryAttempt(resource.KindEnvironment.String())
		}),
		failsafe.WithExhaustedHook(func(int, error) {
			f.metrics.RetriesExhausted(resource.KindEnvironment.String())
		}),
	)
	f.executor = failsafe.NewExecutor(f.logger,
		failsafe.WithRetryHook(func(int, error) {
			f.metrics.RetryAttempt("operation")
		}),
		failsafe.WithExhaustedHook(func(int, error) {
			f.metrics.RetriesExhausted("operation")
		}),
		failsafe.WithFallbackHook(func(message string, _ error) {
			f.metrics.FallbackTriggered(message)
		}),
	)
	return f
}

// Scope returns the state of the worker carried on ctx.
func (f *Factory) Scope(ctx context.Context) *registry.Scope {
	return f.store.ScopeFor(ctx)
}

// Store returns the worker store.
func (f *Factory) Store() *registry.Store {
	return f.store
}

// Executor returns the retry and fallback executor reporting to the
// factory's logger and metrics.
func (f *Factory) Executor() *failsafe.Executor {
	return f.executor
}

// Create returns a handle of kind for the worker carried on ctx.
//
// args may hold, in any order, option values for the kind being created
// (options.EnvironmentOptions, options.LaunchOptions, or for sessions
// options.SessionOptions and options.TraceStartOptions) and a
// resource.ForceNew flag. Anything else is ignored.
func (f *Factory) Create(ctx context.Context, kind resource.Kind, args ...any) (resource.Handle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	scope := f.Scope(ctx)
	parsed := parseArgs(args)

	ctx, span := f.tracer.Start(ctx, "pwfactory.create."+kind.String(), trace.WithAttributes(
		attribute.String("pwfactory.kind", kind.String()),
		attribute.String("pwfactory.worker", scope.Worker()),
	))
	defer span.End()

	start := time.Now()
	var (
		h      resource.Handle
		reused bool
		err    error
	)
	switch kind {
	case resource.KindEnvironment:
		h, reused, err = f.createEnvironment(ctx, scope, parsed)
	case resource.KindRuntime:
		h, reused, err = f.createRuntime(scope, parsed)
	case resource.KindSession:
		h, err = f.createSession(scope, parsed)
	default:
		err = &resource.UnsupportedConfigError{Field: "kind", Value: kind.String()}
	}

	if err != nil {
		f.metrics.CreateFailed(kind.String(), failureReason(err))
		f.logger.Errorf("create %s for worker %q failed: %v", kind, scope.Worker(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("pwfactory.reused", reused),
		attribute.String("pwfactory.handle_id", h.ID()),
	)
	if reused {
		f.metrics.ResourceReused(kind.String())
		f.logger.Debugf("reusing %s %s for worker %q", kind, h.ID(), scope.Worker())
	} else {
		f.metrics.ResourceCreated(kind.String(), time.Since(start))
		f.logger.Infof("created %s %s for worker %q", kind, h.ID(), scope.Worker())
	}
	return h, nil
}

func (f *Factory) createEnvironment(ctx context.Context, scope *registry.Scope, args callArgs) (resource.Handle, bool, error) {
	var (
		env    resource.Environment
		reused bool
	)
	err := scope.Exclusive(func() error {
		singletons := scope.Singletons()
		if existing := singletons.GetEnvironment(); existing != nil && !args.force[resource.NewEnvironmentInstance] {
			env, reused = existing, true
			return nil
		}

		opts := resolve(args.environment, scope.Configs(), f.defaults)
		err := f.bootstrapRetry.RunPolicy(ctx, func() error {
			created, err := f.bootstrapper.Bootstrap(opts)
			if err != nil {
				return err
			}
			env = created
			return nil
		}, f.bootstrapPolicy)
		if err != nil {
			return err
		}

		singletons.SetEnvironment(env)
		scope.Configs().Put(opts)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return env, reused, nil
}

func (f *Factory) createRuntime(scope *registry.Scope, args callArgs) (resource.Handle, bool, error) {
	var (
		rt     resource.Runtime
		reused bool
	)
	err := scope.Exclusive(func() error {
		singletons := scope.Singletons()
		if existing := singletons.GetRuntime(); existing != nil && !args.force[resource.NewRuntimeInstance] {
			rt, reused = existing, true
			return nil
		}

		env := singletons.GetEnvironment()
		if env == nil {
			return &resource.PreconditionError{Kind: resource.KindRuntime, Missing: resource.KindEnvironment}
		}

		opts := resolve(args.launch, scope.Configs(), f.defaults)
		family, err := resource.ParseFamily(opts.Browser)
		if err != nil {
			return err
		}

		launched, err := env.Launch(family, opts)
		if err != nil {
			return fmt.Errorf("failed to launch %s: %w", opts.Browser, err)
		}
		rt = launched

		singletons.SetRuntime(rt)
		scope.Configs().Put(opts)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return rt, reused, nil
}

func (f *Factory) createSession(scope *registry.Scope, args callArgs) (resource.Handle, error) {
	rt := scope.Singletons().GetRuntime()
	if rt == nil {
		return nil, &resource.PreconditionError{Kind: resource.KindSession, Missing: resource.KindRuntime}
	}

	sessionOpts := resolve(args.session, scope.Configs(), f.defaults)
	traceOpts := resolve(args.traceStart, scope.Configs(), f.defaults)

	session, err := rt.OpenSession(sessionOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if err := session.StartTrace(traceOpts); err != nil {
		// a session without a trace is not handed out
		if relErr := session.Release(); relErr != nil {
			f.logger.Warnf("release of session %s after failed trace start: %v", session.ID(), relErr)
		}
		return nil, fmt.Errorf("failed to start tracing: %w", err)
	}

	scope.Configs().PutAll(sessionOpts, traceOpts)
	return session, nil
}

// Close releases h. Sessions have their trace stopped first, using an
// options.TraceStopOptions from args, else the recorded one, else the
// default. The handle is released even if stopping the trace fails; both
// errors are returned joined.
func (f *Factory) Close(ctx context.Context, h resource.Handle, args ...any) error {
	if h == nil {
		return errors.New("cannot close a nil handle")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	scope := f.Scope(ctx)
	kind := h.Kind()

	_, span := f.tracer.Start(ctx, "pwfactory.close."+kind.String(), trace.WithAttributes(
		attribute.String("pwfactory.kind", kind.String()),
		attribute.String("pwfactory.worker", scope.Worker()),
		attribute.String("pwfactory.handle_id", h.ID()),
	))
	defer span.End()

	var stopErr error
	if session, ok := h.(resource.Session); ok && kind == resource.KindSession {
		opts := resolve(parseArgs(args).traceStop, scope.Configs(), f.defaults)
		if err := session.StopTrace(opts); err != nil {
			stopErr = fmt.Errorf("failed to stop tracing: %w", err)
		} else {
			f.logger.Infof("trace of session %s recorded to %s", h.ID(), opts.Path)
		}
	}

	var releaseErr error
	if err := h.Release(); err != nil {
		releaseErr = fmt.Errorf("failed to release %s: %w", kind, err)
	}

	err := errors.Join(stopErr, releaseErr)
	f.metrics.ResourceClosed(kind.String(), err)
	if err != nil {
		f.logger.Warnf("close %s %s: %v", kind, h.ID(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	f.logger.Infof("closed %s %s", kind, h.ID())
	return nil
}

// Environment is Create(ctx, resource.KindEnvironment, args...) with a typed result.
func (f *Factory) Environment(ctx context.Context, args ...any) (resource.Environment, error) {
	h, err := f.Create(ctx, resource.KindEnvironment, args...)
	if err != nil {
		return nil, err
	}
	return h.(resource.Environment), nil
}

// Runtime is Create(ctx, resource.KindRuntime, args...) with a typed result.
func (f *Factory) Runtime(ctx context.Context, args ...any) (resource.Runtime, error) {
	h, err := f.Create(ctx, resource.KindRuntime, args...)
	if err != nil {
		return nil, err
	}
	return h.(resource.Runtime), nil
}

// Session is Create(ctx, resource.KindSession, args...) with a typed result.
func (f *Factory) Session(ctx context.Context, args ...any) (resource.Session, error) {
	h, err := f.Create(ctx, resource.KindSession, args...)
	if err != nil {
		return nil, err
	}
	return h.(resource.Session), nil
}

// Resolve applies three-tier resolution to an option kind that is not
// tied to creation, such as options.ScreenshotOptions, and records the
// result for the worker carried on ctx.
func Resolve[T options.Option](ctx context.Context, f *Factory, args ...any) T {
	var explicit *T
	for _, arg := range args {
		switch v := arg.(type) {
		case T:
			explicit = &v
		case *T:
			if v != nil {
				explicit = v
			}
		}
	}

	configs := f.Scope(ctx).Configs()
	resolved := resolve(explicit, configs, f.defaults)
	configs.Put(resolved)
	return resolved
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, resource.ErrPrecondition):
		return "precondition"
	case errors.Is(err, resource.ErrUnsupportedConfig):
		return "unsupported_config"
	default:
		return "engine"
	}
}
