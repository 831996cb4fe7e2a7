// Package enginetest provides an in-memory engine for exercising the
// resource factory without launching real browsers.
package enginetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/resource"
)

// ErrReleased is returned when a released handle is used.
var ErrReleased = errors.New("handle already released")

// Engine records every call made through it. The zero value is not usable;
// call New.
type Engine struct {
	mu sync.Mutex

	// BootstrapErrs are returned, in order, by successive Bootstrap calls
	// before bootstrapping starts to succeed.
	BootstrapErrs []error

	// LaunchErr, OpenErr, StartTraceErr, StopTraceErr and ReleaseErr make the
	// corresponding operation fail when set.
	LaunchErr     error
	OpenErr       error
	StartTraceErr error
	StopTraceErr  error
	ReleaseErr    error

	BootstrapCalls int
	Environments   []*Environment
	Runtimes       []*Runtime
	Sessions       []*Session
	Events         []string
}

// New creates an engine that succeeds at everything.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) record(format string, args ...any) {
	e.Events = append(e.Events, fmt.Sprintf(format, args...))
}

// Bootstrap implements resource.Bootstrapper.
func (e *Engine) Bootstrap(opts options.EnvironmentOptions) (resource.Environment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.BootstrapCalls++
	if len(e.BootstrapErrs) > 0 {
		err := e.BootstrapErrs[0]
		e.BootstrapErrs = e.BootstrapErrs[1:]
		e.record("bootstrap failed")
		return nil, err
	}

	env := &Environment{handle: newHandle(e, resource.KindEnvironment), Options: opts}
	e.Environments = append(e.Environments, env)
	e.record("bootstrap %s", env.id)
	return env, nil
}

// EventLog returns a copy of the recorded events.
func (e *Engine) EventLog() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.Events...)
}

type handle struct {
	engine   *Engine
	id       string
	kind     resource.Kind
	released bool
}

func newHandle(e *Engine, kind resource.Kind) handle {
	return handle{engine: e, id: uuid.NewString(), kind: kind}
}

func (h *handle) ID() string          { return h.id }
func (h *handle) Kind() resource.Kind { return h.kind }

// Released reports whether Release has been called.
func (h *handle) Released() bool {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	return h.released
}

func (h *handle) Release() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()

	h.released = true
	h.engine.record("release %s %s", h.kind, h.id)
	return h.engine.ReleaseErr
}

// Environment is a fake resource.Environment.
type Environment struct {
	handle
	Options options.EnvironmentOptions
}

// Launch implements resource.Environment.
func (env *Environment) Launch(family resource.Family, opts options.LaunchOptions) (resource.Runtime, error) {
	e := env.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if env.released {
		return nil, ErrReleased
	}
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}

	rt := &Runtime{handle: newHandle(e, resource.KindRuntime), family: family, Options: opts}
	e.Runtimes = append(e.Runtimes, rt)
	e.record("launch %s %s", family, rt.id)
	return rt, nil
}

// Runtime is a fake resource.Runtime.
type Runtime struct {
	handle
	family  resource.Family
	Options options.LaunchOptions
}

// Family implements resource.Runtime.
func (rt *Runtime) Family() resource.Family { return rt.family }

// OpenSession implements resource.Runtime.
func (rt *Runtime) OpenSession(opts options.SessionOptions) (resource.Session, error) {
	e := rt.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if rt.released {
		return nil, ErrReleased
	}
	if e.OpenErr != nil {
		return nil, e.OpenErr
	}

	s := &Session{handle: newHandle(e, resource.KindSession), Options: opts}
	e.Sessions = append(e.Sessions, s)
	e.record("open %s", s.id)
	return s, nil
}

// Session is a fake resource.Session.
type Session struct {
	handle
	Options    options.SessionOptions
	TraceStart *options.TraceStartOptions
	TraceStop  *options.TraceStopOptions
}

// StartTrace implements resource.TracingController.
func (s *Session) StartTrace(opts options.TraceStartOptions) error {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.StartTraceErr != nil {
		return e.StartTraceErr
	}
	s.TraceStart = &opts
	e.record("trace start %s", s.id)
	return nil
}

// StopTrace implements resource.TracingController.
func (s *Session) StopTrace(opts options.TraceStopOptions) error {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.StopTraceErr != nil {
		e.record("trace stop failed %s", s.id)
		return e.StopTraceErr
	}
	s.TraceStop = &opts
	e.record("trace stop %s", s.id)
	return nil
}
