package playwright

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/resource"
)

// EnvDebug is set to "1" for the driver when debug mode is requested.
const EnvDebug = "PWDEBUG"

// envMu serializes driver starts: the driver reads EnvDebug from the
// process environment, which every Engine shares.
var envMu sync.Mutex

// Engine bootstraps Playwright driver processes.
type Engine struct {
	install bool
	verbose bool
	output  io.Writer
	browser []string

	run func(options ...*playwright.RunOptions) (*playwright.Playwright, error)
}

// Option configures an Engine
type Option func(*Engine)

// WithInstall installs the driver and browsers before the first run
func WithInstall(install bool) Option {
	return func(e *Engine) {
		e.install = install
	}
}

// WithBrowsers limits which browsers are installed
func WithBrowsers(browsers ...string) Option {
	return func(e *Engine) {
		e.browser = browsers
	}
}

// WithOutput sends driver output to w instead of discarding it
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.verbose = true
		e.output = w
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{output: io.Discard, run: playwright.Run}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) runOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		Browsers: e.browser,
		Verbose:  e.verbose,
		Stdout:   e.output,
		Stderr:   e.output,
	}
}

// Bootstrap implements resource.Bootstrapper.
func (e *Engine) Bootstrap(o options.EnvironmentOptions) (resource.Environment, error) {
	runOpts := e.runOptions()
	if e.install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := e.start(runOpts, o.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	return &Environment{id: uuid.NewString(), pw: pw}, nil
}

// start runs the driver with EnvDebug set only when debug is true. The
// previous value of EnvDebug is restored once the driver has started.
func (e *Engine) start(runOpts *playwright.RunOptions, debug bool) (*playwright.Playwright, error) {
	envMu.Lock()
	defer envMu.Unlock()

	previous, had := os.LookupEnv(EnvDebug)
	defer func() {
		if had {
			_ = os.Setenv(EnvDebug, previous)
		} else {
			_ = os.Unsetenv(EnvDebug)
		}
	}()

	var err error
	if debug {
		err = os.Setenv(EnvDebug, "1")
	} else {
		err = os.Unsetenv(EnvDebug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", EnvDebug, err)
	}

	return e.run(runOpts)
}

// Environment is a running Playwright driver.
type Environment struct {
	id string
	pw *playwright.Playwright
}

func (env *Environment) ID() string          { return env.id }
func (env *Environment) Kind() resource.Kind { return resource.KindEnvironment }

// Playwright returns the underlying driver handle.
func (env *Environment) Playwright() *playwright.Playwright { return env.pw }

// Release stops the driver.
func (env *Environment) Release() error {
	if err := env.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// Launch implements resource.Environment.
func (env *Environment) Launch(family resource.Family, o options.LaunchOptions) (resource.Runtime, error) {
	var browserType playwright.BrowserType
	switch family {
	case resource.FamilyChromium:
		browserType = env.pw.Chromium
	case resource.FamilyFirefox:
		browserType = env.pw.Firefox
	case resource.FamilyWebKit:
		browserType = env.pw.WebKit
	default:
		return nil, &resource.UnsupportedConfigError{Field: "family", Value: string(family)}
	}

	browser, err := browserType.Launch(LaunchOptions(o))
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Runtime{id: uuid.NewString(), family: family, browser: browser}, nil
}

// Runtime is a launched browser.
type Runtime struct {
	id      string
	family  resource.Family
	browser playwright.Browser
}

func (rt *Runtime) ID() string              { return rt.id }
func (rt *Runtime) Kind() resource.Kind     { return resource.KindRuntime }
func (rt *Runtime) Family() resource.Family { return rt.family }

// Browser returns the underlying browser.
func (rt *Runtime) Browser() playwright.Browser { return rt.browser }

// Connected reports whether the browser is still connected.
func (rt *Runtime) Connected() bool { return rt.browser.IsConnected() }

// Release closes the browser.
func (rt *Runtime) Release() error {
	return rt.browser.Close()
}

// OpenSession implements resource.Runtime.
func (rt *Runtime) OpenSession(o options.SessionOptions) (resource.Session, error) {
	context, err := rt.browser.NewContext(NewContextOptions(o))
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	return &Session{id: uuid.NewString(), context: context}, nil
}

// Session is a browser context.
type Session struct {
	id      string
	context playwright.BrowserContext
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Kind() resource.Kind { return resource.KindSession }

// Context returns the underlying browser context.
func (s *Session) Context() playwright.BrowserContext { return s.context }

// NewPage opens a page in the session.
func (s *Session) NewPage() (playwright.Page, error) {
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// StartTrace implements resource.TracingController.
func (s *Session) StartTrace(o options.TraceStartOptions) error {
	return s.context.Tracing().Start(TracingStartOptions(o))
}

// StopTrace implements resource.TracingController.
func (s *Session) StopTrace(o options.TraceStopOptions) error {
	return s.context.Tracing().Stop(o.Path)
}

// Release closes the browser context and any pages in it.
func (s *Session) Release() error {
	return s.context.Close()
}

// ErrNotPlaywright is returned when a handle was not created by this engine.
var ErrNotPlaywright = errors.New("handle is not backed by playwright")

// PageOf opens a new page in a session created by this engine.
func PageOf(h resource.Handle) (playwright.Page, error) {
	s, ok := h.(*Session)
	if !ok {
		return nil, ErrNotPlaywright
	}
	return s.NewPage()
}
