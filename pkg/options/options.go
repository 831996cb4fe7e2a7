// Package options holds the immutable configuration values used to create
// and tear down resources.
//
// Every variant is a plain value. Partial overrides are expressed with the
// variant's With method, which returns a modified copy and leaves the
// receiver untouched:
//
//	launch := options.DefaultLaunchOptions().With(func(o *options.LaunchOptions) {
//	    o.Browser = "firefox"
//	    o.Headless = false
//	})
package options

import (
	"fmt"
	"time"
)

// Key identifies the slot an option occupies in the config registry.
type Key int

const (
	KeyEnvironment Key = iota
	KeyLaunch
	KeySession
	KeyTraceStart
	KeyTraceStop
	KeyScreenshot
)

func (k Key) String() string {
	switch k {
	case KeyEnvironment:
		return "environment"
	case KeyLaunch:
		return "launch"
	case KeySession:
		return "session"
	case KeyTraceStart:
		return "trace_start"
	case KeyTraceStop:
		return "trace_stop"
	case KeyScreenshot:
		return "screenshot"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// Option is implemented by every configuration variant.
type Option interface {
	Key() Key
}

// Default values
const (
	DefaultBrowser        = "chrome"
	DefaultSlowMo         = 300 * time.Millisecond
	DefaultStartTimeout   = 30 * time.Second
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
	DefaultRecordVideoDir = "target/video/"
	DefaultTracePath      = "target/trace/default.zip"
	DefaultScreenshotPath = "target/screenshot/screenshot.png"
)

// EnvironmentOptions configures the automation environment.
type EnvironmentOptions struct {
	// Debug starts the engine driver in inspector mode
	Debug bool `yaml:"debug" json:"debug"`
}

// DefaultEnvironmentOptions returns the built-in environment options.
func DefaultEnvironmentOptions() EnvironmentOptions {
	return EnvironmentOptions{}
}

func (EnvironmentOptions) Key() Key { return KeyEnvironment }

// With returns a copy of o with fn applied.
func (o EnvironmentOptions) With(fn func(*EnvironmentOptions)) EnvironmentOptions {
	fn(&o)
	return o
}

// LaunchOptions configures how a runtime is launched.
type LaunchOptions struct {
	// Headless controls whether the engine runs without a visible window
	Headless bool `yaml:"headless" json:"headless"`

	// SlowMo delays every engine action by this amount
	SlowMo time.Duration `yaml:"slow_mo" json:"slow_mo"`

	// Browser selects the engine: chromium, chrome, msedge, firefox or webkit
	Browser string `yaml:"browser" json:"browser"`

	// StartTimeout bounds how long the launch may take
	StartTimeout time.Duration `yaml:"start_timeout" json:"start_timeout"`
}

// DefaultLaunchOptions returns the built-in launch options.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		Headless:     true,
		SlowMo:       DefaultSlowMo,
		Browser:      DefaultBrowser,
		StartTimeout: DefaultStartTimeout,
	}
}

func (LaunchOptions) Key() Key { return KeyLaunch }

// With returns a copy of o with fn applied.
func (o LaunchOptions) With(fn func(*LaunchOptions)) LaunchOptions {
	fn(&o)
	return o
}

// Viewport represents the session viewport dimensions.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// SessionOptions configures a new session. The viewport is also used as
// the size of the recorded video.
type SessionOptions struct {
	RecordVideoDir string   `yaml:"record_video_dir" json:"record_video_dir"`
	Viewport       Viewport `yaml:"viewport" json:"viewport"`
}

// DefaultSessionOptions returns the built-in session options.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		RecordVideoDir: DefaultRecordVideoDir,
		Viewport: Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	}
}

func (SessionOptions) Key() Key { return KeySession }

// With returns a copy of o with fn applied.
func (o SessionOptions) With(fn func(*SessionOptions)) SessionOptions {
	fn(&o)
	return o
}

// TraceStartOptions configures what a session trace captures.
type TraceStartOptions struct {
	Screenshots bool `yaml:"screenshots" json:"screenshots"`
	Snapshots   bool `yaml:"snapshots" json:"snapshots"`
	Sources     bool `yaml:"sources" json:"sources"`
}

// DefaultTraceStartOptions returns the built-in trace start options.
func DefaultTraceStartOptions() TraceStartOptions {
	return TraceStartOptions{
		Screenshots: true,
		Snapshots:   true,
	}
}

func (TraceStartOptions) Key() Key { return KeyTraceStart }

// With returns a copy of o with fn applied.
func (o TraceStartOptions) With(fn func(*TraceStartOptions)) TraceStartOptions {
	fn(&o)
	return o
}

// TraceStopOptions configures where a finished trace archive is written.
type TraceStopOptions struct {
	Path string `yaml:"path" json:"path"`
}

// DefaultTraceStopOptions returns the built-in trace stop options.
func DefaultTraceStopOptions() TraceStopOptions {
	return TraceStopOptions{Path: DefaultTracePath}
}

func (TraceStopOptions) Key() Key { return KeyTraceStop }

// With returns a copy of o with fn applied.
func (o TraceStopOptions) With(fn func(*TraceStopOptions)) TraceStopOptions {
	fn(&o)
	return o
}

// ScreenshotOptions configures a page screenshot.
type ScreenshotOptions struct {
	Path     string `yaml:"path" json:"path"`
	FullPage bool   `yaml:"full_page" json:"full_page"`
}

// DefaultScreenshotOptions returns the built-in screenshot options.
func DefaultScreenshotOptions() ScreenshotOptions {
	return ScreenshotOptions{
		Path:     DefaultScreenshotPath,
		FullPage: true,
	}
}

func (ScreenshotOptions) Key() Key { return KeyScreenshot }

// With returns a copy of o with fn applied.
func (o ScreenshotOptions) With(fn func(*ScreenshotOptions)) ScreenshotOptions {
	fn(&o)
	return o
}
