package options

// Defaults is the last tier of configuration resolution: the value used
// when neither the call nor the registry supplies an option.
type Defaults struct {
	Environment EnvironmentOptions `yaml:"environment" json:"environment"`
	Launch      LaunchOptions      `yaml:"runtime" json:"runtime"`
	Session     SessionOptions     `yaml:"session" json:"session"`
	TraceStart  TraceStartOptions  `yaml:"trace_start" json:"trace_start"`
	TraceStop   TraceStopOptions   `yaml:"trace_stop" json:"trace_stop"`
	Screenshot  ScreenshotOptions  `yaml:"screenshot" json:"screenshot"`
}

// BuiltinDefaults returns the compiled-in defaults for every variant.
func BuiltinDefaults() Defaults {
	return Defaults{
		Environment: DefaultEnvironmentOptions(),
		Launch:      DefaultLaunchOptions(),
		Session:     DefaultSessionOptions(),
		TraceStart:  DefaultTraceStartOptions(),
		TraceStop:   DefaultTraceStopOptions(),
		Screenshot:  DefaultScreenshotOptions(),
	}
}

// For returns the default option stored under key.
func (d Defaults) For(key Key) (Option, bool) {
	switch key {
	case KeyEnvironment:
		return d.Environment, true
	case KeyLaunch:
		return d.Launch, true
	case KeySession:
		return d.Session, true
	case KeyTraceStart:
		return d.TraceStart, true
	case KeyTraceStop:
		return d.TraceStop, true
	case KeyScreenshot:
		return d.Screenshot, true
	default:
		return nil, false
	}
}
