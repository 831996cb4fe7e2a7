package resource

import (
	"fmt"
	"strings"
)

// Kind identifies a tier in the resource hierarchy.
// Creation order is strict: a Session requires a live Runtime and a
// Runtime requires a live Environment.
type Kind int

const (
	// KindEnvironment is the automation environment (the engine driver).
	KindEnvironment Kind = iota
	// KindRuntime is an engine instance launched inside an environment.
	KindRuntime
	// KindSession is a short-lived session opened against a runtime.
	KindSession
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindRuntime:
		return "runtime"
	case KindSession:
		return "session"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Durable reports whether handles of this kind are cached for reuse.
func (k Kind) Durable() bool {
	return k == KindEnvironment || k == KindRuntime
}

// Requires returns the kind that must be live before k can be created.
// The second return value is false for KindEnvironment.
func (k Kind) Requires() (Kind, bool) {
	switch k {
	case KindRuntime:
		return KindEnvironment, true
	case KindSession:
		return KindRuntime, true
	default:
		return 0, false
	}
}

// ForceNew suppresses reuse of a durable kind for a single Create call.
type ForceNew int

const (
	// NewEnvironmentInstance forces a fresh environment.
	NewEnvironmentInstance ForceNew = iota + 1
	// NewRuntimeInstance forces a fresh runtime.
	NewRuntimeInstance
)

// Kind returns the resource kind the flag applies to.
func (f ForceNew) Kind() Kind {
	if f == NewRuntimeInstance {
		return KindRuntime
	}
	return KindEnvironment
}

func (f ForceNew) String() string {
	switch f {
	case NewEnvironmentInstance:
		return "NEW_ENVIRONMENT_INSTANCE"
	case NewRuntimeInstance:
		return "NEW_RUNTIME_INSTANCE"
	default:
		return fmt.Sprintf("ForceNew(%d)", int(f))
	}
}

// Family is a concrete engine a runtime can be launched from.
type Family string

const (
	FamilyChromium Family = "chromium"
	FamilyFirefox  Family = "firefox"
	FamilyWebKit   Family = "webkit"
)

// ParseFamily maps a case-insensitive engine selector onto a Family.
// "chrome" and "msedge" are channels of chromium.
func ParseFamily(selector string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "chromium", "chrome", "msedge":
		return FamilyChromium, nil
	case "firefox":
		return FamilyFirefox, nil
	case "webkit":
		return FamilyWebKit, nil
	default:
		return "", &UnsupportedConfigError{Field: "browser", Value: selector}
	}
}
