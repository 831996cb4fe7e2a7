package registry

import (
	"sync"

	"github.com/entrhq/pwfactory/pkg/resource"
)

// SingletonRegistry holds at most one live handle per durable kind.
// Sessions are never stored here.
//
// A handle stays referenced after it is released; it is only replaced by a
// later Set call.
type SingletonRegistry struct {
	envMu       sync.Mutex
	environment resource.Environment

	runtimeMu sync.Mutex
	runtime   resource.Runtime
}

// NewSingletonRegistry creates an empty singleton registry.
func NewSingletonRegistry() *SingletonRegistry {
	return &SingletonRegistry{}
}

// GetEnvironment returns the cached environment, or nil.
func (r *SingletonRegistry) GetEnvironment() resource.Environment {
	r.envMu.Lock()
	defer r.envMu.Unlock()
	return r.environment
}

// SetEnvironment replaces the cached environment.
func (r *SingletonRegistry) SetEnvironment(env resource.Environment) {
	r.envMu.Lock()
	defer r.envMu.Unlock()
	r.environment = env
}

// GetRuntime returns the cached runtime, or nil.
func (r *SingletonRegistry) GetRuntime() resource.Runtime {
	r.runtimeMu.Lock()
	defer r.runtimeMu.Unlock()
	return r.runtime
}

// SetRuntime replaces the cached runtime.
func (r *SingletonRegistry) SetRuntime(rt resource.Runtime) {
	r.runtimeMu.Lock()
	defer r.runtimeMu.Unlock()
	r.runtime = rt
}

// Reset drops both cached handles without releasing them.
func (r *SingletonRegistry) Reset() {
	r.SetEnvironment(nil)
	r.SetRuntime(nil)
}
