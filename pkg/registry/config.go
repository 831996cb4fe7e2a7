package registry

import (
	"sync"

	"github.com/entrhq/pwfactory/pkg/options"
)

// ConfigRegistry remembers the most recently applied option for each key so
// that later creations without explicit overrides stay consistent with
// earlier ones.
type ConfigRegistry struct {
	mu      sync.RWMutex
	entries map[options.Key]options.Option
}

// NewConfigRegistry creates an empty config registry.
func NewConfigRegistry() *ConfigRegistry {
	return &ConfigRegistry{
		entries: make(map[options.Key]options.Option),
	}
}

// Put records opt under its own key, replacing any previous entry.
func (r *ConfigRegistry) Put(opt options.Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[opt.Key()] = opt
}

// PutAll records every option in opts.
func (r *ConfigRegistry) PutAll(opts ...options.Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, opt := range opts {
		r.entries[opt.Key()] = opt
	}
}

// Get returns the option stored under key.
func (r *ConfigRegistry) Get(key options.Key) (options.Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opt, ok := r.entries[key]
	return opt, ok
}

// Exists reports whether an option is stored under key.
func (r *ConfigRegistry) Exists(key options.Key) bool {
	_, ok := r.Get(key)
	return ok
}

// Snapshot returns a copy of every stored entry.
func (r *ConfigRegistry) Snapshot() map[options.Key]options.Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[options.Key]options.Option, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Clear removes every entry. Intended for test teardown.
func (r *ConfigRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[options.Key]options.Option)
}

// Lookup returns the option stored under the key of T, typed as T.
func Lookup[T options.Option](r *ConfigRegistry) (T, bool) {
	var zero T
	opt, ok := r.Get(zero.Key())
	if !ok {
		return zero, false
	}
	typed, ok := opt.(T)
	return typed, ok
}
