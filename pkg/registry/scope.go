// Package registry provides the per-worker state behind the resource
// factory: the last applied options and the cached durable handles.
//
// Parallel test workers never share a Scope. Each worker is identified by a
// string carried on its context; a Store hands out one Scope per identity.
package registry

import (
	"context"
	"sync"
)

// Scope is the state owned by a single worker.
type Scope struct {
	worker     string
	configs    *ConfigRegistry
	singletons *SingletonRegistry

	// serializes get-then-create sequences on durable kinds
	createMu sync.Mutex
}

// NewScope creates an empty scope for worker.
func NewScope(worker string) *Scope {
	return &Scope{
		worker:     worker,
		configs:    NewConfigRegistry(),
		singletons: NewSingletonRegistry(),
	}
}

// Worker returns the identity that owns this scope.
func (s *Scope) Worker() string { return s.worker }

// Configs returns the scope's config registry.
func (s *Scope) Configs() *ConfigRegistry { return s.configs }

// Singletons returns the scope's singleton registry.
func (s *Scope) Singletons() *SingletonRegistry { return s.singletons }

// Exclusive runs fn while holding the scope's creation lock.
func (s *Scope) Exclusive(fn func() error) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	return fn()
}

// Store maps worker identities to scopes for the whole process.
type Store struct {
	mu     sync.Mutex
	scopes map[string]*Scope
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		scopes: make(map[string]*Scope),
	}
}

// Scope returns the scope for worker, creating it on first use.
func (s *Store) Scope(worker string) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope, ok := s.scopes[worker]
	if !ok {
		scope = NewScope(worker)
		s.scopes[worker] = scope
	}
	return scope
}

// ScopeFor returns the scope of the worker carried on ctx.
func (s *Store) ScopeFor(ctx context.Context) *Scope {
	return s.Scope(WorkerFrom(ctx))
}

// Remove forgets the scope of worker. Handles it cached are not released.
func (s *Store) Remove(worker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, worker)
}

// Workers returns the identities that currently own a scope.
func (s *Store) Workers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	workers := make([]string, 0, len(s.scopes))
	for w := range s.scopes {
		workers = append(workers, w)
	}
	return workers
}

type workerKey struct{}

// DefaultWorker is the identity used when a context carries none.
const DefaultWorker = ""

// WithWorker returns a copy of ctx that identifies worker.
func WithWorker(ctx context.Context, worker string) context.Context {
	return context.WithValue(ctx, workerKey{}, worker)
}

// WorkerFrom returns the worker identity carried on ctx.
func WorkerFrom(ctx context.Context) string {
	if ctx == nil {
		return DefaultWorker
	}
	if w, ok := ctx.Value(workerKey{}).(string); ok {
		return w
	}
	return DefaultWorker
}
