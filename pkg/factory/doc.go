// Package factory creates and closes the environment, runtime and session
// resources that browser tests run against.
//
// # Reuse
//
// Environments and runtimes are durable: the first Create for a worker
// builds one and later calls return the same handle. Passing
// resource.NewEnvironmentInstance or resource.NewRuntimeInstance forces a
// fresh handle, which then replaces the cached one. Sessions are never
// cached; every Create returns a new one with tracing already started.
//
// # Configuration
//
// Each option is resolved in three tiers: the value passed to the call,
// else the value recorded by the previous creation of that kind, else the
// factory defaults. The resolved value is recorded after a successful
// creation so later calls stay consistent.
//
// # Workers
//
// State is kept per worker. The worker is read from the context with
// registry.WorkerFrom, so parallel tests that tag their contexts with
// registry.WithWorker never share or overwrite each other's handles.
//
// # Closing
//
// Close stops a session's trace before releasing it and always releases,
// even when stopping the trace fails. Closing an environment or runtime
// does not remove it from the cache; request a new instance explicitly
// after closing one.
package factory
