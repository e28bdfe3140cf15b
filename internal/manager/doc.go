// Package manager owns the lifecycle of the single model handle. It is
// structured into small files by concern:
//
//   - manager.go: Manager type, Acquire/Reload/IsLoaded, completion entry points.
//   - errors.go: error types and predicates (IsLoadError, IsGenerationError).
//   - metrics.go: prometheus counters for loads, reloads, and generations.
//
// Concurrency discipline: one mutex guards the load/reload critical section;
// the current handle is published through an atomic pointer so the fast path
// and IsLoaded never take the lock. The handle only ever transitions from
// absent to present, or from one fully constructed handle to another, so a
// relaxed read can never observe a half-initialized model. Each published
// handle carries a reference count: inference calls hold a reference for
// their duration and the native model is freed only when the count reaches
// zero, so an unpublish (reload, close) never pulls the model out from under
// an in-flight call.
package manager
