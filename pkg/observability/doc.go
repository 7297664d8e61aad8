// Package observability exposes Prometheus instrumentation for the engine.
//
// Metrics are registered on an injectable Registerer so every engine
// instance (and every test) gets isolated collectors instead of sharing
// process-wide state.
package observability
