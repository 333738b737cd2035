// Package trace provides structured tracing for tsunused runs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	tsunused check --trace=- --trace-level=detail out/
//
// # Architecture
//
//   - nopTracer: zero-overhead tracer when disabled (Nop)
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer dumped when a run fails
//   - MultiTracer: combines several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopeFile events, LevelDetail adds
// ScopeRule (classification pass, deferred sweep), LevelDebug adds
// ScopeNode (individual diagnostics, dropped tokens).
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "file:"+path, parentID)
//	defer span.End("")
package trace
