// Package trace records what the kdart pipeline is doing: driver steps,
// pipeline stages, per-unit lowering and, at debug level, individual
// declarations.
//
// Enable tracing via command-line flags:
//
//	kdart build --trace=- --trace-level=detail
//
// Implementations:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for dumping after a failure
//   - MultiTracer: fans out to several tracers
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeUnit, unit.Path)
//	defer span.End("")
package trace
