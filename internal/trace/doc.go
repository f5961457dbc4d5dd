// Package trace records what the translator is doing while it does it.
//
// Spans cover CLI operations, translation units, the passes run over a
// unit and per-function work inside a pass. Tracers either stream events
// to a writer (text, NDJSON or Chrome trace JSON) or keep the most recent
// ones in a ring buffer that the CLI dumps when an internal error surfaces.
//
//	glsl2hlsl build --trace=trace.json --trace-level=detail --source shaders
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "verify")
//	defer span.End("")
package trace
