// Package diag defines the diagnostic model shared by every translation phase.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the
//     lexer, preprocessor, parser, verifier and stage linker.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//   - Separate shader authoring errors from translator faults: the former are
//     Diagnostics with a catalog Code, the latter are InternalError values.
//
// # Data model
//
// Diagnostic carries a Severity, a numeric Code (see codes.go) with a stable
// string form such as SEM3003, a short Message, the Primary source.Span and
// optional Notes.
//
// # Fail-fast policy
//
// Verification stops at the first semantic error of a translation unit. The
// phase that reports it returns ErrReported so enclosing checks know a
// specific diagnostic exists and do not add a generic one.
//
// # Consumers
//
//   - internal/diagfmt renders diagnostics (pretty, json, short).
//   - internal/driver resolves spans into line/column pairs honouring
//     `#line` directives and returns them to the embedding caller.
package diag
