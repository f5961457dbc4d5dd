// Package token defines lexical token kinds and trivia for GLSL ES 1.00 sources.
// Invariants:
//   - Token.Text is the exact source spelling of Token.Span.
//   - Comments and whitespace are leading Trivia and never appear in the main stream.
//   - '#' is an ordinary token (Hash); the preprocessor recognises directives by
//     a Hash carrying FlagLineStart.
//   - Built-in type names (float, vec3, sampler2D, ...) are keywords.
//   - Reserved words are lexed as KwReserved; using one is a syntax error.
package token
