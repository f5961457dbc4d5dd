// Package pp implements the GLSL ES 1.00 directive preprocessor. It consumes
// the lexer's token stream, executes #version, #extension, #line, #pragma,
// #define/#undef, conditional groups and #error, expands macros and hands the
// parser a flat token list together with the extension table and the #line
// remapping table.
package pp
