package driver

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/lexer"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/parser"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// TokenizeResult holds the tokens of one file with its diagnostics.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Lines   *source.LineMap
}

// ParseResult holds an unverified tree.
type ParseResult struct {
	TokenizeResult
	Root    *ast.Node
	Strings *source.Interner
}

// Tokenize scans req.Source. With expand set the preprocessor runs first
// and the macro-expanded stream is returned; otherwise the raw lexer
// output, directives included, is.
func Tokenize(req Request, expand bool) (*TokenizeResult, error) {
	u := newUnit(req)
	res := &TokenizeResult{FileSet: u.files, File: u.file, Bag: u.bag}
	if !expand {
		res.Tokens = lexer.New(u.file, lexer.Options{Reporter: u.rep}).All()
		return res, nil
	}
	pre, err := pp.Preprocess(u.file, pp.Options{
		Stage:    req.Stage,
		Level:    req.Level,
		Reporter: u.rep,
		Defines:  req.Defines,
	})
	if err != nil {
		if diag.IsInternal(err) {
			return nil, err
		}
		return res, nil
	}
	res.Tokens, res.Lines = pre.Tokens, pre.Lines
	return res, nil
}

// Parse preprocesses and parses req.Source without verifying it.
func Parse(req Request) (*ParseResult, error) {
	tr, err := Tokenize(req, true)
	if err != nil {
		return nil, err
	}
	res := &ParseResult{TokenizeResult: *tr, Strings: source.NewInterner()}
	if tr.Bag.HasErrors() {
		return res, nil
	}
	root, err := parser.Parse(tr.Tokens, parser.Options{
		Reporter: diag.NewDedupReporter(&diag.BagReporter{Bag: tr.Bag}),
		Strings:  res.Strings,
	})
	if err != nil && diag.IsInternal(err) {
		return nil, err
	}
	res.Root = root
	return res, nil
}
