package syntax

import (
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

// ParseDocument runs the grammar over src and returns the concrete tree.
// Parsing is all-or-nothing: on failure the tree is nil and the error is a
// *errors.SyntaxError.
func ParseDocument(name, src string) (*Document, error) {
	if strings.TrimSpace(src) == "" {
		return &Document{}, nil
	}

	doc, err := flaParser.ParseString(name, src)
	if err != nil {
		return nil, syntaxError(name, err)
	}
	return doc, nil
}

// Parse parses src and builds its AST. The returned strings share memory
// with src.
func Parse(name, src string) (root ast.Root, err error) {
	doc, err := ParseDocument(name, src)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(*ferrors.InvariantError)
			if !ok {
				panic(r)
			}
			root, err = nil, inv
		}
	}()
	return Build(src, doc), nil
}

func syntaxError(name string, err error) error {
	var perr participle.Error
	if !ferrors.As(err, &perr) {
		return &ferrors.SyntaxError{File: name, Message: err.Error(), Err: err}
	}
	pos := perr.Position()
	file := pos.Filename
	if file == "" {
		file = name
	}
	return &ferrors.SyntaxError{
		File:    file,
		Line:    pos.Line,
		Column:  pos.Column,
		Offset:  pos.Offset,
		Message: perr.Message(),
		Err:     err,
	}
}
