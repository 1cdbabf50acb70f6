package render

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

// Preview renders the Build output of root as an HTML fragment.
func Preview(root ast.Root, w io.Writer) error {
	var md bytes.Buffer
	if err := Build(root, &md); err != nil {
		return err
	}
	if err := goldmark.New().Convert(md.Bytes(), w); err != nil {
		return ferrors.NewIO("write", "", err)
	}
	return nil
}
