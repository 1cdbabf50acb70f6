package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

const (
	valueIndent = "    "
	nodeIndent  = "        "
)

// Format writes root in canonical fla syntax: pairs sorted by key, one value
// line per source line, fixed indentation. Comments are not reproduced.
// The output parses back to the same pairs and formats to the same bytes.
func Format(root ast.Root, w io.Writer) error {
	pairs := root.Pairs()
	ast.SortPairs(pairs)

	bw := bufio.NewWriter(w)
	for i, pair := range pairs {
		if len(pair.Key) == 0 {
			return ferrors.NewEmptyKey("fmt", i+1)
		}
		bw.WriteString(FormatKey(pair.Key) + " {\n")
		for _, v := range pair.Value {
			switch v := v.(type) {
			case ast.Node:
				bw.WriteString(valueIndent + v.Speech.String() + " {\n")
				for _, l := range ast.Lines(v.Text) {
					writeIndented(bw, nodeIndent, l)
				}
				bw.WriteString(valueIndent + "}\n")
			case ast.Plain:
				for _, l := range ast.Lines(string(v)) {
					writeIndented(bw, valueIndent, l)
				}
			}
		}
		bw.WriteString("}\n\n")
	}
	if err := bw.Flush(); err != nil {
		return ferrors.NewIO("write", "", err)
	}
	return nil
}

// FormatKey renders a key in source syntax. Consecutive text segments were
// separate lines in the source and stay that way; everything else is
// separated by one space.
func FormatKey(key []ast.Key) string {
	var sb strings.Builder
	for i, k := range key {
		if i > 0 {
			if k.Kind == ast.KeyText && key[i-1].Kind == ast.KeyText {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		if k.Kind == ast.KeyCloze {
			sb.WriteString("{{" + k.Text + "}}")
		} else {
			sb.WriteString(k.Text)
		}
	}
	return sb.String()
}

func writeIndented(bw *bufio.Writer, indent, line string) {
	if line != "" {
		bw.WriteString(indent)
		bw.WriteString(line)
	}
	bw.WriteByte('\n')
}
