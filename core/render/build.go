// Package render projects an ast.Root back to text: flashcard Markdown
// (Build), a structural dump (Debug), canonical fla source (Format) and an
// HTML preview of the Markdown.
package render

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

// Build writes one flashcard block per pair, in source order.
func Build(root ast.Root, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, pair := range root.Pairs() {
		front, err := CardFront(pair)
		if err != nil {
			return ferrors.NewEmptyKey("build", i+1)
		}
		start, _ := StartWith(pair)
		bw.WriteString("- " + front + " #card #start_with_" + start + "\n")
		for _, line := range CardBack(pair) {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}
	if err := bw.Flush(); err != nil {
		return ferrors.NewIO("write", "", err)
	}
	return nil
}

// CardFront renders a key the way the flashcard header shows it.
func CardFront(pair *ast.Pair) (string, error) {
	if len(pair.Key) == 0 {
		return "", ferrors.ErrEmptyKey
	}
	var sb strings.Builder
	for i, k := range pair.Key {
		switch k.Kind {
		case ast.KeyCloze:
			sb.WriteString(" {{cloze " + k.Text + "}} ")
		default:
			if i > 0 && pair.Key[i-1].Kind == ast.KeyText {
				sb.WriteByte(' ')
			}
			sb.WriteString(k.Text)
		}
	}
	return sb.String(), nil
}

// StartWith returns the first character of the first key segment.
func StartWith(pair *ast.Pair) (string, error) {
	if len(pair.Key) == 0 {
		return "", ferrors.ErrEmptyKey
	}
	r, size := utf8.DecodeRuneInString(pair.Key[0].Text)
	if r == utf8.RuneError && size <= 1 {
		return pair.Key[0].Text[:size], nil
	}
	return string(r), nil
}

// CardBack renders the value blocks of a pair as indented bullet lines.
func CardBack(pair *ast.Pair) []string {
	var out []string
	for _, v := range pair.Value {
		var first string
		var lines []string
		switch v := v.(type) {
		case ast.Node:
			lines = ast.Lines(v.Text)
			first = "    - ==" + v.Speech.String() + ".=="
		case ast.Plain:
			lines = ast.Lines(string(v))
			first = "    -"
		}
		if len(lines) > 0 && lines[0] != "" {
			first += " " + lines[0]
		}
		out = append(out, first)
		if len(lines) > 1 {
			for _, l := range lines[1:] {
				out = append(out, continuation(l))
			}
		}
	}
	return out
}

func continuation(line string) string {
	if line == "" {
		return ""
	}
	return "      " + line
}
