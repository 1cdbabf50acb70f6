package syntax

import (
	"strings"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
)

// Build converts a concrete tree into an ast.Root in one pass. src must be
// the exact text doc was parsed from.
//
// Build trusts the grammar: a tree shape the grammar cannot produce panics
// with *errors.InvariantError. Parse turns that panic into an error.
func Build(src string, doc *Document) ast.Root {
	root := make(ast.Root, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		switch {
		case entry.Pair != nil:
			root = append(root, buildPair(src, entry.Pair))
		case entry.Comment != nil:
			// Comments are recognised but not kept.
		default:
			panic(ferrors.NewInvariant("ast builder", "empty entry at %s", entry.Pos))
		}
	}
	return root
}

func buildPair(src string, p *Pair) *ast.Pair {
	pair := &ast.Pair{}
	for _, seg := range p.Key {
		var key ast.Key
		switch {
		case seg.Text != nil:
			key = ast.Text(strings.TrimSpace(*seg.Text))
		case seg.Cloze != nil:
			key = ast.Cloze(strings.TrimSpace(seg.Cloze.Text))
		default:
			panic(ferrors.NewInvariant("ast builder", "empty key segment at %s", p.Pos))
		}
		if key.Text == "" {
			continue
		}
		pair.Key = append(pair.Key, key)
	}

	for _, v := range p.Body {
		switch {
		case v.Node != nil:
			pair.Value = append(pair.Value, buildNode(v.Node))
		case v.Text != nil:
			if text := trimLines(textSpan(src, v.Text)); text != "" {
				pair.Value = append(pair.Value, ast.Plain(text))
			}
		default:
			panic(ferrors.NewInvariant("ast builder", "empty value in pair at %s", p.Pos))
		}
	}
	return pair
}

func buildNode(n *Node) ast.Node {
	tag := strings.TrimSpace(strings.TrimSuffix(n.Open, "{"))
	speech, ok := ast.ParseSpeech(tag)
	if !ok {
		panic(ferrors.NewInvariant("ast builder", "unknown speech token %q at %s", tag, n.Pos))
	}
	return ast.Node{Speech: speech, Text: trimLines(n.Text)}
}

// trimLines trims the block and each of its lines. A block whose lines are
// already clean is returned as a slice of the input; otherwise one new
// string is built for it.
func trimLines(block string) string {
	block = strings.TrimSpace(block)
	clean := true
	for rest := block; rest != ""; {
		line, tail, _ := strings.Cut(rest, "\n")
		if line != strings.TrimSpace(line) {
			clean = false
			break
		}
		rest = tail
	}
	if clean {
		return block
	}

	var sb strings.Builder
	sb.Grow(len(block))
	for i, line := range strings.Split(block, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimSpace(line))
	}
	return sb.String()
}

// textSpan returns the slice of src covered by t's words, including the
// whitespace between them.
func textSpan(src string, t *Text) string {
	start := t.Pos.Offset
	end := start
	for _, w := range t.Words {
		for end < len(src) && isSpace(src[end]) {
			end++
		}
		if !strings.HasPrefix(src[end:], w) {
			panic(ferrors.NewInvariant("ast builder", "word %q not found at offset %d", w, end))
		}
		end += len(w)
	}
	return src[start:end]
}

// isSpace matches the bytes the body lexer elides.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
