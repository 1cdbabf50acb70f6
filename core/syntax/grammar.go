// Package syntax holds the fla grammar, the concrete parser that runs it,
// and the pass that turns the concrete tree into an ast.Root.
//
// Surface syntax:
//
//	// comments sit between pairs
//	the {{cat}} sat {
//	    n { a domestic animal }
//	    free text, possibly
//	    over several lines
//	}
package syntax

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/fla/core/ast"
)

// Document is the concrete parse tree of a whole source file.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Document struct {
	Entries []*Entry `@@*`
}

// Entry is a top-level comment or pair.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Entry struct {
	Pos lexer.Position

	Comment *string `  @Comment`
	Pair    *Pair   `| @@`
}

// Pair is a key followed by a braced body.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Pair struct {
	Pos lexer.Position

	Key  []*Segment `@@+`
	Body []*Value   `PairOpen @@* PairClose`
}

// Segment is one piece of a key.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Segment struct {
	Text  *string `  @KeyText`
	Cloze *Cloze  `| @@`
}

// Cloze is a {{...}} key segment. Text excludes the delimiters.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Cloze struct {
	Text string `ClozeOpen @ClozeText? ClozeClose`
}

// Value is one entry of a pair body.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Value struct {
	Node *Node `  @@`
	Text *Text `| @@`
}

// Node is a speech-tagged block. Open holds the whole opening token, tag and
// brace included.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Node struct {
	Pos lexer.Position

	Open string `@NodeOpen`
	Text string `@NodeText? NodeClose`
}

// Text is a run of words outside any node. Pos locates the first word;
// the builder recovers the exact source span from it.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Text struct {
	Pos lexer.Position

	Words []string `@Word+`
}

// speechPattern matches exactly one of the speech tokens.
func speechPattern() string {
	tokens := ast.SpeechTokens()
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}

// flaLexer tokenizes fla source. Each brace pushes a state so that key,
// body, node and cloze text are each scanned by their own rules.
// Order matters: the first matching rule in a state wins.
var flaLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "ClozeOpen", Pattern: `\{\{`, Action: lexer.Push("Cloze")},
		{Name: "PairOpen", Pattern: `\{`, Action: lexer.Push("Body")},
		// One line of key text; trailing blanks are trimmed by the builder.
		{Name: "KeyText", Pattern: `[^\s{}][^{}\r\n]*`},
	},
	"Cloze": {
		{Name: "ClozeClose", Pattern: `\}\}`, Action: lexer.Pop()},
		{Name: "ClozeText", Pattern: `[^{}]+`},
	},
	"Body": {
		{Name: "Whitespace", Pattern: `\s+`},
		// Tried before Word, and only ever at a word boundary, so "nope {"
		// never opens a node.
		{Name: "NodeOpen", Pattern: speechPattern() + `\s*\{`, Action: lexer.Push("Node")},
		{Name: "PairClose", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "Word", Pattern: `[^\s{}]+`},
	},
	"Node": {
		{Name: "NodeClose", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "NodeText", Pattern: `[^{}]+`},
	},
})

// flaParser is the participle parser for fla documents.
var flaParser = participle.MustBuild[Document](
	participle.Lexer(flaLexer),
	participle.Elide("Whitespace"),
)

// Grammar returns the EBNF form of the grammar, for documentation and
// debugging.
func Grammar() string {
	return flaParser.String()
}
