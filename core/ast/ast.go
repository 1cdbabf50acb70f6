// Package ast defines the typed syntax tree of an fla document.
//
// A Root is built once from one source buffer and is never mutated
// afterwards. Every string payload in the tree is a substring of that
// buffer.
package ast

// Root is the whole document, in source order.
type Root []Item

// Item is a top-level document entry. Pair is the only implementation;
// comments are recognised by the grammar but never reach the tree.
type Item interface {
	item()
}

// Pair is one note: a key and its definition blocks.
type Pair struct {
	Key   []Key
	Value []Value
}

func (*Pair) item() {}

// Pairs returns the pairs of r in source order.
func (r Root) Pairs() []*Pair {
	pairs := make([]*Pair, 0, len(r))
	for _, it := range r {
		if p, ok := it.(*Pair); ok {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// KeyKind tags a key segment. The numeric order is the sort order.
type KeyKind int

const (
	// KeyText is literal key text.
	KeyText KeyKind = iota
	// KeyCloze is a segment hidden behind a cloze marker.
	KeyCloze
)

func (k KeyKind) String() string {
	switch k {
	case KeyText:
		return "text"
	case KeyCloze:
		return "cloze"
	default:
		return "unknown"
	}
}

// Key is one segment of a pair's key.
type Key struct {
	Kind KeyKind
	Text string
}

// Text returns a literal key segment.
func Text(s string) Key { return Key{Kind: KeyText, Text: s} }

// Cloze returns a cloze key segment.
func Cloze(s string) Key { return Key{Kind: KeyCloze, Text: s} }

// Value is one definition block of a pair: a Node or a Plain.
type Value interface {
	value()
}

// Node is a definition block tagged with a part of speech. Text may span
// several lines.
type Node struct {
	Speech Speech
	Text   string
}

func (Node) value() {}

// Plain is an untagged free-text block. It may span several lines and is
// never empty.
type Plain string

func (Plain) value() {}
