package ast

import (
	"sort"
	"strconv"
)

// Speech is a part-of-speech tag attached to a definition node.
type Speech int

const (
	Noun Speech = iota
	Verb
	Other
	Adjective
	Adverb
	Preposition
	Pronoun
)

// speechTable is the only place tokens are spelled out. The grammar, the
// builder and every renderer go through it.
var speechTable = [...]struct {
	speech Speech
	token  string
}{
	{Noun, "n"},
	{Verb, "v"},
	{Other, "o"},
	{Adjective, "adj"},
	{Adverb, "adv"},
	{Preposition, "prep"},
	{Pronoun, "pron"},
}

// String returns the canonical short form, which is also the source token.
func (s Speech) String() string {
	if s < 0 || int(s) >= len(speechTable) {
		return "Speech(" + strconv.Itoa(int(s)) + ")"
	}
	return speechTable[s].token
}

// Valid reports whether s is one of the seven known tags.
func (s Speech) Valid() bool {
	return s >= 0 && int(s) < len(speechTable)
}

// ParseSpeech maps a source token to its tag.
func ParseSpeech(token string) (Speech, bool) {
	for _, e := range speechTable {
		if e.token == token {
			return e.speech, true
		}
	}
	return 0, false
}

// SpeechTokens lists every token, longest first, for building an
// alternation that cannot stop at a shorter prefix.
func SpeechTokens() []string {
	tokens := make([]string, 0, len(speechTable))
	for _, e := range speechTable {
		tokens = append(tokens, e.token)
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens
}
