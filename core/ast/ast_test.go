package ast

import (
	"reflect"
	"testing"
)

func TestSpeechTable(t *testing.T) {
	tests := []struct {
		token  string
		speech Speech
	}{
		{"n", Noun},
		{"v", Verb},
		{"o", Other},
		{"adj", Adjective},
		{"adv", Adverb},
		{"prep", Preposition},
		{"pron", Pronoun},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseSpeech(tt.token)
			if !ok {
				t.Fatalf("ParseSpeech(%q) not recognised", tt.token)
			}
			if got != tt.speech {
				t.Errorf("ParseSpeech(%q) = %v, want %v", tt.token, got, tt.speech)
			}
			if s := got.String(); s != tt.token {
				t.Errorf("String() = %q, want %q", s, tt.token)
			}
			if !got.Valid() {
				t.Errorf("%v.Valid() = false", got)
			}
		})
	}

	if _, ok := ParseSpeech("noun"); ok {
		t.Error(`ParseSpeech("noun") recognised a long form`)
	}
	if s := Speech(42).String(); s != "Speech(42)" {
		t.Errorf("Speech(42).String() = %q", s)
	}
}

func TestSpeechTokens(t *testing.T) {
	tokens := SpeechTokens()
	if len(tokens) != 7 {
		t.Fatalf("SpeechTokens() returned %d tokens, want 7", len(tokens))
	}
	for i := 1; i < len(tokens); i++ {
		if len(tokens[i]) > len(tokens[i-1]) {
			t.Errorf("tokens not sorted longest first: %v", tokens)
		}
	}
}

func TestCompareKeys(t *testing.T) {
	tests := []struct {
		name string
		a, b []Key
		want int
	}{
		{"equal", []Key{Text("a")}, []Key{Text("a")}, 0},
		{"payload order", []Key{Text("apple")}, []Key{Text("zebra")}, -1},
		{"text before cloze", []Key{Cloze("a")}, []Key{Text("z")}, 1},
		{"prefix first", []Key{Text("a")}, []Key{Text("a"), Cloze("b")}, -1},
		{"longer after", []Key{Text("a"), Text("b")}, []Key{Text("a")}, 1},
		{"second element", []Key{Text("a"), Cloze("x")}, []Key{Text("a"), Cloze("b")}, 1},
		{"both empty", nil, nil, 0},
		{"empty first", nil, []Key{Text("a")}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareKeys(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareKeys(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := CompareKeys(tt.b, tt.a); got != -tt.want {
				t.Errorf("CompareKeys(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestSortPairsStable(t *testing.T) {
	first := &Pair{Key: []Key{Text("b")}, Value: []Value{Plain("first")}}
	second := &Pair{Key: []Key{Text("b")}, Value: []Value{Plain("second")}}
	apple := &Pair{Key: []Key{Text("a")}}
	cloze := &Pair{Key: []Key{Cloze("a")}}

	pairs := []*Pair{cloze, first, apple, second}
	SortPairs(pairs)

	want := []*Pair{apple, first, second, cloze}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("SortPairs order[%d] = %v, want %v", i, pairs[i].Key, want[i].Key)
		}
	}
}

func TestRootPairs(t *testing.T) {
	a := &Pair{Key: []Key{Text("a")}}
	b := &Pair{Key: []Key{Text("b")}}
	root := Root{a, b}
	if got := root.Pairs(); !reflect.DeepEqual(got, []*Pair{a, b}) {
		t.Errorf("Pairs() = %v", got)
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a greeting", []string{"a greeting"}},
		{"trims each line", "one  \n\t two\n   three", []string{"one", "two", "three"}},
		{"keeps interior blank", "one\n   \ntwo", []string{"one", "", "two"}},
		{"crlf", "one\r\ntwo", []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lines(tt.block); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}
