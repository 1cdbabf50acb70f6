package ast

import (
	"sort"
	"strings"
)

// CompareKey orders segments by kind (text before cloze), then by payload.
func CompareKey(a, b Key) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Text, b.Text)
}

// CompareKeys orders whole keys element by element; a proper prefix sorts
// first.
func CompareKeys(a, b []Key) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := CompareKey(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// SortPairs sorts pairs by key. Pairs with equal keys keep their order.
func SortPairs(pairs []*Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return CompareKeys(pairs[i].Key, pairs[j].Key) < 0
	})
}
