package ast

import "strings"

// Lines splits a block into trimmed lines. Interior blank lines are kept as
// empty strings; an empty block has no lines.
func Lines(block string) []string {
	if block == "" {
		return nil
	}
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
