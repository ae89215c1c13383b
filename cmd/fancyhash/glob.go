package main

import (
	"path/filepath"
	"slices"
	"strings"
)

// expandGlobs replaces wildcard arguments by their sorted matches. Arguments
// without wildcards, including "-", pass through. Patterns without a match,
// or malformed ones, are kept so the error surfaces when the file is opened.
func expandGlobs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		var matches []string
		if strings.ContainsAny(a, "*?[") {
			matches, _ = filepath.Glob(a)
		}
		if len(matches) == 0 {
			out = append(out, a)
			continue
		}
		slices.Sort(matches)
		out = append(out, matches...)
	}
	return out
}
