// Package diffutil renders a unified diff between two strings, the format
// the teacher's CLI already exposes for comparing two hashed trees, reused
// here for the content-diff operation.
package diffutil

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff of original vs modified, with the given
// labels used as the "---"/"+++" file headers.
func Unified(originalLabel, modifiedLabel, original, modified string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: originalLabel,
		ToFile:   modifiedLabel,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// Empty reports whether a unified diff string represents no change (the
// library returns an empty string when A and B are identical).
func Empty(diff string) bool {
	return strings.TrimSpace(diff) == ""
}
