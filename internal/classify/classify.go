// Package classify decides which changed lines are tagging targets.
package classify

import "strings"

// Kind is the classification of a single source line.
type Kind int

const (
	// Skip lines are left untouched: blank lines and ordinary comments.
	Skip Kind = iota
	// Code lines get a tag appended to their trailing comment.
	Code
	// RemovalMarker lines are comments a committer left where code was
	// deleted or relocated; they get a trailing tag block too.
	RemovalMarker
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case RemovalMarker:
		return "removal-marker"
	default:
		return "skip"
	}
}

// removalWords is the marker vocabulary, matched case-insensitively right
// after the comment delimiter with at most one intervening space.
var removalWords = []string{"deleted", "delete", "removed", "remove", "moved", "move"}

// Line classifies a source line given the comment delimiter of its file type.
func Line(line, delim string) Kind {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return Skip
	}
	if !strings.HasPrefix(stripped, delim) {
		return Code
	}
	lower := strings.ToLower(stripped)
	prefix := strings.ToLower(delim)
	for _, word := range removalWords {
		if strings.HasPrefix(lower, prefix+word) || strings.HasPrefix(lower, prefix+" "+word) {
			return RemovalMarker
		}
	}
	return Skip
}
