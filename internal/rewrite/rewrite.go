// Package rewrite reconstructs source lines so they carry an issue tag in a
// trailing comment, preserving any comment content already there.
package rewrite

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"lazytag/internal/tags"
)

const (
	// MaxLineWidth is the column the tag block is aligned to end at. Lines
	// whose natural rendering is longer keep a single separating space
	// instead; content is never truncated to force alignment.
	MaxLineWidth = 80

	// markerTagOffset is where the search for a trailing tag block starts on
	// removal-marker lines. The marker text itself occupies the leading
	// columns and its delimiter must not be mistaken for the tag block's.
	markerTagOffset = 40
)

var tokenRe = regexp.MustCompile(`[,\s]+`)

// CodeLine rewrites a code line to carry newTag. Existing tags are merged
// with newTag into a single tag block; free-form comment text is preserved
// in its own comment segment ahead of the tag block. If newTag already
// appears anywhere on the line, the line is returned unchanged.
func CodeLine(line, delim, newTag string) string {
	if tags.Contains(tags.Extract(line), newTag) {
		return line
	}

	line = strings.TrimRight(line, " \t")
	codePart := line
	commentPart := ""
	if i := strings.Index(line, delim); i >= 0 {
		codePart = strings.TrimRight(line[:i], " \t")
		commentPart = strings.TrimSpace(line[i:])
	}

	// Everything in the comment that is not a tag token or pure delimiter
	// noise is descriptive text and must survive the rewrite. A token with
	// the delimiter still attached (e.g. //units:) loses it here; the
	// rendering below re-adds a single delimiter for the whole text block.
	var words []string
	for _, token := range tokenRe.Split(commentPart, -1) {
		cleaned := tags.Clean(token)
		if cleaned == "" || tags.IsTag(cleaned) {
			continue
		}
		if word := strings.TrimPrefix(token, delim); word != "" {
			words = append(words, word)
		}
	}

	tagList := tags.Extract(commentPart)
	if !tags.Contains(tagList, newTag) {
		tagList = append(tagList, newTag)
	}

	comment := delim + " " + strings.Join(tagList, ", ")
	if len(words) > 0 {
		comment = delim + " " + strings.Join(words, " ") + " " + comment
	}

	return align(codePart, comment)
}

// RemovalMarker rewrites a removal-marker line to carry newTag. The marker
// text is preserved verbatim; only the tag block found at or after
// markerTagOffset is rebuilt. If newTag already appears anywhere on the
// line, the line is returned unchanged.
func RemovalMarker(line, delim, newTag string) string {
	if tags.Contains(tags.Extract(line), newTag) {
		return line
	}

	line = strings.TrimRight(line, " \t")
	codePart := line
	var tagList []string
	if i := indexFrom(line, delim, markerTagOffset); i >= 0 {
		tagList = tags.Extract(line[i:])
		codePart = strings.TrimRight(line[:i], " \t")
	}
	if !tags.Contains(tagList, newTag) {
		tagList = append(tagList, newTag)
	}

	return align(codePart, delim+" "+strings.Join(tagList, ", "))
}

// align joins the code part and the rendered comment so that the comment
// ends flush at MaxLineWidth when it fits, and with a single separating
// space when it does not. Widths are counted in runes, not bytes, so
// multibyte comment text still lines up.
func align(codePart, comment string) string {
	codeWidth := utf8.RuneCountInString(codePart)
	commentWidth := utf8.RuneCountInString(comment)
	if codeWidth+1+commentWidth > MaxLineWidth {
		return codePart + " " + comment
	}
	return codePart + strings.Repeat(" ", MaxLineWidth-codeWidth-commentWidth) + comment
}

// indexFrom is strings.Index starting the search at offset from.
func indexFrom(s, substr string, from int) int {
	if from >= len(s) {
		return -1
	}
	if i := strings.Index(s[from:], substr); i >= 0 {
		return from + i
	}
	return -1
}
