// Package tags provides issue-tracker tag parsing.
package tags

import (
	"regexp"
	"strings"
)

// A tag is one or more uppercase letters, a hyphen, and one or more digits,
// e.g. ABC-1234. Comparison is exact and case-sensitive.
var (
	tagRe    = regexp.MustCompile(`^[A-Z]+-[0-9]+$`)
	searchRe = regexp.MustCompile(`[A-Z]+-[0-9]+`)
	splitRe  = regexp.MustCompile(`[,\s]+`)
)

// IsTag reports whether s is exactly an issue tag.
func IsTag(s string) bool {
	return tagRe.MatchString(s)
}

// Clean strips leading comment-delimiter noise from a token, so //ABC-123,
// #ABC-123 and --ABC-123 all yield ABC-123.
func Clean(token string) string {
	return strings.TrimLeft(token, "/#-")
}

// Extract returns the tags found in text, in order of appearance. Text is
// split on runs of commas and whitespace; tokens that are not tags after
// Clean are ignored. Duplicates are preserved, dedup is the caller's job.
func Extract(text string) []string {
	var found []string
	for _, token := range splitRe.Split(text, -1) {
		cleaned := Clean(token)
		if IsTag(cleaned) {
			found = append(found, cleaned)
		}
	}
	return found
}

// First returns the first tag-shaped substring in s, or "" if there is none.
// This is how a tag is derived from a branch name like feature/ABC-4567-login.
func First(s string) string {
	return searchRe.FindString(s)
}

// Contains reports whether tag is present in list.
func Contains(list []string, tag string) bool {
	for _, t := range list {
		if t == tag {
			return true
		}
	}
	return false
}
