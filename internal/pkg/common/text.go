package common

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`\w\S*`)
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]`)
	underscoreRuns  = regexp.MustCompile(`_+`)
)

// TitleCase converts a string to title case: the first letter of every word
// is uppercased and the rest lowercased.
func TitleCase(s string) string {
	if s == "" {
		return ""
	}
	return wordPattern.ReplaceAllStringFunc(s, func(word string) string {
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	})
}

// Slugify lowercases a string and reduces it to underscore-separated
// alphanumeric runs, suitable for use inside an entity id.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = nonAlnumPattern.ReplaceAllString(slug, "_")
	slug = underscoreRuns.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// UniqueSuffixID returns base if unused, otherwise the first base_N (N >= 2)
// not present in used. Suffixing is deterministic for a given used set.
func UniqueSuffixID(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	n := 2
	for used[fmt.Sprintf("%s_%d", base, n)] {
		n++
	}
	return fmt.Sprintf("%s_%d", base, n)
}
