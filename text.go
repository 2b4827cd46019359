package pagemd

import (
	"strings"
	"unicode"
)

// ExcerptLength is the maximum number of runes in an excerpt before the
// trailing ellipsis.
const ExcerptLength = 200

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims the result.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns at most max runes of text with whitespace collapsed.
// Truncated excerpts end at the last word boundary and carry "...".
func Excerpt(text string, max int) string {
	text = CollapseWhitespace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := runes[:max]
	// A boundary right after the cut point keeps the last word whole.
	if !unicode.IsSpace(runes[max]) {
		for i := len(cut) - 1; i > 0; i-- {
			if unicode.IsSpace(cut[i]) {
				cut = cut[:i]
				break
			}
		}
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + "..."
}
