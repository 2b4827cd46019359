package pagemd

import (
	"strings"
	"unicode"
)

// MaxSlugLength caps the title-derived part of a file name, in runes.
const MaxSlugLength = 80

// Filename returns the file name for c: the extraction date followed by a
// slug of the title, e.g. "2024-05-01-Hello-World.md".
func Filename(c *ExtractedContent) string {
	slug := Slugify(c.Title)
	if slug == "" {
		slug = "untitled"
	}
	return c.Timestamp.UTC().Format("2006-01-02") + "-" + slug + ".md"
}

// Slugify replaces every rune that is not a letter or digit with "-",
// collapses runs of "-", trims them from both ends and caps the length.
func Slugify(title string) string {
	var sb strings.Builder
	n := 0
	pendingDash := false
	for _, r := range title {
		if n >= MaxSlugLength {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingDash = sb.Len() > 0
			continue
		}
		if pendingDash {
			sb.WriteByte('-')
			n++
			pendingDash = false
			if n >= MaxSlugLength {
				break
			}
		}
		sb.WriteRune(r)
		n++
	}
	return strings.TrimRight(sb.String(), "-")
}
