package pagemd

import (
	"strconv"
	"strings"
	"time"
)

// FormatMarkdown renders the front-matter header for c followed by a blank
// line and body. url, title, timestamp, domain and word_count are always
// present; author, description and excerpt only when non-empty.
func FormatMarkdown(c *ExtractedContent, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "url", c.URL)
	writeField(&b, "title", quote(c.Title))
	writeField(&b, "timestamp", c.Timestamp.UTC().Format(time.RFC3339))
	writeField(&b, "domain", c.Domain)
	if c.Author != "" {
		writeField(&b, "author", quote(c.Author))
	}
	if c.Description != "" {
		writeField(&b, "description", quote(c.Description))
	}
	writeField(&b, "word_count", strconv.Itoa(c.WordCount))
	if c.Excerpt != "" {
		writeField(&b, "excerpt", quote(c.Excerpt))
	}
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// quote wraps s in double quotes, escaping backslashes and embedded quotes.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
