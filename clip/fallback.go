package clip

import (
	"html"
	"regexp"

	"github.com/fwojciec/pagemd"
)

var (
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	bodyRe   = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
	hiddenRe = regexp.MustCompile(`(?is)<(script|style|noscript|template)\b[^>]*>.*?</(script|style|noscript|template)>`)
	tagRe    = regexp.MustCompile(`(?s)<!--.*?-->|<[^>]*>`)
)

// fallbackContent builds a minimal record from the page title and the
// plain text of its body.
func (c *Clipper) fallbackContent(page, pageURL string) *pagemd.ExtractedContent {
	now := c.now()
	content, err := pagemd.NewExtractedContent(pageURL, now)
	if err != nil {
		content = &pagemd.ExtractedContent{
			URL:       pageURL,
			Title:     pagemd.DefaultTitle,
			Timestamp: now.UTC(),
		}
	}

	if m := titleRe.FindStringSubmatch(page); m != nil {
		content.SetTitle(html.UnescapeString(m[1]))
	}

	body := page
	if m := bodyRe.FindStringSubmatch(page); m != nil {
		body = m[1]
	}
	text := plainText(body)
	if text != "" {
		content.ContentHTML = "<p>" + html.EscapeString(text) + "</p>"
	}
	content.Measure(text)
	return content
}

// plainBody renders markup as a single paragraph of plain text.
func plainBody(markup string) string {
	text := plainText(markup)
	if text == "" {
		return ""
	}
	return text + "\n"
}

// plainText strips tags in one pass, decodes entities and collapses
// whitespace.
func plainText(markup string) string {
	markup = hiddenRe.ReplaceAllString(markup, " ")
	markup = tagRe.ReplaceAllString(markup, " ")
	return pagemd.CollapseWhitespace(html.UnescapeString(markup))
}
