package pagemd

import (
	"net/url"
	"time"
)

// DefaultTitle is used when no title candidate on the page qualifies.
const DefaultTitle = "Untitled Page"

// ExtractedContent is the record handed from content selection to
// transduction and finally to the file writer. One instance exists per
// conversion request.
type ExtractedContent struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`

	// Title is never empty; it falls back to DefaultTitle.
	Title string `json:"title"`

	// Author and Description are empty when not found.
	Author      string `json:"author"`
	Description string `json:"description"`

	// ContentHTML is the cleaned, serialized main-content fragment with
	// absolute links. Converters treat it as read-only input.
	ContentHTML string `json:"content"`

	// Markdown is the final document (front matter followed by the body).
	// It is empty until the content has been transduced.
	Markdown string `json:"markdown,omitempty"`

	WordCount int       `json:"wordCount"`
	Excerpt   string    `json:"excerpt"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExtractedContent returns a record for pageURL stamped with now.
// Returns EINVALID if pageURL is not an absolute URL.
func NewExtractedContent(pageURL string, now time.Time) (*ExtractedContent, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid page URL: %v", err)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "page URL %q must be absolute", pageURL)
	}

	return &ExtractedContent{
		URL:       pageURL,
		Domain:    u.Hostname(),
		Title:     DefaultTitle,
		Timestamp: now.UTC(),
	}, nil
}

// Measure derives WordCount and Excerpt from the plain-text projection
// of the content.
func (c *ExtractedContent) Measure(plainText string) {
	c.WordCount = WordCount(plainText)
	c.Excerpt = Excerpt(plainText, ExcerptLength)
}

// SetTitle sets the title, keeping the current one when title is blank.
func (c *ExtractedContent) SetTitle(title string) {
	if title = CollapseWhitespace(title); title != "" {
		c.Title = title
	}
}
