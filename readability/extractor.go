package readability

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagemd.Extractor at compile time.
var _ pagemd.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now}
}

// Extract processes raw HTML fetched from pageURL. Relative links in the
// content are resolved against pageURL by readability.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*pagemd.ExtractedContent, error) {
	if rawHTML == "" {
		return nil, pagemd.Errorf(pagemd.EINVALID, "empty HTML input")
	}

	c, err := pagemd.NewExtractedContent(pageURL, e.Now())
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(pageURL)

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, pagemd.Errorf(pagemd.ENOTFOUND, "no content extracted from %s: %v", pageURL, err)
	}

	c.SetTitle(article.Title)
	c.Author = pagemd.CollapseWhitespace(article.Byline)
	c.Description = pagemd.CollapseWhitespace(article.Excerpt)
	c.ContentHTML = strings.TrimSpace(article.Content)
	c.Measure(article.TextContent)

	return c, nil
}
