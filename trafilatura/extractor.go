package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagemd.Extractor at compile time.
var _ pagemd.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now}
}

// Extract processes raw HTML fetched from pageURL and returns the main
// content with trafilatura's metadata.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*pagemd.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagemd.Errorf(pagemd.EINVALID, "empty HTML input")
	}

	c, err := pagemd.NewExtractedContent(pageURL, e.Now())
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(pageURL)

	opts := trafilatura.Options{
		EnableFallback: true,
		OriginalURL:    u,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, pagemd.Errorf(pagemd.ENOTFOUND, "no content extracted from %s: %v", pageURL, err)
	}

	c.SetTitle(result.Metadata.Title)
	c.Author = pagemd.CollapseWhitespace(result.Metadata.Author)
	c.Description = pagemd.CollapseWhitespace(result.Metadata.Description)

	if result.ContentNode != nil {
		c.ContentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, pagemd.Errorf(pagemd.EINTERNAL, "failed to render content: %v", err)
		}
	}
	c.Measure(result.ContentText)

	return c, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
