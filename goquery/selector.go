// Package goquery implements content selection with CSS selectors.
// It picks the main content region of a page, strips boilerplate from a
// copy of it and resolves page metadata from ordered candidate lists.
package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemd"
)

// Ensure Selector implements pagemd.Extractor at compile time.
var _ pagemd.Extractor = (*Selector)(nil)

// Selector extracts the main content of a page using priority-ordered
// CSS selector lists.
type Selector struct {
	// Now returns the extraction instant. Defaults to time.Now.
	Now func() time.Time
}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{Now: time.Now}
}

// Extract parses rawHTML and returns its main content and metadata.
func (s *Selector) Extract(rawHTML string, pageURL string) (*pagemd.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagemd.Errorf(pagemd.EINVALID, "failed to parse HTML: %v", err)
	}
	return s.ExtractDocument(doc, pageURL)
}

// ExtractDocument extracts content from an already parsed document.
// The document is never modified: cleaning happens on a copy of the
// selected region.
func (s *Selector) ExtractDocument(doc *goquery.Document, pageURL string) (*pagemd.ExtractedContent, error) {
	c, err := pagemd.NewExtractedContent(pageURL, s.now())
	if err != nil {
		return nil, err
	}
	page, _ := url.Parse(pageURL)
	base := documentBase(doc, page)

	c.Title = ResolveTitle(doc)
	c.Description = ResolveDescription(doc)
	c.Author = ResolveAuthor(doc)

	region, isBody := SelectRegion(doc)
	var clone *goquery.Selection
	if isBody {
		clone = StripBody(region)
	} else {
		clone = region.Clone()
	}
	Clean(clone)
	Absolutize(clone, base)

	var contentHTML string
	if isBody {
		contentHTML, err = clone.Html()
	} else {
		contentHTML, err = goquery.OuterHtml(clone)
	}
	if err != nil {
		return nil, pagemd.Errorf(pagemd.EINTERNAL, "failed to render content: %v", err)
	}

	c.ContentHTML = strings.TrimSpace(contentHTML)
	if c.ContentHTML == "" {
		c.Measure("")
		return c, nil
	}
	c.Measure(BlockText(clone))
	return c, nil
}

func (s *Selector) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// documentBase returns the URL relative references resolve against:
// the document's <base href> if present, otherwise the page address.
func documentBase(doc *goquery.Document, page *url.URL) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return page
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return page
	}
	return page.ResolveReference(ref)
}
