package goquery

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemd"
)

// Candidate pairs a CSS selector with the function that reads a value from
// the first element it matches.
type Candidate struct {
	Selector string
	Value    func(*goquery.Selection) string
}

// text reads the whitespace-collapsed text content of an element.
func text(sel *goquery.Selection) string {
	return pagemd.CollapseWhitespace(sel.Text())
}

// content reads the content attribute of a meta element.
func content(sel *goquery.Selection) string {
	return pagemd.CollapseWhitespace(sel.AttrOr("content", ""))
}

// TitleCandidates lists title sources from most to least specific.
var TitleCandidates = []Candidate{
	{Selector: "article h1", Value: text},
	{Selector: "h1", Value: text},
	{Selector: "title", Value: text},
	{Selector: `meta[property="og:title"]`, Value: content},
	{Selector: `meta[name="twitter:title"]`, Value: content},
	{Selector: ".title, .article-title", Value: text},
}

// DescriptionCandidates lists description sources in priority order.
var DescriptionCandidates = []Candidate{
	{Selector: `meta[name="description"]`, Value: content},
	{Selector: `meta[property="og:description"]`, Value: content},
	{Selector: `meta[name="twitter:description"]`, Value: content},
	{Selector: ".description, .excerpt", Value: text},
	{Selector: "p", Value: text},
}

// AuthorCandidates lists author sources in priority order.
var AuthorCandidates = []Candidate{
	{Selector: `meta[name="author"]`, Value: content},
	{Selector: `meta[property="article:author"]`, Value: content},
	{Selector: `[rel="author"]`, Value: text},
	{Selector: `[itemprop="author"]`, Value: text},
	{Selector: ".author", Value: text},
	{Selector: ".byline", Value: text},
}

// Resolve returns the first candidate value accepted by accept, or "".
func Resolve(doc *goquery.Document, candidates []Candidate, accept func(string) bool) string {
	for _, c := range candidates {
		sel := doc.Find(c.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		if v := c.Value(sel); accept(v) {
			return v
		}
	}
	return ""
}

// lengthBetween accepts values whose rune count is strictly between min and max.
func lengthBetween(min, max int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n > min && n < max
	}
}

// ResolveTitle returns the page title. When no candidate is longer than
// three characters it falls back to the document title, then to
// pagemd.DefaultTitle.
func ResolveTitle(doc *goquery.Document) string {
	if title := Resolve(doc, TitleCandidates, func(s string) bool {
		return utf8.RuneCountInString(s) > 3
	}); title != "" {
		return title
	}
	if title := text(doc.Find("title").First()); title != "" {
		return title
	}
	return pagemd.DefaultTitle
}

// ResolveDescription returns a description between 10 and 300 characters
// long, or "".
func ResolveDescription(doc *goquery.Document) string {
	return Resolve(doc, DescriptionCandidates, lengthBetween(10, 300))
}

// ResolveAuthor returns an author name between 2 and 100 characters long,
// or "".
func ResolveAuthor(doc *goquery.Document) string {
	return Resolve(doc, AuthorCandidates, lengthBetween(2, 100))
}
