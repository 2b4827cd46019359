package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MinContentLength is the plain-text length a region must exceed to be
// chosen as the main content.
const MinContentLength = 100

// ContentSelectors lists main-content containers in priority order.
var ContentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".post-body",
	".content",
	"#content",
	".post",
}

// noiseTags are removed from the body when no content container
// qualifies.
var noiseTags = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript", "form",
	`[role="navigation"]`, `[role="banner"]`, `[role="contentinfo"]`, `[role="complementary"]`,
}

// noiseHints match class or id fragments that usually mark boilerplate.
var noiseHints = []string{
	substringSelector("nav"),
	substringSelector("menu"),
	substringSelector("sidebar"),
	substringSelector("footer"),
	substringSelector("header"),
	substringSelector("advert"),
	substringSelector("sponsor"),
	substringSelector("social"),
	substringSelector("share"),
	substringSelector("comment"),
	substringSelector("cookie"),
	substringSelector("banner"),
	substringSelector("popup"),
	substringSelector("related"),
	substringSelector("breadcrumb"),
	substringSelector("newsletter"),
}

// substringSelector matches elements whose class or id contains s.
func substringSelector(s string) string {
	return `[class*="` + s + `"], [id*="` + s + `"]`
}

// SelectRegion returns the first content container whose text is longer
// than MinContentLength. When none qualifies it returns the body and
// reports true so the caller can strip structural noise.
func SelectRegion(doc *goquery.Document) (region *goquery.Selection, isBody bool) {
	for _, selector := range ContentSelectors {
		var found *goquery.Selection
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if textLength(sel) > MinContentLength {
				found = sel
				return false
			}
			return true
		})
		if found != nil {
			return found, false
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return doc.Selection, true
	}
	return body, true
}

func textLength(sel *goquery.Selection) int {
	return utf8.RuneCountInString(strings.TrimSpace(BlockText(sel)))
}

// StripBody returns a copy of body without structural noise. A copy left
// without text while body has some falls back to the tag denylist alone,
// then to the unstripped body.
func StripBody(body *goquery.Selection) *goquery.Selection {
	if textLength(body) == 0 {
		return body.Clone()
	}
	clone := body.Clone()
	removeNoise(clone, noiseTags)
	removeHinted(clone, noiseHints)
	if textLength(clone) > 0 {
		return clone
	}
	clone = body.Clone()
	removeNoise(clone, noiseTags)
	if textLength(clone) > 0 {
		return clone
	}
	return body.Clone()
}

// removeNoise deletes every descendant of sel matching one of selectors.
func removeNoise(sel *goquery.Selection, selectors []string) {
	for _, selector := range selectors {
		sel.Find(selector).Remove()
	}
}

// removeHinted deletes descendants of sel matching one of selectors,
// keeping any match that holds more than half of sel's text.
func removeHinted(sel *goquery.Selection, selectors []string) {
	for _, selector := range selectors {
		total := textLength(sel)
		sel.Find(selector).Each(func(_ int, match *goquery.Selection) {
			if total > 0 && 2*textLength(match) > total {
				return
			}
			match.Remove()
		})
	}
}

// blockElements break words apart in BlockText.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Caption: true, atom.Dd: true, atom.Details: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true,
}

// BlockText returns the text of sel with a space at every block-level
// element boundary, so adjacent cells and paragraphs stay separate words.
func BlockText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeBlockText(&b, n)
	}
	return b.String()
}

func writeBlockText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte(' ')
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeBlockText(b, child)
	}
	if block {
		b.WriteByte(' ')
	}
}
