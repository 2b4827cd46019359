package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// embeddedSelectors match executable or embedded elements that never
// carry article text.
var embeddedSelectors = []string{
	"script", "style", "noscript", "template", "embed", "iframe", "object",
}

// noiseSelectors match ads, share buttons and newsletter prompts.
var noiseSelectors = []string{
	".ad", ".ads", ".advertisement", `[class*="advert"]`,
	".share", `[class*="share-"]`, `[class*="social"]`,
	`[class*="newsletter"]`, ".subscribe", ".promo",
}

// Clean removes scripts, embeds, hidden elements and known noise from sel.
// sel must be a detached copy: cleaning mutates it in place.
func Clean(sel *goquery.Selection) {
	removeNoise(sel, embeddedSelectors)
	sel.Find("[hidden]").Remove()
	sel.Find("[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isHiddenStyle(s.AttrOr("style", ""))
	}).Remove()
	removeHinted(sel, noiseSelectors)
}

// isHiddenStyle reports whether an inline style hides its element.
func isHiddenStyle(style string) bool {
	style = strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(style, "display:none") ||
		strings.Contains(style, "visibility:hidden")
}

// Absolutize rewrites every relative href and src inside sel, including
// sel itself, to an absolute URL resolved against base.
func Absolutize(sel *goquery.Selection, base *url.URL) {
	if base == nil {
		return
	}
	for _, attr := range []string{"href", "src"} {
		rewrite := func(_ int, s *goquery.Selection) {
			v, ok := s.Attr(attr)
			if !ok {
				return
			}
			if resolved := resolveURL(base, v); resolved != "" {
				s.SetAttr(attr, resolved)
			}
		}
		sel.Filter("[" + attr + "]").Each(rewrite)
		sel.Find("[" + attr + "]").Each(rewrite)
	}
}

// resolveURL resolves href against base. Returns "" when href is empty,
// unparsable or uses a non-HTTP scheme, leaving the attribute untouched.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
