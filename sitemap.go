package pagemd

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// SitemapService lists the pages a site publishes, so a whole site or
// section can be clipped in one run.
type SitemapService interface {
	// DiscoverURLs returns the page URLs in the sitemaps of baseURL's site
	// that pass filter, in sitemap order. Sitemap locations come from
	// robots.txt with /sitemap.xml as the fallback.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// assetExtensions mark sitemap entries that are files rather than pages.
var assetExtensions = map[string]bool{
	".pdf": true, ".zip": true, ".gz": true, ".xml": true, ".rss": true, ".json": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
	".mp3": true, ".mp4": true, ".webm": true, ".mov": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
}

// URLFilter selects which discovered URLs are worth clipping.
type URLFilter struct {
	// Include keeps only URLs matching at least one pattern, when set.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. It wins over Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns. It returns a nil
// filter when both are empty and EINVALID for a pattern that does not
// compile.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match reports whether pageURL should be clipped. Only absolute http(s)
// URLs that do not name a document or media file qualify, on a nil
// filter too. Patterns see the URL without its fragment.
func (f *URLFilter) Match(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	if assetExtensions[strings.ToLower(path.Ext(u.Path))] {
		return false
	}
	if f == nil {
		return true
	}

	u.Fragment = ""
	u.RawFragment = ""
	target := u.String()

	if len(f.Include) > 0 && !matchAny(f.Include, target) {
		return false
	}
	return !matchAny(f.Exclude, target)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
