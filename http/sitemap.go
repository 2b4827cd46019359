package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagemd"
)

// DefaultMaxSitemapURLs caps how many page URLs a single discovery returns.
const DefaultMaxSitemapURLs = 1000

// Ensure SitemapService implements pagemd.SitemapService.
var _ pagemd.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from website sitemaps via HTTP.
type SitemapService struct {
	client  *http.Client
	maxURLs int
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithMaxURLs limits the number of URLs returned by DiscoverURLs.
func WithMaxURLs(n int) SitemapOption {
	return func(s *SitemapService) {
		s.maxURLs = n
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{client: client, maxURLs: DefaultMaxSitemapURLs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the page URLs listed in the site's sitemaps, in
// sitemap order without duplicates. Returns an empty slice (not nil) if
// no sitemap is found.
//
// When baseURL has a non-root path (e.g. https://example.com/blog/), only
// URLs below that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagemd.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, pagemd.Errorf(pagemd.EINVALID, "invalid base URL %q", baseURL)
	}
	prefix := pathPrefix(base.Path)
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locateSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{svc: s, seenSitemaps: map[string]bool{}, seenURLs: map[string]bool{}}
	for _, sm := range sitemaps {
		if err := w.visit(ctx, sm); err != nil {
			return nil, err
		}
	}

	urls := []string{}
	for _, u := range w.urls {
		if prefix != "" && !underPath(u, prefix) {
			continue
		}
		if !filter.Match(u) {
			continue
		}
		urls = append(urls, u)
		if s.maxURLs > 0 && len(urls) == s.maxURLs {
			break
		}
	}
	return urls, nil
}

// pathPrefix normalizes a base path to a directory prefix ending in "/".
// The root path yields "".
func pathPrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// underPath reports whether rawURL's path lies below prefix, so /blog
// matches /blog/ and /blog/post but not /blogroll.
func underPath(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, prefix) || u.Path+"/" == prefix
}

// locateSitemaps reads Sitemap: directives from robots.txt and falls
// back to /sitemap.xml when there are none.
func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		// Only cancellation is fatal; anything else means no sitemap.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pagemd.Errorf(pagemd.EINTERNAL, "reading robots.txt: %v", err)
	}
	return sitemaps, nil
}

// sitemapWalk follows sitemap indexes depth-first, collecting page URLs.
type sitemapWalk struct {
	svc          *SitemapService
	seenSitemaps map[string]bool
	seenURLs     map[string]bool
	urls         []string
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.seenSitemaps[sitemapURL] {
		return nil
	}
	w.seenSitemaps[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return pagemd.Errorf(pagemd.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return pagemd.Errorf(pagemd.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range locs(root, "sitemap") {
			if err := w.visit(ctx, loc); err != nil {
				return err
			}
		}
		return nil
	}

	for _, loc := range locs(root, "url") {
		if !w.seenURLs[loc] {
			w.seenURLs[loc] = true
			w.urls = append(w.urls, loc)
		}
	}
	return nil
}

// locs returns the non-empty <loc> texts of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pagemd.Errorf(pagemd.EINVALID, "invalid URL %q: %v", target, err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, pagemd.Errorf(pagemd.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
