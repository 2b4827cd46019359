package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/pagemd"
)

// Ensure LoggingSitemapService implements pagemd.SitemapService.
var _ pagemd.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService and logs each discovery
// with the site, the active filter and how many pages survived it.
type LoggingSitemapService struct {
	next   pagemd.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next pagemd.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service. Failures log at warn
// level, and an empty result is called out because the clip run stops.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagemd.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"site", site(baseURL),
			"base", baseURL,
			"pages", len(urls),
			"duration", time.Since(begin),
		}
		if filter != nil {
			attrs = append(attrs, "include", len(filter.Include), "exclude", len(filter.Exclude))
		}
		switch {
		case err != nil:
			s.logger.Warn("sitemap discovery failed", append(attrs, "err", err)...)
		case len(urls) == 0:
			s.logger.Info("sitemap lists no pages", attrs...)
		default:
			s.logger.Info("sitemap discovery", attrs...)
		}
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// site returns the host of rawURL, or rawURL when it has none.
func site(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}
