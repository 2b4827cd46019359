// Package clip orchestrates clipping: fetching pages, selecting their main
// content, converting it to Markdown and enriching the result.
package clip

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages ClipAll processes at once.
const DefaultConcurrency = 4

// Clipper turns page URLs into converted content.
type Clipper struct {
	Fetcher   pagemd.Fetcher
	Extractor pagemd.Extractor
	Converter pagemd.Converter

	// Describer writes a description when the page has none. Optional.
	Describer pagemd.Describer

	// RateLimiter throttles fetches per domain. Optional.
	RateLimiter pagemd.DomainLimiter

	Concurrency int

	// RetryDelays overrides DefaultRetryDelays. An empty non-nil slice
	// disables retries.
	RetryDelays []time.Duration

	// Log receives retry notices. Optional.
	Log LogFunc

	// Now, when set, stamps every record, including those returned by
	// the Extractor. Unset, extractor records keep their own timestamp
	// and fallback records use time.Now.
	Now func() time.Time
}

// ProgressEvent reports the outcome of one page in a batch.
type ProgressEvent struct {
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Extract selects the main content of html. It never fails: extractor
// errors and panics degrade to a record built from the page's <title> and
// <body> text.
func (c *Clipper) Extract(html, pageURL string) (content *pagemd.ExtractedContent) {
	defer func() {
		if r := recover(); r != nil {
			content = c.fallbackContent(html, pageURL)
		}
	}()

	if c.Extractor == nil {
		return c.fallbackContent(html, pageURL)
	}
	content, err := c.Extractor.Extract(html, pageURL)
	if err != nil || content == nil {
		return c.fallbackContent(html, pageURL)
	}
	if c.Now != nil {
		content.Timestamp = c.Now()
	}
	return content
}

// Transduce sets content.Markdown to the front-matter header followed by
// the converted body. It never fails: converter errors and panics degrade
// to the plain text of the content. Empty content yields a header-only
// document. A nil content is returned as nil.
func (c *Clipper) Transduce(content *pagemd.ExtractedContent) *pagemd.ExtractedContent {
	if content == nil {
		return nil
	}
	content.Markdown = pagemd.FormatMarkdown(content, c.body(content))
	return content
}

func (c *Clipper) body(content *pagemd.ExtractedContent) (body string) {
	if strings.TrimSpace(content.ContentHTML) == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			body = plainBody(content.ContentHTML)
		}
	}()

	if c.Converter == nil {
		return plainBody(content.ContentHTML)
	}
	md, err := c.Converter.Convert(content.ContentHTML, content.URL)
	if err != nil {
		return plainBody(content.ContentHTML)
	}
	return md
}

// Clip fetches pageURL and returns its converted content. Fetch errors are
// returned; everything after the fetch degrades instead of failing.
func (c *Clipper) Clip(ctx context.Context, pageURL string) (*pagemd.ExtractedContent, error) {
	if c.Fetcher == nil {
		return nil, pagemd.Errorf(pagemd.EINVALID, "fetcher required")
	}

	if c.RateLimiter != nil {
		if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
			if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, c.Log, delays)
	if err != nil {
		return nil, err
	}

	content := c.Extract(html, pageURL)
	c.describe(ctx, content)
	return c.Transduce(content), nil
}

// describe fills an empty description. Failures leave it empty.
func (c *Clipper) describe(ctx context.Context, content *pagemd.ExtractedContent) {
	if c.Describer == nil || content.Description != "" || strings.TrimSpace(content.ContentHTML) == "" {
		return
	}
	desc, err := c.Describer.Describe(ctx, content)
	if err != nil {
		return
	}
	content.Description = pagemd.CollapseWhitespace(desc)
}

// ClipAll clips every distinct URL in urls with bounded concurrency.
// Pages that fail are reported through progress and left out of the
// result, which otherwise keeps input order. Returns the context error if
// ctx is canceled.
func (c *Clipper) ClipAll(ctx context.Context, urls []string, progress ProgressFunc) ([]*pagemd.ExtractedContent, error) {
	urls = bloom.Dedup(urls)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*pagemd.ExtractedContent, len(urls))
	var mu sync.Mutex
	var completed int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			content, err := c.Clip(gctx, u)
			if err == nil {
				results[i] = content
			}

			mu.Lock()
			defer mu.Unlock()
			completed++
			if progress != nil {
				progress(ProgressEvent{
					Completed: completed,
					Total:     len(urls),
					URL:       u,
					Error:     err,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*pagemd.ExtractedContent, 0, len(results))
	for _, content := range results {
		if content != nil {
			out = append(out, content)
		}
	}
	return out, nil
}

func (c *Clipper) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
