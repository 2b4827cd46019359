package main

import (
	"fmt"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/bloom"
	"github.com/fwojciec/pagemd/clip"
)

// Run executes the clip command.
func (c *ClipCmd) Run(deps *Dependencies) error {
	// Validate regex patterns before any network work.
	filter, err := pagemd.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		return err
	}

	urls := c.URLs
	if c.Sitemap {
		if urls, err = c.discover(deps, filter); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stderr, "Found %d URLs\n", len(urls))
	}

	if c.Concurrency > 0 {
		deps.Clipper.Concurrency = c.Concurrency
	}

	if len(urls) == 1 {
		content, err := deps.Clipper.Clip(deps.Ctx, urls[0])
		if err != nil {
			return err
		}
		return c.emit(deps, content)
	}

	var failed int
	progress := func(event clip.ProgressEvent) {
		if event.Error != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, pagemd.ErrorMessage(event.Error))
		}
	}

	contents, err := deps.Clipper.ClipAll(deps.Ctx, urls, progress)
	if err != nil {
		return err
	}

	for _, content := range contents {
		if err := c.emit(deps, content); err != nil {
			return err
		}
	}

	if !c.Stdout {
		fmt.Fprintln(deps.Stderr, FormatSummary(contents))
	}
	if failed > 0 {
		return pagemd.Errorf(pagemd.EINTERNAL, "%d of %d pages failed", failed, failed+len(contents))
	}
	return nil
}

// emit prints or saves one page.
func (c *ClipCmd) emit(deps *Dependencies, content *pagemd.ExtractedContent) error {
	if c.Stdout {
		_, err := fmt.Fprint(deps.Stdout, content.Markdown)
		return err
	}

	path, err := deps.Writer.Save(deps.Ctx, content)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, path)
	return nil
}

// discover expands each URL into the pages listed in its sitemap. Pages
// listed by more than one sitemap are kept once.
func (c *ClipCmd) discover(deps *Dependencies, filter *pagemd.URLFilter) ([]string, error) {
	var urls []string
	for _, u := range c.URLs {
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, u, filter)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	urls = bloom.Dedup(urls)
	if len(urls) == 0 {
		return nil, pagemd.Errorf(pagemd.ENOTFOUND, "no sitemap pages found")
	}
	return urls, nil
}

// FormatSummary describes a finished batch: pages saved, their combined
// Markdown size and word count.
func FormatSummary(contents []*pagemd.ExtractedContent) string {
	var size, words int
	for _, c := range contents {
		size += len(c.Markdown)
		words += c.WordCount
	}

	const (
		KB = 1024
		MB = KB * 1024
	)
	var human string
	switch {
	case size >= MB:
		human = fmt.Sprintf("%.1f MB", float64(size)/float64(MB))
	case size >= KB:
		human = fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		human = fmt.Sprintf("%d B", size)
	}

	noun := "pages"
	if len(contents) == 1 {
		noun = "page"
	}
	return fmt.Sprintf("Saved %d %s (%s, %d words)", len(contents), noun, human, words)
}
