package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagemd"
)

// Ensure LoggingExtractor implements pagemd.Extractor.
var _ pagemd.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   pagemd.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pagemd.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(html string, pageURL string) (c *pagemd.ExtractedContent, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL, "duration", time.Since(begin)}
		if c != nil {
			attrs = append(attrs, "title", c.Title, "words", c.WordCount)
		}
		attrs = append(attrs, "err", err)
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html, pageURL)
}
