package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagemd"
)

// Ensure LoggingConverter implements pagemd.Converter.
var _ pagemd.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with debug logging.
type LoggingConverter struct {
	next   pagemd.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next pagemd.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs input and output sizes.
func (c *LoggingConverter) Convert(html string, baseURL string) (md string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("convert",
			"url", baseURL,
			"in", len(html),
			"out", len(md),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(html, baseURL)
}
