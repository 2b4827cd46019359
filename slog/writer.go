package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/pagemd"
)

// Ensure LoggingWriter implements pagemd.ClipWriter.
var _ pagemd.ClipWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a ClipWriter with logging.
type LoggingWriter struct {
	next   pagemd.ClipWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next pagemd.ClipWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// Save delegates to the wrapped writer and logs the destination path.
func (w *LoggingWriter) Save(ctx context.Context, c *pagemd.ExtractedContent) (path string, err error) {
	defer func() {
		w.logger.Info("save",
			"url", c.URL,
			"path", path,
			"bytes", len(c.Markdown),
			"err", err,
		)
	}()
	return w.next.Save(ctx, c)
}
