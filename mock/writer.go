package mock

import (
	"context"

	"github.com/fwojciec/pagemd"
)

var _ pagemd.ClipWriter = (*ClipWriter)(nil)

// ClipWriter is a mock implementation of pagemd.ClipWriter.
type ClipWriter struct {
	SaveFn func(ctx context.Context, c *pagemd.ExtractedContent) (string, error)
}

func (w *ClipWriter) Save(ctx context.Context, c *pagemd.ExtractedContent) (string, error) {
	return w.SaveFn(ctx, c)
}
