package pagemd

import "context"

// ClipWriter persists converted pages.
type ClipWriter interface {
	// Save stores c.Markdown under Filename(c) and returns the path written.
	// Returns EINVALID if the content has not been transduced.
	Save(ctx context.Context, c *ExtractedContent) (path string, err error)
}
