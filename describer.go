package pagemd

import "context"

// Describer writes a short description for content whose page did not
// provide one.
type Describer interface {
	Describe(ctx context.Context, c *ExtractedContent) (string, error)
}
