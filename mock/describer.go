package mock

import (
	"context"

	"github.com/fwojciec/pagemd"
)

var _ pagemd.Describer = (*Describer)(nil)

// Describer is a mock implementation of pagemd.Describer.
type Describer struct {
	DescribeFn func(ctx context.Context, c *pagemd.ExtractedContent) (string, error)
}

func (d *Describer) Describe(ctx context.Context, c *pagemd.ExtractedContent) (string, error) {
	return d.DescribeFn(ctx, c)
}
