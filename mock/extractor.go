package mock

import "github.com/fwojciec/pagemd"

var _ pagemd.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagemd.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*pagemd.ExtractedContent, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*pagemd.ExtractedContent, error) {
	return e.ExtractFn(html, pageURL)
}
