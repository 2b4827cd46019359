// Package bloom provides URL deduplication for clip batches using Bloom
// filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is the rate used by Dedup.
const DefaultFalsePositiveRate = 1e-9

// Filter wraps a Bloom filter for URL deduplication.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen reports whether the canonical form of rawURL was already added,
// and adds it.
func (f *Filter) Seen(rawURL string) bool {
	return f.f.TestAndAddString(Canonical(rawURL))
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(rawURL string) bool {
	return f.f.TestString(Canonical(rawURL))
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Dedup returns urls without repeats, keeping first occurrences in order.
func Dedup(urls []string) []string {
	f := NewFilter(uint(len(urls)), DefaultFalsePositiveRate)
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !f.Seen(u) {
			out = append(out, u)
		}
	}
	return out
}

// Canonical normalizes a URL for comparison: it lowercases scheme and
// host, drops the fragment and a trailing slash on non-root paths.
// Unparsable input is returned trimmed.
func Canonical(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}
