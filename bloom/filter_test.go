package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/pagemd/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(100, 0.001)

	assert.False(t, f.Seen("https://example.com/a"))
	assert.True(t, f.Seen("https://example.com/a"))
	assert.True(t, f.Test("https://example.com/a"))
	assert.False(t, f.Test("https://example.com/b"))
}

func TestFilter_SeenTreatsEquivalentURLsAsSame(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(100, 0.001)

	assert.False(t, f.Seen("https://Example.com/post/"))
	assert.True(t, f.Seen("https://example.com/post"))
	assert.True(t, f.Seen("https://example.com/post#comments"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	for i := range 100 {
		f.Seen(fmt.Sprintf("https://example.com/page/%d", i))
	}

	count := f.EstimatedCount()
	assert.InDelta(t, 100, count, 10)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	n := 10000
	f := bloom.NewFilter(uint(n), 0.01)
	for i := range n {
		f.Seen(fmt.Sprintf("https://example.com/added/%d", i))
	}

	falsePositives := 0
	for i := range n {
		if f.Test(fmt.Sprintf("https://example.com/other/%d", i)) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / float64(n)
	assert.Less(t, rate, 0.02, "false positive rate %.4f exceeds 2%%", rate)
}

func TestDedup(t *testing.T) {
	t.Parallel()

	got := bloom.Dedup([]string{
		"https://ex.com/b",
		"https://ex.com/a",
		"https://ex.com/b/",
		"https://ex.com/c",
		"https://ex.com/a#top",
	})

	assert.Equal(t, []string{"https://ex.com/b", "https://ex.com/a", "https://ex.com/c"}, got)
	assert.Empty(t, bloom.Dedup(nil))
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "HTTPS://EX.com/Path/", want: "https://ex.com/Path"},
		{in: "https://ex.com/", want: "https://ex.com/"},
		{in: "https://ex.com/a?q=1#frag", want: "https://ex.com/a?q=1"},
		{in: "  https://ex.com/a ", want: "https://ex.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bloom.Canonical(tt.in))
		})
	}
}
