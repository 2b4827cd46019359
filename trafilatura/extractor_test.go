package trafilatura_test

import (
	"testing"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "https://blog.example.com/posts/why-go"

func newExtractor() *trafilatura.Extractor {
	ext := trafilatura.NewExtractor()
	ext.Now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return ext
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article with metadata", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Why Go | Blog</title>
<meta property="og:title" content="Why Go">
<meta name="author" content="Jane Doe">
<meta name="description" content="A short essay on choosing Go for services.">
</head>
<body>
<nav><a href="/">Home</a><a href="/posts">Posts</a></nav>
<article>
<h1>Why Go</h1>
<p>This is important article content that should be extracted from the page.</p>
<p>Go compiles quickly, ships as a single binary and has a strong standard library.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<footer>Copyright 2024 Example Corp</footer>
</body>
</html>`

		c, err := newExtractor().Extract(html, page)

		require.NoError(t, err)
		assert.Equal(t, page, c.URL)
		assert.Equal(t, "blog.example.com", c.Domain)
		assert.Contains(t, c.Title, "Why Go")
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), c.Timestamp)
		assert.Contains(t, c.ContentHTML, "important article content")
		assert.Contains(t, c.ContentHTML, "func main()")
		assert.NotContains(t, c.ContentHTML, "Copyright 2024 Example Corp")
		assert.Positive(t, c.WordCount)
		assert.NotEmpty(t, c.Excerpt)
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want to keep for readers.</p>
</main>
</body>
</html>`

		c, err := newExtractor().Extract(html, page)

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, "actual content we want")
		assert.NotContains(t, c.ContentHTML, "main-nav")
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := newExtractor().Extract(" ", page)

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
	})

	t.Run("returns EINVALID for relative page URL", func(t *testing.T) {
		t.Parallel()

		_, err := newExtractor().Extract(`<html><body><p>Simple content</p></body></html>`, "/posts/why-go")

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		c, err := newExtractor().Extract(`<html><body><p>Simple content</p></body></html>`, page)

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, "Simple content")
		assert.NotEmpty(t, c.Title)
	})
}
