package goquery_test

import (
	"strings"
	"testing"
	"time"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Selector implements pagemd.Extractor at compile time.
var _ pagemd.Extractor = (*goquery.Selector)(nil)

const longText = "Go is an open source programming language that makes it simple to build secure, scalable systems. It was designed at Google."

func newSelector() *goquery.Selector {
	s := goquery.NewSelector()
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSelector_Extract(t *testing.T) {
	t.Parallel()

	t.Run("selects article and fills provenance", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Blog | Example</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
	<h1>Why Go</h1>
	<p>` + longText + `</p>
</article>
<footer>Copyright</footer>
</body>
</html>`

		c, err := newSelector().Extract(html, "https://ex.com/blog/post")

		require.NoError(t, err)
		assert.Equal(t, "https://ex.com/blog/post", c.URL)
		assert.Equal(t, "ex.com", c.Domain)
		assert.Equal(t, "Why Go", c.Title)
		assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), c.Timestamp)
		assert.True(t, strings.HasPrefix(c.ContentHTML, "<article>"))
		assert.Contains(t, c.ContentHTML, "open source programming language")
		assert.NotContains(t, c.ContentHTML, "Home")
		assert.NotContains(t, c.ContentHTML, "Copyright")
		assert.Equal(t, 2+pagemd.WordCount(longText), c.WordCount)
		assert.True(t, strings.HasPrefix(c.Excerpt, "Why Go Go is an open source"))
	})

	t.Run("skips short containers and falls through the priority list", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<article>Too short</article>
<main><p>` + longText + `</p></main>
</body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(c.ContentHTML, "<main>"))
		assert.NotContains(t, c.ContentHTML, "Too short")
	})

	t.Run("tries every match of a selector before moving on", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<article>Teaser</article>
<article><p>` + longText + `</p></article>
<main><p>Main text that is long enough to qualify on its own, but appears later in the list.</p></main>
</body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, "open source programming language")
		assert.NotContains(t, c.ContentHTML, "Teaser")
	})

	t.Run("falls back to body without structural noise", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<header>Site header</header>
<nav>Navigation</nav>
<div class="main-menu">Menu items</div>
<div id="sidebar-left">Sidebar</div>
<div class="story"><p>` + longText[:60] + `</p></div>
<aside>Aside</aside>
<div class="comments-section">Comment</div>
<footer>Footer</footer>
</body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, `<div class="story">`)
		for _, noise := range []string{"Site header", "Navigation", "Menu items", "Sidebar", "Aside", "Comment", "Footer"} {
			assert.NotContains(t, c.ContentHTML, noise)
		}
		assert.False(t, strings.HasPrefix(c.ContentHTML, "<body"), "body content is serialized without the body tag")
	})

	t.Run("cleans scripts embeds hidden elements and ads", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article>
<p>` + longText + `</p>
<script>track()</script>
<style>.x{}</style>
<iframe src="/ad"></iframe>
<object data="x.swf"></object>
<embed src="x.swf">
<div style="display: none">Hidden by style</div>
<div style="VISIBILITY:hidden">Invisible</div>
<div hidden>Hidden attribute</div>
<div class="ad">Buy now</div>
<div class="share-buttons">Share</div>
<div class="newsletter-signup">Subscribe to our newsletter</div>
</article></body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		for _, gone := range []string{"track()", "<style", "<iframe", "<object", "<embed", "Hidden by style", "Invisible", "Hidden attribute", "Buy now", "Share", "newsletter"} {
			assert.NotContains(t, c.ContentHTML, gone)
		}
		assert.Equal(t, pagemd.WordCount(longText), c.WordCount)
	})

	t.Run("rewrites relative links and sources to absolute URLs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article>
<p>` + longText + `</p>
<a href="/about">About</a>
<a href="next">Next</a>
<a href="#top">Top</a>
<a href="mailto:me@ex.com">Mail</a>
<img src="img/cover.png" alt="Cover">
</article></body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/blog/post")

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, `href="https://ex.com/about"`)
		assert.Contains(t, c.ContentHTML, `href="https://ex.com/blog/next"`)
		assert.Contains(t, c.ContentHTML, `href="https://ex.com/blog/post#top"`)
		assert.Contains(t, c.ContentHTML, `href="mailto:me@ex.com"`)
		assert.Contains(t, c.ContentHTML, `src="https://ex.com/blog/img/cover.png"`)
	})

	t.Run("resolves against the document base element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><base href="/static/"></head><body><article>
<p>` + longText + `</p><a href="page.html">Page</a>
</article></body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/blog/post")

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, `href="https://ex.com/static/page.html"`)
	})

	t.Run("empty body yields empty content", func(t *testing.T) {
		t.Parallel()

		c, err := newSelector().Extract(`<html><head></head><body></body></html>`, "https://ex.com/")

		require.NoError(t, err)
		assert.Empty(t, c.ContentHTML)
		assert.Equal(t, 0, c.WordCount)
		assert.Empty(t, c.Excerpt)
		assert.Equal(t, pagemd.DefaultTitle, c.Title)
		assert.Empty(t, c.Author)
		assert.Empty(t, c.Description)
	})

	t.Run("keeps a page wrapper whose class merely mentions nav", func(t *testing.T) {
		t.Parallel()

		words := strings.Repeat("abcd ", 100)
		html := `<html><body><div class="main-navigable"><p>` + words + `</p></div></body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, "abcd")
		assert.Equal(t, 100, c.WordCount)
		assert.NotEmpty(t, c.Excerpt)
	})

	t.Run("still drops small hinted blocks beside the main text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="page-header-wrap"><p>` + longText + `</p></div>
<div class="site-menu">Menu items</div>
</body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		assert.Contains(t, c.ContentHTML, "open source")
		assert.NotContains(t, c.ContentHTML, "Menu items")
	})

	t.Run("separates words across table cells and paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>` + longText + `</p>` +
			`<table><tr><td>a</td><td>b</td><td>c</td></tr></table><p>one</p><p>two</p></article></body></html>`

		c, err := newSelector().Extract(html, "https://ex.com/")

		require.NoError(t, err)
		assert.Equal(t, pagemd.WordCount(longText)+5, c.WordCount)
		assert.Contains(t, c.Excerpt, "a b c one two")
	})

	t.Run("returns EINVALID for relative page URL", func(t *testing.T) {
		t.Parallel()

		_, err := newSelector().Extract(`<p>hi</p>`, "/blog/post")

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
	})
}

func TestStripBody(t *testing.T) {
	t.Parallel()

	body := func(t *testing.T, inner string) *pq.Selection {
		t.Helper()
		doc, err := pq.NewDocumentFromReader(strings.NewReader(`<html><body>` + inner + `</body></html>`))
		require.NoError(t, err)
		return doc.Find("body")
	}

	t.Run("keeps hinted elements holding most of the text", func(t *testing.T) {
		t.Parallel()

		got := goquery.StripBody(body(t, `<div id="content-header"><p>`+longText+`</p></div><div class="share">x</div>`))

		assert.Contains(t, got.Text(), "open source")
		assert.Equal(t, 0, got.Find(".share").Length())
	})

	t.Run("falls back to the tag denylist when hints empty the body", func(t *testing.T) {
		t.Parallel()

		got := goquery.StripBody(body(t, `<nav>Links</nav><div class="menu-a">half one</div><div class="menu-b">half two</div>`))

		assert.Contains(t, got.Text(), "half one")
		assert.Contains(t, got.Text(), "half two")
		assert.NotContains(t, got.Text(), "Links")
	})

	t.Run("returns the whole body when every tag is noise", func(t *testing.T) {
		t.Parallel()

		got := goquery.StripBody(body(t, `<header><p>Only a header here</p></header>`))

		assert.Contains(t, got.Text(), "Only a header here")
	})

	t.Run("does not modify the source body", func(t *testing.T) {
		t.Parallel()

		src := body(t, `<nav>Links</nav><p>`+longText+`</p>`)
		goquery.StripBody(src)

		assert.Equal(t, 1, src.Find("nav").Length())
	})
}

func TestBlockText(t *testing.T) {
	t.Parallel()

	doc, err := pq.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td>a</td><td>b</td></tr></table><p>x<b>y</b></p><div>z</div><!-- note -->`))
	require.NoError(t, err)

	assert.Equal(t, "a b xy z", pagemd.CollapseWhitespace(goquery.BlockText(doc.Selection)))
}

func TestSelector_ExtractDocument_DoesNotMutateDocument(t *testing.T) {
	t.Parallel()

	html := `<html><body><article>
<p>` + longText + `</p>
<script>track()</script>
<a href="/about">About</a>
</article></body></html>`
	doc, err := pq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	before, err := doc.Html()
	require.NoError(t, err)

	c, err := newSelector().ExtractDocument(doc, "https://ex.com/blog/post")
	require.NoError(t, err)

	after, err := doc.Html()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, doc.Find("script").Length())
	assert.Equal(t, "/about", doc.Find("a").AttrOr("href", ""))
	assert.NotContains(t, c.ContentHTML, "track()")
}
