package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "simple path", url: "https://example.com/blog/2024/post", want: "blog/2024/post.md"},
		{name: "trailing slash becomes index", url: "https://example.com/blog/", want: "blog/index.md"},
		{name: "root path becomes index", url: "https://example.com/", want: "index.md"},
		{name: "root without trailing slash", url: "https://example.com", want: "index.md"},
		{name: "replaces html extension", url: "https://example.com/news/story.html", want: "news/story.md"},
		{name: "ignores query string", url: "https://example.com/post?id=2", want: "post.md"},
		{name: "ignores fragment", url: "https://example.com/post#comments", want: "post.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLToPath_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := fs.URLToPath("http://[::1")

	require.Error(t, err)
	assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
}

func TestURLToPath_RejectsDotSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
	}{
		{name: "parent segments", url: "https://ex.com/a/../../../etc/cron.d/x"},
		{name: "percent encoded parent segments", url: "https://ex.com/a/%2e%2e/../../../etc/cron.d/x"},
		{name: "mixed case encoding", url: "https://ex.com/%2E%2e/x"},
		{name: "current directory segment", url: "https://ex.com/./x"},
		{name: "encoded backslash", url: "https://ex.com/a%5c..%5cx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := fs.URLToPath(tt.url)

			require.Error(t, err)
			assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
		})
	}
}

func TestWriter_Path(t *testing.T) {
	t.Parallel()

	t.Run("refuses mirror paths outside the output directory", func(t *testing.T) {
		t.Parallel()

		c := content()
		c.URL = "https://ex.com/a/%2e%2e/../../../etc/cron.d/x"

		path, err := fs.NewWriter("/out", fs.WithLayout(fs.LayoutMirror)).Path(c)

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
		assert.Empty(t, path)
	})

	t.Run("refuses a domain that climbs out", func(t *testing.T) {
		t.Parallel()

		c := content()
		c.Domain = ".."

		_, err := fs.NewWriter("/out", fs.WithLayout(fs.LayoutMirror)).Path(c)

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
	})

	t.Run("keeps mirror paths below the domain directory", func(t *testing.T) {
		t.Parallel()

		path, err := fs.NewWriter("/out", fs.WithLayout(fs.LayoutMirror)).Path(content())

		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/out", "ex.com", "blog", "why-go.md"), path)
	})

	t.Run("save writes nothing for an escaping URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "out")
		c := content()
		c.URL = "https://ex.com/%2e%2e/%2e%2e/escaped"

		_, err := fs.NewWriter(out, fs.WithLayout(fs.LayoutMirror)).Save(context.Background(), c)

		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "escaped.md"))
	})
}

func content() *pagemd.ExtractedContent {
	return &pagemd.ExtractedContent{
		URL:       "https://ex.com/blog/why-go",
		Domain:    "ex.com",
		Title:     "Why Go",
		Markdown:  "---\ntitle: \"Why Go\"\n---\n\nBody\n",
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriter_Save(t *testing.T) {
	t.Parallel()

	t.Run("writes dated file in output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := content()

		path, err := fs.NewWriter(dir).Save(context.Background(), c)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "2024-05-01-Why-Go.md"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, c.Markdown, string(data))
	})

	t.Run("creates missing output directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")

		path, err := fs.NewWriter(dir).Save(context.Background(), content())

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("mirrors URL layout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		path, err := fs.NewWriter(dir, fs.WithLayout(fs.LayoutMirror)).Save(context.Background(), content())

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "ex.com", "blog", "why-go.md"), path)
		assert.FileExists(t, path)
	})

	t.Run("overwrites changed content", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)
		c := content()
		_, err := w.Save(context.Background(), c)
		require.NoError(t, err)

		c.Markdown = "updated\n"
		path, err := w.Save(context.Background(), c)

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "updated\n", string(data))
	})

	t.Run("leaves identical file untouched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)
		path, err := w.Save(context.Background(), content())
		require.NoError(t, err)
		old := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, os.Chtimes(path, old, old))

		_, err = w.Save(context.Background(), content())

		require.NoError(t, err)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(old))
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := fs.NewWriter(dir).Save(context.Background(), content())
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("rejects content without markdown", func(t *testing.T) {
		t.Parallel()

		c := content()
		c.Markdown = ""

		_, err := fs.NewWriter(t.TempDir()).Save(context.Background(), c)

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fs.NewWriter(t.TempDir()).Save(ctx, content())

		require.ErrorIs(t, err, context.Canceled)
	})
}
