// Package fs writes converted pages to Markdown files on disk.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagemd"
	"github.com/google/uuid"
)

// Layout selects where a page's file goes below the output directory.
type Layout int

const (
	// LayoutFlat writes pagemd.Filename(c) directly in the output directory.
	LayoutFlat Layout = iota

	// LayoutMirror mirrors the page URL: <domain>/<path>.md.
	LayoutMirror
)

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/blog/2024/post → blog/2024/post.md
// Paths with dot segments, including percent-encoded ones, are rejected.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagemd.Errorf(pagemd.EINVALID, "invalid URL: %v", err)
	}

	// u.Path is already percent-decoded, so %2e%2e shows up as "..".
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "." || seg == ".." || strings.ContainsRune(seg, '\\') {
			return "", pagemd.Errorf(pagemd.EINVALID, "URL path %q escapes the output directory", u.Path)
		}
	}

	p := strings.TrimPrefix(u.Path, "/")
	switch {
	case p == "":
		return "index.md", nil
	case strings.HasSuffix(p, "/"):
		return p + "index.md", nil
	default:
		return strings.TrimSuffix(p, ".html") + ".md", nil
	}
}

// Ensure Writer implements pagemd.ClipWriter at compile time.
var _ pagemd.ClipWriter = (*Writer)(nil)

// Writer writes converted pages as Markdown files to a directory.
type Writer struct {
	baseDir string
	layout  Layout
}

// Option configures a Writer.
type Option func(*Writer)

// WithLayout sets the file layout. Defaults to LayoutFlat.
func WithLayout(l Layout) Option {
	return func(w *Writer) {
		w.layout = l
	}
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string, opts ...Option) *Writer {
	w := &Writer{baseDir: baseDir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns where c would be written.
func (w *Writer) Path(c *pagemd.ExtractedContent) (string, error) {
	if w.layout == LayoutMirror {
		rel, err := URLToPath(c.URL)
		if err != nil {
			return "", err
		}
		if c.Domain == "" || c.Domain == "." || c.Domain == ".." || strings.ContainsAny(c.Domain, `/\`) {
			return "", pagemd.Errorf(pagemd.EINVALID, "invalid domain %q", c.Domain)
		}
		root := filepath.Join(w.baseDir, c.Domain)
		return within(root, filepath.Join(root, filepath.FromSlash(rel)))
	}
	return within(w.baseDir, filepath.Join(w.baseDir, pagemd.Filename(c)))
}

// within returns p if it lies below root.
func within(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", pagemd.Errorf(pagemd.EINVALID, "path %q escapes %q", p, root)
	}
	return p, nil
}

// Save writes c.Markdown atomically and returns the file path. An
// existing file with identical content is left untouched.
func (w *Writer) Save(ctx context.Context, c *pagemd.ExtractedContent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Markdown == "" {
		return "", pagemd.Errorf(pagemd.EINVALID, "content for %s has not been converted", c.URL)
	}

	path, err := w.Path(c)
	if err != nil {
		return "", err
	}

	if unchanged(path, c.Markdown) {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	tmp := filepath.Join(filepath.Dir(path), "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, []byte(c.Markdown), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return path, nil
}

// unchanged reports whether the file at path already holds content.
func unchanged(path, content string) bool {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return xxhash.Sum64(existing) == xxhash.Sum64String(content)
}
