package pagemd

// Extractor selects the main content of an HTML page and resolves its
// metadata.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL.
	// The returned content has boilerplate removed, relative links resolved
	// against pageURL, and WordCount/Excerpt measured.
	Extract(html string, pageURL string) (*ExtractedContent, error)
}
