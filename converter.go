package pagemd

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into a Markdown body.
	// The input should be clean HTML (e.g., from an Extractor).
	// Relative links and image sources are resolved against baseURL
	// when it is non-empty.
	Convert(html string, baseURL string) (string, error)
}
