package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/pagemd"
)

// Ensure Converter implements pagemd.Converter at compile time.
var _ pagemd.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into a Markdown body. Relative links
// are resolved against baseURL when it is set. Blank input yields an
// empty body.
func (c *Converter) Convert(html string, baseURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	var result string
	var err error
	if baseURL != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(baseURL))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", pagemd.Errorf(pagemd.EINVALID, "failed to convert HTML: %v", err)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return "", nil
	}
	return result + "\n", nil
}
