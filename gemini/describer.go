// Package gemini writes page descriptions with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemd"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for descriptions.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxInputTokens bounds the page text sent with a request.
const DefaultMaxInputTokens = 8000

// Ensure Describer implements pagemd.Describer at compile time.
var _ pagemd.Describer = (*Describer)(nil)

// Describer implements pagemd.Describer using Google Gemini.
type Describer struct {
	client *genai.Client
	model  string
	tokens *TokenCounter
	max    int
}

// DescriberOption configures a Describer.
type DescriberOption func(*Describer)

// WithModel sets the Gemini model name.
func WithModel(model string) DescriberOption {
	return func(d *Describer) {
		d.model = model
	}
}

// WithTokenBudget truncates page text to at most max tokens as counted by tc.
func WithTokenBudget(tc *TokenCounter, max int) DescriberOption {
	return func(d *Describer) {
		d.tokens = tc
		d.max = max
	}
}

// NewDescriber creates a new Describer.
func NewDescriber(client *genai.Client, opts ...DescriberOption) *Describer {
	d := &Describer{client: client, model: DefaultModel, max: DefaultMaxInputTokens}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Describe returns a one-sentence summary of the content's body text.
func (d *Describer) Describe(ctx context.Context, c *pagemd.ExtractedContent) (string, error) {
	if c == nil {
		return "", pagemd.Errorf(pagemd.EINVALID, "content required")
	}

	text, err := PlainText(c.ContentHTML)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", pagemd.Errorf(pagemd.EINVALID, "content has no text to describe")
	}

	if d.tokens != nil {
		if text, err = d.tokens.Truncate(ctx, text, d.max); err != nil {
			return "", err
		}
	}

	result, err := d.client.Models.GenerateContent(ctx, d.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(c, text)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", pagemd.Errorf(pagemd.EINTERNAL, "gemini returned nil result")
	}

	return CleanDescription(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize web pages. Reply with a single plain sentence describing what the page is about. Do not use Markdown, quotes or a preamble.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the page text.
func BuildUserPrompt(c *pagemd.ExtractedContent, text string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", c.Title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", c.URL)
	fmt.Fprintf(&sb, "<content>%s</content>\n", text)
	sb.WriteString("</page>\n\n")
	sb.WriteString("Describe this page in one sentence.")
	return sb.String()
}

// PlainText returns the whitespace-collapsed text of an HTML fragment.
func PlainText(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", pagemd.Errorf(pagemd.EINVALID, "failed to parse content: %v", err)
	}
	doc.Find("script, style, noscript").Remove()
	return pagemd.CollapseWhitespace(doc.Text()), nil
}

// CleanDescription reduces a model reply to a single line without
// wrapping quotes.
func CleanDescription(s string) string {
	s = pagemd.CollapseWhitespace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
