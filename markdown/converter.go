// Package markdown converts HTML fragments to Markdown with a table of
// per-tag rewrite rules.
package markdown

import (
	"net/url"
	"strings"

	"github.com/fwojciec/pagemd"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMaxDepth is the deepest element nesting Convert accepts.
const DefaultMaxDepth = 512

// Ensure Converter implements pagemd.Converter at compile time.
var _ pagemd.Converter = (*Converter)(nil)

// Converter rewrites HTML into Markdown by walking the node tree
// depth-first and dispatching each element to its tag's Rule.
type Converter struct {
	rules    map[string]Rule
	maxDepth int
}

// Option configures a Converter.
type Option func(*Converter)

// WithRule registers rule for tag, replacing the default rule if any.
func WithRule(tag string, rule Rule) Option {
	return func(c *Converter) {
		c.rules[tag] = rule
	}
}

// WithMaxDepth sets the deepest element nesting accepted by Convert.
// Defaults to DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Converter) {
		c.maxDepth = n
	}
}

// NewConverter creates a new Converter with the default rule table.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		rules:    DefaultRules(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms an HTML fragment into a Markdown body. Empty input
// yields an empty body. Returns EINVALID when the fragment cannot be
// parsed or nests deeper than the configured limit.
func (c *Converter) Convert(rawHTML string, baseURL string) (string, error) {
	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return "", pagemd.Errorf(pagemd.EINVALID, "invalid base URL: %v", err)
		}
		base = u
	}

	nodes, err := html.ParseFragment(strings.NewReader(rawHTML), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", pagemd.Errorf(pagemd.EINVALID, "failed to parse HTML: %v", err)
	}

	ctx := &Context{rules: c.rules, base: base, maxDepth: c.maxDepth}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(ctx.Convert(n))
	}
	if ctx.err != nil {
		return "", ctx.err
	}

	return Normalize(b.String()), nil
}

// Context carries traversal state for the rules of a single conversion.
type Context struct {
	rules    map[string]Rule
	base     *url.URL
	depth    int
	maxDepth int
	err      error
}

// NewContext returns a Context that dispatches through rules and resolves
// links against base, which may be nil.
func NewContext(rules map[string]Rule, base *url.URL) *Context {
	return &Context{rules: rules, base: base, maxDepth: DefaultMaxDepth}
}

// Err returns the error that stopped the traversal, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Convert rewrites n and its descendants. Text is emitted through
// EscapeText; elements without a rule pass their children through.
func (ctx *Context) Convert(n *html.Node) string {
	if ctx.err != nil {
		return ""
	}

	switch n.Type {
	case html.TextNode:
		return EscapeText(n.Data)
	case html.DocumentNode:
		return ctx.Children(n)
	case html.ElementNode:
		ctx.depth++
		defer func() { ctx.depth-- }()
		if ctx.depth > ctx.maxDepth {
			ctx.err = pagemd.Errorf(pagemd.EINVALID, "markup nested deeper than %d elements", ctx.maxDepth)
			return ""
		}
		if rule, ok := ctx.rules[n.Data]; ok {
			return rule(ctx, n)
		}
		return ctx.Children(n)
	}

	return ""
}

// Children concatenates the conversions of n's children.
func (ctx *Context) Children(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(ctx.Convert(c))
	}
	return b.String()
}

// Resolve returns ref resolved against the base URL. Fragment-free
// non-HTTP references and unparsable values are returned unchanged.
func (ctx *Context) Resolve(ref string) string {
	if ctx.base == nil || isNonHTTPLink(ref) {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return ctx.base.ResolveReference(u).String()
}

// EscapeText prepares decoded text for Markdown. It escapes what would
// read back as markup and backslash-escapes any line that opens a code
// fence the text never closes.
func EscapeText(s string) string {
	s = escapeMarkup(s)
	if !strings.ContainsAny(s, "`~") {
		return s
	}
	lines := strings.Split(s, "\n")
	fences := fenceSpans(lines)
	for i := 0; i < len(lines); i++ {
		if end, ok := fences[i]; ok {
			i = end
			continue
		}
		lines[i] = escapeFenceOpener(lines[i])
	}
	return strings.Join(lines, "\n")
}

// escapeMarkup escapes every < that would open a tag and every & that
// could start a character reference.
func escapeMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '<' && i+1 < len(s) && opensTag(s[i+1]):
			b.WriteString("&lt;")
		case s[i] == '&' && i+1 < len(s) && startsReference(s[i+1]):
			b.WriteString("&amp;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func opensTag(c byte) bool {
	return c == '/' || c == '!' || c == '?' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func startsReference(c byte) bool {
	return c == '#' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be left alone.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
