package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/fwojciec/pagemd"
	"golang.org/x/net/html"
)

// Rule rewrites one element into Markdown. Rules recurse through
// ctx.Children or ctx.Convert for the content they keep.
type Rule func(ctx *Context, n *html.Node) string

// blockTags pass their children through as a standalone block.
var blockTags = []string{
	"div", "section", "article", "main", "header", "footer", "aside", "nav",
	"dl", "dt", "dd", "details", "summary", "address",
}

// skippedTags never contribute output.
var skippedTags = []string{
	"script", "style", "noscript", "template", "head", "title", "meta", "link",
	"svg", "button",
}

// DefaultRules returns a fresh copy of the default rule table keyed by tag.
func DefaultRules() map[string]Rule {
	rules := map[string]Rule{
		"h1":         heading(1),
		"h2":         heading(2),
		"h3":         heading(3),
		"h4":         heading(4),
		"h5":         heading(5),
		"h6":         heading(6),
		"p":          paragraph,
		"strong":     wrap("**"),
		"b":          wrap("**"),
		"em":         wrap("*"),
		"i":          wrap("*"),
		"del":        wrap("~~"),
		"s":          wrap("~~"),
		"strike":     wrap("~~"),
		"mark":       wrap("=="),
		"code":       inlineCode,
		"pre":        preformatted,
		"a":          link,
		"img":        image,
		"br":         lineBreak,
		"hr":         rule,
		"blockquote": blockquote,
		"ul":         list(false),
		"ol":         list(true),
		"figure":     figure,
		"table":      table,
	}
	for _, tag := range blockTags {
		rules[tag] = block
	}
	for _, tag := range skippedTags {
		rules[tag] = skip
	}
	return rules
}

func heading(level int) Rule {
	marker := strings.Repeat("#", level)
	return func(ctx *Context, n *html.Node) string {
		text := pagemd.CollapseWhitespace(ctx.Children(n))
		if text == "" {
			return ""
		}
		return "\n\n" + marker + " " + text + "\n\n"
	}
}

func paragraph(ctx *Context, n *html.Node) string {
	text := joinLines(ctx.Children(n))
	if text == "" {
		return ""
	}
	return "\n\n" + text + "\n\n"
}

// joinLines collapses runs of spaces on each line and drops blank lines,
// keeping explicit line breaks.
func joinLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func wrap(mark string) Rule {
	return func(ctx *Context, n *html.Node) string {
		return wrapInline(ctx.Children(n), mark)
	}
}

// wrapInline surrounds the trimmed content of s with mark, keeping the
// surrounding whitespace outside the delimiters.
func wrapInline(s, mark string) string {
	inner := strings.TrimSpace(s)
	if inner == "" {
		return s
	}
	lead := s[:len(s)-len(strings.TrimLeftFunc(s, unicode.IsSpace))]
	trail := s[len(strings.TrimRightFunc(s, unicode.IsSpace)):]
	return lead + mark + inner + mark + trail
}

func inlineCode(_ *Context, n *html.Node) string {
	text := strings.ReplaceAll(textContent(n), "\n", " ")
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if escapeMarkup(text) != text {
		return "<code>" + escapeMarkup(text) + "</code>"
	}
	if !strings.Contains(text, "`") {
		return "`" + text + "`"
	}
	delim := strings.Repeat("`", longestRun(text, '`')+1)
	return delim + " " + text + " " + delim
}

// preformatted fences code with a backtick run longer than any inside it.
// Code that would read back as markup is kept as a one-line pre element.
func preformatted(_ *Context, n *html.Node) string {
	text := strings.TrimRight(textContent(n), "\n")
	text = strings.TrimLeft(text, "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lang := language(n)
	for c := n.FirstChild; c != nil && lang == ""; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			lang = language(c)
		}
	}

	if escapeMarkup(text) != text {
		open := "<pre><code>"
		if lang != "" {
			open = `<pre><code class="language-` + html.EscapeString(lang) + `">`
		}
		body := strings.ReplaceAll(escapeMarkup(text), "\n", "&#10;")
		return "\n\n" + open + body + "</code></pre>\n\n"
	}

	fence := strings.Repeat("`", max(3, longestRun(text, '`')+1))
	return "\n\n" + fence + strings.ReplaceAll(lang, "`", "") + "\n" + text + "\n" + fence + "\n\n"
}

// language reads the language-* or lang-* class of a code element.
func language(n *html.Node) string {
	for _, class := range strings.Fields(attr(n, "class")) {
		for _, prefix := range []string{"language-", "lang-"} {
			if strings.HasPrefix(class, prefix) {
				return strings.TrimPrefix(class, prefix)
			}
		}
	}
	return ""
}

func link(ctx *Context, n *html.Node) string {
	text := pagemd.CollapseWhitespace(ctx.Children(n))
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		href = "#"
	} else {
		href = escapeMarkup(ctx.Resolve(href))
	}
	return "[" + text + "](" + href + ")"
}

func image(ctx *Context, n *html.Node) string {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		return ""
	}
	alt := escapeMarkup(pagemd.CollapseWhitespace(attr(n, "alt")))
	return "![" + alt + "](" + escapeMarkup(ctx.Resolve(src)) + ")"
}

func lineBreak(_ *Context, _ *html.Node) string {
	return "\n"
}

func rule(_ *Context, _ *html.Node) string {
	return "\n\n---\n\n"
}

func blockquote(ctx *Context, n *html.Node) string {
	inner := squeeze(ctx.Children(n))
	if inner == "" {
		return ""
	}
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

func list(ordered bool) Rule {
	return func(ctx *Context, n *html.Node) string {
		var lines []string
		count := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			// A list nested directly in a list belongs to the previous item.
			if (c.Data == "ul" || c.Data == "ol") && len(lines) > 0 {
				lines = append(lines, indent(squeeze(ctx.Convert(c)), "  ")...)
				continue
			}
			if c.Data != "li" {
				continue
			}

			text, blocks := listItem(ctx, c)
			if text == "" && len(blocks) == 0 {
				continue
			}
			count++
			marker := "- "
			if ordered {
				marker = strconv.Itoa(count) + ". "
			}
			lines = append(lines, strings.TrimRight(marker+text, " "))
			pad := strings.Repeat(" ", len(marker))
			for _, b := range blocks {
				lines = append(lines, indent(b, pad)...)
			}
		}
		if len(lines) == 0 {
			return ""
		}
		return "\n\n" + strings.Join(lines, "\n") + "\n\n"
	}
}

// nestedBlockTags keep their own line structure inside a list item.
var nestedBlockTags = map[string]bool{
	"ul": true, "ol": true, "pre": true, "blockquote": true, "table": true,
}

// listItem splits an item into its inline text and its nested blocks.
func listItem(ctx *Context, li *html.Node) (string, []string) {
	var inline strings.Builder
	var blocks []string
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && nestedBlockTags[c.Data] {
			if b := squeeze(ctx.Convert(c)); b != "" {
				blocks = append(blocks, b)
			}
			continue
		}
		inline.WriteString(ctx.Convert(c))
	}
	return pagemd.CollapseWhitespace(inline.String()), blocks
}

// indent prefixes every non-empty line of s with pad.
func indent(s, pad string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return lines
}

func figure(ctx *Context, n *html.Node) string {
	img := findFirst(n, "img")
	if img == nil {
		return block(ctx, n)
	}

	out := image(ctx, img)
	if caption := findFirst(n, "figcaption"); caption != nil {
		if text := pagemd.CollapseWhitespace(ctx.Children(caption)); text != "" {
			if out != "" {
				out += "\n"
			}
			out += "*" + text + "*"
		}
	}
	if out == "" {
		return ""
	}
	return "\n\n" + out + "\n\n"
}

func block(ctx *Context, n *html.Node) string {
	return "\n\n" + ctx.Children(n) + "\n\n"
}

func skip(_ *Context, _ *html.Node) string {
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// findFirst returns the first descendant element of n named tag.
func findFirst(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates the raw text under n, reading br as a newline.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
