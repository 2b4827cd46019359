package markdown

import (
	"strings"

	"github.com/fwojciec/pagemd"
	"golang.org/x/net/html"
)

// table renders simple tables as pipe tables. Tables with spanning cells
// cannot be expressed that way and are kept as compact raw HTML.
func table(ctx *Context, n *html.Node) string {
	if hasSpanningCell(n) {
		return "\n\n" + rawHTML(n) + "\n\n"
	}

	rows := tableRows(ctx, n)
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
		if i == 0 {
			sep := make([]string, width)
			for j := range sep {
				sep[j] = "---"
			}
			lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
		}
	}

	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

// hasSpanningCell reports whether any cell declares colspan or rowspan.
func hasSpanningCell(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if (c.Data == "td" || c.Data == "th") && (hasAttr(c, "colspan") || hasAttr(c, "rowspan")) {
			return true
		}
		if hasSpanningCell(c) {
			return true
		}
	}
	return false
}

// tableRows collects the cell texts of every row, in document order,
// from the table and its row groups.
func tableRows(ctx *Context, n *html.Node) [][]string {
	var rows [][]string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			rows = append(rows, tableRows(ctx, c)...)
		case "tr":
			var cells []string
			for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
					text := pagemd.CollapseWhitespace(ctx.Children(cell))
					cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
	}
	return rows
}

// rawHTML serializes n without whitespace-only text nodes.
func rawHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, compact(n)); err != nil {
		return ""
	}
	return b.String()
}

// compact returns a detached deep copy of n without whitespace-only text.
func compact(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type == html.CommentNode {
			continue
		}
		clone.AppendChild(compact(c))
	}
	return clone
}
