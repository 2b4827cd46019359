package markdown

import (
	"regexp"
	"strings"
)

var (
	emptyLinkRe  = regexp.MustCompile(`(^|[^!])\[\]\([^)]*\)`)
	listMarkerRe = regexp.MustCompile(`^([-*+]|\d+[.)])( |$)`)
)

// Normalize tidies a serialized Markdown body. Outside fenced code it
// strips links with empty text, trims trailing whitespace and
// non-structural indentation, escapes fence openers that are never
// closed, and collapses runs of blank lines. A non-empty result ends
// with exactly one newline.
func Normalize(s string) string {
	lines := strings.Split(s, "\n")
	fences := fenceSpans(lines)
	out := make([]string, 0, len(lines))
	prevBlank := false

	for i := 0; i < len(lines); i++ {
		if end, ok := fences[i]; ok {
			out = append(out, strings.TrimRight(lines[i], " \t"))
			out = append(out, lines[i+1:end]...)
			out = append(out, strings.TrimRight(lines[end], " \t"))
			i = end
			prevBlank = false
			continue
		}

		line := stripEmptyLinks(lines[i])
		line = strings.TrimRight(line, " \t")
		if !isStructuralIndent(line) {
			line = strings.TrimLeft(line, " \t")
		}
		line = escapeFenceOpener(line)

		if line == "" {
			if prevBlank {
				continue
			}
			prevBlank = true
		} else {
			prevBlank = false
		}
		out = append(out, line)
	}

	body := strings.Trim(strings.Join(out, "\n"), "\n")
	if body == "" {
		return ""
	}
	return body + "\n"
}

// squeeze trims blank lines around s and collapses inner blank runs
// outside fenced code, for blocks that get re-prefixed by their parent.
func squeeze(s string) string {
	lines := strings.Split(s, "\n")
	fences := fenceSpans(lines)
	var out []string
	prevBlank := true
	for i := 0; i < len(lines); i++ {
		if end, ok := fences[i]; ok {
			out = append(out, lines[i:end+1]...)
			i = end
			prevBlank = false
			continue
		}
		line := strings.TrimRight(lines[i], " \t")
		if !isStructuralIndent(line) {
			line = strings.TrimLeft(line, " \t")
		}
		if line == "" {
			if prevBlank {
				continue
			}
			prevBlank = true
		} else {
			prevBlank = false
		}
		out = append(out, line)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// fenceSpans pairs every code fence opener in lines with its closing
// line. An opener without a closer is ordinary text.
func fenceSpans(lines []string) map[int]int {
	spans := make(map[int]int)
	for i := 0; i < len(lines); i++ {
		ch, n, ok := fenceOpener(lines[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if isFenceCloser(lines[j], ch, n) {
				spans[i] = j
				i = j
				break
			}
		}
	}
	return spans
}

// fenceOpener reports the fence character and run length opening line.
// Backtick fences may not carry backticks in their info string.
func fenceOpener(line string) (byte, int, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return 0, 0, false
	}
	ch := trimmed[0]
	n := runLength(trimmed, ch)
	if n < 3 {
		return 0, 0, false
	}
	if ch == '`' && strings.ContainsRune(trimmed[n:], '`') {
		return 0, 0, false
	}
	return ch, n, true
}

// escapeFenceOpener backslash-escapes line if it would open a fence.
func escapeFenceOpener(line string) string {
	if _, _, ok := fenceOpener(line); !ok {
		return line
	}
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)] + `\` + trimmed
}

// isFenceCloser reports whether line is a bare run of at least n ch.
func isFenceCloser(line string, ch byte, n int) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= n && runLength(trimmed, ch) == len(trimmed)
}

// runLength counts the leading ch bytes of s.
func runLength(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}

// longestRun returns the longest run of ch anywhere in s.
func longestRun(s string, ch byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == ch {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}

func stripEmptyLinks(line string) string {
	for {
		next := emptyLinkRe.ReplaceAllString(line, "$1")
		if next == line {
			return line
		}
		line = next
	}
}

// isStructuralIndent reports whether line is an indented list item, quote
// or table row whose leading whitespace carries nesting.
func isStructuralIndent(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) == len(line) {
		return false
	}
	return listMarkerRe.MatchString(trimmed) ||
		strings.HasPrefix(trimmed, ">") ||
		strings.HasPrefix(trimmed, "|")
}
