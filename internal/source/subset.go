package source

import "strings"

// subsetWriter accumulates markdown-subset lines. Quote and bullet bodies end
// at the first line terminator, so multi-line content is split or collapsed.
type subsetWriter struct {
	buf strings.Builder
}

// quote writes one quote line per non-blank line of text.
func (w *subsetWriter) quote(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w.buf.WriteString("> ")
		w.buf.WriteString(line)
		w.buf.WriteByte('\n')
	}
}

// bullet writes a single bullet line. depth > 1 repeats the marker so the
// nesting survives parsing.
func (w *subsetWriter) bullet(text string, depth int) {
	text = collapse(text)
	if text == "" {
		return
	}
	if depth < 1 {
		depth = 1
	}
	w.buf.WriteString(strings.Repeat("+ ", depth))
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

// para writes text as plain lines.
func (w *subsetWriter) para(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

// code writes a code span on its own lines.
func (w *subsetWriter) code(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	w.buf.WriteByte('`')
	w.buf.WriteString(text)
	w.buf.WriteString("`\n")
}

func (w *subsetWriter) String() string {
	return w.buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
