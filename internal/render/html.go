package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/mdtree/internal/doctree"
	"github.com/yuin/goldmark/util"
)

// HTMLRenderer writes an HTML fragment. Quotes become <blockquote>, runs of
// bullet points become <ul> lists, code spans become <code> and top-level text
// runs are wrapped in <p>.
type HTMLRenderer struct{}

func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (HTMLRenderer) Render(w io.Writer, tree *doctree.DocTree) error {
	bw := bufio.NewWriter(w)
	writeBlocks(bw, tree.Children, true)
	return bw.Flush()
}

func writeBlocks(w *bufio.Writer, elements []*doctree.Element, paragraphs bool) {
	for i := 0; i < len(elements); {
		e := elements[i]
		switch e.Kind {
		case doctree.Quote:
			w.WriteString("<blockquote>")
			w.Write(escape(strings.TrimRight(e.Text, "\r\n")))
			w.WriteString("</blockquote>\n")
			i++

		case doctree.BulletPoint:
			w.WriteString("<ul>\n")
			for ; i < len(elements) && elements[i].Kind == doctree.BulletPoint; i++ {
				writeBullet(w, elements[i])
			}
			w.WriteString("</ul>\n")

		default:
			j := i
			for j < len(elements) && elements[j].Kind == doctree.Text {
				j++
			}
			writeInline(w, elements[i:j], paragraphs)
			i = j
		}
	}
}

func writeBullet(w *bufio.Writer, e *doctree.Element) {
	w.WriteString("<li>")
	if len(e.Children) == 0 {
		w.Write(escape(strings.TrimRight(e.Text, "\r\n")))
	} else {
		writeBlocks(w, e.Children, false)
	}
	w.WriteString("</li>\n")
}

// writeInline writes a run of text elements. Runs made only of line breaks
// are dropped.
func writeInline(w *bufio.Writer, run []*doctree.Element, paragraph bool) {
	var buf strings.Builder
	for _, e := range run {
		if e.IsCode() {
			buf.WriteString("<code>")
			buf.Write(escape(e.Text))
			buf.WriteString("</code>")
			continue
		}
		buf.Write(escape(e.Text))
	}
	out := strings.Trim(buf.String(), "\r\n")
	if out == "" {
		return
	}
	if paragraph {
		w.WriteString("<p>")
		w.WriteString(out)
		w.WriteString("</p>\n")
		return
	}
	w.WriteString(out)
}

func escape(s string) []byte {
	return util.EscapeHTML([]byte(s))
}
