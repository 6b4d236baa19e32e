package source

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor reduces CommonMark files to the markdown subset using
// goldmark. Block quotes become quote lines, list items become bullet lines
// (nested items repeat the marker), code becomes code spans and everything
// else is kept as plain paragraphs.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var w subsetWriter
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		writeBlock(&w, n, src, 0)
	}

	return &Document{
		Title: titleFromFilename(filename),
		Text:  w.String(),
	}, nil
}

func writeBlock(w *subsetWriter, n ast.Node, src []byte, listDepth int) {
	switch node := n.(type) {
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.quote(inlineText(c, src))
		}
	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			writeListItem(w, item, src, listDepth+1)
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.code(string(blockLines(n, src)))
	case *ast.ThematicBreak, *ast.HTMLBlock:
		// No representation in the subset.
	default:
		w.para(inlineText(n, src))
	}
}

func writeListItem(w *subsetWriter, item ast.Node, src []byte, depth int) {
	var body bytes.Buffer
	var nested []ast.Node
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.List); ok {
			nested = append(nested, c)
			continue
		}
		if body.Len() > 0 {
			body.WriteByte(' ')
		}
		body.WriteString(inlineText(c, src))
	}
	w.bullet(body.String(), depth)
	for _, list := range nested {
		writeBlock(w, list, src, depth)
	}
}

// inlineText flattens the inline content of a block. Code spans keep their
// backticks; emphasis and links keep only their text.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writeInline(&buf, n, src)
	return buf.String()
}

func writeInline(buf *bytes.Buffer, n ast.Node, src []byte) {
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		buf.Write(blockLines(n, src))
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeSpan:
			buf.WriteByte('`')
			writeInline(buf, node, src)
			buf.WriteByte('`')
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			// Dropped.
		default:
			writeInline(buf, c, src)
			if c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
		}
	}
}

func blockLines(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.Bytes()
}
