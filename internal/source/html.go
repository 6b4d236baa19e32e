package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files. Block quotes, list items, code and
// paragraphs map onto their subset counterparts; the <title>, when present,
// names the document.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &Document{Title: titleFromFilename(filename)}
	if title := findTitle(doc); title != "" {
		out.Title = title
	}

	var w subsetWriter
	listDepth := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "blockquote":
				w.quote(inlineHTML(n))
				return
			case "ul", "ol":
				listDepth++
				defer func() { listDepth-- }()
			case "li":
				w.bullet(inlineHTML(n, "ul", "ol"), listDepth)
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
						walk(c)
					}
				}
				return
			case "pre":
				w.code(textContent(n))
				return
			case "p", "td", "h1", "h2", "h3", "h4", "h5", "h6":
				w.para(inlineHTML(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	out.Text = w.String()
	return out, nil
}

// inlineHTML flattens the text of n, wrapping <code> in backticks and turning
// <br> and nested paragraphs into line breaks. Elements named in skip are
// left out.
func inlineHTML(n *html.Node, skip ...string) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				buf.WriteString(c.Data)
			case c.Type != html.ElementNode:
			case contains(skip, c.Data):
			case c.Data == "code":
				buf.WriteByte('`')
				buf.WriteString(textContent(c))
				buf.WriteByte('`')
			case c.Data == "br":
				buf.WriteByte('\n')
			case c.Data == "p":
				extract(c)
				buf.WriteByte('\n')
			default:
				extract(c)
			}
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
