// Package parser converts text in a small markdown subset into a tree of
// doctree elements: line-initial quotes ("> "), line-initial bullet points
// ("+ " or "* "), inline code spans delimited by backticks, and plain text.
//
// Parsing never fails. Unterminated code spans and unterminated paragraphs
// fall back to the rest of the enclosing segment, and stray marker characters
// stay in the text. Zero-length elements, such as an empty code span or a
// bullet with no body, are emitted like any other.
package parser

import (
	"strings"

	"github.com/dgallion1/mdtree/internal/doctree"
)

// MarkdownParser parses the markdown subset described by its Config.
// It holds no mutable state and is safe for concurrent use.
type MarkdownParser struct {
	cfg    Config
	quotes []string
	code   string
}

// NewMarkdownParser returns a parser for cfg. Zero fields take their
// DefaultConfig values.
func NewMarkdownParser(cfg Config) *MarkdownParser {
	cfg = cfg.normalize()
	return &MarkdownParser{
		cfg:    cfg,
		quotes: []string{cfg.QuoteMarker},
		code:   string(cfg.CodeDelimiter),
	}
}

var defaultParser = NewMarkdownParser(DefaultConfig())

// Parse parses input with the default marker set.
func Parse(input string) []*doctree.Element {
	return defaultParser.Parse(input)
}

// Config returns the normalized configuration of the parser.
func (p *MarkdownParser) Config() Config {
	cfg := p.cfg
	cfg.BulletMarkers = append([]string(nil), p.cfg.BulletMarkers...)
	return cfg
}

// Parse splits input into quotes and inline runs. Quotes are only recognized
// at the top level and their bodies are never parsed further.
func (p *MarkdownParser) Parse(input string) []*doctree.Element {
	out := []*doctree.Element{}
	cursor := 0
	for {
		start, marker := nextLineMarker(input, cursor, p.quotes)
		if start < 0 {
			break
		}
		if cursor < start {
			out = append(out, p.findElements(input[cursor:start], cursor, 0)...)
		}
		bodyStart := start + len(marker)
		end := paragraphEnd(input, bodyStart)
		out = append(out, &doctree.Element{
			Kind:   doctree.Quote,
			Marker: marker,
			Text:   input[bodyStart:end],
			Offset: start,
		})
		cursor = end
	}
	if cursor < len(input) {
		out = append(out, p.findElements(input[cursor:], cursor, 0)...)
	}
	return out
}

// findElements partitions seg into text, code spans and bullet points. base is
// the offset of seg in the original input; depth is the bullet nesting level.
//
// The text before each marker is parsed again as a segment of its own, where
// its first position counts as a line start.
func (p *MarkdownParser) findElements(seg string, base, depth int) []*doctree.Element {
	var out []*doctree.Element
	sc := p.newInlineScanner(seg)
	cursor := 0
	for cursor < len(seg) {
		m := sc.next(cursor)
		if m.kind == noMatch {
			break
		}
		if cursor < m.start {
			out = append(out, p.findElements(seg[cursor:m.start], base+cursor, depth)...)
		}

		switch m.kind {
		case bulletMatch:
			end := paragraphEnd(seg, m.end)
			bullet := &doctree.Element{
				Kind:   doctree.BulletPoint,
				Marker: m.marker,
				Text:   seg[m.end:end],
				Offset: base + m.start,
			}
			if p.nestable(depth) && p.hasMarkup(bullet.Text) {
				bullet.Children = p.findElements(bullet.Text, base+m.end, depth+1)
			}
			out = append(out, bullet)
			cursor = end

		case codeMatch:
			closing := strings.IndexByte(seg[m.end:], p.cfg.CodeDelimiter)
			if closing < 0 {
				// Unterminated: the opening delimiter is plain text.
				out = append(out, &doctree.Element{
					Kind:   doctree.Text,
					Text:   seg[m.start:],
					Offset: base + m.start,
				})
				cursor = len(seg)
				continue
			}
			closing += m.end
			out = append(out, &doctree.Element{
				Kind:   doctree.Text,
				Marker: m.marker,
				Text:   seg[m.end:closing],
				Offset: base + m.start,
			})
			cursor = closing + 1
		}
	}
	if cursor < len(seg) {
		out = append(out, &doctree.Element{
			Kind:   doctree.Text,
			Text:   seg[cursor:],
			Offset: base + cursor,
		})
	}
	return out
}

// hasMarkup reports whether s contains any bullet or code marker. A bullet
// body without markup keeps its text and has no children.
func (p *MarkdownParser) hasMarkup(s string) bool {
	return p.newInlineScanner(s).next(0).kind != noMatch
}

func (p *MarkdownParser) nestable(depth int) bool {
	return p.cfg.MaxDepth == 0 || depth < p.cfg.MaxDepth
}
