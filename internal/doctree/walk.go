package doctree

import "strings"

// Walk visits elements in pre-order. Returning false from fn skips the
// element's children.
func Walk(elements []*Element, fn func(e *Element, depth int) bool) {
	walk(elements, 0, fn)
}

func walk(elements []*Element, depth int, fn func(*Element, int) bool) {
	for _, e := range elements {
		if fn(e, depth) {
			walk(e.Children, depth+1, fn)
		}
	}
}

// Reconstruct joins markers and text back into the source the elements were
// parsed from.
func Reconstruct(elements []*Element) string {
	var buf strings.Builder
	reconstruct(&buf, elements)
	return buf.String()
}

func reconstruct(buf *strings.Builder, elements []*Element) {
	for _, e := range elements {
		switch {
		case e.Kind == BulletPoint && len(e.Children) > 0:
			buf.WriteString(e.Marker)
			reconstruct(buf, e.Children)
		case e.IsCode():
			buf.WriteString(e.Marker)
			buf.WriteString(e.Text)
			buf.WriteString(e.Marker)
		default:
			buf.WriteString(e.Marker)
			buf.WriteString(e.Text)
		}
	}
}

// Counts summarizes a parsed tree.
type Counts struct {
	Quotes       int `json:"quotes" yaml:"quotes"`
	BulletPoints int `json:"bullet_points" yaml:"bullet_points"`
	Text         int `json:"text" yaml:"text"`
	CodeSpans    int `json:"code_spans" yaml:"code_spans"`
	MaxDepth     int `json:"max_depth" yaml:"max_depth"`
}

// Total returns the number of elements counted.
func (c Counts) Total() int {
	return c.Quotes + c.BulletPoints + c.Text
}

// Count tallies elements by kind. MaxDepth is the number of nesting levels,
// so a flat tree has depth 1 and an empty one 0.
func Count(elements []*Element) Counts {
	var c Counts
	Walk(elements, func(e *Element, depth int) bool {
		switch e.Kind {
		case Quote:
			c.Quotes++
		case BulletPoint:
			c.BulletPoints++
		default:
			c.Text++
			if e.IsCode() {
				c.CodeSpans++
			}
		}
		if depth+1 > c.MaxDepth {
			c.MaxDepth = depth + 1
		}
		return true
	})
	return c
}
