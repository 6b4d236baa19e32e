package doctree

import (
	"encoding/json"
	"testing"
)

func sampleTree() []*Element {
	return []*Element{
		{Kind: Quote, Marker: "> ", Text: "quoted\n"},
		{Kind: BulletPoint, Marker: "+ ", Text: "see `x`\n", Offset: 9, Children: []*Element{
			{Kind: Text, Text: "see ", Offset: 11},
			{Kind: Text, Marker: "`", Text: "x", Offset: 15},
			{Kind: Text, Text: "\n", Offset: 18},
		}},
		{Kind: Text, Text: "tail", Offset: 19},
	}
}

func TestReconstruct(t *testing.T) {
	got := Reconstruct(sampleTree())
	want := "> quoted\n+ see `x`\ntail"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReconstruct_BulletWithoutChildren(t *testing.T) {
	// Bullets cut off by a depth limit keep their body as text.
	elems := []*Element{{Kind: BulletPoint, Marker: "* ", Text: "+ nested\n"}}
	if got := Reconstruct(elems); got != "* + nested\n" {
		t.Errorf("expected %q, got %q", "* + nested\n", got)
	}
}

func TestReconstruct_Empty(t *testing.T) {
	if got := Reconstruct(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestCount(t *testing.T) {
	c := Count(sampleTree())
	if c.Quotes != 1 {
		t.Errorf("expected 1 quote, got %d", c.Quotes)
	}
	if c.BulletPoints != 1 {
		t.Errorf("expected 1 bullet point, got %d", c.BulletPoints)
	}
	if c.Text != 4 {
		t.Errorf("expected 4 text elements, got %d", c.Text)
	}
	if c.CodeSpans != 1 {
		t.Errorf("expected 1 code span, got %d", c.CodeSpans)
	}
	if c.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", c.MaxDepth)
	}
	if c.Total() != 6 {
		t.Errorf("expected total 6, got %d", c.Total())
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	var visited int
	Walk(sampleTree(), func(e *Element, depth int) bool {
		visited++
		return e.Kind != BulletPoint
	})
	if visited != 3 {
		t.Errorf("expected 3 visited elements, got %d", visited)
	}
}

func TestKind_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(sampleTree()[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Element
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != BulletPoint {
		t.Errorf("expected kind %v, got %v", BulletPoint, got.Kind)
	}
	if len(got.Children) != 3 || !got.Children[1].IsCode() {
		t.Errorf("expected code span as second child, got %+v", got.Children)
	}
}

func TestKind_UnmarshalUnknown(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("HEADING")); err == nil {
		t.Error("expected error for unknown kind")
	}
	if s := Kind(42).String(); s != "Kind(42)" {
		t.Errorf("expected %q, got %q", "Kind(42)", s)
	}
}
