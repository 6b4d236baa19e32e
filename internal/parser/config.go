package parser

// Config holds the marker set recognized by a MarkdownParser.
type Config struct {
	QuoteMarker   string   // Line-initial quote marker.
	BulletMarkers []string // Line-initial bullet markers, tried in order.
	CodeDelimiter byte     // Opens and closes a code span anywhere in a line.

	// MaxDepth limits bullet nesting. A bullet at the limit keeps its body as
	// text with no children. Zero means unlimited.
	MaxDepth int
}

// DefaultConfig returns the standard marker set.
func DefaultConfig() Config {
	return Config{
		QuoteMarker:   "> ",
		BulletMarkers: []string{"+ ", "* "},
		CodeDelimiter: '`',
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.QuoteMarker == "" {
		c.QuoteMarker = def.QuoteMarker
	}
	var bullets []string
	for _, m := range c.BulletMarkers {
		if m != "" {
			bullets = append(bullets, m)
		}
	}
	if len(bullets) == 0 {
		bullets = def.BulletMarkers
	}
	c.BulletMarkers = bullets
	if c.CodeDelimiter == 0 {
		c.CodeDelimiter = def.CodeDelimiter
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	return c
}
