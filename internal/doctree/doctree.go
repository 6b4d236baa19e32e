package doctree

import "fmt"

// Kind identifies the type of an Element.
type Kind int

const (
	Text Kind = iota
	Quote
	BulletPoint
)

var kindNames = map[Kind]string{
	Text:        "TEXT",
	Quote:       "QUOTE",
	BulletPoint: "BULLET_POINT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name for JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown element kind %d", int(k))
	}
	return []byte(name), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown element kind %q", string(b))
}

// Element is a typed node in a parsed document.
type Element struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Text is the literal source text of the node with its markers removed.
	// Quote and bullet text runs to the end of the paragraph, line terminator included.
	Text string `json:"text" yaml:"text"`

	// Marker is the delimiter consumed for this node: "> " for quotes,
	// "+ " or "* " for bullets, "`" for a code span, empty for plain text.
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`

	Offset   int        `json:"offset" yaml:"offset"` // Byte offset of the node (marker included) in the input
	Children []*Element `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsCode reports whether a text element came from a code span.
func (e *Element) IsCode() bool {
	return e.Kind == Text && e.Marker != ""
}

// DocTree is a parsed, named document.
type DocTree struct {
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Children []*Element `json:"children" yaml:"children"`
}
