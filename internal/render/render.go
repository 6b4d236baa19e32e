// Package render writes parsed documents in the formats served by the API
// and the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mdtree/internal/doctree"
	"gopkg.in/yaml.v3"
)

// Renderer writes a document tree in one output format.
type Renderer interface {
	ContentType() string
	Render(w io.Writer, tree *doctree.DocTree) error
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"json", "yaml", "html", "outline"}

// ForFormat returns the renderer for a format name. The empty name selects JSON.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONRenderer{Indent: true}, nil
	case "yaml", "yml":
		return YAMLRenderer{}, nil
	case "html":
		return HTMLRenderer{}, nil
	case "outline", "text":
		return OutlineRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// JSONRenderer encodes the tree as JSON.
type JSONRenderer struct {
	Indent bool
}

func (JSONRenderer) ContentType() string { return "application/json" }

func (r JSONRenderer) Render(w io.Writer, tree *doctree.DocTree) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAMLRenderer encodes the tree as YAML.
type YAMLRenderer struct{}

func (YAMLRenderer) ContentType() string { return "application/yaml" }

func (YAMLRenderer) Render(w io.Writer, tree *doctree.DocTree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
