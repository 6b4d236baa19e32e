package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/mdtree/internal/doctree"
)

// OutlineRenderer writes one line per element, indented by depth:
//
//	BULLET_POINT "see `x`\n"
//	  TEXT "see "
//	  CODE "x"
type OutlineRenderer struct{}

func (OutlineRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (OutlineRenderer) Render(w io.Writer, tree *doctree.DocTree) error {
	var err error
	doctree.Walk(tree.Children, func(e *doctree.Element, depth int) bool {
		if err != nil {
			return false
		}
		label := e.Kind.String()
		if e.IsCode() {
			label = "CODE"
		}
		_, err = fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), label, strconv.Quote(e.Text))
		return true
	})
	return err
}
