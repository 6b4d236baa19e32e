package source

import (
	"fmt"
	"io"
)

// TextExtractor handles plain text files, which are already written in the
// subset. The bytes pass through unchanged: blank lines and "\r" are content
// to the parser.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return &Document{
		Title: titleFromFilename(filename),
		Text:  string(data),
	}, nil
}
