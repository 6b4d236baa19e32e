package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor handles .docx files. Quote-styled paragraphs become quote
// lines and list-styled paragraphs become bullets.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(r io.Reader, filename string) (*Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "mdtree-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var w subsetWriter
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		switch docxParagraphRole(para) {
		case roleQuote:
			w.quote(text)
		case roleBullet:
			w.bullet(text, 1)
		default:
			w.para(text)
		}
	}

	return &Document{
		Title: titleFromFilename(filename),
		Text:  w.String(),
	}, nil
}

type paragraphRole int

const (
	rolePlain paragraphRole = iota
	roleQuote
	roleBullet
)

// docxParagraphRole classifies a paragraph by its style name, e.g. "Quote",
// "Intense Quote", "ListParagraph" or "List Bullet 2".
func docxParagraphRole(para *docx.Paragraph) paragraphRole {
	if para.Properties == nil || para.Properties.Style == nil {
		return rolePlain
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch {
	case strings.HasSuffix(style, "quote"):
		return roleQuote
	case strings.HasPrefix(style, "list"):
		return roleBullet
	}
	return rolePlain
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
