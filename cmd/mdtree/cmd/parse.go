package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mdtree/internal/doctree"
	"github.com/dgallion1/mdtree/internal/parser"
	"github.com/dgallion1/mdtree/internal/render"
	"github.com/dgallion1/mdtree/internal/source"
	"github.com/spf13/cobra"
)

var (
	parseFormat   string
	parseMaxDepth int
	parseTitle    string
	parseExtract  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a file (or stdin) and print its element tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "Output format: "+strings.Join(render.Formats, ", "))
	parseCmd.Flags().IntVar(&parseMaxDepth, "max-depth", 0, "Limit bullet nesting (0 = unlimited)")
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "Document title (defaults to the file name without its extension)")
	parseCmd.Flags().BoolVar(&parseExtract, "extract", false, "Convert html, docx, pdf, csv or CommonMark input to the subset first")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	renderer, err := render.ForFormat(parseFormat)
	if err != nil {
		return err
	}

	in, filename, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	title := parseTitle
	if title == "" && filename != "" {
		base := filepath.Base(filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	var text string
	if parseExtract && filename != "" {
		ex, err := source.ForFile(filename, source.Options{PDFFallbackPdftotext: true})
		if err != nil {
			return err
		}
		doc, err := ex.Extract(in, filename)
		if err != nil {
			return fmt.Errorf("extract %s: %w", filename, err)
		}
		text = doc.Text
		if parseTitle == "" && doc.Title != "" {
			title = doc.Title
		}
	} else {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		text = string(data)
	}

	cfg := parser.DefaultConfig()
	cfg.MaxDepth = parseMaxDepth
	p := parser.NewMarkdownParser(cfg)

	tree := &doctree.DocTree{Title: title, Children: p.Parse(text)}
	return renderer.Render(cmd.OutOrStdout(), tree)
}
