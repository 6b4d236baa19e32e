package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mdtree",
	Short: "Parse a markdown subset into an element tree",
	Long: `mdtree parses quotes ("> "), bullet points ("+ " or "* ") and inline
code spans into a tree of QUOTE, BULLET_POINT and TEXT elements.

Examples:
  mdtree parse notes.md                 # JSON tree
  mdtree parse notes.md --format html   # HTML fragment
  echo '+ see ` + "`x`" + `' | mdtree parse -f outline
  mdtree parse notes.md | mdtree reconstruct`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openInput returns the command's stdin for no argument or "-", otherwise
// the named file.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("open input: %w", err)
	}
	return f, args[0], nil
}
