package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/mdtree/internal/doctree"
	"github.com/spf13/cobra"
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct [file]",
	Short: "Rebuild source text from a JSON element tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReconstruct,
}

func init() {
	rootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	in, _, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	var tree doctree.DocTree
	if err := json.NewDecoder(in).Decode(&tree); err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), doctree.Reconstruct(tree.Children))
	return err
}
