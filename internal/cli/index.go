package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexExtensions []string

var indexCmd = &cobra.Command{
	Use:   "index <directory>",
	Short: "Index a directory tree into the memory snapshot",
	Long: `Index walks the directory recursively, turns every eligible file
into a memory record and replaces the snapshot with the result. A
nonexistent directory is not an error; it simply produces an empty run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(indexExtensions) > 0 {
			extOverride = indexExtensions
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		memories, err := a.index.Index(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Populate the nearest-neighbor table while the content is hot.
		a.engine.IndexVectors(cmd.Context(), memories)

		fmt.Printf("Indexed %d memories from %s\n", len(memories), args[0])
		return nil
	},
}

func init() {
	indexCmd.Flags().StringSliceVar(&indexExtensions, "ext", nil, "restrict indexing to these extensions (e.g. .txt,.md)")
	rootCmd.AddCommand(indexCmd)
}
