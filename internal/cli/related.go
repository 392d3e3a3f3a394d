package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

var relatedK int

var relatedCmd = &cobra.Command{
	Use:   "related <memory-id>",
	Short: "List memories nearest to the given memory",
	Long: `Related looks up the stored embedding vector for a memory and
returns its nearest neighbors by cosine distance. Requires the embedding
cache to be enabled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.cache == nil {
			return errors.New("embedding cache is disabled; related lookup needs it")
		}

		results, err := a.cache.Related(args[0], relatedK)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No related memories.")
			return nil
		}

		memories, err := a.store.Load()
		if err != nil {
			return err
		}
		byID := make(map[string]memory.Memory, len(memories))
		for _, m := range memories {
			byID[m.ID] = m
		}

		for i, r := range results {
			line := r.MemoryID
			if m, ok := byID[r.MemoryID]; ok {
				line = fmt.Sprintf("%s (%s)", m.Title, m.FilePath)
			}
			fmt.Printf("%2d. %.3f  %s\n", i+1, r.Similarity, line)
		}
		return nil
	},
}

func init() {
	relatedCmd.Flags().IntVar(&relatedK, "k", 5, "number of neighbors to return")
	rootCmd.AddCommand(relatedCmd)
}
