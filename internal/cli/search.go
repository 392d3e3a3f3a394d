package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed memories",
	Long: `Search ranks the memories in the current snapshot against the
query and prints the best matches. Ranking uses embedding similarity when
the embedding backend is available and keyword scoring otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		memories, err := a.store.Load()
		if err != nil {
			return err
		}

		topK := searchTopK
		if topK == 0 {
			topK = a.cfg.Search.TopK
		}

		query := strings.Join(args, " ")
		results := a.engine.Search(cmd.Context(), query, memories, topK)

		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}

		fmt.Printf("%d matches (%s mode):\n\n", len(results), a.engine.Mode())
		for i, m := range results {
			fmt.Printf("%2d. [%s] %s\n", i+1, m.Type, m.Title)
			fmt.Printf("    %s  %s\n", m.Date.Format("2006-01-02"), m.FilePath)
			if len(m.Entities) > 0 {
				parts := make([]string, len(m.Entities))
				for j, e := range m.Entities {
					parts[j] = fmt.Sprintf("%s:%s", e.Type, e.Text)
				}
				fmt.Printf("    entities: %s\n", strings.Join(parts, ", "))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchTopK, "top-k", 0, "maximum results to return (default from config)")
	rootCmd.AddCommand(searchCmd)
}
