package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/extractor"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <url>",
	Short: "Capture a web page into the snapshot",
	Long: `Bookmark renders the page in a headless browser, extracts its
visible text and appends the result to the memory snapshot. Re-bookmarking
the same URL replaces the earlier capture.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		fetcher := extractor.NewBookmarkFetcher(a.log.Zerolog())
		m, err := fetcher.Fetch(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to capture %s: %w", args[0], err)
		}

		memories, err := a.store.Load()
		if err != nil {
			return err
		}

		replaced := false
		for i := range memories {
			if memories[i].ID == m.ID {
				memories[i] = *m
				replaced = true
				break
			}
		}
		if !replaced {
			memories = append(memories, *m)
		}

		if err := a.store.Save(memories); err != nil {
			return err
		}

		fmt.Printf("Bookmarked %q (%d memories total)\n", m.Title, len(memories))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
}
