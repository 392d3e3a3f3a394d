package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show snapshot and engine status",
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

		counts := map[string]int{}
		for _, m := range memories {
			counts[string(m.Type)]++
		}

		fmt.Printf("Snapshot:     %s\n", a.cfg.SnapshotPath())
		fmt.Printf("Memories:     %d\n", len(memories))
		for _, t := range []string{"document", "image", "audio", "web"} {
			if counts[t] > 0 {
				fmt.Printf("  %-10s  %d\n", t, counts[t])
			}
		}
		fmt.Printf("Search mode:  %s\n", a.engine.Mode())
		if a.cache != nil {
			fmt.Printf("Cache:        %s\n", a.cfg.CachePath())
		} else {
			fmt.Println("Cache:        disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
