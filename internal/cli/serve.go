package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/gateway"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/indexer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	Long: `Serve starts the local HTTP gateway and keeps the snapshot fresh:
configured roots are watched for changes and reindexed on the configured
schedule. Stops on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()
		zl := a.log.Zerolog()

		server, err := gateway.NewServer(gateway.Options{
			Host: a.cfg.Gateway.Host,
			Port: a.cfg.Gateway.Port,
		}, a.engine, a.index, a.store, a.cache, zl)
		if err != nil {
			return err
		}

		reindex := func() {
			for _, root := range a.cfg.Indexing.Roots {
				memories, err := a.index.Index(context.Background(), root)
				if err != nil {
					zl.Error().Err(err).Str("root", root).Msg("Reindex failed")
					continue
				}
				a.engine.IndexVectors(context.Background(), memories)
				server.Broadcast("index.completed", map[string]interface{}{
					"root":  root,
					"count": len(memories),
				})
			}
		}

		if a.cfg.Indexing.Watch && len(a.cfg.Indexing.Roots) > 0 {
			watcher, err := indexer.NewWatcher(zl, a.index.Allowed, reindex)
			if err != nil {
				zl.Warn().Err(err).Msg("File watching disabled")
			} else {
				for _, root := range a.cfg.Indexing.Roots {
					if err := watcher.Watch(root); err != nil {
						zl.Warn().Err(err).Str("root", root).Msg("Failed to watch root")
					}
				}
				defer watcher.Stop()
			}
		}

		if a.cfg.Indexing.Schedule != "" && len(a.cfg.Indexing.Roots) > 0 {
			scheduler, err := indexer.NewScheduler(a.cfg.Indexing.Schedule, reindex, zl)
			if err != nil {
				zl.Warn().Err(err).Msg("Scheduled reindexing disabled")
			} else {
				scheduler.Start()
				defer scheduler.Stop()
			}
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case s := <-sig:
			zl.Info().Str("signal", s.String()).Msg("Shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
