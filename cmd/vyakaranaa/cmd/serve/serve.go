package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/cmdutil"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

- Stale uploads left in the temp dir by a previous crash are removed at start
  and then periodically
- SIGINT or SIGTERM drains in-flight requests before exiting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := app.InitializeApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		logger := application.Logger
		logger.Info("configuration loaded", zap.Any("config", cfg.Redacted()))

		if cfg.Storage.SweepAfter > 0 {
			sweep(ctx, application.Store, cfg.Storage.SweepAfter, logger)
			go sweepPeriodically(ctx, application.Store, cfg.Storage.SweepAfter, logger)
		}

		errCh, err := application.Server.Start()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	},
}

func sweep(ctx context.Context, store *storage.DiskStore, olderThan time.Duration, logger *zap.Logger) {
	// the store logs what it removed
	if _, err := store.Sweep(ctx, olderThan); err != nil {
		logger.Warn("sweeping stale uploads failed", zap.Error(err), zap.String("dir", store.Dir()))
	}
}

func sweepPeriodically(ctx context.Context, store *storage.DiskStore, olderThan time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(olderThan)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, store, olderThan, logger)
		}
	}
}
