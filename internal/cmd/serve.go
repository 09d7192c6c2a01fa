package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Paladinnu/paladinspalace/internal/core/listings"
	"github.com/Paladinnu/paladinspalace/internal/core/store"
	"github.com/Paladinnu/paladinspalace/internal/observability"
	"github.com/Paladinnu/paladinspalace/internal/ratelimit"
	"github.com/Paladinnu/paladinspalace/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the marketplace HTTP server with graceful shutdown support.

SIGINT or SIGTERM triggers a graceful shutdown: in-flight requests finish
within the configured shutdown timeout before the process exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		observability.InitServerLogger("palace", cfg.Logging.Level)
		logger := observability.ServerLogger
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		var counter ratelimit.Store
		if cfg.Redis.Addr != "" {
			rs, err := ratelimit.NewRedisStore(ratelimit.RedisConfig{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				Prefix:   cfg.Redis.Prefix,
			})
			if err != nil {
				// Degraded but serving: the limiter falls back to its
				// in-process table.
				logger.Warn("redis unavailable, rate limiting is process-local",
					zap.String("addr", cfg.Redis.Addr),
					zap.Error(err))
			} else {
				counter = rs
				defer func() { _ = rs.Close() }()
			}
		}
		limiter := ratelimit.New(counter, logger)
		defer func() { _ = limiter.Close() }()

		srv := server.New(server.Deps{
			Config:   cfg,
			Store:    st,
			Listings: listings.NewService(st, logger),
			Limiter:  limiter,
			Version:  versionInfo.Version,
		})

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		timeout := cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
