package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/api"
	"github.com/salaryscout/salaryscout/internal/blscheck"
	"github.com/salaryscout/salaryscout/internal/clock/system"
	"github.com/salaryscout/salaryscout/internal/sitemap"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API and sitemaps",
		Long: `Runs the HTTP server: health and readiness probes, Prometheus metrics,
the /api/search endpoint, and the paginated sitemap documents. When
bls.check_cron is set, a background schedule re-checks BLS for new
releases while the server runs.`,
		RunE: runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer st.Close()

	builder := sitemap.NewBuilder(
		st,
		sitemap.NewPartitioner(int64(a.cfg.Sitemap.URLsPerSitemap)),
		system.New(),
		a.cfg.Sitemap.SiteURL,
		int64(a.cfg.Sitemap.StaticPageCount),
	)

	requestTimeout := time.Duration(a.cfg.Server.RequestTimeoutSeconds) * time.Second
	server := api.NewServer(st, builder, a.logger, requestTimeout)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if spec := a.cfg.BLS.CheckCron; spec != "" {
		scheduler, err := startFreshnessCron(ctx, a, st, spec)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func startFreshnessCron(ctx context.Context, a *app, meta blscheck.Metadater, spec string) (*cron.Cron, error) {
	checker := blscheck.New(blscheck.Config{
		TablesURL: a.cfg.BLS.TablesURL,
		UserAgent: a.cfg.BLS.UserAgent,
	}, meta, a.logger)

	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		result, err := checker.Check(ctx)
		if err != nil {
			a.logger.Warn("scheduled freshness check failed", zap.Error(err))
			return
		}
		if result.HasUpdate {
			a.logger.Warn("newer release available, run ingest",
				zap.String("latest_period", result.LatestPeriod),
				zap.String("download_url", result.DownloadURL),
			)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule freshness check %q: %w", spec, err)
	}
	scheduler.Start()
	a.logger.Info("freshness check scheduled", zap.String("cron", spec))
	return scheduler, nil
}
