// Command etl runs the one-shot AERONET warehouse load: read the wide CSV,
// transform it into the star schema, and load it into MySQL.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/atmosdata/aeronet-dw-etl/internal/adapter/csvfile"
	httpadapter "github.com/atmosdata/aeronet-dw-etl/internal/adapter/http"
	"github.com/atmosdata/aeronet-dw-etl/internal/adapter/naturalearth"
	"github.com/atmosdata/aeronet-dw-etl/internal/adapter/warehouse"
	"github.com/atmosdata/aeronet-dw-etl/internal/config"
	"github.com/atmosdata/aeronet-dw-etl/internal/domain"
	"github.com/atmosdata/aeronet-dw-etl/internal/observability"
	"github.com/atmosdata/aeronet-dw-etl/internal/pipeline"
)

func main() {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := buildResolver(ctx, cfg, metrics, logger)

	extractor := csvfile.NewReader(cfg.CSVPath, logger)

	loader, err := warehouse.New(
		warehouse.DSN(cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLDB),
		cfg.BatchSize, logger)
	if err != nil {
		logger.Error("failed to set up warehouse loader", "error", err)
		os.Exit(1)
	}
	defer loader.Close()

	p := pipeline.New(extractor, resolver, loader, logger, metrics)

	// Optional status/metrics endpoint for supervised runs.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}

// buildResolver sets up spatial enrichment, degrading to the no-op resolver
// on any setup failure: enrichment is best-effort and never blocks the load.
func buildResolver(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Resolver {
	if !cfg.GeoEnabled {
		logger.Info("spatial enrichment disabled")
		metrics.GeoEnabled.Set(0)
		return domain.NoopResolver{}
	}

	r, err := naturalearth.New(ctx, cfg.DataDir, cfg.BoundaryURL, cfg.FetchTimeout, metrics, logger)
	if err != nil {
		logger.Warn("spatial enrichment unavailable, sites will load without country/continent", "error", err)
		metrics.GeoEnabled.Set(0)
		return domain.NoopResolver{}
	}

	metrics.GeoEnabled.Set(1)
	return r
}
