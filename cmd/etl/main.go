// Command etl runs the subduction convergence export service: it steps
// through the configured reconstruction window, computes convergence
// statistics via the external reconstruction engine, and publishes the rows
// to a Kafka sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/plate-kinematics-etl/internal/adapter/gws"
	httpadapter "github.com/couchcryptid/plate-kinematics-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/plate-kinematics-etl/internal/adapter/kafka"
	"github.com/couchcryptid/plate-kinematics-etl/internal/config"
	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
	"github.com/couchcryptid/plate-kinematics-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	model, err := loadModel(cfg)
	if err != nil {
		logger.Error("failed to load reconstruction model", "error", err)
		os.Exit(1)
	}

	client := gws.NewClient(cfg.GWSBaseURL, cfg.GWSTimeout, logger, metrics)
	engine := gws.NewCachedEngine(client, cfg.GWSCacheSize, metrics)
	logger.Info("reconstruction engine configured",
		"base_url", cfg.GWSBaseURL, "model", model.EngineTag, "cache_size", cfg.GWSCacheSize)

	extractor := pipeline.NewEngineExtractor(engine, model, pipeline.Window{
		StartMa: cfg.ExportStartMa,
		EndMa:   cfg.ExportEndMa,
		StepMa:  cfg.ExportStepMa,
	}, cfg.ExportAnchorPlate, cfg.ExportDeltaTime, cfg.ExportSamplingDeg)
	transformer := pipeline.NewTransformer(model)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(extractor, transformer, writer, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start export pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// loadModel reads the model manifest, falling back to a bare default when
// none is configured.
func loadModel(cfg *config.Config) (domain.Model, error) {
	if cfg.ModelManifest == "" {
		return domain.Model{Name: "default", EngineTag: "MULLER2019"}, nil
	}
	return domain.LoadModel(cfg.ModelManifest)
}
