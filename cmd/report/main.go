// Command report runs the award-map pipeline once: it joins the state
// boundary shapefile with the state attribute CSV, filters to the
// continental US, renders the two choropleth PDFs, and optionally publishes
// per-state summaries to Kafka.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kafkaadapter "github.com/couchcryptid/award-map-report/internal/adapter/kafka"
	plotadapter "github.com/couchcryptid/award-map-report/internal/adapter/plot"
	"github.com/couchcryptid/award-map-report/internal/adapter/shapefile"
	"github.com/couchcryptid/award-map-report/internal/adapter/statecsv"
	"github.com/couchcryptid/award-map-report/internal/config"
	"github.com/couchcryptid/award-map-report/internal/domain"
	"github.com/couchcryptid/award-map-report/internal/observability"
	"github.com/couchcryptid/award-map-report/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geometry := shapefile.NewSource(cfg.ShapefilePath, cfg.RegionField, logger)
	attributes := statecsv.NewSource(cfg.AttributesPath, logger)
	renderer := plotadapter.NewRenderer(logger)

	// Summary sink (feature-flagged via KAFKA_ENABLED).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka summary sink enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka summary sink disabled")
	}

	p := pipeline.New(geometry, attributes, renderer, publisher, logger, metrics, cfg.OutputDir, cfg.PreviewEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx)
	if writer != nil {
		if cerr := writer.Close(); cerr != nil {
			logger.Error("kafka writer close error", "error", cerr)
		}
	}
	if err != nil {
		exitOnError(logger, err)
	}

	if cfg.MetricsPath != "" {
		if err := observability.WriteSnapshot(prometheus.DefaultGatherer, cfg.MetricsPath); err != nil {
			logger.Error("metrics snapshot error", "error", err)
		}
	}

	logger.Info("report complete",
		"pop_map", pipeline.PopMapFile,
		"receipt_map", pipeline.ReceiptMapFile,
		"regions", result.RegionsRendered,
		"vertices", result.VerticesLoaded,
		"outside_bbox", result.OutsideBBox,
		"holes_dropped", result.HolesDropped,
	)
}

// exitOnError prints the failure and terminates. A key-set mismatch gets the
// full diagnostic with both sorted key lists so the offending dataset can be
// fixed by inspection.
func exitOnError(logger *slog.Logger, err error) {
	var mismatch *domain.KeySetMismatchError
	if errors.As(err, &mismatch) {
		logger.Error("region key sets do not match")
		fmt.Fprintf(os.Stderr, "geometry keys (%d):\n  %s\n", len(mismatch.GeometryKeys), strings.Join(mismatch.GeometryKeys, "\n  "))
		fmt.Fprintf(os.Stderr, "attribute keys (%d):\n  %s\n", len(mismatch.AttributeKeys), strings.Join(mismatch.AttributeKeys, "\n  "))
		os.Exit(1)
	}

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		logger.Error("bad input", "source", inputErr.Source, "error", inputErr.Err)
		os.Exit(1)
	}

	logger.Error("report failed", "error", err)
	os.Exit(1)
}
