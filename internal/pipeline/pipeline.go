// Package pipeline orchestrates the one-shot report run:
// load → validate → join → filter → render → publish.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/award-map-report/internal/domain"
	"github.com/couchcryptid/award-map-report/internal/observability"
)

// Exported map filenames, written into the configured output directory.
const (
	PopMapFile     = "plot_map_pop.pdf"
	ReceiptMapFile = "plot_map_receipt.pdf"
	PreviewFile    = "plot_map_preview.png"
)

// GeometrySource loads flattened boundary vertices.
type GeometrySource interface {
	LoadGeometry(ctx context.Context) ([]domain.GeometryRecord, error)
}

// AttributeSource loads per-state attribute rows.
type AttributeSource interface {
	LoadAttributes(ctx context.Context) ([]domain.AttributeRecord, error)
}

// Renderer draws the map variants from joined records.
type Renderer interface {
	RenderChoropleth(ctx context.Context, records []domain.JoinedRecord, metric domain.Metric, path string) error
	RenderPreview(ctx context.Context, records []domain.JoinedRecord, path string) error
}

// Publisher delivers region summaries to an external sink.
type Publisher interface {
	PublishSummaries(ctx context.Context, summaries []domain.RegionSummary) error
}

// Result carries the stage counts of a completed run.
type Result struct {
	VerticesLoaded     int
	AttributeRows      int
	RecordsJoined      int
	OutsideBBox        int
	HolesDropped       int
	RegionsRendered    int
	SummariesPublished int
}

// Pipeline wires the stages of a report run.
type Pipeline struct {
	geometry   GeometrySource
	attributes AttributeSource
	renderer   Renderer
	publisher  Publisher // nil disables the summary sink
	logger     *slog.Logger
	metrics    *observability.Metrics
	outputDir  string
	preview    bool
}

// New creates a Pipeline with the given stages and observability.
// A nil publisher skips the publish stage.
func New(g GeometrySource, a AttributeSource, r Renderer, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, outputDir string, preview bool) *Pipeline {
	return &Pipeline{
		geometry:   g,
		attributes: a,
		renderer:   r,
		publisher:  pub,
		logger:     logger,
		metrics:    metrics,
		outputDir:  outputDir,
		preview:    preview,
	}
}

// Run executes the full report once. It stops at the first failing stage;
// a key-set mismatch surfaces as *domain.KeySetMismatchError for the caller
// to print.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	p.logger.Info("report pipeline started", "output_dir", p.outputDir)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var result Result

	// ── Load ──
	var geometry []domain.GeometryRecord
	var attributes []domain.AttributeRecord
	err := p.timeStage("load", func() error {
		var err error
		if geometry, err = p.geometry.LoadGeometry(ctx); err != nil {
			return fmt.Errorf("load geometry: %w", err)
		}
		if attributes, err = p.attributes.LoadAttributes(ctx); err != nil {
			return fmt.Errorf("load attributes: %w", err)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	result.VerticesLoaded = len(geometry)
	result.AttributeRows = len(attributes)
	p.metrics.VerticesLoaded.Add(float64(len(geometry)))
	p.metrics.AttributeRowsLoaded.Add(float64(len(attributes)))

	// ── Validate ──
	err = p.timeStage("validate", func() error {
		return domain.ValidateKeys(domain.GeometryKeys(geometry), domain.AttributeKeys(attributes))
	})
	if err != nil {
		return result, err
	}

	// ── Join ──
	var joined []domain.JoinedRecord
	err = p.timeStage("join", func() error {
		var err error
		joined, err = domain.Join(geometry, attributes)
		return err
	})
	if err != nil {
		return result, err
	}
	result.RecordsJoined = len(joined)
	p.metrics.RecordsJoined.Add(float64(len(joined)))

	// ── Filter ──
	var filtered []domain.JoinedRecord
	_ = p.timeStage("filter", func() error {
		inBox := domain.FilterBBox(joined, domain.ContinentalUS)
		filtered = domain.DropHoles(inBox)
		result.OutsideBBox = len(joined) - len(inBox)
		result.HolesDropped = len(inBox) - len(filtered)
		return nil
	})
	p.metrics.VerticesOutsideBBox.Add(float64(result.OutsideBBox))
	p.metrics.HoleVerticesDropped.Add(float64(result.HolesDropped))
	p.logger.Info("records filtered",
		"joined", result.RecordsJoined,
		"outside_bbox", result.OutsideBBox,
		"holes_dropped", result.HolesDropped,
		"remaining", len(filtered),
	)

	// ── Render ──
	err = p.timeStage("render", func() error {
		if p.preview {
			if err := p.renderer.RenderPreview(ctx, filtered, filepath.Join(p.outputDir, PreviewFile)); err != nil {
				return err
			}
		}
		if err := p.renderer.RenderChoropleth(ctx, filtered, domain.MetricWinsPerPop, filepath.Join(p.outputDir, PopMapFile)); err != nil {
			return err
		}
		return p.renderer.RenderChoropleth(ctx, filtered, domain.MetricWinsPerReceipt, filepath.Join(p.outputDir, ReceiptMapFile))
	})
	if err != nil {
		return result, err
	}
	result.RegionsRendered = countRegions(filtered)

	// ── Publish ──
	if p.publisher != nil {
		summaries := domain.SummarizeRegions(filtered)
		err = p.timeStage("publish", func() error {
			return p.publisher.PublishSummaries(ctx, summaries)
		})
		if err != nil {
			return result, fmt.Errorf("publish summaries: %w", err)
		}
		result.SummariesPublished = len(summaries)
		p.metrics.SummariesPublished.Add(float64(len(summaries)))
	}

	p.logger.Info("report pipeline finished",
		"vertices", result.VerticesLoaded,
		"regions", result.RegionsRendered,
		"summaries", result.SummariesPublished,
	)
	return result, nil
}

// timeStage runs fn and records its duration under the stage label.
func (p *Pipeline) timeStage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return err
}

func countRegions(records []domain.JoinedRecord) int {
	seen := make(map[string]struct{}, 64)
	for i := range records {
		seen[records[i].RegionKey] = struct{}{}
	}
	return len(seen)
}
