// Package plot renders joined state records as choropleth maps using
// gonum/plot. It implements pipeline.Renderer.
package plot

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/award-map-report/internal/domain"
)

// Page size of the exported documents, in inches.
const (
	pageWidth  = 11 * vg.Inch
	pageHeight = 8.5 * vg.Inch
)

// Ramp endpoints, light to dark blue. Shades are blended in Lab space so the
// perceived lightness tracks the metric value.
var (
	rampLow  = colorful.Color{R: 0.93, G: 0.95, B: 1.00}
	rampHigh = colorful.Color{R: 0.03, G: 0.27, B: 0.58}

	outlineColor = color.Gray{Y: 0x30}
)

var metricTitles = map[domain.Metric]string{
	domain.MetricWinsPerPop:     "Award wins per resident",
	domain.MetricWinsPerReceipt: "Award wins per entertainment receipt dollar",
}

// Renderer draws choropleth and boundary maps from joined records.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a map renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// RenderChoropleth fills each state polygon with a shade proportional to the
// metric value and writes an 11x8.5in page to path. The output format follows
// the file extension (.pdf for the exported maps).
func (r *Renderer) RenderChoropleth(ctx context.Context, records []domain.JoinedRecord, metric domain.Metric, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shapes := assembleRings(records, metric)
	if len(shapes) == 0 {
		return fmt.Errorf("render %s: no polygon rings to draw", metric)
	}
	lo, hi := metricRange(shapes)

	p := plot.New()
	p.Title.Text = metricTitles[metric]
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	for _, s := range shapes {
		poly, err := plotter.NewPolygon(s.xys)
		if err != nil {
			return fmt.Errorf("render %s: region %s: %w", metric, s.region, err)
		}
		poly.Color = rampColor(s.value, lo, hi)
		poly.LineStyle.Color = outlineColor
		p.Add(poly)
	}

	if err := p.Save(pageWidth, pageHeight, path); err != nil {
		return fmt.Errorf("render %s: %w", metric, err)
	}

	r.logger.Info("choropleth rendered", "metric", string(metric), "path", path, "rings", len(shapes))
	return nil
}

// RenderPreview writes an unshaded boundary map, the quick-look variant that
// the report shows before the shaded exports.
func (r *Renderer) RenderPreview(ctx context.Context, records []domain.JoinedRecord, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shapes := assembleRings(records, domain.MetricWinsPerPop)
	if len(shapes) == 0 {
		return fmt.Errorf("render preview: no polygon rings to draw")
	}

	p := plot.New()
	p.Title.Text = "State boundaries"
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	for _, s := range shapes {
		poly, err := plotter.NewPolygon(s.xys)
		if err != nil {
			return fmt.Errorf("render preview: region %s: %w", s.region, err)
		}
		poly.LineStyle.Color = outlineColor
		p.Add(poly)
	}

	if err := p.Save(pageWidth, pageHeight, path); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}

	r.logger.Info("preview rendered", "path", path, "rings", len(shapes))
	return nil
}

// ring is one drawable polygon ring with the metric value of its region.
type ring struct {
	region string
	id     int
	value  float64
	xys    plotter.XYs
}

// assembleRings regroups flattened vertices into rings by consecutive
// PolygonID, preserving vertex order. The input is expected in ring order, as
// produced by the shapefile adapter and preserved by join and filtering.
func assembleRings(records []domain.JoinedRecord, metric domain.Metric) []ring {
	var rings []ring
	for i := range records {
		rec := records[i]
		if len(rings) == 0 || rings[len(rings)-1].id != rec.PolygonID {
			rings = append(rings, ring{region: rec.RegionKey, value: metric.Value(rec), id: rec.PolygonID})
		}
		last := &rings[len(rings)-1]
		last.xys = append(last.xys, plotter.XY{X: rec.Lon, Y: rec.Lat})
	}

	// A bbox-clipped ring can degenerate below a drawable polygon.
	kept := rings[:0]
	for _, s := range rings {
		if len(s.xys) >= 3 {
			kept = append(kept, s)
		}
	}
	return kept
}

// metricRange returns the min and max metric value across rings.
func metricRange(rings []ring) (float64, float64) {
	lo, hi := rings[0].value, rings[0].value
	for _, s := range rings[1:] {
		if s.value < lo {
			lo = s.value
		}
		if s.value > hi {
			hi = s.value
		}
	}
	return lo, hi
}

// rampColor maps a metric value onto the light-to-dark ramp.
func rampColor(v, lo, hi float64) color.Color {
	t := 0.5
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	return rampLow.BlendLab(rampHigh, t).Clamped()
}
