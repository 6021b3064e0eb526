// Package shapefile flattens ESRI shapefile polygons into per-vertex geometry
// records. It implements pipeline.GeometrySource.
package shapefile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	shp "github.com/jonas-p/go-shp"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/couchcryptid/award-map-report/internal/domain"
)

// Source reads state boundary polygons from a shapefile.
type Source struct {
	path        string
	regionField string
	logger      *slog.Logger
}

// NewSource creates a shapefile geometry source. regionField names the dbf
// column holding the canonical state name (commonly "NAME").
func NewSource(path, regionField string, logger *slog.Logger) *Source {
	return &Source{path: path, regionField: regionField, logger: logger}
}

// LoadGeometry reads every polygon shape and flattens its rings into ordered
// per-vertex records. Each ring gets a distinct PolygonID; interior rings are
// flagged as holes by their winding order (ESRI outer rings run clockwise,
// holes counter-clockwise). Failures are reported as *domain.InputError.
func (s *Source) LoadGeometry(ctx context.Context) ([]domain.GeometryRecord, error) {
	reader, err := shp.Open(s.path)
	if err != nil {
		return nil, domain.NewInputError(s.path, err)
	}
	defer reader.Close()

	fieldIdx, err := s.findRegionField(reader.Fields())
	if err != nil {
		return nil, err
	}

	var records []domain.GeometryRecord
	ringID := 0
	shapes := 0

	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, shape := reader.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, domain.NewInputError(s.path, fmt.Errorf("shape %d: expected polygon, got %T", n, shape))
		}

		// dbf string attributes are fixed-width; TIGER files pad with spaces,
		// go-shp's writer pads with NULs.
		key := strings.Trim(reader.ReadAttribute(n, fieldIdx), " \x00")
		if key == "" {
			return nil, domain.NewInputError(s.path, fmt.Errorf("shape %d: empty %s attribute", n, s.regionField))
		}

		for _, ring := range rings(polygon) {
			hole := isHole(ring)
			for _, pt := range ring {
				records = append(records, domain.GeometryRecord{
					RegionKey: key,
					Lon:       pt.X,
					Lat:       pt.Y,
					PolygonID: ringID,
					Hole:      hole,
				})
			}
			ringID++
		}
		shapes++
	}
	if err := reader.Err(); err != nil {
		return nil, domain.NewInputError(s.path, err)
	}

	s.logger.Info("geometry loaded",
		"path", s.path,
		"shapes", shapes,
		"rings", ringID,
		"vertices", len(records),
	)
	return records, nil
}

func (s *Source) findRegionField(fields []shp.Field) (int, error) {
	for i := range fields {
		if strings.EqualFold(fields[i].String(), s.regionField) {
			return i, nil
		}
	}
	return 0, domain.NewInputError(s.path, fmt.Errorf("region field %q not found in dbf", s.regionField))
}

// rings splits a polygon's point array at its part offsets.
func rings(p *shp.Polygon) [][]shp.Point {
	out := make([][]shp.Point, 0, len(p.Parts))
	for i, start := range p.Parts {
		end := int32(len(p.Points))
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		}
		if start >= end {
			continue
		}
		out = append(out, p.Points[start:end])
	}
	return out
}

// isHole reports whether a ring is an interior ring. ESRI winds outer rings
// clockwise, so a counter-clockwise ring is a hole.
func isHole(ring []shp.Point) bool {
	if len(ring) < 3 {
		return false
	}
	flat := make([]float64, 0, len(ring)*2)
	for _, pt := range ring {
		flat = append(flat, pt.X, pt.Y)
	}
	return xy.IsRingCounterClockwise(geom.XY, flat)
}
