// Command genmock writes a synthetic state shapefile and a matching attribute
// CSV for the report test suites. It runs the generated fixture through the
// actual domain package so the printed stats match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -shapefile-out data/mock/states.shp \
//	  -csv-out data/mock/state_attrs.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	shp "github.com/jonas-p/go-shp"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/award-map-report/internal/domain"
)

// mockState describes one generated region. Rings are in shapefile order:
// the outer ring first (clockwise per the ESRI convention), holes after it
// (counter-clockwise).
type mockState struct {
	name       string
	rings      [][]shp.Point
	population float64
	wins       int
	estab      int
	receipts   float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	shapefileOut := flag.String("shapefile-out", "", "output path for the fixture shapefile")
	csvOut := flag.String("csv-out", "", "output path for the fixture attribute CSV")
	flag.Parse()

	if *shapefileOut == "" || *csvOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -shapefile-out, -csv-out")
	}

	states := mockStates()

	if err := writeShapefile(*shapefileOut, states); err != nil {
		return fmt.Errorf("writing shapefile fixture: %w", err)
	}
	log.Printf("wrote shapefile fixture: %s (%d states)", *shapefileOut, len(states))

	if err := writeCSV(*csvOut, states); err != nil {
		return fmt.Errorf("writing CSV fixture: %w", err)
	}
	log.Printf("wrote CSV fixture: %s", *csvOut)

	return printStats(states)
}

// mockStates returns the fixed fixture set: rectangular fake states covering
// the cases the pipeline has to handle. Lakeland carries a counter-clockwise
// lake ring, Farshore lies entirely west of the continental box, and Spanning
// straddles the box's western edge.
func mockStates() []mockState {
	return []mockState{
		{
			name: "Lakeland",
			rings: [][]shp.Point{
				rect(-100, 30, -90, 40, true),
				rect(-97, 33, -93, 37, false), // lake, counter-clockwise
			},
			population: 4.2e6, wins: 5, estab: 390, receipts: 1.8e8,
		},
		{
			name:       "Plainfield",
			rings:      [][]shp.Point{rect(-89, 30, -80, 40, true)},
			population: 7.9e6, wins: 2, estab: 655, receipts: 3.3e8,
		},
		{
			name:       "Northgate",
			rings:      [][]shp.Point{rect(-110, 41, -102, 48, true)},
			population: 9.1e5, wins: 1, estab: 120, receipts: 4.6e7,
		},
		{
			name:       "Farshore",
			rings:      [][]shp.Point{rect(-160, 20, -154, 23, true)},
			population: 1.4e6, wins: 1, estab: 210, receipts: 7.0e7,
		},
		{
			name:       "Spanning",
			rings:      [][]shp.Point{rect(-128, 40, -120, 46, true)},
			population: 4.0e6, wins: 6, estab: 510, receipts: 2.6e8,
		},
	}
}

// rect builds a closed rectangular ring. Clockwise winding marks an outer
// ring, counter-clockwise a hole.
func rect(minLon, minLat, maxLon, maxLat float64, clockwise bool) []shp.Point {
	if clockwise {
		return []shp.Point{
			{X: minLon, Y: minLat},
			{X: minLon, Y: maxLat},
			{X: maxLon, Y: maxLat},
			{X: maxLon, Y: minLat},
			{X: minLon, Y: minLat},
		}
	}
	return []shp.Point{
		{X: minLon, Y: minLat},
		{X: maxLon, Y: minLat},
		{X: maxLon, Y: maxLat},
		{X: minLon, Y: maxLat},
		{X: minLon, Y: minLat},
	}
}

func writeShapefile(path string, states []mockState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer w.Close()

	if err := w.SetFields([]shp.Field{shp.StringField("NAME", 25)}); err != nil {
		return fmt.Errorf("set fields: %w", err)
	}

	for i, s := range states {
		w.Write((*shp.Polygon)(shp.NewPolyLine(s.rings)))
		if err := w.WriteAttribute(i, 0, s.name); err != nil {
			return fmt.Errorf("attribute %q: %w", s.name, err)
		}
	}
	return nil
}

func writeCSV(path string, states []mockState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"state", "population", "wins", "estab", "receipts", "winsperpop", "winsperreceipt"}); err != nil {
		return err
	}
	for _, s := range states {
		row := []string{
			s.name,
			strconv.FormatFloat(s.population, 'g', -1, 64),
			strconv.Itoa(s.wins),
			strconv.Itoa(s.estab),
			strconv.FormatFloat(s.receipts, 'g', -1, 64),
			strconv.FormatFloat(domain.WinsPerPop(s.wins, s.population), 'g', -1, 64),
			strconv.FormatFloat(domain.WinsPerReceipt(s.wins, s.receipts), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// printStats runs the fixture through the domain pipeline stages and prints
// the counts the test suites assert on.
func printStats(states []mockState) error {
	// Fixed clock for reproducible summary timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	var geometry []domain.GeometryRecord
	var attributes []domain.AttributeRecord
	polygonID := 0
	for _, s := range states {
		for _, ring := range s.rings {
			hole := !isClockwise(ring)
			for _, pt := range ring {
				geometry = append(geometry, domain.GeometryRecord{
					RegionKey: s.name,
					Lon:       pt.X,
					Lat:       pt.Y,
					PolygonID: polygonID,
					Hole:      hole,
				})
			}
			polygonID++
		}
		attributes = append(attributes, domain.AttributeRecord{
			RegionKey:      s.name,
			Population:     s.population,
			Wins:           s.wins,
			Establishments: s.estab,
			Receipts:       s.receipts,
			WinsPerPop:     domain.WinsPerPop(s.wins, s.population),
			WinsPerReceipt: domain.WinsPerReceipt(s.wins, s.receipts),
		})
	}

	if err := domain.ValidateKeys(domain.GeometryKeys(geometry), domain.AttributeKeys(attributes)); err != nil {
		return err
	}
	joined, err := domain.Join(geometry, attributes)
	if err != nil {
		return err
	}
	inBox := domain.FilterBBox(joined, domain.ContinentalUS)
	filtered := domain.DropHoles(inBox)
	summaries := domain.SummarizeRegions(filtered)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Vertices: %d total, %d in box, %d after dropping holes\n",
		len(joined), len(inBox), len(filtered))
	fmt.Printf("Regions rendered: %d\n", len(summaries))
	for _, s := range summaries {
		fmt.Printf("  %s: vertices=%d winsperpop=%g winsperreceipt=%g\n",
			s.Region, s.VertexCount, s.WinsPerPop, s.WinsPerReceipt)
	}
	return nil
}

// isClockwise mirrors the winding test the shapefile reader applies, via the
// signed shoelace area (negative in lon/lat means clockwise).
func isClockwise(ring []shp.Point) bool {
	var area float64
	for i := 0; i < len(ring)-1; i++ {
		area += (ring[i+1].X - ring[i].X) * (ring[i+1].Y + ring[i].Y)
	}
	return area > 0
}
