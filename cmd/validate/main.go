// Command validate performs integrity checks across the two report inputs:
// the state boundary shapefile and the state attribute CSV. It verifies that
// the region key sets match, that attribute rows are sane, and that every
// region contributes drawable geometry — the same checks the report pipeline
// would fail on, but all at once and with per-phase diagnostics.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -shapefile data/states.shp \
//	  -attributes data/state_attrs.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/award-map-report/internal/adapter/shapefile"
	"github.com/couchcryptid/award-map-report/internal/adapter/statecsv"
	"github.com/couchcryptid/award-map-report/internal/domain"
)

// phase tracks pass/fail for a validation phase. Notes are informational and
// do not fail the phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	shapefilePath := flag.String("shapefile", "", "path to the state boundary shapefile")
	attributesPath := flag.String("attributes", "", "path to the state attribute CSV")
	regionField := flag.String("region-field", "NAME", "dbf column holding the state name")
	flag.Parse()

	if *shapefilePath == "" || *attributesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*shapefilePath, *attributesPath, *regionField); code != 0 {
		os.Exit(code)
	}
}

func run(shapefilePath, attributesPath, regionField string) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	fmt.Println("=== Award Map Input Validation ===")
	fmt.Println()

	geometry, err := shapefile.NewSource(shapefilePath, regionField, logger).LoadGeometry(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load geometry: %v\n", err)
		return 1
	}

	attributes, err := statecsv.NewSource(attributesPath, logger).LoadAttributes(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load attributes: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateKeyParity(geometry, attributes),
		validateAttributeSanity(attributes),
		validateGeometryCoverage(geometry),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d geometry vertices, %d regions, %d attribute rows\n",
		len(geometry), len(domain.GeometryKeys(geometry)), len(attributes))

	for _, p := range phases {
		if p.passed() && len(p.notes) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Printf("  Note: %s\n", n)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Key Parity ──
// The geometry and attribute key sets must be identical.

func validateKeyParity(geometry []domain.GeometryRecord, attributes []domain.AttributeRecord) *phase {
	p := &phase{name: "Phase 1: Key Parity (shapefile vs CSV)"}

	geomKeys := toSet(domain.GeometryKeys(geometry))
	attrKeys := toSet(domain.AttributeKeys(attributes))

	for k := range geomKeys {
		if !attrKeys[k] {
			p.errorf("region %q has geometry but no attribute row", k)
		}
	}
	for k := range attrKeys {
		if !geomKeys[k] {
			p.errorf("region %q has an attribute row but no geometry", k)
		}
	}
	return p
}

// ── Phase 2: Attribute Sanity ──
// Denominators must be positive and stored ratios consistent with their inputs.

func validateAttributeSanity(attributes []domain.AttributeRecord) *phase {
	p := &phase{name: "Phase 2: Attribute Sanity (CSV rows)"}

	for i := range attributes {
		a := &attributes[i]
		if a.Population <= 0 {
			p.errorf("%s: population %g is not positive", a.RegionKey, a.Population)
		}
		if a.Receipts <= 0 {
			p.errorf("%s: receipts %g is not positive", a.RegionKey, a.Receipts)
		}
		if a.Wins < 0 {
			p.errorf("%s: wins %d is negative", a.RegionKey, a.Wins)
		}
		if a.Establishments < 0 {
			p.errorf("%s: estab %d is negative", a.RegionKey, a.Establishments)
		}

		if a.Population > 0 && !ratioEq(a.WinsPerPop, domain.WinsPerPop(a.Wins, a.Population)) {
			p.errorf("%s: winsperpop %g inconsistent with wins/population %g",
				a.RegionKey, a.WinsPerPop, domain.WinsPerPop(a.Wins, a.Population))
		}
		if a.Receipts > 0 && !ratioEq(a.WinsPerReceipt, domain.WinsPerReceipt(a.Wins, a.Receipts)) {
			p.errorf("%s: winsperreceipt %g inconsistent with wins/receipts %g",
				a.RegionKey, a.WinsPerReceipt, domain.WinsPerReceipt(a.Wins, a.Receipts))
		}
	}
	return p
}

// ── Phase 3: Geometry Coverage ──
// Every region needs at least one drawable (non-hole) ring. Regions entirely
// outside the continental-US box are noted but not errors: Alaska and Hawaii
// are expected to be clipped away.

func validateGeometryCoverage(geometry []domain.GeometryRecord) *phase {
	p := &phase{name: "Phase 3: Geometry Coverage (rings)"}

	nonHole := map[string]int{}
	inBox := map[string]int{}
	for i := range geometry {
		g := &geometry[i]
		if !g.Hole {
			nonHole[g.RegionKey]++
		}
		if domain.ContinentalUS.Contains(g.Lon, g.Lat) {
			inBox[g.RegionKey]++
		}
	}

	for _, k := range domain.GeometryKeys(geometry) {
		if nonHole[k] == 0 {
			p.errorf("region %q has only hole rings", k)
		}
		if inBox[k] == 0 {
			p.notef("region %q lies entirely outside the continental-US box", k)
		}
	}
	return p
}

// ── Helpers ──

// ratioEq compares stored and recomputed ratios with a relative tolerance,
// loose enough for values rounded in the source file.
func ratioEq(stored, computed float64) bool {
	if stored == computed {
		return true
	}
	scale := math.Max(math.Abs(stored), math.Abs(computed))
	return math.Abs(stored-computed) <= 1e-3*scale
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
