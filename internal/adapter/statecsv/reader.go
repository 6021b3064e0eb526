// Package statecsv loads the per-state attribute table from a delimited text
// file. It implements pipeline.AttributeSource.
package statecsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/award-map-report/internal/domain"
)

// Required columns. The two ratio columns are optional stored input; when a
// file omits them the ratios are derived from wins/population and
// wins/receipts.
var requiredColumns = []string{"state", "population", "wins", "estab", "receipts"}

// Source reads state attribute records from a CSV file.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a CSV attribute source for the given path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// LoadAttributes reads and parses the whole attribute file.
// All failures are reported as *domain.InputError.
func (s *Source) LoadAttributes(ctx context.Context) ([]domain.AttributeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, domain.NewInputError(s.path, err)
	}
	defer f.Close()

	records, err := parseAttributes(f, s.path)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attributes loaded", "path", s.path, "rows", len(records))
	return records, nil
}

// parseAttributes decodes header-mapped CSV rows into AttributeRecords.
func parseAttributes(r io.Reader, source string) ([]domain.AttributeRecord, error) {
	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, domain.NewInputError(source, err)
	}
	if len(all) < 2 {
		return nil, domain.NewInputError(source, fmt.Errorf("no data rows"))
	}

	cols := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, domain.NewInputError(source, fmt.Errorf("missing column %q", c))
		}
	}
	_, hasPerPop := cols["winsperpop"]
	_, hasPerReceipt := cols["winsperreceipt"]

	records := make([]domain.AttributeRecord, 0, len(all)-1)
	seen := make(map[string]int, len(all)-1)

	for i, row := range all[1:] {
		line := i + 2

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		key := field("state")
		if key == "" {
			return nil, domain.NewInputError(source, fmt.Errorf("line %d: empty state name", line))
		}
		if prev, dup := seen[key]; dup {
			return nil, domain.NewInputError(source, fmt.Errorf("line %d: duplicate state %q (first seen line %d)", line, key, prev))
		}
		seen[key] = line

		population, err := parseFloatColumn(field("population"), "population", line, source)
		if err != nil {
			return nil, err
		}
		receipts, err := parseFloatColumn(field("receipts"), "receipts", line, source)
		if err != nil {
			return nil, err
		}
		wins, err := parseIntColumn(field("wins"), "wins", line, source)
		if err != nil {
			return nil, err
		}
		estab, err := parseIntColumn(field("estab"), "estab", line, source)
		if err != nil {
			return nil, err
		}

		// Positive denominators keep the ratio columns well-defined; a zero
		// here would otherwise surface as a silent division by zero.
		if population <= 0 {
			return nil, domain.NewInputError(source, fmt.Errorf("line %d: population must be positive, got %g", line, population))
		}
		if receipts <= 0 {
			return nil, domain.NewInputError(source, fmt.Errorf("line %d: receipts must be positive, got %g", line, receipts))
		}

		rec := domain.AttributeRecord{
			RegionKey:      key,
			Population:     population,
			Wins:           wins,
			Establishments: estab,
			Receipts:       receipts,
		}

		// Stored ratio columns win over recomputation when present.
		if hasPerPop {
			rec.WinsPerPop, err = parseFloatColumn(field("winsperpop"), "winsperpop", line, source)
			if err != nil {
				return nil, err
			}
		} else {
			rec.WinsPerPop = domain.WinsPerPop(wins, population)
		}
		if hasPerReceipt {
			rec.WinsPerReceipt, err = parseFloatColumn(field("winsperreceipt"), "winsperreceipt", line, source)
			if err != nil {
				return nil, err
			}
		} else {
			rec.WinsPerReceipt = domain.WinsPerReceipt(wins, receipts)
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseFloatColumn(value, column string, line int, source string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, domain.NewInputError(source, fmt.Errorf("line %d: column %q: %w", line, column, err))
	}
	return v, nil
}

func parseIntColumn(value, column string, line int, source string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.NewInputError(source, fmt.Errorf("line %d: column %q: %w", line, column, err))
	}
	return v, nil
}
