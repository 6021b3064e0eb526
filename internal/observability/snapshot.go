package observability

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteSnapshot gathers all metrics and writes them to path in the Prometheus
// text exposition format. A one-shot run has no scrape endpoint, so the final
// counters are persisted alongside the rendered maps instead.
func WriteSnapshot(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics snapshot: %w", err)
	}

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			return fmt.Errorf("encode metrics snapshot: %w", err)
		}
	}

	return f.Close()
}
