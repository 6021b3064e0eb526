package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "award_map",
		Name:      "vertices_loaded_total",
		Help:      "Polygon-ring vertices flattened from the shapefile.",
	})
	reg.MustRegister(c)
	c.Add(42)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteSnapshot(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "award_map_vertices_loaded_total 42")
}

func TestWriteSnapshot_BadPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	err := WriteSnapshot(reg, filepath.Join(t.TempDir(), "missing", "metrics.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create metrics snapshot")
}
