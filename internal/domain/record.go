package domain

import "time"

// GeometryRecord is one polygon-ring vertex of a state boundary, flattened
// from the shapefile. Rows for a ring share a PolygonID and keep ring order.
type GeometryRecord struct {
	RegionKey string  `json:"region_key"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	PolygonID int     `json:"polygon_id"`
	Hole      bool    `json:"hole"`
}

// AttributeRecord is one row of the state attribute file. RegionKey is unique
// across the collection.
type AttributeRecord struct {
	RegionKey      string  `json:"region_key"`
	Population     float64 `json:"population"`
	Wins           int     `json:"wins"`
	Establishments int     `json:"establishments"`
	Receipts       float64 `json:"receipts"`
	WinsPerPop     float64 `json:"wins_per_pop"`
	WinsPerReceipt float64 `json:"wins_per_receipt"`
}

// JoinedRecord is the merged row: one geometry vertex carrying the attribute
// values of its region. Immutable after the join.
type JoinedRecord struct {
	RegionKey      string  `json:"region_key"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	PolygonID      int     `json:"polygon_id"`
	Hole           bool    `json:"hole"`
	Population     float64 `json:"population"`
	Wins           int     `json:"wins"`
	Establishments int     `json:"establishments"`
	Receipts       float64 `json:"receipts"`
	WinsPerPop     float64 `json:"wins_per_pop"`
	WinsPerReceipt float64 `json:"wins_per_receipt"`
}

// BBox is a closed longitude/latitude rectangle.
type BBox struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

// ContinentalUS bounds the lower 48 states.
var ContinentalUS = BBox{
	MinLon: -124.7625,
	MaxLon: -66.9326,
	MinLat: 24.5210,
	MaxLat: 49.3845,
}

// Contains reports whether the point lies inside the closed box.
func (b BBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// Metric selects which derived ratio shades a choropleth.
type Metric string

const (
	MetricWinsPerPop     Metric = "wins_per_pop"
	MetricWinsPerReceipt Metric = "wins_per_receipt"
)

// Value returns the record's value for the metric.
func (m Metric) Value(r JoinedRecord) float64 {
	if m == MetricWinsPerReceipt {
		return r.WinsPerReceipt
	}
	return r.WinsPerPop
}

// WinsPerPop derives the wins-per-population ratio. Returns 0 when population
// is not positive; loaders reject such rows before this is reached.
func WinsPerPop(wins int, population float64) float64 {
	if population <= 0 {
		return 0
	}
	return float64(wins) / population
}

// WinsPerReceipt derives the wins-per-receipt-dollar ratio. Returns 0 when
// receipts are not positive.
func WinsPerReceipt(wins int, receipts float64) float64 {
	if receipts <= 0 {
		return 0
	}
	return float64(wins) / receipts
}

// RegionSummary is the per-state aggregate published to the sink topic.
type RegionSummary struct {
	Region         string    `json:"region"`
	Population     float64   `json:"population"`
	Wins           int       `json:"wins"`
	Establishments int       `json:"establishments"`
	Receipts       float64   `json:"receipts"`
	WinsPerPop     float64   `json:"wins_per_pop"`
	WinsPerReceipt float64   `json:"wins_per_receipt"`
	VertexCount    int       `json:"vertex_count"`
	GeneratedAt    time.Time `json:"generated_at"`
}
