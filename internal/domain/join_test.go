package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKeys(t *testing.T) {
	tests := []struct {
		name     string
		geometry []string
		attrs    []string
		wantErr  bool
	}{
		{"identical sets", []string{"Alabama", "Wyoming"}, []string{"Alabama", "Wyoming"}, false},
		{"order independent", []string{"Wyoming", "Alabama"}, []string{"Alabama", "Wyoming"}, false},
		{"duplicates collapse", []string{"Alabama", "Alabama", "Wyoming"}, []string{"Wyoming", "Alabama"}, false},
		{"both empty", nil, nil, false},
		{"geometry missing a key", []string{"Alabama"}, []string{"Alabama", "Wyoming"}, true},
		{"attributes missing a key", []string{"Alabama", "Wyoming"}, []string{"Alabama"}, true},
		{"same size, different keys", []string{"Alabama", "Texas"}, []string{"Alabama", "Wyoming"}, true},
		{"disjoint", []string{"Texas"}, []string{"Ohio"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeys(tt.geometry, tt.attrs)
			if tt.wantErr {
				require.Error(t, err)
				var mismatch *KeySetMismatchError
				require.ErrorAs(t, err, &mismatch)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateKeys_MismatchListsBothSides(t *testing.T) {
	err := ValidateKeys([]string{"Alabama"}, []string{"Wyoming", "Alabama"})
	require.Error(t, err)

	var mismatch *KeySetMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []string{"Alabama"}, mismatch.GeometryKeys)
	assert.Equal(t, []string{"Alabama", "Wyoming"}, mismatch.AttributeKeys)

	// Diagnostic message carries both sorted lists.
	assert.Contains(t, err.Error(), "geometry=[Alabama]")
	assert.Contains(t, err.Error(), "attributes=[Alabama, Wyoming]")
}

func TestJoin(t *testing.T) {
	geometry := []GeometryRecord{
		{RegionKey: "Alabama", Lon: -86.8, Lat: 32.8, PolygonID: 0},
		{RegionKey: "Alabama", Lon: -86.9, Lat: 32.9, PolygonID: 0},
		{RegionKey: "Wyoming", Lon: -107.3, Lat: 43.1, PolygonID: 1},
	}
	attrs := []AttributeRecord{
		{RegionKey: "Wyoming", Population: 0.6e6, Wins: 1, Establishments: 90, Receipts: 5.0e7, WinsPerPop: 1.0 / 0.6e6, WinsPerReceipt: 1.0 / 5.0e7},
		{RegionKey: "Alabama", Population: 5.0e6, Wins: 3, Establishments: 400, Receipts: 2.1e8, WinsPerPop: 3.0 / 5.0e6, WinsPerReceipt: 3.0 / 2.1e8},
	}

	require.NoError(t, ValidateKeys(GeometryKeys(geometry), AttributeKeys(attrs)))

	joined, err := Join(geometry, attrs)
	require.NoError(t, err)
	require.Len(t, joined, 3)

	// Geometry order preserved, attribute values carried per key.
	assert.Equal(t, "Alabama", joined[0].RegionKey)
	assert.Equal(t, -86.8, joined[0].Lon)
	assert.Equal(t, 3, joined[0].Wins)
	assert.Equal(t, 5.0e6, joined[0].Population)

	assert.Equal(t, "Alabama", joined[1].RegionKey)
	assert.Equal(t, 3, joined[1].Wins)

	assert.Equal(t, "Wyoming", joined[2].RegionKey)
	assert.Equal(t, 1, joined[2].Wins)
	assert.Equal(t, 0.6e6, joined[2].Population)
	assert.Equal(t, 1, joined[2].PolygonID)
}

func TestJoin_MissingAttributeRow(t *testing.T) {
	geometry := []GeometryRecord{{RegionKey: "Alaska", Lon: -150, Lat: 64}}

	_, err := Join(geometry, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no attribute row for region "Alaska"`)
}

func TestJoin_EmptyGeometry(t *testing.T) {
	joined, err := Join(nil, []AttributeRecord{{RegionKey: "Ohio"}})
	require.NoError(t, err)
	assert.Empty(t, joined)
}

func TestFilterBBox(t *testing.T) {
	records := []JoinedRecord{
		{RegionKey: "Massachusetts", Lon: -70.0, Lat: 42.0}, // inside
		{RegionKey: "Alaska", Lon: -130.0, Lat: 55.0},       // west of box
		{RegionKey: "Hawaii", Lon: -157.8, Lat: 21.3},       // west and south
		{RegionKey: "Washington", Lon: -124.7625, Lat: 47.0}, // on the closed boundary
	}

	kept := FilterBBox(records, ContinentalUS)
	require.Len(t, kept, 2)
	assert.Equal(t, "Massachusetts", kept[0].RegionKey)
	assert.Equal(t, "Washington", kept[1].RegionKey)
}

func TestFilterBBox_Idempotent(t *testing.T) {
	records := []JoinedRecord{
		{RegionKey: "Massachusetts", Lon: -70.0, Lat: 42.0},
		{RegionKey: "Alaska", Lon: -130.0, Lat: 55.0},
		{RegionKey: "Texas", Lon: -99.9, Lat: 31.0},
	}

	once := FilterBBox(records, ContinentalUS)
	twice := FilterBBox(once, ContinentalUS)
	assert.Empty(t, cmp.Diff(once, twice))
}

func TestDropHoles(t *testing.T) {
	records := []JoinedRecord{
		{RegionKey: "Minnesota", PolygonID: 0, Hole: false},
		{RegionKey: "Minnesota", PolygonID: 1, Hole: true}, // lake ring
		{RegionKey: "Utah", PolygonID: 2, Hole: false},
		{RegionKey: "Utah", PolygonID: 3, Hole: true},
	}

	kept := DropHoles(records)
	require.Len(t, kept, 2)
	assert.Equal(t, []JoinedRecord{records[0], records[2]}, kept)
	for _, r := range kept {
		assert.False(t, r.Hole)
	}
}

func TestDropHoles_NoHoles(t *testing.T) {
	records := []JoinedRecord{
		{RegionKey: "Kansas", PolygonID: 0},
		{RegionKey: "Iowa", PolygonID: 1},
	}
	assert.Empty(t, cmp.Diff(records, DropHoles(records)))
}

func TestDerivedRatios(t *testing.T) {
	tests := []struct {
		name        string
		wins        int
		denominator float64
		fn          func(int, float64) float64
		expected    float64
	}{
		{"wins per pop", 4, 2.0e6, WinsPerPop, 2.0e-6},
		{"wins per pop zero population", 4, 0, WinsPerPop, 0},
		{"wins per pop negative population", 4, -1, WinsPerPop, 0},
		{"wins per receipt", 10, 4.0e8, WinsPerReceipt, 2.5e-8},
		{"wins per receipt zero receipts", 10, 0, WinsPerReceipt, 0},
		{"zero wins", 0, 1.0e6, WinsPerPop, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fn(tt.wins, tt.denominator))
		})
	}
}

func TestMetricValue(t *testing.T) {
	r := JoinedRecord{WinsPerPop: 1.5e-6, WinsPerReceipt: 2.5e-8}
	assert.Equal(t, 1.5e-6, MetricWinsPerPop.Value(r))
	assert.Equal(t, 2.5e-8, MetricWinsPerReceipt.Value(r))
}

func TestGeometryKeys(t *testing.T) {
	records := []GeometryRecord{
		{RegionKey: "Ohio"},
		{RegionKey: "Ohio"},
		{RegionKey: "Maine"},
		{RegionKey: "Ohio"},
	}
	assert.Equal(t, []string{"Ohio", "Maine"}, GeometryKeys(records))
}

func TestSummarizeRegions(t *testing.T) {
	fixedTime := time.Date(2024, 4, 26, 12, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	records := []JoinedRecord{
		{RegionKey: "Georgia", Population: 1.1e7, Wins: 7, Establishments: 900, Receipts: 3.0e9, WinsPerPop: 7 / 1.1e7, WinsPerReceipt: 7 / 3.0e9},
		{RegionKey: "Georgia", Population: 1.1e7, Wins: 7},
		{RegionKey: "Nevada", Population: 3.2e6, Wins: 2, WinsPerPop: 2 / 3.2e6},
		{RegionKey: "Georgia", Population: 1.1e7, Wins: 7},
	}

	summaries := SummarizeRegions(records)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Georgia", summaries[0].Region)
	assert.Equal(t, 3, summaries[0].VertexCount)
	assert.Equal(t, 7, summaries[0].Wins)
	assert.Equal(t, 1.1e7, summaries[0].Population)
	assert.Equal(t, fixedTime, summaries[0].GeneratedAt)

	assert.Equal(t, "Nevada", summaries[1].Region)
	assert.Equal(t, 1, summaries[1].VertexCount)
	assert.Equal(t, fixedTime, summaries[1].GeneratedAt)
}

func TestInputError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewInputError("state_attrs.csv", cause)

	assert.Equal(t, "input state_attrs.csv: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestBBoxContains(t *testing.T) {
	box := BBox{MinLon: -10, MaxLon: 10, MinLat: -5, MaxLat: 5}

	tests := []struct {
		name     string
		lon, lat float64
		inside   bool
	}{
		{"center", 0, 0, true},
		{"min corner", -10, -5, true},
		{"max corner", 10, 5, true},
		{"west of box", -10.001, 0, false},
		{"north of box", 0, 5.001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, box.Contains(tt.lon, tt.lat))
		})
	}
}
