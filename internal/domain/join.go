package domain

import (
	"fmt"
	"sort"
)

// GeometryKeys returns the distinct region keys of the geometry collection,
// in order of first appearance.
func GeometryKeys(records []GeometryRecord) []string {
	seen := make(map[string]bool, len(records))
	var keys []string
	for i := range records {
		if !seen[records[i].RegionKey] {
			seen[records[i].RegionKey] = true
			keys = append(keys, records[i].RegionKey)
		}
	}
	return keys
}

// AttributeKeys returns the region keys of the attribute collection in row order.
func AttributeKeys(records []AttributeRecord) []string {
	keys := make([]string, len(records))
	for i := range records {
		keys[i] = records[i].RegionKey
	}
	return keys
}

// ValidateKeys succeeds iff the two key collections describe the same set.
// Order and duplicates are irrelevant. On mismatch it returns a
// *KeySetMismatchError carrying both sorted key lists.
func ValidateKeys(geometryKeys, attributeKeys []string) error {
	geomSet := toSet(geometryKeys)
	attrSet := toSet(attributeKeys)

	if len(geomSet) == len(attrSet) {
		equal := true
		for k := range geomSet {
			if !attrSet[k] {
				equal = false
				break
			}
		}
		if equal {
			return nil
		}
	}

	return &KeySetMismatchError{
		GeometryKeys:  sortedKeys(geomSet),
		AttributeKeys: sortedKeys(attrSet),
	}
}

// Join inner-joins geometry vertices with their region's attribute row.
// The result preserves geometry order and carries exactly the attribute
// values of the matching key. Every geometry key must have an attribute row;
// run ValidateKeys first to guarantee the join is total. Attribute keys are
// assumed unique (last row wins otherwise).
func Join(geometry []GeometryRecord, attributes []AttributeRecord) ([]JoinedRecord, error) {
	byKey := make(map[string]AttributeRecord, len(attributes))
	for i := range attributes {
		byKey[attributes[i].RegionKey] = attributes[i]
	}

	joined := make([]JoinedRecord, 0, len(geometry))
	for i := range geometry {
		g := geometry[i]
		a, ok := byKey[g.RegionKey]
		if !ok {
			return nil, fmt.Errorf("join: no attribute row for region %q", g.RegionKey)
		}
		joined = append(joined, JoinedRecord{
			RegionKey:      g.RegionKey,
			Lon:            g.Lon,
			Lat:            g.Lat,
			PolygonID:      g.PolygonID,
			Hole:           g.Hole,
			Population:     a.Population,
			Wins:           a.Wins,
			Establishments: a.Establishments,
			Receipts:       a.Receipts,
			WinsPerPop:     a.WinsPerPop,
			WinsPerReceipt: a.WinsPerReceipt,
		})
	}
	return joined, nil
}

// FilterBBox keeps the records whose vertex lies inside the closed box.
// Filtering an already-filtered sequence with the same box is a no-op.
func FilterBBox(records []JoinedRecord, box BBox) []JoinedRecord {
	kept := make([]JoinedRecord, 0, len(records))
	for i := range records {
		if box.Contains(records[i].Lon, records[i].Lat) {
			kept = append(kept, records[i])
		}
	}
	return kept
}

// DropHoles removes interior-ring vertices, preserving the order of the rest.
func DropHoles(records []JoinedRecord) []JoinedRecord {
	kept := make([]JoinedRecord, 0, len(records))
	for i := range records {
		if !records[i].Hole {
			kept = append(kept, records[i])
		}
	}
	return kept
}

// SummarizeRegions aggregates joined vertices into one summary per region,
// in order of first appearance. GeneratedAt is stamped from the package clock.
func SummarizeRegions(records []JoinedRecord) []RegionSummary {
	index := make(map[string]int, 64)
	var summaries []RegionSummary
	now := clock.Now()

	for i := range records {
		r := records[i]
		idx, ok := index[r.RegionKey]
		if !ok {
			idx = len(summaries)
			index[r.RegionKey] = idx
			summaries = append(summaries, RegionSummary{
				Region:         r.RegionKey,
				Population:     r.Population,
				Wins:           r.Wins,
				Establishments: r.Establishments,
				Receipts:       r.Receipts,
				WinsPerPop:     r.WinsPerPop,
				WinsPerReceipt: r.WinsPerReceipt,
				GeneratedAt:    now,
			})
		}
		summaries[idx].VertexCount++
	}
	return summaries
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
