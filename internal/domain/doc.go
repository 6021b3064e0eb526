// Package domain models the state award-map dataset: flattened state boundary
// geometry joined with per-state award statistics.
//
// # Data Sources
//
// Geometry comes from a US state boundary shapefile (Census TIGER/Line or
// equivalent). Each state polygon is flattened into per-vertex rows, one row
// sequence per polygon ring, in ring vertex order — rendering depends on that
// order. ESRI shapefiles wind outer rings clockwise and interior "hole" rings
// (lakes, enclaves) counter-clockwise; the shapefile adapter uses the winding
// to set the Hole flag, and hole rings are excluded before rendering so lakes
// are not filled.
//
// Attributes come from a delimited text file with one row per state:
//
//	state, population, wins, estab, receipts [, winsperpop, winsperreceipt]
//
// "wins" is the state's award-win count, "estab" and "receipts" describe the
// state's entertainment industry. The two ratio columns are stored input; when
// the file omits them they are derived with [WinsPerPop] and [WinsPerReceipt].
//
// # Key Matching
//
// The canonical state-name string is the region key joining geometry to
// attributes. The two key sets must be identical — not merely overlapping.
// A mismatch is a fatal [KeySetMismatchError] carrying both sorted key lists,
// and is the only condition under which a run halts on input content.
//
// # Geographic Filtering
//
// Rendering is restricted to the continental United States via the fixed
// closed bounding box [ContinentalUS]: [-124.7625, -66.9326] longitude by
// [24.5210, 49.3845] latitude. Alaska, Hawaii, and offshore territories fall
// outside it and their vertices are dropped before plotting.
package domain
