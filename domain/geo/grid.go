package geo

import (
	"civicpulse/domain/core"
)

// CellOutOfBounds is the sentinel returned when no cell contains a point.
// A miss is a valid lookup result, never an error.
const CellOutOfBounds core.CellID = "out_of_bounds"

// CellStatus represents the aggregate state of a grid cell
type CellStatus string

const (
	CellStatusIdle   CellStatus = "idle"
	CellStatusActive CellStatus = "active"
)

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds is an axis-aligned rectangle defined by its min and max corners
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the rectangle.
// All four edges are inclusive.
func (b Bounds) Contains(lat, lon float64) bool {
	return b.MinLat <= lat && lat <= b.MaxLat &&
		b.MinLon <= lon && lon <= b.MaxLon
}

// GridCell is one fixed geographic rectangle used to bucket reports and
// aggregate confirmed incidents. Cells are provisioned externally and never
// created or deleted by the pipeline; only the incident set mutates.
type GridCell struct {
	ID          core.CellID    `json:"id"`
	Bounds      Bounds         `json:"bounds"`
	Incidents   []string       `json:"incidents"`
	Status      CellStatus     `json:"status"`
	LastUpdated core.Timestamp `json:"last_updated"`
}

// HasIncident reports whether category is already in the cell's incident set
func (c *GridCell) HasIncident(category string) bool {
	for _, inc := range c.Incidents {
		if inc == category {
			return true
		}
	}
	return false
}

// Grid is the in-memory spatial index over the provisioned cells.
// Cells keep their provisioning order; lookups scan that order and the
// first containing cell wins, which makes overlap resolution deterministic.
type Grid struct {
	cells []GridCell
}

// NewGrid builds a grid from cells in their provisioning order
func NewGrid(cells []GridCell) *Grid {
	return &Grid{cells: cells}
}

// Locate maps a coordinate to the id of the first cell containing it,
// or CellOutOfBounds when no cell does.
func (g *Grid) Locate(lat, lon float64) core.CellID {
	for i := range g.cells {
		if g.cells[i].Bounds.Contains(lat, lon) {
			return g.cells[i].ID
		}
	}
	return CellOutOfBounds
}

// Size returns the number of cells in the grid
func (g *Grid) Size() int {
	return len(g.cells)
}
