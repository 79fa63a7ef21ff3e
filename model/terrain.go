package model

// TerrainType classifies a single map cell.
type TerrainType byte

const (
	Ground TerrainType = 0 // passable
	Wall   TerrainType = 1 // impassable, cannot be built on
)

// TerrainGrid is a row-major cell map with (0,0) at the south-west corner.
type TerrainGrid struct {
	Cols int
	Rows int
	Grid []TerrainType // Grid[y*Cols + x]
}

// NewTerrainGrid returns an all-ground grid.
func NewTerrainGrid(cols, rows int) *TerrainGrid {
	return &TerrainGrid{
		Cols: cols,
		Rows: rows,
		Grid: make([]TerrainType, cols*rows),
	}
}

// InBounds reports whether c lies on the map.
func (g *TerrainGrid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Cols && c.Y >= 0 && c.Y < g.Rows
}

// At returns the terrain at c. Out-of-bounds cells read as Wall so callers
// never step off the map.
func (g *TerrainGrid) At(c Coord) TerrainType {
	if !g.InBounds(c) {
		return Wall
	}
	return g.Grid[c.Y*g.Cols+c.X]
}

// Set overwrites the terrain at c. Out-of-bounds writes are ignored.
func (g *TerrainGrid) Set(c Coord, t TerrainType) {
	if !g.InBounds(c) {
		return
	}
	g.Grid[c.Y*g.Cols+c.X] = t
}

// Passable reports whether a robot may stand on c.
func (g *TerrainGrid) Passable(c Coord) bool {
	return g.At(c) == Ground
}

// CountPassable returns the number of ground cells.
func (g *TerrainGrid) CountPassable() int {
	n := 0
	for _, t := range g.Grid {
		if t == Ground {
			n++
		}
	}
	return n
}
