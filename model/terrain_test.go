package model

import "testing"

func TestTerrainGridAt(t *testing.T) {
	grid := &TerrainGrid{
		Cols: 4,
		Rows: 2,
		Grid: []TerrainType{
			Ground, Ground, Wall, Wall,
			Wall, Ground, Ground, Ground,
		},
	}

	tests := []struct {
		c    Coord
		want TerrainType
	}{
		{Coord{0, 0}, Ground},
		{Coord{2, 0}, Wall},
		{Coord{0, 1}, Wall},
		{Coord{3, 1}, Ground},
	}
	for _, tc := range tests {
		got := grid.At(tc.c)
		if got != tc.want {
			t.Errorf("At(%v) = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestTerrainGridOutOfBounds(t *testing.T) {
	grid := NewTerrainGrid(2, 2)

	// Off-map cells read as walls so nothing walks off the edge.
	for _, c := range []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := grid.At(c); got != Wall {
			t.Errorf("At(%v) = %d, want Wall", c, got)
		}
		if grid.Passable(c) {
			t.Errorf("Passable(%v) = true, want false", c)
		}
	}
}

func TestTerrainGridSet(t *testing.T) {
	grid := NewTerrainGrid(3, 3)
	if got := grid.CountPassable(); got != 9 {
		t.Fatalf("CountPassable() = %d, want 9", got)
	}

	grid.Set(Coord{1, 1}, Wall)
	grid.Set(Coord{5, 5}, Wall) // ignored

	if grid.Passable(Coord{1, 1}) {
		t.Error("expected (1,1) to be a wall")
	}
	if got := grid.CountPassable(); got != 8 {
		t.Errorf("CountPassable() = %d, want 8", got)
	}
}
