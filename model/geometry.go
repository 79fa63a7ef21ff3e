package model

import "fmt"

// Coord is a map location. North is +Y, matching the host's coordinate system.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add translates c one step in direction d.
func (c Coord) Add(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// DistanceSquaredTo is the squared euclidean distance, the unit every host
// radius is expressed in.
func (c Coord) DistanceSquaredTo(o Coord) int {
	dx := o.X - c.X
	dy := o.Y - c.Y
	return dx*dx + dy*dy
}

// IsAdjacentTo reports whether o is one of the 8 neighbours of c.
func (c Coord) IsAdjacentTo(o Coord) bool {
	d := c.DistanceSquaredTo(o)
	return d > 0 && d <= 2
}

// DirectionTo returns the compass direction that best approximates the
// heading from c to o. Headings within ~22.5° of an axis snap to that axis.
func (c Coord) DirectionTo(o Coord) Direction {
	dx := float64(o.X - c.X)
	dy := float64(o.Y - c.Y)
	adx, ady := abs(dx), abs(dy)

	switch {
	case adx >= 2.414*ady:
		if dx > 0 {
			return East
		}
		if dx < 0 {
			return West
		}
		return Center
	case ady >= 2.414*adx:
		if dy > 0 {
			return North
		}
		return South
	case dy > 0:
		if dx > 0 {
			return NorthEast
		}
		return NorthWest
	default:
		if dx > 0 {
			return SouthEast
		}
		return SouthWest
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is one of the 8 compass headings, or Center for "stay put".
type Direction int

const (
	Center Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions is the enumeration order used when a heading is picked at random.
var Directions = []Direction{
	North,
	NorthEast,
	East,
	SouthEast,
	South,
	SouthWest,
	West,
	NorthWest,
}

var directionDeltas = map[Direction][2]int{
	Center:    {0, 0},
	North:     {0, 1},
	NorthEast: {1, 1},
	East:      {1, 0},
	SouthEast: {1, -1},
	South:     {0, -1},
	SouthWest: {-1, -1},
	West:      {-1, 0},
	NorthWest: {-1, 1},
}

// Delta returns the (dx, dy) step for d. Unknown values behave like Center.
func (d Direction) Delta() (int, int) {
	v := directionDeltas[d]
	return v[0], v[1]
}

func (d Direction) String() string {
	switch d {
	case Center:
		return "CENTER"
	case North:
		return "NORTH"
	case NorthEast:
		return "NORTHEAST"
	case East:
		return "EAST"
	case SouthEast:
		return "SOUTHEAST"
	case South:
		return "SOUTH"
	case SouthWest:
		return "SOUTHWEST"
	case West:
		return "WEST"
	case NorthWest:
		return "NORTHWEST"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
