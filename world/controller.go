// Package world defines the contract between the decision core and the host
// that simulates the game. The core only ever asks; the host arbitrates.
package world

import "github.com/nstehr/regressiongames/model"

// UnlimitedRadius asks a sensing call to use the robot's full vision radius.
const UnlimitedRadius = -1

// CollectAll asks CollectResource to take as much as one action allows.
const CollectAll = -1

// NoIsland is returned by SenseIsland for a cell that is not part of any island.
const NoIsland = -1

// Controller is a single robot's portal into the world for one turn.
// Every action has a Can* twin; callers check first, then act.
type Controller interface {
	// Self
	ID() int
	Location() model.Coord
	Type() model.RobotType
	Team() model.Team
	RoundNum() int
	ResourceAmount(kind model.ResourceKind) int
	NumAnchors(anchor model.Anchor) int
	Anchor() model.Anchor

	// Sensing
	SenseNearbyRobots(radiusSquared int, team model.Team) []model.RobotInfo
	SenseNearbyIslands() []int
	SenseIsland(loc model.Coord) (int, error)
	SenseAnchor(island int) (model.Anchor, error)
	SenseNearbyIslandLocations(island int) ([]model.Coord, error)
	SenseNearbyWells() []model.WellInfo

	// Legality + actions
	CanMove(dir model.Direction) bool
	Move(dir model.Direction) error
	CanAttack(loc model.Coord) bool
	Attack(loc model.Coord) error
	CanTransferResource(to model.Coord, kind model.ResourceKind, amount int) bool
	TransferResource(to model.Coord, kind model.ResourceKind, amount int) error
	CanCollectResource(loc model.Coord, amount int) bool
	CollectResource(loc model.Coord, amount int) error
	CanBuildAnchor(anchor model.Anchor) bool
	BuildAnchor(anchor model.Anchor) error
	CanTakeAnchor(from model.Coord, anchor model.Anchor) bool
	TakeAnchor(from model.Coord, anchor model.Anchor) error
	CanPlaceAnchor() bool
	PlaceAnchor() error
	CanBuildRobot(t model.RobotType, loc model.Coord) bool
	BuildRobot(t model.RobotType, loc model.Coord) error

	// Diagnostics
	SetIndicatorString(s string)

	// Yield ends the robot's turn. The driver calls it exactly once per turn.
	Yield()
}

// Inventory reads the robot's carried amounts into a model.Inventory.
func Inventory(c Controller) model.Inventory {
	inv := make(model.Inventory, len(model.ResourceKinds))
	for _, k := range model.ResourceKinds {
		inv[k] = c.ResourceAmount(k)
	}
	return inv
}

// Failer is implemented by controllers whose transport can break mid-turn.
// Err returns the first such failure, if any.
type Failer interface {
	Err() error
}
