package rules

import (
	"fmt"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// fakeController is a scriptable world.Controller that records every action
// it is asked to perform. Legality is whatever the test configures.
type fakeController struct {
	loc     model.Coord
	typ     model.RobotType
	team    model.Team
	inv     model.Inventory
	anchors map[model.Anchor]int
	held    model.Anchor

	robots      []model.RobotInfo
	islands     []int
	islandAt    map[model.Coord]int
	islandCells map[int][]model.Coord
	anchored    map[int]model.Anchor
	wells       []model.WellInfo

	blocked        map[model.Direction]bool
	collectible    map[model.Coord]bool
	attackable     map[model.Coord]bool
	canTransfer    bool
	canTake        bool
	canBuildAnchor bool
	canBuildRobot  bool

	actErr      error // returned by every action when set
	calls       []string
	moveQueries int
	indicator   string
	yields      int
}

func newFake(t model.RobotType, at model.Coord) *fakeController {
	return &fakeController{
		loc:         at,
		typ:         t,
		team:        model.TeamA,
		inv:         make(model.Inventory),
		anchors:     make(map[model.Anchor]int),
		islandAt:    make(map[model.Coord]int),
		islandCells: make(map[int][]model.Coord),
		anchored:    make(map[int]model.Anchor),
		blocked:     make(map[model.Direction]bool),
		collectible: make(map[model.Coord]bool),
		attackable:  make(map[model.Coord]bool),
	}
}

func (f *fakeController) addIsland(id int, cells ...model.Coord) {
	f.islands = append(f.islands, id)
	f.islandCells[id] = cells
	for _, c := range cells {
		f.islandAt[c] = id
	}
}

func (f *fakeController) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.actErr
}

func (f *fakeController) ID() int               { return 1 }
func (f *fakeController) Location() model.Coord { return f.loc }
func (f *fakeController) Type() model.RobotType { return f.typ }
func (f *fakeController) Team() model.Team      { return f.team }
func (f *fakeController) RoundNum() int         { return 1 }
func (f *fakeController) Anchor() model.Anchor  { return f.held }

func (f *fakeController) SetIndicatorString(s string) { f.indicator = s }

func (f *fakeController) Yield() { f.yields++ }

func (f *fakeController) ResourceAmount(kind model.ResourceKind) int { return f.inv[kind] }
func (f *fakeController) NumAnchors(a model.Anchor) int              { return f.anchors[a] }

func (f *fakeController) SenseNearbyRobots(radiusSquared int, team model.Team) []model.RobotInfo {
	var out []model.RobotInfo
	for _, r := range f.robots {
		if team != model.NoTeam && r.Team != team {
			continue
		}
		if radiusSquared >= 0 && f.loc.DistanceSquaredTo(r.Location) > radiusSquared {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeController) SenseNearbyIslands() []int { return f.islands }

func (f *fakeController) SenseIsland(loc model.Coord) (int, error) {
	if id, ok := f.islandAt[loc]; ok {
		return id, nil
	}
	return world.NoIsland, nil
}

func (f *fakeController) SenseAnchor(island int) (model.Anchor, error) {
	if _, ok := f.islandCells[island]; !ok {
		return model.NoAnchor, world.ErrNotVisible
	}
	return f.anchored[island], nil
}

func (f *fakeController) SenseNearbyIslandLocations(island int) ([]model.Coord, error) {
	cells, ok := f.islandCells[island]
	if !ok {
		return nil, world.ErrNotVisible
	}
	return cells, nil
}

func (f *fakeController) SenseNearbyWells() []model.WellInfo { return f.wells }

func (f *fakeController) CanMove(dir model.Direction) bool {
	f.moveQueries++
	return dir != model.Center && !f.blocked[dir]
}

func (f *fakeController) Move(dir model.Direction) error {
	if err := f.record("move %v", dir); err != nil {
		return err
	}
	f.loc = f.loc.Add(dir)
	return nil
}

func (f *fakeController) CanAttack(loc model.Coord) bool { return f.attackable[loc] }

func (f *fakeController) Attack(loc model.Coord) error { return f.record("attack %v", loc) }

func (f *fakeController) CanTransferResource(to model.Coord, kind model.ResourceKind, amount int) bool {
	return f.canTransfer && f.inv[kind] >= amount
}

func (f *fakeController) TransferResource(to model.Coord, kind model.ResourceKind, amount int) error {
	if err := f.record("transfer %s %d %v", kind, amount, to); err != nil {
		return err
	}
	f.inv[kind] -= amount
	return nil
}

func (f *fakeController) CanCollectResource(loc model.Coord, amount int) bool {
	return f.collectible[loc]
}

func (f *fakeController) CollectResource(loc model.Coord, amount int) error {
	if err := f.record("collect %v", loc); err != nil {
		return err
	}
	f.inv[model.Adamantium] += 2
	return nil
}

func (f *fakeController) CanBuildAnchor(a model.Anchor) bool { return f.canBuildAnchor }

func (f *fakeController) BuildAnchor(a model.Anchor) error {
	if err := f.record("build anchor %s", a); err != nil {
		return err
	}
	f.anchors[a]++
	return nil
}

// CanTakeAnchor does not look at what the robot holds, so the policy's own
// guards are what keeps a second anchor out of its hands.
func (f *fakeController) CanTakeAnchor(from model.Coord, a model.Anchor) bool { return f.canTake }

func (f *fakeController) TakeAnchor(from model.Coord, a model.Anchor) error {
	if err := f.record("take anchor %v", from); err != nil {
		return err
	}
	f.held = a
	return nil
}

func (f *fakeController) CanPlaceAnchor() bool {
	_, onIsland := f.islandAt[f.loc]
	return f.held != model.NoAnchor && onIsland
}

func (f *fakeController) PlaceAnchor() error {
	if err := f.record("place anchor %v", f.loc); err != nil {
		return err
	}
	f.anchored[f.islandAt[f.loc]] = f.held
	f.held = model.NoAnchor
	return nil
}

func (f *fakeController) CanBuildRobot(t model.RobotType, loc model.Coord) bool {
	return f.canBuildRobot
}

func (f *fakeController) BuildRobot(t model.RobotType, loc model.Coord) error {
	return f.record("build %s %v", t, loc)
}

// scriptedRand replays fixed values. When a queue runs dry it returns 0,
// which means "first direction" and "coin succeeds".
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// directionIndex returns the Intn value that selects d.
func directionIndex(d model.Direction) int {
	for i, dir := range model.Directions {
		if dir == d {
			return i
		}
	}
	return -1
}

func coord(x, y int) model.Coord { return model.Coord{X: x, Y: y} }
