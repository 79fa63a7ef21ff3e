// Package sandbox is a small in-memory host: a grid with walls, wells,
// islands and robots, enforcing one move and one action per robot per round.
// It backs tests and the -sandbox CLI mode.
package sandbox

import (
	"fmt"
	"sort"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// CollectRate is the most a carrier pulls from a well in one action.
const CollectRate = 2

var startingHealth = map[model.RobotType]int{
	model.Headquarters: 100000,
	model.Carrier:      150,
	model.Launcher:     200,
	model.Booster:      150,
	model.Destabilizer: 300,
	model.Amplifier:    120,
}

// Robot is the host-side record of one robot.
type Robot struct {
	ID        int
	Team      model.Team
	Type      model.RobotType
	Location  model.Coord
	Health    int
	Inventory model.Inventory
	Anchors   map[model.Anchor]int // headquarters stock
	Held      model.Anchor         // carrier cargo
	Indicator string
	Yields    int

	moves   int
	actions int
}

func (r *Robot) info() model.RobotInfo {
	return model.RobotInfo{ID: r.ID, Team: r.Team, Type: r.Type, Location: r.Location, Health: r.Health}
}

// Island is a claimable group of cells holding at most one anchor.
type Island struct {
	ID     int
	Cells  []model.Coord
	Anchor model.Anchor
	Team   model.Team
}

// World is the whole sandbox map.
type World struct {
	Terrain *model.TerrainGrid

	MovesPerTurn   int
	ActionsPerTurn int

	round       int
	nextID      int
	robots      map[int]*Robot
	wells       map[model.Coord]model.ResourceKind
	islands     map[int]*Island
	islandCells map[model.Coord]int
}

// NewWorld returns an empty all-ground map at round 1.
func NewWorld(cols, rows int) *World {
	return &World{
		Terrain:        model.NewTerrainGrid(cols, rows),
		MovesPerTurn:   1,
		ActionsPerTurn: 1,
		round:          1,
		nextID:         1,
		robots:         make(map[int]*Robot),
		wells:          make(map[model.Coord]model.ResourceKind),
		islands:        make(map[int]*Island),
		islandCells:    make(map[model.Coord]int),
	}
}

func (w *World) Round() int { return w.round }

func (w *World) AddWall(c model.Coord) { w.Terrain.Set(c, model.Wall) }

func (w *World) AddWell(c model.Coord, kind model.ResourceKind) { w.wells[c] = kind }

// AddIsland registers an island over cells and returns its id (ids start at 1).
func (w *World) AddIsland(cells ...model.Coord) int {
	id := len(w.islands) + 1
	w.islands[id] = &Island{ID: id, Cells: cells}
	for _, c := range cells {
		w.islandCells[c] = id
	}
	return id
}

func (w *World) Island(id int) (*Island, bool) {
	isl, ok := w.islands[id]
	return isl, ok
}

// AddRobot places a new robot. The cell must be passable and free.
func (w *World) AddRobot(team model.Team, t model.RobotType, loc model.Coord) (*Robot, error) {
	if !w.Terrain.Passable(loc) {
		return nil, fmt.Errorf("add robot at %v: not passable", loc)
	}
	if w.RobotAt(loc) != nil {
		return nil, fmt.Errorf("add robot at %v: occupied", loc)
	}
	r := &Robot{
		ID:        w.nextID,
		Team:      team,
		Type:      t,
		Location:  loc,
		Health:    startingHealth[t],
		Inventory: make(model.Inventory),
		Anchors:   make(map[model.Anchor]int),
	}
	w.nextID++
	w.robots[r.ID] = r
	return r, nil
}

func (w *World) Robot(id int) (*Robot, bool) {
	r, ok := w.robots[id]
	return r, ok
}

// RobotAt returns the robot standing on c, or nil.
func (w *World) RobotAt(c model.Coord) *Robot {
	for _, r := range w.robots {
		if r.Location == c {
			return r
		}
	}
	return nil
}

// RobotIDs lists live robots in ascending id order, the order turns run in.
func (w *World) RobotIDs() []int {
	ids := make([]int, 0, len(w.robots))
	for id := range w.robots {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Robots returns live robots of the given team and type. NoTeam matches any team.
func (w *World) Robots(team model.Team, t model.RobotType) []*Robot {
	var out []*Robot
	for _, id := range w.RobotIDs() {
		r := w.robots[id]
		if (team == model.NoTeam || r.Team == team) && r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// AnchoredIslands counts islands holding an anchor placed by team.
func (w *World) AnchoredIslands(team model.Team) int {
	n := 0
	for _, isl := range w.islands {
		if isl.Anchor != model.NoAnchor && isl.Team == team {
			n++
		}
	}
	return n
}

// NextRound advances the clock and refreshes every robot's allowances.
func (w *World) NextRound() {
	w.round++
	for _, r := range w.robots {
		r.moves = 0
		r.actions = 0
	}
}

// Controller binds a world.Controller to robot id. It panics on an unknown
// id since that is a harness bug.
func (w *World) Controller(id int) world.Controller {
	r, ok := w.robots[id]
	if !ok {
		panic(fmt.Sprintf("sandbox: no robot %d", id))
	}
	return &controller{w: w, r: r}
}

func (w *World) remove(r *Robot) {
	delete(w.robots, r.ID)
}
