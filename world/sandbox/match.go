package sandbox

import (
	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// PlayerFactory creates the per-robot turn function the first time a robot
// is scheduled. The returned func runs exactly one turn.
type PlayerFactory func(ctl world.Controller) func()

// Match drives every robot once per round in ascending id order. Robots
// built during a round first act in the next one.
type Match struct {
	World   *World
	factory PlayerFactory
	players map[int]func()
}

func NewMatch(w *World, factory PlayerFactory) *Match {
	return &Match{
		World:   w,
		factory: factory,
		players: make(map[int]func()),
	}
}

// Step runs one round.
func (m *Match) Step() {
	for _, id := range m.World.RobotIDs() {
		if _, alive := m.World.robots[id]; !alive {
			continue // destroyed earlier this round
		}
		play, ok := m.players[id]
		if !ok {
			play = m.factory(m.World.Controller(id))
			m.players[id] = play
		}
		play()
	}
	for id := range m.players {
		if _, alive := m.World.robots[id]; !alive {
			delete(m.players, id)
		}
	}
	m.World.NextRound()
}

// Run plays n rounds.
func (m *Match) Run(rounds int) {
	for range rounds {
		m.Step()
	}
}

// Summary is a per-team scoreboard.
type Summary struct {
	Team            model.Team
	Robots          map[model.RobotType]int
	Stockpile       model.Inventory
	AnchoredIslands int
}

// Summarize reports the state of team.
func (m *Match) Summarize(team model.Team) Summary {
	s := Summary{
		Team:      team,
		Robots:    make(map[model.RobotType]int),
		Stockpile: make(model.Inventory),
	}
	for _, id := range m.World.RobotIDs() {
		r := m.World.robots[id]
		if r.Team != team {
			continue
		}
		s.Robots[r.Type]++
		if r.Type == model.Headquarters {
			for k, v := range r.Inventory {
				s.Stockpile[k] += v
			}
		}
	}
	s.AnchoredIslands = m.World.AnchoredIslands(team)
	return s
}

// NewDemoWorld builds a mirrored 30x30 two-team map: one headquarters per
// team, a well of each kind near each base, two islands per half and a short
// wall across the middle.
func NewDemoWorld() *World {
	w := NewWorld(30, 30)

	for x := 10; x < 20; x++ {
		if x == 14 || x == 15 {
			continue // gap
		}
		w.AddWall(model.Coord{X: x, Y: 15})
	}

	mirror := func(c model.Coord) model.Coord { return model.Coord{X: 29 - c.X, Y: 29 - c.Y} }

	wells := []struct {
		at   model.Coord
		kind model.ResourceKind
	}{
		{model.Coord{X: 7, Y: 4}, model.Adamantium},
		{model.Coord{X: 4, Y: 8}, model.Mana},
		{model.Coord{X: 9, Y: 9}, model.Elixir},
	}
	for _, well := range wells {
		w.AddWell(well.at, well.kind)
		w.AddWell(mirror(well.at), well.kind)
	}

	islands := [][]model.Coord{
		square(model.Coord{X: 13, Y: 5}),
		square(model.Coord{X: 5, Y: 12}),
	}
	for _, cells := range islands {
		w.AddIsland(cells...)
		mirrored := make([]model.Coord, len(cells))
		for i, c := range cells {
			mirrored[i] = mirror(c)
		}
		w.AddIsland(mirrored...)
	}

	for _, side := range []struct {
		team model.Team
		at   model.Coord
	}{
		{model.TeamA, model.Coord{X: 4, Y: 4}},
		{model.TeamB, mirror(model.Coord{X: 4, Y: 4})},
	} {
		hq, _ := w.AddRobot(side.team, model.Headquarters, side.at)
		hq.Inventory[model.Adamantium] = 200
		hq.Inventory[model.Mana] = 200
	}
	return w
}

// square returns the 2x2 block anchored at its south-west corner.
func square(sw model.Coord) []model.Coord {
	return []model.Coord{
		sw,
		{X: sw.X + 1, Y: sw.Y},
		{X: sw.X, Y: sw.Y + 1},
		{X: sw.X + 1, Y: sw.Y + 1},
	}
}
