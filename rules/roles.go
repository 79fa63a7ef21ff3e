package rules

import (
	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// Policies is the compiled rule set for every active role. It is built once
// per process and shared by all agents.
type Policies struct {
	Tuning      Tuning
	Coordinator *Engine
	Gatherer    *Engine
	Attacker    *Engine
}

// NewPolicies compiles all role policies from one tuning.
func NewPolicies(t Tuning) (*Policies, error) {
	t.Validate()
	coordinator, err := NewEngine("coordinator", CompileCoordinatorRules(t))
	if err != nil {
		return nil, err
	}
	gatherer, err := NewEngine("gatherer", CompileGathererRules(t))
	if err != nil {
		return nil, err
	}
	attacker, err := NewEngine("attacker", CompileAttackerRules(t))
	if err != nil {
		return nil, err
	}
	return &Policies{
		Tuning:      t,
		Coordinator: coordinator,
		Gatherer:    gatherer,
		Attacker:    attacker,
	}, nil
}

// locationsOfType returns the locations of robots of type t, in sensed order.
func locationsOfType(robots []model.RobotInfo, t model.RobotType) []model.Coord {
	var out []model.Coord
	for _, r := range robots {
		if r.Type == t {
			out = append(out, r.Location)
		}
	}
	return out
}

// HeadquartersNearby lists friendly headquarters within full vision.
func HeadquartersNearby(env Env) []model.Coord {
	return locationsOfType(env.Ctl.SenseNearbyRobots(world.UnlimitedRadius, env.Ctl.Team()), model.Headquarters)
}
