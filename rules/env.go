package rules

import (
	"math/rand"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// Rand is the randomness a policy consumes. *math/rand.Rand satisfies it;
// tests substitute scripted sequences.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Env wraps the robot's controller and memory and exposes helper methods
// callable from expr conditions. Methods read the world live, so a condition
// sees whatever earlier rules in the same turn have done.
type Env struct {
	Ctl    world.Controller
	Memory *Memory
	Tuning Tuning
	Rand   Rand

	scratch *scratch
}

// scratch holds values one rule computes for a later rule in the same turn.
type scratch struct {
	buildSite model.Coord
}

// NewEnv builds the environment for one turn.
func NewEnv(ctl world.Controller, mem *Memory, tuning Tuning, rng Rand) Env {
	return Env{
		Ctl:     ctl,
		Memory:  mem,
		Tuning:  tuning,
		Rand:    rng,
		scratch: &scratch{},
	}
}

func (e Env) Turn() int { return e.Memory.TurnCount }

func (e Env) HomeKnown() bool { return e.Memory.Home != nil }

func (e Env) HoldsAnchor() bool { return e.Ctl.Anchor() != model.NoAnchor }

func (e Env) HasInventory() bool { return world.Inventory(e.Ctl).HasAny() }

func (e Env) InventoryFull() bool { return world.Inventory(e.Ctl).IsFull() }

// Amount returns the carried amount of the named resource, 0 for unknown names.
func (e Env) Amount(kind string) int {
	k, ok := model.ParseResourceKind(kind)
	if !ok {
		return 0
	}
	return e.Ctl.ResourceAmount(k)
}

func (e Env) AnchorsHeld() int { return e.Ctl.NumAnchors(model.AnchorStandard) }

func (e Env) TurnsSinceAnchor() int { return e.Memory.TurnsSinceAnchorBuild() }

func (e Env) StallCount() int { return e.Memory.StallCount }

// Enemies senses opposing robots within radiusSquared (-1 for full vision),
// in the host's order.
func (e Env) Enemies(radiusSquared int) []model.RobotInfo {
	return e.Ctl.SenseNearbyRobots(radiusSquared, e.Ctl.Team().Opponent())
}

func (e Env) EnemyCount(radiusSquared int) int { return len(e.Enemies(radiusSquared)) }

func (e Env) ActionRadius() int { return e.Ctl.Type().ActionRadiusSquared() }

func (e Env) WellCount() int { return len(e.Ctl.SenseNearbyWells()) }
