package rules

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// --- headquarters ---

// ActionPickBuildSite chooses this turn's construction cell: one random step
// from the headquarters.
func ActionPickBuildSite(env Env) error {
	dir := randomDirection(env.Rand)
	env.scratch.buildSite = env.Ctl.Location().Add(dir)
	return nil
}

func ActionBuildAnchor(env Env) error {
	if !env.Ctl.CanBuildAnchor(model.AnchorStandard) {
		return nil
	}
	env.Ctl.SetIndicatorString("BUILDING AN ANCHOR")
	if err := env.Ctl.BuildAnchor(model.AnchorStandard); err != nil {
		return err
	}
	env.Memory.RecordAnchorBuild()
	slog.Debug("anchor built", "turn", env.Memory.TurnCount)
	return nil
}

// ActionBuildCarrier builds on the cell picked by ActionPickBuildSite, half the
// time by default. The coin is only flipped when the build is legal.
func ActionBuildCarrier(env Env) error {
	site := env.scratch.buildSite
	if !env.Ctl.CanBuildRobot(model.Carrier, site) {
		return nil
	}
	if !chance(env.Rand, env.Tuning.BuildChance) {
		return nil
	}
	env.Ctl.SetIndicatorString("BUILDING A CARRIER")
	return env.Ctl.BuildRobot(model.Carrier, site)
}

// --- carrier ---

// ActionDeposit hands the first non-empty resource stack, whole, to home.
func ActionDeposit(env Env) error {
	home := *env.Memory.Home
	kind, amount, ok := world.Inventory(env.Ctl).NextDepositable()
	if !ok || !env.Ctl.CanTransferResource(home, kind, amount) {
		return nil
	}
	return env.Ctl.TransferResource(home, kind, amount)
}

func ActionTakeAnchor(env Env) error {
	home := *env.Memory.Home
	if !env.Ctl.CanTakeAnchor(home, model.AnchorStandard) {
		return nil
	}
	return env.Ctl.TakeAnchor(home, model.AnchorStandard)
}

// ActionCarryAnchor is the whole turn of a carrier holding an anchor: place
// it if standing on a free island, otherwise head for one, otherwise wander.
func ActionCarryAnchor(env Env) error {
	ctl := env.Ctl
	ctl.SetIndicatorString("IM CARRYING AN ANCHOR! Wandering until I find an island")
	me := ctl.Location()

	if ctl.CanPlaceAnchor() {
		free, err := islandIsFree(ctl, me)
		if err != nil {
			return err
		}
		if free {
			return ctl.PlaceAnchor()
		}
	}

	for _, island := range ctl.SenseNearbyIslands() {
		anchor, err := ctl.SenseAnchor(island)
		if err != nil {
			return fmt.Errorf("sense anchor on island %d: %w", island, err)
		}
		if anchor != model.NoAnchor {
			continue
		}
		locations, err := ctl.SenseNearbyIslandLocations(island)
		if err != nil {
			return fmt.Errorf("sense island %d: %w", island, err)
		}
		if len(locations) == 0 {
			continue
		}
		return tryMove(ctl, me.DirectionTo(locations[0]))
	}

	return moveRandomly(env)
}

func islandIsFree(ctl world.Controller, at model.Coord) (bool, error) {
	island, err := ctl.SenseIsland(at)
	if err != nil {
		return false, err
	}
	if island == world.NoIsland {
		return false, nil
	}
	anchor, err := ctl.SenseAnchor(island)
	if err != nil {
		return false, err
	}
	return anchor == model.NoAnchor, nil
}

func ActionTrackPosition(env Env) error {
	env.Memory.ObservePosition(env.Ctl.Location())
	return nil
}

// ActionEscapeStall breaks a deadlock with one random step. The turn goes on.
func ActionEscapeStall(env Env) error {
	slog.Debug("carrier stalled, forcing a random move", "at", env.Ctl.Location(), "stall", env.Memory.StallCount)
	return moveRandomly(env)
}

func ActionReturnHome(env Env) error {
	return tryMove(env.Ctl, env.Ctl.Location().DirectionTo(*env.Memory.Home))
}

// ActionGather tries every cell of the 3x3 block around the carrier, and
// collects from each collectible one only when a coin flip says so. The
// flips throttle collection.
func ActionGather(env Env) error {
	ctl := env.Ctl
	me := ctl.Location()
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			well := model.Coord{X: me.X + dx, Y: me.Y + dy}
			if !ctl.CanCollectResource(well, world.CollectAll) {
				continue
			}
			if !chance(env.Rand, env.Tuning.CollectChance) {
				continue
			}
			if err := ctl.CollectResource(well, world.CollectAll); err != nil {
				return err
			}
			ctl.SetIndicatorString(fmt.Sprintf("Collecting, now have, AD:%d MN: %d EX: %d",
				ctl.ResourceAmount(model.Adamantium),
				ctl.ResourceAmount(model.Mana),
				ctl.ResourceAmount(model.Elixir)))
		}
	}
	return nil
}

// ActionAttackFirstEnemy targets whichever enemy the host listed first.
func ActionAttackFirstEnemy(env Env) error {
	enemies := env.Enemies(world.UnlimitedRadius)
	if len(enemies) == 0 {
		return nil
	}
	target := enemies[0].Location
	if !env.Ctl.CanAttack(target) {
		return nil
	}
	return env.Ctl.Attack(target)
}

// ActionSeekWell steps toward the second well in the host's list.
// TODO: compare against stepping toward wells[0] in sandbox matches before
// changing it; the current pick keeps replays identical.
func ActionSeekWell(env Env) error {
	wells := env.Ctl.SenseNearbyWells()
	if len(wells) < 2 {
		return nil
	}
	return tryMove(env.Ctl, env.Ctl.Location().DirectionTo(wells[1].Location))
}

func ActionExplore(env Env) error { return moveRandomly(env) }

// --- launcher ---

// ActionAttackEast fires at the cell east of the launcher regardless of
// what was sensed.
// TODO: target Enemies(ActionRadius())[0] once sandbox matches show it beats
// the fixed target.
func ActionAttackEast(env Env) error {
	target := env.Ctl.Location().Add(model.East)
	if !env.Ctl.CanAttack(target) {
		return nil
	}
	env.Ctl.SetIndicatorString("Attacking")
	return env.Ctl.Attack(target)
}

func ActionWander(env Env) error { return moveRandomly(env) }

// --- helpers ---

func randomDirection(r Rand) model.Direction {
	return model.Directions[r.Intn(len(model.Directions))]
}

// moveRandomly picks one random heading and takes it only if legal.
func moveRandomly(env Env) error {
	return tryMove(env.Ctl, randomDirection(env.Rand))
}

func tryMove(ctl world.Controller, dir model.Direction) error {
	if !ctl.CanMove(dir) {
		return nil
	}
	return ctl.Move(dir)
}

func chance(r Rand, p float64) bool {
	return r.Float64() < p
}
