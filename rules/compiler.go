package rules

import "fmt"

// Rule categories. Each role's rules share one category, so an exclusive
// rule ends that role's turn.
const (
	CategoryHeadquarters = "hq"
	CategoryCarrier      = "carrier"
	CategoryLauncher     = "launcher"
)

// CompileCoordinatorRules builds the headquarters policy. Its two production
// rules are independent and may both fire in one turn.
// Thresholds are interpolated with fmt.Sprintf, so the sources are always
// valid expr.
func CompileCoordinatorRules(t Tuning) []*Rule {
	t.Validate()
	return []*Rule{
		{
			Name:         "pick-build-site",
			Priority:     1000,
			Category:     CategoryHeadquarters,
			ConditionSrc: `true`,
			Action:       ActionPickBuildSite,
		},
		{
			Name:     "build-anchor",
			Priority: 900,
			Category: CategoryHeadquarters,
			ConditionSrc: fmt.Sprintf(
				`AnchorsHeld() < %d && Amount("adamantium") > %d && Amount("mana") > %d && Turn() > %d && TurnsSinceAnchor() > %d`,
				t.AnchorCap, t.AnchorResourceMin, t.AnchorResourceMin, t.AnchorMinTurn, t.AnchorCooldown),
			Action: ActionBuildAnchor,
		},
		{
			Name:         "build-carrier",
			Priority:     800,
			Category:     CategoryHeadquarters,
			ConditionSrc: fmt.Sprintf(`Turn() < %d || Amount("adamantium") > %d`, t.CarrierEarlyTurns, t.CarrierAdamantiumMin),
			Action:       ActionBuildCarrier,
		},
	}
}

// CompileGathererRules builds the carrier policy: deposit and restock,
// then either the anchor errand (ends the turn) or the economic loop.
func CompileGathererRules(t Tuning) []*Rule {
	t.Validate()
	return []*Rule{
		{
			Name:         "deposit",
			Priority:     1000,
			Category:     CategoryCarrier,
			ConditionSrc: `HomeKnown() && HasInventory()`,
			Action:       ActionDeposit,
		},
		{
			Name:         "take-anchor",
			Priority:     950,
			Category:     CategoryCarrier,
			ConditionSrc: `HomeKnown() && !HoldsAnchor() && !HasInventory()`,
			Action:       ActionTakeAnchor,
		},
		{
			Name:         "carry-anchor",
			Priority:     900,
			Category:     CategoryCarrier,
			Exclusive:    true,
			ConditionSrc: `HoldsAnchor()`,
			Action:       ActionCarryAnchor,
		},
		{
			Name:         "track-position",
			Priority:     800,
			Category:     CategoryCarrier,
			ConditionSrc: `true`,
			Action:       ActionTrackPosition,
		},
		{
			Name:         "escape-stall",
			Priority:     750,
			Category:     CategoryCarrier,
			ConditionSrc: fmt.Sprintf(`StallCount() > %d`, t.StallLimit),
			Action:       ActionEscapeStall,
		},
		{
			Name:         "return-home",
			Priority:     700,
			Category:     CategoryCarrier,
			Exclusive:    true,
			ConditionSrc: `InventoryFull() && HomeKnown()`,
			Action:       ActionReturnHome,
		},
		{
			Name:         "gather",
			Priority:     600,
			Category:     CategoryCarrier,
			ConditionSrc: `true`,
			Action:       ActionGather,
		},
		{
			Name:         "attack-enemy",
			Priority:     500,
			Category:     CategoryCarrier,
			ConditionSrc: `EnemyCount(-1) > 0`,
			Action:       ActionAttackFirstEnemy,
		},
		{
			Name:         "seek-well",
			Priority:     400,
			Category:     CategoryCarrier,
			ConditionSrc: `WellCount() > 1`,
			Action:       ActionSeekWell,
		},
		{
			Name:         "explore",
			Priority:     300,
			Category:     CategoryCarrier,
			ConditionSrc: `true`,
			Action:       ActionExplore,
		},
	}
}

// CompileAttackerRules builds the launcher policy.
func CompileAttackerRules(t Tuning) []*Rule {
	t.Validate()
	return []*Rule{
		{
			Name:     "attack-east",
			Priority: 1000,
			Category: CategoryLauncher,
			// Always true: the sensed list only decides whether to look, not where to shoot.
			ConditionSrc: `len(Enemies(ActionRadius())) >= 0`,
			Action:       ActionAttackEast,
		},
		{
			Name:         "wander",
			Priority:     900,
			Category:     CategoryLauncher,
			ConditionSrc: `true`,
			Action:       ActionWander,
		},
	}
}
