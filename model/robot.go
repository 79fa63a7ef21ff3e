package model

// Team is a robot's allegiance. NoTeam in a sensing filter means any team.
type Team string

const (
	NoTeam  Team = ""
	TeamA   Team = "A"
	TeamB   Team = "B"
	Neutral Team = "NEUTRAL"
)

// Opponent returns the other playing team. Neutral and NoTeam have none.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return Neutral
	}
}

// RobotType is the host's unit type. It determines a robot's role.
type RobotType string

const (
	Headquarters RobotType = "headquarters"
	Carrier      RobotType = "carrier"
	Launcher     RobotType = "launcher"
	Booster      RobotType = "booster"
	Destabilizer RobotType = "destabilizer"
	Amplifier    RobotType = "amplifier"
)

type robotStats struct {
	actionRadiusSquared int
	visionRadiusSquared int
	cost                Inventory
}

// stats mirror the host's published constants.
var stats = map[RobotType]robotStats{
	Headquarters: {actionRadiusSquared: 9, visionRadiusSquared: 34},
	Carrier:      {actionRadiusSquared: 9, visionRadiusSquared: 20, cost: Inventory{Adamantium: 50}},
	Launcher:     {actionRadiusSquared: 16, visionRadiusSquared: 20, cost: Inventory{Mana: 60}},
	Booster:      {actionRadiusSquared: 0, visionRadiusSquared: 20, cost: Inventory{Elixir: 150}},
	Destabilizer: {actionRadiusSquared: 13, visionRadiusSquared: 20, cost: Inventory{Elixir: 200}},
	Amplifier:    {actionRadiusSquared: 0, visionRadiusSquared: 34, cost: Inventory{Adamantium: 30, Mana: 15}},
}

func (t RobotType) ActionRadiusSquared() int { return stats[t].actionRadiusSquared }
func (t RobotType) VisionRadiusSquared() int { return stats[t].visionRadiusSquared }

// BuildCost is what a headquarters spends to construct t. Headquarters
// themselves cannot be built and report an empty cost.
func (t RobotType) BuildCost() Inventory { return stats[t].cost }

// RobotInfo is a sensed robot.
type RobotInfo struct {
	ID       int       `json:"id"`
	Team     Team      `json:"team"`
	Type     RobotType `json:"type"`
	Location Coord     `json:"location"`
	Health   int       `json:"health"`
}

// WellInfo is a sensed resource well.
type WellInfo struct {
	Location Coord        `json:"location"`
	Resource ResourceKind `json:"resource"`
}

// Anchor is the scarce object a headquarters produces and a carrier places on
// an island. NoAnchor means "none held" or "none placed".
type Anchor string

const (
	NoAnchor           Anchor = ""
	AnchorStandard     Anchor = "standard"
	AnchorAccelerating Anchor = "accelerating"
)

var anchorCosts = map[Anchor]Inventory{
	AnchorStandard:     {Adamantium: 100, Mana: 100},
	AnchorAccelerating: {Elixir: 300},
}

func (a Anchor) BuildCost() Inventory { return anchorCosts[a] }
