package agent

import "github.com/nstehr/regressiongames/model"

// Role is the policy a robot runs. It is derived from the robot's type every
// turn.
type Role int

const (
	RoleInert Role = iota // types without a policy end their turn immediately
	RoleCoordinator
	RoleGatherer
	RoleAttacker
)

func (r Role) String() string {
	switch r {
	case RoleInert:
		return "inert"
	case RoleCoordinator:
		return "coordinator"
	case RoleGatherer:
		return "gatherer"
	case RoleAttacker:
		return "attacker"
	}
	return "unknown"
}

// RoleFor maps a robot type to its role.
func RoleFor(t model.RobotType) Role {
	switch t {
	case model.Headquarters:
		return RoleCoordinator
	case model.Carrier:
		return RoleGatherer
	case model.Launcher:
		return RoleAttacker
	default:
		return RoleInert
	}
}
