package rules

import "github.com/expr-lang/expr/vm"

// ActionFunc carries out a rule once its condition holds. An error ends the
// turn: nothing after it runs.
type ActionFunc func(env Env) error

// Rule is the atomic unit of robot behaviour: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// to end a role's turn once a terminal rule has fired.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for logging)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
