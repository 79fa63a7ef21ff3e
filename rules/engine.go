package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs one role's compiled rules against a robot's Env each turn.
// Rules fire in priority order; an exclusive rule blocks every lower-priority
// rule in its category, which is how a policy ends its turn early.
// An Engine is immutable after construction and may be shared by agents.
type Engine struct {
	name  string
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(name string, rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Engine{name: name, rules: compiled}, nil
}

func (e *Engine) Name() string { return e.name }

// RuleNames lists rules in evaluation order.
func (e *Engine) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate runs the rules for one turn. Conditions are evaluated lazily,
// immediately before their rule. The first error, from a condition or an
// action, stops evaluation and is returned wrapped with the rule name.
func (e *Engine) Evaluate(env Env) error {
	fired := make(map[string]bool) // category → exclusive rule already fired

	for _, r := range e.rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			return fmt.Errorf("rule %q condition: %w", r.Name, err)
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "policy", e.name, "rule", r.Name, "priority", r.Priority, "category", r.Category)

		if err := r.Action(env); err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if r.Action == nil {
			return nil, fmt.Errorf("rule %q has no action", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
