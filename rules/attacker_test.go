package rules

import (
	"strings"
	"testing"

	"github.com/nstehr/regressiongames/model"
)

func TestAttackerFiresEastThenWanders(t *testing.T) {
	p, err := NewPolicies(DefaultTuning())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name       string
		enemyAt    *model.Coord
		attackable bool
		wantAttack bool
	}{
		{"nothing sensed", nil, true, true},
		{"enemy elsewhere", &model.Coord{X: 5, Y: 8}, true, true},
		{"east not attackable", nil, false, false},
	}
	for _, tc := range tests {
		ctl := newFake(model.Launcher, coord(5, 5))
		if tc.enemyAt != nil {
			ctl.robots = []model.RobotInfo{{ID: 4, Team: model.TeamB, Type: model.Carrier, Location: *tc.enemyAt}}
			ctl.attackable[*tc.enemyAt] = true
		}
		ctl.attackable[coord(6, 5)] = tc.attackable
		rng := &scriptedRand{ints: []int{directionIndex(model.West)}}

		if err := p.Attacker.Evaluate(NewEnv(ctl, &Memory{}, DefaultTuning(), rng)); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := contains(ctl.calls, "attack (6,5)"); got != tc.wantAttack {
			t.Errorf("%s: attacked east = %v, want %v (calls %v)", tc.name, got, tc.wantAttack, ctl.calls)
		}
		if tc.enemyAt != nil && contains(ctl.calls, "attack "+tc.enemyAt.String()) {
			t.Errorf("%s: attacked the sensed enemy", tc.name)
		}
		last := ctl.calls[len(ctl.calls)-1]
		if !strings.HasPrefix(last, "move WEST") {
			t.Errorf("%s: last call = %q, want the random move", tc.name, last)
		}
	}
}
