package sandbox

import (
	"testing"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

func mustRobot(t *testing.T, w *World, team model.Team, rt model.RobotType, at model.Coord) *Robot {
	t.Helper()
	r, err := w.AddRobot(team, rt, at)
	if err != nil {
		t.Fatalf("AddRobot(%s at %v): %v", rt, at, err)
	}
	return r
}

func TestMoveOncePerRound(t *testing.T) {
	w := NewWorld(10, 10)
	r := mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 5, Y: 5})
	ctl := w.Controller(r.ID)

	if !ctl.CanMove(model.North) {
		t.Fatal("expected first move to be legal")
	}
	if err := ctl.Move(model.North); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := ctl.Location(); got != (model.Coord{X: 5, Y: 6}) {
		t.Errorf("Location() = %v, want (5,6)", got)
	}
	if ctl.CanMove(model.North) {
		t.Error("second move in the same round should be illegal")
	}
	err := ctl.Move(model.North)
	if !world.IsIllegalAction(err) {
		t.Errorf("Move on cooldown returned %v, want illegal action", err)
	}

	w.NextRound()
	if !ctl.CanMove(model.North) {
		t.Error("move allowance should refresh on the next round")
	}
}

func TestMoveBlocked(t *testing.T) {
	w := NewWorld(10, 10)
	r := mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 0, Y: 0})
	mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 1, Y: 0})
	w.AddWall(model.Coord{X: 0, Y: 1})
	ctl := w.Controller(r.ID)

	tests := []struct {
		dir  model.Direction
		want bool
	}{
		{model.East, false},     // occupied
		{model.North, false},    // wall
		{model.South, false},    // off map
		{model.NorthEast, true}, // free
		{model.Center, false},   // not a move
	}
	for _, tc := range tests {
		if got := ctl.CanMove(tc.dir); got != tc.want {
			t.Errorf("CanMove(%v) = %v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestCollectAndDeposit(t *testing.T) {
	w := NewWorld(10, 10)
	hq := mustRobot(t, w, model.TeamA, model.Headquarters, model.Coord{X: 2, Y: 2})
	c := mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 3, Y: 3})
	w.AddWell(model.Coord{X: 4, Y: 4}, model.Mana)
	ctl := w.Controller(c.ID)

	if !ctl.CanCollectResource(model.Coord{X: 4, Y: 4}, world.CollectAll) {
		t.Fatal("adjacent well should be collectible")
	}
	if ctl.CanCollectResource(model.Coord{X: 5, Y: 5}, world.CollectAll) {
		t.Error("empty cell should not be collectible")
	}
	if err := ctl.CollectResource(model.Coord{X: 4, Y: 4}, world.CollectAll); err != nil {
		t.Fatalf("CollectResource: %v", err)
	}
	if got := ctl.ResourceAmount(model.Mana); got != CollectRate {
		t.Errorf("mana = %d, want %d", got, CollectRate)
	}
	if ctl.CanTransferResource(hq.Location, model.Mana, CollectRate) {
		t.Error("transfer should wait for the action cooldown")
	}

	w.NextRound()
	if err := ctl.TransferResource(hq.Location, model.Mana, CollectRate); err != nil {
		t.Fatalf("TransferResource: %v", err)
	}
	if hq.Inventory[model.Mana] != CollectRate || c.Inventory[model.Mana] != 0 {
		t.Errorf("after transfer hq=%v carrier=%v", hq.Inventory, c.Inventory)
	}
}

func TestCollectStopsWhenFull(t *testing.T) {
	w := NewWorld(10, 10)
	c := mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 3, Y: 3})
	c.Inventory[model.Adamantium] = model.InventoryFullThreshold
	w.AddWell(model.Coord{X: 3, Y: 3}, model.Adamantium)

	if w.Controller(c.ID).CanCollectResource(model.Coord{X: 3, Y: 3}, world.CollectAll) {
		t.Error("a full carrier cannot collect")
	}
}

func TestAnchorLifecycle(t *testing.T) {
	w := NewWorld(10, 10)
	hq := mustRobot(t, w, model.TeamA, model.Headquarters, model.Coord{X: 1, Y: 1})
	hq.Inventory[model.Adamantium] = 150
	hq.Inventory[model.Mana] = 150
	c := mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 2, Y: 2})
	island := w.AddIsland(model.Coord{X: 3, Y: 3})

	hctl := w.Controller(hq.ID)
	if err := hctl.BuildAnchor(model.AnchorStandard); err != nil {
		t.Fatalf("BuildAnchor: %v", err)
	}
	if got := hctl.NumAnchors(model.AnchorStandard); got != 1 {
		t.Fatalf("NumAnchors = %d, want 1", got)
	}
	if hq.Inventory[model.Adamantium] != 50 || hq.Inventory[model.Mana] != 50 {
		t.Errorf("anchor cost not deducted: %v", hq.Inventory)
	}

	cctl := w.Controller(c.ID)
	c.Inventory[model.Elixir] = 1
	if cctl.CanTakeAnchor(hq.Location, model.AnchorStandard) {
		t.Error("a carrier with cargo cannot take an anchor")
	}
	c.Inventory[model.Elixir] = 0
	if err := cctl.TakeAnchor(hq.Location, model.AnchorStandard); err != nil {
		t.Fatalf("TakeAnchor: %v", err)
	}
	if cctl.Anchor() != model.AnchorStandard || hq.Anchors[model.AnchorStandard] != 0 {
		t.Fatalf("anchor not handed over: held=%q stock=%d", cctl.Anchor(), hq.Anchors[model.AnchorStandard])
	}

	w.NextRound()
	if cctl.CanPlaceAnchor() {
		t.Error("cannot place an anchor off an island")
	}
	if err := cctl.Move(model.NorthEast); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := cctl.PlaceAnchor(); err != nil {
		t.Fatalf("PlaceAnchor: %v", err)
	}
	if cctl.Anchor() != model.NoAnchor {
		t.Error("anchor should be consumed")
	}
	got, err := cctl.SenseAnchor(island)
	if err != nil || got != model.AnchorStandard {
		t.Errorf("SenseAnchor = (%q, %v), want standard", got, err)
	}
	if w.AnchoredIslands(model.TeamA) != 1 {
		t.Error("island should count for team A")
	}
}

func TestBuildRobot(t *testing.T) {
	w := NewWorld(10, 10)
	hq := mustRobot(t, w, model.TeamA, model.Headquarters, model.Coord{X: 5, Y: 5})
	hq.Inventory[model.Adamantium] = 60
	ctl := w.Controller(hq.ID)

	site := model.Coord{X: 6, Y: 5}
	if !ctl.CanBuildRobot(model.Carrier, site) {
		t.Fatal("expected carrier build to be legal")
	}
	if ctl.CanBuildRobot(model.Launcher, site) {
		t.Error("launcher needs mana")
	}
	if ctl.CanBuildRobot(model.Carrier, model.Coord{X: 9, Y: 9}) {
		t.Error("site outside action radius should be illegal")
	}
	if err := ctl.BuildRobot(model.Carrier, site); err != nil {
		t.Fatalf("BuildRobot: %v", err)
	}
	if r := w.RobotAt(site); r == nil || r.Type != model.Carrier || r.Team != model.TeamA {
		t.Errorf("RobotAt(%v) = %+v", site, r)
	}
	if hq.Inventory[model.Adamantium] != 10 {
		t.Errorf("adamantium = %d, want 10", hq.Inventory[model.Adamantium])
	}
}

func TestSensing(t *testing.T) {
	w := NewWorld(30, 30)
	me := mustRobot(t, w, model.TeamA, model.Carrier, model.Coord{X: 10, Y: 10})
	friend := mustRobot(t, w, model.TeamA, model.Headquarters, model.Coord{X: 12, Y: 10})
	enemy := mustRobot(t, w, model.TeamB, model.Launcher, model.Coord{X: 10, Y: 13})
	mustRobot(t, w, model.TeamB, model.Launcher, model.Coord{X: 25, Y: 25}) // out of sight
	w.AddWell(model.Coord{X: 11, Y: 11}, model.Mana)
	w.AddWell(model.Coord{X: 9, Y: 12}, model.Adamantium)
	w.AddWell(model.Coord{X: 28, Y: 28}, model.Elixir)

	ctl := w.Controller(me.ID)

	all := ctl.SenseNearbyRobots(world.UnlimitedRadius, model.NoTeam)
	if len(all) != 2 || all[0].ID != friend.ID || all[1].ID != enemy.ID {
		t.Errorf("SenseNearbyRobots(all) = %+v", all)
	}
	enemies := ctl.SenseNearbyRobots(world.UnlimitedRadius, model.TeamB)
	if len(enemies) != 1 || enemies[0].ID != enemy.ID {
		t.Errorf("SenseNearbyRobots(B) = %+v", enemies)
	}
	if near := ctl.SenseNearbyRobots(4, model.NoTeam); len(near) != 1 || near[0].ID != friend.ID {
		t.Errorf("SenseNearbyRobots(4) = %+v", near)
	}

	wells := ctl.SenseNearbyWells()
	if len(wells) != 2 {
		t.Fatalf("expected 2 visible wells, got %d", len(wells))
	}
	// Sorted by x, then y.
	if wells[0].Location != (model.Coord{X: 9, Y: 12}) || wells[1].Location != (model.Coord{X: 11, Y: 11}) {
		t.Errorf("wells out of order: %+v", wells)
	}

	if _, err := ctl.SenseIsland(model.Coord{X: 28, Y: 28}); err == nil {
		t.Error("sensing an island outside vision should fail")
	}
}

func TestMatchRunsEveryRobotOncePerRound(t *testing.T) {
	w := NewDemoWorld()
	turns := make(map[int]int)
	m := NewMatch(w, func(ctl world.Controller) func() {
		id := ctl.ID()
		return func() {
			turns[id]++
			ctl.Yield()
		}
	})
	m.Run(3)

	if w.Round() != 4 {
		t.Errorf("Round() = %d, want 4", w.Round())
	}
	for _, id := range w.RobotIDs() {
		if turns[id] != 3 {
			t.Errorf("robot %d ran %d turns, want 3", id, turns[id])
		}
	}
	s := m.Summarize(model.TeamA)
	if s.Robots[model.Headquarters] != 1 || s.Stockpile[model.Adamantium] != 200 {
		t.Errorf("Summarize(A) = %+v", s)
	}
}

func TestDemoWorldWallLeavesGap(t *testing.T) {
	w := NewDemoWorld()
	// 30x30 minus an eight-cell wall with a two-cell gap.
	if got := w.Terrain.CountPassable(); got != 892 {
		t.Errorf("CountPassable() = %d, want 892", got)
	}
	for _, x := range []int{14, 15} {
		if !w.Terrain.Passable(model.Coord{X: x, Y: 15}) {
			t.Errorf("gap cell (%d,15) is blocked", x)
		}
	}
}
