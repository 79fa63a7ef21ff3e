package trace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nstehr/regressiongames/model"
)

func TestTurnLogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	log := NewTurnLog(dir)
	log.now = func() time.Time { return time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC) }

	entries := []Entry{
		{Robot: 1, Team: model.TeamA, Type: model.Headquarters, Round: 1, Turn: 1, Role: "coordinator", Outcome: "ok"},
		{Robot: 2, Team: model.TeamA, Type: model.Carrier, Round: 2, Turn: 1, Role: "gatherer", Outcome: "illegal_action",
			Error: "move: blocked", Location: model.Coord{X: 3, Y: 4}, Carried: model.Inventory{model.Mana: 6},
			Events: []string{"home_discovered"}},
	}
	for _, e := range entries {
		if err := log.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadFile(filepath.Join(dir, "turns", "turns-2026-03-01-14.jsonl.zst"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d entries, want 2", len(got))
	}
	if got[1].Error != "move: blocked" || got[1].Carried[model.Mana] != 6 || got[1].Location != (model.Coord{X: 3, Y: 4}) {
		t.Errorf("second entry = %+v", got[1])
	}
	if len(got[1].Events) != 1 || got[1].Events[0] != "home_discovered" {
		t.Errorf("events = %v", got[1].Events)
	}
}

func TestTurnLogRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	log := NewTurnLog(dir)
	hour := 10
	log.now = func() time.Time { return time.Date(2026, 3, 1, hour, 0, 0, 0, time.UTC) }

	for robot := 1; robot <= 3; robot++ {
		if robot == 3 {
			hour = 11
		}
		if err := log.Record(Entry{Robot: robot}); err != nil {
			t.Fatal(err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		robots []int
	}{
		{"turns-2026-03-01-10.jsonl.zst", []int{1, 2}},
		{"turns-2026-03-01-11.jsonl.zst", []int{3}},
	}
	for _, tc := range tests {
		got, err := ReadFile(filepath.Join(dir, "turns", tc.name))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(got) != len(tc.robots) {
			t.Fatalf("%s: %d entries, want %d", tc.name, len(got), len(tc.robots))
		}
		for i, e := range got {
			if e.Robot != tc.robots[i] {
				t.Errorf("%s[%d]: robot %d, want %d", tc.name, i, e.Robot, tc.robots[i])
			}
		}
	}
}

func TestTurnLogCloseIsIdempotent(t *testing.T) {
	log := NewTurnLog(t.TempDir())
	if err := log.Close(); err != nil {
		t.Errorf("Close before any record: %v", err)
	}
	if err := log.Record(Entry{Robot: 1}); err != nil {
		t.Fatal(err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.jsonl.zst")); err == nil {
		t.Error("expected error")
	}
}
