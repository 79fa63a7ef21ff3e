package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tc := range tests {
		if got := clamp(tc.v, tc.min, tc.max); got != tc.want {
			t.Errorf("clamp(%v, %v, %v) = %v, want %v", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestValidateClamps(t *testing.T) {
	tun := Tuning{
		AnchorCap:     -3,
		BuildChance:   1.5,
		CollectChance: -0.2,
		StallLimit:    0,
		AnchorMinTurn: 99999,
	}
	tun.Validate()
	if tun.AnchorCap != 0 {
		t.Errorf("AnchorCap = %d, want 0", tun.AnchorCap)
	}
	if tun.BuildChance != 1 || tun.CollectChance != 0 {
		t.Errorf("chances = %v/%v, want 1/0", tun.BuildChance, tun.CollectChance)
	}
	if tun.StallLimit != 1 {
		t.Errorf("StallLimit = %d, want 1", tun.StallLimit)
	}
	if tun.AnchorMinTurn != 2000 {
		t.Errorf("AnchorMinTurn = %d, want 2000", tun.AnchorMinTurn)
	}
}

func TestDefaultTuningIsValid(t *testing.T) {
	want := DefaultTuning()
	got := DefaultTuning()
	got.Validate()
	if got != want {
		t.Errorf("Validate changed the defaults: %+v", got)
	}
}

func TestLoadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "anchor_cooldown: 120\nbuild_chance: 0.9\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tun.AnchorCooldown != 120 || tun.BuildChance != 0.9 {
		t.Errorf("overrides not applied: %+v", tun)
	}
	if tun.AnchorMinTurn != 350 || tun.StallLimit != 5 {
		t.Errorf("missing keys should keep defaults: %+v", tun)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("anchor_cap: [1, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
