package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every threshold the role policies compile into their rule
// conditions. The defaults reproduce the reference bot's behaviour.
type Tuning struct {
	AnchorCap            int     `yaml:"anchor_cap"`             // un-granted anchors a headquarters may hold
	AnchorResourceMin    int     `yaml:"anchor_resource_min"`    // adamantium and mana each must exceed this
	AnchorMinTurn        int     `yaml:"anchor_min_turn"`        // no anchors before this turn
	AnchorCooldown       int     `yaml:"anchor_cooldown"`        // turns between anchor builds must exceed this
	CarrierEarlyTurns    int     `yaml:"carrier_early_turns"`    // carriers are built freely before this turn
	CarrierAdamantiumMin int     `yaml:"carrier_adamantium_min"` // ... and afterwards only above this stockpile
	BuildChance          float64 `yaml:"build_chance"`
	CollectChance        float64 `yaml:"collect_chance"`
	StallLimit           int     `yaml:"stall_limit"` // stall count above this forces a random move
}

// DefaultTuning returns the reference thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		AnchorCap:            1,
		AnchorResourceMin:    100,
		AnchorMinTurn:        350,
		AnchorCooldown:       300,
		CarrierEarlyTurns:    250,
		CarrierAdamantiumMin: 110,
		BuildChance:          0.5,
		CollectChance:        0.5,
		StallLimit:           5,
	}
}

// Validate clamps all values to their valid ranges.
func (t *Tuning) Validate() {
	t.AnchorCap = clampInt(t.AnchorCap, 0, 5)
	t.AnchorResourceMin = clampInt(t.AnchorResourceMin, 0, 10000)
	t.AnchorMinTurn = clampInt(t.AnchorMinTurn, 0, 2000)
	t.AnchorCooldown = clampInt(t.AnchorCooldown, 0, 2000)
	t.CarrierEarlyTurns = clampInt(t.CarrierEarlyTurns, 0, 2000)
	t.CarrierAdamantiumMin = clampInt(t.CarrierAdamantiumMin, 0, 10000)
	t.BuildChance = clamp(t.BuildChance, 0, 1)
	t.CollectChance = clamp(t.CollectChance, 0, 1)
	t.StallLimit = clampInt(t.StallLimit, 1, 100)
}

// LoadTuning reads a YAML file over the defaults. Keys absent from the file
// keep their default value.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	t.Validate()
	return t, nil
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
