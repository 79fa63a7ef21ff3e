package rules

import "github.com/nstehr/regressiongames/model"

// Memory is what a single robot remembers between turns. It is owned by that
// robot's agent and never shared.
type Memory struct {
	Home                *model.Coord // first friendly headquarters sensed; never overwritten
	LastPosition        *model.Coord
	StallCount          int // consecutive turns observed at LastPosition
	LastAnchorBuildTurn int
	TurnCount           int // turns this robot has been alive
}

// NextTurn advances the turn counter and returns the new value.
func (m *Memory) NextTurn() int {
	m.TurnCount++
	return m.TurnCount
}

// RememberHome records c as home unless home is already known.
func (m *Memory) RememberHome(c model.Coord) bool {
	if m.Home != nil {
		return false
	}
	m.Home = &c
	return true
}

// ObservePosition updates stall tracking with this turn's location and
// returns the stall count. The first observation and any movement reset it to 0.
func (m *Memory) ObservePosition(c model.Coord) int {
	if m.LastPosition == nil || *m.LastPosition != c {
		m.LastPosition = &c
		m.StallCount = 0
		return 0
	}
	m.StallCount++
	return m.StallCount
}

func (m *Memory) RecordAnchorBuild() { m.LastAnchorBuildTurn = m.TurnCount }

func (m *Memory) TurnsSinceAnchorBuild() int { return m.TurnCount - m.LastAnchorBuildTurn }
