package agent

import (
	"fmt"

	"github.com/nstehr/regressiongames/model"
)

// EventKind identifies a notable change between two consecutive turns of
// one robot.
type EventKind string

const (
	EventHomeDiscovered EventKind = "home_discovered"
	EventAnchorBuilt    EventKind = "anchor_built"
	EventAnchorAcquired EventKind = "anchor_acquired"
	EventAnchorPlaced   EventKind = "anchor_placed"
	EventInventoryFull  EventKind = "inventory_full"
	EventStalled        EventKind = "stalled"
)

// Event is a change detected by diffing post-turn snapshots.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

// snapshot captures the diffable state after a turn. The zero value stands
// for "before the first turn".
type snapshot struct {
	homeKnown      bool
	location       model.Coord
	carried        model.Inventory
	held           model.Anchor
	full           bool // gatherers only
	stall          int
	lastAnchorTurn int
	anchorsStocked int // coordinators only
}

// detectEvents compares this turn's snapshot against the previous one.
// stallLimit is the count above which a gatherer is forced to move.
func detectEvents(turn int, prev, cur snapshot, stallLimit int) []Event {
	var events []Event

	if !prev.homeKnown && cur.homeKnown {
		events = append(events, Event{
			Kind:   EventHomeDiscovered,
			Turn:   turn,
			Detail: fmt.Sprintf("home known from %v", cur.location),
		})
	}

	if cur.lastAnchorTurn != prev.lastAnchorTurn && cur.lastAnchorTurn == turn {
		events = append(events, Event{
			Kind:   EventAnchorBuilt,
			Turn:   turn,
			Detail: fmt.Sprintf("anchors in stock: %d", cur.anchorsStocked),
		})
	}

	switch {
	case prev.held == model.NoAnchor && cur.held != model.NoAnchor:
		events = append(events, Event{
			Kind:   EventAnchorAcquired,
			Turn:   turn,
			Detail: fmt.Sprintf("holding %s anchor", cur.held),
		})
	case prev.held != model.NoAnchor && cur.held == model.NoAnchor:
		events = append(events, Event{
			Kind:   EventAnchorPlaced,
			Turn:   turn,
			Detail: fmt.Sprintf("anchor placed at %v", cur.location),
		})
	}

	if !prev.full && cur.full {
		events = append(events, Event{
			Kind:   EventInventoryFull,
			Turn:   turn,
			Detail: fmt.Sprintf("carrying %d", cur.carried.Total()),
		})
	}

	if prev.stall <= stallLimit && cur.stall > stallLimit {
		events = append(events, Event{
			Kind:   EventStalled,
			Turn:   turn,
			Detail: fmt.Sprintf("no movement for %d turns at %v", cur.stall, cur.location),
		})
	}

	return events
}

func eventKinds(events []Event) []string {
	if len(events) == 0 {
		return nil
	}
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = string(e.Kind)
	}
	return kinds
}
