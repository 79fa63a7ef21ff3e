package model

import "strings"

// ResourceKind is a collectible material type.
type ResourceKind string

const (
	NoResource ResourceKind = ""
	Adamantium ResourceKind = "adamantium"
	Mana       ResourceKind = "mana"
	Elixir     ResourceKind = "elixir"
)

// ResourceKinds is the enumeration order. Deposit order follows it.
var ResourceKinds = []ResourceKind{Adamantium, Mana, Elixir}

// ParseResourceKind resolves a case-insensitive kind name.
func ParseResourceKind(s string) (ResourceKind, bool) {
	for _, k := range ResourceKinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return NoResource, false
}

// InventoryFullThreshold is the carried total at which a gatherer heads home.
const InventoryFullThreshold = 40

// Inventory maps each kind to a non-negative amount. A missing key is zero.
type Inventory map[ResourceKind]int

// Total sums every amount.
func (inv Inventory) Total() int {
	n := 0
	for _, v := range inv {
		n += v
	}
	return n
}

func (inv Inventory) IsFull() bool { return inv.Total() >= InventoryFullThreshold }

func (inv Inventory) HasAny() bool { return inv.Total() > 0 }

// NextDepositable returns the first kind in enumeration order with a positive
// amount, paired with that whole amount. Ties are never broken by size.
func (inv Inventory) NextDepositable() (ResourceKind, int, bool) {
	for _, k := range ResourceKinds {
		if amount := inv[k]; amount > 0 {
			return k, amount, true
		}
	}
	return NoResource, 0, false
}

// Covers reports whether inv holds at least every amount in cost.
func (inv Inventory) Covers(cost Inventory) bool {
	for k, v := range cost {
		if inv[k] < v {
			return false
		}
	}
	return true
}
