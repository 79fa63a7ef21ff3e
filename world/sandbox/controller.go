package sandbox

import (
	"fmt"
	"sort"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

const (
	launcherDamage = 20
	carrierDivisor = 5 // carrier damage is carried weight / 5
)

type controller struct {
	w *World
	r *Robot
}

func (c *controller) ID() int               { return c.r.ID }
func (c *controller) Location() model.Coord { return c.r.Location }
func (c *controller) Type() model.RobotType { return c.r.Type }
func (c *controller) Team() model.Team      { return c.r.Team }
func (c *controller) RoundNum() int         { return c.w.round }
func (c *controller) Anchor() model.Anchor  { return c.r.Held }

func (c *controller) SetIndicatorString(s string) { c.r.Indicator = s }

func (c *controller) Yield() { c.r.Yields++ }

func (c *controller) ResourceAmount(kind model.ResourceKind) int {
	return c.r.Inventory[kind]
}

func (c *controller) NumAnchors(anchor model.Anchor) int {
	return c.r.Anchors[anchor]
}

// --- sensing ---

func (c *controller) visionRadius(radiusSquared int) int {
	vision := c.r.Type.VisionRadiusSquared()
	if radiusSquared < 0 || radiusSquared > vision {
		return vision
	}
	return radiusSquared
}

func (c *controller) visible(loc model.Coord) bool {
	return c.r.Location.DistanceSquaredTo(loc) <= c.r.Type.VisionRadiusSquared()
}

func (c *controller) SenseNearbyRobots(radiusSquared int, team model.Team) []model.RobotInfo {
	radius := c.visionRadius(radiusSquared)
	var out []model.RobotInfo
	for _, id := range c.w.RobotIDs() {
		o := c.w.robots[id]
		if o.ID == c.r.ID {
			continue
		}
		if team != model.NoTeam && o.Team != team {
			continue
		}
		if c.r.Location.DistanceSquaredTo(o.Location) <= radius {
			out = append(out, o.info())
		}
	}
	return out
}

func (c *controller) SenseNearbyIslands() []int {
	var ids []int
	for id, isl := range c.w.islands {
		for _, cell := range isl.Cells {
			if c.visible(cell) {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Ints(ids)
	return ids
}

func (c *controller) SenseIsland(loc model.Coord) (int, error) {
	if !c.visible(loc) {
		return world.NoIsland, fmt.Errorf("sense island at %v: %w", loc, world.ErrNotVisible)
	}
	if id, ok := c.w.islandCells[loc]; ok {
		return id, nil
	}
	return world.NoIsland, nil
}

func (c *controller) visibleIsland(id int) (*Island, error) {
	isl, ok := c.w.islands[id]
	if !ok {
		return nil, fmt.Errorf("island %d: %w", id, world.ErrNotVisible)
	}
	for _, cell := range isl.Cells {
		if c.visible(cell) {
			return isl, nil
		}
	}
	return nil, fmt.Errorf("island %d: %w", id, world.ErrNotVisible)
}

func (c *controller) SenseAnchor(island int) (model.Anchor, error) {
	isl, err := c.visibleIsland(island)
	if err != nil {
		return model.NoAnchor, err
	}
	return isl.Anchor, nil
}

func (c *controller) SenseNearbyIslandLocations(island int) ([]model.Coord, error) {
	isl, err := c.visibleIsland(island)
	if err != nil {
		return nil, err
	}
	var out []model.Coord
	for _, cell := range isl.Cells {
		if c.visible(cell) {
			out = append(out, cell)
		}
	}
	return out, nil
}

func (c *controller) SenseNearbyWells() []model.WellInfo {
	var out []model.WellInfo
	for loc, kind := range c.w.wells {
		if c.visible(loc) {
			out = append(out, model.WellInfo{Location: loc, Resource: kind})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return out
}

// --- legality ---

func (c *controller) checkCooldown(op string) error {
	if c.r.actions >= c.w.ActionsPerTurn {
		return world.Illegal(op, "action cooldown")
	}
	return nil
}

func (c *controller) checkInRange(op string, loc model.Coord) error {
	if d := c.r.Location.DistanceSquaredTo(loc); d > c.r.Type.ActionRadiusSquared() {
		return world.Illegal(op, "%v out of action range", loc)
	}
	return nil
}

func (c *controller) checkRole(op string, t model.RobotType) error {
	if c.r.Type != t {
		return world.Illegal(op, "%s cannot %s", c.r.Type, op)
	}
	return nil
}

func (c *controller) ownHeadquartersAt(op string, loc model.Coord) (*Robot, error) {
	hq := c.w.RobotAt(loc)
	if hq == nil || hq.Type != model.Headquarters || hq.Team != c.r.Team {
		return nil, world.Illegal(op, "no friendly headquarters at %v", loc)
	}
	return hq, nil
}

func (c *controller) checkMove(dir model.Direction) error {
	if c.r.Type == model.Headquarters {
		return world.Illegal("move", "headquarters cannot move")
	}
	if c.r.moves >= c.w.MovesPerTurn {
		return world.Illegal("move", "movement cooldown")
	}
	if dir == model.Center {
		return world.Illegal("move", "no direction")
	}
	dest := c.r.Location.Add(dir)
	if !c.w.Terrain.Passable(dest) {
		return world.Illegal("move", "%v is blocked", dest)
	}
	if c.w.RobotAt(dest) != nil {
		return world.Illegal("move", "%v is occupied", dest)
	}
	return nil
}

func (c *controller) checkAttack(loc model.Coord) error {
	if c.r.Type != model.Carrier && c.r.Type != model.Launcher {
		return world.Illegal("attack", "%s cannot attack", c.r.Type)
	}
	if err := c.checkCooldown("attack"); err != nil {
		return err
	}
	if !c.w.Terrain.InBounds(loc) {
		return world.Illegal("attack", "%v is off the map", loc)
	}
	if err := c.checkInRange("attack", loc); err != nil {
		return err
	}
	if c.r.Type == model.Carrier && !c.r.Inventory.HasAny() {
		return world.Illegal("attack", "carrier has nothing to throw")
	}
	return nil
}

func (c *controller) checkTransfer(to model.Coord, kind model.ResourceKind, amount int) error {
	if err := c.checkRole("transfer", model.Carrier); err != nil {
		return err
	}
	if err := c.checkCooldown("transfer"); err != nil {
		return err
	}
	if amount <= 0 || c.r.Inventory[kind] < amount {
		return world.Illegal("transfer", "holding %d %s, asked for %d", c.r.Inventory[kind], kind, amount)
	}
	if _, err := c.ownHeadquartersAt("transfer", to); err != nil {
		return err
	}
	return c.checkInRange("transfer", to)
}

func (c *controller) checkCollect(loc model.Coord, amount int) error {
	if err := c.checkRole("collect", model.Carrier); err != nil {
		return err
	}
	if err := c.checkCooldown("collect"); err != nil {
		return err
	}
	if _, ok := c.w.wells[loc]; !ok {
		return world.Illegal("collect", "no well at %v", loc)
	}
	if c.r.Location.DistanceSquaredTo(loc) > 2 {
		return world.Illegal("collect", "well %v not adjacent", loc)
	}
	total := c.r.Inventory.Total()
	if total >= model.InventoryFullThreshold {
		return world.Illegal("collect", "inventory full")
	}
	if amount == world.CollectAll {
		return nil
	}
	if amount <= 0 || amount > CollectRate || total+amount > model.InventoryFullThreshold {
		return world.Illegal("collect", "cannot collect %d", amount)
	}
	return nil
}

func (c *controller) checkBuildAnchor(anchor model.Anchor) error {
	if err := c.checkRole("build anchor", model.Headquarters); err != nil {
		return err
	}
	if err := c.checkCooldown("build anchor"); err != nil {
		return err
	}
	cost := anchor.BuildCost()
	if len(cost) == 0 {
		return world.Illegal("build anchor", "unknown anchor %q", anchor)
	}
	if !c.r.Inventory.Covers(cost) {
		return world.Illegal("build anchor", "insufficient resources")
	}
	return nil
}

func (c *controller) checkTakeAnchor(from model.Coord, anchor model.Anchor) error {
	if err := c.checkRole("take anchor", model.Carrier); err != nil {
		return err
	}
	if err := c.checkCooldown("take anchor"); err != nil {
		return err
	}
	if c.r.Held != model.NoAnchor {
		return world.Illegal("take anchor", "already holding an anchor")
	}
	if c.r.Inventory.HasAny() {
		return world.Illegal("take anchor", "hands are full")
	}
	hq, err := c.ownHeadquartersAt("take anchor", from)
	if err != nil {
		return err
	}
	if err := c.checkInRange("take anchor", from); err != nil {
		return err
	}
	if hq.Anchors[anchor] <= 0 {
		return world.Illegal("take anchor", "no %s anchor at %v", anchor, from)
	}
	return nil
}

func (c *controller) checkPlaceAnchor() error {
	if err := c.checkRole("place anchor", model.Carrier); err != nil {
		return err
	}
	if err := c.checkCooldown("place anchor"); err != nil {
		return err
	}
	if c.r.Held == model.NoAnchor {
		return world.Illegal("place anchor", "no anchor held")
	}
	id, ok := c.w.islandCells[c.r.Location]
	if !ok {
		return world.Illegal("place anchor", "%v is not an island", c.r.Location)
	}
	if c.w.islands[id].Anchor != model.NoAnchor {
		return world.Illegal("place anchor", "island %d already anchored", id)
	}
	return nil
}

func (c *controller) checkBuildRobot(t model.RobotType, loc model.Coord) error {
	if err := c.checkRole("build robot", model.Headquarters); err != nil {
		return err
	}
	if err := c.checkCooldown("build robot"); err != nil {
		return err
	}
	cost := t.BuildCost()
	if len(cost) == 0 {
		return world.Illegal("build robot", "%s cannot be built", t)
	}
	if err := c.checkInRange("build robot", loc); err != nil {
		return err
	}
	if !c.w.Terrain.Passable(loc) || c.w.RobotAt(loc) != nil {
		return world.Illegal("build robot", "%v is not free", loc)
	}
	if !c.r.Inventory.Covers(cost) {
		return world.Illegal("build robot", "insufficient resources")
	}
	return nil
}

func (c *controller) CanMove(dir model.Direction) bool { return c.checkMove(dir) == nil }
func (c *controller) CanAttack(loc model.Coord) bool   { return c.checkAttack(loc) == nil }
func (c *controller) CanTransferResource(to model.Coord, kind model.ResourceKind, amount int) bool {
	return c.checkTransfer(to, kind, amount) == nil
}
func (c *controller) CanCollectResource(loc model.Coord, amount int) bool {
	return c.checkCollect(loc, amount) == nil
}
func (c *controller) CanBuildAnchor(anchor model.Anchor) bool { return c.checkBuildAnchor(anchor) == nil }
func (c *controller) CanTakeAnchor(from model.Coord, anchor model.Anchor) bool {
	return c.checkTakeAnchor(from, anchor) == nil
}
func (c *controller) CanPlaceAnchor() bool { return c.checkPlaceAnchor() == nil }
func (c *controller) CanBuildRobot(t model.RobotType, loc model.Coord) bool {
	return c.checkBuildRobot(t, loc) == nil
}

// --- actions ---

func (c *controller) Move(dir model.Direction) error {
	if err := c.checkMove(dir); err != nil {
		return err
	}
	c.r.Location = c.r.Location.Add(dir)
	c.r.moves++
	return nil
}

func (c *controller) Attack(loc model.Coord) error {
	if err := c.checkAttack(loc); err != nil {
		return err
	}
	damage := launcherDamage
	if c.r.Type == model.Carrier {
		damage = c.r.Inventory.Total() / carrierDivisor
		c.r.Inventory = make(model.Inventory)
	}
	if target := c.w.RobotAt(loc); target != nil && target.Type != model.Headquarters {
		target.Health -= damage
		if target.Health <= 0 {
			c.w.remove(target)
		}
	}
	c.r.actions++
	return nil
}

func (c *controller) TransferResource(to model.Coord, kind model.ResourceKind, amount int) error {
	if err := c.checkTransfer(to, kind, amount); err != nil {
		return err
	}
	hq := c.w.RobotAt(to)
	c.r.Inventory[kind] -= amount
	hq.Inventory[kind] += amount
	c.r.actions++
	return nil
}

func (c *controller) CollectResource(loc model.Coord, amount int) error {
	if err := c.checkCollect(loc, amount); err != nil {
		return err
	}
	if amount == world.CollectAll {
		amount = min(CollectRate, model.InventoryFullThreshold-c.r.Inventory.Total())
	}
	c.r.Inventory[c.w.wells[loc]] += amount
	c.r.actions++
	return nil
}

func (c *controller) BuildAnchor(anchor model.Anchor) error {
	if err := c.checkBuildAnchor(anchor); err != nil {
		return err
	}
	for k, v := range anchor.BuildCost() {
		c.r.Inventory[k] -= v
	}
	c.r.Anchors[anchor]++
	c.r.actions++
	return nil
}

func (c *controller) TakeAnchor(from model.Coord, anchor model.Anchor) error {
	if err := c.checkTakeAnchor(from, anchor); err != nil {
		return err
	}
	hq := c.w.RobotAt(from)
	hq.Anchors[anchor]--
	c.r.Held = anchor
	c.r.actions++
	return nil
}

func (c *controller) PlaceAnchor() error {
	if err := c.checkPlaceAnchor(); err != nil {
		return err
	}
	isl := c.w.islands[c.w.islandCells[c.r.Location]]
	isl.Anchor = c.r.Held
	isl.Team = c.r.Team
	c.r.Held = model.NoAnchor
	c.r.actions++
	return nil
}

func (c *controller) BuildRobot(t model.RobotType, loc model.Coord) error {
	if err := c.checkBuildRobot(t, loc); err != nil {
		return err
	}
	for k, v := range t.BuildCost() {
		c.r.Inventory[k] -= v
	}
	if _, err := c.w.AddRobot(c.r.Team, t, loc); err != nil {
		return fmt.Errorf("build robot: %w", err)
	}
	c.r.actions++
	return nil
}
