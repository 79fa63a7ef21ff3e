package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/world"
)

// DefaultCallTimeout bounds a single controller call.
const DefaultCallTimeout = 2 * time.Second

// RemoteController implements world.Controller by forwarding every call to
// the host. It is used from the connection's worker goroutine only.
//
// Losing the link latches: every later call returns the zero value without
// touching the wire, and Err reports the failure. Any other failure, such as
// a call timeout or a host-reported error, ends only the current turn: later
// calls in that turn short-circuit the same way until the next turn message.
type RemoteController struct {
	conn    *Connection
	timeout time.Duration
	robot   HelloMessage
	round   int
	err     error
	turnErr error
}

func NewRemoteController(conn *Connection, timeout time.Duration) *RemoteController {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &RemoteController{conn: conn, timeout: timeout}
}

func (r *RemoteController) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.turnErr
}

// call runs one method. Illegal actions are returned as-is; every other
// failure is returned and recorded, and no further call reaches the host
// until the next turn, or ever again if the link is gone.
func (r *RemoteController) call(method string, args any, out any) error {
	if r.err != nil {
		return r.err
	}
	if r.turnErr != nil {
		return r.turnErr
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	env, err := r.conn.Request(ctx, TypeCall, CallMessage{Method: method, Args: mustMarshal(args)})
	if err != nil {
		err = fmt.Errorf("%s: %w", method, err)
		if errors.Is(err, ErrClosed) {
			r.err = err
		} else {
			r.turnErr = err
		}
		return err
	}
	err = decodeResult(method, env, out)
	if err != nil && !world.IsIllegalAction(err) {
		r.turnErr = err
	}
	return err
}

// query is call for methods whose signature has no error. The failure is
// still reported through Err.
func (r *RemoteController) query(method string, args any, out any) {
	_ = r.call(method, args, out)
}

// startTurn clears the previous turn's failure. A lost link stays lost.
func (r *RemoteController) startTurn(round int) {
	r.round = round
	r.turnErr = nil
}

func mustMarshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		// Argument types are fixed structs of plain fields.
		panic(fmt.Sprintf("ipc: marshal args: %v", err))
	}
	return raw
}

func illegal(op, reason string) error { return world.Illegal(op, "%s", reason) }

func (r *RemoteController) ID() int               { return r.robot.Robot }
func (r *RemoteController) Type() model.RobotType { return r.robot.Type }
func (r *RemoteController) Team() model.Team      { return r.robot.Team }
func (r *RemoteController) RoundNum() int         { return r.round }

func (r *RemoteController) Location() model.Coord {
	var c model.Coord
	r.query(MethodLocation, nil, &c)
	return c
}

func (r *RemoteController) ResourceAmount(kind model.ResourceKind) int {
	var n int
	r.query(MethodResourceAmount, ResourceArgs{Resource: kind}, &n)
	return n
}

func (r *RemoteController) NumAnchors(anchor model.Anchor) int {
	var n int
	r.query(MethodNumAnchors, AnchorArgs{Anchor: anchor}, &n)
	return n
}

func (r *RemoteController) Anchor() model.Anchor {
	var a model.Anchor
	r.query(MethodAnchor, nil, &a)
	return a
}

func (r *RemoteController) SenseNearbyRobots(radiusSquared int, team model.Team) []model.RobotInfo {
	var robots []model.RobotInfo
	r.query(MethodSenseRobots, SenseRobotsArgs{Radius: radiusSquared, Team: team}, &robots)
	return robots
}

func (r *RemoteController) SenseNearbyIslands() []int {
	var ids []int
	r.query(MethodSenseIslands, nil, &ids)
	return ids
}

func (r *RemoteController) SenseIsland(loc model.Coord) (int, error) {
	id := world.NoIsland
	err := r.call(MethodSenseIsland, LocationArgs{Location: loc}, &id)
	return id, err
}

func (r *RemoteController) SenseAnchor(island int) (model.Anchor, error) {
	var a model.Anchor
	err := r.call(MethodSenseAnchor, IslandArgs{Island: island}, &a)
	return a, err
}

func (r *RemoteController) SenseNearbyIslandLocations(island int) ([]model.Coord, error) {
	var cells []model.Coord
	err := r.call(MethodSenseIslandLocations, IslandArgs{Island: island}, &cells)
	return cells, err
}

func (r *RemoteController) SenseNearbyWells() []model.WellInfo {
	var wells []model.WellInfo
	r.query(MethodSenseWells, nil, &wells)
	return wells
}

func (r *RemoteController) can(method string, args any) bool {
	var ok bool
	r.query(method, args, &ok)
	return ok
}

func (r *RemoteController) CanMove(dir model.Direction) bool {
	return r.can(MethodCanMove, DirectionArgs{Direction: dir})
}

func (r *RemoteController) Move(dir model.Direction) error {
	return r.call(MethodMove, DirectionArgs{Direction: dir}, nil)
}

func (r *RemoteController) CanAttack(loc model.Coord) bool {
	return r.can(MethodCanAttack, LocationArgs{Location: loc})
}

func (r *RemoteController) Attack(loc model.Coord) error {
	return r.call(MethodAttack, LocationArgs{Location: loc}, nil)
}

func (r *RemoteController) CanTransferResource(to model.Coord, kind model.ResourceKind, amount int) bool {
	return r.can(MethodCanTransferResource, TransferArgs{To: to, Resource: kind, Amount: amount})
}

func (r *RemoteController) TransferResource(to model.Coord, kind model.ResourceKind, amount int) error {
	return r.call(MethodTransferResource, TransferArgs{To: to, Resource: kind, Amount: amount}, nil)
}

func (r *RemoteController) CanCollectResource(loc model.Coord, amount int) bool {
	return r.can(MethodCanCollectResource, CollectArgs{Location: loc, Amount: amount})
}

func (r *RemoteController) CollectResource(loc model.Coord, amount int) error {
	return r.call(MethodCollectResource, CollectArgs{Location: loc, Amount: amount}, nil)
}

func (r *RemoteController) CanBuildAnchor(anchor model.Anchor) bool {
	return r.can(MethodCanBuildAnchor, AnchorArgs{Anchor: anchor})
}

func (r *RemoteController) BuildAnchor(anchor model.Anchor) error {
	return r.call(MethodBuildAnchor, AnchorArgs{Anchor: anchor}, nil)
}

func (r *RemoteController) CanTakeAnchor(from model.Coord, anchor model.Anchor) bool {
	return r.can(MethodCanTakeAnchor, AnchorArgs{Anchor: anchor, From: &from})
}

func (r *RemoteController) TakeAnchor(from model.Coord, anchor model.Anchor) error {
	return r.call(MethodTakeAnchor, AnchorArgs{Anchor: anchor, From: &from}, nil)
}

func (r *RemoteController) CanPlaceAnchor() bool { return r.can(MethodCanPlaceAnchor, nil) }

func (r *RemoteController) PlaceAnchor() error { return r.call(MethodPlaceAnchor, nil, nil) }

func (r *RemoteController) CanBuildRobot(t model.RobotType, loc model.Coord) bool {
	return r.can(MethodCanBuildRobot, BuildRobotArgs{Robot: t, Location: loc})
}

func (r *RemoteController) BuildRobot(t model.RobotType, loc model.Coord) error {
	return r.call(MethodBuildRobot, BuildRobotArgs{Robot: t, Location: loc}, nil)
}

func (r *RemoteController) SetIndicatorString(s string) {
	r.query(MethodSetIndicator, IndicatorArgs{Text: s}, nil)
}

// Yield tells the host the turn is over, whatever the turn's outcome. It
// does not wait for a reply, and sends nothing once the link is gone.
func (r *RemoteController) Yield() {
	if r.err != nil {
		return
	}
	if err := r.conn.Send(TypeYield, YieldMessage{Round: r.round}); err != nil {
		r.err = fmt.Errorf("yield: %w", err)
	}
}

// PlayerFactory creates the turn function for the robot a hello announced.
type PlayerFactory func(ctl world.Controller, session string) func()

// Attach binds a RemoteController to conn and registers the hello and turn
// handlers that drive it. Call before ReadLoop.
func Attach(conn *Connection, timeout time.Duration, factory PlayerFactory) *RemoteController {
	r := NewRemoteController(conn, timeout)
	var play func()

	conn.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		var hello HelloMessage
		if err := json.Unmarshal(env.Data, &hello); err != nil {
			return nil, fmt.Errorf("unmarshal hello: %w", err)
		}
		r.robot = hello
		play = factory(r, conn.Session)
		slog.Info("robot identified", "session", conn.Session, "robot", hello.Robot, "team", hello.Team, "type", hello.Type)

		ack, err := NewEnvelope(TypeAck, AckMessage{Status: "ok", Session: conn.Session})
		if err != nil {
			return nil, err
		}
		return &ack, nil
	})

	conn.RegisterHandler(TypeTurn, func(env Envelope) (*Envelope, error) {
		var turn TurnMessage
		if err := json.Unmarshal(env.Data, &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		if play == nil {
			return nil, errors.New("turn before hello")
		}
		r.startTurn(turn.Round)
		play()
		return nil, nil
	})

	return r
}
