package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/regressiongames/world"
)

// Dispatch runs one call against a local controller. It is the host half of
// the call protocol.
func Dispatch(ctl world.Controller, call CallMessage) ResultMessage {
	value, err := dispatch(ctl, call)
	if err != nil {
		var ae *world.ActionError
		if errors.As(err, &ae) {
			return ResultMessage{Illegal: true, Op: ae.Op, Error: ae.Reason}
		}
		return ResultMessage{Error: err.Error()}
	}
	if value == nil {
		return ResultMessage{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ResultMessage{Error: fmt.Sprintf("marshal value: %v", err)}
	}
	return ResultMessage{Value: raw}
}

func decodeArgs[T any](call CallMessage) (T, error) {
	var args T
	if len(call.Args) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(call.Args, &args); err != nil {
		return args, fmt.Errorf("%s args: %w", call.Method, err)
	}
	return args, nil
}

func dispatch(ctl world.Controller, call CallMessage) (any, error) {
	switch call.Method {
	case MethodLocation:
		return ctl.Location(), nil
	case MethodAnchor:
		return ctl.Anchor(), nil
	case MethodSenseIslands:
		return ctl.SenseNearbyIslands(), nil
	case MethodSenseWells:
		return ctl.SenseNearbyWells(), nil
	case MethodCanPlaceAnchor:
		return ctl.CanPlaceAnchor(), nil
	case MethodPlaceAnchor:
		return nil, ctl.PlaceAnchor()
	}

	switch call.Method {
	case MethodResourceAmount:
		a, err := decodeArgs[ResourceArgs](call)
		if err != nil {
			return nil, err
		}
		return ctl.ResourceAmount(a.Resource), nil
	case MethodSenseRobots:
		a, err := decodeArgs[SenseRobotsArgs](call)
		if err != nil {
			return nil, err
		}
		return ctl.SenseNearbyRobots(a.Radius, a.Team), nil
	case MethodSenseIsland:
		a, err := decodeArgs[LocationArgs](call)
		if err != nil {
			return nil, err
		}
		return ctl.SenseIsland(a.Location)
	case MethodSenseAnchor, MethodSenseIslandLocations:
		a, err := decodeArgs[IslandArgs](call)
		if err != nil {
			return nil, err
		}
		if call.Method == MethodSenseAnchor {
			return ctl.SenseAnchor(a.Island)
		}
		return ctl.SenseNearbyIslandLocations(a.Island)
	case MethodCanMove, MethodMove:
		a, err := decodeArgs[DirectionArgs](call)
		if err != nil {
			return nil, err
		}
		if call.Method == MethodCanMove {
			return ctl.CanMove(a.Direction), nil
		}
		return nil, ctl.Move(a.Direction)
	case MethodCanAttack, MethodAttack:
		a, err := decodeArgs[LocationArgs](call)
		if err != nil {
			return nil, err
		}
		if call.Method == MethodCanAttack {
			return ctl.CanAttack(a.Location), nil
		}
		return nil, ctl.Attack(a.Location)
	case MethodCanTransferResource, MethodTransferResource:
		a, err := decodeArgs[TransferArgs](call)
		if err != nil {
			return nil, err
		}
		if call.Method == MethodCanTransferResource {
			return ctl.CanTransferResource(a.To, a.Resource, a.Amount), nil
		}
		return nil, ctl.TransferResource(a.To, a.Resource, a.Amount)
	case MethodCanCollectResource, MethodCollectResource:
		a, err := decodeArgs[CollectArgs](call)
		if err != nil {
			return nil, err
		}
		if call.Method == MethodCanCollectResource {
			return ctl.CanCollectResource(a.Location, a.Amount), nil
		}
		return nil, ctl.CollectResource(a.Location, a.Amount)
	case MethodNumAnchors, MethodCanBuildAnchor, MethodBuildAnchor, MethodCanTakeAnchor, MethodTakeAnchor:
		a, err := decodeArgs[AnchorArgs](call)
		if err != nil {
			return nil, err
		}
		switch call.Method {
		case MethodNumAnchors:
			return ctl.NumAnchors(a.Anchor), nil
		case MethodCanBuildAnchor:
			return ctl.CanBuildAnchor(a.Anchor), nil
		case MethodBuildAnchor:
			return nil, ctl.BuildAnchor(a.Anchor)
		}
		if a.From == nil {
			return nil, fmt.Errorf("%s: missing from", call.Method)
		}
		if call.Method == MethodCanTakeAnchor {
			return ctl.CanTakeAnchor(*a.From, a.Anchor), nil
		}
		return nil, ctl.TakeAnchor(*a.From, a.Anchor)
	case MethodCanBuildRobot, MethodBuildRobot:
		a, err := decodeArgs[BuildRobotArgs](call)
		if err != nil {
			return nil, err
		}
		if call.Method == MethodCanBuildRobot {
			return ctl.CanBuildRobot(a.Robot, a.Location), nil
		}
		return nil, ctl.BuildRobot(a.Robot, a.Location)
	case MethodSetIndicator:
		a, err := decodeArgs[IndicatorArgs](call)
		if err != nil {
			return nil, err
		}
		ctl.SetIndicatorString(a.Text)
		return nil, nil
	}
	return nil, fmt.Errorf("unknown method %q", call.Method)
}

// HostRobot is the game side of one robot's connection: it announces the
// robot, starts its turns and answers its calls from a local controller.
type HostRobot struct {
	conn   *Connection
	ctl    world.Controller
	yields chan YieldMessage
}

// NewHostRobot registers the call and yield handlers on conn. Call before
// ReadLoop.
func NewHostRobot(conn *Connection, ctl world.Controller) *HostRobot {
	h := &HostRobot{conn: conn, ctl: ctl, yields: make(chan YieldMessage, 4)}

	conn.RegisterHandler(TypeCall, func(env Envelope) (*Envelope, error) {
		var call CallMessage
		if err := json.Unmarshal(env.Data, &call); err != nil {
			return nil, fmt.Errorf("unmarshal call: %w", err)
		}
		res, err := NewEnvelope(TypeResult, Dispatch(h.ctl, call))
		if err != nil {
			return nil, err
		}
		return &res, nil
	})

	conn.RegisterHandler(TypeYield, func(env Envelope) (*Envelope, error) {
		var y YieldMessage
		if err := json.Unmarshal(env.Data, &y); err != nil {
			return nil, fmt.Errorf("unmarshal yield: %w", err)
		}
		h.ctl.Yield()
		select {
		case h.yields <- y:
		default:
			slog.Warn("yield dropped, previous one not collected", "robot", h.ctl.ID(), "round", y.Round)
		}
		return nil, nil
	})

	return h
}

// Hello announces the robot and waits for the ack.
func (h *HostRobot) Hello(ctx context.Context) (AckMessage, error) {
	env, err := h.conn.Request(ctx, TypeHello, HelloMessage{
		Robot: h.ctl.ID(),
		Team:  h.ctl.Team(),
		Type:  h.ctl.Type(),
	})
	if err != nil {
		return AckMessage{}, err
	}
	var ack AckMessage
	if err := json.Unmarshal(env.Data, &ack); err != nil {
		return AckMessage{}, fmt.Errorf("unmarshal ack: %w", err)
	}
	return ack, nil
}

// Turn starts the robot's turn for round and waits for its yield.
//
// A yield from an earlier round, left by a turn that timed out here, is
// discarded.
func (h *HostRobot) Turn(ctx context.Context, round int) error {
	for drained := false; !drained; {
		select {
		case y := <-h.yields:
			slog.Debug("stale yield", "robot", h.ctl.ID(), "round", y.Round, "want", round)
		default:
			drained = true
		}
	}
	if err := h.conn.Send(TypeTurn, TurnMessage{Round: round}); err != nil {
		return err
	}
	for {
		select {
		case y := <-h.yields:
			if y.Round < round {
				// A turn that timed out on this side finished late.
				slog.Debug("stale yield", "robot", h.ctl.ID(), "round", y.Round, "want", round)
				continue
			}
			if y.Round != round {
				return fmt.Errorf("yield for round %d, expected %d", y.Round, round)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-h.conn.Done():
			return h.conn.Err()
		}
	}
}
