package ipc

import (
	"encoding/json"

	"github.com/nstehr/regressiongames/model"
)

// Message types. ack and result are replies and carry the ID of the
// request they answer.
const (
	TypeHello  = "hello"
	TypeAck    = "ack"
	TypeTurn   = "turn"
	TypeCall   = "call"
	TypeResult = "result"
	TypeYield  = "yield"
)

func isReply(msgType string) bool {
	return msgType == TypeAck || msgType == TypeResult
}

// HelloMessage binds a connection to one robot.
type HelloMessage struct {
	Robot int             `json:"robot"`
	Team  model.Team      `json:"team"`
	Type  model.RobotType `json:"type"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}

// TurnMessage starts the robot's turn for a round.
type TurnMessage struct {
	Round int `json:"round"`
}

// YieldMessage ends the turn started by the matching TurnMessage.
type YieldMessage struct {
	Round int `json:"round"`
}

// CallMessage asks the host to run one controller method.
type CallMessage struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// ResultMessage answers a call. Illegal marks a rejected action; Op and
// Error then describe the rejection.
type ResultMessage struct {
	Value   json.RawMessage `json:"value,omitempty"`
	Error   string          `json:"error,omitempty"`
	Illegal bool            `json:"illegal,omitempty"`
	Op      string          `json:"op,omitempty"`
}

// Controller methods, one per world.Controller method the host serves.
const (
	MethodLocation             = "location"
	MethodResourceAmount       = "resource_amount"
	MethodNumAnchors           = "num_anchors"
	MethodAnchor               = "anchor"
	MethodSenseRobots          = "sense_nearby_robots"
	MethodSenseIslands         = "sense_nearby_islands"
	MethodSenseIsland          = "sense_island"
	MethodSenseAnchor          = "sense_anchor"
	MethodSenseIslandLocations = "sense_nearby_island_locations"
	MethodSenseWells           = "sense_nearby_wells"
	MethodCanMove              = "can_move"
	MethodMove                 = "move"
	MethodCanAttack            = "can_attack"
	MethodAttack               = "attack"
	MethodCanTransferResource  = "can_transfer_resource"
	MethodTransferResource     = "transfer_resource"
	MethodCanCollectResource   = "can_collect_resource"
	MethodCollectResource      = "collect_resource"
	MethodCanBuildAnchor       = "can_build_anchor"
	MethodBuildAnchor          = "build_anchor"
	MethodCanTakeAnchor        = "can_take_anchor"
	MethodTakeAnchor           = "take_anchor"
	MethodCanPlaceAnchor       = "can_place_anchor"
	MethodPlaceAnchor          = "place_anchor"
	MethodCanBuildRobot        = "can_build_robot"
	MethodBuildRobot           = "build_robot"
	MethodSetIndicator         = "set_indicator_string"
)

// Call arguments. Each method uses the fields it needs.
type (
	ResourceArgs struct {
		Resource model.ResourceKind `json:"resource"`
	}
	AnchorArgs struct {
		Anchor model.Anchor `json:"anchor"`
		From   *model.Coord `json:"from,omitempty"`
	}
	SenseRobotsArgs struct {
		Radius int        `json:"radius"`
		Team   model.Team `json:"team,omitempty"`
	}
	LocationArgs struct {
		Location model.Coord `json:"location"`
	}
	IslandArgs struct {
		Island int `json:"island"`
	}
	DirectionArgs struct {
		Direction model.Direction `json:"direction"`
	}
	TransferArgs struct {
		To       model.Coord        `json:"to"`
		Resource model.ResourceKind `json:"resource"`
		Amount   int                `json:"amount"`
	}
	CollectArgs struct {
		Location model.Coord `json:"location"`
		Amount   int         `json:"amount"`
	}
	BuildRobotArgs struct {
		Robot    model.RobotType `json:"robot"`
		Location model.Coord     `json:"location"`
	}
	IndicatorArgs struct {
		Text string `json:"text"`
	}
)
