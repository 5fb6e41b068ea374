package game

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// CommandType is the vocabulary the engine accepts from its caller.
type CommandType string

const (
	CmdPlayCard       CommandType = "PLAY_CARD"
	CmdUseAbility     CommandType = "USE_ABILITY"
	CmdUseCampAbility CommandType = "USE_CAMP_ABILITY"
	CmdJunkCard       CommandType = "JUNK_CARD"
	CmdDrawCard       CommandType = "DRAW_CARD"
	CmdTakeWaterSilo  CommandType = "TAKE_WATER_SILO"
	CmdEndTurn        CommandType = "END_TURN"
	CmdSelectTarget   CommandType = "SELECT_TARGET"
	CmdCancelAction   CommandType = "CANCEL_ACTION"
	CmdSelectCamps    CommandType = "SELECT_CAMPS"
)

// Command is one player intent. Every command names its acting side
// except SELECT_TARGET, whose actor is whoever the pending designates.
type Command struct {
	Type     CommandType `json:"type"`
	PlayerID state.Side  `json:"playerId,omitempty"`

	// PLAY_CARD
	CardID         string `json:"cardId,omitempty"`
	TargetColumn   int    `json:"targetColumn"`
	TargetPosition int    `json:"targetPosition"`

	// USE_ABILITY / USE_CAMP_ABILITY
	ColumnIndex  int `json:"columnIndex"`
	Position     int `json:"position"`
	AbilityIndex int `json:"abilityIndex"`

	// JUNK_CARD and hand-pick continuations
	CardIndex int `json:"cardIndex"`

	// SELECT_TARGET
	TargetPlayer state.Side `json:"targetPlayer,omitempty"`

	// SELECT_CAMPS
	CampNames []string `json:"campNames,omitempty"`
}

// CommandResult is the structured outcome of one command. Failure
// carries a human-readable reason and guarantees no state mutation.
type CommandResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() CommandResult {
	return CommandResult{Success: true}
}

func fail(reason string) CommandResult {
	return CommandResult{Success: false, Error: reason}
}
