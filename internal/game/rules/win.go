package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// CampsToLose is the number of destroyed camps that ends the game.
const CampsToLose = 3

// WinCheck inspects both sides for three destroyed camps and returns
// the winner if the game is decided. Idempotent; runs after every
// state-mutating command because many effects can destroy a camp
// indirectly.
func WinCheck(gs *state.GameState) (winner state.Side, reason string, over bool) {
	leftOut := gs.Player(state.SideLeft).DestroyedCampCount() >= CampsToLose
	rightOut := gs.Player(state.SideRight).DestroyedCampCount() >= CampsToLose
	switch {
	case leftOut && rightOut:
		return "", "all camps destroyed on both sides", true
	case leftOut:
		return state.SideRight, "opponent camps destroyed", true
	case rightOut:
		return state.SideLeft, "opponent camps destroyed", true
	}
	return "", "", false
}
