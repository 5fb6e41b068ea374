package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// phaseOrder is the automatic turn cycle. Actions only leaves via an
// explicit end-turn; events and replenish advance on their own unless a
// pending halts them.
var phaseOrder = map[state.Phase]state.Phase{
	state.PhaseCampSelection: state.PhaseActions,
	state.PhaseEvents:        state.PhaseReplenish,
	state.PhaseReplenish:     state.PhaseActions,
	state.PhaseActions:       state.PhaseEvents,
}

// NextPhase returns the phase that follows p in the turn cycle.
func NextPhase(p state.Phase) state.Phase {
	if next, ok := phaseOrder[p]; ok {
		return next
	}
	return p
}

// AutoAdvances reports whether the phase driver moves past p without a
// player command.
func AutoAdvances(p state.Phase) bool {
	return p == state.PhaseEvents || p == state.PhaseReplenish
}

// ReplenishAmount is the water income for the given turn. The opening
// turn is throttled so the starting seat cannot flood the board.
func ReplenishAmount(turn int) int {
	if turn == 1 {
		return 1
	}
	return 3
}
