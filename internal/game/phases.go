package game

import (
	"github.com/wastelandgames/wasteland-server-go/internal/game/abilities"
	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

// runPhases drives the automatic phases until the actions phase or a
// pending halts progress. A halt leaves the phase where it stopped; the
// pending's completion calls back into resumePhases.
func (e *Engine) runPhases() {
	gs := e.state
	for !gs.IsOver() && rules.AutoAdvances(gs.Phase) {
		switch gs.Phase {
		case state.PhaseEvents:
			if !e.runEventsPhase() {
				return
			}
		case state.PhaseReplenish:
			e.runReplenish()
		}
		gs.Phase = rules.NextPhase(gs.Phase)
	}
}

// runEventsPhase resolves the front event of the current player's queue
// and shifts the rest forward. Returns false when a pending interrupted
// the resolution; the queue shift is then owed by the pending's
// completion.
func (e *Engine) runEventsPhase() bool {
	gs := e.state
	p := gs.Player(gs.CurrentPlayer)
	front := p.EventQueue[0]
	if front == nil {
		rules.ShiftEventQueue(p)
		return true
	}

	if front.Name == state.RaidersName {
		ctx := e.buildContext(gs.CurrentPlayer, front, -1, -1, state.Ability{}, 0)
		abilities.Raid(gs, ctx)
		if gs.Pending != nil {
			e.stampPending(state.FinalizeRaid, nil, 0, 0)
			return false
		}
		rules.ShiftEventQueue(p)
		return true
	}

	p.EventQueue[0] = nil
	e.resolveEventCard(gs.CurrentPlayer, front)
	if gs.Pending != nil {
		return false
	}
	rules.ShiftEventQueue(p)
	return true
}

// resumePhases finishes the automatic phase work a pending interrupted:
// the owed queue shift, then the rest of the cycle.
func (e *Engine) resumePhases() {
	gs := e.state
	if gs.Phase != state.PhaseEvents {
		return
	}
	rules.ShiftEventQueue(gs.Player(gs.CurrentPlayer))
	gs.Phase = rules.NextPhase(gs.Phase)
	e.runPhases()
}

// runReplenish deals the turn's income: one card, the turn's water, and
// a fresh set of ready cards. Damaged people stay spent.
func (e *Engine) runReplenish() {
	gs := e.state
	side := gs.CurrentPlayer
	e.drawToHand(side)
	if gs.IsOver() {
		return
	}
	p := gs.Player(side)
	p.Water = rules.ReplenishAmount(gs.TurnNumber)
	for col := range p.Columns {
		for pos := 0; pos < state.NumSlots; pos++ {
			card := p.Columns[col].GetCard(pos)
			if card == nil {
				continue
			}
			switch {
			case card.IsCamp():
				card.IsReady = !card.IsDestroyed
			default:
				card.IsReady = !card.IsDamaged
			}
		}
	}
}
