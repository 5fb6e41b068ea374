package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// EventPlacement is where a played event ends up.
type EventPlacement struct {
	// Instant events resolve the moment they are played and never
	// enter the queue.
	Instant bool
	Slot    int
	OK      bool
	Reason  string
}

// EventSlot computes the effective queue placement for an event: its
// queue number's slot, or the first free slot to its right. The
// instant-first-event trait short-circuits the first event each turn.
func EventSlot(gs *state.GameState, side state.Side, card *state.Card) EventPlacement {
	if card.QueueNumber == 0 {
		return EventPlacement{Instant: true, OK: true}
	}
	if !gs.TurnEvents.EventPlayed && HasActiveTrait(gs, side, state.TraitInstantFirstEvent) {
		return EventPlacement{Instant: true, OK: true}
	}
	p := gs.Player(side)
	for slot := card.QueueNumber - 1; slot < state.EventQueueSize; slot++ {
		if p.EventQueue[slot] == nil {
			return EventPlacement{Slot: slot, OK: true}
		}
	}
	return EventPlacement{Reason: "event queue is full"}
}

// ShiftEventQueue advances every queued event one slot toward the
// front. Slot 0 must already be clear.
func ShiftEventQueue(p *state.PlayerState) {
	for slot := 0; slot < state.EventQueueSize-1; slot++ {
		if p.EventQueue[slot] == nil {
			p.EventQueue[slot] = p.EventQueue[slot+1]
			p.EventQueue[slot+1] = nil
		}
	}
}

// RaidOutcome describes what a raid effect did.
type RaidOutcome string

const (
	RaidPlaced   RaidOutcome = "PLACED"
	RaidAdvanced RaidOutcome = "ADVANCED"
	// RaidResolves means the marker reached the front and the opponent
	// must now pick a camp to take the hit.
	RaidResolves RaidOutcome = "RESOLVES"
	RaidBlocked  RaidOutcome = "BLOCKED"
)

// RaidersQueueNumber is the slot the Raiders marker prefers.
const RaidersQueueNumber = 2

// AdvanceRaiders performs a raid for the side: place the marker if it
// is available, advance it if queued, resolve it if it is already at
// the front.
func AdvanceRaiders(gs *state.GameState, side state.Side) RaidOutcome {
	p := gs.Player(side)
	switch p.Raiders {
	case state.RaidersAvailable:
		marker := &state.Card{
			ID:          "raiders-" + string(side),
			Name:        state.RaidersName,
			Kind:        state.KindEvent,
			QueueNumber: RaidersQueueNumber,
		}
		for slot := RaidersQueueNumber - 1; slot < state.EventQueueSize; slot++ {
			if p.EventQueue[slot] == nil {
				p.EventQueue[slot] = marker
				p.Raiders = state.RaidersInQueue
				return RaidPlaced
			}
		}
		return RaidBlocked
	case state.RaidersInQueue:
		slot := RaidersSlot(p)
		if slot < 0 {
			return RaidBlocked
		}
		if slot == 0 {
			p.EventQueue[0] = nil
			return RaidResolves
		}
		if p.EventQueue[slot-1] == nil {
			p.EventQueue[slot-1] = p.EventQueue[slot]
			p.EventQueue[slot] = nil
			return RaidAdvanced
		}
		return RaidBlocked
	default:
		return RaidBlocked
	}
}

// RaidersSlot returns the queue slot holding the Raiders marker, or -1.
func RaidersSlot(p *state.PlayerState) int {
	for slot, ev := range p.EventQueue {
		if ev != nil && ev.Name == state.RaidersName {
			return slot
		}
	}
	return -1
}
