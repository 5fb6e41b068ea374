package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

func eventCard(name string, queue int) *state.Card {
	c := testCard(name, state.KindEvent)
	c.QueueNumber = queue
	return c
}

func TestEventSlotInstantForQueueZero(t *testing.T) {
	gs := testState()
	placement := EventSlot(gs, state.SideLeft, eventCard("Strafe", 0))

	assert.True(t, placement.OK)
	assert.True(t, placement.Instant)
}

func TestEventSlotUsesQueueNumber(t *testing.T) {
	gs := testState()
	placement := EventSlot(gs, state.SideLeft, eventCard("Uprising", 2))

	require.True(t, placement.OK)
	assert.False(t, placement.Instant)
	assert.Equal(t, 1, placement.Slot)
}

func TestEventSlotSlidesRightWhenOccupied(t *testing.T) {
	gs := testState()
	p := gs.Player(state.SideLeft)
	p.EventQueue[0] = eventCard("Napalm", 1)

	placement := EventSlot(gs, state.SideLeft, eventCard("Famine", 1))

	require.True(t, placement.OK)
	assert.Equal(t, 1, placement.Slot)
}

func TestEventSlotFullQueueRejects(t *testing.T) {
	gs := testState()
	p := gs.Player(state.SideLeft)
	for slot := 0; slot < state.EventQueueSize; slot++ {
		p.EventQueue[slot] = eventCard("Napalm", 1)
	}

	placement := EventSlot(gs, state.SideLeft, eventCard("Famine", 1))
	assert.False(t, placement.OK)
}

func TestEventSlotInstantFirstEventTrait(t *testing.T) {
	gs := testState()
	carrier := testCard("Zeto Kahn", state.KindPerson)
	carrier.Traits = []state.Trait{state.TraitInstantFirstEvent}
	place(gs, state.SideLeft, 0, state.SlotFront, carrier)

	placement := EventSlot(gs, state.SideLeft, eventCard("Uprising", 2))
	assert.True(t, placement.Instant, "the first event this turn resolves immediately")

	gs.TurnEvents.EventPlayed = true
	placement = EventSlot(gs, state.SideLeft, eventCard("Uprising", 2))
	assert.False(t, placement.Instant, "later events queue normally")
}

func TestShiftEventQueue(t *testing.T) {
	gs := testState()
	p := gs.Player(state.SideLeft)
	second := eventCard("Uprising", 2)
	p.EventQueue[1] = second

	ShiftEventQueue(p)

	assert.Same(t, second, p.EventQueue[0])
	assert.Nil(t, p.EventQueue[1])
}

func TestAdvanceRaidersLifecycle(t *testing.T) {
	gs := testState()
	p := gs.Player(state.SideLeft)

	outcome := AdvanceRaiders(gs, state.SideLeft)
	assert.Equal(t, RaidPlaced, outcome)
	assert.Equal(t, state.RaidersInQueue, p.Raiders)
	assert.Equal(t, 1, RaidersSlot(p))

	outcome = AdvanceRaiders(gs, state.SideLeft)
	assert.Equal(t, RaidAdvanced, outcome)
	assert.Equal(t, 0, RaidersSlot(p))

	outcome = AdvanceRaiders(gs, state.SideLeft)
	assert.Equal(t, RaidResolves, outcome)
	assert.Nil(t, p.EventQueue[0], "the marker leaves the queue when it resolves")
}

func TestAdvanceRaidersBlockedBehindEvent(t *testing.T) {
	gs := testState()
	p := gs.Player(state.SideLeft)
	p.EventQueue[0] = eventCard("Napalm", 1)
	require.Equal(t, RaidPlaced, AdvanceRaiders(gs, state.SideLeft))
	require.Equal(t, 1, RaidersSlot(p))

	outcome := AdvanceRaiders(gs, state.SideLeft)
	assert.Equal(t, RaidBlocked, outcome)
	assert.Equal(t, 1, RaidersSlot(p))
}

func TestNextPhaseCycle(t *testing.T) {
	assert.Equal(t, state.PhaseEvents, NextPhase(state.PhaseActions))
	assert.Equal(t, state.PhaseReplenish, NextPhase(state.PhaseEvents))
	assert.Equal(t, state.PhaseActions, NextPhase(state.PhaseReplenish))
	assert.Equal(t, state.PhaseActions, NextPhase(state.PhaseCampSelection))
}

func TestReplenishAmountThrottlesOpeningTurn(t *testing.T) {
	assert.Equal(t, 1, ReplenishAmount(1))
	assert.Equal(t, 3, ReplenishAmount(2))
	assert.Equal(t, 3, ReplenishAmount(15))
}
