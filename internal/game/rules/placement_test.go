package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

func TestCanPlacePersonRejectsCampSlot(t *testing.T) {
	gs := testState()
	check := CanPlacePerson(gs, state.SideLeft, 0, state.SlotCamp)
	assert.False(t, check.OK)
}

func TestCanPlacePersonPushesOccupant(t *testing.T) {
	gs := testState()
	occupant := place(gs, state.SideLeft, 0, state.SlotMiddle, testCard("Muse", state.KindPerson))

	check := CanPlacePerson(gs, state.SideLeft, 0, state.SlotMiddle)
	require.True(t, check.OK)
	assert.True(t, check.Push)
	assert.Equal(t, state.SlotFront, check.PushTo)

	newcomer := testCard("Looter", state.KindPerson)
	require.True(t, PlacePerson(gs, state.SideLeft, newcomer, 0, state.SlotMiddle))
	assert.Same(t, newcomer, gs.Player(state.SideLeft).GetCard(0, state.SlotMiddle))
	assert.Same(t, occupant, gs.Player(state.SideLeft).GetCard(0, state.SlotFront))
}

func TestCanPlacePersonFullColumnRejects(t *testing.T) {
	gs := testState()
	place(gs, state.SideLeft, 0, state.SlotMiddle, testCard("Muse", state.KindPerson))
	place(gs, state.SideLeft, 0, state.SlotFront, testCard("Looter", state.KindPerson))

	check := CanPlacePerson(gs, state.SideLeft, 0, state.SlotMiddle)
	assert.False(t, check.OK)
}

func TestOpenPersonSlotsCountsPushableSlots(t *testing.T) {
	gs := testState()
	// Empty side: all six person slots are open.
	assert.Len(t, OpenPersonSlots(gs, state.SideLeft), 6)

	// One person in a column leaves both its slots reachable.
	place(gs, state.SideLeft, 0, state.SlotMiddle, testCard("Muse", state.KindPerson))
	assert.Len(t, OpenPersonSlots(gs, state.SideLeft), 6)

	// A full column contributes nothing.
	place(gs, state.SideLeft, 0, state.SlotFront, testCard("Looter", state.KindPerson))
	assert.Len(t, OpenPersonSlots(gs, state.SideLeft), 4)
}

func TestMakePunkDisguisesTopCard(t *testing.T) {
	gs := testState()
	original := testCard("Assassin", state.KindPerson)
	gs.Deck = []*state.Card{original}

	punk := MakePunk(gs, func() *state.Card {
		c := gs.Deck[0]
		gs.Deck = gs.Deck[1:]
		return c
	})

	require.NotNil(t, punk)
	assert.True(t, punk.IsPunk())
	assert.Same(t, original, punk.OriginalCard)
	assert.False(t, punk.IsDamaged, "punks never qualify for restores")
}

func TestRevealPunkRestoresOriginal(t *testing.T) {
	original := testCard("Assassin", state.KindPerson)
	original.IsReady = true
	punk := &state.Card{ID: "punk-x", Name: "Punk", Kind: state.KindPunk, OriginalCard: original}

	revealed := RevealPunk(punk)

	assert.Same(t, original, revealed)
	assert.False(t, revealed.IsReady)
	assert.False(t, revealed.IsDamaged)
}

func TestPersonCostColumnDiscount(t *testing.T) {
	gs := testState()
	camp := testCard("Oasis", state.KindCamp)
	camp.Traits = []state.Trait{state.TraitColumnDiscount}
	place(gs, state.SideLeft, 1, state.SlotCamp, camp)

	person := testCard("Holdout", state.KindPerson)
	person.Cost = 2

	assert.Equal(t, 1, PersonCost(gs, state.SideLeft, person, 1))
	assert.Equal(t, 2, PersonCost(gs, state.SideLeft, person, 0))

	// The discount applies only while the column is empty.
	place(gs, state.SideLeft, 1, state.SlotMiddle, testCard("Muse", state.KindPerson))
	assert.Equal(t, 2, PersonCost(gs, state.SideLeft, person, 1))
}

func TestPersonCostFreeIntoRuin(t *testing.T) {
	gs := testState()
	camp := testCard("Cannon", state.KindCamp)
	camp.IsDestroyed = true
	place(gs, state.SideLeft, 2, state.SlotCamp, camp)

	person := testCard("Holdout", state.KindPerson)
	person.Cost = 2
	person.Traits = []state.Trait{state.TraitFreeIntoRuin}

	assert.Equal(t, 0, PersonCost(gs, state.SideLeft, person, 2))
	assert.Equal(t, 2, PersonCost(gs, state.SideLeft, person, 0))
}

func TestAbilityCostPerRuinDiscount(t *testing.T) {
	gs := testState()
	for col := 0; col < 2; col++ {
		camp := testCard("Camp", state.KindCamp)
		camp.IsDestroyed = true
		place(gs, state.SideLeft, col, state.SlotCamp, camp)
	}
	card := testCard("Pillbox", state.KindCamp)

	cost := AbilityCost(gs, state.SideLeft, card, state.Ability{Effect: "damage_per_ruin", Cost: 3})
	assert.Equal(t, 1, cost)
}

func TestAbilityCostNeverNegative(t *testing.T) {
	gs := testState()
	for col := 0; col < 3; col++ {
		place(gs, state.SideLeft, col, state.SlotFront, testCard("Punk", state.KindPunk))
	}
	card := testCard("Command Center", state.KindCamp)

	cost := AbilityCost(gs, state.SideLeft, card, state.Ability{Effect: "damage_per_punk", Cost: 2})
	assert.Equal(t, 0, cost)
}

func TestHasActiveTraitRequiresUndamagedCarrier(t *testing.T) {
	gs := testState()
	carrier := testCard("Karli Blaze", state.KindPerson)
	carrier.Traits = []state.Trait{state.TraitEnterReady}
	place(gs, state.SideLeft, 0, state.SlotFront, carrier)

	assert.True(t, HasActiveTrait(gs, state.SideLeft, state.TraitEnterReady))

	carrier.IsDamaged = true
	assert.False(t, HasActiveTrait(gs, state.SideLeft, state.TraitEnterReady))
}

func TestHasActiveTraitCampSurvivesDamage(t *testing.T) {
	gs := testState()
	camp := testCard("Obelisk", state.KindCamp)
	camp.Traits = []state.Trait{state.TraitWinOnExhaustion}
	camp.IsDamaged = true
	place(gs, state.SideLeft, 0, state.SlotCamp, camp)

	assert.True(t, HasActiveTrait(gs, state.SideLeft, state.TraitWinOnExhaustion))

	camp.IsDestroyed = true
	assert.False(t, HasActiveTrait(gs, state.SideLeft, state.TraitWinOnExhaustion))
}

func TestAbilitiesForAppendsGrantedDamage(t *testing.T) {
	gs := testState()
	granter := testCard("Argo Yesky", state.KindPerson)
	granter.Traits = []state.Trait{state.TraitGrantDamage}
	place(gs, state.SideLeft, 0, state.SlotMiddle, granter)

	person := testCard("Muse", state.KindPerson)
	person.Abilities = []state.Ability{{Effect: "gain_water", Cost: 0}}
	place(gs, state.SideLeft, 1, state.SlotFront, person)

	list := AbilitiesFor(gs, state.SideLeft, person)
	require.Len(t, list, 2)
	assert.Equal(t, "damage", list[1].Effect)

	// Camps never receive the grant.
	camp := testCard("Cannon", state.KindCamp)
	assert.Empty(t, AbilitiesFor(gs, state.SideLeft, camp))
}
