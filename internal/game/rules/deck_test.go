package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func TestDrawCardFromNonEmptyDeck(t *testing.T) {
	gs := testState()
	top := testCard("Looter", state.KindPerson)
	gs.Deck = []*state.Card{top, testCard("Muse", state.KindPerson)}

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawOK, res.Outcome)
	require.NotNil(t, res.Card)
	assert.Equal(t, top.ID, res.Card.ID)
	assert.Len(t, gs.Deck, 1)
}

func TestDrawCardReshufflesDiscardOnFirstExhaustion(t *testing.T) {
	gs := testState()
	gs.Discard = []*state.Card{
		testCard("Looter", state.KindPerson),
		testCard("Muse", state.KindPerson),
		testCard("Scout", state.KindPerson),
	}

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawReshuffled, res.Outcome)
	require.NotNil(t, res.Card)
	assert.Equal(t, 1, gs.DeckExhaustion)
	assert.Empty(t, gs.Discard)
	assert.Len(t, gs.Deck, 2)
}

func TestDrawCardPostponesWithNothingToReshuffle(t *testing.T) {
	gs := testState()

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawPostponed, res.Outcome)
	assert.Nil(t, res.Card)
	assert.Equal(t, 1, gs.DeckExhaustion)

	// The postponed exhaustion already counts: the next empty draw
	// with an empty discard ends the game as a draw.
	res = DrawCard(gs, testRand())
	assert.Equal(t, DrawGameDrawn, res.Outcome)
}

func TestDrawCardSecondExhaustionDrawsGame(t *testing.T) {
	gs := testState()
	gs.DeckExhaustion = 1

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawGameDrawn, res.Outcome)
	assert.Equal(t, state.DeckExhaustionTerminal, gs.DeckExhaustion)
}

func TestDrawCardSecondExhaustionNeverReshuffles(t *testing.T) {
	gs := testState()
	gs.DeckExhaustion = 1
	gs.Discard = []*state.Card{
		testCard("Looter", state.KindPerson),
		testCard("Muse", state.KindPerson),
	}

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawGameDrawn, res.Outcome, "the discard reshuffles exactly once per match")
	assert.Nil(t, res.Card)
	assert.Len(t, gs.Discard, 2, "the discard stays where it is")
	assert.Equal(t, state.DeckExhaustionTerminal, gs.DeckExhaustion)
}

func TestDrawCardInstantWinBeforeReshuffle(t *testing.T) {
	gs := testState()
	gs.CurrentPlayer = state.SideRight
	camp := testCard("Obelisk", state.KindCamp)
	camp.Traits = []state.Trait{state.TraitWinOnExhaustion}
	place(gs, state.SideLeft, 0, state.SlotCamp, camp)
	// A full discard must not matter: the win is checked first.
	gs.Discard = []*state.Card{testCard("Looter", state.KindPerson)}

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawInstantWin, res.Outcome)
	assert.Equal(t, state.SideLeft, res.Winner)
	assert.NotEmpty(t, gs.Discard, "no reshuffle happens on an instant win")
}

func TestDrawCardInstantWinIgnoresDestroyedCamp(t *testing.T) {
	gs := testState()
	camp := testCard("Obelisk", state.KindCamp)
	camp.Traits = []state.Trait{state.TraitWinOnExhaustion}
	camp.IsDestroyed = true
	place(gs, state.SideLeft, 0, state.SlotCamp, camp)
	gs.Discard = []*state.Card{testCard("Looter", state.KindPerson)}

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawReshuffled, res.Outcome)
}

func TestDrawCardInstantWinOnlyOnFirstExhaustion(t *testing.T) {
	gs := testState()
	gs.DeckExhaustion = 1
	camp := testCard("Obelisk", state.KindCamp)
	camp.Traits = []state.Trait{state.TraitWinOnExhaustion}
	place(gs, state.SideLeft, 0, state.SlotCamp, camp)
	gs.Discard = []*state.Card{testCard("Looter", state.KindPerson)}

	res := DrawCard(gs, testRand())

	assert.Equal(t, DrawGameDrawn, res.Outcome, "the trait claims only the first exhaustion")
}

func TestWinCheckThreeDestroyedCamps(t *testing.T) {
	gs := testState()
	for col := 0; col < 3; col++ {
		camp := testCard("Camp", state.KindCamp)
		camp.IsDestroyed = true
		place(gs, state.SideRight, col, state.SlotCamp, camp)
	}

	winner, _, over := WinCheck(gs)

	require.True(t, over)
	assert.Equal(t, state.SideLeft, winner)
}

func TestWinCheckBothSidesOutIsDrawn(t *testing.T) {
	gs := testState()
	for _, side := range []state.Side{state.SideLeft, state.SideRight} {
		for col := 0; col < 3; col++ {
			camp := testCard("Camp", state.KindCamp)
			camp.IsDestroyed = true
			place(gs, side, col, state.SlotCamp, camp)
		}
	}

	winner, _, over := WinCheck(gs)

	require.True(t, over)
	assert.Equal(t, state.Side(""), winner)
}

func TestWinCheckTwoCampsIsNotOver(t *testing.T) {
	gs := testState()
	for col := 0; col < 3; col++ {
		camp := testCard("Camp", state.KindCamp)
		camp.IsDestroyed = col < 2
		place(gs, state.SideRight, col, state.SlotCamp, camp)
	}

	_, _, over := WinCheck(gs)
	assert.False(t, over)
}
