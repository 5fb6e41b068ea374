package rules

import (
	"math/rand"

	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

// DrawOutcome reports what the deck lifecycle did for one draw attempt.
type DrawOutcome string

const (
	DrawOK         DrawOutcome = "OK"
	DrawReshuffled DrawOutcome = "RESHUFFLED"
	// DrawPostponed is a first exhaustion with nothing to reshuffle:
	// recorded and deferred to the next empty-deck event.
	DrawPostponed  DrawOutcome = "POSTPONED"
	DrawInstantWin DrawOutcome = "INSTANT_WIN"
	DrawGameDrawn  DrawOutcome = "GAME_DRAWN"
)

// DrawResult is the outcome of DrawCard. Card is nil unless Outcome is
// DrawOK or DrawReshuffled.
type DrawResult struct {
	Card    *state.Card
	Outcome DrawOutcome
	// Winner is set for DrawInstantWin.
	Winner state.Side
}

// DrawCard draws from the front of the deck, running the exhaustion
// protocol when the deck is empty: the instant-win trait is checked
// strictly on the first exhaustion before any reshuffle, the discard
// is reshuffled exactly once, and the second exhaustion ends the game
// as a draw no matter what the discard holds.
func DrawCard(gs *state.GameState, rng *rand.Rand) DrawResult {
	if len(gs.Deck) == 0 {
		if gs.DeckExhaustion == 0 {
			if winner, ok := exhaustionWinner(gs); ok {
				return DrawResult{Outcome: DrawInstantWin, Winner: winner}
			}
			gs.DeckExhaustion = 1
			if len(gs.Discard) == 0 {
				return DrawResult{Outcome: DrawPostponed}
			}
			reshuffleDiscard(gs, rng)
			return DrawResult{Card: popDeck(gs), Outcome: DrawReshuffled}
		}
		gs.DeckExhaustion = state.DeckExhaustionTerminal
		return DrawResult{Outcome: DrawGameDrawn}
	}
	return DrawResult{Card: popDeck(gs), Outcome: DrawOK}
}

// exhaustionWinner finds an undestroyed instant-win camp. The current
// player is checked first so simultaneous claims favor the active seat.
func exhaustionWinner(gs *state.GameState) (state.Side, bool) {
	for _, side := range []state.Side{gs.CurrentPlayer, gs.CurrentPlayer.Opponent()} {
		p := gs.Player(side)
		if p == nil {
			continue
		}
		for _, col := range p.Columns {
			for pos := 0; pos < state.NumSlots; pos++ {
				c := col.GetCard(pos)
				if c != nil && c.IsCamp() && !c.IsDestroyed && c.HasTrait(state.TraitWinOnExhaustion) {
					return side, true
				}
			}
		}
	}
	return "", false
}

func reshuffleDiscard(gs *state.GameState, rng *rand.Rand) {
	gs.Deck = gs.Discard
	gs.Discard = []*state.Card{}
	rng.Shuffle(len(gs.Deck), func(i, j int) {
		gs.Deck[i], gs.Deck[j] = gs.Deck[j], gs.Deck[i]
	})
}

func popDeck(gs *state.GameState) *state.Card {
	card := gs.Deck[0]
	gs.Deck = gs.Deck[1:]
	return card
}
