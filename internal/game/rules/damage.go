package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// DamageOutcome describes what a damage application did.
type DamageOutcome struct {
	Damaged   bool
	Destroyed bool
	// HitCamp is set when the target was a camp, destroyed in place.
	HitCamp bool
}

// ApplyDamage applies one hit to the card at ref. Undamaged non-punks
// become damaged and lose readiness; damaged cards and punks are
// destroyed. Camps are destroyed in place; people leave the column and
// the card behind them shifts forward.
func ApplyDamage(gs *state.GameState, ref state.TargetRef) DamageOutcome {
	card := gs.GetCard(ref)
	if card == nil || card.IsDestroyed {
		return DamageOutcome{}
	}
	if !card.IsDamaged && !card.IsPunk() {
		card.IsDamaged = true
		card.IsReady = false
		return DamageOutcome{Damaged: true, HitCamp: card.IsCamp()}
	}
	DestroyCard(gs, ref)
	return DamageOutcome{Destroyed: true, HitCamp: card.IsCamp()}
}

// DestroyCard destroys the card at ref outright. Camps stay in place
// with the destroyed flag set; people are removed, punks returning to
// the top of the deck with their identity restored, ordinary people to
// the discard pile.
func DestroyCard(gs *state.GameState, ref state.TargetRef) {
	card := gs.GetCard(ref)
	if card == nil || card.IsDestroyed {
		return
	}
	if card.IsCamp() {
		card.IsDestroyed = true
		card.IsDamaged = true
		card.IsReady = false
		return
	}
	column := gs.Player(ref.Player).Columns[ref.Column]
	column.RemoveCard(ref.Position)
	column.ShiftForward(ref.Column, ref.Position)

	if card.IsPunk() {
		gs.Deck = append([]*state.Card{RevealPunk(card)}, gs.Deck...)
		return
	}
	card.IsDestroyed = false
	card.IsDamaged = false
	card.IsReady = false
	gs.Discard = append(gs.Discard, card)
}

// RestoreCard clears the damage flag at ref. A restored person comes
// back exhausted; a restored camp keeps its ready state. Destroyed
// cards and punks cannot be restored.
func RestoreCard(gs *state.GameState, ref state.TargetRef) bool {
	card := gs.GetCard(ref)
	if card == nil || card.IsDestroyed || card.IsPunk() || !card.IsDamaged {
		return false
	}
	card.IsDamaged = false
	if card.Kind == state.KindPerson {
		card.IsReady = false
	}
	return true
}

// ReturnToHand moves a person at ref back to its owner's hand, punks
// reverting to their true identity.
func ReturnToHand(gs *state.GameState, ref state.TargetRef) bool {
	card := gs.GetCard(ref)
	if card == nil || !card.IsPerson() {
		return false
	}
	column := gs.Player(ref.Player).Columns[ref.Column]
	column.RemoveCard(ref.Position)
	column.ShiftForward(ref.Column, ref.Position)
	if card.IsPunk() {
		card = RevealPunk(card)
	}
	card.IsDamaged = false
	card.IsReady = false
	gs.Player(ref.Player).Hand = append(gs.Player(ref.Player).Hand, card)
	return true
}
