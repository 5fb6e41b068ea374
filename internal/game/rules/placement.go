package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// PlacementCheck is the outcome of a placement feasibility query.
type PlacementCheck struct {
	OK bool
	// Push is set when the slot is occupied and its occupant must move
	// to the other person slot.
	Push   bool
	PushTo int
	Reason string
}

// CanPlacePerson decides whether a person may be placed at (col, pos).
// The camp slot is off limits; an occupied slot pushes its occupant if
// the other slot is free.
func CanPlacePerson(gs *state.GameState, side state.Side, col, pos int) PlacementCheck {
	p := gs.Player(side)
	if p == nil || col < 0 || col >= len(p.Columns) {
		return PlacementCheck{Reason: "invalid column"}
	}
	if pos != state.SlotMiddle && pos != state.SlotFront {
		return PlacementCheck{Reason: "people cannot occupy the camp slot"}
	}
	column := p.Columns[col]
	occupant := column.GetCard(pos)
	if occupant == nil {
		return PlacementCheck{OK: true}
	}
	if !occupant.IsPerson() {
		return PlacementCheck{Reason: "slot blocked"}
	}
	other := state.SlotMiddle
	if pos == state.SlotMiddle {
		other = state.SlotFront
	}
	if column.GetCard(other) != nil {
		return PlacementCheck{Reason: "column is full"}
	}
	return PlacementCheck{OK: true, Push: true, PushTo: other}
}

// PlacePerson performs the placement, pushing any occupant per the
// check. Callers validate cost and legality first.
func PlacePerson(gs *state.GameState, side state.Side, card *state.Card, col, pos int) bool {
	check := CanPlacePerson(gs, side, col, pos)
	if !check.OK {
		return false
	}
	column := gs.Player(side).Columns[col]
	if check.Push {
		column.MoveCard(col, pos, check.PushTo)
	}
	column.SetCard(col, pos, card)
	return true
}

// OpenPersonSlots enumerates every legal placement target on the side,
// occupied-but-pushable slots included.
func OpenPersonSlots(gs *state.GameState, side state.Side) []state.TargetRef {
	var refs []state.TargetRef
	p := gs.Player(side)
	if p == nil {
		return refs
	}
	for col := range p.Columns {
		for _, pos := range []int{state.SlotMiddle, state.SlotFront} {
			if CanPlacePerson(gs, side, col, pos).OK {
				refs = append(refs, state.TargetRef{Player: side, Column: col, Position: pos})
			}
		}
	}
	return refs
}

// MakePunk disguises the top deck card as a face-down punk. Returns nil
// when the deck cannot produce a card.
func MakePunk(gs *state.GameState, draw func() *state.Card) *state.Card {
	original := draw()
	if original == nil {
		return nil
	}
	// Punks are treated as already damaged by damage resolution, but
	// the flag stays clear so they never qualify for restores.
	return &state.Card{
		ID:           "punk-" + original.ID,
		Name:         "Punk",
		Kind:         state.KindPunk,
		OriginalCard: original,
	}
}

// RevealPunk rematerializes a punk as its original card.
func RevealPunk(punk *state.Card) *state.Card {
	if !punk.IsPunk() || punk.OriginalCard == nil {
		return punk
	}
	original := punk.OriginalCard
	original.IsReady = false
	original.IsDamaged = false
	original.IsDestroyed = false
	return original
}
