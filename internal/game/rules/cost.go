package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// PersonCost returns the adjusted water cost to play a person into the
// given column: column-discount camps shave one off an empty column,
// and free-into-ruin people cost nothing behind a destroyed camp.
func PersonCost(gs *state.GameState, side state.Side, card *state.Card, col int) int {
	p := gs.Player(side)
	if p == nil || col < 0 || col >= len(p.Columns) {
		return card.Cost
	}
	column := p.Columns[col]
	camp := column.GetCard(state.SlotCamp)

	if card.HasTrait(state.TraitFreeIntoRuin) && camp != nil && camp.IsDestroyed {
		return 0
	}

	cost := card.Cost
	if camp != nil && !camp.IsDestroyed && camp.HasTrait(state.TraitColumnDiscount) && !column.HasPeople() {
		cost--
	}
	if cost < 0 {
		cost = 0
	}
	return cost
}

// AbilityCost returns the adjusted water cost of an ability. Dynamic
// discounts are keyed off the effect tag so the card table stays data.
func AbilityCost(gs *state.GameState, side state.Side, card *state.Card, ability state.Ability) int {
	cost := ability.Cost
	p := gs.Player(side)
	if p == nil {
		return cost
	}

	switch ability.Effect {
	case "damage_per_ruin":
		// One cheaper per destroyed own camp.
		cost -= p.DestroyedCampCount()
	case "damage_per_punk":
		for _, person := range p.PeopleInPlay() {
			if person.IsPunk() {
				cost--
			}
		}
	}

	if cost < 0 {
		cost = 0
	}
	return cost
}

// CanAffordPerson reports whether the side can pay the adjusted cost of
// playing the person into at least one open slot.
func CanAffordPerson(gs *state.GameState, side state.Side, card *state.Card) bool {
	for _, slot := range OpenPersonSlots(gs, side) {
		if CanAfford(gs, side, PersonCost(gs, side, card, slot.Column)) {
			return true
		}
	}
	return false
}

// CanAfford reports whether the side can pay the given water cost.
func CanAfford(gs *state.GameState, side state.Side, cost int) bool {
	p := gs.Player(side)
	return p != nil && p.Water >= cost
}
