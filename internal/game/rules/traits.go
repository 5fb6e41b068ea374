package rules

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// HasActiveTrait reports whether the side has the trait in effect.
// Person traits require the carrier undamaged; camp traits require the
// camp not destroyed. Punks carry no traits.
func HasActiveTrait(gs *state.GameState, side state.Side, trait state.Trait) bool {
	p := gs.Player(side)
	if p == nil {
		return false
	}
	for _, col := range p.Columns {
		for pos := 0; pos < state.NumSlots; pos++ {
			c := col.GetCard(pos)
			if c == nil || c.IsPunk() || !c.HasTrait(trait) {
				continue
			}
			if c.IsCamp() && !c.IsDestroyed {
				return true
			}
			if c.Kind == state.KindPerson && !c.IsDamaged {
				return true
			}
		}
	}
	return false
}

// GrantedAbilities returns extra abilities a person has beyond its own,
// currently only the side-wide granted damage ability.
func GrantedAbilities(gs *state.GameState, side state.Side, card *state.Card) []state.Ability {
	if !card.IsPerson() {
		return nil
	}
	if HasActiveTrait(gs, side, state.TraitGrantDamage) {
		return []state.Ability{{Effect: "damage", Cost: 1}}
	}
	return nil
}

// AbilitiesFor returns the card's usable ability list with grants
// appended, indexed the way USE_ABILITY addresses them.
func AbilitiesFor(gs *state.GameState, side state.Side, card *state.Card) []state.Ability {
	abilities := make([]state.Ability, 0, len(card.Abilities)+1)
	abilities = append(abilities, card.Abilities...)
	abilities = append(abilities, GrantedAbilities(gs, side, card)...)
	return abilities
}
