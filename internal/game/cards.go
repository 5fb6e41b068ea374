package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

// cardDef is one row of the card table. Copies is how many instances
// the deck carries; named characters appear once.
type cardDef struct {
	name                 string
	kind                 state.CardKind
	cost                 int
	queue                int
	draw                 int
	junk                 state.JunkEffect
	abilities            []state.Ability
	traits               []state.Trait
	copies               int
	requiresPeoplePlayed int
	requiresPeopleInPlay int
}

var personDefs = []cardDef{
	{name: "Looter", kind: state.KindPerson, cost: 1, junk: state.JunkWater, copies: 2,
		abilities: []state.Ability{{Effect: "loot", Cost: 2}}},
	{name: "Wounded Soldier", kind: state.KindPerson, cost: 1, junk: state.JunkInjure, copies: 2,
		abilities: []state.Ability{{Effect: "damage", Cost: 1}}},
	{name: "Cult Leader", kind: state.KindPerson, cost: 1, junk: state.JunkCard, copies: 2,
		abilities: []state.Ability{{Effect: "sacrifice_damage", Cost: 0}}},
	{name: "Repair Bot", kind: state.KindPerson, cost: 1, junk: state.JunkInjure, copies: 2,
		abilities: []state.Ability{{Effect: "restore", Cost: 2}}},
	{name: "Gunner", kind: state.KindPerson, cost: 1, junk: state.JunkRestore, copies: 2,
		abilities: []state.Ability{{Effect: "injure_all", Cost: 2}}},
	{name: "Assassin", kind: state.KindPerson, cost: 1, junk: state.JunkRaid, copies: 2,
		abilities: []state.Ability{{Effect: "destroy_person", Cost: 2}}},
	{name: "Scientist", kind: state.KindPerson, cost: 1, junk: state.JunkRaid, copies: 2,
		abilities: []state.Ability{{Effect: "research", Cost: 1}}},
	{name: "Mutant", kind: state.KindPerson, cost: 1, junk: state.JunkInjure, copies: 2,
		abilities: []state.Ability{{Effect: "mutant_damage", Cost: 0}, {Effect: "mutant_restore", Cost: 0}}},
	{name: "Vigilante", kind: state.KindPerson, cost: 1, junk: state.JunkRaid, copies: 2,
		abilities: []state.Ability{{Effect: "injure", Cost: 1}}},
	{name: "Rescue Team", kind: state.KindPerson, cost: 1, junk: state.JunkWater, copies: 2,
		abilities: []state.Ability{{Effect: "return_person", Cost: 0}}},
	{name: "Muse", kind: state.KindPerson, cost: 1, junk: state.JunkInjure, copies: 2,
		abilities: []state.Ability{{Effect: "gain_water", Cost: 0}}},
	{name: "Mimic", kind: state.KindPerson, cost: 1, junk: state.JunkInjure, copies: 2,
		abilities: []state.Ability{{Effect: "copy_ability", Cost: 0}}},
	{name: "Exterminator", kind: state.KindPerson, cost: 1, junk: state.JunkCard, copies: 2,
		abilities: []state.Ability{{Effect: "destroy_damaged_all", Cost: 1}}},
	{name: "Scout", kind: state.KindPerson, cost: 1, junk: state.JunkWater, copies: 2,
		abilities: []state.Ability{{Effect: "raid", Cost: 1}}},
	{name: "Pyromaniac", kind: state.KindPerson, cost: 1, junk: state.JunkInjure, copies: 2,
		abilities: []state.Ability{{Effect: "damage_camp", Cost: 1}}},
	{name: "Holdout", kind: state.KindPerson, cost: 2, junk: state.JunkRaid, copies: 2,
		abilities: []state.Ability{{Effect: "damage", Cost: 1}},
		traits:    []state.Trait{state.TraitFreeIntoRuin}},
	{name: "Doomsayer", kind: state.KindPerson, cost: 1, junk: state.JunkCard, copies: 2,
		abilities: []state.Ability{{Effect: "conditional_damage", Cost: 1}}},
	{name: "Rabble Rouser", kind: state.KindPerson, cost: 1, junk: state.JunkRaid, copies: 2,
		abilities: []state.Ability{{Effect: "gain_punk", Cost: 1}, {Effect: "punk_damage", Cost: 1}}},
	{name: "Vanguard", kind: state.KindPerson, cost: 1, junk: state.JunkRaid, copies: 2,
		abilities: []state.Ability{{Effect: "counter_damage", Cost: 1}}},
	{name: "Sniper", kind: state.KindPerson, cost: 1, junk: state.JunkRestore, copies: 2,
		abilities: []state.Ability{{Effect: "sniper_damage", Cost: 2}}},
	{name: "Magnus Karv", kind: state.KindPerson, cost: 3, junk: state.JunkPunk, copies: 1,
		abilities: []state.Ability{{Effect: "damage_column", Cost: 2}}},
	{name: "Zeto Kahn", kind: state.KindPerson, cost: 3, junk: state.JunkPunk, copies: 1,
		abilities: []state.Ability{{Effect: "draw_discard", Cost: 1}},
		traits:    []state.Trait{state.TraitInstantFirstEvent}},
	{name: "Vera Vosh", kind: state.KindPerson, cost: 3, junk: state.JunkPunk, copies: 1,
		abilities: []state.Ability{{Effect: "injure", Cost: 1}},
		traits:    []state.Trait{state.TraitStaysReadyFirstUse}},
	{name: "Karli Blaze", kind: state.KindPerson, cost: 3, junk: state.JunkPunk, copies: 1,
		abilities: []state.Ability{{Effect: "damage", Cost: 1}},
		traits:    []state.Trait{state.TraitEnterReady}},
	{name: "Molgur Stang", kind: state.KindPerson, cost: 4, junk: state.JunkPunk, copies: 1,
		abilities: []state.Ability{{Effect: "destroy_camp", Cost: 1}}},
	{name: "Argo Yesky", kind: state.KindPerson, cost: 3, junk: state.JunkPunk, copies: 1,
		abilities: []state.Ability{{Effect: "damage", Cost: 1}},
		traits:    []state.Trait{state.TraitGrantDamage}},
}

var eventDefs = []cardDef{
	{name: "Strafe", kind: state.KindEvent, cost: 2, queue: 0, junk: state.JunkCard, copies: 2},
	{name: "Napalm", kind: state.KindEvent, cost: 2, queue: 1, junk: state.JunkRestore, copies: 2},
	{name: "Famine", kind: state.KindEvent, cost: 1, queue: 1, junk: state.JunkInjure, copies: 2},
	{name: "High Ground", kind: state.KindEvent, cost: 0, queue: 1, junk: state.JunkWater, copies: 2},
	{name: "Uprising", kind: state.KindEvent, cost: 1, queue: 2, junk: state.JunkInjure, copies: 2},
	{name: "Radiation", kind: state.KindEvent, cost: 2, queue: 1, junk: state.JunkRaid, copies: 2},
	{name: "Banish", kind: state.KindEvent, cost: 1, queue: 1, junk: state.JunkRaid, copies: 2},
	{name: "Bombardment", kind: state.KindEvent, cost: 4, queue: 3, junk: state.JunkRestore, copies: 2},
	{name: "Interrogate", kind: state.KindEvent, cost: 1, queue: 0, junk: state.JunkWater, copies: 2},
	{name: "Truce", kind: state.KindEvent, cost: 2, queue: 0, junk: state.JunkWater, copies: 2},
}

var campDefs = []cardDef{
	{name: "Railgun", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "damage", Cost: 2}}},
	{name: "Atomic Garden", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "restore_ready", Cost: 2}}},
	{name: "Cannon", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "damage", Cost: 2}}},
	{name: "Pillbox", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "damage_per_ruin", Cost: 3}}},
	{name: "Scud Launcher", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "opponent_pick_damage", Cost: 1}}},
	{name: "Victory Totem", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "damage", Cost: 2}, {Effect: "raid", Cost: 2}}},
	{name: "Catapult", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "catapult_damage", Cost: 2}}},
	{name: "Nest of Spies", kind: state.KindCamp, draw: 1, requiresPeoplePlayed: 2,
		abilities: []state.Ability{{Effect: "damage", Cost: 1}}},
	{name: "Command Center", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "damage_per_punk", Cost: 3}}},
	{name: "Obelisk", kind: state.KindCamp, draw: 1,
		traits: []state.Trait{state.TraitWinOnExhaustion}},
	{name: "Mercenary Camp", kind: state.KindCamp, draw: 0, requiresPeopleInPlay: 4,
		abilities: []state.Ability{{Effect: "damage_camp_any", Cost: 2}}},
	{name: "Reactor", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "meltdown", Cost: 2}}},
	{name: "The Octagon", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "duel_sacrifice", Cost: 0}}},
	{name: "Juggernaut", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "advance", Cost: 1}},
		traits:    []state.Trait{state.TraitMobile}},
	{name: "Scavenger Camp", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "salvage_water", Cost: 0}, {Effect: "salvage_punk", Cost: 0}}},
	{name: "Outpost", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "raid", Cost: 2}, {Effect: "restore", Cost: 2}}},
	{name: "Transplant Lab", kind: state.KindCamp, draw: 2, requiresPeoplePlayed: 2,
		abilities: []state.Ability{{Effect: "gain_punk", Cost: 1}}},
	{name: "Resonator", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "damage", Cost: 1}},
		traits:    []state.Trait{state.TraitExclusiveAbility}},
	{name: "Bonfire", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "bonfire", Cost: 0}}},
	{name: "Cache", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "cache", Cost: 2}}},
	{name: "Watchtower", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "watch_damage", Cost: 1}}},
	{name: "Construction Yard", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "move_person", Cost: 1}}},
	{name: "Adrenaline Lab", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "act_damaged", Cost: 0}}},
	{name: "Mulcher", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "sacrifice_draw", Cost: 0}}},
	{name: "Blood Bank", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "sacrifice_water", Cost: 0}}},
	{name: "Arcade", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "arcade_punk", Cost: 1}}},
	{name: "Training Camp", kind: state.KindCamp, draw: 2,
		abilities: []state.Ability{{Effect: "train_damage", Cost: 2}}},
	{name: "Supply Depot", kind: state.KindCamp, draw: 2,
		abilities: []state.Ability{{Effect: "draw_discard_one", Cost: 2}}},
	{name: "Omen Clock", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "advance_event", Cost: 1}}},
	{name: "Warehouse", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "warehouse_restore", Cost: 1}}},
	{name: "Garage", kind: state.KindCamp, draw: 0,
		abilities: []state.Ability{{Effect: "raid", Cost: 1}}},
	{name: "Oasis", kind: state.KindCamp, draw: 1,
		traits: []state.Trait{state.TraitColumnDiscount}},
	{name: "Parachute Base", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "parachute", Cost: 0}}},
	{name: "Labor Camp", kind: state.KindCamp, draw: 1,
		abilities: []state.Ability{{Effect: "sacrifice_restore", Cost: 0}}},
}

func instantiate(def cardDef) *state.Card {
	return &state.Card{
		ID:                   uuid.NewString(),
		Name:                 def.name,
		Kind:                 def.kind,
		Cost:                 def.cost,
		QueueNumber:          def.queue,
		CampDraw:             def.draw,
		JunkEffect:           def.junk,
		Abilities:            append([]state.Ability(nil), def.abilities...),
		Traits:               append([]state.Trait(nil), def.traits...),
		RequiresPeoplePlayed: def.requiresPeoplePlayed,
		RequiresPeopleInPlay: def.requiresPeopleInPlay,
	}
}

// BuildDeck instantiates and shuffles the full draw deck.
func BuildDeck(rng *rand.Rand) []*state.Card {
	var deck []*state.Card
	for _, defs := range [][]cardDef{personDefs, eventDefs} {
		for _, def := range defs {
			for i := 0; i < def.copies; i++ {
				deck = append(deck, instantiate(def))
			}
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// BuildCampOffers deals six camps to each side from a shuffled camp
// deck.
func BuildCampOffers(rng *rand.Rand) map[state.Side][]*state.Card {
	camps := make([]*state.Card, 0, len(campDefs))
	for _, def := range campDefs {
		camps = append(camps, instantiate(def))
	}
	rng.Shuffle(len(camps), func(i, j int) {
		camps[i], camps[j] = camps[j], camps[i]
	})
	return map[state.Side][]*state.Card{
		state.SideLeft:  camps[:6],
		state.SideRight: camps[6:12],
	}
}
