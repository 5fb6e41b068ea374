package abilities

import (
	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"github.com/wastelandgames/wasteland-server-go/internal/game/targeting"
)

func registerCamps(r *Registry) {
	r.ability("Railgun", "damage", damageTarget)
	r.ability("Atomic Garden", "restore_ready", restoreAndReady)
	r.ability("Cannon", "damage", damageTarget)
	r.ability("Pillbox", "damage_per_ruin", damageTarget)
	r.ability("Scud Launcher", "opponent_pick_damage", opponentPickDamage)
	r.ability("Victory Totem", "damage", damageTarget)
	r.ability("Victory Totem", "raid", raidAbility)
	r.ability("Catapult", "catapult_damage", catapultDamage)
	r.ability("Nest of Spies", "damage", damageTarget)
	r.ability("Command Center", "damage_per_punk", damageTarget)
	r.ability("Mercenary Camp", "damage_camp_any", damageAnyCamp)
	r.ability("Reactor", "meltdown", meltdown)
	r.ability("The Octagon", "duel_sacrifice", duelSacrifice)
	r.ability("Juggernaut", "advance", juggernautAdvance)
	r.ability("Scavenger Camp", "salvage_water", salvageWater)
	r.ability("Scavenger Camp", "salvage_punk", salvagePunk)
	r.ability("Outpost", "raid", raidAbility)
	r.ability("Outpost", "restore", restoreTarget)
	r.ability("Transplant Lab", "gain_punk", gainPunkAbility)
	r.ability("Resonator", "damage", damageTarget)
	r.ability("Bonfire", "bonfire", bonfire)
	r.ability("Cache", "cache", cacheRaidPunk)
	r.ability("Watchtower", "watch_damage", watchtowerDamage)
	r.ability("Construction Yard", "move_person", movePerson)
	r.ability("Adrenaline Lab", "act_damaged", actDamaged)
	r.ability("Mulcher", "sacrifice_draw", sacrificeDraw)
	r.ability("Blood Bank", "sacrifice_water", sacrificeWater)
	r.ability("Arcade", "arcade_punk", arcadePunk)
	r.ability("Training Camp", "train_damage", trainingDamage)
	r.ability("Supply Depot", "draw_discard_one", drawTwoKeepOne)
	r.ability("Omen Clock", "advance_event", advanceEvent)
	r.ability("Warehouse", "warehouse_restore", warehouseRestore)
	r.ability("Garage", "raid", raidAbility)
	r.ability("Parachute Base", "parachute", parachuteDrop)
	r.ability("Labor Camp", "sacrifice_restore", sacrificeRestore)
}

// restoreAndReady restores a damaged own person and readies it, the one
// restore variant that does not exhaust its target.
func restoreAndReady(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindSideTargets(gs, ctx.Player, ctx.Player, targeting.Options{
		AllowOwn:       true,
		AllowProtected: true,
		RequirePerson:  true,
		RequireDamaged: true,
	})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingRestore,
		Effect:       "restore_ready",
		ValidTargets: targets,
	})
}

// opponentPickDamage damages an opponent card of their own choosing.
func opponentPickDamage(gs *state.GameState, ctx Context) bool {
	opp := ctx.Player.Opponent()
	targets := targeting.FindSideTargets(gs, ctx.Player, opp, targeting.Options{AllowProtected: true})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingOpponentPick,
		Effect:       "opponent_pick_damage",
		Selecting:    opp,
		ValidTargets: targets,
	})
}

// catapultDamage hits any enemy card, protection ignored, then the
// catapult consumes one of the acting side's people.
func catapultDamage(gs *state.GameState, ctx Context) bool {
	if len(ownPeople(gs, ctx.Player, nil)) == 0 {
		return false
	}
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{AllowProtected: true})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingDamage,
		Effect:       "catapult",
		ValidTargets: targets,
	})
}

func damageAnyCamp(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{
		AllowProtected: true,
		RequireCamp:    true,
	})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDamage, ValidTargets: targets})
}

// meltdown destroys the reactor and injures every unprotected person on
// both sides.
func meltdown(gs *state.GameState, ctx Context) bool {
	rules.DestroyCard(gs, state.TargetRef{Player: ctx.Player, Column: ctx.Column, Position: ctx.Position})
	for _, side := range []state.Side{ctx.Player, ctx.Player.Opponent()} {
		refs := targeting.FindSideTargets(gs, side.Opponent(), side, targeting.Options{RequirePerson: true})
		for _, ref := range refs {
			rules.ApplyDamage(gs, ref)
		}
	}
	return true
}

// duelSacrifice destroys one of your people; the opponent must then
// destroy one of theirs.
func duelSacrifice(gs *state.GameState, ctx Context) bool {
	own := ownPeople(gs, ctx.Player, nil)
	if len(own) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingSelfDestroy,
		Effect:       "duel_sacrifice",
		ValidTargets: own,
	})
}

// juggernautAdvance moves the mobile camp one slot toward the front,
// displacing any occupant into the vacated slot. The third advance
// forces the opponent to destroy one of their own camps.
func juggernautAdvance(gs *state.GameState, ctx Context) bool {
	if ctx.Position >= state.SlotFront {
		return false
	}
	column := gs.Player(ctx.Player).Columns[ctx.Column]
	column.MoveCard(ctx.Column, ctx.Position, ctx.Position+1)
	ctx.Source.MoveCount++
	if ctx.Source.MoveCount%3 != 0 {
		return true
	}
	opp := ctx.Player.Opponent()
	targets := opponentCamps(gs, opp)
	if len(targets) == 0 {
		return true
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingDestroyCamp,
		Effect:       "juggernaut",
		Selecting:    opp,
		ValidTargets: targets,
	})
}

func salvageWater(gs *state.GameState, ctx Context) bool {
	return salvage(gs, ctx, "salvage_water")
}

func salvagePunk(gs *state.GameState, ctx Context) bool {
	return salvage(gs, ctx, "salvage_punk")
}

// salvage discards a hand card of the player's choice (never the Water
// Silo), then pays out per the effect tag.
func salvage(gs *state.GameState, ctx Context, effect string) bool {
	hand := gs.Player(ctx.Player).Hand
	count := 0
	for _, c := range hand {
		if c.Name != state.WaterSiloName {
			count++
		}
	}
	if count == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:   state.PendingHandPick,
		Effect: effect,
	})
}

// bonfire damages itself, then restores up to two other own cards.
func bonfire(gs *state.GameState, ctx Context) bool {
	rules.ApplyDamage(gs, state.TargetRef{Player: ctx.Player, Column: ctx.Column, Position: ctx.Position})
	targets := ownRestoreTargets(gs, ctx)
	if len(targets) == 0 {
		return true
	}
	return install(gs, ctx, &state.Pending{
		Type:              state.PendingRestore,
		Effect:            "bonfire",
		ValidTargets:      targets,
		Remaining:         2,
		PartiallyResolved: true,
	})
}

func cacheRaidPunk(gs *state.GameState, ctx Context) bool {
	// Raid first; if the raid needs the opponent's answer, the punk
	// arrives once the camp pick resolves.
	outcome := rules.AdvanceRaiders(gs, ctx.Player)
	if outcome == rules.RaidResolves {
		if installRaidersPick(gs, ctx) && gs.Pending != nil {
			gs.Pending.Effect = "cache"
			return true
		}
	}
	gainPunk(gs, ctx, 1)
	return true
}

func watchtowerDamage(gs *state.GameState, ctx Context) bool {
	if !gs.TurnEvents.EventResolved {
		return false
	}
	return damageTarget(gs, ctx)
}

// movePerson relocates one of the acting side's people: pick the
// person, then pick the destination slot.
func movePerson(gs *state.GameState, ctx Context) bool {
	own := ownPeople(gs, ctx.Player, nil)
	if len(own) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingMovePerson, ValidTargets: own})
}

// actDamaged lets one of the acting side's damaged people use its
// ability despite the damage; the person is destroyed afterwards.
func actDamaged(gs *state.GameState, ctx Context) bool {
	var targets []state.TargetRef
	for _, ref := range ownPeople(gs, ctx.Player, nil) {
		c := gs.GetCard(ref)
		if c == nil || !c.IsDamaged || c.IsPunk() || len(c.Abilities) == 0 {
			continue
		}
		if rules.CanAfford(gs, ctx.Player, rules.AbilityCost(gs, ctx.Player, c, c.Abilities[0])) {
			targets = append(targets, ref)
		}
	}
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingActDamaged, ValidTargets: targets})
}

func sacrificeDraw(gs *state.GameState, ctx Context) bool {
	return sacrificeFor(gs, ctx, "sacrifice_draw")
}

func sacrificeWater(gs *state.GameState, ctx Context) bool {
	return sacrificeFor(gs, ctx, "sacrifice_water")
}

func sacrificeRestore(gs *state.GameState, ctx Context) bool {
	return sacrificeFor(gs, ctx, "sacrifice_restore")
}

func sacrificeFor(gs *state.GameState, ctx Context, effect string) bool {
	own := ownPeople(gs, ctx.Player, nil)
	if len(own) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingSelfDestroy,
		Effect:       effect,
		ValidTargets: own,
	})
}

func arcadePunk(gs *state.GameState, ctx Context) bool {
	if len(ownPeople(gs, ctx.Player, nil)) > 1 {
		return false
	}
	return gainPunk(gs, ctx, 1)
}

// trainingDamage requires two people in this camp's own column.
func trainingDamage(gs *state.GameState, ctx Context) bool {
	if gs.Player(ctx.Player).Columns[ctx.Column].PersonCount() < 2 {
		return false
	}
	return damageTarget(gs, ctx)
}

func drawTwoKeepOne(gs *state.GameState, ctx Context) bool {
	var drawn []*state.Card
	for i := 0; i < 2; i++ {
		if c := ctx.DrawRaw(); c != nil {
			drawn = append(drawn, c)
		}
	}
	if len(drawn) == 0 {
		return false
	}
	if len(drawn) == 1 {
		gs.Player(ctx.Player).Hand = append(gs.Player(ctx.Player).Hand, drawn[0])
		return true
	}
	return install(gs, ctx, &state.Pending{
		Type:              state.PendingEventKeepOne,
		HandCards:         drawn,
		KeepCount:         1,
		PartiallyResolved: true,
	})
}

// advanceEvent moves any queued event, either side's, one slot closer
// to resolution. Queue slots are addressed as Column with Position -1.
func advanceEvent(gs *state.GameState, ctx Context) bool {
	var targets []state.TargetRef
	for _, side := range []state.Side{ctx.Player, ctx.Player.Opponent()} {
		q := gs.Player(side).EventQueue
		for slot := 1; slot < state.EventQueueSize; slot++ {
			if q[slot] != nil && q[slot-1] == nil {
				targets = append(targets, state.TargetRef{Player: side, Column: slot, Position: -1})
			}
		}
	}
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingAdvanceEvent, ValidTargets: targets})
}

func warehouseRestore(gs *state.GameState, ctx Context) bool {
	exposed := targeting.FindSideTargets(gs, ctx.Player, ctx.Player.Opponent(), targeting.Options{RequireCamp: true})
	if len(exposed) == 0 {
		return false
	}
	return restoreTarget(gs, ctx)
}

// parachuteDrop plays a person from hand, fires its entry effect, uses
// its ability, then damages it. The engine drives the nested steps.
func parachuteDrop(gs *state.GameState, ctx Context) bool {
	p := gs.Player(ctx.Player)
	ok := false
	for _, c := range p.Hand {
		if c.Kind == state.KindPerson && rules.CanAffordPerson(gs, ctx.Player, c) {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:   state.PendingHandPick,
		Effect: "parachute",
	})
}
