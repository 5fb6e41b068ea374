package abilities

import (
	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"github.com/wastelandgames/wasteland-server-go/internal/game/targeting"
)

func registerPeople(r *Registry) {
	r.ability("Looter", "loot", lootDamage)
	r.ability("Cult Leader", "sacrifice_damage", sacrificeThenDamage)
	r.ability("Repair Bot", "restore", restoreTarget)
	r.ability("Gunner", "injure_all", injureAll)
	r.ability("Assassin", "destroy_person", destroyPerson)
	r.ability("Scientist", "research", research)
	r.ability("Mutant", "mutant_damage", mutantDamage)
	r.ability("Mutant", "mutant_restore", mutantRestore)
	r.ability("Vigilante", "injure", injureTarget)
	r.ability("Rescue Team", "return_person", returnOwnPerson)
	r.ability("Muse", "gain_water", gainWater)
	r.ability("Mimic", "copy_ability", copyAbility)
	r.ability("Exterminator", "destroy_damaged_all", destroyAllDamaged)
	r.ability("Scout", "raid", raidAbility)
	r.ability("Pyromaniac", "damage_camp", damageCamp)
	r.ability("Holdout", "damage", damageTarget)
	r.ability("Doomsayer", "conditional_damage", doomsayerDamage)
	r.ability("Rabble Rouser", "gain_punk", gainPunkAbility)
	r.ability("Rabble Rouser", "punk_damage", punkDamage)
	r.ability("Vanguard", "counter_damage", vanguardDamage)
	r.ability("Sniper", "sniper_damage", sniperDamage)
	r.ability("Magnus Karv", "damage_column", damageColumn)
	r.ability("Zeto Kahn", "draw_discard", drawThreeDiscardThree)
	r.ability("Vera Vosh", "injure", injureTarget)
	r.ability("Karli Blaze", "damage", damageTarget)
	r.ability("Molgur Stang", "destroy_camp", destroyAnyCamp)
	r.ability("Argo Yesky", "damage", damageTarget)

	r.entry("Wounded Soldier", entryWoundedSoldier)
	r.entry("Repair Bot", entryRepairBot)
	r.entry("Rescue Team", entryRescueTeam)
	r.entry("Doomsayer", entryDoomsayer)
	r.entry("Vanguard", entryGainPunk)
	r.entry("Argo Yesky", entryGainPunk)
}

// damageTarget is the generic single-target damage ability: any
// unprotected enemy card.
func damageTarget(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDamage, ValidTargets: targets})
}

// injureTarget damages an unprotected enemy person.
func injureTarget(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{RequirePerson: true})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingInjure, ValidTargets: targets})
}

// restoreTarget restores one of the acting player's damaged cards.
func restoreTarget(gs *state.GameState, ctx Context) bool {
	targets := ownRestoreTargets(gs, ctx)
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingRestore, ValidTargets: targets})
}

func ownRestoreTargets(gs *state.GameState, ctx Context) []state.TargetRef {
	targets := targeting.FindSideTargets(gs, ctx.Player, ctx.Player, targeting.Options{
		AllowOwn:       true,
		AllowProtected: true,
		RequireDamaged: true,
	})
	// A card never restores itself.
	out := targets[:0]
	for _, t := range targets {
		if c := gs.GetCard(t); c != nil && c.ID != ctx.Source.ID {
			out = append(out, t)
		}
	}
	return out
}

func gainWater(gs *state.GameState, ctx Context) bool {
	gs.Player(ctx.Player).Water++
	return true
}

func raidAbility(gs *state.GameState, ctx Context) bool {
	return raid(gs, ctx)
}

func gainPunkAbility(gs *state.GameState, ctx Context) bool {
	return gainPunk(gs, ctx, 1)
}

func lootDamage(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:          state.PendingDamage,
		Effect:        "loot",
		ValidTargets:  targets,
		DrawOnCampHit: true,
	})
}

// sacrificeThenDamage destroys one of your own people, then damages an
// enemy card. The chain is the two-state machine sacrifice -> damage.
func sacrificeThenDamage(gs *state.GameState, ctx Context) bool {
	own := ownPeople(gs, ctx.Player, nil)
	if len(own) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingSelfDestroy,
		Effect:       "sacrifice_damage",
		ValidTargets: own,
	})
}

func injureAll(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{RequirePerson: true})
	if len(targets) == 0 {
		return false
	}
	for _, ref := range targets {
		rules.ApplyDamage(gs, ref)
	}
	return true
}

func destroyPerson(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{RequirePerson: true})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDestroyPerson, ValidTargets: targets})
}

// research digs the top three deck cards; the player keeps one junk
// effect from among them and everything dug ends in the discard.
func research(gs *state.GameState, ctx Context) bool {
	var dug []*state.Card
	for i := 0; i < 3; i++ {
		if c := ctx.DrawRaw(); c != nil {
			dug = append(dug, c)
		}
	}
	if len(dug) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:      state.PendingJunkChoice,
		HandCards: dug,
	})
}

func mutantDamage(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingDamage,
		ValidTargets: targets,
		FollowUp:     damageSelfFollowUp(ctx),
	})
}

func mutantRestore(gs *state.GameState, ctx Context) bool {
	targets := ownRestoreTargets(gs, ctx)
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingRestore,
		ValidTargets: targets,
		FollowUp:     damageSelfFollowUp(ctx),
	})
}

func damageSelfFollowUp(ctx Context) *state.FollowUp {
	return &state.FollowUp{
		Type:   state.FollowUpDamageSource,
		Target: state.TargetRef{Player: ctx.Player, Column: ctx.Column, Position: ctx.Position},
		CardID: ctx.Source.ID,
	}
}

func returnOwnPerson(gs *state.GameState, ctx Context) bool {
	own := ownPeople(gs, ctx.Player, nil)
	if len(own) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingReturnToHand, ValidTargets: own})
}

// copyAbility lets the source use the first ability of one of the
// acting player's ready people or any undamaged enemy person. The
// nested invocation is driven by the engine once the copy target is
// chosen.
func copyAbility(gs *state.GameState, ctx Context) bool {
	var targets []state.TargetRef
	for _, ref := range ownPeople(gs, ctx.Player, ctx.Source) {
		c := gs.GetCard(ref)
		if c != nil && c.IsReady && len(c.Abilities) > 0 {
			targets = append(targets, ref)
		}
	}
	enemy := targeting.FindSideTargets(gs, ctx.Player, ctx.Player.Opponent(), targeting.Options{
		AllowProtected:   true,
		RequirePerson:    true,
		RequireUndamaged: true,
	})
	for _, ref := range enemy {
		if c := gs.GetCard(ref); c != nil && len(c.Abilities) > 0 {
			targets = append(targets, ref)
		}
	}
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingCopyAbility, ValidTargets: targets})
}

func destroyAllDamaged(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{
		RequirePerson:  true,
		RequireDamaged: true,
	})
	// Punks count as damaged for destruction even with the flag clear.
	for _, ref := range targeting.FindValidTargets(gs, ctx.Player, targeting.Options{RequirePerson: true}) {
		if c := gs.GetCard(ref); c != nil && c.IsPunk() {
			targets = append(targets, ref)
		}
	}
	if len(targets) == 0 {
		return false
	}
	for _, ref := range targets {
		rules.DestroyCard(gs, ref)
	}
	return true
}

func damageCamp(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{RequireCamp: true})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDamage, ValidTargets: targets})
}

// doomsayerDamage is a conditional gate: usable only while the opponent
// has an event queued.
func doomsayerDamage(gs *state.GameState, ctx Context) bool {
	if !gs.Player(ctx.Player.Opponent()).HasQueuedEvent() {
		return false
	}
	return damageTarget(gs, ctx)
}

func punkDamage(gs *state.GameState, ctx Context) bool {
	if !gs.Player(ctx.Player).HasPunk() {
		return false
	}
	return damageTarget(gs, ctx)
}

// vanguardDamage damages an enemy card, then the opponent answers with
// one hit of their own choosing against the acting side.
func vanguardDamage(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingDamage,
		Effect:       "counter_damage",
		ValidTargets: targets,
	})
}

func sniperDamage(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{AllowProtected: true})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDamage, ValidTargets: targets})
}

// damageColumn hits every card in one enemy column. The column is
// addressed by its camp slot.
func damageColumn(gs *state.GameState, ctx Context) bool {
	opp := ctx.Player.Opponent()
	var targets []state.TargetRef
	for col := range gs.Player(opp).Columns {
		if columnHasCards(gs, opp, col) {
			targets = append(targets, state.TargetRef{Player: opp, Column: col, Position: state.SlotCamp})
		}
	}
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDamageColumn, ValidTargets: targets})
}

func columnHasCards(gs *state.GameState, side state.Side, col int) bool {
	for pos := 0; pos < state.NumSlots; pos++ {
		if c := gs.Player(side).Columns[col].GetCard(pos); c != nil && !c.IsDestroyed {
			return true
		}
	}
	return false
}

func drawThreeDiscardThree(gs *state.GameState, ctx Context) bool {
	drawn := 0
	for i := 0; i < 3; i++ {
		if ctx.DrawToHand() != nil {
			drawn++
		}
	}
	if drawn == 0 {
		return false
	}
	discards := drawn
	if handSize := len(gs.Player(ctx.Player).Hand); discards > handSize {
		discards = handSize
	}
	return install(gs, ctx, &state.Pending{
		Type:              state.PendingDiscardChoice,
		Remaining:         discards,
		PartiallyResolved: true,
	})
}

func destroyAnyCamp(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{
		AllowProtected: true,
		RequireCamp:    true,
	})
	if len(targets) == 0 {
		return false
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingDestroyCamp, ValidTargets: targets})
}

// ownPeople lists the acting side's people, excluding exclude if given.
func ownPeople(gs *state.GameState, side state.Side, exclude *state.Card) []state.TargetRef {
	var refs []state.TargetRef
	p := gs.Player(side)
	for col := range p.Columns {
		for pos := state.SlotMiddle; pos < state.NumSlots; pos++ {
			c := p.Columns[col].GetCard(pos)
			if c == nil || !c.IsPerson() {
				continue
			}
			if exclude != nil && c.ID == exclude.ID {
				continue
			}
			refs = append(refs, state.TargetRef{Player: side, Column: col, Position: pos})
		}
	}
	return refs
}

// Entry effects fire when the person hits the tableau. They run after
// placement, with the cost already paid; failure is not an error.

func entryWoundedSoldier(gs *state.GameState, ctx Context) bool {
	ctx.DrawToHand()
	rules.ApplyDamage(gs, state.TargetRef{Player: ctx.Player, Column: ctx.Column, Position: ctx.Position})
	return true
}

func entryRepairBot(gs *state.GameState, ctx Context) bool {
	targets := ownRestoreTargets(gs, ctx)
	if len(targets) == 0 {
		return true
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingRestore, ValidTargets: targets})
}

func entryRescueTeam(gs *state.GameState, ctx Context) bool {
	ctx.Source.IsReady = true
	return true
}

// entryDoomsayer pushes every opponent event one slot away from
// resolution, where room exists.
func entryDoomsayer(gs *state.GameState, ctx Context) bool {
	opp := gs.Player(ctx.Player.Opponent())
	for slot := state.EventQueueSize - 2; slot >= 0; slot-- {
		if opp.EventQueue[slot] != nil && opp.EventQueue[slot+1] == nil {
			opp.EventQueue[slot+1] = opp.EventQueue[slot]
			opp.EventQueue[slot] = nil
		}
	}
	return true
}

func entryGainPunk(gs *state.GameState, ctx Context) bool {
	gainPunk(gs, ctx, 1)
	return true
}
