package game

import (
	"github.com/wastelandgames/wasteland-server-go/internal/game/abilities"
	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"github.com/wastelandgames/wasteland-server-go/internal/game/targeting"
)

// resolvePending dispatches a SELECT_TARGET command against the single
// outstanding pending. Only the selecting side may answer; coordinates
// are never trusted beyond the precomputed valid-target set.
func (e *Engine) resolvePending(cmd Command) CommandResult {
	gs := e.state
	pd := gs.Pending
	if pd == nil {
		return fail("nothing to select a target for")
	}
	if cmd.PlayerID != pd.Selecting {
		return fail("it is not your selection")
	}

	switch pd.Type {
	case state.PendingDamage:
		return e.resolveDamage(cmd, pd)
	case state.PendingInjure:
		return e.resolveSimpleTarget(cmd, pd, func(ref state.TargetRef) {
			rules.ApplyDamage(gs, ref)
		})
	case state.PendingRestore:
		return e.resolveRestore(cmd, pd)
	case state.PendingDestroyPerson, state.PendingDestroyCamp:
		return e.resolveSimpleTarget(cmd, pd, func(ref state.TargetRef) {
			rules.DestroyCard(gs, ref)
		})
	case state.PendingPlacePunk:
		return e.resolvePlacePunk(cmd, pd)
	case state.PendingPlacePerson:
		return e.resolvePlacePerson(cmd, pd)
	case state.PendingReturnToHand:
		return e.resolveSimpleTarget(cmd, pd, func(ref state.TargetRef) {
			rules.ReturnToHand(gs, ref)
		})
	case state.PendingMovePerson:
		return e.resolveMovePerson(cmd, pd)
	case state.PendingMoveDest:
		return e.resolveMoveDest(cmd, pd)
	case state.PendingDamageColumn:
		return e.resolveDamageColumn(cmd, pd)
	case state.PendingAdvanceEvent:
		return e.resolveAdvanceEvent(cmd, pd)
	case state.PendingDiscardChoice:
		return e.resolveDiscardChoice(cmd, pd)
	case state.PendingJunkChoice:
		return e.resolveJunkChoice(cmd, pd)
	case state.PendingCopyAbility:
		return e.resolveCopyAbility(cmd, pd)
	case state.PendingActDamaged:
		return e.resolveActDamaged(cmd, pd)
	case state.PendingSelfDestroy:
		return e.resolveSelfDestroy(cmd, pd)
	case state.PendingCounterDamage, state.PendingOpponentPick,
		state.PendingRaidersCamp, state.PendingEventDamage:
		return e.resolvePickDamage(cmd, pd)
	case state.PendingHandPick:
		return e.resolveHandPick(cmd, pd)
	case state.PendingEventDestroyColumn:
		return e.resolveDestroyColumn(cmd, pd)
	case state.PendingEventBanish:
		return e.resolveSimpleTarget(cmd, pd, func(ref state.TargetRef) {
			rules.DestroyCard(gs, ref)
		})
	case state.PendingEventKeepOne:
		return e.resolveKeepOne(cmd, pd)
	case state.PendingEventSpareOne:
		return e.resolveSpareOne(cmd, pd)
	default:
		return fail("unresolvable pending state")
	}
}

func commandRef(cmd Command) state.TargetRef {
	return state.TargetRef{
		Player:   cmd.TargetPlayer,
		Column:   cmd.TargetColumn,
		Position: cmd.TargetPosition,
	}
}

// resolveSimpleTarget validates the selection, applies one terminal
// mutation and completes the chain.
func (e *Engine) resolveSimpleTarget(cmd Command, pd *state.Pending, apply func(state.TargetRef)) CommandResult {
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	apply(ref)
	e.completePending()
	return ok()
}

func (e *Engine) resolveDamage(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	outcome := rules.ApplyDamage(gs, ref)
	if pd.DrawOnCampHit && outcome.HitCamp {
		e.drawToHand(pd.Player)
	}
	if gs.IsOver() {
		return ok()
	}

	switch pd.Effect {
	case "counter_damage":
		// The opponent answers with one hit of their own choosing.
		targets := targeting.FindValidTargets(gs, pd.Player.Opponent(), targeting.Options{})
		if len(targets) == 0 {
			break
		}
		pd.Type = state.PendingCounterDamage
		pd.Effect = ""
		pd.Selecting = pd.Player.Opponent()
		pd.ValidTargets = targets
		pd.PartiallyResolved = true
		return ok()
	case "catapult":
		// The shot consumes one of the acting side's people.
		own := sidePeople(gs, pd.Player, "")
		if len(own) == 0 {
			break
		}
		pd.Type = state.PendingSelfDestroy
		pd.Effect = "catapult_consume"
		pd.Selecting = pd.Player
		pd.ValidTargets = own
		pd.PartiallyResolved = true
		return ok()
	}
	e.completePending()
	return ok()
}

func (e *Engine) resolveRestore(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	rules.RestoreCard(gs, ref)

	switch pd.Effect {
	case "restore_ready":
		if card := gs.GetCard(ref); card != nil {
			card.IsReady = true
		}
	case "bonfire":
		pd.Remaining--
		if pd.Remaining > 0 {
			targets := ownDamagedExcluding(gs, pd.Player, pd.SourceID)
			if len(targets) > 0 {
				pd.ValidTargets = targets
				return ok()
			}
		}
	}
	e.completePending()
	return ok()
}

func (e *Engine) resolvePlacePunk(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid slot")
	}
	punk := pd.PlaceCard
	if punk == nil {
		return fail("no card awaiting placement")
	}
	rules.PlacePerson(gs, pd.Player, punk, ref.Column, ref.Position)
	punk.IsReady = rules.HasActiveTrait(gs, pd.Player, state.TraitEnterReady)
	pd.PlaceCard = nil
	pd.PartiallyResolved = true
	pd.Remaining--

	if pd.Remaining > 0 {
		slots := rules.OpenPersonSlots(gs, pd.Player)
		next := rules.MakePunk(gs, func() *state.Card { return e.drawRaw(pd.Player) })
		if len(slots) > 0 && next != nil {
			pd.PlaceCard = next
			pd.ValidTargets = slots
			return ok()
		}
		if next != nil {
			gs.Deck = append([]*state.Card{rules.RevealPunk(next)}, gs.Deck...)
		}
	}
	e.completePending()
	return ok()
}

// resolvePlacePerson lands a person played through another card. The
// chain then fires the entry effect and, for the airdrop, the person's
// own ability before the deferred hit.
func (e *Engine) resolvePlacePerson(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid slot")
	}
	card := pd.PlaceCard
	if card == nil {
		return fail("no card awaiting placement")
	}
	cost := rules.PersonCost(gs, pd.Player, card, ref.Column)
	if !rules.CanAfford(gs, pd.Player, cost) {
		return fail("not enough water")
	}
	gs.Player(pd.Player).Water -= cost
	rules.PlacePerson(gs, pd.Player, card, ref.Column, ref.Position)
	card.IsReady = rules.HasActiveTrait(gs, pd.Player, state.TraitEnterReady)
	gs.TurnEvents.PeoplePlayed++
	pd.PlaceCard = nil
	pd.ValidTargets = nil
	pd.PartiallyResolved = true

	if pd.Effect != "parachute" {
		e.completePending()
		return ok()
	}

	// Airdrop: entry effect, then the ability, then the deferred hit.
	landing := state.TargetRef{Player: pd.Player, Column: card.ColumnIndex, Position: card.Position}
	pd.Effect = "parachute_ability"
	pd.Chosen = &landing
	pd.FollowUp = &state.FollowUp{
		Type:   state.FollowUpDamageTarget,
		Target: landing,
		CardID: card.ID,
	}

	if handler, found := e.registry.Entry(card.Name); found {
		parent := pd
		gs.Pending = nil
		ctx := e.buildContext(parent.Player, card, card.ColumnIndex, card.Position, state.Ability{}, 0)
		handler(gs, ctx)
		if gs.Pending != nil {
			child := gs.Pending
			child.Kind = parent.Kind
			child.PartiallyResolved = true
			child.Resume = parent
			return ok()
		}
		gs.Pending = parent
	}
	e.continueResumed(pd)
	return ok()
}

func (e *Engine) resolveMovePerson(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	dests := emptyPersonSlots(gs, ref.Player, ref)
	if len(dests) == 0 {
		return fail("no open slot to move to")
	}
	chosen := ref
	pd.Type = state.PendingMoveDest
	pd.Chosen = &chosen
	pd.ValidTargets = dests
	return ok()
}

func (e *Engine) resolveMoveDest(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid slot")
	}
	src := *pd.Chosen
	card := gs.GetCard(src)
	if card == nil {
		return fail("the person is no longer there")
	}
	column := gs.Player(src.Player).Columns[src.Column]
	column.RemoveCard(src.Position)
	column.ShiftForward(src.Column, src.Position)
	rules.PlacePerson(gs, ref.Player, card, ref.Column, ref.Position)
	e.completePending()
	return ok()
}

// resolveDamageColumn hits every card standing in the chosen column.
// Cards are collected first so mid-resolution shifts cannot double-hit
// or skip anyone.
func (e *Engine) resolveDamageColumn(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid column")
	}
	var cards []*state.Card
	for pos := state.NumSlots - 1; pos >= 0; pos-- {
		if c := gs.Player(ref.Player).Columns[ref.Column].GetCard(pos); c != nil && !c.IsDestroyed {
			cards = append(cards, c)
		}
	}
	for _, c := range cards {
		if _, loc, found := gs.FindCardInPlay(c.ID); found {
			rules.ApplyDamage(gs, loc)
		}
	}
	e.completePending()
	return ok()
}

func (e *Engine) resolveAdvanceEvent(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid event slot")
	}
	q := gs.Player(ref.Player).EventQueue
	slot := ref.Column
	if slot <= 0 || slot >= state.EventQueueSize || q[slot] == nil || q[slot-1] != nil {
		return fail("the event cannot advance")
	}
	q[slot-1] = q[slot]
	q[slot] = nil
	e.completePending()
	return ok()
}

func (e *Engine) resolveDiscardChoice(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	p := gs.Player(pd.Selecting)
	card := p.HandCard(cmd.CardIndex)
	if card == nil {
		return fail("no card at that hand index")
	}
	if card.Name == state.WaterSiloName {
		return fail("the water silo cannot be discarded")
	}
	p.RemoveFromHand(cmd.CardIndex)
	gs.Discard = append(gs.Discard, card)
	pd.Remaining--
	if pd.Remaining > 0 && len(p.Hand) > 0 {
		return ok()
	}
	e.completePending()
	return ok()
}

// resolveJunkChoice settles a deck dig: the chosen card's junk effect
// fires and everything dug lands in the discard either way.
func (e *Engine) resolveJunkChoice(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	if cmd.CardIndex < 0 || cmd.CardIndex >= len(pd.HandCards) {
		return fail("no card at that index")
	}
	chosen := pd.HandCards[cmd.CardIndex]
	parent := pd
	gs.Discard = append(gs.Discard, pd.HandCards...)
	parent.HandCards = nil
	gs.Pending = nil

	e.applyJunkEffect(parent.Player, chosen.JunkEffect)
	if gs.Pending != nil {
		child := gs.Pending
		child.Kind = parent.Kind
		child.PaidCost = parent.PaidCost
		child.SourceID = parent.SourceID
		child.Source = parent.Source
		child.AbilityIx = parent.AbilityIx
		child.PartiallyResolved = true
		return ok()
	}
	gs.Pending = parent
	e.completePending()
	return ok()
}

// applyJunkEffect runs one junk effect for the side, possibly
// installing a pending for the targeted variants.
func (e *Engine) applyJunkEffect(side state.Side, effect state.JunkEffect) {
	gs := e.state
	p := gs.Player(side)
	switch effect {
	case state.JunkWater:
		p.Water++
	case state.JunkCard:
		e.drawToHand(side)
	case state.JunkRaid:
		ctx := e.buildContext(side, nil, -1, -1, state.Ability{}, 0)
		abilities.Raid(gs, ctx)
	case state.JunkPunk:
		slots := rules.OpenPersonSlots(gs, side)
		if len(slots) == 0 {
			return
		}
		punk := rules.MakePunk(gs, func() *state.Card { return e.drawRaw(side) })
		if punk == nil {
			return
		}
		gs.Pending = &state.Pending{
			Type:         state.PendingPlacePunk,
			Player:       side,
			Selecting:    side,
			PlaceCard:    punk,
			ValidTargets: slots,
			Remaining:    1,
		}
	case state.JunkInjure:
		targets := targeting.FindValidTargets(gs, side, targeting.Options{RequirePerson: true})
		if len(targets) == 0 {
			return
		}
		gs.Pending = &state.Pending{
			Type:         state.PendingInjure,
			Player:       side,
			Selecting:    side,
			ValidTargets: targets,
		}
	case state.JunkRestore:
		targets := ownDamagedExcluding(gs, side, "")
		if len(targets) == 0 {
			return
		}
		gs.Pending = &state.Pending{
			Type:         state.PendingRestore,
			Player:       side,
			Selecting:    side,
			ValidTargets: targets,
		}
	}
}

// resolveCopyAbility pays for and invokes the first ability of the
// chosen card as if the copying card had printed it.
func (e *Engine) resolveCopyAbility(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	target := gs.GetCard(ref)
	if target == nil || len(target.Abilities) == 0 {
		return fail("the card has no ability to copy")
	}
	copier, loc, found := gs.FindCardInPlay(pd.SourceID)
	if !found {
		e.completePending()
		return ok()
	}
	ability := target.Abilities[0]
	cost := rules.AbilityCost(gs, pd.Player, target, ability)
	if !rules.CanAfford(gs, pd.Player, cost) {
		return fail("not enough water")
	}
	handler, hasHandler := e.registry.Ability(target.Name, ability.Effect)
	if !hasHandler {
		handler, hasHandler = e.registry.Generic(ability.Effect)
	}
	if !hasHandler {
		return fail("the ability cannot be copied")
	}

	parent := pd
	gs.Pending = nil
	gs.Player(pd.Player).Water -= cost
	ctx := e.buildContext(parent.Player, copier, loc.Column, loc.Position, ability, 0)
	ctx.IsCopy = true
	if !handler(gs, ctx) {
		gs.Player(parent.Player).Water += cost
		gs.Pending = parent
		e.completePending()
		return ok()
	}
	if gs.Pending != nil {
		child := gs.Pending
		child.Kind = parent.Kind
		child.PaidCost = parent.PaidCost + cost
		child.SourceID = parent.SourceID
		child.Source = parent.Source
		child.AbilityIx = parent.AbilityIx
		child.PartiallyResolved = true
		return ok()
	}
	gs.Pending = parent
	e.completePending()
	return ok()
}

// resolveActDamaged lets the chosen damaged person act through the
// proxy; the person is destroyed once its ability fully resolves.
func (e *Engine) resolveActDamaged(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	person := gs.GetCard(ref)
	if person == nil || len(person.Abilities) == 0 {
		return fail("the person cannot act")
	}
	ability := person.Abilities[0]
	cost := rules.AbilityCost(gs, pd.Player, person, ability)
	if !rules.CanAfford(gs, pd.Player, cost) {
		return fail("not enough water")
	}
	handler, found := e.registry.Ability(person.Name, ability.Effect)
	if !found {
		handler, found = e.registry.Generic(ability.Effect)
	}
	if !found {
		return fail("the person has no usable ability")
	}

	parent := pd
	parent.Effect = "proxy_done"
	parent.FollowUp = &state.FollowUp{
		Type:   state.FollowUpDestroySource,
		Target: ref,
		CardID: person.ID,
	}
	gs.Pending = nil
	gs.Player(parent.Player).Water -= cost
	ctx := e.buildContext(parent.Player, person, ref.Column, ref.Position, ability, 0)
	ctx.ViaProxy = true
	if !handler(gs, ctx) {
		gs.Player(parent.Player).Water += cost
		parent.FollowUp = nil
	}
	if gs.Pending != nil {
		child := gs.Pending
		child.Kind = parent.Kind
		child.PartiallyResolved = true
		child.Resume = parent
		return ok()
	}
	gs.Pending = parent
	e.continueResumed(parent)
	return ok()
}

func (e *Engine) resolveSelfDestroy(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	rules.DestroyCard(gs, ref)
	if gs.IsOver() {
		return ok()
	}

	switch pd.Effect {
	case "sacrifice_damage":
		targets := targeting.FindValidTargets(gs, pd.Player, targeting.Options{})
		if len(targets) == 0 {
			break
		}
		pd.Type = state.PendingDamage
		pd.Effect = ""
		pd.Selecting = pd.Player
		pd.ValidTargets = targets
		pd.PartiallyResolved = true
		return ok()
	case "duel_sacrifice":
		opp := pd.Player.Opponent()
		theirs := sidePeople(gs, opp, "")
		if len(theirs) == 0 {
			break
		}
		pd.Type = state.PendingDestroyPerson
		pd.Effect = ""
		pd.Selecting = opp
		pd.ValidTargets = theirs
		pd.PartiallyResolved = true
		return ok()
	case "sacrifice_draw":
		e.drawToHand(pd.Player)
	case "sacrifice_water":
		gs.Player(pd.Player).Water++
	case "sacrifice_restore":
		targets := ownDamagedExcluding(gs, pd.Player, pd.SourceID)
		if len(targets) == 0 {
			break
		}
		pd.Type = state.PendingRestore
		pd.Effect = ""
		pd.Selecting = pd.Player
		pd.ValidTargets = targets
		pd.PartiallyResolved = true
		return ok()
	}
	e.completePending()
	return ok()
}

// resolvePickDamage covers the one-hit picks answered by either side:
// counter hits, opponent-directed damage and raid camp picks.
func (e *Engine) resolvePickDamage(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	rules.ApplyDamage(gs, ref)
	if pd.Type == state.PendingRaidersCamp {
		// The raid is spent once the camp takes the hit; the marker
		// returns to the owner for the next raid.
		gs.Player(pd.Player).Raiders = state.RaidersAvailable
	}
	if gs.IsOver() {
		return ok()
	}

	if pd.Type == state.PendingRaidersCamp && pd.Effect == "cache" {
		// The raid was the first half; the punk still arrives.
		parent := pd
		gs.Pending = nil
		slots := rules.OpenPersonSlots(gs, parent.Player)
		punk := rules.MakePunk(gs, func() *state.Card { return e.drawRaw(parent.Player) })
		if len(slots) > 0 && punk != nil {
			parent.Type = state.PendingPlacePunk
			parent.Effect = ""
			parent.Selecting = parent.Player
			parent.PlaceCard = punk
			parent.ValidTargets = slots
			parent.Remaining = 1
			parent.PartiallyResolved = true
			gs.Pending = parent
			return ok()
		}
		if punk != nil {
			gs.Deck = append([]*state.Card{rules.RevealPunk(punk)}, gs.Deck...)
		}
		gs.Pending = parent
	}
	e.completePending()
	return ok()
}

func (e *Engine) resolveHandPick(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	p := gs.Player(pd.Selecting)
	card := p.HandCard(cmd.CardIndex)
	if card == nil {
		return fail("no card at that hand index")
	}
	if card.Name == state.WaterSiloName {
		return fail("the water silo cannot be chosen")
	}

	switch pd.Effect {
	case "salvage_water":
		p.RemoveFromHand(cmd.CardIndex)
		gs.Discard = append(gs.Discard, card)
		p.Water++
		e.completePending()
		return ok()
	case "salvage_punk":
		p.RemoveFromHand(cmd.CardIndex)
		gs.Discard = append(gs.Discard, card)
		slots := rules.OpenPersonSlots(gs, pd.Player)
		punk := rules.MakePunk(gs, func() *state.Card { return e.drawRaw(pd.Player) })
		if len(slots) == 0 || punk == nil {
			if punk != nil {
				gs.Deck = append([]*state.Card{rules.RevealPunk(punk)}, gs.Deck...)
			}
			e.completePending()
			return ok()
		}
		pd.Type = state.PendingPlacePunk
		pd.Effect = ""
		pd.PlaceCard = punk
		pd.ValidTargets = slots
		pd.Remaining = 1
		pd.PartiallyResolved = true
		return ok()
	case "parachute":
		if card.Kind != state.KindPerson {
			return fail("only a person can be dropped")
		}
		slots := rules.OpenPersonSlots(gs, pd.Player)
		if len(slots) == 0 {
			return fail("no room to land")
		}
		if !rules.CanAffordPerson(gs, pd.Player, card) {
			return fail("not enough water")
		}
		p.RemoveFromHand(cmd.CardIndex)
		pd.Type = state.PendingPlacePerson
		pd.PlaceCard = card
		pd.ValidTargets = slots
		pd.PartiallyResolved = true
		return ok()
	default:
		return fail("unresolvable hand pick")
	}
}

// resolveDestroyColumn wipes every person out of the chosen column.
func (e *Engine) resolveDestroyColumn(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid column")
	}
	column := gs.Player(ref.Player).Columns[ref.Column]
	for column.HasPeople() {
		for pos := state.NumSlots - 1; pos >= state.SlotMiddle; pos-- {
			if c := column.GetCard(pos); c != nil && c.IsPerson() {
				rules.DestroyCard(gs, state.TargetRef{Player: ref.Player, Column: ref.Column, Position: pos})
				break
			}
		}
	}
	e.completePending()
	return ok()
}

func (e *Engine) resolveKeepOne(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	if cmd.CardIndex < 0 || cmd.CardIndex >= len(pd.HandCards) {
		return fail("no card at that index")
	}
	chosen := pd.HandCards[cmd.CardIndex]
	gs.Player(pd.Selecting).Hand = append(gs.Player(pd.Selecting).Hand, chosen)
	pd.HandCards = append(pd.HandCards[:cmd.CardIndex], pd.HandCards[cmd.CardIndex+1:]...)
	pd.KeepCount--
	if pd.KeepCount > 0 && len(pd.HandCards) > 0 {
		return ok()
	}
	gs.Discard = append(gs.Discard, pd.HandCards...)
	pd.HandCards = nil
	e.completePending()
	return ok()
}

// resolveSpareOne keeps the chosen person and destroys the rest of the
// selecting side's people, then hands the same choice to the opponent
// when the owner chose first.
func (e *Engine) resolveSpareOne(cmd Command, pd *state.Pending) CommandResult {
	gs := e.state
	ref := commandRef(cmd)
	if !pd.ContainsTarget(ref) {
		return fail("invalid target")
	}
	kept := gs.GetCard(ref)
	if kept == nil {
		return fail("the person is no longer there")
	}
	for {
		others := sidePeople(gs, pd.Selecting, kept.ID)
		if len(others) == 0 {
			break
		}
		rules.DestroyCard(gs, others[0])
	}
	if gs.IsOver() {
		return ok()
	}

	if pd.Effect == "famine_owner" {
		opp := pd.Player.Opponent()
		theirs := sidePeople(gs, opp, "")
		if len(theirs) > 1 {
			pd.Effect = "famine_opponent"
			pd.Selecting = opp
			pd.ValidTargets = theirs
			pd.PartiallyResolved = true
			return ok()
		}
	}
	e.completePending()
	return ok()
}

// completePending applies any deferred follow-up, restores a parent
// continuation when one is stacked, and otherwise finalizes the
// interaction the chain belonged to.
func (e *Engine) completePending() {
	gs := e.state
	pd := gs.Pending
	if pd == nil {
		return
	}
	if pd.FollowUp != nil {
		e.applyFollowUp(pd.FollowUp)
		pd.FollowUp = nil
	}
	if gs.IsOver() {
		return
	}
	if pd.Resume != nil {
		parent := pd.Resume
		gs.Pending = parent
		e.continueResumed(parent)
		return
	}
	gs.Pending = nil

	switch pd.Kind {
	case state.FinalizeAbility:
		card, _, found := gs.FindCardInPlay(pd.SourceID)
		if !found {
			card = nil
		}
		e.finalizeAbilityUse(card)
	case state.FinalizeJunk:
		if pd.JunkedCard != nil {
			gs.Discard = append(gs.Discard, pd.JunkedCard)
		}
	case state.FinalizeEvent, state.FinalizeRaid:
		e.resumePhases()
	}
}

// continueResumed runs the next step of a restored parent continuation.
func (e *Engine) continueResumed(parent *state.Pending) {
	switch parent.Effect {
	case "parachute_ability":
		parent.Effect = "parachute_done"
		e.parachuteAbility(parent)
	case "parachute_done", "proxy_done":
		e.completePending()
	default:
		e.completePending()
	}
}

// parachuteAbility fires the dropped person's first ability, paying its
// cost, before the deferred hit lands.
func (e *Engine) parachuteAbility(parent *state.Pending) {
	gs := e.state
	if parent.Chosen == nil {
		e.completePending()
		return
	}
	person, loc, found := locateByFollowUp(gs, parent)
	if !found || !person.IsPerson() || len(person.Abilities) == 0 {
		e.completePending()
		return
	}
	ability := person.Abilities[0]
	cost := rules.AbilityCost(gs, parent.Player, person, ability)
	handler, hasHandler := e.registry.Ability(person.Name, ability.Effect)
	if !hasHandler {
		handler, hasHandler = e.registry.Generic(ability.Effect)
	}
	if !hasHandler || !rules.CanAfford(gs, parent.Player, cost) {
		e.completePending()
		return
	}

	gs.Pending = nil
	gs.Player(parent.Player).Water -= cost
	ctx := e.buildContext(parent.Player, person, loc.Column, loc.Position, ability, 0)
	if !handler(gs, ctx) {
		gs.Player(parent.Player).Water += cost
	}
	if gs.Pending != nil {
		child := gs.Pending
		child.Kind = parent.Kind
		child.PartiallyResolved = true
		child.Resume = parent
		return
	}
	gs.Pending = parent
	e.completePending()
}

// locateByFollowUp finds the card a continuation's follow-up tracks at
// its current position.
func locateByFollowUp(gs *state.GameState, pd *state.Pending) (*state.Card, state.TargetRef, bool) {
	if pd.FollowUp == nil {
		return nil, state.TargetRef{}, false
	}
	return gs.FindCardInPlay(pd.FollowUp.CardID)
}

// applyFollowUp lands a deferred effect on the card it tracks, wherever
// that card stands now. A card that already left play absorbs nothing.
func (e *Engine) applyFollowUp(fu *state.FollowUp) {
	gs := e.state
	_, loc, found := gs.FindCardInPlay(fu.CardID)
	if !found {
		return
	}
	switch fu.Type {
	case state.FollowUpDamageSource, state.FollowUpDamageTarget:
		rules.ApplyDamage(gs, loc)
	case state.FollowUpDestroySource:
		rules.DestroyCard(gs, loc)
	}
}

// cancelPending abandons an unstarted interaction: cost refunded, any
// junked card to the discard, any undrawn punk back on the deck. A
// junked card never returns to hand; the junk itself already happened
// even when its effect is walked back. A chain that has applied
// anything, or that waits on the opponent, is past the point of no
// return.
func (e *Engine) cancelPending(cmd Command) CommandResult {
	gs := e.state
	pd := gs.Pending
	if pd == nil {
		return fail("nothing to cancel")
	}
	if cmd.PlayerID != pd.Player {
		return fail("only the initiator may cancel")
	}
	if pd.PartiallyResolved {
		return fail("the action is past the point of cancellation")
	}
	if pd.Selecting != pd.Player {
		return fail("the opponent's choice cannot be cancelled")
	}
	if len(pd.HandCards) > 0 {
		return fail("cards already drawn cannot be put back")
	}

	p := gs.Player(pd.Player)
	p.Water += pd.PaidCost
	if pd.JunkedCard != nil {
		gs.Discard = append(gs.Discard, pd.JunkedCard)
	}
	if pd.PlaceCard != nil {
		gs.Deck = append([]*state.Card{rules.RevealPunk(pd.PlaceCard)}, gs.Deck...)
	}
	gs.Pending = nil
	return ok()
}

// sidePeople lists every person the side has in play, punks included,
// optionally excluding one card by ID.
func sidePeople(gs *state.GameState, side state.Side, excludeID string) []state.TargetRef {
	var refs []state.TargetRef
	p := gs.Player(side)
	for col := range p.Columns {
		for pos := state.SlotMiddle; pos < state.NumSlots; pos++ {
			c := p.Columns[col].GetCard(pos)
			if c == nil || !c.IsPerson() || c.ID == excludeID {
				continue
			}
			refs = append(refs, state.TargetRef{Player: side, Column: col, Position: pos})
		}
	}
	return refs
}

// ownDamagedExcluding lists the side's damaged cards eligible for a
// restore, excluding one card by ID.
func ownDamagedExcluding(gs *state.GameState, side state.Side, excludeID string) []state.TargetRef {
	targets := targeting.FindSideTargets(gs, side, side, targeting.Options{
		AllowOwn:       true,
		AllowProtected: true,
		RequireDamaged: true,
	})
	out := targets[:0]
	for _, t := range targets {
		if c := gs.GetCard(t); c != nil && c.ID != excludeID {
			out = append(out, t)
		}
	}
	return out
}

// emptyPersonSlots lists truly empty person slots on the side,
// excluding one slot.
func emptyPersonSlots(gs *state.GameState, side state.Side, exclude state.TargetRef) []state.TargetRef {
	var refs []state.TargetRef
	p := gs.Player(side)
	for col := range p.Columns {
		for _, pos := range []int{state.SlotMiddle, state.SlotFront} {
			ref := state.TargetRef{Player: side, Column: col, Position: pos}
			if ref == exclude {
				continue
			}
			if p.Columns[col].GetCard(pos) == nil {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}
