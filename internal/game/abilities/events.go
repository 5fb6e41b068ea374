package abilities

import (
	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"github.com/wastelandgames/wasteland-server-go/internal/game/targeting"
)

func registerEvents(r *Registry) {
	r.event("Strafe", eventStrafe)
	r.event("Napalm", eventNapalm)
	r.event("Famine", eventFamine)
	r.event("High Ground", eventHighGround)
	r.event("Uprising", eventUprising)
	r.event("Radiation", eventRadiation)
	r.event("Banish", eventBanish)
	r.event("Bombardment", eventBombardment)
	r.event("Interrogate", eventInterrogate)
	r.event("Truce", eventTruce)
}

// eventStrafe injures every unprotected enemy person.
func eventStrafe(gs *state.GameState, ctx Context) bool {
	for _, ref := range targeting.FindValidTargets(gs, ctx.Player, targeting.Options{RequirePerson: true}) {
		rules.ApplyDamage(gs, ref)
	}
	return true
}

// eventNapalm destroys every person in one enemy column of the owner's
// choice.
func eventNapalm(gs *state.GameState, ctx Context) bool {
	opp := ctx.Player.Opponent()
	var targets []state.TargetRef
	for col := range gs.Player(opp).Columns {
		if gs.Player(opp).Columns[col].HasPeople() {
			targets = append(targets, state.TargetRef{Player: opp, Column: col, Position: state.SlotCamp})
		}
	}
	if len(targets) == 0 {
		return true
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingEventDestroyColumn,
		ValidTargets: targets,
	})
}

// eventFamine makes each side destroy all but one of its people, the
// owner deciding first. Sides with at most one person are spared the
// choice.
func eventFamine(gs *state.GameState, ctx Context) bool {
	if p := famineSpareOne(gs, ctx, ctx.Player); p != nil {
		p.Effect = "famine_owner"
		return install(gs, ctx, p)
	}
	if p := famineSpareOne(gs, ctx, ctx.Player.Opponent()); p != nil {
		p.Effect = "famine_opponent"
		p.Selecting = ctx.Player.Opponent()
		return install(gs, ctx, p)
	}
	return true
}

// famineSpareOne builds the keep-one pending for a side, or nil when
// the side has nothing to lose.
func famineSpareOne(gs *state.GameState, ctx Context, side state.Side) *state.Pending {
	people := ownPeople(gs, side, nil)
	if len(people) <= 1 {
		return nil
	}
	return &state.Pending{
		Type:         state.PendingEventSpareOne,
		Selecting:    side,
		ValidTargets: people,
	}
}

// eventHighGround leaves every opponent card unprotected for the rest
// of the turn.
func eventHighGround(gs *state.GameState, ctx Context) bool {
	gs.TurnEvents.OpponentsExposed = true
	return true
}

// eventUprising raises three punks, placed one at a time.
func eventUprising(gs *state.GameState, ctx Context) bool {
	gainPunk(gs, ctx, 3)
	return true
}

// eventRadiation injures every person on both sides, the owner's
// included.
func eventRadiation(gs *state.GameState, ctx Context) bool {
	for _, side := range []state.Side{ctx.Player, ctx.Player.Opponent()} {
		for _, ref := range ownPeople(gs, side, nil) {
			rules.ApplyDamage(gs, ref)
		}
	}
	return true
}

// eventBanish destroys any one enemy card, protection ignored.
func eventBanish(gs *state.GameState, ctx Context) bool {
	targets := targeting.FindValidTargets(gs, ctx.Player, targeting.Options{AllowProtected: true})
	if len(targets) == 0 {
		return true
	}
	return install(gs, ctx, &state.Pending{Type: state.PendingEventBanish, ValidTargets: targets})
}

// eventBombardment damages every opponent camp, then draws one card
// per opponent camp destroyed.
func eventBombardment(gs *state.GameState, ctx Context) bool {
	opp := gs.Player(ctx.Player.Opponent())
	for col := range opp.Columns {
		camp := opp.Columns[col].GetCard(state.SlotCamp)
		if camp != nil && camp.IsCamp() && !camp.IsDestroyed {
			rules.ApplyDamage(gs, state.TargetRef{Player: ctx.Player.Opponent(), Column: col, Position: state.SlotCamp})
		}
	}
	for i := 0; i < opp.DestroyedCampCount(); i++ {
		ctx.DrawToHand()
	}
	return true
}

// eventInterrogate draws four and keeps one.
func eventInterrogate(gs *state.GameState, ctx Context) bool {
	var drawn []*state.Card
	for i := 0; i < 4; i++ {
		if c := ctx.DrawRaw(); c != nil {
			drawn = append(drawn, c)
		}
	}
	if len(drawn) == 0 {
		return true
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

// eventTruce returns every person on both sides to its owner's hand.
func eventTruce(gs *state.GameState, ctx Context) bool {
	for _, side := range []state.Side{ctx.Player, ctx.Player.Opponent()} {
		for {
			people := ownPeople(gs, side, nil)
			if len(people) == 0 {
				break
			}
			rules.ReturnToHand(gs, people[0])
		}
	}
	return true
}
