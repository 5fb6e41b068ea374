package game

import (
	"testing"

	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

func selectTarget(t *testing.T, e *Engine, side state.Side, ref state.TargetRef) {
	t.Helper()
	mustExecute(t, e, Command{
		Type: CmdSelectTarget, PlayerID: side,
		TargetPlayer: ref.Player, TargetColumn: ref.Column, TargetPosition: ref.Position,
	})
}

func TestCultLeaderSacrificeThenDamage(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	leader := personCard("Cult Leader", 1, state.Ability{Effect: "sacrifice_damage", Cost: 0})
	leader.IsReady = true
	putInPlay(e, state.SideLeft, 0, state.SlotFront, leader)
	fodder := putInPlay(e, state.SideLeft, 1, state.SlotFront, personCard("Muse", 1))
	victim := putInPlay(e, state.SideRight, 0, state.SlotFront, personCard("Looter", 1))

	mustExecute(t, e, Command{
		Type: CmdUseAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotFront, AbilityIndex: 0,
	})
	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingSelfDestroy {
		t.Fatal("the chain starts with the sacrifice pick")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 1, Position: state.SlotFront})

	if len(gs.Discard) == 0 || gs.Discard[len(gs.Discard)-1].ID != fodder.ID {
		t.Fatal("the sacrificed person should be destroyed")
	}
	pd = gs.Pending
	if pd == nil || pd.Type != state.PendingDamage {
		t.Fatal("the sacrifice should roll into the damage pick")
	}
	if !pd.PartiallyResolved {
		t.Fatal("a chain with a destroyed person is past cancellation")
	}
	mustFail(t, e, Command{Type: CmdCancelAction, PlayerID: state.SideLeft})

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideRight, Column: 0, Position: state.SlotFront})

	if !victim.IsDamaged {
		t.Fatal("the damage half should land")
	}
	if leader.IsReady {
		t.Fatal("the leader exhausts once the chain settles")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
}

func TestBonfireRestoreChain(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	camp := campCard("Bonfire", state.Ability{Effect: "bonfire", Cost: 0})
	putInPlay(e, state.SideLeft, 0, state.SlotCamp, camp)
	first := putInPlay(e, state.SideLeft, 1, state.SlotFront, personCard("Muse", 1))
	first.IsDamaged = true
	second := putInPlay(e, state.SideLeft, 2, state.SlotFront, personCard("Looter", 1))
	second.IsDamaged = true

	mustExecute(t, e, Command{
		Type: CmdUseCampAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotCamp, AbilityIndex: 0,
	})

	if !camp.IsDamaged {
		t.Fatal("the camp pays with a hit to itself")
	}
	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingRestore || pd.Remaining != 2 {
		t.Fatal("two restores should be owed")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 1, Position: state.SlotFront})
	if first.IsDamaged {
		t.Fatal("the first restore should land")
	}
	if gs.Pending == nil {
		t.Fatal("a second restore is still owed")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 2, Position: state.SlotFront})
	if second.IsDamaged {
		t.Fatal("the second restore should land")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
	if !camp.IsDamaged {
		t.Fatal("the camp never restores itself through its own chain")
	}
}

func TestFamineEachSideSparesOne(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	keepR := putInPlay(e, state.SideRight, 0, state.SlotFront, personCard("Muse", 1))
	putInPlay(e, state.SideRight, 1, state.SlotFront, personCard("Looter", 1))
	keepL := putInPlay(e, state.SideLeft, 0, state.SlotFront, personCard("Scout", 1))
	putInPlay(e, state.SideLeft, 1, state.SlotFront, personCard("Vigilante", 1))

	famine := &state.Card{ID: nextCardID("Famine"), Name: "Famine", Kind: state.KindEvent, QueueNumber: 1}
	gs.Player(state.SideRight).EventQueue[0] = famine

	mustExecute(t, e, Command{Type: CmdEndTurn, PlayerID: state.SideLeft})

	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingEventSpareOne || pd.Selecting != state.SideRight {
		t.Fatal("the event's owner chooses their keeper first")
	}

	selectTarget(t, e, state.SideRight, state.TargetRef{Player: state.SideRight, Column: 0, Position: state.SlotFront})

	if len(gs.Player(state.SideRight).PeopleInPlay()) != 1 {
		t.Fatal("the owner keeps exactly one person")
	}
	pd = gs.Pending
	if pd == nil || pd.Selecting != state.SideLeft {
		t.Fatal("the choice then passes to the opponent")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 0, Position: state.SlotFront})

	left := gs.Player(state.SideLeft).PeopleInPlay()
	if len(left) != 1 || left[0].ID != keepL.ID {
		t.Fatal("the opponent keeps exactly their chosen person")
	}
	if kept := gs.Player(state.SideRight).PeopleInPlay(); kept[0].ID != keepR.ID {
		t.Fatal("the owner's keeper survives")
	}
	if gs.Phase != state.PhaseActions {
		t.Fatal("the interrupted turn resumes once the event settles")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
}

func TestMimicCopiesEnemyAbility(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	mimic := personCard("Mimic", 1, state.Ability{Effect: "copy_ability", Cost: 0})
	mimic.IsReady = true
	putInPlay(e, state.SideLeft, 0, state.SlotFront, mimic)
	enemy := putInPlay(e, state.SideRight, 0, state.SlotFront,
		personCard("Holdout", 1, state.Ability{Effect: "damage", Cost: 1}))
	giveWater(e, state.SideLeft, 3)

	mustExecute(t, e, Command{
		Type: CmdUseAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotFront, AbilityIndex: 0,
	})
	if gs.Pending == nil || gs.Pending.Type != state.PendingCopyAbility {
		t.Fatal("the copy pick should be pending")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideRight, Column: 0, Position: state.SlotFront})

	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingDamage {
		t.Fatal("the copied damage ability runs as the mimic's own")
	}
	if gs.Player(state.SideLeft).Water != 2 {
		t.Fatal("the copied ability's own cost is paid")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideRight, Column: 0, Position: state.SlotFront})

	if !enemy.IsDamaged {
		t.Fatal("the copied hit should land")
	}
	if mimic.IsReady {
		t.Fatal("the mimic exhausts, not the copied card")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
}

func TestMutantFollowUpDamagesItself(t *testing.T) {
	e := newTestEngine(t)
	mutant := personCard("Mutant", 1,
		state.Ability{Effect: "mutant_damage", Cost: 0},
		state.Ability{Effect: "mutant_restore", Cost: 0})
	mutant.IsReady = true
	putInPlay(e, state.SideLeft, 0, state.SlotFront, mutant)
	victim := putInPlay(e, state.SideRight, 0, state.SlotFront, personCard("Looter", 1))

	mustExecute(t, e, Command{
		Type: CmdUseAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotFront, AbilityIndex: 0,
	})
	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideRight, Column: 0, Position: state.SlotFront})

	if !victim.IsDamaged {
		t.Fatal("the chosen hit should land")
	}
	if !mutant.IsDamaged {
		t.Fatal("the mutant takes its own hit once the chain settles")
	}
}

func TestParachuteDropFullChain(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	base := campCard("Parachute Base", state.Ability{Effect: "parachute", Cost: 0})
	putInPlay(e, state.SideLeft, 0, state.SlotCamp, base)
	putInPlay(e, state.SideRight, 0, state.SlotFront, personCard("Looter", 1))

	soldier := personCard("Holdout", 2, state.Ability{Effect: "damage", Cost: 1})
	giveHand(e, state.SideLeft, soldier)
	giveWater(e, state.SideLeft, 5)

	mustExecute(t, e, Command{
		Type: CmdUseCampAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotCamp, AbilityIndex: 0,
	})
	if gs.Pending == nil || gs.Pending.Type != state.PendingHandPick {
		t.Fatal("the drop starts with the hand pick")
	}

	mustExecute(t, e, Command{Type: CmdSelectTarget, PlayerID: state.SideLeft, CardIndex: 0})
	if gs.Pending == nil || gs.Pending.Type != state.PendingPlacePerson {
		t.Fatal("the landing slot comes next")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 0, Position: state.SlotMiddle})

	// The person landed and paid, and its own ability now wants a
	// target.
	landed := gs.Player(state.SideLeft).GetCard(0, state.SlotMiddle)
	if landed == nil || landed.ID != soldier.ID {
		t.Fatal("the person should stand in the chosen slot")
	}
	if gs.Player(state.SideLeft).Water != 2 {
		t.Fatalf("water = %d, want 2 after the play cost and the ability cost", gs.Player(state.SideLeft).Water)
	}
	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingDamage {
		t.Fatal("the dropped person's ability fires as part of the chain")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideRight, Column: 0, Position: state.SlotFront})

	if !gs.Player(state.SideRight).GetCard(0, state.SlotFront).IsDamaged {
		t.Fatal("the ability's hit should land")
	}
	if !soldier.IsDamaged {
		t.Fatal("the drop ends with the person taking the deferred hit")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
	if base.IsReady {
		t.Fatal("the camp exhausts once the whole drop settles")
	}
}

func TestParachuteDropUsesAdjustedCost(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	base := campCard("Parachute Base", state.Ability{Effect: "parachute", Cost: 0})
	putInPlay(e, state.SideLeft, 0, state.SlotCamp, base)
	ruin := campCard("Cannon")
	ruin.IsDestroyed = true
	putInPlay(e, state.SideLeft, 1, state.SlotCamp, ruin)

	soldier := personCard("Holdout", 2, state.Ability{Effect: "damage", Cost: 1})
	soldier.Traits = []state.Trait{state.TraitFreeIntoRuin}
	giveHand(e, state.SideLeft, soldier)
	giveWater(e, state.SideLeft, 0)

	// The raw cost is unpayable, but the ruined column takes the
	// person for free.
	mustExecute(t, e, Command{
		Type: CmdUseCampAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotCamp, AbilityIndex: 0,
	})
	mustExecute(t, e, Command{Type: CmdSelectTarget, PlayerID: state.SideLeft, CardIndex: 0})
	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 1, Position: state.SlotMiddle})

	landed := gs.Player(state.SideLeft).GetCard(1, state.SlotMiddle)
	if landed == nil || landed.ID != soldier.ID {
		t.Fatal("the person should land behind the ruined camp")
	}
	if gs.Player(state.SideLeft).Water != 0 {
		t.Fatalf("water = %d, the free-into-ruin drop costs nothing", gs.Player(state.SideLeft).Water)
	}
	// No water for the ability, so the chain skips straight to the
	// deferred hit.
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
	if !soldier.IsDamaged {
		t.Fatal("the deferred hit still lands")
	}
	if base.IsReady {
		t.Fatal("the camp exhausts once the drop settles")
	}
}

func TestJuggernautThirdAdvanceForcesCampLoss(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	jug := campCard("Juggernaut", state.Ability{Effect: "advance", Cost: 1})
	jug.Traits = []state.Trait{state.TraitMobile}
	jug.MoveCount = 2
	putInPlay(e, state.SideLeft, 0, state.SlotCamp, jug)
	blocker := putInPlay(e, state.SideLeft, 0, state.SlotMiddle, personCard("Muse", 1))
	giveWater(e, state.SideLeft, 3)

	mustExecute(t, e, Command{
		Type: CmdUseCampAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotCamp, AbilityIndex: 0,
	})

	if gs.Player(state.SideLeft).GetCard(0, state.SlotMiddle) != jug {
		t.Fatal("the camp moves one slot forward")
	}
	if gs.Player(state.SideLeft).GetCard(0, state.SlotCamp) != blocker {
		t.Fatal("the displaced occupant lands in the vacated slot")
	}
	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingDestroyCamp || pd.Selecting != state.SideRight {
		t.Fatal("the third advance makes the opponent give up a camp")
	}

	target := pd.ValidTargets[0]
	selectTarget(t, e, state.SideRight, target)

	if !gs.Player(state.SideRight).Columns[target.Column].GetCard(state.SlotCamp).IsDestroyed {
		t.Fatal("the chosen camp is destroyed")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
}

func TestOmenClockAdvancesQueuedEvent(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	clock := campCard("Omen Clock", state.Ability{Effect: "advance_event", Cost: 1})
	putInPlay(e, state.SideLeft, 0, state.SlotCamp, clock)
	queued := &state.Card{ID: nextCardID("Uprising"), Name: "Uprising", Kind: state.KindEvent, QueueNumber: 2}
	gs.Player(state.SideRight).EventQueue[1] = queued
	giveWater(e, state.SideLeft, 2)

	mustExecute(t, e, Command{
		Type: CmdUseCampAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotCamp, AbilityIndex: 0,
	})
	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingAdvanceEvent {
		t.Fatal("the clock should offer the queued events")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideRight, Column: 1, Position: -1})

	if gs.Player(state.SideRight).EventQueue[0] != queued {
		t.Fatal("the event should advance one slot")
	}
	if gs.Player(state.SideRight).EventQueue[1] != nil {
		t.Fatal("the old slot should clear")
	}
}

func TestConstructionYardMovesPerson(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	yard := campCard("Construction Yard", state.Ability{Effect: "move_person", Cost: 1})
	putInPlay(e, state.SideLeft, 0, state.SlotCamp, yard)
	mover := putInPlay(e, state.SideLeft, 1, state.SlotMiddle, personCard("Muse", 1))
	giveWater(e, state.SideLeft, 2)

	mustExecute(t, e, Command{
		Type: CmdUseCampAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotCamp, AbilityIndex: 0,
	})
	if gs.Pending == nil || gs.Pending.Type != state.PendingMovePerson {
		t.Fatal("the move starts with the person pick")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 1, Position: state.SlotMiddle})
	if gs.Pending == nil || gs.Pending.Type != state.PendingMoveDest {
		t.Fatal("the destination pick comes next")
	}

	selectTarget(t, e, state.SideLeft, state.TargetRef{Player: state.SideLeft, Column: 2, Position: state.SlotMiddle})

	if gs.Player(state.SideLeft).GetCard(2, state.SlotMiddle) != mover {
		t.Fatal("the person should stand in the destination")
	}
	if gs.Player(state.SideLeft).GetCard(1, state.SlotMiddle) != nil {
		t.Fatal("the origin slot should clear")
	}
}

func TestScientistJunkChoiceDiscardsAllDug(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	scientist := personCard("Scientist", 1, state.Ability{Effect: "research", Cost: 1})
	scientist.IsReady = true
	putInPlay(e, state.SideLeft, 0, state.SlotFront, scientist)
	giveWater(e, state.SideLeft, 2)

	// Seed the deck top so every dug card has a known junk effect.
	planted := []*state.Card{
		personCard("Muse", 1), personCard("Muse", 1), personCard("Muse", 1),
	}
	for _, c := range planted {
		c.JunkEffect = state.JunkWater
	}
	gs.Deck = append(planted, gs.Deck...)
	deckBefore := len(gs.Deck)
	countBefore := gs.CardCount()

	mustExecute(t, e, Command{
		Type: CmdUseAbility, PlayerID: state.SideLeft,
		ColumnIndex: 0, Position: state.SlotFront, AbilityIndex: 0,
	})
	pd := gs.Pending
	if pd == nil || pd.Type != state.PendingJunkChoice || len(pd.HandCards) != 3 {
		t.Fatal("three cards should be dug from the deck")
	}
	if gs.CardCount() != countBefore {
		t.Fatal("dug cards stay in the conservation count")
	}
	mustFail(t, e, Command{Type: CmdCancelAction, PlayerID: state.SideLeft})

	mustExecute(t, e, Command{Type: CmdSelectTarget, PlayerID: state.SideLeft, CardIndex: 0})

	if len(gs.Deck) != deckBefore-3 {
		t.Fatal("the dug cards never return to the deck")
	}
	if got := gs.Player(state.SideLeft).Water; got != 2 {
		t.Fatalf("water = %d, want 2 after the ability cost and the junked water", got)
	}
	if gs.CardCount() != countBefore {
		t.Fatal("conservation must hold after the dig settles")
	}
	if scientist.IsReady {
		t.Fatal("the scientist exhausts once the dig settles")
	}
	if gs.Pending != nil {
		t.Fatal("the chain should be complete")
	}
}

func TestSelectTargetWithNothingPending(t *testing.T) {
	e := newTestEngine(t)
	mustFail(t, e, Command{Type: CmdSelectTarget, PlayerID: state.SideLeft})
	mustFail(t, e, Command{Type: CmdCancelAction, PlayerID: state.SideLeft})
}
