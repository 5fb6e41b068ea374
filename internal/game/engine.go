package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wastelandgames/wasteland-server-go/internal/game/abilities"
	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"github.com/wastelandgames/wasteland-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

// Engine is the authoritative arbiter for one match. It is the sole
// mutator of its GameState; commands run to completion (fully resolved
// or exactly one pending installed) under the mutex, so callers may
// submit from any goroutine.
type Engine struct {
	mu       sync.Mutex
	state    *state.GameState
	registry *abilities.Registry
	logger   *zap.Logger
	rng      *rand.Rand
	recorder *ReplayRecorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand fixes the random source, for deterministic matches.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithRecorder attaches replay recording: every successful command
// captures a snapshot.
func WithRecorder(rr *ReplayRecorder) Option {
	return func(e *Engine) { e.recorder = rr }
}

// NewEngine creates a match ready for camp selection. The registry is
// built once at process start and injected here.
func NewEngine(registry *abilities.Registry, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	gs := state.NewGameState(uuid.NewString())
	gs.Deck = BuildDeck(e.rng)
	gs.CampOffers = BuildCampOffers(e.rng)
	gs.Phase = state.PhaseCampSelection
	e.state = gs
	if e.recorder != nil {
		e.recorder.StartRecording(gs.MatchID)
	}
	e.logger.Info("match created",
		zap.String("match_id", gs.MatchID),
		zap.Int("deck_size", len(gs.Deck)),
	)
	return e
}

// State exposes the authoritative state. Callers treat it as read-only;
// mutation goes through Execute.
func (e *Engine) State() *state.GameState {
	return e.state
}

// View builds the sanitized view of the match for one seat.
func (e *Engine) View(side state.Side) MatchView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ViewFor(e.state, side)
}

// Execute validates and applies one command, returning its result. The
// caller takes a fresh snapshot of the state afterward.
func (e *Engine) Execute(cmd Command) CommandResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := e.execute(cmd)
	if !res.Success {
		e.logger.Debug("command rejected",
			zap.String("match_id", e.state.MatchID),
			zap.String("type", string(cmd.Type)),
			zap.String("reason", res.Error),
		)
		return res
	}
	e.checkWin()
	if e.recorder != nil {
		if snapshot, err := CloneState(e.state); err == nil {
			e.recorder.RecordState(e.state.MatchID, snapshot)
		}
	}
	return res
}

func (e *Engine) execute(cmd Command) CommandResult {
	gs := e.state
	if gs.IsOver() {
		return fail("the game is over")
	}

	switch cmd.Type {
	case CmdSelectTarget:
		return e.resolvePending(cmd)
	case CmdCancelAction:
		return e.cancelPending(cmd)
	case CmdSelectCamps:
		return e.selectCamps(cmd)
	}

	if !cmd.PlayerID.Valid() {
		return fail("command is missing its acting side")
	}
	if gs.Pending != nil {
		return fail("a pending action must be resolved first")
	}
	if gs.Phase != state.PhaseActions {
		return fail("commands are only accepted during the actions phase")
	}
	if cmd.PlayerID != gs.CurrentPlayer {
		return fail("it is not your turn")
	}

	switch cmd.Type {
	case CmdPlayCard:
		return e.playCard(cmd)
	case CmdUseAbility:
		return e.useAbility(cmd, false)
	case CmdUseCampAbility:
		return e.useAbility(cmd, true)
	case CmdJunkCard:
		return e.junkCard(cmd)
	case CmdDrawCard:
		return e.drawCardCommand(cmd)
	case CmdTakeWaterSilo:
		return e.takeWaterSilo(cmd)
	case CmdEndTurn:
		return e.endTurn(cmd)
	default:
		return fail("unknown command type")
	}
}

// selectCamps locks in a side's three starting camps. Once both sides
// have chosen, starting hands are drawn and the first actions phase
// begins.
func (e *Engine) selectCamps(cmd Command) CommandResult {
	gs := e.state
	if gs.Phase != state.PhaseCampSelection {
		return fail("camps have already been selected")
	}
	if !cmd.PlayerID.Valid() {
		return fail("command is missing its acting side")
	}
	offer := gs.CampOffers[cmd.PlayerID]
	if offer == nil {
		return fail("no camp offer outstanding for this side")
	}
	if len(cmd.CampNames) != 3 {
		return fail("exactly three camps must be chosen")
	}

	var chosen []*state.Card
	for _, name := range cmd.CampNames {
		found := false
		for _, camp := range offer {
			if camp.Name == name {
				for _, already := range chosen {
					if already.ID == camp.ID {
						return fail("duplicate camp choice")
					}
				}
				chosen = append(chosen, camp)
				found = true
				break
			}
		}
		if !found {
			return fail("camp not part of this side's offer")
		}
	}

	p := gs.Player(cmd.PlayerID)
	for col, camp := range chosen {
		camp.IsReady = true
		p.Columns[col].SetCard(col, state.SlotCamp, camp)
	}
	delete(gs.CampOffers, cmd.PlayerID)
	e.logger.Info("camps selected",
		zap.String("match_id", gs.MatchID),
		zap.String("side", string(cmd.PlayerID)),
		zap.Strings("camps", cmd.CampNames),
	)

	if len(gs.CampOffers) > 0 {
		return ok()
	}

	// Both sides picked: deal starting hands and open the first turn.
	gs.CampOffers = nil
	for _, side := range []state.Side{state.SideLeft, state.SideRight} {
		draws := 0
		for _, col := range gs.Player(side).Columns {
			if camp := col.GetCard(state.SlotCamp); camp != nil {
				draws += camp.CampDraw
			}
		}
		for i := 0; i < draws; i++ {
			e.drawToHand(side)
		}
	}
	gs.Phase = state.PhaseActions
	gs.Player(gs.CurrentPlayer).Water = rules.ReplenishAmount(gs.TurnNumber)
	return ok()
}

func (e *Engine) playCard(cmd Command) CommandResult {
	gs := e.state
	p := gs.Player(cmd.PlayerID)
	idx := p.FindInHand(cmd.CardID)
	if idx < 0 {
		return fail("card is not in your hand")
	}
	card := p.Hand[idx]

	switch card.Kind {
	case state.KindPerson:
		return e.playPerson(cmd, idx, card)
	case state.KindEvent:
		return e.playEvent(cmd, idx, card)
	default:
		return fail("this card cannot be played")
	}
}

func (e *Engine) playPerson(cmd Command, handIdx int, card *state.Card) CommandResult {
	gs := e.state
	side := cmd.PlayerID
	cost := rules.PersonCost(gs, side, card, cmd.TargetColumn)
	if !rules.CanAfford(gs, side, cost) {
		return fail("not enough water")
	}
	check := rules.CanPlacePerson(gs, side, cmd.TargetColumn, cmd.TargetPosition)
	if !check.OK {
		return fail(check.Reason)
	}

	p := gs.Player(side)
	p.Water -= cost
	p.RemoveFromHand(handIdx)
	rules.PlacePerson(gs, side, card, cmd.TargetColumn, cmd.TargetPosition)
	card.IsReady = rules.HasActiveTrait(gs, side, state.TraitEnterReady)
	card.IsDamaged = false
	gs.TurnEvents.PeoplePlayed++

	e.fireEntry(side, card)
	return ok()
}

// fireEntry runs a person's on-play handler. An entry continuation is
// not cancellable: the card is already placed and paid for.
func (e *Engine) fireEntry(side state.Side, card *state.Card) {
	handler, found := e.registry.Entry(card.Name)
	if !found {
		return
	}
	ctx := e.buildContext(side, card, card.ColumnIndex, card.Position, state.Ability{}, 0)
	handler(e.state, ctx)
	if e.state.Pending != nil && e.state.Pending.Kind == "" {
		e.stampPending(state.FinalizeEntry, card, 0, 0)
	}
}

func (e *Engine) playEvent(cmd Command, handIdx int, card *state.Card) CommandResult {
	gs := e.state
	side := cmd.PlayerID
	if !rules.CanAfford(gs, side, card.Cost) {
		return fail("not enough water")
	}
	placement := rules.EventSlot(gs, side, card)
	if !placement.OK {
		return fail(placement.Reason)
	}

	p := gs.Player(side)
	p.Water -= card.Cost
	p.RemoveFromHand(handIdx)
	gs.TurnEvents.EventPlayed = true

	if placement.Instant {
		e.resolveEventCard(side, card)
		return ok()
	}
	p.EventQueue[placement.Slot] = card
	return ok()
}

// resolveEventCard discards the event and runs its handler. A pending
// installed here halts whatever the caller was driving.
func (e *Engine) resolveEventCard(side state.Side, card *state.Card) {
	gs := e.state
	gs.Discard = append(gs.Discard, card)
	gs.TurnEvents.EventResolved = true

	handler, found := e.registry.Event(card.Name)
	if !found {
		e.logger.Warn("no handler registered for event",
			zap.String("match_id", gs.MatchID),
			zap.String("event", card.Name),
		)
		return
	}
	ctx := e.buildContext(side, card, -1, -1, state.Ability{}, 0)
	handler(gs, ctx)
	if gs.Pending != nil && gs.Pending.Kind == "" {
		e.stampPending(state.FinalizeEvent, nil, 0, 0)
	}
}

func (e *Engine) useAbility(cmd Command, camp bool) CommandResult {
	gs := e.state
	side := cmd.PlayerID
	card := gs.Player(side).GetCard(cmd.ColumnIndex, cmd.Position)
	if card == nil {
		return fail("no card at that position")
	}
	if card.IsDestroyed {
		return fail("the card is destroyed")
	}
	if camp != card.IsCamp() {
		if camp {
			return fail("that card is not a camp")
		}
		return fail("camp abilities use their own command")
	}
	if !card.IsReady {
		return fail("the card is not ready")
	}
	if card.IsPerson() && card.IsDamaged {
		return fail("a damaged person cannot act")
	}
	if gs.TurnEvents.AbilityLock {
		return fail("no further abilities may be used this turn")
	}
	if card.HasTrait(state.TraitExclusiveAbility) && gs.TurnEvents.AbilityUsed {
		return fail("this ability must be the only one used this turn")
	}
	if card.RequiresPeoplePlayed > 0 && gs.TurnEvents.PeoplePlayed < card.RequiresPeoplePlayed {
		return fail("not enough people played this turn")
	}
	if card.RequiresPeopleInPlay > 0 && len(gs.Player(side).PeopleInPlay()) < card.RequiresPeopleInPlay {
		return fail("not enough people in play")
	}

	list := rules.AbilitiesFor(gs, side, card)
	if cmd.AbilityIndex < 0 || cmd.AbilityIndex >= len(list) {
		return fail("no such ability")
	}
	ability := list[cmd.AbilityIndex]
	cost := rules.AbilityCost(gs, side, card, ability)
	if !rules.CanAfford(gs, side, cost) {
		return fail("not enough water")
	}

	handler, found := e.registry.Ability(card.Name, ability.Effect)
	if !found {
		handler, found = e.registry.Generic(ability.Effect)
	}
	if !found {
		return fail("no handler for this ability")
	}

	gs.Player(side).Water -= cost
	ctx := e.buildContext(side, card, cmd.ColumnIndex, cmd.Position, ability, cmd.AbilityIndex)
	if !handler(gs, ctx) {
		// Precondition failed inside the handler: refund, leave ready.
		gs.Player(side).Water += cost
		return fail("the ability cannot be used right now")
	}
	if gs.Pending != nil {
		e.stampPending(state.FinalizeAbility, card, cost, cmd.AbilityIndex)
		return ok()
	}
	e.finalizeAbilityUse(card)
	return ok()
}

// finalizeAbilityUse settles readiness once an ability fully resolves:
// the card exhausts unless the stays-ready trait covers the side's
// first use this turn, and the per-turn flags are stamped.
func (e *Engine) finalizeAbilityUse(card *state.Card) {
	gs := e.state
	side := gs.CurrentPlayer
	if card != nil {
		stays := !gs.TurnEvents.AbilityUsed &&
			gs.TurnEvents.StayedReadyCardID == "" &&
			rules.HasActiveTrait(gs, side, state.TraitStaysReadyFirstUse)
		if stays {
			gs.TurnEvents.StayedReadyCardID = card.ID
		} else {
			card.IsReady = false
		}
		if card.HasTrait(state.TraitExclusiveAbility) {
			gs.TurnEvents.AbilityLock = true
		}
	}
	gs.TurnEvents.AbilityUsed = true
}

func (e *Engine) junkCard(cmd Command) CommandResult {
	gs := e.state
	side := cmd.PlayerID
	p := gs.Player(side)
	card := p.HandCard(cmd.CardIndex)
	if card == nil {
		return fail("no card at that hand index")
	}

	if card.Name == state.WaterSiloName {
		p.RemoveFromHand(cmd.CardIndex)
		p.WaterSilo = state.SiloAvailable
		p.Water++
		return ok()
	}

	switch card.JunkEffect {
	case state.JunkWater:
		p.RemoveFromHand(cmd.CardIndex)
		gs.Discard = append(gs.Discard, card)
		p.Water++
		return ok()
	case state.JunkCard:
		p.RemoveFromHand(cmd.CardIndex)
		gs.Discard = append(gs.Discard, card)
		e.drawToHand(side)
		return ok()
	case state.JunkRaid:
		p.RemoveFromHand(cmd.CardIndex)
		gs.Discard = append(gs.Discard, card)
		e.junkRaid(side)
		return ok()
	case state.JunkPunk:
		return e.junkPunk(cmd, card)
	case state.JunkInjure:
		return e.junkTargeted(cmd, card, state.PendingInjure)
	case state.JunkRestore:
		return e.junkTargeted(cmd, card, state.PendingRestore)
	default:
		return fail("this card has no junk effect")
	}
}

func (e *Engine) junkRaid(side state.Side) {
	ctx := e.buildContext(side, nil, -1, -1, state.Ability{}, 0)
	abilities.Raid(e.state, ctx)
	if e.state.Pending != nil && e.state.Pending.Kind == "" {
		e.stampPending(state.FinalizeRaid, nil, 0, 0)
	}
}

func (e *Engine) junkPunk(cmd Command, card *state.Card) CommandResult {
	gs := e.state
	side := cmd.PlayerID
	p := gs.Player(side)
	slots := rules.OpenPersonSlots(gs, side)
	punk := rules.MakePunk(gs, func() *state.Card { return e.drawRaw(side) })
	if len(slots) == 0 || punk == nil {
		// Impossible junk still discards; the effect is forfeit.
		if punk != nil {
			gs.Deck = append([]*state.Card{rules.RevealPunk(punk)}, gs.Deck...)
		}
		p.RemoveFromHand(cmd.CardIndex)
		gs.Discard = append(gs.Discard, card)
		return ok()
	}
	p.RemoveFromHand(cmd.CardIndex)
	gs.Pending = &state.Pending{
		Type:         state.PendingPlacePunk,
		Player:       side,
		Selecting:    side,
		PlaceCard:    punk,
		ValidTargets: slots,
		Remaining:    1,
		JunkedCard:   card,
	}
	e.stampPending(state.FinalizeJunk, nil, 0, 0)
	return ok()
}

// junkTargeted installs a targeted junk continuation that carries the
// junked card, so it is discarded only once the target is chosen. With
// no legal target the card is still discarded and the effect forfeit.
func (e *Engine) junkTargeted(cmd Command, card *state.Card, typ state.PendingType) CommandResult {
	gs := e.state
	side := cmd.PlayerID
	p := gs.Player(side)

	var targets []state.TargetRef
	switch typ {
	case state.PendingInjure:
		targets = targeting.FindValidTargets(gs, side, targeting.Options{RequirePerson: true})
	case state.PendingRestore:
		targets = targeting.FindSideTargets(gs, side, side, targeting.Options{
			AllowOwn:       true,
			AllowProtected: true,
			RequireDamaged: true,
		})
	}
	p.RemoveFromHand(cmd.CardIndex)
	if len(targets) == 0 {
		gs.Discard = append(gs.Discard, card)
		return ok()
	}
	gs.Pending = &state.Pending{
		Type:         typ,
		Player:       side,
		Selecting:    side,
		ValidTargets: targets,
		JunkedCard:   card,
	}
	e.stampPending(state.FinalizeJunk, nil, 0, 0)
	return ok()
}

// drawCardCommand is the paid extra draw.
const extraDrawCost = 2

func (e *Engine) drawCardCommand(cmd Command) CommandResult {
	gs := e.state
	if !rules.CanAfford(gs, cmd.PlayerID, extraDrawCost) {
		return fail("not enough water")
	}
	gs.Player(cmd.PlayerID).Water -= extraDrawCost
	e.drawToHand(cmd.PlayerID)
	return ok()
}

const waterSiloCost = 1

func (e *Engine) takeWaterSilo(cmd Command) CommandResult {
	gs := e.state
	p := gs.Player(cmd.PlayerID)
	if p.WaterSilo != state.SiloAvailable {
		return fail("the water silo is not available")
	}
	if !rules.CanAfford(gs, cmd.PlayerID, waterSiloCost) {
		return fail("not enough water")
	}
	p.Water -= waterSiloCost
	p.WaterSilo = state.SiloInHand
	p.Hand = append(p.Hand, &state.Card{
		ID:         "silo-" + string(cmd.PlayerID),
		Name:       state.WaterSiloName,
		Kind:       state.KindEvent,
		JunkEffect: state.JunkSilo,
	})
	return ok()
}

func (e *Engine) endTurn(cmd Command) CommandResult {
	gs := e.state
	gs.TurnEvents = state.TurnEvents{}
	gs.CurrentPlayer = gs.CurrentPlayer.Opponent()
	gs.TurnNumber++
	gs.Phase = state.PhaseEvents
	e.logger.Debug("turn ended",
		zap.String("match_id", gs.MatchID),
		zap.Int("turn", gs.TurnNumber),
		zap.String("next", string(gs.CurrentPlayer)),
	)
	e.runPhases()
	return ok()
}

// buildContext assembles the handler context, wiring the deck-lifecycle
// callbacks to this engine.
func (e *Engine) buildContext(side state.Side, source *state.Card, col, pos int, ability state.Ability, abilityIdx int) abilities.Context {
	return abilities.Context{
		Source:       source,
		Player:       side,
		Column:       col,
		Position:     pos,
		Ability:      ability,
		AbilityIndex: abilityIdx,
		DrawToHand:   func() *state.Card { return e.drawToHand(side) },
		DrawRaw:      func() *state.Card { return e.drawRaw(side) },
	}
}

// stampPending fills the bookkeeping fields of a freshly installed
// pending: what kind of interaction it finalizes, the cost already
// paid, and the source location. Event and entry continuations are
// never cancellable.
func (e *Engine) stampPending(kind state.FinalizeKind, source *state.Card, paid int, abilityIdx int) {
	p := e.state.Pending
	if p == nil {
		return
	}
	p.Kind = kind
	p.PaidCost = paid
	p.AbilityIx = abilityIdx
	if source != nil {
		p.SourceID = source.ID
		p.Source = state.TargetRef{
			Player:   p.Player,
			Column:   source.ColumnIndex,
			Position: source.Position,
		}
	}
	if kind == state.FinalizeEvent || kind == state.FinalizeEntry || kind == state.FinalizeRaid {
		p.PartiallyResolved = true
	}
}

// drawToHand draws through the full deck lifecycle and adds the card to
// the side's hand. Exhaustion outcomes may end the game.
func (e *Engine) drawToHand(side state.Side) *state.Card {
	card := e.drawRaw(side)
	if card == nil {
		return nil
	}
	e.state.Player(side).Hand = append(e.state.Player(side).Hand, card)
	return card
}

// drawRaw draws without placing the card anywhere. The caller owns it.
func (e *Engine) drawRaw(side state.Side) *state.Card {
	gs := e.state
	if gs.IsOver() {
		return nil
	}
	res := rules.DrawCard(gs, e.rng)
	switch res.Outcome {
	case rules.DrawInstantWin:
		gs.SetGameOver(string(res.Winner), "deck exhausted with an instant-win camp standing")
		return nil
	case rules.DrawGameDrawn:
		gs.SetGameOver(state.WinnerDraw, "deck exhausted twice")
		return nil
	case rules.DrawPostponed:
		return nil
	case rules.DrawReshuffled:
		e.logger.Debug("discard reshuffled into deck",
			zap.String("match_id", gs.MatchID),
			zap.Int("deck_size", len(gs.Deck)+1),
		)
	}
	return res.Card
}

// checkWin runs the camp-destruction oracle after every mutation.
func (e *Engine) checkWin() {
	gs := e.state
	if gs.IsOver() {
		return
	}
	winner, reason, over := rules.WinCheck(gs)
	if !over {
		return
	}
	if winner == "" {
		gs.SetGameOver(state.WinnerDraw, reason)
		return
	}
	gs.SetGameOver(string(winner), reason)
	e.logger.Info("match decided",
		zap.String("match_id", gs.MatchID),
		zap.String("winner", gs.Winner),
		zap.String("reason", reason),
	)
}
