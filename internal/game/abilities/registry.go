package abilities

import (
	"strings"

	"github.com/wastelandgames/wasteland-server-go/internal/game/rules"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

// Context carries everything a handler may need about one invocation.
type Context struct {
	Source   *state.Card
	Player   state.Side
	Column   int
	Position int
	Ability  state.Ability
	// AbilityIndex is the index the command addressed, granted
	// abilities included.
	AbilityIndex int
	// IsCopy marks an invocation driven by a card copying another
	// card's ability.
	IsCopy bool
	// ViaProxy marks an invocation where a camp lets a damaged person
	// act.
	ViaProxy bool

	// DrawToHand draws through the full deck lifecycle and adds the
	// card to the acting player's hand. Returns nil when the deck
	// produced nothing (postponed exhaustion or game end).
	DrawToHand func() *state.Card
	// DrawRaw draws through the deck lifecycle without placing the
	// card anywhere; the handler owns it.
	DrawRaw func() *state.Card
}

// Handler is the single contract every card effect obeys: mutate the
// state and/or install a pending continuation, returning false only
// before any mutation so the engine can refund the cost.
type Handler func(gs *state.GameState, ctx Context) bool

// Registry is the build-time table mapping normalized
// (card identity, effect name) keys to handlers. Constructed once and
// injected into the command system; it has no control flow of its own.
type Registry struct {
	abilities map[string]Handler
	events    map[string]Handler
	entries   map[string]Handler
	generic   map[string]Handler
}

// NewRegistry builds the full handler table.
func NewRegistry() *Registry {
	r := &Registry{
		abilities: map[string]Handler{},
		events:    map[string]Handler{},
		entries:   map[string]Handler{},
		generic:   map[string]Handler{},
	}
	registerPeople(r)
	registerCamps(r)
	registerEvents(r)
	// Effects granted by traits rather than printed on the card resolve
	// through the generic table.
	r.generic["damage"] = damageTarget
	return r
}

// normalize lowercases and strips whitespace so card names from the
// table and from definitions always collide onto the same key.
func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

func abilityKey(name, effect string) string {
	return normalize(name) + ":" + normalize(effect)
}

func (r *Registry) ability(name, effect string, h Handler) {
	r.abilities[abilityKey(name, effect)] = h
}

func (r *Registry) event(name string, h Handler) {
	r.events[normalize(name)] = h
}

func (r *Registry) entry(name string, h Handler) {
	r.entries[normalize(name)] = h
}

// Ability looks up the activated-ability handler for a card/effect pair.
func (r *Registry) Ability(cardName, effect string) (Handler, bool) {
	h, ok := r.abilities[abilityKey(cardName, effect)]
	return h, ok
}

// Event looks up the resolution handler for an event card. Events are
// namespaced apart from person/camp abilities.
func (r *Registry) Event(cardName string) (Handler, bool) {
	h, ok := r.events[normalize(cardName)]
	return h, ok
}

// Entry looks up the on-play handler for a person.
func (r *Registry) Entry(cardName string) (Handler, bool) {
	h, ok := r.entries[normalize(cardName)]
	return h, ok
}

// Generic looks up a handler by effect name alone, for abilities a
// trait grants to cards that do not print them.
func (r *Registry) Generic(effect string) (Handler, bool) {
	h, ok := r.generic[normalize(effect)]
	return h, ok
}

// Raid is the raid effect as invoked from outside the handler tables,
// for junk effects and the event queue.
func Raid(gs *state.GameState, ctx Context) bool {
	return raid(gs, ctx)
}

// install stamps the initiator on a pending and sets it. Handlers that
// need an answer from the opponent set Selecting before installing.
func install(gs *state.GameState, ctx Context, p *state.Pending) bool {
	p.Player = ctx.Player
	if p.Selecting == "" {
		p.Selecting = ctx.Player
	}
	gs.Pending = p
	return true
}

// raid advances the acting player's Raiders marker, installing the
// opponent's camp-pick continuation when the marker resolves.
func raid(gs *state.GameState, ctx Context) bool {
	outcome := rules.AdvanceRaiders(gs, ctx.Player)
	if outcome != rules.RaidResolves {
		return outcome != rules.RaidBlocked
	}
	return installRaidersPick(gs, ctx)
}

func installRaidersPick(gs *state.GameState, ctx Context) bool {
	opp := ctx.Player.Opponent()
	targets := opponentCamps(gs, opp)
	if len(targets) == 0 {
		gs.Player(ctx.Player).Raiders = state.RaidersAvailable
		return true
	}
	gs.Player(ctx.Player).Raiders = state.RaidersUsed
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingRaidersCamp,
		Selecting:    opp,
		ValidTargets: targets,
	})
}

// opponentCamps lists the side's own undestroyed camps; protection does
// not apply when a player picks among their own camps.
func opponentCamps(gs *state.GameState, side state.Side) []state.TargetRef {
	var refs []state.TargetRef
	p := gs.Player(side)
	for col := range p.Columns {
		for pos := 0; pos < state.NumSlots; pos++ {
			c := p.Columns[col].GetCard(pos)
			if c != nil && c.IsCamp() && !c.IsDestroyed {
				refs = append(refs, state.TargetRef{Player: side, Column: col, Position: pos})
			}
		}
	}
	return refs
}

// gainPunk draws the disguise card and installs the placement
// continuation. Fails quietly when the deck or board cannot take one.
func gainPunk(gs *state.GameState, ctx Context, remaining int) bool {
	slots := rules.OpenPersonSlots(gs, ctx.Player)
	if len(slots) == 0 {
		return false
	}
	punk := rules.MakePunk(gs, ctx.DrawRaw)
	if punk == nil {
		return false
	}
	return install(gs, ctx, &state.Pending{
		Type:         state.PendingPlacePunk,
		PlaceCard:    punk,
		ValidTargets: slots,
		Remaining:    remaining,
	})
}
