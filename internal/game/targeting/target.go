package targeting

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// Options constrain what a predicate query may accept.
type Options struct {
	// AllowOwn permits targets on the acting player's own side; the
	// default scans the opponent only.
	AllowOwn bool
	// AllowProtected bypasses the protection rule.
	AllowProtected   bool
	RequirePerson    bool
	RequireCamp      bool
	RequireDamaged   bool
	RequireUndamaged bool
}

// CanTarget answers whether the card at ref may be targeted by the
// acting player under the given constraints. Missing and destroyed
// cards always fail. Protection is bypassed by AllowProtected, or by a
// turn-scoped all-opponent-cards-unprotected effect — which applies
// only to cards owned by the opponent of the active player, never to
// the active player's own cards.
func CanTarget(gs *state.GameState, actor state.Side, ref state.TargetRef, opts Options) bool {
	if !ref.Player.Valid() {
		return false
	}
	if !opts.AllowOwn && ref.Player == actor {
		return false
	}
	p := gs.Player(ref.Player)
	if p == nil || ref.Column < 0 || ref.Column >= len(p.Columns) {
		return false
	}
	card := p.GetCard(ref.Column, ref.Position)
	if card == nil || card.IsDestroyed {
		return false
	}
	if opts.RequirePerson && !card.IsPerson() {
		return false
	}
	if opts.RequireCamp && !card.IsCamp() {
		return false
	}
	if opts.RequireDamaged && !card.IsDamaged {
		return false
	}
	if opts.RequireUndamaged && card.IsDamaged {
		return false
	}
	if !opts.AllowProtected && p.Columns[ref.Column].IsProtected(ref.Position) {
		if !exposedOverride(gs, ref.Player) {
			return false
		}
	}
	return true
}

// exposedOverride reports whether the all-opponent-unprotected turn
// effect covers the owning side.
func exposedOverride(gs *state.GameState, owner state.Side) bool {
	return gs.TurnEvents.OpponentsExposed && owner == gs.CurrentPlayer.Opponent()
}

// FindValidTargets enumerates every slot the actor may target under
// opts, scanning the opponent's side and, with AllowOwn, the actor's.
func FindValidTargets(gs *state.GameState, actor state.Side, opts Options) []state.TargetRef {
	var refs []state.TargetRef
	sides := []state.Side{actor.Opponent()}
	if opts.AllowOwn {
		sides = []state.Side{actor, actor.Opponent()}
	}
	for _, side := range sides {
		refs = append(refs, FindSideTargets(gs, actor, side, opts)...)
	}
	return refs
}

// FindSideTargets enumerates targets on one specific side. Bespoke
// handler enumerations (own people only, opponent camps only) build on
// this.
func FindSideTargets(gs *state.GameState, actor, side state.Side, opts Options) []state.TargetRef {
	var refs []state.TargetRef
	p := gs.Player(side)
	if p == nil {
		return refs
	}
	for col := range p.Columns {
		for pos := 0; pos < state.NumSlots; pos++ {
			ref := state.TargetRef{Player: side, Column: col, Position: pos}
			if CanTarget(gs, actor, ref, opts) {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}
