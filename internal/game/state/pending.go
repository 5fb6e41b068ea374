package state

// TargetRef addresses one tableau slot.
type TargetRef struct {
	Player   Side `json:"player"`
	Column   int  `json:"column"`
	Position int  `json:"position"`
}

// PendingType tags the continuation kinds of the pending-resolution
// protocol. Event continuations use the EVENT_ prefix so they never
// collide with ability continuations.
type PendingType string

const (
	PendingDamage        PendingType = "DAMAGE"
	PendingInjure        PendingType = "INJURE"
	PendingRestore       PendingType = "RESTORE"
	PendingDestroyPerson PendingType = "DESTROY_PERSON"
	PendingDestroyCamp   PendingType = "DESTROY_CAMP"
	PendingPlacePunk     PendingType = "PLACE_PUNK"
	PendingPlacePerson   PendingType = "PLACE_PERSON"
	PendingReturnToHand  PendingType = "RETURN_TO_HAND"
	PendingMovePerson    PendingType = "MOVE_PERSON"
	PendingMoveDest      PendingType = "MOVE_DESTINATION"
	PendingDamageColumn  PendingType = "DAMAGE_COLUMN"
	PendingAdvanceEvent  PendingType = "ADVANCE_EVENT"
	PendingDiscardChoice PendingType = "DISCARD_CHOICE"
	PendingJunkChoice    PendingType = "JUNK_CHOICE"
	PendingCopyAbility   PendingType = "COPY_ABILITY"
	PendingActDamaged    PendingType = "ACT_DAMAGED"
	PendingSelfDestroy   PendingType = "SELF_DESTROY"
	PendingCounterDamage PendingType = "COUNTER_DAMAGE"
	PendingRaidersCamp   PendingType = "RAIDERS_CAMP"
	PendingOpponentPick  PendingType = "OPPONENT_PICK"
	PendingHandPick      PendingType = "HAND_PICK"

	PendingEventDamage        PendingType = "EVENT_DAMAGE"
	PendingEventDestroyColumn PendingType = "EVENT_DESTROY_COLUMN"
	PendingEventBanish        PendingType = "EVENT_BANISH"
	PendingEventKeepOne       PendingType = "EVENT_KEEP_ONE"
	PendingEventSpareOne      PendingType = "EVENT_SPARE_ONE"
)

// FollowUpType tags a deferred effect applied after a pending chain
// fully resolves.
type FollowUpType string

const (
	FollowUpDamageSource  FollowUpType = "DAMAGE_SOURCE"
	FollowUpDestroySource FollowUpType = "DESTROY_SOURCE"
	FollowUpDamageTarget  FollowUpType = "DAMAGE_TARGET"
)

// FollowUp is the "resume parent" continuation stored as data: when the
// pending chain it rides on finishes, the engine applies it before
// finalizing the ability.
type FollowUp struct {
	Type FollowUpType `json:"type"`
	// Target identifies the card the follow-up applies to, by the
	// location it occupied when the follow-up was recorded.
	Target TargetRef `json:"target"`
	CardID string    `json:"cardId,omitempty"`
}

// FinalizeKind records what kind of interaction the pending chain
// belongs to, so the engine knows how to settle flags when it ends.
type FinalizeKind string

const (
	FinalizeAbility FinalizeKind = "ABILITY"
	FinalizeJunk    FinalizeKind = "JUNK"
	FinalizeEvent   FinalizeKind = "EVENT"
	FinalizeEntry   FinalizeKind = "ENTRY"
	FinalizeRaid    FinalizeKind = "RAID"
)

// Pending is the explicit continuation record for an unfinished
// multi-step interaction. At most one exists at a time; while set, only
// Selecting may submit the resolving command.
type Pending struct {
	Type PendingType `json:"type"`
	// Player initiated the interaction; Selecting must answer it.
	Player    Side `json:"player"`
	Selecting Side `json:"selecting"`

	// Source card identity and the location it occupied when the
	// pending was installed. SourceID is empty for junk and event
	// continuations with no tableau source.
	SourceID  string       `json:"sourceId,omitempty"`
	Source    TargetRef    `json:"source"`
	Kind      FinalizeKind `json:"kind"`
	AbilityIx int          `json:"abilityIx,omitempty"`
	PaidCost  int          `json:"paidCost"`

	// Effect is the effect tag that installed the pending; the
	// per-family transition tables key continuation steps off it.
	Effect string `json:"effect,omitempty"`

	ValidTargets []TargetRef `json:"validTargets,omitempty"`
	// Remaining counts chained units of work still owed ("place punk 2
	// of 3").
	Remaining int `json:"remaining,omitempty"`

	// PartiallyResolved blocks cancellation once any unit of the chain
	// has been applied.
	PartiallyResolved bool `json:"partiallyResolved"`

	// JunkedCard rides a targeted junk so it can be discarded only once
	// the target is chosen.
	JunkedCard *Card `json:"junkedCard,omitempty"`
	// HandCards are cards in flight for hand-pick continuations (drawn
	// but not yet kept or discarded).
	HandCards []*Card `json:"handCards,omitempty"`
	// KeepCount is how many of HandCards the selector keeps.
	KeepCount int `json:"keepCount,omitempty"`

	// PlaceCard is a card awaiting tableau placement (a punk being
	// placed, or a person played through another card).
	PlaceCard *Card `json:"placeCard,omitempty"`

	// Chosen holds the first selection of a two-step continuation
	// (move source before move destination, copy target before its
	// nested resolution).
	Chosen *TargetRef `json:"chosen,omitempty"`

	FollowUp *FollowUp `json:"followUp,omitempty"`

	// Resume is the parent continuation restored when this pending
	// completes, for nested sub-abilities.
	Resume *Pending `json:"resume,omitempty"`

	// DrawOnCampHit draws a card when the selected damage target is a
	// camp.
	DrawOnCampHit bool `json:"drawOnCampHit,omitempty"`
}

// InFlightCount returns how many real cards the pending is holding
// outside every ordinary zone.
func (p *Pending) InFlightCount() int {
	n := len(p.HandCards)
	if p.JunkedCard != nil && p.JunkedCard.Name != WaterSiloName {
		n++
	}
	if p.PlaceCard != nil {
		n++
	}
	return n
}

// ContainsTarget reports whether ref is one of the precomputed valid
// targets. Resolvers never trust the caller's coordinates.
func (p *Pending) ContainsTarget(ref TargetRef) bool {
	for _, t := range p.ValidTargets {
		if t == ref {
			return true
		}
	}
	return false
}
