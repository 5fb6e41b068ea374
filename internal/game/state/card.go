package state

// Marker card names. Raiders and the Water Silo are owned supply
// markers, not deck cards, and sit outside the conservation count.
const (
	RaidersName   = "Raiders"
	WaterSiloName = "Water Silo"
)

// CardKind discriminates the card union.
type CardKind string

const (
	KindCamp   CardKind = "CAMP"
	KindPerson CardKind = "PERSON"
	KindEvent  CardKind = "EVENT"
	KindPunk   CardKind = "PUNK"
)

// JunkEffect is the side effect applied when a hand card is discarded
// for value instead of played.
type JunkEffect string

const (
	JunkNone    JunkEffect = ""
	JunkWater   JunkEffect = "WATER"
	JunkCard    JunkEffect = "CARD"
	JunkRaid    JunkEffect = "RAID"
	JunkPunk    JunkEffect = "PUNK"
	JunkInjure  JunkEffect = "INJURE"
	JunkRestore JunkEffect = "RESTORE"
	// JunkSilo returns the Water Silo to its owner's supply and gains water.
	JunkSilo JunkEffect = "SILO"
)

// Trait is a passive rule modifier granted by a card while it is in play
// and undamaged.
type Trait string

const (
	// TraitInstantFirstEvent resolves the first event played each turn
	// immediately instead of queueing it.
	TraitInstantFirstEvent Trait = "INSTANT_FIRST_EVENT"
	// TraitStaysReadyFirstUse keeps a card ready on its owner's first
	// ability use each turn.
	TraitStaysReadyFirstUse Trait = "STAYS_READY_FIRST_USE"
	// TraitEnterReady makes people enter play ready.
	TraitEnterReady Trait = "ENTER_READY"
	// TraitGrantDamage grants every friendly person an extra damage ability.
	TraitGrantDamage Trait = "GRANT_DAMAGE"
	// TraitWinOnExhaustion wins the game for the owner the first time the
	// draw deck is exhausted.
	TraitWinOnExhaustion Trait = "WIN_ON_EXHAUSTION"
	// TraitMobile marks the one camp that may occupy and move through
	// person slots.
	TraitMobile Trait = "MOBILE"
	// TraitExclusiveAbility forbids any other ability use in the same turn.
	TraitExclusiveAbility Trait = "EXCLUSIVE_ABILITY"
	// TraitFreeIntoRuin lets a person be played for free into a column
	// whose camp is destroyed.
	TraitFreeIntoRuin Trait = "FREE_INTO_RUIN"
	// TraitColumnDiscount reduces the cost of people played into this
	// camp's column while the column has no people.
	TraitColumnDiscount Trait = "COLUMN_DISCOUNT"
)

// Ability is one activated ability on a card: an effect tag resolved
// through the registry plus its water cost.
type Ability struct {
	Effect string `json:"effect"`
	Cost   int    `json:"cost"`
}

// Card is the single card type for camps, people, events and punks.
// Instances are created at deck-build time and persist for the whole
// match; only location and the mutable flags change.
type Card struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind CardKind `json:"kind"`
	Cost int      `json:"cost"`

	// QueueNumber is the preferred event queue slot (1-based); 0 means
	// the event resolves the moment it is played.
	QueueNumber int `json:"queueNumber,omitempty"`
	// CampDraw is the number of starting cards this camp contributes.
	CampDraw int `json:"campDraw,omitempty"`

	Abilities  []Ability  `json:"abilities,omitempty"`
	JunkEffect JunkEffect `json:"junkEffect,omitempty"`
	Traits     []Trait    `json:"traits,omitempty"`

	// RequiresPeoplePlayed gates a camp ability behind a minimum number
	// of people played this turn. RequiresPeopleInPlay gates behind a
	// minimum number of people currently on the owner's side.
	RequiresPeoplePlayed int `json:"requiresPeoplePlayed,omitempty"`
	RequiresPeopleInPlay int `json:"requiresPeopleInPlay,omitempty"`

	IsReady     bool `json:"isReady"`
	IsDamaged   bool `json:"isDamaged"`
	IsDestroyed bool `json:"isDestroyed"`

	// OriginalCard holds the true identity of a punk so it can be
	// revealed or returned with that identity restored.
	OriginalCard *Card `json:"originalCard,omitempty"`

	// MoveCount tracks advances of the mobile camp.
	MoveCount int `json:"moveCount,omitempty"`

	// Denormalized location, stamped by Column.SetCard.
	ColumnIndex int `json:"columnIndex"`
	Position    int `json:"position"`
}

func (c *Card) IsCamp() bool   { return c.Kind == KindCamp }
func (c *Card) IsPerson() bool { return c.Kind == KindPerson || c.Kind == KindPunk }
func (c *Card) IsEvent() bool  { return c.Kind == KindEvent }
func (c *Card) IsPunk() bool   { return c.Kind == KindPunk }

// HasTrait reports whether the card carries the given trait.
func (c *Card) HasTrait(t Trait) bool {
	for _, have := range c.Traits {
		if have == t {
			return true
		}
	}
	return false
}
