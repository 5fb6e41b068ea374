package state

// Phase is the turn/phase state machine position.
type Phase string

const (
	PhaseSetup         Phase = "setup"
	PhaseCampSelection Phase = "camp_selection"
	PhaseEvents        Phase = "events"
	PhaseActions       Phase = "actions"
	PhaseReplenish     Phase = "replenish"
	PhaseGameOver      Phase = "game_over"
)

// WinnerDraw is the Winner value for a drawn game.
const WinnerDraw = "draw"

// TurnEvents are the per-turn flags, reset exactly once on end-turn.
type TurnEvents struct {
	EventPlayed      bool `json:"eventPlayed"`
	EventResolved    bool `json:"eventResolved"`
	AbilityUsed      bool `json:"abilityUsed"`
	AbilityLock      bool `json:"abilityLock"`
	PeoplePlayed     int  `json:"peoplePlayed"`
	OpponentsExposed bool `json:"opponentsExposed"`
	// StayedReadyCardID records which card already consumed the
	// stays-ready-on-first-use trait this turn.
	StayedReadyCardID string `json:"stayedReadyCardId,omitempty"`
}

// DeckExhaustionTerminal is the counter value of the second exhaustion.
// The deck reshuffles once; reaching this value ends the game in a
// draw.
const DeckExhaustionTerminal = 2

// GameState is the root of the authoritative data graph: one instance
// per match, mutated in place by the command system only.
type GameState struct {
	MatchID       string                `json:"matchId"`
	Players       map[Side]*PlayerState `json:"players"`
	CurrentPlayer Side                  `json:"currentPlayer"`
	TurnNumber    int                   `json:"turnNumber"`
	Phase         Phase                 `json:"phase"`

	Deck    []*Card `json:"deck"`
	Discard []*Card `json:"discard"`
	// DeckExhaustion counts how many times the draw deck has run dry.
	// It never passes DeckExhaustionTerminal.
	DeckExhaustion int `json:"deckExhaustion"`

	Pending    *Pending   `json:"pending,omitempty"`
	TurnEvents TurnEvents `json:"turnEvents"`

	// CampOffers holds each seat's six camp choices during setup.
	CampOffers map[Side][]*Card `json:"campOffers,omitempty"`

	Winner    string `json:"winner,omitempty"`
	WinReason string `json:"winReason,omitempty"`
}

// NewGameState returns a match at the setup phase with empty seats.
func NewGameState(matchID string) *GameState {
	return &GameState{
		MatchID: matchID,
		Players: map[Side]*PlayerState{
			SideLeft:  NewPlayerState(),
			SideRight: NewPlayerState(),
		},
		CurrentPlayer: SideLeft,
		TurnNumber:    1,
		Phase:         PhaseSetup,
		Discard:       []*Card{},
	}
}

// Player returns the seat's state, or nil for an invalid side.
func (gs *GameState) Player(side Side) *PlayerState {
	return gs.Players[side]
}

// GetCard returns the card at ref, or nil.
func (gs *GameState) GetCard(ref TargetRef) *Card {
	p := gs.Players[ref.Player]
	if p == nil {
		return nil
	}
	return p.GetCard(ref.Column, ref.Position)
}

// IsOver reports whether the match has reached its terminal phase.
func (gs *GameState) IsOver() bool {
	return gs.Phase == PhaseGameOver
}

// SetGameOver moves the match to its terminal phase. Idempotent: the
// first recorded outcome wins.
func (gs *GameState) SetGameOver(winner, reason string) {
	if gs.Phase == PhaseGameOver {
		return
	}
	gs.Phase = PhaseGameOver
	gs.Winner = winner
	gs.WinReason = reason
	gs.Pending = nil
}

// FindCardInPlay locates a card by instance ID on either side's tableau.
func (gs *GameState) FindCardInPlay(cardID string) (*Card, TargetRef, bool) {
	for _, side := range []Side{SideLeft, SideRight} {
		p := gs.Players[side]
		for colIdx, col := range p.Columns {
			for pos := 0; pos < NumSlots; pos++ {
				if c := col.GetCard(pos); c != nil && c.ID == cardID {
					return c, TargetRef{Player: side, Column: colIdx, Position: pos}, true
				}
			}
		}
	}
	return nil, TargetRef{}, false
}

// CardCount returns the conservation total: deck + discard + hands +
// tableau + queued events + cards in flight inside a pending step.
// Marker cards (Raiders, Water Silo) are excluded.
func (gs *GameState) CardCount() int {
	n := len(gs.Deck) + len(gs.Discard)
	for _, p := range gs.Players {
		for _, c := range p.Hand {
			if c.Name != WaterSiloName {
				n++
			}
		}
		n += p.TableauCount()
	}
	if gs.Pending != nil {
		n += gs.Pending.InFlightCount()
	}
	return n
}
