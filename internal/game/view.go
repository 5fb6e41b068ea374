package game

import "github.com/wastelandgames/wasteland-server-go/internal/game/state"

// CardView is one card as a given seat is allowed to see it.
type CardView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        state.CardKind   `json:"kind"`
	Cost        int              `json:"cost"`
	Abilities   []state.Ability  `json:"abilities,omitempty"`
	JunkEffect  state.JunkEffect `json:"junkEffect,omitempty"`
	Traits      []state.Trait    `json:"traits,omitempty"`
	IsReady     bool             `json:"isReady"`
	IsDamaged   bool             `json:"isDamaged"`
	IsDestroyed bool             `json:"isDestroyed"`
	// Original is the punk's hidden identity, shown to its owner only.
	Original *CardView `json:"original,omitempty"`
}

// SeatView is one seat's tableau as seen by the viewer. HandCount is
// always present; Hand is populated only for the viewer's own seat.
type SeatView struct {
	Side       state.Side         `json:"side"`
	Water      int                `json:"water"`
	HandCount  int                `json:"handCount"`
	Hand       []CardView         `json:"hand,omitempty"`
	Columns    [3][3]*CardView    `json:"columns"`
	EventQueue [3]*CardView       `json:"eventQueue"`
	Raiders    state.RaidersState `json:"raiders"`
	WaterSilo  state.SiloState    `json:"waterSilo"`
}

// PendingView exposes the outstanding selection without leaking cards
// the viewer may not see.
type PendingView struct {
	Type         state.PendingType `json:"type"`
	Selecting    state.Side        `json:"selecting"`
	ValidTargets []state.TargetRef `json:"validTargets,omitempty"`
	Remaining    int               `json:"remaining,omitempty"`
	// Choices are the in-flight cards offered to the selecting seat,
	// visible to that seat only.
	Choices []CardView `json:"choices,omitempty"`
}

// MatchView is everything one seat may know about the match. Deck order
// and contents, the opponent's hand identities and punk disguises stay
// hidden; counts are public.
type MatchView struct {
	MatchID       string       `json:"matchId"`
	Viewer        state.Side   `json:"viewer"`
	CurrentPlayer state.Side   `json:"currentPlayer"`
	TurnNumber    int          `json:"turnNumber"`
	Phase         state.Phase  `json:"phase"`
	DeckCount     int          `json:"deckCount"`
	DiscardCount  int          `json:"discardCount"`
	You           SeatView     `json:"you"`
	Opponent      SeatView     `json:"opponent"`
	Pending       *PendingView `json:"pending,omitempty"`
	CampOffer     []CardView   `json:"campOffer,omitempty"`
	Winner        string       `json:"winner,omitempty"`
	WinReason     string       `json:"winReason,omitempty"`
}

// ViewFor builds the sanitized view of the match for one seat.
func ViewFor(gs *state.GameState, viewer state.Side) MatchView {
	view := MatchView{
		MatchID:       gs.MatchID,
		Viewer:        viewer,
		CurrentPlayer: gs.CurrentPlayer,
		TurnNumber:    gs.TurnNumber,
		Phase:         gs.Phase,
		DeckCount:     len(gs.Deck),
		DiscardCount:  len(gs.Discard),
		You:           seatView(gs, viewer, viewer),
		Opponent:      seatView(gs, viewer.Opponent(), viewer),
		Winner:        gs.Winner,
		WinReason:     gs.WinReason,
	}
	if offer := gs.CampOffers[viewer]; offer != nil {
		for _, camp := range offer {
			view.CampOffer = append(view.CampOffer, cardView(camp, true))
		}
	}
	if pd := gs.Pending; pd != nil {
		pv := &PendingView{
			Type:         pd.Type,
			Selecting:    pd.Selecting,
			ValidTargets: pd.ValidTargets,
			Remaining:    pd.Remaining,
		}
		if pd.Selecting == viewer {
			for _, c := range pd.HandCards {
				pv.Choices = append(pv.Choices, cardView(c, true))
			}
		}
		view.Pending = pv
	}
	return view
}

func seatView(gs *state.GameState, side, viewer state.Side) SeatView {
	p := gs.Player(side)
	own := side == viewer
	sv := SeatView{
		Side:      side,
		Water:     p.Water,
		HandCount: len(p.Hand),
		Raiders:   p.Raiders,
		WaterSilo: p.WaterSilo,
	}
	if own {
		for _, c := range p.Hand {
			sv.Hand = append(sv.Hand, cardView(c, true))
		}
	}
	for col := range p.Columns {
		for pos := 0; pos < state.NumSlots; pos++ {
			if c := p.Columns[col].GetCard(pos); c != nil {
				cv := cardView(c, own)
				sv.Columns[col][pos] = &cv
			}
		}
	}
	for slot, ev := range p.EventQueue {
		if ev == nil {
			continue
		}
		// Queued events are face up for both seats.
		cv := cardView(ev, true)
		sv.EventQueue[slot] = &cv
	}
	return sv
}

func cardView(c *state.Card, revealHidden bool) CardView {
	cv := CardView{
		ID:          c.ID,
		Name:        c.Name,
		Kind:        c.Kind,
		Cost:        c.Cost,
		Abilities:   c.Abilities,
		JunkEffect:  c.JunkEffect,
		Traits:      c.Traits,
		IsReady:     c.IsReady,
		IsDamaged:   c.IsDamaged,
		IsDestroyed: c.IsDestroyed,
	}
	if c.IsPunk() && revealHidden && c.OriginalCard != nil {
		original := cardView(c.OriginalCard, false)
		cv.Original = &original
	}
	return cv
}
