package state

// Side identifies one of the two seats of a match.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opponent returns the other seat.
func (s Side) Opponent() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Valid reports whether s is one of the two seats.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// RaidersState tracks the owner's Raiders marker.
type RaidersState string

const (
	RaidersAvailable RaidersState = "available"
	RaidersInQueue   RaidersState = "in_queue"
	RaidersUsed      RaidersState = "used"
)

// SiloState tracks the owner's Water Silo.
type SiloState string

const (
	SiloAvailable SiloState = "available"
	SiloInHand    SiloState = "in_hand"
	SiloUsed      SiloState = "used"
)

// EventQueueSize is the number of event queue slots per player. Slot 0
// resolves at the start of the owner's events phase.
const EventQueueSize = 3

// PlayerState is everything one seat owns: three columns, the event
// queue, hand, water, and the two side markers.
type PlayerState struct {
	Columns    [3]*Column            `json:"columns"`
	EventQueue [EventQueueSize]*Card `json:"eventQueue"`
	Hand       []*Card               `json:"hand"`
	Water      int                   `json:"water"`
	Raiders    RaidersState          `json:"raiders"`
	WaterSilo  SiloState             `json:"waterSilo"`
}

// NewPlayerState returns an empty seat with all markers available.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		Columns:   [3]*Column{{}, {}, {}},
		Hand:      []*Card{},
		Raiders:   RaidersAvailable,
		WaterSilo: SiloAvailable,
	}
}

// GetCard returns the card at (col, pos), or nil.
func (p *PlayerState) GetCard(col, pos int) *Card {
	if col < 0 || col >= len(p.Columns) {
		return nil
	}
	return p.Columns[col].GetCard(pos)
}

// HandCard returns the hand card at idx, or nil.
func (p *PlayerState) HandCard(idx int) *Card {
	if idx < 0 || idx >= len(p.Hand) {
		return nil
	}
	return p.Hand[idx]
}

// RemoveFromHand removes and returns the hand card at idx.
func (p *PlayerState) RemoveFromHand(idx int) *Card {
	if idx < 0 || idx >= len(p.Hand) {
		return nil
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card
}

// FindInHand returns the index of the hand card with the given ID, or -1.
func (p *PlayerState) FindInHand(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// DestroyedCampCount returns the number of this seat's destroyed camps.
func (p *PlayerState) DestroyedCampCount() int {
	n := 0
	for _, col := range p.Columns {
		for pos := 0; pos < NumSlots; pos++ {
			if c := col.GetCard(pos); c != nil && c.IsCamp() && c.IsDestroyed {
				n++
			}
		}
	}
	return n
}

// PeopleInPlay returns this seat's people, punks included.
func (p *PlayerState) PeopleInPlay() []*Card {
	var people []*Card
	for _, col := range p.Columns {
		for pos := SlotMiddle; pos < NumSlots; pos++ {
			if c := col.GetCard(pos); c != nil && c.IsPerson() {
				people = append(people, c)
			}
		}
	}
	return people
}

// HasPunk reports whether any of this seat's people is a punk.
func (p *PlayerState) HasPunk() bool {
	for _, c := range p.PeopleInPlay() {
		if c.IsPunk() {
			return true
		}
	}
	return false
}

// HasQueuedEvent reports whether any event queue slot is occupied.
func (p *PlayerState) HasQueuedEvent() bool {
	for _, ev := range p.EventQueue {
		if ev != nil {
			return true
		}
	}
	return false
}

// TableauCount returns the number of cards this seat has in play,
// camps included. Used by the conservation accounting.
func (p *PlayerState) TableauCount() int {
	n := 0
	for _, col := range p.Columns {
		for pos := 0; pos < NumSlots; pos++ {
			if col.GetCard(pos) != nil {
				n++
			}
		}
	}
	for _, ev := range p.EventQueue {
		if ev != nil && ev.Name != RaidersName {
			n++
		}
	}
	return n
}
