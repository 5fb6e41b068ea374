package state

// Column slot layout. Slot 0 is the camp at the back; slots 1 and 2 hold
// people, with 2 being the front.
const (
	SlotCamp   = 0
	SlotMiddle = 1
	SlotFront  = 2
	NumSlots   = 3
)

// Column is one of the three positional columns on a player's side.
// It knows slot bounds and placement, nothing about game legality.
type Column struct {
	Slots [NumSlots]*Card `json:"slots"`
}

// GetCard returns the card at pos, or nil for an empty or out-of-range slot.
func (col *Column) GetCard(pos int) *Card {
	if pos < 0 || pos >= NumSlots {
		return nil
	}
	return col.Slots[pos]
}

// SetCard places a card at pos and stamps its denormalized location.
// A nil card empties the slot.
func (col *Column) SetCard(columnIndex, pos int, card *Card) {
	if pos < 0 || pos >= NumSlots {
		return
	}
	col.Slots[pos] = card
	if card != nil {
		card.ColumnIndex = columnIndex
		card.Position = pos
	}
}

// RemoveCard empties the slot at pos and returns the card that was there.
func (col *Column) RemoveCard(pos int) *Card {
	if pos < 0 || pos >= NumSlots {
		return nil
	}
	card := col.Slots[pos]
	col.Slots[pos] = nil
	return card
}

// MoveCard swaps the contents of two slots, restamping locations.
func (col *Column) MoveCard(columnIndex, from, to int) {
	if from < 0 || from >= NumSlots || to < 0 || to >= NumSlots || from == to {
		return
	}
	a, b := col.Slots[from], col.Slots[to]
	col.SetCard(columnIndex, to, a)
	col.SetCard(columnIndex, from, b)
}

// IsProtected reports whether the card at pos is shielded by a card in
// front of it. The camp is protected while either person slot is occupied.
func (col *Column) IsProtected(pos int) bool {
	switch pos {
	case SlotCamp:
		return col.Slots[SlotMiddle] != nil || col.Slots[SlotFront] != nil
	case SlotMiddle:
		return col.Slots[SlotFront] != nil
	default:
		return false
	}
}

// HasPeople reports whether any person occupies slots 1-2.
func (col *Column) HasPeople() bool {
	for pos := SlotMiddle; pos < NumSlots; pos++ {
		if c := col.Slots[pos]; c != nil && c.IsPerson() {
			return true
		}
	}
	return false
}

// PersonCount returns the number of people in the column.
func (col *Column) PersonCount() int {
	n := 0
	for pos := SlotMiddle; pos < NumSlots; pos++ {
		if c := col.Slots[pos]; c != nil && c.IsPerson() {
			n++
		}
	}
	return n
}

// ShiftForward advances the card behind a vacated slot into it. Called
// after a card leaves pos; the camp never moves.
func (col *Column) ShiftForward(columnIndex, pos int) {
	behind := pos - 1
	if behind < SlotMiddle || col.Slots[pos] != nil {
		return
	}
	card := col.Slots[behind]
	if card == nil || (!card.IsPerson() && !card.HasTrait(TraitMobile)) {
		return
	}
	col.SetCard(columnIndex, pos, card)
	col.Slots[behind] = nil
}
