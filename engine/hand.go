package engine

// HandCard is a held card plus what its owner has been told about it.
// Card is always the true identity; the remaining fields are belief.
//
// Invariants: ColorKnown implies NotColors is empty (likewise for values),
// and a color or value is never both known and excluded.
type HandCard struct {
	Card       Card
	ColorKnown bool
	ValueKnown bool
	NotColors  []Color
	NotValues  []Value
}

func newHandCard(c Card) HandCard { return HandCard{Card: c} }

// Hinted reports whether anything positive is known about the card.
func (hc *HandCard) Hinted() bool { return hc.ColorKnown || hc.ValueKnown }

// FullyKnown reports whether the owner knows both color and value.
func (hc *HandCard) FullyKnown() bool { return hc.ColorKnown && hc.ValueKnown }

// ExcludesColor reports whether c has been ruled out for this card.
func (hc *HandCard) ExcludesColor(c Color) bool {
	for _, nc := range hc.NotColors {
		if nc == c {
			return true
		}
	}
	return false
}

// ExcludesValue reports whether v has been ruled out for this card.
func (hc *HandCard) ExcludesValue(v Value) bool {
	for _, nv := range hc.NotValues {
		if nv == v {
			return true
		}
	}
	return false
}

// applyColorHint records a color hint. Cards of that color become color-known,
// every other card has the color excluded.
func (hc *HandCard) applyColorHint(c Color) {
	if hc.Card.Color == c {
		hc.ColorKnown = true
		hc.NotColors = nil
		return
	}
	hc.excludeColor(c)
}

// applyValueHint is the value counterpart of applyColorHint.
func (hc *HandCard) applyValueHint(v Value) {
	if hc.Card.Value == v {
		hc.ValueKnown = true
		hc.NotValues = nil
		return
	}
	hc.excludeValue(v)
}

// excludeColor rules out c and closes over elimination: once all but one
// color is excluded the remaining one is known. Returns true on any change.
func (hc *HandCard) excludeColor(c Color) bool {
	if hc.ColorKnown || hc.Card.Color == c || hc.ExcludesColor(c) {
		return false
	}
	hc.NotColors = append(hc.NotColors, c)
	if len(hc.NotColors) == NumColors-1 {
		hc.NotColors = nil
		hc.ColorKnown = true
	}
	return true
}

// excludeValue is the value counterpart of excludeColor.
func (hc *HandCard) excludeValue(v Value) bool {
	if hc.ValueKnown || hc.Card.Value == v || hc.ExcludesValue(v) {
		return false
	}
	hc.NotValues = append(hc.NotValues, v)
	if len(hc.NotValues) == NumValues-1 {
		hc.NotValues = nil
		hc.ValueKnown = true
	}
	return true
}

func (hc HandCard) clone() HandCard {
	hc.NotColors = append([]Color(nil), hc.NotColors...)
	hc.NotValues = append([]Value(nil), hc.NotValues...)
	return hc
}

// Hand is a player's cards. Index 0 is the newest card (slot 1).
type Hand []HandCard

// ApplyColorHint applies a color hint to every card in the hand.
func (h Hand) ApplyColorHint(c Color) {
	for i := range h {
		h[i].applyColorHint(c)
	}
}

// ApplyValueHint applies a value hint to every card in the hand.
func (h Hand) ApplyValueHint(v Value) {
	for i := range h {
		h[i].applyValueHint(v)
	}
}

// ApplyHint dispatches on the hint variant.
func (h Hand) ApplyHint(hint HintToken) {
	switch hint.Kind() {
	case HintColor:
		h.ApplyColorHint(hint.Color())
	case HintValue:
		h.ApplyValueHint(hint.Value())
	}
}

// Touches reports how many cards in the hand a hint would mark positively.
func (h Hand) Touches(hint HintToken) int {
	n := 0
	for _, hc := range h {
		switch hint.Kind() {
		case HintColor:
			if hc.Card.Color == hint.Color() {
				n++
			}
		case HintValue:
			if hc.Card.Value == hint.Value() {
				n++
			}
		}
	}
	return n
}

// validSlot reports whether the 1-based slot exists.
func (h Hand) validSlot(slot int) bool { return slot >= 1 && slot <= len(h) }

// removeAt removes and returns the card at 1-based slot.
func (h *Hand) removeAt(slot int) HandCard {
	old := *h
	hc := old[slot-1]
	*h = append(old[:slot-1], old[slot:]...)
	return hc
}

// draw moves the next deck card to the front of the hand. It reports false
// when the deck was already empty.
func (h *Hand) draw(d *Deck) bool {
	c, ok := d.Draw()
	if !ok {
		return false
	}
	*h = append(Hand{newHandCard(c)}, *h...)
	return true
}

func (h Hand) clone() Hand {
	out := make(Hand, len(h))
	for i, hc := range h {
		out[i] = hc.clone()
	}
	return out
}
