package engine

// Knowledge deduction.
//
// Only certain facts are derived: a color (value, card) is "finished" when every
// copy of it is accounted for by piles, discards and cards whose owners already
// know they hold it. Any other card in any hand can then have it excluded, which
// may in turn complete an elimination and finish something else. The scans are
// repeated until nothing changes.

// colorFinished reports whether every card of color c is accounted for.
func (g *Game) colorFinished(c Color) bool {
	seen := g.Pile(c) + len(g.DiscardsOf(c))
	for _, p := range g.Players {
		for _, hc := range g.Hands[p] {
			if hc.ColorKnown && hc.Card.Color == c {
				seen++
			}
		}
	}
	return seen == ColorTotal
}

// valueFinished reports whether every card of value v is accounted for.
func (g *Game) valueFinished(v Value) bool {
	seen := 0
	for _, c := range Colors {
		if g.Pile(c) >= int(v) {
			seen++
		}
		seen += g.DiscardedCount(c, v)
	}
	for _, p := range g.Players {
		for _, hc := range g.Hands[p] {
			if hc.ValueKnown && hc.Card.Value == v {
				seen++
			}
		}
	}
	return seen == NumColors*Copies(v)
}

// cardFinished reports whether every copy of (c, v) is discarded, played or
// fully known by its holder.
func (g *Game) cardFinished(c Color, v Value) bool {
	seen := g.DiscardedCount(c, v)
	if g.Pile(c) >= int(v) {
		seen++
	}
	for _, p := range g.Players {
		for _, hc := range g.Hands[p] {
			if hc.FullyKnown() && hc.Card == (Card{Color: c, Value: v}) {
				seen++
			}
		}
	}
	return seen == Copies(v)
}

// refreshKnowledge applies the color, value and cross scans to a fixed point.
func (g *Game) refreshKnowledge() {
	for g.knowledgePass() {
	}
}

// knowledgePass runs one round of all three scans and reports whether any
// belief changed.
func (g *Game) knowledgePass() bool {
	changed := false

	for _, c := range Colors {
		if !g.colorFinished(c) {
			continue
		}
		g.eachHandCard(func(hc *HandCard) {
			if hc.excludeColor(c) {
				changed = true
			}
		})
	}

	for _, v := range Values {
		if !g.valueFinished(v) {
			continue
		}
		g.eachHandCard(func(hc *HandCard) {
			if hc.excludeValue(v) {
				changed = true
			}
		})
	}

	g.eachHandCard(func(hc *HandCard) {
		switch {
		case hc.ValueKnown && !hc.ColorKnown:
			for _, c := range Colors {
				if g.cardFinished(c, hc.Card.Value) && hc.excludeColor(c) {
					changed = true
				}
			}
		case hc.ColorKnown && !hc.ValueKnown:
			for _, v := range Values {
				if g.cardFinished(hc.Card.Color, v) && hc.excludeValue(v) {
					changed = true
				}
			}
		}
	})

	return changed
}

func (g *Game) eachHandCard(fn func(hc *HandCard)) {
	for _, p := range g.Players {
		h := g.Hands[p]
		for i := range h {
			fn(&h[i])
		}
	}
}

// IsCritical reports whether (c, v) is the last surviving copy of a card that
// can still be played: the pile has not reached v, no lower card needed
// before it is entirely discarded, and all other copies are discarded.
// Used for annotation only.
func (g *Game) IsCritical(c Color, v Value) bool {
	pile := g.Pile(c)
	if pile >= int(v) {
		return false
	}
	for lower := Value(pile + 1); lower < v; lower++ {
		if g.DiscardedCount(c, lower) == Copies(lower) {
			return false
		}
	}
	return g.DiscardedCount(c, v) == Copies(v)-1
}
