package engine

import "slices"

// CardView is one hand card as a given viewer may see it. When Revealed is
// false only the known fields are set and Color/Value are zero otherwise.
type CardView struct {
	Slot       int     `json:"slot"`
	Revealed   bool    `json:"revealed"`
	Color      Color   `json:"color,omitempty"`
	Value      Value   `json:"value,omitempty"`
	ColorKnown bool    `json:"colorKnown"`
	ValueKnown bool    `json:"valueKnown"`
	NotColors  []Color `json:"notColors,omitempty"`
	NotValues  []Value `json:"notValues,omitempty"`
}

// PlayerView is one player's seat.
type PlayerView struct {
	Name   Player     `json:"name"`
	Active bool       `json:"active"`
	Hand   []CardView `json:"hand"`
}

// PileView is the progress and sorted discards for one color.
type PileView struct {
	Color    Color   `json:"color"`
	Height   int     `json:"height"`
	Discards []Value `json:"discards"`
}

// BoardView is a read-only snapshot of the board for rendering.
type BoardView struct {
	Viewer     *Player      `json:"viewer,omitempty"`
	Players    []PlayerView `json:"players"`
	Piles      []PileView   `json:"piles"`
	Hints      int          `json:"hints"`
	Errors     int          `json:"errors"`
	DeckSize   int          `json:"deckSize"`
	Score      int          `json:"score"`
	Reachable  int          `json:"reachable"` // MaxReachableScore at the time of the view.
	FinalMoves int          `json:"finalMoves"`
	Turn       int          `json:"turn"`
	Status     Status       `json:"status"`
	Caption    string       `json:"caption"`
}

// View builds a snapshot as seen by viewer. The viewer's own cards show only
// what the viewer knows; every other card is revealed. A nil viewer sees all.
func (g *Game) View(viewer *Player) BoardView {
	v := BoardView{
		Hints:      g.Hints,
		Errors:     g.Errors,
		DeckSize:   g.Deck.Len(),
		Score:      g.Score(),
		Reachable:  g.MaxReachableScore(),
		FinalMoves: g.FinalMoves,
		Turn:       g.Turn,
		Status:     g.CheckState(),
		Caption:    g.LastActionDescription,
	}
	if viewer != nil {
		name := *viewer
		v.Viewer = &name
	}

	for i, p := range g.Players {
		hidden := viewer != nil && *viewer == p
		pv := PlayerView{Name: p, Active: i == g.ActivePlayer}
		for slot, hc := range g.Hands[p] {
			pv.Hand = append(pv.Hand, cardView(slot+1, hc, !hidden))
		}
		v.Players = append(v.Players, pv)
	}

	for _, c := range Colors {
		discards := slices.Clone(g.DiscardsOf(c))
		slices.Sort(discards)
		v.Piles = append(v.Piles, PileView{Color: c, Height: g.Pile(c), Discards: discards})
	}
	return v
}

func cardView(slot int, hc HandCard, reveal bool) CardView {
	cv := CardView{
		Slot:       slot,
		Revealed:   reveal,
		ColorKnown: hc.ColorKnown,
		ValueKnown: hc.ValueKnown,
		NotColors:  slices.Clone(hc.NotColors),
		NotValues:  slices.Clone(hc.NotValues),
	}
	if reveal || hc.ColorKnown {
		cv.Color = hc.Card.Color
	}
	if reveal || hc.ValueKnown {
		cv.Value = hc.Card.Value
	}
	return cv
}
