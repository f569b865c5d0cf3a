package engine

import (
	"fmt"
	"strings"
)

// LastActionInfo is a public summary of the most recent successful action.
type LastActionInfo struct {
	Kind      ActionKind `json:"kind"`
	Player    Player     `json:"player"`
	Slot      int        `json:"slot,omitempty"`
	Card      Card       `json:"card"`
	Target    Player     `json:"target,omitempty"`
	Hint      HintToken  `json:"hint"`
	Touched   int        `json:"touched,omitempty"`   // cards positively marked by a hint
	Bombed    bool       `json:"bombed,omitempty"`    // play failed and cost an error token
	Completed bool       `json:"completed,omitempty"` // play finished a pile
	Critical  bool       `json:"critical,omitempty"`
	Hinted    bool       `json:"hinted,omitempty"` // the card had positive information
}

// PerformAction parses text and applies it for player. It returns nil on
// success; on failure it returns an *ActionError and leaves the game unchanged.
//
// Turn ownership is the caller's responsibility: the engine applies the action
// for player and then passes the turn to the next seat.
func (g *Game) PerformAction(player Player, text string) error {
	cmd, err := ParseCommand(text)
	if err != nil {
		return err
	}
	return g.Apply(player, cmd)
}

// Apply validates and applies a parsed command for player.
func (g *Game) Apply(player Player, cmd Command) error {
	if g.IsTerminal() {
		return newActionError(GameFinished, g.CheckState().String())
	}
	if _, ok := g.Hands[player]; !ok {
		return newActionError(MalformedCommand, fmt.Sprintf("%q is not playing", player))
	}

	var err error
	switch cmd.Kind {
	case ActionDiscard:
		err = g.discard(player, cmd.Slot)
	case ActionPlay:
		err = g.play(player, cmd.Slot)
	case ActionHint:
		err = g.hint(player, cmd.Target, cmd.Hint)
	default:
		err = newActionError(MalformedCommand, "no action given")
	}
	if err != nil {
		return err
	}

	g.refreshKnowledge()
	g.Turn++
	g.ActivePlayer = g.nextPlayer(g.ActivePlayer)
	return nil
}

// discard removes the card at slot, returns a hint token and draws a replacement.
func (g *Game) discard(player Player, slot int) error {
	hand := g.Hands[player]
	if !hand.validSlot(slot) {
		return newActionError(OutOfRangeSlot, fmt.Sprintf("slot %d, hand has %d cards", slot, len(hand)))
	}
	if g.Rules.StrictDiscard && g.Hints >= g.Rules.MaxHints {
		return newActionError(DiscardForbidden, "all hint tokens are available")
	}

	hc := hand[slot-1]
	info := LastActionInfo{
		Kind:     ActionDiscard,
		Player:   player,
		Slot:     slot,
		Card:     hc.Card,
		Critical: g.IsCritical(hc.Card.Color, hc.Card.Value),
		Hinted:   hc.Hinted(),
	}

	hand.removeAt(slot)
	i := hc.Card.Color.index()
	g.Discards[i] = append(g.Discards[i], hc.Card.Value)
	g.Hints = min(g.Hints+1, g.Rules.MaxHints)
	g.replenish(player, hand)

	g.record(info)
	return nil
}

// play removes the card at slot and tries to extend its pile. A failed play
// costs an error token and discards the card.
func (g *Game) play(player Player, slot int) error {
	hand := g.Hands[player]
	if !hand.validSlot(slot) {
		return newActionError(OutOfRangeSlot, fmt.Sprintf("slot %d, hand has %d cards", slot, len(hand)))
	}

	hc := hand[slot-1]
	card := hc.Card
	info := LastActionInfo{
		Kind:     ActionPlay,
		Player:   player,
		Slot:     slot,
		Card:     card,
		Critical: card.Value != MaxValue && g.IsCritical(card.Color, card.Value),
		Hinted:   hc.Hinted(),
	}

	hand.removeAt(slot)
	i := card.Color.index()
	if int(card.Value) == g.Piles[i]+1 {
		g.Piles[i]++
		if card.Value == MaxValue {
			g.Hints = min(g.Hints+1, g.Rules.MaxHints)
			info.Completed = true
		}
	} else {
		g.Errors++
		g.Discards[i] = append(g.Discards[i], card.Value)
		info.Bombed = true
	}
	g.replenish(player, hand)

	g.record(info)
	return nil
}

// hint gives target information about every card of one color or value.
func (g *Game) hint(player Player, targetName Player, token HintToken) error {
	target, ok := g.LookupPlayer(string(targetName))
	if !ok {
		return newActionError(InvalidHintTarget, fmt.Sprintf("%q is not playing", targetName))
	}
	if target == player {
		return newActionError(InvalidHintTarget, "cannot hint yourself")
	}
	if g.Hints <= 0 {
		return newActionError(InvalidHintTarget, "no hint tokens left")
	}
	if !token.Valid() {
		return newActionError(AmbiguousToken, "hint must be a color or a value")
	}

	hand := g.Hands[target]
	info := LastActionInfo{
		Kind:    ActionHint,
		Player:  player,
		Target:  target,
		Hint:    token,
		Touched: hand.Touches(token),
	}
	hand.ApplyHint(token)
	g.Hints--
	if g.Deck.Empty() {
		g.FinalMoves++
	}

	g.record(info)
	return nil
}

// replenish stores the shrunken hand and draws a replacement, or counts a
// final move when the deck is already exhausted.
func (g *Game) replenish(player Player, hand Hand) {
	if g.Deck.Empty() {
		g.FinalMoves++
	}
	hand.draw(g.Deck)
	g.Hands[player] = hand
}

func (g *Game) record(info LastActionInfo) {
	g.LastAction = info
	g.LastActionDescription = describe(info)
}

// describe renders the human-readable caption for an action.
func describe(info LastActionInfo) string {
	var b strings.Builder
	switch info.Kind {
	case ActionDiscard:
		b.WriteString(string(info.Player))
		b.WriteString(" discarded a ")
		if info.Critical {
			b.WriteString("critical ")
		}
		if info.Hinted {
			b.WriteString("hinted ")
		}
		b.WriteString(info.Card.String())

	case ActionPlay:
		switch {
		case info.Bombed:
			b.WriteString("BOOM! ")
		case info.Completed:
			b.WriteString("+ ")
		}
		b.WriteString(string(info.Player))
		b.WriteString(" ")
		if !info.Hinted {
			b.WriteString("blind-")
		}
		b.WriteString("played a ")
		if info.Critical {
			b.WriteString("critical ")
		}
		b.WriteString(info.Card.String())

	case ActionHint:
		fmt.Fprintf(&b, "%s hinted '%s' to %s", info.Player, info.Hint, info.Target)
	}
	return b.String()
}
