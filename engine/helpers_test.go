package engine

import (
	"reflect"
	"testing"
)

// card is shorthand for building a Card in tests.
func card(c Color, v Value) Card { return Card{Color: c, Value: v} }

// newSeededGame creates a game for n players named A, B, C, ... dealt from seed.
func newSeededGame(t *testing.T, n int, seed uint64) *Game {
	t.Helper()
	g, err := NewGame(testPlayers(n), seed, DefaultHouseRules())
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func testPlayers(n int) []Player {
	names := []Player{"A", "B", "C", "D", "E", "F"}
	return names[:n]
}

// newRiggedGame creates a game whose hands and draw pile are replaced with the
// given cards. hands[i] belongs to player i; index 0 is slot 1. The last card
// of deck is drawn first. Conservation does not hold for rigged games unless
// the caller supplies the whole multiset.
func newRiggedGame(t *testing.T, hands [][]Card, deck []Card) *Game {
	t.Helper()
	g := newSeededGame(t, len(hands), 1)
	for i, p := range g.Players {
		h := make(Hand, len(hands[i]))
		for j, c := range hands[i] {
			h[j] = newHandCard(c)
		}
		g.Hands[p] = h
	}
	g.Deck = DeckFromCards(deck)
	return g
}

// setDiscards appends values to the discard pile of c.
func setDiscards(g *Game, c Color, values ...Value) {
	g.Discards[c.index()] = append(g.Discards[c.index()], values...)
}

// setPile sets the height of pile c.
func setPile(g *Game, c Color, height int) {
	g.Piles[c.index()] = height
}

// mustPerform applies an action that is expected to succeed.
func mustPerform(t *testing.T, g *Game, player Player, text string) {
	t.Helper()
	if err := g.PerformAction(player, text); err != nil {
		t.Fatalf("PerformAction(%s, %q): %v", player, text, err)
	}
}

// performActive applies text for the current active player.
func performActive(t *testing.T, g *Game, text string) {
	t.Helper()
	mustPerform(t, g, g.Active(), text)
}

// assertUnchanged fails if g differs from the snapshot taken before a rejected action.
func assertUnchanged(t *testing.T, before, g *Game) {
	t.Helper()
	if !reflect.DeepEqual(before, g.Clone()) {
		t.Errorf("game state changed after rejected action")
	}
}

// checkConservation verifies every card of the multiset is in exactly one of
// deck, hands, piles or discards.
func checkConservation(t *testing.T, g *Game) {
	t.Helper()
	var counts [NumColors][NumValues + 1]int
	for _, c := range g.Deck.Cards() {
		counts[c.Color.index()][c.Value]++
	}
	for _, p := range g.Players {
		for _, hc := range g.Hands[p] {
			counts[hc.Card.Color.index()][hc.Card.Value]++
		}
	}
	for _, c := range Colors {
		for _, v := range g.DiscardsOf(c) {
			counts[c.index()][v]++
		}
		for v := Value(1); int(v) <= g.Pile(c); v++ {
			counts[c.index()][v]++
		}
	}
	for _, c := range Colors {
		for _, v := range Values {
			if got := counts[c.index()][v]; got != Copies(v) {
				t.Errorf("conservation: %s %d counted %d times, want %d", c, v, got, Copies(v))
			}
		}
	}
}

// checkBounds verifies token counters and belief invariants.
func checkBounds(t *testing.T, g *Game) {
	t.Helper()
	if g.Hints < 0 || g.Hints > g.Rules.MaxHints {
		t.Errorf("hints = %d, want within [0, %d]", g.Hints, g.Rules.MaxHints)
	}
	if g.Errors < 0 || g.Errors > g.Rules.MaxErrors {
		t.Errorf("errors = %d, want within [0, %d]", g.Errors, g.Rules.MaxErrors)
	}
	for _, p := range g.Players {
		for i, hc := range g.Hands[p] {
			if hc.ColorKnown && len(hc.NotColors) > 0 {
				t.Errorf("%s slot %d: color known with exclusions %v", p, i+1, hc.NotColors)
			}
			if hc.ValueKnown && len(hc.NotValues) > 0 {
				t.Errorf("%s slot %d: value known with exclusions %v", p, i+1, hc.NotValues)
			}
			if hc.ExcludesColor(hc.Card.Color) {
				t.Errorf("%s slot %d: true color %s excluded", p, i+1, hc.Card.Color)
			}
			if hc.ExcludesValue(hc.Card.Value) {
				t.Errorf("%s slot %d: true value %d excluded", p, i+1, hc.Card.Value)
			}
		}
	}
}
