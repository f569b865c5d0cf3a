package engine

import (
	"errors"
	"slices"
	"testing"
)

// threePlayerGame deals A, B and C four known cards each, with a short deck.
func threePlayerGame(t *testing.T) *Game {
	t.Helper()
	return newRiggedGame(t, [][]Card{
		{card(Red, 1), card(Blue, 3), card(Green, 5), card(White, 2)},
		{card(Yellow, 4), card(Red, 2), card(Blue, 1), card(Red, 4)},
		{card(Green, 1), card(White, 1), card(Yellow, 1), card(Blue, 2)},
	}, []Card{card(Green, 2), card(Yellow, 2), card(White, 3)})
}

func TestHintAction(t *testing.T) {
	g := threePlayerGame(t)
	mustPerform(t, g, "A", "hint B red")

	if g.Hints != 7 {
		t.Errorf("hints = %d, want 7", g.Hints)
	}
	if g.Active() != "B" {
		t.Errorf("active = %s, want B", g.Active())
	}
	if g.Turn != 1 {
		t.Errorf("turn = %d, want 1", g.Turn)
	}
	hand := g.Hands["B"]
	for i, wantKnown := range []bool{false, true, false, true} {
		if hand[i].ColorKnown != wantKnown {
			t.Errorf("B slot %d color known = %v, want %v", i+1, hand[i].ColorKnown, wantKnown)
		}
		if !wantKnown && !hand[i].ExcludesColor(Red) {
			t.Errorf("B slot %d should exclude red", i+1)
		}
	}
	if g.LastActionDescription != "A hinted 'red' to B" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
	if g.LastAction.Touched != 2 || g.LastAction.Target != "B" {
		t.Errorf("last action = %+v", g.LastAction)
	}
	if g.Deck.Len() != 3 {
		t.Error("a hint must not draw")
	}
}

// TestHintTargetIgnoresCase verifies the target is matched case-insensitively
// and recorded under its roster spelling.
func TestHintTargetIgnoresCase(t *testing.T) {
	g := threePlayerGame(t)
	mustPerform(t, g, "A", "H c 1")
	if g.LastAction.Target != "C" {
		t.Errorf("target = %q, want C", g.LastAction.Target)
	}
	for i, want := range []bool{true, true, true, false} {
		if g.Hands["C"][i].ValueKnown != want {
			t.Errorf("C slot %d value known = %v, want %v", i+1, g.Hands["C"][i].ValueKnown, want)
		}
	}
}

func TestSuccessfulPlay(t *testing.T) {
	g := threePlayerGame(t)
	mustPerform(t, g, "A", "play 1")

	if g.Pile(Red) != 1 {
		t.Errorf("red pile = %d, want 1", g.Pile(Red))
	}
	if g.Errors != 0 {
		t.Errorf("errors = %d, want 0", g.Errors)
	}
	hand := g.Hands["A"]
	if len(hand) != 4 || hand[0].Card != card(White, 3) {
		t.Errorf("A should have drawn white 3 into slot 1, hand = %v", hand)
	}
	if hand[1].Card != card(Blue, 3) {
		t.Errorf("remaining cards should shift right, slot 2 = %v", hand[1].Card)
	}
	if g.Deck.Len() != 2 {
		t.Errorf("deck = %d, want 2", g.Deck.Len())
	}
	if g.LastActionDescription != "A blind-played a red 1" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
	if g.Score() != 1 {
		t.Errorf("score = %d, want 1", g.Score())
	}
}

func TestFailedPlay(t *testing.T) {
	g := threePlayerGame(t)
	mustPerform(t, g, "A", "p 2")

	if g.Errors != 1 {
		t.Errorf("errors = %d, want 1", g.Errors)
	}
	if g.Pile(Blue) != 0 {
		t.Errorf("blue pile = %d, want 0", g.Pile(Blue))
	}
	if !slices.Equal(g.DiscardsOf(Blue), []Value{3}) {
		t.Errorf("blue discards = %v, want [3]", g.DiscardsOf(Blue))
	}
	if g.Hints != 8 {
		t.Errorf("hints = %d, want 8", g.Hints)
	}
	if g.LastActionDescription != "BOOM! A blind-played a blue 3" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
	if !g.LastAction.Bombed {
		t.Error("last action should be marked bombed")
	}
}

// TestHintedCriticalPlay verifies the play caption for a hinted critical card.
func TestHintedCriticalPlay(t *testing.T) {
	g := newRiggedGame(t, [][]Card{
		{card(Blue, 2), card(Red, 1)},
		{card(Green, 1), card(Green, 1)},
	}, []Card{card(White, 4)})
	setPile(g, Blue, 1)
	setDiscards(g, Blue, 2)
	g.Hands["A"][0].ValueKnown = true

	mustPerform(t, g, "A", "play 1")

	if g.LastActionDescription != "A played a critical blue 2" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
}

// TestCompletingPileReturnsHint verifies playing a 5 gives back a hint token.
func TestCompletingPileReturnsHint(t *testing.T) {
	g := newRiggedGame(t, [][]Card{
		{card(Green, 5), card(Red, 1)},
		{card(Green, 1), card(Green, 1)},
	}, []Card{card(White, 4)})
	setPile(g, Green, 4)
	g.Hints = 3

	mustPerform(t, g, "A", "play 1")

	if g.Pile(Green) != 5 {
		t.Errorf("green pile = %d, want 5", g.Pile(Green))
	}
	if g.Hints != 4 {
		t.Errorf("hints = %d, want 4", g.Hints)
	}
	if g.LastActionDescription != "+ A blind-played a green 5" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
}

func TestDiscardAction(t *testing.T) {
	g := threePlayerGame(t)
	g.Hints = 5
	mustPerform(t, g, "A", "discard 4")

	if g.Hints != 6 {
		t.Errorf("hints = %d, want 6", g.Hints)
	}
	if !slices.Equal(g.DiscardsOf(White), []Value{2}) {
		t.Errorf("white discards = %v", g.DiscardsOf(White))
	}
	if g.Hands["A"][0].Card != card(White, 3) {
		t.Errorf("slot 1 = %v, want drawn white 3", g.Hands["A"][0].Card)
	}
	if g.LastActionDescription != "A discarded a white 2" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
}

// TestDiscardCaptions verifies critical and hinted annotations on discards.
func TestDiscardCaptions(t *testing.T) {
	g := threePlayerGame(t)
	g.Hands["A"][2].ColorKnown = true
	mustPerform(t, g, "A", "d 3")
	if g.LastActionDescription != "A discarded a critical hinted green 5" {
		t.Errorf("description = %q", g.LastActionDescription)
	}
	if !g.LastAction.Critical || !g.LastAction.Hinted {
		t.Errorf("last action flags = %+v", g.LastAction)
	}
}

// TestDiscardAtMaxHints covers both discard policies with every hint available.
func TestDiscardAtMaxHints(t *testing.T) {
	t.Run("permissive", func(t *testing.T) {
		g := threePlayerGame(t)
		mustPerform(t, g, "A", "discard 1")
		if g.Hints != 8 {
			t.Errorf("hints = %d, want capped at 8", g.Hints)
		}
	})

	t.Run("strict", func(t *testing.T) {
		g := threePlayerGame(t)
		g.Rules.StrictDiscard = true
		before := g.Clone()
		err := g.PerformAction("A", "discard 1")
		if !errors.Is(err, ErrDiscardForbidden) {
			t.Fatalf("err = %v, want ErrDiscardForbidden", err)
		}
		assertUnchanged(t, before, g)

		g.Hints = 7
		mustPerform(t, g, "A", "discard 1")
		if g.Hints != 8 {
			t.Errorf("hints = %d, want 8", g.Hints)
		}
	})
}

// TestRejectedActions verifies each failure kind and that nothing changes.
func TestRejectedActions(t *testing.T) {
	tests := []struct {
		name    string
		player  Player
		text    string
		setup   func(g *Game)
		wantErr error
	}{
		{"slot zero", "A", "play 0", nil, ErrOutOfRangeSlot},
		{"slot past hand", "A", "discard 5", nil, ErrOutOfRangeSlot},
		{"negative slot", "A", "play -1", nil, ErrOutOfRangeSlot},
		{"hint self", "A", "hint A red", nil, ErrInvalidHintTarget},
		{"hint self other case", "A", "hint a 2", nil, ErrInvalidHintTarget},
		{"hint unknown player", "A", "hint Zed red", nil, ErrInvalidHintTarget},
		{"hint without tokens", "A", "hint B red", func(g *Game) { g.Hints = 0 }, ErrInvalidHintTarget},
		{"ambiguous token", "A", "hint B purple", nil, ErrAmbiguousToken},
		{"value out of range", "A", "hint B 6", nil, ErrAmbiguousToken},
		{"unknown verb", "A", "shout B", nil, ErrMalformedCommand},
		{"missing argument", "A", "play", nil, ErrMalformedCommand},
		{"empty text", "A", "", nil, ErrMalformedCommand},
		{"non-numeric slot", "A", "play one", nil, ErrMalformedCommand},
		{"extra field", "A", "discard 1 2", nil, ErrMalformedCommand},
		{"hint missing token", "A", "hint B", nil, ErrMalformedCommand},
		{"unknown actor", "Zed", "play 1", nil, ErrMalformedCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := threePlayerGame(t)
			if tt.setup != nil {
				tt.setup(g)
			}
			before := g.Clone()

			err := g.PerformAction(tt.player, tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PerformAction(%q) err = %v, want %v", tt.text, err, tt.wantErr)
			}
			var actionErr *ActionError
			if !errors.As(err, &actionErr) {
				t.Fatalf("error %T is not an *ActionError", err)
			}
			assertUnchanged(t, before, g)
		})
	}
}

// TestEndByErrors verifies the third failed play ends the game and later
// actions are refused.
func TestEndByErrors(t *testing.T) {
	g := threePlayerGame(t)
	g.Errors = 2
	mustPerform(t, g, "A", "play 2")

	if g.Errors != 3 {
		t.Errorf("errors = %d, want 3", g.Errors)
	}
	if got := g.CheckState(); got != NoLives {
		t.Fatalf("status = %v, want NoLives", got)
	}
	if g.Score() != 0 {
		t.Errorf("score = %d, want 0", g.Score())
	}

	before := g.Clone()
	err := g.PerformAction("B", "play 1")
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
	assertUnchanged(t, before, g)
}

// TestDeckExhaustionCountdown verifies every player gets exactly one more turn
// after the deck runs out.
func TestDeckExhaustionCountdown(t *testing.T) {
	g := newRiggedGame(t, [][]Card{
		{card(Red, 1), card(Red, 2), card(Red, 3), card(Red, 4), card(Red, 5)},
		{card(Blue, 1), card(Blue, 2), card(Blue, 3), card(Blue, 4), card(Blue, 5)},
	}, []Card{card(Green, 1)})
	g.Hints = 4

	performActive(t, g, "discard 5") // A draws the last card
	if !g.Deck.Empty() || g.FinalMoves != 0 {
		t.Fatalf("after last draw: deck %d, final moves %d", g.Deck.Len(), g.FinalMoves)
	}
	if len(g.Hands["A"]) != 5 {
		t.Errorf("A hand = %d cards, want 5", len(g.Hands["A"]))
	}

	performActive(t, g, "discard 5")
	if g.FinalMoves != 1 || g.CheckState() != Running {
		t.Fatalf("after B: final moves %d, status %v", g.FinalMoves, g.CheckState())
	}
	if len(g.Hands["B"]) != 4 {
		t.Errorf("B hand = %d cards, want 4", len(g.Hands["B"]))
	}

	performActive(t, g, "hint B 1")
	if g.FinalMoves != 2 {
		t.Errorf("final moves = %d, want 2", g.FinalMoves)
	}
	if got := g.CheckState(); got != Timeout {
		t.Errorf("status = %v, want Timeout", got)
	}
	if g.LegalCommands() != nil {
		t.Error("no commands should be legal after timeout")
	}
}

// TestFinalPlayReachesMaxScore verifies completing the last pile ends the game.
func TestFinalPlayReachesMaxScore(t *testing.T) {
	g := newRiggedGame(t, [][]Card{
		{card(Red, 1), card(Yellow, 5)},
		{card(Green, 1), card(Green, 1)},
	}, []Card{card(White, 4), card(Blue, 1)})
	for _, c := range []Color{Red, Blue, Green, White} {
		setPile(g, c, 5)
	}
	setPile(g, Yellow, 4)

	mustPerform(t, g, "A", "play 2")

	if got := g.CheckState(); got != MaxScore || !got.Won() {
		t.Fatalf("status = %v, want MaxScore", got)
	}
	if g.Score() != 25 {
		t.Errorf("score = %d, want 25", g.Score())
	}
	if err := g.PerformAction("B", "play 1"); !errors.Is(err, ErrGameOver) {
		t.Errorf("err = %v, want ErrGameOver", err)
	}
}
