// Package engine implements the Hanabi rules.
//
// A Game is the authoritative state of one match. It is mutated only through
// PerformAction (or Apply), which validates an action, applies it, re-derives
// every player's card knowledge and advances the turn. The package performs
// no I/O and is not safe for concurrent use; callers serialize access per Game.
package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// Game holds the complete state of a Hanabi match.
type Game struct {
	Players      []Player
	Deck         *Deck
	Hands        map[Player]Hand
	Piles        [NumColors]int     // progress per color, indexed by Color.index()
	Discards     [NumColors][]Value // discarded values per color, in discard order
	Hints        int
	Errors       int
	ActivePlayer int // index into Players
	FinalMoves   int // turns taken since the deck ran out
	Turn         int // successful actions so far
	Rules        HouseRules

	LastAction            LastActionInfo
	LastActionDescription string
}

// NewGame creates a game for the given roster, dealing from a deck shuffled with seed.
func NewGame(players []Player, seed uint64, rules HouseRules) (*Game, error) {
	return NewGameWithDeck(players, NewDeck(seed), rules)
}

// NewGameWithDeck creates a game that deals from the given deck. Hands are
// dealt player by player, each receiving HandSize cards in turn.
func NewGameWithDeck(players []Player, deck *Deck, rules HouseRules) (*Game, error) {
	if err := ValidateRoster(players); err != nil {
		return nil, err
	}
	size := HandSize(len(players))
	if deck.Len() < size*len(players) {
		return nil, fmt.Errorf("deck has %d cards, need %d to deal", deck.Len(), size*len(players))
	}
	rules = rules.normalized()
	g := &Game{
		Players:               append([]Player(nil), players...),
		Deck:                  deck,
		Hands:                 make(map[Player]Hand, len(players)),
		Hints:                 rules.MaxHints,
		Rules:                 rules,
		LastActionDescription: "Game just started",
	}
	for i := range g.Discards {
		g.Discards[i] = []Value{}
	}
	for _, p := range g.Players {
		g.Hands[p] = DealHand(deck, size)
	}
	return g, nil
}

// ValidateRoster checks the player list: 2..6 players, names non-empty,
// free of whitespace and unique ignoring case.
func ValidateRoster(players []Player) error {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return fmt.Errorf("need %d to %d players, got %d", MinPlayers, MaxPlayers, len(players))
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("player name must not be empty")
		}
		if strings.IndexFunc(string(p), unicode.IsSpace) >= 0 {
			return fmt.Errorf("player name %q must not contain spaces", p)
		}
		key := strings.ToLower(string(p))
		if seen[key] {
			return fmt.Errorf("duplicate player name %q", p)
		}
		seen[key] = true
	}
	return nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Active returns the player who must act next.
func (g *Game) Active() Player { return g.Players[g.ActivePlayer] }

// NumPlayers returns the number of participants.
func (g *Game) NumPlayers() int { return len(g.Players) }

// Pile returns the progress of color c (0..5).
func (g *Game) Pile(c Color) int {
	if !c.Valid() {
		return 0
	}
	return g.Piles[c.index()]
}

// DiscardsOf returns the discarded values for color c.
func (g *Game) DiscardsOf(c Color) []Value {
	if !c.Valid() {
		return nil
	}
	return g.Discards[c.index()]
}

// DiscardedCount returns how many copies of (c, v) are in the discard pile.
func (g *Game) DiscardedCount(c Color, v Value) int {
	n := 0
	for _, dv := range g.DiscardsOf(c) {
		if dv == v {
			n++
		}
	}
	return n
}

// HandOf returns the hand of p and whether p takes part in the game.
func (g *Game) HandOf(p Player) (Hand, bool) {
	h, ok := g.Hands[p]
	return h, ok
}

// LookupPlayer resolves a player name ignoring case.
func (g *Game) LookupPlayer(name string) (Player, bool) {
	for _, p := range g.Players {
		if strings.EqualFold(string(p), name) {
			return p, true
		}
	}
	return "", false
}

// nextPlayer returns the index after current in turn order.
func (g *Game) nextPlayer(current int) int {
	return (current + 1) % len(g.Players)
}

// ---------------------------------------------------------------------------
// Clone
// ---------------------------------------------------------------------------

// Clone returns a deep copy that shares no mutable state with g.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = append([]Player(nil), g.Players...)
	c.Deck = g.Deck.clone()
	c.Hands = make(map[Player]Hand, len(g.Hands))
	for p, h := range g.Hands {
		c.Hands[p] = h.clone()
	}
	for i := range g.Discards {
		c.Discards[i] = append([]Value{}, g.Discards[i]...)
	}
	return &c
}
