package engine

import "math/rand/v2"

// Deck is the draw pile. Cards are drawn from the end of the slice only;
// it is never refilled.
type Deck struct {
	cards []Card
}

// NewDeck returns the full card multiset shuffled with the given seed.
func NewDeck(seed uint64) *Deck {
	cards := FullDeck()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return &Deck{cards: cards}
}

// DeckFromCards builds a deck with an explicit order. The last card is drawn first.
func DeckFromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw pops the next card. ok is false when the deck is empty; that is a
// normal end-game condition rather than an error.
func (d *Deck) Draw() (card Card, ok bool) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, false
	}
	card = d.cards[n-1]
	d.cards = d.cards[:n-1]
	return card, true
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int { return len(d.cards) }

// Empty reports whether no cards are left.
func (d *Deck) Empty() bool { return len(d.cards) == 0 }

// Cards returns a copy of the remaining cards in draw-pile order.
func (d *Deck) Cards() []Card { return append([]Card(nil), d.cards...) }

func (d *Deck) clone() *Deck { return DeckFromCards(d.cards) }

// DealHand draws size cards, each inserted at the newest-card end of the hand.
func DealHand(d *Deck, size int) Hand {
	hand := make(Hand, 0, size)
	for i := 0; i < size; i++ {
		hand.draw(d)
	}
	return hand
}
