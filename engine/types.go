package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the five card colors. The zero value means "unknown".
type Color uint8

const (
	NoColor Color = iota
	Red
	Blue
	Green
	White
	Yellow
)

// Colors lists every playable color in canonical order.
var Colors = [NumColors]Color{Red, Blue, Green, White, Yellow}

// Value is a card value 1..5. The zero value means "unknown".
type Value int

const (
	NoValue  Value = 0
	MinValue Value = 1
	MaxValue Value = 5
)

// Values lists every card value in ascending order.
var Values = [NumValues]Value{1, 2, 3, 4, 5}

const (
	NumColors = 5
	NumValues = 5

	// ColorTotal is the number of cards of a single color (3+2+2+2+1).
	ColorTotal = 10
	DeckSize   = NumColors * ColorTotal
)

// copiesPerValue is c(v): how many cards of each value exist per color.
var copiesPerValue = [NumValues + 1]int{0, 3, 2, 2, 2, 1}

// Copies returns the number of copies of value v in a single color.
func Copies(v Value) int {
	if !v.Valid() {
		return 0
	}
	return copiesPerValue[v]
}

var colorNames = [...]string{"?", "red", "blue", "green", "white", "yellow"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "?"
}

// Valid reports whether c is one of the five playable colors.
func (c Color) Valid() bool { return c >= Red && c <= Yellow }

// index returns the 0-based position of c in Colors.
func (c Color) index() int { return int(c) - 1 }

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	if c == NoColor {
		return []byte{}, nil
	}
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a color name; the empty string decodes to NoColor.
func (c *Color) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = NoColor
		return nil
	}
	parsed, ok := ParseColor(string(b))
	if !ok {
		return fmt.Errorf("unknown color %q", b)
	}
	*c = parsed
	return nil
}

// ParseColor resolves a color name, ignoring case and surrounding space.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Colors {
		if colorNames[c] == s {
			return c, true
		}
	}
	return NoColor, false
}

func (v Value) String() string {
	if v == NoValue {
		return "?"
	}
	return strconv.Itoa(int(v))
}

// Valid reports whether v is within 1..5.
func (v Value) Valid() bool { return v >= MinValue && v <= MaxValue }

// ParseValue resolves a decimal card value.
func ParseValue(s string) (Value, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < int(MinValue) || n > int(MaxValue) {
		return NoValue, false
	}
	return Value(n), true
}

// Card is an immutable color/value pair.
type Card struct {
	Color Color `json:"color"`
	Value Value `json:"value"`
}

func (c Card) String() string { return c.Color.String() + " " + c.Value.String() }

// Player identifies a participant. Names are validated once by NewGame.
type Player string

// FullDeck returns the 50-card multiset in canonical (unshuffled) order.
func FullDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, c := range Colors {
		for _, v := range Values {
			for i := 0; i < Copies(v); i++ {
				deck = append(deck, Card{Color: c, Value: v})
			}
		}
	}
	return deck
}
