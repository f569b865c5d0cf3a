package engine

import "fmt"

// HintKind discriminates HintToken.
type HintKind uint8

const (
	HintNone HintKind = iota
	HintColor
	HintValue
)

// HintToken is either a color or a value, never both.
type HintToken struct {
	kind  HintKind
	color Color
	value Value
}

// ColorHint builds a color hint.
func ColorHint(c Color) HintToken { return HintToken{kind: HintColor, color: c} }

// ValueHint builds a value hint.
func ValueHint(v Value) HintToken { return HintToken{kind: HintValue, value: v} }

func (h HintToken) Kind() HintKind { return h.kind }
func (h HintToken) Color() Color   { return h.color }
func (h HintToken) Value() Value   { return h.value }

// Valid reports whether the token carries a playable color or value.
func (h HintToken) Valid() bool {
	switch h.kind {
	case HintColor:
		return h.color.Valid()
	case HintValue:
		return h.value.Valid()
	}
	return false
}

func (h HintToken) String() string {
	switch h.kind {
	case HintColor:
		return h.color.String()
	case HintValue:
		return h.value.String()
	}
	return ""
}

// ParseHintToken accepts a color name or a value 1..5.
func ParseHintToken(s string) (HintToken, error) {
	if c, ok := ParseColor(s); ok {
		return ColorHint(c), nil
	}
	if v, ok := ParseValue(s); ok {
		return ValueHint(v), nil
	}
	return HintToken{}, newActionError(AmbiguousToken, fmt.Sprintf("%q is neither a color nor a value", s))
}

// MarshalText encodes the hint as its color name or value digit.
func (h HintToken) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText decodes a color name or value digit; empty text is the zero token.
func (h *HintToken) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*h = HintToken{}
		return nil
	}
	parsed, err := ParseHintToken(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
