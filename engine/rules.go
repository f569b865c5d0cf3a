package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	MaxHints      int  `json:"maxHints"`      // hint tokens at start and cap
	MaxErrors     int  `json:"maxErrors"`     // error tokens that end the game
	StrictDiscard bool `json:"strictDiscard"` // if true, discarding with all hint tokens available is rejected
}

// DefaultHouseRules returns the standard rules. Discarding at maximum hints
// is allowed, matching how the game has always been played here.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		MaxHints:      8,
		MaxErrors:     3,
		StrictDiscard: false,
	}
}

const (
	MinPlayers = 2
	MaxPlayers = 6
)

var handSizes = [MaxPlayers + 1]int{0, 0, 5, 5, 4, 4, 3}

// HandSize returns the starting hand size for n players, or 0 if n is unsupported.
func HandSize(n int) int {
	if n < MinPlayers || n > MaxPlayers {
		return 0
	}
	return handSizes[n]
}

// normalized fills zero fields with defaults.
func (r HouseRules) normalized() HouseRules {
	def := DefaultHouseRules()
	if r.MaxHints <= 0 {
		r.MaxHints = def.MaxHints
	}
	if r.MaxErrors <= 0 {
		r.MaxErrors = def.MaxErrors
	}
	return r
}
