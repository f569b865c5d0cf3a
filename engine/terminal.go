package engine

import "fmt"

// Status classifies a game as running or finished.
type Status uint8

const (
	Running Status = iota
	MaxScore
	NoLives
	Timeout
	Stuck
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case MaxScore:
		return "max score"
	case NoLives:
		return "no lives"
	case Timeout:
		return "timeout"
	case Stuck:
		return "stuck"
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a status name as produced by String.
func (s *Status) UnmarshalText(b []byte) error {
	for st := Running; st <= Stuck; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Won reports whether the status is the perfect-score ending.
func (s Status) Won() bool { return s == MaxScore }

// CheckState evaluates end conditions in fixed priority order:
// errors exhausted, all piles complete, final round over, no pile can progress.
func (g *Game) CheckState() Status {
	if g.Errors >= g.Rules.MaxErrors {
		return NoLives
	}

	complete := true
	for _, p := range g.Piles {
		if p != int(MaxValue) {
			complete = false
			break
		}
	}
	if complete {
		return MaxScore
	}

	if g.Deck.Empty() && g.FinalMoves >= len(g.Players) {
		return Timeout
	}

	// Only the next card of each pile is checked, not deeper losses.
	for _, c := range Colors {
		pile := g.Pile(c)
		if pile >= int(MaxValue) {
			continue
		}
		next := Value(pile + 1)
		if g.DiscardedCount(c, next) != Copies(next) {
			return Running
		}
	}
	return Stuck
}

// IsTerminal returns true when the game is over.
func (g *Game) IsTerminal() bool { return g.CheckState() != Running }
