package engine

import "testing"

func TestCheckState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Game)
		want  Status
	}{
		{
			name:  "fresh game",
			setup: func(g *Game) {},
			want:  Running,
		},
		{
			name:  "errors exhausted",
			setup: func(g *Game) { g.Errors = 3 },
			want:  NoLives,
		},
		{
			name: "all piles complete",
			setup: func(g *Game) {
				for _, c := range Colors {
					setPile(g, c, 5)
				}
			},
			want: MaxScore,
		},
		{
			name: "errors beat max score",
			setup: func(g *Game) {
				for _, c := range Colors {
					setPile(g, c, 5)
				}
				g.Errors = 3
			},
			want: NoLives,
		},
		{
			name: "deck empty with turns left",
			setup: func(g *Game) {
				g.Deck = DeckFromCards(nil)
				g.FinalMoves = 2
			},
			want: Running,
		},
		{
			name: "final round over",
			setup: func(g *Game) {
				g.Deck = DeckFromCards(nil)
				g.FinalMoves = 3
			},
			want: Timeout,
		},
		{
			name: "max score beats final round over",
			setup: func(g *Game) {
				for _, c := range Colors {
					setPile(g, c, 5)
				}
				g.Deck = DeckFromCards(nil)
				g.FinalMoves = 3
			},
			want: MaxScore,
		},
		{
			name: "every next card discarded",
			setup: func(g *Game) {
				setPile(g, Red, 5)
				setPile(g, Blue, 1)
				setDiscards(g, Blue, 2, 2)
				setDiscards(g, Green, 1, 1, 1)
				setDiscards(g, White, 1, 1, 1)
				setDiscards(g, Yellow, 1, 1, 1)
			},
			want: Stuck,
		},
		{
			name: "one pile can still grow",
			setup: func(g *Game) {
				setDiscards(g, Green, 1, 1, 1)
				setDiscards(g, White, 1, 1, 1)
				setDiscards(g, Yellow, 1, 1, 1)
				setDiscards(g, Blue, 1, 1, 1)
			},
			want: Running,
		},
		{
			name: "deeper loss is not detected",
			setup: func(g *Game) {
				for _, c := range Colors {
					setDiscards(g, c, 2, 2)
				}
			},
			want: Running,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newRiggedGame(t, [][]Card{{card(Red, 1)}, {card(Red, 1)}, {card(Red, 1)}}, []Card{card(Blue, 1)})
			tt.setup(g)
			if got := g.CheckState(); got != tt.want {
				t.Errorf("CheckState() = %v, want %v", got, tt.want)
			}
			if g.IsTerminal() != (tt.want != Running) {
				t.Errorf("IsTerminal() = %v for status %v", g.IsTerminal(), tt.want)
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	want := map[Status]string{
		Running:  "running",
		MaxScore: "max score",
		NoLives:  "no lives",
		Timeout:  "timeout",
		Stuck:    "stuck",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), name)
		}
		if s.Won() != (s == MaxScore) {
			t.Errorf("%v.Won() = %v", s, s.Won())
		}
	}
}

func TestScore(t *testing.T) {
	g := newSeededGame(t, 2, 3)
	setPile(g, Red, 3)
	setPile(g, Yellow, 5)
	if got := g.Score(); got != 8 {
		t.Errorf("Score() = %d, want 8", got)
	}
}

func TestMaxReachableScore(t *testing.T) {
	g := newRiggedGame(t, [][]Card{{card(Red, 1)}, {card(Red, 1)}}, nil)
	if got := g.MaxReachableScore(); got != 25 {
		t.Fatalf("fresh MaxReachableScore() = %d, want 25", got)
	}

	setPile(g, Red, 2)
	setDiscards(g, Red, 3, 3) // red stops at 2
	setDiscards(g, Blue, 5)   // blue stops at 4
	setDiscards(g, Green, 1)  // one copy left, still reachable
	if got := g.MaxReachableScore(); got != 2+4+5+5+5 {
		t.Errorf("MaxReachableScore() = %d, want %d", got, 21)
	}
}
