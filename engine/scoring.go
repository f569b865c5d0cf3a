package engine

// Score is the sum of all pile heights.
func (g *Game) Score() int {
	total := 0
	for _, p := range g.Piles {
		total += p
	}
	return total
}

// MaxReachableScore is the best score still attainable given the cards that
// have been discarded: each pile can grow until the first value whose copies
// are all gone.
func (g *Game) MaxReachableScore() int {
	total := 0
	for _, c := range Colors {
		height := g.Pile(c)
		for v := Value(height + 1); v <= MaxValue; v++ {
			if g.DiscardedCount(c, v) == Copies(v) {
				break
			}
			height = int(v)
		}
		total += height
	}
	return total
}
