package engine

// LegalCommands returns every command the active player could submit right
// now that the engine would accept. It returns nil once the game is over.
func (g *Game) LegalCommands() []Command {
	if g.IsTerminal() {
		return nil
	}
	player := g.Active()
	hand := g.Hands[player]

	var out []Command
	for slot := 1; slot <= len(hand); slot++ {
		out = append(out, Play(slot))
	}
	if !g.Rules.StrictDiscard || g.Hints < g.Rules.MaxHints {
		for slot := 1; slot <= len(hand); slot++ {
			out = append(out, Discard(slot))
		}
	}
	if g.Hints > 0 {
		for _, target := range g.Players {
			if target == player {
				continue
			}
			for _, c := range Colors {
				out = append(out, Hint(target, ColorHint(c)))
			}
			for _, v := range Values {
				out = append(out, Hint(target, ValueHint(v)))
			}
		}
	}
	return out
}
