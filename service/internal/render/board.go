// internal/render/board.go
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var cardColors = map[engine.Color]*color.Color{
	engine.Red:    color.New(color.FgRed, color.Bold),
	engine.Blue:   color.New(color.FgBlue, color.Bold),
	engine.Green:  color.New(color.FgGreen, color.Bold),
	engine.White:  color.New(color.FgHiWhite, color.Bold),
	engine.Yellow: color.New(color.FgYellow, color.Bold),
}

var (
	headerStyle  = color.New(color.FgWhite, color.Bold)
	activeStyle  = color.New(color.FgCyan, color.Bold)
	warnStyle    = color.New(color.FgHiYellow)
	successStyle = color.New(color.FgGreen, color.Bold)
	failStyle    = color.New(color.FgRed, color.Bold)
)

// paint colors s after c; unknown colors are left plain.
func paint(c engine.Color, s string) string {
	if p, ok := cardColors[c]; ok {
		return p.Sprint(s)
	}
	return s
}

// CardText is a revealed card, e.g. "red 3".
func CardText(cv engine.CardView) string {
	return paint(cv.Color, engine.Card{Color: cv.Color, Value: cv.Value}.String())
}

// KnowledgeText lists what the holder knows, e.g. "{red, not 3, not 4}".
func KnowledgeText(cv engine.CardView) string {
	var info []string
	if cv.ColorKnown {
		info = append(info, cv.Color.String())
	}
	if cv.ValueKnown {
		info = append(info, cv.Value.String())
	}
	if !cv.ColorKnown {
		for _, c := range cv.NotColors {
			info = append(info, "not "+c.String())
		}
	}
	if !cv.ValueKnown {
		for _, v := range cv.NotValues {
			info = append(info, "not "+v.String())
		}
	}
	return "{" + strings.Join(info, ", ") + "}"
}

// Board writes the hands, piles and counters of v.
func Board(w io.Writer, v engine.BoardView) {
	for _, p := range v.Players {
		Hand(w, p)
	}
	Piles(w, v)

	fmt.Fprintf(w, "hints: %d, errors: %d\n", v.Hints, v.Errors)
	fmt.Fprintf(w, "score: %d of %d reachable, deck: %d\n", v.Score, v.Reachable, v.DeckSize)
	if v.DeckSize == 0 && v.Status == engine.Running {
		fmt.Fprintln(w, warnStyle.Sprintf("deck is empty: %d of %d final turns taken", v.FinalMoves, len(v.Players)))
	}
	fmt.Fprintln(w)
}

// Hand writes one player's hand. Cards the viewer cannot see show only knowledge.
func Hand(w io.Writer, p engine.PlayerView) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	title := string(p.Name) + "'s hand"
	if p.Active {
		title = activeStyle.Sprint("> " + title)
	}
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Slot", "Card", "Knowledge"})
	for _, cv := range p.Hand {
		card := "?"
		if cv.Revealed {
			card = CardText(cv)
		}
		t.AppendRow(table.Row{cv.Slot, card, KnowledgeText(cv)})
	}
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	t.Render()
}

// Piles writes the progress and sorted discards of every color.
func Piles(w io.Writer, v engine.BoardView) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Color", "Pile", "Discarded"})
	for _, pile := range v.Piles {
		discards := make([]string, len(pile.Discards))
		for i, d := range pile.Discards {
			discards[i] = d.String()
		}
		t.AppendRow(table.Row{paint(pile.Color, pile.Color.String()), pile.Height, strings.Join(discards, " ")})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Title.Align = text.AlignCenter
	t.Render()
}

// Caption writes the last action description framed by dashes.
func Caption(w io.Writer, caption string) {
	rule := strings.Repeat("-", len(caption))
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, headerStyle.Sprint(caption))
	fmt.Fprintln(w, rule)
}

// Usage writes the command grammar, shown after a rejected action.
func Usage(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Usage")
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendRows([]table.Row{
		{"discard <SLOT>", "d", "Discard a card and regain a hint token."},
		{"play <SLOT>", "p", "Play a card onto its pile."},
		{"hint <PLAYER> <COLOR>", "h", "Tell a player which cards have a color."},
		{"hint <PLAYER> <VALUE>", "h", "Tell a player which cards have a value."},
		{"help", "", "List every command you can submit now."},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Commands writes the given commands, grouped by kind.
func Commands(w io.Writer, cmds []engine.Command) {
	groups := map[engine.ActionKind][]string{}
	for _, c := range cmds {
		groups[c.Kind] = append(groups[c.Kind], c.String())
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Action", "Commands"})
	for _, kind := range []engine.ActionKind{engine.ActionPlay, engine.ActionDiscard, engine.ActionHint} {
		if len(groups[kind]) == 0 {
			continue
		}
		t.AppendRow(table.Row{kind.String(), strings.Join(groups[kind], "\n")})
		t.AppendSeparator()
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Outcome announces the end of the game.
func Outcome(w io.Writer, status engine.Status, score int) {
	if status.Won() {
		fmt.Fprintln(w, successStyle.Sprint("*** You won! ***"))
	} else {
		fmt.Fprintln(w, failStyle.Sprintf("*** You lost! *** (%s)", status))
	}
	fmt.Fprintf(w, "final score: %d\n", score)
}
