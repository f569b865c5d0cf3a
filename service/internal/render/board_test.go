// internal/render/board_test.go
package render

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestKnowledgeText(t *testing.T) {
	tests := []struct {
		name string
		cv   engine.CardView
		want string
	}{
		{"nothing known", engine.CardView{}, "{}"},
		{"color known", engine.CardView{Color: engine.Red, ColorKnown: true, NotValues: []engine.Value{3, 4}}, "{red, not 3, not 4}"},
		{"exclusions only", engine.CardView{NotColors: []engine.Color{engine.Blue}, NotValues: []engine.Value{1}}, "{not blue, not 1}"},
		{"fully known", engine.CardView{Color: engine.Yellow, Value: 5, ColorKnown: true, ValueKnown: true}, "{yellow, 5}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KnowledgeText(tt.cv))
		})
	}
}

func TestBoardHidesViewerCards(t *testing.T) {
	g, err := engine.NewGame([]engine.Player{"Alice", "Bob"}, 5, engine.DefaultHouseRules())
	require.NoError(t, err)
	require.NoError(t, g.PerformAction("Alice", "hint Bob 1"))

	viewer := engine.Player("Bob")
	var buf bytes.Buffer
	Board(&buf, g.View(&viewer))
	out := buf.String()

	assert.Contains(t, out, "Alice's hand")
	assert.Contains(t, out, "> Bob's hand", "active player is marked")
	assert.Contains(t, out, "hints: 7, errors: 0")
	assert.Contains(t, out, "score: 0 of 25 reachable, deck: 40")

	aliceCard := g.Hands["Alice"][0].Card.String()
	assert.Contains(t, out, aliceCard, "other players' cards are visible")
	assert.Contains(t, out, "yellow", "every pile is listed")
}

func TestCaption(t *testing.T) {
	var buf bytes.Buffer
	Caption(&buf, "A hinted 'red' to B")
	assert.Equal(t, "\n-------------------\nA hinted 'red' to B\n-------------------\n", buf.String())
}

func TestUsageAndCommands(t *testing.T) {
	var buf bytes.Buffer
	Usage(&buf)
	assert.Contains(t, buf.String(), "hint <PLAYER> <COLOR>")

	buf.Reset()
	Commands(&buf, []engine.Command{engine.Play(1), engine.Discard(2), engine.Hint("Bob", engine.ColorHint(engine.Green))})
	out := buf.String()
	assert.Contains(t, out, "play 1")
	assert.Contains(t, out, "discard 2")
	assert.Contains(t, out, "hint Bob green")
}

func TestOutcome(t *testing.T) {
	var buf bytes.Buffer
	Outcome(&buf, engine.MaxScore, 25)
	assert.Contains(t, buf.String(), "You won!")
	assert.Contains(t, buf.String(), "final score: 25")

	buf.Reset()
	Outcome(&buf, engine.NoLives, 7)
	assert.Contains(t, buf.String(), "You lost!")
	assert.Contains(t, buf.String(), "no lives")
}
