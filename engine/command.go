package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind is one of the three things a player can do on their turn.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionDiscard
	ActionPlay
	ActionHint
)

func (k ActionKind) String() string {
	switch k {
	case ActionDiscard:
		return "discard"
	case ActionPlay:
		return "play"
	case ActionHint:
		return "hint"
	}
	return "none"
}

// MarshalText encodes the action kind by name.
func (k ActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes an action kind name as produced by String.
func (k *ActionKind) UnmarshalText(b []byte) error {
	for kind := ActionNone; kind <= ActionHint; kind++ {
		if kind.String() == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", b)
}

var verbs = map[string]ActionKind{
	"discard": ActionDiscard,
	"d":       ActionDiscard,
	"play":    ActionPlay,
	"p":       ActionPlay,
	"hint":    ActionHint,
	"h":       ActionHint,
}

// Command is a parsed action. Slot is 1-based and used by discard/play;
// Target and Hint are used by hint.
type Command struct {
	Kind   ActionKind
	Slot   int
	Target Player
	Hint   HintToken
}

// Discard builds a discard command.
func Discard(slot int) Command { return Command{Kind: ActionDiscard, Slot: slot} }

// Play builds a play command.
func Play(slot int) Command { return Command{Kind: ActionPlay, Slot: slot} }

// Hint builds a hint command.
func Hint(target Player, hint HintToken) Command {
	return Command{Kind: ActionHint, Target: target, Hint: hint}
}

// String renders the canonical text form accepted by ParseCommand.
func (c Command) String() string {
	switch c.Kind {
	case ActionDiscard, ActionPlay:
		return c.Kind.String() + " " + strconv.Itoa(c.Slot)
	case ActionHint:
		return "hint " + string(c.Target) + " " + c.Hint.String()
	}
	return ""
}

// ParseCommand parses one action line:
//
//	discard <slot> | d <slot>
//	play <slot>    | p <slot>
//	hint <player> <color|value> | h <player> <color|value>
//
// Verbs and hint tokens are case-insensitive. The hint target is returned as
// typed; resolving it against the roster is left to the game.
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return Command{}, newActionError(MalformedCommand, fmt.Sprintf("expected a verb and an argument in %q", text))
	}
	kind, ok := verbs[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, newActionError(MalformedCommand, fmt.Sprintf("unknown action %q", fields[0]))
	}

	switch kind {
	case ActionDiscard, ActionPlay:
		if len(fields) != 2 {
			return Command{}, newActionError(MalformedCommand, fmt.Sprintf("%s takes exactly one slot", kind))
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, newActionError(MalformedCommand, fmt.Sprintf("slot %q is not a number", fields[1]))
		}
		return Command{Kind: kind, Slot: slot}, nil

	default:
		if len(fields) != 3 {
			return Command{}, newActionError(MalformedCommand, "hint takes a player and a color or value")
		}
		hint, err := ParseHintToken(fields[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: ActionHint, Target: Player(fields[1]), Hint: hint}, nil
	}
}
