// cmd/hanabi/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/service/internal/render"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// errQuit ends the session at the player's request.
var errQuit = errors.New("quit")

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func main() {
	seed := flag.Uint64("seed", 0, "Deck shuffle seed (0 picks one at random)")
	strict := flag.Bool("strict", false, "Reject discards while every hint token is available")
	logLevel := flag.String("loglevel", "warn", "Set logging level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hanabi [flags] PLAYER PLAYER [PLAYER...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	names := flag.Args()
	players := make([]engine.Player, len(names))
	for i, n := range names {
		players[i] = engine.Player(n)
	}
	if *seed == 0 {
		*seed = rand.Uint64()
	}
	rules := engine.DefaultHouseRules()
	rules.StrictDiscard = *strict

	g, err := engine.NewGame(players, *seed, rules)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	log.WithFields(logrus.Fields{"players": len(players), "seed": *seed}).Debug("Game created.")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if err := run(line, os.Stdout, g); err != nil && !errors.Is(err, errQuit) {
		log.WithError(err).Error("Error reading line.")
	}
}

// run plays g hot-seat until it ends, reading each active player's command
// from in. It returns errQuit if a player quits and the input error if
// reading fails.
func run(in prompter, out io.Writer, g *engine.Game) error {
	for !g.IsTerminal() {
		active := g.Active()
		render.Board(out, g.View(&active))

		if err := turn(in, out, g, active); err != nil {
			return err
		}
		render.Caption(out, g.LastActionDescription)
	}

	render.Board(out, g.View(nil))
	render.Outcome(out, g.CheckState(), g.Score())
	return nil
}

// turn prompts active until one command succeeds.
func turn(in prompter, out io.Writer, g *engine.Game, active engine.Player) error {
	for {
		input, err := in.Prompt(string(active) + ": ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "Goodbye!")
				return errQuit
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		in.AppendHistory(input)

		switch strings.ToLower(input) {
		case "help", "?":
			render.Commands(out, g.LegalCommands())
			continue
		case "quit", "q", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return errQuit
		}

		if err := g.PerformAction(active, input); err != nil {
			log.WithFields(logrus.Fields{"player": active, "action": input}).WithError(err).Debug("Action rejected.")
			fmt.Fprintln(out, err)
			render.Usage(out)
			continue
		}
		log.WithFields(logrus.Fields{"player": active, "action": input}).Debug("Action applied.")
		return nil
	}
}
