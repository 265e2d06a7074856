// Package engine provides the Step() orchestrator that runs one player
// command against a session: parsing, the encounter gate, the command
// itself, quest advancement and the victory announcement.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/byteworld/engine/events"
	"github.com/nathoo/byteworld/engine/parser"
	"github.com/nathoo/byteworld/engine/quest"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// encounterVerbs are the commands allowed while an encounter is live.
var encounterVerbs = map[string]bool{
	"help":      true,
	"status":    true,
	"inventory": true,
	"use":       true,
	"read":      true,
	"fight":     true,
	"defend":    true,
	"skill":     true,
	"run":       true,
	"quest":     true,
	"joke":      true,
	"bribe":     true,
	"quit":      true,
}

// Engine holds the game definitions and the mutable state of one session.
// An Engine is not safe for concurrent use; Defs may be shared.
type Engine struct {
	Defs    *state.Defs
	State   *types.State
	RNG     *RNG
	Log     *slog.Logger
	Events  *events.Bus
	Session string

	pending []types.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.Log = log
		}
	}
}

// WithSource replaces the random stream, keeping the recorded seed.
func WithSource(src Source) Option {
	return func(e *Engine) {
		e.RNG = NewRNGFrom(e.State.Seed, src)
	}
}

// WithPlayerName renames the player. Empty names are ignored.
func WithPlayerName(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.State.Player.Name = name
		}
	}
}

// New creates a new session from definitions and a seed.
func New(defs *state.Defs, seed int64, opts ...Option) *Engine {
	e := &Engine{
		Defs:    defs,
		State:   state.NewState(defs, seed),
		RNG:     NewRNG(seed),
		Log:     slog.New(slog.DiscardHandler),
		Events:  events.NewBus(),
		Session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Log = e.Log.With("session", e.Session)
	e.Events.OnAll(events.LogHandler(e.Log))
	e.Log.Info("session started", "seed", seed, "location", e.State.Location, "player", e.State.Player.Name)
	return e
}

// Intro returns the opening text: the game's intro and a look around.
func (e *Engine) Intro() []string {
	var out []string
	if e.Defs.Game.Intro != "" {
		out = append(out, e.Defs.Game.Intro)
	}
	return append(out, e.look()...)
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	e.pending = nil

	// 0. Game over: refuse everything.
	if e.State.GameOver {
		return types.Result{Output: []string{"The journey has ended."}}
	}

	// 1. Parse input.
	cmd := parser.Parse(input)

	// 2. Log the command.
	e.State.CommandLog = append(e.State.CommandLog, input)

	// 3. Empty input.
	if cmd.Verb == "" {
		return types.Result{Output: []string{"What do you want to do?"}}
	}
	e.Log.Debug("command", "verb", cmd.Verb, "args", cmd.Args, "turn", e.State.TurnCount)

	// 4. Encounter gate, then the command itself.
	var out []string
	if e.State.Encounter != nil && !encounterVerbs[cmd.Verb] {
		out = []string{"You are in an encounter. Use combat commands or `run`."}
	} else {
		out = e.dispatch(cmd)
	}

	// 5. Quest advancement.
	out = append(out, e.advanceQuest()...)

	// 6. Victory announcement, once.
	if e.State.Victory && !e.State.VictoryAnnounced {
		e.State.VictoryAnnounced = true
		out = append(out,
			"You have completed the main storyline.",
			"You can keep exploring or type `quit`.")
	}

	// 7. Hand events to observers.
	evts := e.pending
	e.pending = nil
	e.Events.Dispatch(evts)

	return types.Result{Events: evts, Output: out}
}

// dispatch routes a parsed command to its handler.
func (e *Engine) dispatch(cmd types.Command) []string {
	switch cmd.Verb {
	case "help":
		return helpLines()
	case "status":
		return append(e.status(), e.encounterStatus()...)
	case "look":
		return e.look()
	case "sense":
		return e.sense()
	case "hunt":
		return e.hunt()
	case "map":
		return e.worldMap()
	case "move":
		if len(cmd.Args) == 0 {
			return []string{"Move where? Example: move north"}
		}
		return e.move(cmd.Args[0])
	case "inventory":
		return e.inventory()
	case "equip":
		if len(cmd.Args) == 0 {
			return []string{"Equip what? Example: equip crusty sword, or use `equip all`."}
		}
		if len(cmd.Args) == 1 && cmd.Args[0] == "all" {
			return e.equipBest()
		}
		return e.equip(strings.Join(cmd.Args, " "))
	case "use", "read":
		if len(cmd.Args) == 0 {
			return []string{"Use what? Example: use minor potion"}
		}
		if e.State.Encounter != nil {
			return e.playerAction(cmd.Verb, cmd.Args)
		}
		lines, _ := e.useItem(strings.Join(cmd.Args, " "))
		return lines
	case "fight", "defend", "skill", "joke", "bribe":
		return e.playerAction(cmd.Verb, cmd.Args)
	case "run":
		return e.flee()
	case "train":
		return e.train(cmd.Args)
	case "talk":
		if len(cmd.Args) == 0 {
			return []string{"Talk to whom? Example: talk wise old man"}
		}
		return e.talk(strings.Join(cmd.Args, " "))
	case "quest":
		return e.questLines()
	case "quit":
		e.State.GameOver = true
		e.Log.Info("session ended", "turn", e.State.TurnCount)
		return []string{"Game ended."}
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type `help` for a command list.", cmd.Verb)}
	}
}

// advanceQuest re-derives the quest stage from the flags and reports a
// change. Reaching the final stage wins the game.
func (e *Engine) advanceQuest() []string {
	idx := quest.Derive(e.Defs.Stages, e.State.Flags)
	if idx < 0 {
		return nil
	}
	stage := e.Defs.Stages[idx]
	if stage.ID == e.State.QuestStage {
		return nil
	}

	e.Log.Info("quest advanced", "from", e.State.QuestStage, "to", stage.ID)
	e.State.QuestStage = stage.ID
	e.emit(events.New(events.QuestAdvanced, "stage", stage.ID))
	out := []string{"Quest updated: " + stage.Title, stage.Description}

	if quest.IsFinal(e.Defs.Stages, idx) && !e.State.Victory {
		e.State.Victory = true
		e.emit(events.New(events.GameWon, "stage", stage.ID))
	}
	return out
}

func (e *Engine) emit(ev types.Event) {
	e.pending = append(e.pending, ev)
}

// setFlag sets a flag and its implications, emitting one event per new flag.
func (e *Engine) setFlag(f types.Flag) {
	for _, added := range state.SetFlag(e.State, f) {
		e.emit(events.New(events.FlagSet, "flag", string(added)))
	}
}
