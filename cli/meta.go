package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/byteworld/engine"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// Meta handles the slash commands shared by both front-ends. They inspect
// the session without going through Step, so they never advance the game.
type Meta struct {
	Engine *engine.Engine
	Trace  bool
}

// IsMeta reports whether input is a slash command.
func IsMeta(input string) bool {
	return strings.HasPrefix(input, "/")
}

// Handle runs a slash command. It returns the lines to show and whether the
// front-end should exit.
func (m *Meta) Handle(input string) ([]string, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, false
	}

	switch parts[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/help":
		return metaHelp(), false
	case "/state":
		return m.stateLines(), false
	case "/seed":
		return []string{fmt.Sprintf("Seed: %d (draws: %d)", m.Engine.RNG.Seed(), m.Engine.RNG.Position())}, false
	case "/trace":
		m.Trace = !m.Trace
		if m.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", parts[0])}, false
	}
}

func metaHelp() []string {
	return []string{
		"System:",
		"  /quit    Exit the game",
		"  /help    Show this help",
		"  /state   Debug: dump the session state",
		"  /seed    Show the seed and how many draws were made",
		"  /trace   Toggle event trace output",
		"  again    Repeat your last command (also: g)",
		"Type `help` for game commands.",
	}
}

func (m *Meta) stateLines() []string {
	s := m.Engine.State
	out := []string{
		fmt.Sprintf("Session: %s", m.Engine.Session),
		fmt.Sprintf("Turn: %d", s.TurnCount),
		fmt.Sprintf("Location: %s", s.Location),
		fmt.Sprintf("Quest stage: %s", s.QuestStage),
		fmt.Sprintf("HP: %d/%d", s.Player.HP, state.Effective(&s.Player, m.Engine.Defs).MaxHP),
		fmt.Sprintf("Inventory: %s", formatInventory(s.Player.Inventory)),
	}
	if s.Flags.Size() > 0 {
		flags := state.SortedFlags(s)
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = string(f)
		}
		out = append(out, "Flags: "+strings.Join(names, ", "))
	}
	if enc := s.Encounter; enc != nil {
		out = append(out, fmt.Sprintf("Encounter: %s hp=%d phase=%s intent=%d",
			enc.EnemyID, enc.HP, enc.Phase, enc.IntentIndex))
	}
	return out
}

func formatInventory(inv map[string]int) string {
	if len(inv) == 0 {
		return "empty"
	}
	ids := make([]string, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s x%d", id, inv[id])
	}
	return strings.Join(parts, ", ")
}

// TraceLines renders the events of one step.
func TraceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, ev := range result.Events {
		keys := make([]string, 0, len(ev.Data))
		for k := range ev.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("[trace]   ")
		b.WriteString(ev.Type)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, ev.Data[k])
		}
		lines = append(lines, b.String())
	}
	return lines
}
