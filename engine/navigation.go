package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/byteworld/engine/dialogue"
	"github.com/nathoo/byteworld/engine/events"
	"github.com/nathoo/byteworld/engine/parser"
	"github.com/nathoo/byteworld/engine/route"
	"github.com/nathoo/byteworld/engine/rules"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// mapDirections is the order the map command lists neighbours in.
var mapDirections = []string{"north", "east", "south", "west", "up", "down"}

func (e *Engine) location() types.LocationDef {
	return e.Defs.Locations[e.State.Location]
}

func findExit(loc types.LocationDef, direction string) (types.Exit, bool) {
	for _, ex := range loc.Exits {
		if ex.Direction == direction {
			return ex, true
		}
	}
	return types.Exit{}, false
}

// move walks through an exit and fires the destination's entry events.
func (e *Engine) move(direction string) []string {
	if e.State.Encounter != nil {
		return []string{"You cannot move while an encounter is active."}
	}
	if dir, ok := parser.ExpandDirection(direction); ok {
		direction = dir
	}

	ex, ok := findExit(e.location(), direction)
	if !ok {
		return []string{fmt.Sprintf("You cannot move %s from here.", direction)}
	}
	if msg, blocked := rules.Blocked(ex.Requires, e.State); blocked {
		return []string{msg}
	}

	from := e.State.Location
	e.State.Location = ex.To
	e.State.TurnCount++
	e.State.Discovered.Put(ex.To)
	e.emit(events.New(events.Moved, "from", from, "to", ex.To, "direction", direction))

	out := append([]string{"You move " + direction + "."}, e.look()...)
	return append(out, e.enter()...)
}

// enter fires the entry events of the current location. At most one of a
// cutscene, a boss or a random encounter happens.
func (e *Engine) enter() []string {
	loc := e.location()

	if cs := loc.Cutscene; cs != nil && !state.HasFlag(e.State, cs.Flag) && rules.Met(cs.Requires, e.State) {
		e.setFlag(cs.Flag)
		out := append([]string{}, cs.Lines...)
		if cs.Teleport != "" {
			e.State.Location = cs.Teleport
			e.State.Discovered.Put(cs.Teleport)
		}
		if cs.Encounter != "" {
			out = append(out, e.startEncounter(cs.Encounter)...)
		}
		return out
	}

	if loc.BossID != "" && !state.HasFlag(e.State, loc.BossFlag) && rules.FlagsMet(types.Requirement{AllFlags: loc.BossRequires}, e.State.Flags) {
		return e.startEncounter(loc.BossID)
	}

	return e.randomEncounter(loc)
}

// randomEncounter rolls the location's encounter chance.
func (e *Engine) randomEncounter(loc types.LocationDef) []string {
	if e.State.Encounter != nil || loc.EncounterChance <= 0 || len(loc.Encounters) == 0 {
		return nil
	}
	if e.RNG.Float() >= loc.EncounterChance {
		return nil
	}
	return e.startEncounter(e.RNG.PickWeighted(loc.Encounters))
}

// hunt forces a pick from the location's encounter table.
func (e *Engine) hunt() []string {
	loc := e.location()
	if len(loc.Encounters) == 0 {
		return []string{"Nothing roams here worth hunting."}
	}
	out := []string{"You stalk the area, looking for trouble."}
	return append(out, e.startEncounter(e.RNG.PickWeighted(loc.Encounters))...)
}

// look describes the current location.
func (e *Engine) look() []string {
	loc := e.location()
	desc := "You stand in a quiet place."
	if len(loc.Descriptions) > 0 {
		desc = loc.Descriptions[e.State.TurnCount%len(loc.Descriptions)]
	}

	dirs := make([]string, len(loc.Exits))
	for i, ex := range loc.Exits {
		dirs[i] = ex.Direction
	}
	sort.Strings(dirs)
	exits := strings.Join(dirs, ", ")
	if exits == "" {
		exits = "none"
	}

	out := []string{
		fmt.Sprintf("%s [%s]", e.Defs.LocationName(e.State.Location), loc.Area),
		desc,
		"Exits: " + exits,
	}
	if names := e.visibleNPCNames(); len(names) > 0 {
		out = append(out, "NPCs here: "+strings.Join(names, ", "))
	}
	return out
}

func (e *Engine) visibleNPCNames() []string {
	var names []string
	for _, npc := range e.Defs.NPCsAt(e.State.Location) {
		if dialogue.Visible(npc, e.State) {
			names = append(names, npc.Name)
		}
	}
	return names
}

// sense reports the location's hints.
func (e *Engine) sense() []string {
	loc := e.location()
	hint := loc.SenseHint
	if hint == "" {
		hint = "Nothing unusual stands out."
	}
	return append([]string{hint}, rules.MetLines(loc.SenseHints, e.State)...)
}

// worldMap shows the neighbouring locations and the first step toward
// every landmark.
func (e *Engine) worldMap() []string {
	loc := e.location()
	target, recommended := e.recommendedStep()

	out := []string{"You are at: " + e.Defs.LocationName(e.State.Location)}
	for _, dir := range mapDirections {
		label := "---"
		if ex, ok := findExit(loc, dir); ok {
			label = e.Defs.LocationName(ex.To)
			if _, blocked := rules.Blocked(ex.Requires, e.State); blocked {
				label += " (locked)"
			}
			if dir == recommended {
				label += " (recommended)"
			}
		}
		out = append(out, fmt.Sprintf("  %-5s  %s", dir, label))
	}

	out = append(out, "Quick direction guide:")
	for _, id := range e.Defs.Game.Landmarks {
		suffix := ""
		if id == target {
			suffix = " (recommended)"
		}
		out = append(out, fmt.Sprintf("  - %s: %s%s", e.Defs.LocationName(id), e.routeHint(id), suffix))
	}
	return out
}

// routeHint describes how to head toward a location.
func (e *Engine) routeHint(to string) string {
	from := e.State.Location
	if to == from {
		return "you are here."
	}
	if step, ok := route.FirstStep(e.Defs, e.State, from, to, true); ok {
		return fmt.Sprintf("go %s.", step)
	}
	if step, ok := route.FirstStep(e.Defs, e.State, from, to, false); ok {
		return fmt.Sprintf("locked now (later go %s).", step)
	}
	return "no route found."
}

// recommendedStep returns the current stage's target and the first
// direction toward it, preferring open paths.
func (e *Engine) recommendedStep() (target, direction string) {
	stage, ok := e.Defs.Stage(e.State.QuestStage)
	if !ok || stage.Target == "" {
		return "", ""
	}
	if stage.Target == e.State.Location {
		return stage.Target, ""
	}
	if step, ok := route.FirstStep(e.Defs, e.State, e.State.Location, stage.Target, true); ok {
		return stage.Target, step
	}
	step, _ := route.FirstStep(e.Defs, e.State, e.State.Location, stage.Target, false)
	return stage.Target, step
}
