// Package parser converts command strings into Command structs.
// Intentionally dumb: a verb, its arguments and a few aliases.
package parser

import (
	"strings"

	"github.com/nathoo/byteworld/types"
)

var directionExpansions = map[string]string{
	"n": "north",
	"s": "south",
	"e": "east",
	"w": "west",
	"u": "up",
	"d": "down",
}

// Full direction names that are standalone shortcuts for "move <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"up": true, "down": true,
}

// Whole-input shortcuts.
var inputAliases = map[string]string{
	"farm":  "hunt",
	"grind": "hunt",
	"i":     "inventory",
	"inv":   "inventory",
	"q":     "quit",
	"exit":  "quit",
	"atk":   "fight",
}

var verbAliases = map[string]string{
	"l":      "look",
	"go":     "move",
	"walk":   "move",
	"attack": "fight",
	"flee":   "run",
	"speak":  "talk",
	"chat":   "talk",
	"wear":   "equip",
	"drink":  "use",
}

// Parse converts a raw command string into a Command. The verb and every
// argument are lower-cased. Empty input yields the zero Command.
func Parse(input string) types.Command {
	words := strings.Fields(strings.ToLower(input))
	if len(words) == 0 {
		return types.Command{}
	}

	if len(words) == 1 {
		if dir, ok := ExpandDirection(words[0]); ok {
			return types.Command{Verb: "move", Args: []string{dir}}
		}
		if alias, ok := inputAliases[words[0]]; ok {
			return types.Command{Verb: alias}
		}
	}

	words = expandMultiWordVerbs(words)

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	args := words[1:]
	if verb == "move" && len(args) > 0 {
		if dir, ok := ExpandDirection(args[0]); ok {
			args[0] = dir
		}
	}
	if len(args) == 0 {
		args = nil
	}
	return types.Command{Verb: verb, Args: args}
}

// ExpandDirection maps a direction or its single-letter abbreviation to
// the full direction name.
func ExpandDirection(word string) (string, bool) {
	if dir, ok := directionExpansions[word]; ok {
		return dir, true
	}
	if directionNames[word] {
		return word, true
	}
	return "", false
}

// expandMultiWordVerbs handles "talk to", "look around" and "run away".
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "look":
		if words[1] == "around" {
			return []string{"look"}
		}
	case "run", "flee":
		if words[1] == "away" {
			return []string{"run"}
		}
	}

	return words
}
