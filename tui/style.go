package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusFight = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("252")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleHealth = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleLoot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleQuest = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHeading
	kindExits
	kindDialogue
	kindDamage
	kindHealth
	kindLoot
	kindQuest
	kindSystem
	kindError
	kindTrace
)

var (
	lootPrefixes = []string{
		"Loot obtained:", "Rare boon found:", "You gain ", "Level up!", "Title earned:",
	}
	questPrefixes = []string{
		"Quest updated:", "Quest:", "Hint:", "You have completed the main storyline.",
	}
	errorPrefixes = []string{
		"You cannot", "You do not", "Unknown command:", "No one named", "You are in an encounter.",
	}
)

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "Exits:"), strings.HasPrefix(line, "NPCs here:"):
		return kindExits
	case isHeading(line):
		return kindHeading
	case line == "HP:", strings.HasPrefix(line, "HP Bar:"), isBarLine(line):
		return kindHealth
	case strings.HasSuffix(line, " damage."), strings.HasPrefix(line, "You collapse"):
		return kindDamage
	case hasAnyPrefix(line, lootPrefixes):
		return kindLoot
	case hasAnyPrefix(line, questPrefixes):
		return kindQuest
	case hasAnyPrefix(line, errorPrefixes):
		return kindError
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindNarrative
	}
}

// isHeading matches the "Name [Area]" line of a location description.
func isHeading(line string) bool {
	open := strings.LastIndex(line, " [")
	return open > 0 && strings.HasSuffix(line, "]") && !strings.HasPrefix(line, " ")
}

// isBarLine matches an indented "Name: [###---] cur/max" health bar.
func isBarLine(line string) bool {
	return strings.HasPrefix(line, "  ") && (strings.Contains(line, ": [#") || strings.Contains(line, ": [-"))
}

// containsQuotedSpeech checks if a line contains NPC dialogue in double
// quotes.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindDamage:
		return styleDamage.Render(line)
	case kindHealth:
		return styleHealth.Render(line)
	case kindLoot:
		return styleLoot.Render(line)
	case kindQuest:
		return styleQuest.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}
