// Package dialogue selects what an NPC says.
package dialogue

import (
	"github.com/nathoo/byteworld/engine/rules"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// NothingToSay is the reply of an NPC without lines.
const NothingToSay = "They have nothing to say."

// Reply is the outcome of one conversation. Refused replies carry the
// refusal line and change nothing.
type Reply struct {
	Lines        []string
	Refused      bool
	FirstMeeting bool
}

// Visible reports whether the NPC can be seen at its location.
func Visible(npc types.NPCDef, s *types.State) bool {
	return npc.Visible == nil || rules.Met(*npc.Visible, s)
}

// Converse picks the NPC's lines for the current state. It does not mutate
// state; the caller sets the NPC's met flag when FirstMeeting is reported.
func Converse(npc types.NPCDef, s *types.State) Reply {
	if npc.TalkRequires != nil && !rules.Met(*npc.TalkRequires, s) {
		msg := npc.TalkRequires.Message
		if msg == "" {
			msg = NothingToSay
		}
		return Reply{Lines: []string{msg}, Refused: true}
	}

	if npc.MetFlag != "" && !state.HasFlag(s, npc.MetFlag) {
		lines := append([]string{}, npc.First...)
		lines = append(lines, rules.MetLines(npc.FirstHints, s)...)
		lines = append(lines, rules.MetLines(npc.Hints, s)...)
		return Reply{Lines: orNothing(lines), FirstMeeting: true}
	}

	var lines []string
	switch {
	case npc.Closing != nil && rules.Met(npc.Closing.When, s):
		lines = append(lines, npc.Closing.Lines...)
	case len(npc.Repeat) > 0:
		lines = append(lines, npc.Repeat[s.TurnCount%len(npc.Repeat)])
	}
	lines = append(lines, rules.MetLines(npc.Hints, s)...)
	return Reply{Lines: orNothing(lines)}
}

func orNothing(lines []string) []string {
	if len(lines) == 0 {
		return []string{NothingToSay}
	}
	return lines
}
