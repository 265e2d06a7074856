package engine

import (
	"fmt"

	"github.com/nathoo/byteworld/engine/dialogue"
	"github.com/nathoo/byteworld/engine/resolve"
	"github.com/nathoo/byteworld/types"
)

// talk holds a conversation with a visible NPC at the current location.
func (e *Engine) talk(query string) []string {
	if e.State.Encounter != nil {
		return []string{"You cannot talk while fighting."}
	}

	var cands []resolve.Candidate
	npcs := map[string]types.NPCDef{}
	for _, npc := range e.Defs.NPCsAt(e.State.Location) {
		if !dialogue.Visible(npc, e.State) {
			continue
		}
		cands = append(cands, resolve.Candidate{ID: npc.ID, Name: npc.Name})
		npcs[npc.ID] = npc
	}
	id, err := resolve.Resolve(query, cands)
	if err != nil {
		return []string{fmt.Sprintf("No one named '%s' is here.", query)}
	}
	npc := npcs[id]

	reply := dialogue.Converse(npc, e.State)
	if reply.FirstMeeting {
		e.setFlag(npc.MetFlag)
		if npc.TeachSkills {
			for _, sk := range types.CoreSkills {
				e.State.Player.Skills.Put(sk)
			}
			e.Log.Info("skills learned", "npc", npc.ID)
		}
	}
	return reply.Lines
}
