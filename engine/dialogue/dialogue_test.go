package dialogue

import (
	"slices"
	"testing"

	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

func testState() *types.State {
	defs := &state.Defs{
		Game: types.GameDef{Start: "shack", Player: types.PlayerDef{MaxHP: 10, Attack: 1}},
	}
	return state.NewState(defs, 1)
}

func sage() types.NPCDef {
	return types.NPCDef{
		ID:      "sage",
		Name:    "Sage",
		MetFlag: types.FlagMetOldMan,
		First:   []string{"Welcome.", "Listen well."},
		Repeat:  []string{"Again?", "Still here?"},
		Hints: []types.Line{{
			When: types.Requirement{Item: "hoard", NoFlags: []types.Flag{types.FlagHoardDelivered}},
			Text: "Hand me that hoard.",
		}},
	}
}

func captive() types.NPCDef {
	freed := types.Requirement{
		AllFlags: []types.Flag{types.FlagElleFreed},
		Message:  "She is still bound.",
	}
	return types.NPCDef{
		ID:           "captive",
		Name:         "Captive",
		Visible:      &types.Requirement{AllFlags: []types.Flag{types.FlagWitchDefeated}},
		TalkRequires: &freed,
		MetFlag:      types.FlagElleMet,
		First:        []string{"Thank you."},
		FirstHints: []types.Line{{
			When: types.Requirement{NoFlags: []types.Flag{types.FlagElleCleansed}},
			Text: "Something dark remains.",
		}},
		Repeat: []string{"We should go."},
		Closing: &types.Closing{
			When:  types.Requirement{AllFlags: []types.Flag{types.FlagElleCleansed}},
			Lines: []string{"I am free at last."},
		},
	}
}

func TestConverse_FirstMeeting(t *testing.T) {
	s := testState()
	r := Converse(sage(), s)
	if !r.FirstMeeting || r.Refused {
		t.Errorf("reply flags = %+v", r)
	}
	if !slices.Equal(r.Lines, []string{"Welcome.", "Listen well."}) {
		t.Errorf("lines = %q", r.Lines)
	}
	if s.Flags.Has(types.FlagMetOldMan) {
		t.Error("Converse must not set flags")
	}
}

func TestConverse_RepeatRotatesWithTurns(t *testing.T) {
	s := testState()
	state.SetFlag(s, types.FlagMetOldMan)

	tests := []struct {
		turn int
		want string
	}{
		{0, "Again?"}, {1, "Still here?"}, {2, "Again?"},
	}
	for _, tt := range tests {
		s.TurnCount = tt.turn
		r := Converse(sage(), s)
		if r.FirstMeeting || len(r.Lines) != 1 || r.Lines[0] != tt.want {
			t.Errorf("turn %d: reply = %+v, want %q", tt.turn, r, tt.want)
		}
	}
}

func TestConverse_Hints(t *testing.T) {
	s := testState()
	state.SetFlag(s, types.FlagMetOldMan)
	state.AddItem(&s.Player, "hoard", 1)

	r := Converse(sage(), s)
	if len(r.Lines) != 2 || r.Lines[1] != "Hand me that hoard." {
		t.Errorf("lines = %q", r.Lines)
	}

	state.SetFlag(s, types.FlagHoardDelivered)
	r = Converse(sage(), s)
	if len(r.Lines) != 1 {
		t.Errorf("hint should be gone, lines = %q", r.Lines)
	}
}

func TestConverse_Captive(t *testing.T) {
	s := testState()
	npc := captive()

	if Visible(npc, s) {
		t.Error("captive should be hidden before the witch falls")
	}
	state.SetFlag(s, types.FlagWitchDefeated)
	if !Visible(npc, s) {
		t.Error("captive should be visible after the witch falls")
	}

	r := Converse(npc, s)
	if !r.Refused || r.Lines[0] != "She is still bound." {
		t.Errorf("expected refusal, got %+v", r)
	}

	state.SetFlag(s, types.FlagElleFreed)
	r = Converse(npc, s)
	if !r.FirstMeeting || !slices.Equal(r.Lines, []string{"Thank you.", "Something dark remains."}) {
		t.Errorf("first meeting = %+v", r)
	}

	state.SetFlag(s, types.FlagElleMet)
	if r = Converse(npc, s); r.Lines[0] != "We should go." {
		t.Errorf("repeat = %q", r.Lines)
	}

	state.SetFlag(s, types.FlagElleCleansed)
	if r = Converse(npc, s); !slices.Equal(r.Lines, []string{"I am free at last."}) {
		t.Errorf("closing = %q", r.Lines)
	}
}

func TestConverse_NothingToSay(t *testing.T) {
	r := Converse(types.NPCDef{ID: "mute"}, testState())
	if len(r.Lines) != 1 || r.Lines[0] != NothingToSay {
		t.Errorf("lines = %q", r.Lines)
	}
}
