// Package tui provides the full-screen Bubble Tea front-end for byteworld.
package tui

// History keeps recently submitted commands for Up/Down recall. A command
// that is entered again moves to the newest slot instead of being stored
// twice, and the line being typed when browsing starts is kept as a draft.
type History struct {
	entries []string
	limit   int
	cursor  int // -1 while not browsing
	draft   string
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
		cursor:  -1,
	}
}

// Push records cmd as the newest entry.
func (h *History) Push(cmd string) {
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.Reset()
}

// Prev steps to an older entry. current is the text in the input box; it is
// saved as the draft when browsing starts.
func (h *History) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.draft = current
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps to a newer entry. Stepping past the newest returns the draft
// and ends browsing.
func (h *History) Next() string {
	if h.cursor == -1 {
		return h.draft
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		draft := h.draft
		h.Reset()
		return draft
	}
	return h.entries[h.cursor]
}

// Browsing reports whether Up has been pressed since the last Push or Reset.
func (h *History) Browsing() bool {
	return h.cursor != -1
}

// Reset ends browsing and forgets the draft.
func (h *History) Reset() {
	h.cursor = -1
	h.draft = ""
}
