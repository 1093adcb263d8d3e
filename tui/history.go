package tui

import "strings"

// History is the DOSKEY-style command recall buffer.
type History struct {
	entries []string
	max     int
	pos     int // len(entries) when not recalling
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	return &History{entries: make([]string, 0, max), max: max}
}

// Add records cmd. Repeating the previous command, in any letter case,
// does not add an entry.
func (h *History) Add(cmd string) {
	if n := len(h.entries); n > 0 && strings.EqualFold(h.entries[n-1], cmd) {
		h.pos = n
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.pos = len(h.entries)
}

// Older steps back one command. It stops at the oldest and reports false
// only when the history is empty.
func (h *History) Older() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Newer steps forward one command. Stepping past the newest returns
// false and ends recall.
func (h *History) Newer() (string, bool) {
	if h.pos >= len(h.entries)-1 {
		h.pos = len(h.entries)
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Reset ends recall.
func (h *History) Reset() {
	h.pos = len(h.entries)
}
