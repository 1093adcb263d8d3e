package cli

import (
	"strings"
	"testing"
)

func TestMeta_Handle(t *testing.T) {
	eng := newTestEngine(t)
	m := &Meta{Engine: eng, SaveDir: t.TempDir(), Trace: NewTracer(eng.Bus), Help: []string{"F1 for help"}}

	tests := []struct {
		input  string
		want   string
		raw    bool
		quit   bool
		loaded bool
	}{
		{"/load", "Load failed", false, false, false},
		{"/save", "Game saved to quicksave.", false, false, false},
		{"/load", "Game loaded from quicksave (day 1, 21:00).", false, false, true},
		{"/SAVE slot2", "Game saved to slot2.", false, false, false},
		{"/help", "F1 for help", true, false, false},
		{"/state", "Mode: IDLE", false, false, false},
		{"/trace", "Trace output enabled.", false, false, false},
		{"/nope", "Unknown command: /nope", false, false, false},
		{"/exit", "Goodbye.", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := m.Handle(tt.input)
			joined := strings.Join(r.Lines, "\n")
			if !strings.Contains(joined, tt.want) {
				t.Errorf("lines = %q, want containing %q", joined, tt.want)
			}
			if r.Raw != tt.raw || r.Quit != tt.quit || r.Loaded != tt.loaded {
				t.Errorf("result = %+v", r)
			}
		})
	}
	if !m.Trace.On {
		t.Error("trace should be on")
	}
}

func TestTracer(t *testing.T) {
	eng := newTestEngine(t)
	tr := NewTracer(eng.Bus)

	eng.Bus.Publish("PING", nil)
	if got := tr.Take(); len(got) != 0 {
		t.Errorf("disabled tracer buffered %v", got)
	}
	tr.On = true
	eng.Bus.Publish("PING", map[string]any{"n": 1})
	got := tr.Take()
	if len(got) != 1 || got[0] != "[trace] PING map[n:1]" {
		t.Errorf("Take = %q", got)
	}
	if len(tr.Take()) != 0 {
		t.Error("Take should clear the buffer")
	}
}

func TestIsMeta(t *testing.T) {
	if !IsMeta("/save") || IsMeta("SAVE") || IsMeta("") {
		t.Error("IsMeta misclassifies input")
	}
}
