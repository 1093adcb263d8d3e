package command

import (
	"reflect"
	"testing"

	"github.com/nathoo/fidoquest/types"
)

type calls struct {
	names []string
	last  Input
}

func record(name string) Handler[*calls] {
	return func(c *calls, in Input) {
		c.names = append(c.names, name)
		c.last = in
	}
}

func newTestRegistry() *Registry[*calls] {
	return NewRegistry[*calls](types.ModeIdle, types.ModeBBSMenu, types.ModeBBSFiles, types.ModeBBSChat)
}

func TestExecute_LiteralMatching(t *testing.T) {
	tests := []struct {
		cmd  string
		want bool
	}{
		{"dial", true},
		{"DIAL 555-1995", true},
		{"  dial   555  ", true},
		{"DIALX", false},
		{"DI", false},
		{"", false},
	}
	for _, tt := range tests {
		r := newTestRegistry()
		r.Register(types.ModeIdle, Literal("DIAL"), record("dial"))
		c := &calls{}
		if got := r.Execute(types.ModeIdle, tt.cmd, c); got != tt.want {
			t.Errorf("Execute(%q) = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestExecute_InputShape(t *testing.T) {
	r := newTestRegistry()
	r.Register(types.ModeBBSChat, Literal("SAY"), record("say"))
	c := &calls{}

	r.Execute(types.ModeBBSChat, "  say Hello World  ", c)

	if c.last.Raw != "say Hello World" {
		t.Errorf("Raw = %q", c.last.Raw)
	}
	if c.last.Line != "SAY HELLO WORLD" {
		t.Errorf("Line = %q", c.last.Line)
	}
	if c.last.Args() != "Hello World" {
		t.Errorf("Args = %q", c.last.Args())
	}
	if c.last.Arg(0) != "HELLO" || c.last.Arg(1) != "WORLD" || c.last.Arg(2) != "" {
		t.Errorf("Arg = %q %q %q", c.last.Arg(0), c.last.Arg(1), c.last.Arg(2))
	}
}

func TestExecute_Regexp(t *testing.T) {
	r := newTestRegistry()
	r.Register(types.ModeIdle, Re(`^ATDT\s*([0-9-]+)$`), record("atdt"))
	c := &calls{}

	if !r.Execute(types.ModeIdle, "atdt555-1995", c) {
		t.Fatal("regexp did not match")
	}
	if len(c.last.Groups) != 2 || c.last.Groups[1] != "555-1995" {
		t.Errorf("Groups = %v", c.last.Groups)
	}
	if r.Execute(types.ModeIdle, "ATDT", c) {
		t.Error("ATDT without number should not match")
	}
}

func TestExecute_GlobalBeforeMode(t *testing.T) {
	r := newTestRegistry()
	r.Register(types.ModeBBSMenu, Literal("HELP"), record("menu-help"))
	r.RegisterGlobal(Literal("HELP"), record("global-help"))
	c := &calls{}

	r.Execute(types.ModeBBSMenu, "help", c)
	if !reflect.DeepEqual(c.names, []string{"global-help"}) {
		t.Errorf("called %v", c.names)
	}
}

func TestExecute_FirstMatchWinsAndModeScope(t *testing.T) {
	r := newTestRegistry()
	r.Register(types.ModeBBSFiles, Literal("D"), record("first"))
	r.Register(types.ModeBBSFiles, Re(`^D\b`), record("second"))
	c := &calls{}

	r.Execute(types.ModeBBSFiles, "D 1", c)
	if !reflect.DeepEqual(c.names, []string{"first"}) {
		t.Errorf("called %v", c.names)
	}
	if r.Execute(types.ModeBBSMenu, "D 1", c) {
		t.Error("files handler ran in menu mode")
	}
}

func TestRegister_UnknownModePanics(t *testing.T) {
	r := NewRegistry[*calls](types.ModeIdle)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown mode")
		}
	}()
	r.Register(types.ModeBBSChat, Literal("Q"), record("q"))
}

func TestPatterns(t *testing.T) {
	r := newTestRegistry()
	r.RegisterGlobal(Literal("CLS"), record("cls"))
	r.Register(types.ModeIdle, Literal("DIAL"), record("dial"))
	r.Register(types.ModeBBSMenu, Literal("F"), record("f"))

	if got := r.Patterns(types.ModeIdle); !reflect.DeepEqual(got, []string{"CLS", "DIAL"}) {
		t.Errorf("Patterns = %v", got)
	}
}
