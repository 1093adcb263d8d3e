package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/fidoquest/content"
	"github.com/nathoo/fidoquest/engine"
	"github.com/nathoo/fidoquest/engine/random"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	c, err := content.Load(content.Options{Dev: true})
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}
	eng, err := engine.New(c, engine.Options{
		Seed:   7,
		Events: []random.Event{},
		Now:    func() time.Time { return time.Date(1995, 10, 5, 21, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := New(newTestEngine(t), t.TempDir())
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func run(c *CLI) {
	c.Run(context.Background())
}

func TestCLI_BannerAndPrompt(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Starting MS-DOS...") {
		t.Error("expected boot banner")
	}
	if !strings.Contains(output, "Quest: Wake the modem") {
		t.Error("expected the opening quest in the banner")
	}
	if !strings.Contains(output, `C:\>`) {
		t.Errorf("expected DOS prompt, got:\n%s", output)
	}
}

func TestCLI_BasicGameplay(t *testing.T) {
	c, out := newTestCLI(t, "TERMINAL\nATZ\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "OK") {
		t.Error("expected modem reply")
	}
	if !strings.Contains(output, "*** QUEST COMPLETE: Wake the modem ***") {
		t.Errorf("expected quest completion, got:\n%s", output)
	}
	if got := c.Engine.State().Quests.Active; got != "first_connect" {
		t.Errorf("active quest = %q", got)
	}
}

func TestCLI_UnknownGameCommand(t *testing.T) {
	c, out := newTestCLI(t, "FROBNICATE\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Bad command or file name") {
		t.Error("expected DOS error for unknown command")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	run(c)

	output := out.String()
	for _, want := range []string{"/save", "/load", "/quit", "again"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	eng := newTestEngine(t)
	var out bytes.Buffer
	c := New(eng, dir)
	c.In = strings.NewReader("TERMINAL\nATZ\n/save test\n/quit\n")
	c.Out = &out
	run(c)

	if !strings.Contains(out.String(), "Game saved to test.") {
		t.Fatalf("expected save confirmation, got:\n%s", out.String())
	}

	eng2 := newTestEngine(t)
	var out2 bytes.Buffer
	c2 := New(eng2, dir)
	c2.In = strings.NewReader("/load test\n/quit\n")
	c2.Out = &out2
	run(c2)

	if !strings.Contains(out2.String(), "Game loaded from test (day 1,") {
		t.Errorf("expected load confirmation, got:\n%s", out2.String())
	}
	if got := eng2.State().Quests.Active; got != "first_connect" {
		t.Errorf("loaded quest = %q, want first_connect", got)
	}
	if eng2.Session() != eng.Session() {
		t.Error("session id should come from the save")
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "TERMINAL\n/trace\nATZ\n/trace\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") || !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace toggle messages")
	}
	if !strings.Contains(output, "[trace] MODEM_INITIALIZED") {
		t.Errorf("expected traced event, got:\n%s", output)
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "[Day 1 21:00 (day), act 1]") {
		t.Errorf("expected clock in state output, got:\n%s", output)
	}
	if !strings.Contains(output, "[Quest: init_modem]") {
		t.Error("expected active quest in state output")
	}
}

func TestCLI_CommentsAndEcho(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\n\nTERMINAL\n/quit\n")
	c.EchoInput = true
	run(c)

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, `C:\>TERMINAL`) {
		t.Errorf("expected echoed input after the prompt, got:\n%s", output)
	}
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "again\nFROBNICATE\nagain\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
	if n := strings.Count(output, "Bad command or file name"); n != 2 {
		t.Errorf("expected the repeated command to run twice, got %d", n)
	}
}
