// Package cli runs a fidoquest session on a plain line-oriented terminal
// and provides the meta-commands every front end shares.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/fidoquest/engine"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Meta      *Meta
	EchoInput bool // echo each input line after the prompt (for script playback)

	lastCmd string
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, saveDir string) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		Meta:   &Meta{Engine: eng, SaveDir: saveDir, Trace: NewTracer(eng.Bus)},
	}
}

// SetTrace turns event tracing on or off.
func (c *CLI) SetTrace(on bool) {
	c.Meta.Trace.On = on
}

// Run shows the boot screen, then loops: prompt, input, dispatch, output.
// Staged sequences such as dialing run to completion before the next
// prompt. It returns at end of input, on /quit, or when ctx is done.
func (c *CLI) Run(ctx context.Context) {
	c.printLines(c.Engine.Banner())

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print(c.Engine.Prompt())
		if !scanner.Scan() {
			c.printLine("")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		// Blank and comment lines (for script files) are skipped.
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if IsMeta(input) {
			r := c.Meta.Handle(input)
			if r.Raw {
				c.printLines(r.Lines)
			} else {
				for _, line := range r.Lines {
					c.printSystem(line)
				}
			}
			if r.Quit {
				return
			}
			continue
		}

		// No one-letter alias for "again": G is the BBS logoff key.
		if strings.EqualFold(input, "again") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Execute(ctx, input)
		c.printLines(result.Output)
		c.printLines(c.Engine.Drain())
		c.printLines(c.Meta.Trace.Take())
	}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
