// Package command maps raw command lines to handlers, keyed by terminal mode.
package command

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nathoo/fidoquest/types"
)

// Input is a command line as seen by a handler.
type Input struct {
	// Raw is the trimmed line in its original case.
	Raw string
	// Line is Raw upper-cased; patterns match against it.
	Line string
	// Fields are the whitespace-separated words of Line.
	Fields []string
	// Groups holds regexp submatches, nil for literal patterns.
	Groups []string
}

// Args returns the raw text after the first word, case preserved.
func (in Input) Args() string {
	_, rest, _ := strings.Cut(in.Raw, " ")
	return strings.TrimSpace(rest)
}

// Arg returns the i-th upper-cased argument after the command word, or "".
func (in Input) Arg(i int) string {
	if i+1 < len(in.Fields) {
		return in.Fields[i+1]
	}
	return ""
}

// Pattern decides whether a normalized command line selects a handler.
type Pattern interface {
	Match(line string) (groups []string, ok bool)
	String() string
}

// Literal matches the exact word(s) or the word(s) followed by arguments.
type Literal string

func (l Literal) Match(line string) ([]string, bool) {
	p := strings.ToUpper(string(l))
	if line == p || strings.HasPrefix(line, p+" ") {
		return nil, true
	}
	return nil, false
}

func (l Literal) String() string { return string(l) }

// Regexp matches with a compiled expression against the upper-cased line.
type Regexp struct {
	re *regexp.Regexp
}

// Re compiles expr. It panics on a bad expression.
func Re(expr string) Regexp {
	return Regexp{re: regexp.MustCompile(expr)}
}

func (r Regexp) Match(line string) ([]string, bool) {
	m := r.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return m, true
}

func (r Regexp) String() string { return r.re.String() }

// Handler runs one command against a context.
type Handler[C any] func(ctx C, in Input)

type entry[C any] struct {
	pattern Pattern
	handler Handler[C]
}

// Registry holds global and per-mode handlers.
//
// Dispatch rules:
//   - global handlers first, in registration order
//   - then handlers of the current mode, in registration order
//   - first match wins
type Registry[C any] struct {
	global []entry[C]
	modes  map[types.TerminalMode][]entry[C]
}

// NewRegistry creates a registry that accepts handlers for the given modes.
func NewRegistry[C any](modes ...types.TerminalMode) *Registry[C] {
	r := &Registry[C]{modes: make(map[types.TerminalMode][]entry[C], len(modes))}
	for _, m := range modes {
		r.modes[m] = nil
	}
	return r
}

// Register adds a mode-scoped handler. Registering to an unknown mode is a
// programming error and panics.
func (r *Registry[C]) Register(mode types.TerminalMode, p Pattern, h Handler[C]) {
	list, ok := r.modes[mode]
	if !ok {
		panic(fmt.Sprintf("command: register %q: unknown mode %q", p, mode))
	}
	r.modes[mode] = append(list, entry[C]{pattern: p, handler: h})
}

// RegisterGlobal adds a handler that is tried in every mode.
func (r *Registry[C]) RegisterGlobal(p Pattern, h Handler[C]) {
	r.global = append(r.global, entry[C]{pattern: p, handler: h})
}

// Execute normalizes command and runs the first matching handler. It reports
// false when nothing matched.
func (r *Registry[C]) Execute(mode types.TerminalMode, command string, ctx C) bool {
	raw := strings.TrimSpace(command)
	line := strings.ToUpper(raw)
	if line == "" {
		return false
	}
	if r.run(r.global, raw, line, ctx) {
		return true
	}
	return r.run(r.modes[mode], raw, line, ctx)
}

func (r *Registry[C]) run(list []entry[C], raw, line string, ctx C) bool {
	for _, e := range list {
		groups, ok := e.pattern.Match(line)
		if !ok {
			continue
		}
		e.handler(ctx, Input{
			Raw:    raw,
			Line:   line,
			Fields: strings.Fields(line),
			Groups: groups,
		})
		return true
	}
	return false
}

// Patterns lists the patterns registered for mode, globals first. Used for
// help screens.
func (r *Registry[C]) Patterns(mode types.TerminalMode) []string {
	var out []string
	for _, e := range r.global {
		out = append(out, e.pattern.String())
	}
	for _, e := range r.modes[mode] {
		out = append(out, e.pattern.String())
	}
	return out
}
