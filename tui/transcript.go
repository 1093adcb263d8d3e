package tui

import "strings"

// rawLine is an unstyled output line. Lines are kept raw so the transcript
// can be re-wrapped when the terminal is resized.
type rawLine struct {
	text   string
	kind   lineKind
	input  bool // echoed command, prompt included
	system bool // meta-command output
}

// transcript is everything printed since the session opened.
type transcript struct {
	lines []rawLine
}

// turn appends one command and its output, followed by a blank separator.
func (t *transcript) turn(input string, out []string, system bool) {
	if input != "" {
		t.lines = append(t.lines, rawLine{text: input, input: true})
	}
	for _, line := range out {
		rl := rawLine{text: line, system: system}
		if !system {
			rl.kind = classifyLine(line)
		}
		t.lines = append(t.lines, rl)
	}
	t.lines = append(t.lines, rawLine{})
}

// staged appends output that arrived after its command, joining it to the
// previous turn.
func (t *transcript) staged(out []string) {
	if n := len(t.lines); n > 0 && t.lines[n-1] == (rawLine{}) {
		t.lines = t.lines[:n-1]
	}
	t.turn("", out, false)
}

func (t *transcript) len() int { return len(t.lines) }

// render wraps and styles the transcript for the given width.
func (t *transcript) render(width int) string {
	if width < 10 {
		width = 10
	}
	styled := make([]string, 0, len(t.lines))
	for _, rl := range t.lines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.input:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.system:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}
	return strings.Join(styled, "\n")
}

// plain returns the unstyled transcript.
func (t *transcript) plain() string {
	var b strings.Builder
	for _, rl := range t.lines {
		b.WriteString(rl.text)
		b.WriteByte('\n')
	}
	return b.String()
}

// wordWrap breaks text at word boundaries to fit width. The leading
// indentation of BBS screens stays on the first line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	body := strings.TrimLeft(text, " ")
	indent := text[:len(text)-len(body)]

	var b strings.Builder
	b.WriteString(indent)
	col := len(indent)
	for i, word := range strings.Fields(body) {
		switch {
		case i == 0:
		case col+1+len(word) > width:
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(word)
		col += len(word)
	}
	return b.String()
}
