package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI. Colors follow a 16-color DOS palette.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("4")).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	styleStatusAlert = lipgloss.NewStyle().
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("11")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	styleAlert = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	styleChat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Bold(true)

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindAlert
	kindHeader
	kindChat
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "***"):
		return kindAlert
	case strings.HasPrefix(line, "==="):
		return kindHeader
	case isChatLine(line):
		return kindChat
	case line == "Bad command or file name",
		line == "NO CARRIER",
		strings.HasPrefix(line, "Usage: "),
		strings.HasPrefix(line, "Invalid "):
		return kindError
	default:
		return kindText
	}
}

// isChatLine matches "<Speaker> text".
func isChatLine(line string) bool {
	if !strings.HasPrefix(line, "<") {
		return false
	}
	end := strings.Index(line, "> ")
	return end > 1 && !strings.ContainsAny(line[1:end], "<>")
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindAlert:
		return styleAlert.Render(line)
	case kindHeader:
		return styleHeader.Render(line)
	case kindChat:
		return styleChat.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleText.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
