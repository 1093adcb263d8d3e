package command

import "strings"

// commandAliases maps shorthand a 1995 user would type onto the command
// word the handlers register.
var commandAliases = map[string]string{
	// DOS shell
	"LS":    "DIR",
	"CAT":   "TYPE",
	"MKDIR": "MD",
	"CHDIR": "CD",
	"CLEAR": "CLS",
	"?":     "HELP",
	"H":     "HELP",

	// Modem
	"CALL":   "DIAL",
	"ATH":    "HANGUP",
	"ATH0":   "HANGUP",
	"+++ATH": "HANGUP",
	"BYE":    "HANGUP",

	// File transfer
	"DL":  "DOWNLOAD",
	"GET": "DOWNLOAD",

	// Mail tools
	"TRACERT":    "TRACE",
	"TRACEROUTE": "TRACE",
	"GED":        "GOLDED",

	// Meta
	"JOURNAL": "QUESTS",
	"STATS":   "STATUS",
	"Z":       "WAIT",
}

// Normalize trims input, collapses runs of whitespace and expands an alias
// in the command word. Argument case is kept so free text survives.
func Normalize(input string) string {
	words := strings.Fields(input)
	if len(words) == 0 {
		return ""
	}
	if alias, ok := commandAliases[strings.ToUpper(words[0])]; ok {
		words[0] = alias
	}
	return strings.Join(words, " ")
}
