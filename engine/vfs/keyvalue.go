package vfs

import (
	"sort"
	"strings"
)

// ParseKeyValues reads KEY value lines. Blank lines and lines starting with
// ';' are skipped. Keys are upper-cased; the last occurrence wins.
func ParseKeyValues(text string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		key, value := splitKey(line)
		out[strings.ToUpper(key)] = value
	}
	return out
}

// SetKeyValue rewrites or appends the line for key, keeping comments and
// the order of other lines.
func SetKeyValue(text, key, value string) string {
	key = strings.ToUpper(key)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		k, _ := splitKey(trimmed)
		if strings.ToUpper(k) == key {
			lines[i] = key + " " + value
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, key+" "+value)
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatKeyValues renders values sorted by key, after an optional header
// comment.
func FormatKeyValues(header string, values map[string]string) string {
	var b strings.Builder
	if header != "" {
		b.WriteString("; " + header + "\n")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k + " " + values[k] + "\n")
	}
	return b.String()
}

func splitKey(line string) (key, value string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
