package journal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/nathoo/fidoquest/engine/clock"
	"github.com/nathoo/fidoquest/engine/quest"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

// Timeline events worth a line in the quest log.
var milestones = map[string]bool{
	types.EventBBSConnected:   true,
	types.EventQuestCompleted: true,
	types.EventActChanged:     true,
	types.EventBillIssued:     true,
	types.EventGameOver:       true,
	types.EventRandom:         true,
	types.EventFileDownloaded: true,
	types.EventMessagePosted:  true,
}

// QuestLog renders the player's progress as Markdown. entries may be nil.
func QuestLog(s *types.State, c *quest.Catalog, entries []Entry) []byte {
	var b bytes.Buffer
	gs := s.GameState
	st := s.Player.Stats

	fmt.Fprintf(&b, "# FidoNet quest log\n\n")
	fmt.Fprintf(&b, "Day %d, %s, act %d.\n\n", gs.Day, clock.FormatTime(gs.TimeMinutes), gs.Act)
	fmt.Fprintf(&b, "| Sanity | Atmosphere | Money | Debt |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | $%d | $%d |\n\n", st.Sanity, st.Atmosphere, st.Money, st.Debt)
	if gs.GameOver {
		fmt.Fprintf(&b, "**Game over:** %s\n\n", gs.GameOverReason)
	}

	if q, ok := c.QuestByID(s.Quests.Active); ok {
		fmt.Fprintf(&b, "## Current quest: %s\n\n", q.Title)
		if q.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", q.Description)
		}
		for _, step := range quest.EventSteps(q) {
			mark := " "
			if state.StepDone(s, q.ID, step.ID) {
				mark = "x"
			}
			text := step.Description
			if text == "" {
				text = step.ID
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, text)
		}
		b.WriteString("\n")
	}

	if len(s.Quests.Completed) > 0 {
		b.WriteString("## Completed\n\n")
		for i, id := range s.Quests.Completed {
			title := id
			if q, ok := c.QuestByID(id); ok {
				title = fmt.Sprintf("%s (act %d)", q.Title, q.Act)
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		}
		b.WriteString("\n")
	}

	if len(s.Player.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		names := make([]string, 0, len(s.Player.Skills))
		for k := range s.Player.Skills {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(&b, "- %s: %d\n", k, s.Player.Skills[k])
		}
		b.WriteString("\n")
	}

	var timeline []string
	for _, e := range entries {
		if milestones[e.Type] {
			timeline = append(timeline, fmt.Sprintf("- Day %d %s: %s",
				e.Day, clock.FormatTime(e.Minutes), describe(e, c)))
		}
	}
	if len(timeline) > 0 {
		b.WriteString("## Timeline\n\n")
		b.WriteString(strings.Join(timeline, "\n"))
		b.WriteString("\n")
	}
	return b.Bytes()
}

func describe(e Entry, c *quest.Catalog) string {
	str := func(k string) string {
		v, _ := e.Data[k].(string)
		return v
	}
	switch e.Type {
	case types.EventBBSConnected:
		return "connected to " + str("bbs")
	case types.EventQuestCompleted:
		if q, ok := c.QuestByID(str("questId")); ok {
			return "completed *" + q.Title + "*"
		}
		return "completed " + str("questId")
	case types.EventActChanged:
		return fmt.Sprintf("act %v begins", e.Data["act"])
	case types.EventBillIssued:
		return fmt.Sprintf("phone bill of $%v", e.Data["amount"])
	case types.EventGameOver:
		return "game over (" + str("reason") + ")"
	case types.EventRandom:
		return "random event `" + str("id") + "`"
	case types.EventFileDownloaded:
		return "downloaded " + str("item")
	case types.EventMessagePosted:
		return "posted in " + str("area")
	}
	return e.Type
}

// HTML renders Markdown as a standalone page.
func HTML(md []byte) ([]byte, error) {
	conv := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)
	var body bytes.Buffer
	if err := conv.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("rendering quest log: %w", err)
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>FidoNet quest log</title></head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

// Export writes the quest log to path. A .html or .htm path gets HTML,
// anything else Markdown.
func Export(path string, s *types.State, c *quest.Catalog, entries []Entry) error {
	out := QuestLog(s, c, entries)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		var err error
		if out, err = HTML(out); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing quest log: %w", err)
	}
	return nil
}
