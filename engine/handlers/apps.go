package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/quest"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/engine/vfs"
	"github.com/nathoo/fidoquest/types"
)

// OutboundDir collects replies waiting for the next poll.
const OutboundDir = `C:\FIDO\OUTBOUND`

// setupCommands maps a configurator command to the app it edits.
var setupCommands = map[string]string{
	"TMSETUP":  "tmail",
	"GEDSETUP": "golded",
}

func registerApps(r *command.Registry[*Env]) {
	for cmd, app := range setupCommands {
		r.Register(types.ModeIdle, command.Literal(cmd), func(e *Env, in command.Input) {
			setup(e, app, in)
		})
	}
	r.Register(types.ModeIdle, command.Literal("TMAIL"), handleTMail)
	r.Register(types.ModeIdle, command.Literal("GOLDED"), handleGolded)
	r.Register(types.ModeIdle, command.Literal("READ"), handleRead)
	r.Register(types.ModeIdle, command.Literal("REPLY"), handleReply)
	r.Register(types.ModeIdle, command.Literal("POST"), handlePost)
}

func installed(e *Env, name string) (App, bool) {
	app, ok := e.World.Apps[name]
	if !ok || (app.Item != "" && !state.HasItem(e.State(), app.Item)) {
		e.Print("Bad command or file name")
		return App{}, false
	}
	return app, true
}

// configText returns the app's config file, writing the defaults first if
// the file does not exist yet.
func configText(e *Env, app App) (string, error) {
	text, err := e.FS.Cat(app.File)
	if err == nil {
		return text, nil
	}
	text = vfs.FormatKeyValues(app.Header, app.Defaults)
	return text, writeFile(e, app.File, text)
}

// writeFile writes path, creating its directory first.
func writeFile(e *Env, path, text string) error {
	if dir, _, ok := cutLast(path); ok {
		if err := e.FS.CreateDir(dir); err != nil {
			return err
		}
	}
	return e.FS.WriteFile(path, text)
}

func cutLast(path string) (dir, name string, ok bool) {
	i := strings.LastIndex(path, `\`)
	if i < 0 {
		return "", path, false
	}
	return path[:i], path[i+1:], true
}

func setup(e *Env, name string, in command.Input) {
	app, ok := installed(e, name)
	if !ok {
		return
	}
	text, err := configText(e, app)
	if err != nil {
		e.Printf("Write error: %v", err)
		return
	}

	switch {
	case len(in.Fields) == 1:
		e.Printf("=== %s setup: %s ===", app.Name, app.File)
		e.Print(strings.Split(strings.TrimRight(text, "\n"), "\n")...)
		e.Printf("Set a value with %s <KEY> <value>, then %s SAVE.", in.Fields[0], in.Fields[0])

	case in.Arg(0) == "SAVE" && len(in.Fields) == 2:
		saveConfig(e, name, app, text)

	default:
		key, value, _ := strings.Cut(in.Args(), " ")
		value = strings.TrimSpace(value)
		if value == "" {
			usage(e, in.Fields[0]+" <KEY> <value>")
			return
		}
		text = vfs.SetKeyValue(text, key, value)
		if err := e.FS.WriteFile(app.File, text); err != nil {
			e.Printf("Write error: %v", err)
			return
		}
		e.Printf("%s = %s", strings.ToUpper(key), value)
	}
}

// validatorFor finds the validator the active quest asks for when name is
// saved. Quest metadata may name a stricter profile than the app's own.
func validatorFor(e *Env, name string) string {
	q, ok := e.Catalog.QuestByID(e.State().Quests.Active)
	if !ok {
		return name
	}
	for _, s := range q.Steps {
		if s.Event != types.EventConfigSaved || s.Metadata["app"] != name {
			continue
		}
		if v, ok := s.Metadata[quest.KeyValidator].(string); ok && v != "" {
			return v
		}
	}
	return name
}

func saveConfig(e *Env, name string, app App, text string) {
	validator, ok := e.World.Apps[validatorFor(e, name)]
	if !ok {
		validator = app
	}
	if problems := validator.Validate(vfs.ParseKeyValues(text)); len(problems) > 0 {
		e.Printf("%s: configuration has %d error(s):", app.Name, len(problems))
		for _, p := range problems {
			e.Print("  " + p)
		}
		return
	}
	if app.Flag != "" {
		e.Dispatch(effects.SetFlag(app.Flag, true))
	}
	e.Printf("Configuration saved to %s.", app.File)
	e.Publish(types.EventConfigSaved, map[string]any{"app": name, "path": app.File})
}

// mailAct returns the latest act whose mail has been polled, 0 for none.
func mailAct(s *types.State) int {
	latest := 0
	for act := 1; act <= s.GameState.Act; act++ {
		if state.Flag(s, pollFlag(act)) {
			latest = act
		}
	}
	return latest
}

func pollFlag(act int) string {
	return fmt.Sprintf("mail_act%d", act)
}

func handleTMail(e *Env, in command.Input) {
	app, ok := installed(e, "tmail")
	if !ok {
		return
	}
	if in.Arg(0) != "POLL" {
		usage(e, "TMAIL POLL")
		return
	}
	s := e.State()
	if app.Flag != "" && !state.Flag(s, app.Flag) {
		e.Print("T-Mail: no valid configuration. Run TMSETUP first.")
		return
	}
	if s.Network.Connected {
		e.Print("T-Mail: the modem is in use.")
		return
	}
	if !e.begin("mail session") {
		return
	}

	zmh := s.GameState.ZMH
	act := s.GameState.Act
	boss := e.World.BBS.Node
	e.Printf("T-Mail: calling boss node %s...", boss)
	e.stages(mailStage,
		func() { e.Print("CONNECT 14400/ARQ/V42BIS") },
		func() { e.Print("EMSI handshake... session password accepted.") },
		func() {
			count := 0
			for _, a := range e.World.Areas {
				count += len(a.Visible(act))
			}
			e.Printf("Received packet: %d message(s). Tossing...", count)
			e.Dispatch(effects.SetFlag(pollFlag(act), true))
			e.Publish(types.EventMailTossed, map[string]any{"messages": count, "zmh": zmh})
			e.Print("Session complete.")
		},
	)
}

func mailReady(e *Env) bool {
	app, ok := installed(e, "golded")
	if !ok {
		return false
	}
	s := e.State()
	if app.Flag != "" && !state.Flag(s, app.Flag) {
		e.Print("GoldED: GOLDED.CFG is not set up. Run GEDSETUP first.")
		return false
	}
	if mailAct(s) == 0 {
		e.Print("GoldED: no mail. Poll your boss node with TMAIL POLL.")
		return false
	}
	return true
}

func handleGolded(e *Env, in command.Input) {
	if !mailReady(e) {
		return
	}
	act := mailAct(e.State())
	if in.Arg(0) == "" {
		e.Print("=== GoldED 2.50 : areas ===")
		for _, a := range e.World.Areas {
			e.Printf(" %-20s %3d  %s", a.Name, len(a.Visible(act)), a.Title)
		}
		e.Print("GOLDED <area> lists an area, READ <area> <n> reads a message.")
		return
	}
	area, ok := e.World.Area(in.Arg(0))
	if !ok {
		e.Printf("Area %s not found.", in.Arg(0))
		return
	}
	msgs := area.Visible(act)
	e.Printf("=== %s : %s ===", area.Name, area.Title)
	if len(msgs) == 0 {
		e.Print(" (no messages)")
	}
	for i, m := range msgs {
		e.Printf(" %2d  %-18s -> %-12s %s", i+1, m.From, m.To, m.Subject)
	}
}

// message resolves "<area> <n>" arguments.
func message(e *Env, in command.Input) (Area, Message, bool) {
	area, ok := e.World.Area(in.Arg(0))
	if !ok {
		e.Printf("Area %s not found.", in.Arg(0))
		return Area{}, Message{}, false
	}
	msgs := area.Visible(mailAct(e.State()))
	n, err := strconv.Atoi(in.Arg(1))
	if err != nil || n < 1 || n > len(msgs) {
		e.Print("No such message.")
		return Area{}, Message{}, false
	}
	return area, msgs[n-1], true
}

func handleRead(e *Env, in command.Input) {
	if !mailReady(e) {
		return
	}
	if in.Arg(1) == "" {
		usage(e, "READ <area> <n>")
		return
	}
	area, m, ok := message(e, in)
	if !ok {
		return
	}
	e.Print(
		"",
		"Area: "+area.Name,
		"From: "+m.From,
		"To  : "+m.To,
		"Subj: "+m.Subject,
		strings.Repeat("-", 60),
	)
	e.Print(m.Body...)
	e.Publish(types.EventMessageRead, map[string]any{
		"area":          area.Name,
		"subj_contains": m.Subject,
		"from":          m.From,
	})
}

func handleReply(e *Env, in command.Input) {
	if !mailReady(e) {
		return
	}
	words := strings.Fields(in.Args())
	if len(words) < 3 {
		usage(e, "REPLY <area> <n> <text>")
		return
	}
	area, m, ok := message(e, in)
	if !ok {
		return
	}
	post(e, area, m.From, "Re: "+m.Subject, strings.Join(words[2:], " "))
}

func handlePost(e *Env, in command.Input) {
	if !mailReady(e) {
		return
	}
	words := strings.Fields(in.Args())
	if len(words) < 2 {
		usage(e, "POST <area> <text>")
		return
	}
	area, ok := e.World.Area(words[0])
	if !ok {
		e.Printf("Area %s not found.", words[0])
		return
	}
	post(e, area, "All", "Hello", strings.Join(words[1:], " "))
}

func post(e *Env, area Area, to, subject, text string) {
	path := OutboundDir + `\` + strings.ReplaceAll(area.Name, ".", "_") + ".MSG"
	prev, _ := e.FS.Cat(path)
	if err := writeFile(e, path, prev+fmt.Sprintf("To: %s\nSubj: %s\n\n%s\n---\n", to, subject, text)); err != nil {
		e.Printf("Write error: %v", err)
		return
	}

	e.Printf("Message to %s saved in %s. It goes out with the next poll.", to, area.Name)
	e.Publish(types.EventMessagePosted, map[string]any{"area": area.Name, "to": to})
}
