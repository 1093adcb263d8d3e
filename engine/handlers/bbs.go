package handlers

import (
	"strconv"
	"strings"

	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

// InboundDir receives downloaded files.
const InboundDir = `C:\FIDO\INBOUND`

// Tools are the two archives the first act asks for.
var Tools = []string{"tmail", "golded"}

func registerBBS(r *command.Registry[*Env]) {
	r.Register(types.ModeBBSMenu, command.Literal("F"), func(e *Env, _ command.Input) {
		e.Dispatch(effects.SetTerminalMode(types.ModeBBSFiles))
		listFiles(e)
	})
	r.Register(types.ModeBBSMenu, command.Literal("C"), startChat)
	r.Register(types.ModeBBSMenu, command.Literal("CHAT"), startChat)
	r.Register(types.ModeBBSMenu, command.Literal("B"), func(e *Env, _ command.Input) {
		e.Print("")
		e.Print(e.World.BBS.Bulletins...)
	})
	r.Register(types.ModeBBSMenu, command.Literal("M"), func(e *Env, _ command.Input) {
		printMenu(e)
	})
	r.Register(types.ModeBBSMenu, command.Literal("G"), func(e *Env, _ command.Input) {
		e.Printf("Thanks for calling %s! Come back soon.", e.World.BBS.Name)
		hangup(e, "logoff")
		e.Print("NO CARRIER")
	})

	r.Register(types.ModeBBSFiles, command.Literal("L"), func(e *Env, _ command.Input) {
		listFiles(e)
	})
	r.Register(types.ModeBBSFiles, command.Literal("D"), download)
	r.Register(types.ModeBBSFiles, command.Literal("DOWNLOAD"), download)
	r.Register(types.ModeBBSFiles, command.Literal("Q"), func(e *Env, _ command.Input) {
		e.Dispatch(effects.SetTerminalMode(types.ModeBBSMenu))
		printMenu(e)
	})
}

func printMenu(e *Env) {
	e.Print(
		"",
		"=== "+e.World.BBS.Name+" : Main Menu ===",
		" [F] File areas",
		" [C] Chat with sysop",
		" [B] Bulletins",
		" [M] This menu",
		" [G] Goodbye (log off)",
	)
}

func listFiles(e *Env) {
	e.Print("", "=== File area: Fido software ===")
	for i, f := range e.World.BBS.Files {
		e.Printf(" %2d  %-13s %7d  %s", i+1, f.Name, f.Size, f.Description)
	}
	e.Print("", " D <n> download, L list, Q back to menu")
}

func download(e *Env, in command.Input) {
	files := e.World.BBS.Files
	n, err := strconv.Atoi(in.Arg(0))
	if err != nil || n < 1 || n > len(files) {
		e.Print("Invalid file number.")
		return
	}
	f := files[n-1]
	if f.Item != "" && state.HasItem(e.State(), f.Item) {
		e.Printf("You already have %s.", f.Name)
		return
	}
	if !e.begin("download") {
		return
	}

	e.Printf("Sending %s (%d bytes) via Zmodem...", f.Name, f.Size)
	var steps []func()
	for _, pct := range []int{25, 50, 75, 100} {
		steps = append(steps, func() {
			e.Printf("  %3d%%  %s", pct, strings.Repeat("#", pct/5))
		})
	}
	steps = append(steps, func() { finishDownload(e, f) })
	online := func() bool { return e.State().Network.Connected }
	aborted := func() { e.Printf("Transfer aborted: %s (carrier lost)", f.Name) }
	e.stages(downloadStage, guard(online, aborted, steps...)...)
}

func finishDownload(e *Env, f File) {
	path := InboundDir + `\` + f.Name
	if err := writeFile(e, path, "PK\x03\x04 "+f.Description); err != nil {
		e.Printf("Write error: %v", err)
		e.Print("Transfer aborted.")
		return
	}
	e.Printf("Transfer complete: %s", path)

	source := e.World.BBS.Name
	e.Publish(types.EventFileDownloaded, map[string]any{"item": f.Item, "source": source})

	// The inventory update may not be visible yet, so check the union.
	have := map[string]bool{f.Item: true}
	for _, it := range e.State().Player.Inventory {
		have[it] = true
	}
	bothTools := isTool(f.Item)
	for _, t := range Tools {
		bothTools = bothTools && have[t]
	}
	if bothTools {
		e.Publish(types.EventToolsDownloaded, map[string]any{"items": append([]string(nil), Tools...)})
	}
	if f.Item != "" {
		e.Dispatch(effects.AddItem(f.Item))
	}
}

func isTool(item string) bool {
	for _, t := range Tools {
		if t == item {
			return true
		}
	}
	return false
}
