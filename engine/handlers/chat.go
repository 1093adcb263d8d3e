package handlers

import (
	"fmt"
	"strconv"

	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/dialogue"
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/types"
)

func registerChat(r *command.Registry[*Env]) {
	r.Register(types.ModeBBSChat, command.Re(`^[0-9]+$`), func(e *Env, in command.Input) {
		n, _ := strconv.Atoi(in.Line)
		choose(e, n)
	})
	r.Register(types.ModeBBSChat, command.Literal("Q"), func(e *Env, _ command.Input) {
		e.chat = nil
		e.Print("Chat closed.")
		e.Dispatch(effects.SetTerminalMode(types.ModeBBSMenu))
		printMenu(e)
	})
}

// startChat pages the sysop. The tree depends on the active quest.
func startChat(e *Env, _ command.Input) {
	if e.Dialogues == nil {
		e.Print("The sysop is not available.")
		return
	}
	tree, ok := e.Dialogues.ForQuest(e.State().Quests.Active)
	if !ok {
		e.Print("Paging sysop... no answer.")
		return
	}
	e.chat = dialogue.Start(tree)
	e.Dispatch(effects.SetTerminalMode(types.ModeBBSChat))
	e.Print("", "Paging sysop... CHAT MODE (Q to leave)")
	enterNode(e, e.chat.Current())
}

func choose(e *Env, n int) {
	if e.chat == nil {
		e.Print("The sysop has left the chat. Press Q.")
		return
	}
	next, ok := e.chat.Choose(n)
	if !ok {
		e.Print("Choose one of the numbered answers.")
		return
	}
	enterNode(e, next)
}

func enterNode(e *Env, n dialogue.Node) {
	speaker := n.Speaker
	if speaker == "" {
		speaker = e.World.BBS.Sysop
	}
	e.Print("")
	for _, l := range n.Lines {
		e.Printf("<%s> %s", speaker, l)
	}

	if n.OnEnter != nil {
		if len(n.OnEnter.Effects) > 0 {
			e.Dispatch(n.OnEnter.Effects...)
		}
		if n.OnEnter.Complete != "" {
			e.Publish(types.EventDialogueCompleted, map[string]any{
				"dialogue": e.chat.Tree.ID,
				"choice":   n.OnEnter.Complete,
			})
		}
	}

	if len(n.Choices) == 0 {
		e.Print("", "(end of chat, Q to leave)")
		return
	}
	for i, c := range n.Choices {
		e.Print(fmt.Sprintf(" %d) %s", i+1, c.Text))
	}
}
