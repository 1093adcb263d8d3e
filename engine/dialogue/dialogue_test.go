package dialogue

import (
	"strings"
	"testing"
)

const testYAML = `
dialogues:
  - id: smalltalk
    start: hello
    nodes:
      - id: hello
        speaker: Sysop
        lines: ["Busy. Later."]
  - id: node_offer
    quest: sysop_offer
    start: ask
    nodes:
      - id: ask
        speaker: Sysop
        lines: ["Want a node number?"]
        choices:
          - {text: "Yes", next: accept}
          - {text: "No", next: decline}
      - id: accept
        lines: ["Welcome aboard."]
        on_enter:
          complete: accept
          effects:
            - type: set_flag
              params: {flag: node_assigned, value: true}
      - id: decline
        lines: ["Suit yourself."]
        on_enter:
          complete: decline
`

func TestParseAndForQuest(t *testing.T) {
	set, err := Parse([]byte(testYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tree, ok := set.ForQuest("sysop_offer")
	if !ok || tree.ID != "node_offer" {
		t.Errorf("ForQuest(sysop_offer) = %q %v", tree.ID, ok)
	}
	tree, ok = set.ForQuest("init_modem")
	if !ok || tree.ID != "smalltalk" {
		t.Errorf("fallback = %q %v", tree.ID, ok)
	}
	if _, ok := set.Tree("node_offer"); !ok {
		t.Error("Tree lookup failed")
	}

	hello, _ := tree.Node("hello")
	if hello.Speaker != "Sysop" {
		t.Errorf("Speaker = %q", hello.Speaker)
	}

	offer, _ := set.Tree("node_offer")
	n, _ := offer.Node("accept")
	if n.OnEnter == nil || n.OnEnter.Complete != "accept" || len(n.OnEnter.Effects) != 1 {
		t.Fatalf("OnEnter = %+v", n.OnEnter)
	}
	if eff := n.OnEnter.Effects[0]; eff.Type != "set_flag" || eff.Params["flag"] != "node_assigned" {
		t.Errorf("effect = %+v", eff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad start", "dialogues:\n  - id: a\n    start: x\n    nodes: [{id: y}]\n", "start node"},
		{"dangling choice", "dialogues:\n  - id: a\n    start: y\n    nodes: [{id: y, choices: [{text: go, next: z}]}]\n", "unknown node"},
		{"duplicate", "dialogues:\n  - {id: a, start: y, nodes: [{id: y}]}\n  - {id: a, start: y, nodes: [{id: y}]}\n", "duplicate"},
		{"syntax", "dialogues: [", "parsing dialogues"},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.yaml))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want containing %q", tt.name, err, tt.want)
		}
	}
}

func TestSession(t *testing.T) {
	set, err := Parse([]byte(testYAML))
	if err != nil {
		t.Fatal(err)
	}
	tree, _ := set.Tree("node_offer")
	s := Start(tree)

	if s.Current().ID != "ask" || s.Done() {
		t.Fatalf("start = %q done=%v", s.Current().ID, s.Done())
	}
	if _, ok := s.Choose(3); ok {
		t.Error("choice 3 should be invalid")
	}
	if _, ok := s.Choose(0); ok {
		t.Error("choice 0 should be invalid")
	}
	n, ok := s.Choose(2)
	if !ok || n.ID != "decline" {
		t.Fatalf("Choose(2) = %q %v", n.ID, ok)
	}
	if !s.Done() || s.Step != 1 {
		t.Errorf("Done=%v Step=%d", s.Done(), s.Step)
	}
}
