// Package dialogue implements the sysop chat trees.
//
// A tree is a set of nodes joined by numbered choices. Which tree a chat
// opens with depends on the active quest, so the same sysop says different
// things as the story moves on.
package dialogue

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/fidoquest/types"
)

// Choice is one numbered answer.
type Choice struct {
	Text string `yaml:"text"`
	Next string `yaml:"next"`
}

// OnEnter runs when a node is entered.
type OnEnter struct {
	Effects []types.Effect `yaml:"effects"`
	// Complete, when set, is published as the choice of a finished dialogue.
	Complete string `yaml:"complete"`
}

// Node is one exchange in a tree.
type Node struct {
	ID      string   `yaml:"id"`
	Speaker string   `yaml:"speaker"`
	Lines   []string `yaml:"lines"`
	Choices []Choice `yaml:"choices"`
	OnEnter *OnEnter `yaml:"on_enter"`
}

// Tree is a dialogue for one topic.
type Tree struct {
	ID string `yaml:"id"`
	// Quest selects the tree while that quest is active. Empty means the
	// fallback tree.
	Quest string `yaml:"quest"`
	Start string `yaml:"start"`
	Nodes []Node `yaml:"nodes"`
}

// Node looks up a node by id.
func (t Tree) Node(id string) (Node, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Set is every tree loaded from content.
type Set struct {
	Trees []Tree `yaml:"dialogues"`
}

// Parse decodes a YAML dialogue file and checks node references.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing dialogues: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Set) validate() error {
	seen := map[string]bool{}
	for _, t := range s.Trees {
		if t.ID == "" {
			return fmt.Errorf("dialogue missing id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate dialogue %q", t.ID)
		}
		seen[t.ID] = true
		if _, ok := t.Node(t.Start); !ok {
			return fmt.Errorf("dialogue %q: start node %q not found", t.ID, t.Start)
		}
		for _, n := range t.Nodes {
			for i, c := range n.Choices {
				if _, ok := t.Node(c.Next); !ok {
					return fmt.Errorf("dialogue %q node %q choice %d: unknown node %q", t.ID, n.ID, i+1, c.Next)
				}
			}
		}
	}
	return nil
}

// ForQuest returns the tree for the active quest, falling back to the
// tree with no quest.
func (s *Set) ForQuest(activeQuest string) (Tree, bool) {
	var fallback *Tree
	for i, t := range s.Trees {
		if activeQuest != "" && t.Quest == activeQuest {
			return t, true
		}
		if t.Quest == "" && fallback == nil {
			fallback = &s.Trees[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Tree{}, false
}

// Tree returns a tree by id.
func (s *Set) Tree(id string) (Tree, bool) {
	for _, t := range s.Trees {
		if t.ID == id {
			return t, true
		}
	}
	return Tree{}, false
}

// Session tracks the player's position in one tree.
type Session struct {
	Tree Tree
	Step int // number of choices made
	node Node
}

// Start opens a session at the tree's start node.
func Start(t Tree) *Session {
	n, _ := t.Node(t.Start)
	return &Session{Tree: t, node: n}
}

// Current returns the node the player is at.
func (s *Session) Current() Node {
	return s.node
}

// Done reports whether the current node offers no further choices.
func (s *Session) Done() bool {
	return len(s.node.Choices) == 0
}

// Choose follows the 1-based choice n. It returns false for an invalid
// choice and leaves the session where it was.
func (s *Session) Choose(n int) (Node, bool) {
	if n < 1 || n > len(s.node.Choices) {
		return Node{}, false
	}
	next, ok := s.Tree.Node(s.node.Choices[n-1].Next)
	if !ok {
		return Node{}, false
	}
	s.node = next
	s.Step++
	return next, true
}
