// Package content bundles the game's quests, world and sysop dialogues.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/nathoo/fidoquest/engine"
	"github.com/nathoo/fidoquest/engine/dialogue"
	"github.com/nathoo/fidoquest/engine/handlers"
	"github.com/nathoo/fidoquest/loader"
)

//go:embed quests/*.lua world.yaml dialogues.yaml
var bundled embed.FS

// Options selects where content comes from and how strictly it is checked.
type Options struct {
	// Dir replaces the bundled content with a directory of the same layout.
	Dir    string
	Dev    bool
	Logger *log.Logger
}

// FS returns the content file system for opts.
func FS(opts Options) fs.FS {
	if opts.Dir != "" {
		return os.DirFS(opts.Dir)
	}
	return bundled
}

// Load reads and validates all content.
func Load(opts Options) (engine.Content, error) {
	return LoadFS(FS(opts), loader.Options{Dev: opts.Dev, Logger: opts.Logger})
}

// LoadFS reads content from fsys: quests/*.lua, world.yaml, dialogues.yaml.
func LoadFS(fsys fs.FS, opts loader.Options) (engine.Content, error) {
	questFS, err := fs.Sub(fsys, "quests")
	if err != nil {
		return engine.Content{}, fmt.Errorf("content: %w", err)
	}
	quests, err := loader.Load(questFS, opts)
	if err != nil {
		return engine.Content{}, fmt.Errorf("content: quests: %w", err)
	}

	data, err := fs.ReadFile(fsys, "world.yaml")
	if err != nil {
		return engine.Content{}, fmt.Errorf("content: %w", err)
	}
	world, err := handlers.ParseWorld(data)
	if err != nil {
		return engine.Content{}, fmt.Errorf("content: %w", err)
	}

	data, err = fs.ReadFile(fsys, "dialogues.yaml")
	if err != nil {
		return engine.Content{}, fmt.Errorf("content: %w", err)
	}
	dialogues, err := dialogue.Parse(data)
	if err != nil {
		return engine.Content{}, fmt.Errorf("content: %w", err)
	}

	return engine.Content{Quests: quests, World: world, Dialogues: dialogues}, nil
}
