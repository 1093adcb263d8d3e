// Package config holds the runtime settings of the fidoquest binary: a YAML
// file, overridden by command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/fidoquest/engine/clock"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/observability"
)

// DefaultFile is read when no -config flag is given. It may be absent.
const DefaultFile = "fidoquest.yaml"

// Config is the full set of settings.
type Config struct {
	// Dev makes content validation failures fatal.
	Dev bool `yaml:"dev"`
	// Seed for random events; 0 picks one per session.
	Seed int64 `yaml:"seed"`
	// ContentDir replaces the bundled quests, world and dialogues.
	ContentDir string `yaml:"content_dir"`
	SaveDir    string `yaml:"save_dir"`
	// LogFile receives the diagnostic log. Empty means stderr in plain
	// mode and no log under the full-screen terminal.
	LogFile string `yaml:"log_file"`
	// Journal is the SQLite event journal path. Empty disables it.
	Journal string `yaml:"journal"`
	Plain   bool   `yaml:"plain"`

	Start   Start                `yaml:"start"`
	Tracing observability.Config `yaml:"tracing"`
}

// Start is the opening position of a new game.
type Start struct {
	Day        int    `yaml:"day"`
	Time       string `yaml:"time"` // HH:MM
	Money      int    `yaml:"money"`
	Sanity     int    `yaml:"sanity"`
	Atmosphere int    `yaml:"atmosphere"`
}

// Default returns the built-in settings.
func Default() Config {
	def := state.DefaultStart("")
	home, _ := os.UserHomeDir()
	return Config{
		SaveDir: filepath.Join(home, ".fidoquest", "saves"),
		Start: Start{
			Day:        def.Day,
			Time:       clock.FormatTime(def.TimeMinutes),
			Money:      def.Money,
			Sanity:     def.Sanity,
			Atmosphere: def.Atmosphere,
		},
		Tracing: observability.DefaultConfig(),
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the engine cannot repair.
func (c Config) Validate() error {
	if c.Start.Day < 1 {
		return fmt.Errorf("start.day must be 1 or greater")
	}
	if _, err := clock.ParseTime(c.Start.Time); err != nil {
		return fmt.Errorf("start.time: %w", err)
	}
	if c.SaveDir == "" {
		return fmt.Errorf("save_dir is required")
	}
	return nil
}

// StartState converts the start block for the engine. The quest is left
// empty so the session opens on the first quest.
func (c Config) StartState() state.Start {
	minutes, err := clock.ParseTime(c.Start.Time)
	if err != nil {
		minutes = state.DefaultStart("").TimeMinutes
	}
	return state.Start{
		Day:         c.Start.Day,
		TimeMinutes: minutes,
		Money:       c.Start.Money,
		Sanity:      c.Start.Sanity,
		Atmosphere:  c.Start.Atmosphere,
	}
}

// Flags are the command-line options that do not live in the file.
type Flags struct {
	ConfigFile    string
	Version       bool
	Script        string
	ExportJournal string
	Trace         bool
}

// Parse reads the config file named by -config (or DefaultFile) and
// applies the remaining flags on top of it.
func Parse(args []string, stderr io.Writer) (Config, Flags, error) {
	var f Flags
	fset := flag.NewFlagSet("fidoquest", flag.ContinueOnError)
	fset.SetOutput(stderr)

	fset.StringVar(&f.ConfigFile, "config", "", "YAML config file (default "+DefaultFile+" if present)")
	fset.BoolVar(&f.Version, "version", false, "print the version and exit")
	fset.StringVar(&f.Script, "script", "", "play commands from a file, echoing them")
	fset.StringVar(&f.ExportJournal, "export-journal", "", "write the quest journal of the quicksave to this .md or .html file and exit")
	fset.BoolVar(&f.Trace, "trace", false, "print every domain event (plain mode)")

	dev := fset.Bool("dev", false, "fail on content validation errors")
	plain := fset.Bool("plain", false, "line-based output instead of the full-screen terminal")
	seed := fset.Int64("seed", 0, "random event seed")
	contentDir := fset.String("content", "", "content directory replacing the bundled game")
	saveDir := fset.String("saves", "", "save directory")
	logFile := fset.String("log", "", "log file")
	journal := fset.String("journal", "", "SQLite event journal")
	tracing := fset.Bool("otel", false, "export command traces over OTLP/HTTP")

	if err := fset.Parse(args); err != nil {
		return Config{}, f, err
	}

	path, optional := f.ConfigFile, false
	if path == "" {
		path, optional = DefaultFile, true
	}
	cfg, err := Load(path, optional)
	if err != nil {
		return cfg, f, err
	}

	// Only flags given on the command line override the file.
	fset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dev":
			cfg.Dev = *dev
		case "plain":
			cfg.Plain = *plain
		case "seed":
			cfg.Seed = *seed
		case "content":
			cfg.ContentDir = *contentDir
		case "saves":
			cfg.SaveDir = *saveDir
		case "log":
			cfg.LogFile = *logFile
		case "journal":
			cfg.Journal = *journal
		case "otel":
			cfg.Tracing.Enabled = *tracing
		}
	})
	return cfg, f, nil
}
