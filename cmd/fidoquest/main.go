// Fidoquest is a text game about a 1995 FidoNet point: a DOS prompt, a
// modem, one BBS and the mail network behind it.
// Usage: fidoquest [-config file] [-plain] [-script file] [-trace] [-export-journal file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nathoo/fidoquest/cli"
	"github.com/nathoo/fidoquest/config"
	"github.com/nathoo/fidoquest/content"
	"github.com/nathoo/fidoquest/engine"
	"github.com/nathoo/fidoquest/engine/save"
	"github.com/nathoo/fidoquest/journal"
	"github.com/nathoo/fidoquest/observability"
	"github.com/nathoo/fidoquest/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, flags, err := config.Parse(args, os.Stderr)
	if err != nil {
		return err
	}
	if flags.Version {
		fmt.Printf("fidoquest %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Use plain CLI for scripts, with -plain, or when stdout is not a terminal.
	plain := flags.Script != "" || cfg.Plain || !isTerminal()

	logger, closeLog, err := newLogger(cfg.LogFile, plain)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := content.Load(content.Options{Dir: cfg.ContentDir, Dev: cfg.Dev, Logger: logger})
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Printf("warning: tracing shutdown: %v", err)
		}
	}()

	start := cfg.StartState()
	eng, err := engine.New(c, engine.Options{
		Seed:   cfg.Seed,
		Start:  &start,
		Logger: logger,
		Tracer: tp.Tracer("fidoquest/engine"),
	})
	if err != nil {
		return err
	}

	var jr *journal.Journal
	if cfg.Journal != "" {
		if jr, err = journal.Open(cfg.Journal, logger); err != nil {
			return err
		}
		defer jr.Close()
	}

	if flags.ExportJournal != "" {
		return exportJournal(eng, jr, cfg.SaveDir, flags.ExportJournal)
	}

	if jr != nil {
		jr.Attach(eng.Bus, eng)
	}

	if plain {
		cl := cli.New(eng, cfg.SaveDir)
		cl.SetTrace(flags.Trace)
		// Script mode: read commands from the file and echo them.
		if flags.Script != "" {
			f, err := os.Open(flags.Script)
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()
			cl.In = f
			cl.EchoInput = true
		}
		cl.Run(ctx)
		return nil
	}

	return tui.Run(ctx, eng, cfg.SaveDir)
}

// newLogger writes to the log file when one is configured. Without one,
// plain mode logs to stderr and the full-screen UI discards logs.
func newLogger(path string, plain bool) (*log.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return log.New(f, "fidoquest: ", log.LstdFlags), func() { f.Close() }, nil
	}
	var w io.Writer = io.Discard
	if plain {
		w = os.Stderr
	}
	return log.New(w, "fidoquest: ", log.LstdFlags), func() {}, nil
}

// exportJournal writes the quest log of the quicksave. Journal entries of
// the saved session are included when a journal is configured.
func exportJournal(eng *engine.Engine, jr *journal.Journal, saveDir, path string) error {
	sd, err := save.ReadFile(saveDir, "")
	if err != nil {
		return fmt.Errorf("reading quicksave: %w", err)
	}
	if err := eng.Apply(sd); err != nil {
		return err
	}
	var entries []journal.Entry
	if jr != nil {
		if entries, err = jr.Entries(eng.Session()); err != nil {
			return err
		}
	}
	if err := journal.Export(path, eng.State(), eng.Catalog, entries); err != nil {
		return err
	}
	fmt.Printf("Quest log written to %s.\n", path)
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
