// Byteworld is a deterministic, turn-based adventure in a small fantasy
// world. Usage: byteworld [flags] [content_directory]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nathoo/byteworld/cli"
	"github.com/nathoo/byteworld/config"
	"github.com/nathoo/byteworld/content"
	"github.com/nathoo/byteworld/engine"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/loader"
	"github.com/nathoo/byteworld/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args, os.Stderr)
	if config.IsHelp(err) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if cfg.ShowVersion {
		fmt.Printf("byteworld %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	defs, err := loadContent(cfg.ContentDir)
	if err != nil {
		log.Error("content failed to load", "dir", cfg.ContentDir, "err", err)
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		return 1
	}

	seed, err := cfg.ResolveSeed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error choosing seed: %v\n", err)
		return 1
	}
	eng := engine.New(defs, seed, engine.WithLogger(log), engine.WithPlayerName(cfg.PlayerName))
	logContent(log, defs)
	if cfg.Trace {
		fmt.Fprintf(os.Stderr, "seed: %d\n", seed)
	}

	// Script mode: read commands from a file, force plain output, echo input.
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		printTitle(defs)
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = cfg.Trace
		c.Run()
		return 0
	}

	if cfg.Plain || !isTerminal() {
		printTitle(defs)
		c := cli.New(eng)
		c.Trace = cfg.Trace
		c.Run()
		return 0
	}

	if err := tui.Run(eng, cfg.Trace); err != nil {
		log.Error("terminal UI failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadContent loads the embedded pack, or a pack from dir when one is given.
func loadContent(dir string) (*state.Defs, error) {
	if dir == "" {
		return loader.Load(content.FS)
	}
	return loader.LoadDir(dir)
}

// newLogger writes text logs to the configured file. Without a file,
// logging is discarded so it never mixes with game output.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }, nil
}

// logContent records what was loaded. The engine logs the session itself.
func logContent(log *slog.Logger, defs *state.Defs) {
	log.Info("content loaded", "title", defs.Game.Title,
		"locations", len(defs.Locations), "enemies", len(defs.Enemies), "items", len(defs.Items))
}

func printTitle(defs *state.Defs) {
	printTitleTo(os.Stdout, defs)
}

func printTitleTo(w io.Writer, defs *state.Defs) {
	title := defs.Game.Title
	if defs.Game.Version != "" {
		title += " v" + defs.Game.Version
	}
	if defs.Game.Author != "" {
		title += " by " + defs.Game.Author
	}
	fmt.Fprintf(w, "%s\n\n", title)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
