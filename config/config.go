// Package config assembles the run configuration of a byteworld session from
// defaults, an optional YAML file, BYTEWORLD_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration.
type Config struct {
	Seed       int64  `yaml:"seed" env:"BYTEWORLD_SEED"`
	ContentDir string `yaml:"content_dir" env:"BYTEWORLD_CONTENT_DIR"` // "" = embedded content
	PlayerName string `yaml:"player_name" env:"BYTEWORLD_PLAYER_NAME"`
	Plain      bool   `yaml:"plain" env:"BYTEWORLD_PLAIN"`
	Trace      bool   `yaml:"trace" env:"BYTEWORLD_TRACE"`
	Script     string `yaml:"script" env:"BYTEWORLD_SCRIPT"`
	LogFile    string `yaml:"log_file" env:"BYTEWORLD_LOG_FILE"`
	LogLevel   string `yaml:"log_level" env:"BYTEWORLD_LOG_LEVEL"`

	ShowVersion bool `yaml:"-" env:"-"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{LogLevel: "info"}
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file leave cfg unchanged.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// FromEnv overlays BYTEWORLD_* environment variables onto cfg. Unset
// variables leave cfg unchanged.
func FromEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse builds the configuration for a command line. args excludes the
// program name. The first positional argument, if any, is the content
// directory. Usage goes to out. flag.ErrHelp is returned for -h.
func Parse(args []string, out io.Writer) (Config, error) {
	fs := flag.NewFlagSet("byteworld", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: byteworld [flags] [content_directory]")
		fs.PrintDefaults()
	}

	var (
		configPath string
		flagged    Config
	)
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.Int64Var(&flagged.Seed, "seed", 0, "random seed for reproducibility (0 = random)")
	fs.StringVar(&flagged.PlayerName, "name", "", "player name")
	fs.BoolVar(&flagged.Plain, "plain", false, "line mode instead of the full-screen UI")
	fs.BoolVar(&flagged.Trace, "trace", false, "print the events of every step")
	fs.StringVar(&flagged.Script, "script", "", "play commands from a file, then exit")
	fs.StringVar(&flagged.LogFile, "log", "", "write structured logs to this file")
	fs.StringVar(&flagged.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&flagged.ShowVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if configPath != "" {
		if err := LoadFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := FromEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = flagged.Seed
		case "name":
			cfg.PlayerName = flagged.PlayerName
		case "plain":
			cfg.Plain = flagged.Plain
		case "trace":
			cfg.Trace = flagged.Trace
		case "script":
			cfg.Script = flagged.Script
		case "log":
			cfg.LogFile = flagged.LogFile
		case "log-level":
			cfg.LogLevel = flagged.LogLevel
		case "version":
			cfg.ShowVersion = flagged.ShowVersion
		}
	})
	if fs.NArg() > 0 {
		cfg.ContentDir = fs.Arg(0)
	}

	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel. An empty level is info.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// ResolveSeed fills in a fresh random seed when Seed is 0 and returns the
// seed to play with.
func (c *Config) ResolveSeed() (int64, error) {
	if c.Seed != 0 {
		return c.Seed, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, fmt.Errorf("draw seed: %w", err)
	}
	c.Seed = n.Int64() + 1
	return c.Seed, nil
}

// IsHelp reports whether err is the flag package's help request.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
