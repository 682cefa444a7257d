package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	tourlog "github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/version"
)

// Part1Cmd runs the C API walkthrough.
type Part1Cmd struct{}

// Part2Cmd runs the contact store walkthrough.
type Part2Cmd struct{}

// ShellCmd opens an interactive SQL prompt.
type ShellCmd struct {
	Database string `arg:"positional" help:"Database file to open (default to Part2.sqlite inside the data directory)"`
}

// Config represents the configuration for sqlitetour.
type Config struct {
	DataDirectory string `arg:"--data-directory,env:SQLITETOUR_DATA_DIRECTORY" help:"Directory holding the tour databases, it must already exist" default:"./SQLiteTutorial"`
	LogLevel      string `arg:"--log-level,env:SQLITETOUR_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"info"`

	Part1 *Part1Cmd `arg:"subcommand:part1" help:"Run part 1, the SQLite C API one call at a time"`
	Part2 *Part2Cmd `arg:"subcommand:part2" help:"Run part 2, the same story over a typed contact store"`
	Shell *ShellCmd `arg:"subcommand:shell" help:"Open an interactive SQL shell"`

	Level tourlog.Level `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.TourVersion())
}

func (Config) Description() string {
	return "Runs both parts of the tour when no command is given."
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlitetour"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validate(&cfg); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validate checks the parsed values and fills the derived fields.
func validate(cfg *Config) error {
	level, err := validateLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	cfg.Level = level

	if cfg.Shell != nil && cfg.Shell.Database != "" {
		return nil
	}
	return validateDataDirectory(cfg.DataDirectory)
}

// validateDataDirectory checks that dir exists and is a directory. The tour
// never creates it.
func validateDataDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("data directory is required")
	}

	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(
			"data directory %s does not exist, create it first with: mkdir -p %s",
			dir, dir,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to check data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", dir)
	}

	return nil
}

// validateLogLevel parses a log level name.
func validateLogLevel(name string) (tourlog.Level, error) {
	level, ok := tourlog.ParseLevel(name)
	if !ok {
		valid := make([]string, 0, len(tourlog.Levels.Members()))
		for _, l := range tourlog.Levels.Members() {
			valid = append(valid, l.Value)
		}
		return level, fmt.Errorf(
			"invalid log level, valid values are: %s",
			strings.Join(valid, ", "),
		)
	}
	return level, nil
}
