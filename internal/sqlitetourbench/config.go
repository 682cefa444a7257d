package sqlitetourbench

import (
	"errors"
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	tourlog "github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/version"
)

// Config represents the configuration for sqlitetourbench.
type Config struct {
	Contacts  int    `arg:"--contacts,env:SQLITETOUR_BENCH_CONTACTS" help:"Number of contacts each step works on" default:"10000"`
	Directory string `arg:"--directory,env:SQLITETOUR_BENCH_DIRECTORY" help:"Directory for the benchmark databases (default to a temporary directory removed on exit)"`
	LogLevel  string `arg:"--log-level,env:SQLITETOUR_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"info"`

	Level tourlog.Level `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.BenchVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlitetourbench"},
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

func validate(cfg *Config) error {
	if cfg.Contacts < 1 {
		return errors.New("contacts must be at least 1")
	}

	level, ok := tourlog.ParseLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	cfg.Level = level

	return nil
}
