// Package shell is an interactive SQL prompt over a single sqlitec
// connection.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/peterh/liner"
)

const (
	promptLabel   = "sqlitetour> "
	promptLabelTx = "sqlitetour(tx)> "
)

// Config represents the configuration for a Shell.
type Config struct {
	Logger log.Logger
	// Conn is the open connection every command runs on. The shell does
	// not close it.
	Conn *sqlitec.Conn
	// Out receives command output, defaults to os.Stdout.
	Out io.Writer
	// HistoryPath is where the prompt history is kept between sessions.
	HistoryPath string
}

// Shell reads commands from the terminal and runs them.
type Shell struct {
	Config
	ctx   context.Context
	stop  context.CancelFunc
	stats *sessionStats
}

// New creates a new Shell. Start returns once stop is called or ctx is done.
func New(ctx context.Context, stop context.CancelFunc, config Config) (*Shell, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Conn == nil || config.Conn.State() != sqlitec.ConnStateOpen {
		return nil, errors.New("an open connection is required")
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.HistoryPath == "" {
		config.HistoryPath = filepath.Join(os.TempDir(), ".sqlitetour_history")
	}

	return &Shell{Config: config, ctx: ctx, stop: stop, stats: newSessionStats()}, nil
}

// Start prompts for input until the user quits.
func (s *Shell) Start() error {
	fmt.Fprintln(s.Out)
	fmt.Fprintf(s.Out, "Connected to %s running SQLite %s\n", s.Conn.Path(), sqlitec.LibVersion())
	fmt.Fprintln(s.Out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(s.Out)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)
	s.readHistory(line)

	for {
		select {
		case <-s.ctx.Done():
			return nil
		default:
			input, ok := s.prompt(line)
			if !ok {
				s.Shutdown()
				return nil
			}

			if quit := s.Execute(input); quit {
				s.Shutdown()
				return nil
			}
		}
	}
}

// Shutdown stops the shell.
func (s *Shell) Shutdown() {
	s.stop()
}

// Execute runs one line of input and reports whether the shell should quit.
func (s *Shell) Execute(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	s.Logger.DebugNs(log.NsShell, "executing input", log.KV{"input": input})

	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "exit", ".exit", ".quit":
		return true
	case "clear", ".clear":
		clearTerminal(s.Out)
	case "help", ".help":
		cmdHelp(s.Out)
	case ".tables":
		cmdTables(s)
	case ".schema":
		cmdSchema(s)
	case ".stats":
		cmdStats(s)
	case ".count":
		cmdCount(s, arg)
	case ".columns":
		cmdColumns(s, arg)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(s.Out, "Unknown command, type .help for usage hints")
			return false
		}
		cmdQuery(s, input, nil)
	}

	return false
}

// label is the prompt shown to the user, marking an open transaction.
func (s *Shell) label() string {
	if !s.Conn.AutoCommit() {
		return promptLabelTx
	}
	return promptLabel
}

// prompt reads one line from the user. It returns false when the input
// ends or CTRL+C is pressed.
func (s *Shell) prompt(line *liner.State) (string, bool) {
	input, err := line.Prompt(s.label())
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.Out, "CTRL+C pressed, exiting...")
			return "", false
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		s.Logger.WarnNs(log.NsShell, "failed to read input", log.KV{"error": err})
		return "", true
	}

	line.AppendHistory(input)
	s.writeHistory(line)

	return input, true
}

func (s *Shell) readHistory(line *liner.State) {
	file, err := os.Open(s.HistoryPath)
	if err != nil {
		s.Logger.DebugNs(log.NsShell, "no previous history", log.KV{"path": s.HistoryPath})
		return
	}
	defer file.Close()
	_, _ = line.ReadHistory(file)
}

func (s *Shell) writeHistory(line *liner.State) {
	file, err := os.Create(s.HistoryPath)
	if err != nil {
		s.Logger.WarnNs(log.NsShell, "failed to write history", log.KV{"error": err})
		return
	}
	defer file.Close()
	_, _ = line.WriteHistory(file)
}
