package log

import (
	"log/slog"

	"github.com/orsinium-labs/enum"
)

// Level is the minimum severity a Logger writes.
type Level enum.Member[string]

var (
	LevelDebug = Level{Value: "debug"}
	LevelInfo  = Level{Value: "info"}
	LevelWarn  = Level{Value: "warn"}
	LevelError = Level{Value: "error"}

	Levels = enum.New(LevelDebug, LevelInfo, LevelWarn, LevelError)
)

// ParseLevel returns the level with the given name and false when there is
// none.
func ParseLevel(name string) (Level, bool) {
	level := Levels.Parse(name)
	if level == nil {
		return LevelInfo, false
	}
	return *level, true
}

func (level Level) slogLevel() slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}
