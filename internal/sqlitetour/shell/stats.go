package shell

import (
	"strings"
	"time"

	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

// Stat holds counters for the statements run in a shell session.
type Stat struct {
	All      int64
	Read     int64
	Write    int64
	Begin    int64
	Commit   int64
	Rollback int64
	Failed   int64
}

// sessionStats counts statements since the shell was created.
type sessionStats struct {
	started time.Time
	total   Stat
}

func newSessionStats() *sessionStats {
	return &sessionStats{started: time.Now()}
}

// addQuery counts one statement from its result, or as failed when err is
// not nil.
func (s *sessionStats) addQuery(query string, res *sqlitec.QueryResult, err error) {
	s.total.All++

	if err != nil {
		s.total.Failed++
		return
	}
	if res.IsRead() {
		s.total.Read++
		return
	}

	switch firstKeyword(query) {
	case "BEGIN":
		s.total.Begin++
	case "COMMIT", "END":
		s.total.Commit++
	case "ROLLBACK":
		s.total.Rollback++
	default:
		s.total.Write++
	}
}

// uptime returns how long the session has been running.
func (s *sessionStats) uptime() time.Duration {
	return time.Since(s.started).Round(time.Second)
}

// firstKeyword returns the upper cased first word of query.
func firstKeyword(query string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ';' || r == '('
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
