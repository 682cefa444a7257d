package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstKeyword(t *testing.T) {
	tests := map[string]string{
		"begin;":                    "BEGIN",
		"  Commit":                  "COMMIT",
		"\nSELECT 1":                "SELECT",
		"(SELECT 1)":                "SELECT",
		"":                          "",
		";;":                        "",
		"insert into t values (1);": "INSERT",
	}

	for input, want := range tests {
		assert.Equal(t, want, firstKeyword(input), input)
	}
}

func TestSessionStats(t *testing.T) {
	s, out := newShell(t)

	for _, input := range []string{
		"CREATE TABLE t(x);",
		"BEGIN;",
		"INSERT INTO t VALUES (1);",
		"COMMIT;",
		"BEGIN;",
		"ROLLBACK;",
		"SELECT * FROM t;",
		"SELECT * FROM missing;",
	} {
		run(t, s, out, input)
	}

	assert.Equal(t, Stat{
		All:      8,
		Read:     1,
		Write:    2,
		Begin:    2,
		Commit:   1,
		Rollback: 1,
		Failed:   1,
	}, s.stats.total)

	got := run(t, s, out, ".stats")
	assert.Contains(t, got, "Rollbacks")
	assert.Contains(t, got, "Session uptime")
}
