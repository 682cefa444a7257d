package render

import (
	"strings"
	"testing"

	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/stretchr/testify/assert"
)

type person struct {
	id   string
	name string
}

func (p person) HeaderRow() Row { return NewRow("Id", "Name") }
func (p person) DataRow() Row   { return NewRow(p.id, p.name) }

func TestTable(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		out := Table(nil)
		assert.Contains(t, out, NoRows)
	})

	t.Run("HeaderThenRows", func(t *testing.T) {
		out := Table([]Row{
			NewRow("Id", "Name"),
			NewRow("1", "Ray"),
			NewRow("2", "Chris"),
		})

		assert.Contains(t, out, "Id")
		assert.Less(t, strings.Index(out, "Name"), strings.Index(out, "Ray"))
		assert.Less(t, strings.Index(out, "Ray"), strings.Index(out, "Chris"))
		assert.NotContains(t, out, NoRows)
	})
}

func TestRecords(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		out := Record(person{id: "1", name: "Ray"})
		assert.Contains(t, out, "Name")
		assert.Contains(t, out, "Ray")
	})

	t.Run("Many", func(t *testing.T) {
		out, ok := Records([]person{{"1", "Ray"}, {"3", "Martha"}})
		assert.True(t, ok)
		assert.Equal(t, 1, strings.Count(out, "Name"))
		assert.Contains(t, out, "Martha")
	})

	t.Run("Empty", func(t *testing.T) {
		out, ok := Records([]person{})
		assert.False(t, ok)
		assert.Empty(t, out)
	})
}

func TestResult(t *testing.T) {
	t.Run("Read", func(t *testing.T) {
		out := Result(&sqlitec.QueryResult{
			Columns: []string{"Id", "Name", "Avatar"},
			Rows: [][]any{
				{int64(1), "Ray", []byte{0xca, 0xfe}},
				{int64(2), nil, nil},
			},
		})

		assert.Contains(t, out, "Avatar")
		assert.Contains(t, out, "x'cafe'")
		assert.Contains(t, out, "NULL")
		assert.Contains(t, out, "2 rows")
	})

	t.Run("Write", func(t *testing.T) {
		out := Result(&sqlitec.QueryResult{RowsAffected: 4, LastInsertID: 4})
		assert.Contains(t, out, "Rows Affected")
		assert.Contains(t, out, "4")
	})
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{nil, "NULL"},
		{int64(-42), "-42"},
		{3.5, "3.5"},
		{"Danielle", "Danielle"},
		{[]byte("ab"), "x'6162'"},
		{true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}

func TestWithCommas(t *testing.T) {
	assert.Equal(t, "0", withCommas(0))
	assert.Equal(t, "999", withCommas(999))
	assert.Equal(t, "12,345", withCommas(12345))
	assert.Equal(t, "-1,000,000", withCommas(-1000000))
}
