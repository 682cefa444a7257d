package benchbar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	out := &bytes.Buffer{}

	bar := NewBar(out, "Inserting contacts", 3)
	for range 3 {
		bar.Inc()
	}
	assert.Equal(t, 3, bar.Count())
	bar.Finish()

	assert.Contains(t, out.String(), "Inserting contacts")
	assert.Contains(t, out.String(), "3/3")
}
