// Package benchbar provides a really simple progress bar for the benchmarking
// process.
package benchbar

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar counts finished operations of one benchmark step.
type Bar struct {
	pb          *progressbar.ProgressBar
	description string
	maxItems    int
}

// NewBar returns a bar writing to w that completes after maxItems calls to
// Inc.
func NewBar(w io.Writer, description string, maxItems int) *Bar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
	)
	_ = pb.Set(0)

	return &Bar{
		pb:          pb,
		description: description,
		maxItems:    maxItems,
	}
}

// Inc marks one more operation as done.
func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

// Count returns the number of operations marked as done.
func (b *Bar) Count() int {
	return int(b.pb.State().CurrentNum)
}

// Finish completes the bar.
func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
