package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar renders progress on a terminal. It is meant for interactive stderr;
// callers pick it only when the writer is a TTY.
type Bar struct {
	writer      io.Writer
	description string
	bar         *progressbar.ProgressBar
}

// NewBar builds a terminal observer that prints description above the bar.
func NewBar(w io.Writer, description string) *Bar {
	return &Bar{writer: w, description: description}
}

func (b *Bar) Init(total int64) {
	if total <= 0 {
		total = -1
	}
	b.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(b.writer),
		progressbar.OptionSetDescription(b.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(b.writer)
		}),
	)
}

func (b *Bar) Advance() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Add(1)
}

func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}
