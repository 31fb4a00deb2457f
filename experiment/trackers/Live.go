package trackers

import (
	"fmt"
	"io"

	"github.com/gosuri/uilive"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
)

// Live keeps a single status line in the terminal up to date with the
// latest episode, rewriting it in place after every episode
type Live struct {
	writer *uilive.Writer
	scores []float64
}

// NewLive returns a new Live tracker writing to out
func NewLive(out io.Writer) *Live {
	writer := uilive.New()
	writer.Out = out

	return &Live{writer: writer}
}

// Track rewrites the status line
func (l *Live) Track(e tracker.Episode) error {
	l.scores = append(l.scores, float64(e.Score))

	fmt.Fprintf(l.writer, "games: %d  score: %d  record: %d  mean: %.2f\n",
		e.Index, e.Score, e.Record, stat.Mean(l.scores, nil))
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("track: could not flush status line: %w", err)
	}
	return nil
}

// Save is a no-op
func (l *Live) Save() error {
	return nil
}
