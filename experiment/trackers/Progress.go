package trackers

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/utils/progressbar"
)

// progressWidth is the width of the progress bar in characters
const progressWidth = 40

// Progress displays a progress bar over a fixed number of episodes
type Progress struct {
	bar *progressbar.ManualProgressBar
}

// NewProgress returns a new Progress tracker which is full after
// episodes episodes
func NewProgress(out io.Writer, episodes int) (*Progress, error) {
	bar, err := progressbar.NewManualProgressBar(out, progressWidth, episodes)
	if err != nil {
		return nil, fmt.Errorf("newProgress: %w", err)
	}
	return &Progress{bar: bar}, nil
}

// Track advances the bar by one episode
func (p *Progress) Track(tracker.Episode) error {
	p.bar.Increment()
	if err := p.bar.Display(); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	return nil
}

// Save is a no-op
func (p *Progress) Save() error {
	return nil
}
