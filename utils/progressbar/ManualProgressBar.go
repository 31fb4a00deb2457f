// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, Display must be called whenever an
// updated progress bar should be written.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out       io.Writer
	width     int
	max       int
	current   int
	bar       strings.Builder
	startTime time.Time
	now       func() time.Time
}

// NewManualProgressBar returns a new ManualProgressBar which is width
// characters wide and is full after max calls to Increment
func NewManualProgressBar(out io.Writer, width, max int) (*ManualProgressBar,
	error) {
	if width <= 0 {
		return nil, fmt.Errorf("newManualProgressBar: width must be "+
			"positive \n\twant(>0)\n\thave(%v)", width)
	}
	if max <= 0 {
		return nil, fmt.Errorf("newManualProgressBar: max must be "+
			"positive \n\twant(>0)\n\thave(%v)", max)
	}

	return &ManualProgressBar{
		out:       out,
		width:     width,
		max:       max,
		startTime: time.Now(),
		now:       time.Now,
	}, nil
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.current < p.max {
		p.current++
	}
}

// Progress returns the fraction of the bar which is filled
func (p *ManualProgressBar) Progress() float64 {
	return float64(p.current) / float64(p.max)
}

// String returns the bar as it would be displayed
func (p *ManualProgressBar) String() string {
	filled := p.current * p.width / p.max

	p.bar.Reset()
	p.bar.WriteString("|")
	p.bar.WriteString(strings.Repeat("█", filled))
	p.bar.WriteString(strings.Repeat(" ", p.width-filled))
	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]", p.Progress()*100,
		p.now().Sub(p.startTime).Truncate(time.Second))

	return p.bar.String()
}

// Display writes the progress bar, replacing the previously displayed
// line
func (p *ManualProgressBar) Display() error {
	_, err := fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
