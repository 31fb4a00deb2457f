package trackers

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
)

// Logger prints one line per episode:
//
//	Game <index> Score <score> Record <record>
//
// Lines for episodes that set a new record are highlighted. Each
// episode is also emitted as a structured debug event.
type Logger struct {
	out    io.Writer
	au     aurora.Aurora
	logger zerolog.Logger
}

// NewLogger returns a new Logger which prints to out, with ANSI colours
// if colors is true
func NewLogger(out io.Writer, colors bool, logger zerolog.Logger) *Logger {
	return &Logger{
		out:    out,
		au:     aurora.NewAurora(colors),
		logger: logger,
	}
}

// Track prints the summary line of an episode
func (l *Logger) Track(e tracker.Episode) error {
	l.logger.Debug().
		Int("game", e.Index).
		Int("score", e.Score).
		Int("record", e.Record).
		Int("steps", e.Steps).
		Float64("reward", e.Reward).
		Bool("newRecord", e.NewRecord).
		Msg("episode finished")

	line := fmt.Sprintf("Game %d Score %d Record %d", e.Index, e.Score,
		e.Record)

	var err error
	if e.NewRecord {
		_, err = fmt.Fprintln(l.out, l.au.Bold(l.au.Green(line)))
	} else {
		_, err = fmt.Fprintln(l.out, line)
	}
	if err != nil {
		return fmt.Errorf("track: could not write episode: %w", err)
	}
	return nil
}

// Save is a no-op, Logger writes as it tracks
func (l *Logger) Save() error {
	return nil
}
