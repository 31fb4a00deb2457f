// Package trackers implements Trackers which log, display, and save
// data about the episodes of an experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
)

// Series tracks one value per episode and saves the values to disk as
// a gob-encoded []float64, which can be read back with
// tracker.LoadData.
//
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// value will not be saved.
type Series struct {
	values   []float64
	filename string
	value    func(tracker.Episode) float64
}

// NewScores returns a new Series which tracks the final game score of
// each episode
func NewScores(filename string) *Series {
	return &Series{
		filename: filename,
		value: func(e tracker.Episode) float64 {
			return float64(e.Score)
		},
	}
}

// NewReturn returns a new Series which tracks the episodic return of
// each episode
func NewReturn(filename string) *Series {
	return &Series{
		filename: filename,
		value: func(e tracker.Episode) float64 {
			return e.Reward
		},
	}
}

// NewEpisodeLength returns a new Series which tracks the number of
// steps in each episode
func NewEpisodeLength(filename string) *Series {
	return &Series{
		filename: filename,
		value: func(e tracker.Episode) float64 {
			return float64(e.Steps)
		},
	}
}

// Track caches the value of a finished episode
func (s *Series) Track(e tracker.Episode) error {
	s.values = append(s.values, s.value(e))
	return nil
}

// Values returns the values tracked so far
func (s *Series) Values() []float64 {
	return s.values
}

// Save saves the data tracked by the Series to disk.
func (s *Series) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.filename), 0o755); err != nil {
		return fmt.Errorf("save: could not create directory: %w", err)
	}

	// Open the file to save to
	file, err := os.Create(s.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	// Encode and save the file
	if err = gob.NewEncoder(file).Encode(s.values); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return nil
}
