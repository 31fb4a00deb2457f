// Package tracker defines Trackers, which track and save data about
// the episodes of an experiment
package tracker

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// Episode summarizes a single finished episode
type Episode struct {
	Index  int     // Number of games played, including this one
	Score  int     // Final game score
	Record int     // Best score seen so far, including this episode
	Steps  int     // Number of environment steps taken
	Reward float64 // Sum of rewards over the episode

	// NewRecord is true if Score beat the previous record
	NewRecord bool
}

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(e Episode) error
	Save() error
}

// Multi fans out to multiple Trackers
type Multi []Tracker

// Track calls Track on each Tracker. Every Tracker is called, even if
// an earlier one fails.
func (m Multi) Track(e Episode) error {
	var errs []error
	for _, t := range m {
		if err := t.Track(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save calls Save on each Tracker. Every Tracker is called, even if
// an earlier one fails.
func (m Multi) Save() error {
	var errs []error
	for _, t := range m {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	// Decode the data
	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}
