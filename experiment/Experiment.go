// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/agent/qnet"
	"github.com/samuelfneumann/snakelearn/expreplay"
)

// Interface Experiment outlines structs that can run experiments.
// The Run() method will run episodes until the requested number of
// episodes have finished or its context is cancelled. The RunEpisode()
// function will run a single episode.
//
// In order to save data, Experiments use Trackers. Experiments send a
// summary of each finished episode to each Tracker, which determines
// which data it caches and saves. The Save() function will then take
// all cached data and save it to disk.
type Experiment interface {
	Run(ctx context.Context, episodes int) error
	RunEpisode(ctx context.Context) error
	Session() Session

	// Save all tracked data to disk
	Save() error
}

// ErrInvalidConfig is returned when an experiment is configured
// incorrectly
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents a configuration of an online experiment
type Config struct {
	MaxMemory    int     // Capacity of the replay memory
	BatchSize    int     // Number of transitions replayed per episode
	EpsilonStart int     // Epsilon after zero games
	EpsilonRange int     // Exploration draws are made from [0, EpsilonRange)
	Gamma        float64 // Discount factor
}

// DefaultConfig returns the default experiment configuration
func DefaultConfig() Config {
	return Config{
		MaxMemory:    expreplay.DefaultCapacity,
		BatchSize:    qnet.DefaultBatchSize,
		EpsilonStart: policy.DefaultStart,
		EpsilonRange: policy.DefaultRange,
		Gamma:        qnet.DefaultGamma,
	}
}

// Validate returns an error wrapping ErrInvalidConfig if the Config is
// invalid
func (c Config) Validate() error {
	switch {
	case c.MaxMemory <= 0:
		return fmt.Errorf("validate: %w: max memory must be positive",
			ErrInvalidConfig)
	case c.BatchSize <= 0:
		return fmt.Errorf("validate: %w: batch size must be positive",
			ErrInvalidConfig)
	case c.EpsilonStart < 0:
		return fmt.Errorf("validate: %w: epsilon start must be >= 0",
			ErrInvalidConfig)
	case c.EpsilonRange <= 0:
		return fmt.Errorf("validate: %w: epsilon range must be positive",
			ErrInvalidConfig)
	case c.Gamma < 0 || c.Gamma > 1:
		return fmt.Errorf("validate: %w: gamma must be in [0, 1]",
			ErrInvalidConfig)
	}
	return nil
}

// Session holds the counters of a training session
type Session struct {
	Games  int     // Number of finished games, never decreases
	Gamma  float64 // Discount factor, constant over a session
	Record int     // Best score seen, never decreases
}

// run runs episodes using runEpisode until episodes episodes have
// finished. If episodes is 0, episodes are run until ctx is cancelled.
func run(ctx context.Context, episodes int,
	runEpisode func(context.Context) error) error {
	if episodes < 0 {
		return fmt.Errorf("run: %w: number of episodes must be >= 0",
			ErrInvalidConfig)
	}

	for i := 0; episodes == 0 || i < episodes; i++ {
		if err := runEpisode(ctx); err != nil {
			return err
		}
	}
	return nil
}
