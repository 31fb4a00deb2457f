package experiment

import (
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/features"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// StepHook is called after every environment step with the
// environment's state and the step it returned
type StepHook func(environment.Snapshot, ts.TimeStep) error

type options struct {
	trackers      tracker.Multi
	checkpointers []checkpointer.Checkpointer
	logger        zerolog.Logger
	src           rand.Source
	encoder       *features.Encoder
	onStep        StepHook
}

func defaultOptions() options {
	encoder, _ := features.NewEncoder(features.DefaultStep)
	return options{
		logger:  zerolog.Nop(),
		src:     rand.NewSource(0),
		encoder: encoder,
	}
}

// Option configures an Experiment
type Option func(*options)

// WithTrackers adds Trackers which are sent a summary of every finished
// episode
func WithTrackers(t ...tracker.Tracker) Option {
	return func(o *options) {
		o.trackers = append(o.trackers, t...)
	}
}

// WithCheckpointers adds Checkpointers which are called with the number
// of finished games after every episode
func WithCheckpointers(c ...checkpointer.Checkpointer) Option {
	return func(o *options) {
		o.checkpointers = append(o.checkpointers, c...)
	}
}

// WithLogger sets the logger of an Experiment
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSource sets the source of randomness for action selection and
// replay sampling
func WithSource(src rand.Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// WithEncoder sets the state encoder
func WithEncoder(e *features.Encoder) Option {
	return func(o *options) {
		o.encoder = e
	}
}

// WithStepHook sets a function which is called after every environment
// step
func WithStepHook(h StepHook) Option {
	return func(o *options) {
		o.onStep = h
	}
}
