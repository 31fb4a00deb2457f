package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	env "github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/expreplay"
	"github.com/samuelfneumann/snakelearn/features"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// Online is an Experiment that trains a model online. On every step,
// the model is updated on the most recent transition. At the end of
// every episode, the model is updated on a batch of transitions
// replayed from memory, and saved if the episode set a new record.
//
// Online is not safe for concurrent use.
type Online struct {
	Config
	env     env.Environment
	model   agent.Model
	encoder *features.Encoder
	policy  *policy.EGreedy
	memory  *expreplay.Memory

	trackers      tracker.Multi
	checkpointers []checkpointer.Checkpointer
	onStep        StepHook
	logger        zerolog.Logger

	session Session

	// Current episode
	steps  int
	reward float64
	last   ts.TimeStep
}

// NewOnline creates and returns a new online experiment which trains
// model on environment e. The environment is reset to begin the first
// episode.
func NewOnline(e env.Environment, model agent.Model, c Config,
	opts ...Option) (*Online, error) {
	if e == nil {
		return nil, fmt.Errorf("newOnline: %w: environment must not be nil",
			ErrInvalidConfig)
	}
	if model == nil {
		return nil, fmt.Errorf("newOnline: %w: model must not be nil",
			ErrInvalidConfig)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOnline: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	memory, err := expreplay.New(c.MaxMemory, o.src)
	if err != nil {
		return nil, fmt.Errorf("newOnline: %w", err)
	}

	p, err := policy.NewEGreedy(model, policy.Config{
		Start:   c.EpsilonStart,
		Range:   c.EpsilonRange,
		Actions: env.NumActions,
	}, o.src)
	if err != nil {
		return nil, fmt.Errorf("newOnline: %w: %v", ErrInvalidConfig, err)
	}

	step, err := e.Reset()
	if err != nil {
		return nil, fmt.Errorf("newOnline: could not reset environment: %w",
			err)
	}

	return &Online{
		Config:        c,
		env:           e,
		model:         model,
		encoder:       o.encoder,
		policy:        p,
		memory:        memory,
		trackers:      o.trackers,
		checkpointers: o.checkpointers,
		onStep:        o.onStep,
		logger:        o.logger,
		session:       Session{Gamma: c.Gamma},
		last:          step,
	}, nil
}

// Step runs a single step of the current episode and returns whether
// the episode has ended. The state is encoded, an action is selected
// and taken, the model is updated online on the resulting transition,
// and the transition is stored in the replay memory.
func (o *Online) Step() (bool, error) {
	stateOld, err := o.encoder.Encode(o.env)
	if err != nil {
		return false, fmt.Errorf("step: could not encode state: %w", err)
	}

	action, err := o.policy.SelectAction(stateOld, o.session.Games)
	if err != nil {
		return false, fmt.Errorf("step: could not select action: %w", err)
	}

	step, err := o.env.Step(action)
	if err != nil {
		return false, fmt.Errorf("step: could not step environment: %w", err)
	}
	o.steps++
	o.reward += step.Reward
	o.last = step

	if o.onStep != nil {
		if err := o.onStep(o.env, step); err != nil {
			o.logger.Warn().Err(err).Msg("step hook failed")
		}
	}

	stateNew, err := o.encoder.Encode(o.env)
	if err != nil {
		return false, fmt.Errorf("step: could not encode next state: %w", err)
	}

	transition, err := ts.NewTransition(stateOld, action, step.Reward,
		stateNew, step.Last())
	if err != nil {
		return false, fmt.Errorf("step: %w", err)
	}

	if err := o.model.OnlineUpdate(transition); err != nil {
		return false, fmt.Errorf("step: could not update model: %w", err)
	}
	o.memory.Append(transition)

	return step.Last(), nil
}

// EndEpisode finishes the current episode, which ended with the given
// score. The environment is reset, the model is updated on a batch of
// replayed transitions, and the model is saved if score is a new
// record. Finally, the episode is sent to each Tracker.
func (o *Online) EndEpisode(score int) error {
	if _, err := o.env.Reset(); err != nil {
		return fmt.Errorf("endEpisode: could not reset environment: %w", err)
	}
	o.session.Games++

	batch := o.memory.Sample(o.BatchSize)
	if err := o.model.BatchUpdate(batch); err != nil {
		return fmt.Errorf("endEpisode: could not update model: %w", err)
	}

	newRecord := score > o.session.Record
	if newRecord {
		o.session.Record = score
		if err := o.model.Save(); err != nil {
			return fmt.Errorf("endEpisode: could not save model: %w", err)
		}
		o.logger.Info().
			Int("game", o.session.Games).
			Int("record", score).
			Msg("new record, model saved")
	}

	episode := tracker.Episode{
		Index:     o.session.Games,
		Score:     score,
		Record:    o.session.Record,
		Steps:     o.steps,
		Reward:    o.reward,
		NewRecord: newRecord,
	}
	o.steps = 0
	o.reward = 0

	if err := o.trackers.Track(episode); err != nil {
		o.logger.Warn().Err(err).Int("game", episode.Index).
			Msg("could not track episode")
	}
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(o.session.Games); err != nil {
			o.logger.Warn().Err(err).Int("game", episode.Index).
				Msg("could not checkpoint model")
		}
	}

	return nil
}

// RunEpisode runs steps until the current episode ends, then ends the
// episode. The context is checked before every step.
func (o *Online) RunEpisode(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := o.Step()
		if err != nil {
			return fmt.Errorf("runEpisode: %w", err)
		}
		if done {
			break
		}
	}

	if err := o.EndEpisode(o.last.Score); err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}
	return nil
}

// Run runs episodes episodes. If episodes is 0, episodes are run until
// ctx is cancelled, in which case the context's error is returned.
func (o *Online) Run(ctx context.Context, episodes int) error {
	return run(ctx, episodes, o.RunEpisode)
}

// Session returns a copy of the session counters
func (o *Online) Session() Session {
	return o.session
}

// Memory returns the replay memory
func (o *Online) Memory() *expreplay.Memory {
	return o.memory
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	if err := o.trackers.Save(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
