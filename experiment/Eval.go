package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	env "github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/features"
)

// Eval is an Experiment that plays greedily with respect to a model
// without learning
type Eval struct {
	env     env.Environment
	encoder *features.Encoder
	policy  *policy.EGreedy

	trackers tracker.Multi
	onStep   StepHook
	logger   zerolog.Logger

	session Session
}

// NewEval creates and returns a new evaluation experiment which plays
// on environment e by selecting the actions of highest predicted
// value. The environment is reset to begin the first episode.
func NewEval(e env.Environment, model agent.Predictor,
	opts ...Option) (*Eval, error) {
	if e == nil {
		return nil, fmt.Errorf("newEval: %w: environment must not be nil",
			ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Never explore
	p, err := policy.NewEGreedy(model, policy.Config{
		Start:   0,
		Range:   1,
		Actions: env.NumActions,
	}, o.src)
	if err != nil {
		return nil, fmt.Errorf("newEval: %w: %v", ErrInvalidConfig, err)
	}

	if _, err := e.Reset(); err != nil {
		return nil, fmt.Errorf("newEval: could not reset environment: %w",
			err)
	}

	return &Eval{
		env:      e,
		encoder:  o.encoder,
		policy:   p,
		trackers: o.trackers,
		onStep:   o.onStep,
		logger:   o.logger,
	}, nil
}

// RunEpisode plays a single episode
func (e *Eval) RunEpisode(ctx context.Context) error {
	var episode tracker.Episode

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state, err := e.encoder.Encode(e.env)
		if err != nil {
			return fmt.Errorf("runEpisode: could not encode state: %w", err)
		}

		action, err := e.policy.SelectAction(state, e.session.Games)
		if err != nil {
			return fmt.Errorf("runEpisode: could not select action: %w", err)
		}

		step, err := e.env.Step(action)
		if err != nil {
			return fmt.Errorf("runEpisode: could not step environment: %w",
				err)
		}
		episode.Steps++
		episode.Reward += step.Reward
		episode.Score = step.Score

		if e.onStep != nil {
			if err := e.onStep(e.env, step); err != nil {
				e.logger.Warn().Err(err).Msg("step hook failed")
			}
		}

		if step.Last() {
			break
		}
	}

	if _, err := e.env.Reset(); err != nil {
		return fmt.Errorf("runEpisode: could not reset environment: %w", err)
	}
	e.session.Games++
	if episode.Score > e.session.Record {
		e.session.Record = episode.Score
		episode.NewRecord = true
	}
	episode.Index = e.session.Games
	episode.Record = e.session.Record

	if err := e.trackers.Track(episode); err != nil {
		e.logger.Warn().Err(err).Int("game", episode.Index).
			Msg("could not track episode")
	}
	return nil
}

// Run plays episodes episodes. If episodes is 0, episodes are played
// until ctx is cancelled.
func (e *Eval) Run(ctx context.Context, episodes int) error {
	return run(ctx, episodes, e.RunEpisode)
}

// Session returns a copy of the session counters
func (e *Eval) Session() Session {
	return e.session
}

// Save saves all the data cached by the Trackers to disk
func (e *Eval) Save() error {
	if err := e.trackers.Save(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
