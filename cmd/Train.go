package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/snakelearn/agent/qnet"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/experiment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/experiment/trackers"
	"github.com/samuelfneumann/snakelearn/features"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/solver"
)

// Offsets of the seeds of each source of randomness from --seed
const (
	gameSeedOffset uint64 = iota
	modelSeedOffset
	agentSeedOffset
)

// TrainCommand returns the command which trains a model
func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model, saving it whenever a game sets a new record",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, done := signalContext()
			defer done()

			if err := train(ctx, cmd, logger); err != nil {
				logger.Error().Err(err).Msg("training failed")
				return err
			}
			return nil
		},
	}
	addTrainFlags(cmd)

	return cmd
}

func train(ctx context.Context, cmd *cobra.Command, logger zerolog.Logger) error {
	game, _, err := snake.New(flags.SnakeConfig())
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	model, err := newModel(flags.Experiment.BatchSize)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if flags.Load {
		if err := model.Load(); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		logger.Info().Str("path", flags.ModelPath()).Msg("model loaded")
	}

	encoder, err := features.NewEncoder(flags.Game.BlockSize)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	t := tracker.Multi{
		trackers.NewLogger(cmd.OutOrStdout(), flags.Color, logger),
		trackers.NewScores(filepath.Join(flags.SavePath, "scores.gob")),
		trackers.NewReturn(filepath.Join(flags.SavePath, "return.gob")),
		trackers.NewEpisodeLength(filepath.Join(flags.SavePath, "length.gob")),
	}
	if flags.Plot {
		t = append(t, trackers.NewPlot(
			filepath.Join(flags.SavePath, "scores.html"), flags.PlotEvery))
	}
	if flags.Live {
		t = append(t, trackers.NewLive(cmd.ErrOrStderr()))
	}
	if flags.Progress {
		if flags.Episodes == 0 {
			logger.Warn().Msg("progress bar needs a fixed number of episodes")
		} else {
			p, err := trackers.NewProgress(cmd.ErrOrStderr(), flags.Episodes)
			if err != nil {
				return fmt.Errorf("train: %w", err)
			}
			t = append(t, p)
		}
	}

	var checkpointers []checkpointer.Checkpointer
	if flags.CheckpointEvery > 0 {
		c, err := checkpointer.NewNEpisode(flags.CheckpointEvery, model,
			checkpointer.ByEpisode(
				filepath.Join(flags.ModelDir, "checkpoint-"), ".gob"))
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		checkpointers = append(checkpointers, c)
	}

	online, err := experiment.NewOnline(game, model, flags.Experiment,
		experiment.WithTrackers(t...),
		experiment.WithCheckpointers(checkpointers...),
		experiment.WithLogger(logger),
		experiment.WithEncoder(encoder),
		experiment.WithSource(rand.NewSource(flags.Seed+agentSeedOffset)),
	)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if err := flags.Record(); err != nil {
		logger.Warn().Err(err).Msg("could not record settings")
	}

	logger.Info().
		Int("episodes", flags.Episodes).
		Uint64("seed", flags.Seed).
		Msg("training started")

	runErr := online.Run(ctx, flags.Episodes)
	if errors.Is(runErr, context.Canceled) {
		logger.Info().Int("games", online.Session().Games).
			Msg("training interrupted")
		runErr = nil
	}

	if err := online.Save(); err != nil {
		logger.Warn().Err(err).Msg("could not save tracked data")
	}

	session := online.Session()
	logger.Info().
		Int("games", session.Games).
		Int("record", session.Record).
		Msg("training finished")

	return runErr
}

// newModel returns a Q-network as described by the settings
func newModel(batchSize int) (*qnet.QNet, error) {
	c, err := qnet.DefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("newModel: %w", err)
	}

	c.Hidden = flags.Model.Hidden
	c.Gamma = flags.Experiment.Gamma
	c.BatchSize = batchSize
	c.Path = flags.ModelPath()

	if c.Activation, err = network.ParseActivation(flags.Model.Activation); err != nil {
		return nil, fmt.Errorf("newModel: %w", err)
	}
	if c.Solver, err = solver.NewDefaultAdam(flags.Model.LearningRate); err != nil {
		return nil, fmt.Errorf("newModel: %w", err)
	}

	model, err := qnet.New(c, rand.NewSource(flags.Seed+modelSeedOffset))
	if err != nil {
		return nil, fmt.Errorf("newModel: %w", err)
	}
	return model, nil
}
