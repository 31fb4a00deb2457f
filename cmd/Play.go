package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/experiment"
	"github.com/samuelfneumann/snakelearn/experiment/trackers"
	"github.com/samuelfneumann/snakelearn/features"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// PlayCommand returns the command which plays with a saved model
func PlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play greedily with a saved model without learning",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, done := signalContext()
			defer done()

			if err := play(ctx, cmd, logger); err != nil {
				logger.Error().Err(err).Msg("playing failed")
				return err
			}
			return nil
		},
	}
	addPlayFlags(cmd)

	return cmd
}

func play(ctx context.Context, cmd *cobra.Command, logger zerolog.Logger) error {
	game, _, err := snake.New(flags.SnakeConfig())
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	// Only single transitions are ever needed
	model, err := newModel(1)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	if err := model.Load(); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	encoder, err := features.NewEncoder(flags.Game.BlockSize)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	opts := []experiment.Option{
		experiment.WithTrackers(
			trackers.NewLogger(cmd.OutOrStdout(), flags.Color, logger)),
		experiment.WithLogger(logger),
		experiment.WithEncoder(encoder),
		experiment.WithSource(rand.NewSource(flags.Seed + agentSeedOffset)),
	}
	if flags.RenderDir != "" {
		if err := os.MkdirAll(flags.RenderDir, 0o755); err != nil {
			return fmt.Errorf("play: could not create render directory: %w",
				err)
		}
		opts = append(opts, experiment.WithStepHook(renderer(game,
			flags.RenderDir)))
	}

	eval, err := experiment.NewEval(game, model, opts...)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	// Play a single game unless told otherwise
	n := flags.Episodes
	if !cmd.Flags().Changed("episodes") && configPath == "" {
		n = 1
	}

	err = eval.Run(ctx, n)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	session := eval.Session()
	logger.Info().
		Int("games", session.Games).
		Int("record", session.Record).
		Msg("playing finished")

	return err
}

// renderer returns a StepHook which renders the game to one PNG file
// per step in dir
func renderer(game *snake.Game, dir string) experiment.StepHook {
	episode := 1

	return func(_ environment.Snapshot, step ts.TimeStep) error {
		name := fmt.Sprintf("game%03d-step%04d.png", episode, step.Number)
		if step.Last() {
			episode++
		}

		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		defer f.Close()

		if err := game.Render(f); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return nil
	}
}
