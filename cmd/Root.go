// Package cmd implements the command line interface of snakelearn
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootCommand returns the snakelearn command with all sub commands
func RootCommand() *cobra.Command {
	flags = DefaultFlags()

	cmd := &cobra.Command{
		Use:           "snakelearn",
		Short:         "Train a deep Q-network to play snake",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return UpdateFlags(cmd)
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
		PlayCommand(),
	)

	return cmd
}

// newLogger returns a console logger writing to w at the configured
// level
func newLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(flags.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("newLogger: %w", err)
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !flags.Color,
	}).Level(level).With().Timestamp().Logger(), nil
}

// signalContext returns a context which is cancelled on an interrupt
// or when the returned function is called
func signalContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()

	return ctx, func() { close(doneCh) }
}
