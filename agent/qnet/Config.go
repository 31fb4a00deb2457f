package qnet

import (
	"fmt"

	env "github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/features"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/solver"
)

// Default hyperparameters
const (
	DefaultGamma        float64 = 0.9
	DefaultLearningRate float64 = 0.001
	DefaultBatchSize    int     = 1000
	DefaultHidden       int     = 256
	DefaultPath         string  = "./model/model.gob"
)

// Config describes the architecture and learning hyperparameters of a
// QNet
type Config struct {
	Features   int
	Actions    int
	Hidden     []int               // Hidden layer sizes
	Activation *network.Activation // Activation of each hidden layer
	Gamma      float64             // Discount factor
	BatchSize  int                 // Maximum replay batch size
	Solver     *solver.Solver      // Solver for learning weights
	Path       string              // File to checkpoint weights to
}

// DefaultConfig returns the default QNet configuration
func DefaultConfig() (Config, error) {
	s, err := solver.NewDefaultAdam(DefaultLearningRate)
	if err != nil {
		return Config{}, fmt.Errorf("defaultConfig: %v", err)
	}

	return Config{
		Features:   features.Size,
		Actions:    env.NumActions,
		Hidden:     []int{DefaultHidden},
		Activation: network.ReLU(),
		Gamma:      DefaultGamma,
		BatchSize:  DefaultBatchSize,
		Solver:     s,
		Path:       DefaultPath,
	}, nil
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if c.Features <= 0 {
		return fmt.Errorf("validate: number of features must be positive")
	}
	if c.Actions <= 0 {
		return fmt.Errorf("validate: number of actions must be positive")
	}
	for i, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("validate: hidden layer %v must have a "+
				"positive number of units", i)
		}
	}
	if c.Activation == nil {
		return fmt.Errorf("validate: activation must be set")
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in [0, 1] \n\thave(%v)",
			c.Gamma)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("validate: batch size must be positive")
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: solver must be set")
	}
	if c.Path == "" {
		return fmt.Errorf("validate: checkpoint path must be set")
	}
	return nil
}
