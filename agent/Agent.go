// Package agent defines the interfaces between an agent's policy, its
// learnable model, and the training loop
package agent

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// Predictor predicts a score for each action in some state
type Predictor interface {
	// Predict returns one score per action for the state
	Predict(state mat.Vector) ([]float64, error)
}

// Learner implements a learning algorithm that defines how weights are
// updated from experience.
type Learner interface {
	// OnlineUpdate performs a single update using only the most recent
	// transition
	OnlineUpdate(t ts.Transition) error

	// BatchUpdate performs a single update using a batch of
	// transitions, usually sampled from an experience replay buffer.
	// An empty batch is a no-op.
	BatchUpdate(batch []ts.Transition) error
}

// Checkpointer saves and restores the learned weights of a model
type Checkpointer interface {
	Save() error
	Load() error
}

// Model is a learnable action-value model. The Predictor and Learner of
// a Model share the same weights so that any changes the Learner makes
// are reflected in the predictions.
type Model interface {
	Predictor
	Learner
	Checkpointer
}
