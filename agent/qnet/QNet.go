// Package qnet implements a deep Q-network model for the snake agent.
//
// A QNet predicts one action value per action with a multi-layered
// perceptron and learns by minimizing the squared TD error
//
//	(r + γ * max[Q(s', a')] - Q(s, a))²
//
// where the next state term is dropped on terminal transitions. The
// error is averaged over every (sample, action) entry, with untaken
// actions contributing zero error.
package qnet

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/initwfn"
	"github.com/samuelfneumann/snakelearn/network"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// QNet implements agent.Model using a neural network action-value
// function. A QNet keeps three copies of its network: one for
// predicting, one for online updates on single transitions, and one
// for batch updates on replayed transitions. The copies always have
// identical weights outside of an update.
type QNet struct {
	Config

	predictNet network.NeuralNet
	predictVM  G.VM

	online *learner
	replay *learner

	solver G.Solver
	file   *checkpointer.File
}

// New returns a new QNet with weights initialized from src
func New(c Config, src rand.Source) (*QNet, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	biases := make([]bool, len(c.Hidden))
	activations := make([]*network.Activation, len(c.Hidden))
	for i := range c.Hidden {
		biases[i] = true
		activations[i] = c.Activation
	}

	predictNet, err := network.NewMultiHeadMLP(c.Features, 1, c.Actions,
		G.NewGraph(), c.Hidden, biases, initwfn.FanInUniform(src),
		activations)
	if err != nil {
		return nil, fmt.Errorf("new: could not create network: %v", err)
	}

	online, err := newLearner(predictNet, 1, c.Gamma)
	if err != nil {
		return nil, fmt.Errorf("new: could not create online learner: %v",
			err)
	}

	replay, err := newLearner(predictNet, c.BatchSize, c.Gamma)
	if err != nil {
		return nil, fmt.Errorf("new: could not create replay learner: %v",
			err)
	}

	return &QNet{
		Config:     c,
		predictNet: predictNet,
		predictVM:  G.NewTapeMachine(predictNet.Graph()),
		online:     online,
		replay:     replay,
		solver:     c.Solver,
		file:       checkpointer.NewFile(c.Path),
	}, nil
}

// Predict returns the predicted action values in state
func (q *QNet) Predict(state mat.Vector) ([]float64, error) {
	if state.Len() != q.Features {
		return nil, fmt.Errorf("predict: invalid state size \n\twant(%v)"+
			"\n\thave(%v)", q.Features, state.Len())
	}

	input := make([]float64, state.Len())
	for i := range input {
		input[i] = state.AtVec(i)
	}
	if err := q.predictNet.SetInput(input); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	if err := q.predictVM.RunAll(); err != nil {
		q.predictVM.Reset()
		return nil, fmt.Errorf("predict: could not run network: %v", err)
	}
	values := copyData(q.predictNet.Output())
	q.predictVM.Reset()

	return values, nil
}

// OnlineUpdate performs a single update using only the transition t
func (q *QNet) OnlineUpdate(t ts.Transition) error {
	if _, err := q.online.step([]ts.Transition{t}, q.solver); err != nil {
		return fmt.Errorf("onlineUpdate: %v", err)
	}
	if err := q.sync(q.online.trainNet); err != nil {
		return fmt.Errorf("onlineUpdate: %v", err)
	}
	return nil
}

// BatchUpdate performs a single update using a batch of transitions.
// The batch may be at most BatchSize transitions. An empty batch is a
// no-op.
func (q *QNet) BatchUpdate(batch []ts.Transition) error {
	if len(batch) == 0 {
		return nil
	}
	if len(batch) > q.BatchSize {
		return fmt.Errorf("batchUpdate: batch of size %v exceeds maximum "+
			"batch size %v", len(batch), q.BatchSize)
	}

	if _, err := q.replay.step(batch, q.solver); err != nil {
		return fmt.Errorf("batchUpdate: %v", err)
	}
	if err := q.sync(q.replay.trainNet); err != nil {
		return fmt.Errorf("batchUpdate: %v", err)
	}
	return nil
}

// sync copies the weights of source to every other network
func (q *QNet) sync(source network.NeuralNet) error {
	nets := []network.NeuralNet{
		q.predictNet,
		q.online.trainNet,
		q.online.targetNet,
		q.replay.trainNet,
		q.replay.targetNet,
	}

	weights := source.Weights()
	for _, net := range nets {
		if net == source {
			continue
		}
		if err := net.SetWeights(weights); err != nil {
			return fmt.Errorf("sync: could not copy weights: %v", err)
		}
	}
	return nil
}

// Save saves the weights of the QNet to its checkpoint file
func (q *QNet) Save() error {
	if err := q.file.Save(q); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Load loads the weights of the QNet from its checkpoint file. The
// checkpoint must have been saved by a QNet with the same
// architecture.
func (q *QNet) Load() error {
	if err := q.file.Load(q); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// checkpoint is the gob-encoded form of a QNet
type checkpoint struct {
	Features int
	Actions  int
	Hidden   []int
	Weights  [][]float64
}

// GobEncode implements the gob.GobEncoder interface
func (q *QNet) GobEncode() ([]byte, error) {
	c := checkpoint{
		Features: q.Features,
		Actions:  q.Actions,
		Hidden:   q.Hidden,
		Weights:  q.predictNet.Weights(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("gobEncode: could not encode weights: %v", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. Only the weights
// are restored, so the receiver must already have been constructed
// with New.
func (q *QNet) GobDecode(in []byte) error {
	var c checkpoint
	if err := gob.NewDecoder(bytes.NewReader(in)).Decode(&c); err != nil {
		return fmt.Errorf("gobDecode: could not decode weights: %v", err)
	}

	if !q.sameArchitecture(c) {
		return fmt.Errorf("gobDecode: architecture mismatch \n\twant(%v, "+
			"%v, %v)\n\thave(%v, %v, %v)", q.Features, q.Hidden, q.Actions,
			c.Features, c.Hidden, c.Actions)
	}

	if err := q.predictNet.SetWeights(c.Weights); err != nil {
		return fmt.Errorf("gobDecode: %v", err)
	}
	if err := q.sync(q.predictNet); err != nil {
		return fmt.Errorf("gobDecode: %v", err)
	}
	return nil
}

func (q *QNet) sameArchitecture(c checkpoint) bool {
	if c.Features != q.Features || c.Actions != q.Actions ||
		len(c.Hidden) != len(q.Hidden) {
		return false
	}
	for i := range c.Hidden {
		if c.Hidden[i] != q.Hidden[i] {
			return false
		}
	}
	return true
}
