package qnet

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/snakelearn/network"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// learner updates the weights of a network with a fixed batch size
// using the squared TD error. Batches smaller than the batch size are
// padded with zero rows, which contribute no error.
type learner struct {
	batch    int
	features int
	actions  int
	gamma    float64

	trainNet network.NeuralNet
	trainVM  G.VM

	// targetNet provides the next state action values Q(s', ·) for the
	// update target r + γ * max[Q(s', a')]
	targetNet network.NeuralNet
	targetVM  G.VM

	nextStateActionValues *G.Node
	selectedActions       *G.Node
	rewards               *G.Node
	discounts             *G.Node
	scale                 *G.Node

	loss    *G.Node
	lossVal G.Value
}

// newLearner returns a learner whose networks are clones of net with
// batch size batch
func newLearner(net network.NeuralNet, batch int,
	gamma float64) (*learner, error) {
	trainNet, err := net.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("newLearner: could not create training "+
			"network: %v", err)
	}
	targetNet, err := net.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("newLearner: could not create target "+
			"network: %v", err)
	}

	actions := net.Outputs()
	g := trainNet.Graph()

	l := &learner{
		batch:     batch,
		features:  net.Features(),
		actions:   actions,
		gamma:     gamma,
		trainNet:  trainNet,
		targetNet: targetNet,
	}

	// Create nodes to compute the update target: r + γ * max[Q(s', a')]
	l.nextStateActionValues = G.NewMatrix(g, tensor.Float64,
		G.WithShape(batch, actions), G.WithName("targetActionVals"))
	l.rewards = G.NewVector(g, tensor.Float64, G.WithShape(batch),
		G.WithName("reward"))
	l.discounts = G.NewVector(g, tensor.Float64, G.WithShape(batch),
		G.WithName("discount"))

	updateTarget := G.Must(G.Max(l.nextStateActionValues, 1))
	updateTarget = G.Must(G.HadamardProd(updateTarget, l.discounts))
	updateTarget = G.Must(G.Add(updateTarget, l.rewards))

	// Actions selected in the previous states, used to pick out the
	// predicted value of the taken action. Untaken actions have zero
	// error.
	l.selectedActions = G.NewMatrix(g, tensor.Float64,
		G.WithShape(batch, actions), G.WithName("actionSelected"))
	selectedActionsValue := G.Must(G.HadamardProd(trainNet.Prediction(),
		l.selectedActions))
	selectedActionsValue = G.Must(G.Sum(selectedActionsValue, 1))

	// Squared TD error averaged over every (sample, action) entry of the
	// real rows in the batch
	l.scale = G.NewScalar(g, tensor.Float64, G.WithName("scale"))
	losses := G.Must(G.Sub(updateTarget, selectedActionsValue))
	losses = G.Must(G.Square(losses))
	l.loss = G.Must(G.Mul(G.Must(G.Sum(losses)), l.scale))
	G.Read(l.loss, &l.lossVal)

	if _, err := G.Grad(l.loss, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("newLearner: could not compute gradient: %v",
			err)
	}

	l.trainVM = G.NewTapeMachine(g, G.BindDualValues(trainNet.Learnables()...))
	l.targetVM = G.NewTapeMachine(targetNet.Graph())

	return l, nil
}

// step performs one update of the training network's weights on batch
// and returns the loss before the update
func (l *learner) step(batch []ts.Transition, solver G.Solver) (float64,
	error) {
	n := len(batch)
	if n == 0 || n > l.batch {
		return 0, fmt.Errorf("step: batch size must be in [1, %v] "+
			"\n\thave(%v)", l.batch, n)
	}

	states := make([]float64, l.batch*l.features)
	nextStates := make([]float64, l.batch*l.features)
	actions := make([]float64, l.batch*l.actions)
	rewards := make([]float64, l.batch)
	discounts := make([]float64, l.batch)

	for i, t := range batch {
		if t.State.Len() != l.features || t.NextState.Len() != l.features {
			return 0, fmt.Errorf("step: transition %v has invalid state "+
				"size \n\twant(%v)\n\thave(%v, %v)", i, l.features,
				t.State.Len(), t.NextState.Len())
		}
		if t.Action.Len() != l.actions {
			return 0, fmt.Errorf("step: transition %v has invalid action "+
				"size \n\twant(%v)\n\thave(%v)", i, l.actions,
				t.Action.Len())
		}

		for j := 0; j < l.features; j++ {
			states[i*l.features+j] = t.State.AtVec(j)
			nextStates[i*l.features+j] = t.NextState.AtVec(j)
		}
		for j := 0; j < l.actions; j++ {
			actions[i*l.actions+j] = t.Action.AtVec(j)
		}
		rewards[i] = t.Reward
		if !t.Done {
			discounts[i] = l.gamma
		}
	}

	// Compute the next state-action values
	if err := l.targetNet.SetInput(nextStates); err != nil {
		return 0, fmt.Errorf("step: could not set target net input: %v", err)
	}
	if err := l.targetVM.RunAll(); err != nil {
		return 0, fmt.Errorf("step: could not run target net: %v", err)
	}
	nextValues := copyData(l.targetNet.Output())
	l.targetVM.Reset()

	lets := []struct {
		node  *G.Node
		value interface{}
	}{
		{l.nextStateActionValues, tensor.New(tensor.WithBacking(nextValues),
			tensor.WithShape(l.batch, l.actions))},
		{l.selectedActions, tensor.New(tensor.WithBacking(actions),
			tensor.WithShape(l.batch, l.actions))},
		{l.rewards, tensor.New(tensor.WithBacking(rewards),
			tensor.WithShape(l.batch))},
		{l.discounts, tensor.New(tensor.WithBacking(discounts),
			tensor.WithShape(l.batch))},
		{l.scale, G.NewF64(1.0 / float64(n*l.actions))},
	}
	for _, let := range lets {
		if err := G.Let(let.node, let.value); err != nil {
			return 0, fmt.Errorf("step: could not set %v: %v", let.node.Name(),
				err)
		}
	}
	if err := l.trainNet.SetInput(states); err != nil {
		return 0, fmt.Errorf("step: could not set train net input: %v", err)
	}

	// Run the learning step
	if err := l.trainVM.RunAll(); err != nil {
		return 0, fmt.Errorf("step: could not run train net: %v", err)
	}
	loss := l.lossVal.Data().(float64)
	if err := solver.Step(l.trainNet.Model()); err != nil {
		l.trainVM.Reset()
		return 0, fmt.Errorf("step: could not step solver: %v", err)
	}
	l.trainVM.Reset()

	return loss, nil
}

// copyData returns a copy of the data in a float64 value
func copyData(v G.Value) []float64 {
	data := v.Data().([]float64)
	out := make([]float64, len(data))
	copy(out, data)
	return out
}
