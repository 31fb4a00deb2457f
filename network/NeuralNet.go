// Package network implements feed forward neural networks built on
// Gorgonia computational graphs.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network whose forward pass has been added to a
// computational graph. To compute the output of a NeuralNet, set its
// input using SetInput, then run a VM compiled from its Graph. The
// output can then be read with Output.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error

	// Set sets the weights of the NeuralNet to those of another
	// NeuralNet with the same architecture. The weights are copied in
	// place so that VMs compiled from the NeuralNet's graph remain
	// valid.
	Set(NeuralNet) error

	// Weights returns a copy of the learnable weights, one slice per
	// learnable node, in the order of Learnables.
	Weights() [][]float64
	SetWeights([][]float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}
