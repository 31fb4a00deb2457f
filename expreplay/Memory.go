// Package expreplay implements a bounded experience replay buffer
package expreplay

import (
	"github.com/gammazero/deque"
	"golang.org/x/exp/rand"

	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// DefaultCapacity is the default maximum number of transitions stored
const DefaultCapacity int = 100_000

// Memory implements an experience replay buffer which stores at most a
// fixed number of transitions. When a transition is appended to a full
// Memory, the oldest transition is evicted. Transitions are sampled
// uniformly at random without replacement.
//
// A Memory is not safe for concurrent use.
type Memory struct {
	transitions deque.Deque[ts.Transition]
	capacity    int
	rng         *rand.Rand

	// indices is scratch space for sampling
	indices []int
}

// New returns a new Memory which stores at most capacity transitions.
// The src parameter is the source of randomness used for sampling.
func New(capacity int, src rand.Source) (*Memory, error) {
	if capacity <= 0 {
		return nil, &ExpReplayError{Op: "new", Err: ErrInvalidCapacity}
	}
	return &Memory{
		capacity: capacity,
		rng:      rand.New(src),
	}, nil
}

// Append adds a transition to the end of the Memory, evicting the
// oldest transition if the Memory is over capacity
func (m *Memory) Append(t ts.Transition) {
	m.transitions.PushBack(t)
	for m.transitions.Len() > m.capacity {
		m.transitions.PopFront()
	}
}

// Sample returns batchSize transitions chosen uniformly at random
// without replacement. If the Memory holds batchSize or fewer
// transitions, all transitions are returned. A non-positive batchSize
// or an empty Memory results in an empty batch.
//
// Sample does not modify the Memory. The order of the returned
// transitions carries no meaning.
func (m *Memory) Sample(batchSize int) []ts.Transition {
	n := m.Len()
	if batchSize <= 0 || n == 0 {
		return []ts.Transition{}
	}

	if n <= batchSize {
		batch := make([]ts.Transition, n)
		for i := range batch {
			batch[i] = m.transitions.At(i)
		}
		return batch
	}

	// Partial Fisher-Yates shuffle over the indices of the Memory
	if cap(m.indices) < n {
		m.indices = make([]int, n)
	}
	m.indices = m.indices[:n]
	for i := range m.indices {
		m.indices[i] = i
	}

	batch := make([]ts.Transition, batchSize)
	for i := 0; i < batchSize; i++ {
		j := i + m.rng.Intn(n-i)
		m.indices[i], m.indices[j] = m.indices[j], m.indices[i]
		batch[i] = m.transitions.At(m.indices[i])
	}
	return batch
}

// At returns the transition at index i, where index 0 is the oldest
// stored transition
func (m *Memory) At(i int) ts.Transition {
	return m.transitions.At(i)
}

// Len returns the number of transitions currently stored
func (m *Memory) Len() int {
	return m.transitions.Len()
}

// Capacity returns the maximum number of transitions stored
func (m *Memory) Capacity() int {
	return m.capacity
}
