// Package features implements the featurization of snake environment
// snapshots into fixed-size binary feature vectors
package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/snakelearn/environment"
)

// Size is the number of features produced by an Encoder
const Size int = 11

// DefaultStep is the default distance from the head at which danger is
// checked, the block size of the default snake board
const DefaultStep int = 20

// Indices of each feature in an encoded vector
const (
	DangerStraight int = iota
	DangerRight
	DangerLeft
	HeadingLeft
	HeadingRight
	HeadingUp
	HeadingDown
	FoodLeft
	FoodRight
	FoodUp
	FoodDown
)

// Encoder encodes a snapshot of a snake environment as a vector of
// Size binary features:
//
//	[0-2]	danger straight ahead, to the right, and to the left of the
//			heading, looking one step away from the head
//	[3-6]	one-hot heading: left, right, up, down
//	[7-10]	food is left of, right of, above, or below the head
//
// Danger to the right of the heading is checked on the neighbour in the
// direction rotated 90 degrees clockwise from the heading, danger to the
// left on the neighbour rotated 90 degrees counter clockwise.
type Encoder struct {
	step int
}

// NewEncoder returns a new Encoder which looks for danger step pixels
// away from the head. The step should equal the block size of the
// environment.
func NewEncoder(step int) (*Encoder, error) {
	if step <= 0 {
		return nil, fmt.Errorf("newEncoder: step must be > 0")
	}
	return &Encoder{step}, nil
}

// Step returns the distance from the head at which danger is checked
func (e *Encoder) Step() int {
	return e.step
}

// Encode encodes the snapshot as a feature vector. Encode has no side
// effects and is deterministic given the snapshot.
func (e *Encoder) Encode(s env.Snapshot) (*mat.VecDense, error) {
	head, ok := env.Head(s)
	if !ok {
		return nil, fmt.Errorf("encode: snapshot has no snake head")
	}
	heading := s.Heading()
	food := s.Food()

	state := make([]float64, Size)

	danger := func(d env.Direction) float64 {
		return indicator(s.IsCollision(d.Neighbour(head, e.step)))
	}
	state[DangerStraight] = danger(heading)
	state[DangerRight] = danger(heading.Clockwise())
	state[DangerLeft] = danger(heading.CounterClockwise())

	state[HeadingLeft] = indicator(heading == env.Left)
	state[HeadingRight] = indicator(heading == env.Right)
	state[HeadingUp] = indicator(heading == env.Up)
	state[HeadingDown] = indicator(heading == env.Down)

	state[FoodLeft] = indicator(food.X < head.X)
	state[FoodRight] = indicator(food.X > head.X)
	state[FoodUp] = indicator(food.Y < head.Y)
	state[FoodDown] = indicator(food.Y > head.Y)

	return mat.NewVecDense(Size, state), nil
}

func indicator(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
