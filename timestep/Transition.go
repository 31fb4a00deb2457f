package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (state, action, reward, next state, done)
// tuple used for learning. Actions are stored as one-hot vectors.
//
// A Transition should not be modified once it has been created. Any
// replay buffer that stores it takes ownership of its vectors.
type Transition struct {
	State     *mat.VecDense
	Action    *mat.VecDense
	Reward    float64
	NextState *mat.VecDense
	Done      bool
}

// NewTransition returns a new Transition. The state and next state
// must have the same length.
func NewTransition(state, action *mat.VecDense, reward float64,
	nextState *mat.VecDense, done bool) (Transition, error) {
	if state.Len() != nextState.Len() {
		return Transition{}, fmt.Errorf("newTransition: state and next "+
			"state lengths differ \n\twant(%v)\n\thave(%v)", state.Len(),
			nextState.Len())
	}
	return Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Done:      done,
	}, nil
}

// ActionIndex returns the index of the taken action in the one-hot
// action vector, or -1 if no action is set
func (t Transition) ActionIndex() int {
	for i := 0; i < t.Action.Len(); i++ {
		if t.Action.AtVec(i) != 0 {
			return i
		}
	}
	return -1
}

func (t Transition) String() string {
	str := "Transition | Action: %v  |  Reward:  %.2f  |  Done: %v"
	return fmt.Sprintf(str, t.ActionIndex(), t.Reward, t.Done)
}
