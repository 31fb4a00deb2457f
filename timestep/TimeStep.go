// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first step after a reset, a middle step, or the last step of an episode
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in an environment. The
// Score is the game score accumulated so far in the current episode.
type TimeStep struct {
	stepType StepType
	Reward   float64
	Score    int
	Number   int
}

// New returns a new TimeStep
func New(t StepType, reward float64, score, number int) TimeStep {
	return TimeStep{t, reward, score, number}
}

// Type returns the StepType of the TimeStep
func (t TimeStep) Type() StepType {
	return t.stepType
}

// First returns whether a TimeStep is the first in an episode
func (t TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep ends the episode
func (t TimeStep) Last() bool {
	return t.stepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Score: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.stepType, t.Reward, t.Score, t.Number)
}
