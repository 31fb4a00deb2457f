// Package environment outlines the interfaces and structs needed to
// implement grid-based snake environments that an agent can learn in
package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// NumActions is the number of relative actions available in a snake
// environment: continue straight, turn right, or turn left
const NumActions int = 3

// Relative actions, as indices into a one-hot action vector
const (
	Straight int = iota
	TurnRight
	TurnLeft
)

// Snapshot exposes the queryable state of a snake environment
type Snapshot interface {
	// Snake returns the body segments of the snake, head first
	Snake() []Point

	// Heading returns the direction the snake is currently moving in
	Heading() Direction

	// Food returns the position of the food
	Food() Point

	// IsCollision returns whether a snake head at point p would collide
	// with a wall or with the snake's body
	IsCollision(p Point) bool
}

// Environment implements a snake game that can be stepped with one-hot
// relative actions
type Environment interface {
	Snapshot

	// Reset resets the environment between episodes
	Reset() (ts.TimeStep, error)

	// Step takes a one-hot action of length NumActions and returns the
	// resulting TimeStep. The returned TimeStep is Last() when the
	// episode has ended.
	Step(action mat.Vector) (ts.TimeStep, error)
}

// Head returns the head of the snake in a Snapshot and whether the
// snake has a head at all
func Head(s Snapshot) (Point, bool) {
	body := s.Snake()
	if len(body) == 0 {
		return Point{}, false
	}
	return body[0], true
}
