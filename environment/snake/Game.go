// Package snake implements the classic snake game as an environment
// that can be stepped with relative actions
package snake

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/snakelearn/environment"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// Game implements a snake game on a board of square blocks. The snake
// starts in the centre of the board heading right with a body of three
// blocks. Eating food grows the snake by one block and gives a reward
// of FoodReward. Hitting a wall or the snake's own body ends the
// episode with a reward of DeathReward.
//
// Actions are one-hot vectors of length environment.NumActions which
// move the snake straight, turn it right, or turn it left relative to
// its current heading.
type Game struct {
	Config
	rng *rand.Rand

	snake   []env.Point
	heading env.Direction
	food    env.Point

	score       int
	frames      int
	currentStep ts.TimeStep
}

// New creates a new Game and returns it ready to use together with its
// first TimeStep
func New(c Config) (*Game, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	g := &Game{
		Config: c,
		rng:    rand.New(rand.NewSource(c.Seed)),
	}
	step, err := g.Reset()
	return g, step, err
}

// Reset resets the Game to its starting configuration
func (g *Game) Reset() (ts.TimeStep, error) {
	g.heading = env.Right
	head := env.Point{
		X: (g.cols() / 2) * g.BlockSize,
		Y: (g.rows() / 2) * g.BlockSize,
	}
	g.snake = []env.Point{
		head,
		head.Add(-g.BlockSize, 0),
		head.Add(-2*g.BlockSize, 0),
	}
	g.score = 0
	g.frames = 0
	g.placeFood()

	g.currentStep = ts.New(ts.First, 0, 0, 0)
	return g.currentStep, nil
}

// Step moves the snake according to the one-hot action and returns the
// resulting TimeStep
func (g *Game) Step(action mat.Vector) (ts.TimeStep, error) {
	if g.currentStep.Last() {
		return g.currentStep, fmt.Errorf("step: episode has ended, " +
			"reset the environment")
	}

	index, err := actionIndex(action)
	if err != nil {
		return g.currentStep, fmt.Errorf("step: %v", err)
	}
	g.frames++

	// Move the head
	g.heading, err = g.heading.Turn(index)
	if err != nil {
		return g.currentStep, fmt.Errorf("step: %v", err)
	}
	head := g.heading.Neighbour(g.snake[0], g.BlockSize)
	g.snake = append([]env.Point{head}, g.snake...)

	number := g.currentStep.Number + 1

	// Game over if the snake collides or has been wandering for too long
	if g.IsCollision(head) || g.frames > g.FrameLimit*len(g.snake) {
		g.currentStep = ts.New(ts.Last, DeathReward, g.score, number)
		return g.currentStep, nil
	}

	reward := 0.0
	if head == g.food {
		g.score++
		reward = FoodReward
		g.placeFood()
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	g.currentStep = ts.New(ts.Mid, reward, g.score, number)
	return g.currentStep, nil
}

// IsCollision returns whether a head at point p collides with a wall
// or the snake's body. The head itself is not considered part of the
// body.
func (g *Game) IsCollision(p env.Point) bool {
	if p.X < 0 || p.X > g.Width-g.BlockSize || p.Y < 0 ||
		p.Y > g.Height-g.BlockSize {
		return true
	}
	for _, segment := range g.snake[1:] {
		if segment == p {
			return true
		}
	}
	return false
}

// Snake returns a copy of the snake's body, head first
func (g *Game) Snake() []env.Point {
	body := make([]env.Point, len(g.snake))
	copy(body, g.snake)
	return body
}

// Heading returns the current direction of the snake
func (g *Game) Heading() env.Direction {
	return g.heading
}

// Food returns the position of the food
func (g *Game) Food() env.Point {
	return g.food
}

// Score returns the score of the current episode
func (g *Game) Score() int {
	return g.score
}

// LastTimeStep returns the most recent TimeStep
func (g *Game) LastTimeStep() ts.TimeStep {
	return g.currentStep
}

// placeFood places food uniformly at random on a block that the snake
// does not occupy
func (g *Game) placeFood() {
	free := make([]env.Point, 0, g.cols()*g.rows())
	occupied := make(map[env.Point]struct{}, len(g.snake))
	for _, segment := range g.snake {
		occupied[segment] = struct{}{}
	}
	for c := 0; c < g.cols(); c++ {
		for r := 0; r < g.rows(); r++ {
			p := env.Point{X: c * g.BlockSize, Y: r * g.BlockSize}
			if _, ok := occupied[p]; !ok {
				free = append(free, p)
			}
		}
	}

	// A snake filling the whole board leaves food under its head
	if len(free) == 0 {
		g.food = g.snake[0]
		return
	}
	g.food = free[g.rng.Intn(len(free))]
}

// actionIndex returns the index of the single 1 in a one-hot action
func actionIndex(action mat.Vector) (int, error) {
	if action.Len() != env.NumActions {
		return -1, fmt.Errorf("invalid action length \n\twant(%v)\n\t"+
			"have(%v)", env.NumActions, action.Len())
	}

	index := -1
	for i := 0; i < action.Len(); i++ {
		switch action.AtVec(i) {
		case 0:
		case 1:
			if index >= 0 {
				return -1, fmt.Errorf("action %v is not one-hot",
					mat.Formatted(action.T()))
			}
			index = i
		default:
			return -1, fmt.Errorf("action %v is not one-hot",
				mat.Formatted(action.T()))
		}
	}
	if index < 0 {
		return -1, fmt.Errorf("action has no element set")
	}
	return index, nil
}
