// Package policy implements action selection policies for the snake
// agent
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakelearn/agent"
	env "github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/utils/floatutils"
)

// Default exploration schedule
const (
	DefaultStart int = 80
	DefaultRange int = 200
)

// Config describes the exploration schedule of an EGreedy policy.
//
// Epsilon starts at Start and decreases by one with every game played,
// flooring at 0. On each decision, an integer is drawn uniformly from
// [0, Range) and the policy explores if the draw is less than epsilon,
// so the probability of exploring is epsilon / Range.
type Config struct {
	Start   int
	Range   int
	Actions int
}

// DefaultConfig returns the default exploration schedule
func DefaultConfig() Config {
	return Config{
		Start:   DefaultStart,
		Range:   DefaultRange,
		Actions: env.NumActions,
	}
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("validate: epsilon start must be >= 0")
	}
	if c.Range <= 0 {
		return fmt.Errorf("validate: epsilon range must be > 0")
	}
	if c.Actions <= 0 {
		return fmt.Errorf("validate: number of actions must be > 0")
	}
	return nil
}

// Epsilon returns the exploration parameter after games games
func Epsilon(start, games int) int {
	if epsilon := start - games; epsilon > 0 {
		return epsilon
	}
	return 0
}

// EGreedy implements an epsilon greedy policy whose epsilon decays with
// the number of games played. When exploiting, EGreedy selects the
// action with the highest predicted score, breaking ties in favour of
// the first such action. When exploring, the model is not consulted.
type EGreedy struct {
	Config
	model agent.Predictor
	rng   *rand.Rand
}

// NewEGreedy returns a new EGreedy policy which exploits using the
// predictions of model. The src parameter is the source of randomness
// for exploration.
func NewEGreedy(model agent.Predictor, c Config,
	src rand.Source) (*EGreedy, error) {
	if model == nil {
		return nil, fmt.Errorf("newEGreedy: model must not be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newEGreedy: %v", err)
	}

	return &EGreedy{
		Config: c,
		model:  model,
		rng:    rand.New(src),
	}, nil
}

// Epsilon returns the exploration parameter after games games
func (e *EGreedy) Epsilon(games int) int {
	return Epsilon(e.Start, games)
}

// SelectAction selects an action in state after games games and
// returns it as a one-hot vector
func (e *EGreedy) SelectAction(state mat.Vector,
	games int) (*mat.VecDense, error) {
	action := mat.NewVecDense(e.Actions, nil)

	// Explore
	if e.rng.Intn(e.Range) < e.Epsilon(games) {
		action.SetVec(e.rng.Intn(e.Actions), 1.0)
		return action, nil
	}

	// Exploit
	scores, err := e.model.Predict(state)
	if err != nil {
		return nil, fmt.Errorf("selectAction: could not predict action "+
			"scores: %w", err)
	}
	if len(scores) != e.Actions {
		return nil, fmt.Errorf("selectAction: invalid number of action "+
			"scores \n\twant(%v)\n\thave(%v)", e.Actions, len(scores))
	}

	action.SetVec(floatutils.Argmax(scores), 1.0)
	return action, nil
}
