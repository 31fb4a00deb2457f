package qnet

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/solver"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

var _ agent.Model = &QNet{}

func testConfig(t *testing.T) Config {
	t.Helper()
	c, err := DefaultConfig()
	require.NoError(t, err)

	c.Hidden = []int{16}
	c.BatchSize = 4
	c.Path = filepath.Join(t.TempDir(), "model", "model.gob")
	return c
}

func newTestQNet(t *testing.T, c Config, seed uint64) *QNet {
	t.Helper()
	q, err := New(c, rand.NewSource(seed))
	require.NoError(t, err)
	return q
}

func oneHot(i int) *mat.VecDense {
	v := mat.NewVecDense(3, nil)
	v.SetVec(i, 1)
	return v
}

func state(values ...float64) *mat.VecDense {
	s := mat.NewVecDense(11, nil)
	for i, v := range values {
		s.SetVec(i, v)
	}
	return s
}

func terminal(t *testing.T, s *mat.VecDense, action int,
	reward float64) ts.Transition {
	t.Helper()
	transition, err := ts.NewTransition(s, oneHot(action), reward,
		state(), true)
	require.NoError(t, err)
	return transition
}

func TestPredict(t *testing.T) {
	q := newTestQNet(t, testConfig(t), 1)

	values, err := q.Predict(state(1, 0, 1))
	require.NoError(t, err)
	require.Len(t, values, 3)

	again, err := q.Predict(state(1, 0, 1))
	require.NoError(t, err)
	require.Equal(t, values, again)

	_, err = q.Predict(mat.NewVecDense(4, nil))
	require.Error(t, err)
}

func TestNewSeeded(t *testing.T) {
	c := testConfig(t)
	first := newTestQNet(t, c, 3)

	c.Solver, _ = solver.NewDefaultAdam(DefaultLearningRate)
	second := newTestQNet(t, c, 3)

	s := state(0, 1, 0, 1)
	a, err := first.Predict(s)
	require.NoError(t, err)
	b, err := second.Predict(s)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestOnlineUpdateMovesTowardsTarget(t *testing.T) {
	c := testConfig(t)
	c.Solver, _ = solver.NewVanilla(0.05, 0)
	q := newTestQNet(t, c, 1)

	s := state(1, 0, 0, 1, 0, 0, 0, 1)
	transition := terminal(t, s, 0, 10)

	before, err := q.Predict(s)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, q.OnlineUpdate(transition))
	}

	after, err := q.Predict(s)
	require.NoError(t, err)
	require.Less(t, math.Abs(after[0]-10), math.Abs(before[0]-10))
}

func TestBatchUpdateMovesTowardsTargets(t *testing.T) {
	c := testConfig(t)
	c.Solver, _ = solver.NewVanilla(0.05, 0)
	q := newTestQNet(t, c, 1)

	s1 := state(1, 0, 0, 1)
	s2 := state(0, 1, 1, 0, 0, 1)

	// Fewer transitions than the batch size, so the batch is padded
	batch := []ts.Transition{terminal(t, s1, 1, 10), terminal(t, s2, 2, -10)}

	before1, err := q.Predict(s1)
	require.NoError(t, err)
	before2, err := q.Predict(s2)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, q.BatchUpdate(batch))
	}

	after1, err := q.Predict(s1)
	require.NoError(t, err)
	after2, err := q.Predict(s2)
	require.NoError(t, err)

	require.Less(t, math.Abs(after1[1]-10), math.Abs(before1[1]-10))
	require.Less(t, math.Abs(after2[2]+10), math.Abs(before2[2]+10))
}

func TestUpdatesShareWeights(t *testing.T) {
	c := testConfig(t)
	c.Solver, _ = solver.NewVanilla(0.05, 0)
	q := newTestQNet(t, c, 1)

	transition := terminal(t, state(1), 0, 10)
	require.NoError(t, q.OnlineUpdate(transition))
	require.Equal(t, q.predictNet.Weights(), q.replay.trainNet.Weights())
	require.Equal(t, q.predictNet.Weights(), q.online.targetNet.Weights())

	require.NoError(t, q.BatchUpdate([]ts.Transition{transition}))
	require.Equal(t, q.predictNet.Weights(), q.online.trainNet.Weights())
	require.Equal(t, q.predictNet.Weights(), q.replay.targetNet.Weights())
}

func TestBatchUpdateSizes(t *testing.T) {
	q := newTestQNet(t, testConfig(t), 1)
	weights := q.predictNet.Weights()

	require.NoError(t, q.BatchUpdate(nil))
	require.Equal(t, weights, q.predictNet.Weights())

	batch := make([]ts.Transition, 5)
	for i := range batch {
		batch[i] = terminal(t, state(), 0, 1)
	}
	require.Error(t, q.BatchUpdate(batch))
}

func TestUpdateInvalidTransition(t *testing.T) {
	q := newTestQNet(t, testConfig(t), 1)

	transition := ts.Transition{
		State:     mat.NewVecDense(4, nil),
		Action:    oneHot(0),
		NextState: mat.NewVecDense(4, nil),
	}
	require.Error(t, q.OnlineUpdate(transition))

	transition = ts.Transition{
		State:     state(),
		Action:    mat.NewVecDense(2, nil),
		NextState: state(),
	}
	require.Error(t, q.BatchUpdate([]ts.Transition{transition}))
}

func TestSaveLoad(t *testing.T) {
	c := testConfig(t)
	q := newTestQNet(t, c, 1)
	require.NoError(t, q.OnlineUpdate(terminal(t, state(1, 1), 2, 10)))
	require.NoError(t, q.Save())

	s := state(1, 1)
	want, err := q.Predict(s)
	require.NoError(t, err)

	c.Solver, _ = solver.NewDefaultAdam(DefaultLearningRate)
	restored := newTestQNet(t, c, 99)
	have, err := restored.Predict(s)
	require.NoError(t, err)
	require.NotEqual(t, want, have)

	require.NoError(t, restored.Load())
	have, err = restored.Predict(s)
	require.NoError(t, err)
	require.Equal(t, want, have)
	require.Equal(t, q.predictNet.Weights(),
		restored.replay.trainNet.Weights())
}

func TestLoadErrors(t *testing.T) {
	c := testConfig(t)
	q := newTestQNet(t, c, 1)
	require.ErrorIs(t, q.Load(), os.ErrNotExist)
	require.NoError(t, q.Save())

	// A checkpoint for a different architecture cannot be loaded
	c.Hidden = []int{8}
	c.Solver, _ = solver.NewDefaultAdam(DefaultLearningRate)
	other := newTestQNet(t, c, 1)
	require.Error(t, other.Load())
}

func TestConfigValidate(t *testing.T) {
	c, err := DefaultConfig()
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	require.Equal(t, 11, c.Features)
	require.Equal(t, 3, c.Actions)
	require.Equal(t, []int{256}, c.Hidden)
	require.Equal(t, 0.9, c.Gamma)

	invalid := []func(*Config){
		func(c *Config) { c.Features = 0 },
		func(c *Config) { c.Actions = 0 },
		func(c *Config) { c.Hidden = []int{0} },
		func(c *Config) { c.Activation = nil },
		func(c *Config) { c.Gamma = 1.5 },
		func(c *Config) { c.BatchSize = 0 },
		func(c *Config) { c.Solver = nil },
		func(c *Config) { c.Path = "" },
	}
	for i, modify := range invalid {
		c, err := DefaultConfig()
		require.NoError(t, err)
		modify(&c)
		require.Error(t, c.Validate(), "case %v", i)

		_, err = New(c, rand.NewSource(1))
		require.Error(t, err, "case %v", i)
	}
}
