package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// predictor returns fixed scores and counts how often it was queried
type predictor struct {
	scores []float64
	err    error
	calls  int
}

func (p *predictor) Predict(mat.Vector) ([]float64, error) {
	p.calls++
	return p.scores, p.err
}

func state() mat.Vector {
	return mat.NewVecDense(11, nil)
}

func requireOneHot(t *testing.T, action *mat.VecDense) int {
	t.Helper()
	require.Equal(t, 3, action.Len())

	index, sum := -1, 0.0
	for i := 0; i < action.Len(); i++ {
		v := action.AtVec(i)
		require.True(t, v == 0 || v == 1, "element %v is %v", i, v)
		if v == 1 {
			index = i
		}
		sum += v
	}
	require.Equal(t, 1.0, sum)
	return index
}

func TestEpsilonSchedule(t *testing.T) {
	previous := Epsilon(DefaultStart, 0)
	require.Equal(t, 80, previous)

	for games := 1; games < 200; games++ {
		epsilon := Epsilon(DefaultStart, games)
		want := 80 - games
		if want < 0 {
			want = 0
		}
		require.Equal(t, want, epsilon)
		require.LessOrEqual(t, epsilon, previous)
		previous = epsilon
	}
	require.Equal(t, 0, Epsilon(DefaultStart, 80))
}

func TestExploitSelectsFirstMax(t *testing.T) {
	p := &predictor{scores: []float64{0.5, 2.0, 2.0}}
	e, err := NewEGreedy(p, DefaultConfig(), rand.NewSource(1))
	require.NoError(t, err)

	// Epsilon is 0 once 80 games have been played
	for i := 0; i < 50; i++ {
		action, err := e.SelectAction(state(), 80+i)
		require.NoError(t, err)
		require.Equal(t, 1, requireOneHot(t, action))
	}
	require.Equal(t, 50, p.calls)
}

func TestExploreSkipsModel(t *testing.T) {
	p := &predictor{scores: []float64{1, 0, 0}}

	// Epsilon above the range means every decision explores
	c := DefaultConfig()
	c.Start = 1000
	e, err := NewEGreedy(p, c, rand.NewSource(1))
	require.NoError(t, err)

	counts := make([]int, 3)
	for i := 0; i < 300; i++ {
		action, err := e.SelectAction(state(), 0)
		require.NoError(t, err)
		counts[requireOneHot(t, action)]++
	}
	require.Zero(t, p.calls)
	for i, count := range counts {
		require.Positive(t, count, "action %v never explored", i)
	}
}

func TestSelectActionReproducible(t *testing.T) {
	p := &predictor{scores: []float64{0, 0, 1}}

	first, err := NewEGreedy(p, DefaultConfig(), rand.NewSource(9))
	require.NoError(t, err)
	second, err := NewEGreedy(p, DefaultConfig(), rand.NewSource(9))
	require.NoError(t, err)

	for games := 0; games < 100; games++ {
		a, err := first.SelectAction(state(), games)
		require.NoError(t, err)
		b, err := second.SelectAction(state(), games)
		require.NoError(t, err)
		require.True(t, mat.Equal(a, b), "games %v", games)
	}
}

func TestSelectActionErrors(t *testing.T) {
	failing := &predictor{err: errors.New("boom")}
	e, err := NewEGreedy(failing, DefaultConfig(), rand.NewSource(1))
	require.NoError(t, err)
	_, err = e.SelectAction(state(), 100)
	require.Error(t, err)

	short := &predictor{scores: []float64{1, 2}}
	e, err = NewEGreedy(short, DefaultConfig(), rand.NewSource(1))
	require.NoError(t, err)
	_, err = e.SelectAction(state(), 100)
	require.Error(t, err)
}

func TestNewEGreedyValidation(t *testing.T) {
	p := &predictor{scores: []float64{0, 0, 0}}

	_, err := NewEGreedy(nil, DefaultConfig(), rand.NewSource(1))
	require.Error(t, err)

	for _, c := range []Config{
		{Start: -1, Range: 200, Actions: 3},
		{Start: 80, Range: 0, Actions: 3},
		{Start: 80, Range: 200, Actions: 0},
	} {
		_, err := NewEGreedy(p, c, rand.NewSource(1))
		require.Error(t, err, "config %+v", c)
	}
}
