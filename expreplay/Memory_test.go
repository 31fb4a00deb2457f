package expreplay

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// transition returns a transition whose reward identifies it
func transition(id int) ts.Transition {
	state := mat.NewVecDense(2, []float64{float64(id), 0})
	next := mat.NewVecDense(2, []float64{float64(id + 1), 0})
	action := mat.NewVecDense(3, []float64{1, 0, 0})
	return ts.Transition{
		State:     state,
		Action:    action,
		Reward:    float64(id),
		NextState: next,
	}
}

func newMemory(t *testing.T, capacity int, seed uint64) *Memory {
	t.Helper()
	m, err := New(capacity, rand.NewSource(seed))
	require.NoError(t, err)
	return m
}

func rewards(batch []ts.Transition) []float64 {
	r := make([]float64, len(batch))
	for i := range batch {
		r[i] = batch[i].Reward
	}
	return r
}

func TestNewInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := New(capacity, rand.NewSource(1))
		require.Error(t, err)
		require.True(t, IsInvalidCapacity(err))

		var replayErr *ExpReplayError
		require.ErrorAs(t, err, &replayErr)
		require.Equal(t, "new", replayErr.Op)
	}
}

func TestAppendBoundedFifo(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 17} {
		m := newMemory(t, capacity, 1)

		for n := 1; n <= 3*capacity+1; n++ {
			m.Append(transition(n))
			require.LessOrEqual(t, m.Len(), capacity)

			if n > capacity {
				// The oldest surviving transition is the
				// (n - capacity + 1)-th one inserted
				require.Equal(t, capacity, m.Len())
				require.Equal(t, float64(n-capacity+1), m.At(0).Reward)
			} else {
				require.Equal(t, n, m.Len())
				require.Equal(t, 1.0, m.At(0).Reward)
			}
			require.Equal(t, float64(n), m.At(m.Len()-1).Reward)
		}
	}
}

func TestSampleEmpty(t *testing.T) {
	m := newMemory(t, 10, 1)
	require.Empty(t, m.Sample(5))

	m.Append(transition(1))
	require.Empty(t, m.Sample(0))
	require.Empty(t, m.Sample(-3))
}

func TestSampleAllWhenSmall(t *testing.T) {
	m := newMemory(t, 10, 1)
	for i := 0; i < 4; i++ {
		m.Append(transition(i))
	}

	require.ElementsMatch(t, []float64{0, 1, 2, 3}, rewards(m.Sample(4)))
	require.ElementsMatch(t, []float64{0, 1, 2, 3}, rewards(m.Sample(100)))
}

func TestSampleWithoutReplacement(t *testing.T) {
	m := newMemory(t, 100, 7)
	for i := 0; i < 100; i++ {
		m.Append(transition(i))
	}

	for trial := 0; trial < 20; trial++ {
		batch := m.Sample(30)
		require.Len(t, batch, 30)

		seen := make(map[float64]bool)
		for _, r := range rewards(batch) {
			require.False(t, seen[r], "transition %v sampled twice", r)
			require.GreaterOrEqual(t, r, 0.0)
			require.Less(t, r, 100.0)
			seen[r] = true
		}
	}
}

func TestSampleDoesNotMutate(t *testing.T) {
	m := newMemory(t, 50, 3)
	for i := 0; i < 50; i++ {
		m.Append(transition(i))
	}

	m.Sample(10)
	m.Sample(50)

	require.Equal(t, 50, m.Len())
	for i := 0; i < m.Len(); i++ {
		require.Equal(t, float64(i), m.At(i).Reward)
	}
}

func TestSampleReproducible(t *testing.T) {
	first := newMemory(t, 1000, 42)
	second := newMemory(t, 1000, 42)
	for i := 0; i < 1000; i++ {
		first.Append(transition(i))
		second.Append(transition(i))
	}

	for trial := 0; trial < 5; trial++ {
		require.Equal(t, rewards(first.Sample(64)), rewards(second.Sample(64)))
	}
}

func TestSampleCoversMemory(t *testing.T) {
	m := newMemory(t, 10, 11)
	for i := 0; i < 10; i++ {
		m.Append(transition(i))
	}

	seen := make(map[float64]int)
	for trial := 0; trial < 500; trial++ {
		for _, r := range rewards(m.Sample(3)) {
			seen[r]++
		}
	}
	require.Len(t, seen, 10)
}
