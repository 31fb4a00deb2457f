package floatutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{1, 3, 2, 3})
	require.Equal(t, 3.0, max)
	require.Equal(t, []int{1, 3}, indices)

	max, indices = MaxSlice([]float64{-1})
	require.Equal(t, -1.0, max)
	require.Equal(t, []int{0}, indices)
}

func TestArgmaxFirstOccurrence(t *testing.T) {
	require.Equal(t, 0, Argmax([]float64{5, 5, 5}))
	require.Equal(t, 2, Argmax([]float64{0.1, 0.2, 0.9}))
	require.Equal(t, 1, Argmax([]float64{-3, 4, 4}))
}
