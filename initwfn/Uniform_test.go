package initwfn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

func TestFanInUniformBounds(t *testing.T) {
	init := FanInUniform(rand.NewSource(1))

	weights := init(tensor.Float64, 16, 4).([]float64)
	require.Len(t, weights, 64)

	bound := 1.0 / math.Sqrt(16)
	for _, w := range weights {
		require.LessOrEqual(t, math.Abs(w), bound)
	}
}

func TestFanInUniformReproducible(t *testing.T) {
	first := FanInUniform(rand.NewSource(7))(tensor.Float64, 11, 8)
	second := FanInUniform(rand.NewSource(7))(tensor.Float64, 11, 8)
	require.Equal(t, first, second)

	third := FanInUniform(rand.NewSource(8))(tensor.Float64, 11, 8)
	require.NotEqual(t, first, third)
}

func TestFanInUniformFloat32(t *testing.T) {
	weights := FanInUniform(rand.NewSource(1))(tensor.Float32, 3, 3)
	require.Len(t, weights.([]float32), 9)
}
