// Package initwfn implements weight initializers for Gorgonia
// computational graphs that draw from an explicit source of randomness
package initwfn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// FanInUniform returns a weight initializer that draws each weight of
// an (in, out) weight matrix uniformly from [-1/√in, 1/√in]. Weights
// are drawn from src, so that two initializers created with sources
// seeded identically produce identical weights.
func FanInUniform(src rand.Source) G.InitWFn {
	rng := rand.New(src)

	return func(dt tensor.Dtype, s ...int) interface{} {
		size := tensor.Shape(s).TotalSize()

		bound := 1.0
		if len(s) > 0 && s[0] > 0 {
			bound = 1.0 / math.Sqrt(float64(s[0]))
		}

		switch dt {
		case tensor.Float64:
			weights := make([]float64, size)
			for i := range weights {
				weights[i] = (2*rng.Float64() - 1) * bound
			}
			return weights

		case tensor.Float32:
			weights := make([]float32, size)
			for i := range weights {
				weights[i] = float32((2*rng.Float64() - 1) * bound)
			}
			return weights

		default:
			panic(fmt.Sprintf("fanInUniform: unsupported dtype %v", dt))
		}
	}
}
