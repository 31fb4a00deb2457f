// Package floatutils provides utilities for working with floats
package floatutils

// MaxSlice gets the maximum value and the indices of the maximum values
// in a slice of float64, in increasing order of index. MaxSlice panics
// if values is empty.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i := 1; i < len(values); i++ {
		if value := values[i]; value > max {
			max = value
			indices = []int{i}
		} else if value == max {
			indices = append(indices, i)
		}
	}
	return
}

// Argmax returns the index of the first occurrence of the maximum value
// in a slice of float64. Argmax panics if values is empty.
func Argmax(values []float64) int {
	_, indices := MaxSlice(values)
	return indices[0]
}
