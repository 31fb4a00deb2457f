package environment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRotation(t *testing.T) {
	tests := []struct {
		heading, right, left Direction
	}{
		{Right, Down, Up},
		{Down, Left, Right},
		{Left, Up, Down},
		{Up, Right, Left},
	}

	for _, test := range tests {
		require.Equal(t, test.right, test.heading.Clockwise(),
			"right of %v", test.heading)
		require.Equal(t, test.left, test.heading.CounterClockwise(),
			"left of %v", test.heading)
	}
}

func TestTurn(t *testing.T) {
	d, err := Up.Turn(Straight)
	require.NoError(t, err)
	require.Equal(t, Up, d)

	d, err = Up.Turn(TurnRight)
	require.NoError(t, err)
	require.Equal(t, Right, d)

	d, err = Up.Turn(TurnLeft)
	require.NoError(t, err)
	require.Equal(t, Left, d)

	_, err = Up.Turn(3)
	require.Error(t, err)
}

func TestNeighbour(t *testing.T) {
	p := Point{X: 100, Y: 100}

	require.Equal(t, Point{X: 120, Y: 100}, Right.Neighbour(p, 20))
	require.Equal(t, Point{X: 80, Y: 100}, Left.Neighbour(p, 20))
	require.Equal(t, Point{X: 100, Y: 80}, Up.Neighbour(p, 20))
	require.Equal(t, Point{X: 100, Y: 120}, Down.Neighbour(p, 20))
}
