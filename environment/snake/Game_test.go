package snake

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/snakelearn/environment"
)

func oneHot(i int) *mat.VecDense {
	action := mat.NewVecDense(env.NumActions, nil)
	action.SetVec(i, 1)
	return action
}

func newGame(t *testing.T) *Game {
	t.Helper()
	g, step, err := New(DefaultConfig(1))
	require.NoError(t, err)
	require.True(t, step.First())
	return g
}

func TestReset(t *testing.T) {
	g := newGame(t)

	body := g.Snake()
	require.Len(t, body, 3)
	require.Equal(t, env.Point{X: 320, Y: 240}, body[0])
	require.Equal(t, env.Point{X: 300, Y: 240}, body[1])
	require.Equal(t, env.Point{X: 280, Y: 240}, body[2])
	require.Equal(t, env.Right, g.Heading())
	require.Equal(t, 0, g.Score())
	require.NotContains(t, body, g.Food())
}

func TestStepMovesHead(t *testing.T) {
	g := newGame(t)
	g.food = env.Point{X: 0, Y: 0}

	step, err := g.Step(oneHot(env.Straight))
	require.NoError(t, err)
	require.True(t, step.Mid())
	require.Equal(t, 1, step.Number)
	require.Equal(t, env.Point{X: 340, Y: 240}, g.Snake()[0])
	require.Len(t, g.Snake(), 3)

	_, err = g.Step(oneHot(env.TurnRight))
	require.NoError(t, err)
	require.Equal(t, env.Down, g.Heading())
	require.Equal(t, env.Point{X: 340, Y: 260}, g.Snake()[0])

	_, err = g.Step(oneHot(env.TurnLeft))
	require.NoError(t, err)
	require.Equal(t, env.Right, g.Heading())
	require.Equal(t, env.Point{X: 360, Y: 260}, g.Snake()[0])
}

func TestEatFood(t *testing.T) {
	g := newGame(t)
	g.food = env.Point{X: 340, Y: 240}

	step, err := g.Step(oneHot(env.Straight))
	require.NoError(t, err)
	require.Equal(t, FoodReward, step.Reward)
	require.Equal(t, 1, step.Score)
	require.Len(t, g.Snake(), 4)
	require.NotContains(t, g.Snake(), g.Food())
}

func TestWallCollisionEndsEpisode(t *testing.T) {
	g := newGame(t)
	g.food = env.Point{X: 0, Y: 0}

	var err error
	step := g.LastTimeStep()
	for !step.Last() {
		step, err = g.Step(oneHot(env.Straight))
		require.NoError(t, err)
	}
	require.Equal(t, DeathReward, step.Reward)
	require.Equal(t, 16, step.Number)

	_, err = g.Step(oneHot(env.Straight))
	require.Error(t, err)

	step, err = g.Reset()
	require.NoError(t, err)
	require.True(t, step.First())
}

func TestSelfCollision(t *testing.T) {
	g := newGame(t)
	g.food = env.Point{X: 0, Y: 0}
	g.snake = []env.Point{
		{X: 320, Y: 240}, {X: 300, Y: 240}, {X: 300, Y: 260},
		{X: 320, Y: 260}, {X: 340, Y: 260},
	}

	require.True(t, g.IsCollision(env.Point{X: 320, Y: 260}))
	require.False(t, g.IsCollision(env.Point{X: 320, Y: 240}))

	step, err := g.Step(oneHot(env.TurnRight))
	require.NoError(t, err)
	require.True(t, step.Last())
}

func TestFrameLimit(t *testing.T) {
	c := DefaultConfig(1)
	c.FrameLimit = 1
	g, _, err := New(c)
	require.NoError(t, err)
	g.food = env.Point{X: 0, Y: 0}

	// Circle in place. The snake has 4 blocks while its new head is
	// checked, so the fifth frame exceeds the limit.
	var steps int
	step := g.LastTimeStep()
	for !step.Last() {
		step, err = g.Step(oneHot(env.TurnRight))
		require.NoError(t, err)
		steps++
	}
	require.Equal(t, 5, steps)
	require.Equal(t, DeathReward, step.Reward)
}

func TestInvalidAction(t *testing.T) {
	g := newGame(t)

	_, err := g.Step(mat.NewVecDense(2, []float64{1, 0}))
	require.Error(t, err)

	_, err = g.Step(mat.NewVecDense(3, []float64{1, 1, 0}))
	require.Error(t, err)

	_, err = g.Step(mat.NewVecDense(3, nil))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, c := range []Config{
		{Width: 640, Height: 480, BlockSize: 0, FrameLimit: 100},
		{Width: 630, Height: 480, BlockSize: 20, FrameLimit: 100},
		{Width: 60, Height: 480, BlockSize: 20, FrameLimit: 100},
		{Width: 640, Height: 480, BlockSize: 20, FrameLimit: 0},
	} {
		_, _, err := New(c)
		require.Error(t, err, "config %+v", c)
	}
}

func TestRender(t *testing.T) {
	g := newGame(t)

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 640, img.Bounds().Dx())
	require.Equal(t, 480, img.Bounds().Dy())
}
