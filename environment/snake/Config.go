package snake

import "fmt"

// Default board parameters
const (
	DefaultWidth      int = 640
	DefaultHeight     int = 480
	DefaultBlockSize  int = 20
	DefaultFrameLimit int = 100
)

// Rewards given by the game
const (
	FoodReward  float64 = 10.0
	DeathReward float64 = -10.0
)

// Config describes the board of a snake Game. All sizes are in pixels.
//
// An episode is cut off once the number of frames played exceeds
// FrameLimit times the length of the snake, so that a snake circling
// forever still terminates.
type Config struct {
	Width      int
	Height     int
	BlockSize  int
	FrameLimit int
	Seed       uint64
}

// DefaultConfig returns the default board configuration
func DefaultConfig(seed uint64) Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		BlockSize:  DefaultBlockSize,
		FrameLimit: DefaultFrameLimit,
		Seed:       seed,
	}
}

// Validate returns an error if the Config cannot describe a board
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("validate: block size must be > 0")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("validate: board dimensions must be > 0")
	}
	if c.Width%c.BlockSize != 0 || c.Height%c.BlockSize != 0 {
		return fmt.Errorf("validate: board dimensions (%v, %v) must be "+
			"multiples of the block size %v", c.Width, c.Height, c.BlockSize)
	}
	if c.Width/c.BlockSize < 4 {
		return fmt.Errorf("validate: board must be at least 4 blocks wide")
	}
	if c.FrameLimit <= 0 {
		return fmt.Errorf("validate: frame limit must be > 0")
	}
	return nil
}

// cols returns the number of columns of blocks on the board
func (c Config) cols() int {
	return c.Width / c.BlockSize
}

// rows returns the number of rows of blocks on the board
func (c Config) rows() int {
	return c.Height / c.BlockSize
}
