package environment

import "fmt"

// Point is a position on the board, in pixels. X grows to the right
// and Y grows downwards.
type Point struct {
	X, Y int
}

// Add returns the point translated by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Direction is one of the four cardinal directions
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
)

// clockwise lists the directions in clockwise order on screen
var clockwise = [4]Direction{Right, Down, Left, Up}

// Clockwise returns the direction rotated 90 degrees clockwise, which
// is the direction to the right of the heading
func (d Direction) Clockwise() Direction {
	return clockwise[(d.index()+1)%len(clockwise)]
}

// CounterClockwise returns the direction rotated 90 degrees counter
// clockwise, which is the direction to the left of the heading
func (d Direction) CounterClockwise() Direction {
	return clockwise[(d.index()+len(clockwise)-1)%len(clockwise)]
}

// Delta returns the unit displacement of the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Up:
		return 0, -1
	}
	panic(fmt.Sprintf("delta: illegal direction %d", int(d)))
}

// Neighbour returns the point step pixels away from p in direction d
func (d Direction) Neighbour(p Point, step int) Point {
	dx, dy := d.Delta()
	return p.Add(dx*step, dy*step)
}

// Turn applies a relative action index (Straight, TurnRight or
// TurnLeft) to the direction
func (d Direction) Turn(action int) (Direction, error) {
	switch action {
	case Straight:
		return d, nil
	case TurnRight:
		return d.Clockwise(), nil
	case TurnLeft:
		return d.CounterClockwise(), nil
	}
	return d, fmt.Errorf("turn: illegal action %d", action)
}

func (d Direction) index() int {
	if d < Right || d > Up {
		panic(fmt.Sprintf("index: illegal direction %d", int(d)))
	}
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Up:
		return "Up"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}
