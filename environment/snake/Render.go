package snake

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

var (
	backgroundColour = color.RGBA{0, 0, 0, 255}
	headColour       = color.RGBA{0, 100, 255, 255}
	bodyColour       = color.RGBA{0, 0, 255, 255}
	foodColour       = color.RGBA{200, 0, 0, 255}
	textColour       = color.RGBA{255, 255, 255, 255}
)

// Render draws the current board as a PNG image to w
func (g *Game) Render(w io.Writer) error {
	dc := gg.NewContext(g.Width, g.Height)
	dc.SetColor(backgroundColour)
	dc.Clear()

	block := float64(g.BlockSize)
	inset := block / 5

	// Draw the snake
	for i, segment := range g.snake {
		x, y := float64(segment.X), float64(segment.Y)
		dc.DrawRectangle(x, y, block, block)
		dc.SetColor(bodyColour)
		dc.Fill()

		if i == 0 {
			dc.DrawRectangle(x+inset, y+inset, block-2*inset, block-2*inset)
			dc.SetColor(headColour)
			dc.Fill()
		}
	}

	// Draw the food
	dc.DrawRectangle(float64(g.food.X), float64(g.food.Y), block, block)
	dc.SetColor(foodColour)
	dc.Fill()

	dc.SetColor(textColour)
	dc.DrawString(fmt.Sprintf("Score: %d", g.score), 4, 16)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: could not encode board: %v", err)
	}
	return nil
}
