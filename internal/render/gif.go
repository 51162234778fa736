package render

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

const (
	cellSize    = 12
	labelMargin = 60
)

var canvasWidth = labelMargin + geom.Width*cellSize
var canvasHeight = geom.Height * cellSize

// GIF encodes frames (e.g. gamelog.Rewind's output) as a single animated
// GIF, one frame per board, with a per-snake health label column and a
// final win/lose screen.
func GIF(frames []*board.Board, anyoneAlive bool) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to render")
	}

	delay := 100 / len(frames)
	if delay < 2 {
		delay = 2
	}
	if delay > 20 {
		delay = 20
	}

	var images []*image.Paletted
	var delays []int
	for i, b := range frames {
		img, palette := frameImage(b)
		paletted := image.NewPaletted(img.Bounds(), palette)
		draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})
		images = append(images, paletted)
		if i == len(frames)-1 {
			delays = append(delays, 150)
		} else {
			delays = append(delays, delay)
		}
	}

	finalColor := color.RGBA{255, 0, 0, 255}
	if anyoneAlive {
		finalColor = color.RGBA{0, 200, 0, 255}
	}
	finalScreen := image.NewPaletted(image.Rect(0, 0, canvasWidth, canvasHeight), color.Palette{finalColor})
	images = append(images, finalScreen)
	delays = append(delays, 100)

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, &gif.GIF{Image: images, Delay: delays}); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

func frameImage(b *board.Board) (*image.RGBA, []color.Color) {
	palette := []color.Color{
		color.RGBA{20, 20, 20, 255},
		color.RGBA{255, 255, 255, 255},
		color.RGBA{0, 200, 0, 255},
		color.RGBA{200, 60, 0, 255},
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{palette[0]}, image.Point{}, draw.Src)

	green := color.RGBA{0, 200, 0, 255}
	for _, p := range b.Foods {
		drawCell(img, labelMargin+p.X*cellSize, flipY(p.Y)*cellSize, green)
	}
	hazard := color.RGBA{200, 60, 0, 255}
	for y := 0; y < geom.Height; y++ {
		for x := 0; x < geom.Width; x++ {
			if b.Hazard[geom.Point{X: x, Y: y}.Index()] {
				drawCell(img, labelMargin+x*cellSize, flipY(y)*cellSize, hazard)
			}
		}
	}

	yOffset := 10
	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		bodyColor := snakeColor(i)
		headColor := lighten(bodyColor)
		palette = append(palette, bodyColor, headColor)
		for j, p := range s.Body {
			c := bodyColor
			if j == 0 {
				c = headColor
			}
			drawCell(img, labelMargin+p.X*cellSize, flipY(p.Y)*cellSize, c)
		}
		label(img, 2, yOffset, fmt.Sprintf("%c:%3d", 'a'+i, s.Health), bodyColor)
		yOffset += 12
	}

	return img, palette
}

func flipY(y int) int { return geom.Height - 1 - y }

func snakeColor(i int) color.RGBA {
	h := sha1.Sum([]byte{byte('a' + i)})
	return color.RGBA{h[0], h[1], h[2], 255}
}

func lighten(c color.RGBA) color.RGBA {
	lift := func(v uint8) uint8 {
		if int(v)+40 > 255 {
			return 255
		}
		return v + 40
	}
	return color.RGBA{lift(c.R), lift(c.G), lift(c.B), c.A}
}

func drawCell(img *image.RGBA, x, y int, c color.RGBA) {
	for i := 0; i < cellSize-1; i++ {
		for j := 0; j < cellSize-1; j++ {
			img.Set(x+i, y+j, c)
		}
	}
}

func label(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
