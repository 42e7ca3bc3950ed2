package viz

import (
	"strings"

	"github.com/san-kum/diffdrive/internal/geom"
)

// Braille cell dot bits, indexed [row][col]:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid of Width x Height cells, each 2x4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in dot coordinates. Out of range is a no-op.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Field maps field inches onto a canvas, centred on the origin with +y up.
type Field struct {
	Canvas *Canvas
	// Scale is dots per inch.
	Scale float64
}

func (f Field) project(p geom.Vector2) (int, int) {
	cx, cy := f.Canvas.Width, f.Canvas.Height*2
	return cx + int(p.X*f.Scale), cy - int(p.Y*f.Scale)
}

func (f Field) Plot(p geom.Vector2) {
	x, y := f.project(p)
	f.Canvas.Set(x, y)
}

func (f Field) Line(a, b geom.Vector2) {
	x0, y0 := f.project(a)
	x1, y1 := f.project(b)
	f.Canvas.DrawLine(x0, y0, x1, y1)
}

// Robot draws the pose as a dot with a heading tick of length inches.
func (f Field) Robot(pose geom.Pose, length float64) {
	tip := pose.Position.Add(geom.Vec(length, 0).Rotated(geom.Radians(pose.Heading)))
	f.Line(pose.Position, tip)
	x, y := f.project(pose.Position)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			f.Canvas.Set(x+dx, y+dy)
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
