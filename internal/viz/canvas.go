package viz

import (
	"strings"

	"github.com/san-kum/skyplane/internal/sky"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid with one foreground tint per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]sky.RGB
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tint:   make([][]sky.RGB, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]sky.RGB, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// DotSize is the canvas size in sub-pixels.
func (c *Canvas) DotSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a pixel and tints its cell.
func (c *Canvas) SetColor(x, y int, col sky.RGB) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	c.Tint[y/4][x/2] = col
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	mask := ^rune(pixelMap[y%4][x%2])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Painted reports whether any dot in the cell is set.
func (c *Canvas) Painted(col, row int) bool {
	return c.Grid[row][col] != blank
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tint[i][j] = sky.RGB{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col sky.RGB) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetColor(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
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

// FillTriangle sets every dot whose center lies inside the triangle, either
// winding.
func (c *Canvas) FillTriangle(x0, y0, x1, y1, x2, y2 float64, col sky.RGB) {
	w, h := c.DotSize()
	minX := clampInt(int(min3(x0, x1, x2)), 0, w-1)
	maxX := clampInt(int(max3(x0, x1, x2))+1, 0, w-1)
	minY := clampInt(int(min3(y0, y1, y2)), 0, h-1)
	maxY := clampInt(int(max3(y0, y1, y2))+1, 0, h-1)

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		c.DrawLine(int(x0), int(y0), int(x1), int(y1), col)
		c.DrawLine(int(x1), int(y1), int(x2), int(y2), col)
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			if (area > 0 && w0 >= 0 && w1 >= 0 && w2 >= 0) ||
				(area < 0 && w0 <= 0 && w1 <= 0 && w2 <= 0) {
				c.SetColor(x, y, col)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float64) float64 { return min(a, min(b, c)) }
func max3(a, b, c float64) float64 { return max(a, max(b, c)) }

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
