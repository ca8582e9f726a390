package input

import "math"

// Page is a virtual document the front end scrolls through. It produces the
// scroll offset, in pixels, the scroll coupler consumes.
type Page struct {
	offset float64
	height float64
}

func NewPage(height float64) *Page {
	return &Page{height: math.Max(0, height)}
}

// Scroll moves the offset by delta, clamped to the page.
func (p *Page) Scroll(delta float64) float64 {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return p.offset
	}
	p.offset = math.Max(0, math.Min(p.height, p.offset+delta))
	return p.offset
}

func (p *Page) Offset() float64 { return p.offset }

// Progress is the scrolled fraction of the page.
func (p *Page) Progress() float64 {
	if p.height == 0 {
		return 0
	}
	return p.offset / p.height
}
