package models

// WindowHandle is the opaque identifier the display server assigns to a window.
type WindowHandle uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the center point of the rect.
func (r Rect) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Shrink returns the rect with the margins removed, never smaller than 1x1.
func (r Rect) Shrink(m Margins) Rect {
	out := Rect{
		X:      r.X + m.Left,
		Y:      r.Y + m.Top,
		Width:  r.Width - m.Left - m.Right,
		Height: r.Height - m.Top - m.Bottom,
	}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}

// Margins represents space kept clear around a region.
type Margins struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
}

// UniformMargins returns margins of n on every side.
func UniformMargins(n int) Margins {
	return Margins{Top: n, Bottom: n, Left: n, Right: n}
}

// Add returns the sum of both margins.
func (m Margins) Add(o Margins) Margins {
	return Margins{
		Top:    m.Top + o.Top,
		Bottom: m.Bottom + o.Bottom,
		Left:   m.Left + o.Left,
		Right:  m.Right + o.Right,
	}
}

// Side names an edge of a workspace.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Gutter reserves space along one side of a workspace, e.g. for a status bar.
type Gutter struct {
	Side  Side `json:"side" yaml:"side"`
	Value int  `json:"value" yaml:"value"`
}

// GutterMargins folds a gutter list into margins.
func GutterMargins(gutters []Gutter) Margins {
	var m Margins
	for _, g := range gutters {
		switch g.Side {
		case SideTop:
			m.Top += g.Value
		case SideBottom:
			m.Bottom += g.Value
		case SideLeft:
			m.Left += g.Value
		case SideRight:
			m.Right += g.Value
		}
	}
	return m
}
