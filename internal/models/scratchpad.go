package models

// ScratchPad is a named window that can be summoned to and dismissed from
// the focused workspace.
type ScratchPad struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	// Geometry is in percent of the workspace when all fields are <= 100.
	Geometry *Rect `json:"geometry,omitempty" yaml:"geometry,omitempty"`
}

// Place resolves the scratchpad geometry against a workspace area.
func (s ScratchPad) Place(area Rect) Rect {
	if s.Geometry == nil {
		w, h := area.Width*3/5, area.Height*3/5
		return Rect{X: area.X + (area.Width-w)/2, Y: area.Y + (area.Height-h)/2, Width: w, Height: h}
	}
	g := *s.Geometry
	if g.X <= 100 && g.Y <= 100 && g.Width <= 100 && g.Height <= 100 {
		return Rect{
			X:      area.X + area.Width*g.X/100,
			Y:      area.Y + area.Height*g.Y/100,
			Width:  area.Width * g.Width / 100,
			Height: area.Height * g.Height / 100,
		}
	}
	return g
}
