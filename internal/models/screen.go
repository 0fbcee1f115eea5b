package models

// Screen is a physical display surface.
type Screen struct {
	Root   WindowHandle `json:"root"`
	Name   string       `json:"name,omitempty"`
	Bounds Rect         `json:"bounds"`
}

// Workspace is a region of a screen showing one tag at a time.
type Workspace struct {
	ID     int     `json:"id"`
	Bounds Rect    `json:"bounds"`
	Margin Margins `json:"margin"`
	// Avoid is space reserved by docks and gutters.
	Avoid  Margins `json:"avoid"`
	Layout string  `json:"layout"`
	Tag    TagID   `json:"tag"`
}

// HasTag reports whether the workspace is showing tag.
func (w *Workspace) HasTag(tag TagID) bool {
	return tag != 0 && w.Tag == tag
}

// Shows reports whether a window should be displayed on this workspace.
func (w *Workspace) Shows(win *Window) bool {
	return w.Tag != 0 && win.HasTag(w.Tag)
}

// Contains reports whether the point lies inside the workspace.
func (w *Workspace) Contains(x, y int) bool {
	return w.Bounds.Contains(x, y)
}

// Area is the region available to tiled windows.
func (w *Workspace) Area() Rect {
	return w.Bounds.Shrink(w.Margin.Add(w.Avoid))
}

// WorkspaceSpec is a configured workspace region. A screen whose bounds hold
// the region's center is split into the configured workspaces instead of one
// workspace covering the screen.
type WorkspaceSpec struct {
	Bounds Rect   `json:"bounds" yaml:",inline"`
	Layout string `json:"layout,omitempty" yaml:"layout,omitempty"`
}
