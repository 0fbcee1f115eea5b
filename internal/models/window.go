package models

// WindowType mirrors the _NET_WM_WINDOW_TYPE hint.
type WindowType string

const (
	WindowTypeNormal  WindowType = "normal"
	WindowTypeDialog  WindowType = "dialog"
	WindowTypeSplash  WindowType = "splash"
	WindowTypeUtility WindowType = "utility"
	WindowTypeMenu    WindowType = "menu"
	WindowTypeToolbar WindowType = "toolbar"
	WindowTypeDock    WindowType = "dock"
	WindowTypeDesktop WindowType = "desktop"
)

// WindowState mirrors the _NET_WM_STATE hints the core cares about.
type WindowState string

const (
	StateFullscreen WindowState = "fullscreen"
	StateMaximized  WindowState = "maximized"
	StateSticky     WindowState = "sticky"
	StateAbove      WindowState = "above"
)

// Window is a managed top-level client.
type Window struct {
	Handle    WindowHandle  `json:"handle"`
	Name      string        `json:"name,omitempty"`
	PID       int           `json:"pid,omitempty"`
	Type      WindowType    `json:"type"`
	Tags      []TagID       `json:"tags"`
	Floating  bool          `json:"floating"`
	Visible   bool          `json:"visible"`
	States    []WindowState `json:"states,omitempty"`
	Transient WindowHandle  `json:"transient,omitempty"`

	// Normal is the geometry assigned by the layout engine.
	Normal Rect `json:"normal"`
	// FloatingRect is the geometry used while the window floats.
	FloatingRect Rect `json:"floating_rect"`
	// StartLoc is captured when an interactive move/resize begins.
	StartLoc *Rect `json:"-"`

	BorderWidth int `json:"border_width"`
	Margin      int `json:"margin"`
}

// NewWindow creates a normal window with the given handle.
func NewWindow(handle WindowHandle, name string) Window {
	return Window{Handle: handle, Name: name, Type: WindowTypeNormal}
}

// Clone returns a deep copy so a snapshot cannot alias live state.
func (w Window) Clone() Window {
	out := w
	out.Tags = append([]TagID(nil), w.Tags...)
	out.States = append([]WindowState(nil), w.States...)
	if w.StartLoc != nil {
		start := *w.StartLoc
		out.StartLoc = &start
	}
	return out
}

// IsUnmanaged reports whether the window is a dock or desktop surface that is
// never tiled nor focused.
func (w *Window) IsUnmanaged() bool {
	return w.Type == WindowTypeDock || w.Type == WindowTypeDesktop
}

// CanFocus reports whether the window may receive input focus.
func (w *Window) CanFocus() bool {
	return w.Visible && !w.IsUnmanaged()
}

// IsFloating reports whether the layout should leave the window alone.
func (w *Window) IsFloating() bool {
	return w.Floating || w.Type == WindowTypeDialog || w.Type == WindowTypeSplash || w.Type == WindowTypeUtility || w.Type == WindowTypeMenu
}

// IsFullscreen reports whether the fullscreen state is set.
func (w *Window) IsFullscreen() bool {
	return w.HasState(StateFullscreen)
}

// HasState reports whether the state is set.
func (w *Window) HasState(s WindowState) bool {
	for _, state := range w.States {
		if state == s {
			return true
		}
	}
	return false
}

// SetState adds or removes a state.
func (w *Window) SetState(s WindowState, on bool) {
	if on == w.HasState(s) {
		return
	}
	if on {
		w.States = append(w.States, s)
		return
	}
	out := w.States[:0]
	for _, state := range w.States {
		if state != s {
			out = append(out, state)
		}
	}
	w.States = out
}

// HasTag reports whether the window carries tag.
func (w *Window) HasTag(tag TagID) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tag replaces the window's tags with a single tag.
func (w *Window) Tag(tag TagID) {
	w.Tags = []TagID{tag}
}

// Geometry returns the geometry the window currently occupies.
func (w *Window) Geometry() Rect {
	if w.IsFloating() {
		return w.FloatingRect
	}
	return w.Normal
}

// Contains reports whether the point lies inside the window.
func (w *Window) Contains(x, y int) bool {
	return w.Geometry().Contains(x, y)
}

// WindowChange carries the properties the display server observed to have
// changed on a window. Nil fields are untouched.
type WindowChange struct {
	Handle       WindowHandle
	Name         *string
	PID          *int
	Type         *WindowType
	FloatingRect *Rect
	States       []WindowState
	Transient    *WindowHandle
}

// Apply updates w and reports whether anything actually changed.
func (c WindowChange) Apply(w *Window) bool {
	changed := false
	if c.Name != nil && *c.Name != w.Name {
		w.Name = *c.Name
		changed = true
	}
	if c.PID != nil && *c.PID != w.PID {
		w.PID = *c.PID
		changed = true
	}
	if c.Type != nil && *c.Type != w.Type {
		w.Type = *c.Type
		changed = true
	}
	if c.FloatingRect != nil && *c.FloatingRect != w.FloatingRect {
		w.FloatingRect = *c.FloatingRect
		changed = true
	}
	if c.States != nil && !sameStates(c.States, w.States) {
		w.States = append([]WindowState(nil), c.States...)
		changed = true
	}
	if c.Transient != nil && *c.Transient != w.Transient {
		w.Transient = *c.Transient
		changed = true
	}
	return changed
}

func sameStates(a, b []WindowState) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[WindowState]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
