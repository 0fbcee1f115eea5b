package models

import "fmt"

type modeKind int

const (
	modeNormal modeKind = iota
	modeMoving
	modeResizing
)

// Mode is the exclusive interaction state of the window manager. The zero
// value is Normal; only the modal states carry a window handle.
type Mode struct {
	kind   modeKind
	handle WindowHandle
}

// NormalMode returns the Normal mode.
func NormalMode() Mode { return Mode{} }

// MovingWindow returns the mode for an interactive move of handle.
func MovingWindow(handle WindowHandle) Mode {
	return Mode{kind: modeMoving, handle: handle}
}

// ResizingWindow returns the mode for an interactive resize of handle.
func ResizingWindow(handle WindowHandle) Mode {
	return Mode{kind: modeResizing, handle: handle}
}

// IsNormal reports whether no modal interaction is active.
func (m Mode) IsNormal() bool { return m.kind == modeNormal }

// IsMoving reports whether a window is being moved.
func (m Mode) IsMoving() bool { return m.kind == modeMoving }

// IsResizing reports whether a window is being resized.
func (m Mode) IsResizing() bool { return m.kind == modeResizing }

// Handle returns the window tied to a modal state.
func (m Mode) Handle() (WindowHandle, bool) {
	if m.kind == modeNormal {
		return 0, false
	}
	return m.handle, true
}

// String returns a readable form of the mode.
func (m Mode) String() string {
	switch m.kind {
	case modeMoving:
		return fmt.Sprintf("moving(%d)", m.handle)
	case modeResizing:
		return fmt.Sprintf("resizing(%d)", m.handle)
	default:
		return "normal"
	}
}
