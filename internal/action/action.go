// Package action defines the intents the window manager core queues for the
// display-server adapter to execute.
package action

import (
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

// Action is a queued display intent. The set of implementations is closed.
type Action interface {
	// Kind returns a short stable name used in logs.
	Kind() string
	isAction()
}

// ReloadKeyGrabs asks the adapter to re-grab every mapped key binding.
type ReloadKeyGrabs struct {
	Bindings []command.Keybind
}

// NormalMode tells the adapter that interactive move/resize has ended.
type NormalMode struct{}

// ConfigureXlibWindow syncs the display server with the core's view of a window.
type ConfigureXlibWindow struct {
	Window models.Window
}

// UpdateWindow carries a layout result for one window.
type UpdateWindow struct {
	Window models.Window
}

// WindowTakeFocus gives input focus to Window.
type WindowTakeFocus struct {
	Window   models.Window
	Previous models.WindowHandle
}

// Unfocus removes focus from Previous and returns it to the root.
type Unfocus struct {
	Previous models.WindowHandle
}

// FocusWindowUnderCursor asks the adapter to query the pointer and report back
// which window should be focused.
type FocusWindowUnderCursor struct{}

// ReadyToMoveWindow begins an interactive move of Handle.
type ReadyToMoveWindow struct {
	Handle models.WindowHandle
}

// ReadyToResizeWindow begins an interactive resize of Handle.
type ReadyToResizeWindow struct {
	Handle models.WindowHandle
}

// KillWindow politely closes Handle.
type KillWindow struct {
	Handle models.WindowHandle
}

// MoveMouseOver warps the pointer onto Handle.
type MoveMouseOver struct {
	Handle models.WindowHandle
}

// SetCurrentTags publishes the labels of the focused workspace's tags.
type SetCurrentTags struct {
	Labels []string
}

// SetWindowTags publishes the tags a window carries.
type SetWindowTags struct {
	Handle models.WindowHandle
	Labels []string
}

// SoftReload restarts the window manager, keeping state.
type SoftReload struct{}

// HardReload restarts the window manager from scratch.
type HardReload struct{}

func (ReloadKeyGrabs) Kind() string         { return "reload_key_grabs" }
func (NormalMode) Kind() string             { return "normal_mode" }
func (ConfigureXlibWindow) Kind() string    { return "configure_xlib_window" }
func (UpdateWindow) Kind() string           { return "update_window" }
func (WindowTakeFocus) Kind() string        { return "window_take_focus" }
func (Unfocus) Kind() string                { return "unfocus" }
func (FocusWindowUnderCursor) Kind() string { return "focus_window_under_cursor" }
func (ReadyToMoveWindow) Kind() string      { return "ready_to_move_window" }
func (ReadyToResizeWindow) Kind() string    { return "ready_to_resize_window" }
func (KillWindow) Kind() string             { return "kill_window" }
func (MoveMouseOver) Kind() string          { return "move_mouse_over" }
func (SetCurrentTags) Kind() string         { return "set_current_tags" }
func (SetWindowTags) Kind() string          { return "set_window_tags" }
func (SoftReload) Kind() string             { return "soft_reload" }
func (HardReload) Kind() string             { return "hard_reload" }

func (ReloadKeyGrabs) isAction()         {}
func (NormalMode) isAction()             {}
func (ConfigureXlibWindow) isAction()    {}
func (UpdateWindow) isAction()           {}
func (WindowTakeFocus) isAction()        {}
func (Unfocus) isAction()                {}
func (FocusWindowUnderCursor) isAction() {}
func (ReadyToMoveWindow) isAction()      {}
func (ReadyToResizeWindow) isAction()    {}
func (KillWindow) isAction()             {}
func (MoveMouseOver) isAction()          {}
func (SetCurrentTags) isAction()         {}
func (SetWindowTags) isAction()          {}
func (SoftReload) isAction()             {}
func (HardReload) isAction()             {}
