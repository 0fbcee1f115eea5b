package wm

import (
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

// Event is a notification from the display server or the command pipe.
// The set is closed: every variant is routed through eventHandlers, which
// *Manager implements.
type Event interface {
	dispatch(h eventHandlers) Outcome
}

type eventHandlers interface {
	onScreenCreate(ScreenCreate) Outcome
	onWindowCreate(WindowCreate) Outcome
	onWindowChange(WindowChange) Outcome
	onMouseEnteredWindow(MouseEnteredWindow) Outcome
	onKeyGrabReload(KeyGrabReload) Outcome
	onMoveFocusTo(MoveFocusTo) Outcome
	onVerifyFocusedAt(VerifyFocusedAt) Outcome
	onWindowDestroy(WindowDestroy) Outcome
	onKeyCombo(KeyCombo) Outcome
	onSendCommand(SendCommand) Outcome
	onMouseCombo(MouseCombo) Outcome
	onChangeToNormalMode(ChangeToNormalMode) Outcome
	onMovement(Movement) Outcome
	onMoveWindow(MoveWindow) Outcome
	onResizeWindow(ResizeWindow) Outcome
	onConfigureXlibWindow(ConfigureXlibWindow) Outcome
}

var _ eventHandlers = (*Manager)(nil)

type (
	// ScreenCreate registers a new screen.
	ScreenCreate struct {
		Screen models.Screen
	}

	// WindowCreate announces a newly mapped window with the pointer position.
	WindowCreate struct {
		Window models.Window
		X, Y   int
	}

	// WindowChange carries observed property changes.
	WindowChange struct {
		Change models.WindowChange
	}

	// MouseEnteredWindow fires when the pointer crosses into a window.
	MouseEnteredWindow struct {
		Handle models.WindowHandle
	}

	// KeyGrabReload asks for the key grabs to be refreshed.
	KeyGrabReload struct{}

	// MoveFocusTo focuses whatever lies under the point.
	MoveFocusTo struct {
		X, Y int
	}

	// VerifyFocusedAt reports the window actually under the pointer. It is
	// advisory and may be stale.
	VerifyFocusedAt struct {
		Handle models.WindowHandle
	}

	// WindowDestroy announces that a window is gone.
	WindowDestroy struct {
		Handle models.WindowHandle
	}

	// KeyCombo is a grabbed key chord.
	KeyCombo struct {
		Mods command.ModMask
		Key  string
	}

	// SendCommand injects a command from outside, e.g. the command pipe.
	SendCommand struct {
		Command command.Command
	}

	// MouseCombo is a grabbed button press on a window.
	MouseCombo struct {
		Mods   command.ModMask
		Button command.Button
		Handle models.WindowHandle
	}

	// ChangeToNormalMode ends an interactive move or resize.
	ChangeToNormalMode struct{}

	// Movement is pointer motion over h.
	Movement struct {
		Handle models.WindowHandle
		X, Y   int
	}

	// MoveWindow drags a window by an offset from where the drag began.
	MoveWindow struct {
		Handle models.WindowHandle
		X, Y   int
	}

	// ResizeWindow resizes a window by an offset from where the drag began.
	ResizeWindow struct {
		Handle models.WindowHandle
		X, Y   int
	}

	// ConfigureXlibWindow asks for a window's geometry to be re-sent.
	ConfigureXlibWindow struct {
		Handle models.WindowHandle
	}
)

func (e ScreenCreate) dispatch(h eventHandlers) Outcome        { return h.onScreenCreate(e) }
func (e WindowCreate) dispatch(h eventHandlers) Outcome        { return h.onWindowCreate(e) }
func (e WindowChange) dispatch(h eventHandlers) Outcome        { return h.onWindowChange(e) }
func (e MouseEnteredWindow) dispatch(h eventHandlers) Outcome  { return h.onMouseEnteredWindow(e) }
func (e KeyGrabReload) dispatch(h eventHandlers) Outcome       { return h.onKeyGrabReload(e) }
func (e MoveFocusTo) dispatch(h eventHandlers) Outcome         { return h.onMoveFocusTo(e) }
func (e VerifyFocusedAt) dispatch(h eventHandlers) Outcome     { return h.onVerifyFocusedAt(e) }
func (e WindowDestroy) dispatch(h eventHandlers) Outcome       { return h.onWindowDestroy(e) }
func (e KeyCombo) dispatch(h eventHandlers) Outcome            { return h.onKeyCombo(e) }
func (e SendCommand) dispatch(h eventHandlers) Outcome         { return h.onSendCommand(e) }
func (e MouseCombo) dispatch(h eventHandlers) Outcome          { return h.onMouseCombo(e) }
func (e ChangeToNormalMode) dispatch(h eventHandlers) Outcome  { return h.onChangeToNormalMode(e) }
func (e Movement) dispatch(h eventHandlers) Outcome            { return h.onMovement(e) }
func (e MoveWindow) dispatch(h eventHandlers) Outcome          { return h.onMoveWindow(e) }
func (e ResizeWindow) dispatch(h eventHandlers) Outcome        { return h.onResizeWindow(e) }
func (e ConfigureXlibWindow) dispatch(h eventHandlers) Outcome { return h.onConfigureXlibWindow(e) }
