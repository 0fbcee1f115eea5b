package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/models"
)

var windowTypeAtoms = map[string]models.WindowType{
	"_NET_WM_WINDOW_TYPE_NORMAL":  models.WindowTypeNormal,
	"_NET_WM_WINDOW_TYPE_DIALOG":  models.WindowTypeDialog,
	"_NET_WM_WINDOW_TYPE_SPLASH":  models.WindowTypeSplash,
	"_NET_WM_WINDOW_TYPE_UTILITY": models.WindowTypeUtility,
	"_NET_WM_WINDOW_TYPE_MENU":    models.WindowTypeMenu,
	"_NET_WM_WINDOW_TYPE_TOOLBAR": models.WindowTypeToolbar,
	"_NET_WM_WINDOW_TYPE_DOCK":    models.WindowTypeDock,
	"_NET_WM_WINDOW_TYPE_DESKTOP": models.WindowTypeDesktop,
}

var stateAtoms = map[string]models.WindowState{
	"_NET_WM_STATE_FULLSCREEN":     models.StateFullscreen,
	"_NET_WM_STATE_MAXIMIZED_VERT": models.StateMaximized,
	"_NET_WM_STATE_MAXIMIZED_HORZ": models.StateMaximized,
	"_NET_WM_STATE_STICKY":         models.StateSticky,
	"_NET_WM_STATE_ABOVE":          models.StateAbove,
}

// windowType picks the first known type; untyped windows are normal, and
// transient ones dialogs.
func windowType(atoms []string, transient bool) models.WindowType {
	for _, name := range atoms {
		if t, ok := windowTypeAtoms[name]; ok {
			return t
		}
	}
	if transient {
		return models.WindowTypeDialog
	}
	return models.WindowTypeNormal
}

func windowStates(atoms []string) []models.WindowState {
	var out []models.WindowState
	seen := make(map[models.WindowState]bool)
	for _, name := range atoms {
		if s, ok := stateAtoms[name]; ok && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func stateAtomNames(states []models.WindowState) []string {
	var out []string
	for _, s := range states {
		switch s {
		case models.StateFullscreen:
			out = append(out, "_NET_WM_STATE_FULLSCREEN")
		case models.StateMaximized:
			out = append(out, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
		case models.StateSticky:
			out = append(out, "_NET_WM_STATE_STICKY")
		case models.StateAbove:
			out = append(out, "_NET_WM_STATE_ABOVE")
		}
	}
	return out
}

// _NET_WM_STATE client message actions.
const (
	stateRemove = 0
	stateAdd    = 1
	stateToggle = 2
)

// applyStateRequest returns states after a _NET_WM_STATE request.
func applyStateRequest(states []models.WindowState, op int, atoms []string) []models.WindowState {
	w := models.Window{States: append([]models.WindowState(nil), states...)}
	for _, s := range windowStates(atoms) {
		switch op {
		case stateRemove:
			w.SetState(s, false)
		case stateAdd:
			w.SetState(s, true)
		case stateToggle:
			w.SetState(s, !w.HasState(s))
		}
	}
	if w.States == nil {
		return []models.WindowState{}
	}
	return w.States
}

// ReadWindow collects the properties of a new client.
func (c *Connection) ReadWindow(win xproto.Window) models.Window {
	w := models.NewWindow(models.WindowHandle(win), "")

	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		w.Name = name
	} else if name, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		w.Name = name
	}
	if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
		w.PID = int(pid)
	}

	transient, err := icccm.WmTransientForGet(c.XUtil, win)
	if err == nil && transient != 0 {
		w.Transient = models.WindowHandle(transient)
	}
	types, _ := ewmh.WmWindowTypeGet(c.XUtil, win)
	w.Type = windowType(types, w.Transient != 0)

	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		w.States = windowStates(states)
	}
	if geom, err := xwindow.New(c.XUtil, win).Geometry(); err == nil {
		w.FloatingRect = models.Rect{X: geom.X(), Y: geom.Y(), Width: geom.Width(), Height: geom.Height()}
	}
	return w
}

// SelectClientInput selects the events tracked on a client. Unmap and
// destroy arrive through the root's substructure mask.
func (c *Connection) SelectClientInput(win xproto.Window) error {
	err := xwindow.New(c.XUtil, win).Listen(xproto.EventMaskEnterWindow, xproto.EventMaskPropertyChange)
	if err != nil {
		return fmt.Errorf("failed to select input on %d: %w", win, err)
	}
	return nil
}

// SendConfigureNotify tells a client the geometry it actually has.
func (c *Connection) SendConfigureNotify(win xproto.Window, r models.Rect, border int) {
	ev := xproto.ConfigureNotifyEvent{
		Event:        win,
		Window:       win,
		AboveSibling: xevent.NoWindow,
		X:            int16(r.X),
		Y:            int16(r.Y),
		Width:        uint16(max(r.Width-2*border, 1)),
		Height:       uint16(max(r.Height-2*border, 1)),
		BorderWidth:  uint16(border),
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// ExistingWindows lists viewable top-level windows, for adoption at startup.
func (c *Connection) ExistingWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	var out []xproto.Window
	for _, win := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		out = append(out, win)
	}
	return out, nil
}

// PlaceWindow applies geometry and border. Width and height include the
// border on both sides.
func (c *Connection) PlaceWindow(win xproto.Window, r models.Rect, border int) {
	w := r.Width - 2*border
	h := r.Height - 2*border
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowBorderWidth, []uint32{uint32(border)})
	xwindow.New(c.XUtil, win).MoveResize(r.X, r.Y, w, h)
}

// SetBorderColor sets the border pixel of win.
func (c *Connection) SetBorderColor(win xproto.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{pixel})
}

// SetStates publishes _NET_WM_STATE for win.
func (c *Connection) SetStates(win xproto.Window, states []models.WindowState) error {
	return ewmh.WmStateSet(c.XUtil, win, stateAtomNames(states))
}

// CloseWindow asks win to close through WM_DELETE_WINDOW, killing the
// client when it does not take part in the protocol.
func (c *Connection) CloseWindow(win xproto.Window) error {
	protocols, _ := icccm.WmProtocolsGet(c.XUtil, win)
	for _, p := range protocols {
		if p != "WM_DELETE_WINDOW" {
			continue
		}
		wmProtocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
		if err != nil {
			return err
		}
		deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
		if err != nil {
			return err
		}
		cm, err := xevent.NewClientMessage(32, win, wmProtocols, int(deleteAtom), int(xproto.TimeCurrentTime))
		if err != nil {
			return err
		}
		return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(cm.Bytes())).Check()
	}
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(win)).Check()
}

// Focus gives win the input focus and marks it active.
func (c *Connection) Focus(win xproto.Window) error {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
	return ewmh.ActiveWindowSet(c.XUtil, win)
}

// Unfocus returns focus to the root window.
func (c *Connection) Unfocus() error {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, c.Root, xproto.TimeCurrentTime)
	return ewmh.ActiveWindowSet(c.XUtil, 0)
}

// WarpTo moves the pointer to the center of win.
func (c *Connection) WarpTo(win xproto.Window) error {
	geom, err := xwindow.New(c.XUtil, win).Geometry()
	if err != nil {
		return err
	}
	xproto.WarpPointer(c.XUtil.Conn(), 0, win, 0, 0, 0, 0, int16(geom.Width()/2), int16(geom.Height()/2))
	return nil
}

// Raise stacks win above its siblings.
func (c *Connection) Raise(win xproto.Window) {
	xwindow.New(c.XUtil, win).Stack(xproto.StackModeAbove)
}
