package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// wmName is advertised through _NET_SUPPORTING_WM_CHECK.
const wmName = "tagtile"

// rootEventMask is what a window manager selects on the root window.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskStructureNotify

var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_MAXIMIZED_VERT",
	"_NET_WM_STATE_MAXIMIZED_HORZ",
	"_NET_WM_STATE_STICKY",
	"_NET_WM_STATE_ABOVE",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to display, or $DISPLAY when it is empty.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// BecomeWM selects substructure redirection on the root window. It fails
// when another window manager is running.
func (c *Connection) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root,
		xproto.CwEventMask, []uint32{rootEventMask}).Check()
	if err != nil {
		return fmt.Errorf("another window manager is running: %w", err)
	}
	return c.advertise()
}

func (c *Connection) advertise() error {
	check, err := xwindow.Create(c.XUtil, c.Root)
	if err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, wmName); err != nil {
		return fmt.Errorf("failed to set wm name: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedAtoms); err != nil {
		return fmt.Errorf("failed to set supported atoms: %w", err)
	}
	return nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops EventLoop. A client message to the root wakes the loop so it
// sees the request without waiting for the next real event.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
	atom, err := xprop.Atm(c.XUtil, "_TAGTILE_WAKE")
	if err != nil {
		return
	}
	cm, err := xevent.NewClientMessage(32, c.Root, atom)
	if err != nil {
		return
	}
	xproto.SendEvent(c.XUtil.Conn(), false, c.Root, xproto.EventMaskStructureNotify, string(cm.Bytes()))
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
