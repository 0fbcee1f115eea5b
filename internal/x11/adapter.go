package x11

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/wm"
)

const eventBuffer = 256

// AdapterConfig holds the display settings the adapter needs.
type AdapterConfig struct {
	TagLabels    []string
	MouseKey     string
	ClickToFocus bool

	BorderColor        uint32
	FocusedBorderColor uint32

	Logger *slog.Logger
}

type drag struct {
	handle         xproto.Window
	resize         bool
	startX, startY int
}

// Adapter turns X events into wm events and executes the actions the core
// queues. X callbacks run on the xevent goroutine while Execute runs on the
// daemon loop, so the bookkeeping below is guarded by mu.
type Adapter struct {
	conn   *Connection
	cfg    AdapterConfig
	logger *slog.Logger
	events chan wm.Event
	quit   chan struct{}
	once   sync.Once

	moveCursor   xproto.Cursor
	resizeCursor xproto.Cursor

	mu       sync.Mutex
	managed  map[xproto.Window]bool
	mapped   map[xproto.Window]bool
	unmaps   map[xproto.Window]int
	states   map[xproto.Window][]models.WindowState
	dragging *drag
}

var _ wm.DisplayServer = (*Adapter)(nil)

// NewAdapter prepares an adapter on conn. Call Start once the consumer of
// Events is running.
func NewAdapter(conn *Connection, cfg AdapterConfig) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MouseKey == "" {
		cfg.MouseKey = "mod4"
	}
	a := &Adapter{
		conn:    conn,
		cfg:     cfg,
		logger:  logger,
		events:  make(chan wm.Event, eventBuffer),
		quit:    make(chan struct{}),
		managed: make(map[xproto.Window]bool),
		mapped:  make(map[xproto.Window]bool),
		unmaps:  make(map[xproto.Window]int),
		states:  make(map[xproto.Window][]models.WindowState),
	}
	if c, err := xcursor.CreateCursor(conn.XUtil, xcursor.Fleur); err == nil {
		a.moveCursor = c
	}
	if c, err := xcursor.CreateCursor(conn.XUtil, xcursor.BottomRightCorner); err == nil {
		a.resizeCursor = c
	}
	return a
}

// Events is the stream of display events for the daemon loop.
func (a *Adapter) Events() <-chan wm.Event {
	return a.events
}

// Locate reports the top-level window under the pointer.
func (a *Adapter) Locate() (models.WindowHandle, error) {
	_, _, under, err := a.conn.Pointer()
	if err != nil {
		return 0, err
	}
	return models.WindowHandle(under), nil
}

// Start publishes the desktop hints, connects the root callbacks and
// announces the screens and already mapped windows. It blocks while Events
// is full until Stop is called.
func (a *Adapter) Start() error {
	xu, root := a.conn.XUtil, a.conn.Root

	if err := ewmh.NumberOfDesktopsSet(xu, uint(len(a.cfg.TagLabels))); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.DesktopNamesSet(xu, a.cfg.TagLabels); err != nil {
		return fmt.Errorf("failed to set desktop names: %w", err)
	}

	xevent.MapRequestFun(a.onMapRequest).Connect(xu, root)
	xevent.ConfigureRequestFun(a.onConfigureRequest).Connect(xu, root)
	xevent.ClientMessageFun(a.onClientMessage).Connect(xu, root)
	xevent.MotionNotifyFun(a.onMotion).Connect(xu, root)
	xevent.ButtonReleaseFun(a.onButtonRelease).Connect(xu, root)

	screens, err := a.conn.Screens()
	if err != nil {
		return err
	}
	for _, s := range screens {
		a.emit(wm.ScreenCreate{Screen: s})
	}

	existing, err := a.conn.ExistingWindows()
	if err != nil {
		return err
	}
	for _, win := range existing {
		a.manage(win, true)
	}
	return nil
}

// Stop makes pending and future emits return without delivering, so X
// callbacks cannot block once the loop is gone.
func (a *Adapter) Stop() {
	a.once.Do(func() { close(a.quit) })
}

func (a *Adapter) emit(ev wm.Event) {
	select {
	case a.events <- ev:
	case <-a.quit:
	}
}

// manage starts tracking win and reports it to the core.
func (a *Adapter) manage(win xproto.Window, mapped bool) {
	a.mu.Lock()
	if a.managed[win] {
		a.mu.Unlock()
		return
	}
	a.managed[win] = true
	a.mapped[win] = mapped
	a.mu.Unlock()

	w := a.conn.ReadWindow(win)
	a.mu.Lock()
	a.states[win] = w.States
	a.mu.Unlock()

	if err := a.conn.SelectClientInput(win); err != nil {
		a.logger.Warn("select client input", "window", win, "error", err)
	}
	a.connectClient(win)

	x, y, _, err := a.conn.Pointer()
	if err != nil {
		a.logger.Debug("pointer unavailable for new window", "window", win, "error", err)
	}
	a.logger.Debug("window created", "window", win, "name", w.Name, "type", w.Type)
	a.emit(wm.WindowCreate{Window: w, X: x, Y: y})
}

func (a *Adapter) connectClient(win xproto.Window) {
	xu := a.conn.XUtil
	xevent.UnmapNotifyFun(a.onUnmap).Connect(xu, win)
	xevent.DestroyNotifyFun(a.onDestroy).Connect(xu, win)
	xevent.EnterNotifyFun(a.onEnter).Connect(xu, win)
	xevent.PropertyNotifyFun(a.onProperty).Connect(xu, win)
	xevent.ClientMessageFun(a.onClientMessage).Connect(xu, win)

	for _, chord := range mouseChords(a.cfg.MouseKey, a.cfg.ClickToFocus) {
		err := mousebind.ButtonPressFun(a.onButtonPress).Connect(xu, win, chord.button, chord.propagate, true)
		if err != nil {
			a.logger.Debug("button grab failed", "window", win, "button", chord.button, "error", err)
		}
	}
}

// forget drops win and reports whether it was managed.
func (a *Adapter) forget(win xproto.Window) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.managed[win] {
		return false
	}
	delete(a.managed, win)
	delete(a.mapped, win)
	delete(a.unmaps, win)
	delete(a.states, win)
	xevent.Detach(a.conn.XUtil, win)
	mousebind.Detach(a.conn.XUtil, win)
	return true
}

type mouseChord struct {
	button    string
	propagate bool
}

// mouseChords lists the button grabs placed on every client. Plain clicks
// are only grabbed for click-to-focus, and are replayed to the client.
func mouseChords(mouseKey string, clickToFocus bool) []mouseChord {
	mod := strings.ToLower(mouseKey)
	chords := []mouseChord{
		{button: mod + "-1"},
		{button: mod + "-3"},
		{button: mod + "-shift-3"},
	}
	if clickToFocus {
		chords = append(chords, mouseChord{button: "1", propagate: true}, mouseChord{button: "3", propagate: true})
	}
	return chords
}

func (a *Adapter) onMapRequest(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
	a.mu.Lock()
	known := a.managed[ev.Window]
	a.mu.Unlock()
	if known {
		return
	}
	a.manage(ev.Window, false)
}

func (a *Adapter) onConfigureRequest(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
	a.mu.Lock()
	known := a.managed[ev.Window]
	a.mu.Unlock()
	if !known {
		xwindow.New(xu, ev.Window).Configure(int(ev.ValueMask), int(ev.X), int(ev.Y),
			int(ev.Width), int(ev.Height), ev.Sibling, ev.StackMode)
		return
	}

	if ev.ValueMask&(xproto.ConfigWindowWidth|xproto.ConfigWindowHeight) != 0 {
		r := models.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)}
		a.emit(wm.WindowChange{Change: models.WindowChange{Handle: models.WindowHandle(ev.Window), FloatingRect: &r}})
	}
	a.emit(wm.ConfigureXlibWindow{Handle: models.WindowHandle(ev.Window)})
}

func (a *Adapter) onUnmap(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
	a.mu.Lock()
	if n := a.unmaps[ev.Window]; n > 0 {
		a.unmaps[ev.Window] = n - 1
		a.mapped[ev.Window] = false
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	if a.forget(ev.Window) {
		a.emit(wm.WindowDestroy{Handle: models.WindowHandle(ev.Window)})
	}
}

func (a *Adapter) onDestroy(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
	if a.forget(ev.Window) {
		a.emit(wm.WindowDestroy{Handle: models.WindowHandle(ev.Window)})
	}
}

func (a *Adapter) onEnter(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
	if ev.Mode != xproto.NotifyModeNormal {
		return
	}
	a.emit(wm.MouseEnteredWindow{Handle: models.WindowHandle(ev.Event)})
}

func (a *Adapter) onProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	change := models.WindowChange{Handle: models.WindowHandle(ev.Window)}
	switch name {
	case "WM_NAME", "_NET_WM_NAME":
		w := a.conn.ReadWindow(ev.Window)
		change.Name = &w.Name
	case "_NET_WM_WINDOW_TYPE", "WM_TRANSIENT_FOR":
		w := a.conn.ReadWindow(ev.Window)
		change.Type = &w.Type
		change.Transient = &w.Transient
	default:
		return
	}
	a.emit(wm.WindowChange{Change: change})
}

func (a *Adapter) onClientMessage(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
	name, err := xprop.AtomName(xu, ev.Type)
	if err != nil || ev.Format != 32 {
		return
	}
	data := ev.Data.Data32
	switch name {
	case "_NET_CURRENT_DESKTOP":
		idx := int(data[0])
		if idx < len(a.cfg.TagLabels) {
			a.emit(wm.SendCommand{Command: command.GoToTag{Tag: models.TagID(idx + 1)}})
		}
	case "_NET_WM_STATE":
		var atoms []string
		for _, atom := range data[1:3] {
			if atom == 0 {
				continue
			}
			if n, err := xprop.AtomName(xu, xproto.Atom(atom)); err == nil {
				atoms = append(atoms, n)
			}
		}
		a.mu.Lock()
		known := a.managed[ev.Window]
		states := applyStateRequest(a.states[ev.Window], int(data[0]), atoms)
		if known {
			a.states[ev.Window] = states
		}
		a.mu.Unlock()
		if known {
			a.emit(wm.WindowChange{Change: models.WindowChange{Handle: models.WindowHandle(ev.Window), States: states}})
		}
	case "_NET_CLOSE_WINDOW":
		if err := a.conn.CloseWindow(ev.Window); err != nil {
			a.logger.Warn("close window", "window", ev.Window, "error", err)
		}
	}
}

func (a *Adapter) onButtonPress(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
	a.emit(wm.MouseCombo{
		Mods:   command.ModMask(ev.State),
		Button: command.Button(ev.Detail),
		Handle: models.WindowHandle(ev.Event),
	})
}

func (a *Adapter) onMotion(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
	a.mu.Lock()
	d := a.dragging
	a.mu.Unlock()

	x, y := int(ev.RootX), int(ev.RootY)
	switch {
	case d == nil:
		a.emit(wm.Movement{Handle: models.WindowHandle(ev.Event), X: x, Y: y})
	case d.resize:
		a.emit(wm.ResizeWindow{Handle: models.WindowHandle(d.handle), X: x - d.startX, Y: y - d.startY})
	default:
		a.emit(wm.MoveWindow{Handle: models.WindowHandle(d.handle), X: x - d.startX, Y: y - d.startY})
	}
}

func (a *Adapter) onButtonRelease(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
	if a.endDrag() {
		a.emit(wm.ChangeToNormalMode{})
	}
}

func (a *Adapter) beginDrag(win xproto.Window, resize bool) error {
	x, y, _, err := a.conn.Pointer()
	if err != nil {
		return err
	}
	cursor := a.moveCursor
	if resize {
		cursor = a.resizeCursor
	}
	ok, err := mousebind.GrabPointer(a.conn.XUtil, a.conn.Root, 0, cursor)
	if err != nil {
		return fmt.Errorf("failed to grab pointer: %w", err)
	}
	if !ok {
		return fmt.Errorf("pointer already grabbed")
	}
	a.mu.Lock()
	a.dragging = &drag{handle: win, resize: resize, startX: x, startY: y}
	a.mu.Unlock()
	a.conn.Raise(win)
	return nil
}

// endDrag releases the pointer and reports whether a drag was active.
func (a *Adapter) endDrag() bool {
	a.mu.Lock()
	active := a.dragging != nil
	a.dragging = nil
	a.mu.Unlock()
	if active {
		mousebind.UngrabPointer(a.conn.XUtil)
	}
	return active
}

// Execute applies one queued action to the display.
func (a *Adapter) Execute(act action.Action) error {
	switch act := act.(type) {
	case action.ReloadKeyGrabs:
		return a.conn.GrabKeys(act.Bindings, func(mods command.ModMask, key string) {
			a.emit(wm.KeyCombo{Mods: mods, Key: key})
		})
	case action.NormalMode:
		a.endDrag()
	case action.ConfigureXlibWindow:
		w := act.Window
		a.conn.PlaceWindow(xproto.Window(w.Handle), w.Geometry(), w.BorderWidth)
		a.conn.SendConfigureNotify(xproto.Window(w.Handle), w.Geometry(), w.BorderWidth)
	case action.UpdateWindow:
		return a.updateWindow(act.Window)
	case action.WindowTakeFocus:
		win := xproto.Window(act.Window.Handle)
		if act.Previous != 0 && act.Previous != act.Window.Handle {
			a.conn.SetBorderColor(xproto.Window(act.Previous), a.cfg.BorderColor)
		}
		a.conn.SetBorderColor(win, a.cfg.FocusedBorderColor)
		return a.conn.Focus(win)
	case action.Unfocus:
		if act.Previous != 0 {
			a.conn.SetBorderColor(xproto.Window(act.Previous), a.cfg.BorderColor)
		}
		return a.conn.Unfocus()
	case action.FocusWindowUnderCursor:
		// Emitting from the loop goroutine could block on a full channel.
		go func() {
			x, y, _, err := a.conn.Pointer()
			if err != nil {
				a.logger.Warn("focus under cursor", "error", err)
				return
			}
			a.emit(wm.MoveFocusTo{X: x, Y: y})
		}()
	case action.ReadyToMoveWindow:
		return a.beginDrag(xproto.Window(act.Handle), false)
	case action.ReadyToResizeWindow:
		return a.beginDrag(xproto.Window(act.Handle), true)
	case action.KillWindow:
		return a.conn.CloseWindow(xproto.Window(act.Handle))
	case action.MoveMouseOver:
		return a.conn.WarpTo(xproto.Window(act.Handle))
	case action.SetCurrentTags:
		if idx, ok := a.desktopIndex(act.Labels); ok {
			return ewmh.CurrentDesktopSet(a.conn.XUtil, uint(idx))
		}
	case action.SetWindowTags:
		if idx, ok := a.desktopIndex(act.Labels); ok {
			return ewmh.WmDesktopSet(a.conn.XUtil, xproto.Window(act.Handle), uint(idx))
		}
	case action.SoftReload, action.HardReload:
		// Handled by the daemon loop.
	default:
		return fmt.Errorf("unsupported action %s", act.Kind())
	}
	return nil
}

func (a *Adapter) updateWindow(w models.Window) error {
	win := xproto.Window(w.Handle)
	a.mu.Lock()
	if !a.managed[win] {
		a.mu.Unlock()
		return nil
	}
	mapped := a.mapped[win]
	a.states[win] = append([]models.WindowState(nil), w.States...)
	if !w.Visible && mapped {
		a.unmaps[win]++
		a.mapped[win] = false
	}
	if w.Visible {
		a.mapped[win] = true
	}
	a.mu.Unlock()

	if !w.Visible {
		if mapped {
			xwindow.New(a.conn.XUtil, win).Unmap()
		}
		return nil
	}

	if !w.IsUnmanaged() {
		a.conn.PlaceWindow(win, w.Geometry(), w.BorderWidth)
		if w.IsFloating() || w.IsFullscreen() {
			a.conn.Raise(win)
		}
	}
	if !mapped {
		xwindow.New(a.conn.XUtil, win).Map()
	}
	return a.conn.SetStates(win, w.States)
}

// desktopIndex maps the first label to its EWMH desktop number.
func (a *Adapter) desktopIndex(labels []string) (int, bool) {
	if len(labels) == 0 {
		return 0, false
	}
	for i, label := range a.cfg.TagLabels {
		if label == labels[0] {
			return i, true
		}
	}
	return 0, false
}

// Flush sends every pending request to the server.
func (a *Adapter) Flush() error {
	a.conn.XUtil.Sync()
	return nil
}
