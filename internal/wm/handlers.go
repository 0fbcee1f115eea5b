package wm

import (
	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

const minWindowSize = 10

func (m *Manager) onScreenCreate(e ScreenCreate) Outcome {
	s := m.state
	_, hadFocus := s.FocusedWorkspace()
	first := len(s.Workspaces)

	for _, spec := range m.workspaceSpecsFor(e.Screen) {
		id := len(s.Workspaces)
		ws := models.Workspace{
			ID:     id,
			Bounds: spec.Bounds,
			Margin: m.config.WorkspaceMargin(),
			Avoid:  models.GutterMargins(m.config.Gutters()),
			Layout: spec.Layout,
		}
		if ws.Layout == "" {
			ws.Layout = s.DefaultLayout
		}
		ws.Tag = m.unshownTag()
		if s.Saved != nil && id < len(s.Saved.Workspaces) {
			saved := s.Saved.Workspaces[id]
			if s.Tags.IsNormal(saved.Tag) && s.workspaceShowing(saved.Tag) < 0 {
				ws.Tag = saved.Tag
			}
			if saved.Layout != "" {
				ws.Layout = saved.Layout
			}
		}
		s.Workspaces = append(s.Workspaces, ws)
	}
	s.Screens = append(s.Screens, e.Screen)

	if !hadFocus {
		if _, ok := s.FocusedWorkspace(); ok {
			// Restored history already points at a workspace that now exists.
			if tag, ok := s.FocusedTag(); ok {
				m.recordTag(tag)
			}
		} else {
			m.focusWorkspace(first)
		}
	}
	return NeedsRelayout
}

// workspaceSpecsFor returns the configured workspaces on screen, or one
// workspace covering it.
func (m *Manager) workspaceSpecsFor(screen models.Screen) []models.WorkspaceSpec {
	var out []models.WorkspaceSpec
	for _, spec := range m.config.Workspaces() {
		if screen.Bounds.Contains(spec.Bounds.Center()) {
			out = append(out, spec)
		}
	}
	if len(out) == 0 {
		out = append(out, models.WorkspaceSpec{Bounds: screen.Bounds})
	}
	return out
}

// unshownTag returns the lowest normal tag no workspace is showing, or 0.
func (m *Manager) unshownTag() models.TagID {
	for _, tag := range m.state.Tags.Normal() {
		if m.state.workspaceShowing(tag.ID) < 0 {
			return tag.ID
		}
	}
	return 0
}

func (m *Manager) onWindowCreate(e WindowCreate) Outcome {
	s := m.state
	if _, exists := s.Window(e.Window.Handle); exists {
		return Unchanged
	}
	w := e.Window.Clone()
	if w.Type == "" {
		w.Type = models.WindowTypeNormal
	}
	w.BorderWidth = m.config.BorderWidth()
	w.Margin = m.config.Margin()

	wsIdx := s.workspaceAt(e.X, e.Y)
	if wsIdx < 0 {
		if i, ok := s.FocusedWorkspace(); ok {
			wsIdx = i
		}
	}
	if len(w.Tags) == 0 && wsIdx >= 0 && s.Workspaces[wsIdx].Tag != 0 {
		w.Tag(s.Workspaces[wsIdx].Tag)
	}
	if w.Transient != 0 {
		if parent, ok := s.Window(w.Transient); ok {
			w.Tags = append([]models.TagID(nil), parent.Tags...)
			w.Floating = true
		}
	}

	restored, refocus := m.restoreWindow(&w)
	m.adoptScratchPad(&w, wsIdx)

	if w.IsFloating() && w.FloatingRect.Empty() && wsIdx >= 0 {
		w.FloatingRect = m.defaultFloatingRect(&w, s.Workspaces[wsIdx].Area())
	}
	w.Visible = w.IsUnmanaged() || (wsIdx >= 0 && s.Workspaces[wsIdx].Shows(&w))

	s.Windows = append(s.Windows, w)
	m.logger.Debug("window created", "handle", w.Handle, "name", w.Name, "tags", w.Tags)

	takeFocus := s.Focus.FocusNewWindows
	if restored {
		takeFocus = refocus
	}
	if takeFocus && w.Visible && !w.IsUnmanaged() {
		m.focusWindow(w.Handle)
	}
	if cmd := m.config.OnNewWindowCmd(); cmd != "" {
		m.spawn(cmd)
	}
	return NeedsRelayout
}

// restoreWindow applies state saved before a restart to a reappearing window.
// It reports whether w had saved state and whether w held focus when saved.
func (m *Manager) restoreWindow(w *models.Window) (restored, focused bool) {
	s := m.state
	if s.Saved == nil {
		return false, false
	}
	saved, ok := s.Saved.Windows[w.Handle]
	if !ok {
		return false, false
	}
	delete(s.Saved.Windows, w.Handle)
	if s.Saved.Focused == w.Handle {
		focused = true
		s.Saved.Focused = 0
	}
	var tags []models.TagID
	for _, tag := range saved.Tags {
		if s.Tags.IsNormal(tag) {
			tags = append(tags, tag)
		}
	}
	for _, label := range saved.HiddenTags {
		tags = append(tags, s.Tags.AddHidden(label))
	}
	if len(tags) > 0 {
		w.Tags = tags
	}
	w.Floating = saved.Floating
	w.FloatingRect = saved.FloatingRect
	if saved.States != nil {
		w.States = append([]models.WindowState(nil), saved.States...)
	}
	if saved.ScratchPad != "" {
		s.ScratchPadWindows[saved.ScratchPad] = w.Handle
	}
	return true, focused
}

// adoptScratchPad claims a window whose PID matches a spawned scratchpad.
func (m *Manager) adoptScratchPad(w *models.Window, wsIdx int) {
	s := m.state
	if w.PID == 0 {
		return
	}
	name, ok := s.pendingScratchPads[w.PID]
	if !ok {
		return
	}
	delete(s.pendingScratchPads, w.PID)
	sp, ok := s.ScratchPad(name)
	if !ok {
		return
	}
	s.ScratchPadWindows[name] = w.Handle
	w.Floating = true
	if wsIdx >= 0 {
		w.FloatingRect = sp.Place(s.Workspaces[wsIdx].Area())
	}
}

// defaultFloatingRect centers a window of the configured default size.
func (m *Manager) defaultFloatingRect(w *models.Window, area models.Rect) models.Rect {
	width, height := w.FloatingRect.Width, w.FloatingRect.Height
	if width <= 0 {
		width = m.config.DefaultWidth()
	}
	if height <= 0 {
		height = m.config.DefaultHeight()
	}
	width, height = min(max(width, minWindowSize), area.Width), min(max(height, minWindowSize), area.Height)
	return models.Rect{
		X:      area.X + (area.Width-width)/2,
		Y:      area.Y + (area.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

func (m *Manager) onWindowChange(e WindowChange) Outcome {
	w, ok := m.state.Window(e.Change.Handle)
	if !ok {
		return Unchanged
	}
	changed := e.Change.Apply(w)
	if changed && w.IsUnmanaged() {
		if cur, ok := m.state.Focus.Window(0); ok && cur == w.Handle {
			m.unfocus()
		}
	}
	return outcomeOf(changed)
}

// onMouseEnteredWindow moves focus only under sloppy focus.
func (m *Manager) onMouseEnteredWindow(e MouseEnteredWindow) Outcome {
	if !m.state.Focus.Behaviour.IsSloppy() {
		return Unchanged
	}
	return m.focusWindow(e.Handle)
}

func (m *Manager) onKeyGrabReload(KeyGrabReload) Outcome {
	m.state.Actions.Push(action.ReloadKeyGrabs{Bindings: m.config.MappedBindings()})
	return Unchanged
}

func (m *Manager) onMoveFocusTo(e MoveFocusTo) Outcome {
	return m.moveFocusToPoint(e.X, e.Y)
}

func (m *Manager) onVerifyFocusedAt(e VerifyFocusedAt) Outcome {
	return m.validateFocusAt(e.Handle)
}

func (m *Manager) onWindowDestroy(e WindowDestroy) Outcome {
	s := m.state
	i := s.windowIndex(e.Handle)
	if i < 0 {
		return Unchanged
	}
	gone := s.Windows[i]
	s.Windows = append(s.Windows[:i], s.Windows[i+1:]...)
	delete(m.published, gone.Handle)
	if name, ok := s.scratchPadOf(gone.Handle); ok {
		delete(s.ScratchPadWindows, name)
	}

	cur, focused := s.Focus.Window(0)
	wasFocused := focused && cur == gone.Handle
	s.Focus.ForgetWindow(gone.Handle)
	if !wasFocused {
		return NeedsRelayout
	}
	s.Focus.PushWindow(0)

	if s.Focus.Behaviour.IsSloppy() && s.Focus.SloppyMouseFollowsFocus {
		s.Actions.Push(action.FocusWindowUnderCursor{})
		return NeedsRelayout
	}
	if parent, ok := s.Window(gone.Transient); ok && parent.CanFocus() {
		m.focusWindow(parent.Handle)
		return NeedsRelayout
	}
	for _, h := range s.Focus.WindowHistory {
		if w, ok := s.Window(h); ok && w.CanFocus() {
			m.focusWindow(h)
			return NeedsRelayout
		}
	}
	if ws, ok := s.FocusedWorkspace(); ok {
		m.focusWindowOn(ws)
	}
	return NeedsRelayout
}

func (m *Manager) onKeyCombo(e KeyCombo) Outcome {
	cmd, ok := command.NewBuilder(m.config.MappedBindings()).Resolve(e.Mods, e.Key)
	if !ok {
		return Unchanged
	}
	return m.Dispatch(cmd)
}

func (m *Manager) onSendCommand(e SendCommand) Outcome {
	if e.Command == nil {
		return Unchanged
	}
	return m.Dispatch(e.Command)
}

func (m *Manager) onMouseCombo(e MouseCombo) Outcome {
	s := m.state
	w, ok := s.Window(e.Handle)
	if !ok || w.IsUnmanaged() {
		return Unchanged
	}
	mouseKey := command.ModMaskFromNames([]string{s.MouseKey})
	mods := e.Mods.Clean()

	switch {
	case e.Button == command.ButtonMain && mods == mouseKey:
		return m.beginModal(w, models.MovingWindow(w.Handle), action.ReadyToMoveWindow{Handle: w.Handle})
	case e.Button == command.ButtonSecondary && (mods == mouseKey || mods == mouseKey|command.ShiftMask):
		return m.beginModal(w, models.ResizingWindow(w.Handle), action.ReadyToResizeWindow{Handle: w.Handle})
	case (e.Button == command.ButtonMain || e.Button == command.ButtonSecondary) && s.Focus.Behaviour.IsClickTo():
		return m.focusWindow(w.Handle)
	}
	return Unchanged
}

// beginModal enters a move or resize mode. Modes only change from Normal.
func (m *Manager) beginModal(w *models.Window, mode models.Mode, a action.Action) Outcome {
	s := m.state
	if !s.Mode.IsNormal() {
		return Unchanged
	}
	start := w.Geometry()
	w.StartLoc = &start
	s.Mode = mode
	s.Actions.Push(a)
	return Unchanged
}

func (m *Manager) onChangeToNormalMode(ChangeToNormalMode) Outcome {
	s := m.state
	if h, ok := s.Mode.Handle(); ok {
		if w, ok := s.Window(h); ok {
			w.StartLoc = nil
			m.focusWindow(h)
		}
	}
	s.Mode = models.NormalMode()
	s.Actions.Push(action.NormalMode{})
	return NeedsRelayout
}

func (m *Manager) onMovement(e Movement) Outcome {
	if !m.state.IsRoot(e.Handle) {
		return Unchanged
	}
	return m.focusWorkspaceUnderCursor(e.X, e.Y)
}

func (m *Manager) onMoveWindow(e MoveWindow) Outcome {
	s := m.state
	w, ok := s.Window(e.Handle)
	if !ok {
		return Unchanged
	}
	start := m.dragStart(w)
	w.Floating = true
	w.FloatingRect = models.Rect{X: start.X + e.X, Y: start.Y + e.Y, Width: start.Width, Height: start.Height}

	// A window dragged onto another workspace joins its tag.
	cx, cy := w.FloatingRect.Center()
	if i := s.workspaceAt(cx, cy); i >= 0 {
		if tag := s.Workspaces[i].Tag; tag != 0 && !w.HasTag(tag) {
			w.Tag(tag)
		}
	}
	return NeedsRelayout
}

func (m *Manager) onResizeWindow(e ResizeWindow) Outcome {
	w, ok := m.state.Window(e.Handle)
	if !ok {
		return Unchanged
	}
	start := m.dragStart(w)
	w.Floating = true
	w.FloatingRect = models.Rect{
		X:      start.X,
		Y:      start.Y,
		Width:  max(start.Width+e.X, minWindowSize),
		Height: max(start.Height+e.Y, minWindowSize),
	}
	return NeedsRelayout
}

// dragStart returns the geometry captured when the drag began.
func (m *Manager) dragStart(w *models.Window) models.Rect {
	if w.StartLoc == nil {
		start := w.Geometry()
		w.StartLoc = &start
	}
	return *w.StartLoc
}

func (m *Manager) onConfigureXlibWindow(e ConfigureXlibWindow) Outcome {
	w, ok := m.state.Window(e.Handle)
	if !ok {
		return Unchanged
	}
	m.state.Actions.Push(action.ConfigureXlibWindow{Window: w.Clone()})
	return NeedsRelayout
}
