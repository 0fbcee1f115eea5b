package wm

import (
	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/models"
)

// focusWindow gives h input focus and brings workspace and tag focus along.
func (m *Manager) focusWindow(h models.WindowHandle) Outcome {
	s := m.state
	if s.IsRoot(h) {
		return m.unfocus()
	}
	w, ok := s.Window(h)
	if !ok || w.IsUnmanaged() {
		return Unchanged
	}
	previous, hasPrevious := s.Focus.Window(0)
	if hasPrevious && previous == h {
		return Unchanged
	}

	s.Focus.PushWindow(h)
	if i := s.workspaceOf(w); i >= 0 {
		m.recordWorkspace(i)
		m.recordTag(s.Workspaces[i].Tag)
	}
	s.Actions.Push(action.WindowTakeFocus{Window: w.Clone(), Previous: previous})
	return NeedsRelayout
}

// unfocus moves focus to the root window.
func (m *Manager) unfocus() Outcome {
	s := m.state
	previous, ok := s.Focus.Window(0)
	if !ok {
		return Unchanged
	}
	s.Focus.PushWindow(0)
	s.Actions.Push(action.Unfocus{Previous: previous})
	return NeedsRelayout
}

// focusWorkspace focuses workspace i, its tag and the window last focused there.
func (m *Manager) focusWorkspace(i int) Outcome {
	s := m.state
	if i < 0 || i >= len(s.Workspaces) || !m.recordWorkspace(i) {
		return Unchanged
	}
	m.recordTag(s.Workspaces[i].Tag)
	m.focusWindowOn(i)
	return NeedsRelayout
}

// focusWindowOn focuses the most recently focused window shown on workspace
// i, falling back to its first window, then to the root.
func (m *Manager) focusWindowOn(i int) Outcome {
	s := m.state
	ws := &s.Workspaces[i]
	for _, h := range s.Focus.WindowHistory {
		if w, ok := s.Window(h); ok && ws.Shows(w) && !w.IsUnmanaged() {
			return m.focusWindow(h)
		}
	}
	if on := s.windowsOn(i); len(on) > 0 {
		return m.focusWindow(s.Windows[on[0]].Handle)
	}
	return m.unfocus()
}

// focusTag makes tag current and focuses the workspace showing it.
func (m *Manager) focusTag(tag models.TagID) Outcome {
	if !m.recordTag(tag) {
		return Unchanged
	}
	if i := m.state.workspaceShowing(tag); i >= 0 {
		m.recordWorkspace(i)
	}
	return NeedsRelayout
}

func (m *Manager) recordWorkspace(i int) bool {
	if cur, ok := m.state.Focus.Workspace(0); ok && cur == i {
		return false
	}
	m.state.Focus.PushWorkspace(i)
	return true
}

func (m *Manager) recordTag(tag models.TagID) bool {
	if tag == 0 {
		return false
	}
	if cur, ok := m.state.Focus.Tag(0); ok && cur == tag {
		return false
	}
	m.state.Focus.PushTag(tag)
	return true
}

// windowAt returns the topmost focusable window containing the point.
// Floating windows sit above tiled ones.
func (m *Manager) windowAt(x, y int) (models.WindowHandle, bool) {
	s := m.state
	for _, floating := range []bool{true, false} {
		for i := range s.Windows {
			w := &s.Windows[i]
			if w.CanFocus() && w.IsFloating() == floating && w.Contains(x, y) {
				return w.Handle, true
			}
		}
	}
	return 0, false
}

// moveFocusToPoint focuses the window under the point, else its workspace.
func (m *Manager) moveFocusToPoint(x, y int) Outcome {
	if h, ok := m.windowAt(x, y); ok {
		return m.focusWindow(h)
	}
	return m.focusWorkspaceUnderCursor(x, y)
}

func (m *Manager) focusWorkspaceUnderCursor(x, y int) Outcome {
	i := m.state.workspaceAt(x, y)
	if i < 0 {
		return Unchanged
	}
	if cur, ok := m.state.FocusedWorkspace(); ok && cur == i {
		return Unchanged
	}
	return m.focusWorkspace(i)
}

// validateFocusAt corrects focus when the pointer is over a live focusable
// window that is not focused. Only sloppy focus follows the pointer.
func (m *Manager) validateFocusAt(h models.WindowHandle) Outcome {
	s := m.state
	if !s.Focus.Behaviour.IsSloppy() {
		return Unchanged
	}
	w, ok := s.Window(h)
	if !ok || !w.CanFocus() {
		return Unchanged
	}
	if cur, ok := s.Focus.Window(0); ok && cur == h {
		return Unchanged
	}
	return m.focusWindow(h)
}
