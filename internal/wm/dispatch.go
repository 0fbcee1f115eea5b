package wm

import (
	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

// Dispatch runs a command against the state. Commands without a built-in
// handler go to the config's custom handler.
func (m *Manager) Dispatch(cmd command.Command) Outcome {
	s := m.state
	switch c := cmd.(type) {
	case command.Execute:
		m.spawn(c.Cmd)
		return Unchanged
	case command.CloseWindow:
		if w, ok := s.FocusedWindow(); ok {
			s.Actions.Push(action.KillWindow{Handle: w.Handle})
		}
		return Unchanged
	case command.SoftReload:
		m.SaveState()
		s.Actions.Push(action.SoftReload{})
		return Unchanged
	case command.HardReload:
		s.Actions.Push(action.HardReload{})
		return Unchanged
	case command.GoToTag:
		tag := c.Tag
		if c.Swap {
			tag = s.Focus.SwapTarget(tag)
		}
		return m.goToTag(tag)
	case command.MoveToTag:
		return m.moveToTag(c.Tag)
	case command.FocusNextTag:
		return m.cycleTag(1)
	case command.FocusPreviousTag:
		return m.cycleTag(-1)
	case command.ReturnToLastTag:
		if previous, ok := s.Focus.Tag(1); ok {
			return m.goToTag(previous)
		}
		return Unchanged
	case command.FocusWindowUp:
		return m.cycleWindowFocus(-1)
	case command.FocusWindowDown:
		return m.cycleWindowFocus(1)
	case command.FocusWorkspaceNext:
		return m.cycleWorkspace(1)
	case command.FocusWorkspacePrevious:
		return m.cycleWorkspace(-1)
	case command.MoveWindowUp:
		return m.moveWindow(-1)
	case command.MoveWindowDown:
		return m.moveWindow(1)
	case command.ToggleFloating:
		return m.toggleFloating()
	case command.ToggleFullScreen:
		return m.toggleFullScreen()
	case command.NextLayout:
		return m.cycleLayout(1)
	case command.PreviousLayout:
		return m.cycleLayout(-1)
	case command.SetLayout:
		return m.setLayout(c.Layout)
	case command.ToggleScratchPad:
		return m.toggleScratchPad(c.Pad)
	case command.Other:
		return m.custom(c)
	}
	m.logger.Warn("unhandled command", "command", command.String(cmd))
	return Unchanged
}

func (m *Manager) custom(c command.Other) Outcome {
	if m.depth >= maxCommandDepth {
		m.logger.Warn("custom command nesting too deep", "command", c.Command)
		return Unchanged
	}
	m.depth++
	defer func() { m.depth-- }()
	if !m.config.CommandHandler(c.Command, c.Args, m) {
		m.logger.Debug("custom command not handled", "command", c.Command, "args", c.Args)
		return Unchanged
	}
	return NeedsRelayout
}

// goToTag shows tag on the focused workspace. A workspace already showing it
// takes the focused workspace's old tag.
func (m *Manager) goToTag(tag models.TagID) Outcome {
	s := m.state
	if !s.Tags.IsNormal(tag) {
		return Unchanged
	}
	i, ok := s.FocusedWorkspace()
	if !ok {
		return Unchanged
	}
	ws := &s.Workspaces[i]
	if other := s.workspaceShowing(tag); other >= 0 && other != i {
		s.Workspaces[other].Tag = ws.Tag
	}
	ws.Tag = tag
	m.focusTag(tag)
	m.focusWindowOn(i)
	return NeedsRelayout
}

func (m *Manager) moveToTag(tag models.TagID) Outcome {
	s := m.state
	if !s.Tags.IsNormal(tag) {
		return Unchanged
	}
	w, ok := s.FocusedWindow()
	if !ok || (w.HasTag(tag) && len(w.Tags) == 1) {
		return Unchanged
	}
	w.Tag(tag)
	if i, ok := s.FocusedWorkspace(); ok {
		m.focusWindowOn(i)
	}
	return NeedsRelayout
}

func (m *Manager) cycleTag(delta int) Outcome {
	s := m.state
	n := s.Tags.LenNormal()
	current, ok := s.FocusedTag()
	if !ok || n == 0 {
		return Unchanged
	}
	next := models.TagID((int(current)-1+delta+n)%n + 1)
	return m.goToTag(next)
}

func (m *Manager) cycleWindowFocus(delta int) Outcome {
	s := m.state
	i, ok := s.FocusedWorkspace()
	if !ok {
		return Unchanged
	}
	on := s.windowsOn(i)
	if len(on) == 0 {
		return Unchanged
	}
	pos := 0
	if cur, ok := s.Focus.Window(0); ok {
		for j, idx := range on {
			if s.Windows[idx].Handle == cur {
				pos = (j + delta + len(on)) % len(on)
				break
			}
		}
	}
	h := s.Windows[on[pos]].Handle
	out := m.focusWindow(h)
	if out.NeedsRelayout() && s.Focus.Behaviour.IsSloppy() && s.Focus.SloppyMouseFollowsFocus {
		s.Actions.Push(action.MoveMouseOver{Handle: h})
	}
	return out
}

func (m *Manager) cycleWorkspace(delta int) Outcome {
	s := m.state
	n := len(s.Workspaces)
	i, ok := s.FocusedWorkspace()
	if !ok || n < 2 {
		return Unchanged
	}
	return m.focusWorkspace((i + delta + n) % n)
}

// moveWindow swaps the focused tiled window with its neighbour in tiling order.
func (m *Manager) moveWindow(delta int) Outcome {
	s := m.state
	i, ok := s.FocusedWorkspace()
	w, focused := s.FocusedWindow()
	if !ok || !focused || w.IsFloating() {
		return Unchanged
	}
	var tiled []int
	for _, idx := range s.windowsOn(i) {
		if !s.Windows[idx].IsFloating() {
			tiled = append(tiled, idx)
		}
	}
	for j, idx := range tiled {
		if s.Windows[idx].Handle != w.Handle {
			continue
		}
		k := j + delta
		if k < 0 || k >= len(tiled) {
			return Unchanged
		}
		other := tiled[k]
		s.Windows[idx], s.Windows[other] = s.Windows[other], s.Windows[idx]
		return NeedsRelayout
	}
	return Unchanged
}

func (m *Manager) toggleFloating() Outcome {
	w, ok := m.state.FocusedWindow()
	if !ok {
		return Unchanged
	}
	w.Floating = !w.Floating
	if w.Floating && w.FloatingRect.Empty() {
		w.FloatingRect = w.Normal
	}
	return NeedsRelayout
}

func (m *Manager) toggleFullScreen() Outcome {
	w, ok := m.state.FocusedWindow()
	if !ok {
		return Unchanged
	}
	w.SetState(models.StateFullscreen, !w.IsFullscreen())
	return NeedsRelayout
}

func (m *Manager) cycleLayout(delta int) Outcome {
	s := m.state
	i, ok := s.FocusedWorkspace()
	n := len(s.Layouts)
	if !ok || n == 0 {
		return Unchanged
	}
	pos := -1
	for j, name := range s.Layouts {
		if name == s.Workspaces[i].Layout {
			pos = j
			break
		}
	}
	if pos < 0 {
		pos = 0
	} else {
		pos = (pos + delta + n) % n
	}
	return m.setLayout(s.Layouts[pos])
}

func (m *Manager) setLayout(name string) Outcome {
	s := m.state
	i, ok := s.FocusedWorkspace()
	if !ok || s.Workspaces[i].Layout == name {
		return Unchanged
	}
	known := false
	for _, l := range s.Layouts {
		known = known || l == name
	}
	if !known {
		return Unchanged
	}
	s.Workspaces[i].Layout = name
	return NeedsRelayout
}

// toggleScratchPad summons, dismisses or spawns a scratchpad. Dismissed
// scratchpads wait on the hidden NSP tag.
func (m *Manager) toggleScratchPad(name string) Outcome {
	s := m.state
	sp, ok := s.ScratchPad(name)
	if !ok {
		return Unchanged
	}
	i, ok := s.FocusedWorkspace()
	if !ok || s.Workspaces[i].Tag == 0 {
		return Unchanged
	}
	ws := &s.Workspaces[i]

	if h, ok := s.ScratchPadWindows[name]; ok {
		w, ok := s.Window(h)
		if !ok {
			delete(s.ScratchPadWindows, name)
		} else if ws.Shows(w) {
			w.Tag(s.Tags.AddHidden(models.ScratchPadTagLabel))
			m.focusWindowOn(i)
			return NeedsRelayout
		} else {
			w.Tag(ws.Tag)
			w.Floating = true
			w.FloatingRect = sp.Place(ws.Area())
			w.Visible = true
			m.focusWindow(h)
			return NeedsRelayout
		}
	}

	for _, pending := range s.pendingScratchPads {
		if pending == name {
			return Unchanged
		}
	}
	if pid, ok := m.spawn(sp.Value); ok && pid != 0 {
		s.pendingScratchPads[pid] = name
	}
	return Unchanged
}
