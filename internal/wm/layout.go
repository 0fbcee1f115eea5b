package wm

import (
	"reflect"
	"slices"

	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/models"
)

// UpdateWindows is the re-layout pass. It recomputes visibility and tiled
// geometry, then queues updates for what changed since the last pass.
func (m *Manager) UpdateWindows() {
	s := m.state
	for i := range s.Windows {
		s.Windows[i].Visible = s.Windows[i].IsUnmanaged()
	}

	for wi := range s.Workspaces {
		ws := &s.Workspaces[wi]
		var tiled []*models.Window
		for i := range s.Windows {
			w := &s.Windows[i]
			if !ws.Shows(w) || w.IsUnmanaged() {
				continue
			}
			w.Visible = true
			switch {
			case w.IsFullscreen():
				w.Normal = ws.Bounds
			case !w.IsFloating():
				tiled = append(tiled, w)
			}
		}

		rects := m.layout.Arrange(ws.Layout, ws.Area(), len(tiled))
		for j, w := range tiled {
			if j >= len(rects) {
				// Beyond the layout's capacity.
				w.Visible = false
				continue
			}
			w.Normal = rects[j].Shrink(models.UniformMargins(w.Margin))
		}
	}

	m.publish()
}

// publish queues UpdateWindow for every window whose published snapshot is
// stale, and SetCurrentTags when the focused tag changed.
func (m *Manager) publish() {
	s := m.state
	seen := make(map[models.WindowHandle]bool, len(s.Windows))
	for i := range s.Windows {
		snap := s.Windows[i].Clone()
		snap.StartLoc = nil
		seen[snap.Handle] = true

		prev, ok := m.published[snap.Handle]
		if ok && reflect.DeepEqual(prev, snap) {
			continue
		}
		s.Actions.Push(action.UpdateWindow{Window: snap})
		if !ok || !slices.Equal(prev.Tags, snap.Tags) {
			s.Actions.Push(action.SetWindowTags{Handle: snap.Handle, Labels: m.labels(snap.Tags)})
		}
		m.published[snap.Handle] = snap
	}
	for h := range m.published {
		if !seen[h] {
			delete(m.published, h)
		}
	}

	var current []string
	if tag, ok := s.FocusedTag(); ok {
		current = []string{s.Tags.Label(tag)}
	}
	if m.publishedTags == nil || !slices.Equal(m.publishedTags, current) {
		s.Actions.Push(action.SetCurrentTags{Labels: current})
		m.publishedTags = append([]string{}, current...)
	}
}

func (m *Manager) labels(tags []models.TagID) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, m.state.Tags.Label(tag))
	}
	return out
}
