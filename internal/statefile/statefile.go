// Package statefile persists window-manager state across soft reloads.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/runtimepath"
	"github.com/1broseidon/tagtile/internal/wm"
)

// SchemaVersion is bumped whenever the snapshot layout changes.
const SchemaVersion = 2

// Snapshot is the on-disk form of the state worth keeping across a restart.
type Snapshot struct {
	Version    int         `json:"version"`
	SavedAt    time.Time   `json:"saved_at"`
	Workspaces []Workspace `json:"workspaces"`
	Windows    []Window    `json:"windows"`

	TagHistory       []models.TagID        `json:"tag_history,omitempty"`
	WorkspaceHistory []int                 `json:"workspace_history,omitempty"`
	WindowHistory    []models.WindowHandle `json:"window_history,omitempty"`
}

type Workspace struct {
	Tag    models.TagID `json:"tag"`
	Layout string       `json:"layout"`
}

type Window struct {
	Handle       models.WindowHandle  `json:"handle"`
	Tags         []models.TagID       `json:"tags"`
	HiddenTags   []string             `json:"hidden_tags,omitempty"`
	Floating     bool                 `json:"floating,omitempty"`
	FloatingRect models.Rect          `json:"floating_rect"`
	States       []models.WindowState `json:"states,omitempty"`
	ScratchPad   string               `json:"scratchpad,omitempty"`
}

// FromState captures s. Unmanaged windows are skipped.
func FromState(s *wm.State) Snapshot {
	snap := Snapshot{
		Version:          SchemaVersion,
		SavedAt:          time.Now().UTC(),
		Workspaces:       make([]Workspace, 0, len(s.Workspaces)),
		Windows:          make([]Window, 0, len(s.Windows)),
		TagHistory:       append([]models.TagID(nil), s.Focus.TagHistory...),
		WorkspaceHistory: append([]int(nil), s.Focus.WorkspaceHistory...),
		WindowHistory:    append([]models.WindowHandle(nil), s.Focus.WindowHistory...),
	}
	for _, ws := range s.Workspaces {
		snap.Workspaces = append(snap.Workspaces, Workspace{Tag: ws.Tag, Layout: ws.Layout})
	}

	pads := make(map[models.WindowHandle]string, len(s.ScratchPadWindows))
	for name, h := range s.ScratchPadWindows {
		pads[h] = name
	}
	for i := range s.Windows {
		w := &s.Windows[i]
		if w.IsUnmanaged() {
			continue
		}
		// Hidden tag ids are assigned on demand, so they are kept by label.
		var tags []models.TagID
		var hidden []string
		for _, tag := range w.Tags {
			if s.Tags.IsNormal(tag) {
				tags = append(tags, tag)
			} else if label := s.Tags.Label(tag); label != "" {
				hidden = append(hidden, label)
			}
		}
		snap.Windows = append(snap.Windows, Window{
			Handle:       w.Handle,
			Tags:         tags,
			HiddenTags:   hidden,
			Floating:     w.Floating,
			FloatingRect: w.FloatingRect,
			States:       append([]models.WindowState(nil), w.States...),
			ScratchPad:   pads[w.Handle],
		})
	}
	return snap
}

// Restore loads snap into a fresh state. Workspaces and windows pick up their
// saved values as they reappear.
func Restore(snap *Snapshot, s *wm.State) error {
	if snap.Version != SchemaVersion {
		return fmt.Errorf("unsupported state version %d (want %d)", snap.Version, SchemaVersion)
	}

	saved := &wm.Saved{
		Workspaces: make([]wm.SavedWorkspace, 0, len(snap.Workspaces)),
		Windows:    make(map[models.WindowHandle]wm.SavedWindow, len(snap.Windows)),
	}
	for _, ws := range snap.Workspaces {
		saved.Workspaces = append(saved.Workspaces, wm.SavedWorkspace{Tag: ws.Tag, Layout: ws.Layout})
	}
	for _, w := range snap.Windows {
		saved.Windows[w.Handle] = wm.SavedWindow{
			Tags:         w.Tags,
			HiddenTags:   w.HiddenTags,
			Floating:     w.Floating,
			FloatingRect: w.FloatingRect,
			States:       w.States,
			ScratchPad:   w.ScratchPad,
		}
	}
	if len(snap.WindowHistory) > 0 {
		saved.Focused = snap.WindowHistory[0]
	}
	s.Saved = saved

	// Tags may have been removed from the config since the save.
	for _, tag := range snap.TagHistory {
		if s.Tags.IsNormal(tag) {
			s.Focus.TagHistory = append(s.Focus.TagHistory, tag)
		}
	}
	s.Focus.WorkspaceHistory = append([]int(nil), snap.WorkspaceHistory...)
	return nil
}

// Store reads and writes snapshots at Path.
type Store struct {
	Path string
}

// DefaultStore returns a store in the runtime directory.
func DefaultStore() (*Store, error) {
	path, err := runtimepath.StatePath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path}, nil
}

func (st *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(st.Path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	sort.Slice(snap.Windows, func(i, j int) bool { return snap.Windows[i].Handle < snap.Windows[j].Handle })
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(st.Path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write state %q: %w", st.Path, err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when none exists.
func (st *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state %q: %w", st.Path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse state %q: %w", st.Path, err)
	}
	return &snap, nil
}

func (st *Store) Remove() error {
	if err := os.Remove(st.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state %q: %w", st.Path, err)
	}
	return nil
}

// SaveState writes a snapshot of s.
func (st *Store) SaveState(s *wm.State) error {
	return st.Save(FromState(s))
}

// LoadState restores the stored snapshot into s and removes it, so a later
// cold start begins fresh.
func (st *Store) LoadState(s *wm.State) error {
	snap, err := st.Load()
	if err != nil || snap == nil {
		return err
	}
	if err := st.Remove(); err != nil {
		return err
	}
	return Restore(snap, s)
}
