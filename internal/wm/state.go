package wm

import (
	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/models"
)

// State is the in-memory model the manager owns.
type State struct {
	Screens    []models.Screen
	Workspaces []models.Workspace
	// Windows is in stacking-and-tiling order.
	Windows     []models.Window
	Tags        *models.Tags
	Focus       *models.FocusManager
	Mode        models.Mode
	Actions     action.Queue
	ScratchPads []models.ScratchPad
	Layouts     []string

	DefaultLayout string
	MouseKey      string

	// ScratchPadWindows maps scratchpad name to the window it adopted.
	ScratchPadWindows map[string]models.WindowHandle
	// pendingScratchPads maps a spawned PID to the scratchpad waiting for it.
	pendingScratchPads map[int]string

	// Saved is restored state waiting for its windows and workspaces to
	// reappear after a restart.
	Saved *Saved
}

// Saved holds restored per-window and per-workspace state.
type Saved struct {
	Workspaces []SavedWorkspace
	Windows    map[models.WindowHandle]SavedWindow
	// Focused takes focus back when it reappears.
	Focused models.WindowHandle
}

// SavedWorkspace is restored onto the workspace with the same index.
type SavedWorkspace struct {
	Tag    models.TagID
	Layout string
}

// SavedWindow is restored onto a window with the same handle.
type SavedWindow struct {
	Tags []models.TagID
	// HiddenTags are labels, re-registered on restore.
	HiddenTags   []string
	Floating     bool
	FloatingRect models.Rect
	States       []models.WindowState
	ScratchPad   string
}

// NewState builds an empty state from the config.
func NewState(cfg Config) *State {
	focus := models.NewFocusManager(cfg.FocusBehaviour(), cfg.FocusNewWindows())
	focus.SloppyMouseFollowsFocus = cfg.SloppyMouseFollowsFocus()
	return &State{
		Tags:               models.NewTags(cfg.TagLabels()),
		Focus:              focus,
		Mode:               models.NormalMode(),
		ScratchPads:        append([]models.ScratchPad(nil), cfg.ScratchPads()...),
		Layouts:            append([]string(nil), cfg.Layouts()...),
		DefaultLayout:      cfg.DefaultLayout(),
		MouseKey:           cfg.MouseKey(),
		ScratchPadWindows:  make(map[string]models.WindowHandle),
		pendingScratchPads: make(map[int]string),
	}
}

// Window returns the managed window with handle.
func (s *State) Window(h models.WindowHandle) (*models.Window, bool) {
	i := s.windowIndex(h)
	if i < 0 {
		return nil, false
	}
	return &s.Windows[i], true
}

func (s *State) windowIndex(h models.WindowHandle) int {
	for i := range s.Windows {
		if s.Windows[i].Handle == h {
			return i
		}
	}
	return -1
}

// IsRoot reports whether h is a screen's root window.
func (s *State) IsRoot(h models.WindowHandle) bool {
	for _, screen := range s.Screens {
		if screen.Root == h {
			return true
		}
	}
	return false
}

// FocusedWorkspace returns the index of the focused workspace.
func (s *State) FocusedWorkspace() (int, bool) {
	i, ok := s.Focus.Workspace(0)
	if !ok || i < 0 || i >= len(s.Workspaces) {
		return 0, false
	}
	return i, true
}

// FocusedWindow returns the focused managed window.
func (s *State) FocusedWindow() (*models.Window, bool) {
	h, ok := s.Focus.Window(0)
	if !ok {
		return nil, false
	}
	return s.Window(h)
}

// FocusedTag returns the tag shown on the focused workspace.
func (s *State) FocusedTag() (models.TagID, bool) {
	i, ok := s.FocusedWorkspace()
	if !ok || s.Workspaces[i].Tag == 0 {
		return 0, false
	}
	return s.Workspaces[i].Tag, true
}

// workspaceShowing returns the index of the workspace showing tag, or -1.
func (s *State) workspaceShowing(tag models.TagID) int {
	for i := range s.Workspaces {
		if s.Workspaces[i].HasTag(tag) {
			return i
		}
	}
	return -1
}

// workspaceAt returns the index of the workspace containing the point, or -1.
func (s *State) workspaceAt(x, y int) int {
	for i := range s.Workspaces {
		if s.Workspaces[i].Contains(x, y) {
			return i
		}
	}
	return -1
}

// workspaceOf returns the index of the workspace displaying w, or -1.
func (s *State) workspaceOf(w *models.Window) int {
	for i := range s.Workspaces {
		if s.Workspaces[i].Shows(w) {
			return i
		}
	}
	return -1
}

// windowsOn returns indexes into Windows of focusable windows shown on
// workspace i, in order.
func (s *State) windowsOn(i int) []int {
	ws := &s.Workspaces[i]
	var out []int
	for j := range s.Windows {
		w := &s.Windows[j]
		if ws.Shows(w) && !w.IsUnmanaged() {
			out = append(out, j)
		}
	}
	return out
}

// ScratchPad looks up a configured scratchpad by name.
func (s *State) ScratchPad(name string) (models.ScratchPad, bool) {
	for _, sp := range s.ScratchPads {
		if sp.Name == name {
			return sp, true
		}
	}
	return models.ScratchPad{}, false
}

// scratchPadOf returns the scratchpad name owning h.
func (s *State) scratchPadOf(h models.WindowHandle) (string, bool) {
	for name, owned := range s.ScratchPadWindows {
		if owned == h {
			return name, true
		}
	}
	return "", false
}
