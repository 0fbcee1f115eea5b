package wm

import (
	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

// Config supplies user settings and the persistence hooks.
type Config interface {
	MappedBindings() []command.Keybind
	TagLabels() []string
	Workspaces() []models.WorkspaceSpec
	ScratchPads() []models.ScratchPad
	Layouts() []string
	DefaultLayout() string
	FocusBehaviour() models.FocusBehaviour
	FocusNewWindows() bool
	SloppyMouseFollowsFocus() bool
	MouseKey() string
	DefaultWidth() int
	DefaultHeight() int
	BorderWidth() int
	Margin() int
	WorkspaceMargin() models.Margins
	Gutters() []models.Gutter
	// OnNewWindowCmd returns a shell command to run for each new window, or "".
	OnNewWindowCmd() string

	// CommandHandler interprets a command the dispatcher has no built-in for.
	// It may mutate state through m and returns false when it cannot.
	CommandHandler(name string, args []string, m *Manager) bool

	// SaveState persists the state. It must not fail.
	SaveState(s *State)
	// LoadState restores a previously saved state into a fresh one.
	LoadState(s *State)
}

// DisplayServer executes queued actions. The core never calls it while
// handling an event.
type DisplayServer interface {
	Execute(a action.Action) error
	Flush() error
}

// LayoutEngine computes tiled geometry. Arrange must be pure.
type LayoutEngine interface {
	Arrange(layout string, area models.Rect, n int) []models.Rect
}

// Spawner starts external commands without waiting for them.
type Spawner interface {
	Spawn(cmd string) (pid int, err error)
}
