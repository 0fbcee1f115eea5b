// Package wm is the window-management decision core. It turns display events
// and commands into state changes and a queue of display actions.
//
// A Manager is not safe for concurrent use; one goroutine owns it.
package wm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/tiling"
)

// maxCommandDepth bounds custom commands that dispatch further commands.
const maxCommandDepth = 8

// Options holds the optional collaborators of a Manager.
type Options struct {
	Layout  LayoutEngine
	Spawner Spawner
	Logger  *slog.Logger
}

// Manager is the aggregate root owning the window-manager state.
type Manager struct {
	state   *State
	config  Config
	display DisplayServer
	layout  LayoutEngine
	spawner Spawner
	logger  *slog.Logger

	// published is what the display server was last told, per window.
	published     map[models.WindowHandle]models.Window
	publishedTags []string
	depth         int
}

// New creates a manager with freshly built state.
func New(cfg Config, display DisplayServer, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	layout := opts.Layout
	if layout == nil {
		layout = tiling.NewEngine(nil, 0, logger)
	}
	return &Manager{
		state:     NewState(cfg),
		config:    cfg,
		display:   display,
		layout:    layout,
		spawner:   opts.Spawner,
		logger:    logger,
		published: make(map[models.WindowHandle]models.Window),
	}
}

// State returns the live state. Custom command handlers mutate it directly.
func (m *Manager) State() *State { return m.state }

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.config }

// Handle processes one event. When the event changed state that affects
// layout, the re-layout pass runs before Handle returns.
func (m *Manager) Handle(ev Event) Outcome {
	out := ev.dispatch(m)
	if out.NeedsRelayout() {
		m.UpdateWindows()
	}
	return out
}

// Flush drains the action queue into the display server.
func (m *Manager) Flush() error {
	if m.display == nil {
		m.state.Actions.Drain()
		return nil
	}
	var errs []error
	for _, a := range m.state.Actions.Drain() {
		if err := m.display.Execute(a); err != nil {
			errs = append(errs, fmt.Errorf("execute %s: %w", a.Kind(), err))
		}
	}
	if err := m.display.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush display: %w", err))
	}
	return errors.Join(errs...)
}

// SaveState hands the state to the config for persistence.
func (m *Manager) SaveState() {
	m.config.SaveState(m.state)
}

// LoadState restores persisted state. Call it right after New, before any
// events are handled.
func (m *Manager) LoadState() {
	m.config.LoadState(m.state)
}

func (m *Manager) spawn(cmd string) (int, bool) {
	if m.spawner == nil {
		m.logger.Warn("no spawner configured, dropping command", "cmd", cmd)
		return 0, false
	}
	pid, err := m.spawner.Spawn(cmd)
	if err != nil {
		m.logger.Warn("spawn failed", "cmd", cmd, "error", err)
		return 0, false
	}
	m.logger.Debug("spawned", "cmd", cmd, "pid", pid)
	return pid, true
}
