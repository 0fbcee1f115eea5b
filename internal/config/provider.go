package config

import (
	"log/slog"

	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/wm"
)

// StateStore persists manager state across soft reloads.
type StateStore interface {
	SaveState(s *wm.State) error
	LoadState(s *wm.State) error
}

// Provider serves a validated Config to the window manager.
type Provider struct {
	cfg      *Config
	bindings []command.Keybind
	macros   map[string][]command.Command
	store    StateStore
	logger   *slog.Logger
}

var _ wm.Config = (*Provider)(nil)

// NewProvider parses the bindings and macros of cfg. store may be nil, in
// which case state is neither saved nor restored.
func NewProvider(cfg *Config, store StateStore, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	bindings, err := cfg.MappedBindings()
	if err != nil {
		return nil, err
	}
	macros, err := cfg.Macros()
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, bindings: bindings, macros: macros, store: store, logger: logger}, nil
}

// Raw returns the underlying config.
func (p *Provider) Raw() *Config { return p.cfg }

func (p *Provider) MappedBindings() []command.Keybind     { return p.bindings }
func (p *Provider) TagLabels() []string                   { return p.cfg.Tags }
func (p *Provider) Workspaces() []models.WorkspaceSpec    { return p.cfg.Workspaces }
func (p *Provider) ScratchPads() []models.ScratchPad      { return p.cfg.ScratchPads }
func (p *Provider) Layouts() []string                     { return p.cfg.Layouts }
func (p *Provider) DefaultLayout() string                 { return p.cfg.DefaultLayout }
func (p *Provider) FocusBehaviour() models.FocusBehaviour { return p.cfg.FocusBehaviour }
func (p *Provider) FocusNewWindows() bool                 { return p.cfg.FocusNewWindows }
func (p *Provider) SloppyMouseFollowsFocus() bool         { return p.cfg.SloppyMouseFollowsFocus }
func (p *Provider) MouseKey() string                      { return p.cfg.MouseKey }
func (p *Provider) DefaultWidth() int                     { return p.cfg.DefaultWidth }
func (p *Provider) DefaultHeight() int                    { return p.cfg.DefaultHeight }
func (p *Provider) BorderWidth() int                      { return p.cfg.BorderWidth }
func (p *Provider) Margin() int                           { return p.cfg.Margin }
func (p *Provider) WorkspaceMargin() models.Margins       { return p.cfg.WorkspaceMargin }
func (p *Provider) Gutters() []models.Gutter              { return p.cfg.Gutters }
func (p *Provider) OnNewWindowCmd() string                { return p.cfg.OnNewWindow }

// CommandHandler runs the macro registered under name. Macro arguments are
// not substituted; args is only logged.
func (p *Provider) CommandHandler(name string, args []string, m *wm.Manager) bool {
	cmds, ok := p.macros[name]
	if !ok {
		p.logger.Debug("unknown command", "command", name, "args", args)
		return false
	}
	for _, cmd := range cmds {
		m.Dispatch(cmd)
	}
	return true
}

func (p *Provider) SaveState(s *wm.State) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveState(s); err != nil {
		p.logger.Warn("failed to save state", "error", err)
	}
}

func (p *Provider) LoadState(s *wm.State) {
	if p.store == nil {
		return
	}
	if err := p.store.LoadState(s); err != nil {
		p.logger.Warn("failed to load state", "error", err)
	}
}
