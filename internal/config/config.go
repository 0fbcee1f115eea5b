package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/tiling"
)

// ModKeyPlaceholder in a keybind's modifier list stands for the configured modkey.
const ModKeyPlaceholder = "modkey"

// Keybind maps a key chord to a command line.
type Keybind struct {
	Command  string   `yaml:"command"`
	Value    string   `yaml:"value,omitempty"`
	Modifier []string `yaml:"modifier,omitempty"`
	Key      string   `yaml:"key"`
}

// Line returns the command line the binding runs.
func (k Keybind) Line() string {
	return strings.TrimSpace(k.Command + " " + k.Value)
}

// IncludeList accepts a single path or a list of paths.
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = IncludeList{node.Value}
		return nil
	case yaml.SequenceNode:
		var paths []string
		if err := node.Decode(&paths); err != nil {
			return err
		}
		*l = paths
		return nil
	}
	return fmt.Errorf("include must be a path or a list of paths")
}

// Config holds the application configuration.
type Config struct {
	Include IncludeList `yaml:"include,omitempty"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	ModKey   string `yaml:"modkey"`
	MouseKey string `yaml:"mousekey"`

	Tags        []string               `yaml:"tags"`
	Workspaces  []models.WorkspaceSpec `yaml:"workspaces,omitempty"`
	ScratchPads []models.ScratchPad    `yaml:"scratchpads,omitempty"`

	Layouts       []string                 `yaml:"layouts"`
	DefaultLayout string                   `yaml:"default_layout"`
	CustomLayouts map[string]tiling.Layout `yaml:"custom_layouts,omitempty"`
	LayoutGap     int                      `yaml:"layout_gap"`

	FocusBehaviour          models.FocusBehaviour `yaml:"focus_behaviour"`
	FocusNewWindows         bool                  `yaml:"focus_new_windows"`
	SloppyMouseFollowsFocus bool                  `yaml:"sloppy_mouse_follows_focus"`
	// FocusCheckIntervalMS is how often sloppy focus is checked against the
	// pointer. 0 disables the check.
	FocusCheckIntervalMS int `yaml:"focus_check_interval_ms"`

	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	BorderWidth   int `yaml:"border_width"`
	// Border colours are "#rrggbb".
	BorderColor        string          `yaml:"border_color"`
	FocusedBorderColor string          `yaml:"focused_border_color"`
	Margin             int             `yaml:"margin"`
	WorkspaceMargin    models.Margins  `yaml:"workspace_margin"`
	Gutters            []models.Gutter `yaml:"gutters,omitempty"`

	OnNewWindow string `yaml:"on_new_window,omitempty"`
	LogLevel    string `yaml:"log_level"`

	Keybinds []Keybind `yaml:"keybinds"`
	// Commands are named macros; each runs its command lines in order.
	Commands map[string][]string `yaml:"commands,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		ModKey:               "mod4",
		MouseKey:             "mod4",
		Tags:                 []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Layouts:              []string{"main-and-stack", "grid", "columns", "monocle"},
		DefaultLayout:        "main-and-stack",
		FocusBehaviour:       models.FocusSloppy,
		FocusNewWindows:      true,
		FocusCheckIntervalMS: 250,
		DefaultWidth:         1000,
		DefaultHeight:        700,
		BorderWidth:          1,
		BorderColor:          "#3c3836",
		FocusedBorderColor:   "#d79921",
		Margin:               5,
		LogLevel:             "info",
		Keybinds:             defaultKeybinds(9),
	}
}

func defaultKeybinds(tags int) []Keybind {
	mod := []string{ModKeyPlaceholder}
	modShift := []string{ModKeyPlaceholder, "shift"}
	binds := []Keybind{
		{Command: "Execute", Value: "xterm", Modifier: mod, Key: "Return"},
		{Command: "CloseWindow", Modifier: modShift, Key: "q"},
		{Command: "SoftReload", Modifier: modShift, Key: "r"},
		{Command: "FocusWindowDown", Modifier: mod, Key: "j"},
		{Command: "FocusWindowUp", Modifier: mod, Key: "k"},
		{Command: "MoveWindowDown", Modifier: modShift, Key: "j"},
		{Command: "MoveWindowUp", Modifier: modShift, Key: "k"},
		{Command: "FocusWorkspaceNext", Modifier: mod, Key: "l"},
		{Command: "FocusWorkspacePrevious", Modifier: mod, Key: "h"},
		{Command: "NextLayout", Modifier: mod, Key: "space"},
		{Command: "PreviousLayout", Modifier: modShift, Key: "space"},
		{Command: "ToggleFloating", Modifier: modShift, Key: "f"},
		{Command: "ToggleFullScreen", Modifier: mod, Key: "f"},
		{Command: "ReturnToLastTag", Modifier: mod, Key: "Tab"},
	}
	for i := 1; i <= tags; i++ {
		n := strconv.Itoa(i)
		binds = append(binds,
			Keybind{Command: "GoToTag", Value: n, Modifier: mod, Key: n},
			Keybind{Command: "MoveToTag", Value: n, Modifier: modShift, Key: n},
		)
	}
	return binds
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the loaded config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Include = nil
	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LayoutEngine builds the tiling engine for the configured layouts.
func (c *Config) LayoutEngine(logger *slog.Logger) *tiling.Engine {
	return tiling.NewEngine(c.CustomLayouts, c.LayoutGap, logger)
}

// modifiers expands the modkey placeholder.
func (c *Config) modifiers(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(name, ModKeyPlaceholder) {
			name = c.ModKey
		}
		out = append(out, name)
	}
	return out
}

// MappedBindings parses the keybinds into command bindings, in order.
func (c *Config) MappedBindings() ([]command.Keybind, error) {
	out := make([]command.Keybind, 0, len(c.Keybinds))
	for i, kb := range c.Keybinds {
		cmd, err := command.Parse(kb.Line())
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("keybinds.%d", i), Err: err}
		}
		out = append(out, command.Keybind{Command: cmd, Modifiers: c.modifiers(kb.Modifier), Key: kb.Key})
	}
	return out, nil
}

// Macros parses the named command macros.
func (c *Config) Macros() (map[string][]command.Command, error) {
	out := make(map[string][]command.Command, len(c.Commands))
	for name, lines := range c.Commands {
		cmds := make([]command.Command, 0, len(lines))
		for i, line := range lines {
			cmd, err := command.Parse(line)
			if err != nil {
				return nil, &ValidationError{Path: fmt.Sprintf("commands.%s.%d", name, i), Err: err}
			}
			cmds = append(cmds, cmd)
		}
		out[name] = cmds
	}
	return out, nil
}

func isModifier(name string) bool {
	return command.ModMaskFromNames([]string{name}) != 0
}

// Validate performs strict validation of the loaded configuration.
func (c *Config) Validate() error {
	if c.ModKey == "" || !isModifier(c.ModKey) {
		return &ValidationError{Path: "modkey", Err: fmt.Errorf("modkey must be a modifier name such as mod4 or alt, got %q", c.ModKey)}
	}
	if c.MouseKey == "" || !isModifier(c.MouseKey) {
		return &ValidationError{Path: "mousekey", Err: fmt.Errorf("mousekey must be a modifier name, got %q", c.MouseKey)}
	}

	if len(c.Tags) == 0 {
		return &ValidationError{Path: "tags", Err: fmt.Errorf("tags must not be empty")}
	}
	seenTags := make(map[string]bool, len(c.Tags))
	for i, label := range c.Tags {
		path := fmt.Sprintf("tags.%d", i)
		switch {
		case strings.TrimSpace(label) == "":
			return &ValidationError{Path: path, Err: fmt.Errorf("tag label must not be empty")}
		case label == models.ScratchPadTagLabel:
			return &ValidationError{Path: path, Err: fmt.Errorf("tag label %q is reserved for scratchpads", label)}
		case seenTags[label]:
			return &ValidationError{Path: path, Err: fmt.Errorf("duplicate tag label %q", label)}
		}
		seenTags[label] = true
	}

	for name, layout := range c.CustomLayouts {
		if err := validateLayout(layout); err != nil {
			return &ValidationError{Path: "custom_layouts." + name, Err: err}
		}
	}
	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	engine := c.LayoutEngine(nil)
	for i, name := range c.Layouts {
		if !engine.Has(name) {
			return &ValidationError{Path: fmt.Sprintf("layouts.%d", i), Err: fmt.Errorf("unknown layout %q (known: %s)", name, strings.Join(engine.Names(), ", "))}
		}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if !contains(c.Layouts, c.DefaultLayout) {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.DefaultLayout)}
	}
	for i, ws := range c.Workspaces {
		if ws.Bounds.Empty() {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d", i), Err: fmt.Errorf("workspace width and height must be positive")}
		}
		if ws.Layout != "" && !engine.Has(ws.Layout) {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d.layout", i), Err: fmt.Errorf("unknown layout %q", ws.Layout)}
		}
	}

	seenPads := make(map[string]bool, len(c.ScratchPads))
	for i, sp := range c.ScratchPads {
		path := fmt.Sprintf("scratchpads.%d", i)
		if sp.Name == "" || strings.ContainsAny(sp.Name, " \t") {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("scratchpad name must be a single non-empty word")}
		}
		if seenPads[sp.Name] {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate scratchpad %q", sp.Name)}
		}
		seenPads[sp.Name] = true
		if strings.TrimSpace(sp.Value) == "" {
			return &ValidationError{Path: path + ".value", Err: fmt.Errorf("scratchpad command must not be empty")}
		}
	}

	if c.DefaultWidth <= 0 || c.DefaultHeight <= 0 {
		return &ValidationError{Path: "default_width", Err: fmt.Errorf("default_width and default_height must be positive")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := ParseColor(c.BorderColor); err != nil {
		return &ValidationError{Path: "border_color", Err: err}
	}
	if _, err := ParseColor(c.FocusedBorderColor); err != nil {
		return &ValidationError{Path: "focused_border_color", Err: err}
	}
	if c.Margin < 0 {
		return &ValidationError{Path: "margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.LayoutGap < 0 {
		return &ValidationError{Path: "layout_gap", Err: fmt.Errorf("layout_gap must be >= 0")}
	}
	if m := c.WorkspaceMargin; m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		return &ValidationError{Path: "workspace_margin", Err: fmt.Errorf("workspace_margin values must be >= 0")}
	}
	for i, g := range c.Gutters {
		switch g.Side {
		case models.SideTop, models.SideBottom, models.SideLeft, models.SideRight:
		default:
			return &ValidationError{Path: fmt.Sprintf("gutters.%d.side", i), Err: fmt.Errorf("side must be one of: top, bottom, left, right")}
		}
		if g.Value < 0 {
			return &ValidationError{Path: fmt.Sprintf("gutters.%d.value", i), Err: fmt.Errorf("gutter value must be >= 0")}
		}
	}
	if c.FocusCheckIntervalMS < 0 {
		return &ValidationError{Path: "focus_check_interval_ms", Err: fmt.Errorf("focus_check_interval_ms must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	for i, kb := range c.Keybinds {
		path := fmt.Sprintf("keybinds.%d", i)
		if kb.Key == "" {
			return &ValidationError{Path: path + ".key", Err: fmt.Errorf("key is required")}
		}
		for _, mod := range c.modifiers(kb.Modifier) {
			if !isModifier(mod) {
				return &ValidationError{Path: path + ".modifier", Err: fmt.Errorf("unknown modifier %q", mod)}
			}
		}
	}
	if _, err := c.MappedBindings(); err != nil {
		return err
	}
	if _, err := c.Macros(); err != nil {
		return err
	}

	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout tiling.Layout) error {
	switch layout.Mode {
	case tiling.ModeAuto, tiling.ModeFixed, tiling.ModeVertical, tiling.ModeHorizontal, tiling.ModeMasterStack, tiling.ModeMonocle:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	if layout.Mode == tiling.ModeFixed {
		if layout.FixedGrid.Rows <= 0 || layout.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if layout.Mode == tiling.ModeMasterStack {
		if layout.MasterStack.MasterWidthPercent < 10 || layout.MasterStack.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if layout.MasterStack.MaxStackRows < 1 {
			return fmt.Errorf("master_stack.max_stack_rows must be >= 1")
		}
		if layout.MasterStack.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_cols must be >= 1")
		}
	}

	if layout.MaxWidth < 0 || layout.MaxHeight < 0 {
		return fmt.Errorf("max_width/height must be >= 0")
	}

	r := layout.Region
	switch r.Type {
	case "", tiling.RegionFull, tiling.RegionLeftHalf, tiling.RegionRightHalf, tiling.RegionTopHalf, tiling.RegionBottomHalf:
	case tiling.RegionCustom:
		if r.XPercent < 0 || r.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", r.Type)
	}

	return nil
}

// ParseColor converts "#rrggbb" into an X pixel value.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("colour %q must look like #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q must look like #rrggbb", s)
	}
	return uint32(v), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
