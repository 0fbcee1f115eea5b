// Package command defines the user-triggerable operations of the window
// manager and resolves key and mouse chords into them.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tagtile/internal/models"
)

// Command is a structured user intent. Built-in commands are concrete types;
// anything else is carried as Other and handed to the configured handler.
type Command interface {
	// Name returns the command's textual name as accepted by Parse.
	Name() string
	isCommand()
}

type (
	// Execute spawns a shell command.
	Execute struct{ Cmd string }
	// CloseWindow closes the focused window.
	CloseWindow struct{}
	// SoftReload restarts keeping state.
	SoftReload struct{}
	// HardReload restarts from scratch.
	HardReload struct{}
	// GoToTag shows Tag on the focused workspace. With Swap set, asking for
	// the tag already shown returns to the previous tag.
	GoToTag struct {
		Tag  models.TagID
		Swap bool
	}
	// MoveToTag retags the focused window.
	MoveToTag struct{ Tag models.TagID }
	// FocusNextTag shows the next tag on the focused workspace.
	FocusNextTag struct{}
	// FocusPreviousTag shows the previous tag on the focused workspace.
	FocusPreviousTag struct{}
	// ReturnToLastTag shows the previously visited tag.
	ReturnToLastTag struct{}
	// FocusWindowUp focuses the previous window in the workspace.
	FocusWindowUp struct{}
	// FocusWindowDown focuses the next window in the workspace.
	FocusWindowDown struct{}
	// FocusWorkspaceNext focuses the next workspace.
	FocusWorkspaceNext struct{}
	// FocusWorkspacePrevious focuses the previous workspace.
	FocusWorkspacePrevious struct{}
	// MoveWindowUp swaps the focused window with the one above it.
	MoveWindowUp struct{}
	// MoveWindowDown swaps the focused window with the one below it.
	MoveWindowDown struct{}
	// ToggleFloating flips the focused window between floating and tiled.
	ToggleFloating struct{}
	// ToggleFullScreen flips the fullscreen state of the focused window.
	ToggleFullScreen struct{}
	// NextLayout cycles the focused workspace to the next layout.
	NextLayout struct{}
	// PreviousLayout cycles the focused workspace to the previous layout.
	PreviousLayout struct{}
	// SetLayout switches the focused workspace to a named layout.
	SetLayout struct{ Layout string }
	// ToggleScratchPad summons or dismisses a named scratchpad.
	ToggleScratchPad struct{ Pad string }
	// Other is a command the core does not know; the configuration decides.
	Other struct {
		Command string
		Args    []string
	}
)

func (Execute) Name() string                { return "Execute" }
func (CloseWindow) Name() string            { return "CloseWindow" }
func (SoftReload) Name() string             { return "SoftReload" }
func (HardReload) Name() string             { return "HardReload" }
func (GoToTag) Name() string                { return "GoToTag" }
func (MoveToTag) Name() string              { return "MoveToTag" }
func (FocusNextTag) Name() string           { return "FocusNextTag" }
func (FocusPreviousTag) Name() string       { return "FocusPreviousTag" }
func (ReturnToLastTag) Name() string        { return "ReturnToLastTag" }
func (FocusWindowUp) Name() string          { return "FocusWindowUp" }
func (FocusWindowDown) Name() string        { return "FocusWindowDown" }
func (FocusWorkspaceNext) Name() string     { return "FocusWorkspaceNext" }
func (FocusWorkspacePrevious) Name() string { return "FocusWorkspacePrevious" }
func (MoveWindowUp) Name() string           { return "MoveWindowUp" }
func (MoveWindowDown) Name() string         { return "MoveWindowDown" }
func (ToggleFloating) Name() string         { return "ToggleFloating" }
func (ToggleFullScreen) Name() string       { return "ToggleFullScreen" }
func (NextLayout) Name() string             { return "NextLayout" }
func (PreviousLayout) Name() string         { return "PreviousLayout" }
func (SetLayout) Name() string              { return "SetLayout" }
func (ToggleScratchPad) Name() string       { return "ToggleScratchPad" }
func (o Other) Name() string                { return o.Command }

func (Execute) isCommand()                {}
func (CloseWindow) isCommand()            {}
func (SoftReload) isCommand()             {}
func (HardReload) isCommand()             {}
func (GoToTag) isCommand()                {}
func (MoveToTag) isCommand()              {}
func (FocusNextTag) isCommand()           {}
func (FocusPreviousTag) isCommand()       {}
func (ReturnToLastTag) isCommand()        {}
func (FocusWindowUp) isCommand()          {}
func (FocusWindowDown) isCommand()        {}
func (FocusWorkspaceNext) isCommand()     {}
func (FocusWorkspacePrevious) isCommand() {}
func (MoveWindowUp) isCommand()           {}
func (MoveWindowDown) isCommand()         {}
func (ToggleFloating) isCommand()         {}
func (ToggleFullScreen) isCommand()       {}
func (NextLayout) isCommand()             {}
func (PreviousLayout) isCommand()         {}
func (SetLayout) isCommand()              {}
func (ToggleScratchPad) isCommand()       {}
func (Other) isCommand()                  {}

// String renders c in the textual form accepted by Parse.
func String(c Command) string {
	switch c := c.(type) {
	case Execute:
		return "Execute " + c.Cmd
	case GoToTag:
		return fmt.Sprintf("GoToTag %d %t", c.Tag, c.Swap)
	case MoveToTag:
		return fmt.Sprintf("MoveToTag %d", c.Tag)
	case SetLayout:
		return "SetLayout " + c.Layout
	case ToggleScratchPad:
		return "ToggleScratchPad " + c.Pad
	case Other:
		return strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
	default:
		return c.Name()
	}
}

var simple = map[string]Command{
	"CloseWindow":            CloseWindow{},
	"SoftReload":             SoftReload{},
	"HardReload":             HardReload{},
	"FocusNextTag":           FocusNextTag{},
	"FocusPreviousTag":       FocusPreviousTag{},
	"ReturnToLastTag":        ReturnToLastTag{},
	"FocusWindowUp":          FocusWindowUp{},
	"FocusWindowDown":        FocusWindowDown{},
	"FocusWorkspaceNext":     FocusWorkspaceNext{},
	"FocusWorkspacePrevious": FocusWorkspacePrevious{},
	"MoveWindowUp":           MoveWindowUp{},
	"MoveWindowDown":         MoveWindowDown{},
	"ToggleFloating":         ToggleFloating{},
	"ToggleFullScreen":       ToggleFullScreen{},
	"NextLayout":             NextLayout{},
	"PreviousLayout":         PreviousLayout{},
}

// Parse reads the textual form of a command: a name followed by
// whitespace-separated arguments. Unknown names yield Other.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	name, args := fields[0], fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), name))

	if c, ok := simple[name]; ok {
		if len(args) != 0 {
			return nil, fmt.Errorf("%s takes no arguments", name)
		}
		return c, nil
	}

	switch name {
	case "Execute":
		if rest == "" {
			return nil, fmt.Errorf("Execute requires a command")
		}
		return Execute{Cmd: rest}, nil
	case "GoToTag":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("GoToTag requires a tag and an optional swap flag")
		}
		tag, err := parseTag(args[0])
		if err != nil {
			return nil, err
		}
		swap := false
		if len(args) == 2 {
			swap, err = strconv.ParseBool(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid swap flag %q: %w", args[1], err)
			}
		}
		return GoToTag{Tag: tag, Swap: swap}, nil
	case "MoveToTag":
		if len(args) != 1 {
			return nil, fmt.Errorf("MoveToTag requires a tag")
		}
		tag, err := parseTag(args[0])
		if err != nil {
			return nil, err
		}
		return MoveToTag{Tag: tag}, nil
	case "SetLayout":
		if len(args) != 1 {
			return nil, fmt.Errorf("SetLayout requires a layout name")
		}
		return SetLayout{Layout: args[0]}, nil
	case "ToggleScratchPad":
		if len(args) != 1 {
			return nil, fmt.Errorf("ToggleScratchPad requires a scratchpad name")
		}
		return ToggleScratchPad{Pad: args[0]}, nil
	}

	return Other{Command: name, Args: args}, nil
}

func parseTag(s string) (models.TagID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid tag %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("tag must be >= 1, got %d", n)
	}
	return models.TagID(n), nil
}
