package models

import "fmt"

// historyLimit caps the window and workspace focus histories.
const historyLimit = 10

// FocusBehaviour is the policy governing how focus follows the pointer.
type FocusBehaviour int

const (
	// FocusSloppy focuses whatever window the pointer enters.
	FocusSloppy FocusBehaviour = iota
	// FocusClickTo only changes focus on click or explicit command.
	FocusClickTo
	// FocusDriven only changes focus through commands.
	FocusDriven
)

// String returns the config spelling of the behaviour.
func (b FocusBehaviour) String() string {
	switch b {
	case FocusSloppy:
		return "sloppy"
	case FocusClickTo:
		return "click-to"
	case FocusDriven:
		return "driven"
	default:
		return "unknown"
	}
}

// ParseFocusBehaviour parses the config spelling of a behaviour.
func ParseFocusBehaviour(s string) (FocusBehaviour, error) {
	switch s {
	case "sloppy", "Sloppy":
		return FocusSloppy, nil
	case "click-to", "ClickTo":
		return FocusClickTo, nil
	case "driven", "Driven":
		return FocusDriven, nil
	default:
		return FocusSloppy, fmt.Errorf("unknown focus behaviour %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b FocusBehaviour) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *FocusBehaviour) UnmarshalText(text []byte) error {
	parsed, err := ParseFocusBehaviour(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// IsSloppy reports whether the policy is sloppy focus.
func (b FocusBehaviour) IsSloppy() bool { return b == FocusSloppy }

// IsClickTo reports whether the policy is click-to-focus.
func (b FocusBehaviour) IsClickTo() bool { return b == FocusClickTo }

// FocusManager tracks current focus and the visit histories.
// Index 0 of each history is the current value.
type FocusManager struct {
	Behaviour               FocusBehaviour
	FocusNewWindows         bool
	SloppyMouseFollowsFocus bool

	// WindowHistory holds focused windows; 0 records focus on a root window.
	WindowHistory    []WindowHandle
	WorkspaceHistory []int
	TagHistory       []TagID
}

// NewFocusManager creates a focus manager with empty histories.
func NewFocusManager(behaviour FocusBehaviour, focusNewWindows bool) *FocusManager {
	return &FocusManager{
		Behaviour:       behaviour,
		FocusNewWindows: focusNewWindows,
	}
}

// Tag returns the i-th most recent tag.
func (f *FocusManager) Tag(i int) (TagID, bool) {
	if i < 0 || i >= len(f.TagHistory) {
		return 0, false
	}
	return f.TagHistory[i], true
}

// Window returns the i-th most recently focused window.
func (f *FocusManager) Window(i int) (WindowHandle, bool) {
	if i < 0 || i >= len(f.WindowHistory) || f.WindowHistory[i] == 0 {
		return 0, false
	}
	return f.WindowHistory[i], true
}

// Workspace returns the i-th most recently focused workspace index.
func (f *FocusManager) Workspace(i int) (int, bool) {
	if i < 0 || i >= len(f.WorkspaceHistory) {
		return 0, false
	}
	return f.WorkspaceHistory[i], true
}

// PushTag makes tag the current tag, removing any earlier occurrence so the
// history never holds duplicates.
func (f *FocusManager) PushTag(tag TagID) {
	out := make([]TagID, 0, len(f.TagHistory)+1)
	out = append(out, tag)
	for _, t := range f.TagHistory {
		if t != tag {
			out = append(out, t)
		}
	}
	f.TagHistory = out
}

// SwapTarget resolves the destination of a swapping go-to-tag: asking for the
// current tag yields the previous one, so the two trade places.
func (f *FocusManager) SwapTarget(tag TagID) TagID {
	current, ok := f.Tag(0)
	if !ok || current != tag {
		return tag
	}
	if previous, ok := f.Tag(1); ok {
		return previous
	}
	return tag
}

// PushWindow records a window focus. Root focus is recorded as 0.
func (f *FocusManager) PushWindow(handle WindowHandle) {
	f.WindowHistory = pushCapped(f.WindowHistory, handle)
}

// PushWorkspace records a workspace focus.
func (f *FocusManager) PushWorkspace(index int) {
	f.WorkspaceHistory = pushCapped(f.WorkspaceHistory, index)
}

// ForgetWindow drops every history entry for handle.
func (f *FocusManager) ForgetWindow(handle WindowHandle) {
	out := f.WindowHistory[:0]
	for _, h := range f.WindowHistory {
		if h != handle {
			out = append(out, h)
		}
	}
	f.WindowHistory = out
}

func pushCapped[T any](history []T, v T) []T {
	if len(history) >= historyLimit {
		history = history[:historyLimit-1]
	}
	out := make([]T, 0, len(history)+1)
	out = append(out, v)
	return append(out, history...)
}
