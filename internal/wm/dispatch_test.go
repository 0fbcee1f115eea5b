package wm

import (
	"reflect"
	"testing"

	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

func TestDispatch_GoToTagTwiceKeepsHistoryUnique(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	m.Dispatch(command.GoToTag{Tag: 2})
	m.Dispatch(command.GoToTag{Tag: 2})
	assertTagHistory(t, m, 2, 1)
}

func TestDispatch_GoToTagSwap(t *testing.T) {
	tests := []struct {
		name  string
		steps []command.GoToTag
		want  []models.TagID
	}{
		{
			name:  "swap to non-current behaves like push",
			steps: []command.GoToTag{{Tag: 2, Swap: true}},
			want:  []models.TagID{2, 1},
		},
		{
			name:  "swap to current trades with previous",
			steps: []command.GoToTag{{Tag: 2}, {Tag: 2, Swap: true}},
			want:  []models.TagID{1, 2},
		},
		{
			name:  "swap keeps the tail",
			steps: []command.GoToTag{{Tag: 2}, {Tag: 3}, {Tag: 3, Swap: true}},
			want:  []models.TagID{2, 3, 1},
		},
		{
			name:  "swap with no history stays",
			steps: []command.GoToTag{{Tag: 1, Swap: true}},
			want:  []models.TagID{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.tags = []string{"1", "2", "3"}
			m, _ := withScreen(cfg)
			for _, step := range tt.steps {
				m.Dispatch(step)
			}
			assertTagHistory(t, m, tt.want...)
			if tag, _ := m.State().FocusedTag(); tag != tt.want[0] {
				t.Fatalf("workspace tag = %d, want %d", tag, tt.want[0])
			}
		})
	}
}

func TestDispatch_GoToTagOutOfRange(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	for _, tag := range []models.TagID{0, 3, -1} {
		if out := m.Dispatch(command.GoToTag{Tag: tag}); out != Unchanged {
			t.Fatalf("GoToTag(%d) = %v, want Unchanged", tag, out)
		}
	}
	assertTagHistory(t, m, 1)
}

func TestDispatch_GoToTagShownElsewhereSwapsWorkspaces(t *testing.T) {
	m, _ := withScreen(twoWorkspaceConfig())
	m.Dispatch(command.GoToTag{Tag: 2})

	s := m.State()
	if s.Workspaces[0].Tag != 2 || s.Workspaces[1].Tag != 1 {
		t.Fatalf("workspace tags = %d,%d, want 2,1", s.Workspaces[0].Tag, s.Workspaces[1].Tag)
	}
}

func TestDispatch_TagCycling(t *testing.T) {
	cfg := newTestConfig()
	cfg.tags = []string{"1", "2", "3"}
	m, _ := withScreen(cfg)

	steps := []struct {
		cmd  command.Command
		want models.TagID
	}{
		{command.FocusNextTag{}, 2},
		{command.FocusPreviousTag{}, 1},
		{command.FocusPreviousTag{}, 3},
		{command.FocusNextTag{}, 1},
		{command.ReturnToLastTag{}, 3},
	}
	for _, step := range steps {
		m.Dispatch(step.cmd)
		if tag, _ := m.State().FocusedTag(); tag != step.want {
			t.Fatalf("after %s tag = %d, want %d", command.String(step.cmd), tag, step.want)
		}
	}
}

func TestDispatch_MoveToTag(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)

	if out := m.Handle(SendCommand{Command: command.MoveToTag{Tag: 2}}); out != NeedsRelayout {
		t.Fatalf("MoveToTag = %v, want NeedsRelayout", out)
	}
	w, _ := m.State().Window(11)
	if !reflect.DeepEqual(w.Tags, []models.TagID{2}) || w.Visible {
		t.Fatalf("window = %+v, want hidden on tag 2", w)
	}
	if got := focused(t, m); got != 10 {
		t.Fatalf("focus = %d, want 10", got)
	}
	if countKind(m.State().Actions.Peek(), "set_window_tags") == 0 {
		t.Fatalf("expected set_window_tags for the retagged window")
	}

	if out := m.Dispatch(command.MoveToTag{Tag: 9}); out != Unchanged {
		t.Fatalf("MoveToTag out of range = %v, want Unchanged", out)
	}
}

func TestDispatch_FocusWindowCycling(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)
	createWindow(m, 12, 5, 5)

	m.Dispatch(command.FocusWindowDown{})
	if got := focused(t, m); got != 10 {
		t.Fatalf("focus after down = %d, want 10", got)
	}
	m.Dispatch(command.FocusWindowUp{})
	if got := focused(t, m); got != 12 {
		t.Fatalf("focus after up = %d, want 12", got)
	}
}

func TestDispatch_FocusWindowWarpsPointerWhenMouseFollows(t *testing.T) {
	cfg := newTestConfig()
	cfg.mouseFollows = true
	m, _ := withScreen(cfg)
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)
	m.State().Actions.Drain()

	m.Dispatch(command.FocusWindowDown{})
	actions := m.State().Actions.Peek()
	if countKind(actions, "move_mouse_over") != 1 {
		t.Fatalf("expected move_mouse_over, got %v", actions)
	}
}

func TestDispatch_MoveWindowReorders(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)
	createWindow(m, 12, 5, 5)
	m.Handle(MouseEnteredWindow{Handle: 10})

	if out := m.Dispatch(command.MoveWindowDown{}); out != NeedsRelayout {
		t.Fatalf("MoveWindowDown = %v, want NeedsRelayout", out)
	}
	var order []models.WindowHandle
	for _, w := range m.State().Windows {
		order = append(order, w.Handle)
	}
	if want := []models.WindowHandle{11, 10, 12}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}

	m.Dispatch(command.MoveWindowUp{})
	if out := m.Dispatch(command.MoveWindowUp{}); out != Unchanged {
		t.Fatalf("MoveWindowUp at top = %v, want Unchanged", out)
	}
}

func TestDispatch_FocusWorkspaceCycling(t *testing.T) {
	m, _ := withScreen(twoWorkspaceConfig())

	m.Dispatch(command.FocusWorkspaceNext{})
	if ws, _ := m.State().FocusedWorkspace(); ws != 1 {
		t.Fatalf("focused workspace = %d, want 1", ws)
	}
	assertTagHistory(t, m, 2, 1)

	m.Dispatch(command.FocusWorkspacePrevious{})
	if ws, _ := m.State().FocusedWorkspace(); ws != 0 {
		t.Fatalf("focused workspace = %d, want 0", ws)
	}
}

func TestDispatch_ToggleFloatingAndFullScreen(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	w, _ := m.State().Window(10)

	m.Handle(SendCommand{Command: command.ToggleFloating{}})
	if !w.Floating || w.FloatingRect != w.Normal {
		t.Fatalf("floating=%v rect=%+v normal=%+v", w.Floating, w.FloatingRect, w.Normal)
	}
	m.Handle(SendCommand{Command: command.ToggleFloating{}})
	if w.Floating {
		t.Fatalf("second toggle left window floating")
	}

	m.State().Workspaces[0].Avoid = models.Margins{Top: 20}
	m.Handle(SendCommand{Command: command.ToggleFullScreen{}})
	if !w.IsFullscreen() || w.Normal != testScreen.Bounds {
		t.Fatalf("fullscreen=%v normal=%+v, want workspace bounds", w.IsFullscreen(), w.Normal)
	}
}

func TestDispatch_Layouts(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	ws := &m.State().Workspaces[0]

	m.Dispatch(command.NextLayout{})
	if ws.Layout != "monocle" {
		t.Fatalf("layout = %q, want monocle", ws.Layout)
	}
	m.Dispatch(command.NextLayout{})
	if ws.Layout != "main-and-stack" {
		t.Fatalf("layout = %q, want main-and-stack", ws.Layout)
	}
	m.Dispatch(command.PreviousLayout{})
	if ws.Layout != "monocle" {
		t.Fatalf("layout = %q, want monocle", ws.Layout)
	}
	if out := m.Dispatch(command.SetLayout{Layout: "spiral"}); out != Unchanged {
		t.Fatalf("unknown layout = %v, want Unchanged", out)
	}
	if out := m.Dispatch(command.SetLayout{Layout: "main-and-stack"}); out != NeedsRelayout {
		t.Fatalf("SetLayout = %v, want NeedsRelayout", out)
	}
}

func TestDispatch_CloseWindowAndExecute(t *testing.T) {
	m, sp := withScreen(newTestConfig())
	if out := m.Dispatch(command.CloseWindow{}); out != Unchanged || m.State().Actions.Len() != 0 {
		t.Fatalf("CloseWindow with nothing focused queued %v", m.State().Actions.Peek())
	}

	createWindow(m, 10, 5, 5)
	m.State().Actions.Drain()
	m.Dispatch(command.CloseWindow{})
	actions := m.State().Actions.Drain()
	if len(actions) != 1 || actions[0] != (action.KillWindow{Handle: 10}) {
		t.Fatalf("actions = %v, want KillWindow(10)", actions)
	}

	m.Dispatch(command.Execute{Cmd: "xterm"})
	if !reflect.DeepEqual(sp.cmds, []string{"xterm"}) {
		t.Fatalf("spawned %v", sp.cmds)
	}
}

func TestDispatch_ToggleScratchPad(t *testing.T) {
	cfg := newTestConfig()
	cfg.scratchPads = []models.ScratchPad{{Name: "term", Value: "alacritty --class scratch"}}
	m, sp := withScreen(cfg)
	s := m.State()

	if out := m.Dispatch(command.ToggleScratchPad{Pad: "term"}); out != Unchanged {
		t.Fatalf("spawn toggle = %v, want Unchanged", out)
	}
	m.Dispatch(command.ToggleScratchPad{Pad: "term"})
	if len(sp.cmds) != 1 {
		t.Fatalf("pending scratchpad spawned again: %v", sp.cmds)
	}

	win := models.NewWindow(20, "scratch")
	win.PID = 100
	m.Handle(WindowCreate{Window: win, X: 5, Y: 5})
	w, _ := s.Window(20)
	if h := s.ScratchPadWindows["term"]; h != 20 {
		t.Fatalf("scratchpad window = %d, want 20", h)
	}
	if want := (models.Rect{X: 200, Y: 160, Width: 600, Height: 480}); !w.Floating || w.FloatingRect != want {
		t.Fatalf("scratchpad = %+v floating=%v, want %+v", w.FloatingRect, w.Floating, want)
	}

	m.Handle(SendCommand{Command: command.ToggleScratchPad{Pad: "term"}})
	nsp, _ := s.Tags.ByLabel(models.ScratchPadTagLabel)
	if !w.HasTag(nsp.ID) || w.Visible {
		t.Fatalf("dismissed scratchpad = %+v, want hidden on NSP", w)
	}

	m.Handle(SendCommand{Command: command.ToggleScratchPad{Pad: "term"}})
	if !w.HasTag(1) || !w.Visible {
		t.Fatalf("summoned scratchpad = %+v, want visible on tag 1", w)
	}
	if got := focused(t, m); got != 20 {
		t.Fatalf("focus = %d, want 20", got)
	}

	if out := m.Dispatch(command.ToggleScratchPad{Pad: "missing"}); out != Unchanged {
		t.Fatalf("unknown scratchpad = %v, want Unchanged", out)
	}
}
