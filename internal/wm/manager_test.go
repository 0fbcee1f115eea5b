package wm

import (
	"errors"
	"reflect"
	"testing"

	"github.com/1broseidon/tagtile/internal/action"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/models"
)

type testConfig struct {
	bindings     []command.Keybind
	tags         []string
	workspaces   []models.WorkspaceSpec
	scratchPads  []models.ScratchPad
	behaviour    models.FocusBehaviour
	focusNew     bool
	mouseFollows bool
	onNewWindow  string
	handler      func(name string, args []string, m *Manager) bool
	saved        int
	loaded       int
}

func newTestConfig() *testConfig {
	return &testConfig{
		tags:      []string{"1", "2"},
		behaviour: models.FocusSloppy,
		focusNew:  true,
	}
}

func (c *testConfig) MappedBindings() []command.Keybind     { return c.bindings }
func (c *testConfig) TagLabels() []string                   { return c.tags }
func (c *testConfig) Workspaces() []models.WorkspaceSpec    { return c.workspaces }
func (c *testConfig) ScratchPads() []models.ScratchPad      { return c.scratchPads }
func (c *testConfig) Layouts() []string                     { return []string{"main-and-stack", "monocle"} }
func (c *testConfig) DefaultLayout() string                 { return "main-and-stack" }
func (c *testConfig) FocusBehaviour() models.FocusBehaviour { return c.behaviour }
func (c *testConfig) FocusNewWindows() bool                 { return c.focusNew }
func (c *testConfig) SloppyMouseFollowsFocus() bool         { return c.mouseFollows }
func (c *testConfig) MouseKey() string                      { return "mod4" }
func (c *testConfig) DefaultWidth() int                     { return 400 }
func (c *testConfig) DefaultHeight() int                    { return 300 }
func (c *testConfig) BorderWidth() int                      { return 1 }
func (c *testConfig) Margin() int                           { return 0 }
func (c *testConfig) WorkspaceMargin() models.Margins       { return models.Margins{} }
func (c *testConfig) Gutters() []models.Gutter              { return nil }
func (c *testConfig) OnNewWindowCmd() string                { return c.onNewWindow }
func (c *testConfig) SaveState(*State)                      { c.saved++ }
func (c *testConfig) LoadState(*State)                      { c.loaded++ }

func (c *testConfig) CommandHandler(name string, args []string, m *Manager) bool {
	if c.handler == nil {
		return false
	}
	return c.handler(name, args, m)
}

type fakeSpawner struct {
	cmds []string
	next int
}

func (f *fakeSpawner) Spawn(cmd string) (int, error) {
	f.cmds = append(f.cmds, cmd)
	f.next++
	return 99 + f.next, nil
}

type fakeDisplay struct {
	executed []action.Action
	flushed  int
	fail     error
}

func (f *fakeDisplay) Execute(a action.Action) error {
	f.executed = append(f.executed, a)
	return f.fail
}

func (f *fakeDisplay) Flush() error {
	f.flushed++
	return nil
}

var testScreen = models.Screen{Root: 1, Bounds: models.Rect{Width: 1000, Height: 800}}

func newTestManager(cfg *testConfig) (*Manager, *fakeSpawner) {
	sp := &fakeSpawner{}
	return New(cfg, nil, Options{Spawner: sp}), sp
}

// withScreen returns a manager with one screen registered and an empty queue.
func withScreen(cfg *testConfig) (*Manager, *fakeSpawner) {
	m, sp := newTestManager(cfg)
	m.Handle(ScreenCreate{Screen: testScreen})
	m.State().Actions.Drain()
	return m, sp
}

func createWindow(m *Manager, h models.WindowHandle, x, y int) Outcome {
	return m.Handle(WindowCreate{Window: models.NewWindow(h, "win"), X: x, Y: y})
}

func countKind(actions []action.Action, kind string) int {
	n := 0
	for _, a := range actions {
		if a.Kind() == kind {
			n++
		}
	}
	return n
}

func focused(t *testing.T, m *Manager) models.WindowHandle {
	t.Helper()
	h, _ := m.State().Focus.Window(0)
	return h
}

func assertTagHistory(t *testing.T, m *Manager, want ...models.TagID) {
	t.Helper()
	if got := m.State().Focus.TagHistory; !reflect.DeepEqual(got, want) {
		t.Fatalf("tag history = %v, want %v", got, want)
	}
}

func TestHandle_ChordGoToTagScenario(t *testing.T) {
	cfg := newTestConfig()
	cfg.bindings = []command.Keybind{
		{Command: command.GoToTag{Tag: 1}, Modifiers: []string{"mod4"}, Key: "1"},
		{Command: command.GoToTag{Tag: 2}, Modifiers: []string{"mod4"}, Key: "2"},
	}
	m, _ := newTestManager(cfg)

	if out := m.Handle(ScreenCreate{Screen: testScreen}); out != NeedsRelayout {
		t.Fatalf("ScreenCreate = %v, want NeedsRelayout", out)
	}
	assertTagHistory(t, m, 1)
	m.State().Actions.Drain()

	out := m.Handle(KeyCombo{Mods: command.ModMaskFromNames([]string{"mod4"}), Key: "2"})
	if out != NeedsRelayout {
		t.Fatalf("KeyCombo = %v, want NeedsRelayout", out)
	}
	assertTagHistory(t, m, 2, 1)
	if m.State().Actions.Len() == 0 {
		t.Fatalf("expected layout actions to be queued")
	}
	if !m.State().Mode.IsNormal() {
		t.Fatalf("mode = %v, want normal", m.State().Mode)
	}
}

func TestHandle_KeyComboWithoutBinding(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	if out := m.Handle(KeyCombo{Mods: command.ShiftMask, Key: "x"}); out != Unchanged {
		t.Fatalf("unbound chord = %v, want Unchanged", out)
	}
	if m.State().Actions.Len() != 0 {
		t.Fatalf("unbound chord queued actions: %v", m.State().Actions.Peek())
	}
}

func TestHandle_KeyGrabReload(t *testing.T) {
	cfg := newTestConfig()
	cfg.bindings = []command.Keybind{{Command: command.CloseWindow{}, Modifiers: []string{"mod4"}, Key: "q"}}
	m, _ := withScreen(cfg)

	if out := m.Handle(KeyGrabReload{}); out != Unchanged {
		t.Fatalf("KeyGrabReload = %v, want Unchanged", out)
	}
	actions := m.State().Actions.Drain()
	if len(actions) != 1 {
		t.Fatalf("expected exactly one action, got %v", actions)
	}
	reload, ok := actions[0].(action.ReloadKeyGrabs)
	if !ok {
		t.Fatalf("action = %T, want ReloadKeyGrabs", actions[0])
	}
	if !reflect.DeepEqual(reload.Bindings, cfg.bindings) {
		t.Fatalf("bindings = %v, want %v", reload.Bindings, cfg.bindings)
	}
}

func TestHandle_ChangeToNormalModeAlwaysRelayouts(t *testing.T) {
	tests := []struct {
		name string
		mode models.Mode
	}{
		{name: "normal", mode: models.NormalMode()},
		{name: "moving", mode: models.MovingWindow(10)},
		{name: "resizing", mode: models.ResizingWindow(10)},
		{name: "stale handle", mode: models.MovingWindow(77)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := withScreen(newTestConfig())
			createWindow(m, 10, 5, 5)
			m.State().Actions.Drain()
			m.State().Mode = tt.mode

			if out := m.Handle(ChangeToNormalMode{}); out != NeedsRelayout {
				t.Fatalf("ChangeToNormalMode = %v, want NeedsRelayout", out)
			}
			if !m.State().Mode.IsNormal() {
				t.Fatalf("mode = %v, want normal", m.State().Mode)
			}
			if countKind(m.State().Actions.Peek(), "normal_mode") != 1 {
				t.Fatalf("expected one normal_mode action, got %v", m.State().Actions.Peek())
			}
		})
	}
}

func TestHandle_ConfigureXlibWindow(t *testing.T) {
	m, _ := withScreen(newTestConfig())

	if out := m.Handle(ConfigureXlibWindow{Handle: 10}); out != Unchanged {
		t.Fatalf("unknown handle = %v, want Unchanged", out)
	}
	if m.State().Actions.Len() != 0 {
		t.Fatalf("unknown handle queued actions: %v", m.State().Actions.Peek())
	}

	createWindow(m, 10, 5, 5)
	m.State().Actions.Drain()
	if out := m.Handle(ConfigureXlibWindow{Handle: 10}); out != NeedsRelayout {
		t.Fatalf("known handle = %v, want NeedsRelayout", out)
	}
	actions := m.State().Actions.Drain()
	if countKind(actions, "configure_xlib_window") != 1 {
		t.Fatalf("expected exactly one configure action, got %v", actions)
	}
	sync := actions[0].(action.ConfigureXlibWindow)
	if sync.Window.Handle != 10 {
		t.Fatalf("configure handle = %d, want 10", sync.Window.Handle)
	}
}

func TestHandle_VerifyFocusedAtIgnoredUnlessSloppy(t *testing.T) {
	for _, behaviour := range []models.FocusBehaviour{models.FocusClickTo, models.FocusDriven} {
		t.Run(behaviour.String(), func(t *testing.T) {
			cfg := newTestConfig()
			cfg.behaviour = behaviour
			m, _ := withScreen(cfg)
			createWindow(m, 10, 5, 5)
			createWindow(m, 11, 5, 5)

			for _, h := range []models.WindowHandle{10, 11, 1, 999} {
				if out := m.Handle(VerifyFocusedAt{Handle: h}); out != Unchanged {
					t.Fatalf("VerifyFocusedAt(%d) = %v, want Unchanged", h, out)
				}
			}
			if got := focused(t, m); got != 11 {
				t.Fatalf("focus = %d, want 11", got)
			}
		})
	}
}

func TestHandle_VerifyFocusedAtSloppyCorrects(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)

	if out := m.Handle(VerifyFocusedAt{Handle: 10}); out != NeedsRelayout {
		t.Fatalf("correction = %v, want NeedsRelayout", out)
	}
	if got := focused(t, m); got != 10 {
		t.Fatalf("focus = %d, want 10", got)
	}
	if out := m.Handle(VerifyFocusedAt{Handle: 10}); out != Unchanged {
		t.Fatalf("already focused = %v, want Unchanged", out)
	}
	if out := m.Handle(VerifyFocusedAt{Handle: 999}); out != Unchanged {
		t.Fatalf("stale handle = %v, want Unchanged", out)
	}
}

func TestHandle_MovementOnlyFromRoot(t *testing.T) {
	cfg := newTestConfig()
	cfg.workspaces = []models.WorkspaceSpec{
		{Bounds: models.Rect{X: 0, Y: 0, Width: 500, Height: 800}},
		{Bounds: models.Rect{X: 500, Y: 0, Width: 500, Height: 800}},
	}
	m, _ := withScreen(cfg)

	if out := m.Handle(Movement{Handle: 42, X: 700, Y: 10}); out != Unchanged {
		t.Fatalf("non-root movement = %v, want Unchanged", out)
	}
	if ws, _ := m.State().FocusedWorkspace(); ws != 0 {
		t.Fatalf("focused workspace = %d, want 0", ws)
	}

	if out := m.Handle(Movement{Handle: testScreen.Root, X: 700, Y: 10}); out != NeedsRelayout {
		t.Fatalf("root movement = %v, want NeedsRelayout", out)
	}
	if ws, _ := m.State().FocusedWorkspace(); ws != 1 {
		t.Fatalf("focused workspace = %d, want 1", ws)
	}
	assertTagHistory(t, m, 2, 1)
}

func TestHandle_SendCommandCustomHandler(t *testing.T) {
	cfg := newTestConfig()
	cfg.handler = func(name string, args []string, m *Manager) bool {
		if name != "GoToTag2" {
			return false
		}
		return m.Dispatch(command.GoToTag{Tag: 2}).NeedsRelayout()
	}
	m, _ := withScreen(cfg)

	if out := m.Handle(SendCommand{Command: command.Other{Command: "GoToTag2"}}); out != NeedsRelayout {
		t.Fatalf("custom command = %v, want NeedsRelayout", out)
	}
	assertTagHistory(t, m, 2, 1)

	if out := m.Handle(SendCommand{Command: command.Other{Command: "Nope"}}); out != Unchanged {
		t.Fatalf("unknown custom command = %v, want Unchanged", out)
	}
}

func TestDispatch_CustomCommandNestingIsBounded(t *testing.T) {
	cfg := newTestConfig()
	calls := 0
	cfg.handler = func(name string, args []string, m *Manager) bool {
		calls++
		return m.Dispatch(command.Other{Command: name}).NeedsRelayout()
	}
	m, _ := withScreen(cfg)

	if out := m.Dispatch(command.Other{Command: "loop"}); out != Unchanged {
		t.Fatalf("recursive command = %v, want Unchanged", out)
	}
	if calls != maxCommandDepth {
		t.Fatalf("handler calls = %d, want %d", calls, maxCommandDepth)
	}
}

func TestUpdateWindows_Idempotent(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)
	m.State().Actions.Drain()

	m.UpdateWindows()
	if n := m.State().Actions.Len(); n != 0 {
		t.Fatalf("unchanged state queued %d actions: %v", n, m.State().Actions.Peek())
	}

	m.State().Workspaces[0].Layout = "monocle"
	m.UpdateWindows()
	if countKind(m.State().Actions.Drain(), "update_window") == 0 {
		t.Fatalf("layout change queued no window updates")
	}
	m.UpdateWindows()
	if n := m.State().Actions.Len(); n != 0 {
		t.Fatalf("second pass queued %d actions", n)
	}
}

func TestUpdateWindows_TilesAndHides(t *testing.T) {
	m, _ := withScreen(newTestConfig())
	createWindow(m, 10, 5, 5)
	createWindow(m, 11, 5, 5)

	w10, _ := m.State().Window(10)
	w11, _ := m.State().Window(11)
	if want := (models.Rect{X: 0, Y: 0, Width: 500, Height: 800}); w10.Normal != want {
		t.Fatalf("master = %+v, want %+v", w10.Normal, want)
	}
	if want := (models.Rect{X: 500, Y: 0, Width: 500, Height: 800}); w11.Normal != want {
		t.Fatalf("stack = %+v, want %+v", w11.Normal, want)
	}

	m.Dispatch(command.GoToTag{Tag: 2})
	m.UpdateWindows()
	if w10.Visible || w11.Visible {
		t.Fatalf("windows on tag 1 still visible after switching to tag 2")
	}
}

func TestFlush_DrainsIntoDisplay(t *testing.T) {
	display := &fakeDisplay{}
	m := New(newTestConfig(), display, Options{})
	m.Handle(ScreenCreate{Screen: testScreen})
	queued := m.State().Actions.Len()

	if err := m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(display.executed) != queued || queued == 0 {
		t.Fatalf("executed %d actions, want %d", len(display.executed), queued)
	}
	if m.State().Actions.Len() != 0 {
		t.Fatalf("queue not drained")
	}
	if display.flushed != 1 {
		t.Fatalf("display flushed %d times, want 1", display.flushed)
	}

	display.fail = errors.New("boom")
	m.Dispatch(command.HardReload{})
	if err := m.Flush(); err == nil {
		t.Fatalf("expected execute error to surface from Flush")
	}
}

func TestSaveLoadState_DelegateToConfig(t *testing.T) {
	cfg := newTestConfig()
	m, _ := newTestManager(cfg)
	m.LoadState()
	m.Handle(ScreenCreate{Screen: testScreen})
	m.Dispatch(command.SoftReload{})

	if cfg.loaded != 1 || cfg.saved != 1 {
		t.Fatalf("loaded=%d saved=%d, want 1 and 1", cfg.loaded, cfg.saved)
	}
	if countKind(m.State().Actions.Peek(), "soft_reload") != 1 {
		t.Fatalf("expected soft_reload action")
	}
}

func TestLoadState_RestoresOnReappearance(t *testing.T) {
	m, _ := newTestManager(newTestConfig())
	s := m.State()
	s.Focus.TagHistory = []models.TagID{2, 1}
	s.Focus.WorkspaceHistory = []int{0}
	s.Saved = &Saved{
		Workspaces: []SavedWorkspace{{Tag: 2, Layout: "monocle"}},
		Windows: map[models.WindowHandle]SavedWindow{
			10: {Tags: []models.TagID{2}, Floating: true, FloatingRect: models.Rect{X: 1, Y: 2, Width: 300, Height: 200}},
		},
	}

	m.Handle(ScreenCreate{Screen: testScreen})
	if ws := s.Workspaces[0]; ws.Tag != 2 || ws.Layout != "monocle" {
		t.Fatalf("workspace = %+v, want tag 2 layout monocle", ws)
	}
	assertTagHistory(t, m, 2, 1)

	createWindow(m, 10, 5, 5)
	w, _ := s.Window(10)
	if !reflect.DeepEqual(w.Tags, []models.TagID{2}) || !w.Floating {
		t.Fatalf("window = %+v, want restored tags and floating", w)
	}
	if want := (models.Rect{X: 1, Y: 2, Width: 300, Height: 200}); w.FloatingRect != want {
		t.Fatalf("floating rect = %+v, want %+v", w.FloatingRect, want)
	}
	if !w.Visible {
		t.Fatalf("restored window should be visible on tag 2")
	}
	if _, pending := s.Saved.Windows[10]; pending {
		t.Fatalf("saved window not consumed")
	}
}

func TestLoadState_SavedFocusBeatsCreationOrder(t *testing.T) {
	m, _ := newTestManager(newTestConfig())
	s := m.State()
	s.Saved = &Saved{
		Windows: map[models.WindowHandle]SavedWindow{
			10: {Tags: []models.TagID{1}},
			11: {Tags: []models.TagID{1}},
			12: {HiddenTags: []string{models.ScratchPadTagLabel}},
		},
		Focused: 10,
	}
	m.Handle(ScreenCreate{Screen: testScreen})

	for _, h := range []models.WindowHandle{10, 11, 12} {
		createWindow(m, h, 5, 5)
	}
	if got := focused(t, m); got != 10 {
		t.Fatalf("focus = %d, want 10", got)
	}
	nsp, ok := s.Tags.ByLabel(models.ScratchPadTagLabel)
	if !ok {
		t.Fatalf("hidden tag not registered")
	}
	if w, _ := s.Window(12); !reflect.DeepEqual(w.Tags, []models.TagID{nsp.ID}) || w.Visible {
		t.Fatalf("window 12 = %+v, want hidden on %d", w, nsp.ID)
	}

	createWindow(m, 13, 5, 5)
	if got := focused(t, m); got != 13 {
		t.Fatalf("new window focus = %d, want 13", got)
	}
}
