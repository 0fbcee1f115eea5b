package statefile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/wm"
)

var screen = models.Screen{Root: 1, Bounds: models.Rect{Width: 1000, Height: 800}}

func newManager(t *testing.T, store *Store) *wm.Manager {
	t.Helper()
	return newManagerWith(t, config.DefaultConfig(), store, nil)
}

func newManagerWith(t *testing.T, cfg *config.Config, store *Store, spawner wm.Spawner) *wm.Manager {
	t.Helper()
	p, err := config.NewProvider(cfg, store, nil)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	return wm.New(p, nil, wm.Options{Spawner: spawner})
}

type pidSpawner struct{ pid int }

func (s pidSpawner) Spawn(string) (int, error) { return s.pid, nil }

func TestStore_LoadMissingReturnsNil(t *testing.T) {
	st := &Store{Path: filepath.Join(t.TempDir(), "state.json")}
	snap, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
	if err := st.Remove(); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestStore_SaveWritesPrivateFile(t *testing.T) {
	st := &Store{Path: filepath.Join(t.TempDir(), "run", "state.json")}
	snap := Snapshot{
		Version:    SchemaVersion,
		Workspaces: []Workspace{{Tag: 2, Layout: "grid"}},
		Windows:    []Window{{Handle: 9, Tags: []models.TagID{2}}, {Handle: 3, Tags: []models.TagID{1}}},
	}
	if err := st.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(st.Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}
	data, err := os.ReadFile(st.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Fatalf("expected trailing newline")
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Windows[0].Handle != 3 || got.Windows[1].Handle != 9 {
		t.Fatalf("expected windows sorted by handle, got %+v", got.Windows)
	}
	if !reflect.DeepEqual(got.Workspaces, snap.Workspaces) {
		t.Fatalf("workspaces mismatch: %+v", got.Workspaces)
	}
}

func TestRestore_RejectsOtherVersion(t *testing.T) {
	p, _ := config.NewProvider(config.DefaultConfig(), nil, nil)
	if err := Restore(&Snapshot{Version: SchemaVersion + 1}, wm.NewState(p)); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestRestore_DropsUnknownTagsFromHistory(t *testing.T) {
	p, _ := config.NewProvider(config.DefaultConfig(), nil, nil)
	s := wm.NewState(p)
	snap := &Snapshot{Version: SchemaVersion, TagHistory: []models.TagID{3, 42, 1}}
	if err := Restore(snap, s); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if want := []models.TagID{3, 1}; !reflect.DeepEqual(s.Focus.TagHistory, want) {
		t.Fatalf("expected %v, got %v", want, s.Focus.TagHistory)
	}
}

func TestSoftReloadRoundTrip(t *testing.T) {
	st := &Store{Path: filepath.Join(t.TempDir(), "state.json")}

	m := newManager(t, st)
	m.Handle(wm.ScreenCreate{Screen: screen})
	m.Handle(wm.WindowCreate{Window: models.NewWindow(10, "editor"), X: 10, Y: 10})
	m.Handle(wm.SendCommand{Command: command.MoveToTag{Tag: 2}})
	m.Handle(wm.SendCommand{Command: command.GoToTag{Tag: 3}})
	m.Handle(wm.SendCommand{Command: command.SetLayout{Layout: "monocle"}})
	m.Handle(wm.SendCommand{Command: command.SoftReload{}})

	if _, err := os.Stat(st.Path); err != nil {
		t.Fatalf("expected state file after soft reload: %v", err)
	}

	next := newManager(t, st)
	next.LoadState()
	if _, err := os.Stat(st.Path); !os.IsNotExist(err) {
		t.Fatalf("expected state file removed after load, got %v", err)
	}

	next.Handle(wm.ScreenCreate{Screen: screen})
	next.Handle(wm.WindowCreate{Window: models.NewWindow(10, "editor"), X: 10, Y: 10})

	s := next.State()
	if tag, _ := s.FocusedTag(); tag != 3 {
		t.Fatalf("expected tag 3 focused after restore, got %d", tag)
	}
	if s.Workspaces[0].Tag != 3 || s.Workspaces[0].Layout != "monocle" {
		t.Fatalf("expected workspace restored, got %+v", s.Workspaces[0])
	}
	w, ok := s.Window(10)
	if !ok {
		t.Fatalf("window 10 missing")
	}
	if !reflect.DeepEqual(w.Tags, []models.TagID{2}) {
		t.Fatalf("expected window on tag 2, got %v", w.Tags)
	}
	if w.Visible {
		t.Fatalf("expected window hidden while tag 3 is shown")
	}
}

func TestSoftReloadRoundTrip_RestoresFocusedWindow(t *testing.T) {
	for _, order := range [][]models.WindowHandle{{10, 11}, {11, 10}} {
		st := &Store{Path: filepath.Join(t.TempDir(), "state.json")}

		m := newManager(t, st)
		m.Handle(wm.ScreenCreate{Screen: screen})
		m.Handle(wm.WindowCreate{Window: models.NewWindow(10, "editor"), X: 10, Y: 10})
		m.Handle(wm.WindowCreate{Window: models.NewWindow(11, "shell"), X: 10, Y: 10})
		m.Handle(wm.MouseEnteredWindow{Handle: 10})
		if w, ok := m.State().FocusedWindow(); !ok || w.Handle != 10 {
			t.Fatalf("expected 10 focused before reload")
		}
		m.Handle(wm.SendCommand{Command: command.SoftReload{}})

		next := newManager(t, st)
		next.LoadState()
		next.Handle(wm.ScreenCreate{Screen: screen})
		for _, h := range order {
			next.Handle(wm.WindowCreate{Window: models.NewWindow(h, "w"), X: 10, Y: 10})
		}
		w, ok := next.State().FocusedWindow()
		if !ok || w.Handle != 10 {
			t.Fatalf("order %v: expected 10 focused after reload, got %+v", order, w)
		}
	}
}

func TestSoftReloadRoundTrip_KeepsDismissedScratchPadHidden(t *testing.T) {
	st := &Store{Path: filepath.Join(t.TempDir(), "state.json")}
	cfg := config.DefaultConfig()
	cfg.ScratchPads = []models.ScratchPad{{Name: "term", Value: "xterm"}}
	pad := models.NewWindow(20, "scratch")
	pad.PID = 77

	m := newManagerWith(t, cfg, st, pidSpawner{pid: 77})
	m.Handle(wm.ScreenCreate{Screen: screen})
	m.Handle(wm.SendCommand{Command: command.ToggleScratchPad{Pad: "term"}})
	m.Handle(wm.WindowCreate{Window: pad, X: 10, Y: 10})
	m.Handle(wm.SendCommand{Command: command.ToggleScratchPad{Pad: "term"}})
	if w, _ := m.State().Window(20); w.Visible {
		t.Fatalf("expected scratchpad dismissed before reload")
	}
	m.Handle(wm.SendCommand{Command: command.SoftReload{}})

	next := newManagerWith(t, cfg, st, pidSpawner{pid: 78})
	next.LoadState()
	next.Handle(wm.ScreenCreate{Screen: screen})
	next.Handle(wm.WindowCreate{Window: pad, X: 10, Y: 10})

	s := next.State()
	w, ok := s.Window(20)
	if !ok {
		t.Fatalf("scratchpad window missing")
	}
	nsp, ok := s.Tags.ByLabel(models.ScratchPadTagLabel)
	if !ok || !reflect.DeepEqual(w.Tags, []models.TagID{nsp.ID}) {
		t.Fatalf("expected window on hidden tag, got %v", w.Tags)
	}
	if w.Visible {
		t.Fatalf("expected scratchpad hidden after reload")
	}
	if s.ScratchPadWindows["term"] != 20 {
		t.Fatalf("expected scratchpad membership restored, got %v", s.ScratchPadWindows)
	}

	next.Handle(wm.SendCommand{Command: command.ToggleScratchPad{Pad: "term"}})
	if w, _ := s.Window(20); !w.Visible {
		t.Fatalf("expected summon to show the restored scratchpad")
	}
}
