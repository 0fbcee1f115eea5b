package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/models"
)

func TestPrintStateMarksFocus(t *testing.T) {
	state := &ipc.StateData{
		Workspaces: []ipc.WorkspaceInfo{
			{ID: 0, Width: 1920, Height: 1080, Tag: 1, Layout: "main-and-stack"},
			{ID: 1, X: 1920, Width: 1280, Height: 1024, Tag: 2, Layout: "monocle"},
		},
		Windows: []ipc.WindowInfo{
			{Handle: 10, Name: "xterm", Tags: []models.TagID{1}, Visible: true},
			{Handle: 11, Name: "firefox", Tags: []models.TagID{2}, Visible: true},
		},
		FocusedWorkspace: 1,
		FocusedWindow:    11,
		FocusedTag:       2,
		TagHistory:       []models.TagID{2, 1},
		Mode:             "normal",
	}

	var buf bytes.Buffer
	printState(&buf, state)
	out := buf.String()

	for _, want := range []string{"mode:           normal", "*1", "1920x1080+0+0", "1280x1024+1920+0", "*11", " 10", "firefox"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "*0") || strings.Contains(out, "*10") {
		t.Fatalf("unfocused entries marked:\n%s", out)
	}
}
