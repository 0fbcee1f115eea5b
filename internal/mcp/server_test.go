package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/ipc"
)

type fakeClient struct {
	state ipc.StateData
	sent  []string
	err   error
}

func (f *fakeClient) SendCommand(line string) (*ipc.SendCommandData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, line)
	return &ipc.SendCommandData{Outcome: "needs-relayout"}, nil
}

func (f *fakeClient) GetState() (*ipc.StateData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.state, nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{state: ipc.StateData{
		Tags: []ipc.TagInfo{
			{ID: 1, Label: "web", Workspace: 0},
			{ID: 2, Label: "code", Workspace: -1},
			{ID: 3, Label: "7", Workspace: -1},
		},
		FocusedWorkspace: 0,
		FocusedTag:       1,
		Mode:             "normal",
	}}
}

func TestHandleSendCommand(t *testing.T) {
	client := newFakeClient()
	s := NewServer(client)

	_, out, err := s.handleSendCommand(context.Background(), nil, SendCommandInput{Command: "  NextLayout "})
	if err != nil {
		t.Fatalf("send_command: %v", err)
	}
	if out.Command != "NextLayout" || out.Outcome != "needs-relayout" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(client.sent) != 1 || client.sent[0] != "NextLayout" {
		t.Fatalf("sent = %v", client.sent)
	}
}

func TestHandleSendCommandRejectsLocally(t *testing.T) {
	tests := []string{"", "   ", "GoToTag", "MoveToTag x", "NextLayout now"}
	for _, line := range tests {
		client := newFakeClient()
		s := NewServer(client)
		if _, _, err := s.handleSendCommand(context.Background(), nil, SendCommandInput{Command: line}); err == nil {
			t.Fatalf("expected error for %q", line)
		}
		if len(client.sent) != 0 {
			t.Fatalf("%q reached the pipe", line)
		}
	}
}

func TestHandleGetState(t *testing.T) {
	s := NewServer(newFakeClient())
	_, out, err := s.handleGetState(context.Background(), nil, GetStateInput{})
	if err != nil {
		t.Fatalf("get_state: %v", err)
	}
	if len(out.State.Tags) != 3 || out.State.FocusedTag != 1 {
		t.Fatalf("unexpected state: %+v", out.State)
	}
}

func TestHandleGoToTag(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		swap     bool
		wantLine string
		wantTag  int
	}{
		{"by label", "code", false, "GoToTag 2 false", 2},
		{"by id", "2", true, "GoToTag 2 true", 2},
		{"label beats id", "7", false, "GoToTag 3 false", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			s := NewServer(client)
			_, out, err := s.handleGoToTag(context.Background(), nil, GoToTagInput{Tag: tt.ref, Swap: tt.swap})
			if err != nil {
				t.Fatalf("go_to_tag: %v", err)
			}
			if out.Tag != tt.wantTag {
				t.Fatalf("tag = %d, want %d", out.Tag, tt.wantTag)
			}
			if len(client.sent) != 1 || client.sent[0] != tt.wantLine {
				t.Fatalf("sent = %v, want %q", client.sent, tt.wantLine)
			}
		})
	}
}

func TestHandleGoToTagUnknown(t *testing.T) {
	s := NewServer(newFakeClient())
	_, _, err := s.handleGoToTag(context.Background(), nil, GoToTagInput{Tag: "music"})
	if err == nil || !strings.Contains(err.Error(), "unknown tag") {
		t.Fatalf("expected unknown tag error, got %v", err)
	}
}

func TestHandlersPropagateClientErrors(t *testing.T) {
	client := newFakeClient()
	client.err = errors.New("daemon not running")
	s := NewServer(client)

	if _, _, err := s.handleSendCommand(context.Background(), nil, SendCommandInput{Command: "NextLayout"}); !errors.Is(err, client.err) {
		t.Fatalf("send_command error = %v", err)
	}
	if _, _, err := s.handleGetState(context.Background(), nil, GetStateInput{}); !errors.Is(err, client.err) {
		t.Fatalf("get_state error = %v", err)
	}
}
