package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandSendCommand CommandType = "SEND_COMMAND"
	CommandGetState    CommandType = "GET_STATE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SendCommandPayload carries one command line, e.g. "GoToTag 2".
type SendCommandPayload struct {
	Command string `json:"command"`
}

// SendCommandData reports whether the command changed the layout.
type SendCommandData struct {
	Outcome string `json:"outcome"`
}

type TagInfo struct {
	ID    models.TagID `json:"id"`
	Label string       `json:"label"`
	// Workspace shows the tag, or is -1.
	Workspace int `json:"workspace"`
}

type WorkspaceInfo struct {
	ID     int          `json:"id"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Tag    models.TagID `json:"tag"`
	Layout string       `json:"layout"`
}

type WindowInfo struct {
	Handle   models.WindowHandle `json:"handle"`
	Name     string              `json:"name,omitempty"`
	Tags     []models.TagID      `json:"tags"`
	Floating bool                `json:"floating"`
	Visible  bool                `json:"visible"`
}

// StateData represents the data returned by GET_STATE
type StateData struct {
	Tags             []TagInfo           `json:"tags"`
	Workspaces       []WorkspaceInfo     `json:"workspaces"`
	Windows          []WindowInfo        `json:"windows"`
	FocusedWorkspace int                 `json:"focused_workspace"`
	FocusedWindow    models.WindowHandle `json:"focused_window,omitempty"`
	FocusedTag       models.TagID        `json:"focused_tag,omitempty"`
	TagHistory       []models.TagID      `json:"tag_history"`
	Mode             string              `json:"mode"`
	UptimeSeconds    int64               `json:"uptime_seconds"`
}

// NewStateData summarises s. FocusedWorkspace is -1 when nothing is focused.
func NewStateData(s *wm.State, started time.Time) StateData {
	data := StateData{
		Tags:             make([]TagInfo, 0, s.Tags.LenNormal()),
		Workspaces:       make([]WorkspaceInfo, 0, len(s.Workspaces)),
		Windows:          make([]WindowInfo, 0, len(s.Windows)),
		FocusedWorkspace: -1,
		TagHistory:       append([]models.TagID{}, s.Focus.TagHistory...),
		Mode:             s.Mode.String(),
	}
	if !started.IsZero() {
		data.UptimeSeconds = int64(time.Since(started).Seconds())
	}

	shownOn := make(map[models.TagID]int, len(s.Workspaces))
	for _, ws := range s.Workspaces {
		shownOn[ws.Tag] = ws.ID
		data.Workspaces = append(data.Workspaces, WorkspaceInfo{
			ID:     ws.ID,
			X:      ws.Bounds.X,
			Y:      ws.Bounds.Y,
			Width:  ws.Bounds.Width,
			Height: ws.Bounds.Height,
			Tag:    ws.Tag,
			Layout: ws.Layout,
		})
	}
	for _, tag := range s.Tags.Normal() {
		info := TagInfo{ID: tag.ID, Label: tag.Label, Workspace: -1}
		if id, ok := shownOn[tag.ID]; ok {
			info.Workspace = id
		}
		data.Tags = append(data.Tags, info)
	}
	for _, w := range s.Windows {
		data.Windows = append(data.Windows, WindowInfo{
			Handle:   w.Handle,
			Name:     w.Name,
			Tags:     append([]models.TagID{}, w.Tags...),
			Floating: w.IsFloating(),
			Visible:  w.Visible,
		})
	}

	if i, ok := s.FocusedWorkspace(); ok {
		data.FocusedWorkspace = i
	}
	if w, ok := s.FocusedWindow(); ok {
		data.FocusedWindow = w.Handle
	}
	if tag, ok := s.FocusedTag(); ok {
		data.FocusedTag = tag
	}
	return data
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
