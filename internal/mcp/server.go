// Package mcp exposes the running window manager to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/ipc"
)

const (
	ServerName    = "tagtile"
	ServerVersion = "0.1.0"
)

// Client is the part of the command pipe the tools use.
type Client interface {
	SendCommand(line string) (*ipc.SendCommandData, error)
	GetState() (*ipc.StateData, error)
}

// Server is the MCP server for tagtile.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Client
}

// NewServer creates an MCP server that forwards to client.
func NewServer(client Client) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_command",
		Description: "Run a window manager command line, e.g. 'GoToTag 2', 'MoveToTag 3', 'NextLayout', 'ToggleFloating' or 'Execute xterm'. Custom commands from the config are accepted by name. Returns whether the layout changed.",
	}, s.handleSendCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_state",
		Description: "Return the tags, workspaces and windows the window manager knows about, with the focused workspace, window and tag history.",
	}, s.handleGetState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "go_to_tag",
		Description: "Show a tag on the focused workspace. The tag may be given by label or by numeric id.",
	}, s.handleGoToTag)
}
