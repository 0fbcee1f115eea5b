package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tagtile/internal/runtimepath"
)

// Client handles IPC communication with the running window manager
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the runtime socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tagtile: %w (is it running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("tagtile error: %s", resp.Error)
	}
	return &resp, nil
}

// SendCommand runs a command line such as "GoToTag 2".
func (c *Client) SendCommand(line string) (*SendCommandData, error) {
	payload, err := json.Marshal(SendCommandPayload{Command: line})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandSendCommand, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data SendCommandData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse command result: %w", err)
	}
	return &data, nil
}

// GetState retrieves a summary of tags, workspaces and focus.
func (c *Client) GetState() (*StateData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetState})
	if err != nil {
		return nil, err
	}

	var state StateData
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state data: %w", err)
	}
	return &state, nil
}

// Ping checks if the window manager is responding
func (c *Client) Ping() error {
	_, err := c.GetState()
	return err
}
