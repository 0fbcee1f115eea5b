package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/runtimepath"
)

// replyTimeout bounds how long a connection waits for the event loop.
const replyTimeout = 5 * time.Second

// Call is a request waiting for the event loop to answer it.
type Call struct {
	Request *Request
	// Command is the parsed command of a SEND_COMMAND request.
	Command command.Command
	reply   chan *Response
}

// NewCall creates a call for req. cmd is the parsed command of a
// SEND_COMMAND request and nil otherwise.
func NewCall(req *Request, cmd command.Command) *Call {
	return &Call{Request: req, Command: cmd, reply: make(chan *Response, 1)}
}

// Response delivers the reply once the event loop has answered.
func (c *Call) Response() <-chan *Response {
	return c.reply
}

// Reply answers the call. Only the first reply is delivered.
func (c *Call) Reply(resp *Response) {
	select {
	case c.reply <- resp:
	default:
	}
}

// Server accepts IPC connections and hands each request to the event loop.
type Server struct {
	socketPath   string
	listener     net.Listener
	calls        chan *Call
	done         chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the runtime socket.
func NewServer() (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string) *Server {
	return &Server{
		socketPath: socketPath,
		calls:      make(chan *Call),
		done:       make(chan struct{}),
	}
}

// Calls delivers requests in arrival order. The receiver must Reply.
func (s *Server) Calls() <-chan *Call {
	return s.calls
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}
	s.send(conn, s.handleRequest(req))
}

func (s *Server) handleRequest(req *Request) *Response {
	var cmd command.Command
	switch req.Command {
	case CommandSendCommand:
		var payload SendCommandPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid command payload: %v", err))
		}
		parsed, err := command.Parse(payload.Command)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid command: %v", err))
		}
		cmd = parsed
	case CommandGetState:
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	call := NewCall(req, cmd)
	timer := time.NewTimer(replyTimeout)
	defer timer.Stop()

	select {
	case s.calls <- call:
	case <-s.done:
		return NewErrorResponse("server shutting down")
	case <-timer.C:
		return NewErrorResponse("event loop busy")
	}

	select {
	case resp := <-call.Response():
		return resp
	case <-s.done:
		return NewErrorResponse("server shutting down")
	case <-timer.C:
		return NewErrorResponse("timed out waiting for event loop")
	}
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	close(s.done)
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
