package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/vpinfe/vpinfe/internal/metrics"
	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/runtimepath"
	"github.com/vpinfe/vpinfe/internal/shell"
)

// Shell is the part of the window manager the control socket drives.
type Shell interface {
	IsRunning() bool
	Windows() []shell.WindowStatus
	Reload()
	OpenManager() error
	RequestQuit()
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	ManagerURL string
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	shell        Shell
	backend      platform.Backend
	managerURL   string
	metrics      *metrics.Metrics
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(sh Shell, backend platform.Backend, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Remove a stale socket left by a crashed instance
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		shell:      sh,
		backend:    backend,
		managerURL: opts.ManagerURL,
		metrics:    opts.Metrics,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.metrics.IPCCommand(string(req.Command))
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandReload:
		return s.handleReload()
	case CommandOpenManager:
		return s.handleOpenManager()
	case CommandQuit:
		return s.handleQuit()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	windows := s.shell.Windows()
	infos := make([]WindowInfo, len(windows))
	for i, w := range windows {
		infos[i] = WindowInfo{
			Name:    w.Name,
			URL:     w.URL,
			X:       w.Bounds.X,
			Y:       w.Bounds.Y,
			Width:   w.Bounds.Width,
			Height:  w.Bounds.Height,
			Overlay: w.Overlay,
			Primary: w.Primary,
		}
	}

	resp, _ := NewOKResponse(StatusData{
		Running:       s.shell.IsRunning(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		ManagerURL:    s.managerURL,
		Windows:       infos,
	})
	return resp
}

func (s *Server) handleGetDisplays() *Response {
	if s.backend == nil {
		return NewErrorResponse(platform.ErrUnsupported.Error())
	}
	displays, err := s.backend.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
	}

	resp, _ := NewOKResponse(DisplaysData{Displays: DisplayInfos(displays)})
	return resp
}

// DisplayInfos converts displays to their wire form, keeping index order.
func DisplayInfos(displays []platform.Display) []DisplayInfo {
	infos := make([]DisplayInfo, len(displays))
	for i, d := range displays {
		infos[i] = DisplayInfo{
			Index:  i,
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}
	return infos
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: reloading windows")
	s.shell.Reload()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleOpenManager() *Response {
	if err := s.shell.OpenManager(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open manager: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleQuit() *Response {
	s.logger.Info("IPC: quit requested")
	s.shell.RequestQuit()
	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
