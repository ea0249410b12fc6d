// Package socket implements the watcher's Unix socket control protocol
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
	"github.com/dimasma0305/evilclippy/internal/log"
)

const (
	// maxCommandSize bounds one request; commands are small JSON objects
	maxCommandSize = 64 << 10

	readTimeout = 5 * time.Second
	// an analyze command may wait on the remote model
	writeTimeout = 40 * time.Second
)

// Server accepts control connections on a Unix socket, one JSON command per connection
type Server struct {
	socketPath string
	enabled    bool
	handler    CommandHandler

	mu       sync.RWMutex
	listener net.Listener
	conns    sync.WaitGroup
}

// CommandHandler turns one decoded command into its response
type CommandHandler interface {
	HandleCommand(cmd types.WatcherCommand) types.WatcherResponse
}

// NewServer creates a socket server. A disabled server accepts nothing.
func NewServer(socketPath string, enabled bool, handler CommandHandler) *Server {
	return &Server{
		socketPath: socketPath,
		enabled:    enabled,
		handler:    handler,
	}
}

// Init creates the socket, replacing a stale one left by a crashed daemon
func (s *Server) Init() error {
	if !s.enabled {
		log.Info("Socket server disabled")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0750); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create Unix socket: %w", err)
	}
	// Only the owner may drive the daemon
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Info("Socket server listening on %s", s.socketPath)
	return nil
}

// Close stops accepting, removes the socket file and waits for open connections to finish
func (s *Server) Close() error {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	if listener == nil {
		return nil
	}

	log.Info("Closing socket server")
	err := listener.Close()
	if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
		log.Error("Failed to remove socket file: %v", removeErr)
	}
	s.conns.Wait()
	return err
}

// Run accepts connections until ctx is done or the server is closed
func (s *Server) Run(ctx context.Context) {
	s.mu.RLock()
	listener := s.listener
	s.mu.RUnlock()
	if listener == nil {
		return
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || s.closed() {
				log.DebugH2("Socket server loop stopped")
				return
			}
			log.Error("Failed to accept socket connection: %v", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serve(conn)
		}()
	}
}

func (s *Server) closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener == nil
}

// serve answers the single command sent on conn
func (s *Server) serve(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	encoder := json.NewEncoder(conn)

	var cmd types.WatcherCommand
	if err := json.NewDecoder(io.LimitReader(conn, maxCommandSize)).Decode(&cmd); err != nil {
		_ = encoder.Encode(types.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to decode command: %v", err),
		})
		return
	}

	log.DebugH3("Socket command: %s", cmd.Action)
	response := s.dispatch(cmd)

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := encoder.Encode(response); err != nil {
		log.Error("Failed to send socket response: %v", err)
	}
}

// dispatch runs the handler, turning a panic into an error response
func (s *Server) dispatch(cmd types.WatcherCommand) (response types.WatcherResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Socket command %s panicked: %v", cmd.Action, r)
			response = types.WatcherResponse{Success: false, Error: fmt.Sprintf("internal error handling %s", cmd.Action)}
		}
	}()
	return s.handler.HandleCommand(cmd)
}

// IsEnabled returns whether the socket server is enabled
func (s *Server) IsEnabled() bool {
	return s.enabled
}
