// Package relay streams reports over TCP. A Server forwards the reports of
// a local source to every connected client; the "net" report source is the
// client side. With a password, frames are sealed with ChaCha20-Poly1305
// under a per-connection session key.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Alia5/keyview/internal/log"
	"github.com/Alia5/keyview/report"
)

const (
	clientBuffer = 16
	writeTimeout = time.Second
)

// Server fans reports out to relay clients.
type Server struct {
	key    []byte
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	wg      sync.WaitGroup
}

type client struct {
	frames chan report.Report
}

// NewServer creates a relay server. An empty password streams in the clear.
func NewServer(password string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{logger: logger, clients: map[*client]struct{}{}}
	if password != "" {
		key, err := DeriveKey(password)
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	return s, nil
}

// Serve accepts clients on ln and forwards every report read from reports
// until ctx is cancelled or reports is closed. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener, reports <-chan report.Report) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	acceptErr := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		acceptErr <- s.acceptLoop(ctx, ln)
	}()
	defer func() {
		cancel()
		_ = ln.Close()
		s.dropClients()
		s.wg.Wait()
	}()

	s.logger.Info("Relay listening", "addr", ln.Addr().String(), "sealed", s.key != nil)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-acceptErr:
			return err
		case r, ok := <-reports:
			if !ok {
				return nil
			}
			s.broadcast(r)
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		c := &client{frames: make(chan report.Report, clientBuffer)}
		s.mu.Lock()
		s.clients[c] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn, c)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn, c *client) {
	defer conn.Close()
	defer s.remove(c)

	logger := s.logger.With("remote", conn.RemoteAddr().String())
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	nonce, err := writeHello(conn, s.key != nil)
	if err != nil {
		logger.Debug("relay hello failed", "error", err)
		return
	}
	var w net.Conn = conn
	if s.key != nil {
		if w, err = WrapConn(conn, SessionKey(s.key, nonce)); err != nil {
			logger.Error("relay session setup failed", "error", err)
			return
		}
	}
	logger.Info("Relay client connected")

	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-c.frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := w.Write(r.Encode()); err != nil {
				logger.Info("Relay client disconnected", "error", err)
				return
			}
		}
	}
}

// broadcast hands r to every client; a client whose buffer is full misses
// the report.
func (s *Server) broadcast(r report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.frames <- r:
		default:
		}
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.frames)
	}
}

func (s *Server) dropClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.frames)
	}
}
