package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

type Server struct {
	addr    string
	logger  *slog.Logger
	reg     *Registry
	history *History

	listener net.Listener
	cancel   context.CancelFunc
	handlers sync.WaitGroup
}

func NewServer(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		logger:  logger,
		reg:     NewRegistry(logger),
		history: NewHistory(DefaultHistoryCap),
	}
}

// Start binds the listening endpoint and launches the accept loop.
// A bind or listen failure is fatal and returned to the caller.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = ln

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.handlers.Add(1)
	go s.acceptLoop(ctx, ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listen address, useful when the configured
// port was 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop closes the listening endpoint and every live transport, then
// waits for all session handlers to finish their closing path.
func (s *Server) Stop() {
	s.logger.Info("shutting down")

	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	// Closing transports unblocks handlers parked in a read.
	s.reg.CloseAll()
	s.handlers.Wait()

	s.logger.Info("shutdown complete")
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.handlers.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient accept failure; keep serving.
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())

		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.handleSession(ctx, conn)
		}()
	}
}
