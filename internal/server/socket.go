// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/handler"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/workers"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// maxLineBytes bounds a single request line. Field values may carry up
// to 1 MiB of text, which JSON escaping can inflate severalfold.
const maxLineBytes = 8 << 20

const staleSocketDialTimeout = 250 * time.Millisecond

type socketServer struct {
	cfg     config.Server
	handler *handler.Handler
	workers *workers.Workers
	logs    *logger.Logger

	listener net.Listener
	conns    atomic.Int64
	closing  atomic.Bool
	wg       sync.WaitGroup
	done     chan struct{}

	activeMu sync.Mutex
	active   map[net.Conn]struct{}
}

// NewSocketServer creates a Unix domain socket server that feeds each
// request line to the given handler.
func NewSocketServer(cfg config.Server, h *handler.Handler, w *workers.Workers, logs *logger.Logger) Server {
	return &socketServer{
		cfg:     cfg,
		handler: h,
		workers: w,
		logs:    logs,
		done:    make(chan struct{}),
		active:  make(map[net.Conn]struct{}),
	}
}

func (s *socketServer) RunServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := s.listen(); err != nil {
		s.logs.Error().Err(err).Str("socket", s.cfg.SocketPath).Msg("cannot start socket listener")
		return
	}
	s.logs.Info().Str("socket", s.cfg.SocketPath).Msg("listening on unix socket")

	s.workers.Run()

	go func() {
		select {
		case <-ctx.Done():
			s.logs.Info().Msg("shutdown signal received")
			s.Shutdown()
		case <-s.done:
		}
	}()

	go s.acceptLoop(ctx)

	<-s.done
	s.logs.Info().Msg("server Shutdown gracefully")
}

func (s *socketServer) Shutdown() {
	if s.closing.Swap(true) {
		return
	}
	defer close(s.done)
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logs.Warn().Err(err).Msg("listener close failed")
		}
	}

	// Idle clients hold their connections open between requests. Close
	// them so the drain below cannot block on a quiet reader.
	s.activeMu.Lock()
	for conn := range s.active {
		conn.Close()
	}
	s.activeMu.Unlock()

	s.wg.Wait()
	s.workers.Stop()
	if err := os.Remove(s.cfg.SocketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logs.Warn().Err(err).Msg("socket file removal failed")
	}
}

// listen binds the Unix socket. A leftover socket file from a crashed
// run is removed, but only after probing that nothing answers on it.
func (s *socketServer) listen() error {
	if err := os.MkdirAll(filepath.Dir(s.cfg.SocketPath), 0o700); err != nil {
		return err
	}

	if _, err := os.Stat(s.cfg.SocketPath); err == nil {
		probe, dialErr := net.DialTimeout("unix", s.cfg.SocketPath, staleSocketDialTimeout)
		if dialErr == nil {
			probe.Close()
			return ErrSocketInUse
		}
		if err := os.Remove(s.cfg.SocketPath); err != nil {
			return err
		}
	}

	listener, err := net.Listen("unix", s.cfg.SocketPath)
	if err != nil {
		return err
	}
	// The socket carries master passwords; keep it owner-only.
	if err := os.Chmod(s.cfg.SocketPath, 0o600); err != nil {
		listener.Close()
		return err
	}

	s.listener = listener
	return nil
}

func (s *socketServer) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.closing.Load() {
				s.logs.Error().Err(err).Msg("accept failed")
			}
			return
		}

		if s.conns.Add(1) > int64(s.cfg.MaxConnections) {
			s.conns.Add(-1)
			s.rejectConnection(conn)
			continue
		}

		s.activeMu.Lock()
		s.active[conn] = struct{}{}
		s.activeMu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.conns.Add(-1)
			defer func() {
				s.activeMu.Lock()
				delete(s.active, conn)
				s.activeMu.Unlock()
			}()
			s.serveConnection(ctx, conn)
		}()
	}
}

// rejectConnection tells an over-limit client why it is being dropped
// instead of silently closing the socket.
func (s *socketServer) rejectConnection(conn net.Conn) {
	defer conn.Close()
	s.logs.Warn().Int("max_connections", s.cfg.MaxConnections).Msg("connection limit reached, rejecting client")

	response := models.Response{
		RequestID: "unknown",
		Result:    models.NewError(models.ErrTypeProcessing, "server is at capacity", "connection limit reached, retry later"),
	}
	s.writeResponse(conn, response)
}

func (s *socketServer) serveConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := s.handler.Handle(ctx, line)
		if !s.writeResponse(conn, response) {
			return
		}
	}

	if err := scanner.Err(); err != nil && !s.closing.Load() {
		s.logs.Warn().Err(err).Msg("connection read failed")
	}
}

func (s *socketServer) writeResponse(conn net.Conn, response models.Response) bool {
	encoded, err := json.Marshal(response)
	if err != nil {
		s.logs.Error().Err(err).Msg("response encoding failed")
		return false
	}

	if _, err := conn.Write(append(encoded, '\n')); err != nil {
		if !s.closing.Load() {
			s.logs.Warn().Err(err).Msg("response write failed")
		}
		return false
	}
	return true
}
