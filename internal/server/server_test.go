package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/archive"
	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/handler"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/manager"
	"github.com/MKhiriev/go-vault-keeper/internal/repository"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/internal/workers"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func newTestHandler(t *testing.T) *handler.Handler {
	t.Helper()

	cfg := *config.Defaults()
	cfg.Storage.BackupDir = t.TempDir()
	cfg.Storage.FileLockTimeout = 2 * time.Second

	logs := logger.Nop()
	m := manager.NewArchiveManager(
		archive.NewAESCodec(crypto.NewKeyChainService()),
		repository.NewValidator(logs),
		validators.NewCredentialValidator(),
		store.NewFileRecordStorage(logs),
		cfg,
		logs,
	)
	t.Cleanup(func() { m.Close(context.Background()) })

	return handler.NewHandler(m, handler.NewSessionTable(cfg.Session.Timeout, logs), cfg.App, logs)
}

// startTestServer brings up a listening socket server without the
// signal plumbing of RunServer.
func startTestServer(t *testing.T, maxConnections int) *socketServer {
	t.Helper()

	s := &socketServer{
		cfg: config.Server{
			SocketPath:     filepath.Join(t.TempDir(), "vault.sock"),
			MaxConnections: maxConnections,
		},
		handler: newTestHandler(t),
		workers: workers.NewWorkers(),
		logs:    logger.Nop(),
		done:    make(chan struct{}),
		active:  make(map[net.Conn]struct{}),
	}
	require.NoError(t, s.listen())
	go s.acceptLoop(context.Background())
	t.Cleanup(s.Shutdown)

	return s
}

func dialServer(t *testing.T, s *socketServer) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("unix", s.cfg.SocketPath, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// exchange writes one request line and reads one response line.
func exchange(t *testing.T, conn net.Conn, req models.Request) models.Response {
	t.Helper()

	line, err := json.Marshal(req)
	require.NoError(t, err)
	_, err = conn.Write(append(line, '\n'))
	require.NoError(t, err)

	return readResponse(t, conn)
}

func readResponse(t *testing.T, conn net.Conn) models.Response {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	raw, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var resp models.Response
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

func TestSocketServer_Ping(t *testing.T) {
	s := startTestServer(t, 4)
	conn := dialServer(t, s)

	resp := exchange(t, conn, models.Request{RequestID: "ping-1", Op: models.OpPing})
	require.True(t, resp.Result.OK())
	assert.Equal(t, "ping-1", resp.RequestID)

	var pong models.PongData
	require.NoError(t, json.Unmarshal(resp.Result.Data, &pong))
	assert.NotEmpty(t, pong.ServerVersion)
}

func TestSocketServer_MultipleRequestsPerConnection(t *testing.T) {
	s := startTestServer(t, 4)
	conn := dialServer(t, s)

	for i := 0; i < 3; i++ {
		resp := exchange(t, conn, models.Request{RequestID: "seq", Op: models.OpPing})
		require.True(t, resp.Result.OK())
	}
}

func TestSocketServer_MalformedLine(t *testing.T) {
	s := startTestServer(t, 4)
	conn := dialServer(t, s)

	_, err := conn.Write([]byte("this is not json\n"))
	require.NoError(t, err)

	resp := readResponse(t, conn)
	assert.Equal(t, "unknown", resp.RequestID)
	assert.Equal(t, models.ErrTypeProcessing, resp.Result.ErrorType)
}

func TestSocketServer_ConnectionLimit(t *testing.T) {
	s := startTestServer(t, 1)

	first := dialServer(t, s)
	resp := exchange(t, first, models.Request{RequestID: "held", Op: models.OpPing})
	require.True(t, resp.Result.OK())

	second := dialServer(t, s)
	rejected := readResponse(t, second)
	assert.Equal(t, "unknown", rejected.RequestID)
	assert.Equal(t, models.ErrTypeProcessing, rejected.Result.ErrorType)
	assert.Contains(t, rejected.Result.Message, "capacity")

	// Dropping the held connection frees a slot.
	require.NoError(t, first.Close())
	assert.Eventually(t, func() bool {
		conn, err := net.DialTimeout("unix", s.cfg.SocketPath, time.Second)
		if err != nil {
			return false
		}
		defer conn.Close()
		line, _ := json.Marshal(models.Request{RequestID: "retry", Op: models.OpPing})
		if _, err := conn.Write(append(line, '\n')); err != nil {
			return false
		}
		conn.SetReadDeadline(time.Now().Add(time.Second))
		raw, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return false
		}
		var r models.Response
		return json.Unmarshal(raw, &r) == nil && r.Result.OK()
	}, 2*time.Second, 50*time.Millisecond)
}

func TestSocketServer_SocketPermissions(t *testing.T) {
	s := startTestServer(t, 4)

	info, err := os.Stat(s.cfg.SocketPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestListen_RemovesStaleSocketFile(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "vault.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	s := &socketServer{
		cfg:     config.Server{SocketPath: socketPath, MaxConnections: 1},
		handler: newTestHandler(t),
		workers: workers.NewWorkers(),
		logs:    logger.Nop(),
		done:    make(chan struct{}),
		active:  make(map[net.Conn]struct{}),
	}
	require.NoError(t, s.listen())
	t.Cleanup(s.Shutdown)

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSocket)
}

func TestListen_RefusesLiveSocket(t *testing.T) {
	first := startTestServer(t, 4)

	second := &socketServer{
		cfg:     first.cfg,
		handler: newTestHandler(t),
		workers: workers.NewWorkers(),
		logs:    logger.Nop(),
		done:    make(chan struct{}),
		active:  make(map[net.Conn]struct{}),
	}
	err := second.listen()
	require.ErrorIs(t, err, ErrSocketInUse)
}

func TestShutdown_Idempotent(t *testing.T) {
	s := startTestServer(t, 4)
	s.Shutdown()
	s.Shutdown()
}
