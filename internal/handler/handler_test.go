package handler

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/archive"
	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/manager"
	"github.com/MKhiriev/go-vault-keeper/internal/repository"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const testPassword = "Sup3r-Secret-Passphrase!"

func newTestHandler(t *testing.T) *Handler {
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

	return NewHandler(m, NewSessionTable(cfg.Session.Timeout, logs), cfg.App, logs)
}

// send marshals and handles one request, returning the response.
func send(t *testing.T, h *Handler, req models.Request) models.Response {
	t.Helper()
	line, err := json.Marshal(req)
	require.NoError(t, err)
	return h.Handle(context.Background(), line)
}

func sendOp(t *testing.T, h *Handler, sessionID, op string, payload any) models.Response {
	t.Helper()
	req := models.Request{RequestID: "req-1", SessionID: sessionID, Op: op}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		req.Payload = raw
	}
	return send(t, h, req)
}

// createSession runs create_session and returns the new session id.
func createSession(t *testing.T, h *Handler) string {
	t.Helper()
	resp := sendOp(t, h, "", models.OpCreateSession, nil)
	require.True(t, resp.Result.OK())

	var data models.SessionCreatedData
	require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
	require.NotEmpty(t, data.SessionID)
	return data.SessionID
}

// unlockedSession creates an archive, a session, and unlocks.
func unlockedSession(t *testing.T, h *Handler) (sessionID, archivePath string) {
	t.Helper()
	archivePath = filepath.Join(t.TempDir(), "repo.gvk")
	sessionID = createSession(t, h)

	resp := sendOp(t, h, sessionID, models.OpCreateArchive,
		models.CreateArchivePayload{ArchivePath: archivePath, MasterPassword: testPassword})
	require.True(t, resp.Result.OK(), "create_archive failed: %s", resp.Result.Details)

	resp = sendOp(t, h, sessionID, models.OpUnlockArchive,
		models.UnlockPayload{ArchivePath: archivePath, MasterPassword: testPassword})
	require.True(t, resp.Result.OK(), "unlock_archive failed: %s", resp.Result.Details)
	return sessionID, archivePath
}

func TestHandler_MalformedRequest(t *testing.T) {
	h := newTestHandler(t)

	resp := h.Handle(context.Background(), []byte("this is not json"))
	assert.Equal(t, "unknown", resp.RequestID)
	assert.Equal(t, models.StatusError, resp.Result.Status)
	assert.Equal(t, models.ErrTypeProcessing, resp.Result.ErrorType)
}

func TestHandler_Ping(t *testing.T) {
	h := newTestHandler(t)

	resp := sendOp(t, h, "", models.OpPing, models.PingPayload{ClientInfo: "tests"})
	require.True(t, resp.Result.OK())
	assert.Equal(t, "req-1", resp.RequestID)

	var data models.PongData
	require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
	assert.NotEmpty(t, data.ServerVersion)
}

func TestHandler_SessionGate(t *testing.T) {
	h := newTestHandler(t)

	t.Run("missing session id", func(t *testing.T) {
		resp := sendOp(t, h, "", models.OpGetStatus, nil)
		assert.Equal(t, models.ErrTypeSessionRequired, resp.Result.ErrorType)
	})

	t.Run("unknown session id", func(t *testing.T) {
		resp := sendOp(t, h, "ghost-session", models.OpGetStatus, nil)
		assert.Equal(t, models.ErrTypeSessionNotFound, resp.Result.ErrorType)
	})

	t.Run("expired session", func(t *testing.T) {
		sessionID := createSession(t, h)
		now := time.Now()
		h.sessions.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { h.sessions.now = time.Now }()

		resp := sendOp(t, h, sessionID, models.OpGetStatus, nil)
		assert.Equal(t, models.ErrTypeSessionExpired, resp.Result.ErrorType)
	})

	t.Run("unauthenticated session cannot touch credentials", func(t *testing.T) {
		sessionID := createSession(t, h)
		resp := sendOp(t, h, sessionID, models.OpListCredentials, models.ListCredentialsPayload{})
		assert.Equal(t, models.ErrTypeNotAuthenticated, resp.Result.ErrorType)
	})

	t.Run("status allowed before unlock", func(t *testing.T) {
		sessionID := createSession(t, h)
		resp := sendOp(t, h, sessionID, models.OpGetStatus, nil)
		require.True(t, resp.Result.OK())

		var data models.StatusData
		require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
		assert.True(t, data.IsLocked)
	})
}

func TestHandler_UnlockFlow(t *testing.T) {
	h := newTestHandler(t)
	archivePath := filepath.Join(t.TempDir(), "repo.gvk")
	sessionID := createSession(t, h)

	resp := sendOp(t, h, sessionID, models.OpCreateArchive,
		models.CreateArchivePayload{ArchivePath: archivePath, MasterPassword: testPassword})
	require.True(t, resp.Result.OK())

	t.Run("wrong password is a crypto error", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpUnlockArchive,
			models.UnlockPayload{ArchivePath: archivePath, MasterPassword: "Wrong-Passphrase-Here!"})
		assert.Equal(t, models.ErrTypeCryptoError, resp.Result.ErrorType)
	})

	t.Run("unlock authenticates the session", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpUnlockArchive,
			models.UnlockPayload{ArchivePath: archivePath, MasterPassword: testPassword})
		require.True(t, resp.Result.OK())

		var data models.UnlockedData
		require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
		assert.Zero(t, data.CredentialCount)

		listResp := sendOp(t, h, sessionID, models.OpListCredentials, models.ListCredentialsPayload{})
		assert.True(t, listResp.Result.OK())
	})

	t.Run("lock closes and de-authenticates", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpLockArchive, nil)
		require.True(t, resp.Result.OK())

		listResp := sendOp(t, h, sessionID, models.OpListCredentials, models.ListCredentialsPayload{})
		assert.Equal(t, models.ErrTypeNotAuthenticated, listResp.Result.ErrorType)
	})
}

func TestHandler_CredentialOps(t *testing.T) {
	h := newTestHandler(t)
	sessionID, _ := unlockedSession(t, h)

	record := models.NewCredentialRecord("Example", "login")
	record.SetField("username", models.UsernameField("alice"))

	resp := sendOp(t, h, sessionID, models.OpCreateCredential, models.CreateCredentialPayload{Credential: record})
	require.True(t, resp.Result.OK(), "create_credential failed: %s", resp.Result.Details)

	var created models.CredentialCreatedData
	require.NoError(t, json.Unmarshal(resp.Result.Data, &created))
	require.NotEmpty(t, created.CredentialID)

	t.Run("get", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpGetCredential,
			models.CredentialIDPayload{CredentialID: created.CredentialID})
		require.True(t, resp.Result.OK())

		var data models.CredentialData
		require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
		assert.Equal(t, "Example", data.Credential.Title)
		assert.Equal(t, "alice", data.Credential.Fields["username"].Value)
	})

	t.Run("get missing", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpGetCredential,
			models.CredentialIDPayload{CredentialID: "ghost"})
		assert.Equal(t, models.ErrTypeNotFound, resp.Result.ErrorType)
	})

	t.Run("update", func(t *testing.T) {
		changed := record
		changed.Title = "Example Renamed"
		resp := sendOp(t, h, sessionID, models.OpUpdateCredential,
			models.UpdateCredentialPayload{CredentialID: created.CredentialID, Credential: changed})
		require.True(t, resp.Result.OK())

		var data models.CredentialData
		require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
		assert.Equal(t, "Example Renamed", data.Credential.Title)
	})

	t.Run("invalid record is a validation failure", func(t *testing.T) {
		bad := models.NewCredentialRecord("", "login")
		resp := sendOp(t, h, sessionID, models.OpCreateCredential, models.CreateCredentialPayload{Credential: bad})
		assert.Equal(t, models.ErrTypeValidationFailed, resp.Result.ErrorType)
	})

	t.Run("search", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpSearchCredentials, models.SearchPayload{Query: "renamed"})
		require.True(t, resp.Result.OK())

		var data models.CredentialListData
		require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
		assert.Equal(t, 1, data.TotalMatches)
	})

	t.Run("search with empty query", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpSearchCredentials, models.SearchPayload{Query: "  "})
		assert.Equal(t, models.ErrTypeValidationFailed, resp.Result.ErrorType)
	})

	t.Run("save and info", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpSaveArchive, nil)
		require.True(t, resp.Result.OK())

		resp = sendOp(t, h, sessionID, models.OpGetArchiveInfo, nil)
		require.True(t, resp.Result.OK())

		var info models.ArchiveInfoData
		require.NoError(t, json.Unmarshal(resp.Result.Data, &info))
		assert.Equal(t, 1, info.CredentialCount)
	})

	t.Run("delete", func(t *testing.T) {
		resp := sendOp(t, h, sessionID, models.OpDeleteCredential,
			models.CredentialIDPayload{CredentialID: created.CredentialID})
		require.True(t, resp.Result.OK())

		resp = sendOp(t, h, sessionID, models.OpGetCredential,
			models.CredentialIDPayload{CredentialID: created.CredentialID})
		assert.Equal(t, models.ErrTypeNotFound, resp.Result.ErrorType)
	})
}

func TestHandler_ValidateRepository(t *testing.T) {
	h := newTestHandler(t)
	sessionID, archivePath := unlockedSession(t, h)

	resp := sendOp(t, h, sessionID, models.OpValidateRepository,
		models.ValidateRepositoryPayload{ArchivePath: archivePath})
	require.True(t, resp.Result.OK())

	var data models.RepositoryValidatedData
	require.NoError(t, json.Unmarshal(resp.Result.Data, &data))
	assert.True(t, data.IsValidFormat)
	assert.Equal(t, "repo", data.DisplayName)
}

func TestHandler_UnknownOp(t *testing.T) {
	h := newTestHandler(t)
	sessionID, _ := unlockedSession(t, h)

	resp := sendOp(t, h, sessionID, "self_destruct", nil)
	assert.Equal(t, models.ErrTypeProcessing, resp.Result.ErrorType)
}

func TestHandler_MissingPayload(t *testing.T) {
	h := newTestHandler(t)
	sessionID := createSession(t, h)

	resp := sendOp(t, h, sessionID, models.OpUnlockArchive, nil)
	assert.Equal(t, models.ErrTypeProcessing, resp.Result.ErrorType)
}
