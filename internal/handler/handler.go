// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler turns request lines from the local socket into
// manager calls: parse, session gate, dispatch, error mapping.
package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/manager"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// unknownRequestID tags responses to lines that could not be parsed.
const unknownRequestID = "unknown"

// Handler processes one request line at a time. Safe for concurrent
// use; per-archive serialization lives in the manager.
type Handler struct {
	manager  manager.ArchiveManager
	sessions *SessionTable
	logs     *logger.Logger

	version string
	started time.Time
}

// NewHandler wires the request processing pipeline.
func NewHandler(m manager.ArchiveManager, sessions *SessionTable, cfg config.App, logs *logger.Logger) *Handler {
	return &Handler{
		manager:  m,
		sessions: sessions,
		logs:     logs,
		version:  cfg.Version,
		started:  time.Now(),
	}
}

// Sessions exposes the session table to the sweeper worker.
func (h *Handler) Sessions() *SessionTable {
	return h.sessions
}

// Handle parses one request line and returns the response to write
// back. It never returns an error; every failure becomes an error
// result on the wire.
func (h *Handler) Handle(ctx context.Context, line []byte) models.Response {
	var req models.Request
	if err := json.Unmarshal(line, &req); err != nil {
		h.logs.Warn().Err(err).Msg("malformed request line")
		return models.Response{
			RequestID: unknownRequestID,
			Result:    models.NewError(models.ErrTypeProcessing, "malformed request", err.Error()),
		}
	}
	if req.RequestID == "" {
		req.RequestID = unknownRequestID
	}

	result := h.dispatch(ctx, req)

	h.logs.Debug().
		Str("request_id", req.RequestID).
		Str("op", req.Op).
		Str("status", result.Status).
		Msg("request handled")

	return models.Response{RequestID: req.RequestID, Result: result}
}

// dispatch applies the session gate and routes the request. Ping and
// create_session are session-exempt; unlock, create_archive,
// validate_repository and get_status need a live session; everything
// else additionally needs a session that has unlocked the archive.
func (h *Handler) dispatch(ctx context.Context, req models.Request) models.Result {
	switch req.Op {
	case models.OpPing:
		return h.handlePing(req)
	case models.OpCreateSession:
		session := h.sessions.Create()
		return models.NewSuccess(models.SessionCreatedData{SessionID: session.ID})
	}

	if req.SessionID == "" {
		return errorResult(ErrSessionRequired)
	}
	session, err := h.sessions.Get(req.SessionID)
	if err != nil {
		return errorResult(err)
	}

	switch req.Op {
	case models.OpUnlockArchive, models.OpCreateArchive, models.OpValidateRepository, models.OpGetStatus:
		// Permitted before authentication.
	default:
		if !session.Authenticated {
			return errorResult(ErrNotAuthenticated)
		}
	}

	result := h.handleOp(ctx, session, req)
	if result.OK() {
		h.sessions.Touch(session.ID)
	}
	return result
}

func (h *Handler) handleOp(ctx context.Context, session *Session, req models.Request) models.Result {
	switch req.Op {
	case models.OpUnlockArchive:
		return h.handleUnlock(ctx, session, req)

	case models.OpLockArchive:
		if err := h.manager.Close(ctx); err != nil {
			return errorResult(err)
		}
		h.sessions.SetAuthenticated(session.ID, false)
		return models.NewSuccess(nil)

	case models.OpGetStatus:
		return models.NewSuccess(h.manager.Status(ctx))

	case models.OpCreateArchive:
		var payload models.CreateArchivePayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		if err := h.manager.Create(ctx, payload.ArchivePath, payload.MasterPassword); err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(nil)

	case models.OpValidateRepository:
		var payload models.ValidateRepositoryPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		data, err := h.manager.Inspect(ctx, payload.ArchivePath)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(data)

	case models.OpListCredentials:
		var payload models.ListCredentialsPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		list, err := h.manager.List(ctx, payload.IncludeSensitive)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(models.CredentialListData{Credentials: list, TotalMatches: len(list)})

	case models.OpGetCredential:
		var payload models.CredentialIDPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		record, err := h.manager.Get(ctx, payload.CredentialID)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(models.CredentialData{Credential: record})

	case models.OpCreateCredential:
		var payload models.CreateCredentialPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		record, err := h.manager.Add(ctx, payload.Credential)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(models.CredentialCreatedData{CredentialID: record.ID})

	case models.OpUpdateCredential:
		var payload models.UpdateCredentialPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		record, err := h.manager.Update(ctx, payload.CredentialID, payload.Credential)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(models.CredentialData{Credential: record})

	case models.OpDeleteCredential:
		var payload models.CredentialIDPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		if err := h.manager.Delete(ctx, payload.CredentialID); err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(nil)

	case models.OpSearchCredentials:
		var payload models.SearchPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
		found, err := h.manager.Search(ctx, payload.Query)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(models.CredentialListData{Credentials: found, TotalMatches: len(found)})

	case models.OpSaveArchive:
		if err := h.manager.Save(ctx); err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(nil)

	case models.OpGetArchiveInfo:
		info, err := h.manager.ArchiveInfo(ctx)
		if err != nil {
			return errorResult(err)
		}
		return models.NewSuccess(info)

	default:
		return errorResult(ErrUnknownOp)
	}
}

func (h *Handler) handlePing(req models.Request) models.Result {
	var payload models.PingPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req.Payload, &payload); err != nil {
			return errorResult(err)
		}
	}
	return models.NewSuccess(models.PongData{
		ServerVersion: h.version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

func (h *Handler) handleUnlock(ctx context.Context, session *Session, req models.Request) models.Result {
	var payload models.UnlockPayload
	if err := decodePayload(req.Payload, &payload); err != nil {
		return errorResult(err)
	}

	count, err := h.manager.Open(ctx, payload.ArchivePath, payload.MasterPassword)
	if err != nil {
		return errorResult(err)
	}

	h.sessions.SetAuthenticated(session.ID, true)
	return models.NewSuccess(models.UnlockedData{CredentialCount: count})
}

// decodePayload unmarshals an op payload, treating failures as
// processing errors.
func decodePayload(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return errPayloadRequired
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return malformedPayload(err)
	}
	return nil
}
