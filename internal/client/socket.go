// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
	"github.com/MKhiriev/go-vault-keeper/models"
)

type socketClient struct {
	cfg    config.ClientConfig
	conn   net.Conn
	reader *bufio.Reader
	uuid   *utils.UUIDGenerator
	logs   *logger.Logger

	// mu serialises request/response exchanges on the single
	// connection and guards sessionID.
	mu        sync.Mutex
	sessionID string
}

// NewSocketClient dials the daemon's Unix socket and returns a
// connected [VaultClient].
func NewSocketClient(cfg config.ClientConfig, logs *logger.Logger) (VaultClient, error) {
	conn, err := net.DialTimeout("unix", cfg.SocketPath, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial daemon socket %s: %w", cfg.SocketPath, err)
	}

	return &socketClient{
		cfg:    cfg,
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 64<<10),
		uuid:   utils.NewUUIDGenerator(),
		logs:   logs,
	}, nil
}

func (c *socketClient) SetSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

func (c *socketClient) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *socketClient) Close() error {
	return c.conn.Close()
}

// call performs one request/response exchange. When out is non-nil the
// success payload is decoded into it.
func (c *socketClient) call(ctx context.Context, op string, payload, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := models.Request{
		RequestID: c.uuid.Generate(),
		SessionID: c.sessionID,
		Op:        op,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", op, err)
		}
		req.Payload = raw
	}

	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	c.logs.Debug().Str("op", op).Str("request_id", req.RequestID).Msg("sending request")

	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err = c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set %s deadline: %w", op, err)
	}

	if _, err = c.conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("send %s request: %w", op, err)
	}

	rawResp, err := c.reader.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	var resp models.Response
	if err = json.Unmarshal(rawResp, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if resp.RequestID != req.RequestID && resp.RequestID != "unknown" {
		return fmt.Errorf("%s response correlation mismatch: sent %s, got %s", op, req.RequestID, resp.RequestID)
	}

	if !resp.Result.OK() {
		return mapWireError(resp.Result)
	}

	if out != nil && len(resp.Result.Data) > 0 {
		if err = json.Unmarshal(resp.Result.Data, out); err != nil {
			return fmt.Errorf("decode %s result: %w", op, err)
		}
	}
	return nil
}

func (c *socketClient) Ping(ctx context.Context) (models.PongData, error) {
	var pong models.PongData
	err := c.call(ctx, models.OpPing, models.PingPayload{ClientInfo: "go-vault-keeper-cli"}, &pong)
	return pong, err
}

func (c *socketClient) CreateSession(ctx context.Context) (string, error) {
	var data models.SessionCreatedData
	if err := c.call(ctx, models.OpCreateSession, nil, &data); err != nil {
		return "", err
	}
	c.SetSession(data.SessionID)
	return data.SessionID, nil
}

func (c *socketClient) Unlock(ctx context.Context, archivePath, masterPassword string) (int, error) {
	var data models.UnlockedData
	err := c.call(ctx, models.OpUnlockArchive, models.UnlockPayload{
		ArchivePath:    archivePath,
		MasterPassword: masterPassword,
	}, &data)
	return data.CredentialCount, err
}

func (c *socketClient) Lock(ctx context.Context) error {
	return c.call(ctx, models.OpLockArchive, nil, nil)
}

func (c *socketClient) Status(ctx context.Context) (models.StatusData, error) {
	var data models.StatusData
	err := c.call(ctx, models.OpGetStatus, nil, &data)
	return data, err
}

func (c *socketClient) CreateArchive(ctx context.Context, archivePath, masterPassword string) error {
	return c.call(ctx, models.OpCreateArchive, models.CreateArchivePayload{
		ArchivePath:    archivePath,
		MasterPassword: masterPassword,
	}, nil)
}

func (c *socketClient) ValidateRepository(ctx context.Context, archivePath string) (models.RepositoryValidatedData, error) {
	var data models.RepositoryValidatedData
	err := c.call(ctx, models.OpValidateRepository, models.ValidateRepositoryPayload{ArchivePath: archivePath}, &data)
	return data, err
}

func (c *socketClient) List(ctx context.Context, includeSensitive bool) (models.CredentialListData, error) {
	var data models.CredentialListData
	err := c.call(ctx, models.OpListCredentials, models.ListCredentialsPayload{IncludeSensitive: includeSensitive}, &data)
	return data, err
}

func (c *socketClient) Get(ctx context.Context, credentialID string) (models.CredentialRecord, error) {
	var data models.CredentialData
	err := c.call(ctx, models.OpGetCredential, models.CredentialIDPayload{CredentialID: credentialID}, &data)
	return data.Credential, err
}

func (c *socketClient) Create(ctx context.Context, credential models.CredentialRecord) (string, error) {
	var data models.CredentialCreatedData
	err := c.call(ctx, models.OpCreateCredential, models.CreateCredentialPayload{Credential: credential}, &data)
	return data.CredentialID, err
}

func (c *socketClient) Update(ctx context.Context, credentialID string, credential models.CredentialRecord) error {
	return c.call(ctx, models.OpUpdateCredential, models.UpdateCredentialPayload{
		CredentialID: credentialID,
		Credential:   credential,
	}, nil)
}

func (c *socketClient) Delete(ctx context.Context, credentialID string) error {
	return c.call(ctx, models.OpDeleteCredential, models.CredentialIDPayload{CredentialID: credentialID}, nil)
}

func (c *socketClient) Search(ctx context.Context, query string) (models.CredentialListData, error) {
	var data models.CredentialListData
	err := c.call(ctx, models.OpSearchCredentials, models.SearchPayload{Query: query}, &data)
	return data, err
}

func (c *socketClient) Save(ctx context.Context) error {
	return c.call(ctx, models.OpSaveArchive, nil, nil)
}

func (c *socketClient) ArchiveInfo(ctx context.Context) (models.ArchiveInfoData, error) {
	var data models.ArchiveInfoData
	err := c.call(ctx, models.OpGetArchiveInfo, nil, &data)
	return data, err
}
