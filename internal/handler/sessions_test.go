package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

func TestSessionTable_CreateGet(t *testing.T) {
	table := NewSessionTable(time.Hour, logger.Nop())

	session := table.Create()
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.Authenticated)

	got, err := table.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	other := table.Create()
	assert.NotEqual(t, session.ID, other.ID)
	assert.Equal(t, 2, table.Len())
}

func TestSessionTable_UnknownSession(t *testing.T) {
	table := NewSessionTable(time.Hour, logger.Nop())

	_, err := table.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionTable_Expiry(t *testing.T) {
	table := NewSessionTable(time.Hour, logger.Nop())
	session := table.Create()

	now := time.Now()
	table.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, err := table.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Expired entries are dropped on access.
	_, err = table.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionTable_TouchKeepsSessionAlive(t *testing.T) {
	table := NewSessionTable(time.Hour, logger.Nop())
	session := table.Create()

	now := time.Now()
	table.now = func() time.Time { return now.Add(50 * time.Minute) }
	table.Touch(session.ID)

	table.now = func() time.Time { return now.Add(100 * time.Minute) }
	_, err := table.Get(session.ID)
	assert.NoError(t, err, "activity 50 minutes ago is inside the one hour window")
}

func TestSessionTable_SetAuthenticated(t *testing.T) {
	table := NewSessionTable(time.Hour, logger.Nop())
	session := table.Create()

	table.SetAuthenticated(session.ID, true)
	got, err := table.Get(session.ID)
	require.NoError(t, err)
	assert.True(t, got.Authenticated)

	table.SetAuthenticated(session.ID, false)
	got, err = table.Get(session.ID)
	require.NoError(t, err)
	assert.False(t, got.Authenticated)
}

func TestSessionTable_Sweep(t *testing.T) {
	table := NewSessionTable(time.Hour, logger.Nop())
	stale := table.Create()
	table.Create()

	now := time.Now()
	table.now = func() time.Time { return now.Add(30 * time.Minute) }
	fresh := table.Create()

	table.now = func() time.Time { return now.Add(70 * time.Minute) }
	removed := table.Sweep()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, table.Len())

	_, err := table.Get(fresh.ID)
	assert.NoError(t, err)
	_, err = table.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
