package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/handler"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

func TestSessionSweeper_RemovesIdleSessions(t *testing.T) {
	table := handler.NewSessionTable(50*time.Millisecond, logger.Nop())
	table.Create()
	table.Create()
	require.Equal(t, 2, table.Len())

	sweeper := NewSessionSweeper(table, 20*time.Millisecond, logger.Nop())
	sweeper.Run()
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		return table.Len() == 0
	}, 2*time.Second, 10*time.Millisecond, "idle sessions must be swept")
}

func TestSessionSweeper_StopIsIdempotent(t *testing.T) {
	table := handler.NewSessionTable(time.Hour, logger.Nop())
	sweeper := NewSessionSweeper(table, time.Minute, logger.Nop())

	sweeper.Run()
	sweeper.Stop()
	sweeper.Stop()
}
