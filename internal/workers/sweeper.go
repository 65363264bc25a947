// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/handler"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

// SessionSweeper periodically removes sessions idle past the timeout,
// independent of request traffic.
type SessionSweeper struct {
	table    *handler.SessionTable
	interval time.Duration
	logs     *logger.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionSweeper builds a sweeper over the given session table.
func NewSessionSweeper(table *handler.SessionTable, interval time.Duration, logs *logger.Logger) *SessionSweeper {
	return &SessionSweeper{
		table:    table,
		interval: interval,
		logs:     logs,
		stop:     make(chan struct{}),
	}
}

// Run implements [Worker]. It spawns the sweep loop and returns.
func (s *SessionSweeper) Run() {
	go s.loop()
	s.logs.Info().Dur("interval", s.interval).Msg("session sweeper started")
}

// Stop implements [Stopper].
func (s *SessionSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionSweeper) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.table.Sweep(); removed > 0 {
				s.logs.Info().Int("removed", removed).Msg("swept expired sessions")
			}
		case <-s.stop:
			s.logs.Info().Msg("session sweeper stopped")
			return
		}
	}
}
