// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui implements an interactive terminal browser for an archive,
// built on Bubble Tea. It drives the daemon through a [client.VaultClient]:
// an unlock screen, a credential list and a detail view with clipboard
// copy for sensitive values.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-vault-keeper/internal/client"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

var ErrUserQuit = errors.New("quit by user")

type TUI struct {
	vault client.VaultClient
}

func New(vault client.VaultClient, _ *logger.Logger) (*TUI, error) {
	return &TUI{vault: vault}, nil
}

// Run blocks in the alternate screen until the user quits.
func (t *TUI) Run(ctx context.Context, archivePath string) error {
	root := newAppModel(ctx, t.vault, archivePath)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.fatalErr != nil {
		return result.fatalErr
	}
	return nil
}
