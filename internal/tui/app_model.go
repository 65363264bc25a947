// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-vault-keeper/internal/client"
)

type screen int

const (
	screenUnlock screen = iota
	screenList
	screenDetail
)

// appModel is the root Bubble Tea model. It owns the screen state
// machine and dispatches async daemon commands.
type appModel struct {
	ctx         context.Context
	vault       client.VaultClient
	archivePath string

	screen   screen
	unlock   unlockModel
	list     listModel
	detail   detailModel
	fatalErr error
}

func newAppModel(ctx context.Context, vault client.VaultClient, archivePath string) appModel {
	return appModel{
		ctx:         ctx,
		vault:       vault,
		archivePath: archivePath,
		screen:      screenUnlock,
		unlock:      newUnlockModel(),
		list:        newListModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case unlockResultMsg:
		m.unlock.submitting = false
		if msg.err != nil {
			m.unlock.errMsg = msg.err.Error()
			return m, nil
		}
		m.screen = screenList
		m.list = newListModel()
		m.list.status = fmt.Sprintf("%d credentials loaded", msg.count)
		return m, m.loadCredentialsCmd()

	case credentialsLoadedMsg:
		m.list.loading = false
		m.list.lastErr = msg.err
		if msg.err == nil {
			m.list.items = msg.credentials
			if m.list.idx >= len(m.list.items) {
				m.list.idx = max(0, len(m.list.items)-1)
			}
		}
		return m, nil

	case credentialLoadedMsg:
		if msg.err != nil {
			m.list.lastErr = msg.err
			return m, nil
		}
		m.screen = screenDetail
		m.detail = detailModel{record: msg.record}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.detail.status = errorStyle.Render("copy failed: " + msg.err.Error())
		} else {
			m.detail.status = msg.what + " copied to clipboard"
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.detail.status = errorStyle.Render("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.screen = screenList
		m.list.loading = true
		return m, m.loadCredentialsCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.screen == screenUnlock {
		var cmd tea.Cmd
		m.unlock.input, cmd = m.unlock.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenUnlock:
		return m.handleUnlockKey(msg)
	case screenList:
		return m.handleListKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m appModel) handleUnlockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		if m.unlock.submitting {
			return m, nil
		}
		password := strings.TrimSpace(m.unlock.input.Value())
		if password == "" {
			m.unlock.errMsg = "password must not be empty"
			return m, nil
		}
		m.unlock.submitting = true
		m.unlock.errMsg = ""
		return m, m.unlockCmd(password)
	}

	var cmd tea.Cmd
	m.unlock.input, cmd = m.unlock.input.Update(msg)
	return m, cmd
}

func (m appModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.list.idx > 0 {
			m.list.idx--
		}
	case "down", "j":
		if m.list.idx < len(m.list.items)-1 {
			m.list.idx++
		}
	case "r":
		m.list.loading = true
		m.list.status = ""
		return m, m.loadCredentialsCmd()
	case "s":
		return m, m.saveCmd()
	case "enter":
		if item, ok := m.list.current(); ok {
			return m, m.loadCredentialCmd(item.ID)
		}
	}
	return m, nil
}

func (m appModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "c", "u":
		if name, value, ok := m.detail.copyTarget(msg.String()); ok {
			return m, copyCmd(name, value)
		}
		m.detail.status = "nothing to copy"
		return m, nil
	case "d":
		return m, m.deleteCmd(m.detail.record.ID)
	}
	return m, nil
}

func (m appModel) View() string {
	switch m.screen {
	case screenUnlock:
		return m.unlock.view(m.archivePath)
	case screenDetail:
		return m.detail.view()
	default:
		return m.list.view(m.archivePath)
	}
}

func (m appModel) unlockCmd(password string) tea.Cmd {
	return func() tea.Msg {
		count, err := m.vault.Unlock(m.ctx, m.archivePath, password)
		return unlockResultMsg{count: count, err: err}
	}
}

func (m appModel) loadCredentialsCmd() tea.Cmd {
	return func() tea.Msg {
		listed, err := m.vault.List(m.ctx, false)
		if err != nil {
			return credentialsLoadedMsg{err: err}
		}
		credentials := listed.Credentials
		sort.Slice(credentials, func(i, j int) bool {
			return credentials[i].Title < credentials[j].Title
		})
		return credentialsLoadedMsg{credentials: credentials}
	}
}

func (m appModel) loadCredentialCmd(credentialID string) tea.Cmd {
	return func() tea.Msg {
		record, err := m.vault.Get(m.ctx, credentialID)
		return credentialLoadedMsg{record: record, err: err}
	}
}

func (m appModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.vault.Save(m.ctx); err != nil {
			return credentialsLoadedMsg{err: err}
		}
		listed, err := m.vault.List(m.ctx, false)
		return credentialsLoadedMsg{credentials: listed.Credentials, err: err}
	}
}

func (m appModel) deleteCmd(credentialID string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: m.vault.Delete(m.ctx, credentialID)}
	}
}

func copyCmd(name, value string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(value); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{what: name}
	}
}
