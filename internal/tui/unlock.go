package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// unlockModel renders the master password prompt shown before the
// archive is opened.
type unlockModel struct {
	input      textinput.Model
	submitting bool
	errMsg     string
}

func newUnlockModel() unlockModel {
	passwordInput := textinput.New()
	passwordInput.Placeholder = "master password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'
	passwordInput.Focus()

	return unlockModel{input: passwordInput}
}

func (m unlockModel) view(archivePath string) string {
	out := titleStyle.Render("Unlock archive") + "\n\n"
	out += archivePath + "\n\n"
	out += m.input.View() + "\n"

	if m.submitting {
		out += "\nunlocking...\n"
	}
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg) + "\n"
	}

	out += "\n" + helpStyle.Render("enter unlock  esc/ctrl+c quit")
	return appStyle.Render(out)
}
