package tui

import "github.com/MKhiriev/go-vault-keeper/models"

// unlockResultMsg reports the outcome of an async unlock command.
type unlockResultMsg struct {
	count int
	err   error
}

// credentialsLoadedMsg carries the masked credential list for display.
type credentialsLoadedMsg struct {
	credentials []models.CredentialRecord
	err         error
}

// credentialLoadedMsg carries one unmasked credential for the detail
// view.
type credentialLoadedMsg struct {
	record models.CredentialRecord
	err    error
}

// copiedMsg reports the outcome of a clipboard copy.
type copiedMsg struct {
	what string
	err  error
}

// deletedMsg reports the outcome of an async delete command.
type deletedMsg struct {
	err error
}
