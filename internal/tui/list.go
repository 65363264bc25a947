package tui

import (
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// listModel renders the masked credential overview.
type listModel struct {
	items   []models.CredentialRecord
	idx     int
	loading bool
	status  string
	lastErr error
}

func newListModel() listModel {
	return listModel{loading: true}
}

func (m listModel) current() (models.CredentialRecord, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.CredentialRecord{}, false
	}
	return m.items[m.idx], true
}

func listIcon(credentialType string) string {
	switch credentialType {
	case "login":
		return "[P]"
	case "note":
		return "[N]"
	case "credit_card":
		return "[C]"
	case "identity":
		return "[I]"
	default:
		return "[?]"
	}
}

func (m listModel) view(archivePath string) string {
	out := titleStyle.Render("go-vault-keeper") + "  " + helpStyle.Render(archivePath) + "\n\n"

	if m.loading {
		out += "loading...\n"
	} else if len(m.items) == 0 {
		out += "empty archive\n"
	} else {
		for i, item := range m.items {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			out += fmt.Sprintf("%s%s %s\n", cursor, listIcon(item.CredentialType), item.Title)
		}
	}

	if m.status != "" {
		out += "\n" + m.status + "\n"
	}
	if m.lastErr != nil {
		out += "\n" + errorStyle.Render("error: "+m.lastErr.Error()) + "\n"
	}

	out += "\n" + helpStyle.Render("enter open  r reload  s save  q quit")
	return appStyle.Render(out)
}
