package tui

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// detailModel renders a single credential. The record is held with
// sensitive values unmasked so clipboard copy works, but the view never
// prints them.
type detailModel struct {
	record models.CredentialRecord
	status string
}

func (m detailModel) view() string {
	out := fmt.Sprintf("%s  [%s]\n\n", titleStyle.Render(m.record.Title), m.record.CredentialType)

	for _, name := range sortedFieldNames(m.record) {
		field := m.record.Fields[name]
		value := field.Value
		if field.Sensitive {
			value = maskedStyle.Render("••••••••")
		}
		out += fmt.Sprintf("%-12s %s\n", name+":", value)
	}

	if len(m.record.Tags) > 0 {
		out += fmt.Sprintf("\ntags: %v\n", m.record.Tags)
	}
	if m.record.Notes != "" {
		out += "\n" + m.record.Notes + "\n"
	}
	if m.status != "" {
		out += "\n" + m.status + "\n"
	}

	out += "\n" + helpStyle.Render("c copy password  u copy username  d delete  esc back")
	return appStyle.Render(out)
}

func sortedFieldNames(record models.CredentialRecord) []string {
	names := make([]string, 0, len(record.Fields))
	for name := range record.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// copyTarget picks the field value the given key copies; "c" prefers
// the password field, "u" the username field.
func (m detailModel) copyTarget(key string) (name, value string, ok bool) {
	wanted := "password"
	if key == "u" {
		wanted = "username"
	}

	if field, found := m.record.Fields[wanted]; found {
		return wanted, field.Value, true
	}

	// Fall back to any sensitive field for "c".
	if key == "c" {
		for _, name := range sortedFieldNames(m.record) {
			if m.record.Fields[name].Sensitive {
				return name, m.record.Fields[name].Value, true
			}
		}
	}
	return "", "", false
}
