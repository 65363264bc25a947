package models

import (
	"errors"
	"fmt"
)

// FieldTemplate describes one field of a credential template.
type FieldTemplate struct {
	// Name is the field key inside CredentialRecord.Fields.
	Name string `json:"name" yaml:"name"`

	// Label is the display name of the field.
	Label string `json:"label" yaml:"label"`

	// FieldType is the semantic type of the field.
	FieldType FieldType `json:"field_type" yaml:"field_type"`

	// Required marks fields that must be non-empty when a record built
	// from the template is validated against it.
	Required bool `json:"required" yaml:"required"`
}

// CredentialTemplate is a named blueprint for a credential record.
// The catalog of templates is fixed; custom credential types beyond it
// are deliberately unsupported.
type CredentialTemplate struct {
	// Name doubles as the CredentialType of records built from the
	// template.
	Name string `json:"name" yaml:"name"`

	// Description explains the template's purpose.
	Description string `json:"description" yaml:"description"`

	// Fields lists the template's fields in display order.
	Fields []FieldTemplate `json:"fields" yaml:"fields"`

	// Tags are applied to every record built from the template.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ErrTemplateNotFound is returned by TemplateByName for unknown names.
var ErrTemplateNotFound = errors.New("template not found")

// CreateCredential instantiates a record from the template with every
// template field present and empty.
func (t CredentialTemplate) CreateCredential(title string) CredentialRecord {
	record := NewCredentialRecord(title, t.Name)
	for _, field := range t.Fields {
		f := NewField(field.FieldType, "")
		f.Label = field.Label
		record.SetField(field.Name, f)
	}
	record.Tags = append([]string(nil), t.Tags...)
	return record
}

// RequiredFields returns the names of the template's required fields.
func (t CredentialTemplate) RequiredFields() []string {
	var required []string
	for _, field := range t.Fields {
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return required
}

// ValidateRecord checks that every required template field is present
// and non-empty on the record.
func (t CredentialTemplate) ValidateRecord(record CredentialRecord) error {
	for _, name := range t.RequiredFields() {
		field, ok := record.GetField(name)
		if !ok || field.Value == "" {
			return fmt.Errorf("required field %q is empty", name)
		}
	}
	return nil
}

// Templates returns the fixed template catalog.
func Templates() []CredentialTemplate {
	return []CredentialTemplate{
		loginTemplate(),
		creditCardTemplate(),
		secureNoteTemplate(),
		identityTemplate(),
		wifiTemplate(),
	}
}

// TemplateByName returns the catalog template with the given name.
func TemplateByName(name string) (CredentialTemplate, error) {
	for _, t := range Templates() {
		if t.Name == name {
			return t, nil
		}
	}
	return CredentialTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

func loginTemplate() CredentialTemplate {
	return CredentialTemplate{
		Name:        "login",
		Description: "Standard login credentials with username and password",
		Fields: []FieldTemplate{
			{Name: "username", Label: "Username", FieldType: FieldTypeUsername, Required: true},
			{Name: "password", Label: "Password", FieldType: FieldTypePassword, Required: true},
			{Name: "url", Label: "Website", FieldType: FieldTypeURL},
			{Name: "totp_secret", Label: "TOTP Secret", FieldType: FieldTypeTotpSecret},
			{Name: "notes", Label: "Notes", FieldType: FieldTypeTextArea},
		},
		Tags: []string{"login"},
	}
}

func creditCardTemplate() CredentialTemplate {
	return CredentialTemplate{
		Name:        "credit_card",
		Description: "Credit card information with security details",
		Fields: []FieldTemplate{
			{Name: "cardholder", Label: "Cardholder Name", FieldType: FieldTypeText, Required: true},
			{Name: "number", Label: "Card Number", FieldType: FieldTypeCreditCardNumber, Required: true},
			{Name: "expiry", Label: "Expiry Date", FieldType: FieldTypeExpiryDate, Required: true},
			{Name: "cvv", Label: "CVV", FieldType: FieldTypeCvv, Required: true},
		},
		Tags: []string{"payment", "credit_card"},
	}
}

func secureNoteTemplate() CredentialTemplate {
	return CredentialTemplate{
		Name:        "secure_note",
		Description: "Secure text note for sensitive information",
		Fields: []FieldTemplate{
			{Name: "content", Label: "Content", FieldType: FieldTypeTextArea, Required: true},
		},
		Tags: []string{"note"},
	}
}

func identityTemplate() CredentialTemplate {
	return CredentialTemplate{
		Name:        "identity",
		Description: "Personal identity information",
		Fields: []FieldTemplate{
			{Name: "first_name", Label: "First Name", FieldType: FieldTypeText},
			{Name: "last_name", Label: "Last Name", FieldType: FieldTypeText},
			{Name: "email", Label: "Email", FieldType: FieldTypeEmail},
			{Name: "phone", Label: "Phone", FieldType: FieldTypePhone},
			{Name: "address", Label: "Address", FieldType: FieldTypeTextArea},
		},
		Tags: []string{"identity"},
	}
}

func wifiTemplate() CredentialTemplate {
	return CredentialTemplate{
		Name:        "wifi",
		Description: "Wi-Fi network credentials",
		Fields: []FieldTemplate{
			{Name: "ssid", Label: "Network Name (SSID)", FieldType: FieldTypeText, Required: true},
			{Name: "password", Label: "Password", FieldType: FieldTypePassword, Required: true},
			{Name: "security", Label: "Security Type", FieldType: FieldTypeText},
		},
		Tags: []string{"wifi", "network"},
	}
}
