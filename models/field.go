// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// FieldType defines the semantic type of a credential field.
// The value determines how a presentation layer should render and
// validate the field; the core treats it as an opaque tag except for
// sensitivity defaults.
type FieldType string

const (
	// FieldTypeText represents a plain single-line text value.
	FieldTypeText FieldType = "text"

	// FieldTypePassword represents a secret value that must be masked
	// in any listing and excluded from search.
	FieldTypePassword FieldType = "password"

	// FieldTypeEmail represents an e-mail address.
	FieldTypeEmail FieldType = "email"

	// FieldTypeURL represents a website or application URL.
	FieldTypeURL FieldType = "url"

	// FieldTypeUsername represents a login identifier.
	FieldTypeUsername FieldType = "username"

	// FieldTypePhone represents a phone number.
	FieldTypePhone FieldType = "phone"

	// FieldTypeCreditCardNumber represents a payment card number.
	FieldTypeCreditCardNumber FieldType = "credit_card_number"

	// FieldTypeExpiryDate represents a payment card expiry date.
	FieldTypeExpiryDate FieldType = "expiry_date"

	// FieldTypeCvv represents a payment card verification value.
	FieldTypeCvv FieldType = "cvv"

	// FieldTypeTotpSecret represents a TOTP seed used for 2FA codes.
	FieldTypeTotpSecret FieldType = "totp_secret"

	// FieldTypeTextArea represents multi-line text.
	FieldTypeTextArea FieldType = "text_area"

	// FieldTypeNumber represents a numeric value.
	FieldTypeNumber FieldType = "number"

	// FieldTypeDate represents a calendar date.
	FieldTypeDate FieldType = "date"

	// FieldTypeCustom represents a user-defined field type.
	FieldTypeCustom FieldType = "custom"
)

// SensitiveByDefault reports whether values of this field type must be
// treated as secrets unless the record explicitly says otherwise.
func (t FieldType) SensitiveByDefault() bool {
	switch t {
	case FieldTypePassword, FieldTypeCvv, FieldTypeTotpSecret, FieldTypeCreditCardNumber:
		return true
	default:
		return false
	}
}

// CredentialField is a single named value inside a CredentialRecord.
type CredentialField struct {
	// FieldType defines how the value should be interpreted.
	FieldType FieldType `json:"field_type" yaml:"field_type"`

	// Value is the actual field content. Sensitive values are never
	// written to logs and are excluded from search.
	Value string `json:"value" yaml:"value"`

	// Sensitive marks the value as a secret that must be masked.
	Sensitive bool `json:"sensitive" yaml:"sensitive"`

	// Label is an optional display name overriding the field key.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Metadata holds free-form key/value pairs attached to the field.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewField builds a CredentialField of the given type, inheriting the
// type's default sensitivity.
func NewField(fieldType FieldType, value string) CredentialField {
	return CredentialField{
		FieldType: fieldType,
		Value:     value,
		Sensitive: fieldType.SensitiveByDefault(),
	}
}

// TextField builds a non-sensitive plain text field.
func TextField(value string) CredentialField {
	return NewField(FieldTypeText, value)
}

// PasswordField builds a sensitive password field.
func PasswordField(value string) CredentialField {
	return NewField(FieldTypePassword, value)
}

// UsernameField builds a username field.
func UsernameField(value string) CredentialField {
	return NewField(FieldTypeUsername, value)
}

// URLField builds a URL field.
func URLField(value string) CredentialField {
	return NewField(FieldTypeURL, value)
}

// EmailField builds an e-mail address field.
func EmailField(value string) CredentialField {
	return NewField(FieldTypeEmail, value)
}

// TotpField builds a sensitive TOTP seed field.
func TotpField(value string) CredentialField {
	return NewField(FieldTypeTotpSecret, value)
}

// Masked returns a copy of the field with the value replaced by a
// placeholder when the field is sensitive.
func (f CredentialField) Masked() CredentialField {
	if !f.Sensitive {
		return f
	}
	masked := f
	masked.Value = "********"
	return masked
}
