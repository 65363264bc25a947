// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CredentialRecord is a single secret entry stored in the archive.
//
// An ID is assigned by the archive manager on first insert and never
// changes afterwards. UpdatedAt is re-stamped on every mutation and is
// always >= CreatedAt.
type CredentialRecord struct {
	// ID is the opaque unique identifier of the record.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable name of the credential.
	Title string `json:"title" yaml:"title"`

	// CredentialType is a free-form tag such as "login" or
	// "credit_card". Templates in the fixed catalog use it as the
	// template name.
	CredentialType string `json:"credential_type" yaml:"credential_type"`

	// Fields maps field names to their values.
	Fields map[string]CredentialField `json:"fields" yaml:"fields"`

	// Tags is a list of short strings used for organization and search.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Notes holds optional free-form text.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// CreatedAt is stamped once when the record is first added.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is re-stamped on every successful mutation.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewCredentialRecord builds an empty record of the given title and
// type. The ID and timestamps are assigned by the archive manager when
// the record is added.
func NewCredentialRecord(title, credentialType string) CredentialRecord {
	return CredentialRecord{
		Title:          title,
		CredentialType: credentialType,
		Fields:         make(map[string]CredentialField),
	}
}

// SetField stores the field under the given name, replacing any
// previous value.
func (c *CredentialRecord) SetField(name string, field CredentialField) {
	if c.Fields == nil {
		c.Fields = make(map[string]CredentialField)
	}
	c.Fields[name] = field
}

// GetField returns the field stored under name, if any.
func (c *CredentialRecord) GetField(name string) (CredentialField, bool) {
	field, ok := c.Fields[name]
	return field, ok
}

// HasTag reports whether the record carries the given tag.
func (c *CredentialRecord) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Sanitized returns a deep copy of the record with every sensitive
// field value masked. Used for list responses that must not carry
// secrets to the client.
func (c CredentialRecord) Sanitized() CredentialRecord {
	sanitized := c
	sanitized.Fields = make(map[string]CredentialField, len(c.Fields))
	for name, field := range c.Fields {
		sanitized.Fields[name] = field.Masked()
	}
	sanitized.Tags = append([]string(nil), c.Tags...)
	return sanitized
}
