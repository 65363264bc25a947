// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	// FieldTitle targets the human-readable title of a credential record.
	FieldTitle = "title"

	// FieldFields targets the typed field map of a credential record.
	FieldFields = "fields"

	// FieldTags targets the tag list of a credential record.
	FieldTags = "tags"

	// FieldNotes targets the free-form notes of a credential record.
	FieldNotes = "notes"
)

// Record limits. Oversized records would bloat the archive and slow
// every save, so they are rejected at the door.
const (
	// MaxTitleLen bounds the record title.
	MaxTitleLen = 200

	// MaxFieldCount bounds the number of fields per record.
	MaxFieldCount = 100

	// MaxFieldValueLen bounds a single field value (1 MiB).
	MaxFieldValueLen = 1 << 20

	// MaxTagCount bounds the number of tags per record.
	MaxTagCount = 20

	// MaxTagLen bounds a single tag.
	MaxTagLen = 50

	// MaxNotesLen bounds the free-form notes.
	MaxNotesLen = 10000
)

// CredentialValidator implements the Validator interface for credential
// domain models: CredentialRecord and SearchPayload.
//
// It supports both value and pointer receivers for every model type
// and allows optional field-level scoping via variadic field name arguments.
type CredentialValidator struct {
}

// NewCredentialValidator constructs a new CredentialValidator
// and returns it as the Validator interface.
func NewCredentialValidator() Validator {
	return &CredentialValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.CredentialRecord / *models.CredentialRecord
//   - models.SearchPayload / *models.SearchPayload
//
// Returns ErrUnsupportedType if obj does not match any known model.
// Optional fields restrict validation to the named subset; when omitted,
// every rule is checked.
func (v *CredentialValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CredentialRecord:
		return v.validateRecord(ctx, value, fields...)
	case *models.CredentialRecord:
		return v.validateRecord(ctx, *value, fields...)

	case models.SearchPayload:
		return v.validateSearch(ctx, value)
	case *models.SearchPayload:
		return v.validateSearch(ctx, *value)

	default:
		return ErrUnsupportedType
	}
}

func (v *CredentialValidator) validateRecord(_ context.Context, record models.CredentialRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldFields, FieldTags, FieldNotes}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldTitle:
			err = v.validateTitle(record.Title)
		case FieldFields:
			err = v.validateFields(record.Fields)
		case FieldTags:
			err = v.validateTags(record.Tags)
		case FieldNotes:
			err = v.validateNotes(record.Notes)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *CredentialValidator) validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLen)
	}
	return nil
}

func (v *CredentialValidator) validateFields(fields map[string]models.CredentialField) error {
	if len(fields) > MaxFieldCount {
		return fmt.Errorf("%w: %d > %d", ErrTooManyFields, len(fields), MaxFieldCount)
	}
	for name, field := range fields {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyFieldName
		}
		if len(field.Value) > MaxFieldValueLen {
			return fmt.Errorf("%w: field %q holds %d bytes", ErrFieldValueTooBig, name, len(field.Value))
		}
	}
	return nil
}

func (v *CredentialValidator) validateTags(tags []string) error {
	if len(tags) > MaxTagCount {
		return fmt.Errorf("%w: %d > %d", ErrTooManyTags, len(tags), MaxTagCount)
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyTag
		}
		if len(tag) > MaxTagLen {
			return fmt.Errorf("%w: %q", ErrTagTooLong, tag)
		}
	}
	return nil
}

func (v *CredentialValidator) validateNotes(notes string) error {
	if len(notes) > MaxNotesLen {
		return fmt.Errorf("%w: %d > %d", ErrNotesTooLong, len(notes), MaxNotesLen)
	}
	return nil
}

func (v *CredentialValidator) validateSearch(_ context.Context, payload models.SearchPayload) error {
	if strings.TrimSpace(payload.Query) == "" {
		return ErrEmptySearchQuery
	}
	return nil
}
