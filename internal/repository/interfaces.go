// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package repository validates and repairs an unpacked repository
// directory tree against format v1:
//
//	metadata.yml
//	credentials/<uuid>/record.yml
//	types/<name>.yml
//
// Validation is pure: it never mutates the tree. Repair fixes only
// structural problems and never rewrites credential content.
package repository

import "github.com/MKhiriev/go-vault-keeper/models"

// Validator inspects an unpacked repository directory.
type Validator interface {
	// Validate walks dir and returns a report of every format issue
	// found, in detection order. The error return covers I/O failures
	// only; format problems go into the report.
	Validate(dir string) (*models.ValidationReport, error)

	// AutoRepair validates dir, fixes every repairable issue in place,
	// then re-validates and returns the final report. Credential
	// record content is never modified, only relocated.
	AutoRepair(dir string) (*models.ValidationReport, error)
}
