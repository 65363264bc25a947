package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle       = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title exceeds maximum length")
	ErrTooManyFields    = errors.New("too many fields")
	ErrFieldValueTooBig = errors.New("field value exceeds maximum size")
	ErrEmptyFieldName   = errors.New("field name cannot be empty")
	ErrTooManyTags      = errors.New("too many tags")
	ErrEmptyTag         = errors.New("tag cannot be empty")
	ErrTagTooLong       = errors.New("tag exceeds maximum length")
	ErrNotesTooLong     = errors.New("notes exceed maximum length")
	ErrEmptySearchQuery = errors.New("search query cannot be empty")
)
