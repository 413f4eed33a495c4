package domain

import "errors"

var (
	ErrUnknownDocumentType = errors.New("unknown_document_type")
	ErrInvalidExportKind   = errors.New("invalid_export_kind")
)
