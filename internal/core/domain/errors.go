package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSchema indicates the taxonomy or front-matter schema definition
	// is missing, malformed, or internally inconsistent. Fatal: aborts
	// before any document processing.
	ErrSchema = errors.New("schema definition invalid")

	// ErrParse indicates a single source document is structurally
	// malformed (missing or unbalanced front-matter delimiters, invalid
	// YAML). Collected per document, never fatal on first.
	ErrParse = errors.New("document parse failed")

	// ErrValidation indicates one or more rule violations were
	// accumulated across the document set.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateID indicates two documents share a permanent id.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrBuild indicates the export stage refused to emit artifacts:
	// output conflict, invalid version string, or integrity mismatch
	// against a previously published version.
	ErrBuild = errors.New("build failed")
)
