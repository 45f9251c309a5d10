package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Status is the lifecycle state of a document.
type Status string

// Document lifecycle states. Only stable documents are exported;
// deprecated documents are retained in history, never deleted.
const (
	StatusDraft      Status = "draft"
	StatusStable     Status = "stable"
	StatusDeprecated Status = "deprecated"
)

// reDocID matches permanent document ids, e.g. "swd.api.valid.001".
// The prefix encodes the top-level corpus area (business, software
// development, shared) and the trailing run of digits is the serial.
var reDocID = regexp.MustCompile(`^(biz|swd|shr)\.[a-z0-9_.-]+\.[0-9]{3,}$`)

// ValidDocID reports whether id matches the permanent-id syntax.
// Ids are globally unique across the corpus and across time; even
// deleted documents' ids are never reassigned.
func ValidDocID(id string) bool {
	return reDocID.MatchString(id)
}

// Document represents one parsed source document.
// It is the canonical representation after front-matter extraction.
type Document struct {
	// ID is the permanent unique identifier from front matter.
	ID string

	// Title is the human-readable title.
	Title string

	// Domain is the content domain (taxonomy enum).
	Domain string

	// Status is the lifecycle state (taxonomy enum).
	Status Status

	// Audience is the intended reader group (taxonomy enum).
	Audience string

	// Tags are curated labels (taxonomy enum set).
	Tags []string

	// LastReviewed is the ISO date of the last editorial review.
	LastReviewed string

	// Summary is a one-line description from front matter.
	Summary string

	// SupersededBy references the replacing document's id.
	// Required when Status is deprecated.
	SupersededBy string

	// SourcePath is the repo-relative, slash-separated file path.
	SourcePath string

	// Meta is the raw decoded front matter, kept for schema validation.
	Meta map[string]any

	// Body is everything after the closing front-matter delimiter.
	Body string
}

// BodySHA256 returns the hex sha256 of the document body.
func (d *Document) BodySHA256() string {
	sum := sha256.Sum256([]byte(d.Body))
	return hex.EncodeToString(sum[:])
}

// Exportable reports whether the document qualifies for corpus export.
func (d *Document) Exportable() bool {
	return d.Status == StatusStable
}
