// Package domain defines the core business entities for corpusctl.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed source document (front matter + body)
//   - Chunk: A deterministically bounded sub-span of a document body
//   - Taxonomy: The controlled vocabulary for front-matter fields
//   - Report / Issue: Accumulated validation results
//   - Export / Manifest: The versioned corpus snapshot
//   - LedgerEntry / PublishedVersion: Persisted id and release history
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
