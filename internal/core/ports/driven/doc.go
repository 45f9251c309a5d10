// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - DocumentSource: Discovers and reads source files
//   - Parser: Splits a source file into front matter and body
//   - TaxonomyLoader: Loads the controlled vocabulary and front-matter schema
//   - ChunkPolicy: Deterministically splits a document body into chunks
//   - ArtifactWriter: Serialises the export artifacts
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - IDLedger: Persisted id history. Without it, id-reuse detection is
//     limited to the current run and version immutability is not enforced.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or chunker package
package driven
