// Package jsonl renders and writes the corpus export artifacts:
// corpus.jsonl (one chunk record per line), index.json (document
// index), and manifest.json (build metadata and integrity hash).
package jsonl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/logger"
)

// Artifact file names inside the output directory.
const (
	CorpusFile   = "corpus.jsonl"
	IndexFile    = "index.json"
	ManifestFile = "manifest.json"
)

// TimestampEnv pins the manifest build timestamp, making repeated
// builds byte-identical end to end. Without it the timestamp is the
// wall clock; the integrity hash is unaffected either way because it
// only covers the corpus and index bytes.
const TimestampEnv = "BUILD_TIMESTAMP_UTC"

// Ensure Writer implements the interface.
var _ driven.ArtifactWriter = (*Writer)(nil)

// Writer serialises exports deterministically. Struct field order
// fixes the JSON key order, documents and chunks arrive pre-sorted,
// and nothing here reads the file system or a clock except the
// manifest timestamp.
type Writer struct{}

// New creates a writer.
func New() *Writer {
	return &Writer{}
}

// Render serialises the export into artifact bytes and computes the
// manifest. The integrity hash is sha256 over the corpus bytes
// followed by the index bytes.
func (w *Writer) Render(export *domain.Export) (*driven.Artifacts, error) {
	var corpus bytes.Buffer
	enc := json.NewEncoder(&corpus)
	enc.SetEscapeHTML(false)
	for i := range export.Chunks {
		if err := enc.Encode(&export.Chunks[i]); err != nil {
			return nil, fmt.Errorf("encoding chunk %s: %w", export.Chunks[i].ChunkID, err)
		}
	}

	// An export with no documents still serialises as a JSON array.
	docs := export.Documents
	if docs == nil {
		docs = []domain.IndexEntry{}
	}
	index, err := marshalIndented(docs)
	if err != nil {
		return nil, fmt.Errorf("encoding index: %w", err)
	}

	h := sha256.New()
	h.Write(corpus.Bytes())
	h.Write(index)
	integrity := hex.EncodeToString(h.Sum(nil))

	manifest := domain.Manifest{
		CorpusVersion:     export.Version,
		BuildTimestampUTC: buildTimestamp(),
		IncludedStatuses:  []string{string(domain.StatusStable)},
		ExcludedGlobs:     export.Excluded,
		ChunkPolicy: domain.ChunkPolicyInfo{
			Name:    export.PolicyName,
			Version: export.PolicyVer,
		},
		DocCount:   len(export.Documents),
		ChunkCount: len(export.Chunks),
		Integrity:  integrity,
		Output: domain.ManifestOutput{
			CorpusJSONL: CorpusFile,
			IndexJSON:   IndexFile,
		},
	}

	manifestJSON, err := marshalIndented(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	return &driven.Artifacts{
		CorpusJSONL:  corpus.Bytes(),
		IndexJSON:    index,
		ManifestJSON: manifestJSON,
		Manifest:     manifest,
	}, nil
}

// Write commits the rendered artifacts. An output directory that
// already contains artifact files is refused unless overwrite is set;
// published version directories are treated as immutable.
func (w *Writer) Write(_ context.Context, outDir string, artifacts *driven.Artifacts, overwrite bool) error {
	if err := checkOutDir(outDir, overwrite); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", domain.ErrBuild, outDir, err)
	}

	files := map[string][]byte{
		CorpusFile:   artifacts.CorpusJSONL,
		IndexFile:    artifacts.IndexJSON,
		ManifestFile: artifacts.ManifestJSON,
	}
	for _, name := range []string{CorpusFile, IndexFile, ManifestFile} {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return fmt.Errorf("%w: writing %s: %v", domain.ErrBuild, path, err)
		}
		logger.Debug("Wrote %s (%d bytes)", path, len(files[name]))
	}
	return nil
}

// checkOutDir refuses conflicting output unless overwrite is set.
func checkOutDir(outDir string, overwrite bool) error {
	if overwrite {
		return nil
	}
	for _, name := range []string{CorpusFile, IndexFile, ManifestFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err == nil {
			return fmt.Errorf("%w: output directory %s already contains %s (use --force to overwrite)",
				domain.ErrBuild, outDir, name)
		}
	}
	return nil
}

// marshalIndented renders canonical two-space indented JSON with a
// trailing newline.
func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildTimestamp returns the pinned or current UTC timestamp.
func buildTimestamp() string {
	if ts := os.Getenv(TimestampEnv); ts != "" {
		return ts
	}
	return time.Now().UTC().Format(time.RFC3339)
}
