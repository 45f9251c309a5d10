package domain

// ChunkRecord is one line of the corpus.jsonl artifact. Field order is
// fixed by the struct so repeated builds serialise byte-identically.
type ChunkRecord struct {
	CorpusVersion string   `json:"corpus_version"`
	DocID         string   `json:"doc_id"`
	ChunkID       string   `json:"chunk_id"`
	SourcePath    string   `json:"source_path"`
	Title         string   `json:"title"`
	Domain        string   `json:"domain"`
	Status        string   `json:"status"`
	Audience      string   `json:"audience"`
	Tags          []string `json:"tags"`
	HeadingPath   []string `json:"heading_path"`
	ContentType   string   `json:"content_type"`
	Content       string   `json:"content"`
	SHA256        string   `json:"sha256"`
	CharCount     int      `json:"char_count"`
}

// IndexEntry is one element of the index.json document index.
type IndexEntry struct {
	DocID      string   `json:"doc_id"`
	Title      string   `json:"title"`
	Domain     string   `json:"domain"`
	Status     string   `json:"status"`
	Audience   string   `json:"audience"`
	Tags       []string `json:"tags"`
	SourcePath string   `json:"source_path"`
	BodySHA256 string   `json:"body_sha256"`
	CharCount  int      `json:"char_count"`
	ChunkCount int      `json:"chunk_count"`
}

// Export is an assembled corpus snapshot ready for serialisation.
// Documents are ordered by id and chunks follow document order; the
// ordering is a deterministic function of content, never of directory
// enumeration or worker completion order.
type Export struct {
	Version    string
	PolicyName string
	PolicyVer  string
	Excluded   []string
	Documents  []IndexEntry
	Chunks     []ChunkRecord
}

// ChunkPolicyInfo records which splitting rule produced an export.
// The chunking rule is itself a compatibility surface, so the manifest
// names it explicitly.
type ChunkPolicyInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ManifestOutput names the artifact files relative to the out dir.
type ManifestOutput struct {
	CorpusJSONL string `json:"corpus_jsonl"`
	IndexJSON   string `json:"index_json"`
}

// Manifest is the build metadata artifact. Integrity is a sha256 over
// the corpus and index artifact bytes, so two builds from identical
// input produce identical integrity values.
type Manifest struct {
	CorpusVersion     string          `json:"corpus_version"`
	BuildTimestampUTC string          `json:"build_timestamp_utc"`
	IncludedStatuses  []string        `json:"included_statuses"`
	ExcludedGlobs     []string        `json:"excluded_globs"`
	ChunkPolicy       ChunkPolicyInfo `json:"chunk_policy"`
	DocCount          int             `json:"doc_count"`
	ChunkCount        int             `json:"chunk_count"`
	Integrity         string          `json:"integrity_sha256"`
	Output            ManifestOutput  `json:"output"`
}
