// Package file loads the repository-level corpusctl configuration
// from a TOML file.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/logger"
)

// ConfigFile is the expected file name at the repository root.
const ConfigFile = "corpusctl.toml"

// Config holds all repository-level settings. A missing config file is
// fine: every field has a default matching the conventional repository
// layout (docs/, schema/, dist/).
type Config struct {
	// DocsRoot is the document tree, relative to the repo root.
	DocsRoot string `toml:"docs_root" validate:"required"`

	// SchemaDir holds taxonomy.json and front_matter.schema.json.
	SchemaDir string `toml:"schema_dir" validate:"required"`

	// OutDir is the base output directory; each build writes into
	// <out_dir>/<corpus-version>.
	OutDir string `toml:"out_dir" validate:"required"`

	// ChunkPolicy names the default splitting rule.
	ChunkPolicy string `toml:"chunk_policy" validate:"required"`

	// LedgerPath is the SQLite id ledger location.
	LedgerPath string `toml:"ledger_path" validate:"required"`

	// Excluded are the excluded-path glob predicates.
	Excluded []string `toml:"excluded" validate:"min=0,dive,required"`

	// Workers bounds the parse/validate worker pool. Zero selects the
	// service default.
	Workers int `toml:"workers" validate:"gte=0,lte=64"`
}

// Default returns the conventional repository layout.
func Default() *Config {
	return &Config{
		DocsRoot:    "docs",
		SchemaDir:   "schema",
		OutDir:      "dist",
		ChunkPolicy: "h2para",
		LedgerPath:  filepath.Join(".corpusctl", "ledger.db"),
		Excluded:    append([]string(nil), domain.DefaultExcludedGlobs...),
	}
}

// Load reads corpusctl.toml from repoRoot, merging it over the
// defaults. A missing file yields the defaults unchanged.
func Load(repoRoot string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(repoRoot, ConfigFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("No %s found, using defaults", ConfigFile)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	logger.Debug("Loaded config from %s", path)
	return cfg, nil
}

// Validate checks the configuration structure.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
