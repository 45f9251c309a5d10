// Package cli wires the cobra command surface to the core services.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/refcorpus/corpusctl/internal/adapters/driven/config/file"
	"github.com/refcorpus/corpusctl/internal/adapters/driven/export/jsonl"
	ledgersqlite "github.com/refcorpus/corpusctl/internal/adapters/driven/ledger/sqlite"
	"github.com/refcorpus/corpusctl/internal/chunkers/fixed"
	"github.com/refcorpus/corpusctl/internal/chunkers/h2para"
	"github.com/refcorpus/corpusctl/internal/connectors/filesystem"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/core/services"
	"github.com/refcorpus/corpusctl/internal/frontmatter"
	"github.com/refcorpus/corpusctl/internal/logger"
	"github.com/refcorpus/corpusctl/internal/taxonomy"
)

// version is set by Execute from the build.
var version = "dev"

// Persistent flags.
var (
	flagRepoRoot string
	flagVerbose  bool
	flagNoLedger bool
)

var rootCmd = &cobra.Command{
	Use:   "corpusctl",
	Short: "Validate and deterministically export the documentation corpus",
	Long: `corpusctl validates a Markdown documentation tree against its
taxonomy and front-matter schema, and builds versioned, reproducible
corpus exports (corpus.jsonl, index.json, manifest.json) for
downstream benchmarking.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRepoRoot, "repo-root", ".", "repository root directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoLedger, "no-ledger", false, "disable the persisted id ledger")
}

// Execute runs the CLI. The context cancels long-running commands
// such as watch when the process receives an interrupt.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

// app is the wired service graph for one command invocation.
type app struct {
	cfg       *file.Config
	repoRoot  string
	docsRoot  string
	schemaDir string
	ledger    driven.IDLedger
	validator *services.ValidationService
	builder   *services.BuildOrchestrator
}

// close releases held resources.
func (a *app) close() {
	if a.ledger != nil {
		_ = a.ledger.Close()
	}
}

// newApp loads configuration and wires the pipeline.
func newApp() (*app, error) {
	cfg, err := file.Load(flagRepoRoot)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		repoRoot:  flagRepoRoot,
		docsRoot:  filepath.Join(flagRepoRoot, cfg.DocsRoot),
		schemaDir: filepath.Join(flagRepoRoot, cfg.SchemaDir),
	}

	// Validation covers the whole tree, drafts and templates included,
	// so their ids stay registered and collisions with live documents
	// surface. The excluded globs only narrow the build's export set.
	source, err := filesystem.New(a.docsRoot)
	if err != nil {
		return nil, err
	}

	if !flagNoLedger {
		ledgerPath := cfg.LedgerPath
		if !filepath.IsAbs(ledgerPath) {
			ledgerPath = filepath.Join(flagRepoRoot, ledgerPath)
		}
		store, err := ledgersqlite.NewStore(ledgerPath)
		if err != nil {
			return nil, fmt.Errorf("opening id ledger: %w", err)
		}
		a.ledger = store
	}

	opts := []services.Option{services.WithWorkers(cfg.Workers)}
	if a.ledger != nil {
		opts = append(opts, services.WithLedger(a.ledger))
	}
	a.validator = services.NewValidationService(
		source,
		frontmatter.New(),
		taxonomy.New(a.schemaDir),
		opts...,
	)

	policies := map[string]driven.ChunkPolicy{
		h2para.PolicyName: h2para.New(),
		fixed.PolicyName:  fixed.New(),
	}
	a.builder = services.NewBuildOrchestrator(
		a.validator,
		jsonl.New(),
		policies,
		cfg.ChunkPolicy,
		cfg.Excluded,
		a.ledger,
	)

	return a, nil
}
