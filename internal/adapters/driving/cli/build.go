package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driving"
)

var (
	flagCorpusVersion string
	flagOutDir        string
	flagForce         bool
	flagChunkPolicy   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a versioned corpus export",
	Long: `Validates the whole tree, then deterministically exports all
stable documents as corpus.jsonl, index.json, and manifest.json.
Nothing is written if any document fails validation. Rebuilding an
already published version with different content is rejected.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagCorpusVersion, "corpus-version", "", "corpus version string (corpus-vYYYY.MM.patch)")
	buildCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "output directory (default <out_dir>/<corpus-version>)")
	buildCmd.Flags().BoolVar(&flagForce, "force", false, "overwrite existing output artifacts")
	buildCmd.Flags().StringVar(&flagChunkPolicy, "chunk-policy", "", "chunk policy (default from config)")
	_ = buildCmd.MarkFlagRequired("corpus-version")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	outDir := flagOutDir
	if outDir == "" {
		outDir = filepath.Join(a.repoRoot, a.cfg.OutDir, flagCorpusVersion)
	}

	manifest, err := a.builder.Build(cmd.Context(), driving.BuildRequest{
		Version:    flagCorpusVersion,
		OutDir:     outDir,
		Force:      flagForce,
		PolicyName: flagChunkPolicy,
	})
	if err != nil {
		var failed *domain.ValidationFailed
		if errors.As(err, &failed) {
			printReport(cmd, failed.Report)
		}
		return err
	}

	cmd.Printf("Built %s: %d docs, %d chunks -> %s\n",
		manifest.CorpusVersion, manifest.DocCount, manifest.ChunkCount, outDir)
	cmd.Printf("Integrity: sha256:%s\n", manifest.Integrity)
	return nil
}
