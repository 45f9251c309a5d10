package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/refcorpus/corpusctl/internal/logger"
	"github.com/refcorpus/corpusctl/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate on every document or schema change",
	Long: `Runs validation, then watches the docs and schema directories
and re-validates after each change burst. Ledger updates are applied
on clean runs, exactly as with the validate command.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Initial pass so the terminal shows the current state immediately.
	revalidate(cmd, a)

	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(a.docsRoot); err != nil {
		return err
	}
	if err := w.Add(a.schemaDir); err != nil {
		logger.Warn("Not watching schema dir: %v", err)
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", a.docsRoot)

	err = w.Run(cmd.Context(), func(paths []string) {
		for _, p := range paths {
			logger.Debug("Changed: %s", p)
		}
		revalidate(cmd, a)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// revalidate runs one validation pass and prints the outcome without
// terminating the watch loop.
func revalidate(cmd *cobra.Command, a *app) {
	result, err := a.validator.Validate(cmd.Context())
	if err != nil {
		cmd.PrintErrf("validation error: %v\n", err)
		return
	}
	printReport(cmd, result.Report)
	if result.Report.HasErrors() {
		cmd.Printf("FAIL: %d error(s)\n", len(result.Report.Errors()))
		return
	}
	cmd.Printf("OK: %d documents validated\n", len(result.Documents))
}
