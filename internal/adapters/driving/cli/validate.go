package cli

import (
	"github.com/spf13/cobra"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate all corpus documents",
	Long: `Checks every document under the docs root: front-matter
structure, taxonomy membership, permanent-id rules, raw HTML, internal
links, and deprecation references. All violations across the whole
tree are reported together.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.validator.Validate(cmd.Context())
	if err != nil {
		return err
	}

	printReport(cmd, result.Report)
	for _, id := range result.RetiredIDs {
		cmd.Printf("Retired id: %s\n", id)
	}

	if result.Report.HasErrors() {
		return &domain.ValidationFailed{Report: result.Report}
	}

	cmd.Printf("OK: %d documents validated\n", len(result.Documents))
	return nil
}

// printReport renders warnings first, then errors, matching the order
// a contributor wants to read them in.
func printReport(cmd *cobra.Command, report *domain.Report) {
	if warnings := report.Warnings(); len(warnings) > 0 {
		cmd.Println("WARNINGS:")
		for _, w := range warnings {
			cmd.Printf("  - %s\n", w)
		}
		cmd.Println()
	}
	if errs := report.Errors(); len(errs) > 0 {
		cmd.Println("ERRORS:")
		for _, e := range errs {
			cmd.Printf("  - %s\n", e)
		}
		cmd.Println()
	}
}
