package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	flagLedgerRetired  bool
	flagLedgerVersions bool
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the document id ledger",
	Long: `Lists the ids the ledger has seen across validation runs.
By default only active ids are shown; --retired lists ids that have
disappeared from the tree, --versions lists published corpus versions.`,
	RunE: runLedger,
}

func init() {
	ledgerCmd.Flags().BoolVar(&flagLedgerRetired, "retired", false, "list retired ids instead of active ones")
	ledgerCmd.Flags().BoolVar(&flagLedgerVersions, "versions", false, "list published corpus versions")
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, _ []string) error {
	if flagNoLedger {
		return errors.New("ledger command is incompatible with --no-ledger")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if flagLedgerVersions {
		versions, err := a.ledger.PublishedVersions(cmd.Context())
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			cmd.Println("No published versions.")
			return nil
		}
		for _, v := range versions {
			cmd.Printf("%s  %d docs  %d chunks  sha256:%s  %s\n",
				v.Version, v.DocCount, v.ChunkCount, v.Integrity, v.PublishedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	entries, err := a.ledger.Entries(cmd.Context())
	if err != nil {
		return err
	}

	shown := 0
	for _, e := range entries {
		if e.Retired() != flagLedgerRetired {
			continue
		}
		shown++
		if e.Retired() {
			cmd.Printf("%s  %s  retired %s\n", e.ID, e.Path, e.RetiredAt.Format("2006-01-02"))
		} else {
			cmd.Printf("%s  %s  last seen %s\n", e.ID, e.Path, e.LastSeen.Format("2006-01-02"))
		}
	}
	if shown == 0 {
		if flagLedgerRetired {
			cmd.Println("No retired ids.")
		} else {
			cmd.Println("No active ids.")
		}
	}
	return nil
}
