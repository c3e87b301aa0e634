package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edumarques81/stellar-artbridge/internal/domain/artwork"
)

var sweepReset bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete cached artwork older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepReset, "reset", false, "delete every cached file and empty the ledger")
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	janitor := a.janitor
	if sweepReset {
		janitor = artwork.NewJanitor(a.cacheDir, time.Nanosecond, a.artLedger())
	}

	report := janitor.Sweep()

	if sweepReset && a.db != nil {
		if err := a.db.Clear(); err != nil {
			return err
		}
	}
	a.markSweep()

	fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, removed %d, failed %d, pruned %d\n",
		report.Scanned, report.Removed, report.Failed, report.Pruned)
	return nil
}
