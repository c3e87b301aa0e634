package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	statsJSON   bool
	statsRecent int
	statsKey    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show artwork cache ledger statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print statistics as JSON")
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "also list the N most recent entries")
	statsCmd.Flags().StringVar(&statsKey, "key", "", "show the ledger entry for one cache file name")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.db == nil {
		return errors.New("ledger database is unavailable")
	}

	out := cmd.OutOrStdout()

	if statsKey != "" {
		return printEntry(out, a, statsKey)
	}

	stats, err := a.db.GetStats()
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Cache directory:\t%s\n", a.cacheDir)
	fmt.Fprintf(w, "Ledger:\t%s (schema %s)\n", a.db.Path(), stats.SchemaVersion)
	fmt.Fprintf(w, "Entries:\t%d\n", stats.EntryCount)
	fmt.Fprintf(w, "Total size:\t%d bytes\n", stats.TotalBytes)
	fmt.Fprintf(w, "Last sweep:\t%s\n", formatTime(stats.LastSweep))

	exts := make([]string, 0, len(stats.ByExtension))
	for ext := range stats.ByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(w, "  %s\t%d\n", ext, stats.ByExtension[ext])
	}

	if statsRecent > 0 {
		entries, err := a.ledger.Entries(statsRecent)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "Recent entries:")
		for _, e := range entries {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", e.CreatedAt.Local().Format(time.RFC3339), e.Key, e.MediaRef)
		}
	}

	return w.Flush()
}

func printEntry(out io.Writer, a *app, key string) error {
	entry, err := a.ledger.Entry(key)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no ledger entry for %q", key)
	}

	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Key:\t%s\n", entry.Key)
	fmt.Fprintf(w, "Media:\t%s\n", entry.MediaRef)
	fmt.Fprintf(w, "Path:\t%s\n", entry.Path)
	fmt.Fprintf(w, "Size:\t%d bytes\n", entry.Size)
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(entry.CreatedAt))
	return w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.RFC3339)
}
