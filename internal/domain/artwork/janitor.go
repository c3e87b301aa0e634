package artwork

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// SweepReport summarizes one janitor pass.
type SweepReport struct {
	Scanned int `json:"scanned"` // image files inspected
	Removed int `json:"removed"` // files deleted for exceeding the retention window
	Failed  int `json:"failed"`  // deletions that failed
	Pruned  int `json:"pruned"`  // ledger rows dropped because their file was already gone
}

// StaleLister is implemented by ledgers that can enumerate entries recorded
// before a cutoff. The janitor uses it to drop rows for files that vanished
// outside a sweep.
type StaleLister interface {
	EntriesOlderThan(cutoff time.Time) ([]*CacheEntry, error)
}

// Janitor deletes cache entries older than a retention window.
// It takes no lock against the store; entries written during a sweep may or
// may not be seen.
type Janitor struct {
	dir       string
	retention time.Duration
	ledger    Ledger
	now       func() time.Time
}

// NewJanitor creates a janitor for dir. A non-positive retention selects
// DefaultRetention. ledger may be nil.
func NewJanitor(dir string, retention time.Duration, ledger Ledger) *Janitor {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Janitor{
		dir:       dir,
		retention: retention,
		ledger:    ledger,
		now:       time.Now,
	}
}

// Sweep removes expired image files from the cache directory, then drops
// expired ledger rows whose file is already gone. It is safe to call at any
// time; an absent directory only skips the file scan.
func (j *Janitor) Sweep() SweepReport {
	var report SweepReport

	now := j.now()

	entries, err := os.ReadDir(j.dir)
	if err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("dir", j.dir).Msg("Failed to open cache directory")
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." || entry.IsDir() {
			continue
		}
		if !HasSupportedExtension(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Debug().Err(err).Str("file", name).Msg("Skipping cache file that could not be inspected")
			continue
		}
		report.Scanned++

		if now.Sub(info.ModTime()) <= j.retention {
			continue
		}

		path := filepath.Join(j.dir, name)
		if err := os.Remove(path); err != nil {
			report.Failed++
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove old cache file")
			continue
		}

		report.Removed++
		log.Debug().Str("file", name).Msg("Cleaned up old cache file")

		if j.ledger != nil {
			if err := j.ledger.ForgetPath(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to forget cache entry")
			}
		}
	}

	report.Pruned = j.pruneLedger(now)

	log.Info().
		Int("scanned", report.Scanned).
		Int("removed", report.Removed).
		Int("failed", report.Failed).
		Int("pruned", report.Pruned).
		Msg("Cache sweep complete")

	return report
}

// pruneLedger forgets expired ledger rows whose file no longer exists.
func (j *Janitor) pruneLedger(now time.Time) int {
	lister, ok := j.ledger.(StaleLister)
	if !ok {
		return 0
	}

	stale, err := lister.EntriesOlderThan(now.Add(-j.retention))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to list expired cache entries")
		return 0
	}

	pruned := 0
	for _, entry := range stale {
		if _, err := os.Lstat(entry.Path); !os.IsNotExist(err) {
			continue
		}
		if err := j.ledger.ForgetPath(entry.Path); err != nil {
			log.Warn().Err(err).Str("path", entry.Path).Msg("Failed to forget cache entry")
			continue
		}
		pruned++
	}
	return pruned
}
