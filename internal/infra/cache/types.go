// Package cache provides a SQLite ledger of the artwork files held in the cache directory.
package cache

import "time"

// ArtworkEntry is one cached artwork file.
type ArtworkEntry struct {
	Key       string    `json:"key"`       // Cache filename: sha256(mediaRef) + extension
	MediaRef  string    `json:"mediaRef"`  // Media reference the artwork was extracted from
	Path      string    `json:"path"`      // Absolute path of the cache file
	Ext       string    `json:"ext"`       // Detected image extension
	Size      int       `json:"size"`      // File size in bytes
	CreatedAt time.Time `json:"createdAt"` // When the file was written
}

// CacheStats provides statistics about the ledger.
type CacheStats struct {
	EntryCount    int            `json:"entryCount"`
	TotalBytes    int64          `json:"totalBytes"`
	ByExtension   map[string]int `json:"byExtension"`
	SchemaVersion string         `json:"schemaVersion"`
	LastSweep     time.Time      `json:"lastSweep"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}
