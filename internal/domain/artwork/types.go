// Package artwork provides artwork resolution and caching for the media loaded in a player.
package artwork

import (
	"errors"
	"time"
)

var (
	// ErrNoArtwork is returned when no artwork is found.
	ErrNoArtwork = errors.New("no artwork found")

	// ErrEmptyReference is returned when a resolution is requested for an empty media reference.
	ErrEmptyReference = errors.New("empty media reference")
)

// DefaultRetention is how long a cache entry survives before the janitor reclaims it.
const DefaultRetention = 15 * 24 * time.Hour

// Source identifies which strategy produced a resolution result.
type Source string

const (
	SourceNone      Source = "none"
	SourceThumbnail Source = "thumbnail" // remote thumbnail URL
	SourceEmbedded  Source = "embedded"  // attached picture, written to the cache
	SourceFolder    Source = "folder"    // sibling file in the media directory
)

// ResolveResult contains the outcome of one resolution.
type ResolveResult struct {
	URI    string // file:// or https:// URI, empty when nothing was found
	Source Source // strategy that produced URI
}

// Found reports whether the result carries artwork.
func (r ResolveResult) Found() bool {
	return r.URI != ""
}

// CacheEntry describes an artwork file written to the cache directory.
type CacheEntry struct {
	Key       string    `json:"key"`       // sha256(mediaRef) + extension, also the filename
	MediaRef  string    `json:"mediaRef"`  // reference the entry was derived from
	Path      string    `json:"path"`      // absolute path on disk
	Ext       string    `json:"ext"`       // detected extension (".png")
	Size      int       `json:"size"`      // file size in bytes
	CreatedAt time.Time `json:"createdAt"` // when the entry was written
}

// EmbeddedExtractor reads an attached picture out of a media container.
type EmbeddedExtractor interface {
	// Extract returns the raw bytes of the first attached picture.
	// It returns ErrNoArtwork when the container has none.
	Extract(mediaRef string) ([]byte, error)
}

// Ledger records cache entries as they are created and reclaimed.
// Implementations must tolerate being called for unknown paths.
type Ledger interface {
	// RecordEntry stores metadata about a newly written cache entry
	RecordEntry(entry *CacheEntry) error
	// ForgetPath removes the metadata for a cache file that was deleted
	ForgetPath(path string) error
}
