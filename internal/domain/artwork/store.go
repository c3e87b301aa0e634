package artwork

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// AppName is the application-specific subpath of the per-user cache directory.
const AppName = "stellar-artbridge"

// DefaultCacheDir returns <user cache dir>/stellar-artbridge/coverart.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(base, AppName, "coverart"), nil
}

// CacheKey returns the cache filename for artwork extracted from mediaRef.
// Only the reference is hashed; data contributes its detected extension.
func CacheKey(mediaRef string, data []byte) string {
	sum := sha256.Sum256([]byte(mediaRef))
	return hex.EncodeToString(sum[:]) + DetectExtension(data)
}

// Store writes extracted artwork into a content-addressed cache directory.
// Entries are written at most once and never modified afterwards.
type Store struct {
	dir    string
	ledger Ledger
	now    func() time.Time
}

// NewStore creates a store rooted at dir. ledger may be nil.
func NewStore(dir string, ledger Ledger) *Store {
	return &Store{
		dir:    dir,
		ledger: ledger,
		now:    time.Now,
	}
}

// Dir returns the cache directory, creating it and its parents if needed.
func (s *Store) Dir() (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return s.dir, nil
}

// Path returns where the entry for mediaRef and data lives, without touching the disk.
func (s *Store) Path(mediaRef string, data []byte) string {
	return filepath.Join(s.dir, CacheKey(mediaRef, data))
}

// Put caches data for mediaRef and returns the file URI of the entry.
// An existing entry is reused as is.
func (s *Store) Put(mediaRef string, data []byte) (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}

	key := CacheKey(mediaRef, data)
	path := filepath.Join(dir, key)

	if _, err := os.Stat(path); err == nil {
		return FileURI(path)
	}

	if err := writeFileAtomic(dir, path, data); err != nil {
		return "", fmt.Errorf("failed to write artwork file: %w", err)
	}

	log.Debug().
		Str("mediaRef", mediaRef).
		Str("path", path).
		Int("size", len(data)).
		Msg("Cached artwork")

	if s.ledger != nil {
		entry := &CacheEntry{
			Key:       key,
			MediaRef:  mediaRef,
			Path:      path,
			Ext:       filepath.Ext(key),
			Size:      len(data),
			CreatedAt: s.now(),
		}
		if err := s.ledger.RecordEntry(entry); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to record cache entry")
		}
	}

	return FileURI(path)
}

// writeTemp writes data into the temporary file. Replaced in tests.
var writeTemp = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// writeFileAtomic writes data to a temporary file in dir and renames it to
// path, so path either does not exist or holds the complete data.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".artwork-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := writeTemp(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// FileURI converts a filesystem path to a file:// URI.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make path absolute: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
