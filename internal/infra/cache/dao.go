package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DAO provides data access operations for the ledger.
type DAO struct {
	db *DB
}

// NewDAO creates a new DAO instance.
func NewDAO(db *DB) *DAO {
	return &DAO{db: db}
}

// InsertEntry inserts or updates a cache entry. A second write for the same
// key refreshes the size and creation time.
func (dao *DAO) InsertEntry(entry *ArtworkEntry) error {
	db := dao.db.DB()
	if db == nil {
		return fmt.Errorf("database not open")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	created := createdAt.UTC().Format(time.RFC3339)

	_, err := db.Exec(`
		INSERT INTO artwork_entries (key, media_ref, path, ext, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			media_ref = ?, path = ?, ext = ?, size = ?, created_at = ?
	`,
		entry.Key, entry.MediaRef, entry.Path, entry.Ext, entry.Size, created,
		entry.MediaRef, entry.Path, entry.Ext, entry.Size, created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.Key, err)
	}
	return nil
}

// DeleteEntryByPath removes the entry whose file lives at path.
// Deleting an unknown path is not an error.
func (dao *DAO) DeleteEntryByPath(path string) error {
	db := dao.db.DB()
	if db == nil {
		return fmt.Errorf("database not open")
	}

	if _, err := db.Exec("DELETE FROM artwork_entries WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete entry for %s: %w", path, err)
	}
	return nil
}

// GetEntry retrieves an entry by cache key. Returns nil, nil if absent.
func (dao *DAO) GetEntry(key string) (*ArtworkEntry, error) {
	db := dao.db.DB()
	if db == nil {
		return nil, fmt.Errorf("database not open")
	}

	row := db.QueryRow(`
		SELECT key, media_ref, path, ext, size, created_at
		FROM artwork_entries WHERE key = ?
	`, key)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns entries newest first. A non-positive limit returns all.
func (dao *DAO) ListEntries(limit int) ([]*ArtworkEntry, error) {
	db := dao.db.DB()
	if db == nil {
		return nil, fmt.Errorf("database not open")
	}

	query := `
		SELECT key, media_ref, path, ext, size, created_at
		FROM artwork_entries ORDER BY created_at DESC, key
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ArtworkEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListOlderThan returns entries created before cutoff.
func (dao *DAO) ListOlderThan(cutoff time.Time) ([]*ArtworkEntry, error) {
	db := dao.db.DB()
	if db == nil {
		return nil, fmt.Errorf("database not open")
	}

	rows, err := db.Query(`
		SELECT key, media_ref, path, ext, size, created_at
		FROM artwork_entries WHERE created_at < ? ORDER BY created_at
	`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ArtworkEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*ArtworkEntry, error) {
	entry := &ArtworkEntry{}
	var size sql.NullInt64
	var createdAt sql.NullString

	if err := row.Scan(&entry.Key, &entry.MediaRef, &entry.Path, &entry.Ext, &size, &createdAt); err != nil {
		return nil, err
	}
	if size.Valid {
		entry.Size = int(size.Int64)
	}
	if createdAt.Valid {
		entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}
	return entry, nil
}

// LogCacheStats logs ledger statistics.
func (dao *DAO) LogCacheStats() {
	stats, err := dao.db.GetStats()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get ledger stats")
		return
	}

	log.Info().
		Int("entries", stats.EntryCount).
		Int64("bytes", stats.TotalBytes).
		Msg("Ledger statistics")
}
