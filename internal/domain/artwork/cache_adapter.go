package artwork

import (
	"time"

	"github.com/edumarques81/stellar-artbridge/internal/infra/cache"
)

// CacheDAOAdapter adapts the cache.DAO to implement the Ledger interface.
type CacheDAOAdapter struct {
	dao *cache.DAO
}

// NewCacheDAOAdapter creates a new adapter for cache.DAO.
func NewCacheDAOAdapter(dao *cache.DAO) *CacheDAOAdapter {
	return &CacheDAOAdapter{dao: dao}
}

// RecordEntry stores entry in the ledger.
func (a *CacheDAOAdapter) RecordEntry(entry *CacheEntry) error {
	return a.dao.InsertEntry(&cache.ArtworkEntry{
		Key:       entry.Key,
		MediaRef:  entry.MediaRef,
		Path:      entry.Path,
		Ext:       entry.Ext,
		Size:      entry.Size,
		CreatedAt: entry.CreatedAt,
	})
}

// ForgetPath removes the ledger row for a deleted cache file.
func (a *CacheDAOAdapter) ForgetPath(path string) error {
	return a.dao.DeleteEntryByPath(path)
}

// Entry returns the ledger row for a cache key, or nil when none is recorded.
func (a *CacheDAOAdapter) Entry(key string) (*CacheEntry, error) {
	row, err := a.dao.GetEntry(key)
	if err != nil || row == nil {
		return nil, err
	}
	return toCacheEntry(row), nil
}

// Entries lists recorded cache entries, newest first.
func (a *CacheDAOAdapter) Entries(limit int) ([]*CacheEntry, error) {
	rows, err := a.dao.ListEntries(limit)
	if err != nil {
		return nil, err
	}
	return toCacheEntries(rows), nil
}

// EntriesOlderThan lists entries recorded before cutoff, oldest first.
func (a *CacheDAOAdapter) EntriesOlderThan(cutoff time.Time) ([]*CacheEntry, error) {
	rows, err := a.dao.ListOlderThan(cutoff)
	if err != nil {
		return nil, err
	}
	return toCacheEntries(rows), nil
}

func toCacheEntries(rows []*cache.ArtworkEntry) []*CacheEntry {
	entries := make([]*CacheEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toCacheEntry(row))
	}
	return entries
}

func toCacheEntry(row *cache.ArtworkEntry) *CacheEntry {
	return &CacheEntry{
		Key:       row.Key,
		MediaRef:  row.MediaRef,
		Path:      row.Path,
		Ext:       row.Ext,
		Size:      row.Size,
		CreatedAt: row.CreatedAt,
	}
}
