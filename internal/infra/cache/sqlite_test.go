package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edumarques81/stellar-artbridge/internal/infra/cache"
)

func openTestDB(t *testing.T) *cache.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "ledger_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db := cache.NewDB(filepath.Join(tmpDir, "nested", "artwork.db"))
	if err := db.Open(); err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB(t *testing.T) {
	db := cache.NewDB("")
	if db == nil {
		t.Fatal("NewDB should return a non-nil instance")
	}
	if db.Path() != cache.DefaultDBPath {
		t.Errorf("Expected default path %q, got %q", cache.DefaultDBPath, db.Path())
	}
}

func TestDBOpenClose(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "ledger_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")
	db := cache.NewDB(dbPath)

	if err := db.Open(); err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should exist after Open()")
	}

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}

	// Closing twice is harmless
	if err := db.Close(); err != nil {
		t.Errorf("Second Close() returned error: %v", err)
	}

	// Reopen keeps the schema
	if err := db.Open(); err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()
}

func TestDBGetStats(t *testing.T) {
	db := openTestDB(t)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats.EntryCount != 0 {
		t.Errorf("Expected 0 entries, got %d", stats.EntryCount)
	}
	if stats.TotalBytes != 0 {
		t.Errorf("Expected 0 bytes, got %d", stats.TotalBytes)
	}
	if stats.SchemaVersion != "1" {
		t.Errorf("Expected schema version '1', got '%s'", stats.SchemaVersion)
	}
	if !stats.LastSweep.IsZero() {
		t.Errorf("Expected no sweep recorded, got %v", stats.LastSweep)
	}
}

func TestDBClosedOperations(t *testing.T) {
	db := cache.NewDB(filepath.Join(t.TempDir(), "closed.db"))

	if _, err := db.GetStats(); err == nil {
		t.Error("GetStats on closed database should fail")
	}
	if err := db.MarkSweep(); err == nil {
		t.Error("MarkSweep on closed database should fail")
	}
	if err := db.Clear(); err == nil {
		t.Error("Clear on closed database should fail")
	}

	dao := cache.NewDAO(db)
	if err := dao.InsertEntry(&cache.ArtworkEntry{Key: "k"}); err == nil {
		t.Error("InsertEntry on closed database should fail")
	}
	if err := dao.DeleteEntryByPath("/x"); err == nil {
		t.Error("DeleteEntryByPath on closed database should fail")
	}
}

func TestDAOInsertAndGetEntry(t *testing.T) {
	db := openTestDB(t)
	dao := cache.NewDAO(db)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &cache.ArtworkEntry{
		Key:       "abc123.png",
		MediaRef:  "/music/a/01.flac",
		Path:      "/cache/abc123.png",
		Ext:       ".png",
		Size:      2048,
		CreatedAt: created,
	}

	if err := dao.InsertEntry(entry); err != nil {
		t.Fatalf("Failed to insert entry: %v", err)
	}

	got, err := dao.GetEntry("abc123.png")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got == nil {
		t.Fatal("Expected entry, got nil")
	}
	if got.MediaRef != entry.MediaRef {
		t.Errorf("Expected media ref %q, got %q", entry.MediaRef, got.MediaRef)
	}
	if got.Path != entry.Path {
		t.Errorf("Expected path %q, got %q", entry.Path, got.Path)
	}
	if got.Size != 2048 {
		t.Errorf("Expected size 2048, got %d", got.Size)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Expected created %v, got %v", created, got.CreatedAt)
	}

	missing, err := dao.GetEntry("nope.jpg")
	if err != nil {
		t.Fatalf("GetEntry for missing key returned error: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing key, got %+v", missing)
	}
}

func TestDAOInsertEntryUpsert(t *testing.T) {
	db := openTestDB(t)
	dao := cache.NewDAO(db)

	entry := &cache.ArtworkEntry{Key: "k.jpg", MediaRef: "/m/1.mp3", Path: "/c/k.jpg", Ext: ".jpg", Size: 10}
	if err := dao.InsertEntry(entry); err != nil {
		t.Fatalf("Failed to insert entry: %v", err)
	}

	entry.Size = 99
	if err := dao.InsertEntry(entry); err != nil {
		t.Fatalf("Failed to upsert entry: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.EntryCount != 1 {
		t.Errorf("Expected 1 entry after upsert, got %d", stats.EntryCount)
	}
	if stats.TotalBytes != 99 {
		t.Errorf("Expected 99 bytes after upsert, got %d", stats.TotalBytes)
	}
}

func TestDAOListAndDelete(t *testing.T) {
	db := openTestDB(t)
	dao := cache.NewDAO(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []*cache.ArtworkEntry{
		{Key: "a.jpg", MediaRef: "/m/a", Path: "/c/a.jpg", Ext: ".jpg", Size: 1, CreatedAt: base},
		{Key: "b.png", MediaRef: "/m/b", Path: "/c/b.png", Ext: ".png", Size: 2, CreatedAt: base.Add(24 * time.Hour)},
		{Key: "c.jpg", MediaRef: "/m/c", Path: "/c/c.jpg", Ext: ".jpg", Size: 3, CreatedAt: base.Add(48 * time.Hour)},
	}
	for _, e := range entries {
		if err := dao.InsertEntry(e); err != nil {
			t.Fatalf("Failed to insert %s: %v", e.Key, err)
		}
	}

	all, err := dao.ListEntries(0)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(all))
	}
	if all[0].Key != "c.jpg" {
		t.Errorf("Expected newest entry first, got %s", all[0].Key)
	}

	limited, err := dao.ListEntries(2)
	if err != nil {
		t.Fatalf("Failed to list limited entries: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 entries with limit, got %d", len(limited))
	}

	old, err := dao.ListOlderThan(base.Add(36 * time.Hour))
	if err != nil {
		t.Fatalf("Failed to list old entries: %v", err)
	}
	if len(old) != 2 {
		t.Errorf("Expected 2 old entries, got %d", len(old))
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.ByExtension[".jpg"] != 2 || stats.ByExtension[".png"] != 1 {
		t.Errorf("Unexpected extension breakdown: %v", stats.ByExtension)
	}

	if err := dao.DeleteEntryByPath("/c/b.png"); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}
	if err := dao.DeleteEntryByPath("/c/unknown.png"); err != nil {
		t.Errorf("Deleting unknown path should not fail: %v", err)
	}

	got, _ := dao.GetEntry("b.png")
	if got != nil {
		t.Error("Expected entry to be gone after delete")
	}
}

func TestDBMarkSweepAndClear(t *testing.T) {
	db := openTestDB(t)
	dao := cache.NewDAO(db)

	if err := dao.InsertEntry(&cache.ArtworkEntry{Key: "x.gif", MediaRef: "/m/x", Path: "/c/x.gif", Ext: ".gif"}); err != nil {
		t.Fatalf("Failed to insert entry: %v", err)
	}

	if err := db.MarkSweep(); err != nil {
		t.Fatalf("Failed to mark sweep: %v", err)
	}
	if err := db.Clear(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.EntryCount != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", stats.EntryCount)
	}
	if stats.LastSweep.IsZero() {
		t.Error("Expected last sweep to be recorded")
	}
	if stats.LastUpdated.IsZero() {
		t.Error("Expected last updated to be recorded")
	}
}
