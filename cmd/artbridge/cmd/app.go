package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-artbridge/internal/config"
	"github.com/edumarques81/stellar-artbridge/internal/domain/artwork"
	"github.com/edumarques81/stellar-artbridge/internal/infra/cache"
)

// app bundles the artwork components shared by the subcommands.
type app struct {
	cacheDir string
	db       *cache.DB
	dao      *cache.DAO
	ledger   *artwork.CacheDAOAdapter
	store    *artwork.Store
	janitor  *artwork.Janitor
	resolver *artwork.Resolver
}

// newApp opens the ledger and builds the artwork pipeline. A ledger that
// cannot be opened is logged and skipped; the cache still works without it.
func newApp(cfg *config.Config) (*app, error) {
	cacheDir, err := cfg.ResolveCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}

	a := &app{cacheDir: cacheDir}

	db := cache.NewDB(cfg.DBPath)
	if err := db.Open(); err != nil {
		log.Warn().Err(err).Str("path", cfg.DBPath).Msg("Ledger unavailable, continuing without it")
	} else {
		a.db = db
		a.dao = cache.NewDAO(db)
		a.ledger = artwork.NewCacheDAOAdapter(a.dao)
	}

	a.store = artwork.NewStore(cacheDir, a.artLedger())
	a.janitor = artwork.NewJanitor(cacheDir, cfg.Retention(), a.artLedger())
	a.resolver = artwork.NewResolver(a.store, artwork.NewTagExtractor())

	return a, nil
}

// artLedger returns the ledger as an artwork.Ledger, or nil when the database
// is unavailable.
func (a *app) artLedger() artwork.Ledger {
	if a.ledger == nil {
		return nil
	}
	return a.ledger
}

// markSweep records a completed janitor pass in the ledger.
func (a *app) markSweep() {
	if a.db == nil {
		return
	}
	if err := a.db.MarkSweep(); err != nil {
		log.Warn().Err(err).Msg("Failed to record sweep time")
	}
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
