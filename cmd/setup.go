package cmd

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"discovery-sync/core/config"
	"discovery-sync/core/database"
	"discovery-sync/core/storage"
	"discovery-sync/feature/discovery"
	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/journal"
	"discovery-sync/feature/discovery/source"
)

// buildFeature assembles the discovery feature from the configuration. The
// journal database and its summary archive are optional: when either is
// unreachable the sync still runs, just without that part of the record.
func buildFeature(cfg *config.Config, logg *zap.Logger) *discovery.Feature {
	src := source.NewClient(cfg.Source, logg)
	cat := catalog.NewClient(cfg.Catalog, logg)

	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional journal database connection failed, runs will not be recorded", zap.Error(err))
	} else {
		db = conn
		logg.Info("Connected to journal database")
	}

	var store storage.Client
	if db != nil {
		if s, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Storage client unavailable, oversized summaries will be truncated", zap.Error(err))
		} else {
			store = s
		}
	}

	jrnl := journal.New(db, store, cfg.Storage.Bucket, logg)
	if err := jrnl.Migrate(); err != nil {
		logg.Warn("Journal migration failed", zap.Error(err))
	}

	installation := cfg.Source.OrgName
	if installation == "" {
		installation = cfg.Catalog.Account
	}
	asyncTimeout := time.Duration(cfg.Catalog.AsyncTimeoutSeconds) * time.Second
	opts := cfg.Sync.Options(installation, asyncTimeout)

	return discovery.NewFeature(src, cat, jrnl, opts, cfg.Catalog.Account, logg)
}
