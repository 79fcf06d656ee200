// Package backends opens the identity, document and cache backends named by
// the configuration. The server and the CLI share it.
package backends

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"gorm.io/gorm"
)

type Backends struct {
	// DB is nil unless the identity driver is postgres.
	DB       *gorm.DB
	Identity identity.Provider
	Store    docstore.Store
	Cache    cache.Client
}

func Open(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}
	signer := identity.NewTokenSigner(cfg.JWTSecret, cfg.JWTIDTokenExpiry)

	switch cfg.IdentityDriver {
	case "postgres":
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		b.DB = db
		b.Identity = identity.NewGormProvider(db, signer)
	case "memory":
		slog.Warn("using in-memory identity store; accounts are lost on restart")
		b.Identity = identity.NewMemoryProvider(signer)
	default:
		return nil, fmt.Errorf("unknown identity driver %q", cfg.IdentityDriver)
	}

	store, err := docstore.Open(ctx, docstore.Config{
		Driver:   cfg.DocstoreDriver,
		URI:      cfg.MongoURI,
		Database: cfg.MongoDB,
	})
	if err != nil {
		b.Close(ctx)
		return nil, err
	}
	b.Store = store

	c, err := cache.New(cache.Config{
		Driver:   cfg.CacheDriver,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   "vivamove",
	})
	if err != nil {
		b.Close(ctx)
		return nil, err
	}
	b.Cache = c

	slog.Info("backends ready",
		"identity", cfg.IdentityDriver, "docstore", cfg.DocstoreDriver, "cache", cfg.CacheDriver)
	return b, nil
}

// Close releases whatever was opened. Errors are logged.
func (b *Backends) Close(ctx context.Context) {
	if b.Cache != nil {
		if err := b.Cache.Close(); err != nil {
			slog.Error("cache close error", "error", err)
		}
	}
	if b.Store != nil {
		if err := b.Store.Close(ctx); err != nil {
			slog.Error("docstore close error", "error", err)
		}
	}
	if b.DB != nil {
		if err := database.Close(b.DB); err != nil {
			slog.Error("database close error", "error", err)
		}
	}
}
