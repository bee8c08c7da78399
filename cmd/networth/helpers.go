package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/networth/internal/common"
	"github.com/Veraticus/networth/internal/config"
	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/engine"
	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/notify"
)

// openStore opens the configured document store, migrating SQLite schemas.
func openStore(ctx context.Context, s config.StoreConfig) (docstore.Store, error) {
	switch s.Driver {
	case config.DriverMemory:
		return docstore.NewMemoryStore(), nil
	case config.DriverRedis:
		return docstore.NewRedisStore(docstore.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			Prefix:   s.RedisPrefix,
			DB:       s.RedisDB,
		})
	default:
		store, err := docstore.NewSQLiteStore(s.Path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	}
}

// initEngine loads settings, opens the store and builds an engine. The
// returned cleanup closes the store.
func initEngine(ctx context.Context) (*engine.Engine, func(), error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(ctx, settings.Store)
	if err != nil {
		return nil, nil, err
	}

	cfg := engine.DefaultConfig()
	cfg.JointOwner = settings.JointOwner
	cfg.Retention = settings.Retention

	eng := engine.NewWithConfig(store, notify.NewBus(), cfg)
	return eng, func() { _ = store.Close() }, nil
}

// resolveAccount finds a source account by full id or unique id prefix.
func resolveAccount(accounts []model.SourceAccount, ref string) (model.SourceAccount, error) {
	ref = strings.TrimSpace(ref)
	var found []model.SourceAccount
	for _, a := range accounts {
		if a.ID == ref {
			return a, nil
		}
		if ref != "" && strings.HasPrefix(a.ID, ref) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return model.SourceAccount{}, common.Userf(common.ErrNotFound, "no account matches %q", ref)
	case 1:
		return found[0], nil
	default:
		return model.SourceAccount{}, common.Userf(nil, "%q matches %d accounts, use a longer id", ref, len(found))
	}
}

// resolveGroup finds a group by id, unique id prefix or exact name.
func resolveGroup(groups []model.Group, ref string) (model.Group, error) {
	ref = strings.TrimSpace(ref)
	var found []model.Group
	for _, g := range groups {
		if g.ID == ref {
			return g, nil
		}
		if ref != "" && (strings.HasPrefix(g.ID, ref) || g.Name == ref) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return model.Group{}, common.Userf(common.ErrNotFound, "no group matches %q", ref)
	case 1:
		return found[0], nil
	default:
		return model.Group{}, common.Userf(nil, "%q matches %d groups, use the group id", ref, len(found))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
