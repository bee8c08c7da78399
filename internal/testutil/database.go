// Package testutil provides shared test setup for networth packages: migrated
// stores and fluent builders for source accounts.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/model"
)

// TestStore is a migrated in-memory SQLite document store.
type TestStore struct {
	Store *docstore.SQLiteStore
	t     *testing.T
}

// SetupTestStore creates a new in-memory store. It automatically handles
// migrations and cleanup.
//
// Example:
//
//	ts := testutil.SetupTestStore(t)
//	eng := engine.New(ts.Store, nil)
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()
	return SetupTestStoreWithOptions(t, TestStoreOptions{})
}

// TestStoreOptions provides configuration options for test store setup.
type TestStoreOptions struct {
	CustomSetup    func(context.Context, docstore.Store) error
	Accounts       []model.SourceAccount
	SkipMigrations bool
}

// SetupTestStoreWithOptions creates a test store with custom options.
func SetupTestStoreWithOptions(t *testing.T, opts TestStoreOptions) *TestStore {
	t.Helper()

	store, err := docstore.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Accounts) > 0 {
		if err := docstore.Write(ctx, store, docstore.KeySourceAccounts, opts.Accounts); err != nil {
			t.Fatalf("failed to seed accounts: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		store.Close()
	})

	return &TestStore{Store: store, t: t}
}

// MustRead decodes the document at key into dst or fails the test.
func (ts *TestStore) MustRead(key docstore.Key, dst any) bool {
	ts.t.Helper()
	found, err := docstore.Read(context.Background(), ts.Store, key, dst)
	if err != nil {
		ts.t.Fatalf("failed to read %s: %v", key, err)
	}
	return found
}

// Clock is a settable time source for deterministic timestamps.
type Clock struct {
	now time.Time
}

// NewClock returns a clock fixed at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }
