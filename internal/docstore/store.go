// Package docstore provides the keyed JSON document store every dataset
// round-trips through. Each logical dataset is one document that callers
// read, modify and write back whole.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Key names a logical dataset.
type Key string

// Dataset keys.
const (
	KeySourceAccounts Key = "source-accounts"
	KeyTargetAccounts Key = "target-accounts"
	KeyGroups         Key = "groups"
	KeySnapshots      Key = "snapshots"
	KeyAggregates     Key = "aggregates"
	KeyNameMappings   Key = "name-mappings"
	KeySyncSettings   Key = "sync-settings"
)

// AllKeys lists every dataset key.
var AllKeys = []Key{
	KeySourceAccounts, KeyTargetAccounts, KeyGroups, KeySnapshots,
	KeyAggregates, KeyNameMappings, KeySyncSettings,
}

// Store errors.
var (
	ErrNotFound = errors.New("document not found")
	ErrEmptyKey = errors.New("document key cannot be empty")
	ErrClosed   = errors.New("document store is closed")
)

// Store is a keyed blob store with atomic multi-document writes.
type Store interface {
	// Get returns the raw document, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)
	// Put writes every document or none of them.
	Put(ctx context.Context, docs map[Key][]byte) error
	// Delete removes documents; missing keys are ignored.
	Delete(ctx context.Context, keys ...Key) error
	// Keys lists stored document keys.
	Keys(ctx context.Context) ([]Key, error)
	Close() error
}

// Read decodes the document at key into dst. It reports false and leaves dst
// untouched when the document does not exist.
func Read(ctx context.Context, s Store, key Key, dst any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Write encodes v and stores it at key.
func Write(ctx context.Context, s Store, key Key, v any) error {
	b := NewBatch()
	if err := b.Set(key, v); err != nil {
		return err
	}
	return b.Commit(ctx, s)
}

// Batch stages encoded documents for a single atomic Put.
type Batch struct {
	docs map[Key][]byte
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{docs: make(map[Key][]byte)}
}

// Set encodes v and stages it at key, replacing any earlier staged value.
func (b *Batch) Set(key Key, v any) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	b.docs[key] = data
	return nil
}

// Keys returns the staged keys in sorted order.
func (b *Batch) Keys() []Key {
	keys := make([]Key, 0, len(b.docs))
	for k := range b.docs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of staged documents.
func (b *Batch) Len() int { return len(b.docs) }

// Commit writes all staged documents with one Put. An empty batch is a no-op.
func (b *Batch) Commit(ctx context.Context, s Store) error {
	if len(b.docs) == 0 {
		return nil
	}
	return s.Put(ctx, b.docs)
}
