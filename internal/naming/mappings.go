package naming

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/networth/internal/docstore"
)

// Mappings caches, per source account id, the target account name the source
// was last linked to. It is loaded lazily from the document store and must be
// invalidated when the underlying document changes outside the cache.
type Mappings struct {
	store  docstore.Store
	names  map[string]string
	mu     sync.RWMutex
	loaded bool
}

// NewMappings returns an unloaded cache over store.
func NewMappings(store docstore.Store) *Mappings {
	return &Mappings{store: store}
}

// Reload discards cached state and reads the document again.
func (m *Mappings) Reload(ctx context.Context) error {
	names := map[string]string{}
	if _, err := docstore.Read(ctx, m.store, docstore.KeyNameMappings, &names); err != nil {
		return fmt.Errorf("failed to load name mappings: %w", err)
	}
	if names == nil {
		names = map[string]string{}
	}

	m.mu.Lock()
	m.names = names
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// Invalidate forces the next access to reload from the store.
func (m *Mappings) Invalidate() {
	m.mu.Lock()
	m.names = nil
	m.loaded = false
	m.mu.Unlock()
}

func (m *Mappings) ensure(ctx context.Context) error {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if loaded {
		return nil
	}
	return m.Reload(ctx)
}

// Lookup returns the linked target name for sourceID.
func (m *Mappings) Lookup(ctx context.Context, sourceID string) (string, bool, error) {
	if err := m.ensure(ctx); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.names[sourceID]
	return name, ok, nil
}

// Snapshot returns a copy of all mappings.
func (m *Mappings) Snapshot(ctx context.Context) (map[string]string, error) {
	if err := m.ensure(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.names))
	for k, v := range m.names {
		out[k] = v
	}
	return out, nil
}

// Stage records the given links into b without touching the cache. Call
// Apply once the batch has been committed.
func (m *Mappings) Stage(ctx context.Context, b *docstore.Batch, links map[string]string) error {
	current, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	for id, name := range links {
		current[id] = name
	}
	return b.Set(docstore.KeyNameMappings, current)
}

// StageForget stages the mappings without ids into b. It stages nothing and
// reports false when none of ids is mapped.
func (m *Mappings) StageForget(ctx context.Context, b *docstore.Batch, ids ...string) (bool, error) {
	current, err := m.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	found := false
	for _, id := range ids {
		if _, ok := current[id]; ok {
			delete(current, id)
			found = true
		}
	}
	if !found {
		return false, nil
	}
	return true, b.Set(docstore.KeyNameMappings, current)
}

// Forget drops committed removals from the cache.
func (m *Mappings) Forget(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.names, id)
	}
}

// Apply merges committed links into the cache.
func (m *Mappings) Apply(links map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return
	}
	for id, name := range links {
		m.names[id] = name
	}
}
