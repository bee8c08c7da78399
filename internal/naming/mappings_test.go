package naming

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/networth/internal/docstore"
)

func TestMappingsStageAndApply(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	m := NewMappings(store)

	_, found, err := m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, found)

	b := docstore.NewBatch()
	links := map[string]string{"a1": "Roth IRA"}
	require.NoError(t, m.Stage(ctx, b, links))

	// Staged links are invisible until applied.
	_, found, err = m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Commit(ctx, store))
	m.Apply(links)

	name, found, err := m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Roth IRA", name)

	// A fresh cache sees the persisted document.
	fresh := NewMappings(store)
	all, err := fresh.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, links, all)
}

func TestMappingsInvalidate(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	m := NewMappings(store)

	require.NoError(t, docstore.Write(ctx, store, docstore.KeyNameMappings, map[string]string{"a1": "Old"}))
	name, _, err := m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Old", name)

	require.NoError(t, docstore.Write(ctx, store, docstore.KeyNameMappings, map[string]string{"a1": "New"}))
	name, _, err = m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Old", name, "cache is served until invalidated")

	m.Invalidate()
	name, _, err = m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "New", name)
}

func TestMappingsSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, docstore.Write(ctx, store, docstore.KeyNameMappings, map[string]string{"a1": "Roth IRA"}))

	m := NewMappings(store)
	all, err := m.Snapshot(ctx)
	require.NoError(t, err)
	all["a1"] = "changed"

	name, _, err := m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Roth IRA", name)
}

func TestMappingsApplyBeforeLoadIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	m := NewMappings(store)

	m.Apply(map[string]string{"a1": "Roth IRA"})
	_, found, err := m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMappingsLoadError(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, map[docstore.Key][]byte{docstore.KeyNameMappings: []byte("{not json")}))

	_, _, err := NewMappings(store).Lookup(ctx, "a1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, docstore.ErrNotFound))
}

func TestMappingsForget(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, docstore.Write(ctx, store, docstore.KeyNameMappings, map[string]string{
		"a1": "Roth IRA",
		"a2": "Brokerage",
	}))
	m := NewMappings(store)

	b := docstore.NewBatch()
	found, err := m.StageForget(ctx, b, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, b.Len())

	found, err = m.StageForget(ctx, b, "a1", "missing")
	require.NoError(t, err)
	assert.True(t, found)

	_, still, err := m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, still, "staged removals are invisible until forgotten")

	require.NoError(t, b.Commit(ctx, store))
	m.Forget("a1")

	_, still, err = m.Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, still)

	fresh := NewMappings(store)
	all, err := fresh.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a2": "Brokerage"}, all)
}
