package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/networth/internal/common"
	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/groups"
	"github.com/Veraticus/networth/internal/ledger"
	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/notify"
	"github.com/Veraticus/networth/internal/testutil"
)

func collect(bus *notify.Bus, events ...notify.Event) *[]notify.Notification {
	var got []notify.Notification
	for _, e := range events {
		bus.Subscribe(e, func(n notify.Notification) { got = append(got, n) })
	}
	return &got
}

func TestGroupManagementPublishes(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t, docstore.NewMemoryStore())
	events := collect(te.Bus(), notify.GroupsChanged)

	g, err := te.CreateGroup(ctx, "Retirement")
	require.NoError(t, err)
	require.NoError(t, te.AddMember(ctx, g.ID, "k1"))
	require.NoError(t, te.AddMember(ctx, g.ID, "k1"))
	require.NoError(t, te.UpdateGroup(ctx, g.ID, model.GroupPatch{Name: strPtr("Retirement")}))
	require.NoError(t, te.RemoveMember(ctx, g.ID, "k1"))
	require.NoError(t, te.DeleteGroup(ctx, g.ID))

	require.Len(t, *events, 4, "no-op changes publish nothing")
	for _, n := range *events {
		assert.Equal(t, g.ID, n.GroupID)
	}

	err = te.DeleteGroup(ctx, g.ID)
	assert.ErrorIs(t, err, groups.ErrGroupNotFound)
	assert.Len(t, *events, 4)
}

func TestRemoveSourceAccountPrunesGroups(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t, docstore.NewMemoryStore())

	for _, id := range []string{"k1", "k2"} {
		_, err := te.AddSourceAccount(ctx, k401(id, "Fidelity").Build())
		require.NoError(t, err)
	}
	g := setupGroup(t, te, "Retirement", "Combined 401k", "k1", "k2")

	events := collect(te.Bus(), notify.SourceChanged, notify.GroupsChanged)
	require.NoError(t, te.RemoveSourceAccount(ctx, "k1"))

	require.Len(t, *events, 2)
	assert.Equal(t, notify.SourceChanged, (*events)[0].Event)
	assert.Equal(t, "k1", (*events)[0].SourceID)
	assert.Equal(t, notify.GroupsChanged, (*events)[1].Event)

	g, err := te.Groups().Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"k2"}, g.Members)

	_, err = te.Sources().Get(ctx, "k1")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	*events = nil
	require.NoError(t, te.RemoveSourceAccount(ctx, "k1"))
	assert.Empty(t, *events, "removing an unknown account is silent")
}

func TestSourceAccountEdits(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t, docstore.NewMemoryStore())
	events := collect(te.Bus(), notify.SourceChanged)

	added, err := te.AddSourceAccount(ctx, testutil.NewAccount("").Owner("Alice").Institution("Ally").Amount(5).Build())
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.Amount.IsSet(), "amounts are session values and are not stored")

	added.Description = "Emergency fund"
	require.NoError(t, te.UpdateSourceAccount(ctx, added))

	got, err := te.Sources().Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", got.Description)
	assert.Len(t, *events, 2)

	_, err = te.AddSourceAccount(ctx, testutil.NewAccount("x").Build())
	assert.ErrorIs(t, err, common.ErrInvalidAccount)
	assert.Len(t, *events, 2)
}

func TestRenameTargetRepointsMappings(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t, docstore.NewMemoryStore())
	a1 := testutil.NewAccount("a1").Owner("Alice").Roth().Institution("Vanguard")

	te.reconcile(t, []model.SourceAccount{a1.Amount(100).Build()}, model.ModeIndividual, model.BalanceOnly)
	name := te.targets(t)[0].AccountName

	events := collect(te.Bus(), notify.TargetChanged)
	require.NoError(t, te.RenameTarget(ctx, name, "  Roth  "))
	require.Len(t, *events, 1)

	linked, found, err := te.Mappings().Lookup(ctx, "a1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Roth", linked)

	// A fresh engine over the same store sees the persisted mapping.
	other := NewWithConfig(te.store, nil, DefaultConfig())
	linked, found, err = other.Mappings().Lookup(ctx, "a1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Roth", linked)

	err = te.RenameTarget(ctx, "missing", "Other")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.Len(t, *events, 1)
}

func TestUnusedAndUngrouped(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t, docstore.NewMemoryStore())

	for _, id := range []string{"k1", "k2", "k3"} {
		_, err := te.AddSourceAccount(ctx, k401(id, "Fidelity").Build())
		require.NoError(t, err)
	}
	require.NoError(t, te.Targets().Save(ctx, []model.TargetAccount{
		{AccountName: "Combined 401k"},
		{AccountName: "Old Savings"},
	}))
	setupGroup(t, te, "Retirement", " Combined  401k ", "k1", "k2")

	ungrouped, err := te.UngroupedAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, ungrouped, 1)
	assert.Equal(t, "k3", ungrouped[0].ID)

	unused, err := te.UnusedTargets(ctx)
	require.NoError(t, err)
	require.Len(t, unused, 1)
	assert.Equal(t, "Old Savings", unused[0].AccountName)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	te := newTestEngine(t, store)

	_, err := te.AddSourceAccount(ctx, testutil.NewAccount("a1").Owner("Alice").Build())
	require.NoError(t, err)
	setupGroup(t, te, "Brokerage", "", "a1")
	te.reconcile(t, []model.SourceAccount{testutil.NewAccount("a1").Owner("Alice").Institution("Ally").Amount(10).Build()}, model.ModeIndividual, model.BalanceOnly)

	events := collect(te.Bus(), notify.Reset)
	require.NoError(t, te.Reset(ctx))
	assert.Len(t, *events, 1)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, found, err := te.Mappings().Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, found)

	// The next run starts from zero again.
	res := te.reconcile(t, []model.SourceAccount{testutil.NewAccount("a1").Owner("Alice").Institution("Ally").Amount(10).Build()}, model.ModeIndividual, model.BalanceOnly)
	assert.Equal(t, 1, res.Created)
	assertDecimal(t, 10, te.bucket(t, model.BucketBrokerage))
}

func TestRemovedSourceReleasesTarget(t *testing.T) {
	tests := []struct {
		name        string
		remove      bool
		wantTargets int
		wantMyIRA   int64
	}{
		{name: "removed source frees its target for structural match", remove: true, wantTargets: 1, wantMyIRA: 200},
		{name: "linked source keeps its target", remove: false, wantTargets: 2, wantMyIRA: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			te := newTestEngine(t, docstore.NewMemoryStore())
			ira := func(id string) *testutil.AccountBuilder {
				return testutil.NewAccount(id).Owner("Alice").Roth().Institution("Vanguard")
			}

			_, err := te.AddSourceAccount(ctx, ira("a").Build())
			require.NoError(t, err)
			te.reconcile(t, []model.SourceAccount{ira("a").Amount(100).Build()}, model.ModeIndividual, model.BalanceOnly)
			require.NoError(t, te.RenameTarget(ctx, te.targets(t)[0].AccountName, "My IRA"))

			if tt.remove {
				require.NoError(t, te.RemoveSourceAccount(ctx, "a"))
			}
			_, linked, err := te.Mappings().Lookup(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, !tt.remove, linked)

			te.reconcile(t, []model.SourceAccount{ira("b").Amount(200).Build()}, model.ModeIndividual, model.BalanceOnly)

			targets := te.targets(t)
			require.Len(t, targets, tt.wantTargets)
			assert.Equal(t, "My IRA", targets[0].AccountName)
			assertAmount(t, tt.wantMyIRA, targets[0].Balance)
		})
	}
}

func TestRenameTargetIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	te := newTestEngine(t, store)
	te.reconcile(t, []model.SourceAccount{
		testutil.NewAccount("a1").Owner("Alice").Roth().Institution("Vanguard").Amount(100).Build(),
	}, model.ModeIndividual, model.BalanceOnly)
	name := te.targets(t)[0].AccountName

	boom := errors.New("disk full")
	store.FailWrites(boom)
	err := te.RenameTarget(ctx, name, "My IRA")
	require.ErrorIs(t, err, boom)
	store.FailWrites(nil)

	assert.Equal(t, name, te.targets(t)[0].AccountName)
	linked, _, err := te.Mappings().Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, name, linked, "the link still points at the unrenamed target")

	require.NoError(t, te.RenameTarget(ctx, name, "My IRA"))
	linked, _, err = te.Mappings().Lookup(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "My IRA", linked)
}
