package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/model"
)

func seedTargets(t *testing.T, l *Target, names ...string) {
	t.Helper()
	accounts := make([]model.TargetAccount, 0, len(names))
	for _, n := range names {
		accounts = append(accounts, model.TargetAccount{Owner: "Alice", AccountName: n})
	}
	require.NoError(t, l.Save(context.Background(), accounts))
}

func TestTargetFindByName(t *testing.T) {
	ctx := context.Background()
	l := NewTarget(docstore.NewMemoryStore())
	seedTargets(t, l, "Roth IRA", "Brokerage")

	got, i, err := l.FindByName(ctx, "  Brokerage ")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Brokerage", got.AccountName)

	_, i, err = l.FindByName(ctx, "brokerage")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, -1, i)
}

func TestTargetRename(t *testing.T) {
	ctx := context.Background()
	l := NewTarget(docstore.NewMemoryStore())
	seedTargets(t, l, "Roth IRA", "Brokerage")

	tests := []struct {
		wantErr error
		name    string
		oldName string
		newName string
	}{
		{name: "empty new name", oldName: "Roth IRA", newName: "  ", wantErr: ErrEmptyName},
		{name: "unknown account", oldName: "Missing", newName: "Other", wantErr: ErrAccountNotFound},
		{name: "name in use", oldName: "Roth IRA", newName: "Brokerage", wantErr: ErrDuplicateName},
		{name: "success", oldName: "Roth IRA", newName: "  Retirement   Roth "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Rename(ctx, tt.oldName, tt.newName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	accounts, err := l.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Retirement Roth", accounts[0].AccountName)
}

func TestTargetStage(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	l := NewTarget(store)

	b := docstore.NewBatch()
	require.NoError(t, l.Stage(b, nil))
	require.NoError(t, b.Commit(ctx, store))

	raw, err := store.Get(ctx, docstore.KeyTargetAccounts)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestIndexByName(t *testing.T) {
	accounts := []model.TargetAccount{{AccountName: " A  B "}, {AccountName: ""}, {AccountName: "C"}}
	assert.Equal(t, 0, IndexByName(accounts, "A B"))
	assert.Equal(t, 2, IndexByName(accounts, " C "))
	assert.Equal(t, -1, IndexByName(accounts, ""))
	assert.Equal(t, -1, IndexByName(nil, "C"))
}

func TestTargetStageRenameWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	l := NewTarget(store)
	seedTargets(t, l, "Roth IRA")

	b := docstore.NewBatch()
	name, err := l.StageRename(ctx, b, "Roth IRA", " My   Roth ")
	require.NoError(t, err)
	assert.Equal(t, "My Roth", name)
	assert.Equal(t, []docstore.Key{docstore.KeyTargetAccounts}, b.Keys())

	accounts, err := l.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Roth IRA", accounts[0].AccountName, "staging leaves the store alone")
}
