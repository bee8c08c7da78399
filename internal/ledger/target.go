package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/naming"
)

// Target is the target-ledger repository.
type Target struct {
	store docstore.Store
}

// NewTarget returns a target ledger over store.
func NewTarget(store docstore.Store) *Target {
	return &Target{store: store}
}

// List returns every target account in stored order.
func (l *Target) List(ctx context.Context) ([]model.TargetAccount, error) {
	var accounts []model.TargetAccount
	if _, err := docstore.Read(ctx, l.store, docstore.KeyTargetAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindByName returns the first account whose normalized name equals name.
func (l *Target) FindByName(ctx context.Context, name string) (model.TargetAccount, int, error) {
	accounts, err := l.List(ctx)
	if err != nil {
		return model.TargetAccount{}, -1, err
	}
	if i := IndexByName(accounts, name); i >= 0 {
		return accounts[i], i, nil
	}
	return model.TargetAccount{}, -1, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
}

// Save overwrites the whole ledger.
func (l *Target) Save(ctx context.Context, accounts []model.TargetAccount) error {
	b := docstore.NewBatch()
	if err := l.Stage(b, accounts); err != nil {
		return err
	}
	return b.Commit(ctx, l.store)
}

// Stage adds the ledger document to b.
func (l *Target) Stage(b *docstore.Batch, accounts []model.TargetAccount) error {
	if accounts == nil {
		accounts = []model.TargetAccount{}
	}
	return b.Set(docstore.KeyTargetAccounts, accounts)
}

// Rename changes an account name as a direct user edit.
func (l *Target) Rename(ctx context.Context, oldName, newName string) error {
	b := docstore.NewBatch()
	if _, err := l.StageRename(ctx, b, oldName, newName); err != nil {
		return err
	}
	return b.Commit(ctx, l.store)
}

// StageRename stages the renamed ledger into b and returns the normalized
// new name.
func (l *Target) StageRename(ctx context.Context, b *docstore.Batch, oldName, newName string) (string, error) {
	newName = naming.Normalize(newName)
	if newName == "" {
		return "", ErrEmptyName
	}
	accounts, err := l.List(ctx)
	if err != nil {
		return "", err
	}
	i := IndexByName(accounts, oldName)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrAccountNotFound, oldName)
	}
	if j := IndexByName(accounts, newName); j >= 0 && j != i {
		return "", fmt.Errorf("%w: %s", ErrDuplicateName, newName)
	}
	accounts[i].AccountName = newName
	return newName, l.Stage(b, accounts)
}

// IndexByName returns the first index whose normalized name equals name, or -1.
func IndexByName(accounts []model.TargetAccount, name string) int {
	name = naming.Normalize(name)
	if name == "" {
		return -1
	}
	for i, a := range accounts {
		if naming.Normalize(a.AccountName) == name {
			return i
		}
	}
	return -1
}
