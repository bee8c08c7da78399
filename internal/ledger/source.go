// Package ledger persists the two account ledgers: the source (liquid
// assets) ledger and the target (Accounts) ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/networth/internal/common"
	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/model"
)

// Ledger errors.
var (
	ErrAccountNotFound = fmt.Errorf("account %w", common.ErrNotFound)
	ErrDuplicateID     = fmt.Errorf("account id %w", common.ErrDuplicateEntry)
	ErrDuplicateName   = errors.New("account name already in use")
	ErrEmptyName       = errors.New("account name cannot be empty")
)

// Source is the source-ledger repository. Only identity fields are
// persisted, so accounts always load with unset amounts.
type Source struct {
	store docstore.Store
}

// NewSource returns a source ledger over store.
func NewSource(store docstore.Store) *Source {
	return &Source{store: store}
}

// List returns all source accounts in insertion order.
func (l *Source) List(ctx context.Context) ([]model.SourceAccount, error) {
	var accounts []model.SourceAccount
	if _, err := docstore.Read(ctx, l.store, docstore.KeySourceAccounts, &accounts); err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i] = accounts[i].Identity()
	}
	return accounts, nil
}

// Get returns the source account with id.
func (l *Source) Get(ctx context.Context, id string) (model.SourceAccount, error) {
	accounts, err := l.List(ctx)
	if err != nil {
		return model.SourceAccount{}, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return model.SourceAccount{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
}

// Add stores a new account, assigning an id when none is set.
func (l *Source) Add(ctx context.Context, account model.SourceAccount) (model.SourceAccount, error) {
	accounts, err := l.List(ctx)
	if err != nil {
		return model.SourceAccount{}, err
	}
	if strings.TrimSpace(account.Owner) == "" {
		return model.SourceAccount{}, fmt.Errorf("%w: owner is required", common.ErrInvalidAccount)
	}
	if strings.TrimSpace(account.ID) == "" {
		account.ID = uuid.NewString()
	}
	for _, a := range accounts {
		if a.ID == account.ID {
			return model.SourceAccount{}, fmt.Errorf("%w: %s", ErrDuplicateID, account.ID)
		}
	}
	account = account.Identity()
	accounts = append(accounts, account)
	if err := l.save(ctx, accounts); err != nil {
		return model.SourceAccount{}, err
	}
	return account, nil
}

// Update replaces the identity fields of an existing account.
func (l *Source) Update(ctx context.Context, account model.SourceAccount) error {
	accounts, err := l.List(ctx)
	if err != nil {
		return err
	}
	for i, a := range accounts {
		if a.ID == account.ID {
			accounts[i] = account.Identity()
			return l.save(ctx, accounts)
		}
	}
	return fmt.Errorf("%w: %s", ErrAccountNotFound, account.ID)
}

// Remove deletes the account with id. Removing an unknown id is a no-op.
func (l *Source) Remove(ctx context.Context, id string) (bool, error) {
	b := docstore.NewBatch()
	removed, err := l.StageRemove(ctx, b, id)
	if err != nil || !removed {
		return false, err
	}
	return true, b.Commit(ctx, l.store)
}

// StageRemove stages the ledger without id into b. It stages nothing and
// reports false when id is unknown.
func (l *Source) StageRemove(ctx context.Context, b *docstore.Batch, id string) (bool, error) {
	accounts, err := l.List(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]model.SourceAccount, 0, len(accounts))
	for _, a := range accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(accounts) {
		return false, nil
	}
	return true, b.Set(docstore.KeySourceAccounts, identities(kept))
}

func (l *Source) save(ctx context.Context, accounts []model.SourceAccount) error {
	if accounts == nil {
		accounts = []model.SourceAccount{}
	}
	return docstore.Write(ctx, l.store, docstore.KeySourceAccounts, identities(accounts))
}

// identity is the persisted shape of a source account.
type identity struct {
	ID          string            `json:"id"`
	Owner       string            `json:"owner"`
	TaxType     model.TaxType     `json:"taxType"`
	AccountType model.AccountType `json:"accountType"`
	Institution string            `json:"institution"`
	Description string            `json:"description,omitempty"`
}

func identities(accounts []model.SourceAccount) []identity {
	out := make([]identity, len(accounts))
	for i, a := range accounts {
		out[i] = identity{
			ID:          a.ID,
			Owner:       a.Owner,
			TaxType:     a.TaxType,
			AccountType: a.AccountType,
			Institution: a.Institution,
			Description: a.Description,
		}
	}
	return out
}
