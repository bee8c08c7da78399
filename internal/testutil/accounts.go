package testutil

import (
	"github.com/Veraticus/networth/internal/model"
)

// AccountBuilder builds source accounts fluently.
//
// Example:
//
//	acct := testutil.NewAccount("a1").
//		Owner("Alice").
//		Roth().
//		Institution("Vanguard").
//		Amount(10000).
//		Build()
type AccountBuilder struct {
	a model.SourceAccount
}

// NewAccount starts an after-tax brokerage account with the given id.
func NewAccount(id string) *AccountBuilder {
	return &AccountBuilder{a: model.SourceAccount{
		ID:          id,
		TaxType:     model.AfterTax,
		AccountType: model.AccountBrokerage,
	}}
}

// Owner sets the owner.
func (b *AccountBuilder) Owner(owner string) *AccountBuilder {
	b.a.Owner = owner
	return b
}

// Types sets tax and account types.
func (b *AccountBuilder) Types(tax model.TaxType, account model.AccountType) *AccountBuilder {
	b.a.TaxType = tax
	b.a.AccountType = account
	return b
}

// Roth makes the account a Roth IRA.
func (b *AccountBuilder) Roth() *AccountBuilder {
	return b.Types(model.TaxFree, model.AccountIRA)
}

// Traditional401k makes the account a tax-deferred 401k.
func (b *AccountBuilder) Traditional401k() *AccountBuilder {
	return b.Types(model.TaxDeferred, model.Account401k)
}

// Institution sets the institution.
func (b *AccountBuilder) Institution(name string) *AccountBuilder {
	b.a.Institution = name
	return b
}

// Description sets the disambiguating description.
func (b *AccountBuilder) Description(desc string) *AccountBuilder {
	b.a.Description = desc
	return b
}

// Amount sets the supplied balance.
func (b *AccountBuilder) Amount(v int64) *AccountBuilder {
	b.a.Amount = model.AmountFromInt(v)
	return b
}

// Contributions sets the contributions detail field.
func (b *AccountBuilder) Contributions(v int64) *AccountBuilder {
	b.a.Contributions = model.AmountFromInt(v)
	return b
}

// Build returns the account.
func (b *AccountBuilder) Build() model.SourceAccount {
	return b.a
}
