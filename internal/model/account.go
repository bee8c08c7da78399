// Package model defines the ledger, group and snapshot types shared by the
// reconciliation packages.
package model

import (
	"strings"
	"time"
)

// TaxType is the tax treatment of a source account.
type TaxType string

const (
	// TaxFree accounts grow untaxed (Roth).
	TaxFree TaxType = "Tax-Free"
	// TaxDeferred accounts are taxed on withdrawal (Traditional).
	TaxDeferred TaxType = "Tax-Deferred"
	// AfterTax accounts are ordinary taxable accounts.
	AfterTax TaxType = "After-Tax"
	// TaxCash marks cash holdings.
	TaxCash TaxType = "Cash"
	// TaxRoth is a legacy spelling still found in older datasets.
	TaxRoth TaxType = "Roth"
)

// AccountType is the kind of account.
type AccountType string

// Known account types.
const (
	AccountIRA       AccountType = "IRA"
	AccountBrokerage AccountType = "Brokerage"
	Account401k      AccountType = "401k"
	AccountESPP      AccountType = "ESPP"
	AccountHSA       AccountType = "HSA"
	AccountCash      AccountType = "Cash"
)

// Details holds the itemized fields that a detailed update writes through.
type Details struct {
	Contributions Amount `json:"contributions"`
	EmployerMatch Amount `json:"employerMatch"`
	Gains         Amount `json:"gains"`
	Fees          Amount `json:"fees"`
	Withdrawals   Amount `json:"withdrawals"`
}

// Any reports whether at least one detail field is set.
func (d Details) Any() bool {
	return d.Contributions.IsSet() || d.EmployerMatch.IsSet() || d.Gains.IsSet() ||
		d.Fees.IsSet() || d.Withdrawals.IsSet()
}

// Add sums two detail sets field by field; a field stays unset only when it
// is unset on both sides.
func (d Details) Add(o Details) Details {
	return Details{
		Contributions: d.Contributions.Add(o.Contributions),
		EmployerMatch: d.EmployerMatch.Add(o.EmployerMatch),
		Gains:         d.Gains.Add(o.Gains),
		Fees:          d.Fees.Add(o.Fees),
		Withdrawals:   d.Withdrawals.Add(o.Withdrawals),
	}
}

// Overlay copies every set field of o onto d and leaves the rest untouched.
// It reports whether anything changed.
func (d *Details) Overlay(o Details) bool {
	changed := false
	apply := func(dst *Amount, src Amount) {
		if src.IsSet() && !dst.Equal(src) {
			*dst = src
			changed = true
		}
	}
	apply(&d.Contributions, o.Contributions)
	apply(&d.EmployerMatch, o.EmployerMatch)
	apply(&d.Gains, o.Gains)
	apply(&d.Fees, o.Fees)
	apply(&d.Withdrawals, o.Withdrawals)
	return changed
}

// SourceAccount is one liquid-asset account definition together with the
// value supplied for it in the current session.
type SourceAccount struct {
	ID          string      `json:"id"`
	Owner       string      `json:"owner"`
	TaxType     TaxType     `json:"taxType"`
	AccountType AccountType `json:"accountType"`
	Institution string      `json:"institution"`
	Description string      `json:"description,omitempty"`
	Amount      Amount      `json:"amount"`
	Details
}

// Identity returns a copy with amount and detail fields cleared.
func (a SourceAccount) Identity() SourceAccount {
	return SourceAccount{
		ID:          a.ID,
		Owner:       a.Owner,
		TaxType:     a.TaxType,
		AccountType: a.AccountType,
		Institution: a.Institution,
		Description: a.Description,
	}
}

// HasValues reports whether the entry carries an amount or any detail field.
func (a SourceAccount) HasValues() bool {
	return a.Amount.IsSet() || a.Details.Any()
}

// UpdateKind selects which target fields a reconciliation writes.
type UpdateKind string

const (
	// BalanceOnly writes the balance only.
	BalanceOnly UpdateKind = "balance-only"
	// Detailed writes the balance and the detail fields.
	Detailed UpdateKind = "detailed"
	// DetailedPreserveBalance writes detail fields and never the balance.
	DetailedPreserveBalance UpdateKind = "detailed-preserve-balance"
)

// Valid reports whether k is a known update kind.
func (k UpdateKind) Valid() bool {
	switch k {
	case BalanceOnly, Detailed, DetailedPreserveBalance:
		return true
	}
	return false
}

// WritesBalance reports whether this kind may overwrite a target balance.
func (k UpdateKind) WritesBalance() bool { return k != DetailedPreserveBalance }

// WritesDetails reports whether this kind writes detail fields.
func (k UpdateKind) WritesDetails() bool { return k != BalanceOnly }

// UpdateMode selects how source accounts reach the target ledger.
type UpdateMode string

const (
	// ModeIndividual reconciles each source account against its own target.
	ModeIndividual UpdateMode = "individual"
	// ModeGroup reconciles groups of source accounts onto one target each.
	ModeGroup UpdateMode = "group"
)

// Valid reports whether m is a known update mode.
func (m UpdateMode) Valid() bool { return m == ModeIndividual || m == ModeGroup }

// Provenance records how a target account was last written.
type Provenance struct {
	UpdatedAt  time.Time  `json:"updatedAt"`
	UpdateKind UpdateKind `json:"updateKind,omitempty"`
	GroupID    string     `json:"groupId,omitempty"`
}

// TargetAccount is an entry of the independently edited Accounts ledger.
type TargetAccount struct {
	Owner       string      `json:"owner"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	Institution string      `json:"institution"`
	Balance     Amount      `json:"balance"`
	Details
	Provenance Provenance `json:"provenance"`
}

// SameOwner compares owners case-insensitively after trimming.
func SameOwner(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
