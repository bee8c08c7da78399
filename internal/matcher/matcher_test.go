package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/naming"
)

func rothIRA() model.SourceAccount {
	return model.SourceAccount{
		ID:          "a1",
		Owner:       "Alice",
		TaxType:     model.TaxFree,
		AccountType: model.AccountIRA,
		Institution: "Vanguard",
	}
}

func TestMatch(t *testing.T) {
	m := New(naming.New(""))

	tests := []struct {
		name       string
		source     model.SourceAccount
		linked     string
		claimed    map[int]bool
		candidates []model.TargetAccount
		wantIndex  int
		wantTier   Tier
	}{
		{
			name:   "exact canonical name",
			source: rothIRA(),
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "Alice's Vanguard Brokerage", AccountType: model.AccountBrokerage, Institution: "Vanguard"},
				{Owner: "alice", AccountName: "  Alice's  Vanguard IRA (Roth) "},
			},
			wantIndex: 1,
			wantTier:  TierExactName,
		},
		{
			name:   "name match is case-sensitive",
			source: rothIRA(),
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "alice's vanguard ira (roth)"},
			},
			wantIndex: -1,
			wantTier:  NoMatch,
		},
		{
			name:   "name match requires owner",
			source: rothIRA(),
			candidates: []model.TargetAccount{
				{Owner: "Bob", AccountName: "Alice's Vanguard IRA (Roth)"},
			},
			wantIndex: -1,
			wantTier:  NoMatch,
		},
		{
			name:   "linked name after rename",
			source: rothIRA(),
			linked: "Retirement - Roth",
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "Something Else", AccountType: model.AccountIRA, Institution: "Vanguard"},
				{Owner: "Alice", AccountName: "Retirement - Roth"},
			},
			wantIndex: 1,
			wantTier:  TierExactName,
		},
		{
			name:   "structural fallback",
			source: rothIRA(),
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "Old Brokerage", AccountType: model.AccountBrokerage, Institution: "Vanguard"},
				{Owner: "ALICE", AccountName: "My IRA", AccountType: "ira", Institution: "vanguard"},
			},
			wantIndex: 1,
			wantTier:  TierStructural,
		},
		{
			name:   "structural requires institution when source has one",
			source: rothIRA(),
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "My IRA", AccountType: model.AccountIRA, Institution: "Fidelity"},
			},
			wantIndex: -1,
			wantTier:  NoMatch,
		},
		{
			name: "structural ignores institution when source has none",
			source: model.SourceAccount{
				Owner: "Alice", TaxType: model.TaxFree, AccountType: model.AccountIRA,
			},
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "My IRA", AccountType: model.AccountIRA, Institution: "Fidelity"},
			},
			wantIndex: 0,
			wantTier:  TierStructural,
		},
		{
			name: "description disables structural matching",
			source: model.SourceAccount{
				Owner: "Alice", TaxType: model.TaxFree, AccountType: model.AccountIRA,
				Institution: "Vanguard", Description: "Inherited",
			},
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "My IRA", AccountType: model.AccountIRA, Institution: "Vanguard"},
			},
			wantIndex: -1,
			wantTier:  NoMatch,
		},
		{
			name: "description still matches by name",
			source: model.SourceAccount{
				Owner: "Alice", TaxType: model.TaxFree, AccountType: model.AccountIRA,
				Institution: "Vanguard", Description: "Inherited",
			},
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "Alice's Vanguard IRA (Roth) - Inherited"},
			},
			wantIndex: 0,
			wantTier:  TierExactName,
		},
		{
			name:    "claimed targets are skipped structurally",
			source:  rothIRA(),
			claimed: map[int]bool{0: true},
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "First IRA", AccountType: model.AccountIRA, Institution: "Vanguard"},
				{Owner: "Alice", AccountName: "Second IRA", AccountType: model.AccountIRA, Institution: "Vanguard"},
			},
			wantIndex: 1,
			wantTier:  TierStructural,
		},
		{
			name:    "claimed targets still match by name",
			source:  rothIRA(),
			claimed: map[int]bool{0: true},
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "Alice's Vanguard IRA (Roth)"},
			},
			wantIndex: 0,
			wantTier:  TierExactName,
		},
		{
			name:   "first structural candidate wins",
			source: rothIRA(),
			candidates: []model.TargetAccount{
				{Owner: "Alice", AccountName: "IRA one", AccountType: model.AccountIRA, Institution: "Vanguard"},
				{Owner: "Alice", AccountName: "IRA two", AccountType: model.AccountIRA, Institution: "Vanguard"},
			},
			wantIndex: 0,
			wantTier:  TierStructural,
		},
		{
			name:      "no candidates",
			source:    rothIRA(),
			wantIndex: -1,
			wantTier:  NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(Query{Source: tt.source, LinkedName: tt.linked, Claimed: tt.claimed}, tt.candidates)
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantTier != NoMatch, got.Found())
		})
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "exact-name", TierExactName.String())
	assert.Equal(t, "structural", TierStructural.String())
	assert.Equal(t, "none", NoMatch.String())
}
