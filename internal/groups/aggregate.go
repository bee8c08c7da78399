package groups

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/networth/internal/model"
)

// WithMembers filters groups down to those with at least one member.
func WithMembers(groups []model.Group) []model.Group {
	out := make([]model.Group, 0, len(groups))
	for _, g := range groups {
		if len(g.Members) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// Exclusive resolves membership conflicts by first match: an account listed
// in several groups stays only in the first group, in stored order, that
// lists it. The input is not modified.
func Exclusive(groups []model.Group) []model.Group {
	owner := make(map[string]string)
	out := make([]model.Group, len(groups))
	for i, g := range groups {
		members := make([]string, 0, len(g.Members))
		for _, id := range g.Members {
			if first, taken := owner[id]; taken && first != g.ID {
				continue
			}
			owner[id] = g.ID
			members = append(members, id)
		}
		g.Members = members
		out[i] = g
	}
	return out
}

// Ungrouped returns the accounts whose id is in no group.
func Ungrouped(groups []model.Group, accounts []model.SourceAccount) []model.SourceAccount {
	grouped := make(map[string]bool)
	for _, g := range groups {
		for _, id := range g.Members {
			grouped[id] = true
		}
	}
	out := make([]model.SourceAccount, 0, len(accounts))
	for _, a := range accounts {
		if !grouped[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// Members returns the accounts in current that belong to g, in member order.
// Members missing from current are skipped.
func Members(g model.Group, current []model.SourceAccount) []model.SourceAccount {
	byID := make(map[string]model.SourceAccount, len(current))
	for _, a := range current {
		if _, seen := byID[a.ID]; !seen {
			byID[a.ID] = a
		}
	}
	out := make([]model.SourceAccount, 0, len(g.Members))
	for _, id := range g.Members {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Balance sums member amounts found in current. Unset amounts and members
// absent from current contribute zero.
func Balance(g model.Group, current []model.SourceAccount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range Members(g, current) {
		total = total.Add(a.Amount.OrZero())
	}
	return total
}

// UnusedTargets returns target accounts that no group writes to.
func UnusedTargets(groups []model.Group, targets []model.TargetAccount, normalize func(string) string) []model.TargetAccount {
	used := make(map[string]bool, len(groups))
	for _, g := range groups {
		if name := normalize(g.TargetName()); name != "" {
			used[name] = true
		}
	}
	out := make([]model.TargetAccount, 0, len(targets))
	for _, t := range targets {
		if !used[normalize(t.AccountName)] {
			out = append(out, t)
		}
	}
	return out
}
