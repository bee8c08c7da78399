package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/networth/internal/common"
	"github.com/Veraticus/networth/internal/groups"
	"github.com/Veraticus/networth/internal/ledger"
	"github.com/Veraticus/networth/internal/model"
)

// reconcileGroups writes each group with members present in the batch onto
// its target account. Accounts in no group are ignored entirely.
//
// An account listed in several groups counts only for the first of them.
// Each member's own delta feeds the running aggregate; the group's absolute
// balance, bucketed by its first present member's account and tax type, is
// held in the snapshot's GroupTotals, not in the running aggregate. Groups
// mixing types are reported but still bucketed that way.
func (e *Engine) reconcileGroups(ctx context.Context, r *run, batch []model.SourceAccount) error {
	all, err := e.groups.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}
	exclusive := groups.Exclusive(all)
	for i, g := range all {
		if dropped := len(g.Members) - len(exclusive[i].Members); dropped > 0 {
			common.LogWarn("Accounts belong to an earlier group, ignoring them here", common.Fields{
				"group_id": g.ID,
				"group":    g.Name,
				"ignored":  dropped,
			})
		}
	}
	active := groups.WithMembers(exclusive)

	grouped := make(map[string]bool)
	for _, g := range active {
		for _, id := range g.Members {
			grouped[id] = true
		}
	}
	for _, src := range batch {
		if grouped[src.ID] {
			e.applyDelta(r, src)
		}
	}

	for _, g := range active {
		members := groups.Members(g, batch)
		if len(members) == 0 {
			continue
		}

		amount, details, contributing := combine(g, members)
		first := members[0]
		if mixedTypes(members) {
			common.LogWarn("Group members differ in account or tax type, categorizing by first member", common.Fields{
				"group_id":     g.ID,
				"group":        g.Name,
				"account_type": first.AccountType,
				"tax_type":     first.TaxType,
			})
		}
		if amount.IsSet() {
			totals := model.Buckets{}
			bucket, _ := e.table.Classify(first.AccountType, first.TaxType)
			totals.Add(bucket, amount.OrZero())
			r.groupTotals[g.ID] = totals
		}

		if !writable(amount, details, r.kind) {
			continue
		}
		name := g.TargetName()
		if name == "" {
			common.LogWarn("Group has no target account name, skipping", common.Fields{"group_id": g.ID})
			continue
		}
		r.result.GroupsProcessed++
		r.result.ProcessedCount += contributing

		idx := ledger.IndexByName(r.targets, name)
		if idx >= 0 {
			if applyToTarget(&r.targets[idx], amount, details, r.kind, r.now, g.ID) {
				r.result.Updated++
				r.targetsDirty = true
			}
			continue
		}

		target := model.TargetAccount{
			Owner:       groupOwner(g, first),
			AccountName: name,
			AccountType: first.AccountType,
			Institution: first.Institution,
		}
		applyToTarget(&target, amount, details, r.kind, r.now, g.ID)
		r.targets = append(r.targets, target)
		r.result.Created++
		r.targetsDirty = true
	}

	r.result.Changed = r.targetsDirty || r.aggDirty
	return nil
}

// combine returns the group's absolute balance, its summed detail fields and
// how many members supplied any value. The balance is unset when no member
// supplied an amount.
func combine(g model.Group, members []model.SourceAccount) (model.Amount, model.Details, int) {
	var details model.Details
	anyAmount := false
	contributing := 0
	for _, m := range members {
		if m.Amount.IsSet() {
			anyAmount = true
		}
		if m.HasValues() {
			contributing++
		}
		details = details.Add(m.Details)
	}
	if !anyAmount {
		return model.Unset(), details, contributing
	}
	return model.NewAmount(groups.Balance(g, members)), details, contributing
}

func mixedTypes(members []model.SourceAccount) bool {
	for _, m := range members[1:] {
		if m.AccountType != members[0].AccountType || m.TaxType != members[0].TaxType {
			return true
		}
	}
	return false
}

func groupOwner(g model.Group, first model.SourceAccount) string {
	if owner := strings.TrimSpace(g.OwnerOverride); owner != "" {
		return owner
	}
	return first.Owner
}
