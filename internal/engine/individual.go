package engine

import (
	"log/slog"

	"github.com/Veraticus/networth/internal/common"
	"github.com/Veraticus/networth/internal/matcher"
	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/snapshot"
)

// reconcileIndividual adds each account's delta onto the running aggregate
// and writes the account through to its own target.
func (e *Engine) reconcileIndividual(r *run, batch []model.SourceAccount) {
	for _, src := range batch {
		e.applyDelta(r, src)

		if !writable(src.Amount, src.Details, r.kind) {
			continue
		}
		r.result.ProcessedCount++

		q := matcher.Query{
			Source:     src,
			LinkedName: r.links[src.ID],
			Claimed:    r.claimedBy(src.ID),
		}
		match := e.matcher.Match(q, r.targets)

		idx := match.Index
		if match.Found() {
			slog.Debug("Matched source account",
				"source_id", src.ID,
				"target", r.targets[idx].AccountName,
				"tier", match.Tier.String())
			if applyToTarget(&r.targets[idx], src.Amount, src.Details, r.kind, r.now, "") {
				r.result.Updated++
				r.targetsDirty = true
			}
		} else {
			target := model.TargetAccount{
				Owner:       src.Owner,
				AccountName: e.namer.For(src),
				AccountType: src.AccountType,
				Institution: src.Institution,
			}
			applyToTarget(&target, src.Amount, src.Details, r.kind, r.now, "")
			r.targets = append(r.targets, target)
			idx = len(r.targets) - 1
			r.result.Created++
			r.targetsDirty = true
			slog.Debug("Created target account",
				"source_id", src.ID,
				"target", target.AccountName)
		}

		if src.ID != "" {
			r.links[src.ID] = r.targets[idx].AccountName
			if _, taken := r.linkedTo[idx]; !taken {
				r.linkedTo[idx] = src.ID
			}
		}
	}
	r.result.Changed = r.result.Changed || r.targetsDirty || r.aggDirty
}

// applyDelta routes the change since the last recorded amount into the
// running aggregate. Unset amounts leave the aggregate alone.
func (e *Engine) applyDelta(r *run, src model.SourceAccount) {
	current, ok := src.Amount.Value()
	if !ok {
		return
	}
	previous, _ := snapshot.PreviousAmount(r.records, src.ID)
	delta := current.Sub(previous)
	if delta.IsZero() {
		return
	}

	bucket, known := e.table.Apply(&r.agg, src.Owner, src.AccountType, src.TaxType, delta)
	if !known {
		common.LogWarn("Unrecognized account category, delta routed to catch-all bucket", common.Fields{
			"source_id":    src.ID,
			"account_type": src.AccountType,
			"tax_type":     src.TaxType,
			"bucket":       bucket,
			"delta":        delta.String(),
		})
	}
	r.aggDirty = true
}

// claimedBy returns the target indexes linked to a source other than id.
func (r *run) claimedBy(id string) map[int]bool {
	claimed := make(map[int]bool, len(r.linkedTo))
	for i, owner := range r.linkedTo {
		if owner != id {
			claimed[i] = true
		}
	}
	return claimed
}
