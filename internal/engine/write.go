package engine

import (
	"time"

	"github.com/Veraticus/networth/internal/model"
)

// writable reports whether kind would write anything from these values.
func writable(amount model.Amount, details model.Details, kind model.UpdateKind) bool {
	if kind.WritesBalance() && amount.IsSet() {
		return true
	}
	return kind.WritesDetails() && details.Any()
}

// applyToTarget writes values onto t under kind. Unset values never
// overwrite: the balance is replaced only when amount is set and kind allows
// it, and detail fields are replaced one by one. Provenance is stamped only
// when something changed. It reports whether t changed.
func applyToTarget(t *model.TargetAccount, amount model.Amount, details model.Details, kind model.UpdateKind, now time.Time, groupID string) bool {
	changed := false
	if kind.WritesBalance() && amount.IsSet() && !t.Balance.Equal(amount) {
		t.Balance = amount
		changed = true
	}
	if kind.WritesDetails() && t.Details.Overlay(details) {
		changed = true
	}
	if changed || t.Provenance.UpdatedAt.IsZero() {
		t.Provenance = model.Provenance{
			UpdatedAt:  now,
			UpdateKind: kind,
			GroupID:    groupID,
		}
	}
	return changed
}
