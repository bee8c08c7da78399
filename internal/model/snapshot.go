package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is an aggregate category that balance deltas are routed into.
type Bucket string

// Aggregate buckets.
const (
	BucketTaxFree       Bucket = "taxFree"
	BucketTaxDeferred   Bucket = "taxDeferred"
	BucketBrokerage     Bucket = "brokerage"
	BucketESPP          Bucket = "espp"
	BucketHSA           Bucket = "hsa"
	BucketCash          Bucket = "cash"
	BucketUncategorized Bucket = "uncategorized"
)

// AllBuckets lists buckets in display order.
var AllBuckets = []Bucket{
	BucketTaxFree, BucketTaxDeferred, BucketBrokerage,
	BucketESPP, BucketHSA, BucketCash, BucketUncategorized,
}

// Buckets maps each bucket to its total.
type Buckets map[Bucket]decimal.Decimal

// Add adds v to bucket b.
func (bs Buckets) Add(b Bucket, v decimal.Decimal) {
	bs[b] = bs[b].Add(v)
}

// Total sums every bucket.
func (bs Buckets) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range bs {
		total = total.Add(v)
	}
	return total
}

// Clone returns an independent copy.
func (bs Buckets) Clone() Buckets {
	out := make(Buckets, len(bs))
	for k, v := range bs {
		out[k] = v
	}
	return out
}

// Aggregates is the running total maintained by individual reconciliation.
type Aggregates struct {
	UpdatedAt time.Time          `json:"updatedAt"`
	Totals    Buckets            `json:"totals"`
	ByOwner   map[string]Buckets `json:"byOwner"`
}

// Clone returns an independent copy.
func (a Aggregates) Clone() Aggregates {
	out := Aggregates{
		UpdatedAt: a.UpdatedAt,
		Totals:    a.Totals.Clone(),
		ByOwner:   make(map[string]Buckets, len(a.ByOwner)),
	}
	if out.Totals == nil {
		out.Totals = Buckets{}
	}
	for owner, bs := range a.ByOwner {
		out.ByOwner[owner] = bs.Clone()
	}
	return out
}

// SnapshotEntry is a source account as recorded by a reconciliation run.
type SnapshotEntry struct {
	SourceAccount
	Name string `json:"name"`
}

// Snapshot is an immutable record of one reconciliation run.
type Snapshot struct {
	Timestamp   time.Time          `json:"timestamp"`
	GroupTotals map[string]Buckets `json:"groupTotals,omitempty"`
	Totals      Buckets            `json:"totals"`
	ID          string             `json:"id"`
	Period      string             `json:"period"`
	Mode        UpdateMode         `json:"mode"`
	UpdateKind  UpdateKind         `json:"updateKind"`
	Accounts    []SnapshotEntry    `json:"accounts"`
}

// PeriodOf returns the monthly period key for t, e.g. "2024-03".
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}

// SyncSettings remembers how the last reconciliation was run.
type SyncSettings struct {
	LastRunAt time.Time  `json:"lastRunAt"`
	LastMode  UpdateMode `json:"lastMode"`
	LastKind  UpdateKind `json:"lastKind"`
	RunCount  int        `json:"runCount"`
}
