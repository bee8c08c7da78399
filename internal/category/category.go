// Package category routes account values into aggregate buckets.
//
// Routing is an ordered table of rules evaluated top to bottom; the first
// rule whose predicate holds decides the bucket. Account-type rules come
// before tax-type rules so that, for example, an ESPP held after tax lands
// in the ESPP bucket rather than brokerage.
package category

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/networth/internal/model"
)

// Rule pairs a predicate with the bucket it selects.
type Rule struct {
	Match  func(model.AccountType, model.TaxType) bool
	Name   string
	Bucket model.Bucket
}

func accountType(t model.AccountType) func(model.AccountType, model.TaxType) bool {
	return func(at model.AccountType, _ model.TaxType) bool { return at == t }
}

func taxType(types ...model.TaxType) func(model.AccountType, model.TaxType) bool {
	return func(_ model.AccountType, tt model.TaxType) bool {
		for _, t := range types {
			if tt == t {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the standard routing table.
var DefaultRules = []Rule{
	{Name: "espp account", Match: accountType(model.AccountESPP), Bucket: model.BucketESPP},
	{Name: "hsa account", Match: accountType(model.AccountHSA), Bucket: model.BucketHSA},
	{Name: "cash account", Match: accountType(model.AccountCash), Bucket: model.BucketCash},
	{Name: "tax-free", Match: taxType(model.TaxFree), Bucket: model.BucketTaxFree},
	{Name: "tax-deferred", Match: taxType(model.TaxDeferred), Bucket: model.BucketTaxDeferred},
	{Name: "after-tax", Match: taxType(model.AfterTax, model.TaxRoth), Bucket: model.BucketBrokerage},
	{Name: "cash tax type", Match: taxType(model.TaxCash), Bucket: model.BucketCash},
}

// Table is an ordered set of routing rules.
type Table struct {
	rules []Rule
}

// NewTable returns a table over rules; nil selects DefaultRules.
func NewTable(rules []Rule) *Table {
	if rules == nil {
		rules = DefaultRules
	}
	return &Table{rules: rules}
}

// Classify returns the bucket for the given types. Combinations no rule
// recognizes go to BucketUncategorized and ok is false so callers can report
// them.
func (t *Table) Classify(at model.AccountType, tt model.TaxType) (bucket model.Bucket, ok bool) {
	for _, r := range t.rules {
		if r.Match(at, tt) {
			return r.Bucket, true
		}
	}
	return model.BucketUncategorized, false
}

// Apply adds v into the total and per-owner buckets of agg.
func (t *Table) Apply(agg *model.Aggregates, owner string, at model.AccountType, tt model.TaxType, v decimal.Decimal) (model.Bucket, bool) {
	bucket, ok := t.Classify(at, tt)
	if agg.Totals == nil {
		agg.Totals = model.Buckets{}
	}
	if agg.ByOwner == nil {
		agg.ByOwner = map[string]model.Buckets{}
	}
	agg.Totals.Add(bucket, v)
	if owner != "" {
		bs, exists := agg.ByOwner[owner]
		if !exists {
			bs = model.Buckets{}
			agg.ByOwner[owner] = bs
		}
		bs.Add(bucket, v)
	}
	return bucket, ok
}
