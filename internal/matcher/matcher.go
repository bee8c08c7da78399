// Package matcher links source accounts to entries of the target ledger.
//
// Matching is two-tier and first-match-wins. Tier 1 compares names exactly:
// the name the source was last linked under, then its canonical name. Tier 2
// falls back to structure (owner, account type, institution) and is skipped
// entirely for accounts carrying a description, because descriptions exist to
// tell apart accounts that would otherwise collide structurally. When several
// candidates qualify, the earliest in candidate order wins; ambiguity is never
// reported as an error. No match means the caller creates a new target.
package matcher

import (
	"strings"

	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/naming"
)

// Tier identifies which rule produced a match.
type Tier int

const (
	// NoMatch means no candidate qualified.
	NoMatch Tier = iota
	// TierExactName matched on account name and owner.
	TierExactName
	// TierStructural matched on owner, account type and institution.
	TierStructural
)

func (t Tier) String() string {
	switch t {
	case TierExactName:
		return "exact-name"
	case TierStructural:
		return "structural"
	default:
		return "none"
	}
}

// Result is the outcome of a match.
type Result struct {
	Index int
	Tier  Tier
}

// Found reports whether a candidate matched.
func (r Result) Found() bool { return r.Tier != NoMatch }

// Query describes the source account being matched.
type Query struct {
	// Claimed marks candidate indexes already linked to another source
	// account. They stay eligible for name matches but never match
	// structurally, so two similar accounts are not folded into one target.
	Claimed    map[int]bool
	LinkedName string
	Source     model.SourceAccount
}

// Matcher finds the target account a source account reconciles into.
type Matcher interface {
	// Match returns the index of the matching candidate.
	Match(q Query, candidates []model.TargetAccount) Result
}

// MatcherImpl implements Matcher.
type MatcherImpl struct {
	namer naming.Namer
}

// New returns a matcher that derives canonical names with namer.
func New(namer naming.Namer) *MatcherImpl {
	return &MatcherImpl{namer: namer}
}

// Match implements Matcher.
func (m *MatcherImpl) Match(q Query, candidates []model.TargetAccount) Result {
	src := q.Source
	names := make([]string, 0, 2)
	if linked := naming.Normalize(q.LinkedName); linked != "" {
		names = append(names, linked)
	}
	if canonical := naming.Normalize(m.namer.For(src)); canonical != "" && (len(names) == 0 || names[0] != canonical) {
		names = append(names, canonical)
	}

	for _, name := range names {
		if i := matchByName(src.Owner, name, candidates); i >= 0 {
			return Result{Index: i, Tier: TierExactName}
		}
	}

	if strings.TrimSpace(src.Description) != "" {
		return Result{Index: -1, Tier: NoMatch}
	}

	if i := matchByStructure(src, candidates, q.Claimed); i >= 0 {
		return Result{Index: i, Tier: TierStructural}
	}
	return Result{Index: -1, Tier: NoMatch}
}

// matchByName returns the first candidate whose normalized name equals name
// (case-sensitive) and whose owner matches case-insensitively.
func matchByName(owner, name string, candidates []model.TargetAccount) int {
	for i, c := range candidates {
		if naming.Normalize(c.AccountName) == name && model.SameOwner(c.Owner, owner) {
			return i
		}
	}
	return -1
}

// matchByStructure returns the first candidate with the same owner and
// account type, and the same institution unless the source has none.
func matchByStructure(src model.SourceAccount, candidates []model.TargetAccount, claimed map[int]bool) int {
	institution := strings.TrimSpace(src.Institution)
	for i, c := range candidates {
		if claimed[i] {
			continue
		}
		if !model.SameOwner(c.Owner, src.Owner) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(string(c.AccountType)), strings.TrimSpace(string(src.AccountType))) {
			continue
		}
		if institution != "" && !strings.EqualFold(strings.TrimSpace(c.Institution), institution) {
			continue
		}
		return i
	}
	return -1
}
