// Package groups manages user-defined groups that fold several source
// accounts into one target account.
//
// Membership is keyed by source account id, never by computed name, so
// renaming an account does not break its grouping. A source account is
// expected to belong to at most one group; when that is violated, lookups
// return the first group in stored order.
package groups

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/model"
)

// ErrGroupNotFound is returned for unknown group ids.
var ErrGroupNotFound = errors.New("group not found")

// Registry stores groups in the groups document.
type Registry struct {
	store docstore.Store
}

// NewRegistry returns a registry over store.
func NewRegistry(store docstore.Store) *Registry {
	return &Registry{store: store}
}

// List returns every group in stored order.
func (r *Registry) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if _, err := docstore.Read(ctx, r.store, docstore.KeyGroups, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Get returns the group with id.
func (r *Registry) Get(ctx context.Context, id string) (model.Group, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return model.Group{}, err
	}
	i := indexOf(groups, id)
	if i < 0 {
		return model.Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return groups[i], nil
}

// Create adds an empty group. A blank name gets a numbered default.
func (r *Registry) Create(ctx context.Context, name string) (model.Group, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return model.Group{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Group %d", len(groups)+1)
	}
	g := model.Group{
		ID:      uuid.NewString(),
		Name:    name,
		Members: []string{},
	}
	groups = append(groups, g)
	if err := r.save(ctx, groups); err != nil {
		return model.Group{}, err
	}
	return g, nil
}

// AddMember adds sourceID to the group. Adding an existing member is a no-op.
func (r *Registry) AddMember(ctx context.Context, groupID, sourceID string) (bool, error) {
	return r.mutate(ctx, groupID, func(g *model.Group) bool {
		if g.HasMember(sourceID) {
			return false
		}
		g.Members = append(g.Members, sourceID)
		return true
	})
}

// RemoveMember removes sourceID from the group. Removing a non-member is a no-op.
func (r *Registry) RemoveMember(ctx context.Context, groupID, sourceID string) (bool, error) {
	return r.mutate(ctx, groupID, func(g *model.Group) bool {
		i := slices.Index(g.Members, sourceID)
		if i < 0 {
			return false
		}
		g.Members = slices.Delete(g.Members, i, i+1)
		return true
	})
}

// UpdateMetadata merges the set fields of patch into the group.
func (r *Registry) UpdateMetadata(ctx context.Context, groupID string, patch model.GroupPatch) (bool, error) {
	return r.mutate(ctx, groupID, func(g *model.Group) bool {
		changed := false
		set := func(dst *string, src *string) {
			if src == nil {
				return
			}
			v := strings.TrimSpace(*src)
			if *dst != v {
				*dst = v
				changed = true
			}
		}
		set(&g.Name, patch.Name)
		set(&g.TargetAccountName, patch.TargetAccountName)
		set(&g.OwnerOverride, patch.OwnerOverride)
		return changed
	})
}

// Delete removes the group.
func (r *Registry) Delete(ctx context.Context, groupID string) error {
	groups, err := r.List(ctx)
	if err != nil {
		return err
	}
	i := indexOf(groups, groupID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return r.save(ctx, slices.Delete(groups, i, i+1))
}

// PruneMember removes sourceID from every group. It reports whether any
// group changed.
func (r *Registry) PruneMember(ctx context.Context, sourceID string) (bool, error) {
	b := docstore.NewBatch()
	changed, err := r.StagePrune(ctx, b, sourceID)
	if err != nil || !changed {
		return false, err
	}
	return true, b.Commit(ctx, r.store)
}

// StagePrune stages the groups without sourceID into b. It stages nothing
// and reports false when no group lists sourceID.
func (r *Registry) StagePrune(ctx context.Context, b *docstore.Batch, sourceID string) (bool, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	changed := false
	for i := range groups {
		if j := slices.Index(groups[i].Members, sourceID); j >= 0 {
			groups[i].Members = slices.Delete(groups[i].Members, j, j+1)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	return true, b.Set(docstore.KeyGroups, groups)
}

// GroupsWithMembers returns the groups that have at least one member.
func (r *Registry) GroupsWithMembers(ctx context.Context) ([]model.Group, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return WithMembers(groups), nil
}

// Ungrouped returns the accounts that belong to no group.
func (r *Registry) Ungrouped(ctx context.Context, accounts []model.SourceAccount) ([]model.SourceAccount, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return Ungrouped(groups, accounts), nil
}

// Balance sums the current amounts of the group's members.
func (r *Registry) Balance(ctx context.Context, groupID string, current []model.SourceAccount) (decimal.Decimal, error) {
	g, err := r.Get(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return Balance(g, current), nil
}

// GroupOf returns the first group containing sourceID.
func (r *Registry) GroupOf(ctx context.Context, sourceID string) (model.Group, bool, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return model.Group{}, false, err
	}
	for _, g := range groups {
		if g.HasMember(sourceID) {
			return g, true, nil
		}
	}
	return model.Group{}, false, nil
}

func (r *Registry) mutate(ctx context.Context, groupID string, fn func(*model.Group) bool) (bool, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(groups, groupID)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if !fn(&groups[i]) {
		return false, nil
	}
	return true, r.save(ctx, groups)
}

func (r *Registry) save(ctx context.Context, groups []model.Group) error {
	if groups == nil {
		groups = []model.Group{}
	}
	return docstore.Write(ctx, r.store, docstore.KeyGroups, groups)
}

func indexOf(groups []model.Group, id string) int {
	for i, g := range groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}
