package engine

import (
	"context"
	"fmt"

	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/groups"
	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/naming"
	"github.com/Veraticus/networth/internal/notify"
)

// CreateGroup creates an empty group.
func (e *Engine) CreateGroup(ctx context.Context, name string) (model.Group, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.groups.Create(ctx, name)
	if err != nil {
		return model.Group{}, err
	}
	e.groupsChanged(g.ID)
	return g, nil
}

// UpdateGroup merges patch into the group's metadata.
func (e *Engine) UpdateGroup(ctx context.Context, groupID string, patch model.GroupPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed, err := e.groups.UpdateMetadata(ctx, groupID, patch)
	if err != nil {
		return err
	}
	if changed {
		e.groupsChanged(groupID)
	}
	return nil
}

// DeleteGroup removes a group.
func (e *Engine) DeleteGroup(ctx context.Context, groupID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.groups.Delete(ctx, groupID); err != nil {
		return err
	}
	e.groupsChanged(groupID)
	return nil
}

// AddMember adds a source account to a group.
func (e *Engine) AddMember(ctx context.Context, groupID, sourceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed, err := e.groups.AddMember(ctx, groupID, sourceID)
	if err != nil {
		return err
	}
	if changed {
		e.groupsChanged(groupID)
	}
	return nil
}

// RemoveMember removes a source account from a group.
func (e *Engine) RemoveMember(ctx context.Context, groupID, sourceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed, err := e.groups.RemoveMember(ctx, groupID, sourceID)
	if err != nil {
		return err
	}
	if changed {
		e.groupsChanged(groupID)
	}
	return nil
}

// UngroupedAccounts returns source accounts that belong to no group.
func (e *Engine) UngroupedAccounts(ctx context.Context) ([]model.SourceAccount, error) {
	accounts, err := e.sources.List(ctx)
	if err != nil {
		return nil, err
	}
	return e.groups.Ungrouped(ctx, accounts)
}

// UnusedTargets returns target accounts no group writes to.
func (e *Engine) UnusedTargets(ctx context.Context) ([]model.TargetAccount, error) {
	all, err := e.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := e.targets.List(ctx)
	if err != nil {
		return nil, err
	}
	return groups.UnusedTargets(all, targets, naming.Normalize), nil
}

// AddSourceAccount stores a new source account definition.
func (e *Engine) AddSourceAccount(ctx context.Context, account model.SourceAccount) (model.SourceAccount, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added, err := e.sources.Add(ctx, account)
	if err != nil {
		return model.SourceAccount{}, err
	}
	e.bus.Publish(notify.Notification{Event: notify.SourceChanged, SourceID: added.ID})
	return added, nil
}

// UpdateSourceAccount replaces a source account's identity fields.
func (e *Engine) UpdateSourceAccount(ctx context.Context, account model.SourceAccount) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sources.Update(ctx, account); err != nil {
		return err
	}
	e.bus.Publish(notify.Notification{Event: notify.SourceChanged, SourceID: account.ID})
	return nil
}

// RemoveSourceAccount deletes a source account, drops it from every group
// and forgets its target link, all in one write, so the target it was linked
// to can be matched structurally again.
func (e *Engine) RemoveSourceAccount(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := docstore.NewBatch()
	removed, err := e.sources.StageRemove(ctx, b, id)
	if err != nil {
		return err
	}
	pruned, err := e.groups.StagePrune(ctx, b, id)
	if err != nil {
		return err
	}
	unlinked, err := e.mappings.StageForget(ctx, b, id)
	if err != nil {
		return err
	}
	if b.Len() == 0 {
		return nil
	}
	if err := b.Commit(ctx, e.store); err != nil {
		e.mappings.Invalidate()
		return fmt.Errorf("failed to remove source account %s: %w", id, err)
	}
	if unlinked {
		e.mappings.Forget(id)
	}

	if removed {
		e.bus.Publish(notify.Notification{Event: notify.SourceChanged, SourceID: id})
	}
	if pruned {
		e.groupsChanged("")
	}
	return nil
}

// RenameTarget renames a target account and repoints name mappings that
// referred to the old name. Both documents are written together.
func (e *Engine) RenameTarget(ctx context.Context, oldName, newName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := docstore.NewBatch()
	renamed, err := e.targets.StageRename(ctx, b, oldName, newName)
	if err != nil {
		return err
	}

	links, err := e.mappings.Snapshot(ctx)
	if err != nil {
		return err
	}
	old := naming.Normalize(oldName)
	repointed := make(map[string]string)
	for id, name := range links {
		if naming.Normalize(name) == old {
			repointed[id] = renamed
		}
	}
	if len(repointed) > 0 {
		if err := e.mappings.Stage(ctx, b, repointed); err != nil {
			return err
		}
	}

	if err := b.Commit(ctx, e.store); err != nil {
		e.mappings.Invalidate()
		return fmt.Errorf("failed to rename target %s: %w", oldName, err)
	}
	e.mappings.Apply(repointed)

	e.bus.Publish(notify.Notification{Event: notify.TargetChanged})
	return nil
}

// Aggregates returns the running category totals.
func (e *Engine) Aggregates(ctx context.Context) (model.Aggregates, error) {
	return e.loadAggregates(ctx)
}

// SyncSettings returns what the last reconciliation used.
func (e *Engine) SyncSettings(ctx context.Context) (model.SyncSettings, error) {
	var settings model.SyncSettings
	if _, err := docstore.Read(ctx, e.store, docstore.KeySyncSettings, &settings); err != nil {
		return model.SyncSettings{}, err
	}
	return settings, nil
}

// Reset deletes every dataset and notifies subscribers.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Delete(ctx, docstore.AllKeys...); err != nil {
		return fmt.Errorf("failed to reset datasets: %w", err)
	}
	e.mappings.Invalidate()
	e.bus.Publish(notify.Notification{Event: notify.Reset})
	return nil
}

func (e *Engine) groupsChanged(groupID string) {
	e.bus.Publish(notify.Notification{Event: notify.GroupsChanged, GroupID: groupID})
}
