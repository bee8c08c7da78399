// Package engine implements the reconciliation engine that keeps the target
// (Accounts) ledger in step with the source (liquid assets) ledger.
//
// A run takes a batch of source accounts, computes balance deltas against the
// snapshot history, writes the affected target accounts, and appends a new
// snapshot. Every document a run touches is staged in memory and persisted
// with one store write, so a failed write leaves nothing committed.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/networth/internal/category"
	"github.com/Veraticus/networth/internal/common"
	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/groups"
	"github.com/Veraticus/networth/internal/ledger"
	"github.com/Veraticus/networth/internal/matcher"
	"github.com/Veraticus/networth/internal/model"
	"github.com/Veraticus/networth/internal/naming"
	"github.com/Veraticus/networth/internal/notify"
	"github.com/Veraticus/networth/internal/snapshot"
)

// Config holds configuration options for the engine.
type Config struct {
	Clock      func() time.Time
	JointOwner string
	Rules      []category.Rule
	Retention  int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		JointOwner: naming.DefaultJointOwner,
		Retention:  snapshot.DefaultRetention,
		Clock:      time.Now,
	}
}

// Result summarizes a reconciliation run.
type Result struct {
	SnapshotID      string
	Method          model.UpdateMode
	ProcessedCount  int
	GroupsProcessed int
	Created         int
	Updated         int
	Changed         bool
}

// Engine orchestrates reconciliation and group management.
type Engine struct {
	store    docstore.Store
	bus      *notify.Bus
	sources  *ledger.Source
	targets  *ledger.Target
	groups   *groups.Registry
	records  *snapshot.Store
	mappings *naming.Mappings
	matcher  matcher.Matcher
	table    *category.Table
	clock    func() time.Time
	namer    naming.Namer
	mu       sync.Mutex
}

// New creates an engine with the default configuration.
func New(store docstore.Store, bus *notify.Bus) *Engine {
	return NewWithConfig(store, bus, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(store docstore.Store, bus *notify.Bus, cfg Config) *Engine {
	if bus == nil {
		bus = notify.NewBus()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	namer := naming.New(cfg.JointOwner)
	return &Engine{
		store:    store,
		bus:      bus,
		sources:  ledger.NewSource(store),
		targets:  ledger.NewTarget(store),
		groups:   groups.NewRegistry(store),
		records:  snapshot.NewStore(store, cfg.Retention),
		mappings: naming.NewMappings(store),
		matcher:  matcher.New(namer),
		table:    category.NewTable(cfg.Rules),
		clock:    cfg.Clock,
		namer:    namer,
	}
}

// Bus returns the notification bus the engine publishes on.
func (e *Engine) Bus() *notify.Bus { return e.bus }

// Sources returns the source ledger.
func (e *Engine) Sources() *ledger.Source { return e.sources }

// Targets returns the target ledger.
func (e *Engine) Targets() *ledger.Target { return e.targets }

// Groups returns the group registry.
func (e *Engine) Groups() *groups.Registry { return e.groups }

// Records returns the snapshot store.
func (e *Engine) Records() *snapshot.Store { return e.records }

// Mappings returns the name-mapping cache.
func (e *Engine) Mappings() *naming.Mappings { return e.mappings }

// Namer returns the namer used for canonical names.
func (e *Engine) Namer() naming.Namer { return e.namer }

// run carries the staged state of one reconciliation.
type run struct {
	now          time.Time
	kind         model.UpdateKind
	records      []model.Snapshot
	targets      []model.TargetAccount
	agg          model.Aggregates
	links        map[string]string
	linkedTo     map[int]string
	groupTotals  map[string]model.Buckets
	result       Result
	targetsDirty bool
	aggDirty     bool
}

// Reconcile applies batch to the target ledger. mode selects individual or
// group reconciliation; kind selects which target fields are written.
func (e *Engine) Reconcile(ctx context.Context, batch []model.SourceAccount, mode model.UpdateMode, kind model.UpdateKind) (Result, error) {
	if !mode.Valid() {
		return Result{}, fmt.Errorf("%w: %q", common.ErrInvalidMode, mode)
	}
	if !kind.Valid() {
		return Result{}, fmt.Errorf("%w: %q", common.ErrInvalidKind, kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	slog.Info("Starting reconciliation",
		"mode", mode,
		"kind", kind,
		"accounts", len(batch))

	r, err := e.load(ctx, kind)
	if err != nil {
		return Result{}, err
	}
	r.result.Method = mode

	switch mode {
	case model.ModeIndividual:
		e.reconcileIndividual(r, batch)
	case model.ModeGroup:
		if err := e.reconcileGroups(ctx, r, batch); err != nil {
			return Result{}, err
		}
	}

	record, err := e.commit(ctx, r, batch, mode)
	if err != nil {
		return Result{}, err
	}
	r.result.SnapshotID = record.ID

	e.publish(r, record.Period)

	slog.Info("Reconciliation complete",
		"mode", mode,
		"processed", r.result.ProcessedCount,
		"groups", r.result.GroupsProcessed,
		"created", r.result.Created,
		"updated", r.result.Updated,
		"snapshot", record.ID)

	return r.result, nil
}

func (e *Engine) load(ctx context.Context, kind model.UpdateKind) (*run, error) {
	targets, err := e.targets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load target accounts: %w", err)
	}
	records, err := e.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	agg, err := e.loadAggregates(ctx)
	if err != nil {
		return nil, err
	}
	links, err := e.mappings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	r := &run{
		now:         e.clock(),
		kind:        kind,
		records:     records,
		targets:     targets,
		agg:         agg,
		links:       links,
		linkedTo:    make(map[int]string),
		groupTotals: make(map[string]model.Buckets),
	}

	// Index targets already linked to a source account so structural
	// matching never hands one source's target to another.
	for id, name := range links {
		if i := ledger.IndexByName(targets, name); i >= 0 {
			if _, taken := r.linkedTo[i]; !taken || id < r.linkedTo[i] {
				r.linkedTo[i] = id
			}
		}
	}
	return r, nil
}

func (e *Engine) loadAggregates(ctx context.Context) (model.Aggregates, error) {
	var agg model.Aggregates
	if _, err := docstore.Read(ctx, e.store, docstore.KeyAggregates, &agg); err != nil {
		return model.Aggregates{}, fmt.Errorf("failed to load aggregates: %w", err)
	}
	return agg.Clone(), nil
}

// commit stages every document the run changed plus the new snapshot and
// sync settings, and persists them with a single write.
func (e *Engine) commit(ctx context.Context, r *run, batch []model.SourceAccount, mode model.UpdateMode) (model.Snapshot, error) {
	b := docstore.NewBatch()

	if r.targetsDirty {
		if err := e.targets.Stage(b, r.targets); err != nil {
			return model.Snapshot{}, err
		}
	}
	if r.aggDirty {
		r.agg.UpdatedAt = r.now
		if err := b.Set(docstore.KeyAggregates, r.agg); err != nil {
			return model.Snapshot{}, err
		}
	}
	if err := b.Set(docstore.KeyNameMappings, r.links); err != nil {
		return model.Snapshot{}, err
	}

	var settings model.SyncSettings
	if _, err := docstore.Read(ctx, e.store, docstore.KeySyncSettings, &settings); err != nil {
		return model.Snapshot{}, err
	}
	settings.LastRunAt = r.now
	settings.LastMode = mode
	settings.LastKind = r.kind
	settings.RunCount++
	if err := b.Set(docstore.KeySyncSettings, settings); err != nil {
		return model.Snapshot{}, err
	}

	record := model.Snapshot{
		Timestamp:  r.now,
		Period:     model.PeriodOf(r.now),
		Mode:       mode,
		UpdateKind: r.kind,
		Totals:     r.agg.Totals.Clone(),
		Accounts:   make([]model.SnapshotEntry, 0, len(batch)),
	}
	if len(r.groupTotals) > 0 {
		record.GroupTotals = r.groupTotals
	}
	for _, a := range batch {
		record.Accounts = append(record.Accounts, model.SnapshotEntry{
			SourceAccount: a,
			Name:          e.namer.For(a),
		})
	}
	record, err := e.records.Stage(ctx, b, record)
	if err != nil {
		return model.Snapshot{}, err
	}

	if err := b.Commit(ctx, e.store); err != nil {
		common.LogError(err, "Reconciliation write failed", common.Fields{
			"documents": len(b.Keys()),
		})
		e.mappings.Invalidate()
		return model.Snapshot{}, fmt.Errorf("%w: %w", common.ErrPersist, err)
	}

	e.mappings.Apply(r.links)
	return record, nil
}

func (e *Engine) publish(r *run, period string) {
	if r.targetsDirty {
		e.bus.Publish(notify.Notification{Event: notify.TargetChanged, Period: period})
	}
	e.bus.Publish(notify.Notification{Event: notify.SourceChanged, Period: period})
}
