// Package snapshot keeps the bounded history of reconciliation runs.
//
// Records are stored newest first in a single document. Appending beyond the
// retention limit silently discards the oldest records.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/networth/internal/docstore"
	"github.com/Veraticus/networth/internal/model"
)

// DefaultRetention is the number of records kept when none is configured.
const DefaultRetention = 100

// ErrRecordNotFound is returned for unknown record ids.
var ErrRecordNotFound = errors.New("snapshot record not found")

// Store is the record store.
type Store struct {
	store     docstore.Store
	retention int
}

// NewStore returns a record store keeping at most retention records.
func NewStore(store docstore.Store, retention int) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{store: store, retention: retention}
}

// Retention returns the configured cap.
func (s *Store) Retention() int { return s.retention }

// List returns all retained records, newest first.
func (s *Store) List(ctx context.Context) ([]model.Snapshot, error) {
	var records []model.Snapshot
	if _, err := docstore.Read(ctx, s.store, docstore.KeySnapshots, &records); err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	return records, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id string) (model.Snapshot, error) {
	records, err := s.List(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	for _, r := range records {
		if r.ID == id || (len(id) >= 8 && strings.HasPrefix(r.ID, id)) {
			return r, nil
		}
	}
	return model.Snapshot{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// MostRecent returns the newest record in period, or any period when period
// is empty.
func (s *Store) MostRecent(ctx context.Context, period string) (model.Snapshot, bool, error) {
	records, err := s.List(ctx)
	if err != nil {
		return model.Snapshot{}, false, err
	}
	for _, r := range records {
		if period == "" || r.Period == period {
			return r, true, nil
		}
	}
	return model.Snapshot{}, false, nil
}

// Append stores record, filling id and period when absent.
func (s *Store) Append(ctx context.Context, record model.Snapshot) (model.Snapshot, error) {
	b := docstore.NewBatch()
	record, err := s.Stage(ctx, b, record)
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := b.Commit(ctx, s.store); err != nil {
		return model.Snapshot{}, err
	}
	return record, nil
}

// Stage adds the record list including record to b without writing it.
func (s *Store) Stage(ctx context.Context, b *docstore.Batch, record model.Snapshot) (model.Snapshot, error) {
	records, err := s.List(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Period == "" {
		record.Period = model.PeriodOf(record.Timestamp)
	}

	records = append([]model.Snapshot{record}, records...)
	sortNewestFirst(records)
	if len(records) > s.retention {
		records = records[:s.retention]
	}
	if err := b.Set(docstore.KeySnapshots, records); err != nil {
		return model.Snapshot{}, err
	}
	return record, nil
}

// DeleteByID removes a record. Unknown ids return ErrRecordNotFound.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Snapshot, 0, len(records))
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return docstore.Write(ctx, s.store, docstore.KeySnapshots, kept)
}

// PreviousAmount returns the most recently recorded amount for a source
// account, searching records newest first and skipping entries whose amount
// was unset. Accounts never recorded yield zero.
func PreviousAmount(records []model.Snapshot, sourceID string) (decimal.Decimal, bool) {
	if sourceID == "" {
		return decimal.Zero, false
	}
	for _, r := range records {
		for _, e := range r.Accounts {
			if e.ID != sourceID {
				continue
			}
			if v, ok := e.Amount.Value(); ok {
				return v, true
			}
		}
	}
	return decimal.Zero, false
}

// sortNewestFirst orders records by timestamp descending. The sort is stable
// so records sharing a timestamp keep insertion order.
func sortNewestFirst(records []model.Snapshot) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
