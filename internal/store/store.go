// Package store owns the in-memory equipment and supply-request collections,
// keeps the name index consistent with them, and synchronizes state with the
// active persistence backend. All operations run synchronously on the calling
// goroutine; the store has no internal locking and is not safe for concurrent
// use.
package store

import (
	"context"
	"fmt"
	"iter"
	"time"

	"supplytrack/internal/audit"
	"supplytrack/internal/backend"
	"supplytrack/internal/common"
	"supplytrack/internal/logging"
	"supplytrack/internal/models"
)

// Options bounds the collections. Zero values fall back to the defaults
// carried over from the original fixed buffers.
type Options struct {
	MaxItems    int
	MaxRequests int
}

// Store is the record store. Construct with New, load persisted state with
// Load, and flush with SaveAll before Close at shutdown.
type Store struct {
	backend backend.Backend
	sink    audit.Sink
	log     logging.Logger

	items    []*models.Equipment
	requests []*models.SupplyRequest
	byID     map[int]*models.Equipment

	index *NameIndex
	alloc *Allocator

	maxItems    int
	maxRequests int

	nowFn func() time.Time
}

// New returns an empty store bound to the given backend and audit sink.
func New(b backend.Backend, sink audit.Sink, log logging.Logger, opts Options) *Store {
	if opts.MaxItems <= 0 {
		opts.MaxItems = common.DefaultMaxItems
	}
	if opts.MaxRequests <= 0 {
		opts.MaxRequests = common.DefaultMaxRequests
	}
	if sink == nil {
		sink = audit.Nop{}
	}

	return &Store{
		backend:     b,
		sink:        sink,
		log:         log,
		byID:        make(map[int]*models.Equipment),
		index:       NewNameIndex(),
		alloc:       NewAllocator(),
		maxItems:    opts.MaxItems,
		maxRequests: opts.MaxRequests,
		nowFn:       time.Now,
	}
}

// Load replaces the in-memory state with the backend's persisted state,
// rebuilds the name index, and re-seeds the allocator so newly created IDs
// never collide with loaded ones. A missing data source loads as empty.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.backend.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	items := snap.Equipment
	if len(items) > s.maxItems {
		s.log.Warn(ctx, "stored equipment exceeds capacity, truncating",
			"stored", len(items), "max", s.maxItems)
		items = items[:s.maxItems]
	}
	requests := snap.Requests
	if len(requests) > s.maxRequests {
		s.log.Warn(ctx, "stored requests exceed capacity, truncating",
			"stored", len(requests), "max", s.maxRequests)
		requests = requests[:s.maxRequests]
	}

	s.items = items
	s.requests = requests

	s.byID = make(map[int]*models.Equipment, len(items))
	for _, e := range items {
		s.byID[e.ID] = e
		s.alloc.Advance(KindEquipment, e.ID)
	}
	s.index.Rebuild(items)
	s.alloc.Resume(KindEquipment, snap.NextEquipmentID)

	for _, r := range requests {
		s.alloc.Advance(KindRequest, r.ReqID)
	}
	s.alloc.Resume(KindRequest, snap.NextRequestID)

	s.log.Info(ctx, "state loaded",
		"backend", s.backend.Name(), "items", len(items), "requests", len(requests))
	return nil
}

// Create validates the draft, allocates an ID, computes the derived fields,
// inserts the record into the collection and the name index, replicates to a
// live backend, and records the action. Returns common.ErrCapacityExceeded
// when the collection is full and common.ErrValidation on bad input.
func (s *Store) Create(ctx context.Context, draft models.EquipmentDraft) (*models.Equipment, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if len(s.items) >= s.maxItems {
		return nil, fmt.Errorf("equipment: %w", common.ErrCapacityExceeded)
	}

	e := &models.Equipment{
		ID:             s.alloc.NextID(KindEquipment),
		Name:           draft.Name,
		Description:    draft.Description,
		Quantity:       draft.Quantity,
		MinThreshold:   draft.MinThreshold,
		Unit:           draft.Unit,
		Location:       draft.Location,
		LastUpdated:    s.nowFn(),
		Classification: draft.Classification,
	}
	e.Checksum = Checksum(e)

	if s.backend.Live() {
		assigned, err := s.backend.InsertEquipment(ctx, e)
		switch {
		case err != nil:
			// Keep the local record; the session continues degraded.
			s.log.Error(ctx, "equipment insert not replicated", "id", e.ID, "error", err)
		case assigned != e.ID:
			// The database assigned its own ID: resync the allocator and
			// repair the checksum, which covers the ID.
			e.ID = assigned
			s.alloc.Advance(KindEquipment, assigned)
			e.Checksum = Checksum(e)
			if err := s.backend.UpdateEquipment(ctx, e); err != nil {
				s.log.Error(ctx, "checksum repair not replicated", "id", e.ID, "error", err)
			}
		default:
			s.alloc.Advance(KindEquipment, assigned)
		}
	}

	s.items = append(s.items, e)
	s.byID[e.ID] = e
	s.index.Insert(e)

	s.sink.Record(ctx, fmt.Sprintf("Added equipment: %s (ID: %d)", e.Name, e.ID))
	return e, nil
}

// UpdateQuantity sets a new stock quantity on an existing record, refreshing
// the timestamp and checksum. Returns common.ErrNotFound for an unknown ID
// and common.ErrValidation for a negative quantity.
func (s *Store) UpdateQuantity(ctx context.Context, id, newQuantity int) (*models.Equipment, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", common.ErrValidation)
	}

	e, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("equipment %d: %w", id, common.ErrNotFound)
	}

	old := e.Quantity
	e.Quantity = newQuantity
	e.LastUpdated = s.nowFn()
	e.Checksum = Checksum(e)

	if s.backend.Live() {
		if err := s.backend.UpdateEquipment(ctx, e); err != nil {
			s.log.Error(ctx, "equipment update not replicated", "id", e.ID, "error", err)
		}
	}

	s.sink.Record(ctx, fmt.Sprintf("Updated %s quantity: %d -> %d", e.Name, old, newQuantity))
	return e, nil
}

// FindByID returns the record with the given ID or common.ErrNotFound.
func (s *Store) FindByID(id int) (*models.Equipment, error) {
	e, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("equipment %d: %w", id, common.ErrNotFound)
	}
	return e, nil
}

// FindByName returns all records whose name contains query,
// case-insensitively. The name index is consulted first; when it has no
// match the whole collection is scanned, so substring queries that the
// index cannot answer are still found.
func (s *Store) FindByName(query string) []*models.Equipment {
	if matches := s.index.Lookup(query); len(matches) > 0 {
		return matches
	}
	return scanByName(s.items, query)
}

// ListAll returns the equipment collection in insertion order. The returned
// slice is a copy; the records are shared.
func (s *Store) ListAll() []*models.Equipment {
	out := make([]*models.Equipment, len(s.items))
	copy(out, s.items)
	return out
}

// ListRequests returns the supply requests in insertion order.
func (s *Store) ListRequests() []*models.SupplyRequest {
	out := make([]*models.SupplyRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// ListLowStock yields the records whose stock status is Low, in insertion
// order. The sequence is restartable: each range restarts from the first
// low-stock record.
func (s *Store) ListLowStock() iter.Seq[*models.Equipment] {
	return func(yield func(*models.Equipment) bool) {
		for _, e := range s.items {
			if StatusOf(e) == models.StockLow {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// CreateRequest validates the draft, verifies the referenced equipment
// exists, and files a new pending supply request. No request ID is allocated
// when the equipment reference does not resolve.
func (s *Store) CreateRequest(ctx context.Context, draft models.RequestDraft) (*models.SupplyRequest, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if len(s.requests) >= s.maxRequests {
		return nil, fmt.Errorf("requests: %w", common.ErrCapacityExceeded)
	}
	if _, ok := s.byID[draft.EquipmentID]; !ok {
		return nil, fmt.Errorf("equipment %d: %w", draft.EquipmentID, common.ErrNotFound)
	}

	req := &models.SupplyRequest{
		ReqID:          s.alloc.NextID(KindRequest),
		EquipmentID:    draft.EquipmentID,
		RequestedQty:   draft.RequestedQty,
		RequestingUnit: draft.RequestingUnit,
		RequestTime:    s.nowFn(),
		Status:         models.RequestPending,
		Priority:       draft.Priority,
	}

	if s.backend.Live() {
		assigned, err := s.backend.InsertRequest(ctx, req)
		switch {
		case err != nil:
			s.log.Error(ctx, "request insert not replicated", "reqId", req.ReqID, "error", err)
		default:
			req.ReqID = assigned
			s.alloc.Advance(KindRequest, assigned)
		}
	}

	s.requests = append(s.requests, req)

	s.sink.Record(ctx, fmt.Sprintf("Supply request created: REQ-%d for equipment ID %d", req.ReqID, req.EquipmentID))
	return req, nil
}

// Len returns the number of equipment records held.
func (s *Store) Len() int { return len(s.items) }

// RequestLen returns the number of supply requests held.
func (s *Store) RequestLen() int { return len(s.requests) }

// SaveAll flushes the full state through the backend. Live backends already
// persisted every mutation and use this as a final reconciliation pass.
// Errors are returned to the caller: a failed save is a data-loss risk the
// user must see, but it never terminates the process.
func (s *Store) SaveAll(ctx context.Context) error {
	snap := &backend.Snapshot{
		Equipment:       s.items,
		Requests:        s.requests,
		NextEquipmentID: s.alloc.Peek(KindEquipment),
		NextRequestID:   s.alloc.Peek(KindRequest),
	}
	if err := s.backend.SaveAll(ctx, snap); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// scanByName is the authoritative lookup: a linear pass over all records.
func scanByName(items []*models.Equipment, query string) []*models.Equipment {
	var matches []*models.Equipment
	for _, e := range items {
		if containsFold(e.Name, query) {
			matches = append(matches, e)
		}
	}
	return matches
}
