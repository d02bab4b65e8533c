// Package backend defines the persistence contract shared by the file and
// database backends, and the startup policy that picks between them.
package backend

import (
	"context"

	"supplytrack/internal/models"
)

// Snapshot is the bulk transfer unit between the store and a backend: both
// collections plus the next-ID counters needed to re-seed the allocator.
type Snapshot struct {
	Equipment []*models.Equipment
	Requests  []*models.SupplyRequest

	// NextEquipmentID and NextRequestID are the counters to resume issuing
	// IDs from. Backends that do not persist counters (the database derives
	// them from max(id)+1) fill them in during LoadAll.
	NextEquipmentID int
	NextRequestID   int
}

// Backend durably saves and loads the store's collections.
//
// A backend is selected once at startup and fixed for the process lifetime.
// Live backends replicate every mutation as it happens and use SaveAll as a
// final reconciliation pass; non-live backends ignore per-operation calls
// and persist only via SaveAll at shutdown.
type Backend interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Live reports whether mutations are replicated per-operation.
	Live() bool

	// LoadAll reads the full persisted state. A missing or empty data source
	// is not an error; it yields an empty snapshot.
	LoadAll(ctx context.Context) (*Snapshot, error)

	// SaveAll writes the full state in one pass.
	SaveAll(ctx context.Context, snap *Snapshot) error

	// InsertEquipment persists a new record and returns the ID the backend
	// assigned to it. Non-live backends return item.ID unchanged.
	InsertEquipment(ctx context.Context, item *models.Equipment) (int, error)

	// UpdateEquipment persists quantity, checksum, and timestamp changes for
	// an existing record.
	UpdateEquipment(ctx context.Context, item *models.Equipment) error

	// InsertRequest persists a new supply request and returns its assigned ID.
	InsertRequest(ctx context.Context, req *models.SupplyRequest) (int, error)

	// Close releases backend resources. It is called exactly once.
	Close() error
}
