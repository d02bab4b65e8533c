// Package postgres implements the database persistence backend over the pgx
// stdlib driver. Mutations are replicated row by row as they happen; LoadAll
// and SaveAll bracket the process lifetime.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"supplytrack/internal/backend"
	"supplytrack/internal/backend/postgres/migrations"
	"supplytrack/internal/common"
	"supplytrack/internal/dbx"
	"supplytrack/internal/logging"
	"supplytrack/internal/models"
)

// Limits caps how many rows LoadAll will hand back per collection. Rows past
// the cap are logged and dropped rather than failing startup.
type Limits struct {
	MaxItems    int
	MaxRequests int
}

// Backend persists equipment and supply requests in PostgreSQL. The single
// *sql.DB is shared with the audit sink.
type Backend struct {
	db     *sql.DB
	log    logging.Logger
	limits Limits
}

// Open connects, verifies the connection, and provisions the schema. Any
// failure here is the caller's cue to fall back to the file backend.
func Open(ctx context.Context, dsn string, limits Limits, log logging.Logger) (*Backend, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	if limits.MaxItems <= 0 {
		limits.MaxItems = common.DefaultMaxItems
	}
	if limits.MaxRequests <= 0 {
		limits.MaxRequests = common.DefaultMaxRequests
	}

	b := &Backend{db: db, log: log, limits: limits}
	if err := b.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return b, nil
}

func (b *Backend) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, b.db, ".")
}

func (b *Backend) Name() string { return "postgres" }

// Live is true: every mutation is written through as it happens.
func (b *Backend) Live() bool { return true }

// DB exposes the shared handle so the audit sink can reuse the connection.
func (b *Backend) DB() dbx.DBTX { return b.db }

// LoadAll reads both tables in ID order. Rows beyond the configured caps are
// logged and dropped so an oversized table cannot blow up in-memory state.
func (b *Backend) LoadAll(ctx context.Context) (*backend.Snapshot, error) {
	snap := &backend.Snapshot{NextEquipmentID: 1, NextRequestID: 1}

	if err := b.loadEquipment(ctx, snap); err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	if err := b.loadRequests(ctx, snap); err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	return snap, nil
}

func (b *Backend) loadEquipment(ctx context.Context, snap *backend.Snapshot) error {
	query := `
		SELECT id, name, description, quantity, min_threshold, unit, location,
			last_updated, classification, checksum
		FROM equipment ORDER BY id
	`
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to select equipment: %w", err)
	}
	defer rows.Close()

	dropped := 0
	for rows.Next() {
		var item models.Equipment
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Quantity, &item.MinThreshold,
			&item.Unit, &item.Location, &item.LastUpdated, &item.Classification, &item.Checksum,
		); err != nil {
			return err
		}
		if len(snap.Equipment) >= b.limits.MaxItems {
			dropped++
			continue
		}
		snap.Equipment = append(snap.Equipment, &item)
		if item.ID >= snap.NextEquipmentID {
			snap.NextEquipmentID = item.ID + 1
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if dropped > 0 {
		b.log.Warn(ctx, "equipment table exceeds capacity, extra rows dropped",
			"capacity", b.limits.MaxItems, "dropped", dropped)
	}
	return nil
}

func (b *Backend) loadRequests(ctx context.Context, snap *backend.Snapshot) error {
	query := `
		SELECT req_id, equipment_id, requested_qty, requesting_unit,
			request_time, status, priority
		FROM supply_requests ORDER BY req_id
	`
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to select supply requests: %w", err)
	}
	defer rows.Close()

	dropped := 0
	for rows.Next() {
		var req models.SupplyRequest
		if err := rows.Scan(
			&req.ReqID, &req.EquipmentID, &req.RequestedQty, &req.RequestingUnit,
			&req.RequestTime, &req.Status, &req.Priority,
		); err != nil {
			return err
		}
		if len(snap.Requests) >= b.limits.MaxRequests {
			dropped++
			continue
		}
		snap.Requests = append(snap.Requests, &req)
		if req.ReqID >= snap.NextRequestID {
			snap.NextRequestID = req.ReqID + 1
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if dropped > 0 {
		b.log.Warn(ctx, "supply_requests table exceeds capacity, extra rows dropped",
			"capacity", b.limits.MaxRequests, "dropped", dropped)
	}
	return nil
}

// SaveAll upserts the full in-memory state in one transaction and realigns
// both ID sequences. Mutations already replicated live, so this is a final
// reconciliation pass rather than the only persistence path.
func (b *Backend) SaveAll(ctx context.Context, snap *backend.Snapshot) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range snap.Equipment {
			if err := upsertEquipment(ctx, tx, e); err != nil {
				return fmt.Errorf("upsert equipment %d: %w", e.ID, err)
			}
		}
		for _, q := range snap.Requests {
			if err := upsertRequest(ctx, tx, q); err != nil {
				return fmt.Errorf("upsert request %d: %w", q.ReqID, err)
			}
		}

		seq := `SELECT setval(pg_get_serial_sequence($1, $2), $3, false)`
		if _, err := tx.ExecContext(ctx, seq, "equipment", "id", snap.NextEquipmentID); err != nil {
			return fmt.Errorf("realign equipment sequence: %w", err)
		}
		if _, err := tx.ExecContext(ctx, seq, "supply_requests", "req_id", snap.NextRequestID); err != nil {
			return fmt.Errorf("realign request sequence: %w", err)
		}
		return nil
	})
}

func upsertEquipment(ctx context.Context, tx dbx.DBTX, e *models.Equipment) error {
	query := `
		INSERT INTO equipment (id, name, description, quantity, min_threshold, unit, location,
			last_updated, classification, checksum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			quantity = EXCLUDED.quantity,
			min_threshold = EXCLUDED.min_threshold,
			unit = EXCLUDED.unit,
			location = EXCLUDED.location,
			last_updated = EXCLUDED.last_updated,
			classification = EXCLUDED.classification,
			checksum = EXCLUDED.checksum;
	`
	_, err := tx.ExecContext(ctx, query,
		e.ID, e.Name, e.Description, e.Quantity, e.MinThreshold, e.Unit, e.Location,
		e.LastUpdated, e.Classification, e.Checksum)
	return err
}

func upsertRequest(ctx context.Context, tx dbx.DBTX, q *models.SupplyRequest) error {
	query := `
		INSERT INTO supply_requests (req_id, equipment_id, requested_qty, requesting_unit,
			request_time, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (req_id)
		DO UPDATE SET
			equipment_id = EXCLUDED.equipment_id,
			requested_qty = EXCLUDED.requested_qty,
			requesting_unit = EXCLUDED.requesting_unit,
			request_time = EXCLUDED.request_time,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority;
	`
	_, err := tx.ExecContext(ctx, query,
		q.ReqID, q.EquipmentID, q.RequestedQty, q.RequestingUnit,
		q.RequestTime, q.Status, q.Priority)
	return err
}

// InsertEquipment writes a new row and returns the database-assigned ID,
// which may differ from item.ID when the sequence is ahead of the store.
func (b *Backend) InsertEquipment(ctx context.Context, item *models.Equipment) (int, error) {
	query := `
		INSERT INTO equipment (name, description, quantity, min_threshold, unit, location,
			last_updated, classification, checksum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int
	err := b.db.QueryRowContext(ctx, query,
		item.Name, item.Description, item.Quantity, item.MinThreshold, item.Unit,
		item.Location, item.LastUpdated, item.Classification, item.Checksum,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// UpdateEquipment rewrites the mutable columns of an existing row.
func (b *Backend) UpdateEquipment(ctx context.Context, item *models.Equipment) error {
	query := `
		UPDATE equipment
		SET quantity = $2, min_threshold = $3, last_updated = $4, checksum = $5
		WHERE id = $1
	`
	res, err := b.db.ExecContext(ctx, query,
		item.ID, item.Quantity, item.MinThreshold, item.LastUpdated, item.Checksum)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// InsertRequest writes a new row and returns the database-assigned request ID.
func (b *Backend) InsertRequest(ctx context.Context, req *models.SupplyRequest) (int, error) {
	query := `
		INSERT INTO supply_requests (equipment_id, requested_qty, requesting_unit,
			request_time, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING req_id
	`
	var id int
	err := b.db.QueryRowContext(ctx, query,
		req.EquipmentID, req.RequestedQty, req.RequestingUnit,
		req.RequestTime, req.Status, req.Priority,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}
