// Package file implements the snapshot-file persistence backend. State is
// written in bulk at shutdown and read in bulk at startup; per-operation
// calls are no-ops. Durability between saves is therefore best-effort: a
// crash loses everything since the last SaveAll.
package file

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"supplytrack/internal/backend"
	"supplytrack/internal/filex"
	"supplytrack/internal/logging"
	"supplytrack/internal/models"
)

const (
	equipmentFileName = "equipment.dat"
	requestFileName   = "requests.dat"
)

// maxRecordCount rejects headers that cannot belong to a real snapshot.
const maxRecordCount = 1 << 20

// Backend stores both collections as length-prefixed binary snapshots under
// a single directory.
type Backend struct {
	equipmentPath string
	requestPath   string
	log           logging.Logger
}

// Open prepares the snapshot directory and returns a file backend.
func Open(dir string, log logging.Logger) (*Backend, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot dir: %w", err)
	}
	return &Backend{
		equipmentPath: filepath.Join(abs, equipmentFileName),
		requestPath:   filepath.Join(abs, requestFileName),
		log:           log,
	}, nil
}

func (b *Backend) Name() string { return "file" }

// Live is false: mutations are persisted only by SaveAll.
func (b *Backend) Live() bool { return false }

// LoadAll reads both snapshot files. A missing file signals an empty initial
// state, not an error. An unreadable or corrupt file is logged and likewise
// treated as empty, so startup never fails on bad local data.
func (b *Backend) LoadAll(ctx context.Context) (*backend.Snapshot, error) {
	snap := &backend.Snapshot{NextEquipmentID: 1, NextRequestID: 1}

	err := readSnapshot(b.equipmentPath, func(next int32) {
		snap.NextEquipmentID = int(next)
	}, func(r io.Reader) error {
		var rec equipmentRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return err
		}
		snap.Equipment = append(snap.Equipment, rec.decode())
		return nil
	})
	if err != nil {
		b.log.Warn(ctx, "equipment snapshot unreadable, starting empty",
			"path", b.equipmentPath, "error", err)
		snap.Equipment = nil
		snap.NextEquipmentID = 1
	}

	err = readSnapshot(b.requestPath, func(next int32) {
		snap.NextRequestID = int(next)
	}, func(r io.Reader) error {
		var rec requestRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return err
		}
		snap.Requests = append(snap.Requests, rec.decode())
		return nil
	})
	if err != nil {
		b.log.Warn(ctx, "request snapshot unreadable, starting empty",
			"path", b.requestPath, "error", err)
		snap.Requests = nil
		snap.NextRequestID = 1
	}

	return snap, nil
}

// SaveAll writes both snapshot files in full. Failures are returned to the
// caller; partial writes leave the previous file replaced, so the caller
// must surface the error as a data-loss risk.
func (b *Backend) SaveAll(ctx context.Context, snap *backend.Snapshot) error {
	err := writeSnapshot(b.equipmentPath, len(snap.Equipment), int32(snap.NextEquipmentID), func(w io.Writer) error {
		for _, e := range snap.Equipment {
			rec := encodeEquipment(e)
			if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save equipment snapshot: %w", err)
	}

	err = writeSnapshot(b.requestPath, len(snap.Requests), int32(snap.NextRequestID), func(w io.Writer) error {
		for _, q := range snap.Requests {
			rec := encodeRequest(q)
			if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save request snapshot: %w", err)
	}

	return nil
}

// InsertEquipment is a no-op; the store's ID stands.
func (b *Backend) InsertEquipment(_ context.Context, item *models.Equipment) (int, error) {
	return item.ID, nil
}

// UpdateEquipment is a no-op; state persists at SaveAll.
func (b *Backend) UpdateEquipment(context.Context, *models.Equipment) error { return nil }

// InsertRequest is a no-op; the store's ID stands.
func (b *Backend) InsertRequest(_ context.Context, req *models.SupplyRequest) (int, error) {
	return req.ReqID, nil
}

func (b *Backend) Close() error { return nil }

// EquipmentPath exposes the snapshot location, e.g. for offsite archiving.
func (b *Backend) EquipmentPath() string { return b.equipmentPath }

// RequestPath exposes the snapshot location, e.g. for offsite archiving.
func (b *Backend) RequestPath() string { return b.requestPath }

// readSnapshot opens path and streams its records. The file is closed on
// every path. A missing file is not an error: the callbacks simply never
// run.
func readSnapshot(path string, onHeader func(nextID int32), readRecord func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var hdr snapshotHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if hdr.Count < 0 || hdr.Count > maxRecordCount {
		return fmt.Errorf("implausible record count %d", hdr.Count)
	}

	onHeader(hdr.NextID)
	for i := int32(0); i < hdr.Count; i++ {
		if err := readRecord(f); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// writeSnapshot creates (or truncates) path and writes the header followed
// by the records. The file is closed on every path.
func writeSnapshot(path string, count int, nextID int32, writeRecords func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	hdr := snapshotHeader{Count: int32(count), NextID: nextID}
	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		_ = f.Close()
		return fmt.Errorf("header: %w", err)
	}
	if err := writeRecords(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
