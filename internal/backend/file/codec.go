package file

import (
	"time"

	"supplytrack/internal/models"
)

// On-disk record layouts. Every field is fixed-size so a snapshot is
// [int32 count][int32 nextID][count × record], little-endian. String fields
// occupy bounded byte arrays and are zero-terminated, matching the limits in
// models (array length = max string length + 1).

type equipmentRecord struct {
	ID             int32
	Name           [64]byte
	Description    [256]byte
	Quantity       int32
	MinThreshold   int32
	Unit           [32]byte
	Location       [64]byte
	LastUpdated    int64 // unix seconds
	Classification int32
	Checksum       [16]byte
}

type requestRecord struct {
	ReqID          int32
	EquipmentID    int32
	RequestedQty   int32
	RequestingUnit [32]byte
	RequestTime    int64 // unix seconds
	Status         int32
	Priority       int32
}

type snapshotHeader struct {
	Count  int32
	NextID int32
}

func encodeEquipment(e *models.Equipment) equipmentRecord {
	r := equipmentRecord{
		ID:             int32(e.ID),
		Quantity:       int32(e.Quantity),
		MinThreshold:   int32(e.MinThreshold),
		LastUpdated:    e.LastUpdated.Unix(),
		Classification: int32(e.Classification),
	}
	putString(r.Name[:], e.Name)
	putString(r.Description[:], e.Description)
	putString(r.Unit[:], e.Unit)
	putString(r.Location[:], e.Location)
	putString(r.Checksum[:], e.Checksum)
	return r
}

func (r *equipmentRecord) decode() *models.Equipment {
	return &models.Equipment{
		ID:             int(r.ID),
		Name:           cstr(r.Name[:]),
		Description:    cstr(r.Description[:]),
		Quantity:       int(r.Quantity),
		MinThreshold:   int(r.MinThreshold),
		Unit:           cstr(r.Unit[:]),
		Location:       cstr(r.Location[:]),
		LastUpdated:    time.Unix(r.LastUpdated, 0).UTC(),
		Classification: models.Classification(r.Classification),
		Checksum:       cstr(r.Checksum[:]),
	}
}

func encodeRequest(q *models.SupplyRequest) requestRecord {
	r := requestRecord{
		ReqID:        int32(q.ReqID),
		EquipmentID:  int32(q.EquipmentID),
		RequestedQty: int32(q.RequestedQty),
		RequestTime:  q.RequestTime.Unix(),
		Status:       int32(q.Status),
		Priority:     int32(q.Priority),
	}
	putString(r.RequestingUnit[:], q.RequestingUnit)
	return r
}

func (r *requestRecord) decode() *models.SupplyRequest {
	return &models.SupplyRequest{
		ReqID:          int(r.ReqID),
		EquipmentID:    int(r.EquipmentID),
		RequestedQty:   int(r.RequestedQty),
		RequestingUnit: cstr(r.RequestingUnit[:]),
		RequestTime:    time.Unix(r.RequestTime, 0).UTC(),
		Status:         models.RequestStatus(r.Status),
		Priority:       models.Priority(r.Priority),
	}
}

// putString copies s into dst, truncating to leave room for the
// terminating zero byte.
func putString(dst []byte, s string) {
	n := copy(dst[:len(dst)-1], s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// cstr returns the bytes of b up to the first zero byte as a string.
func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
