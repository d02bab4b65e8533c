// Package models defines the equipment and supply-request records held by
// the store, together with their enumerated fields and input drafts.
package models

import "time"

// Classification is the handling level assigned to an equipment record.
type Classification int

const (
	ClassUnclassified Classification = iota
	ClassRestricted
	ClassConfidential
	ClassSecret
)

var classificationNames = [...]string{"UNCLASSIFIED", "RESTRICTED", "CONFIDENTIAL", "SECRET"}

func (c Classification) String() string {
	if c < ClassUnclassified || c > ClassSecret {
		return "UNKNOWN"
	}
	return classificationNames[c]
}

// Valid reports whether c is within the enumerated range.
func (c Classification) Valid() bool {
	return c >= ClassUnclassified && c <= ClassSecret
}

// StockStatus is the derived resupply state of an equipment record.
// Low takes precedence over Watch; see store.StatusOf.
type StockStatus int

const (
	StockOK StockStatus = iota
	StockWatch
	StockLow
)

var stockStatusNames = [...]string{"OK", "WATCH", "LOW"}

func (s StockStatus) String() string {
	if s < StockOK || s > StockLow {
		return "UNKNOWN"
	}
	return stockStatusNames[s]
}

// Equipment is a tracked inventory record.
//
// ID is unique across all records currently held; it is assigned by the
// allocator, or by the database on insert when the database backend is
// active. Checksum is a 4-digit integrity tag recomputed on every quantity
// mutation (see store.Checksum); it flags accidental corruption, not
// tampering.
type Equipment struct {
	ID             int
	Name           string
	Description    string
	Quantity       int
	MinThreshold   int
	Unit           string
	Location       string
	LastUpdated    time.Time
	Classification Classification
	Checksum       string
}
