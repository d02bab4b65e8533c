package store

import (
	"fmt"
	"strings"

	"supplytrack/internal/models"
)

// StatusOf classifies a record's stock level. The Low check strictly
// precedes the Watch check: at or below the minimum threshold is Low, at or
// below 1.5× the threshold (rounded down) is Watch, anything above is OK.
func StatusOf(e *models.Equipment) models.StockStatus {
	switch {
	case e.Quantity <= e.MinThreshold:
		return models.StockLow
	case e.Quantity <= e.MinThreshold*3/2:
		return models.StockWatch
	default:
		return models.StockOK
	}
}

// Checksum derives the 4-digit integrity tag for a record: the sum of ID,
// quantity, minimum threshold, and the byte values of the name, reduced
// modulo 10000. The arithmetic must stay exactly this to keep existing
// snapshots and database rows verifiable.
func Checksum(e *models.Equipment) string {
	sum := e.ID + e.Quantity + e.MinThreshold
	for _, b := range []byte(e.Name) {
		sum += int(b)
	}
	return fmt.Sprintf("%04d", sum%10000)
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
