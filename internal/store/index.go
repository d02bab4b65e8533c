package store

import (
	"strings"

	"supplytrack/internal/models"
)

// bucketCount matches the original hash table sizing; collisions are cheap
// because buckets hold slices.
const bucketCount = 1009

// NameIndex is a hash-bucketed multimap from equipment name to records.
// It holds non-owning pointers into the store's collection and is a fast
// path only: lookups that miss fall back to a linear scan in the store, and
// the index is rebuilt wholesale whenever the collection is reloaded.
type NameIndex struct {
	buckets [bucketCount][]*models.Equipment
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{}
}

// hashName is djb2 over the lowercased name, so that lookups are
// case-insensitive like the matching itself.
func hashName(s string) uint32 {
	var h uint32 = 5381
	for _, b := range []byte(strings.ToLower(s)) {
		h = h<<5 + h + uint32(b)
	}
	return h % bucketCount
}

// Insert adds a record under its name's bucket.
func (ix *NameIndex) Insert(e *models.Equipment) {
	b := hashName(e.Name)
	ix.buckets[b] = append(ix.buckets[b], e)
}

// Lookup returns the records in the query's bucket whose names contain the
// query, case-insensitively. An empty result does not mean no record
// matches; callers must fall back to a full scan.
func (ix *NameIndex) Lookup(query string) []*models.Equipment {
	q := strings.ToLower(query)

	var matches []*models.Equipment
	for _, e := range ix.buckets[hashName(query)] {
		if strings.Contains(strings.ToLower(e.Name), q) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Rebuild discards all buckets and re-inserts the given records. It must be
// used instead of incremental repair whenever the backing collection is
// replaced wholesale.
func (ix *NameIndex) Rebuild(items []*models.Equipment) {
	for i := range ix.buckets {
		ix.buckets[i] = nil
	}
	for _, e := range items {
		ix.Insert(e)
	}
}
