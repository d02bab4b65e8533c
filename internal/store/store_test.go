package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrack/internal/backend"
	"supplytrack/internal/common"
	"supplytrack/internal/logging"
	"supplytrack/internal/models"
)

// fakeBackend implements backend.Backend in memory. With live=true it acts
// like the database backend and can assign its own IDs; with live=false it
// acts like the file backend.
type fakeBackend struct {
	live bool
	snap *backend.Snapshot

	nextDBID    int // when >0, InsertEquipment assigns this ID and increments
	insertErr   error
	updateErr   error
	saved       *backend.Snapshot
	updateCalls []int
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Live() bool   { return f.live }

func (f *fakeBackend) LoadAll(context.Context) (*backend.Snapshot, error) {
	if f.snap == nil {
		return &backend.Snapshot{NextEquipmentID: 1, NextRequestID: 1}, nil
	}
	return f.snap, nil
}

func (f *fakeBackend) SaveAll(_ context.Context, snap *backend.Snapshot) error {
	f.saved = snap
	return nil
}

func (f *fakeBackend) InsertEquipment(_ context.Context, item *models.Equipment) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if f.nextDBID > 0 {
		id := f.nextDBID
		f.nextDBID++
		return id, nil
	}
	return item.ID, nil
}

func (f *fakeBackend) UpdateEquipment(_ context.Context, item *models.Equipment) error {
	f.updateCalls = append(f.updateCalls, item.ID)
	return f.updateErr
}

func (f *fakeBackend) InsertRequest(_ context.Context, req *models.SupplyRequest) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	return req.ReqID, nil
}

func (f *fakeBackend) Close() error { return nil }

// recordingSink captures audit actions.
type recordingSink struct {
	actions []string
}

func (r *recordingSink) Record(_ context.Context, action string) {
	r.actions = append(r.actions, action)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestStore(t *testing.T, b backend.Backend, opts Options) *Store {
	t.Helper()
	if b == nil {
		b = &fakeBackend{}
	}
	s := New(b, auditNop{}, testLogger(), opts)
	s.nowFn = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

type auditNop struct{}

func (auditNop) Record(context.Context, string) {}

func draft(name string, qty, min int) models.EquipmentDraft {
	return models.EquipmentDraft{
		Name:         name,
		Quantity:     qty,
		MinThreshold: min,
		Unit:         "ea",
		Location:     "Depot 1",
	}
}

func TestCreate_IDsAreDistinctAndIncreasing(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	ctx := context.Background()

	seen := map[int]bool{}
	last := 0
	for i := 0; i < 50; i++ {
		e, err := s.Create(ctx, draft("Entrenching Tool", 10, 2))
		require.NoError(t, err)
		assert.False(t, seen[e.ID], "ID %d issued twice", e.ID)
		assert.Greater(t, e.ID, last, "IDs must be strictly increasing in issuance order")
		seen[e.ID] = true
		last = e.ID
	}
}

func TestCreate_SetsDerivedFields(t *testing.T) {
	s := newTestStore(t, nil, Options{})

	e, err := s.Create(context.Background(), draft("Radio Set", 4, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, e.ID)
	assert.Equal(t, s.nowFn(), e.LastUpdated)
	assert.Equal(t, Checksum(e), e.Checksum)
	assert.Len(t, e.Checksum, 4)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	s := newTestStore(t, nil, Options{MaxItems: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.Create(ctx, draft("Tarp", 1, 0))
		require.NoError(t, err)
	}

	_, err := s.Create(ctx, draft("Tarp", 1, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCapacityExceeded))
}

func TestCreate_RejectsInvalidDraft(t *testing.T) {
	s := newTestStore(t, nil, Options{})

	_, err := s.Create(context.Background(), models.EquipmentDraft{Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Equal(t, 0, s.Len(), "invalid draft must not be inserted")
}

func TestCreate_LiveBackendAssignsID(t *testing.T) {
	fb := &fakeBackend{live: true, nextDBID: 42}
	s := newTestStore(t, fb, Options{})

	e, err := s.Create(context.Background(), draft("Generator", 3, 1))
	require.NoError(t, err)

	assert.Equal(t, 42, e.ID, "store must adopt the backend-assigned ID")
	assert.Equal(t, Checksum(e), e.Checksum, "checksum must cover the final ID")
	assert.Equal(t, []int{42}, fb.updateCalls, "checksum repair must be replicated")

	// The allocator resynced: the next local ID continues past the DB's.
	e2, err := s.Create(context.Background(), draft("Generator", 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 43, e2.ID)
}

func TestCreate_LiveBackendInsertFailureKeepsLocalRecord(t *testing.T) {
	fb := &fakeBackend{live: true, insertErr: errors.New("db down")}
	s := newTestStore(t, fb, Options{})

	e, err := s.Create(context.Background(), draft("Stretcher", 6, 2))
	require.NoError(t, err, "replication failure must not fail the create")
	assert.Equal(t, 1, e.ID)
	assert.Equal(t, 1, s.Len())
}

func TestLoad_AllocatorNeverReissuesLoadedIDs(t *testing.T) {
	loaded := []*models.Equipment{
		{ID: 3, Name: "Cot"},
		{ID: 17, Name: "Lantern"},
		{ID: 5, Name: "Shovel"},
	}
	fb := &fakeBackend{snap: &backend.Snapshot{
		Equipment:       loaded,
		NextEquipmentID: 1, // stale counter: max loaded ID must win
		NextRequestID:   1,
	}}
	s := newTestStore(t, fb, Options{})
	require.NoError(t, s.Load(context.Background()))

	ids := map[int]bool{3: true, 17: true, 5: true}
	for i := 0; i < 30; i++ {
		e, err := s.Create(context.Background(), draft("New Item", 1, 0))
		require.NoError(t, err)
		assert.False(t, ids[e.ID], "created ID %d collides with a loaded ID", e.ID)
		ids[e.ID] = true
	}
}

func TestLoad_RespectsSnapshotCounters(t *testing.T) {
	fb := &fakeBackend{snap: &backend.Snapshot{
		Equipment:       []*models.Equipment{{ID: 2, Name: "Cot"}},
		NextEquipmentID: 100,
		NextRequestID:   50,
	}}
	s := newTestStore(t, fb, Options{})
	require.NoError(t, s.Load(context.Background()))

	e, err := s.Create(context.Background(), draft("Lamp", 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 100, e.ID, "a persisted counter past max(id)+1 must be honored")

	req, err := s.CreateRequest(context.Background(), models.RequestDraft{
		EquipmentID: 2, RequestedQty: 1, RequestingUnit: "HQ", Priority: models.PriorityNormal,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, req.ReqID)
}

func TestLoad_TruncatesAboveCapacity(t *testing.T) {
	items := make([]*models.Equipment, 5)
	for i := range items {
		items[i] = &models.Equipment{ID: i + 1, Name: "Crate"}
	}
	fb := &fakeBackend{snap: &backend.Snapshot{Equipment: items, NextEquipmentID: 6, NextRequestID: 1}}
	s := newTestStore(t, fb, Options{MaxItems: 3})

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 3, s.Len())
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	ctx := context.Background()

	e, err := s.Create(ctx, draft("Fuel Can", 20, 5))
	require.NoError(t, err)
	before := e.Checksum

	updated, err := s.UpdateQuantity(ctx, e.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.NotEqual(t, before, updated.Checksum, "checksum must change with quantity")
	assert.Equal(t, Checksum(updated), updated.Checksum)

	_, err = s.UpdateQuantity(ctx, 999, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = s.UpdateQuantity(ctx, e.ID, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestFindByID(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	e, err := s.Create(context.Background(), draft("Compass", 9, 3))
	require.NoError(t, err)

	got, err := s.FindByID(e.ID)
	require.NoError(t, err)
	assert.Same(t, e, got)

	_, err = s.FindByID(12345)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestFindByName_IndexAndScanAgree(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	ctx := context.Background()

	names := []string{"Night Vision Goggles", "Field Radio", "Radio Battery", "Gas Mask"}
	for _, n := range names {
		_, err := s.Create(ctx, draft(n, 5, 1))
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		// Exact name: index fast path.
		{"Field Radio", []string{"Field Radio"}},
		// Case-insensitive exact name.
		{"gas mask", []string{"Gas Mask"}},
		// Substring: misses the index buckets, found by the fallback scan.
		{"radio", []string{"Field Radio", "Radio Battery"}},
		{"RADIO", []string{"Field Radio", "Radio Battery"}},
		{"goggles", []string{"Night Vision Goggles"}},
		{"flare", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := s.FindByName(tt.query)
			var gotNames []string
			for _, e := range got {
				gotNames = append(gotNames, e.Name)
			}
			assert.ElementsMatch(t, tt.want, gotNames)

			// Equivalence: every scan match must be in the result.
			scan := scanByName(s.ListAll(), tt.query)
			assert.Equal(t, len(scan), len(got),
				"index path must return the same record set as the scan")
		})
	}
}

func TestStatusOf_Boundaries(t *testing.T) {
	tests := []struct {
		qty, min int
		want     models.StockStatus
	}{
		{10, 10, models.StockLow},
		{9, 10, models.StockLow},
		{0, 0, models.StockLow},
		{11, 10, models.StockWatch},
		{14, 10, models.StockWatch},
		{15, 10, models.StockWatch},
		{16, 10, models.StockOK},
		{100, 10, models.StockOK},
		{7, 5, models.StockWatch}, // floor(5*1.5)=7
		{8, 5, models.StockOK},
	}

	for _, tt := range tests {
		e := &models.Equipment{Quantity: tt.qty, MinThreshold: tt.min}
		assert.Equal(t, tt.want, StatusOf(e), "qty=%d min=%d", tt.qty, tt.min)
	}
}

func TestChecksum_DeterministicAndSensitive(t *testing.T) {
	e := &models.Equipment{ID: 7, Name: "MRE Case", Quantity: 120, MinThreshold: 40}

	first := Checksum(e)
	second := Checksum(e)
	assert.Equal(t, first, second, "checksum must be a pure function of its inputs")
	assert.Len(t, first, 4)

	e.Quantity++
	assert.NotEqual(t, first, Checksum(e))
}

func TestChecksum_MatchesOriginalArithmetic(t *testing.T) {
	// id + qty + min + sum of name bytes, mod 10000, zero-padded.
	e := &models.Equipment{ID: 1, Name: "AB", Quantity: 2, MinThreshold: 3}
	// 1 + 2 + 3 + 65 + 66 = 137
	assert.Equal(t, "0137", Checksum(e))

	e = &models.Equipment{ID: 9999, Name: "", Quantity: 9999, MinThreshold: 9999}
	// 29997 % 10000 = 9997
	assert.Equal(t, "9997", Checksum(e))
}

func TestCreateRequest(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	ctx := context.Background()

	e, err := s.Create(ctx, draft("Water Purifier", 2, 1))
	require.NoError(t, err)

	req, err := s.CreateRequest(ctx, models.RequestDraft{
		EquipmentID: e.ID, RequestedQty: 10, RequestingUnit: "3rd Plt", Priority: models.PriorityCritical,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, req.ReqID)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, s.nowFn(), req.RequestTime)
}

func TestCreateRequest_UnknownEquipmentDoesNotAllocateID(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	ctx := context.Background()

	e, err := s.Create(ctx, draft("Binoculars", 4, 1))
	require.NoError(t, err)

	_, err = s.CreateRequest(ctx, models.RequestDraft{
		EquipmentID: 9999, RequestedQty: 1, RequestingUnit: "HQ", Priority: models.PriorityLow,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Equal(t, 0, s.RequestLen())

	// The failed attempt must not have consumed a request ID.
	req, err := s.CreateRequest(ctx, models.RequestDraft{
		EquipmentID: e.ID, RequestedQty: 1, RequestingUnit: "HQ", Priority: models.PriorityLow,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, req.ReqID)
}

func TestCreateRequest_CapacityExceeded(t *testing.T) {
	s := newTestStore(t, nil, Options{MaxRequests: 1})
	ctx := context.Background()

	e, err := s.Create(ctx, draft("Tent", 3, 1))
	require.NoError(t, err)

	rd := models.RequestDraft{EquipmentID: e.ID, RequestedQty: 1, RequestingUnit: "HQ", Priority: models.PriorityLow}
	_, err = s.CreateRequest(ctx, rd)
	require.NoError(t, err)

	_, err = s.CreateRequest(ctx, rd)
	assert.True(t, errors.Is(err, common.ErrCapacityExceeded))
}

func TestListLowStock_InsertionOrderAndRestartable(t *testing.T) {
	s := newTestStore(t, nil, Options{})
	ctx := context.Background()

	_, err := s.Create(ctx, draft("Plentiful", 100, 10))
	require.NoError(t, err)
	low1, err := s.Create(ctx, draft("Scarce A", 2, 5))
	require.NoError(t, err)
	_, err = s.Create(ctx, draft("Adequate", 16, 10))
	require.NoError(t, err)
	low2, err := s.Create(ctx, draft("Scarce B", 0, 1))
	require.NoError(t, err)

	seq := s.ListLowStock()

	collect := func() []int {
		var ids []int
		for e := range seq {
			ids = append(ids, e.ID)
		}
		return ids
	}

	assert.Equal(t, []int{low1.ID, low2.ID}, collect())
	assert.Equal(t, []int{low1.ID, low2.ID}, collect(), "sequence must be restartable")

	// Early break must not panic or leak.
	for range seq {
		break
	}
}

func TestSaveAll_PassesStateAndCounters(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestStore(t, fb, Options{})
	ctx := context.Background()

	e, err := s.Create(ctx, draft("Helmet", 30, 10))
	require.NoError(t, err)
	_, err = s.CreateRequest(ctx, models.RequestDraft{
		EquipmentID: e.ID, RequestedQty: 5, RequestingUnit: "1st Sqd", Priority: models.PriorityNormal,
	})
	require.NoError(t, err)

	require.NoError(t, s.SaveAll(ctx))
	require.NotNil(t, fb.saved)
	assert.Len(t, fb.saved.Equipment, 1)
	assert.Len(t, fb.saved.Requests, 1)
	assert.Equal(t, 2, fb.saved.NextEquipmentID)
	assert.Equal(t, 2, fb.saved.NextRequestID)
}

func TestMutations_NotifyAuditSink(t *testing.T) {
	sink := &recordingSink{}
	s := New(&fakeBackend{}, sink, testLogger(), Options{})
	s.nowFn = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	e, err := s.Create(ctx, draft("Flashlight", 12, 4))
	require.NoError(t, err)
	_, err = s.UpdateQuantity(ctx, e.ID, 3)
	require.NoError(t, err)
	_, err = s.CreateRequest(ctx, models.RequestDraft{
		EquipmentID: e.ID, RequestedQty: 6, RequestingUnit: "HQ", Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	require.Len(t, sink.actions, 3)
	assert.Equal(t, "Added equipment: Flashlight (ID: 1)", sink.actions[0])
	assert.Equal(t, "Updated Flashlight quantity: 12 -> 3", sink.actions[1])
	assert.Equal(t, "Supply request created: REQ-1 for equipment ID 1", sink.actions[2])
}
