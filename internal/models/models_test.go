package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrack/internal/common"
)

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "UNCLASSIFIED", ClassUnclassified.String())
	assert.Equal(t, "SECRET", ClassSecret.String())
	assert.Equal(t, "UNKNOWN", Classification(7).String())

	assert.Equal(t, "PENDING", RequestPending.String())
	assert.Equal(t, "DENIED", RequestDenied.String())
	assert.Equal(t, "UNKNOWN", RequestStatus(-1).String())

	assert.Equal(t, "LOW", PriorityLow.String())
	assert.Equal(t, "CRITICAL", PriorityCritical.String())
	assert.Equal(t, "UNKNOWN", Priority(0).String())

	assert.Equal(t, "OK", StockOK.String())
	assert.Equal(t, "WATCH", StockWatch.String())
	assert.Equal(t, "LOW", StockLow.String())
}

func TestEnumValid(t *testing.T) {
	assert.True(t, ClassConfidential.Valid())
	assert.False(t, Classification(4).Valid())
	assert.True(t, PriorityNormal.Valid())
	assert.False(t, Priority(5).Valid())
	assert.True(t, RequestFulfilled.Valid())
	assert.False(t, RequestStatus(4).Valid())
}

func TestEquipmentDraft_Validate(t *testing.T) {
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	tests := []struct {
		name    string
		draft   EquipmentDraft
		wantErr bool
	}{
		{name: "ok", draft: EquipmentDraft{Name: "M4 Carbine", Quantity: 10, MinThreshold: 2, Unit: "ea", Location: "Armory A", Classification: ClassRestricted}},
		{name: "missing name", draft: EquipmentDraft{Quantity: 1}, wantErr: true},
		{name: "name too long", draft: EquipmentDraft{Name: long(64)}, wantErr: true},
		{name: "name at limit", draft: EquipmentDraft{Name: long(63)}},
		{name: "negative quantity", draft: EquipmentDraft{Name: "x", Quantity: -1}, wantErr: true},
		{name: "classification out of range", draft: EquipmentDraft{Name: "x", Classification: Classification(4)}, wantErr: true},
		{name: "unit too long", draft: EquipmentDraft{Name: "x", Unit: long(32)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrValidation), "must wrap ErrValidation")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRequestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   RequestDraft
		wantErr bool
	}{
		{name: "ok", draft: RequestDraft{EquipmentID: 1, RequestedQty: 5, RequestingUnit: "2nd Bn", Priority: PriorityHigh}},
		{name: "zero equipment id", draft: RequestDraft{RequestedQty: 5, RequestingUnit: "x", Priority: PriorityLow}, wantErr: true},
		{name: "zero quantity", draft: RequestDraft{EquipmentID: 1, RequestingUnit: "x", Priority: PriorityLow}, wantErr: true},
		{name: "priority out of range", draft: RequestDraft{EquipmentID: 1, RequestedQty: 1, RequestingUnit: "x", Priority: Priority(5)}, wantErr: true},
		{name: "missing unit", draft: RequestDraft{EquipmentID: 1, RequestedQty: 1, Priority: PriorityLow}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrValidation), "must wrap ErrValidation")
			} else {
				require.NoError(t, err)
			}
		})
	}
}
