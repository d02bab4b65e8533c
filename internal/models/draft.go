package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"supplytrack/internal/common"
)

// Field length bounds mirror the fixed-size record layout of the snapshot
// files: a bounded string must fit its on-disk byte array including the
// terminating zero byte.
const (
	MaxNameLen     = 63
	MaxDescLen     = 255
	MaxUnitLen     = 31
	MaxLocationLen = 63
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// EquipmentDraft carries user input for a new equipment record. IDs,
// timestamps, and checksums are assigned by the store.
type EquipmentDraft struct {
	Name           string         `validate:"required,max=63"`
	Description    string         `validate:"max=255"`
	Quantity       int            `validate:"gte=0"`
	MinThreshold   int            `validate:"gte=0"`
	Unit           string         `validate:"max=31"`
	Location       string         `validate:"max=63"`
	Classification Classification `validate:"gte=0,lte=3"`
}

// Validate checks the draft against its field constraints. Violations are
// reported as common.ErrValidation.
func (d *EquipmentDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// RequestDraft carries user input for a new supply request. The request ID,
// timestamp, and initial status are assigned by the store.
type RequestDraft struct {
	EquipmentID    int      `validate:"gt=0"`
	RequestedQty   int      `validate:"gt=0"`
	RequestingUnit string   `validate:"required,max=31"`
	Priority       Priority `validate:"gte=1,lte=4"`
}

// Validate checks the draft against its field constraints. Violations are
// reported as common.ErrValidation.
func (d *RequestDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}
