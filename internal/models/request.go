package models

import "time"

// RequestStatus is the lifecycle state of a supply request.
type RequestStatus int

const (
	RequestPending RequestStatus = iota
	RequestApproved
	RequestFulfilled
	RequestDenied
)

var requestStatusNames = [...]string{"PENDING", "APPROVED", "FULFILLED", "DENIED"}

func (s RequestStatus) String() string {
	if s < RequestPending || s > RequestDenied {
		return "UNKNOWN"
	}
	return requestStatusNames[s]
}

// Valid reports whether s is within the enumerated range.
func (s RequestStatus) Valid() bool {
	return s >= RequestPending && s <= RequestDenied
}

// Priority ranks a supply request. Values start at 1 to match the original
// wire format; zero is not a valid priority.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

var priorityNames = [...]string{"", "LOW", "NORMAL", "HIGH", "CRITICAL"}

func (p Priority) String() string {
	if p < PriorityLow || p > PriorityCritical {
		return "UNKNOWN"
	}
	return priorityNames[p]
}

// Valid reports whether p is within the enumerated range.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// SupplyRequest records a demand for equipment.
//
// EquipmentID referenced an existing equipment record when the request was
// created; the reference is not a live foreign key and may dangle if the
// backing data is replaced wholesale.
type SupplyRequest struct {
	ReqID          int
	EquipmentID    int
	RequestedQty   int
	RequestingUnit string
	RequestTime    time.Time
	Status         RequestStatus
	Priority       Priority
}
