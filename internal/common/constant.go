package common

// Default collection ceilings carried over from the original static buffers.
// Both are configurable; see internal/config.
const (
	DefaultMaxItems    = 1000
	DefaultMaxRequests = 500
)
