// Package audit provides the sinks that record human-readable action
// descriptions after mutating store operations. Recording is best-effort:
// a failing sink logs the failure and never propagates it to the mutation
// that triggered it.
package audit

import (
	"context"
	"time"
)

// nowFn is a test seam for timestamping log lines.
var nowFn = time.Now

// Sink consumes one action description per successful mutating operation.
type Sink interface {
	Record(ctx context.Context, action string)
}

// Nop discards all actions.
type Nop struct{}

func (Nop) Record(context.Context, string) {}

// Multi fans an action out to several sinks in order.
type Multi []Sink

func (m Multi) Record(ctx context.Context, action string) {
	for _, s := range m {
		s.Record(ctx, action)
	}
}
