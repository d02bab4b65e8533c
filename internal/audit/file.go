package audit

import (
	"context"
	"fmt"

	"supplytrack/internal/filex"
	"supplytrack/internal/logging"
)

// FileSink appends timestamped action lines to a local log file.
type FileSink struct {
	path string
	log  logging.Logger
}

// NewFileSink returns a sink appending to path. The file is created on the
// first recorded action.
func NewFileSink(path string, log logging.Logger) *FileSink {
	return &FileSink{path: path, log: log}
}

// Record appends "[timestamp] action" to the log file. Write failures are
// logged and swallowed.
func (s *FileSink) Record(ctx context.Context, action string) {
	line := fmt.Sprintf("[%s] %s", nowFn().Format("2006-01-02 15:04:05"), action)
	if err := filex.AppendLine(s.path, line); err != nil {
		s.log.Warn(ctx, "audit file write failed", "path", s.path, "error", err)
	}
}
