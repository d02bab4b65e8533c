package audit

import (
	"context"

	"github.com/google/uuid"

	"supplytrack/internal/dbx"
	"supplytrack/internal/logging"
)

// DBSink mirrors actions into the audit_log table when the database backend
// is active. Each process run is tagged with a session identifier so rows
// from different runs can be told apart.
type DBSink struct {
	db       dbx.DBTX
	userInfo string
	log      logging.Logger
}

// NewDBSink returns a sink writing to audit_log over the given handle.
func NewDBSink(db dbx.DBTX, log logging.Logger) *DBSink {
	return &DBSink{
		db:       db,
		userInfo: "system/" + uuid.NewString(),
		log:      log,
	}
}

// Record inserts the action into audit_log. Insert failures are logged and
// swallowed.
func (s *DBSink) Record(ctx context.Context, action string) {
	query := `INSERT INTO audit_log (action, user_info) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, action, s.userInfo); err != nil {
		s.log.Warn(ctx, "audit db write failed", "error", err)
	}
}
