// Package audit implements the event recording, classification-driven query,
// and export surface over the append-only audit_events table.
package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/observability"
	"github.com/jcabrerra/tvrs/internal/store"
)

// EventStore is the slice of the query layer the audit subsystem needs.
// *store.Queries satisfies it; tests substitute stubs.
type EventStore interface {
	InsertAuditEvent(ctx context.Context, arg store.InsertAuditEventParams) (store.TvrsAuditEvent, error)
	ListAuditEvents(ctx context.Context, arg store.ListAuditEventsParams) ([]store.TvrsAuditEvent, error)
	CountAuditEvents(ctx context.Context, f store.AuditEventFilter) (int64, error)
	ListUsersByIDs(ctx context.Context, ids []string) ([]store.TvrsUser, error)
}

// Recorder appends audit events best-effort. A failed write is logged and
// dropped; it never surfaces to the business operation that triggered it.
type Recorder struct {
	store EventStore
	log   *zap.Logger
}

func NewRecorder(st EventStore, log *zap.Logger) *Recorder {
	return &Recorder{store: st, log: log}
}

// Record persists one event. Fire-and-forget: no return value, no error.
func (r *Recorder) Record(ctx context.Context, in core.EventInput) {
	if in.Action == "" {
		r.log.Warn("audit event dropped: empty action")
		return
	}

	_, err := r.store.InsertAuditEvent(ctx, store.InsertAuditEventParams{
		ActorID:       textFromPtr(in.ActorID),
		Action:        in.Action,
		Details:       textFromPtr(in.Details),
		IPAddress:     textFromPtr(in.IPAddress),
		AffectedTable: textFromPtr(in.AffectedTable),
		AffectedID:    textFromPtr(in.AffectedID),
	})
	if err != nil {
		observability.AuditRecordFailures.Inc()
		r.log.Warn("audit event dropped: insert failed",
			zap.String("action", in.Action),
			zap.Error(err),
		)
		return
	}
	observability.AuditEventsRecorded.WithLabelValues(in.Action).Inc()
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}
