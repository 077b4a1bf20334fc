package audit

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

// stubStore lets tests script store behavior without a database.
type stubStore struct {
	insertErr error
	inserted  []store.InsertAuditEventParams
	rows      []store.TvrsAuditEvent
	total     int64
	listErr   error
	countErr  error
	lastList  store.ListAuditEventsParams
}

func (s *stubStore) InsertAuditEvent(_ context.Context, arg store.InsertAuditEventParams) (store.TvrsAuditEvent, error) {
	if s.insertErr != nil {
		return store.TvrsAuditEvent{}, s.insertErr
	}
	s.inserted = append(s.inserted, arg)
	return store.TvrsAuditEvent{EventID: int64(len(s.inserted)), Action: arg.Action}, nil
}

func (s *stubStore) ListAuditEvents(_ context.Context, arg store.ListAuditEventsParams) ([]store.TvrsAuditEvent, error) {
	s.lastList = arg
	return s.rows, s.listErr
}

func (s *stubStore) CountAuditEvents(_ context.Context, _ store.AuditEventFilter) (int64, error) {
	return s.total, s.countErr
}

func (s *stubStore) ListUsersByIDs(_ context.Context, _ []string) ([]store.TvrsUser, error) {
	return nil, nil
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		in       Page
		wantNum  int
		wantSize int
	}{
		{Page{Number: 1, Size: 20}, 1, 20},
		{Page{Number: 0, Size: 0}, 1, DefaultPageSize},
		{Page{Number: -5, Size: 500}, 1, MaxPageSize},
		{Page{Number: 3, Size: 100}, 3, 100},
		{Page{Number: 2, Size: 101}, 2, 100},
	}
	for _, tc := range cases {
		got := normalizePage(tc.in)
		if got.Number != tc.wantNum || got.Size != tc.wantSize {
			t.Errorf("normalizePage(%+v) = %+v, want page=%d size=%d", tc.in, got, tc.wantNum, tc.wantSize)
		}
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{100, 100, 1},
	}
	for _, tc := range cases {
		if got := pageCount(tc.total, tc.size); got != tc.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestQuery_ClampAndOffset(t *testing.T) {
	st := &stubStore{total: 45}
	svc := NewService(st, zap.NewNop())

	res, err := svc.Query(context.Background(), Filter{}, Page{Number: 3, Size: 500})
	if err != nil {
		t.Fatalf("query failed: %s", err)
	}
	if st.lastList.Limit != 100 {
		t.Errorf("limit = %d, want clamped 100", st.lastList.Limit)
	}
	if st.lastList.Offset != 200 {
		t.Errorf("offset = %d, want (3-1)*100", st.lastList.Offset)
	}
	if res.Pages != 1 {
		t.Errorf("pages = %d, want ceil(45/100) floored at 1", res.Pages)
	}
	if res.Total != 45 {
		t.Errorf("total = %d, want 45", res.Total)
	}
}

func TestQuery_EmptyResultIsNotAnError(t *testing.T) {
	svc := NewService(&stubStore{}, zap.NewNop())
	res, err := svc.Query(context.Background(), Filter{Category: core.CategorySecurity}, Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("empty result must not error: %s", err)
	}
	if len(res.Rows) != 0 || res.Total != 0 || res.Pages != 1 {
		t.Errorf("empty result shape wrong: %+v", res)
	}
}

func TestQuery_StoreErrorPropagates(t *testing.T) {
	svc := NewService(&stubStore{countErr: errors.New("connection refused")}, zap.NewNop())
	if _, err := svc.Query(context.Background(), Filter{}, Page{Number: 1, Size: 20}); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestQuery_RowsAreClassified(t *testing.T) {
	st := &stubStore{
		total: 1,
		rows: []store.TvrsAuditEvent{
			{EventID: 7, Action: "LOGIN_FAILED"},
		},
	}
	svc := NewService(st, zap.NewNop())
	res, err := svc.Query(context.Background(), Filter{}, Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("query failed: %s", err)
	}
	row := res.Rows[0]
	if row.Category != core.CategorySecurity || row.Severity != core.SeverityHigh {
		t.Errorf("row not classified: %+v", row.Classification)
	}
	if row.ActorName != "unknown actor" {
		t.Errorf("missing actor must render as unknown, got %q", row.ActorName)
	}
}

func TestRecorder_NeverFails(t *testing.T) {
	st := &stubStore{insertErr: errors.New("database is down")}
	rec := NewRecorder(st, zap.NewNop())

	// Must not panic and must not block the caller in any observable way.
	rec.Record(context.Background(), core.EventInput{Action: "TICKET_CREATE"})

	if len(st.inserted) != 0 {
		t.Error("insert should have failed")
	}
}

func TestRecorder_DropsEmptyAction(t *testing.T) {
	st := &stubStore{}
	rec := NewRecorder(st, zap.NewNop())
	rec.Record(context.Background(), core.EventInput{})
	if len(st.inserted) != 0 {
		t.Errorf("empty action must be dropped, inserted %d", len(st.inserted))
	}
}

func TestRecorder_PersistsFields(t *testing.T) {
	st := &stubStore{}
	rec := NewRecorder(st, zap.NewNop())
	actor := "u-1"
	table := "Driver"
	rec.Record(context.Background(), core.EventInput{
		ActorID:       &actor,
		Action:        core.ActionDriverLicenseSuspend,
		AffectedTable: &table,
	})
	if len(st.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(st.inserted))
	}
	in := st.inserted[0]
	if !in.ActorID.Valid || in.ActorID.String != "u-1" {
		t.Errorf("actor not persisted: %+v", in.ActorID)
	}
	if in.Action != core.ActionDriverLicenseSuspend {
		t.Errorf("action = %q", in.Action)
	}
	if !in.AffectedTable.Valid || in.AffectedTable.String != "Driver" {
		t.Errorf("affected table not persisted: %+v", in.AffectedTable)
	}
}
