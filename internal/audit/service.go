package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/observability"
	"github.com/jcabrerra/tvrs/internal/store"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxExportRows bounds a single delimited export.
	MaxExportRows = 10000
)

// Filter selects events for a query. Category applies the classifier's own
// predicate; explicit fields compose with it by AND.
type Filter struct {
	Category      core.Category
	ActorID       string
	Action        string
	AffectedTable string
	From          *time.Time
	To            *time.Time
}

// Page is a 1-indexed page request. Out-of-range values are clamped, never
// rejected; unknown sort fields fall back to event id.
type Page struct {
	Number int
	Size   int
	Sort   string
}

// ClassifiedEvent is an event with its read-time tag and resolved actor.
type ClassifiedEvent struct {
	core.Event
	core.Classification
	ActorName string `json:"actor_name"`
	ActorRole string `json:"actor_role,omitempty"`
}

type Result struct {
	Rows     []ClassifiedEvent `json:"rows"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Pages    int               `json:"pages"`
}

type Stats struct {
	Total         int64 `json:"total"`
	Activity      int64 `json:"activity"`
	AuditTrail    int64 `json:"audit_trail"`
	Security      int64 `json:"security"`
	Uncategorized int64 `json:"uncategorized"`
}

// Service filters, paginates and classifies events.
type Service struct {
	store EventStore
	log   *zap.Logger
}

func NewService(st EventStore, log *zap.Logger) *Service {
	return &Service{store: st, log: log}
}

// Query returns one page of matching events plus the total across all pages.
// The count and the page run the same WHERE clause.
func (s *Service) Query(ctx context.Context, f Filter, p Page) (Result, error) {
	start := time.Now()
	defer func() {
		observability.AuditQueryDuration.WithLabelValues(string(f.Category)).Observe(time.Since(start).Seconds())
	}()

	p = normalizePage(p)
	sf := storeFilter(f)

	total, err := s.store.CountAuditEvents(ctx, sf)
	if err != nil {
		return Result{}, fmt.Errorf("count events: %w", err)
	}

	rows, err := s.store.ListAuditEvents(ctx, store.ListAuditEventsParams{
		Filter: sf,
		SortBy: p.Sort,
		Limit:  int32(p.Size),
		Offset: int32((p.Number - 1) * p.Size),
	})
	if err != nil {
		return Result{}, fmt.Errorf("list events: %w", err)
	}

	classified := s.classifyAll(ctx, rows)

	return Result{
		Rows:     classified,
		Total:    total,
		Page:     p.Number,
		PageSize: p.Size,
		Pages:    pageCount(total, p.Size),
	}, nil
}

// Export fetches up to MaxExportRows matching events, newest first, already
// classified and actor-resolved, ready for ExportCSV.
func (s *Service) Export(ctx context.Context, f Filter) ([]ClassifiedEvent, error) {
	rows, err := s.store.ListAuditEvents(ctx, store.ListAuditEventsParams{
		Filter: storeFilter(f),
		Limit:  MaxExportRows,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.classifyAll(ctx, rows), nil
}

// Stats counts events per category view. An event may be counted in more
// than one view; Total is the unfiltered count, not the sum.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	counts := []struct {
		cat  core.Category
		dest *int64
	}{
		{"", &out.Total},
		{core.CategoryActivity, &out.Activity},
		{core.CategoryAuditTrail, &out.AuditTrail},
		{core.CategorySecurity, &out.Security},
		{core.CategoryUncategorized, &out.Uncategorized},
	}
	for _, c := range counts {
		n, err := s.store.CountAuditEvents(ctx, store.AuditEventFilter{Category: c.cat})
		if err != nil {
			return Stats{}, fmt.Errorf("count %s events: %w", c.cat, err)
		}
		*c.dest = n
	}
	return out, nil
}

// classifyAll tags rows and resolves actor identities. A missing or unknown
// actor renders as "unknown actor" rather than failing the page.
func (s *Service) classifyAll(ctx context.Context, rows []store.TvrsAuditEvent) []ClassifiedEvent {
	actors := s.lookupActors(ctx, rows)

	out := make([]ClassifiedEvent, len(rows))
	for i, r := range rows {
		ev := eventFromRow(r)
		ce := ClassifiedEvent{
			Event:          ev,
			Classification: core.Classify(r.Action, r.AffectedTable.String),
			ActorName:      "unknown actor",
		}
		if r.ActorID.Valid {
			if u, ok := actors[r.ActorID.String]; ok {
				ce.ActorName = u.FullName
				ce.ActorRole = u.Role
			}
		}
		out[i] = ce
	}
	return out
}

func (s *Service) lookupActors(ctx context.Context, rows []store.TvrsAuditEvent) map[string]store.TvrsUser {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, r := range rows {
		if r.ActorID.Valid {
			if _, ok := seen[r.ActorID.String]; !ok {
				seen[r.ActorID.String] = struct{}{}
				ids = append(ids, r.ActorID.String)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	users, err := s.store.ListUsersByIDs(ctx, ids)
	if err != nil {
		// Enrichment is presentation only; classification must not fail.
		s.log.Warn("actor lookup failed", zap.Error(err))
		return nil
	}
	byID := make(map[string]store.TvrsUser, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	return byID
}

func eventFromRow(r store.TvrsAuditEvent) core.Event {
	return core.Event{
		EventID:       r.EventID,
		ActorID:       ptrFromText(r.ActorID),
		Action:        r.Action,
		Details:       ptrFromText(r.Details),
		IPAddress:     ptrFromText(r.IPAddress),
		AffectedTable: ptrFromText(r.AffectedTable),
		AffectedID:    ptrFromText(r.AffectedID),
		Ts:            r.Ts.Time,
	}
}

func storeFilter(f Filter) store.AuditEventFilter {
	return store.AuditEventFilter{
		Category:      f.Category,
		ActorID:       textFromString(f.ActorID),
		Action:        textFromString(f.Action),
		AffectedTable: textFromString(f.AffectedTable),
		From:          tsFromPtr(f.From),
		To:            tsFromPtr(f.To),
	}
}

func normalizePage(p Page) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// pageCount is ceil(total/size), never below 1.
func pageCount(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	return pages
}

func textFromString(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func ptrFromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func tsFromPtr(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
