package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jcabrerra/tvrs/internal/core"
)

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func TestBuildEventWhere(t *testing.T) {
	where, args := buildEventWhere(AuditEventFilter{})
	if where != "" || len(args) != 0 {
		t.Errorf("empty filter should produce no WHERE, got %q with %d args", where, len(args))
	}

	where, args = buildEventWhere(AuditEventFilter{
		Category: core.CategorySecurity,
		Action:   text("LOGIN_FAILED"),
	})
	if !strings.Contains(where, "action = $1") {
		t.Errorf("explicit action filter missing: %q", where)
	}
	if !strings.Contains(where, "position('LOGIN_FAILED' in action) > 0 OR position('PASSWORD'") {
		t.Errorf("category predicate missing: %q", where)
	}
	if !strings.Contains(where, " AND ") {
		t.Errorf("category and explicit filters must AND: %q", where)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(args))
	}

	// Every filter field must land in the clause with sequential params.
	where, args = buildEventWhere(AuditEventFilter{
		ActorID:       text("u-1"),
		Action:        text("TICKET_CREATE"),
		AffectedTable: text("Ticket"),
		AffectedID:    text("t-1"),
		From:          pgtype.Timestamptz{Valid: true},
		To:            pgtype.Timestamptz{Valid: true},
	})
	if len(args) != 6 {
		t.Errorf("expected 6 args, got %d", len(args))
	}
	for i := 1; i <= 6; i++ {
		if !strings.Contains(where, fmt.Sprintf("$%d", i)) {
			t.Errorf("missing positional arg $%d in %q", i, where)
		}
	}
}

func TestCategoryPredicate_AllCategoriesRender(t *testing.T) {
	for _, cat := range []core.Category{
		core.CategoryActivity, core.CategoryAuditTrail,
		core.CategorySecurity, core.CategoryUncategorized,
	} {
		if categoryPredicate(cat) == "" {
			t.Errorf("no SQL predicate for category %s", cat)
		}
	}
	if categoryPredicate("") != "" {
		t.Error("empty category must not filter")
	}
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tvrs"),
		postgres.WithUsername("tvrs"),
		postgres.WithPassword("tvrs_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections"),
		),
	)
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	pool, err := NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to connect: %s", err)
	}
	defer pool.Close()

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to migrate: %s", err)
	}

	queries := New(pool)

	// 45 data-change events, one failed login, one role deletion.
	for i := 0; i < 45; i++ {
		_, err := queries.InsertAuditEvent(ctx, InsertAuditEventParams{
			Action:        "TICKET_CREATE",
			AffectedTable: text("Ticket"),
			AffectedID:    text(fmt.Sprintf("t-%d", i)),
		})
		if err != nil {
			t.Fatalf("insert event: %s", err)
		}
	}
	if _, err := queries.InsertAuditEvent(ctx, InsertAuditEventParams{
		Action:    "LOGIN_FAILED",
		IPAddress: text("203.0.113.9"),
	}); err != nil {
		t.Fatalf("insert event: %s", err)
	}
	if _, err := queries.InsertAuditEvent(ctx, InsertAuditEventParams{
		Action:        "ROLE_DELETE",
		AffectedTable: text("Role"),
		AffectedID:    text("r-1"),
	}); err != nil {
		t.Fatalf("insert event: %s", err)
	}

	t.Run("PaginationTotals", func(t *testing.T) {
		filter := AuditEventFilter{Action: text("TICKET_CREATE")}
		total, err := queries.CountAuditEvents(ctx, filter)
		if err != nil {
			t.Fatalf("count: %s", err)
		}
		if total != 45 {
			t.Errorf("total = %d, want 45", total)
		}

		page1, err := queries.ListAuditEvents(ctx, ListAuditEventsParams{Filter: filter, Limit: 20, Offset: 0})
		if err != nil {
			t.Fatalf("list page 1: %s", err)
		}
		if len(page1) != 20 {
			t.Errorf("page 1 rows = %d, want 20", len(page1))
		}

		page3, err := queries.ListAuditEvents(ctx, ListAuditEventsParams{Filter: filter, Limit: 20, Offset: 40})
		if err != nil {
			t.Fatalf("list page 3: %s", err)
		}
		if len(page3) != 5 {
			t.Errorf("page 3 rows = %d, want 5", len(page3))
		}
	})

	t.Run("NewestFirstOrdering", func(t *testing.T) {
		rows, err := queries.ListAuditEvents(ctx, ListAuditEventsParams{Limit: 5, Offset: 0})
		if err != nil {
			t.Fatalf("list: %s", err)
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].EventID >= rows[i-1].EventID {
				t.Fatalf("rows not ordered id DESC: %d before %d", rows[i-1].EventID, rows[i].EventID)
			}
		}
	})

	t.Run("UnknownSortFallsBack", func(t *testing.T) {
		rows, err := queries.ListAuditEvents(ctx, ListAuditEventsParams{SortBy: "details; DROP TABLE", Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list with bogus sort: %s", err)
		}
		if len(rows) != 2 {
			t.Errorf("rows = %d, want 2", len(rows))
		}
	})

	t.Run("CategoryComposesWithActionFilter", func(t *testing.T) {
		// Security AND action=LOGIN_FAILED must exclude ROLE_DELETE.
		rows, err := queries.ListAuditEvents(ctx, ListAuditEventsParams{
			Filter: AuditEventFilter{
				Category: core.CategorySecurity,
				Action:   text("LOGIN_FAILED"),
			},
			Limit: 100, Offset: 0,
		})
		if err != nil {
			t.Fatalf("list: %s", err)
		}
		if len(rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(rows))
		}
		if rows[0].Action != "LOGIN_FAILED" {
			t.Errorf("unexpected row: %s", rows[0].Action)
		}

		// The security view alone still contains both.
		total, err := queries.CountAuditEvents(ctx, AuditEventFilter{Category: core.CategorySecurity})
		if err != nil {
			t.Fatalf("count: %s", err)
		}
		if total != 2 {
			t.Errorf("security view total = %d, want 2", total)
		}
	})

	t.Run("OverlappingViews", func(t *testing.T) {
		// ROLE_DELETE belongs to both the audit-trail and security views.
		for _, cat := range []core.Category{core.CategoryAuditTrail, core.CategorySecurity} {
			rows, err := queries.ListAuditEvents(ctx, ListAuditEventsParams{
				Filter: AuditEventFilter{Category: cat, Action: text("ROLE_DELETE")},
				Limit:  10, Offset: 0,
			})
			if err != nil {
				t.Fatalf("list %s: %s", cat, err)
			}
			if len(rows) != 1 {
				t.Errorf("ROLE_DELETE missing from %s view", cat)
			}
		}
	})

	t.Run("ConfigFallback", func(t *testing.T) {
		n, err := queries.GetConfigInt(ctx, core.ConfigKeyDemeritThreshold, 12)
		if err != nil {
			t.Fatalf("get config int: %s", err)
		}
		if n != 12 {
			t.Errorf("missing key should fall back, got %d", n)
		}

		if _, err := queries.UpsertConfig(ctx, UpsertConfigParams{
			Key: core.ConfigKeyDemeritThreshold, Value: "15",
		}); err != nil {
			t.Fatalf("upsert config: %s", err)
		}
		n, err = queries.GetConfigInt(ctx, core.ConfigKeyDemeritThreshold, 12)
		if err != nil {
			t.Fatalf("get config int: %s", err)
		}
		if n != 15 {
			t.Errorf("stored value not read, got %d", n)
		}
	})
}
