package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jcabrerra/tvrs/internal/core"
)

const auditEventColumns = `event_id, actor_id, action, details, ip_address, affected_table, affected_id, ts`

type InsertAuditEventParams struct {
	ActorID       pgtype.Text
	Action        string
	Details       pgtype.Text
	IPAddress     pgtype.Text
	AffectedTable pgtype.Text
	AffectedID    pgtype.Text
}

func (q *Queries) InsertAuditEvent(ctx context.Context, arg InsertAuditEventParams) (TvrsAuditEvent, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.audit_events (actor_id, action, details, ip_address, affected_table, affected_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+auditEventColumns,
		arg.ActorID, arg.Action, arg.Details, arg.IPAddress, arg.AffectedTable, arg.AffectedID)
	return scanAuditEvent(row)
}

// AuditEventFilter is the one filter shape shared by the page query and the
// count query. Category renders to the same predicate the classifier uses in
// Go; the two must stay in lockstep.
type AuditEventFilter struct {
	Category      core.Category
	ActorID       pgtype.Text
	Action        pgtype.Text
	AffectedTable pgtype.Text
	AffectedID    pgtype.Text
	From          pgtype.Timestamptz
	To            pgtype.Timestamptz
}

// Category predicates in SQL form. Mirrors core/classify.go exactly.
const (
	sqlActivity   = `(position('LOGIN' in action) > 0 OR action = 'LOGOUT' OR position('SESSION' in action) > 0)`
	sqlAuditTrail = `(affected_table IS NOT NULL AND position('LOGIN' in action) = 0 AND action <> 'LOGOUT')`
	sqlSecurity   = `(position('LOGIN_FAILED' in action) > 0 OR position('PASSWORD' in action) > 0 OR position('DELETE' in action) > 0 OR position('ROLE' in action) > 0)`
)

func categoryPredicate(cat core.Category) string {
	switch cat {
	case core.CategoryActivity:
		return sqlActivity
	case core.CategoryAuditTrail:
		return sqlAuditTrail
	case core.CategorySecurity:
		return sqlSecurity
	case core.CategoryUncategorized:
		return "(NOT " + sqlActivity + " AND NOT " + sqlAuditTrail + " AND NOT " + sqlSecurity + ")"
	}
	return ""
}

// buildEventWhere renders the filter to a WHERE clause plus positional args.
// Both ListAuditEvents and CountAuditEvents go through here so pagination
// totals can never drift from page contents.
func buildEventWhere(f AuditEventFilter) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}

	if p := categoryPredicate(f.Category); p != "" {
		conds = append(conds, p)
	}
	if f.ActorID.Valid {
		args = append(args, f.ActorID)
		conds = append(conds, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if f.Action.Valid {
		args = append(args, f.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.AffectedTable.Valid {
		args = append(args, f.AffectedTable)
		conds = append(conds, fmt.Sprintf("affected_table = $%d", len(args)))
	}
	if f.AffectedID.Valid {
		args = append(args, f.AffectedID)
		conds = append(conds, fmt.Sprintf("affected_id = $%d", len(args)))
	}
	if f.From.Valid {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if f.To.Valid {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("ts <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// Sortable columns. Anything else falls back to event_id in the caller.
var auditSortColumns = map[string]string{
	"id":        "event_id",
	"timestamp": "ts",
	"action":    "action",
	"actor_id":  "actor_id",
}

type ListAuditEventsParams struct {
	Filter AuditEventFilter
	SortBy string
	Limit  int32
	Offset int32
}

func (q *Queries) ListAuditEvents(ctx context.Context, arg ListAuditEventsParams) ([]TvrsAuditEvent, error) {
	where, args := buildEventWhere(arg.Filter)

	col, ok := auditSortColumns[arg.SortBy]
	if !ok {
		col = "event_id"
	}
	// event_id DESC as tie-breaker keeps ordering stable when ts collides.
	order := fmt.Sprintf("ORDER BY %s DESC", col)
	if col != "event_id" {
		order += ", event_id DESC"
	}

	args = append(args, arg.Limit)
	limitPos := len(args)
	args = append(args, arg.Offset)
	offsetPos := len(args)

	sql := fmt.Sprintf(`SELECT %s FROM tvrs.audit_events %s %s LIMIT $%d OFFSET $%d`,
		auditEventColumns, where, order, limitPos, offsetPos)

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []TvrsAuditEvent
	for rows.Next() {
		ev, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (q *Queries) CountAuditEvents(ctx context.Context, f AuditEventFilter) (int64, error) {
	where, args := buildEventWhere(f)
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM tvrs.audit_events `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

func scanAuditEvent(row pgx.Row) (TvrsAuditEvent, error) {
	var ev TvrsAuditEvent
	err := row.Scan(&ev.EventID, &ev.ActorID, &ev.Action, &ev.Details,
		&ev.IPAddress, &ev.AffectedTable, &ev.AffectedID, &ev.Ts)
	return ev, err
}
