package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const ticketColumns = `ticket_id, ticket_no, driver_id, vehicle_id, officer_id, location, status, total_fine, issued_at, created_at, updated_at`

type CreateTicketParams struct {
	TicketID  string
	TicketNo  string
	DriverID  string
	VehicleID pgtype.Text
	OfficerID string
	Location  string
}

func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) (TvrsTicket, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.tickets (ticket_id, ticket_no, driver_id, vehicle_id, officer_id, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+ticketColumns,
		arg.TicketID, arg.TicketNo, arg.DriverID, arg.VehicleID, arg.OfficerID, arg.Location)
	return scanTicket(row)
}

func (q *Queries) GetTicket(ctx context.Context, ticketID string) (TvrsTicket, error) {
	row := q.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tvrs.tickets WHERE ticket_id = $1`, ticketID)
	return scanTicket(row)
}

// GetTicketForUpdate locks the ticket row; payment recording reads the paid
// total and flips status inside the same transaction.
func (q *Queries) GetTicketForUpdate(ctx context.Context, ticketID string) (TvrsTicket, error) {
	row := q.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tvrs.tickets WHERE ticket_id = $1 FOR UPDATE`, ticketID)
	return scanTicket(row)
}

type ListTicketsParams struct {
	DriverID pgtype.Text
	Status   pgtype.Text
	Limit    int32
	Offset   int32
}

func (q *Queries) ListTickets(ctx context.Context, arg ListTicketsParams) ([]TvrsTicket, error) {
	conds := []string{}
	args := []interface{}{}
	if arg.DriverID.Valid {
		args = append(args, arg.DriverID)
		conds = append(conds, fmt.Sprintf("driver_id = $%d", len(args)))
	}
	if arg.Status.Valid {
		args = append(args, arg.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, arg.Limit, arg.Offset)

	sql := fmt.Sprintf(`SELECT %s FROM tvrs.tickets %s ORDER BY issued_at DESC, ticket_id LIMIT $%d OFFSET $%d`,
		ticketColumns, where, len(args)-1, len(args))
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()
	var tickets []TvrsTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

type UpdateTicketStatusParams struct {
	TicketID string
	Status   string
}

func (q *Queries) UpdateTicketStatus(ctx context.Context, arg UpdateTicketStatusParams) (TvrsTicket, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.tickets SET status = $2, updated_at = now()
		WHERE ticket_id = $1
		RETURNING `+ticketColumns,
		arg.TicketID, arg.Status)
	return scanTicket(row)
}

// AddTicketFine adds a violation's fine to the running total.
func (q *Queries) AddTicketFine(ctx context.Context, ticketID string, fine float64) (TvrsTicket, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.tickets SET total_fine = total_fine + $2, updated_at = now()
		WHERE ticket_id = $1
		RETURNING `+ticketColumns,
		ticketID, fine)
	return scanTicket(row)
}

type InsertTicketViolationParams struct {
	TicketID        string
	ViolationTypeID string
	Points          int32
	Fine            float64
}

func (q *Queries) InsertTicketViolation(ctx context.Context, arg InsertTicketViolationParams) (TvrsTicketViolation, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.ticket_violations (ticket_id, violation_type_id, points, fine)
		VALUES ($1, $2, $3, $4)
		RETURNING id, ticket_id, violation_type_id, points, fine, created_at`,
		arg.TicketID, arg.ViolationTypeID, arg.Points, arg.Fine)
	var tv TvrsTicketViolation
	err := row.Scan(&tv.ID, &tv.TicketID, &tv.ViolationTypeID, &tv.Points, &tv.Fine, &tv.CreatedAt)
	return tv, err
}

func (q *Queries) ListTicketViolations(ctx context.Context, ticketID string) ([]TvrsTicketViolation, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, ticket_id, violation_type_id, points, fine, created_at
		FROM tvrs.ticket_violations WHERE ticket_id = $1 ORDER BY id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list ticket violations: %w", err)
	}
	defer rows.Close()
	var out []TvrsTicketViolation
	for rows.Next() {
		var tv TvrsTicketViolation
		if err := rows.Scan(&tv.ID, &tv.TicketID, &tv.ViolationTypeID, &tv.Points, &tv.Fine, &tv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tv)
	}
	return out, rows.Err()
}

type InsertPaymentParams struct {
	PaymentID   string
	TicketID    string
	Amount      float64
	Method      string
	ReceivedBy  string
	ReferenceNo string
}

func (q *Queries) InsertPayment(ctx context.Context, arg InsertPaymentParams) (TvrsPayment, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.payments (payment_id, ticket_id, amount, method, received_by, reference_no)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_id, ticket_id, amount, method, received_by, reference_no, created_at`,
		arg.PaymentID, arg.TicketID, arg.Amount, arg.Method, arg.ReceivedBy, arg.ReferenceNo)
	var p TvrsPayment
	err := row.Scan(&p.PaymentID, &p.TicketID, &p.Amount, &p.Method, &p.ReceivedBy, &p.ReferenceNo, &p.CreatedAt)
	return p, err
}

func (q *Queries) ListPayments(ctx context.Context, ticketID string) ([]TvrsPayment, error) {
	rows, err := q.db.Query(ctx, `
		SELECT payment_id, ticket_id, amount, method, received_by, reference_no, created_at
		FROM tvrs.payments WHERE ticket_id = $1 ORDER BY created_at, payment_id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var out []TvrsPayment
	for rows.Next() {
		var p TvrsPayment
		if err := rows.Scan(&p.PaymentID, &p.TicketID, &p.Amount, &p.Method, &p.ReceivedBy, &p.ReferenceNo, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumTicketPayments returns the paid total for a ticket.
func (q *Queries) SumTicketPayments(ctx context.Context, ticketID string) (float64, error) {
	var sum float64
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(sum(amount), 0)::float8 FROM tvrs.payments WHERE ticket_id = $1`,
		ticketID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum ticket payments: %w", err)
	}
	return sum, nil
}

func scanTicket(row pgx.Row) (TvrsTicket, error) {
	var t TvrsTicket
	err := row.Scan(&t.TicketID, &t.TicketNo, &t.DriverID, &t.VehicleID, &t.OfficerID,
		&t.Location, &t.Status, &t.TotalFine, &t.IssuedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// NumericFloat converts a scanned NUMERIC to float64 for JSON responses.
func NumericFloat(n pgtype.Numeric) float64 {
	v, err := n.Float64Value()
	if err != nil {
		return 0
	}
	return v.Float64
}
