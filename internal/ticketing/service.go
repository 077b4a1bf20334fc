// Package ticketing issues tickets, posts violations and payments, and
// applies the demerit-threshold suspension rule.
package ticketing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/audit"
	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/observability"
	"github.com/jcabrerra/tvrs/internal/store"
)

// Actor identifies who triggered an operation, for audit purposes.
type Actor struct {
	ID string
	IP string
}

type Service struct {
	pool             *pgxpool.Pool
	queries          *store.Queries
	recorder         *audit.Recorder
	defaultThreshold int
	log              *zap.Logger
}

func New(pool *pgxpool.Pool, recorder *audit.Recorder, defaultThreshold int, log *zap.Logger) *Service {
	return &Service{
		pool:             pool,
		queries:          store.New(pool),
		recorder:         recorder,
		defaultThreshold: defaultThreshold,
		log:              log,
	}
}

type CreateTicketInput struct {
	DriverID         string
	VehicleID        *string
	OfficerID        string
	Location         string
	ViolationTypeIDs []string
}

type TicketResult struct {
	Ticket     store.TvrsTicket
	Violations []store.TvrsTicketViolation
	Driver     store.TvrsDriver
	Suspended  bool
}

// CreateTicket issues a ticket with its initial violations in one
// transaction. Demerit points from every violation are applied and the
// suspension rule evaluated inside the same transaction.
func (s *Service) CreateTicket(ctx context.Context, in CreateTicketInput, actor Actor) (TicketResult, error) {
	if in.DriverID == "" || in.OfficerID == "" || len(in.ViolationTypeIDs) == 0 {
		return TicketResult{}, core.NewAppError(core.ErrBadRequest, "driver_id, officer_id, and at least one violation are required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return TicketResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	driver, err := qtx.GetDriverForUpdate(ctx, in.DriverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TicketResult{}, core.NewAppError(core.ErrNotFound, "driver not found")
		}
		return TicketResult{}, fmt.Errorf("lock driver: %w", err)
	}

	vehicleID := pgtype.Text{Valid: false}
	if in.VehicleID != nil && *in.VehicleID != "" {
		vehicleID = pgtype.Text{String: *in.VehicleID, Valid: true}
	}

	ticketID := core.NewID()
	ticket, err := qtx.CreateTicket(ctx, store.CreateTicketParams{
		TicketID:  ticketID,
		TicketNo:  core.NewID(),
		DriverID:  in.DriverID,
		VehicleID: vehicleID,
		OfficerID: in.OfficerID,
		Location:  in.Location,
	})
	if err != nil {
		return TicketResult{}, fmt.Errorf("create ticket: %w", err)
	}

	res := TicketResult{Ticket: ticket, Driver: driver}
	for _, vtID := range in.ViolationTypeIDs {
		tv, d, suspended, err := s.applyViolation(ctx, qtx, ticket.TicketID, vtID, actor)
		if err != nil {
			return TicketResult{}, err
		}
		res.Violations = append(res.Violations, tv)
		res.Driver = d
		res.Suspended = res.Suspended || suspended
		driver = d
	}
	// Re-read for the accumulated total_fine.
	res.Ticket, err = qtx.GetTicket(ctx, ticket.TicketID)
	if err != nil {
		return TicketResult{}, fmt.Errorf("reread ticket: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return TicketResult{}, fmt.Errorf("commit: %w", err)
	}

	observability.TicketsIssuedTotal.Inc()
	s.recordFor(ctx, actor, core.ActionTicketCreate, "Ticket", ticket.TicketID,
		fmt.Sprintf("ticket %s for driver %s, %d violation(s)", ticket.TicketNo, in.DriverID, len(in.ViolationTypeIDs)))

	return res, nil
}

type ViolationResult struct {
	Violation store.TvrsTicketViolation
	Ticket    store.TvrsTicket
	Driver    store.TvrsDriver
	Suspended bool
}

// AddViolation posts one more violation to an existing ticket, applying the
// demerit rule transactionally.
func (s *Service) AddViolation(ctx context.Context, ticketID, violationTypeID string, actor Actor) (ViolationResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ViolationResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	ticket, err := qtx.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ViolationResult{}, core.NewAppError(core.ErrNotFound, "ticket not found")
		}
		return ViolationResult{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Status == string(core.TicketVoid) || ticket.Status == string(core.TicketPaid) {
		return ViolationResult{}, core.NewAppError(core.ErrPreconditionFailed, "ticket is closed")
	}

	if _, err := qtx.GetDriverForUpdate(ctx, ticket.DriverID); err != nil {
		return ViolationResult{}, fmt.Errorf("lock driver: %w", err)
	}

	tv, d, suspended, err := s.applyViolation(ctx, qtx, ticket.TicketID, violationTypeID, actor)
	if err != nil {
		return ViolationResult{}, err
	}
	ticket, err = qtx.GetTicket(ctx, ticket.TicketID)
	if err != nil {
		return ViolationResult{}, fmt.Errorf("reread ticket: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ViolationResult{}, fmt.Errorf("commit: %w", err)
	}

	s.recordFor(ctx, actor, core.ActionTicketViolationAdd, "Ticket", ticket.TicketID,
		fmt.Sprintf("violation type %s (+%d pts)", violationTypeID, tv.Points))

	return ViolationResult{Violation: tv, Ticket: ticket, Driver: d, Suspended: suspended}, nil
}

// applyViolation runs inside a transaction that already holds the driver row
// lock. It inserts the violation, accumulates fine and points, and performs
// the threshold check-and-suspend. The suspension event is written through
// the same transaction so a concurrent posting can never double-record it.
func (s *Service) applyViolation(ctx context.Context, qtx *store.Queries, ticketID, violationTypeID string, actor Actor) (store.TvrsTicketViolation, store.TvrsDriver, bool, error) {
	vt, err := qtx.GetViolationType(ctx, violationTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, core.NewAppError(core.ErrNotFound, "violation type not found")
		}
		return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("get violation type: %w", err)
	}
	if !vt.Active {
		return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, core.NewAppError(core.ErrPreconditionFailed, "violation type is inactive")
	}

	fine := store.NumericFloat(vt.FineAmount)
	tv, err := qtx.InsertTicketViolation(ctx, store.InsertTicketViolationParams{
		TicketID:        ticketID,
		ViolationTypeID: violationTypeID,
		Points:          vt.DemeritPoints,
		Fine:            fine,
	})
	if err != nil {
		return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("insert violation: %w", err)
	}

	ticket, err := qtx.AddTicketFine(ctx, ticketID, fine)
	if err != nil {
		return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("add fine: %w", err)
	}

	driver, err := qtx.AddDriverPoints(ctx, ticket.DriverID, vt.DemeritPoints)
	if err != nil {
		return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("add points: %w", err)
	}

	threshold, err := qtx.GetConfigInt(ctx, core.ConfigKeyDemeritThreshold, s.defaultThreshold)
	if err != nil {
		return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("read threshold: %w", err)
	}

	suspended := false
	if int(driver.DemeritPoints) >= threshold && driver.LicenseStatus == string(core.LicenseActive) {
		driver, err = qtx.SetLicenseStatus(ctx, store.SetLicenseStatusParams{
			DriverID:      driver.DriverID,
			LicenseStatus: string(core.LicenseSuspended),
		})
		if err != nil {
			return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("suspend license: %w", err)
		}
		details := fmt.Sprintf("demerit points %d reached threshold %d", driver.DemeritPoints, threshold)
		_, err = qtx.InsertAuditEvent(ctx, store.InsertAuditEventParams{
			ActorID:       textFromString(actor.ID),
			Action:        core.ActionDriverLicenseSuspend,
			Details:       pgtype.Text{String: details, Valid: true},
			IPAddress:     textFromString(actor.IP),
			AffectedTable: pgtype.Text{String: "Driver", Valid: true},
			AffectedID:    pgtype.Text{String: driver.DriverID, Valid: true},
		})
		if err != nil {
			// A failed statement aborts the transaction, so this cannot be
			// swallowed like recorder writes outside transactions are.
			return store.TvrsTicketViolation{}, store.TvrsDriver{}, false, fmt.Errorf("record suspension: %w", err)
		}
		observability.LicenseSuspensionsTotal.Inc()
		suspended = true
	}

	return tv, driver, suspended, nil
}

type PaymentResult struct {
	Payment store.TvrsPayment
	Ticket  store.TvrsTicket
}

// RecordPayment posts a payment and recomputes the ticket status. The paid
// total may never exceed the ticket's total fine.
func (s *Service) RecordPayment(ctx context.Context, ticketID string, amount float64, method, referenceNo string, actor Actor) (PaymentResult, error) {
	if amount <= 0 {
		return PaymentResult{}, core.NewAppError(core.ErrBadRequest, "amount must be positive")
	}
	if method == "" {
		return PaymentResult{}, core.NewAppError(core.ErrBadRequest, "method is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	ticket, err := qtx.GetTicketForUpdate(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PaymentResult{}, core.NewAppError(core.ErrNotFound, "ticket not found")
		}
		return PaymentResult{}, fmt.Errorf("lock ticket: %w", err)
	}
	if ticket.Status == string(core.TicketVoid) {
		return PaymentResult{}, core.NewAppError(core.ErrPreconditionFailed, "ticket is void")
	}
	if ticket.Status == string(core.TicketPaid) {
		return PaymentResult{}, core.NewAppError(core.ErrPreconditionFailed, "ticket is already paid")
	}

	paid, err := qtx.SumTicketPayments(ctx, ticketID)
	if err != nil {
		return PaymentResult{}, err
	}
	totalFine := store.NumericFloat(ticket.TotalFine)
	if paid+amount > totalFine {
		return PaymentResult{}, core.NewAppError(core.ErrBadRequest,
			fmt.Sprintf("payment of %.2f exceeds outstanding balance %.2f", amount, totalFine-paid))
	}

	payment, err := qtx.InsertPayment(ctx, store.InsertPaymentParams{
		PaymentID:   core.NewID(),
		TicketID:    ticketID,
		Amount:      amount,
		Method:      method,
		ReceivedBy:  actor.ID,
		ReferenceNo: referenceNo,
	})
	if err != nil {
		return PaymentResult{}, fmt.Errorf("insert payment: %w", err)
	}

	status := core.TicketPartiallyPaid
	if paid+amount >= totalFine {
		status = core.TicketPaid
	}
	ticket, err = qtx.UpdateTicketStatus(ctx, store.UpdateTicketStatusParams{
		TicketID: ticketID,
		Status:   string(status),
	})
	if err != nil {
		return PaymentResult{}, fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return PaymentResult{}, fmt.Errorf("commit: %w", err)
	}

	observability.PaymentsRecordedTotal.Inc()
	s.recordFor(ctx, actor, core.ActionPaymentCreate, "Payment", payment.PaymentID,
		fmt.Sprintf("%.2f against ticket %s", amount, ticket.TicketNo))

	return PaymentResult{Payment: payment, Ticket: ticket}, nil
}

// VoidTicket marks a ticket VOID. Admin-only at the API layer. The status
// check runs under the same row lock RecordPayment takes, so a payment
// committing concurrently can never leave a PAID ticket voided.
func (s *Service) VoidTicket(ctx context.Context, ticketID string, actor Actor) (store.TvrsTicket, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.TvrsTicket{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	ticket, err := qtx.GetTicketForUpdate(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.TvrsTicket{}, core.NewAppError(core.ErrNotFound, "ticket not found")
		}
		return store.TvrsTicket{}, fmt.Errorf("lock ticket: %w", err)
	}
	if ticket.Status == string(core.TicketVoid) {
		return ticket, nil
	}
	if ticket.Status == string(core.TicketPaid) {
		return store.TvrsTicket{}, core.NewAppError(core.ErrPreconditionFailed, "paid tickets cannot be voided")
	}

	ticket, err = qtx.UpdateTicketStatus(ctx, store.UpdateTicketStatusParams{
		TicketID: ticketID,
		Status:   string(core.TicketVoid),
	})
	if err != nil {
		return store.TvrsTicket{}, fmt.Errorf("void ticket: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return store.TvrsTicket{}, fmt.Errorf("commit: %w", err)
	}

	s.recordFor(ctx, actor, core.ActionTicketVoid, "Ticket", ticketID, "voided "+strconv.Quote(ticket.TicketNo))
	return ticket, nil
}

func (s *Service) recordFor(ctx context.Context, actor Actor, action, table, id, details string) {
	var actorID, ip *string
	if actor.ID != "" {
		actorID = &actor.ID
	}
	if actor.IP != "" {
		ip = &actor.IP
	}
	s.recorder.Record(ctx, core.EventInput{
		ActorID:       actorID,
		Action:        action,
		Details:       &details,
		IPAddress:     ip,
		AffectedTable: &table,
		AffectedID:    &id,
	})
}

func textFromString(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
