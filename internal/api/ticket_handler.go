package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
	"github.com/jcabrerra/tvrs/internal/ticketing"
)

type CreateTicketRequest struct {
	DriverID         string   `json:"driver_id"`
	VehicleID        *string  `json:"vehicle_id,omitempty"`
	Location         string   `json:"location"`
	ViolationTypeIDs []string `json:"violation_type_ids"`
}

type AddViolationRequest struct {
	ViolationTypeID string `json:"violation_type_id"`
}

type RecordPaymentRequest struct {
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	ReferenceNo string  `json:"reference_no"`
}

type TicketResponse struct {
	Ticket     core.Ticket            `json:"ticket"`
	Violations []core.TicketViolation `json:"violations,omitempty"`
	Driver     *core.Driver           `json:"driver,omitempty"`
	Suspended  bool                   `json:"suspended,omitempty"`
}

// CreateTicket issues a ticket. The issuing officer is the authenticated
// caller, not a field of the request body.
func (a *API) CreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFrom(r)

	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}

	res, err := a.ticketSvc.CreateTicket(ctx, ticketing.CreateTicketInput{
		DriverID:         req.DriverID,
		VehicleID:        req.VehicleID,
		OfficerID:        actor.ID,
		Location:         req.Location,
		ViolationTypeIDs: req.ViolationTypeIDs,
	}, actor)
	if err != nil {
		a.writeServiceError(w, err, "create ticket")
		return
	}

	WriteJSON(w, http.StatusCreated, ticketResultResponse(res))
}

func (a *API) GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticketID := chi.URLParam(r, "ticket_id")

	t, err := a.queries.GetTicket(ctx, ticketID)
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "ticket not found"))
		return
	}
	violations, err := a.queries.ListTicketViolations(ctx, ticketID)
	if err != nil {
		a.log.Error("list ticket violations failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to load ticket"))
		return
	}

	resp := TicketResponse{Ticket: ticketToCore(t)}
	for _, tv := range violations {
		resp.Violations = append(resp.Violations, violationToCore(tv))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (a *API) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	tickets, err := a.queries.ListTickets(ctx, store.ListTicketsParams{
		DriverID: textParam(q.Get("driver_id")),
		Status:   textParam(q.Get("status")),
		Limit:    int32(parseLimit(q.Get("limit"), 20, 100)),
		Offset:   int32(parseOffset(q.Get("offset"))),
	})
	if err != nil {
		a.log.Error("list tickets failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list tickets"))
		return
	}

	resp := make([]core.Ticket, len(tickets))
	for i, t := range tickets {
		resp[i] = ticketToCore(t)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"tickets": resp})
}

func (a *API) AddTicketViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticketID := chi.URLParam(r, "ticket_id")

	var req AddViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ViolationTypeID == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "violation_type_id is required"))
		return
	}

	res, err := a.ticketSvc.AddViolation(ctx, ticketID, req.ViolationTypeID, actorFrom(r))
	if err != nil {
		a.writeServiceError(w, err, "add violation")
		return
	}

	driver := driverToCore(res.Driver)
	WriteJSON(w, http.StatusOK, TicketResponse{
		Ticket:     ticketToCore(res.Ticket),
		Violations: []core.TicketViolation{violationToCore(res.Violation)},
		Driver:     &driver,
		Suspended:  res.Suspended,
	})
}

func (a *API) VoidTicket(w http.ResponseWriter, r *http.Request) {
	t, err := a.ticketSvc.VoidTicket(r.Context(), chi.URLParam(r, "ticket_id"), actorFrom(r))
	if err != nil {
		a.writeServiceError(w, err, "void ticket")
		return
	}
	WriteJSON(w, http.StatusOK, ticketToCore(t))
}

func (a *API) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticketID := chi.URLParam(r, "ticket_id")

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}

	res, err := a.ticketSvc.RecordPayment(ctx, ticketID, req.Amount, req.Method, req.ReferenceNo, actorFrom(r))
	if err != nil {
		a.writeServiceError(w, err, "record payment")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"payment": paymentToCore(res.Payment),
		"ticket":  ticketToCore(res.Ticket),
	})
}

func (a *API) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticketID := chi.URLParam(r, "ticket_id")

	if _, err := a.queries.GetTicket(ctx, ticketID); err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "ticket not found"))
		return
	}
	payments, err := a.queries.ListPayments(ctx, ticketID)
	if err != nil {
		a.log.Error("list payments failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list payments"))
		return
	}

	resp := make([]core.Payment, len(payments))
	for i, p := range payments {
		resp[i] = paymentToCore(p)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"payments": resp})
}

// writeServiceError maps service-layer errors onto the response envelope.
// AppErrors carry their own status; anything else is a 500.
func (a *API) writeServiceError(w http.ResponseWriter, err error, op string) {
	var appErr *core.AppError
	if errors.As(err, &appErr) {
		WriteError(w, appErr)
		return
	}
	a.log.Error(op+" failed", zap.Error(err))
	WriteError(w, core.NewAppError(core.ErrInternal, op+" failed"))
}

func ticketResultResponse(res ticketing.TicketResult) TicketResponse {
	driver := driverToCore(res.Driver)
	out := TicketResponse{
		Ticket:    ticketToCore(res.Ticket),
		Driver:    &driver,
		Suspended: res.Suspended,
	}
	for _, tv := range res.Violations {
		out.Violations = append(out.Violations, violationToCore(tv))
	}
	return out
}

func ticketToCore(t store.TvrsTicket) core.Ticket {
	var vehicleID *string
	if t.VehicleID.Valid {
		s := t.VehicleID.String
		vehicleID = &s
	}
	return core.Ticket{
		TicketID:  t.TicketID,
		TicketNo:  t.TicketNo,
		DriverID:  t.DriverID,
		VehicleID: vehicleID,
		OfficerID: t.OfficerID,
		Location:  t.Location,
		Status:    core.TicketStatus(t.Status),
		TotalFine: store.NumericFloat(t.TotalFine),
		IssuedAt:  t.IssuedAt.Time,
		CreatedAt: t.CreatedAt.Time,
		UpdatedAt: t.UpdatedAt.Time,
	}
}

func violationToCore(tv store.TvrsTicketViolation) core.TicketViolation {
	return core.TicketViolation{
		ID:              tv.ID,
		TicketID:        tv.TicketID,
		ViolationTypeID: tv.ViolationTypeID,
		Points:          int(tv.Points),
		Fine:            store.NumericFloat(tv.Fine),
		CreatedAt:       tv.CreatedAt.Time,
	}
}

func paymentToCore(p store.TvrsPayment) core.Payment {
	return core.Payment{
		PaymentID:   p.PaymentID,
		TicketID:    p.TicketID,
		Amount:      store.NumericFloat(p.Amount),
		Method:      p.Method,
		ReceivedBy:  p.ReceivedBy,
		ReferenceNo: p.ReferenceNo,
		CreatedAt:   p.CreatedAt.Time,
	}
}

func textParam(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
