package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

type CreateViolationTypeRequest struct {
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	FineAmount    float64 `json:"fine_amount"`
	DemeritPoints int     `json:"demerit_points"`
}

type UpdateViolationTypeRequest struct {
	Description   string  `json:"description"`
	FineAmount    float64 `json:"fine_amount"`
	DemeritPoints int     `json:"demerit_points"`
	Active        bool    `json:"active"`
}

func (a *API) ListViolationTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activeOnly := r.URL.Query().Get("active") == "true"

	types, err := a.queries.ListViolationTypes(ctx, activeOnly)
	if err != nil {
		a.log.Error("list violation types failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list violation types"))
		return
	}

	resp := make([]core.ViolationType, len(types))
	for i, vt := range types {
		resp[i] = violationTypeToCore(vt)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"violation_types": resp})
}

func (a *API) CreateViolationType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateViolationTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.Code == "" || req.Description == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "code and description are required"))
		return
	}
	if req.FineAmount < 0 || req.DemeritPoints < 0 {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "fine_amount and demerit_points must be non-negative"))
		return
	}

	vt, err := a.queries.CreateViolationType(ctx, store.CreateViolationTypeParams{
		ViolationTypeID: core.NewID(),
		Code:            req.Code,
		Description:     req.Description,
		FineAmount:      req.FineAmount,
		DemeritPoints:   int32(req.DemeritPoints),
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrConflictExists, "violation code already exists"))
		return
	}

	a.record(r, core.ActionViolationTypeCreate, "ViolationType", vt.ViolationTypeID, "created violation type "+vt.Code)
	WriteJSON(w, http.StatusCreated, violationTypeToCore(vt))
}

func (a *API) UpdateViolationType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "violation_type_id")

	var req UpdateViolationTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.FineAmount < 0 || req.DemeritPoints < 0 {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "fine_amount and demerit_points must be non-negative"))
		return
	}

	vt, err := a.queries.UpdateViolationType(ctx, store.UpdateViolationTypeParams{
		ViolationTypeID: id,
		Description:     req.Description,
		FineAmount:      req.FineAmount,
		DemeritPoints:   int32(req.DemeritPoints),
		Active:          req.Active,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "violation type not found"))
		return
	}

	a.record(r, core.ActionViolationTypeUpdate, "ViolationType", vt.ViolationTypeID, "updated violation type "+vt.Code)
	WriteJSON(w, http.StatusOK, violationTypeToCore(vt))
}

func violationTypeToCore(vt store.TvrsViolationType) core.ViolationType {
	return core.ViolationType{
		ViolationTypeID: vt.ViolationTypeID,
		Code:            vt.Code,
		Description:     vt.Description,
		FineAmount:      store.NumericFloat(vt.FineAmount),
		DemeritPoints:   int(vt.DemeritPoints),
		Active:          vt.Active,
	}
}
