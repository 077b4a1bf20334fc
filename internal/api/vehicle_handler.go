package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

type CreateVehicleRequest struct {
	PlateNo   string `json:"plate_no"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	OwnerName string `json:"owner_name"`
}

func (a *API) ListVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	offset := parseOffset(r.URL.Query().Get("offset"))

	vehicles, err := a.queries.ListVehicles(ctx, int32(limit), int32(offset))
	if err != nil {
		a.log.Error("list vehicles failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list vehicles"))
		return
	}

	resp := make([]core.Vehicle, len(vehicles))
	for i, v := range vehicles {
		resp[i] = vehicleToCore(v)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"vehicles": resp})
}

func (a *API) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := a.queries.GetVehicle(r.Context(), chi.URLParam(r, "vehicle_id"))
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "vehicle not found"))
		return
	}
	WriteJSON(w, http.StatusOK, vehicleToCore(v))
}

func (a *API) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.PlateNo == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "plate_no is required"))
		return
	}

	v, err := a.queries.CreateVehicle(ctx, store.CreateVehicleParams{
		VehicleID: core.NewID(),
		PlateNo:   req.PlateNo,
		Make:      req.Make,
		Model:     req.Model,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrConflictExists, "plate number already registered"))
		return
	}

	a.record(r, core.ActionVehicleCreate, "Vehicle", v.VehicleID, "registered vehicle "+v.PlateNo)
	WriteJSON(w, http.StatusCreated, vehicleToCore(v))
}

func vehicleToCore(v store.TvrsVehicle) core.Vehicle {
	return core.Vehicle{
		VehicleID: v.VehicleID,
		PlateNo:   v.PlateNo,
		Make:      v.Make,
		Model:     v.Model,
		OwnerName: v.OwnerName,
		CreatedAt: v.CreatedAt.Time,
	}
}
