package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

type CreateDriverRequest struct {
	LicenseNo string `json:"license_no"`
	FullName  string `json:"full_name"`
	Address   string `json:"address"`
}

type UpdateDriverRequest struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
}

type SetLicenseStatusRequest struct {
	LicenseStatus string `json:"license_status"`
}

func (a *API) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	offset := parseOffset(r.URL.Query().Get("offset"))

	drivers, err := a.queries.ListDrivers(ctx, int32(limit), int32(offset))
	if err != nil {
		a.log.Error("list drivers failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list drivers"))
		return
	}

	resp := make([]core.Driver, len(drivers))
	for i, d := range drivers {
		resp[i] = driverToCore(d)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"drivers": resp})
}

func (a *API) GetDriver(w http.ResponseWriter, r *http.Request) {
	d, err := a.queries.GetDriver(r.Context(), chi.URLParam(r, "driver_id"))
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "driver not found"))
		return
	}
	WriteJSON(w, http.StatusOK, driverToCore(d))
}

func (a *API) CreateDriver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.LicenseNo == "" || req.FullName == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "license_no and full_name are required"))
		return
	}

	d, err := a.queries.CreateDriver(ctx, store.CreateDriverParams{
		DriverID:  core.NewID(),
		LicenseNo: req.LicenseNo,
		FullName:  req.FullName,
		Address:   req.Address,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrConflictExists, "license number already registered"))
		return
	}

	a.record(r, core.ActionDriverCreate, "Driver", d.DriverID, "registered driver "+d.LicenseNo)
	WriteJSON(w, http.StatusCreated, driverToCore(d))
}

func (a *API) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID := chi.URLParam(r, "driver_id")

	var req UpdateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.FullName == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "full_name is required"))
		return
	}

	d, err := a.queries.UpdateDriver(ctx, store.UpdateDriverParams{
		DriverID: driverID,
		FullName: req.FullName,
		Address:  req.Address,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "driver not found"))
		return
	}

	a.record(r, core.ActionDriverUpdate, "Driver", d.DriverID, "updated driver "+d.LicenseNo)
	WriteJSON(w, http.StatusOK, driverToCore(d))
}

// SetLicenseStatus is the manual override: reinstating a suspended license or
// revoking one outright. The automatic suspension path lives in ticketing.
func (a *API) SetLicenseStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID := chi.URLParam(r, "driver_id")

	var req SetLicenseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if !core.ValidLicenseStatus(core.LicenseStatus(req.LicenseStatus)) {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid license_status"))
		return
	}

	d, err := a.queries.SetLicenseStatus(ctx, store.SetLicenseStatusParams{
		DriverID:      driverID,
		LicenseStatus: req.LicenseStatus,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "driver not found"))
		return
	}

	a.record(r, core.ActionDriverLicenseSet, "Driver", d.DriverID,
		fmt.Sprintf("license status set to %s", d.LicenseStatus))
	WriteJSON(w, http.StatusOK, driverToCore(d))
}

func driverToCore(d store.TvrsDriver) core.Driver {
	return core.Driver{
		DriverID:      d.DriverID,
		LicenseNo:     d.LicenseNo,
		FullName:      d.FullName,
		Address:       d.Address,
		LicenseStatus: core.LicenseStatus(d.LicenseStatus),
		DemeritPoints: int(d.DemeritPoints),
		CreatedAt:     d.CreatedAt.Time,
		UpdatedAt:     d.UpdatedAt.Time,
	}
}
