package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/api/middleware"
	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

type SetConfigRequest struct {
	Value string `json:"value"`
}

type ConfigResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedBy string `json:"updated_by,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func (a *API) ListConfig(w http.ResponseWriter, r *http.Request) {
	entries, err := a.queries.ListConfig(r.Context())
	if err != nil {
		a.log.Error("list config failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list config"))
		return
	}

	resp := make([]ConfigResponse, len(entries))
	for i, c := range entries {
		resp[i] = configToResponse(c)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"config": resp})
}

func (a *API) GetConfig(w http.ResponseWriter, r *http.Request) {
	c, err := a.queries.GetConfig(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "config key not found"))
		return
	}
	WriteJSON(w, http.StatusOK, configToResponse(c))
}

// SetConfig upserts a key. The demerit threshold key must stay a positive
// integer or the suspension rule would run against garbage.
func (a *API) SetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	var req SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "value is required"))
		return
	}

	if key == core.ConfigKeyDemeritThreshold {
		n, err := strconv.Atoi(req.Value)
		if err != nil || n < 1 {
			WriteError(w, core.NewAppError(core.ErrBadRequest, "value must be a positive integer"))
			return
		}
	}

	updatedBy := pgtype.Text{Valid: false}
	if p, ok := middleware.GetPrincipal(r); ok {
		updatedBy = pgtype.Text{String: p.UserID, Valid: true}
	}

	c, err := a.queries.UpsertConfig(ctx, store.UpsertConfigParams{
		Key:       key,
		Value:     req.Value,
		UpdatedBy: updatedBy,
	})
	if err != nil {
		a.log.Error("upsert config failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to set config"))
		return
	}

	a.record(r, core.ActionConfigUpdate, "SystemConfig", key, key+" set to "+req.Value)
	WriteJSON(w, http.StatusOK, configToResponse(c))
}

func configToResponse(c store.TvrsSystemConfig) ConfigResponse {
	out := ConfigResponse{
		Key:       c.Key,
		Value:     c.Value,
		UpdatedAt: c.UpdatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
	if c.UpdatedBy.Valid {
		out.UpdatedBy = c.UpdatedBy.String
	}
	return out
}
