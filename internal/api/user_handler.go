package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

// ListUsers lists users with limit/offset pagination.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	offset := parseOffset(r.URL.Query().Get("offset"))

	users, err := a.queries.ListUsers(ctx, int32(limit), int32(offset))
	if err != nil {
		a.log.Error("list users failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to list users"))
		return
	}

	resp := make([]core.User, len(users))
	for i, u := range users {
		resp[i] = userToCore(u)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"users": resp})
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.queries.GetUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "user not found"))
		return
	}
	WriteJSON(w, http.StatusOK, userToCore(u))
}

// CreateUser creates a user with a bcrypt-hashed password.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "username, password, and full_name are required"))
		return
	}
	if !core.ValidRole(core.Role(req.Role)) {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid role"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.log.Error("password hash failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to create user"))
		return
	}

	u, err := a.queries.CreateUser(ctx, store.CreateUserParams{
		UserID:       core.NewID(),
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrConflictExists, "username already exists"))
		return
	}

	a.record(r, core.ActionUserCreate, "User", u.UserID, "created user "+u.Username+" with role "+u.Role)
	WriteJSON(w, http.StatusCreated, userToCore(u))
}

func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if !core.ValidRole(core.Role(req.Role)) {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid role"))
		return
	}

	u, err := a.queries.UpdateUser(ctx, store.UpdateUserParams{
		UserID:   userID,
		FullName: req.FullName,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrNotFound, "user not found"))
		return
	}

	a.record(r, core.ActionUserUpdate, "User", u.UserID, "updated user "+u.Username)
	WriteJSON(w, http.StatusOK, userToCore(u))
}

func (a *API) SetUserPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	var req SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "password is required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.log.Error("password hash failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to set password"))
		return
	}

	if err := a.queries.SetUserPassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, core.NewAppError(core.ErrNotFound, "user not found"))
			return
		}
		a.log.Error("set password failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to set password"))
		return
	}

	a.record(r, core.ActionUserPasswordChange, "User", userID, "password changed")
	WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	if err := a.queries.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			WriteError(w, core.NewAppError(core.ErrNotFound, "user not found"))
			return
		}
		a.log.Error("delete user failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to delete user"))
		return
	}

	a.record(r, core.ActionUserDelete, "User", userID, "deleted user")
	w.WriteHeader(http.StatusNoContent)
}

func userToCore(u store.TvrsUser) core.User {
	return core.User{
		UserID:    u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      core.Role(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Time,
		UpdatedAt: u.UpdatedAt.Time,
	}
}
