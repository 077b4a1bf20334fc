package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcabrerra/tvrs/internal/api/middleware"
	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/observability"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// Login verifies credentials and mints a bearer token. Both the failure and
// the success paths leave an audit event; the failure event carries the
// attempted username, never the password.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "username and password are required"))
		return
	}

	u, err := a.queries.GetUserByUsername(ctx, req.Username)
	if err != nil || !u.Active ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		observability.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		// Failed auth is anonymous: nobody proved they are that user, so the
		// event carries no actor, only the attempted username in details.
		a.recordLogin(r, core.ActionLoginFailed, "", "failed login for username "+req.Username)
		WriteError(w, core.NewAppError(core.ErrUnauthorized, "invalid credentials"))
		return
	}

	user := userToCore(u)
	token, err := middleware.IssueToken([]byte(a.cfg.JWTSecret), user, a.cfg.TokenTTL)
	if err != nil {
		a.log.Error("token issue failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to issue token"))
		return
	}

	observability.LoginAttemptsTotal.WithLabelValues("success").Inc()
	a.recordLogin(r, core.ActionLoginSuccess, u.UserID, "login by "+u.Username)

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout is bookkeeping only: tokens are stateless and expire on their own,
// but the event stream should still show the session boundary.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.GetPrincipal(r)
	a.record(r, core.ActionLogout, "", "", "logout by "+p.Username)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// recordLogin attributes login events to the target user rather than a
// bearer-token principal, which does not exist yet at login time.
func (a *API) recordLogin(r *http.Request, action, userID, details string) {
	in := core.EventInput{Action: action, Details: &details}
	if userID != "" {
		in.ActorID = &userID
	}
	if ip := clientIP(r); ip != "" {
		in.IPAddress = &ip
	}
	a.recorder.Record(r.Context(), in)
}
