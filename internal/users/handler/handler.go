// Package handler exposes the user and auth routes. Every handler follows
// the same order: resolve identity (middleware already did), authorize,
// validate, dispatch to the service, normalize the response, short-
// circuiting on the first failure.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	"hacklabconnect/internal/users/models"
	"hacklabconnect/internal/users/service"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/validate"
)

// Sessions is the slice of the session resolver the auth routes need.
type Sessions interface {
	Issue(ctx context.Context, userID id.UserID) (*session.Session, string, error)
	Revoke(ctx context.Context, sessionID id.SessionID) error
}

type Handler struct {
	users    *service.Service
	sessions Sessions
	gate     *authz.Gate
	logger   *slog.Logger
}

func New(users *service.Service, sessions Sessions, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)

	r.Get("/users/{userID}", h.handleGetProfile)
	r.Put("/users/{userID}", h.handleUpdateProfile)
	r.Get("/users/me/settings", h.handleGetSettings)
	r.Put("/users/me/settings", h.handleSaveSettings)
}

type loginRequest struct {
	Email string `json:"email"`
}

var loginSchema = validate.Schema{Required: []string{"email"}}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := loginSchema.Check(validate.Fields{"email": req.Email}); err != nil {
		shared.WriteError(w, err)
		return
	}

	user, err := h.users.FindOrCreateByEmail(ctx, req.Email)
	if err != nil {
		h.logInternal(r, "auth.login", err)
		shared.WriteError(w, err)
		return
	}

	_, token, err := h.sessions.Issue(ctx, user.ID)
	if err != nil {
		h.logInternal(r, "auth.login", err)
		shared.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	shared.WriteJSON(w, http.StatusOK, "session", map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)
	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.sessions.Revoke(ctx, ident.SessionID); err != nil && !dErrors.Is(err, dErrors.CodeNotFound) {
		h.logInternal(r, "auth.logout", err)
		shared.WriteError(w, err)
		return
	}

	session.ClearCookie(w)
	shared.WriteJSON(w, http.StatusOK, "loggedOut", true)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "users.get", err)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, "user", user.Public())
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// The profile's owner is the addressed user; no lookup needed.
	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, userID); err != nil {
		h.logDenied(r, "users.update", err)
		shared.WriteError(w, err)
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "users.update", err)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, "user", user)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	settings, err := h.users.GetSettings(ctx, ident.UserID)
	if err != nil {
		h.logInternal(r, "users.settings.get", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, "settings", settings)
}

type settingsRequest struct {
	EmailNotifications *bool  `json:"emailNotifications"`
	Theme              string `json:"theme"`
}

func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	current, err := h.users.GetSettings(ctx, ident.UserID)
	if err != nil {
		h.logInternal(r, "users.settings.save", err)
		shared.WriteError(w, err)
		return
	}
	if req.EmailNotifications != nil {
		current.EmailNotifications = *req.EmailNotifications
	}
	if req.Theme != "" {
		current.Theme = req.Theme
	}

	settings, err := h.users.SaveSettings(ctx, current)
	if err != nil {
		h.logInternal(r, "users.settings.save", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, "settings", settings)
}

func (h *Handler) logDenied(r *http.Request, operation string, err error) {
	shared.LogDenied(h.logger, r, operation, middleware.GetRequestID(r.Context()), err)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
