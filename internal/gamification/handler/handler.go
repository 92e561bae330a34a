package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/gamification/service"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/validate"
)

type Handler struct {
	gamification *service.Service
	gate         *authz.Gate
	logger       *slog.Logger
}

func New(gamification *service.Service, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{gamification: gamification, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/gamification/leaderboard", h.handleLeaderboard)
	r.Get("/gamification/users/{userID}", h.handleStanding)
	r.Post("/gamification/users/{userID}/badges", h.handleGrantBadge)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.gamification.Leaderboard(r.Context(), limit)
	if err != nil {
		h.logInternal(r, "gamification.leaderboard", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "leaderboard", entries)
}

func (h *Handler) handleStanding(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	standing, err := h.gamification.Standing(r.Context(), userID)
	if err != nil {
		h.logInternal(r, "gamification.standing", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "standing", standing)
}

type grantBadgeRequest struct {
	Name string `json:"name"`
}

var grantBadgeSchema = validate.Schema{Required: []string{"name"}}

func (h *Handler) handleGrantBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AdminOnly, id.UserID{}); err != nil {
		shared.LogDenied(h.logger, r, "gamification.badge.grant", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req grantBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := grantBadgeSchema.Check(validate.Fields{"name": req.Name}); err != nil {
		shared.WriteError(w, err)
		return
	}

	badge, err := h.gamification.GrantBadge(ctx, userID, req.Name)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) || dErrors.Is(err, dErrors.CodePartialUpdate) {
			h.logInternal(r, "gamification.badge.grant", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, "badge", badge)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
