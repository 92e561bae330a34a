package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/notifications/service"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

type Handler struct {
	notifications *service.Service
	gate          *authz.Gate
	logger        *slog.Logger
}

func New(notifications *service.Service, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{notifications: notifications, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Get("/notifications/unread-count", h.handleUnreadCount)
	r.Post("/notifications/{notificationID}/read", h.handleMarkRead)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	notifications, err := h.notifications.List(ctx, ident.UserID)
	if err != nil {
		h.logInternal(r, "notifications.list", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "notifications", notifications)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	count, err := h.notifications.UnreadCount(ctx, ident.UserID)
	if err != nil {
		h.logInternal(r, "notifications.unread", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "unread", count)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "notificationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	notification, err := h.notifications.Get(ctx, notificationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, notification.UserID); err != nil {
		shared.LogDenied(h.logger, r, "notifications.read", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	updated, err := h.notifications.MarkRead(ctx, notificationID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "notifications.read", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "notification", updated)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
