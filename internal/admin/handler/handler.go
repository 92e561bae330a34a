package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/admin/service"
	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/validate"
)

type Handler struct {
	admin  *service.Service
	gate   *authz.Gate
	logger *slog.Logger
}

func New(admin *service.Service, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{admin: admin, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/reports", h.handleCreateReport)

	r.Get("/admin/users", h.handleListUsers)
	r.Delete("/admin/users/{userID}", h.handleDeleteUser)
	r.Get("/admin/reports", h.handleListReports)
	r.Post("/admin/reports/{reportID}/resolve", h.handleResolveReport)
}

type createReportRequest struct {
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

var createReportSchema = validate.Schema{Required: []string{"subject", "reason"}}

func (h *Handler) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := createReportSchema.Check(validate.Fields{
		"subject": req.Subject,
		"reason":  req.Reason,
	}); err != nil {
		shared.WriteError(w, err)
		return
	}

	report, err := h.admin.CreateReport(ctx, ident.UserID, req.Subject, req.Reason)
	if err != nil {
		h.logInternal(r, "reports.create", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, "report", report)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AdminOnly, id.UserID{}); err != nil {
		shared.LogDenied(h.logger, r, "admin.users.list", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	users, err := h.admin.Users(ctx)
	if err != nil {
		h.logInternal(r, "admin.users.list", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "users", users)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AdminOnly, id.UserID{}); err != nil {
		shared.LogDenied(h.logger, r, "admin.users.delete", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.admin.DeleteUser(ctx, userID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) || dErrors.Is(err, dErrors.CodePartialUpdate) {
			h.logInternal(r, "admin.users.delete", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AdminOnly, id.UserID{}); err != nil {
		shared.LogDenied(h.logger, r, "admin.reports.list", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	reports, err := h.admin.Reports(ctx)
	if err != nil {
		h.logInternal(r, "admin.reports.list", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "reports", reports)
}

func (h *Handler) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AdminOnly, id.UserID{}); err != nil {
		shared.LogDenied(h.logger, r, "admin.reports.resolve", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	reportID, err := id.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	report, err := h.admin.ResolveReport(ctx, reportID, ident.UserID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "admin.reports.resolve", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "report", report)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
