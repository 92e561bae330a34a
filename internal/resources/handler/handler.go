package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/resources/service"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/validate"
)

type Handler struct {
	resources *service.Service
	gate      *authz.Gate
	logger    *slog.Logger
}

func New(resources *service.Service, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{resources: resources, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/resources", h.handleList)
	r.Post("/resources", h.handleCreate)
	r.Get("/resources/{resourceID}", h.handleGet)
	r.Delete("/resources/{resourceID}", h.handleDelete)
}

type createRequest struct {
	CommunityID string `json:"communityId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	FileRef     string `json:"fileRef"`
}

var createSchema = validate.Schema{
	Required: []string{"communityId", "title", "category"},
	OneOf:    [][]string{{"url", "fileRef"}},
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := createSchema.Check(validate.Fields{
		"communityId": req.CommunityID,
		"title":       req.Title,
		"category":    req.Category,
		"url":         req.URL,
		"fileRef":     req.FileRef,
	}); err != nil {
		shared.WriteError(w, err)
		return
	}

	communityID, err := id.ParseCommunityID(req.CommunityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resource, err := h.resources.Create(ctx, ident.UserID, service.CreateInput{
		CommunityID: communityID,
		Title:       req.Title,
		Category:    req.Category,
		URL:         req.URL,
		FileRef:     req.FileRef,
	})
	if err != nil {
		h.logInternal(r, "resources.create", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, "resource", resource)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	resourceID, err := id.ParseResourceID(chi.URLParam(r, "resourceID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resource, err := h.resources.Get(r.Context(), resourceID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "resources.get", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "resource", resource)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	resourceID, err := id.ParseResourceID(chi.URLParam(r, "resourceID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resource, err := h.resources.Get(ctx, resourceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, resource.CreatedBy); err != nil {
		shared.LogDenied(h.logger, r, "resources.delete", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	if err := h.resources.Delete(ctx, resourceID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "resources.delete", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var filter *id.CommunityID
	if raw := r.URL.Query().Get("communityId"); raw != "" {
		communityID, err := id.ParseCommunityID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		filter = &communityID
	}

	resources, err := h.resources.List(r.Context(), filter)
	if err != nil {
		h.logInternal(r, "resources.list", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "resources", resources)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
