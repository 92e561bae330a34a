package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/communities/models"
	"hacklabconnect/internal/communities/service"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/validate"
)

type Handler struct {
	communities *service.Service
	gate        *authz.Gate
	logger      *slog.Logger
}

func New(communities *service.Service, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{communities: communities, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/communities", h.handleList)
	r.Post("/communities", h.handleCreate)
	r.Get("/communities/{communityID}", h.handleGet)
	r.Put("/communities/{communityID}", h.handleUpdate)
	r.Delete("/communities/{communityID}", h.handleDelete)

	r.Get("/communities/{communityID}/members", h.handleListMembers)
	r.Post("/communities/{communityID}/members", h.handleJoin)
	r.Delete("/communities/{communityID}/members", h.handleLeave)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.communities.List(r.Context())
	if err != nil {
		h.logInternal(r, "communities.list", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "communities", out)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var createSchema = validate.Schema{Required: []string{"name"}}

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
	if err := createSchema.Check(validate.Fields{"name": req.Name}); err != nil {
		shared.WriteError(w, err)
		return
	}

	community, err := h.communities.Create(ctx, ident.UserID, req.Name, req.Description)
	if err != nil {
		h.logInternal(r, "communities.create", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, "community", community)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	community, err := h.communities.Get(r.Context(), communityID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "communities.get", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "community", community)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	community, err := h.communities.Get(ctx, communityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, community.CreatedBy); err != nil {
		shared.LogDenied(h.logger, r, "communities.update", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	var update models.CommunityUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.communities.Update(ctx, communityID, update)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "communities.update", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "community", updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	community, err := h.communities.Get(ctx, communityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, community.CreatedBy); err != nil {
		shared.LogDenied(h.logger, r, "communities.delete", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	if err := h.communities.Delete(ctx, communityID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "communities.delete", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	members, err := h.communities.Members(r.Context(), communityID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "communities.members", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "members", members)
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	membership, created, err := h.communities.Join(ctx, communityID, ident.UserID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "communities.join", err)
		}
		shared.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.WriteJSON(w, status, "membership", membership)
}

func (h *Handler) handleLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.communities.Leave(ctx, communityID, ident.UserID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "communities.leave", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
