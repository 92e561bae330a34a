package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/authz"
	"hacklabconnect/internal/platform/middleware"
	"hacklabconnect/internal/posts/service"
	"hacklabconnect/internal/session"
	"hacklabconnect/internal/transport/http/shared"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/validate"
)

type Handler struct {
	posts  *service.Service
	gate   *authz.Gate
	logger *slog.Logger
}

func New(posts *service.Service, gate *authz.Gate, logger *slog.Logger) *Handler {
	return &Handler{posts: posts, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/posts", h.handleCreate)
	r.Get("/posts/{postID}", h.handleGet)
	r.Delete("/posts/{postID}", h.handleDelete)
	r.Get("/communities/{communityID}/posts", h.handleListByCommunity)

	r.Post("/posts/{postID}/comments", h.handleComment)
	r.Get("/posts/{postID}/comments", h.handleListComments)
	r.Delete("/comments/{commentID}", h.handleDeleteComment)

	r.Post("/posts/{postID}/likes", h.handleLike)
	r.Delete("/posts/{postID}/likes", h.handleUnlike)
	r.Get("/posts/{postID}/likes", h.handleLikeCount)
}

type createRequest struct {
	CommunityID string `json:"communityId"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

var createSchema = validate.Schema{Required: []string{"communityId", "title", "content"}}

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
		"content":     req.Content,
	}); err != nil {
		shared.WriteError(w, err)
		return
	}

	communityID, err := id.ParseCommunityID(req.CommunityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	post, err := h.posts.Create(ctx, ident.UserID, communityID, req.Title, req.Content)
	if err != nil {
		h.logInternal(r, "posts.create", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, "post", post)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	post, err := h.posts.Get(r.Context(), postID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.get", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "post", post)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	post, err := h.posts.Get(ctx, postID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, post.AuthorID); err != nil {
		shared.LogDenied(h.logger, r, "posts.delete", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	if err := h.posts.Delete(ctx, postID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.delete", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) handleListByCommunity(w http.ResponseWriter, r *http.Request) {
	communityID, err := id.ParseCommunityID(chi.URLParam(r, "communityID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	posts, err := h.posts.ListByCommunity(r.Context(), communityID)
	if err != nil {
		h.logInternal(r, "posts.list", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "posts", posts)
}

type commentRequest struct {
	Content string `json:"content"`
}

var commentSchema = validate.Schema{Required: []string{"content"}}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := commentSchema.Check(validate.Fields{"content": req.Content}); err != nil {
		shared.WriteError(w, err)
		return
	}

	comment, err := h.posts.Comment(ctx, ident.UserID, postID, req.Content)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) || dErrors.Is(err, dErrors.CodePartialUpdate) {
			h.logInternal(r, "posts.comment", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, "comment", comment)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	comments, err := h.posts.Comments(r.Context(), postID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.comments", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "comments", comments)
}

func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	commentID, err := id.ParseCommentID(chi.URLParam(r, "commentID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	comment, err := h.posts.GetComment(ctx, commentID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.gate.Authorize(ctx, ident, authz.OwnerOrAdmin, comment.AuthorID); err != nil {
		shared.LogDenied(h.logger, r, "posts.comment.delete", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}

	if err := h.posts.DeleteComment(ctx, commentID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.comment.delete", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	like, created, err := h.posts.Like(ctx, postID, ident.UserID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.like", err)
		}
		shared.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.WriteJSON(w, status, "like", like)
}

func (h *Handler) handleUnlike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := session.FromContext(ctx)

	if err := h.gate.Authorize(ctx, ident, authz.AuthenticatedAny, id.UserID{}); err != nil {
		shared.WriteError(w, err)
		return
	}

	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.posts.Unlike(ctx, postID, ident.UserID); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.unlike", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "removed", true)
}

func (h *Handler) handleLikeCount(w http.ResponseWriter, r *http.Request) {
	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	count, err := h.posts.LikeCount(r.Context(), postID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logInternal(r, "posts.likes.count", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, "likes", count)
}

func (h *Handler) logInternal(r *http.Request, operation string, err error) {
	ident := session.FromContext(r.Context())
	identityID := ""
	if !ident.Anonymous {
		identityID = ident.UserID.String()
	}
	shared.LogError(h.logger, r, operation, middleware.GetRequestID(r.Context()), identityID, err)
}
