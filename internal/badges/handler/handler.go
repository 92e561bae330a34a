package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hacklabconnect/internal/badges/svg"
	"hacklabconnect/internal/transport/http/shared"
	dErrors "hacklabconnect/pkg/domain-errors"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/badges/svg", h.handleRender)
}

// handleRender is public and side-effect free. The output is a pure
// function of the query, so the response carries an immutable cache
// header.
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "missing required fields: label"))
		return
	}

	colorIndex := 0
	if raw := r.URL.Query().Get("color"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "color must be a non-negative integer"))
			return
		}
		colorIndex = parsed
	}

	body := svg.Render(label, colorIndex)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
