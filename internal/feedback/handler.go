package feedback

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/frahmantamala/hr-records/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, id access.Identity, employeeID int64, dto CreateFeedbackDTO) (*Feedback, error)
	Suggestions(ctx context.Context, id access.Identity, dto SuggestionsDTO) ([]string, error)
	ListForEmployee(ctx context.Context, id access.Identity, employeeID int64) ([]*Feedback, error)
	Delete(ctx context.Context, id access.Identity, feedbackID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	employeeID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	var dto CreateFeedbackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CreateFeedback: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.Service.Create(r.Context(), id, employeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, NewFeedbackResponse(f))
}

func (h *Handler) GetEmployeeFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	employeeID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	list, err := h.Service.ListForEmployee(r.Context(), id, employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewFeedbackResponses(list))
}

func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto SuggestionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("GetSuggestions: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestions, err := h.Service.Suggestions(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	feedbackID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid feedback ID")
		return
	}

	if err := h.Service.Delete(r.Context(), id, feedbackID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
