package employee

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
	Get(ctx context.Context, id access.Identity, employeeID int64) (*View, error)
	List(ctx context.Context, id access.Identity) ([]*View, error)
	ListPage(ctx context.Context, id access.Identity, q PageQuery) (*Page, error)
	Search(ctx context.Context, id access.Identity, term string, q PageQuery) (*Page, error)
	Me(ctx context.Context, id access.Identity) (*View, error)
	Update(ctx context.Context, id access.Identity, employeeID int64, changes Changes) (*View, error)
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

// ListEmployees returns the full list, or a page when both page and size are
// given.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	query := r.URL.Query()
	if query.Get("page") == "" || query.Get("size") == "" {
		views, err := h.Service.List(r.Context(), id)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, views)
		return
	}

	q, err := NewPageQuery(query.Get("page"), query.Get("size"), query.Get("sortBy"), query.Get("sortDir"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page, err := h.Service.ListPage(r.Context(), id, q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	query := r.URL.Query()
	q, err := NewPageQuery(query.Get("page"), query.Get("size"), query.Get("sortBy"), query.Get("sortDir"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page, err := h.Service.Search(r.Context(), id, query.Get("q"), q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Me(r.Context(), id)
	if err != nil {
		h.Logger.Warn("GetMe: service error", "error", err, "subject_id", id.SubjectID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.Service.Get(r.Context(), id, employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
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

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("UpdateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.Update(r.Context(), id, employeeID, dto.ToChanges())
	if err != nil {
		h.Logger.Warn("UpdateEmployee: service error", "error", err, "employee_id", employeeID, "subject_id", id.SubjectID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}
