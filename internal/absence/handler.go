package absence

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/frahmantamala/hr-records/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, id access.Identity, employeeID int64, dto AbsenceRequestDTO) (*Absence, error)
	Update(ctx context.Context, id access.Identity, absenceID int64, dto AbsenceRequestDTO) (*Absence, error)
	Cancel(ctx context.Context, id access.Identity, absenceID int64) (*Absence, error)
	Decide(ctx context.Context, id access.Identity, absenceID int64, status Status) (*Absence, error)
	ListForEmployee(ctx context.Context, id access.Identity, employeeID int64) ([]*Absence, error)
	ListAll(ctx context.Context, id access.Identity, filter ListFilter) ([]*Absence, error)
	PendingCount(ctx context.Context, id access.Identity) (int64, error)
	RenderReport(ctx context.Context, id access.Identity, filter ListFilter) ([]byte, error)
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

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
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

	var dto AbsenceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CreateAbsence: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Create(r.Context(), id, employeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, NewAbsenceResponse(a))
}

func (h *Handler) GetEmployeeAbsences(w http.ResponseWriter, r *http.Request) {
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
	h.WriteJSON(w, http.StatusOK, NewAbsenceResponses(list))
}

func (h *Handler) GetAllAbsences(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filter, err := NewListFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	list, err := h.Service.ListAll(r.Context(), id, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewAbsenceResponses(list))
}

func (h *Handler) GetPendingCount(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	n, err := h.Service.PendingCount(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PendingCountResponse{Count: n})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filter, err := NewListFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	out, err := h.Service.RenderReport(r.Context(), id, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="absences.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.Logger.Error("GetReport: failed to write response", "error", err)
	}
}

func (h *Handler) UpdateAbsence(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	absenceID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid absence ID")
		return
	}

	var dto AbsenceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("UpdateAbsence: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Update(r.Context(), id, absenceID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewAbsenceResponse(a))
}

func (h *Handler) CancelAbsence(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	absenceID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid absence ID")
		return
	}

	a, err := h.Service.Cancel(r.Context(), id, absenceID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewAbsenceResponse(a))
}

func (h *Handler) UpdateAbsenceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	absenceID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid absence ID")
		return
	}

	status, ok := ParseStatus(r.URL.Query().Get("status"))
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	a, err := h.Service.Decide(r.Context(), id, absenceID, status)
	if err != nil {
		h.Logger.Warn("UpdateAbsenceStatus: service error", "error", err, "absence_id", absenceID, "subject_id", id.SubjectID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewAbsenceResponse(a))
}
