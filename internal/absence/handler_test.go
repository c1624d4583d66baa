package absence_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/internal/absence"
	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Absence Handler", func() {
	var (
		router chi.Router
		caller access.Identity
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), caller))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := absence.NewService(newMockRepository(), mockEmployees{ownerEmployeeID: 42}, nil, logger,
			absence.WithClock(func() time.Time { return today }))
		handler := absence.NewHandler(service)
		handler.Logger = logger

		router = chi.NewRouter()
		router.Post("/employees/{id}/absences", handler.CreateAbsence)
		router.Get("/employees/{id}/absences", handler.GetEmployeeAbsences)
		router.Get("/absences", handler.GetAllAbsences)
		router.Get("/absences/pending/count", handler.GetPendingCount)
		router.Get("/absences/report.pdf", handler.GetReport)
		router.Put("/absences/{id}", handler.UpdateAbsence)
		router.Delete("/absences/{id}", handler.CancelAbsence)
		router.Put("/absences/{id}/status", handler.UpdateAbsenceStatus)

		caller = owner
	})

	submit := func() float64 {
		w := do(http.MethodPost, "/employees/100/absences",
			`{"start_date":"2025-06-11","end_date":"2025-06-15","type":"VACATION","reason":"trip"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		return decode(w)["id"].(float64)
	}

	It("creates a pending request", func() {
		w := do(http.MethodPost, "/employees/100/absences",
			`{"start_date":"2025-06-11","end_date":"2025-06-15","type":"sick_leave"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		body := decode(w)
		Expect(body).To(HaveKeyWithValue("status", "pending"))
		Expect(body).To(HaveKeyWithValue("start_date", "2025-06-11"))
		Expect(body).NotTo(HaveKey("approved_by"))
	})

	It("returns 400 with field details for a past start date", func() {
		w := do(http.MethodPost, "/employees/100/absences",
			`{"start_date":"2025-06-01","end_date":"2025-06-15","type":"vacation"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		errBody := decode(w)["error"].(map[string]interface{})
		Expect(errBody).To(HaveKeyWithValue("type", "VALIDATION_ERROR"))
		Expect(errBody).To(HaveKey("details"))
	})

	It("returns 409 when the owner edits a decided request", func() {
		id := submit()

		caller = manager1
		w := do(http.MethodPut, "/absences/"+ftoa(id)+"/status?status=APPROVED", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("approved_by", 1.0))

		caller = owner
		w = do(http.MethodDelete, "/absences/"+ftoa(id), "")
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decode(w)["error"]).To(HaveKeyWithValue("code", "ABSENCE_NOT_PENDING"))
	})

	It("returns 403 when a standard caller decides", func() {
		id := submit()

		w := do(http.MethodPut, "/absences/"+ftoa(id)+"/status?status=approved", "")

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("rejects a malformed status", func() {
		id := submit()
		caller = manager1

		w := do(http.MethodPut, "/absences/"+ftoa(id)+"/status?status=maybe", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("cancels a pending request", func() {
		id := submit()

		w := do(http.MethodDelete, "/absences/"+ftoa(id), "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("status", "cancelled"))
	})

	It("edits a pending request", func() {
		id := submit()

		w := do(http.MethodPut, "/absences/"+ftoa(id),
			`{"start_date":"2025-06-12","end_date":"2025-06-13","type":"personal_leave"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("end_date", "2025-06-13"))
	})

	It("lists the employee's requests", func() {
		submit()
		submit()

		w := do(http.MethodGet, "/employees/100/absences", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var list []map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(2))
	})

	It("serves the pending count and report to a manager", func() {
		submit()
		caller = manager1

		w := do(http.MethodGet, "/absences/pending/count", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("count", 1.0))

		w = do(http.MethodGet, "/absences/report.pdf?status=pending", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
		Expect(w.Body.String()).To(HavePrefix("%PDF-"))
	})

	It("rejects an unknown status filter", func() {
		caller = manager1

		w := do(http.MethodGet, "/absences?status=archived", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("forbids the full listing to a peer", func() {
		caller = peer

		w := do(http.MethodGet, "/absences", "")

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})
})

func ftoa(f float64) string {
	return strconv.FormatInt(int64(f), 10)
}
