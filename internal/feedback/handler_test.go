package feedback_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/feedback"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Feedback Handler", func() {
	var (
		router    chi.Router
		caller    *access.Identity
		colleague = access.Identity{SubjectID: 9, Role: access.RolePeer}
		owner     = access.Identity{SubjectID: 42, Role: access.RoleStandard}
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if caller != nil {
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), *caller))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		employees := mockEmployees{
			owners: map[int64]int64{100: 42},
			names:  map[int64]string{42: "Ada Lovelace", 9: "Alan Turing"},
		}
		service := feedback.NewService(newMockRepository(), employees, &stubEnhancer{}, logger)
		handler := feedback.NewHandler(service)
		handler.Logger = logger

		router = chi.NewRouter()
		router.Post("/employees/{id}/feedback", handler.CreateFeedback)
		router.Get("/employees/{id}/feedback", handler.GetEmployeeFeedback)
		router.Post("/feedback/suggestions", handler.GetSuggestions)
		router.Delete("/feedback/{id}", handler.DeleteFeedback)

		caller = &colleague
	})

	It("creates polished feedback", func() {
		w := do(http.MethodPost, "/employees/100/feedback", `{"content":"nice work","use_ai_polish":true}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("author_name", "Alan Turing"))
		Expect(body).To(HaveKeyWithValue("original_content", "nice work"))
		Expect(body).To(HaveKeyWithValue("polished_content", "Polished: nice work"))
		Expect(body).To(HaveKeyWithValue("is_polished", true))
	})

	It("returns 400 for self feedback", func() {
		caller = &owner

		w := do(http.MethodPost, "/employees/100/feedback", `{"content":"I rock"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("SELF_FEEDBACK"))
	})

	It("returns 400 for a malformed body", func() {
		w := do(http.MethodPost, "/employees/100/feedback", `{"content":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists feedback for an employee", func() {
		Expect(do(http.MethodPost, "/employees/100/feedback", `{"content":"one"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/employees/100/feedback", `{"content":"two"}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodGet, "/employees/100/feedback", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var body []map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body).To(HaveLen(2))
		Expect(body[0]).To(HaveKeyWithValue("original_content", "two"))
	})

	It("returns three suggestions", func() {
		w := do(http.MethodPost, "/feedback/suggestions", `{"content":"solid review"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body feedback.SuggestionsResponse
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Suggestions).To(HaveLen(3))
	})

	It("deletes only the caller's own feedback", func() {
		w := do(http.MethodPost, "/employees/100/feedback", `{"content":"thanks"}`)
		var created map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		target := "/feedback/" + jsonNumber(created["id"])

		caller = &owner
		Expect(do(http.MethodDelete, target, "").Code).To(Equal(http.StatusForbidden))

		caller = &colleague
		Expect(do(http.MethodDelete, target, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, target, "").Code).To(Equal(http.StatusNotFound))
	})

	It("returns 401 without an identity", func() {
		caller = nil

		w := do(http.MethodGet, "/employees/100/feedback", "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})

func jsonNumber(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
