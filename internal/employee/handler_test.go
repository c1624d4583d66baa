package employee_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler", func() {
	var (
		repo   *mockRepository
		router chi.Router
		caller access.Identity
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
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
		repo = newMockRepository(newRecord(100, 42, "Owner"), newRecord(200, 9, "Peer"))
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := employee.NewService(repo, employee.NewListCache(time.Minute, nil), logger)

		handler := employee.NewHandler(service)
		handler.Logger = logger

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Get("/employees/search", handler.SearchEmployees)
		router.Get("/employees/me", handler.GetMe)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Put("/employees/{id}", handler.UpdateEmployee)

		caller = access.Identity{SubjectID: 9, Role: access.RolePeer}
	})

	It("returns the full list without paging parameters", func() {
		w := do(http.MethodGet, "/employees", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var views []map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&views)).To(Succeed())
		Expect(views).To(HaveLen(2))
		Expect(views[0]).NotTo(HaveKey("salary"))
		Expect(views[1]).To(HaveKey("salary"))
	})

	It("returns a page when page and size are given", func() {
		w := do(http.MethodGet, "/employees?page=0&size=1&sortBy=lastName", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		body := decode(w)
		Expect(body["total_items"]).To(BeEquivalentTo(2))
		Expect(body["total_pages"]).To(BeEquivalentTo(2))
		Expect(body["items"]).To(HaveLen(1))
	})

	It("rejects an unknown sort key", func() {
		w := do(http.MethodGet, "/employees?page=0&size=5&sortBy=salary", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		body := decode(w)
		Expect(body["error"]).To(HaveKeyWithValue("type", "VALIDATION_ERROR"))
	})

	It("searches", func() {
		w := do(http.MethodGet, "/employees/search?q=Owner", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["items"]).To(HaveLen(1))
	})

	It("returns the caller's own record with confidential fields", func() {
		w := do(http.MethodGet, "/employees/me", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		body := decode(w)
		Expect(body["id"]).To(BeEquivalentTo(200))
		Expect(body).To(HaveKey("national_id"))
	})

	It("hides confidential fields of another record", func() {
		w := do(http.MethodGet, "/employees/100", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		body := decode(w)
		Expect(body).To(HaveKeyWithValue("last_name", "Owner"))
		Expect(body).NotTo(HaveKey("bank_account"))
	})

	It("rejects a malformed id", func() {
		w := do(http.MethodGet, "/employees/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for an unknown employee", func() {
		w := do(http.MethodGet, "/employees/999", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decode(w)["error"]).To(HaveKeyWithValue("code", "EMPLOYEE_NOT_FOUND"))
	})

	It("returns 401 without an identity", func() {
		req := httptest.NewRequest(http.MethodGet, "/employees/100", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	Describe("PUT /employees/{id}", func() {
		It("narrows an owner update to contact fields", func() {
			caller = access.Identity{SubjectID: 42, Role: access.RoleStandard}

			w := do(http.MethodPut, "/employees/100", `{"salary": 200000, "phone": "+15550100"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := decode(w)
			Expect(body).To(HaveKeyWithValue("phone", "+15550100"))
			Expect(body).To(HaveKeyWithValue("salary", 90000.0))
		})

		It("drops an invalid confidential value from an owner instead of failing", func() {
			caller = access.Identity{SubjectID: 42, Role: access.RoleStandard}

			w := do(http.MethodPut, "/employees/100", `{"salary": -1, "phone": "+15550100"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(HaveKeyWithValue("phone", "+15550100"))
		})

		It("rejects an invalid value a privileged caller may write", func() {
			caller = access.Identity{SubjectID: 1, Role: access.RolePrivileged}

			w := do(http.MethodPut, "/employees/100", `{"salary": -1}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["error"]).To(HaveKeyWithValue("type", "VALIDATION_ERROR"))
		})

		It("forbids a non-owner", func() {
			w := do(http.MethodPut, "/employees/100", `{"phone": "+1"}`)

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decode(w)["error"]).To(HaveKeyWithValue("code", "ACCESS_DENIED"))
		})

		It("rejects an undecodable body", func() {
			caller = access.Identity{SubjectID: 42, Role: access.RoleStandard}

			w := do(http.MethodPut, "/employees/100", `{"phone":`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
