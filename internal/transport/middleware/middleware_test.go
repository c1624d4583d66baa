package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/frahmantamala/hr-records/pkg/metrics"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("filterSensitiveJSON", func() {
	It("masks secrets and confidential employee fields at any depth", func() {
		body := []byte(`{
			"username": "ada",
			"password": "hunter2",
			"access_token": "abc",
			"items": [{"first_name": "Ada", "salary": 90000, "national_id": "X1", "bank_account": "DE00"}]
		}`)

		var out map[string]interface{}
		Expect(json.Unmarshal([]byte(filterSensitiveBody(body)), &out)).To(Succeed())

		Expect(out).To(HaveKeyWithValue("username", "ada"))
		Expect(out).To(HaveKeyWithValue("password", filtered))
		Expect(out).To(HaveKeyWithValue("access_token", filtered))

		item := out["items"].([]interface{})[0].(map[string]interface{})
		Expect(item).To(HaveKeyWithValue("first_name", "Ada"))
		Expect(item).To(HaveKeyWithValue("salary", filtered))
		Expect(item).To(HaveKeyWithValue("national_id", filtered))
		Expect(item).To(HaveKeyWithValue("bank_account", filtered))
	})

	It("masks non-JSON bodies that mention a secret", func() {
		Expect(filterSensitiveBody([]byte("password=hunter2"))).To(Equal("[FILTERED - Contains sensitive data]"))
		Expect(filterSensitiveBody([]byte("plain text"))).To(Equal("plain text"))
	})

	It("masks sensitive headers", func() {
		headers := http.Header{}
		headers.Set("Authorization", "Bearer abc")
		headers.Set("Accept", "application/json")

		out := filterSensitiveHeaders(headers)
		Expect(out).To(HaveKeyWithValue("Authorization", filtered))
		Expect(out).To(HaveKeyWithValue("Accept", "application/json"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("logs masked bodies and records request metrics", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
		collector := metrics.New()

		handler := LoggingMiddleware(lg, collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			Expect(string(body)).To(ContainSubstring("hunter2"))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"salary": 1}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"hunter2"}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(buf.String()).NotTo(ContainSubstring("hunter2"))
		Expect(buf.String()).NotTo(ContainSubstring(`\"salary\":1`))
		Expect(buf.String()).To(ContainSubstring(`"status_code":404`))

		snapshot := collector.Snapshot()
		Expect(snapshot["requestsTotal"]).To(Equal(uint64(1)))
		Expect(snapshot["clientErrorsTotal"]).To(Equal(uint64(1)))
	})

	It("does not log binary response bodies", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := LoggingMiddleware(lg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.3 raw"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/report.pdf", nil))

		Expect(buf.String()).NotTo(ContainSubstring("%PDF"))
		Expect(buf.String()).To(ContainSubstring("[BINARY]"))
	})
})

var _ = Describe("RequestID", func() {
	It("mints a trace id and stores it on the context", func() {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.TraceIDFromContext(r.Context())
			Expect(logger.From(r.Context())).NotTo(BeNil())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(w.Header().Get(TraceHeader)).To(Equal(seen))
	})

	It("reuses a well-formed incoming trace id", func() {
		incoming := "3f2b8c1e-9d4a-4e6b-8a7c-1b2d3e4f5a6b"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, incoming)

		w := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

		Expect(w.Header().Get(TraceHeader)).To(Equal(incoming))
	})

	It("replaces a malformed incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "<script>")

		w := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

		Expect(w.Header().Get(TraceHeader)).NotTo(Equal("<script>"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("answers a panic with the standard internal error body", func() {
		handler := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("secret detail")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
		Expect(w.Body.String()).NotTo(ContainSubstring("secret detail"))
	})
})

var _ = Describe("CORS", func() {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	It("echoes listed origins and ignores others", func() {
		handler := CORS("https://hr.example.com, https://admin.example.com/")(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://admin.example.com"))
		Expect(w.Code).To(Equal(http.StatusTeapot))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("short-circuits preflight requests", func() {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://hr.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		w := httptest.NewRecorder()

		CORS("*")(next).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PUT"))
	})
})

const contractDoc = `
openapi: 3.0.3
info:
  title: test
  version: "1"
paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: integer
          minimum: 1
    put:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
      responses:
        "200":
          description: ok
  /items:
    get:
      parameters:
        - name: size
          in: query
          schema:
            type: integer
            maximum: 100
      responses:
        "200":
          description: ok
`

var _ = Describe("OpenAPIValidator", func() {
	var handler http.Handler

	BeforeEach(func() {
		doc, err := LoadOpenAPI(context.Background(), []byte(contractDoc))
		Expect(err).NotTo(HaveOccurred())

		mw, err := OpenAPIValidator(doc, quietLogger())
		Expect(err).NotTo(HaveOccurred())

		handler = mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(body)
		}))
	})

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	It("passes valid requests through with the body intact", func() {
		w := serve(http.MethodPut, "/items/3", `{"name":"x"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal(`{"name":"x"}`))
	})

	It("rejects bodies that break the schema", func() {
		w := serve(http.MethodPut, "/items/3", `{"title":"x"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))
	})

	It("rejects query parameters out of range", func() {
		w := serve(http.MethodGet, "/items?size=500", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"size"`))
	})

	It("lets undocumented routes through", func() {
		Expect(serve(http.MethodGet, "/not/in/contract", "").Code).To(Equal(http.StatusOK))
	})

	It("refuses an invalid document", func() {
		_, err := LoadOpenAPI(context.Background(), []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"))
		Expect(err).To(HaveOccurred())
	})
})
