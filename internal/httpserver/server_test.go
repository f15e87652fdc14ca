package httpserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
)

type pingController struct{}

func (pingController) AddRoutes(router *http.ServeMux) {
	router.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		ReplyJSONResponse(w, http.StatusOK, map[string]string{"request_id": RequestID(r.Context())})
	})
	router.HandleFunc("POST /fail", func(w http.ResponseWriter, r *http.Request) {
		ReplyWithError(w, http.StatusBadRequest, "bad input")
	})
}

var _ = ginkgo.Describe("HTTPServer", func() {
	var (
		server  *StandardServer
		metrics *Metrics
	)

	ginkgo.BeforeEach(func() {
		metrics = NewMetrics(prometheus.NewRegistry())
		server = NewServer(Options{
			Addr:           "127.0.0.1:0",
			AllowedOrigins: []string{"http://localhost:8080"},
			Metrics:        metrics,
			Logger:         logger.Nop(),
		}, pingController{})
	})

	ginkgo.Context("RequestIDMiddleware", func() {
		ginkgo.When("the client sends no request ID", func() {
			ginkgo.It("should generate one and echo it in the response", func() {
				req := httptest.NewRequest(http.MethodGet, "/ping", nil)
				rec := httptest.NewRecorder()

				server.Handler().ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
				id := rec.Header().Get(RequestIDHeader)
				gomega.Expect(id).To(gomega.HaveLen(36))
				gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(id))
			})
		})

		ginkgo.When("the client sends a request ID", func() {
			ginkgo.It("should keep it", func() {
				req := httptest.NewRequest(http.MethodGet, "/ping", nil)
				req.Header.Set(RequestIDHeader, "abc-123")
				rec := httptest.NewRecorder()

				server.Handler().ServeHTTP(rec, req)

				gomega.Expect(rec.Header().Get(RequestIDHeader)).To(gomega.Equal("abc-123"))
			})
		})
	})

	ginkgo.Context("CORS", func() {
		ginkgo.It("should answer preflight requests for allowed origins", func() {
			req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
			req.Header.Set("Origin", "http://localhost:8080")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()

			server.Handler().ServeHTTP(rec, req)

			gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("http://localhost:8080"))
		})

		ginkgo.It("should not allow other origins", func() {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", "http://evil.example")
			rec := httptest.NewRecorder()

			server.Handler().ServeHTTP(rec, req)

			gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.BeEmpty())
		})
	})

	ginkgo.Context("Metrics", func() {
		ginkgo.It("should count requests by route and status", func() {
			for _, path := range []string{"/ping", "/fail"} {
				method := http.MethodGet
				if path == "/fail" {
					method = http.MethodPost
				}
				server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, nil))
			}

			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			body := rec.Body.String()
			gomega.Expect(body).To(gomega.ContainSubstring(`oraquery_http_requests_total{endpoint="/ping",method="GET",status_code="200"} 1`))
			gomega.Expect(body).To(gomega.ContainSubstring(`oraquery_http_requests_total{endpoint="/fail",method="POST",status_code="400"} 1`))
		})

		ginkgo.It("should fold unmatched paths into one series", func() {
			for i := 0; i < 3; i++ {
				path := fmt.Sprintf("/random-%d/x", i)
				server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
			}
			server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/ping", nil))

			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			body := rec.Body.String()
			gomega.Expect(body).To(gomega.ContainSubstring(`oraquery_http_requests_total{endpoint="other",method="GET",status_code="404"} 3`))
			gomega.Expect(body).To(gomega.ContainSubstring(`oraquery_http_requests_total{endpoint="other",method="DELETE",status_code="405"} 1`))
			gomega.Expect(body).NotTo(gomega.ContainSubstring("random-"))
		})
	})

	ginkgo.Context("Lifecycle", func() {
		ginkgo.It("should serve after Start and refuse after Stop", func() {
			gomega.Expect(server.Start()).To(gomega.Succeed())
			gomega.Expect(server.Start()).NotTo(gomega.Succeed())

			resp, err := http.Get(fmt.Sprintf("http://%s/ping", server.Addr()))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))
			gomega.Expect(string(body)).To(gomega.ContainSubstring("request_id"))

			gomega.Expect(server.Stop(context.Background())).To(gomega.Succeed())

			_, err = http.Get(fmt.Sprintf("http://%s/ping", server.Addr()))
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should treat Stop before Start as a no-op", func() {
			gomega.Expect(server.Stop(context.Background())).To(gomega.Succeed())
			gomega.Expect(server.Addr()).To(gomega.Equal("127.0.0.1:0"))
		})
	})
})

var _ = ginkgo.Describe("Helpers", func() {
	ginkgo.It("should reject oversized bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", MaxBodyBytes+1)))
		_, err := ReadBody(req)
		gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("exceeds")))
	})

	ginkgo.It("should report undecodable JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		var v map[string]any
		gomega.Expect(DecodeJSONBody(req, &v)).To(gomega.MatchError(gomega.ContainSubstring("unmarshaling json")))
	})

	ginkgo.DescribeTable("routeLabel",
		func(method, path, expected string) {
			router := http.NewServeMux()
			pingController{}.AddRoutes(router)
			gomega.Expect(routeLabel(router, httptest.NewRequest(method, path, nil))).To(gomega.Equal(expected))
		},
		ginkgo.Entry("registered route", http.MethodGet, "/ping", "/ping"),
		ginkgo.Entry("other method route", http.MethodPost, "/fail", "/fail"),
		ginkgo.Entry("unknown path", http.MethodGet, "/nope/1", "other"),
		ginkgo.Entry("wrong method", http.MethodGet, "/fail", "other"),
		ginkgo.Entry("root", http.MethodGet, "/", "other"),
	)
})
