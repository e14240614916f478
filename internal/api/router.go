// Package api exposes the diagnostic engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/logging"
	"github.com/abhisek/paesdx/internal/mst"
	"github.com/abhisek/paesdx/internal/report"
	"github.com/abhisek/paesdx/internal/session"
	"github.com/abhisek/paesdx/internal/store"
)

// Evaluator runs diagnostics; *session.Engine implements it.
type Evaluator interface {
	RouteStage(routingAnswers []mst.Answer) (*session.RouteDecision, error)
	Evaluate(sub session.Submission) (*report.Report, error)
}

// Reloader swaps in freshly loaded content; *content.Holder implements it.
type Reloader interface {
	Reload() (*content.Snapshot, error)
}

// Deps are the collaborators the HTTP layer needs. Reports and Content
// may be nil, which disables persistence and the reload endpoint.
type Deps struct {
	Engine  Evaluator
	Reports store.ReportRepo
	Content Reloader
	Log     *logging.Logger
}

// NewRouter wires the routes.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	h := &handler{deps: d, log: d.Log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/route", h.Route)
		api.Post("/diagnostics", h.CreateDiagnostic)
		api.Get("/diagnostics/{id}", h.GetDiagnostic)
		api.Get("/students/{studentID}/diagnostics", h.ListStudentDiagnostics)
		api.Post("/admin/content/reload", h.ReloadContent)
	})

	return r
}

// requestLogger logs one line per request through zap. It records the
// matched route pattern, never the raw path, because paths carry student
// identifiers.
func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					"method", r.Method,
					"route", routePattern(r),
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern returns the chi pattern that matched r, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
