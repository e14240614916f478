package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/logging"
	"github.com/abhisek/paesdx/internal/mst"
	"github.com/abhisek/paesdx/internal/session"
	"github.com/abhisek/paesdx/internal/store"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 20
	maxLimit     = 200
)

type handler struct {
	deps Deps
	log  *logging.Logger
}

type routeRequest struct {
	RoutingAnswers []mst.Answer `json:"routing_answers"`
}

type reloadResponse struct {
	Origin           string    `json:"origin"`
	BlueprintVersion string    `json:"blueprint_version"`
	Atoms            int       `json:"atoms"`
	Items            int       `json:"items"`
	LoadedAt         time.Time `json:"loaded_at"`
}

// decode reads the body, checks it against schema and unmarshals it into
// out. It writes the error response itself and reports whether to go on.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, schema string, out any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, "could not read request body")
		return false
	}
	if err := content.Validate(schema, body); err != nil {
		var se *content.SchemaError
		if errors.As(err, &se) {
			writeError(w, r, http.StatusBadRequest, "invalid request body", se.Problems...)
			return false
		}
		h.fail(w, r, err)
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// fail maps an engine or store error to a status code.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var cfg *diagerr.ConfigurationError
	switch {
	case diagerr.IsMalformed(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "diagnostic not found")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &cfg):
		h.log.Error("content configuration error", "source", cfg.Source, "problems", cfg.Problems)
		writeError(w, r, http.StatusInternalServerError, "content configuration error", cfg.Problems...)
	case diagerr.IsConfiguration(err):
		h.log.Error("content configuration error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "content configuration error", err.Error())
	default:
		h.log.Error("request failed", "route", routePattern(r), "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *handler) Route(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if !h.decode(w, r, content.SchemaRouteRequest, &req) {
		return
	}
	dec, err := h.deps.Engine.RouteStage(req.RoutingAnswers)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, dec)
}

func (h *handler) CreateDiagnostic(w http.ResponseWriter, r *http.Request) {
	var sub session.Submission
	if !h.decode(w, r, content.SchemaSubmission, &sub) {
		return
	}
	rep, err := h.deps.Engine.Evaluate(sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.deps.Reports != nil {
		seq, err := h.deps.Reports.Save(r.Context(), rep)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.log.Info("diagnostic stored",
			"report_id", rep.ID,
			"student_id", rep.StudentID,
			"route", rep.Route,
			"sequence", seq,
		)
	}
	writeOK(w, r, http.StatusCreated, rep)
}

func (h *handler) GetDiagnostic(w http.ResponseWriter, r *http.Request) {
	if h.deps.Reports == nil {
		writeError(w, r, http.StatusNotFound, "report storage is disabled")
		return
	}
	rep, err := h.deps.Reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, rep)
}

func (h *handler) ListStudentDiagnostics(w http.ResponseWriter, r *http.Request) {
	if h.deps.Reports == nil {
		writeError(w, r, http.StatusNotFound, "report storage is disabled")
		return
	}
	opts := store.QueryOpts{Limit: defaultLimit}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxLimit))
			return
		}
		opts.Limit = n
	}
	if raw := strings.TrimSpace(q.Get("before")); raw != "" {
		seq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seq <= 0 {
			writeError(w, r, http.StatusBadRequest, "before must be a positive sequence number")
			return
		}
		opts.Before = seq
	}

	list, err := h.deps.Reports.ListByStudent(r.Context(), chi.URLParam(r, "studentID"), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, list)
}

func (h *handler) ReloadContent(w http.ResponseWriter, r *http.Request) {
	if h.deps.Content == nil {
		writeError(w, r, http.StatusNotFound, "content reload is disabled")
		return
	}
	snap, err := h.deps.Content.Reload()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, reloadResponse{
		Origin:           snap.Origin,
		BlueprintVersion: snap.Blueprint.Version(),
		Atoms:            snap.Graph.Len(),
		Items:            snap.Bank.Len(),
		LoadedAt:         snap.LoadedAt,
	})
}
