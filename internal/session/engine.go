// Package session runs one diagnostic end to end: route on the first
// stage, score both stages, diagnose atoms and assemble the report.
package session

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/diagnosis"
	"github.com/abhisek/paesdx/internal/mst"
	"github.com/abhisek/paesdx/internal/report"
)

// Submission is a student's complete answer sheet.
type Submission struct {
	StudentID      string       `json:"student_id"`
	RoutingAnswers []mst.Answer `json:"routing_answers"`
	ModuleAnswers  []mst.Answer `json:"module_answers"`
}

// RouteDecision is the outcome of the routing stage.
type RouteDecision struct {
	Route            blueprint.Route `json:"route"`
	ModuleItems      []string        `json:"module_items"`
	BlueprintVersion string          `json:"blueprint_version"`
}

// Engine evaluates submissions against the current content snapshot.
type Engine struct {
	src   content.Source
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides report ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine returns an Engine reading content from src.
func NewEngine(src content.Source, opts ...Option) *Engine {
	e := &Engine{
		src:   src,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) snapshot() (*content.Snapshot, error) {
	snap := e.src.Current()
	if snap == nil {
		return nil, diagerr.Misconfigured("content", "no content snapshot loaded")
	}
	return snap, nil
}

// RouteStage routes routing-stage answers and returns the module the
// student takes next.
func (e *Engine) RouteStage(routingAnswers []mst.Answer) (*RouteDecision, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	router := mst.NewRouter(snap.Blueprint, snap.Bank)
	route, err := router.Route(routingAnswers)
	if err != nil {
		return nil, err
	}
	items, err := router.Module(route)
	if err != nil {
		return nil, err
	}
	return &RouteDecision{
		Route:            route,
		ModuleItems:      items,
		BlueprintVersion: snap.Blueprint.Version(),
	}, nil
}

// Evaluate scores and diagnoses a full submission. Module answers must be
// for the module the routing answers select.
func (e *Engine) Evaluate(sub Submission) (*report.Report, error) {
	studentID := strings.TrimSpace(sub.StudentID)
	if studentID == "" {
		return nil, diagerr.Malformed("student_id is required")
	}

	// One snapshot for the whole computation.
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	route, err := mst.NewRouter(snap.Blueprint, snap.Bank).Route(sub.RoutingAnswers)
	if err != nil {
		return nil, err
	}

	all := slices.Concat(sub.RoutingAnswers, sub.ModuleAnswers)
	score, err := mst.NewScorer(snap.Blueprint, snap.Bank).Score(all, route)
	if err != nil {
		return nil, err
	}

	diag, err := diagnosis.Diagnose(all, snap.Bank, snap.Graph)
	if err != nil {
		return nil, err
	}

	return report.Assemble(report.Input{
		ID:               e.newID(),
		StudentID:        studentID,
		Route:            route,
		BlueprintVersion: snap.Blueprint.Version(),
		Now:              e.now(),
		Score:            score,
		Diagnoses:        diag,
		Graph:            snap.Graph,
	}), nil
}
