package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/report"
)

// ErrNotFound is returned when a report ID does not exist.
var ErrNotFound = errors.New("report not found")

// ErrDuplicate is returned when saving a report whose ID is already stored.
var ErrDuplicate = errors.New("report already stored")

// QueryOpts configures report listing with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // created_at >= From
	To     time.Time // created_at <= To
}

// Summary is the indexed header of a stored report.
type Summary struct {
	ID               string          `json:"id"`
	Sequence         int64           `json:"sequence"`
	StudentID        string          `json:"student_id"`
	Route            blueprint.Route `json:"route"`
	BlueprintVersion string          `json:"blueprint_version"`
	PredictedScore   int             `json:"predicted_score"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ReportRepo stores diagnostic reports.
type ReportRepo interface {
	// Save appends r and returns its sequence number. Saving an ID twice
	// fails with ErrDuplicate.
	Save(ctx context.Context, r *report.Report) (int64, error)

	// Get returns the report with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*report.Report, error)

	// ListByStudent returns a student's reports, newest first.
	ListByStudent(ctx context.Context, studentID string, opts QueryOpts) ([]Summary, error)
}
