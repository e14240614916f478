package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/report"
)

const reportsTable = "reports"

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// reportRepo implements ReportRepo with ent's SQL builder over database/sql.
type reportRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder { return entsql.Dialect(dialect.SQLite) }

func (r *reportRepo) Save(ctx context.Context, rep *report.Report) (int64, error) {
	if rep == nil || rep.ID == "" {
		return 0, errors.New("save report: missing id")
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return 0, fmt.Errorf("marshal report: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	exists, err := r.exists(ctx, tx, rep.ID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("save report %s: %w", rep.ID, ErrDuplicate)
	}

	seq, err := r.seq.Next(ctx, tx)
	if err != nil {
		return 0, err
	}

	query, args := builder().Insert(reportsTable).
		Columns("id", "sequence", "student_id", "route", "blueprint_version", "predicted_score", "created_at", "data").
		Values(rep.ID, seq, rep.StudentID, string(rep.Route), rep.BlueprintVersion, rep.PredictedScore.Point, formatTime(rep.CreatedAt), string(data)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return seq, nil
}

func (r *reportRepo) exists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	t := builder().Table(reportsTable)
	query, args := builder().Select(t.C("id")).From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Limit(1).
		Query()
	var found string
	err := tx.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check report %s: %w", id, err)
	}
	return true, nil
}

func (r *reportRepo) Get(ctx context.Context, id string) (*report.Report, error) {
	t := builder().Table(reportsTable)
	query, args := builder().Select(t.C("data")).From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(data), &rep); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &rep, nil
}

func (r *reportRepo) ListByStudent(ctx context.Context, studentID string, opts QueryOpts) ([]Summary, error) {
	t := builder().Table(reportsTable)
	preds := []*entsql.Predicate{entsql.EQ(t.C("student_id"), studentID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("created_at"), formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("created_at"), formatTime(opts.To)))
	}

	sel := builder().
		Select(t.C("id"), t.C("sequence"), t.C("student_id"), t.C("route"),
			t.C("blueprint_version"), t.C("predicted_score"), t.C("created_at")).
		From(t).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var (
			s       Summary
			route   string
			created string
		)
		if err := rows.Scan(&s.ID, &s.Sequence, &s.StudentID, &route, &s.BlueprintVersion, &s.PredictedScore, &created); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		s.Route = blueprint.Route(route)
		s.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}
