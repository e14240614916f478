package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/mst"
	"github.com/abhisek/paesdx/internal/session"
	"github.com/abhisek/paesdx/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PAESDX_CONTENT", "")
	t.Setenv("PAESDX_LOG_MODE", "nop")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeSubmission writes an all-correct seed submission for student.
func writeSubmission(t *testing.T, student string) string {
	t.Helper()
	snap, err := content.LoadSeed()
	require.NoError(t, err)

	correct := func(ids []string) []mst.Answer {
		out := make([]mst.Answer, 0, len(ids))
		for _, id := range ids {
			it, err := snap.Bank.Item(id)
			require.NoError(t, err)
			out = append(out, mst.Respond(id, it.CorrectChoice))
		}
		return out
	}
	high, _ := snap.Blueprint.Module("High")
	sub := session.Submission{
		StudentID:      student,
		RoutingAnswers: correct(snap.Blueprint.RoutingModule()),
		ModuleAnswers:  correct(high),
	}
	b, err := json.Marshal(sub)
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "submission.json")
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "paesdx (devel)")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "content OK (seed)")
	assert.Contains(t, out, "21 atoms, 32 items")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "atoms.yaml"), []byte("atoms:\n  - id: a\n    axis: nowhere\n"), 0o644))
	out, err = run(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "atoms.yaml")
}

func TestAtomsList(t *testing.T) {
	out, err := run(t, "atoms", "list", "--axis", "probability")
	require.NoError(t, err)
	assert.Contains(t, out, "prob-counting")
	assert.NotContains(t, out, "alg-linear-eq")
	assert.Contains(t, out, "4 atoms")

	_, err = run(t, "atoms", "list", "--axis", "calculus")
	assert.Error(t, err)
}

func TestRoute(t *testing.T) {
	out, err := run(t, "route", "--format", "json", writeSubmissionRouting(t))
	require.NoError(t, err)
	var dec session.RouteDecision
	require.NoError(t, json.Unmarshal([]byte(out), &dec))
	assert.Equal(t, "High", string(dec.Route))
}

// writeSubmissionRouting writes only the routing part of a submission.
func writeSubmissionRouting(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile(writeSubmission(t, "x"))
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	b, err := json.Marshal(map[string]json.RawMessage{"routing_answers": m["routing_answers"]})
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "routing.json")
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func TestDiagnose_SaveListView(t *testing.T) {
	db := filepath.Join(t.TempDir(), "paesdx.db")
	sub := writeSubmission(t, "s-cli")

	out, err := run(t, "--db", db, "diagnose", "--save", "--format", "json", sub)
	require.NoError(t, err)
	var rep struct {
		ID             string `json:"id"`
		PredictedScore struct {
			Point int `json:"point"`
		} `json:"predicted_score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotEmpty(t, rep.ID)
	assert.Equal(t, 900, rep.PredictedScore.Point)

	out, err = run(t, "--db", db, "report", "list", "--format", "json", "s-cli")
	require.NoError(t, err)
	var list []store.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, rep.ID, list[0].ID)

	out, err = run(t, "--db", db, "report", "view", "--format", "text", rep.ID)
	require.NoError(t, err)
	assert.Contains(t, out, rep.ID)
	assert.Contains(t, out, "900")

	_, err = run(t, "--db", db, "report", "view", "--format", "text", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDiagnose_RejectsInvalidPayload(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"student_id": 5}`), 0o644))

	_, err := run(t, "diagnose", "--save=false", "--format", "text", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid submission payload")

	_, err = run(t, "diagnose", "--save=false", "--format", "yaml", p)
	assert.Error(t, err)
}
