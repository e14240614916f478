// Package render formats reports, atoms and report listings for the
// terminal.
package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/itembank"
	"github.com/abhisek/paesdx/internal/report"
	"github.com/abhisek/paesdx/internal/store"
)

const timeFormat = "2006-01-02 15:04 MST"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Header
			}
			return Cell
		})
}

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" }

// Report writes a human-readable report. g supplies atom names and order
// and may be nil.
func Report(w io.Writer, r *report.Report, g *atomgraph.Graph) error {
	var b strings.Builder

	b.WriteString(Title.Render("PAES M1 diagnostic") + "  " + Label.Render(r.ID) + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %s\n",
		Label.Render("student"), r.StudentID,
		Label.Render("route"), r.Route,
		Label.Render("blueprint"), r.BlueprintVersion,
		Label.Render("taken"), r.CreatedAt.Format(timeFormat))

	card := fmt.Sprintf("%s %s %s\n%s %s   %s %s   %s %d",
		Label.Render("Predicted score"),
		Score.Render(strconv.Itoa(r.PredictedScore.Point)),
		Label.Render(fmt.Sprintf("(%d-%d)", r.PredictedScore.Range.Low, r.PredictedScore.Range.High)),
		Label.Render("module"), pct(100*r.NormalizedScore),
		Label.Render("overall"), pct(100*r.OverallScore),
		Label.Render("correct"), r.CorrectCount)
	b.WriteString(Card.Render(card) + "\n")

	b.WriteString(Section.Render("By axis") + "\n")
	axes := newTable("Axis", "Correct", "Total", "Score", "Atoms mastered")
	for _, axis := range atomgraph.AllAxes() {
		bd, scored := r.PerAxis[axis]
		am, diagnosed := r.AxisMastery[axis]
		if !scored && !diagnosed {
			continue
		}
		mastery := "-"
		if diagnosed {
			mastery = fmt.Sprintf("%d/%d (%s)", am.Mastered, am.Diagnosed, pct(am.Pct))
		}
		axes.Row(atomgraph.AxisDisplayName(axis), strconv.Itoa(bd.Correct), strconv.Itoa(bd.Total), pct(bd.Pct), mastery)
	}
	b.WriteString(axes.Render() + "\n")

	if len(r.PerSkill) > 0 {
		b.WriteString(Section.Render("By skill") + "\n")
		skills := newTable("Skill", "Correct", "Total", "Score")
		for _, s := range itembank.AllSkills() {
			if bd, ok := r.PerSkill[s]; ok {
				skills.Row(string(s), strconv.Itoa(bd.Correct), strconv.Itoa(bd.Total), pct(bd.Pct))
			}
		}
		b.WriteString(skills.Render() + "\n")
	}

	b.WriteString(Section.Render("Atoms") + "\n")
	if len(r.AtomDiagnoses) == 0 {
		b.WriteString(Label.Render("no atom received evidence") + "\n")
	} else {
		atoms := newTable("Atom", "Name", "State", "Evidence")
		for _, id := range atomOrder(r, g) {
			state := r.AtomDiagnoses[id]
			evidence := ""
			if d, ok := r.AtomDetails[id]; ok {
				switch {
				case d.InferredFrom != "":
					evidence = "via " + d.InferredFrom
				case len(d.ItemIDs) > 0:
					evidence = strings.Join(d.ItemIDs, ", ")
				}
			}
			atoms.Row(id, atomName(g, id), StateStyle(state).Render(string(state)), evidence)
		}
		b.WriteString(atoms.Render() + "\n")
	}

	b.WriteString(Section.Render("Study next") + "\n")
	if len(r.RecommendDetails) == 0 {
		b.WriteString(Label.Render("nothing to recommend") + "\n")
	}
	for i, rec := range r.RecommendDetails {
		fmt.Fprintf(&b, "%2d. %s %s", i+1, rec.AtomID, StateStyle(rec.State).Render(string(rec.State)))
		if rec.UnlockValue > 0 {
			fmt.Fprintf(&b, " %s", Label.Render(fmt.Sprintf("unlocks %d: %s", rec.UnlockValue, strings.Join(rec.Unlocks, ", "))))
		}
		b.WriteString("\n")
	}

	if len(r.ReviewCandidates) > 0 {
		b.WriteString(Section.Render("Review first (untested prerequisites)") + "\n")
		b.WriteString(strings.Join(r.ReviewCandidates, ", ") + "\n")
	}

	_, err := lipgloss.Fprint(w, b.String())
	return err
}

// atomOrder lists diagnosed atoms in topological order when a graph is
// available, else by ID.
func atomOrder(r *report.Report, g *atomgraph.Graph) []string {
	ids := make([]string, 0, len(r.AtomDiagnoses))
	for id := range r.AtomDiagnoses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if g != nil {
			ti, tj := g.TopoIndex(ids[i]), g.TopoIndex(ids[j])
			if ti != tj {
				return ti < tj
			}
		}
		return ids[i] < ids[j]
	})
	return ids
}

func atomName(g *atomgraph.Graph, id string) string {
	if g == nil {
		return ""
	}
	a, err := g.Atom(id)
	if err != nil {
		return ""
	}
	return a.Name
}

// Atoms writes the knowledge graph as a table, optionally limited to axis.
func Atoms(w io.Writer, g *atomgraph.Graph, axis atomgraph.Axis) error {
	t := newTable("ID", "Name", "Axis", "Prerequisites")
	n := 0
	for _, a := range g.TopologicalOrder() {
		if axis != "" && a.Axis != axis {
			continue
		}
		t.Row(a.ID, a.Name, string(a.Axis), strings.Join(a.Prerequisites, ", "))
		n++
	}
	_, err := lipgloss.Fprint(w, t.Render()+"\n"+Label.Render(fmt.Sprintf("%d atoms", n))+"\n")
	return err
}

// Summaries writes a student's report listing.
func Summaries(w io.Writer, list []store.Summary) error {
	if len(list) == 0 {
		_, err := lipgloss.Fprint(w, Label.Render("No diagnostics found.")+"\n")
		return err
	}
	t := newTable("Seq", "ID", "Taken", "Route", "Score", "Blueprint")
	for _, s := range list {
		t.Row(strconv.FormatInt(s.Sequence, 10), s.ID, s.CreatedAt.Format(timeFormat),
			string(s.Route), strconv.Itoa(s.PredictedScore), s.BlueprintVersion)
	}
	_, err := lipgloss.Fprint(w, t.Render()+"\n")
	return err
}

// Route writes a routing decision.
func Route(w io.Writer, route string, items []string) error {
	_, err := lipgloss.Fprint(w, fmt.Sprintf("%s %s\n%s %s\n",
		Label.Render("route"), Score.Render(route),
		Label.Render("module"), strings.Join(items, " ")))
	return err
}
