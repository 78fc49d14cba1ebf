// Package report renders evaluation results for terminal inspection: a
// per-label score summary and a line chart of bin proportions with a
// confidence band around the reference distribution.
//
// It consumes the Evaluator's cached results and the model's reference
// statistics as read-only inputs.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/evalkit/ndb"
)

// Summary returns one line per labelled result, ordered by label.
func Summary(e *ndb.Evaluator) string {
	var b strings.Builder
	for _, label := range e.Labels() {
		r, ok := e.Result(label)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: NDB = %d, JS = %.4f\n", label, r.NDB, r.JS)
	}
	return b.String()
}

// Chart renders the reference bin proportions bracketed by a one-standard-
// error band, plus one series per labelled result. The band uses the pooled
// standard error of the reference sample size and the first result's query
// sample size, so it visualizes how far a matched query set may plausibly
// stray per bin.
func Chart(e *ndb.Evaluator, height int) string {
	labels := e.Labels()
	if len(labels) == 0 {
		return ""
	}

	model := e.Model()
	ref := model.Proportions()

	first, _ := e.Result(labels[0])
	n1 := model.RefSampleSize()
	n2 := first.SampleCount

	lower := make([]float64, len(ref))
	upper := make([]float64, len(ref))
	for i, p := range ref {
		se := pooledSE(p, n1, p, n2)
		lower[i] = math.Max(0, p-se)
		upper[i] = p + se
	}

	series := make([][]float64, 0, len(labels)+2)
	series = append(series, lower, upper)

	var caption strings.Builder
	caption.WriteString("reference +/- 1 SE")
	for _, label := range labels {
		r, ok := e.Result(label)
		if !ok {
			continue
		}
		series = append(series, r.Proportions)
		fmt.Fprintf(&caption, " | %s (%d : %.4f)", label, r.NDB, r.JS)
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Caption(caption.String()),
	)
}

// pooledSE is the standard error of the difference between two proportions
// observed on samples of size n1 and n2.
func pooledSE(p1 float64, n1 int, p2 float64, n2 int) float64 {
	p := (p1*float64(n1) + p2*float64(n2)) / float64(n1+n2)
	return math.Sqrt(p * (1 - p) * (1/float64(n1) + 1/float64(n2)))
}
