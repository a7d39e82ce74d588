/*
Copyright © 2026 the RSVCEA authors.
This file is part of RSVCEA.

RSVCEA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RSVCEA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RSVCEA.  If not, see <http://www.gnu.org/licenses/>.
*/

package psa

import (
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/healthmodel/rsvcea"
)

// A ColumnSummary describes the empirical distribution of one PSA output
// column.
type ColumnSummary struct {
	Mean, SD           float64
	Q025, Median, Q975 float64
}

// A RunSummary condenses a PSA run under one perspective.
type RunSummary struct {
	Perspective rsvcea.Perspective
	Iterations  int

	IncrementalCost ColumnSummary
	DALYsAverted    ColumnSummary

	// FractionDominant is the share of iterations in which nirsevimab
	// was both cheaper and more effective than the maternal vaccine.
	FractionDominant float64

	// FractionClamped is the share of iterations with at least one
	// clamped draw.
	FractionClamped float64
}

func summarizeColumn(values []float64) ColumnSummary {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return ColumnSummary{
		Mean:   stats.StatsMean(values),
		SD:     stats.StatsSampleStandardDeviation(values),
		Q025:   stat.Quantile(0.025, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q975:   stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}
}

// Summarize computes summary statistics for records under perspective pe.
func Summarize(records []IterationRecord, pe rsvcea.Perspective) RunSummary {
	costs := make([]float64, len(records))
	dalys := make([]float64, len(records))
	var dominant, clamped int
	for i, r := range records {
		costs[i] = r.IncrementalCost(pe)
		dalys[i] = r.DALYsAverted
		if r.IncrementalCost(pe) <= 0 && r.DALYsAverted >= 0 {
			dominant++
		}
		if r.Clamped {
			clamped++
		}
	}
	return RunSummary{
		Perspective:      pe,
		Iterations:       len(records),
		IncrementalCost:  summarizeColumn(costs),
		DALYsAverted:     summarizeColumn(dalys),
		FractionDominant: float64(dominant) / float64(len(records)),
		FractionClamped:  float64(clamped) / float64(len(records)),
	}
}
