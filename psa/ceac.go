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
	"fmt"

	"github.com/healthmodel/rsvcea"
)

// A CEACPoint gives, for one willingness-to-pay threshold, the probability
// that each strategy is the preferred (net-benefit-maximizing) option,
// estimated as the raw empirical proportion over PSA iterations. The two
// probabilities sum to 1.
type CEACPoint struct {
	Threshold float64

	// ProbNirsevimab is the fraction of iterations in which nirsevimab
	// yields non-negative net monetary benefit over the maternal
	// vaccine at this threshold; ProbVaccine is its complement.
	ProbNirsevimab float64
	ProbVaccine    float64
}

// Thresholds returns an ascending n-point willingness-to-pay grid from 0 to
// 1.1 times the largest cost-per-DALY ratio observed in records under
// perspective pe. Iterations with zero DALYs averted are skipped when
// locating the maximum.
func Thresholds(records []IterationRecord, pe rsvcea.Perspective, n int) []float64 {
	var maxRatio float64
	for _, r := range records {
		if r.DALYsAverted == 0 {
			continue
		}
		if ratio := r.IncrementalCost(pe) / r.DALYsAverted; ratio > maxRatio {
			maxRatio = ratio
		}
	}
	if maxRatio <= 0 {
		maxRatio = rsvcea.CostEffectivenessThreshold
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = float64(i) / float64(n-1) * maxRatio * 1.1
	}
	return grid
}

// CEAC computes the cost-effectiveness acceptability curve for records
// under perspective pe over the given ascending threshold grid. At each
// threshold λ, nirsevimab is preferred in an iteration when its net
// monetary benefit λ×ΔDALYs − ΔCost is non-negative; otherwise the
// maternal vaccine is preferred. Proportions are reported raw, without
// smoothing or sorting.
func CEAC(records []IterationRecord, pe rsvcea.Perspective, thresholds []float64) ([]CEACPoint, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("psa: no iteration records to build a CEAC from")
	}
	points := make([]CEACPoint, len(thresholds))
	for i, threshold := range thresholds {
		var preferred int
		for _, r := range records {
			if threshold*r.DALYsAverted-r.IncrementalCost(pe) >= 0 {
				preferred++
			}
		}
		prob := float64(preferred) / float64(len(records))
		points[i] = CEACPoint{
			Threshold:      threshold,
			ProbNirsevimab: prob,
			ProbVaccine:    1 - prob,
		}
	}
	return points, nil
}
