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

package rsvcea

import (
	"math"
	"testing"
)

func result(name string, cost, dalys float64) StrategyResult {
	return StrategyResult{
		Strategy:         name,
		CostHealthSystem: cost,
		CostSocietal:     cost,
		DALYs:            dalys,
	}
}

func TestICER(t *testing.T) {
	var tests = []struct {
		name                 string
		baseline, comparator StrategyResult
		wantKind             ICERKind
		wantRatio            float64
	}{
		{
			name:       "ratio",
			baseline:   result("a", 1000, 500),
			comparator: result("b", 3000, 400),
			wantKind:   ICERRatio,
			wantRatio:  20, // 2000 / 100
		},
		{
			name:       "dominant cheaper and more effective",
			baseline:   result("a", 3000, 500),
			comparator: result("b", 1000, 400),
			wantKind:   ICERDominant,
		},
		{
			name:       "dominant equal cost more effective",
			baseline:   result("a", 1000, 500),
			comparator: result("b", 1000, 400),
			wantKind:   ICERDominant,
		},
		{
			name:       "dominated",
			baseline:   result("a", 1000, 400),
			comparator: result("b", 3000, 500),
			wantKind:   ICERDominated,
		},
		{
			name:       "no difference",
			baseline:   result("a", 1000, 400),
			comparator: result("b", 1000, 400),
			wantKind:   ICERNoDifference,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := ICER(test.baseline, test.comparator, HealthSystem)
			if r.Kind != test.wantKind {
				t.Fatalf("kind = %v, want %v", r.Kind, test.wantKind)
			}
			if test.wantKind == ICERRatio {
				if different(r.Ratio, test.wantRatio, 1e-12) {
					t.Errorf("ratio = %g, want %g", r.Ratio, test.wantRatio)
				}
			} else if !math.IsNaN(r.Ratio) {
				t.Errorf("ratio = %g, want NaN for kind %v", r.Ratio, r.Kind)
			}
		})
	}
}

// TestICERSignConvention checks that a cheaper and more effective
// comparator is never reported as a signed ratio.
func TestICERSignConvention(t *testing.T) {
	r := ICER(result("a", 3000, 500), result("b", 1000, 400), Societal)
	if r.Kind != ICERDominant {
		t.Fatalf("kind = %v, want %v", r.Kind, ICERDominant)
	}
	if r.IncrementalCost >= 0 {
		t.Errorf("incremental cost = %g, want < 0", r.IncrementalCost)
	}
	if r.DALYsAverted <= 0 {
		t.Errorf("DALYs averted = %g, want > 0", r.DALYsAverted)
	}
	if !math.IsNaN(r.Ratio) {
		t.Errorf("ratio = %g, want NaN", r.Ratio)
	}
}

// TestICERPerspectives checks that DALYs are shared between perspectives
// while costs are selected per perspective.
func TestICERPerspectives(t *testing.T) {
	baseline := StrategyResult{Strategy: "a", CostHealthSystem: 1000, CostSocietal: 1500, DALYs: 500}
	comparator := StrategyResult{Strategy: "b", CostHealthSystem: 2000, CostSocietal: 3500, DALYs: 400}

	hs := ICER(baseline, comparator, HealthSystem)
	soc := ICER(baseline, comparator, Societal)
	if different(hs.IncrementalCost, 1000, 1e-12) {
		t.Errorf("health system incremental cost = %g, want 1000", hs.IncrementalCost)
	}
	if different(soc.IncrementalCost, 2000, 1e-12) {
		t.Errorf("societal incremental cost = %g, want 2000", soc.IncrementalCost)
	}
	if hs.DALYsAverted != soc.DALYsAverted {
		t.Errorf("DALYs averted differ between perspectives: %g != %g",
			hs.DALYsAverted, soc.DALYsAverted)
	}
}

func TestRankStrategies(t *testing.T) {
	// Strategy b is extendedly dominated: its ICER relative to a (100
	// per DALY averted) exceeds the ICER of c relative to b (25), so a
	// blend of a and c offers better value. Strategy d is strictly
	// dominated by c.
	results := []StrategyResult{
		result("a", 0, 100),
		result("b", 1000, 90),
		result("c", 1500, 70),
		result("d", 2000, 80),
	}
	ranked := RankStrategies(results, HealthSystem)

	kinds := make(map[string]ICERKind)
	for _, r := range ranked {
		kinds[r.Result.Strategy] = r.Kind
	}
	var tests = []struct {
		strategy string
		want     ICERKind
	}{
		{"a", ICERRatio},
		{"b", ICERExtendedlyDominated},
		{"c", ICERRatio},
		{"d", ICERDominated},
	}
	for _, test := range tests {
		t.Run(test.strategy, func(t *testing.T) {
			if kinds[test.strategy] != test.want {
				t.Errorf("kind = %v, want %v", kinds[test.strategy], test.want)
			}
		})
	}

	// After removing b, c's frontier ICER is relative to a.
	for _, r := range ranked {
		if r.Result.Strategy == "c" {
			if want := 1500.0 / 30; different(r.ICERToPrevious, want, 1e-12) {
				t.Errorf("frontier ICER = %g, want %g", r.ICERToPrevious, want)
			}
		}
		if r.Result.Strategy == "a" && !math.IsNaN(r.ICERToPrevious) {
			t.Errorf("cheapest strategy ICER = %g, want NaN", r.ICERToPrevious)
		}
	}
}
