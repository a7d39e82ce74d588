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
	"sort"
)

// ICERKind tags the outcome of an incremental comparison. A numeric ratio
// is only reported when neither strategy dominates the other; dominance and
// ties are explicit variants rather than signed ratios.
type ICERKind int

const (
	// ICERRatio means the comparison yields a meaningful cost per DALY
	// averted.
	ICERRatio ICERKind = iota

	// ICERDominant means the comparator costs no more and averts at
	// least as many DALYs as the baseline.
	ICERDominant

	// ICERDominated means the comparator costs at least as much and
	// averts no more DALYs than the baseline.
	ICERDominated

	// ICERExtendedlyDominated means the comparator is ruled out by a
	// combination of other strategies offering better value. Only
	// produced by RankStrategies.
	ICERExtendedlyDominated

	// ICERNoDifference means both incremental cost and incremental
	// DALYs are exactly zero.
	ICERNoDifference
)

func (k ICERKind) String() string {
	switch k {
	case ICERRatio:
		return "ratio"
	case ICERDominant:
		return "dominant"
	case ICERDominated:
		return "dominated"
	case ICERExtendedlyDominated:
		return "extendedly dominated"
	case ICERNoDifference:
		return "no difference"
	}
	return "unknown"
}

// An ICERResult is the outcome of comparing a comparator strategy against a
// baseline strategy under one perspective.
type ICERResult struct {
	Baseline    string
	Comparator  string
	Perspective Perspective

	// IncrementalCost is comparator cost minus baseline cost.
	// DALYsAverted is baseline DALYs minus comparator DALYs, so positive
	// values mean the comparator is more effective.
	IncrementalCost float64
	DALYsAverted    float64

	Kind ICERKind

	// Ratio is the incremental cost per DALY averted. It is only
	// meaningful when Kind is ICERRatio and is NaN otherwise.
	Ratio float64
}

// ICER compares comparator against baseline under perspective pe. DALYs are
// shared between perspectives; only the cost input differs.
func ICER(baseline, comparator StrategyResult, pe Perspective) ICERResult {
	r := ICERResult{
		Baseline:        baseline.Strategy,
		Comparator:      comparator.Strategy,
		Perspective:     pe,
		IncrementalCost: comparator.Cost(pe) - baseline.Cost(pe),
		DALYsAverted:    baseline.DALYs - comparator.DALYs,
		Ratio:           math.NaN(),
	}
	switch {
	case r.IncrementalCost == 0 && r.DALYsAverted == 0:
		r.Kind = ICERNoDifference
	case r.IncrementalCost <= 0 && r.DALYsAverted >= 0:
		r.Kind = ICERDominant
	case r.IncrementalCost >= 0 && r.DALYsAverted <= 0:
		r.Kind = ICERDominated
	default:
		r.Kind = ICERRatio
		r.Ratio = r.IncrementalCost / r.DALYsAverted
	}
	return r
}

// A RankedStrategy is one entry of a cost-effectiveness frontier analysis.
type RankedStrategy struct {
	Result StrategyResult
	Kind   ICERKind

	// ICERToPrevious is the incremental cost per DALY averted relative
	// to the next cheaper strategy remaining on the frontier. It is NaN
	// for the cheapest strategy and for strategies off the frontier.
	ICERToPrevious float64
}

// RankStrategies orders results by increasing cost under perspective pe and
// identifies, for each strategy, whether it lies on the cost-effectiveness
// frontier, is strictly dominated, or is extendedly dominated. Frontier
// strategies carry their ICER relative to the previous frontier strategy.
func RankStrategies(results []StrategyResult, pe Perspective) []RankedStrategy {
	ranked := make([]RankedStrategy, len(results))
	for i, r := range results {
		ranked[i] = RankedStrategy{Result: r, Kind: ICERRatio, ICERToPrevious: math.NaN()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Cost(pe) < ranked[j].Result.Cost(pe)
	})

	// Strict dominance: some other strategy costs no more and has no
	// more DALYs, with at least one strict inequality.
	for i := range ranked {
		for j := range ranked {
			if i == j {
				continue
			}
			ci, cj := ranked[i].Result.Cost(pe), ranked[j].Result.Cost(pe)
			di, dj := ranked[i].Result.DALYs, ranked[j].Result.DALYs
			if cj <= ci && dj <= di && (cj < ci || dj < di) {
				ranked[i].Kind = ICERDominated
				break
			}
		}
	}

	// Extended dominance: repeatedly remove frontier strategies whose
	// ICER exceeds that of the next more effective frontier strategy.
	for {
		frontier := frontierIndexes(ranked)
		removed := false
		for fi := 1; fi < len(frontier)-1; fi++ {
			prev, cur, next := frontier[fi-1], frontier[fi], frontier[fi+1]
			if sequentialICER(ranked, prev, cur, pe) > sequentialICER(ranked, cur, next, pe) {
				ranked[cur].Kind = ICERExtendedlyDominated
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}

	frontier := frontierIndexes(ranked)
	for fi := 1; fi < len(frontier); fi++ {
		i := frontier[fi]
		ranked[i].ICERToPrevious = sequentialICER(ranked, frontier[fi-1], i, pe)
	}
	return ranked
}

func frontierIndexes(ranked []RankedStrategy) []int {
	var idx []int
	for i, r := range ranked {
		if r.Kind == ICERRatio {
			idx = append(idx, i)
		}
	}
	return idx
}

func sequentialICER(ranked []RankedStrategy, from, to int, pe Perspective) float64 {
	dCost := ranked[to].Result.Cost(pe) - ranked[from].Result.Cost(pe)
	dDALY := ranked[from].Result.DALYs - ranked[to].Result.DALYs
	if dDALY <= 0 {
		return math.Inf(1)
	}
	return dCost / dDALY
}
