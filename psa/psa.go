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

// Package psa performs probabilistic sensitivity analysis on the RSVCEA
// cohort model: it propagates parameter uncertainty through repeated model
// evaluation and summarizes decision uncertainty as cost-effectiveness
// acceptability curves.
package psa

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/healthmodel/rsvcea"
	"github.com/healthmodel/rsvcea/sampling"
)

// A GroupDraw records the sampled per-age-group parameter values of one
// iteration.
type GroupDraw struct {
	HospProportion       float64
	OutpatientProportion float64
	InpatientCost        float64
	OutpatientECCost     float64
	OutpatientPCCost     float64
	CaregiverDailySalary float64
	NirsevimabHospEff    float64
	NirsevimabMALRTIEff  float64
}

// An IterationRecord is the result of one Monte Carlo iteration comparing
// nirsevimab against maternal vaccination: the sampled parameter values and
// the incremental cost and DALYs averted they produce. DALYs averted are
// perspective-independent; only costs differ between perspectives.
type IterationRecord struct {
	Iteration int

	SevereDW           float64
	ModerateDW         float64
	NirsevimabCoverage float64
	Groups             []GroupDraw

	IncrementalCostHealthSystem float64
	IncrementalCostSocietal     float64
	DALYsAverted                float64

	// Clamped reports whether any draw in this iteration was clamped to
	// its valid domain (see sampling.Sampler). Clamped iterations remain
	// in the record sequence.
	Clamped bool
}

// IncrementalCost returns the iteration's incremental cost under
// perspective pe.
func (r IterationRecord) IncrementalCost(pe rsvcea.Perspective) float64 {
	if pe == rsvcea.Societal {
		return r.IncrementalCostSocietal
	}
	return r.IncrementalCostHealthSystem
}

// Run performs n independent Monte Carlo iterations. Each iteration draws
// one parameter set, evaluates the cohort model for the nirsevimab and
// maternal vaccine strategies, and records the incremental comparison of
// nirsevimab against the vaccine for both perspectives. Iterations are
// never terminated early: extreme draws are part of the uncertainty
// distribution being characterized.
//
// With workers <= 1 all draws come from a single source seeded with seed,
// so repeated runs are draw-for-draw identical. With more workers,
// iterations are striped across workers and worker w draws from its own
// source seeded with seed+w, making output reproducible for a fixed
// (seed, workers) pair regardless of scheduling. Results are always
// ordered by iteration index.
//
// If progress is non-nil it is called once per completed iteration.
func Run(p *rsvcea.ParameterSet, n int, seed uint64, workers int, progress func()) ([]IterationRecord, error) {
	if n <= 0 {
		return nil, fmt.Errorf("psa: number of iterations must be positive, got %d", n)
	}
	sampler, err := sampling.NewSampler(p)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	records := make([]IterationRecord, n)
	if workers == 1 {
		src := rand.NewSource(seed)
		for i := 0; i < n; i++ {
			records[i] = iterate(sampler, i, src)
			if progress != nil {
				progress()
			}
		}
		return records, nil
	}

	progressChan := make(chan struct{}, workers)
	done := make(chan struct{})
	go func() {
		for range progressChan {
			if progress != nil {
				progress()
			}
		}
		close(done)
	}()

	errChan := make(chan error)
	for w := 0; w < workers; w++ {
		go func(w int) {
			src := rand.NewSource(seed + uint64(w))
			for i := w; i < n; i += workers {
				records[i] = iterate(sampler, i, src)
				progressChan <- struct{}{}
			}
			errChan <- nil
		}(w)
	}
	for w := 0; w < workers; w++ {
		if err := <-errChan; err != nil {
			return nil, err
		}
	}
	close(progressChan)
	<-done
	return records, nil
}

// iterate runs one Monte Carlo iteration.
func iterate(sampler *sampling.Sampler, i int, src rand.Source) IterationRecord {
	draw, clamped := sampler.Draw(src)

	vaccine := draw.EvaluateStrategy(draw.MaternalVaccine())
	nirsevimab := draw.EvaluateStrategy(draw.Nirsevimab())

	r := IterationRecord{
		Iteration:                   i,
		SevereDW:                    draw.SevereDW,
		ModerateDW:                  draw.ModerateDW,
		NirsevimabCoverage:          draw.NirsevimabCoverage,
		Groups:                      make([]GroupDraw, len(draw.Groups)),
		IncrementalCostHealthSystem: nirsevimab.CostHealthSystem - vaccine.CostHealthSystem,
		IncrementalCostSocietal:     nirsevimab.CostSocietal - vaccine.CostSocietal,
		DALYsAverted:                vaccine.DALYs - nirsevimab.DALYs,
		Clamped:                     clamped,
	}
	for gi, g := range draw.Groups {
		r.Groups[gi] = GroupDraw{
			HospProportion:       g.HospProportion,
			OutpatientProportion: g.OutpatientProportion,
			InpatientCost:        g.InpatientCost,
			OutpatientECCost:     g.OutpatientECCost,
			OutpatientPCCost:     g.OutpatientPCCost,
			CaregiverDailySalary: g.CaregiverDailySalary,
			NirsevimabHospEff:    g.NirsevimabHospEff,
			NirsevimabMALRTIEff:  g.NirsevimabMALRTIEff,
		}
	}
	return r
}
