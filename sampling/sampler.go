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

package sampling

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/healthmodel/rsvcea"
)

// costVariation is the fractional variation assumed for unit cost and
// salary uncertainty (±25%, Briggs et al. 2006).
const costVariation = 0.25

// groupDists holds the fitted distributions for one age group.
type groupDists struct {
	hospProportion       Dist
	outpatientProportion Dist
	inpatientCost        Dist
	outpatientECCost     Dist
	outpatientPCCost     Dist
	caregiverDailySalary Dist
	nirsevimabHospEff    Dist
	nirsevimabMALRTIEff  Dist
}

// A Sampler draws complete parameter sets for probabilistic sensitivity
// analysis. Distributions are fitted once, from the base case's point
// estimates and confidence intervals; every parameter is drawn
// independently of the others. No joint or correlated sampling is done.
//
// Out-of-domain draws are clamped to the parameter's valid domain rather
// than redrawn: probability-like values to [0, 1], and the outpatient
// proportion additionally so the combined disease probability of a group
// cannot exceed 1. Draw reports whether any clamping occurred so that
// affected iterations remain observable downstream.
type Sampler struct {
	base *rsvcea.ParameterSet

	severeDW           Dist
	moderateDW         Dist
	nirsevimabCoverage Dist
	groups             []groupDists
}

// NewSampler fits the probabilistic-sensitivity distributions for the
// base-case parameter set p:
//
//   - disability weights and nonzero nirsevimab efficacies: beta, fitted to
//     the point estimate and 95% CI (zero efficacies stay fixed at zero);
//   - hospitalization and outpatient proportions: lognormal, fitted to the
//     point estimate and 95% CI;
//   - unit costs and caregiver salaries: lognormal with ±25% variation;
//   - nirsevimab coverage: betaPERT over its expected coverage bounds;
//   - all other inputs, including the maternal vaccine program: fixed.
func NewSampler(p *rsvcea.ParameterSet) (*Sampler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Sampler{base: p}

	var err error
	if s.severeDW, err = FitBeta(p.SevereDW, p.SevereDWCI.Lower, p.SevereDWCI.Upper); err != nil {
		return nil, fmt.Errorf("fitting severe disability weight: %w", err)
	}
	if s.moderateDW, err = FitBeta(p.ModerateDW, p.ModerateDWCI.Lower, p.ModerateDWCI.Upper); err != nil {
		return nil, fmt.Errorf("fitting moderate disability weight: %w", err)
	}
	s.nirsevimabCoverage = PERT{
		Min:  p.NirsevimabCoverageMin,
		Mode: p.NirsevimabCoverage,
		Max:  p.NirsevimabCoverageMax,
	}

	for _, g := range p.Groups {
		var d groupDists
		if d.hospProportion, err = FitLogNormal(g.HospProportion, g.HospProportionCI.Lower, g.HospProportionCI.Upper); err != nil {
			return nil, fmt.Errorf("fitting %s hospitalization proportion: %w", g.Name, err)
		}
		if d.outpatientProportion, err = FitLogNormal(g.OutpatientProportion, g.OutpatientProportionCI.Lower, g.OutpatientProportionCI.Upper); err != nil {
			return nil, fmt.Errorf("fitting %s outpatient proportion: %w", g.Name, err)
		}
		if d.inpatientCost, err = FitLogNormalBriggs(g.InpatientCost, costVariation); err != nil {
			return nil, fmt.Errorf("fitting %s inpatient cost: %w", g.Name, err)
		}
		if d.outpatientECCost, err = FitLogNormalBriggs(g.OutpatientECCost, costVariation); err != nil {
			return nil, fmt.Errorf("fitting %s emergency care cost: %w", g.Name, err)
		}
		if d.outpatientPCCost, err = FitLogNormalBriggs(g.OutpatientPCCost, costVariation); err != nil {
			return nil, fmt.Errorf("fitting %s primary care cost: %w", g.Name, err)
		}
		if d.caregiverDailySalary, err = FitLogNormalBriggs(g.CaregiverDailySalary, costVariation); err != nil {
			return nil, fmt.Errorf("fitting %s caregiver salary: %w", g.Name, err)
		}
		if d.nirsevimabHospEff, err = fitEfficacy(g.NirsevimabHospEff, g.NirsevimabHospEffCI); err != nil {
			return nil, fmt.Errorf("fitting %s nirsevimab hospitalization efficacy: %w", g.Name, err)
		}
		if d.nirsevimabMALRTIEff, err = fitEfficacy(g.NirsevimabMALRTIEff, g.NirsevimabMALRTIEffCI); err != nil {
			return nil, fmt.Errorf("fitting %s nirsevimab MA-LRTI efficacy: %w", g.Name, err)
		}
		s.groups = append(s.groups, d)
	}
	return s, nil
}

// fitEfficacy fits a beta distribution to a nonzero efficacy. An efficacy
// of zero means the intervention does not protect this age band, so its
// value stays fixed.
func fitEfficacy(eff float64, ci rsvcea.Interval) (Dist, error) {
	if eff == 0 {
		return Fixed(0), nil
	}
	return FitBeta(eff, ci.Lower, ci.Upper)
}

// Draw returns one independently sampled parameter set with its derived
// values recomputed, and reports whether any draw was clamped to its valid
// domain.
func (s *Sampler) Draw(src rand.Source) (*rsvcea.ParameterSet, bool) {
	p := *s.base
	p.Groups = append([]rsvcea.AgeGroup(nil), s.base.Groups...)
	clamped := false

	clamp01 := func(v float64) float64 {
		if v < 0 {
			clamped = true
			return 0
		}
		if v > 1 {
			clamped = true
			return 1
		}
		return v
	}

	p.SevereDW = clamp01(s.severeDW.Rand(src))
	p.ModerateDW = clamp01(s.moderateDW.Rand(src))

	for i := range p.Groups {
		g := &p.Groups[i]
		d := s.groups[i]
		g.HospProportion = clamp01(d.hospProportion.Rand(src))
		g.OutpatientProportion = clamp01(d.outpatientProportion.Rand(src))
		if g.HospProportion+g.OutpatientProportion > 1 {
			// Keep the outcome categories exclusive.
			g.OutpatientProportion = 1 - g.HospProportion
			clamped = true
		}
		g.InpatientCost = d.inpatientCost.Rand(src)
		g.OutpatientECCost = d.outpatientECCost.Rand(src)
		g.OutpatientPCCost = d.outpatientPCCost.Rand(src)
		g.CaregiverDailySalary = d.caregiverDailySalary.Rand(src)
		g.NirsevimabHospEff = clamp01(d.nirsevimabHospEff.Rand(src))
		g.NirsevimabMALRTIEff = clamp01(d.nirsevimabMALRTIEff.Rand(src))
	}

	p.NirsevimabCoverage = clamp01(s.nirsevimabCoverage.Rand(src))
	p.Derive()
	return &p, clamped
}
