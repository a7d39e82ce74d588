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

package rsvceautil

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"

	"github.com/healthmodel/rsvcea"
)

// costVariation is the relative variation applied to cost inputs in the
// one-way analysis, matching the variation assumed for cost uncertainty
// in the probabilistic analysis.
const costVariation = 0.25

const (
	boundLower = iota
	boundUpper
)

// A univariateScenario perturbs one model input (or one coherent bundle
// of inputs) to its lower or upper bound, leaving the rest of the
// parameter set at the base case.
type univariateScenario struct {
	name  string
	apply func(p *rsvcea.ParameterSet, bound int)
}

func costFactor(bound int) float64 {
	if bound == boundLower {
		return 1 - costVariation
	}
	return 1 + costVariation
}

func pick(iv rsvcea.Interval, bound int) float64 {
	if bound == boundLower {
		return iv.Lower
	}
	return iv.Upper
}

// univariateScenarios returns the one-way scenarios in report order.
func univariateScenarios() []univariateScenario {
	return []univariateScenario{
		{
			name: "nirsevimab_coverage",
			apply: func(p *rsvcea.ParameterSet, bound int) {
				if bound == boundLower {
					p.NirsevimabCoverage = p.NirsevimabCoverageMin
				} else {
					p.NirsevimabCoverage = p.NirsevimabCoverageMax
				}
			},
		},
		{
			name: "rsv_incidence",
			apply: func(p *rsvcea.ParameterSet, bound int) {
				for i := range p.Groups {
					g := &p.Groups[i]
					g.HospProportion = pick(g.HospProportionCI, bound)
					g.OutpatientProportion = pick(g.OutpatientProportionCI, bound)
				}
			},
		},
		{
			name: "inpatient_cost",
			apply: func(p *rsvcea.ParameterSet, bound int) {
				for i := range p.Groups {
					g := &p.Groups[i]
					g.InpatientCost *= costFactor(bound)
					g.OutpatientECCost *= costFactor(bound)
				}
			},
		},
		{
			name: "outpatient_cost",
			apply: func(p *rsvcea.ParameterSet, bound int) {
				for i := range p.Groups {
					p.Groups[i].OutpatientPCCost *= costFactor(bound)
				}
			},
		},
		{
			name: "caregiver_salary",
			apply: func(p *rsvcea.ParameterSet, bound int) {
				for i := range p.Groups {
					p.Groups[i].CaregiverDailySalary *= costFactor(bound)
				}
			},
		},
		{
			name: "nirsevimab_effectiveness",
			apply: func(p *rsvcea.ParameterSet, bound int) {
				for i := range p.Groups {
					g := &p.Groups[i]
					if g.NirsevimabHospEff != 0 {
						g.NirsevimabHospEff = pick(g.NirsevimabHospEffCI, bound)
					}
					if g.NirsevimabMALRTIEff != 0 {
						g.NirsevimabMALRTIEff = pick(g.NirsevimabMALRTIEffCI, bound)
					}
				}
			},
		},
	}
}

// A UnivariateResult holds the incremental comparison of nirsevimab
// against the maternal vaccine with one input at its lower and upper
// bound, for both perspectives.
type UnivariateResult struct {
	Parameter string

	HealthSystemLower rsvcea.ICERResult
	HealthSystemUpper rsvcea.ICERResult
	SocietalLower     rsvcea.ICERResult
	SocietalUpper     rsvcea.ICERResult
}

// cloneParameters deep-copies a parameter set so scenario mutations never
// leak into the base case.
func cloneParameters(p *rsvcea.ParameterSet) *rsvcea.ParameterSet {
	q := *p
	q.Groups = append([]rsvcea.AgeGroup(nil), p.Groups...)
	return &q
}

// univariateICER evaluates one scenario bound and compares nirsevimab
// against the maternal vaccine under perspective pe.
func univariateICER(base *rsvcea.ParameterSet, s univariateScenario, bound int, pe rsvcea.Perspective) rsvcea.ICERResult {
	p := cloneParameters(base)
	s.apply(p, bound)
	p.Derive()
	nirsevimab := p.EvaluateStrategy(p.Nirsevimab())
	vaccine := p.EvaluateStrategy(p.MaternalVaccine())
	return rsvcea.ICER(vaccine, nirsevimab, pe)
}

// Univariate runs every one-way scenario against the base case.
func Univariate(base *rsvcea.ParameterSet) []UnivariateResult {
	scenarios := univariateScenarios()
	results := make([]UnivariateResult, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, UnivariateResult{
			Parameter:         s.name,
			HealthSystemLower: univariateICER(base, s, boundLower, rsvcea.HealthSystem),
			HealthSystemUpper: univariateICER(base, s, boundUpper, rsvcea.HealthSystem),
			SocietalLower:     univariateICER(base, s, boundLower, rsvcea.Societal),
			SocietalUpper:     univariateICER(base, s, boundUpper, rsvcea.Societal),
		})
	}
	return results
}

// RunUnivariate runs the one-way sensitivity analysis and writes the
// tornado table to the univariate subdirectory of the output directory.
func RunUnivariate(cfg *viper.Viper) error {
	p, err := ParametersFromConfig(cfg)
	if err != nil {
		return err
	}
	results := Univariate(p)

	path, err := outputPath(cfg, "univariate", "univariate.csv")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rsvcea: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"parameter",
		"icer_healthsystem_lower", "icer_healthsystem_upper",
		"icer_societal_lower", "icer_societal_upper"})
	for _, r := range results {
		w.Write([]string{
			r.Parameter,
			formatFloat(r.HealthSystemLower.Ratio),
			formatFloat(r.HealthSystemUpper.Ratio),
			formatFloat(r.SocietalLower.Ratio),
			formatFloat(r.SocietalUpper.Ratio),
		})
		logrus.WithFields(logrus.Fields{
			"parameter":             r.Parameter,
			"icer_healthsystem_low": r.HealthSystemLower.Ratio,
			"icer_healthsystem_hi":  r.HealthSystemUpper.Ratio,
			"icer_societal_low":     r.SocietalLower.Ratio,
			"icer_societal_hi":      r.SocietalUpper.Ratio,
		}).Info("one-way scenario")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("rsvcea: writing %s: %w", path, err)
	}
	logrus.WithField("file", path).Info("wrote one-way sensitivity table")
	return nil
}
