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

// Strategy names.
const (
	StrategyBaseline   = "baseline"
	StrategyNirsevimab = "nirsevimab"
	StrategyVaccine    = "vaccine"
)

// A Strategy is one prevention option applied to the cohort: a program
// coverage, a per-dose cost, and per-age-group efficacies against
// hospitalization and medically attended LRTI.
type Strategy struct {
	Name      string
	Coverage  float64
	DoseCost  float64
	HospEff   []float64
	MALRTIEff []float64
}

// Baseline returns the no-intervention comparator strategy.
func (p *ParameterSet) Baseline() Strategy {
	return Strategy{
		Name:      StrategyBaseline,
		HospEff:   make([]float64, len(p.Groups)),
		MALRTIEff: make([]float64, len(p.Groups)),
	}
}

// Nirsevimab returns the nirsevimab immunoprophylaxis strategy.
func (p *ParameterSet) Nirsevimab() Strategy {
	s := Strategy{
		Name:      StrategyNirsevimab,
		Coverage:  p.NirsevimabCoverage,
		DoseCost:  p.NirsevimabDoseCost,
		HospEff:   make([]float64, len(p.Groups)),
		MALRTIEff: make([]float64, len(p.Groups)),
	}
	for i, g := range p.Groups {
		s.HospEff[i] = g.NirsevimabHospEff
		s.MALRTIEff[i] = g.NirsevimabMALRTIEff
	}
	return s
}

// MaternalVaccine returns the maternal RSV vaccination strategy.
func (p *ParameterSet) MaternalVaccine() Strategy {
	s := Strategy{
		Name:      StrategyVaccine,
		Coverage:  p.VaccineCoverage,
		DoseCost:  p.VaccineDoseCost,
		HospEff:   make([]float64, len(p.Groups)),
		MALRTIEff: make([]float64, len(p.Groups)),
	}
	for i, g := range p.Groups {
		s.HospEff[i] = g.VaccineHospEff
		s.MALRTIEff[i] = g.VaccineMALRTIEff
	}
	return s
}

// Strategies returns the three modeled strategies.
func (p *ParameterSet) Strategies() []Strategy {
	return []Strategy{p.Baseline(), p.MaternalVaccine(), p.Nirsevimab()}
}

// An OutcomeDistribution partitions the cohort into mutually exclusive,
// exhaustive clinical outcome categories [expected infants]. The category
// counts always sum to the cohort size.
type OutcomeDistribution struct {
	NoDisease             float64
	Outpatient            float64
	HospitalizedRecovered float64
	HospitalizedDied      float64
}

// Total returns the sum over all outcome categories.
func (o OutcomeDistribution) Total() float64 {
	return o.NoDisease + o.Outpatient + o.HospitalizedRecovered + o.HospitalizedDied
}

// A StrategyResult holds the expected outcomes, costs, and DALYs of one
// strategy for one parameter set.
type StrategyResult struct {
	Strategy string

	Outcomes OutcomeDistribution

	// CostHealthSystem includes direct medical, direct non-medical, and
	// intervention program costs. CostSocietal adds caregiver
	// productivity losses. [USD]
	CostHealthSystem float64
	CostSocietal     float64

	// DALYs are perspective-independent.
	DALYs float64
}

// Cost returns the total cost under perspective pe.
func (r StrategyResult) Cost(pe Perspective) float64 {
	if pe == Societal {
		return r.CostSocietal
	}
	return r.CostHealthSystem
}

// subgroupOutcome accumulates the outcomes of a subpopulation pop within
// age group g whose disease probabilities are reduced by hospEff and
// malrtiEff.
func (p *ParameterSet) subgroupOutcome(g *AgeGroup, pop, hospEff, malrtiEff float64, r *StrategyResult) {
	hospCases := pop * g.HospProportion * (1 - hospEff)
	outCases := pop * g.OutpatientProportion * (1 - malrtiEff)
	deaths := hospCases * g.Lethality
	recovered := hospCases - deaths

	r.Outcomes.Outpatient += outCases
	r.Outcomes.HospitalizedRecovered += recovered
	r.Outcomes.HospitalizedDied += deaths
	r.Outcomes.NoDisease += pop - outCases - hospCases

	// Every hospitalization includes at least one emergency care visit.
	medical := hospCases*(g.InpatientCost+g.InpatientPCRCost+g.OutpatientECCost) +
		outCases*g.OutpatientPCCost
	household := hospCases*(g.InpatientTransportCost+g.InpatientSalaryLoss) +
		outCases*(g.OutpatientTransportCost+g.OutpatientSalaryLoss)

	r.CostHealthSystem += medical
	r.CostSocietal += medical + household

	severeYears := p.SevereIllnessDurationDays / DaysPerYear
	moderateYears := p.ModerateIllnessDurationDays / DaysPerYear
	r.DALYs += recovered*p.SevereDW*severeYears +
		deaths*p.SevereDW*severeYears +
		deaths*p.DiscountedYLLPerDeath +
		outCases*p.ModerateDW*moderateYears
}

// EvaluateStrategy computes the expected outcome distribution, costs, and
// DALYs of strategy s applied to the cohort described by p. Each age group
// is split into a covered subpopulation, which receives the strategy's
// efficacy, and an uncovered one, which does not; program cost scales
// linearly with coverage.
func (p *ParameterSet) EvaluateStrategy(s Strategy) StrategyResult {
	r := StrategyResult{Strategy: s.Name}
	for i := range p.Groups {
		g := &p.Groups[i]
		groupPop := p.Cohort * g.PopulationProportion
		p.subgroupOutcome(g, groupPop*s.Coverage, s.HospEff[i], s.MALRTIEff[i], &r)
		p.subgroupOutcome(g, groupPop*(1-s.Coverage), 0, 0, &r)
	}
	programCost := p.Cohort * s.Coverage * s.DoseCost
	r.CostHealthSystem += programCost
	r.CostSocietal += programCost
	return r
}

// Evaluate runs the cohort outcome model for every modeled strategy,
// returning one result per strategy name.
func (p *ParameterSet) Evaluate() map[string]StrategyResult {
	results := make(map[string]StrategyResult)
	for _, s := range p.Strategies() {
		results[s.Name] = p.EvaluateStrategy(s)
	}
	return results
}
