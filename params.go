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
	"fmt"
	"math"
)

// proportionSumTolerance is the allowed deviation of the age group
// population proportions from 1.
const proportionSumTolerance = 0.001

// Interval is a 95% confidence interval around a point estimate.
type Interval struct {
	Lower, Upper float64
}

// AgeGroup holds the epidemiologic, cost, and effectiveness inputs for one
// age band of the birth cohort. All proportions are per infant-season.
type AgeGroup struct {
	Name string

	// PopulationProportion is the fraction of the cohort in this group.
	// Proportions across groups must sum to 1.
	PopulationProportion float64

	// HospProportion is the probability of RSV hospitalization.
	HospProportion   float64
	HospProportionCI Interval

	// OutpatientProportion is the probability of medically attended
	// lower respiratory tract illness (MA-LRTI) not requiring
	// hospitalization.
	OutpatientProportion   float64
	OutpatientProportionCI Interval

	// Lethality is the in-hospital case fatality fraction.
	Lethality float64

	// Direct medical costs per case [USD].
	InpatientCost    float64
	InpatientPCRCost float64
	OutpatientECCost float64 // emergency care visit
	OutpatientPCCost float64 // primary care visit

	// Direct non-medical and indirect cost inputs.
	CaregiverVisitDays           float64
	Consultations                float64
	TransportCostPerTrip         float64
	AffectedCaregiversProportion float64
	CaregiverDailySalary         float64

	// Efficacy of each intervention as a multiplicative reduction of the
	// corresponding baseline probability. Zero means no protection in
	// this age band.
	NirsevimabHospEff     float64
	NirsevimabHospEffCI   Interval
	NirsevimabMALRTIEff   float64
	NirsevimabMALRTIEffCI Interval
	VaccineHospEff        float64
	VaccineMALRTIEff      float64

	// Derived inputs, filled in by (*ParameterSet).Derive.
	InpatientTransportCost  float64
	OutpatientTransportCost float64
	InpatientSalaryLoss     float64
	OutpatientSalaryLoss    float64
}

// ParameterSet is one complete, immutable bundle of model inputs: the fixed
// base case for a deterministic run, or one Monte Carlo draw during
// probabilistic sensitivity analysis.
type ParameterSet struct {
	// Cohort is the number of infants entering the model.
	Cohort float64

	// Disability weights with 95% CIs.
	SevereDW     float64
	SevereDWCI   Interval
	ModerateDW   float64
	ModerateDWCI Interval

	// Illness durations [days].
	SevereIllnessDurationDays   float64
	ModerateIllnessDurationDays float64

	// Years of life lost inputs.
	DiscountRate            float64
	LifeExpectancyYears     int
	LifeExpectancyRemainder float64

	// Nirsevimab program inputs.
	NirsevimabUnitCost           float64
	NirsevimabWastageRate        float64
	NirsevimabAdministrationCost float64
	NirsevimabCoverage           float64
	NirsevimabCoverageMin        float64
	NirsevimabCoverageMax        float64

	// Maternal vaccine program inputs.
	VaccineUnitCost           float64
	VaccineWastageRate        float64
	VaccineAdministrationCost float64
	VaccineCoverage           float64

	Groups []AgeGroup

	// Derived values, filled in by Derive.
	DiscountedYLLPerDeath float64
	NirsevimabDoseCost    float64
	VaccineDoseCost       float64
}

// DiscountedYLL computes the present value of the years of life lost by one
// death, discounting each complete life year at discountRate and the
// terminal partial year by finalYearFactor.
func DiscountedYLL(discountRate float64, years int, finalYearFactor float64) float64 {
	base := 1 / (1 + discountRate)
	var sum float64
	for t := 0; t < years; t++ {
		sum += math.Pow(base, float64(t))
	}
	return sum + math.Pow(base, float64(years))*finalYearFactor
}

// DoseCost computes the per-dose program cost including wastage and
// administration.
func DoseCost(unitCost, wastageRate, administrationCost float64) float64 {
	return unitCost*(1+wastageRate) + administrationCost
}

// InpatientTransportCost computes the caregiver transport cost per
// hospitalized patient. Each visit day and consultation is a round trip.
func InpatientTransportCost(caregiverVisitDays, consultations, costPerTrip float64) float64 {
	return (caregiverVisitDays + consultations) * 2 * costPerTrip
}

// OutpatientTransportCost computes the caregiver transport cost per
// outpatient case. Each consultation is a round trip.
func OutpatientTransportCost(consultations, costPerTrip float64) float64 {
	return consultations * 2 * costPerTrip
}

// SalaryLoss computes the expected caregiver productivity loss per patient.
func SalaryLoss(illnessDurationDays, affectedCaregiversProportion, dailySalary float64) float64 {
	return illnessDurationDays * affectedCaregiversProportion * dailySalary
}

// Derive fills in the derived fields of p (discounted YLL, per-dose program
// costs, transport costs, and caregiver salary losses) from its primary
// inputs. It must be called before Evaluate whenever a primary input
// changes.
func (p *ParameterSet) Derive() {
	p.DiscountedYLLPerDeath = DiscountedYLL(p.DiscountRate, p.LifeExpectancyYears, p.LifeExpectancyRemainder)
	p.NirsevimabDoseCost = DoseCost(p.NirsevimabUnitCost, p.NirsevimabWastageRate, p.NirsevimabAdministrationCost)
	p.VaccineDoseCost = DoseCost(p.VaccineUnitCost, p.VaccineWastageRate, p.VaccineAdministrationCost)
	for i := range p.Groups {
		g := &p.Groups[i]
		g.InpatientTransportCost = InpatientTransportCost(g.CaregiverVisitDays, g.Consultations, g.TransportCostPerTrip)
		g.OutpatientTransportCost = OutpatientTransportCost(g.Consultations, g.TransportCostPerTrip)
		g.InpatientSalaryLoss = SalaryLoss(p.SevereIllnessDurationDays, g.AffectedCaregiversProportion, g.CaregiverDailySalary)
		g.OutpatientSalaryLoss = SalaryLoss(p.ModerateIllnessDurationDays, g.AffectedCaregiversProportion, g.CaregiverDailySalary)
	}
}

// InvalidParameterError reports a model input outside its valid domain.
type InvalidParameterError struct {
	Field string
	Value float64
	Msg   string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("rsvcea: invalid parameter %s = %g: %s", e.Field, e.Value, e.Msg)
}

func checkProportion(field string, v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return &InvalidParameterError{field, v, "must be within [0, 1]"}
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if v < 0 || math.IsNaN(v) {
		return &InvalidParameterError{field, v, "must be non-negative"}
	}
	return nil
}

// Validate checks every input in p against its domain: probability-like
// inputs within [0, 1], costs and counts non-negative, group population
// proportions summing to 1, and outcome probabilities that remain within
// [0, 1] after combination.
func (p *ParameterSet) Validate() error {
	if err := checkNonNegative("Cohort", p.Cohort); err != nil {
		return err
	}
	proportions := map[string]float64{
		"SevereDW":                p.SevereDW,
		"ModerateDW":              p.ModerateDW,
		"NirsevimabWastageRate":   p.NirsevimabWastageRate,
		"NirsevimabCoverage":      p.NirsevimabCoverage,
		"NirsevimabCoverageMin":   p.NirsevimabCoverageMin,
		"NirsevimabCoverageMax":   p.NirsevimabCoverageMax,
		"VaccineWastageRate":      p.VaccineWastageRate,
		"VaccineCoverage":         p.VaccineCoverage,
		"LifeExpectancyRemainder": p.LifeExpectancyRemainder,
	}
	for field, v := range proportions {
		if err := checkProportion(field, v); err != nil {
			return err
		}
	}
	nonNegatives := map[string]float64{
		"SevereIllnessDurationDays":    p.SevereIllnessDurationDays,
		"ModerateIllnessDurationDays":  p.ModerateIllnessDurationDays,
		"NirsevimabUnitCost":           p.NirsevimabUnitCost,
		"NirsevimabAdministrationCost": p.NirsevimabAdministrationCost,
		"VaccineUnitCost":              p.VaccineUnitCost,
		"VaccineAdministrationCost":    p.VaccineAdministrationCost,
	}
	for field, v := range nonNegatives {
		if err := checkNonNegative(field, v); err != nil {
			return err
		}
	}
	if p.DiscountRate <= -1 {
		return &InvalidParameterError{"DiscountRate", p.DiscountRate, "must be > -1"}
	}
	if p.LifeExpectancyYears < 0 {
		return &InvalidParameterError{"LifeExpectancyYears", float64(p.LifeExpectancyYears), "must be >= 0"}
	}
	if len(p.Groups) == 0 {
		return &InvalidParameterError{"Groups", 0, "at least one age group is required"}
	}

	var popSum float64
	for _, g := range p.Groups {
		popSum += g.PopulationProportion
		groupProportions := map[string]float64{
			"PopulationProportion":         g.PopulationProportion,
			"HospProportion":               g.HospProportion,
			"OutpatientProportion":         g.OutpatientProportion,
			"Lethality":                    g.Lethality,
			"AffectedCaregiversProportion": g.AffectedCaregiversProportion,
			"NirsevimabHospEff":            g.NirsevimabHospEff,
			"NirsevimabMALRTIEff":          g.NirsevimabMALRTIEff,
			"VaccineHospEff":               g.VaccineHospEff,
			"VaccineMALRTIEff":             g.VaccineMALRTIEff,
		}
		for field, v := range groupProportions {
			if err := checkProportion(g.Name+"."+field, v); err != nil {
				return err
			}
		}
		groupNonNegatives := map[string]float64{
			"InpatientCost":        g.InpatientCost,
			"InpatientPCRCost":     g.InpatientPCRCost,
			"OutpatientECCost":     g.OutpatientECCost,
			"OutpatientPCCost":     g.OutpatientPCCost,
			"CaregiverVisitDays":   g.CaregiverVisitDays,
			"Consultations":        g.Consultations,
			"TransportCostPerTrip": g.TransportCostPerTrip,
			"CaregiverDailySalary": g.CaregiverDailySalary,
		}
		for field, v := range groupNonNegatives {
			if err := checkNonNegative(g.Name+"."+field, v); err != nil {
				return err
			}
		}
		// Outcome categories are mutually exclusive, so the combined
		// disease probability must stay within [0, 1]. Efficacies only
		// reduce the baseline probabilities, so checking the baseline
		// suffices.
		if s := g.HospProportion + g.OutpatientProportion; s > 1 {
			return &InvalidParameterError{g.Name + ".HospProportion+OutpatientProportion", s,
				"combined disease probability exceeds 1"}
		}
	}
	if math.Abs(popSum-1) > proportionSumTolerance {
		return &InvalidParameterError{"Groups.PopulationProportion", popSum,
			fmt.Sprintf("group proportions must sum to 1 (±%g)", proportionSumTolerance)}
	}
	return nil
}
