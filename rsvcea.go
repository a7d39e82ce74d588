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

// Package rsvcea is a decision-analytic model for estimating the
// cost-effectiveness of nirsevimab immunoprophylaxis compared to maternal
// RSV vaccination for the prevention of respiratory syncytial virus (RSV)
// disease in infants. It calculates expected clinical outcomes, costs, and
// disability-adjusted life years (DALYs) for a birth cohort under each
// prevention strategy, and incremental cost-effectiveness ratios (ICERs)
// between strategies.
package rsvcea

// Version gives the version number.
const Version = "1.1.0"

// DaysPerYear is the mean tropical year length including the leap day
// adjustment, used to convert illness durations to year fractions.
const DaysPerYear = 365.25

// CostEffectivenessThreshold is the reference willingness-to-pay
// threshold [USD per DALY averted].
const CostEffectivenessThreshold = 8016.03

// Perspective specifies which costs are included in an economic evaluation.
type Perspective int

const (
	// HealthSystem includes direct medical costs borne by the public
	// health system.
	HealthSystem Perspective = iota

	// Societal additionally includes household costs: caregiver
	// transport and productivity losses.
	Societal
)

func (p Perspective) String() string {
	switch p {
	case HealthSystem:
		return "healthsystem"
	case Societal:
		return "societal"
	}
	return "unknown"
}

// Perspectives holds the perspectives included in every analysis.
var Perspectives = []Perspective{HealthSystem, Societal}
