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

// Package sampling draws model parameter sets from declarative parameter
// distributions for probabilistic sensitivity analysis, and fits those
// distributions from published summary statistics (point estimates and 95%
// confidence intervals).
package sampling

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// A Dist is a parameter uncertainty distribution. Each call to Rand draws
// one value using src, independently of all other draws.
type Dist interface {
	Rand(src rand.Source) float64
}

// Fixed is a point value for parameters without specified uncertainty.
type Fixed float64

// Rand returns the fixed value; src is unused.
func (f Fixed) Rand(rand.Source) float64 { return float64(f) }

// Beta is a beta distribution, used for quantities bounded to [0, 1] such
// as efficacies and disability weights.
type Beta struct {
	Alpha, Beta float64
}

func (b Beta) Rand(src rand.Source) float64 {
	return distuv.Beta{Alpha: b.Alpha, Beta: b.Beta, Src: src}.Rand()
}

// Mean returns the distribution mean α/(α+β).
func (b Beta) Mean() float64 { return b.Alpha / (b.Alpha + b.Beta) }

// Quantile returns the inverse CDF at probability p.
func (b Beta) Quantile(p float64) float64 {
	return distuv.Beta{Alpha: b.Alpha, Beta: b.Beta}.Quantile(p)
}

// LogNormal is a lognormal distribution parameterized by the mean and
// standard deviation of the underlying normal in log space, used for
// positive right-skewed quantities such as costs and proportions.
type LogNormal struct {
	Mu, Sigma float64
}

func (l LogNormal) Rand(src rand.Source) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: src}.Rand()
}

// PERT is a betaPERT distribution over [Min, Max] with the given mode,
// used for program coverage where only an expected value and plausible
// bounds are available.
type PERT struct {
	Min, Mode, Max float64
}

// Rand draws from the underlying scaled beta distribution with
// α = 1 + 4(mode−min)/(max−min) and β = 1 + 4(max−mode)/(max−min).
func (p PERT) Rand(src rand.Source) float64 {
	if p.Max <= p.Min {
		return p.Mode
	}
	span := p.Max - p.Min
	b := distuv.Beta{
		Alpha: 1 + 4*(p.Mode-p.Min)/span,
		Beta:  1 + 4*(p.Max-p.Mode)/span,
		Src:   src,
	}
	return p.Min + span*b.Rand()
}
