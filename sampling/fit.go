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
	"math"

	"gonum.org/v1/gonum/optimize"
)

// z95 is the standard normal quantile enclosing the central 95%.
const z95 = 1.96

// FitBeta fits a beta distribution to a mean and 95% CI bounds. The
// method-of-moments estimate is refined by Nelder-Mead minimization of the
// weighted squared error between the implied and target mean and quantiles.
func FitBeta(mean, lower, upper float64) (Beta, error) {
	if mean <= 0 || mean >= 1 {
		return Beta{}, fmt.Errorf("sampling: FitBeta mean %g must be within (0, 1)", mean)
	}
	if lower <= 0 || upper >= 1 || lower >= upper {
		return Beta{}, fmt.Errorf("sampling: FitBeta bounds [%g, %g] must satisfy 0 < lower < upper < 1", lower, upper)
	}

	// Method-of-moments initial guess, treating the CI width as 3.92
	// standard deviations.
	sd := (upper - lower) / (2 * z95)
	common := mean*(1-mean)/(sd*sd) - 1
	a0, b0 := mean*common, (1-mean)*common
	if a0 <= 0 || b0 <= 0 || math.IsNaN(a0) || math.IsNaN(b0) {
		a0, b0 = mean*50, (1-mean)*50
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			a, b := x[0], x[1]
			if a <= 0 || b <= 0 {
				return 1e12
			}
			d := Beta{Alpha: a, Beta: b}
			em := d.Mean() - mean
			el := d.Quantile(0.025) - lower
			eu := d.Quantile(0.975) - upper
			return 50*em*em + 5*el*el + 5*eu*eu
		},
	}
	result, err := optimize.Minimize(problem, []float64{a0, b0}, nil, &optimize.NelderMead{})
	if err != nil {
		// The initial guess is still usable when refinement fails.
		return Beta{Alpha: a0, Beta: b0}, nil
	}
	return Beta{Alpha: result.X[0], Beta: result.X[1]}, nil
}

// FitLogNormal fits lognormal parameters in log space to a mean and 95% CI
// bounds, with a one-step correction so the implied arithmetic mean matches
// the target.
func FitLogNormal(mean, lower, upper float64) (LogNormal, error) {
	if lower <= 0 || upper <= 0 {
		return LogNormal{}, fmt.Errorf("sampling: FitLogNormal bounds [%g, %g] must be > 0", lower, upper)
	}
	if upper <= lower {
		return LogNormal{}, fmt.Errorf("sampling: FitLogNormal upper bound %g must exceed lower bound %g", upper, lower)
	}
	logL, logU := math.Log(lower), math.Log(upper)
	sigma := (logU - logL) / (2 * z95)
	mu := (logL + logU) / 2
	if impliedMean := math.Exp(mu + sigma*sigma/2); impliedMean > 0 {
		mu += math.Log(mean / impliedMean)
	}
	return LogNormal{Mu: mu, Sigma: sigma}, nil
}

// FitLogNormalBriggs derives lognormal parameters from a central value
// taken as the median and a fractional variation (0.25 for ±25%),
// following Briggs et al. (2006).
func FitLogNormalBriggs(central, variation float64) (LogNormal, error) {
	if central <= 0 {
		return LogNormal{}, fmt.Errorf("sampling: FitLogNormalBriggs central value %g must be > 0", central)
	}
	if variation <= 0 || variation >= 1 {
		return LogNormal{}, fmt.Errorf("sampling: FitLogNormalBriggs variation %g must be within (0, 1)", variation)
	}
	lower := central * (1 - variation)
	upper := central * (1 + variation)
	return LogNormal{
		Mu:    math.Log(central),
		Sigma: (math.Log(upper) - math.Log(lower)) / (2 * z95),
	}, nil
}

// FitNormal derives normal parameters from a mean and a symmetric 95% CI.
func FitNormal(mean, lower, upper float64) (mu, sigma float64, err error) {
	if upper <= lower {
		return 0, 0, fmt.Errorf("sampling: FitNormal upper bound %g must exceed lower bound %g", upper, lower)
	}
	return mean, (upper - lower) / (2 * z95), nil
}
