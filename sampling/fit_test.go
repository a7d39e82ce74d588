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
	"testing"
)

func TestFitBeta(t *testing.T) {
	var tests = []struct {
		mean, lower, upper float64
	}{
		{mean: 0.21, lower: 0.139, upper: 0.298},
		{mean: 0.051, lower: 0.032, upper: 0.074},
		{mean: 0.8, lower: 0.62, upper: 0.9},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.mean), func(t *testing.T) {
			d, err := FitBeta(test.mean, test.lower, test.upper)
			if err != nil {
				t.Fatal(err)
			}
			if d.Alpha <= 0 || d.Beta <= 0 {
				t.Fatalf("non-positive shape parameters (%g, %g)", d.Alpha, d.Beta)
			}
			if math.Abs(d.Mean()-test.mean) > 0.02 {
				t.Errorf("fitted mean = %g, want %g", d.Mean(), test.mean)
			}
			if q := d.Quantile(0.025); math.Abs(q-test.lower) > 0.05 {
				t.Errorf("fitted 2.5%% quantile = %g, want about %g", q, test.lower)
			}
			if q := d.Quantile(0.975); math.Abs(q-test.upper) > 0.05 {
				t.Errorf("fitted 97.5%% quantile = %g, want about %g", q, test.upper)
			}
		})
	}
}

func TestFitBetaErrors(t *testing.T) {
	var tests = []struct {
		name               string
		mean, lower, upper float64
	}{
		{name: "mean at zero", mean: 0, lower: 0.1, upper: 0.2},
		{name: "mean at one", mean: 1, lower: 0.1, upper: 0.2},
		{name: "lower above upper", mean: 0.5, lower: 0.6, upper: 0.4},
		{name: "bounds outside domain", mean: 0.5, lower: -0.1, upper: 0.9},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := FitBeta(test.mean, test.lower, test.upper); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestFitLogNormal(t *testing.T) {
	d, err := FitLogNormal(0.03, 0.022, 0.039)
	if err != nil {
		t.Fatal(err)
	}
	wantSigma := (math.Log(0.039) - math.Log(0.022)) / (2 * z95)
	if math.Abs(d.Sigma-wantSigma) > 1e-12 {
		t.Errorf("sigma = %g, want %g", d.Sigma, wantSigma)
	}
	// The one-step correction makes the implied arithmetic mean match the
	// target exactly.
	impliedMean := math.Exp(d.Mu + d.Sigma*d.Sigma/2)
	if math.Abs(impliedMean-0.03) > 1e-12 {
		t.Errorf("implied mean = %g, want 0.03", impliedMean)
	}

	if _, err := FitLogNormal(0.03, -1, 0.039); err == nil {
		t.Error("want error for non-positive bound, got nil")
	}
	if _, err := FitLogNormal(0.03, 0.039, 0.022); err == nil {
		t.Error("want error for inverted bounds, got nil")
	}
}

func TestFitLogNormalBriggs(t *testing.T) {
	d, err := FitLogNormalBriggs(2528.52, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Log(2528.52); math.Abs(d.Mu-want) > 1e-12 {
		t.Errorf("mu = %g, want %g", d.Mu, want)
	}
	wantSigma := (math.Log(2528.52*1.25) - math.Log(2528.52*0.75)) / (2 * z95)
	if math.Abs(d.Sigma-wantSigma) > 1e-12 {
		t.Errorf("sigma = %g, want %g", d.Sigma, wantSigma)
	}

	if _, err := FitLogNormalBriggs(-5, 0.25); err == nil {
		t.Error("want error for non-positive central value, got nil")
	}
	if _, err := FitLogNormalBriggs(100, 1.5); err == nil {
		t.Error("want error for variation outside (0, 1), got nil")
	}
}

func TestFitNormal(t *testing.T) {
	mu, sigma, err := FitNormal(0.5, 0.4, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if mu != 0.5 {
		t.Errorf("mu = %g, want 0.5", mu)
	}
	if want := 0.2 / (2 * z95); math.Abs(sigma-want) > 1e-12 {
		t.Errorf("sigma = %g, want %g", sigma, want)
	}
	if _, _, err := FitNormal(0.5, 0.6, 0.4); err == nil {
		t.Error("want error for inverted bounds, got nil")
	}
}
