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
	"path/filepath"
	"testing"

	"github.com/healthmodel/rsvcea"
)

func TestUnivariate(t *testing.T) {
	Cfg.Set("AgeGroupFile", "")
	base, err := ParametersFromConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	before := cloneParameters(base)

	results := Univariate(base)
	if len(results) != 6 {
		t.Fatalf("got %d scenarios, want 6", len(results))
	}
	wantOrder := []string{"nirsevimab_coverage", "rsv_incidence", "inpatient_cost",
		"outpatient_cost", "caregiver_salary", "nirsevimab_effectiveness"}
	for i, name := range wantOrder {
		if results[i].Parameter != name {
			t.Errorf("scenario %d: %q != %q", i, results[i].Parameter, name)
		}
	}

	for _, r := range results {
		if r.HealthSystemLower.IncrementalCost == r.HealthSystemUpper.IncrementalCost &&
			r.HealthSystemLower.DALYsAverted == r.HealthSystemUpper.DALYsAverted {
			t.Errorf("%s: lower and upper bounds give identical results", r.Parameter)
		}
	}

	// Scenario evaluation must not mutate the base case.
	if base.NirsevimabCoverage != before.NirsevimabCoverage {
		t.Error("base coverage mutated")
	}
	for i := range base.Groups {
		if base.Groups[i] != before.Groups[i] {
			t.Errorf("base age group %d mutated", i)
		}
	}
}

func TestUnivariateCoverageBounds(t *testing.T) {
	Cfg.Set("AgeGroupFile", "")
	base, err := ParametersFromConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	s := univariateScenarios()[0]

	lo := univariateICER(base, s, boundLower, rsvcea.HealthSystem)
	hi := univariateICER(base, s, boundUpper, rsvcea.HealthSystem)
	// Lower coverage means fewer doses purchased, so the incremental
	// cost over the vaccine must be smaller.
	if lo.IncrementalCost >= hi.IncrementalCost {
		t.Errorf("incremental cost at low coverage (%g) should be below high coverage (%g)",
			lo.IncrementalCost, hi.IncrementalCost)
	}
}

func TestRunUnivariateCommand(t *testing.T) {
	dir := t.TempDir()
	Cfg.Set("OutputDir", dir)
	Cfg.Set("AgeGroupFile", "")
	Root.SetArgs([]string{"univariate"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	rows := readCSV(t, filepath.Join(dir, "univariate", "univariate.csv"))
	if len(rows) != 7 { // header + six scenarios
		t.Fatalf("got %d rows, want 7", len(rows))
	}
	if len(rows[0]) != 5 {
		t.Fatalf("got %d columns, want 5", len(rows[0]))
	}
}
