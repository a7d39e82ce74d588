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

package psa

import (
	"fmt"
	"testing"

	"github.com/healthmodel/rsvcea"
)

func testParameters() *rsvcea.ParameterSet {
	p := &rsvcea.ParameterSet{
		Cohort:                      100000,
		SevereDW:                    0.21,
		SevereDWCI:                  rsvcea.Interval{Lower: 0.139, Upper: 0.298},
		ModerateDW:                  0.051,
		ModerateDWCI:                rsvcea.Interval{Lower: 0.032, Upper: 0.074},
		SevereIllnessDurationDays:   12.5,
		ModerateIllnessDurationDays: 7,
		DiscountRate:                0.03,
		LifeExpectancyYears:         79,
		LifeExpectancyRemainder:     0.5,

		NirsevimabUnitCost:           220.45,
		NirsevimabWastageRate:        0.05,
		NirsevimabAdministrationCost: 6.37,
		NirsevimabCoverage:           0.90,
		NirsevimabCoverageMin:        0.80,
		NirsevimabCoverageMax:        0.95,

		VaccineUnitCost:           175,
		VaccineWastageRate:        0.05,
		VaccineAdministrationCost: 6.37,
		VaccineCoverage:           0.59,

		Groups: []rsvcea.AgeGroup{{
			Name:                         "0-5m",
			PopulationProportion:         1,
			HospProportion:               0.030,
			HospProportionCI:             rsvcea.Interval{Lower: 0.022, Upper: 0.039},
			OutpatientProportion:         0.100,
			OutpatientProportionCI:       rsvcea.Interval{Lower: 0.075, Upper: 0.130},
			Lethality:                    0.0023,
			InpatientCost:                2528.52,
			InpatientPCRCost:             25.14,
			OutpatientECCost:             89.20,
			OutpatientPCCost:             42.10,
			CaregiverVisitDays:           8,
			Consultations:                2,
			TransportCostPerTrip:         3.5,
			AffectedCaregiversProportion: 0.65,
			CaregiverDailySalary:         22.3,
			NirsevimabHospEff:            0.80,
			NirsevimabHospEffCI:          rsvcea.Interval{Lower: 0.62, Upper: 0.90},
			NirsevimabMALRTIEff:          0.745,
			NirsevimabMALRTIEffCI:        rsvcea.Interval{Lower: 0.58, Upper: 0.85},
			VaccineHospEff:               0.69,
			VaccineMALRTIEff:             0.513,
		}},
	}
	p.Derive()
	return p
}

func TestRunOrdering(t *testing.T) {
	records, err := Run(testParameters(), 50, 42, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 50 {
		t.Fatalf("got %d records, want 50", len(records))
	}
	for i, r := range records {
		if r.Iteration != i {
			t.Fatalf("record %d has iteration index %d", i, r.Iteration)
		}
	}
}

func sameRecords(a, b []IterationRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ra, rb := a[i], b[i]
		if ra.SevereDW != rb.SevereDW ||
			ra.ModerateDW != rb.ModerateDW ||
			ra.NirsevimabCoverage != rb.NirsevimabCoverage ||
			ra.IncrementalCostHealthSystem != rb.IncrementalCostHealthSystem ||
			ra.IncrementalCostSocietal != rb.IncrementalCostSocietal ||
			ra.DALYsAverted != rb.DALYsAverted ||
			ra.Clamped != rb.Clamped {
			return false
		}
		for gi := range ra.Groups {
			if ra.Groups[gi] != rb.Groups[gi] {
				return false
			}
		}
	}
	return true
}

// TestRunReproducible checks that a fixed seed reproduces the run exactly,
// both sequentially and with parallel workers.
func TestRunReproducible(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			a, err := Run(testParameters(), 200, 42, workers, nil)
			if err != nil {
				t.Fatal(err)
			}
			b, err := Run(testParameters(), 200, 42, workers, nil)
			if err != nil {
				t.Fatal(err)
			}
			if !sameRecords(a, b) {
				t.Error("identical seeds produced different runs")
			}

			c, err := Run(testParameters(), 200, 43, workers, nil)
			if err != nil {
				t.Fatal(err)
			}
			if sameRecords(a, c) {
				t.Error("different seeds produced identical runs")
			}
		})
	}
}

// TestRunCompletesAllIterations checks that no iteration is dropped, even
// in a parameterization where clamping occurs.
func TestRunCompletesAllIterations(t *testing.T) {
	p := testParameters()
	p.Groups[0].HospProportion = 0.45
	p.Groups[0].HospProportionCI = rsvcea.Interval{Lower: 0.30, Upper: 0.60}
	p.Groups[0].OutpatientProportion = 0.52
	p.Groups[0].OutpatientProportionCI = rsvcea.Interval{Lower: 0.35, Upper: 0.75}

	records, err := Run(p, 500, 7, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 500 {
		t.Fatalf("got %d records, want 500", len(records))
	}
	var clamped int
	for _, r := range records {
		if r.Clamped {
			clamped++
		}
	}
	if clamped == 0 {
		t.Error("expected clamped iterations to be flagged, found none")
	}
}

func TestRunProgress(t *testing.T) {
	var calls int
	if _, err := Run(testParameters(), 25, 1, 1, func() { calls++ }); err != nil {
		t.Fatal(err)
	}
	if calls != 25 {
		t.Errorf("progress called %d times, want 25", calls)
	}
}

func TestRunRejectsBadIterationCount(t *testing.T) {
	if _, err := Run(testParameters(), 0, 1, 1, nil); err == nil {
		t.Error("want error for zero iterations, got nil")
	}
}
