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
	"io"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/healthmodel/rsvcea"
)

// DefaultAgeGroups returns the built-in base case age groups. The cohort
// is split into three infant age bands with band-specific burden, costs,
// and immunization efficacy. Both products protect during the first six
// months of life; efficacy is zero in the oldest band.
func DefaultAgeGroups() []rsvcea.AgeGroup {
	return []rsvcea.AgeGroup{
		{
			Name:                         "0-2m",
			PopulationProportion:         0.25,
			HospProportion:               0.0264,
			HospProportionCI:             rsvcea.Interval{Lower: 0.0128, Upper: 0.0545},
			OutpatientProportion:         0.0950,
			OutpatientProportionCI:       rsvcea.Interval{Lower: 0.0431, Upper: 0.2096},
			Lethality:                    0.0107,
			InpatientCost:                508.44,
			InpatientPCRCost:             53.33,
			OutpatientECCost:             77.72,
			OutpatientPCCost:             25.22,
			CaregiverVisitDays:           5.7,
			Consultations:                2.0,
			TransportCostPerTrip:         4.0,
			AffectedCaregiversProportion: 1.0,
			CaregiverDailySalary:         11.09,
			NirsevimabHospEff:            0.77,
			NirsevimabHospEffCI:          rsvcea.Interval{Lower: 0.72, Upper: 0.79},
			NirsevimabMALRTIEff:          0.70,
			NirsevimabMALRTIEffCI:        rsvcea.Interval{Lower: 0.52, Upper: 0.81},
			VaccineHospEff:               0.678,
			VaccineMALRTIEff:             0.571,
		},
		{
			Name:                         "3-5m",
			PopulationProportion:         0.25,
			HospProportion:               0.0206,
			HospProportionCI:             rsvcea.Interval{Lower: 0.0118, Upper: 0.0360},
			OutpatientProportion:         0.0660,
			OutpatientProportionCI:       rsvcea.Interval{Lower: 0.0170, Upper: 0.2556},
			Lethality:                    0.0107,
			InpatientCost:                508.44,
			InpatientPCRCost:             53.33,
			OutpatientECCost:             77.72,
			OutpatientPCCost:             25.22,
			CaregiverVisitDays:           5.7,
			Consultations:                2.0,
			TransportCostPerTrip:         4.0,
			AffectedCaregiversProportion: 1.0,
			CaregiverDailySalary:         11.09,
			NirsevimabHospEff:            0.77,
			NirsevimabHospEffCI:          rsvcea.Interval{Lower: 0.72, Upper: 0.79},
			NirsevimabMALRTIEff:          0.70,
			NirsevimabMALRTIEffCI:        rsvcea.Interval{Lower: 0.52, Upper: 0.81},
			VaccineHospEff:               0.569,
			VaccineMALRTIEff:             0.513,
		},
		{
			Name:                         "6-11m",
			PopulationProportion:         0.50,
			HospProportion:               0.0112,
			HospProportionCI:             rsvcea.Interval{Lower: 0.0075, Upper: 0.0167},
			OutpatientProportion:         0.0720,
			OutpatientProportionCI:       rsvcea.Interval{Lower: 0.0320, Upper: 0.1634},
			Lethality:                    0.0107,
			InpatientCost:                508.44,
			InpatientPCRCost:             53.33,
			OutpatientECCost:             77.72,
			OutpatientPCCost:             25.22,
			CaregiverVisitDays:           5.7,
			Consultations:                2.0,
			TransportCostPerTrip:         4.0,
			AffectedCaregiversProportion: 1.0,
			CaregiverDailySalary:         11.09,
			NirsevimabHospEff:            0.0,
			NirsevimabMALRTIEff:          0.0,
			VaccineHospEff:               0.0,
			VaccineMALRTIEff:             0.0,
		},
	}
}

// ParametersFromConfig assembles the model parameter set from the
// configuration, loading age groups from AgeGroupFile when one is given
// and validating the result.
func ParametersFromConfig(cfg *viper.Viper) (*rsvcea.ParameterSet, error) {
	groups := DefaultAgeGroups()
	if f := os.ExpandEnv(cfg.GetString("AgeGroupFile")); f != "" {
		var err error
		groups, err = LoadAgeGroups(f)
		if err != nil {
			return nil, err
		}
	}
	p := &rsvcea.ParameterSet{
		Cohort:                       cfg.GetFloat64("Cohort"),
		SevereDW:                     cfg.GetFloat64("SevereDW"),
		SevereDWCI:                   rsvcea.Interval{Lower: cfg.GetFloat64("SevereDW.Lower"), Upper: cfg.GetFloat64("SevereDW.Upper")},
		ModerateDW:                   cfg.GetFloat64("ModerateDW"),
		ModerateDWCI:                 rsvcea.Interval{Lower: cfg.GetFloat64("ModerateDW.Lower"), Upper: cfg.GetFloat64("ModerateDW.Upper")},
		SevereIllnessDurationDays:    cfg.GetFloat64("SevereIllnessDurationDays"),
		ModerateIllnessDurationDays:  cfg.GetFloat64("ModerateIllnessDurationDays"),
		DiscountRate:                 cfg.GetFloat64("DiscountRate"),
		LifeExpectancyYears:          cfg.GetInt("LifeExpectancy.Years"),
		LifeExpectancyRemainder:      cfg.GetFloat64("LifeExpectancy.Remainder"),
		NirsevimabUnitCost:           cfg.GetFloat64("Nirsevimab.UnitCost"),
		NirsevimabWastageRate:        cfg.GetFloat64("Nirsevimab.WastageRate"),
		NirsevimabAdministrationCost: cfg.GetFloat64("Nirsevimab.AdministrationCost"),
		NirsevimabCoverage:           cfg.GetFloat64("Nirsevimab.Coverage"),
		NirsevimabCoverageMin:        cfg.GetFloat64("Nirsevimab.CoverageMin"),
		NirsevimabCoverageMax:        cfg.GetFloat64("Nirsevimab.CoverageMax"),
		VaccineUnitCost:              cfg.GetFloat64("Vaccine.UnitCost"),
		VaccineWastageRate:           cfg.GetFloat64("Vaccine.WastageRate"),
		VaccineAdministrationCost:    cfg.GetFloat64("Vaccine.AdministrationCost"),
		VaccineCoverage:              cfg.GetFloat64("Vaccine.Coverage"),
		Groups:                       groups,
	}
	p.Derive()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ageGroupColumns maps age group CSV header names to setters.
var ageGroupColumns = map[string]func(*rsvcea.AgeGroup, float64){
	"population_proportion":          func(g *rsvcea.AgeGroup, v float64) { g.PopulationProportion = v },
	"hosp_proportion":                func(g *rsvcea.AgeGroup, v float64) { g.HospProportion = v },
	"hosp_lower":                     func(g *rsvcea.AgeGroup, v float64) { g.HospProportionCI.Lower = v },
	"hosp_upper":                     func(g *rsvcea.AgeGroup, v float64) { g.HospProportionCI.Upper = v },
	"outpatient_proportion":          func(g *rsvcea.AgeGroup, v float64) { g.OutpatientProportion = v },
	"outpatient_lower":               func(g *rsvcea.AgeGroup, v float64) { g.OutpatientProportionCI.Lower = v },
	"outpatient_upper":               func(g *rsvcea.AgeGroup, v float64) { g.OutpatientProportionCI.Upper = v },
	"lethality":                      func(g *rsvcea.AgeGroup, v float64) { g.Lethality = v },
	"inpatient_cost":                 func(g *rsvcea.AgeGroup, v float64) { g.InpatientCost = v },
	"inpatient_pcr_cost":             func(g *rsvcea.AgeGroup, v float64) { g.InpatientPCRCost = v },
	"outpatient_ec_cost":             func(g *rsvcea.AgeGroup, v float64) { g.OutpatientECCost = v },
	"outpatient_pc_cost":             func(g *rsvcea.AgeGroup, v float64) { g.OutpatientPCCost = v },
	"caregiver_visit_days":           func(g *rsvcea.AgeGroup, v float64) { g.CaregiverVisitDays = v },
	"consultations":                  func(g *rsvcea.AgeGroup, v float64) { g.Consultations = v },
	"transport_cost_per_trip":        func(g *rsvcea.AgeGroup, v float64) { g.TransportCostPerTrip = v },
	"affected_caregivers_proportion": func(g *rsvcea.AgeGroup, v float64) { g.AffectedCaregiversProportion = v },
	"caregiver_daily_salary":         func(g *rsvcea.AgeGroup, v float64) { g.CaregiverDailySalary = v },
	"nirsevimab_hosp_eff":            func(g *rsvcea.AgeGroup, v float64) { g.NirsevimabHospEff = v },
	"nirsevimab_hosp_lower":          func(g *rsvcea.AgeGroup, v float64) { g.NirsevimabHospEffCI.Lower = v },
	"nirsevimab_hosp_upper":          func(g *rsvcea.AgeGroup, v float64) { g.NirsevimabHospEffCI.Upper = v },
	"nirsevimab_malrti_eff":          func(g *rsvcea.AgeGroup, v float64) { g.NirsevimabMALRTIEff = v },
	"nirsevimab_malrti_lower":        func(g *rsvcea.AgeGroup, v float64) { g.NirsevimabMALRTIEffCI.Lower = v },
	"nirsevimab_malrti_upper":        func(g *rsvcea.AgeGroup, v float64) { g.NirsevimabMALRTIEffCI.Upper = v },
	"vaccine_hosp_eff":               func(g *rsvcea.AgeGroup, v float64) { g.VaccineHospEff = v },
	"vaccine_malrti_eff":             func(g *rsvcea.AgeGroup, v float64) { g.VaccineMALRTIEff = v },
}

// LoadAgeGroups reads per-age-group model inputs from a
// semicolon-delimited CSV file. The first column holds the age group
// name; the remaining columns are matched to inputs by header name and
// may appear in any order. Columns that are absent keep their zero
// value.
func LoadAgeGroups(filename string) ([]rsvcea.AgeGroup, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("rsvcea: opening age group file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("rsvcea: reading age group file %s: %w", filename, err)
	}
	setters := make([]func(*rsvcea.AgeGroup, float64), len(header))
	for j, h := range header[1:] {
		set, ok := ageGroupColumns[h]
		if !ok {
			return nil, fmt.Errorf("rsvcea: age group file %s: unknown column %q", filename, h)
		}
		setters[j+1] = set
	}

	var groups []rsvcea.AgeGroup
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("rsvcea: reading age group file %s: %w", filename, err)
		}
		g := rsvcea.AgeGroup{Name: record[0]}
		for j, cell := range record[1:] {
			v, err := cast.ToFloat64E(cell)
			if err != nil {
				return nil, fmt.Errorf("rsvcea: age group file %s line %d column %s: %w",
					filename, line, header[j+1], err)
			}
			setters[j+1](&g, v)
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("rsvcea: age group file %s holds no age groups", filename)
	}
	return groups, nil
}

// outputPath joins the configured output directory with the given file
// name, expanding environment variables and creating intermediate
// directories as needed.
func outputPath(cfg *viper.Viper, elem ...string) (string, error) {
	dir := os.ExpandEnv(cfg.GetString("OutputDir"))
	p := filepath.Join(append([]string{dir}, elem...)...)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("rsvcea: creating output directory: %w", err)
	}
	return p, nil
}
