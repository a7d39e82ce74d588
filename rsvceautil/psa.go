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
	"strconv"

	"github.com/lnashier/viper"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/healthmodel/rsvcea"
	"github.com/healthmodel/rsvcea/psa"
)

// psaFile returns the iteration table file name for perspective pe.
func psaFile(pe rsvcea.Perspective) string {
	return fmt.Sprintf("psa_%s.csv", pe)
}

// ceacFile returns the acceptability curve file name for perspective pe.
func ceacFile(pe rsvcea.Perspective) string {
	return fmt.Sprintf("ceac_%s.csv", pe)
}

// RunPSA runs the probabilistic sensitivity analysis and writes one
// iteration table per perspective to the psa subdirectory of the output
// directory.
func RunPSA(cfg *viper.Viper) error {
	p, err := ParametersFromConfig(cfg)
	if err != nil {
		return err
	}
	n := cfg.GetInt("PSA.Iterations")
	seed := uint64(cfg.GetInt("PSA.Seed"))
	workers := cfg.GetInt("PSA.Workers")

	logrus.WithFields(logrus.Fields{
		"iterations": n,
		"seed":       seed,
		"workers":    workers,
	}).Info("starting probabilistic sensitivity analysis")

	bar := progressbar.Default(int64(n))
	records, err := psa.Run(p, n, seed, workers, func() { bar.Add(1) })
	if err != nil {
		return err
	}

	for _, pe := range rsvcea.Perspectives {
		path, err := outputPath(cfg, "psa", psaFile(pe))
		if err != nil {
			return err
		}
		if err := writeIterations(path, p.Groups, records, pe); err != nil {
			return err
		}
		s := psa.Summarize(records, pe)
		logrus.WithFields(logrus.Fields{
			"perspective":           pe,
			"file":                  path,
			"mean_incremental_cost": s.IncrementalCost.Mean,
			"mean_dalys_averted":    s.DALYsAverted.Mean,
			"fraction_dominant":     s.FractionDominant,
			"fraction_clamped":      s.FractionClamped,
		}).Info("wrote iteration table")
	}
	return nil
}

// iterationHeader returns the iteration table column names. Per-age-group
// columns are suffixed with the group name.
func iterationHeader(groups []rsvcea.AgeGroup) []string {
	header := []string{"incremental_cost", "incremental_dalys", "severe_dw", "moderate_dw", "nirsevimab_coverage"}
	for _, g := range groups {
		for _, col := range []string{
			"hosp_proportion", "outpatient_proportion", "inpatient_cost",
			"outpatient_ec_cost", "outpatient_pc_cost", "caregiver_daily_salary",
			"nirsevimab_hosp_eff", "nirsevimab_malrti_eff",
		} {
			header = append(header, col+"_"+g.Name)
		}
	}
	return append(header, "clamped")
}

// writeIterations writes one PSA iteration per row under perspective pe.
// The incremental cost and DALYs averted columns come first so downstream
// readers need no knowledge of the age group layout.
func writeIterations(path string, groups []rsvcea.AgeGroup, records []psa.IterationRecord, pe rsvcea.Perspective) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rsvcea: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write(iterationHeader(groups))
	for _, r := range records {
		row := []string{
			formatFloat(r.IncrementalCost(pe)),
			formatFloat(r.DALYsAverted),
			formatFloat(r.SevereDW),
			formatFloat(r.ModerateDW),
			formatFloat(r.NirsevimabCoverage),
		}
		for _, g := range r.Groups {
			row = append(row,
				formatFloat(g.HospProportion),
				formatFloat(g.OutpatientProportion),
				formatFloat(g.InpatientCost),
				formatFloat(g.OutpatientECCost),
				formatFloat(g.OutpatientPCCost),
				formatFloat(g.CaregiverDailySalary),
				formatFloat(g.NirsevimabHospEff),
				formatFloat(g.NirsevimabMALRTIEff),
			)
		}
		row = append(row, strconv.FormatBool(r.Clamped))
		w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("rsvcea: writing %s: %w", path, err)
	}
	return nil
}

// RunCEAC reads the iteration tables written by RunPSA and writes one
// acceptability curve table per perspective to the ceac subdirectory.
func RunCEAC(cfg *viper.Viper) error {
	points := cfg.GetInt("CEAC.Points")
	if points < 2 {
		return fmt.Errorf("rsvcea: CEAC.Points must be at least 2, got %d", points)
	}
	for _, pe := range rsvcea.Perspectives {
		inPath := filepath.Join(os.ExpandEnv(cfg.GetString("OutputDir")), "psa", psaFile(pe))
		records, err := readIterations(inPath, pe)
		if err != nil {
			return err
		}

		thresholds := psa.Thresholds(records, pe, points)
		curve, err := psa.CEAC(records, pe, thresholds)
		if err != nil {
			return err
		}

		outPath, err := outputPath(cfg, "ceac", ceacFile(pe))
		if err != nil {
			return err
		}
		if err := writeCEAC(outPath, curve); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"perspective": pe,
			"iterations":  len(records),
			"thresholds":  len(thresholds),
			"file":        outPath,
		}).Info("wrote acceptability curve")
	}
	return nil
}

// readIterations reads an iteration table back into records. Only the
// incremental cost and DALYs averted columns are needed to build
// acceptability curves; the parameter columns are ignored.
func readIterations(path string, pe rsvcea.Perspective) ([]psa.IterationRecord, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("rsvcea: missing PSA iteration table %s; run 'rsvcea psa' first", path)
	} else if err != nil {
		return nil, fmt.Errorf("rsvcea: opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("rsvcea: reading %s: %w", path, err)
	}
	costCol, dalysCol := -1, -1
	for j, h := range header {
		switch h {
		case "incremental_cost":
			costCol = j
		case "incremental_dalys":
			dalysCol = j
		}
	}
	if costCol < 0 || dalysCol < 0 {
		return nil, fmt.Errorf("rsvcea: %s is missing the incremental_cost or incremental_dalys column", path)
	}

	var records []psa.IterationRecord
	for i := 0; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("rsvcea: reading %s: %w", path, err)
		}
		cost, err := strconv.ParseFloat(row[costCol], 64)
		if err != nil {
			return nil, fmt.Errorf("rsvcea: %s row %d: %w", path, i+2, err)
		}
		dalys, err := strconv.ParseFloat(row[dalysCol], 64)
		if err != nil {
			return nil, fmt.Errorf("rsvcea: %s row %d: %w", path, i+2, err)
		}
		rec := psa.IterationRecord{Iteration: i, DALYsAverted: dalys}
		if pe == rsvcea.Societal {
			rec.IncrementalCostSocietal = cost
		} else {
			rec.IncrementalCostHealthSystem = cost
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeCEAC(path string, curve []psa.CEACPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rsvcea: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"threshold", "prob_nirsevimab", "prob_vaccine"})
	for _, pt := range curve {
		w.Write([]string{
			formatFloat(pt.Threshold),
			formatFloat(pt.ProbNirsevimab),
			formatFloat(pt.ProbVaccine),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("rsvcea: writing %s: %w", path, err)
	}
	return nil
}
