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
	"math"
	"os"
	"strconv"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"

	"github.com/healthmodel/rsvcea"
)

// Run evaluates the cohort model once with the base case parameters and
// writes the strategy results and incremental comparisons to the output
// directory.
func Run(cfg *viper.Viper) error {
	p, err := ParametersFromConfig(cfg)
	if err != nil {
		return err
	}

	results := p.Evaluate()
	baseline := results[rsvcea.StrategyBaseline]
	nirsevimab := results[rsvcea.StrategyNirsevimab]
	vaccine := results[rsvcea.StrategyVaccine]

	for _, r := range []rsvcea.StrategyResult{baseline, nirsevimab, vaccine} {
		logrus.WithFields(logrus.Fields{
			"strategy":           r.Strategy,
			"hospitalizations":   r.Outcomes.HospitalizedRecovered + r.Outcomes.HospitalizedDied,
			"deaths":             r.Outcomes.HospitalizedDied,
			"cost_health_system": r.CostHealthSystem,
			"cost_societal":      r.CostSocietal,
			"dalys":              r.DALYs,
		}).Info("strategy evaluated")
	}

	var icers []rsvcea.ICERResult
	for _, pe := range rsvcea.Perspectives {
		r := rsvcea.ICER(vaccine, nirsevimab, pe)
		icers = append(icers, r)
		logrus.WithFields(logrus.Fields{
			"perspective":      r.Perspective,
			"incremental_cost": r.IncrementalCost,
			"dalys_averted":    r.DALYsAverted,
			"kind":             r.Kind,
			"icer":             r.Ratio,
			"threshold":        rsvcea.CostEffectivenessThreshold,
		}).Info("nirsevimab vs maternal vaccine")
	}

	if err := writeStrategyResults(cfg, []rsvcea.StrategyResult{baseline, nirsevimab, vaccine}); err != nil {
		return err
	}
	return writeICERs(cfg, icers)
}

func writeStrategyResults(cfg *viper.Viper, results []rsvcea.StrategyResult) error {
	path, err := outputPath(cfg, "deterministic.csv")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rsvcea: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"strategy", "no_disease", "outpatient", "hospitalized_recovered",
		"hospitalized_died", "cost_healthsystem", "cost_societal", "dalys"})
	for _, r := range results {
		w.Write([]string{
			r.Strategy,
			formatFloat(r.Outcomes.NoDisease),
			formatFloat(r.Outcomes.Outpatient),
			formatFloat(r.Outcomes.HospitalizedRecovered),
			formatFloat(r.Outcomes.HospitalizedDied),
			formatFloat(r.CostHealthSystem),
			formatFloat(r.CostSocietal),
			formatFloat(r.DALYs),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("rsvcea: writing %s: %w", path, err)
	}
	logrus.WithField("file", path).Info("wrote strategy results")
	return nil
}

func writeICERs(cfg *viper.Viper, icers []rsvcea.ICERResult) error {
	path, err := outputPath(cfg, "icer.csv")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rsvcea: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"perspective", "baseline", "comparator", "incremental_cost",
		"dalys_averted", "kind", "icer"})
	for _, r := range icers {
		w.Write([]string{
			r.Perspective.String(),
			r.Baseline,
			r.Comparator,
			formatFloat(r.IncrementalCost),
			formatFloat(r.DALYsAverted),
			r.Kind.String(),
			formatFloat(r.Ratio),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("rsvcea: writing %s: %w", path, err)
	}
	logrus.WithField("file", path).Info("wrote incremental results")
	return nil
}

// formatFloat renders a float for CSV output. NaN becomes an empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
