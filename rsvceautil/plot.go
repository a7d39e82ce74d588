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
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/healthmodel/rsvcea"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4.5 * vg.Inch
)

var (
	scatterColor   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	thresholdColor = color.RGBA{R: 105, G: 105, B: 105, A: 255}
	vaccineColor   = color.RGBA{R: 178, G: 34, B: 34, A: 255}
)

func perspectiveTitle(pe rsvcea.Perspective) string {
	if pe == rsvcea.Societal {
		return "Societal Perspective"
	}
	return "Health System Perspective"
}

// PlotPlanes renders one cost-effectiveness plane per perspective from the
// PSA iteration tables: incremental cost against DALYs averted, with the
// cost-effectiveness threshold drawn as a line through the origin.
func PlotPlanes(cfg *viper.Viper) error {
	for _, pe := range rsvcea.Perspectives {
		inPath := filepath.Join(os.ExpandEnv(cfg.GetString("OutputDir")), "psa", psaFile(pe))
		records, err := readIterations(inPath, pe)
		if err != nil {
			return err
		}

		pts := make(plotter.XYs, len(records))
		xMin, xMax := records[0].DALYsAverted, records[0].DALYsAverted
		for i, r := range records {
			pts[i].X = r.DALYsAverted
			pts[i].Y = r.IncrementalCost(pe)
			if pts[i].X < xMin {
				xMin = pts[i].X
			}
			if pts[i].X > xMax {
				xMax = pts[i].X
			}
		}

		p := plot.New()
		p.Title.Text = perspectiveTitle(pe)
		p.X.Label.Text = "Incremental DALYs Averted"
		p.Y.Label.Text = "Incremental Cost [USD]"

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("rsvcea: building scatter plot: %w", err)
		}
		scatter.GlyphStyle.Color = scatterColor
		scatter.GlyphStyle.Radius = vg.Points(1)
		p.Add(scatter)

		threshold, err := plotter.NewLine(plotter.XYs{
			{X: xMin, Y: rsvcea.CostEffectivenessThreshold * xMin},
			{X: xMax, Y: rsvcea.CostEffectivenessThreshold * xMax},
		})
		if err != nil {
			return fmt.Errorf("rsvcea: building threshold line: %w", err)
		}
		threshold.LineStyle.Color = thresholdColor
		threshold.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(threshold)
		p.Legend.Add(fmt.Sprintf("Threshold = %.0f USD/DALY", rsvcea.CostEffectivenessThreshold), threshold)
		p.Legend.Top = false

		outPath, err := outputPath(cfg, "plots", fmt.Sprintf("ce_plane_%s.png", pe))
		if err != nil {
			return err
		}
		if err := p.Save(plotWidth, plotHeight, outPath); err != nil {
			return fmt.Errorf("rsvcea: saving %s: %w", outPath, err)
		}
		logrus.WithField("file", outPath).Info("wrote cost-effectiveness plane")
	}
	return nil
}

// PlotCEACs renders one acceptability curve figure per perspective from
// the CEAC tables, with one probability line per strategy and the
// cost-effectiveness threshold drawn as a vertical line.
func PlotCEACs(cfg *viper.Viper) error {
	for _, pe := range rsvcea.Perspectives {
		inPath := filepath.Join(os.ExpandEnv(cfg.GetString("OutputDir")), "ceac", ceacFile(pe))
		thresholds, probN, probV, err := readCEAC(inPath)
		if err != nil {
			return err
		}

		p := plot.New()
		p.Title.Text = perspectiveTitle(pe)
		p.X.Label.Text = "Cost-Effectiveness Threshold [USD per DALY averted]"
		p.Y.Label.Text = "Probability Cost-Effective"
		p.Y.Min, p.Y.Max = 0, 1

		nLine, err := plotter.NewLine(xyPairs(thresholds, probN))
		if err != nil {
			return fmt.Errorf("rsvcea: building acceptability curve: %w", err)
		}
		nLine.LineStyle.Color = scatterColor
		vLine, err := plotter.NewLine(xyPairs(thresholds, probV))
		if err != nil {
			return fmt.Errorf("rsvcea: building acceptability curve: %w", err)
		}
		vLine.LineStyle.Color = vaccineColor
		p.Add(nLine, vLine)
		p.Legend.Add("nirsevimab", nLine)
		p.Legend.Add("maternal vaccine", vLine)
		p.Legend.Top = true

		cet, err := plotter.NewLine(plotter.XYs{
			{X: rsvcea.CostEffectivenessThreshold, Y: 0},
			{X: rsvcea.CostEffectivenessThreshold, Y: 1},
		})
		if err != nil {
			return fmt.Errorf("rsvcea: building threshold line: %w", err)
		}
		cet.LineStyle.Color = thresholdColor
		cet.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(cet)

		outPath, err := outputPath(cfg, "plots", fmt.Sprintf("ceac_%s.png", pe))
		if err != nil {
			return err
		}
		if err := p.Save(plotWidth, plotHeight, outPath); err != nil {
			return fmt.Errorf("rsvcea: saving %s: %w", outPath, err)
		}
		logrus.WithField("file", outPath).Info("wrote acceptability curve plot")
	}
	return nil
}

func xyPairs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// readCEAC reads an acceptability curve table written by RunCEAC.
func readCEAC(path string) (thresholds, probNirsevimab, probVaccine []float64, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, nil, fmt.Errorf("rsvcea: missing acceptability curve table %s; run 'rsvcea ceac' first", path)
	} else if err != nil {
		return nil, nil, nil, fmt.Errorf("rsvcea: opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, nil, nil, fmt.Errorf("rsvcea: reading %s: %w", path, err)
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, nil, fmt.Errorf("rsvcea: reading %s: %w", path, err)
		}
		var vals [3]float64
		for j := 0; j < 3; j++ {
			vals[j], err = strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("rsvcea: reading %s: %w", path, err)
			}
		}
		thresholds = append(thresholds, vals[0])
		probNirsevimab = append(probNirsevimab, vals[1])
		probVaccine = append(probVaccine, vals[2])
	}
	if len(thresholds) == 0 {
		return nil, nil, nil, fmt.Errorf("rsvcea: %s holds no curve points", path)
	}
	return thresholds, probNirsevimab, probVaccine, nil
}
