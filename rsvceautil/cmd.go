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

// Package rsvceautil holds the configuration, command-line interface,
// file persistence, and plotting glue around the RSVCEA model core.
package rsvceautil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/healthmodel/rsvcea"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage string
	defaultVal  interface{}
	flagsets    []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to RSVCEA.
	// Model parameters default to the built-in base case and can be
	// overridden individually.
	options = []struct {
		name, usage string
		defaultVal  interface{}
		flagsets    []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where result tables and plots are
              written. It is created if it does not exist and can include
              environment variables.`,
			defaultVal: "results",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "AgeGroupFile",
			usage: `
              AgeGroupFile is the path to a semicolon-delimited CSV file
              holding the per-age-group model inputs. When empty, the
              built-in base case age groups are used. It can include
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Cohort",
			usage: `
              Cohort is the number of infants in the modeled birth cohort.`,
			defaultVal: 100000.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "SevereDW",
			usage: `
              SevereDW is the disability weight of severe (hospitalized)
              RSV disease, with SevereDW.Lower and SevereDW.Upper giving
              its 95% confidence bounds.`,
			defaultVal: 0.21,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "SevereDW.Lower",
			usage:      ``,
			defaultVal: 0.139,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "SevereDW.Upper",
			usage:      ``,
			defaultVal: 0.298,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "ModerateDW",
			usage: `
              ModerateDW is the disability weight of moderate (outpatient)
              RSV disease, with ModerateDW.Lower and ModerateDW.Upper
              giving its 95% confidence bounds.`,
			defaultVal: 0.051,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "ModerateDW.Lower",
			usage:      ``,
			defaultVal: 0.032,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "ModerateDW.Upper",
			usage:      ``,
			defaultVal: 0.074,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "SevereIllnessDurationDays",
			usage: `
              SevereIllnessDurationDays is the mean duration of severe RSV
              illness [days].`,
			defaultVal: 12.5,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "ModerateIllnessDurationDays",
			usage: `
              ModerateIllnessDurationDays is the mean duration of moderate
              RSV illness [days].`,
			defaultVal: 7.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "DiscountRate",
			usage: `
              DiscountRate is the annual discount rate applied to years of
              life lost.`,
			defaultVal: 0.03,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "LifeExpectancy.Years",
			usage: `
              LifeExpectancy.Years is the number of complete life years
              lost per infant death, with LifeExpectancy.Remainder giving
              the fractional terminal year.`,
			defaultVal: 79,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "LifeExpectancy.Remainder",
			usage:      ``,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Nirsevimab.UnitCost",
			usage: `
              Nirsevimab.UnitCost is the price of one nirsevimab dose
              [USD].`,
			defaultVal: 220.45,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Nirsevimab.WastageRate",
			usage: `
              Nirsevimab.WastageRate is the fraction of doses wasted.`,
			defaultVal: 0.05,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Nirsevimab.AdministrationCost",
			usage: `
              Nirsevimab.AdministrationCost is the cost of administering
              one dose [USD].`,
			defaultVal: 6.37,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Nirsevimab.Coverage",
			usage: `
              Nirsevimab.Coverage is the expected program coverage of the
              birth cohort, with Nirsevimab.CoverageMin and
              Nirsevimab.CoverageMax bounding its plausible range.`,
			defaultVal: 0.90,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "Nirsevimab.CoverageMin",
			usage:      ``,
			defaultVal: 0.50,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name:       "Nirsevimab.CoverageMax",
			usage:      ``,
			defaultVal: 0.95,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Vaccine.UnitCost",
			usage: `
              Vaccine.UnitCost is the price of one maternal RSV vaccine
              dose [USD].`,
			defaultVal: 175.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Vaccine.WastageRate",
			usage: `
              Vaccine.WastageRate is the fraction of doses wasted.`,
			defaultVal: 0.05,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Vaccine.AdministrationCost",
			usage: `
              Vaccine.AdministrationCost is the cost of administering one
              dose [USD].`,
			defaultVal: 6.37,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "Vaccine.Coverage",
			usage: `
              Vaccine.Coverage is the maternal vaccination coverage of
              pregnancies in the cohort.`,
			defaultVal: 0.59,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), psaCmd.Flags(), univariateCmd.Flags()},
		},
		{
			name: "PSA.Iterations",
			usage: `
              PSA.Iterations is the number of Monte Carlo iterations in a
              probabilistic sensitivity analysis run.`,
			defaultVal: 10000,
			flagsets:   []*pflag.FlagSet{psaCmd.Flags()},
		},
		{
			name: "PSA.Seed",
			usage: `
              PSA.Seed seeds the random number stream. A fixed seed makes
              runs byte-for-byte reproducible.`,
			defaultVal: 42,
			flagsets:   []*pflag.FlagSet{psaCmd.Flags()},
		},
		{
			name: "PSA.Workers",
			usage: `
              PSA.Workers is the number of parallel workers. With one
              worker all draws come from a single sequential stream; with
              more, each worker owns a stream seeded with PSA.Seed plus
              its index.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{psaCmd.Flags()},
		},
		{
			name: "CEAC.Points",
			usage: `
              CEAC.Points is the number of willingness-to-pay thresholds in
              the acceptability curve grid.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{ceacCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("RSVCEA")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.String(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			case int:
				set.Int(option.name, v, option.usage)
			case float64:
				set.Float64(option.name, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(psaCmd)
	Root.AddCommand(ceacCmd)
	Root.AddCommand(univariateCmd)
	Root.AddCommand(plotCmd)
	plotCmd.AddCommand(plotPlaneCmd)
	plotCmd.AddCommand(plotCEACCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("rsvcea: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "rsvcea",
	Short: "A cost-effectiveness model for infant RSV prevention.",
	Long: `RSVCEA estimates the cost-effectiveness of nirsevimab immunoprophylaxis
compared to maternal RSV vaccination for preventing RSV disease in infants.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RSVCEA_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of RSVCEA.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("RSVCEA v%s\n", rsvcea.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd runs the deterministic base case analysis.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the deterministic base case analysis.",
	Long: `run evaluates the cohort outcome model once with the base case
parameters and reports costs, DALYs, and incremental cost-effectiveness
ratios for both the health system and societal perspectives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
	DisableAutoGenTag: true,
}

// psaCmd runs the probabilistic sensitivity analysis.
var psaCmd = &cobra.Command{
	Use:   "psa",
	Short: "Run the probabilistic sensitivity analysis.",
	Long: `psa propagates parameter uncertainty through the cohort model with
Monte Carlo simulation and writes one iteration table per perspective.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunPSA(Cfg)
	},
	DisableAutoGenTag: true,
}

// ceacCmd builds acceptability curves from a finished PSA run.
var ceacCmd = &cobra.Command{
	Use:   "ceac",
	Short: "Build cost-effectiveness acceptability curves.",
	Long: `ceac reads the iteration tables written by a previous 'rsvcea psa'
run and writes, per perspective, the probability that each strategy is
cost-effective across a grid of willingness-to-pay thresholds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCEAC(Cfg)
	},
	DisableAutoGenTag: true,
}

// univariateCmd runs the one-way sensitivity analysis.
var univariateCmd = &cobra.Command{
	Use:   "univariate",
	Short: "Run the one-way (univariate) sensitivity analysis.",
	Long: `univariate recomputes the incremental cost-effectiveness ratio with
each uncertain parameter set to its lower and upper confidence bound in
turn, holding everything else at the base case, and writes a tornado
table per perspective.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunUnivariate(Cfg)
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render result plots.",
	Long: `plot renders figures from previously written result tables. Use the
subcommands specified below to choose a figure.`,
	DisableAutoGenTag: true,
}

// plotPlaneCmd renders the cost-effectiveness plane.
var plotPlaneCmd = &cobra.Command{
	Use:   "plane",
	Short: "Render the cost-effectiveness plane.",
	Long: `plane renders a scatter plot of incremental cost against DALYs
averted from a PSA iteration table, one figure per perspective.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PlotPlanes(Cfg)
	},
	DisableAutoGenTag: true,
}

// plotCEACCmd renders the acceptability curves.
var plotCEACCmd = &cobra.Command{
	Use:   "ceac",
	Short: "Render the cost-effectiveness acceptability curves.",
	Long: `ceac renders the acceptability curve table as one probability line
per strategy, one figure per perspective.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PlotCEACs(Cfg)
	},
	DisableAutoGenTag: true,
}
