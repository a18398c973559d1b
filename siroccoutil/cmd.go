/*
Copyright © 2024 the Sirocco authors.
This file is part of Sirocco.

Sirocco is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Sirocco is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Sirocco.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package siroccoutil holds the configuration and command-line
// plumbing shared by the sirocco executables.
package siroccoutil

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Edward-RSE/sirocco"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()

	// Options are the configuration options available to sirocco.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "NumCells",
			usage: `
              NumCells is the number of plasma cells in the wind grid.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumBands",
			usage: `
              NumBands is the number of frequency bands over which power-law
              radiation field estimators are gathered.`,
			defaultVal: 7,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FreqMin",
			usage: `
              FreqMin is the lower frequency bound of the simulation bandpass [Hz].`,
			defaultVal: 1.24e15,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FreqMax",
			usage: `
              FreqMax is the upper frequency bound of the simulation bandpass [Hz].`,
			defaultVal: 1.21e19,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TR",
			usage: `
              TR is the initial radiation temperature of every cell [K].`,
			defaultVal: 4.0e4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TE",
			usage: `
              TE is the initial electron temperature of every cell [K]. If zero,
              it is set to 0.9·TR.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Dilution",
			usage: `
              Dilution is the radiative dilution factor of every cell.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Rho",
			usage: `
              Rho is the mass density of every cell [g/cm³].`,
			defaultVal: 1.0e-12,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mode",
			usage: `
              Mode selects the ionization strategy. Valid options are
              "on-the-spot", "LTE", "fixed", "on-the-spot-balance",
              "LTE-power-law", and "power-law-balance".`,
			defaultVal: "power-law-balance",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumCycles",
			usage: `
              NumCycles is the number of ionization cycles to run. If < 1, the
              run finishes when ConvergedFraction of the cells have converged.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ConvergedFraction",
			usage: `
              ConvergedFraction is the fraction of cells that must pass all
              convergence checks before a run without a fixed cycle count
              finishes.`,
			defaultVal: 0.9,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Auger",
			usage: `
              Auger enables the Auger ionization correction pass.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumProcessors",
			usage: `
              NumProcessors is the number of processors to use for calculations.
              If < 1, all available processors are used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the wind state snapshot should be
              written after the run. If empty, no snapshot is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	for _, option := range options {
		for _, set := range option.flagsets {
			if set.Lookup(option.name) != nil {
				continue // Avoid duplicate flags.
			}
			switch option.defaultVal.(type) {
			case bool:
				b := cast.ToBool(option.defaultVal)
				if option.shorthand == "" {
					set.Bool(option.name, b, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, b, option.usage)
				}
			case int:
				i := cast.ToInt(option.defaultVal)
				if option.shorthand == "" {
					set.Int(option.name, i, option.usage)
				} else {
					set.IntP(option.name, option.shorthand, i, option.usage)
				}
			case float64:
				f := cast.ToFloat64(option.defaultVal)
				if option.shorthand == "" {
					set.Float64(option.name, f, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, f, option.usage)
				}
			case string:
				s := cast.ToString(option.defaultVal)
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("sirocco: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "sirocco",
	Short: "A Monte-Carlo radiative transfer ionization core.",
	Long: `Sirocco computes the self-consistent electron temperature and
ionization state of a wind of plasma cells, balancing radiative heating
against cooling cell by cell and tracking grid-wide convergence across
ionization cycles.

Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag) or by using
command-line arguments.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of sirocco.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("sirocco v%s\n", sirocco.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run ionization cycles until the wind converges.",
	Long: `run builds a wind grid from the configuration, then repeatedly
updates every cell's thermal and ionization state until the requested
number of cycles completes or enough cells converge.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if n := Cfg.GetInt("NumProcessors"); n > 0 {
			runtime.GOMAXPROCS(n)
		}
		logrus.SetOutput(cmd.OutOrStdout())

		mode, err := parseMode(Cfg.GetString("Mode"))
		if err != nil {
			return err
		}
		return Run(
			RunConfig{
				NumCells:          Cfg.GetInt("NumCells"),
				NumBands:          Cfg.GetInt("NumBands"),
				FreqMin:           Cfg.GetFloat64("FreqMin"),
				FreqMax:           Cfg.GetFloat64("FreqMax"),
				TR:                Cfg.GetFloat64("TR"),
				TE:                Cfg.GetFloat64("TE"),
				Dilution:          Cfg.GetFloat64("Dilution"),
				Rho:               Cfg.GetFloat64("Rho"),
				Mode:              mode,
				NumCycles:         Cfg.GetInt("NumCycles"),
				ConvergedFraction: Cfg.GetFloat64("ConvergedFraction"),
				Auger:             Cfg.GetBool("Auger"),
				OutputFile:        os.ExpandEnv(Cfg.GetString("OutputFile")),
			})
	},
	DisableAutoGenTag: true,
}

// parseMode translates a configuration mode name to an
// IonizationMode.
func parseMode(name string) (sirocco.IonizationMode, error) {
	modes := map[string]sirocco.IonizationMode{
		"on-the-spot":         sirocco.ModeOnTheSpot,
		"LTE":                 sirocco.ModeLTE,
		"fixed":               sirocco.ModeFixed,
		"on-the-spot-balance": sirocco.ModeOnTheSpotBalance,
		"LTE-power-law":       sirocco.ModeLTEPowerLaw,
		"power-law-balance":   sirocco.ModePowerLawBalance,
	}
	m, ok := modes[name]
	if !ok {
		return 0, fmt.Errorf("sirocco: invalid ionization mode %q", name)
	}
	return m, nil
}
