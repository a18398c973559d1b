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

package sirocco

import (
	"math"

	stats "github.com/GaryBoone/GoStats/stats"
	"github.com/sirupsen/logrus"
)

const (
	// convergeEpsilon is the relative-change threshold of the
	// per-cell convergence checks.
	convergeEpsilon = 0.05

	// Bounds of the damping factor for electron temperature updates.
	minGain = 0.1
	maxGain = 0.8
)

// Convergence checks whether a single cell is converging on a
// self-consistent thermal and ionization state. It applies three
// relative-change tests — radiation temperature, electron temperature,
// and heating against radiative-plus-adiabatic cooling — and returns
// the number of tests that failed (0 means fully converged). The
// individual results and the count are also stored on the cell.
//
// Convergence additionally adapts the cell's damping factor: if the
// electron temperature is oscillating with growing amplitude the gain
// is cut, otherwise it is grown, always staying within
// [minGain, maxGain].
func (w *Wind) Convergence(c *PlasmaCell) int {
	c.TRCheck = false
	c.TECheck = false
	c.HCCheck = false

	c.ConvergeTR = math.Abs(c.TROld-c.TR) / (c.TROld + c.TR)
	if c.ConvergeTR > convergeEpsilon {
		c.TRCheck = true
	}
	c.ConvergeTE = math.Abs(c.TEOld-c.TE) / (c.TEOld + c.TE)
	if c.ConvergeTE > convergeEpsilon {
		c.TECheck = true
	}

	// Adiabatic cooling is included in the check that heating equals
	// cooling.
	c.ConvergeHC = math.Abs(c.HeatTot-(c.LumRad+c.LumAdiabatic)) /
		(c.HeatTot + c.LumRad + c.LumAdiabatic)
	if c.ConvergeHC > convergeEpsilon {
		c.HCCheck = true
	}

	c.ConvergeWhole = 0
	for _, failed := range []bool{c.TRCheck, c.TECheck, c.HCCheck} {
		if failed {
			c.ConvergeWhole++
		}
	}

	// NOTE: the flag set in the sign-flip-and-growing-amplitude branch
	// has always been called "converging" even though that is the
	// branch where the temperature is oscillating and the gain is cut.
	// The name is preserved, inversion and all, so that long-standing
	// diagnostics keep their meaning.
	c.Converging = c.DtEOld*c.DtE < 0 && math.Abs(c.DtE) > math.Abs(c.DtEOld)

	if c.Converging {
		// Not converging: damp harder.
		c.Gain *= 0.7
		if c.Gain < minGain {
			c.Gain = minGain
		}
	} else {
		c.Gain *= 1.1
		if c.Gain > maxGain {
			c.Gain = maxGain
		}
	}

	return c.ConvergeWhole
}

// ConvergenceSummary is the result of a grid-wide convergence scan.
type ConvergenceSummary struct {
	NCells     int // cells scanned
	NConverged int // cells passing all three checks
	NTRPassed  int // cells passing the radiation temperature check
	NTEPassed  int // cells passing the electron temperature check
	NHCPassed  int // cells passing the heating/cooling check

	// NConverging counts cells whose "converging" oscillation flag is
	// clear, i.e. cells whose temperature updates are improving.
	NConverging int

	FracConverged  float64
	FracConverging float64

	// Mean and sample standard deviation of the electron temperature
	// over the scanned cells.
	MeanTE float64
	SdTE   float64
}

// CheckConvergence does a global check on how well the wind has
// converged. It is a read-only reduction over the per-cell flags set
// by Convergence and must only run after every cell's update for the
// current cycle has completed.
func (w *Wind) CheckConvergence() ConvergenceSummary {
	var s ConvergenceSummary
	var te stats.Stats

	for _, c := range w.Cells {
		s.NCells++
		if c.ConvergeWhole == 0 {
			s.NConverged++
		}
		if !c.TRCheck {
			s.NTRPassed++
		}
		if !c.TECheck {
			s.NTEPassed++
		}
		if !c.HCCheck {
			s.NHCPassed++
		}
		if !c.Converging {
			s.NConverging++
		}
		te.Update(c.TE)
	}

	if s.NCells > 0 {
		s.FracConverged = float64(s.NConverged) / float64(s.NCells)
		s.FracConverging = float64(s.NConverging) / float64(s.NCells)
		s.MeanTE = te.Mean()
		if s.NCells > 1 {
			s.SdTE = te.SampleStandardDeviation()
		}
	}

	log.WithFields(logrus.Fields{
		"converged":       s.NConverged,
		"frac_converged":  s.FracConverged,
		"converging":      s.NConverging,
		"frac_converging": s.FracConverging,
		"cells":           s.NCells,
	}).Info("check_converging")
	log.WithFields(logrus.Fields{
		"t_r": s.NTRPassed,
		"t_e": s.NTEPassed,
		"hc":  s.NHCPassed,
	}).Info("check_convergence_breakdown")
	log.WithFields(logrus.Fields{
		"mean_t_e": s.MeanTE,
		"sd_t_e":   s.SdTE,
	}).Info("electron temperature statistics")

	return s
}

// ConvergenceCheck returns a function that runs the global convergence
// scan once per cycle, after all cell updates have finished. The
// summary is kept on the wind for CycleCount to consume, so a run that
// stops on the converged fraction does not scan the grid twice.
func ConvergenceCheck() DomainManipulator {
	return func(w *Wind) error {
		s := w.CheckConvergence()
		w.convergence = &s
		return nil
	}
}
