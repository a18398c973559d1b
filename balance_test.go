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
	"testing"
)

func TestCalcTeBracketed(t *testing.T) {
	w, c, _ := testWind()

	// Heating is 10000 erg/s and cooling is 1 erg/s/K, so the balance
	// temperature is 10000 K, inside [7000, 13000].
	te := w.CalcTe(c, 7000, 13000)

	if te <= 7000 || te >= 13000 {
		t.Errorf("te=%g is not strictly inside the bracket", te)
	}
	if math.Abs(te-10000) > teTol {
		t.Errorf("te=%g, want 10000±%g", te, teTol)
	}
	if c.TE != te {
		t.Errorf("cell temperature %g not left at returned value %g", c.TE, te)
	}
}

func TestCalcTeNotBracketed(t *testing.T) {
	w, c, _ := testWind()

	// Both bounds are above the 10000 K balance point, so the
	// residual has the same sign at both; the closer bound wins.
	te := w.CalcTe(c, 11000, 12000)
	if te != 11000 {
		t.Errorf("te=%g, want fallback to 11000", te)
	}

	c.TE = 10000
	te = w.CalcTe(c, 8000, 9000)
	if te != 9000 {
		t.Errorf("te=%g, want fallback to 9000", te)
	}
}

// The heating totals must reflect the finally adopted temperature,
// not the last trial temperature of the root search.
func TestCalcTeMacroHeatingConsistent(t *testing.T) {
	w, c, mech := testWind()
	mech.macroBB = 500
	mech.macroBF = 250

	heatBefore := c.HeatTot
	w.CalcTe(c, 7000, 13000)

	if want := heatBefore + mech.macroBB + mech.macroBF; c.HeatTot != want {
		t.Errorf("HeatTot=%g, want %g", c.HeatTot, want)
	}
	if c.HeatLinesMacro != mech.macroBB {
		t.Errorf("HeatLinesMacro=%g, want %g", c.HeatLinesMacro, mech.macroBB)
	}
	if c.HeatPhotoMacro != mech.macroBF {
		t.Errorf("HeatPhotoMacro=%g, want %g", c.HeatPhotoMacro, mech.macroBF)
	}

	// A second search must not double count the macro terms.
	w.CalcTe(c, 7000, 13000)
	if want := heatBefore + mech.macroBB + mech.macroBF; c.HeatTot != want {
		t.Errorf("HeatTot=%g after second search, want %g", c.HeatTot, want)
	}
}

func TestOneShotBlending(t *testing.T) {
	w, c, _ := testWind()
	c.TE = 12000
	c.Gain = 0.5

	// The root search is bounded to [0.7, 1.3]·12000, which brackets
	// the 10000 K balance point, so the candidate is ≈10000 and the
	// blended update is (1−0.5)·12000 + 0.5·10000 = 11000.
	if err := w.oneShot(c, ConcentrationOnTheSpot); err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.TE-11000) > teTol {
		t.Errorf("blended te=%g, want 11000±%g", c.TE, teTol)
	}
}

func TestOneShotLowRadiationTemperature(t *testing.T) {
	w, c, _ := testWind()
	c.TR = 5 // below the minimum usable radiation temperature

	if err := w.oneShot(c, ConcentrationOnTheSpot); err == nil {
		t.Error("want error for exceptionally small t_r, got nil")
	}
}

func TestOneShotSolverFailureNotEscalated(t *testing.T) {
	w, c, mech := testWind()
	mech.concErr = ErrNotConverged

	if err := w.oneShot(c, ConcentrationOnTheSpot); err != nil {
		t.Errorf("solver convergence failure should not escalate, got %v", err)
	}
}

func TestOneShotElectronDensityAnomaly(t *testing.T) {
	w, c, mech := testWind()
	mech.ne = -1 // out of range, must be logged but not escalated

	if err := w.oneShot(c, ConcentrationOnTheSpot); err != nil {
		t.Errorf("electron density anomaly should not escalate, got %v", err)
	}
}

func TestOneShotModePassedThrough(t *testing.T) {
	w, c, mech := testWind()

	if err := w.oneShot(c, ConcentrationPowerLaw); err != nil {
		t.Fatal(err)
	}
	if n := len(mech.concModes); n != 1 || mech.concModes[0] != ConcentrationPowerLaw {
		t.Errorf("concentration modes=%v, want [power-law]", mech.concModes)
	}
}

func TestFindRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }

	root := FindRoot(f, 0, 2, 1e-10)
	if math.Abs(root-math.Sqrt2) > 1e-9 {
		t.Errorf("root=%g, want √2", root)
	}

	// Without a bracket, the bound with the smaller residual is
	// returned.
	if got := FindRoot(f, 2, 3, 1e-10); got != 2 {
		t.Errorf("unbracketed root=%g, want 2", got)
	}
	if got := FindRoot(f, -1, 1, 1e-10); got != 1 {
		t.Errorf("unbracketed root=%g, want 1", got)
	}
}
