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
	"fmt"
	"math"
)

const (
	// teTol is the absolute tolerance of the equilibrium temperature
	// search [K].
	teTol = 50.

	// teBracket bounds the temperature search to ±30% of the current
	// electron temperature.
	teBracket = 0.3

	// minTR is the smallest radiation temperature for which the
	// ionization state of a cell can still be computed [K]. Below it
	// the radiation field estimators cannot be trusted at all, so the
	// cell is treated as unrecoverable rather than as a numerical
	// anomaly.
	minTR = 10.
)

// oneShot performs one damped update of the electron temperature of c
// toward thermal balance and recomputes the ion concentrations at the
// updated temperature in the given approximation. The previous-cycle
// trackers must already have been rotated by the caller.
func (w *Wind) oneShot(c *PlasmaCell, mode ConcentrationMode) error {
	gain := c.Gain
	teOld := c.TE
	teNew := w.CalcTe(c, (1-teBracket)*teOld, (1+teBracket)*teOld)

	c.TE = (1-gain)*teOld + gain*teNew

	if c.TR <= minTR {
		return fmt.Errorf("sirocco: oneShot: radiation temperature %g exceptionally small in cell %d",
			c.TR, c.N)
	}

	err := w.Mech.Concentrations(c, mode)
	if err := logIfNotConverged(c, err, "oneShot"); err != nil {
		return err
	}

	if c.Ne < 0 || VeryBig < c.Ne {
		log.WithFields(cellFields(c)).Errorf("oneShot: ne = %8.2e out of range", c.Ne)
	}
	return nil
}

// CalcTe determines the electron temperature within [tmin, tmax] at
// which the energy emitted by the cell balances the energy absorbed.
// If the heating-minus-cooling residual changes sign across the
// interval the root is refined to within teTol; otherwise the bound
// with the smaller residual magnitude is adopted. The cell's electron
// temperature, heating sub-terms, and cooling terms are left
// consistent with the returned temperature.
//
// CalcTe does not modify any abundances, so the result is not fully
// self-consistent: different abundances at the new temperature would
// change the heating as well. That is what the outer damped iteration
// is for.
func (w *Wind) CalcTe(c *PlasmaCell, tmin, tmax float64) float64 {
	resid := func(t float64) float64 { return w.zeroEmit(c, t) }

	z1 := resid(tmin)
	z2 := resid(tmax)

	// If the cooling at tmin and tmax brackets the heating, refine
	// with the root finder; otherwise choose the better direction.
	if z1*z2 < 0 {
		c.TE = FindRoot(resid, tmin, tmax, teTol)
	} else if math.Abs(z1) < math.Abs(z2) {
		c.TE = tmin
	} else {
		c.TE = tmax
	}

	// Bring the macro-atom heating terms in line with the adopted
	// temperature.
	w.updateMacroHeating(c, c.TE)

	return c.TE
}

// zeroEmit is the residual of the thermal balance: it is zero when
// total energy loss at temperature t equals total energy gain.
// Evaluating it sets the cell's trial electron temperature and
// recomputes the temperature-dependent heating and cooling terms in
// place.
func (w *Wind) zeroEmit(c *PlasmaCell, t float64) float64 {
	c.TE = t

	// Correct the heating totals for the change in temperature.
	w.updateMacroHeating(c, t)

	// Adiabatic cooling is proportional to the temperature being
	// tested.
	c.LumAdiabatic = w.Mech.AdiabaticCooling(c, t)

	// Dielectronic recombination and Compton cooling are computed
	// here directly so that no photons need to be generated.
	c.LumDR = w.Mech.DRCooling(c, t)
	c.LumComp = w.Mech.ComptonCooling(c, t)

	return c.HeatTot - c.LumAdiabatic - c.LumDR - c.LumComp -
		w.Mech.TotalEmission(c, 0, VeryBig)
}

// updateMacroHeating replaces the macro-atom bound-bound and
// bound-free contributions in the running heating totals with their
// values at temperature t.
func (w *Wind) updateMacroHeating(c *PlasmaCell, t float64) {
	c.HeatTot -= c.HeatLinesMacro
	c.HeatLines -= c.HeatLinesMacro
	c.HeatLinesMacro = w.Mech.MacroBBHeating(c, t)
	c.HeatTot += c.HeatLinesMacro
	c.HeatLines += c.HeatLinesMacro

	c.HeatTot -= c.HeatPhotoMacro
	c.HeatPhoto -= c.HeatPhotoMacro
	c.HeatPhotoMacro = w.Mech.MacroBFHeating(c, t)
	c.HeatTot += c.HeatPhotoMacro
	c.HeatPhoto += c.HeatPhotoMacro
}
