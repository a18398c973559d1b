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

import "sync"

// Band holds the Monte-Carlo radiation field estimators and the fitted
// power-law description for one contiguous frequency interval.
// Keeping the estimators and the fit together in one record means a
// band can never end up with an index from one interval and a weight
// from another.
type Band struct {
	FreqMin float64 `desc:"Lower frequency bound" units:"Hz"`
	FreqMax float64 `desc:"Upper frequency bound" units:"Hz"`

	J       float64 `desc:"Band mean radiation energy density estimator" units:"erg/cm³"`
	AveFreq float64 `desc:"Band mean photon frequency estimator" units:"Hz"`
	Nphot   int     `desc:"Number of photon packets contributing to this band"`

	Alpha float64 `desc:"Fitted power-law spectral index"`
	W     float64 `desc:"Fitted power-law normalization weight"`
}

// PlasmaCell holds the thermal and ionization state of a single
// element of the wind. Cells are owned by the Wind that created them
// and are mutated in place on every ionization cycle.
type PlasmaCell struct {
	// mu guards the cell's mutable state. It is a named unexported
	// field rather than an embedded one so that gob snapshots skip it.
	mu sync.RWMutex

	N      int     // cell index within the wind
	Volume float64 `desc:"Cell volume" units:"cm³"`
	Rho    float64 `desc:"Mass density" units:"g/cm³"`
	DivV   float64 `desc:"Velocity divergence, for adiabatic cooling" units:"1/s"`

	TE    float64 `desc:"Electron temperature" units:"K"`
	TEOld float64 `desc:"Electron temperature at the previous cycle" units:"K"`
	TR    float64 `desc:"Radiation temperature" units:"K"`
	TROld float64 `desc:"Radiation temperature at the previous cycle" units:"K"`

	DtE    float64 `desc:"Change in electron temperature over the last cycle" units:"K"`
	DtEOld float64 `desc:"Change in electron temperature over the cycle before last" units:"K"`

	J       float64 `desc:"Mean radiation energy density estimator" units:"erg/cm³"`
	AveFreq float64 `desc:"Mean photon frequency estimator" units:"Hz"`
	W       float64 `desc:"Radiative dilution factor"`
	Bands   []Band  // per-band estimators and power-law fits

	Density []float64 `desc:"Ion number densities" units:"1/cm³"`
	Ne      float64   `desc:"Electron number density" units:"1/cm³"`

	HeatTot        float64 `desc:"Total heating rate" units:"erg/s"`
	HeatLines      float64 `desc:"Line heating rate" units:"erg/s"`
	HeatPhoto      float64 `desc:"Photoionization heating rate" units:"erg/s"`
	HeatLinesMacro float64 `desc:"Macro-atom bound-bound heating rate" units:"erg/s"`
	HeatPhotoMacro float64 `desc:"Macro-atom bound-free heating rate" units:"erg/s"`

	LumRad       float64 `desc:"Radiative luminosity" units:"erg/s"`
	LumRadOld    float64 `desc:"Radiative luminosity at the previous cycle" units:"erg/s"`
	LumAdiabatic float64 `desc:"Adiabatic cooling rate" units:"erg/s"`
	LumDR        float64 `desc:"Dielectronic recombination cooling rate" units:"erg/s"`
	LumComp      float64 `desc:"Compton cooling rate" units:"erg/s"`

	// Relative-change values from the most recent convergence check.
	ConvergeTR float64 `desc:"Relative change in radiation temperature"`
	ConvergeTE float64 `desc:"Relative change in electron temperature"`
	ConvergeHC float64 `desc:"Relative heating/cooling mismatch"`

	TRCheck bool `desc:"Radiation temperature check failed"`
	TECheck bool `desc:"Electron temperature check failed"`
	HCCheck bool `desc:"Heating/cooling balance check failed"`

	ConvergeWhole int `desc:"Number of failed convergence checks (0–3)"`

	// Converging is set when the electron temperature is oscillating
	// with growing amplitude. Historically the flag in this state is
	// named "converging" even though it marks the cell that is NOT
	// converging; the name is kept so output stays comparable with
	// the original diagnostics.
	Converging bool `desc:"Electron temperature oscillating with growing amplitude"`

	Gain float64 `desc:"Damping factor for electron temperature updates"`
}

// Lock locks the cell for writing.
func (c *PlasmaCell) Lock() { c.mu.Lock() }

// Unlock releases a write lock on the cell.
func (c *PlasmaCell) Unlock() { c.mu.Unlock() }

// RLock locks the cell for reading.
func (c *PlasmaCell) RLock() { c.mu.RLock() }

// RUnlock releases a read lock on the cell.
func (c *PlasmaCell) RUnlock() { c.mu.RUnlock() }

// NewPlasmaCell returns a cell with nbands frequency bands, nions ion
// density slots, and the damping factor at its upper limit.
func NewPlasmaCell(n, nbands, nions int) *PlasmaCell {
	return &PlasmaCell{
		N:       n,
		Volume:  1,
		Bands:   make([]Band, nbands),
		Density: make([]float64, nions),
		Gain:    maxGain,
	}
}
