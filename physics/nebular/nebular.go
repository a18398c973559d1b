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

// Package nebular contains a simplified atomic-physics mechanism for a
// hydrogen–helium plasma: Saha/LTE and dilute on-the-spot ionization
// balances, free-free and line emission, and the dielectronic,
// Compton, and adiabatic cooling terms needed by the thermal balance
// search.
package nebular

import (
	"fmt"
	"math"

	"github.com/Edward-RSE/sirocco"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// physical constants [cgs]
const (
	h         = 6.6262e-27  // erg s, Planck constant
	boltzmann = 1.38062e-16 // erg/K
	mElec     = 9.10956e-28 // g, electron mass
	mProt     = 1.672661e-24
	cLight    = 2.997925e10 // cm/s
	sigmaT    = 6.6524e-25  // cm², Thomson cross section

	// rho2nh converts mass density to hydrogen number density for
	// cosmic abundances.
	rho2nh = 1. / (1.4271 * mProt)

	// heFrac is the helium number fraction relative to hydrogen.
	heFrac = 0.1
)

// Indices of the individual ions in the density array.
const (
	iH1 int = iota
	iH2
	iHe1
	iHe2
	iHe3
)

// Ion describes one ionization stage tracked by the mechanism.
type Ion struct {
	Name  string
	Z     int     // element atomic number
	Stage int     // ionization stage, 1 = neutral
	ChiEV float64 // ionization potential of this stage [eV]
	G     float64 // ground state degeneracy
}

// Ions lists the ionization stages of the mechanism, in density-array
// order. The ionization potential of a fully stripped stage is zero.
var Ions = []Ion{
	{Name: "H I", Z: 1, Stage: 1, ChiEV: 13.598, G: 2},
	{Name: "H II", Z: 1, Stage: 2, ChiEV: 0, G: 1},
	{Name: "He I", Z: 2, Stage: 1, ChiEV: 24.587, G: 1},
	{Name: "He II", Z: 2, Stage: 2, ChiEV: 54.418, G: 2},
	{Name: "He III", Z: 2, Stage: 3, ChiEV: 0, G: 1},
}

const ev2erg = 1.602192e-12

// Mechanism fulfils the github.com/Edward-RSE/sirocco.Mechanism
// interface.
type Mechanism struct{}

// Len returns the number of ions in this mechanism (5).
func (m Mechanism) Len() int {
	return len(Ions)
}

// Concentrations computes the H and He ionization balance of c in the
// requested approximation and stores the resulting densities and
// electron density on the cell.
func (m Mechanism) Concentrations(c *sirocco.PlasmaCell, mode sirocco.ConcentrationMode) error {
	nh := c.Rho * rho2nh
	nhe := heFrac * nh
	if nh <= 0 {
		return fmt.Errorf("nebular: cell %d has non-positive density %g", c.N, c.Rho)
	}

	var t, corr float64
	switch mode {
	case sirocco.ConcentrationLTE:
		t = c.TR
		corr = 1
	case sirocco.ConcentrationOnTheSpot:
		// Dilute blackbody correction after Mazzali & Lucy: LTE at
		// the radiation temperature, scaled by the dilution factor
		// and the ratio of electron to radiation temperature.
		t = c.TR
		corr = c.W * math.Sqrt(c.TE/c.TR)
	case sirocco.ConcentrationPowerLaw:
		// The ionizing flux is described per band by the fitted power
		// laws instead of a diluted blackbody.
		t = c.TR
		corr = powerLawCorrection(c)
	default:
		return fmt.Errorf("nebular: unknown concentration mode %v", mode)
	}
	if t <= 0 {
		return fmt.Errorf("nebular: cell %d has non-positive temperature %g", c.N, t)
	}
	if corr <= 0 {
		corr = 1e-30 // fully recombined limit
	}

	// Saha factors between successive stages, modified by the
	// radiation field correction.
	sahaH := corr * sahaFactor(t, Ions[iH1], Ions[iH2])
	sahaHe1 := corr * sahaFactor(t, Ions[iHe1], Ions[iHe2])
	sahaHe2 := corr * sahaFactor(t, Ions[iHe2], Ions[iHe3])

	// Electron density must satisfy the balance implied by the Saha
	// ratios it feeds into; solve the fixed point by root finding on
	// the charge conservation residual.
	neMax := nh + 2*nhe
	resid := func(ne float64) float64 {
		return impliedNe(ne, nh, nhe, sahaH, sahaHe1, sahaHe2) - ne
	}
	ne := sirocco.FindRoot(resid, 1e-10*neMax, neMax, 1e-8*neMax)

	fill(c, ne, nh, nhe, sahaH, sahaHe1, sahaHe2)

	// A residual this large means the fixed point was not actually
	// found; keep the best-effort densities and report.
	if math.Abs(resid(ne)) > 1e-3*neMax {
		return sirocco.ErrNotConverged
	}
	return nil
}

// FixedConcentrations fills c with a hardwired fully ionized
// composition.
func (m Mechanism) FixedConcentrations(c *sirocco.PlasmaCell) error {
	nh := c.Rho * rho2nh
	nhe := heFrac * nh
	if nh <= 0 {
		return fmt.Errorf("nebular: cell %d has non-positive density %g", c.N, c.Rho)
	}
	for i := range c.Density {
		c.Density[i] = 0
	}
	c.Density[iH2] = nh
	c.Density[iHe3] = nhe
	c.Ne = nh + 2*nhe
	return nil
}

// sahaFactor returns n_upper·ne/n_lower in thermodynamic equilibrium
// at temperature t.
func sahaFactor(t float64, lower, upper Ion) float64 {
	chi := lower.ChiEV * ev2erg
	pref := 2 * upper.G / lower.G *
		math.Pow(2*math.Pi*mElec*boltzmann*t/(h*h), 1.5)
	return pref * math.Exp(-chi/(boltzmann*t))
}

// impliedNe returns the electron density implied by the Saha ratios
// when the free electron density is ne.
func impliedNe(ne, nh, nhe, sahaH, sahaHe1, sahaHe2 float64) float64 {
	// Hydrogen: n(HII)/n(HI) = sahaH/ne.
	rH := sahaH / ne
	xH2 := rH / (1 + rH)

	// Helium: three stages chained through the same ne.
	r1 := sahaHe1 / ne
	r2 := sahaHe2 / ne
	denom := 1 + r1 + r1*r2
	xHe2 := r1 / denom
	xHe3 := r1 * r2 / denom

	return nh*xH2 + nhe*(xHe2+2*xHe3)
}

// fill stores the densities consistent with electron density ne on c.
func fill(c *sirocco.PlasmaCell, ne, nh, nhe, sahaH, sahaHe1, sahaHe2 float64) {
	rH := sahaH / ne
	xH2 := rH / (1 + rH)
	c.Density[iH1] = nh * (1 - xH2)
	c.Density[iH2] = nh * xH2

	r1 := sahaHe1 / ne
	r2 := sahaHe2 / ne
	denom := 1 + r1 + r1*r2
	c.Density[iHe1] = nhe / denom
	c.Density[iHe2] = nhe * r1 / denom
	c.Density[iHe3] = nhe * r1 * r2 / denom

	c.Ne = c.Density[iH2] + c.Density[iHe2] + 2*c.Density[iHe3]
}

// powerLawCorrection returns the ratio of the ionizing flux described
// by the fitted per-band power laws to the flux of an undiluted
// blackbody at the cell's radiation temperature. Bands with zero
// weight contribute nothing.
func powerLawCorrection(c *sirocco.PlasmaCell) float64 {
	var plFlux float64
	for _, b := range c.Bands {
		if b.W == 0 {
			continue
		}
		plFlux += b.W * powerLawIntegral(b.Alpha, b.FreqMin, b.FreqMax)
	}
	if plFlux <= 0 {
		return 0
	}

	var bbFlux float64
	for _, b := range c.Bands {
		bbFlux += quad.Fixed(planck(c.TR), b.FreqMin, b.FreqMax, 40, nil, 0)
	}
	if bbFlux <= 0 {
		return 0
	}
	return plFlux / bbFlux
}

// powerLawIntegral returns ∫ν^α dν between freqMin and freqMax.
func powerLawIntegral(alpha, freqMin, freqMax float64) float64 {
	if alpha == -1 {
		return math.Log(freqMax / freqMin)
	}
	return (math.Pow(freqMax, alpha+1) - math.Pow(freqMin, alpha+1)) / (alpha + 1)
}

// planck returns the Planck spectral energy density at temperature t
// as a function of frequency [erg/cm³/Hz].
func planck(t float64) func(nu float64) float64 {
	return func(nu float64) float64 {
		x := h * nu / (boltzmann * t)
		if x > 700 { // exp overflow guard
			return 0
		}
		return 8 * math.Pi * h * nu * nu * nu / (cLight * cLight * cLight) /
			(math.Exp(x) - 1)
	}
}

// MacroBBHeating returns the macro-atom bound-bound (line) heating
// rate of c at electron temperature te.
func (m Mechanism) MacroBBHeating(c *sirocco.PlasmaCell, te float64) float64 {
	const kBB = 5.4e-24 // effective line absorption coefficient
	return kBB * c.Ne * c.Density[iH1] * math.Sqrt(te) * c.W * c.Volume
}

// MacroBFHeating returns the macro-atom bound-free (photoionization)
// heating rate of c at electron temperature te.
func (m Mechanism) MacroBFHeating(c *sirocco.PlasmaCell, te float64) float64 {
	const kBF = 2.1e-24
	return kBF * c.Ne * (c.Density[iH1] + c.Density[iHe1] + c.Density[iHe2]) *
		math.Sqrt(te) * c.W * c.Volume
}

// TotalEmission returns the radiative luminosity of c between freqMin
// and freqMax at the cell's current electron temperature: free-free
// emission plus recombination and line cooling. The result is stored
// on the cell.
func (m Mechanism) TotalEmission(c *sirocco.PlasmaCell, freqMin, freqMax float64) float64 {
	t := c.TE
	if t <= 0 {
		c.LumRad = 0
		return 0
	}

	// Free-free from H II, He II, He III (gaunt factor of one).
	zsq := c.Density[iH2] + c.Density[iHe2] + 4*c.Density[iHe3]
	ff := 1.426e-27 * math.Sqrt(t) * c.Ne * zsq * c.Volume

	// Radiative recombination cooling.
	fb := 2.85e-27 * c.Ne * zsq * math.Sqrt(t) *
		(5.914 - 0.5*math.Log(t)) * c.Volume
	if fb < 0 {
		fb = 0
	}

	// Collisionally excited hydrogen line cooling.
	lines := 7.5e-19 * c.Ne * c.Density[iH1] *
		math.Exp(-118348/t) / (1 + math.Sqrt(t/1e5)) * c.Volume

	lum := ff + fb + lines

	// Restrict to the requested bandpass by the fraction of a thermal
	// spectrum falling inside it.
	lum *= bandFraction(t, freqMin, freqMax)

	c.LumRad = lum
	return lum
}

// bandFraction returns the fraction of thermal emission at temperature
// t that falls between freqMin and freqMax.
func bandFraction(t, freqMin, freqMax float64) float64 {
	// The thermal spectrum is negligible beyond ~30 kT/h.
	nuCut := 30 * boltzmann * t / h
	if freqMax > nuCut {
		freqMax = nuCut
	}
	if freqMin >= freqMax {
		return 0
	}
	total := quad.Fixed(planck(t), 0, nuCut, 80, nil, 0)
	if total <= 0 {
		return 0
	}
	part := quad.Fixed(planck(t), freqMin, freqMax, 80, nil, 0)
	frac := part / total
	if frac > 1 {
		frac = 1
	}
	return frac
}

// DRCooling returns the dielectronic recombination cooling rate of c
// at electron temperature te.
func (m Mechanism) DRCooling(c *sirocco.PlasmaCell, te float64) float64 {
	if te <= 0 {
		return 0
	}
	// Burgess-style fit: recombination through doubly excited states
	// of He II.
	const t0 = 4.7e5 // K
	return 1.9e-24 * c.Ne * c.Density[iHe2] * math.Pow(te, -1.5) *
		math.Exp(-t0/te) * 1e12 * c.Volume
}

// ComptonCooling returns the Compton cooling rate of c at electron
// temperature te.
func (m Mechanism) ComptonCooling(c *sirocco.PlasmaCell, te float64) float64 {
	return 16 * math.Pi * sigmaT * c.Ne * c.J *
		boltzmann * te / (mElec * cLight * cLight) * c.Volume
}

// AdiabaticCooling returns the adiabatic cooling rate of c at electron
// temperature te. It is proportional to the temperature and to the
// local velocity divergence, and can be negative where the flow is
// compressing.
func (m Mechanism) AdiabaticCooling(c *sirocco.PlasmaCell, te float64) float64 {
	ntot := floats.Sum(c.Density) + c.Ne
	return 1.5 * ntot * boltzmann * te * c.DivV * c.Volume
}

// PowerLawWeight returns the normalization of a power law of index
// alpha that reproduces the band flux j through a region of the given
// volume and dilution between freqMin and freqMax.
func (m Mechanism) PowerLawWeight(j, volume, dilution, alpha, freqMin, freqMax float64) float64 {
	d := 4 * math.Pi * volume * dilution * powerLawIntegral(alpha, freqMin, freqMax)
	if d == 0 {
		return math.Inf(1)
	}
	return j / d
}

// AugerIonization shifts a small amount of He II into He III to mimic
// secondary ionizations following inner-shell photoionization. The
// effect is restricted to minor ions, so the overall balance is not
// disturbed.
func (m Mechanism) AugerIonization(c *sirocco.PlasmaCell) error {
	const augerFrac = 0.01
	shift := augerFrac * c.Density[iHe2]
	c.Density[iHe2] -= shift
	c.Density[iHe3] += shift
	c.Ne += shift
	return nil
}
