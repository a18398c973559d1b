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

import "fmt"

// ConcentrationMode selects the ionization balance approximation used
// by a Mechanism when it computes ion concentrations for a cell.
type ConcentrationMode int

const (
	// ConcentrationLTE computes local thermodynamic equilibrium
	// populations at the cell's radiation temperature.
	ConcentrationLTE ConcentrationMode = iota

	// ConcentrationOnTheSpot computes populations in the on-the-spot
	// approximation, ignoring reprocessing of the diffuse field.
	ConcentrationOnTheSpot

	// ConcentrationPowerLaw computes populations corrected by the
	// per-band power-law radiation field description.
	ConcentrationPowerLaw
)

func (m ConcentrationMode) String() string {
	switch m {
	case ConcentrationLTE:
		return "LTE"
	case ConcentrationOnTheSpot:
		return "on-the-spot"
	case ConcentrationPowerLaw:
		return "power-law"
	default:
		return fmt.Sprintf("ConcentrationMode(%d)", int(m))
	}
}

// ErrNotConverged is returned by Mechanism.Concentrations when the
// ionization solve failed to converge. The densities left on the cell
// are the best available estimate and the caller is expected to
// continue with them.
var ErrNotConverged = fmt.Errorf("concentrations failed to converge")

// Mechanism is an interface for the atomic physics underlying the
// ionization and thermal balance calculation. The core drives a
// Mechanism through the temperature search and ionization cycle but
// knows nothing about rates, cross sections, or level populations.
type Mechanism interface {
	// Concentrations computes ion and electron densities for c in the
	// given approximation, storing them on the cell. A return of
	// ErrNotConverged means the densities are best-effort.
	Concentrations(c *PlasmaCell, mode ConcentrationMode) error

	// FixedConcentrations fills c with a hardwired composition.
	FixedConcentrations(c *PlasmaCell) error

	// MacroBBHeating returns the macro-atom bound-bound heating rate
	// for c at electron temperature te [erg/s].
	MacroBBHeating(c *PlasmaCell, te float64) float64

	// MacroBFHeating returns the macro-atom bound-free heating rate
	// for c at electron temperature te [erg/s].
	MacroBFHeating(c *PlasmaCell, te float64) float64

	// TotalEmission returns the radiative luminosity of c between
	// freqMin and freqMax [erg/s], excluding Compton and dielectronic
	// recombination losses, and stores it on the cell.
	TotalEmission(c *PlasmaCell, freqMin, freqMax float64) float64

	// DRCooling returns the dielectronic recombination cooling rate
	// for c at electron temperature te [erg/s].
	DRCooling(c *PlasmaCell, te float64) float64

	// ComptonCooling returns the Compton cooling rate for c at
	// electron temperature te [erg/s].
	ComptonCooling(c *PlasmaCell, te float64) float64

	// AdiabaticCooling returns the adiabatic cooling rate for c at
	// electron temperature te [erg/s].
	AdiabaticCooling(c *PlasmaCell, te float64) float64

	// PowerLawWeight returns the normalization of a power law of index
	// alpha that reproduces flux j through a region of the given
	// volume and dilution between freqMin and freqMax.
	PowerLawWeight(j, volume, dilution, alpha, freqMin, freqMax float64) float64

	// AugerIonization applies the Auger minor-ion correction to the
	// densities already stored on c.
	AugerIonization(c *PlasmaCell) error

	// Len returns the number of ions the mechanism tracks.
	Len() int
}
