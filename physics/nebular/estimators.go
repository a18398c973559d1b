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

package nebular

import (
	"math"

	"github.com/Edward-RSE/sirocco"
	"gonum.org/v1/gonum/integrate/quad"
)

const (
	// aRad is the radiation constant [erg/cm³/K⁴].
	aRad = 7.5646e-15

	// bbMeanX is the dimensionless mean of hν/kT over a thermal
	// energy density spectrum.
	bbMeanX = 3.832
)

// InitRadiation fills the radiation field estimators of c as if the
// Monte-Carlo transport had sampled a blackbody at the cell's
// radiation temperature, diluted by the cell's dilution factor, over
// the given band table. It also computes initial densities and heating
// totals consistent with those estimators, so a cell is ready for the
// first ionization cycle. In a production run the estimators come from
// the photon transport instead.
func (m Mechanism) InitRadiation(c *sirocco.PlasmaCell, bands []sirocco.Band) error {
	t := c.TR
	c.J = c.W * aRad * t * t * t * t
	c.AveFreq = bbMeanX * boltzmann * t / h

	c.Bands = make([]sirocco.Band, len(bands))
	copy(c.Bands, bands)
	for i := range c.Bands {
		b := &c.Bands[i]
		bj := quad.Fixed(planck(t), b.FreqMin, b.FreqMax, 80, nil, 0)
		num := quad.Fixed(func(nu float64) float64 {
			return nu * planck(t)(nu)
		}, b.FreqMin, b.FreqMax, 80, nil, 0)
		if bj <= 0 {
			b.J = 0
			b.AveFreq = 0
			b.Nphot = 0
			continue
		}
		b.J = c.W * bj
		b.AveFreq = num / bj
		b.Nphot = int(b.J * c.Volume / (h * b.AveFreq))
	}

	if err := m.Concentrations(c, sirocco.ConcentrationLTE); err != nil {
		return err
	}

	// Heating estimators: the non-macro parts scale with the mean
	// radiation field, the macro-atom parts are recomputed at the
	// current electron temperature.
	const kPhoto = 3.2e-2
	const kLines = 1.1e-2
	c.HeatPhoto = kPhoto * c.Ne * c.J * c.Volume
	c.HeatLines = kLines * c.Ne * c.J * c.Volume
	c.HeatLinesMacro = m.MacroBBHeating(c, c.TE)
	c.HeatPhotoMacro = m.MacroBFHeating(c, c.TE)
	c.HeatLines += c.HeatLinesMacro
	c.HeatPhoto += c.HeatPhotoMacro
	c.HeatTot = c.HeatLines + c.HeatPhoto

	m.TotalEmission(c, 0, sirocco.VeryBig)
	return nil
}

// StandardBands returns an nbands-interval logarithmic frequency grid
// spanning [freqMin, freqMax], with unfitted power laws.
func StandardBands(freqMin, freqMax float64, nbands int) []sirocco.Band {
	bands := make([]sirocco.Band, nbands)
	step := math.Pow(freqMax/freqMin, 1/float64(nbands))
	lo := freqMin
	for i := range bands {
		hi := lo * step
		bands[i] = sirocco.Band{FreqMin: lo, FreqMax: hi}
		lo = hi
	}
	bands[nbands-1].FreqMax = freqMax
	return bands
}
