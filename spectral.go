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

	"github.com/sirupsen/logrus"
)

const (
	// alphaTol is the absolute tolerance of the spectral index root
	// search.
	alphaTol = 1e-5

	// alphaLimit clamps the fitted spectral index. Indices beyond
	// ±3 produce wild normalizations without improving the fit.
	alphaLimit = 3.0
)

// fitPowerLaws fits a power-law spectral index and normalization
// weight to the Monte-Carlo estimators of each frequency band of c.
// Bands are independent of one another. A band in which no photon
// packets were recorded contributes nothing to the ionization balance:
// its weight is forced to zero and its index keeps its previous value.
func (w *Wind) fitPowerLaws(c *PlasmaCell) error {
	for i := range c.Bands {
		band := &c.Bands[i]

		if band.Nphot == 0 {
			log.WithFields(cellFields(c)).WithField("band", i).
				Error("fitPowerLaws: no photons in band for power-law estimators")
			band.W = 0
			continue
		}

		freqMin := band.FreqMin
		freqMax := band.FreqMax
		meanFreq := band.AveFreq
		j := band.J

		log.WithFields(logrus.Fields{
			"cell":      c.N,
			"band":      i,
			"j":         j,
			"mean_freq": meanFreq,
			"numin":     freqMin,
			"numax":     freqMax,
			"nphot":     band.Nphot,
		}).Info("fitPowerLaws: fitting band")

		// The root is expected near the previous index. If the
		// initial interval does not bracket it, widen until it does.
		alphaMin := band.Alpha - 0.1
		alphaMax := band.Alpha + 0.1
		g := func(alpha float64) float64 {
			return alphaFunc(alpha, freqMin, freqMax, meanFreq)
		}
		for g(alphaMin)*g(alphaMax) > 0 {
			alphaMin -= 1.0
			alphaMax += 1.0
		}

		alpha := FindRoot(g, alphaMin, alphaMax, alphaTol)
		if alpha > alphaLimit {
			alpha = alphaLimit
		} else if alpha < -alphaLimit {
			alpha = -alphaLimit
		}

		// The band estimator j already includes the cell volume and a
		// factor of 4π, so the weight is computed for unit volume and
		// dilution with the 4π reapplied.
		weight := w.Mech.PowerLawWeight(j*4*math.Pi, 1, 1, alpha, freqMin, freqMax)

		if !saneCheck(weight) {
			log.WithFields(cellFields(c)).WithField("band", i).
				Error("fitPowerLaws: new power-law parameters unreasonable, " +
					"using existing parameters; check number of photons in this cell")
			continue
		}
		band.Alpha = alpha
		band.W = weight
	}
	return nil
}

// alphaFunc has a zero at the spectral index alpha for which a power
// law between freqMin and freqMax has the given mean frequency.
func alphaFunc(alpha, freqMin, freqMax, meanFreq float64) float64 {
	return (alpha+1.)/(alpha+2.)*
		(math.Pow(freqMax, alpha+2.)-math.Pow(freqMin, alpha+2.))/
			(math.Pow(freqMax, alpha+1.)-math.Pow(freqMin, alpha+1.)) -
		meanFreq
}

// saneCheck reports whether x is finite and of physically plausible
// magnitude.
func saneCheck(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && math.Abs(x) < VeryBig
}
