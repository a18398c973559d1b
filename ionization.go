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
	"errors"
	"fmt"
)

// IonizationMode selects the strategy used to compute ion abundances
// for a cell.
type IonizationMode int

const (
	// ModeOnTheSpot applies the on-the-spot approximation at the
	// existing electron temperature, without trying to match heating
	// and cooling in the cell.
	ModeOnTheSpot IonizationMode = iota

	// ModeLTE computes pure LTE abundances at the radiation
	// temperature.
	ModeLTE

	// ModeFixed uses a hardwired composition.
	ModeFixed

	// ModeOnTheSpotBalance runs one damped thermal balance update
	// before computing on-the-spot abundances.
	ModeOnTheSpotBalance

	// ModeLTEPowerLaw computes LTE abundances with externally pre-set
	// power-law correction parameters.
	ModeLTEPowerLaw

	// ModePowerLawBalance fits a power law to each frequency band of
	// the radiation field and then runs one damped thermal balance
	// update before computing the corrected abundances.
	ModePowerLawBalance
)

func (m IonizationMode) String() string {
	switch m {
	case ModeOnTheSpot:
		return "on-the-spot"
	case ModeLTE:
		return "LTE"
	case ModeFixed:
		return "fixed"
	case ModeOnTheSpotBalance:
		return "on-the-spot balance"
	case ModeLTEPowerLaw:
		return "LTE power-law"
	case ModePowerLawBalance:
		return "power-law balance"
	default:
		return fmt.Sprintf("IonizationMode(%d)", int(m))
	}
}

// A ModeError reports an ionization mode that the dispatcher does not
// know how to process. It is a configuration error: the caller owns
// the decision whether to abort the run or skip the cell.
type ModeError struct {
	Mode IonizationMode
}

func (e ModeError) Error() string {
	return fmt.Sprintf("sirocco: cannot calculate abundances for mode %d", int(e.Mode))
}

// IonAbundances is the steering routine for all calculations of the
// ion abundances of a cell. It mutates c in place and returns a
// non-nil error only for unrecoverable configuration or physical-state
// problems; a concentration solve that fails to converge is logged and
// the best-effort densities are kept.
func (w *Wind) IonAbundances(c *PlasmaCell, mode IonizationMode) error {
	switch mode {
	case ModeOnTheSpot:
		// No attempt to match heating and cooling in the cell.
		err := w.Mech.Concentrations(c, ConcentrationOnTheSpot)
		if err := logIfNotConverged(c, err, "IonAbundances"); err != nil {
			return err
		}

	case ModeLTE:
		err := w.Mech.Concentrations(c, ConcentrationLTE)
		if err := logIfNotConverged(c, err, "IonAbundances"); err != nil {
			return err
		}

	case ModeFixed:
		if err := w.Mech.FixedConcentrations(c); err != nil {
			return fmt.Errorf("sirocco: fixed concentrations in cell %d: %w", c.N, err)
		}

	case ModeOnTheSpotBalance:
		c.rotateTrackers()
		if err := w.oneShot(c, ConcentrationOnTheSpot); err != nil {
			return err
		}
		w.Convergence(c)

	case ModeLTEPowerLaw:
		// The power-law correction parameters are assumed to have
		// been set up externally before this call.
		err := w.Mech.Concentrations(c, ConcentrationPowerLaw)
		if err := logIfNotConverged(c, err, "IonAbundances"); err != nil {
			return err
		}

	case ModePowerLawBalance:
		if err := w.fitPowerLaws(c); err != nil {
			return err
		}
		c.rotateTrackers()
		if err := w.oneShot(c, ConcentrationPowerLaw); err != nil {
			return err
		}
		w.Convergence(c)

	default:
		return ModeError{Mode: mode}
	}

	// The Auger correction is applied right at the end of the
	// ionization calculation on the assumption that it only makes
	// minor ions, so the balance of the other ions is not affected in
	// an important way.
	if w.Auger {
		if err := w.Mech.AugerIonization(c); err != nil {
			return fmt.Errorf("sirocco: auger ionization in cell %d: %w", c.N, err)
		}
	}
	return nil
}

// rotateTrackers shifts the current thermal state into the
// previous-cycle slots before a balance update. The temperature delta
// must be stored before the temperatures themselves are rotated.
func (c *PlasmaCell) rotateTrackers() {
	c.DtEOld = c.DtE
	c.DtE = c.TE - c.TEOld
	c.TEOld = c.TE
	c.TROld = c.TR
	c.LumRadOld = c.LumRad
}

// logIfNotConverged reports a concentration solve failure without
// escalating it; any other error is returned unchanged.
func logIfNotConverged(c *PlasmaCell, err error, context string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotConverged) {
		log.WithFields(cellFields(c)).Errorf("%s: concentrations failed to converge", context)
		return nil
	}
	return err
}
