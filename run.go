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
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Calculations returns a function that concurrently runs a series of
// calculations on all of the cells in the wind. Cells are disjoint, so
// the workers share nothing but the read-only band table; the first
// error from any cell stops the pass and is returned.
func Calculations(calculators ...CellManipulator) DomainManipulator {
	nprocs := runtime.GOMAXPROCS(0)

	return func(w *Wind) error {
		var eg errgroup.Group
		for pp := 0; pp < nprocs; pp++ {
			pp := pp
			eg.Go(func() error {
				for ii := pp; ii < len(w.Cells); ii += nprocs {
					c := w.Cells[ii]
					c.Lock()
					for _, f := range calculators {
						if err := f(c); err != nil {
							c.Unlock()
							return err
						}
					}
					c.Unlock()
				}
				return nil
			})
		}
		return eg.Wait()
	}
}

// IonizationCycle returns a function that runs the full ionization
// balance calculation on every cell in the given mode.
func (w *Wind) IonizationCycle(mode IonizationMode) DomainManipulator {
	return Calculations(func(c *PlasmaCell) error {
		return w.IonAbundances(c, mode)
	})
}

// CycleCount returns a function that finishes the simulation after
// numCycles outer cycles, or, if numCycles < 1, once the converged
// cell fraction reaches the wind's ConvergedFraction. The fraction
// comes from the summary stored by a ConvergenceCheck earlier in the
// same cycle; without one, the grid is scanned here.
func CycleCount(numCycles int) DomainManipulator {
	cycle := 0
	return func(w *Wind) error {
		cycle++
		if numCycles > 0 {
			if cycle >= numCycles {
				w.Done = true
			}
			return nil
		}
		s := w.convergence
		w.convergence = nil
		if s == nil {
			scan := w.CheckConvergence()
			s = &scan
		}
		if s.NCells > 0 && s.FracConverged >= w.ConvergedFraction {
			w.Done = true
		}
		return nil
	}
}

// Log returns a function that writes cycle status messages to the
// package logger.
func Log() DomainManipulator {
	startTime := time.Now()
	cycleTime := time.Now()
	cycle := 0

	return func(w *Wind) error {
		cycle++
		log.WithFields(logrus.Fields{
			"cycle":     cycle,
			"walltime":  time.Since(startTime).Round(time.Millisecond).String(),
			"Δwalltime": time.Since(cycleTime).Round(time.Millisecond).String(),
			"cells":     len(w.Cells),
		}).Info("ionization cycle complete")
		cycleTime = time.Now()
		return nil
	}
}
