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

// Package sirocco implements the per-cell ionization and thermal
// balance core of a Monte-Carlo radiative transfer simulation: for
// each cell of the wind it finds the electron temperature at which
// cooling balances radiative heating, updates the ion concentrations
// at that temperature through a pluggable atomic-physics Mechanism,
// and tracks convergence of the whole grid across outer cycles.
package sirocco

// Version gives the version number.
const Version = "0.1.0"

// VeryBig is the largest physically meaningful value for rates,
// densities, and frequencies. Anything beyond it is treated as a
// numerical failure.
const VeryBig = 1e50

// Wind holds the current state of the simulated medium: one PlasmaCell
// per spatial element plus the shared read-only frequency band table.
type Wind struct {
	// Cells are the plasma cells that make up the wind. Each cell is
	// updated independently of the others.
	Cells []*PlasmaCell

	// Mech computes the atomic physics rates.
	Mech Mechanism

	// FreqBands is the physical bandpass table: the frequency
	// intervals over which radiation field estimators are gathered.
	// It is read-only while the ionization cycle runs.
	FreqBands []Band

	// Auger enables the Auger ionization correction pass after every
	// ionization mode.
	Auger bool

	// ConvergedFraction is the fraction of cells that must pass all
	// convergence checks for the run to finish when no fixed cycle
	// count is given to CycleCount.
	ConvergedFraction float64

	// Done specifies whether the simulation is finished.
	Done bool

	// convergence is the summary of the most recent grid-wide
	// convergence scan, stored by ConvergenceCheck and consumed by
	// CycleCount so the scan runs once per cycle.
	convergence *ConvergenceSummary

	// InitFuncs are called before the cycle loop starts.
	InitFuncs []DomainManipulator

	// RunFuncs are called once per outer cycle until Done is true.
	RunFuncs []DomainManipulator

	// CleanupFuncs are called after the cycle loop finishes.
	CleanupFuncs []DomainManipulator
}

// DomainManipulator is a class of functions that operate on the entire
// wind at once.
type DomainManipulator func(w *Wind) error

// CellManipulator is a class of functions that operate on a single
// plasma cell, using the cell's own state plus read-only shared
// inputs, so that multiple cells can be processed concurrently.
type CellManipulator func(c *PlasmaCell) error

// Init initializes the wind by running InitFuncs in order.
func (w *Wind) Init() error {
	for _, f := range w.InitFuncs {
		if err := f(w); err != nil {
			return err
		}
	}
	return nil
}

// Run repeatedly executes RunFuncs, in order, until Done is true.
// Each RunFunc completes on every cell before the next one starts, so
// grid-wide reductions placed after a Calculations step see fully
// updated cells.
func (w *Wind) Run() error {
	for !w.Done {
		for _, f := range w.RunFuncs {
			if err := f(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup runs the CleanupFuncs.
func (w *Wind) Cleanup() error {
	for _, f := range w.CleanupFuncs {
		if err := f(w); err != nil {
			return err
		}
	}
	return nil
}
