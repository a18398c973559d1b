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

package siroccoutil

import (
	"fmt"
	"os"

	"github.com/Edward-RSE/sirocco"
	"github.com/Edward-RSE/sirocco/physics/nebular"
)

// RunConfig collects everything needed to set up and run a wind.
type RunConfig struct {
	NumCells int
	NumBands int

	FreqMin, FreqMax float64

	// Initial thermal state shared by all cells.
	TR, TE   float64
	Dilution float64
	Rho      float64

	Mode              sirocco.IonizationMode
	NumCycles         int
	ConvergedFraction float64
	Auger             bool

	// OutputFile is where the final wind snapshot is written; empty
	// disables the snapshot.
	OutputFile string
}

// NewWind builds a wind grid of identical cells with radiation field
// estimators initialized from a diluted blackbody, using the nebular
// mechanism.
func NewWind(cfg RunConfig) (*sirocco.Wind, error) {
	if cfg.NumCells < 1 || cfg.NumBands < 1 {
		return nil, fmt.Errorf("sirocco: need at least one cell and one band, got %d and %d",
			cfg.NumCells, cfg.NumBands)
	}
	mech := nebular.Mechanism{}
	bands := nebular.StandardBands(cfg.FreqMin, cfg.FreqMax, cfg.NumBands)

	te := cfg.TE
	if te == 0 {
		te = 0.9 * cfg.TR
	}

	w := &sirocco.Wind{
		Mech:              mech,
		FreqBands:         bands,
		Auger:             cfg.Auger,
		ConvergedFraction: cfg.ConvergedFraction,
	}
	for n := 0; n < cfg.NumCells; n++ {
		c := sirocco.NewPlasmaCell(n, cfg.NumBands, mech.Len())
		c.TR = cfg.TR
		c.TROld = cfg.TR
		c.TE = te
		c.TEOld = te
		c.W = cfg.Dilution
		c.Rho = cfg.Rho
		if err := mech.InitRadiation(c, bands); err != nil {
			return nil, fmt.Errorf("sirocco: initializing cell %d: %w", n, err)
		}
		w.Cells = append(w.Cells, c)
	}
	return w, nil
}

// Run sets up a wind from cfg and drives ionization cycles until the
// wind reports itself done, then optionally saves a snapshot.
func Run(cfg RunConfig) error {
	w, err := NewWind(cfg)
	if err != nil {
		return err
	}

	w.RunFuncs = []sirocco.DomainManipulator{
		w.IonizationCycle(cfg.Mode),
		sirocco.ConvergenceCheck(),
		sirocco.Log(),
		sirocco.CycleCount(cfg.NumCycles),
	}

	if err := w.Init(); err != nil {
		return err
	}
	if err := w.Run(); err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("sirocco: creating output file: %v", err)
		}
		defer f.Close()
		w.CleanupFuncs = append(w.CleanupFuncs, sirocco.Save(f))
	}
	return w.Cleanup()
}
