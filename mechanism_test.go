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

// testMech is a minimal deterministic Mechanism for testing the
// control structure of the core without any real atomic physics.
// Cooling is linear in temperature, so the thermal balance residual
// has its root at HeatTot/coolCoef.
type testMech struct {
	coolCoef float64 // cooling per kelvin [erg/s/K]
	macroBB  float64 // constant bound-bound macro heating [erg/s]
	macroBF  float64 // constant bound-free macro heating [erg/s]
	weight   float64 // power-law weight to report
	ne       float64 // electron density to report
	concErr  error   // error to return from Concentrations

	concModes  []ConcentrationMode // modes Concentrations was called with
	fixedCalls int
	augerCalls int

	weightArgs []float64 // arguments of the last PowerLawWeight call
}

func (m *testMech) Concentrations(c *PlasmaCell, mode ConcentrationMode) error {
	m.concModes = append(m.concModes, mode)
	for i := range c.Density {
		c.Density[i] = 1
	}
	c.Ne = m.ne
	return m.concErr
}

func (m *testMech) FixedConcentrations(c *PlasmaCell) error {
	m.fixedCalls++
	for i := range c.Density {
		c.Density[i] = 1
	}
	c.Ne = m.ne
	return nil
}

func (m *testMech) MacroBBHeating(c *PlasmaCell, te float64) float64 { return m.macroBB }
func (m *testMech) MacroBFHeating(c *PlasmaCell, te float64) float64 { return m.macroBF }

func (m *testMech) TotalEmission(c *PlasmaCell, freqMin, freqMax float64) float64 {
	c.LumRad = m.coolCoef * c.TE * c.Volume
	return c.LumRad
}

func (m *testMech) DRCooling(c *PlasmaCell, te float64) float64        { return 0 }
func (m *testMech) ComptonCooling(c *PlasmaCell, te float64) float64   { return 0 }
func (m *testMech) AdiabaticCooling(c *PlasmaCell, te float64) float64 { return 0 }

func (m *testMech) PowerLawWeight(j, volume, dilution, alpha, freqMin, freqMax float64) float64 {
	m.weightArgs = []float64{j, volume, dilution, alpha, freqMin, freqMax}
	return m.weight
}

func (m *testMech) AugerIonization(c *PlasmaCell) error {
	m.augerCalls++
	return nil
}

func (m *testMech) Len() int { return 1 }

// testWind returns a wind with a single cell in a near-balanced state
// and a testMech with its equilibrium temperature at
// heat/coolCoef = 10000 K.
func testWind() (*Wind, *PlasmaCell, *testMech) {
	mech := &testMech{
		coolCoef: 1,
		weight:   1,
		ne:       1e10,
	}
	w := &Wind{
		Mech: mech,
		FreqBands: []Band{
			{FreqMin: 1e15, FreqMax: 1e16},
			{FreqMin: 1e16, FreqMax: 1e17},
		},
	}
	c := NewPlasmaCell(0, 2, mech.Len())
	for i := range c.Bands {
		c.Bands[i] = w.FreqBands[i]
	}
	c.TE = 10000
	c.TEOld = 10000
	c.TR = 11000
	c.TROld = 11000
	c.W = 0.5
	c.Rho = 1e-12
	c.HeatTot = 10000
	c.HeatLines = 6000
	c.HeatPhoto = 4000
	mech.TotalEmission(c, 0, VeryBig)
	w.Cells = []*PlasmaCell{c}
	return w, c, mech
}
