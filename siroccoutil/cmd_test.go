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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Edward-RSE/sirocco"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		name string
		want sirocco.IonizationMode
	}{
		{"on-the-spot", sirocco.ModeOnTheSpot},
		{"LTE", sirocco.ModeLTE},
		{"fixed", sirocco.ModeFixed},
		{"on-the-spot-balance", sirocco.ModeOnTheSpotBalance},
		{"LTE-power-law", sirocco.ModeLTEPowerLaw},
		{"power-law-balance", sirocco.ModePowerLawBalance},
	}
	for _, tc := range cases {
		got, err := parseMode(tc.name)
		if err != nil {
			t.Errorf("parseMode(%q): %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("parseMode(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := parseMode("nonsense"); err == nil {
		t.Error("parseMode(\"nonsense\") should fail")
	}
}

func TestConfigDefaults(t *testing.T) {
	if got := Cfg.GetInt("NumCells"); got != 100 {
		t.Errorf("NumCells default = %d, want 100", got)
	}
	if got := Cfg.GetInt("NumBands"); got != 7 {
		t.Errorf("NumBands default = %d, want 7", got)
	}
	if got := Cfg.GetString("Mode"); got != "power-law-balance" {
		t.Errorf("Mode default = %q, want power-law-balance", got)
	}
	if _, err := parseMode(Cfg.GetString("Mode")); err != nil {
		t.Errorf("default mode does not parse: %v", err)
	}
}

func testRunConfig() RunConfig {
	return RunConfig{
		NumCells:  4,
		NumBands:  3,
		FreqMin:   1e14,
		FreqMax:   1e17,
		TR:        4e4,
		Dilution:  0.5,
		Rho:       1e-12,
		Mode:      sirocco.ModeOnTheSpotBalance,
		NumCycles: 2,
	}
}

func TestNewWind(t *testing.T) {
	cfg := testRunConfig()
	w, err := NewWind(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Cells) != cfg.NumCells {
		t.Fatalf("got %d cells, want %d", len(w.Cells), cfg.NumCells)
	}
	for _, c := range w.Cells {
		if len(c.Bands) != cfg.NumBands {
			t.Errorf("cell %d has %d bands, want %d", c.N, len(c.Bands), cfg.NumBands)
		}
		if want := 0.9 * cfg.TR; c.TE != want {
			t.Errorf("cell %d t_e=%g, want default %g", c.N, c.TE, want)
		}
		if c.J <= 0 || c.HeatTot <= 0 {
			t.Errorf("cell %d not initialized: j=%g heat=%g", c.N, c.J, c.HeatTot)
		}
		if c.Ne <= 0 {
			t.Errorf("cell %d has no electrons", c.N)
		}
	}
}

func TestNewWindRejectsEmptyGrid(t *testing.T) {
	cfg := testRunConfig()
	cfg.NumCells = 0
	if _, err := NewWind(cfg); err == nil {
		t.Error("want error for zero cells")
	}

	cfg = testRunConfig()
	cfg.NumBands = 0
	if _, err := NewWind(cfg); err == nil {
		t.Error("want error for zero bands")
	}
}

// A short end-to-end run: two cycles over a small grid, every mode of
// the dispatcher exercised through the full cycle machinery, and a
// snapshot written and reloadable.
func TestRunEndToEnd(t *testing.T) {
	for _, mode := range []sirocco.IonizationMode{
		sirocco.ModeOnTheSpotBalance,
		sirocco.ModePowerLawBalance,
	} {
		cfg := testRunConfig()
		cfg.Mode = mode
		cfg.OutputFile = filepath.Join(t.TempDir(), "wind.gob")

		if err := Run(cfg); err != nil {
			t.Fatalf("mode %v: %v", mode, err)
		}

		f, err := os.Open(cfg.OutputFile)
		if err != nil {
			t.Fatalf("mode %v: snapshot not written: %v", mode, err)
		}
		w := &sirocco.Wind{}
		err = sirocco.Load(f)(w)
		f.Close()
		if err != nil {
			t.Fatalf("mode %v: reloading snapshot: %v", mode, err)
		}
		if len(w.Cells) != cfg.NumCells {
			t.Fatalf("mode %v: snapshot has %d cells, want %d",
				mode, len(w.Cells), cfg.NumCells)
		}
		for _, c := range w.Cells {
			if c.TE <= 0 || math.IsNaN(c.TE) || math.IsInf(c.TE, 0) {
				t.Errorf("mode %v: cell %d finished with t_e=%g", mode, c.N, c.TE)
			}
			if c.TEOld == 0 {
				t.Errorf("mode %v: cell %d trackers never rotated", mode, c.N)
			}
		}
	}
}
