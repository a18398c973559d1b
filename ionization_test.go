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
	"math"
	"testing"
)

// Every valid mode must complete without error on a healthy cell and
// leave its temperatures finite and positive.
func TestIonAbundancesAllModes(t *testing.T) {
	modes := []IonizationMode{
		ModeOnTheSpot,
		ModeLTE,
		ModeFixed,
		ModeOnTheSpotBalance,
		ModeLTEPowerLaw,
		ModePowerLawBalance,
	}
	for _, mode := range modes {
		w, c, _ := testWind()
		c.Bands[0].Nphot = 100
		c.Bands[0].J = 10
		c.Bands[0].AveFreq = bandMeanFreq(-1.2, c.Bands[0].FreqMin, c.Bands[0].FreqMax)
		c.Bands[1].Nphot = 0

		if err := w.IonAbundances(c, mode); err != nil {
			t.Errorf("mode %v: %v", mode, err)
		}
		for name, v := range map[string]float64{"t_e": c.TE, "t_r": c.TR} {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("mode %v left %s=%g", mode, name, v)
			}
		}
	}
}

func TestIonAbundancesInvalidMode(t *testing.T) {
	w, c, _ := testWind()

	err := w.IonAbundances(c, IonizationMode(17))
	var me ModeError
	if !errors.As(err, &me) {
		t.Fatalf("err=%v, want a ModeError", err)
	}
	if me.Mode != 17 {
		t.Errorf("ModeError.Mode=%d, want 17", me.Mode)
	}
}

func TestIonAbundancesSubmodes(t *testing.T) {
	cases := []struct {
		mode IonizationMode
		want ConcentrationMode
	}{
		{ModeOnTheSpot, ConcentrationOnTheSpot},
		{ModeLTE, ConcentrationLTE},
		{ModeOnTheSpotBalance, ConcentrationOnTheSpot},
		{ModeLTEPowerLaw, ConcentrationPowerLaw},
		{ModePowerLawBalance, ConcentrationPowerLaw},
	}
	for _, tc := range cases {
		w, c, mech := testWind()
		if err := w.IonAbundances(c, tc.mode); err != nil {
			t.Fatalf("mode %v: %v", tc.mode, err)
		}
		if n := len(mech.concModes); n == 0 || mech.concModes[n-1] != tc.want {
			t.Errorf("mode %v used submodes %v, want last to be %v",
				tc.mode, mech.concModes, tc.want)
		}
	}
}

func TestIonAbundancesFixed(t *testing.T) {
	w, c, mech := testWind()
	if err := w.IonAbundances(c, ModeFixed); err != nil {
		t.Fatal(err)
	}
	if mech.fixedCalls != 1 {
		t.Errorf("fixedCalls=%d, want 1", mech.fixedCalls)
	}
	if len(mech.concModes) != 0 {
		t.Errorf("fixed mode must not run the concentration solver, got %v",
			mech.concModes)
	}
}

// The balance modes rotate the previous-cycle trackers before
// updating, storing the delta before the temperatures.
func TestIonAbundancesRotatesTrackers(t *testing.T) {
	w, c, _ := testWind()
	c.TE = 10400
	c.TEOld = 10000
	c.TR = 11500
	c.DtE = 400
	c.DtEOld = 900
	c.LumRad = 1234

	if err := w.IonAbundances(c, ModeOnTheSpotBalance); err != nil {
		t.Fatal(err)
	}
	if c.DtEOld != 400 {
		t.Errorf("DtEOld=%g, want 400", c.DtEOld)
	}
	if c.DtE != 400 { // 10400 − 10000, stored before t_e_old was rotated
		t.Errorf("DtE=%g, want 400", c.DtE)
	}
	if c.TEOld != 10400 || c.TROld != 11500 {
		t.Errorf("rotated t_e_old=%g t_r_old=%g, want 10400, 11500",
			c.TEOld, c.TROld)
	}
	if c.LumRadOld != 1234 {
		t.Errorf("LumRadOld=%g, want 1234", c.LumRadOld)
	}
}

func TestIonAbundancesAuger(t *testing.T) {
	for _, auger := range []bool{false, true} {
		w, c, mech := testWind()
		w.Auger = auger
		if err := w.IonAbundances(c, ModeLTE); err != nil {
			t.Fatal(err)
		}
		want := 0
		if auger {
			want = 1
		}
		if mech.augerCalls != want {
			t.Errorf("auger=%v: augerCalls=%d, want %d", auger, mech.augerCalls, want)
		}
	}
}

// A concentration solver that does not converge is logged, not
// escalated, in every mode that runs it.
func TestIonAbundancesSolverFailure(t *testing.T) {
	for _, mode := range []IonizationMode{ModeOnTheSpot, ModeLTE, ModeOnTheSpotBalance} {
		w, c, mech := testWind()
		mech.concErr = ErrNotConverged
		if err := w.IonAbundances(c, mode); err != nil {
			t.Errorf("mode %v: solver failure escalated: %v", mode, err)
		}
	}
}
