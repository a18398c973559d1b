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
	"encoding/gob"
	"fmt"
	"io"
)

// Save returns a function that saves the wind cell state to a gob
// stream (format description at https://golang.org/pkg/encoding/gob/),
// so a run can be restarted from the last completed cycle.
func Save(wr io.Writer) DomainManipulator {
	return func(w *Wind) error {
		e := gob.NewEncoder(wr)
		if err := e.Encode(w.Cells); err != nil {
			return fmt.Errorf("sirocco: Wind.Save: %v", err)
		}
		return nil
	}
}

// Load returns a function that loads cell state from a previously
// Saved stream into a Wind.
func Load(r io.Reader) DomainManipulator {
	return func(w *Wind) error {
		dec := gob.NewDecoder(r)
		var cells []*PlasmaCell
		if err := dec.Decode(&cells); err != nil {
			return fmt.Errorf("sirocco: Wind.Load: %v", err)
		}
		w.Cells = cells
		return nil
	}
}
