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

import "github.com/sirupsen/logrus"

// log is the package log sink. Informational messages report normal
// progress; error-level messages report recoverable numerical
// anomalies. Nothing in this package logs at fatal level: unrecoverable
// conditions are returned as errors to the caller.
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package log sink.
func SetLogger(l logrus.FieldLogger) {
	log = l
}

// cellFields returns the diagnostic fields attached to every per-cell
// log message so that a failure can be reconstructed from the log
// alone.
func cellFields(c *PlasmaCell) logrus.Fields {
	return logrus.Fields{
		"cell": c.N,
		"j":    c.J,
		"t_e":  c.TE,
		"t_r":  c.TR,
		"w":    c.W,
	}
}
