// Copyright 2023 The EmberChain Authors
// This file is part of the EmberChain library.
//
// The EmberChain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The EmberChain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the EmberChain library. If not, see <http://www.gnu.org/licenses/>.

package download

import (
	"time"
)

// Performance is a copy-out summary of a reservation's sliding rate window.
// Idle is true until the window has accumulated minimumHistory samples.
type Performance struct {
	Idle     bool
	Events   uint64
	Database uint64
	Window   uint64
}

// Normal returns imported events per microsecond of wall time.
func (p Performance) Normal() float64 {
	if p.Idle || p.Window == 0 {
		return 0
	}
	return float64(p.Events) / float64(p.Window)
}

// Total folds the database cost accumulator into the event rate, allowing the
// caller to decompose wall time into network-bound and store-bound fractions.
func (p Performance) Total() float64 {
	if p.Idle || p.Window == 0 {
		return 0
	}
	return float64(p.Events+p.Database) / float64(p.Window)
}

// Ratio is the fraction of the observed cost spent in the chain store.
func (p Performance) Ratio() float64 {
	denominator := p.Events + p.Database
	if p.Idle || denominator == 0 {
		return 0
	}
	return float64(p.Database) / float64(denominator)
}

// performanceSample is one import observation inside the history window.
type performanceSample struct {
	events   uint64
	database uint64
	time     time.Time
}

// RateStatistics summarizes the Normal rates of all non-idle reservations.
// With fewer than two active rows the statistics are insufficient and no
// reservation is ever declared expired.
type RateStatistics struct {
	ArithmeticMean    float64
	StandardDeviation float64
	ActiveCount       int
}
