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
	"math"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emberchain/emc/common"
	"github.com/emberchain/emc/common/types"
)

// Reservations owns one reservation per configured download channel and
// carries the fleet-wide policy: striping of new work, rate statistics and
// repopulation of drained rows. Rows are created here and live until the
// table is torn down; an empty row is a repopulation trigger, not a removal.
type Reservations struct {
	mu   sync.Mutex
	rows []*Reservation

	// outstanding tracks every hash currently held by some row, so that the
	// same hash can never be reserved twice.
	outstanding mapset.Set[types.Hash]
}

// NewReservations stripes the initial header batch across connections rows:
// pair i is assigned to row i mod N. Callers provide the batch in ascending
// height order, which keeps each row's queue ascending as well.
func NewReservations(batch common.HeaderBatch, connections int, blockLatencySeconds uint32) *Reservations {
	if connections < 1 {
		connections = 1
	}

	table := &Reservations{
		rows:        make([]*Reservation, 0, connections),
		outstanding: mapset.NewSet[types.Hash](),
	}
	for slot := 0; slot < connections; slot++ {
		table.rows = append(table.rows, newReservation(table, uint64(slot), blockLatencySeconds))
	}

	for i, pair := range batch {
		row := table.rows[i%connections]
		if table.outstanding.Add(pair.Hash) {
			row.Insert(pair.Hash, pair.Height)
		}
	}

	return table
}

// Rows returns the reservation set. The slice is immutable for the life of
// the table.
func (t *Reservations) Rows() []*Reservation {
	return t.rows
}

// Get returns the reservation for the given slot id.
func (t *Reservations) Get(slot uint64) *Reservation {
	if slot >= uint64(len(t.rows)) {
		return nil
	}
	return t.rows[slot]
}

// Size returns the configured parallelism.
func (t *Reservations) Size() int {
	return len(t.rows)
}

// Outstanding returns the number of hashes still held by some row. A hash
// leaves this count when an import claims it, whether or not the chain store
// then accepts the block.
func (t *Reservations) Outstanding() int {
	return t.outstanding.Cardinality()
}

// Reserve assigns new work from the header-sync component to the emptiest
// row. It refuses hashes that some row already owns.
func (t *Reservations) Reserve(hash types.Hash, height uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.outstanding.Add(hash) {
		return false
	}

	minimal := t.rows[0]
	for _, row := range t.rows[1:] {
		if row.Size() < minimal.Size() {
			minimal = row
		}
	}
	minimal.Insert(hash, height)
	return true
}

// release drops a hash claimed by an import from the outstanding set. It runs
// before the chain store call, so rejected blocks are released as well.
func (t *Reservations) release(hash types.Hash) {
	t.outstanding.Remove(hash)
}

// IsOutstanding reports whether the hash still awaits import.
func (t *Reservations) IsOutstanding(hash types.Hash) bool {
	return t.outstanding.Contains(hash)
}

// Rates snapshots the normal rate of every non-idle row and reduces it to
// the fleet mean and population standard deviation.
func (t *Reservations) Rates() RateStatistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	rates := make([]float64, 0, len(t.rows))
	for _, row := range t.rows {
		record := row.Rate()
		if record.Idle {
			continue
		}
		rates = append(rates, record.Normal())
	}

	count := len(rates)
	if count == 0 {
		return RateStatistics{}
	}

	var sum float64
	for _, rate := range rates {
		sum += rate
	}
	mean := sum / float64(count)

	var variance float64
	for _, rate := range rates {
		deviation := rate - mean
		variance += deviation * deviation
	}
	variance /= float64(count)

	return RateStatistics{
		ArithmeticMean:    mean,
		StandardDeviation: math.Sqrt(variance),
		ActiveCount:       count,
	}
}

// Populate refills a drained row by partitioning the fullest row in half.
// When no row has more than one entry left the download is effectively
// complete and the row stays empty. Stopped rows are never refilled, which
// makes the tail call of an in-flight import after Stop a no-op.
func (t *Reservations) Populate(empty *Reservation) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if empty.Stopped() {
		return false
	}

	var maximal *Reservation
	for _, row := range t.rows {
		if row == empty {
			continue
		}
		if maximal == nil || row.Size() > maximal.Size() {
			maximal = row
		}
	}

	if maximal == nil || maximal.Size() <= 1 {
		log.Debug("No partitionable reservation", "slot", empty.Slot())
		return false
	}

	return maximal.Partition(empty)
}

// ExpiredSlots returns the ids of rows whose rate is a statistical laggard.
// The row set is immutable, so rows are queried without the table mutex;
// each query snapshots the fleet statistics on its own.
func (t *Reservations) ExpiredSlots() []uint64 {
	expired := make([]uint64, 0)
	for _, row := range t.rows {
		if row.Expired() {
			expired = append(expired, row.Slot())
		}
	}
	return expired
}
