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
	"testing"

	"github.com/emberchain/emc/common"
	"github.com/stretchr/testify/require"
)

// testBatch builds an ascending header batch for the given height range.
func testBatch(tb testing.TB, first, count uint64) common.HeaderBatch {
	tb.Helper()
	batch := make(common.HeaderBatch, 0, count)
	for height := first; height < first+count; height++ {
		batch = append(batch, common.HashHeight{
			Hash:   testBlock(tb, height).Hash(),
			Height: height,
		})
	}
	return batch
}

func TestStripedStartup(t *testing.T) {
	table := NewReservations(testBatch(t, 100, 10), 2, 5)

	require.Equal(t, 2, table.Size())
	require.Equal(t, []uint64{100, 102, 104, 106, 108}, queuedHeights(table.Get(0)))
	require.Equal(t, []uint64{101, 103, 105, 107, 109}, queuedHeights(table.Get(1)))
	require.Equal(t, 10, table.Outstanding())
}

func TestSlotIdsAreDense(t *testing.T) {
	table := NewReservations(nil, 4, 5)
	for i, row := range table.Rows() {
		require.EqualValues(t, i, row.Slot())
	}
}

func TestRatesInsufficientStatistics(t *testing.T) {
	table := NewReservations(testBatch(t, 0, 4), 2, 5)

	// No active rows at all.
	stats := table.Rates()
	require.Zero(t, stats.ActiveCount)
	require.Zero(t, stats.ArithmeticMean)
	require.Zero(t, stats.StandardDeviation)

	// A single active row yields zero deviation and no expiry anywhere.
	table.Get(0).setRate(Performance{Events: 1000, Window: 1})
	stats = table.Rates()
	require.Equal(t, 1, stats.ActiveCount)
	require.Zero(t, stats.StandardDeviation)
	require.Empty(t, table.ExpiredSlots())
}

func TestExpiredLaggard(t *testing.T) {
	table := NewReservations(nil, 3, 5)

	// Normal rates 1000, 1000 and 10 events per microsecond.
	table.Get(0).setRate(Performance{Events: 1000, Window: 1})
	table.Get(1).setRate(Performance{Events: 1000, Window: 1})
	table.Get(2).setRate(Performance{Events: 10, Window: 1})

	stats := table.Rates()
	require.Equal(t, 3, stats.ActiveCount)
	require.InDelta(t, 670, stats.ArithmeticMean, 1)
	require.InDelta(t, 467, stats.StandardDeviation, 1)

	require.False(t, table.Get(0).Expired())
	require.False(t, table.Get(1).Expired())
	require.True(t, table.Get(2).Expired())
	require.Equal(t, []uint64{2}, table.ExpiredSlots())
}

func TestExpiredTwoChannelHysteresis(t *testing.T) {
	table := NewReservations(nil, 2, 5)

	// With two channels the deviation always equals the standard deviation;
	// the 1.01 multiple keeps both inside the envelope.
	table.Get(0).setRate(Performance{Events: 900, Window: 1})
	table.Get(1).setRate(Performance{Events: 1100, Window: 1})

	require.False(t, table.Get(0).Expired())
	require.False(t, table.Get(1).Expired())
}

func TestPopulateFromMaximal(t *testing.T) {
	table := NewReservations(testBatch(t, 0, 9), 3, 5)
	empty := table.Get(0)
	drainRow(t, empty)

	require.True(t, table.Populate(empty))
	require.GreaterOrEqual(t, empty.Size(), 1)
}

func TestPopulateLeavesCompletedTableAlone(t *testing.T) {
	// One entry left in the fleet: the download is effectively complete.
	table := NewReservations(testBatch(t, 0, 1), 2, 5)
	require.False(t, table.Populate(table.Get(1)))
	require.True(t, table.Get(1).Empty())
}

func TestPopulateStoppedRowIsNoop(t *testing.T) {
	table := NewReservations(testBatch(t, 0, 8), 2, 5)
	row := table.Get(0)
	drainRow(t, row)

	row.Stop()
	require.False(t, table.Populate(row))
	require.True(t, row.Empty())
}

func TestPopulateRepartitionsAndConserves(t *testing.T) {
	table := NewReservations(testBatch(t, 0, 8), 2, 5)
	row := table.Get(0)
	other := table.Get(1)
	drainRow(t, row)

	before := other.Size()
	require.True(t, table.Populate(row))

	require.Equal(t, before, row.Size()+other.Size())
	require.GreaterOrEqual(t, row.Size(), 1)
	require.True(t, row.Pending())

	// The source retains the larger half and restarts its channel.
	require.True(t, other.TogglePartitioned())
}

func TestReserveRejectsDuplicates(t *testing.T) {
	table := NewReservations(nil, 2, 5)
	blk := testBlock(t, 3)

	require.True(t, table.Reserve(blk.Hash(), 3))
	require.False(t, table.Reserve(blk.Hash(), 3))
	require.Equal(t, 1, table.Outstanding())
}

func TestReserveBalancesRows(t *testing.T) {
	table := NewReservations(testBatch(t, 0, 3), 2, 5)
	// Rows hold 2 and 1 entries; the next reservation lands on the emptier.
	blk := testBlock(t, 50)
	require.True(t, table.Reserve(blk.Hash(), 50))
	require.Equal(t, 2, table.Get(1).Size())
}

func TestOutstandingMatchesRowUnion(t *testing.T) {
	table := NewReservations(testBatch(t, 0, 12), 3, 5)

	total := 0
	for _, row := range table.Rows() {
		total += row.Size()
	}
	require.Equal(t, total, table.Outstanding())

	// Partitioning moves work between rows without changing the union.
	victim := table.Get(uint64(table.Size() - 1))
	drainRow(t, victim)
	require.True(t, table.Get(0).Partition(victim))
	total = 0
	for _, row := range table.Rows() {
		total += row.Size()
	}
	require.Equal(t, total, table.Outstanding())
}

// drainRow imports every block a row holds, emptying it without touching the
// rest of the table.
func drainRow(tb testing.TB, row *Reservation) {
	tb.Helper()
	chain := &fakeChain{}
	row.Stop()
	for _, height := range queuedHeights(row) {
		row.Import(chain, testBlock(tb, height))
	}
	row.Start()
	require.True(tb, row.Empty())
}
