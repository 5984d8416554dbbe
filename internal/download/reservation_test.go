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
	"sync"
	"testing"
	"time"

	"github.com/emberchain/emc/common"
	"github.com/emberchain/emc/common/block"
	"github.com/emberchain/emc/common/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// fakeChain records update calls and can be told to reject everything.
type fakeChain struct {
	mu      sync.Mutex
	updates []uint64
	reject  bool
	delay   time.Duration
}

func (c *fakeChain) CurrentBlock() block.IBlock { return nil }

func (c *fakeChain) Update(blk block.IBlock, height uint64) bool {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reject {
		return false
	}
	c.updates = append(c.updates, height)
	return true
}

func (c *fakeChain) imported() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint64, len(c.updates))
	copy(out, c.updates)
	return out
}

func testBlock(tb testing.TB, number uint64) *block.Block {
	tb.Helper()
	header := &block.Header{
		Number: uint256.NewInt(number),
		Time:   number,
		Extra:  []byte{byte(number), byte(number >> 8)},
	}
	return block.NewBlock(header, nil)
}

// testTable builds a table with the given parallelism and no initial work.
func testTable(connections int) *Reservations {
	return NewReservations(nil, connections, 5)
}

// queuedHeights lists a reservation's queue in iteration order.
func queuedHeights(r *Reservation) []uint64 {
	heights := make([]uint64, 0, r.Size())
	r.hashMu.RLock()
	r.byHeight.Ascend(func(entry heightEntry) bool {
		heights = append(heights, entry.height)
		return true
	})
	r.hashMu.RUnlock()
	return heights
}

func TestRequestAscendingOrder(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)

	hashA := types.HexToHash("0xa1")
	hashB := types.HexToHash("0xb2")
	hashC := types.HexToHash("0xc3")
	row.Insert(hashC, 3)
	row.Insert(hashA, 1)
	row.Insert(hashB, 2)

	packet := row.Request(true)
	require.Len(t, packet.Inventories, 3)
	require.Equal(t, hashA, packet.Inventories[0].Hash)
	require.Equal(t, hashB, packet.Inventories[1].Hash)
	require.Equal(t, hashC, packet.Inventories[2].Hash)

	// The request does not consume the queue.
	require.Equal(t, 3, row.Size())
}

func TestRequestClearsPending(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)
	row.Insert(types.HexToHash("0x01"), 1)

	require.True(t, row.Pending())
	first := row.Request(false)
	require.Len(t, first.Inventories, 1)
	require.False(t, row.Pending())

	// Without an intervening insert or partition the second request is empty.
	second := row.Request(false)
	require.Empty(t, second.Inventories)
}

func TestRequestNewChannelResets(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)
	row.Insert(types.HexToHash("0x01"), 1)

	for i := 0; i < minimumHistory; i++ {
		row.updateRate(1, 100*time.Microsecond)
	}
	require.False(t, row.Idle())

	packet := row.Request(true)
	require.Len(t, packet.Inventories, 1)
	require.True(t, row.Idle())
}

func TestUpdateRateProgression(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)

	cost := 100 * time.Millisecond
	row.updateRate(1, cost)
	require.True(t, row.Idle())
	time.Sleep(50 * time.Millisecond)
	row.updateRate(1, cost)
	require.True(t, row.Idle())
	time.Sleep(50 * time.Millisecond)
	row.updateRate(1, cost)

	record := row.Rate()
	require.False(t, record.Idle)
	require.EqualValues(t, 3, record.Events)
	require.EqualValues(t, 3*cost.Microseconds(), record.Database)

	// The window is not yet full, so it spans from the first sample.
	require.Greater(t, record.Window, uint64((cost + 100*time.Millisecond).Microseconds()))
	require.Less(t, record.Window, uint64(row.RateWindow().Microseconds()))
}

func TestUpdateRatePrunesExpiredHistory(t *testing.T) {
	table := NewReservations(nil, 1, 0)
	row := table.Get(0)
	// A zero-latency window expires every prior sample immediately, so the
	// history never grows past one entry and the rate stays idle.
	for i := 0; i < 5; i++ {
		row.updateRate(1, time.Microsecond)
		time.Sleep(time.Millisecond)
	}
	require.True(t, row.Idle())
}

func TestResetKeepsHashes(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)
	row.Insert(types.HexToHash("0x01"), 1)
	for i := 0; i < minimumHistory; i++ {
		row.updateRate(1, time.Millisecond)
	}
	require.False(t, row.Idle())

	row.Reset()

	require.True(t, row.Idle())
	record := row.Rate()
	require.Zero(t, record.Events)
	require.Zero(t, record.Window)
	require.Equal(t, 1, row.Size())
}

func TestImportSuccess(t *testing.T) {
	table := testTable(2)
	row := table.Get(0)
	chain := &fakeChain{}

	blk := testBlock(t, 42)
	require.True(t, table.Reserve(blk.Hash(), 42))

	// Reserve assigns to the emptiest row, which is row 0 here.
	require.Equal(t, 1, row.Size())

	row.Import(chain, blk)

	require.Equal(t, []uint64{42}, chain.imported())
	require.True(t, row.Empty())
	require.False(t, table.IsOutstanding(blk.Hash()))
}

func TestImportUnsolicited(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)
	chain := &fakeChain{}

	known := types.HexToHash("0x0a")
	row.Insert(known, 10)

	row.Import(chain, testBlock(t, 99))

	require.Empty(t, chain.imported())
	require.Equal(t, []uint64{10}, queuedHeights(row))
	require.True(t, row.Idle())
}

func TestImportRejectedByStore(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)
	chain := &fakeChain{reject: true}

	blk := testBlock(t, 7)
	row.Insert(blk.Hash(), 7)

	row.Import(chain, blk)

	// The hash was claimed before the store call; the rejection only skips
	// the performance sample.
	require.True(t, row.Empty())
	require.True(t, row.Idle())
}

func TestStopRetainsHashesAndIdles(t *testing.T) {
	table := testTable(1)
	row := table.Get(0)
	row.Insert(types.HexToHash("0x01"), 1)
	for i := 0; i < minimumHistory; i++ {
		row.updateRate(1, time.Millisecond)
	}

	row.Stop()

	require.True(t, row.Stopped())
	require.True(t, row.Idle())
	require.Equal(t, 1, row.Size())

	row.Start()
	require.False(t, row.Stopped())
}

func TestPartitionTransfersHalf(t *testing.T) {
	table := testTable(2)
	source := table.Get(0)
	destination := table.Get(1)

	for height := uint64(1); height <= 5; height++ {
		blk := testBlock(t, height)
		source.Insert(blk.Hash(), height)
	}

	require.True(t, source.Partition(destination))

	require.Equal(t, []uint64{1, 2, 3}, queuedHeights(destination))
	require.Equal(t, []uint64{4, 5}, queuedHeights(source))
	require.True(t, destination.Pending())

	// The source retains residual work and must be restarted.
	require.True(t, source.TogglePartitioned())
	require.False(t, source.TogglePartitioned())
	require.True(t, source.Pending())
}

func TestPartitionIntoPopulatedDestination(t *testing.T) {
	table := testTable(2)
	source := table.Get(0)
	destination := table.Get(1)

	source.Insert(types.HexToHash("0x01"), 1)
	destination.Insert(types.HexToHash("0x02"), 2)

	// The destination is not empty: the caller raced, nothing moves.
	require.True(t, source.Partition(destination))
	require.Equal(t, 1, source.Size())
	require.Equal(t, 1, destination.Size())
}

func TestPartitionConservesEntries(t *testing.T) {
	table := testTable(2)
	source := table.Get(0)
	destination := table.Get(1)

	const total = 9
	for height := uint64(0); height < total; height++ {
		source.Insert(testBlock(t, height).Hash(), height)
	}

	require.True(t, source.Partition(destination))
	require.Equal(t, total, source.Size()+destination.Size())
	require.GreaterOrEqual(t, destination.Size(), 1)
}

func TestImportAfterStopDoesNotRepopulate(t *testing.T) {
	table := testTable(2)
	row := table.Get(0)
	other := table.Get(1)
	chain := &fakeChain{}

	blk := testBlock(t, 1)
	row.Insert(blk.Hash(), 1)
	for height := uint64(2); height <= 6; height++ {
		other.Insert(testBlock(t, height).Hash(), height)
	}

	row.Stop()
	row.Import(chain, blk)

	// The in-flight import completes, but the drained row is not refilled.
	require.Equal(t, []uint64{1}, chain.imported())
	require.True(t, row.Empty())
	require.Equal(t, 5, other.Size())
}

var _ common.SafeChain = (*fakeChain)(nil)
