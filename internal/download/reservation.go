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
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/emberchain/emc/common"
	"github.com/emberchain/emc/common/block"
	"github.com/emberchain/emc/common/message"
	"github.com/emberchain/emc/common/types"
	"github.com/google/btree"
	"go.uber.org/atomic"
)

const (
	// multiple is the allowed number of standard deviations below the norm.
	// With one channel the multiple is irrelevant, no channels are dropped.
	// With two channels a multiple above 1.0 prevents drops caused by rounding
	// fluctuation; with three or more it bounds allowed deviation from the norm.
	multiple = 1.01

	// minimumHistory is the minimum amount of import history required to move
	// the rate out of idle.
	minimumHistory = 3

	// microPerSecond converts traced microseconds to reported seconds.
	microPerSecond = 1000 * 1000
)

// heightEntry is one (height, hash) pair in the ascending-height index.
type heightEntry struct {
	height uint64
	hash   types.Hash
}

func heightLess(a, b heightEntry) bool {
	return a.height < b.height
}

// Reservation is a per-channel download lane: the set of block hashes the
// channel currently owns, together with a sliding-window performance record.
// A given hash belongs to exactly one reservation at any time; hashes move
// between reservations only through Partition and leave only through Import.
type Reservation struct {
	table *Reservations // back-reference, statistics, repopulation and release only

	slot       uint64
	rateWindow time.Duration

	hashMu      sync.RWMutex
	heights     map[types.Hash]uint64
	byHeight    *btree.BTreeG[heightEntry]
	pending     bool
	partitioned bool

	rateMu sync.RWMutex
	rate   Performance

	historyMu sync.Mutex
	history   []performanceSample

	stopped *atomic.Bool
}

func newReservation(table *Reservations, slot uint64, blockLatencySeconds uint32) *Reservation {
	return &Reservation{
		table:      table,
		slot:       slot,
		rateWindow: time.Duration(minimumHistory*blockLatencySeconds) * time.Second,
		heights:    make(map[types.Hash]uint64),
		byHeight:   btree.NewG[heightEntry](2, heightLess),
		pending:    true,
		rate:       Performance{Idle: true},
		stopped:    atomic.NewBool(false),
	}
}

// Slot returns the immutable identifier of this reservation.
func (r *Reservation) Slot() uint64 {
	return r.slot
}

func (r *Reservation) Pending() bool {
	r.hashMu.RLock()
	defer r.hashMu.RUnlock()

	return r.pending
}

func (r *Reservation) SetPending(value bool) {
	r.hashMu.Lock()
	defer r.hashMu.Unlock()

	r.pending = value
}

// RateWindow is the sliding interval over which throughput is averaged.
func (r *Reservation) RateWindow() time.Duration {
	return r.rateWindow
}

// Rate methods.

// Reset sets idle state true and clears rate and history, but leaves hashes
// unchanged.
func (r *Reservation) Reset() {
	r.setRate(Performance{Idle: true})
	r.clearHistory()
}

// Idle is a shortcut for Rate().Idle.
func (r *Reservation) Idle() bool {
	r.rateMu.RLock()
	defer r.rateMu.RUnlock()

	return r.rate.Idle
}

func (r *Reservation) setRate(rate Performance) {
	r.rateMu.Lock()
	defer r.rateMu.Unlock()

	r.rate = rate
}

// Rate returns a copy of the current performance record.
func (r *Reservation) Rate() Performance {
	r.rateMu.RLock()
	defer r.rateMu.RUnlock()

	return r.rate
}

// Expired returns true iff this reservation's normal rate is below the fleet
// average by more than the allowed standard-deviation envelope. Idleness is
// not tested here: an idle reservation's normal rate is zero, so once two or
// more rows are active it is compared like any other row.
func (r *Reservation) Expired() bool {
	record := r.Rate()
	normal := record.Normal()
	statistics := r.table.Rates()
	if statistics.ActiveCount < 2 {
		return false
	}
	deviation := normal - statistics.ArithmeticMean
	absoluteDeviation := math.Abs(deviation)
	allowedDeviation := multiple * statistics.StandardDeviation
	outlier := absoluteDeviation > allowedDeviation
	belowAverage := deviation < 0
	expired := belowAverage && outlier

	log.Trace("Statistics for slot",
		"slot", r.slot,
		"adj", normal*microPerSecond,
		"avg", statistics.ArithmeticMean*microPerSecond,
		"sdv", statistics.StandardDeviation*microPerSecond,
		"cnt", statistics.ActiveCount,
		"exp", expired,
	)

	return expired
}

func (r *Reservation) clearHistory() {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()

	r.history = r.history[:0]
}

// updateRate records one import observation and republishes the rate cache.
// It is possible to get a rate update after idling and before starting anew;
// this can reduce the average during startup of the new channel until start.
func (r *Reservation) updateRate(events uint64, cost time.Duration) {
	r.historyMu.Lock()

	end := time.Now()
	eventStart := end.Add(-cost)
	windowStart := end.Add(-r.rateWindow)
	historyCount := len(r.history)

	// Remove expired entries from the head of the queue, history is
	// insertion ordered.
	keep := 0
	for keep < len(r.history) && r.history[keep].time.Before(windowStart) {
		keep++
	}
	r.history = r.history[keep:]

	windowFull := historyCount > len(r.history)
	r.history = append(r.history, performanceSample{
		events:   events,
		database: uint64(cost.Microseconds()),
		time:     eventStart,
	})

	// The rate cannot be set until there is a period to measure it over.
	if len(r.history) < minimumHistory {
		r.historyMu.Unlock()
		return
	}

	rate := Performance{}
	for _, sample := range r.history {
		rate.Events += sample.events
		rate.Database += sample.database
	}

	window := r.rateWindow
	if !windowFull {
		window = end.Sub(r.history[0].time)
	}
	rate.Window = uint64(window.Microseconds())

	r.historyMu.Unlock()

	r.setRate(rate)
}

// Hash methods.

func (r *Reservation) Empty() bool {
	r.hashMu.RLock()
	defer r.hashMu.RUnlock()

	return len(r.heights) == 0
}

func (r *Reservation) Size() int {
	r.hashMu.RLock()
	defer r.hashMu.RUnlock()

	return len(r.heights)
}

func (r *Reservation) Start() {
	r.stopped.Store(false)
}

// Stop clears the performance state but retains hashes, so the remaining work
// can be handed to the next channel by the table.
func (r *Reservation) Stop() {
	r.stopped.Store(true)
	r.Reset()
}

func (r *Reservation) Stopped() bool {
	return r.stopped.Load()
}

// Request obtains the outstanding inventory request. A new channel clears
// history and rate data first. If the channel is not new and nothing is
// pending, the packet is empty and state is unmodified. Hashes are not
// consumed by the request, they leave the reservation only on import.
func (r *Reservation) Request(newChannel bool) *message.GetData {
	packet := message.NewGetData()

	if newChannel {
		r.Reset()
	}

	r.hashMu.Lock()
	defer r.hashMu.Unlock()

	if !newChannel && !r.pending {
		return packet
	}

	// Build the request in ascending height order, so the peer is asked for
	// the oldest blocks first.
	r.byHeight.Ascend(func(entry heightEntry) bool {
		packet.AddInvVect(message.NewInvVect(message.InvTypeBlock, entry.hash))
		return true
	})

	r.pending = false
	return packet
}

// Insert adds a hash-height pair and flags the reservation pending.
func (r *Reservation) Insert(hash types.Hash, height uint64) {
	r.hashMu.Lock()
	defer r.hashMu.Unlock()

	r.pending = true
	r.heights[hash] = height
	r.byHeight.ReplaceOrInsert(heightEntry{height: height, hash: hash})
}

// Import persists the given block through the chain store, accounting the
// store cost against this reservation's performance window. Unsolicited
// blocks are discarded; a peer may legitimately deliver a block after its
// hash was reassigned to another slot by partition.
func (r *Reservation) Import(chain common.SafeChain, blk block.IBlock) {
	hash := blk.Hash()

	height, ok := r.findHeightAndErase(hash)
	if !ok {
		blockUnsolicitedMeter.Mark(1)
		log.Debug("Ignoring unsolicited block", "slot", r.slot, "hash", hash)
		return
	}

	// The store call is the dominant cost, run it with no slot locks held.
	begin := time.Now()
	success := chain.Update(blk, height)
	cost := time.Since(begin)
	importTimer.Update(cost)

	if success {
		const unitSize = 1
		r.updateRate(unitSize, cost)
		blockImportMeter.Mark(1)
		record := r.Rate()
		log.Info(fmt.Sprintf("Imported block #%06d (%02d) [%s] %06.2f %05.2f%%",
			height, r.slot, hash.TerminalString(),
			record.Total()*microPerSecond, record.Ratio()*100))
	} else {
		blockRejectMeter.Mark(1)
		log.Debug("Stopped before importing block", "slot", r.slot, "hash", hash)
	}

	r.populate()
}

// populate asks the table to refill this reservation once it drains. Against
// a stopped reservation this is a no-op, which also covers an in-flight
// import completing after Stop.
func (r *Reservation) populate() {
	if !r.stopped.Load() && r.Empty() {
		r.table.Populate(r)
	}
}

// TogglePartitioned clears a pending partition flag, marking the remaining
// queue pending again. A true return signals the supervisor to stop the
// owning channel so the refilled queue is re-requested cleanly.
func (r *Reservation) TogglePartitioned() bool {
	r.hashMu.Lock()
	defer r.hashMu.Unlock()

	if r.partitioned {
		r.pending = true
		r.partitioned = false
		return true
	}

	return false
}

// Partition gives the minimal reservation about half of our hashes, and
// returns false if minimal remains empty. Callers must hold the table mutex
// and guarantee that minimal's channel is not running.
func (r *Reservation) Partition(minimal *Reservation) bool {
	if !minimal.Empty() {
		return true
	}

	r.hashMu.Lock()
	minimal.hashMu.Lock()

	// Take half of the maximal reservation, rounding up to get the last entry.
	offset := (len(r.heights) + 1) / 2

	for index := 0; index < offset; index++ {
		entry, ok := r.byHeight.DeleteMin()
		if !ok {
			break
		}
		delete(r.heights, entry.hash)
		minimal.heights[entry.hash] = entry.height
		minimal.byHeight.ReplaceOrInsert(entry)
	}

	// residual is set when the source still retains the larger half. The
	// supervisor then stops and restarts the channel so its next request
	// re-emits the remaining queue cleanly.
	residual := len(r.heights) != 0
	populated := len(minimal.heights) != 0
	r.partitioned = residual
	minimal.pending = populated

	minimal.hashMu.Unlock()
	r.hashMu.Unlock()

	if residual {
		// The workload changed materially, the accumulated rate is void.
		r.Reset()
	}

	if populated {
		partitionMeter.Mark(1)
		log.Debug("Moved blocks between slots",
			"count", minimal.Size(), "from", r.slot, "to", minimal.slot, "leaving", r.Size())
	}

	return populated
}

// findHeightAndErase removes the hash from both projections, releasing it
// from the table's outstanding set as well.
func (r *Reservation) findHeightAndErase(hash types.Hash) (uint64, bool) {
	r.hashMu.Lock()

	height, ok := r.heights[hash]
	if !ok {
		r.hashMu.Unlock()
		return 0, false
	}

	delete(r.heights, hash)
	r.byHeight.Delete(heightEntry{height: height, hash: hash})
	r.hashMu.Unlock()

	r.table.release(hash)
	return height, true
}
