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
	"context"
	"sync"
	"time"

	"github.com/emberchain/emc/common"
	"github.com/emberchain/emc/common/block"
	"github.com/emberchain/emc/common/types"
	"github.com/emberchain/emc/conf"
	lru "github.com/hashicorp/golang-lru"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/paulbellamy/ratecounter"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// counterSeconds is an interval over which an average import rate will be
	// calculated for progress reporting.
	counterSeconds = 20
	// peerLocksPollingInterval is a polling interval for checking if there are
	// stale peer locks.
	peerLocksPollingInterval = 5 * time.Minute
	// peerLockMaxAge is maximum time before a stale lock is purged.
	peerLockMaxAge = 60 * time.Minute
	// seenBlocksCacheSize bounds the cache that suppresses duplicate
	// deliveries of already imported blocks.
	seenBlocksCacheSize = 4096
)

var (
	errDownloaderCtxIsDone = errors.New("downloader's context is done, reinitialize")
	errNoFreeSlot          = errors.New("no free download slot for peer")
	errUnknownPeer         = errors.New("block delivery from unknown peer")
)

// peerLock restricts downloader actions on a per peer basis. Currently used
// to serialize outbound inventory requests.
type peerLock struct {
	sync.Mutex
	accessed time.Time
}

// Downloader coordinates the parallel block download: one reservation per
// channel, channels bound to connected peers, and a supervisor that evicts
// statistical laggards and restarts partitioned channels.
type Downloader struct {
	ctx    context.Context
	cancel context.CancelFunc

	chain     common.SafeChain
	requester common.BlockRequester
	table     *Reservations
	syncCfg   conf.SyncConfig

	counter *ratecounter.RateCounter
	seen    *lru.Cache

	lock        sync.Mutex
	channels    map[peer.ID]*channel
	assignments map[uint64]peer.ID
	peerLocks   map[peer.ID]*peerLock

	group *errgroup.Group
}

// NewDownloader creates a ready to use downloader over the given header
// batch. The batch is striped across the configured number of channels.
func NewDownloader(ctx context.Context, chain common.SafeChain, requester common.BlockRequester,
	batch common.HeaderBatch, syncCfg conf.SyncConfig) *Downloader {

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	seen, _ := lru.New(seenBlocksCacheSize)

	return &Downloader{
		ctx:         ctx,
		cancel:      cancel,
		chain:       chain,
		requester:   requester,
		table:       NewReservations(batch, syncCfg.DownloadConnections, syncCfg.BlockLatencySeconds),
		syncCfg:     syncCfg,
		counter:     ratecounter.NewRateCounter(counterSeconds * time.Second),
		seen:        seen,
		channels:    make(map[peer.ID]*channel),
		assignments: make(map[uint64]peer.ID),
		peerLocks:   make(map[peer.ID]*peerLock),
		group:       group,
	}
}

// Table exposes the reservation table to the header-sync component, which
// reserves freshly announced work through it.
func (d *Downloader) Table() *Reservations {
	return d.table
}

// Start boots the supervisor. Channels are attached as peers connect.
func (d *Downloader) Start() error {
	select {
	case <-d.ctx.Done():
		return errDownloaderCtxIsDone
	default:
		d.group.Go(func() error {
			d.supervise()
			return nil
		})
		return nil
	}
}

// Stop terminates all downloader operations and waits for the channel
// goroutines to drain.
func (d *Downloader) Stop() error {
	d.cancel()
	err := d.group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Connect binds the peer to a free reservation and starts its download
// session. Peers beyond the configured parallelism are rejected.
func (d *Downloader) Connect(id peer.ID) error {
	if d.ctx.Err() != nil {
		return errDownloaderCtxIsDone
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if _, ok := d.channels[id]; ok {
		return nil
	}

	row := d.freeRow()
	if row == nil {
		return errors.Wrapf(errNoFreeSlot, "peer %s", id.String())
	}

	c := newChannel(d, id, row, d.syncCfg.BlockBatchLimit)
	d.channels[id] = c
	d.assignments[row.Slot()] = id

	d.group.Go(func() error {
		defer close(c.done)
		defer d.detach(c)
		if err := c.run(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug("Channel closed", "peer", c.id, "slot", c.row.Slot(), "err", err)
		}
		return nil
	})

	log.Debug("Peer attached to slot", "peer", id, "slot", row.Slot())
	return nil
}

// Disconnect stops the peer's session; its reservation keeps the remaining
// hashes for the next owner.
func (d *Downloader) Disconnect(id peer.ID) {
	d.lock.Lock()
	c := d.channels[id]
	d.lock.Unlock()
	if c != nil {
		c.stop()
	}
}

// DeliverBlock routes a block received from the wire to the owning channel.
func (d *Downloader) DeliverBlock(id peer.ID, blk block.IBlock) error {
	if hash := blk.Hash(); d.seen.Contains(hash) {
		log.Trace("Duplicate delivery of imported block", "peer", id, "hash", hash)
		return nil
	}

	d.lock.Lock()
	c := d.channels[id]
	d.lock.Unlock()

	if c == nil {
		return errors.Wrapf(errUnknownPeer, "peer %s", id.String())
	}
	if !c.deliver(blk) {
		log.Trace("Channel backpressure, dropping delivery", "peer", id, "hash", blk.Hash())
	}
	return nil
}

// markImported records a hash that just left the outstanding set, so later
// duplicate deliveries can be dropped before touching any reservation.
func (d *Downloader) markImported(hash types.Hash) {
	d.counter.Incr(1)
	d.seen.Add(hash, struct{}{})
}

// requestBlocks emits the reservation's outstanding inventory to the peer,
// serialized per peer.
func (d *Downloader) requestBlocks(ctx context.Context, id peer.ID, row *Reservation, newChannel bool) error {
	ctx, span := trace.StartSpan(ctx, "download.requestBlocks")
	defer span.End()

	packet := row.Request(newChannel)
	if packet.Empty() {
		return nil
	}

	l := d.peerLock(id)
	l.Lock()
	defer l.Unlock()

	log.Debug("Requesting blocks", "peer", id, "slot", row.Slot(), "count", len(packet.Inventories))
	return d.requester.RequestBlocks(ctx, id, packet)
}

// peerLock returns the lock for a given peer, creating it on first use.
func (d *Downloader) peerLock(id peer.ID) *peerLock {
	d.lock.Lock()
	defer d.lock.Unlock()
	if l, ok := d.peerLocks[id]; ok && l != nil {
		l.accessed = time.Now()
		return l
	}
	d.peerLocks[id] = &peerLock{
		Mutex:    sync.Mutex{},
		accessed: time.Now(),
	}
	return d.peerLocks[id]
}

// removeStalePeerLocks is a cleanup procedure which removes stale locks.
func (d *Downloader) removeStalePeerLocks(age time.Duration) {
	d.lock.Lock()
	defer d.lock.Unlock()
	for id, l := range d.peerLocks {
		if time.Since(l.accessed) >= age {
			l.Lock()
			delete(d.peerLocks, id)
			l.Unlock()
		}
	}
}

// freeRow finds a reservation without a live session. Callers hold d.lock.
func (d *Downloader) freeRow() *Reservation {
	for _, row := range d.table.Rows() {
		if _, taken := d.assignments[row.Slot()]; !taken {
			return row
		}
	}
	return nil
}

// detach unbinds a finished session from its slot.
func (d *Downloader) detach(c *channel) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.channels[c.id] == c {
		delete(d.channels, c.id)
	}
	if d.assignments[c.row.Slot()] == c.id {
		delete(d.assignments, c.row.Slot())
	}
}

// Synced reports whether no reserved hash is left in any reservation. Hashes
// whose block the chain store rejected count as done.
func (d *Downloader) Synced() bool {
	return d.table.Outstanding() == 0
}
