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

	"github.com/libp2p/go-libp2p/core/peer"
)

// supervise periodically restarts partitioned channels, evicts statistical
// laggards and reports progress. Eviction is relative: a channel expires only
// when its rate deviates below the fleet mean by more than the allowed
// envelope, never on absolute latency.
func (d *Downloader) supervise() {
	interval := time.Duration(d.syncCfg.ExpirySeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	sweep := time.NewTicker(peerLocksPollingInterval)
	defer sweep.Stop()

	for {
		select {
		case <-d.ctx.Done():
			log.Debug("Context closed, exiting goroutine (downloader supervisor)")
			return
		case <-sweep.C:
			d.removeStalePeerLocks(peerLockMaxAge)
		case <-ticker.C:
			d.checkChannels()
			log.Info("Download progress",
				"imported/20s", d.counter.Rate(),
				"outstanding", d.table.Outstanding(),
			)
		}
	}
}

// checkChannels runs one supervision pass over every reservation.
func (d *Downloader) checkChannels() {
	for _, row := range d.table.Rows() {
		// A partition left residual work in this row; stop and restart its
		// channel so the next request re-emits the remaining queue cleanly.
		if row.TogglePartitioned() {
			log.Debug("Restarting partitioned channel", "slot", row.Slot())
			d.restart(row)
			continue
		}

		if row.Expired() {
			expirationMeter.Mark(1)
			log.Warn("Dropping slow channel", "slot", row.Slot())
			d.expire(row)
		}
	}
}

// owner returns the live session bound to the row, if any.
func (d *Downloader) owner(row *Reservation) *channel {
	d.lock.Lock()
	defer d.lock.Unlock()

	id, ok := d.assignments[row.Slot()]
	if !ok {
		return nil
	}
	return d.channels[id]
}

// restart stops the row's session and rebinds the same peer once the session
// has drained, so the fresh channel re-requests with a clean rate window.
func (d *Downloader) restart(row *Reservation) {
	c := d.owner(row)
	if c == nil {
		return
	}
	id := c.id
	c.stop()

	go func(id peer.ID, done <-chan struct{}) {
		<-done
		if d.ctx.Err() != nil {
			return
		}
		if err := d.Connect(id); err != nil {
			log.Debug("Could not rebind peer after partition", "peer", id, "err", err)
		}
	}(id, c.done)
}

// expire stops the row's session and drops the peer. The row keeps its
// hashes; the next connecting peer picks them up.
func (d *Downloader) expire(row *Reservation) {
	c := d.owner(row)
	if c == nil {
		return
	}
	id := c.id
	c.stop()

	go func(id peer.ID, done <-chan struct{}) {
		<-done
		d.requester.DropPeer(id)
	}(id, c.done)
}
