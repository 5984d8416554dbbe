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

	"github.com/emberchain/emc/common/block"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.opencensus.io/trace"
)

// channel is one peer's download session, bound to a reservation for the
// session's lifetime. The channel goroutine is the only caller of Import on
// its reservation, which serializes the find-erase-update sequence without
// further locking.
type channel struct {
	downloader *Downloader
	id         peer.ID
	row        *Reservation

	blocks chan block.IBlock
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newChannel(d *Downloader, id peer.ID, row *Reservation, buffer int) *channel {
	if buffer < 1 {
		buffer = 1
	}
	return &channel{
		downloader: d,
		id:         id,
		row:        row,
		blocks:     make(chan block.IBlock, buffer),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// deliver hands a received block to the channel goroutine. It reports false
// when the session is shutting down or saturated; DeliverBlock treats both
// as backpressure, not as errors.
func (c *channel) deliver(blk block.IBlock) bool {
	select {
	case <-c.quit:
		return false
	case c.blocks <- blk:
		return true
	default:
		return false
	}
}

func (c *channel) stop() {
	c.once.Do(func() {
		close(c.quit)
	})
}

// run drives the request and import loop until the session stops. The first
// request announces a new channel, which voids any stale rate state left by
// a previous owner of the slot.
func (c *channel) run(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "download.channel.run")
	defer span.End()

	c.row.Start()
	defer c.row.Stop()

	newChannel := true
	for {
		if err := c.downloader.requestBlocks(ctx, c.id, c.row, newChannel); err != nil {
			return err
		}
		newChannel = false

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.quit:
			return nil
		case blk := <-c.blocks:
			hash := blk.Hash()
			owned := c.downloader.table.IsOutstanding(hash)
			c.row.Import(c.downloader.chain, blk)
			if owned && !c.downloader.table.IsOutstanding(hash) {
				c.downloader.markImported(hash)
			}
		}
	}
}
