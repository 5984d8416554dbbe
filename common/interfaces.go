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

package common

import (
	"context"

	"github.com/emberchain/emc/common/block"
	"github.com/emberchain/emc/common/message"
	"github.com/emberchain/emc/common/types"
	"github.com/libp2p/go-libp2p/core/peer"
)

// SafeChain is the chain store consumed by the downloader. Update persists
// the block at the requested height; any other outcome is reported as false.
type SafeChain interface {
	CurrentBlock() block.IBlock
	Update(blk block.IBlock, height uint64) bool
}

// BlockRequester is the outer wire surface. It frames and transmits an
// inventory request to the given peer; blocks arrive asynchronously through
// the downloader's delivery path.
type BlockRequester interface {
	RequestBlocks(ctx context.Context, id peer.ID, packet *message.GetData) error
	DropPeer(id peer.ID)
}

// HashHeight is one unit of outstanding download work, produced by the
// header-sync component.
type HashHeight struct {
	Hash   types.Hash
	Height uint64
}

// HeaderBatch is the initial height list handed to the downloader. Callers
// provide it in ascending height order.
type HeaderBatch []HashHeight

// DownloaderStartEvent and DownloaderFinishEvent bracket a download run.
type DownloaderStartEvent struct{}
type DownloaderFinishEvent struct{}
