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

package node

import (
	"context"

	"github.com/emberchain/emc/common"
	"github.com/emberchain/emc/conf"
	"github.com/emberchain/emc/internal/download"
	"github.com/emberchain/emc/internal/metrics"
	emclog "github.com/emberchain/emc/log"
	"github.com/pkg/errors"
)

var log = emclog.New("prefix", "node")

var (
	errNoChainStore = errors.New("no chain store registered")
	errNoRequester  = errors.New("no block requester registered")
)

// Node assembles the download subsystem with its contracted collaborators.
// The chain store and the wire layer are registered by the embedding
// process; this package owns only their composition.
type Node struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *conf.Config

	chain     common.SafeChain
	requester common.BlockRequester

	downloader *download.Downloader
}

func NewNode(ctx context.Context, cfg *conf.Config) (*Node, error) {
	ctx, cancel := context.WithCancel(ctx)
	return &Node{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
	}, nil
}

// SetChain registers the chain store the downloader imports into.
func (n *Node) SetChain(chain common.SafeChain) {
	n.chain = chain
}

// SetRequester registers the wire layer that frames inventory requests.
func (n *Node) SetRequester(requester common.BlockRequester) {
	n.requester = requester
}

// StartDownload boots the downloader over the header batch produced by the
// header-sync component.
func (n *Node) StartDownload(batch common.HeaderBatch) error {
	if n.chain == nil {
		return errNoChainStore
	}
	if n.requester == nil {
		return errNoRequester
	}

	if n.cfg.NodeCfg.Metrics {
		metrics.Setup(n.cfg.NodeCfg.MetricsAddr, log)
	}

	n.downloader = download.NewDownloader(n.ctx, n.chain, n.requester, batch, n.cfg.SyncCfg)
	log.Info("Starting block download",
		"blocks", len(batch),
		"connections", n.cfg.SyncCfg.DownloadConnections,
		"blockLatency", n.cfg.SyncCfg.BlockLatencySeconds,
	)
	return n.downloader.Start()
}

// Downloader exposes the running downloader to the wire layer, which feeds
// peer connects and block deliveries into it.
func (n *Node) Downloader() *download.Downloader {
	return n.downloader
}

func (n *Node) Close() {
	n.cancel()
	if n.downloader != nil {
		if err := n.downloader.Stop(); err != nil {
			log.Error("Downloader stopped with error", "err", err)
		}
	}
}
