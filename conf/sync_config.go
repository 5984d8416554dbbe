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

package conf

type SyncConfig struct {
	// DownloadConnections is the number of parallel block-download channels.
	DownloadConnections int `json:"download_connections" yaml:"download_connections"`
	// BlockLatencySeconds is the expected seconds to receive and store one
	// block; it sizes each channel's sliding performance window.
	BlockLatencySeconds uint32 `json:"block_latency_seconds" yaml:"block_latency_seconds"`
	// BlockBatchLimit sizes each channel's buffer of delivered blocks awaiting
	// import. Inventory requests are not capped by it: a request lists every
	// hash the channel's reservation holds.
	BlockBatchLimit int `json:"block_batch_limit" yaml:"block_batch_limit"`
	// ExpirySeconds is the supervisor poll period for slow-channel eviction.
	ExpirySeconds int `json:"expiry_seconds" yaml:"expiry_seconds"`
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		DownloadConnections: 8,
		BlockLatencySeconds: 60,
		BlockBatchLimit:     64,
		ExpirySeconds:       5,
	}
}
