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

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")

	saved := Config{
		NodeCfg: NodeConfig{
			DataDir: "/tmp/emc",
			Metrics: true,
		},
		LoggerCfg: LoggerConfig{
			LogFile: "emc.log",
			Level:   "debug",
			MaxSize: 10,
		},
		SyncCfg: SyncConfig{
			DownloadConnections: 4,
			BlockLatencySeconds: 30,
			BlockBatchLimit:     32,
			ExpirySeconds:       5,
		},
	}
	require.NoError(t, SaveConfigToFile(file, saved))

	var loaded Config
	require.NoError(t, LoadConfigFromFile(file, &loaded))
	require.Equal(t, saved, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	var cfg Config
	require.Error(t, LoadConfigFromFile("", &cfg))
	require.Error(t, LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))
}

func TestDefaultSyncConfig(t *testing.T) {
	cfg := DefaultSyncConfig()
	require.Equal(t, 8, cfg.DownloadConnections)
	require.EqualValues(t, 60, cfg.BlockLatencySeconds)
}
