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

package main

import (
	"github.com/emberchain/emc/conf"
	cli "github.com/urfave/cli/v2"
)

var DefaultConfig = conf.Config{
	NodeCfg: conf.NodeConfig{
		DataDir:     "./emc/",
		MetricsAddr: "127.0.0.1:20060",
	},
	LoggerCfg: conf.LoggerConfig{
		LogFile:    "emc.log",
		Level:      "info",
		MaxSize:    10,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   false,
	},
	PprofCfg: conf.PprofConfig{
		Port: 20033,
	},
	SyncCfg: conf.DefaultSyncConfig(),
}

// mergeFlags folds flags that cannot carry a typed destination into the
// config after parsing.
func mergeFlags(ctx *cli.Context, config *conf.Config) {
	if ctx.IsSet("sync.blockLatency") {
		config.SyncCfg.BlockLatencySeconds = uint32(ctx.Uint("sync.blockLatency"))
	}
}
