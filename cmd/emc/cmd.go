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
	cli "github.com/urfave/cli/v2"
)

var (
	cfgFile string
)

var nodeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "node.key",
		Usage:       "node private",
		Value:       "",
		Destination: &DefaultConfig.NodeCfg.NodePrivate,
	},
	&cli.StringFlag{
		Name:        "data.dir",
		Usage:       "data save dir",
		Value:       "./emc/",
		Destination: &DefaultConfig.NodeCfg.DataDir,
	},
	&cli.BoolFlag{
		Name:        "metrics",
		Usage:       "Enable metrics collection and reporting",
		Value:       false,
		Destination: &DefaultConfig.NodeCfg.Metrics,
	},
	&cli.StringFlag{
		Name:        "metrics.addr",
		Usage:       "Metrics reporting server listening address",
		Value:       "127.0.0.1:20060",
		Destination: &DefaultConfig.NodeCfg.MetricsAddr,
	},
}

var loggerFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "log.name",
		Usage:       "logger file name and path",
		Value:       "emc.log",
		Destination: &DefaultConfig.LoggerCfg.LogFile,
	},
	&cli.StringFlag{
		Name:        "log.level",
		Usage:       "logger output level (debug,info,warn,error)",
		Value:       "info",
		Destination: &DefaultConfig.LoggerCfg.Level,
	},
	&cli.IntFlag{
		Name:        "log.maxSize",
		Usage:       "logger file max size M",
		Value:       10,
		Destination: &DefaultConfig.LoggerCfg.MaxSize,
	},
	&cli.IntFlag{
		Name:        "log.maxBackups",
		Usage:       "logger file max backups",
		Value:       10,
		Destination: &DefaultConfig.LoggerCfg.MaxBackups,
	},
	&cli.IntFlag{
		Name:        "log.maxAge",
		Usage:       "logger file max age day",
		Value:       30,
		Destination: &DefaultConfig.LoggerCfg.MaxAge,
	},
	&cli.BoolFlag{
		Name:        "log.compress",
		Usage:       "logger file compress",
		Value:       false,
		Destination: &DefaultConfig.LoggerCfg.Compress,
	},
}

var pprofFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:        "pprof",
		Usage:       "Enable the pprof HTTP server",
		Value:       false,
		Destination: &DefaultConfig.PprofCfg.Pprof,
	},
	&cli.BoolFlag{
		Name:        "pprof.block",
		Usage:       "Turn on block profiling",
		Value:       false,
		Destination: &DefaultConfig.PprofCfg.TraceBlock,
	},
	&cli.BoolFlag{
		Name:        "pprof.mutex",
		Usage:       "Turn on mutex profiling",
		Value:       false,
		Destination: &DefaultConfig.PprofCfg.TraceMutex,
	},
	&cli.IntFlag{
		Name:        "pprof.maxcpu",
		Usage:       "setup number of cpu",
		Value:       0,
		Destination: &DefaultConfig.PprofCfg.MaxCpu,
	},
	&cli.IntFlag{
		Name:        "pprof.port",
		Usage:       "pprof HTTP server listening port",
		Value:       20033,
		Destination: &DefaultConfig.PprofCfg.Port,
	},
}

var syncFlags = []cli.Flag{
	&cli.IntFlag{
		Name:        "sync.connections",
		Usage:       "number of parallel block-download channels",
		Value:       DefaultConfig.SyncCfg.DownloadConnections,
		Destination: &DefaultConfig.SyncCfg.DownloadConnections,
	},
	&cli.UintFlag{
		Name:        "sync.blockLatency",
		Usage:       "expected seconds to receive and store one block",
		Value:       uint(DefaultConfig.SyncCfg.BlockLatencySeconds),
	},
	&cli.IntFlag{
		Name:        "sync.batchLimit",
		Usage:       "per-channel buffer of delivered blocks awaiting import",
		Value:       DefaultConfig.SyncCfg.BlockBatchLimit,
		Destination: &DefaultConfig.SyncCfg.BlockBatchLimit,
	},
	&cli.IntFlag{
		Name:        "sync.expirySeconds",
		Usage:       "supervisor poll period for slow-channel eviction",
		Value:       DefaultConfig.SyncCfg.ExpirySeconds,
		Destination: &DefaultConfig.SyncCfg.ExpirySeconds,
	},
}

var configFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "load config from file",
		Value:       "",
		Destination: &cfgFile,
	},
}
