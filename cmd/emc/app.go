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
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/emberchain/emc/conf"
	"github.com/emberchain/emc/internal/node"
	"github.com/emberchain/emc/log"
	zaplog "github.com/emberchain/emc/log/zap"
	"github.com/urfave/cli/v2"
)

func appRun(ctx *cli.Context) error {

	if len(cfgFile) > 0 {
		if err := conf.LoadConfigFromFile(cfgFile, &DefaultConfig); err != nil {
			return err
		}
	}
	mergeFlags(ctx, &DefaultConfig)

	log.Init(DefaultConfig.NodeCfg, DefaultConfig.LoggerCfg)
	zapLog, err := Init(&DefaultConfig.NodeCfg, &DefaultConfig.LoggerCfg)
	if err != nil {
		return err
	}
	log.SetRoot(zaplog.NewLogger(zapLog))

	c, cancel := context.WithCancel(context.Background())

	if DefaultConfig.PprofCfg.Pprof {
		if DefaultConfig.PprofCfg.MaxCpu > 0 {
			runtime.GOMAXPROCS(DefaultConfig.PprofCfg.MaxCpu)
		}
		if DefaultConfig.PprofCfg.TraceMutex {
			runtime.SetMutexProfileFraction(1)
		}
		if DefaultConfig.PprofCfg.TraceBlock {
			runtime.SetBlockProfileRate(1)
		}

		go func() {
			if err := http.ListenAndServe(fmt.Sprintf(":%d", DefaultConfig.PprofCfg.Port), nil); err != nil {
				log.Errorf("failed to setup go pprof, err: %v", err)
				os.Exit(0)
			}
		}()
	}

	n, err := node.NewNode(c, &DefaultConfig)
	if err != nil {
		cancel()
		return err
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	appWait(cancel, &wg)
	n.Close()
	wg.Wait()

	return nil
}

func appWait(cancelFunc context.CancelFunc, group *sync.WaitGroup) {
	sigs := make(chan os.Signal, 1)
	done := make(chan bool, 1)

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		log.Info(sig.String())
		done <- true
	}()

	log.Info("waiting signal ...")
	<-done
	log.Info("app quit ...")
	cancelFunc()
	group.Done()
}
