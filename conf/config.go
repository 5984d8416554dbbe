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
	"bufio"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	NodeCfg   NodeConfig   `json:"node" yaml:"node"`
	LoggerCfg LoggerConfig `json:"logger" yaml:"logger"`
	PprofCfg  PprofConfig  `json:"pprof" yaml:"pprof"`
	SyncCfg   SyncConfig   `json:"sync" yaml:"sync"`
}

func SaveConfigToFile(file string, config Config) error {
	if len(file) == 0 {
		file = "./config.yaml"
	}

	fd, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0777)
	if err != nil {
		return err
	}
	defer fd.Close()
	return yaml.NewEncoder(fd).Encode(config)
}

func LoadConfigFromFile(file string, config *Config) error {
	if len(file) <= 0 {
		return fmt.Errorf("failed to load config from file, file is nil")
	}
	fd, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fd.Close()
	reader := bufio.NewReader(fd)
	return yaml.NewDecoder(reader).Decode(config)
}
