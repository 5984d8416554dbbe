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

type NodeConfig struct {
	NodePrivate string `json:"private" yaml:"private"`
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	Chain       string `json:"chain" yaml:"chain"`
	Metrics     bool   `json:"metrics" yaml:"metrics"`
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
}
