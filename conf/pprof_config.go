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

type PprofConfig struct {
	Pprof      bool `json:"pprof" yaml:"pprof"`
	MaxCpu     int  `json:"max_cpu" yaml:"max_cpu"`
	Port       int  `json:"pprof_port" yaml:"pprof_port"`
	TraceMutex bool `json:"trace_mutex" yaml:"trace_mutex"`
	TraceBlock bool `json:"trace_block" yaml:"trace_block"`
}
