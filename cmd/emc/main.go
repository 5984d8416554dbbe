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
	"fmt"
	"os"

	"github.com/emberchain/emc/version"
	"github.com/urfave/cli/v2"
)

func main() {
	flags := append(nodeFlags, loggerFlags...)
	flags = append(flags, pprofFlags...)
	flags = append(flags, syncFlags...)
	flags = append(flags, configFlags...)

	app := &cli.App{
		Name:                   "emc",
		Usage:                  "EmberChain system",
		Flags:                  flags,
		Version:                version.FormatVersion(),
		UseShortOptionHandling: true,
		Action:                 appRun,
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Printf("failed emc system setup %v", err)
	}
}
