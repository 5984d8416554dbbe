package download

import (
	emclog "github.com/emberchain/emc/log"
)

var log = emclog.New("prefix", "download")
