// Command rpsfront is the desktop front-end of RefPerSys. It fingerprints
// strings, validates a RefPerSys installation, loads binary extensions and
// then hands over to the window host.
//
// Usage:
//
//	rpsfront [flags]
//	rpsfront hash [strings...]
//	rpsfront check <dir>
//	rpsfront config init [--system]
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd(newApp(newHeadlessHost())).Execute(); err != nil {
		log.Error().Err(err).Msg("rpsfront failed")
		os.Exit(1)
	}
}
