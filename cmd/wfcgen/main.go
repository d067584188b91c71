// Command wfcgen drives the tile-map generation engine from a terminal:
// generate a map to a file, serve the websocket host protocol, validate a
// catalog file, or replay a recorded event log.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
