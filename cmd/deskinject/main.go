// Package main starts the deskinject server or replays a script.
package main

import (
	"flag"
	"os"
)

// main is the entrypoint for deskinject.
func main() {
	var opts options
	flag.BoolVar(&opts.debug, "debug", false, "Enable verbose debug logging")
	flag.StringVar(&opts.script, "script", "", "Replay a YAML script once and exit")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "With -script, print the events instead of injecting them")
	flag.Parse()

	log := newLogger(opts.debug)
	if err := run(opts, log); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}
