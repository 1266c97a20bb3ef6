// Command corvid-uci is the UCI-protocol entry point: it loads config,
// wires up the engine worker, and runs the UCI loop on stdin/stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wrenfield/corvid/internal/config"
	"github.com/wrenfield/corvid/internal/engine"
	"github.com/wrenfield/corvid/internal/logging"
	"github.com/wrenfield/corvid/internal/uci"
)

func main() {
	configPath := flag.String("config", "corvid.toml", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "corvid: failed to load config %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.LogLevel)

	worker := engine.NewWorker(cfg.Hash, cfg.Depth)
	uci.New(worker).Run()
}
