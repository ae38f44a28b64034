// cmd/preflight/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hamed0406/sitewatch/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	configPath := flag.String("config", "", "YAML file with endpoints")
	flag.Parse()

	cfg := config.FromEnv()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			fail(err.Error())
		}
		ok("config file loaded: " + *configPath)
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Endpoints = args
	}

	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	}
	ok(fmt.Sprintf("%d endpoint(s), interval %s, timeout %s", len(cfg.Endpoints), cfg.Interval, cfg.Timeout))

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		fail("LOG_DIR not writable: " + err.Error())
	}
	ok("LOG_DIR=" + cfg.LogDir)

	if cfg.APIAddr == "" {
		warn("API_ADDR empty — snapshot API disabled.")
	} else {
		ok("API_ADDR=" + cfg.APIAddr)
	}

	ok("preflight passed")
}
