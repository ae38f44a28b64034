package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/config"
	"github.com/hamed0406/sitewatch/internal/history"
	"github.com/hamed0406/sitewatch/internal/httpapi"
	"github.com/hamed0406/sitewatch/internal/logging"
	"github.com/hamed0406/sitewatch/internal/probe"
	"github.com/hamed0406/sitewatch/internal/render"
	"github.com/hamed0406/sitewatch/internal/scheduler"
)

func main() {
	interval := flag.Int("interval", 0, "check interval in seconds (overrides CHECK_INTERVAL_S)")
	configPath := flag.String("config", "", "YAML file with endpoints (used when no URLs are given)")
	noColor := flag.Bool("no-color", false, "disable ANSI colors and screen clearing")
	flag.Parse()

	cfg := config.FromEnv()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "configuration error:", err)
			os.Exit(1)
		}
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Endpoints = args
	}
	if *interval > 0 {
		cfg.Interval = time.Duration(*interval) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	latest := &render.Latest{}
	term := render.NewTerminal(os.Stdout)
	term.NoColor = *noColor
	presenter := render.Multi{term, latest}

	if cfg.APIAddr != "" {
		srv := &http.Server{
			Addr:    cfg.APIAddr,
			Handler: httpapi.NewServer(logger, latest).Router(),
		}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("api_error", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	sched := scheduler.New(
		logger,
		cfg.Endpoints,
		probe.NewHTTPChecker(),
		history.New(history.DefaultSize),
		presenter,
		cfg.Interval,
		cfg.Timeout,
		cfg.Concurrency,
	)

	fmt.Println("Starting monitoring...")
	logger.Info("monitor_start",
		zap.Strings("endpoints", cfg.Endpoints),
		zap.Duration("interval", cfg.Interval),
		zap.Duration("timeout", cfg.Timeout),
	)

	sched.Run(ctx)

	fmt.Println("\nStopping monitoring...")
}
