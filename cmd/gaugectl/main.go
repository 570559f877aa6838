// Package main provides a CLI that loads attribute templates, optionally runs
// a Lua rule hook against each, and reports the resulting gauges.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/greedflame/internal/config"
	"github.com/cory-johannsen/greedflame/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	templateID := flag.String("template", "", "attribute template to report; empty = all")
	hook := flag.String("hook", "", "Lua hook run against each holder before reporting; empty = none")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := reportOptions{TemplateID: *templateID, Hook: *hook}
	if err := run(cfg, logger, opts, os.Stdout); err != nil {
		logger.Error("gaugectl failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Debug("done", zap.Duration("elapsed", time.Since(start)))
}
