// Command inspect runs the extraction pipeline over local files and prints one JSON
// report per line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BerylCAtieno/file-forensics-api/internal/cache"
	"github.com/BerylCAtieno/file-forensics-api/internal/config"
	"github.com/BerylCAtieno/file-forensics-api/internal/services"
	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
	"github.com/BerylCAtieno/file-forensics-api/internal/worker"
)

func main() {
	workers := flag.Int("workers", 4, "number of concurrent workers")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: inspect [-workers n] file...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout carries reports; logs go to stderr
	logger := utils.NewLoggerWithWriter(os.Stderr, cfg.LogLevel)

	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize artifact storage", "error", err)
	}

	var resultCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		if rc, err := cache.NewRedisCache(cfg); err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
		} else {
			resultCache = rc
		}
	}

	pipeline, err := services.NewPipelineFromConfig(cfg, store, resultCache, logger)
	if err != nil {
		logger.Fatal("Failed to configure extractors", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool(*workers, pipeline, logger)
	pool.Start()

	go func() {
		<-ctx.Done()
		pool.Cancel()
	}()

	go func() {
		for _, path := range flag.Args() {
			if !pool.Submit(worker.Job{Ctx: ctx, Path: path}) {
				break
			}
		}
		pool.Shutdown()
	}()

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for res := range pool.Results() {
		if res.Err != nil {
			failed++
			logger.Error("Failed to inspect file", "path", res.Path, "error", res.Err)
			continue
		}
		if err := enc.Encode(res.Report); err != nil {
			logger.Fatal("Failed to write report", "error", err)
		}
	}

	if ctx.Err() != nil {
		logger.Warn("Interrupted, remaining files skipped")
		os.Exit(130)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
