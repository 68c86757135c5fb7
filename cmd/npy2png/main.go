// Command npy2png is the CLI entrypoint for the in-place .npy to .png
// dataset converter.
//
// It parses flags, validates configuration and the input path, then runs the
// sequential conversion pipeline. Per-file failures are reported and counted
// but never change the exit status; non-zero exits are reserved for startup
// errors (bad flags, missing input directory).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/FZU-N/pylle-toolkit/internal/config"
	"github.com/FZU-N/pylle-toolkit/internal/display"
	"github.com/FZU-N/pylle-toolkit/internal/logging"
	"github.com/FZU-N/pylle-toolkit/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "npy2png: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "npy2png: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "npy2png: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner()

	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return 1
	}
	fi, err := os.Stat(inputAbs)
	if err != nil || !fi.IsDir() {
		log.Error("Input is not a directory: %s", cfg.InputDir)
		return 1
	}

	log.Info("=== npy2png v%s (%s) ===", version, commit)
	log.Info("In: %s", cfg.InputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written or deleted")
	} else if !cfg.KeepSource {
		log.Warn("Sources are deleted after conversion; this is irreversible")
	}
	log.Info("")

	// Phase 3: Signal handling. Cancel context on SIGINT/SIGTERM so the
	// pipeline stops between files without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run the batch. Per-file failures appear in the summary and
	// deliberately do not affect the exit status.
	pipeline.Run(ctx, &cfg, log)
	return 0
}

// absPath returns the absolute path with symlinks resolved.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
