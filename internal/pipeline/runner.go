package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FZU-N/pylle-toolkit/internal/config"
	"github.com/FZU-N/pylle-toolkit/internal/convert"
	"github.com/FZU-N/pylle-toolkit/internal/display"
	"github.com/FZU-N/pylle-toolkit/internal/logging"
	"github.com/FZU-N/pylle-toolkit/internal/npy"
)

// Run is the top-level batch entry point. It discovers .npy files, converts
// each one sequentially, and returns aggregate stats. Per-file errors are
// logged and counted; none of them aborts the batch.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}

	stats.Total = len(files)
	logBatchHeader(cfg, log, &stats)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		processFile(cfg, log, path, &stats)
	}

	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one .npy file: convert, report the outcome, update stats.
func processFile(cfg *config.Config, log *logging.Logger, path string, stats *RunStats) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	var inSize int64
	if fi, err := os.Stat(path); err == nil {
		inSize = fi.Size()
	}

	if cfg.DryRun {
		processDry(log, path, stats)
		fmt.Println()
		return
	}

	res := convert.ConvertAndReplace(path, cfg.KeepSource)
	if res.Shape != nil {
		log.Info("  Shape: %v | dtype: %s", res.Shape, res.DType)
	}

	switch res.Status {
	case convert.StatusLoadFailed:
		log.Error("Failed to load %s: %v", path, res.Err)
		stats.Failed++

	case convert.StatusRejected:
		log.Warn("%s does not contain a valid RGB image (shape %v), leaving in place", basename, res.Shape)
		stats.Rejected++

	case convert.StatusWriteFailed:
		log.Error("Failed to write %s: %v", res.OutputPath, res.Err)
		stats.Failed++

	case convert.StatusDeleteFailed:
		log.Success("Saved %s", filepath.Base(res.OutputPath))
		log.Error("Could not delete source %s: %v (both files remain; a re-run will reprocess it)", basename, res.Err)
		stats.Failed++
		addOutputBytes(stats, res.OutputPath)

	case convert.StatusConverted:
		log.Success("Saved %s", filepath.Base(res.OutputPath))
		if cfg.KeepSource {
			log.Debug(cfg.Verbose, "Keeping source %s", basename)
		} else {
			log.Success("Deleted original %s", basename)
		}
		stats.Converted++
		stats.TotalInputBytes += inSize
		addOutputBytes(stats, res.OutputPath)
	}

	fmt.Println()
}

// processDry previews one file without touching the filesystem: load, report
// shape and dtype, and say what a real run would do.
func processDry(log *logging.Logger, path string, stats *RunStats) {
	arr, err := npy.Load(path)
	if err != nil {
		log.Error("Failed to load %s: %v", path, err)
		stats.Failed++
		return
	}
	log.Info("  Shape: %v | dtype: %s", arr.Shape, arr.DType)
	if !arr.IsRGB() {
		log.Warn("%s does not contain a valid RGB image (shape %v), leaving in place", filepath.Base(path), arr.Shape)
		stats.Rejected++
		return
	}
	log.Success("[DRY] Would convert to %s", filepath.Base(convert.OutputPath(path)))
	stats.Converted++
}

func addOutputBytes(stats *RunStats, outputPath string) {
	if fi, err := os.Stat(outputPath); err == nil {
		stats.TotalOutputBytes += fi.Size()
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d .npy files", stats.Total)
	if cfg.KeepSource {
		log.Info("Sources: kept after conversion (--keep)")
	} else {
		log.Info("Sources: deleted after successful conversion")
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d rejected, %d failed", stats.Converted, stats.Rejected, stats.Failed)

	if cfg.DryRun {
		log.Info("Space delta: n/a (dry run)")
		return
	}
	if stats.Converted == 0 {
		return
	}

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("Space saved: %s (npy %s -> png %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("Space delta: %s (outputs are larger)",
			display.FormatBytesWithSign(-saved))
	}
}
