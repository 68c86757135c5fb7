package config

// This file implements CLI flag parsing and help text.
// Boolean override flags (--color/--no-color) are applied after Parse so
// Config defaults hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional arg).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("npy2png", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var over overrideFlags

	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &over)
	defineUtilityFlags(fs, &over)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyOverrideFlags(cfg, &over)

	if over.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if over.showVersion {
		fmt.Fprintln(os.Stdout, "npy2png v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// overrideFlags holds boolean flags that are applied after Parse.
// These either override the color default or trigger exit (showHelp, showVersion).
type overrideFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineBehaviorFlags registers -d/--dry-run and -k/--keep.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not write or delete anything")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.KeepSource, "keep", false, "Keep .npy sources after conversion")
	fs.BoolVar(&cfg.KeepSource, "k", false, "Same as --keep")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.BoolVar(&o.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, o *overrideFlags) {
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&o.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&o.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&o.showHelp, "h", false, "Same as --help")
}

// applyOverrideFlags copies override flag values into cfg.
func applyOverrideFlags(cfg *Config, o *overrideFlags) {
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir from the single positional arg.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input_dir argument")
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 24 // width of "  -x, --long-name  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "npy2png v" + version + " - in-place .npy to .png dataset converter"},
		{"", ""},
		{"  npy2png [OPTIONS] <input_dir>", ""},
		{"", ""},
		{"", "Walks input_dir, converts every HxWx3 .npy array to a .png next"},
		{"", "to it (swapping the first and third channel planes), and deletes"},
		{"", "the source file. Files that are not 3-channel images are left"},
		{"", "in place."},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Preview only; do not write or delete anything"},
		{"  -k, --keep", "Keep .npy sources after conversion"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
