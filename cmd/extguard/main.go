package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/extguard/internal/ext/common/clock"
	"github.com/haukened/extguard/internal/ext/common/log"
	"github.com/haukened/extguard/internal/ext/config"
	"github.com/haukened/extguard/internal/ext/repos/denylist"
)

const (
	version = "0.1.0-dev"
	appName = "extguard"
)

// defaultFiles are classified when no filenames are given on the command line.
var defaultFiles = []string{"file1.exe", "document.txt", "script.js", "image.jpeg", "archive.rar", "virus.scr"}

// rootOpts holds flag values. Only flags the user actually set override config.
type rootOpts struct {
	denylist    string
	env         string
	logLevel    string
	cacheSize   int
	bloomFPRate float64
	indexPath   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var le *denylist.LoadError
		if errors.As(err, &le) {
			fmt.Fprintf(stderr, "Error: Could not open file %s\n", le.Path)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   appName + " [filenames...]",
		Short: "extguard flags filenames whose extension is on a denylist",
		Long: `extguard loads a newline-delimited list of file extensions and reports, for every
filename given, whether its extension (text after the last dot, case-insensitive) is on that list.
Without arguments a built-in set of example filenames is checked.

Settings can also be supplied through EXTGUARD_* environment variables; flags take precedence.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.overrides(cmd))
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
				return fmt.Errorf("logging configuration error: %w", err)
			}

			log.Info(map[string]any{
				"version":       version,
				"env":           cfg.Env,
				"log_level":     cfg.LogLevel,
				"denylist_path": cfg.DenylistPath,
				"cache_size":    cfg.CacheSize,
				"bloom_fp_rate": cfg.BloomFPRate,
				"index_path":    cfg.IndexPath,
			}, "Starting extguard")

			app, err := buildApplication(cfg, log.GetLogger(), clock.RealClock{})
			if err != nil {
				return err
			}
			defer func() {
				if cerr := app.Close(); cerr != nil {
					log.Warn(map[string]any{"error": cerr.Error()}, "Error closing denylist store")
				}
			}()

			files := args
			if len(files) == 0 {
				files = defaultFiles
			}
			return app.Run(files, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.denylist, "denylist", "d", config.DEFAULT_APP_CONFIG.DenylistPath, "path to the newline-delimited extension denylist")
	f.StringVar(&opts.env, "env", config.DEFAULT_APP_CONFIG.Env, "runtime environment (dev or prod)")
	f.StringVar(&opts.logLevel, "log-level", config.DEFAULT_APP_CONFIG.LogLevel, "log level (debug, info, warn, error)")
	f.IntVar(&opts.cacheSize, "cache-size", config.DEFAULT_APP_CONFIG.CacheSize, "decision cache entries (0 disables the cache)")
	f.Float64Var(&opts.bloomFPRate, "bloom-fp-rate", config.DEFAULT_APP_CONFIG.BloomFPRate, "bloom prefilter false-positive rate")
	f.StringVar(&opts.indexPath, "index", config.DEFAULT_APP_CONFIG.IndexPath, "optional bbolt index file for the loaded denylist")
	return cmd
}

// overrides returns config keys for every flag explicitly set on the command line.
func (o *rootOpts) overrides(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	f := cmd.Flags()
	if f.Changed("denylist") {
		out["denylist_path"] = o.denylist
	}
	if f.Changed("env") {
		out["env"] = o.env
	}
	if f.Changed("log-level") {
		out["log_level"] = o.logLevel
	}
	if f.Changed("cache-size") {
		out["cache_size"] = o.cacheSize
	}
	if f.Changed("bloom-fp-rate") {
		out["bloom_fp_rate"] = o.bloomFPRate
	}
	if f.Changed("index") {
		out["index_path"] = o.indexPath
	}
	return out
}
