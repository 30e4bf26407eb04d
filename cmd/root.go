package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wegman-software/osmfilter-go/internal/config"
	"github.com/wegman-software/osmfilter-go/internal/driver"
	"github.com/wegman-software/osmfilter-go/internal/filter"
	"github.com/wegman-software/osmfilter-go/internal/lang"
	"github.com/wegman-software/osmfilter-go/internal/logger"
	"github.com/wegman-software/osmfilter-go/internal/metrics"
	"github.com/wegman-software/osmfilter-go/internal/osmio"
	"github.com/wegman-software/osmfilter-go/internal/script"
)

var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "osmfilter INPUT-FILE",
	Short: "Filter OpenStreetMap objects by a boolean expression",
	Long: `osmfilter streams nodes, ways, and relations from an OSM data file,
evaluates a filter expression against each one, and writes the matches
to an output sink (XML, JSON, a PostgreSQL table, or Parquet).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.InputFile = args[0]
		}
		return run(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	flags := rootCmd.Flags()
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "print parsed tree and entity mask to stderr")
	flags.StringVarP(&cfg.OutputFile, "output", "o", "", "output path (default: stdout)")
	flags.StringVarP((*string)(&cfg.OutputFormat), "output-format", "f", string(config.FormatXML), "output format: xml, json, pgcopy, parquet")
	flags.StringVarP(&cfg.Expression, "expression", "e", "", "inline expression text")
	flags.StringVarP(&cfg.ExpressionFile, "expression-file", "E", "", "read expression from file")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "parse only; do not stream")
	flags.BoolVarP(&cfg.CompleteWays, "complete-ways", "w", false, "include all node-refs of matching ways")

	flags.StringVar(&cfg.LogFile, "log-file", "", "path to log file for persistent logging (JSON format)")
	flags.DurationVar(&cfg.MetricsInterval, "metrics-interval", 30*time.Second, "interval for system metrics logging (e.g. 10s, 1m)")
	flags.StringVar(&cfg.PresetsFile, "presets", "", "YAML file of name: expression presets")
	flags.StringVar(&cfg.ScriptFile, "script", "", "Lua script defining an accept(object) predicate, ANDed with the expression")
}

func run(ctx context.Context) error {
	if cfg.LogFile != "" {
		logger.InitWithFile(cfg.Verbose, cfg.LogFile)
	} else {
		logger.Init(cfg.Verbose)
	}
	log := logger.Get()
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return exitCode(2, err)
	}

	exprText := cfg.Expression
	if cfg.ExpressionFile != "" {
		data, err := os.ReadFile(cfg.ExpressionFile)
		if err != nil {
			return exitCode(1, fmt.Errorf("read expression file: %w", err))
		}
		exprText = string(data)
	}
	if cfg.PresetsFile != "" {
		presets, err := config.LoadPresets(cfg.PresetsFile)
		if err != nil {
			return exitCode(1, err)
		}
		exprText = presets.Resolve(exprText)
	}

	tree, err := lang.Parse(exprText)
	if err != nil {
		var perr *lang.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, perr.Render())
			return exitCode(1, nil)
		}
		return exitCode(1, err)
	}

	mask := filter.Analyze(tree)
	if cfg.Verbose {
		fmt.Fprintln(os.Stderr, filter.Render(tree))
		fmt.Fprintf(os.Stderr, "entity mask: %s\n", mask)
	}
	if mask.Empty() {
		fmt.Fprintln(os.Stderr, "osmfilter: filter can never match any object kind")
		return exitCode(1, nil)
	}

	if cfg.DryRun {
		return nil
	}

	var hook *script.Hook
	if cfg.ScriptFile != "" {
		hook, err = script.Load(cfg.ScriptFile)
		if err != nil {
			return exitCode(1, err)
		}
		defer hook.Close()
	}

	writer, err := osmio.OpenOutput(ctx, cfg)
	if err != nil {
		return exitCode(1, err)
	}

	var collector *metrics.Collector
	if cfg.MetricsInterval > 0 {
		collector = metrics.NewCollector(cfg.MetricsInterval, log)
	}

	stats, err := driver.Run(ctx, osmio.Opener(cfg.InputFile, cfg.Verbose), writer, driver.Options{
		Tree:         tree,
		Mask:         mask,
		CompleteWays: cfg.CompleteWays,
		Script:       hook,
		Logger:       log,
		Metrics:      collector,
	})
	if err != nil {
		return exitCode(1, err)
	}

	log.Info("filter complete",
		zap.Int64("scanned", stats.Scanned),
		zap.Int64("matched", stats.Matched),
	)
	fmt.Fprintf(os.Stderr, "matched %s of %s objects\n",
		humanize.Comma(stats.Matched), humanize.Comma(stats.Scanned))
	return nil
}

// cmdError carries the process exit code a failure should produce
// (spec.md §6: -e/-E conflicts and every other Config.Validate failure
// exit 2, every other fatal condition exits 1). Execute's caller
// (main.go) inspects it via ExitCode.
type cmdError struct {
	code int
	err  error
}

func (e *cmdError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// ExitCode extracts the process exit code from an error returned by
// Execute, defaulting to 1 for any error that didn't originate here.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ce, ok := err.(*cmdError); ok {
		return ce.code
	}
	return 1
}

func exitCode(code int, err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, "osmfilter:", err)
	}
	return &cmdError{code: code, err: err}
}
