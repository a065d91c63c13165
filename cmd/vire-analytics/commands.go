package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/vire-analytics/internal/app"
	"github.com/bobmcallan/vire-analytics/internal/common"
	"github.com/bobmcallan/vire-analytics/internal/interfaces"
	"github.com/bobmcallan/vire-analytics/internal/models"
	"github.com/bobmcallan/vire-analytics/internal/services/analytics"
)

// startApp initialises the shared app and prints the banner to stderr.
func startApp(ctx context.Context) (*app.App, error) {
	a, err := app.NewApp(ctx, *configPath)
	if err != nil {
		return nil, err
	}
	if !*quiet {
		common.PrintBanner(os.Stderr, a.Config, a.Logger)
	}
	return a, nil
}

// windowFlags are the report window flags shared by performance and chart.
type windowFlags struct {
	bundle  string
	period  string
	start   string
	end     string
	refresh bool
}

func (w *windowFlags) set(f *flag.FlagSet) {
	f.StringVar(&w.bundle, "bundle", "", "Portfolio bundle JSON file ('-' for stdin)")
	f.StringVar(&w.period, "p", "", "Period code (YTD, 1Y, 3Y, 5Y). Overrides -s and -d.")
	f.StringVar(&w.start, "s", "", "Window start date (YYYY-MM-DD)")
	f.StringVar(&w.end, "d", "", "Window end date (YYYY-MM-DD)")
	f.BoolVar(&w.refresh, "refresh", false, "Ignore any cached report")
}

// options converts the flags into service options.
func (w *windowFlags) options() (interfaces.PerformanceOptions, error) {
	opts := interfaces.PerformanceOptions{Period: w.period, ForceRefresh: w.refresh}
	if w.period != "" {
		return opts, nil
	}
	if w.start == "" || w.end == "" {
		return opts, fmt.Errorf("either -p or both -s and -d are required")
	}
	var err error
	if opts.Start, err = models.ParseDay(w.start); err != nil {
		return opts, fmt.Errorf("parsing start date: %w", err)
	}
	if opts.End, err = models.ParseDay(w.end); err != nil {
		return opts, fmt.Errorf("parsing end date: %w", err)
	}
	return opts, nil
}

// performance

type performanceCmd struct {
	window windowFlags
	out    io.Writer
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "compute returns, risk and benchmark statistics" }
func (*performanceCmd) Usage() string {
	return `vire-analytics performance -bundle <file> (-p <period> | -s <start> -d <end>) [-refresh]

  Prints the performance report for the window as JSON.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) { c.window.set(f) }

func (c *performanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := c.window.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	bundle, err := loadBundle(c.window.bundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := startApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.AnalyticsService.GetPerformance(ctx, bundle, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeJSON(c.out, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// allocation

type allocationCmd struct {
	bundle  string
	date    string
	top     int
	refresh bool
	out     io.Writer
}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "break current holdings down by type, region, sector and currency" }
func (*allocationCmd) Usage() string {
	return `vire-analytics allocation -bundle <file> [-d <date>] [-top <n>] [-refresh]

  Prints the allocation report as of a date (default today) as JSON.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bundle, "bundle", "", "Portfolio bundle JSON file ('-' for stdin)")
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD); defaults to today")
	f.IntVar(&c.top, "top", 0, "Number of top holdings; defaults to the configured value")
	f.BoolVar(&c.refresh, "refresh", false, "Ignore any cached report")
}

func (c *allocationCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts := interfaces.AllocationOptions{TopN: c.top, ForceRefresh: c.refresh}
	if c.date != "" {
		asOf, err := models.ParseDay(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		opts.AsOf = asOf
	}
	bundle, err := loadBundle(c.bundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := startApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.AnalyticsService.GetAllocation(ctx, bundle, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeJSON(c.out, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// chart

type chartCmd struct {
	window windowFlags
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render the daily value series as a PNG chart" }
func (*chartCmd) Usage() string {
	return `vire-analytics chart -bundle <file> (-p <period> | -s <start> -d <end>) -o <file.png>

  Renders portfolio value, and the rebased benchmark when the bundle has one.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.window.set(f)
	f.StringVar(&c.output, "o", "performance.png", "Output PNG file")
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := c.window.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	bundle, err := loadBundle(c.window.bundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := startApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.AnalyticsService.GetPerformance(ctx, bundle, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	png, err := analytics.RenderPerformanceChart(report.DailyValues, analytics.BenchmarkSeries(bundle.BenchmarkPrices))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.output, png, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	a.Logger.Info().Str("file", c.output).Int("bytes", len(png)).Msg("Chart written")
	return subcommands.ExitSuccess
}

// version

type versionCmd struct {
	out io.Writer
}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print version information" }
func (*versionCmd) Usage() string            { return "vire-analytics version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (c *versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	common.LoadVersionFromFile()
	fmt.Fprintln(c.out, common.GetFullVersion())
	return subcommands.ExitSuccess
}
