// Command tally-check validates a tally document, assembles the wellbore
// string it describes and prints a report in the user's preferred units.
//
// Usage:
//
//	tally-check [flags] <tally.yaml>
//
// Exit status is 0 when the string is accepted, 1 when it is rejected by a
// blocking rule or cannot be processed, and 2 for usage errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"fieldtrax/internal/archive"
	"fieldtrax/internal/core"
	"fieldtrax/internal/tally"
	"fieldtrax/pkg/tubular"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

type options struct {
	tallyPath    string
	format       string
	settingsPath string
	region       string
	archive      bool
	archiveKeep  int
	trace        bool
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tally-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.tallyPath, "tally", "", "path to the tally document (YAML or JSON)")
	fs.StringVar(&opts.format, "format", "text", "report format: text|json")
	fs.StringVar(&opts.settingsPath, "settings", "", "unit preference file (overrides "+envSettingsPath+")")
	fs.StringVar(&opts.region, "region", "", "unit preset US|METRIC when no settings file (overrides "+envRegion+")")
	fs.BoolVar(&opts.archive, "archive", false, "store the JSON report in the archive selected by FIELDTRAX_ARCHIVE_*")
	fs.IntVar(&opts.archiveKeep, "archive-keep", 0, "after archiving, keep only the newest N reports (0 keeps all)")
	fs.BoolVar(&opts.trace, "trace", false, "write JSON trace spans to stderr")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "usage: tally-check [flags] <tally.yaml>\n\nflags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(stderr, "\nenvironment: %s\n", strings.Join([]string{
			envSettingsPath, envRegion, envMetrics, envLogFormat, envLogLevel,
			archive.EnvDriver, archive.EnvFSRoot, archive.EnvS3Bucket,
		}, ", "))
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.tallyPath == "" && fs.NArg() > 0 {
		opts.tallyPath = fs.Arg(0)
	}
	if opts.tallyPath == "" {
		_, _ = fmt.Fprintln(stderr, "tally-check: a tally document is required")
		fs.Usage()
		return 2
	}
	if opts.format != "text" && opts.format != "json" {
		_, _ = fmt.Fprintf(stderr, "tally-check: unknown format %q\n", opts.format)
		return 2
	}
	if opts.archiveKeep < 0 {
		_, _ = fmt.Fprintln(stderr, "tally-check: -archive-keep must not be negative")
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tally-check: %v\n", err)
		return 2
	}
	if opts.settingsPath != "" {
		cfg.settingsPath = opts.settingsPath
	}
	if opts.region != "" {
		cfg.region = opts.region
	}

	blocked, err := run(context.Background(), cfg, opts, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Tally check failed: %v\n", err)
		return 1
	}
	if blocked {
		return 1
	}
	return 0
}

// run processes one tally. blocked reports a string rejected by the rules; a
// report is still printed in that case.
func run(ctx context.Context, cfg config, opts options, stdout, stderr io.Writer) (blocked bool, err error) {
	logger := cfg.logger(stderr)
	prefs, err := cfg.preferences()
	if err != nil {
		return false, err
	}

	serviceOpts := []core.Option{core.WithLogger(logger), core.WithPreferences(prefs)}
	if opts.trace {
		serviceOpts = append(serviceOpts, core.WithTracer(core.NewJSONTracer(stderr)))
	}
	var (
		expvarRec *core.ExpvarMetricsRecorder
		registry  *prometheus.Registry
	)
	switch cfg.metrics {
	case metricsExpvar:
		expvarRec = core.NewExpvarMetricsRecorder("")
		serviceOpts = append(serviceOpts, core.WithMetricsRecorder(expvarRec))
	case metricsPrometheus:
		registry = prometheus.NewRegistry()
		rec, err := core.NewPrometheusMetricsRecorder(registry)
		if err != nil {
			return false, err
		}
		serviceOpts = append(serviceOpts, core.WithMetricsRecorder(rec))
	}
	svc := core.NewService(serviceOpts...)

	components, err := decodeTally(opts.tallyPath)
	if err != nil {
		return false, err
	}
	str, res, err := svc.Assemble(ctx, components)
	var rejected tubular.RuleViolationError
	if err != nil && !errors.As(err, &rejected) {
		return false, err
	}
	report, err := svc.Report(ctx, str, res)
	if err != nil {
		return false, err
	}

	if opts.format == "json" {
		err = renderJSON(stdout, report)
	} else {
		err = renderText(stdout, opts.tallyPath, report)
	}
	if err != nil {
		return false, fmt.Errorf("write report: %w", err)
	}

	if opts.archive {
		if err := archiveReport(ctx, report, opts.archiveKeep, logger); err != nil {
			return false, err
		}
	}

	switch {
	case expvarRec != nil:
		err = writeExpvar(stderr, expvarRec)
	case registry != nil:
		err = writePrometheus(stderr, registry)
	}
	if err != nil {
		return false, err
	}
	return report.Blocked, nil
}

func decodeTally(path string) (components []tubular.Component, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read tally: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close tally: %w", cerr)
		}
	}()
	components, err = tally.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return components, nil
}

type infoLogger interface {
	Info(msg string, args ...any)
}

func archiveReport(ctx context.Context, report core.Report, keep int, logger infoLogger) error {
	store, err := archive.Open(ctx)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	info, err := archive.Archive(ctx, store, report)
	if err != nil {
		return fmt.Errorf("archive report: %w", err)
	}
	logger.Info("report archived", "driver", string(store.Driver()), "key", info.Key, "bytes", info.Size)
	if keep > 0 {
		removed, err := archive.Prune(ctx, store, keep)
		if err != nil {
			return fmt.Errorf("prune archive: %w", err)
		}
		if removed > 0 {
			logger.Info("archive pruned", "removed", removed, "kept", keep)
		}
	}
	return nil
}
