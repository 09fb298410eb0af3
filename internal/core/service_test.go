package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fieldtrax/pkg/settings"
	"fieldtrax/pkg/tubular"
)

func TestAssembleSuccess(t *testing.T) {
	log := &captureLogger{}
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	svc := NewService(WithLogger(log), WithMetricsRecorder(metrics), WithTracer(tracer))

	str, res, err := svc.Assemble(context.Background(), []tubular.Component{
		casing(t, "csg", 0, 1000),
		liner(t, "lnr", 800, 500, 7),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if str.Len() != 2 || res.HasBlocking() {
		t.Fatalf("unexpected assembly %d %+v", str.Len(), res)
	}
	if !metrics.has("assemble_string", true) || !tracer.has("assemble_string", true) {
		t.Fatalf("expected metrics and trace for assemble_string")
	}
	if log.count("d:operation completed") != 1 {
		t.Fatalf("expected completion debug log, got %v", log.calls)
	}
}

func TestAssembleBlockedByRules(t *testing.T) {
	log := &captureLogger{}
	metrics := &captureMetricsRecorder{}
	svc := NewService(WithLogger(log), WithMetricsRecorder(metrics))

	str, res, err := svc.Assemble(context.Background(), []tubular.Component{
		casing(t, "csg", 0, 1000),
		liner(t, "lnr", 1050, 500, 7),
	})
	var blocked tubular.RuleViolationError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if str == nil || str.Len() != 2 || !res.HasBlocking() || !blocked.Result.HasBlocking() {
		t.Fatalf("expected string and result alongside the error")
	}
	if !metrics.has("assemble_string", false) {
		t.Fatalf("expected failed metrics observation")
	}
	if log.count("e:") < 2 {
		t.Fatalf("expected violation and failure error logs, got %v", log.calls)
	}
}

func TestAssembleAnnotatesComponentIndex(t *testing.T) {
	svc := NewService()
	_, _, err := svc.Assemble(context.Background(), []tubular.Component{
		casing(t, "deep", 1000, 40),
		casing(t, "shallow", 0, 40),
	})
	var order tubular.OutOfOrderError
	if !errors.As(err, &order) || !strings.Contains(err.Error(), "components[1]") {
		t.Fatalf("expected indexed OutOfOrderError, got %v", err)
	}
}

func TestAssembleHonoursCancelledContext(t *testing.T) {
	tracer := &captureTracer{}
	svc := NewService(WithTracer(tracer))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := svc.Assemble(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(tracer.started) != 0 {
		t.Fatalf("expected no span for a cancelled call")
	}
}

func TestCustomRulesEngine(t *testing.T) {
	svc := NewService(WithRulesEngine(tubular.NewRulesEngine()))
	if len(svc.Rules()) != 0 {
		t.Fatalf("expected custom engine to replace defaults")
	}
	_, res, err := svc.Assemble(context.Background(), []tubular.Component{
		casing(t, "csg", 0, 1000),
		liner(t, "lnr", 1050, 500, 7),
	})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("expected no rules to run, got %v %+v", err, res)
	}
}

func TestReport(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	metric, _ := settings.ForRegion(settings.RegionMetric)
	svc := NewService(WithClock(ClockFunc(func() time.Time { return fixed })), WithPreferences(metric))
	str, res, err := svc.Assemble(context.Background(), []tubular.Component{
		casing(t, "csg", 0, 1000),
		liner(t, "lnr", 950, 500, 7),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	report, err := svc.Report(context.Background(), str, res)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.ID == "" || !report.GeneratedAt.Equal(fixed) || report.Region != settings.RegionMetric {
		t.Fatalf("unexpected report header %+v", report)
	}
	if len(report.Components) != 2 || report.Components[1].Kind != tubular.KindLiner || !report.Components[1].Installed {
		t.Fatalf("unexpected component rows %+v", report.Components)
	}
	if report.Components[0].Length != "304.80 m" || report.Components[0].OuterDiameter != "244.475 mm" {
		t.Fatalf("unexpected metric formatting %+v", report.Components[0])
	}
	if !strings.HasSuffix(report.Components[0].Capacity, " m³/m") {
		t.Fatalf("unexpected capacity unit %q", report.Components[0].Capacity)
	}
	if report.Totals.EndDepth != "441.96 m" || report.Totals.Components != 2 {
		t.Fatalf("unexpected totals %+v", report.Totals)
	}
	if len(report.Overlaps) != 1 || report.Overlaps[0].Overlap != "15.24 m" || report.Overlaps[0].Gap {
		t.Fatalf("unexpected overlaps %+v", report.Overlaps)
	}
	if report.Blocked || len(report.Violations) == 0 {
		t.Fatalf("expected non-blocking violations, got %+v", report.Violations)
	}
	if !strings.Contains(report.Violations[0].Message, "15.24 m") {
		t.Fatalf("expected rule messages in metric units, got %q", report.Violations[0].Message)
	}
	if _, err := svc.Report(context.Background(), nil, res); err == nil {
		t.Fatalf("expected nil string error")
	}
}

func TestReportUSCapacity(t *testing.T) {
	svc := NewService()
	str, res, err := svc.Assemble(context.Background(), []tubular.Component{casing(t, "csg", 0, 1000)})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	report, err := svc.Report(context.Background(), str, res)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	row := report.Components[0]
	if row.Capacity != "0.0732 bbl/ft" || row.OuterDiameter != "9.625 in" || row.StartDepth != "0.00 ft" {
		t.Fatalf("unexpected US row %+v", row)
	}
}

func TestDefaultServiceOptions(t *testing.T) {
	opts := defaultServiceOptions()
	if opts.clock == nil || opts.logger == nil || opts.metrics == nil || opts.tracer == nil {
		t.Fatalf("expected defaults populated")
	}
	if opts.prefs.Region != settings.RegionUS {
		t.Fatalf("expected US default preferences")
	}
	_ = opts.clock.Now()
	opts.metrics.Observe(context.Background(), "noop", true, 0)
	_, span := opts.tracer.Start(context.Background(), "noop")
	span.End(nil)
	var l noopLogger
	l.Debug("d", "k", 1)
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	svc := NewService(WithLogger(nil), WithClock(nil), WithMetricsRecorder(nil), WithTracer(nil), WithRulesEngine(nil))
	if svc.logger == nil || svc.clock == nil || svc.metrics == nil || svc.tracer == nil || len(svc.Rules()) != 4 {
		t.Fatalf("nil options must keep defaults")
	}
	if svc.Preferences() != settings.Default() {
		t.Fatalf("unexpected default preferences")
	}
}

func TestClockFunc(t *testing.T) {
	if ClockFunc(nil).Now().IsZero() {
		t.Fatalf("expected nil ClockFunc to report the current time")
	}
	expected := time.Unix(42, 0).UTC()
	if got := ClockFunc(func() time.Time { return expected }).Now(); !got.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}
