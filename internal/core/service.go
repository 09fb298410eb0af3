// Package core assembles wellbore strings from decoded components, evaluates
// the string rules and renders reports in the user's preferred units. Each
// operation is traced, timed and logged through injected hooks.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldtrax/pkg/settings"
	"fieldtrax/pkg/tubular"
)

// Service runs string assembly and reporting.
type Service struct {
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
	engine  *tubular.RulesEngine
	prefs   settings.UnitPreferences
}

// NewService constructs a service. Without WithRulesEngine the built-in rules
// are registered with messages formatted in the configured preferences.
func NewService(opts ...Option) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		cfg := DefaultRuleConfig()
		cfg.Preferences = o.prefs
		o.engine = NewDefaultRulesEngine(cfg)
	}
	return &Service{
		logger:  o.logger,
		clock:   o.clock,
		metrics: o.metrics,
		tracer:  o.tracer,
		engine:  o.engine,
		prefs:   o.prefs,
	}
}

// Preferences returns the unit preferences used for reports.
func (s *Service) Preferences() settings.UnitPreferences { return s.prefs }

// Rules returns the names of the registered rules.
func (s *Service) Rules() []string { return s.engine.Rules() }

// Assemble appends components in order and evaluates the rules. Blocking
// violations return the string and result together with a RuleViolationError.
func (s *Service) Assemble(ctx context.Context, components []tubular.Component) (*tubular.String, tubular.Result, error) {
	str := tubular.NewString()
	var res tubular.Result
	err := s.run(ctx, "assemble_string", func(ctx context.Context) error {
		for i, c := range components {
			if _, err := str.Append(c); err != nil {
				return fmt.Errorf("components[%d]: %w", i, err)
			}
		}
		var err error
		res, err = s.engine.Evaluate(ctx, str)
		if err != nil {
			return fmt.Errorf("evaluate rules: %w", err)
		}
		for _, v := range res.Violations {
			s.logViolation(v)
		}
		if res.HasBlocking() {
			return tubular.RuleViolationError{Result: res}
		}
		return nil
	})
	return str, res, err
}

func (s *Service) logViolation(v tubular.Violation) {
	args := []any{"rule", v.Rule, "component", v.ComponentID}
	switch v.Severity {
	case tubular.SeverityBlock:
		s.logger.Error(v.Message, args...)
	case tubular.SeverityWarn:
		s.logger.Warn(v.Message, args...)
	default:
		s.logger.Debug(v.Message, args...)
	}
}

// Report renders str and its rule result.
func (s *Service) Report(ctx context.Context, str *tubular.String, res tubular.Result) (Report, error) {
	var report Report
	err := s.run(ctx, "render_report", func(context.Context) error {
		if str == nil {
			return errors.New("report requires a string")
		}
		report = buildReport(str, res, s.prefs, s.clock.Now().UTC())
		return nil
	})
	return report, err
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := s.tracer.Start(ctx, op)
	started := time.Now()
	err := fn(ctx)

	duration := time.Since(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "error", err, "duration", duration)
	} else {
		s.logger.Debug("operation completed", "operation", op, "duration", duration)
	}
	return err
}
