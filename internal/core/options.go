package core

import (
	"fieldtrax/pkg/settings"
	"fieldtrax/pkg/tubular"
)

type serviceOptions struct {
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
	engine  *tubular.RulesEngine // nil selects the default rules
	prefs   settings.UnitPreferences
}

// Option customises a Service.
type Option func(*serviceOptions)

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  noopLogger{},
		clock:   ClockFunc(nil),
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		prefs:   settings.Default(),
	}
}

// WithLogger sets the service logger. Nil keeps the no-op logger.
func WithLogger(l Logger) Option {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source used for reports.
func WithClock(c Clock) Option {
	return func(o *serviceOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithMetricsRecorder sets the recorder observing each operation.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer sets the tracer wrapping each operation.
func WithTracer(t Tracer) Option {
	return func(o *serviceOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithRulesEngine replaces the default string rules.
func WithRulesEngine(e *tubular.RulesEngine) Option {
	return func(o *serviceOptions) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithPreferences sets the unit preferences used for reports and rule messages.
func WithPreferences(p settings.UnitPreferences) Option {
	return func(o *serviceOptions) {
		o.prefs = p
	}
}
