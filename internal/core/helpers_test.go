package core

import (
	"context"
	"testing"
	"time"

	"fieldtrax/pkg/quantity"
	"fieldtrax/pkg/tubular"
)

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) count(prefix string) int {
	n := 0
	for _, call := range c.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct{ calls []metricsCall }

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, d time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: d})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, r := range c.ended {
		if r.op == op && (r.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func ft(v float64) quantity.Length { return quantity.Must(quantity.NewLength(v, quantity.Foot)) }

func depthFt(v float64) quantity.Depth { return quantity.Must(quantity.NewDepth(v, quantity.Foot)) }

func inch(v float64) quantity.Diameter {
	return quantity.Must(quantity.NewDiameter(v, quantity.Inch))
}

func psi(v float64) quantity.Pressure { return quantity.Must(quantity.NewPressure(v, quantity.PSI)) }

func casing(t *testing.T, id string, start, length float64) tubular.Component {
	t.Helper()
	c, err := tubular.NewPipe(tubular.Body{
		OuterDiameter:  inch(9.625),
		InnerDiameter:  inch(8.681),
		Length:         ft(length),
		StartDepth:     depthFt(start),
		Grade:          "N80",
		BurstRating:    psi(5750),
		CollapseRating: psi(3090),
	}, tubular.WithID(id))
	if err != nil {
		t.Fatalf("casing: %v", err)
	}
	return c
}

func liner(t *testing.T, id string, start, length, od float64) tubular.Component {
	t.Helper()
	c, err := tubular.NewLiner(tubular.Body{
		OuterDiameter: inch(od),
		InnerDiameter: inch(od - 0.816),
		Length:        ft(length),
		StartDepth:    depthFt(start),
	}, tubular.WithID(id))
	if err != nil {
		t.Fatalf("liner: %v", err)
	}
	return c
}
