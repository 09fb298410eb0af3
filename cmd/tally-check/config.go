package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fieldtrax/pkg/settings"
)

// Environment variables read by the command. Archive variables are read by
// archive.Open.
const (
	envSettingsPath = "FIELDTRAX_SETTINGS_PATH"
	envRegion       = "FIELDTRAX_REGION"
	envMetrics      = "FIELDTRAX_METRICS"
	envLogFormat    = "FIELDTRAX_LOG_FORMAT"
	envLogLevel     = "FIELDTRAX_LOG_LEVEL"
)

const (
	metricsExpvar     = "expvar"
	metricsPrometheus = "prometheus"
)

var getenv = os.Getenv

type config struct {
	settingsPath string
	region       string
	metrics      string
	logFormat    string
	logLevel     slog.Level
}

// loadConfig reads the environment. Flags applied later take precedence.
func loadConfig() (config, error) {
	cfg := config{
		settingsPath: strings.TrimSpace(getenv(envSettingsPath)),
		region:       strings.TrimSpace(getenv(envRegion)),
		metrics:      strings.ToLower(strings.TrimSpace(getenv(envMetrics))),
		logFormat:    strings.ToLower(strings.TrimSpace(getenv(envLogFormat))),
	}
	switch cfg.metrics {
	case "", metricsExpvar, metricsPrometheus:
	default:
		return config{}, fmt.Errorf("%s: unknown metrics exporter %q", envMetrics, cfg.metrics)
	}
	switch cfg.logFormat {
	case "":
		cfg.logFormat = "text"
	case "text", "json":
	default:
		return config{}, fmt.Errorf("%s: unknown log format %q", envLogFormat, cfg.logFormat)
	}
	if raw := strings.TrimSpace(getenv(envLogLevel)); raw != "" {
		if err := cfg.logLevel.UnmarshalText([]byte(raw)); err != nil {
			return config{}, fmt.Errorf("%s: %w", envLogLevel, err)
		}
	} else {
		cfg.logLevel = slog.LevelWarn
	}
	return cfg, nil
}

func (c config) logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.logLevel}
	if c.logFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// preferences loads the settings file when one is configured, otherwise the
// region preset (US by default).
func (c config) preferences() (settings.UnitPreferences, error) {
	if c.settingsPath != "" {
		p, err := settings.LoadFile(c.settingsPath)
		if err != nil {
			return settings.UnitPreferences{}, fmt.Errorf("load settings: %w", err)
		}
		return p, nil
	}
	if c.region == "" {
		return settings.Default(), nil
	}
	region, err := settings.ParseRegion(c.region)
	if err != nil {
		return settings.UnitPreferences{}, err
	}
	return settings.ForRegion(region)
}
