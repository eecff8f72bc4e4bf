package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/cwbudde/algo-ringtone/internal/config"
)

const sentryFlushTimeout = 2 * time.Second

// telemetry reports render spans and failures to Sentry when a DSN is
// configured. The zero value is disabled.
type telemetry struct {
	enabled bool
	logger  *slog.Logger
}

func newTelemetry(cfg config.Config, logger *slog.Logger) (*telemetry, error) {
	t := &telemetry{logger: logger}
	if !cfg.SentryEnabled() {
		return t, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.SentryEnvironment,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return t, fmt.Errorf("init sentry: %w", err)
	}

	t.enabled = true
	logger.Debug("sentry enabled", "environment", cfg.SentryEnvironment)
	return t, nil
}

// trace runs fn inside a transaction named op. data is attached to the
// transaction after fn returns.
func (t *telemetry) trace(ctx context.Context, op, description string, fn func(context.Context) (map[string]any, error)) error {
	if t == nil || !t.enabled {
		_, err := fn(ctx)
		return err
	}

	tx := sentry.StartTransaction(ctx, op)
	tx.Description = description
	defer tx.Finish()

	data, err := fn(tx.Context())
	for k, v := range data {
		tx.SetData(k, v)
	}
	if err != nil {
		tx.Status = sentry.SpanStatusInternalError
		return err
	}
	tx.Status = sentry.SpanStatusOK
	return nil
}

func (t *telemetry) capture(err error) {
	if t == nil || !t.enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

func (t *telemetry) close() {
	if t == nil || !t.enabled {
		return
	}
	if !sentry.Flush(sentryFlushTimeout) {
		t.logger.Warn("sentry flush timed out")
	}
}
