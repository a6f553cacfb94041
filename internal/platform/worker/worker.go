// Package worker provides the ticker loop abstraction shared by the sync and
// backup workers: periodic execution, context cancellation, and panic
// recovery.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const logFieldWorker = "worker"

// SingleTickerConfig configures a loop with one main ticker and an optional
// secondary ticker.
type SingleTickerConfig struct {
	// Name identifies the worker for logging.
	Name string

	// Interval is the main ticker interval.
	Interval time.Duration

	// OnTick is called when the main ticker fires.
	OnTick func(ctx context.Context)

	// RunOnStart runs OnTick immediately when starting.
	RunOnStart bool

	// SecondaryInterval is the interval for secondary periodic tasks (0 to disable).
	SecondaryInterval time.Duration

	// OnSecondaryTick is called when the secondary ticker fires.
	OnSecondaryTick func(ctx context.Context)

	// Logger for the worker.
	Logger *zerolog.Logger
}

// SingleTickerLoop runs the configured loop until the context is canceled.
// Returns a wrapped context error on cancellation.
func SingleTickerLoop(ctx context.Context, cfg SingleTickerConfig) error {
	logger := getLogger(cfg.Logger)
	logger.Info().Str(logFieldWorker, cfg.Name).Msg("starting single ticker loop")

	defer logger.Info().Str(logFieldWorker, cfg.Name).Msg("single ticker loop stopped")

	if cfg.RunOnStart && cfg.OnTick != nil {
		cfg.OnTick(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	if cfg.SecondaryInterval > 0 {
		secondaryTicker := time.NewTicker(cfg.SecondaryInterval)
		defer secondaryTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return fmt.Errorf("single ticker loop %s: %w", cfg.Name, ctx.Err())
			case <-ticker.C:
				if cfg.OnTick != nil {
					cfg.OnTick(ctx)
				}
			case <-secondaryTicker.C:
				if cfg.OnSecondaryTick != nil {
					cfg.OnSecondaryTick(ctx)
				}
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("single ticker loop %s: %w", cfg.Name, ctx.Err())
		case <-ticker.C:
			if cfg.OnTick != nil {
				cfg.OnTick(ctx)
			}
		}
	}
}

// Wait blocks until duration elapses or context is canceled.
// Returns a wrapped context error if context is canceled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// RecoverPanic recovers from panics and logs them.
// Use as: defer worker.RecoverPanic(logger, "operation name")
func RecoverPanic(logger *zerolog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error().
			Interface("panic", r).
			Str("operation", operation).
			Msg("recovered from panic")
	}
}

func getLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()

		return &nop
	}

	return logger
}
