// Package observe carries use-case telemetry from managers and services to
// the process logger.
package observe

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// UseCaseEvent captures lightweight execution telemetry for one operation.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// Noop ignores all events.
type Noop struct{}

func (Noop) ObserveUseCase(context.Context, UseCaseEvent) {}

type zapObserver struct {
	logger  *zap.Logger
	verbose bool
}

// NewZapObserver logs events to logger. Failures are logged at warn level.
// Successful events are logged at info when verbose and at debug otherwise.
func NewZapObserver(logger *zap.Logger, verbose bool) UseCaseObserver {
	if logger == nil {
		return Noop{}
	}
	return &zapObserver{logger: logger, verbose: verbose}
}

func (o *zapObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 4+len(event.Fields))
	fields = append(fields,
		zap.String("use_case", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
	)
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
		o.logger.Warn("use_case", fields...)
		return
	}
	if o.verbose {
		o.logger.Info("use_case", fields...)
		return
	}
	o.logger.Debug("use_case", fields...)
}

// OrNoop returns the first non-nil observer, or Noop.
func OrNoop(observers ...UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return Noop{}
}

// Track starts timing a use case. Call the returned func with the outcome.
func Track(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(err error) {
	started := time.Now()
	return func(err error) {
		obs.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			Duration:  time.Since(started),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
			StartedAt: started,
		})
	}
}
