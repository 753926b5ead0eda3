// Package jobs runs periodic maintenance on bookings.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Completer completes checked-in bookings that have already ended.
type Completer interface {
	AutoComplete(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewAutoComplete schedules completer on spec (standard 5-field cron). Runs
// never overlap: a tick is skipped while the previous one is still working.
func NewAutoComplete(spec string, completer Completer, timeout time.Duration, log *zap.Logger) (*Scheduler, error) {
	log = log.With(zap.String("job", "auto_complete"))
	clog := cronLogger{log: log.Sugar()}

	c := cron.New(cron.WithLogger(clog), cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := completer.AutoComplete(ctx, time.Now())
		if err != nil {
			log.Error("Auto-complete run failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("Bookings auto-completed", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule auto-complete %q: %w", spec, err)
	}

	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("Scheduler started")
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
