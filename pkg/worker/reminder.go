// Package worker runs the background reminder loop: every tick it asks
// the reminder service to dispatch reminders for appointments entering
// the lookahead window.
package worker

import (
	"context"
	"time"

	"github.com/clinicore/agenda-api/internal/service/reminder"
	"github.com/clinicore/agenda-api/pkg/logger"
)

type ReminderProcessorConfig struct {
	Interval time.Duration
}

type ReminderProcessor struct {
	service  *reminder.Service
	logger   *logger.Logger
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewReminderProcessor(service *reminder.Service, log *logger.Logger, cfg ReminderProcessorConfig) *ReminderProcessor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReminderProcessor{
		service:  service,
		logger:   log,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the dispatch loop until Stop is called or the context is
// cancelled. One batch runs immediately on start so a restarted worker
// does not wait a full interval.
func (p *ReminderProcessor) Start(ctx context.Context) {
	defer close(p.done)

	p.runBatch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.runBatch(ctx)
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop signals the loop to exit and waits for the in-flight batch.
func (p *ReminderProcessor) Stop() {
	close(p.stop)
	<-p.done
}

func (p *ReminderProcessor) runBatch(ctx context.Context) {
	dispatched, err := p.service.DispatchDue(ctx)
	if err != nil {
		p.logger.Error(err, "reminder batch failed")
		return
	}
	p.logger.Info("reminder batch complete", map[string]interface{}{
		"dispatched": dispatched,
	})
}
